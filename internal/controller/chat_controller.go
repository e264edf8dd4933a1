package controller

import (
	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/serverutils"
	"graphrag-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	DiscoveryAnswer(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("generate", c.Generate)
	r.Post("discovery-answer", c.DiscoveryAnswer)
}

// Generate always answers 200 with a response body; pipeline failures are
// already converted to a generic-error answer inside the service.
func (c *chatController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.chatService.Generate(ctx.Context(), &req)
	return ctx.JSON(res)
}

func (c *chatController) DiscoveryAnswer(ctx *fiber.Ctx) error {
	var req dto.DiscoveryAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.DiscoveryAnswer(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
