package controller

import (
	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/serverutils"
	"graphrag-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IConsultationController interface {
	RegisterRoutes(r fiber.Router)
	RequestConsultant(ctx *fiber.Ctx) error
	RequestDemo(ctx *fiber.Ctx) error
}

type consultationController struct {
	consultantService service.IConsultantService
	demoService       service.IDemoService
}

func NewConsultationController(consultantService service.IConsultantService, demoService service.IDemoService) IConsultationController {
	return &consultationController{
		consultantService: consultantService,
		demoService:       demoService,
	}
}

func (c *consultationController) RegisterRoutes(r fiber.Router) {
	r.Post("request-consultant", c.RequestConsultant)
	r.Post("request-demo", c.RequestDemo)
}

func (c *consultationController) RequestConsultant(ctx *fiber.Ctx) error {
	var req dto.RequestConsultantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.consultantService.RequestConsultation(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *consultationController) RequestDemo(ctx *fiber.Ctx) error {
	var req dto.RequestDemoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.demoService.RequestDemo(ctx.Context(), &req)
	if err != nil {
		return err
	}

	status := fiber.StatusOK
	if !res.Success {
		status = fiber.StatusBadGateway
	}
	return ctx.Status(status).JSON(res)
}
