package controller

import (
	"time"

	"graphrag-chatbot-be/internal/dto"
	"graphrag-chatbot-be/internal/pkg/serverutils"
	"graphrag-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultAnalyticsWindowDays = 7

type IConversationController interface {
	RegisterRoutes(r fiber.Router)
	History(ctx *fiber.Ctx) error
	SessionSummary(ctx *fiber.Ctx) error
	Analytics(ctx *fiber.Ctx) error
	Cleanup(ctx *fiber.Ctx) error
	UpdateQuality(ctx *fiber.Ctx) error
}

type conversationController struct {
	conversationService service.IConversationService
}

func NewConversationController(conversationService service.IConversationService) IConversationController {
	return &conversationController{
		conversationService: conversationService,
	}
}

func (c *conversationController) RegisterRoutes(r fiber.Router) {
	r.Get("conversation-history/:session_id", c.History)
	r.Get("session-summary/:session_id", c.SessionSummary)
	r.Get("analytics", c.Analytics)
	r.Post("cleanup-old-sessions", serverutils.JwtMiddleware, c.Cleanup)
	r.Post("update-message-quality", c.UpdateQuality)
}

func (c *conversationController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	res, err := c.conversationService.GetHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get conversation history", res))
}

func (c *conversationController) SessionSummary(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	res, err := c.conversationService.GetSessionSummary(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session summary", res))
}

func (c *conversationController) Analytics(ctx *fiber.Ctx) error {
	days := ctx.QueryInt("days", defaultAnalyticsWindowDays)
	if days < 1 {
		days = defaultAnalyticsWindowDays
	}
	since := time.Now().AddDate(0, 0, -days)

	res, err := c.conversationService.GetAnalytics(ctx.Context(), since)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics", res))
}

func (c *conversationController) Cleanup(ctx *fiber.Ctx) error {
	var req dto.CleanupSessionsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.CleanupOldSessions(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cleanup old sessions", res))
}

func (c *conversationController) UpdateQuality(ctx *fiber.Ctx) error {
	var req dto.UpdateMessageQualityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.conversationService.UpdateMessageQuality(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update message quality", nil))
}
