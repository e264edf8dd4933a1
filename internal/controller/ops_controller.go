package controller

import (
	"context"
	"strings"

	"graphrag-chatbot-be/internal/pkg/logger"
	"graphrag-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultLogsLimit = 50
	maxLogsLimit     = 500
)

// TripleFinder is the fact-store slice the ops endpoints expose for
// knowledge inspection.
type TripleFinder interface {
	QueryByParts(ctx context.Context, subject, predicate, object string) ([]string, error)
}

type IOpsController interface {
	RegisterRoutes(r fiber.Router)
	Logs(ctx *fiber.Ctx) error
	LogDetail(ctx *fiber.Ctx) error
	Triples(ctx *fiber.Ctx) error
}

type opsController struct {
	logger logger.ILogger
	facts  TripleFinder
}

func NewOpsController(log logger.ILogger, facts TripleFinder) IOpsController {
	return &opsController{
		logger: log,
		facts:  facts,
	}
}

func (c *opsController) RegisterRoutes(r fiber.Router) {
	ops := r.Group("ops", serverutils.JwtMiddleware)
	ops.Get("logs", c.Logs)
	ops.Get("logs/:id", c.LogDetail)
	ops.Get("triples", c.Triples)
}

func (c *opsController) Logs(ctx *fiber.Ctx) error {
	level := strings.ToUpper(ctx.Query("level", ""))
	limit := ctx.QueryInt("limit", defaultLogsLimit)
	if limit < 1 || limit > maxLogsLimit {
		limit = defaultLogsLimit
	}
	offset := ctx.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *opsController) LogDetail(ctx *fiber.Ctx) error {
	entry, err := c.logger.GetLogById(ctx.Params("id"))
	if err != nil || entry == nil {
		return fiber.NewError(fiber.StatusNotFound, "log not found")
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", entry))
}

// Triples looks up knowledge-store facts by any combination of subject,
// predicate and object. At least one part is required.
func (c *opsController) Triples(ctx *fiber.Ctx) error {
	subject := ctx.Query("subject", "")
	predicate := ctx.Query("predicate", "")
	object := ctx.Query("object", "")

	if strings.TrimSpace(subject+predicate+object) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "at least one of subject, predicate, object is required")
	}

	triples, err := c.facts.QueryByParts(ctx.Context(), subject, predicate, object)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Matched triples", fiber.Map{
		"count":   len(triples),
		"triples": triples,
	}))
}
