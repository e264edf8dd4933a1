package controller

import (
	"time"

	"graphrag-chatbot-be/pkg/rag"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	serviceName    = "graphrag-chatbot-be"
	serviceVersion = "2.0.0"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	DetailedHealth(ctx *fiber.Ctx) error
}

type healthController struct {
	db     *gorm.DB
	engine *rag.Engine
}

func NewHealthController(db *gorm.DB, engine *rag.Engine) IHealthController {
	return &healthController{
		db:     db,
		engine: engine,
	}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("health", c.Health)
	r.Get("health/detailed", c.DetailedHealth)
}

// Health is the fast liveness probe, no dependency checks.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   serviceName,
		"version":   serviceVersion,
	})
}

// DetailedHealth checks the database and reports circuit-breaker states
// for the provider endpoints. Degraded components never fail the probe.
func (c *healthController) DetailedHealth(ctx *fiber.Ctx) error {
	components := fiber.Map{"api": "ok"}
	status := "healthy"

	dbStatus := "ok"
	if sqlDB, err := c.db.DB(); err != nil {
		dbStatus = "error"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error"
	}
	if dbStatus != "ok" {
		status = "degraded"
	}
	components["database"] = dbStatus

	breakers := c.engine.BreakerStates()
	components["provider_breakers"] = breakers
	for _, state := range breakers {
		if state == "open" {
			status = "degraded"
		}
	}

	return ctx.JSON(fiber.Map{
		"status":     status,
		"timestamp":  time.Now().Format(time.RFC3339),
		"service":    serviceName,
		"version":    serviceVersion,
		"components": components,
	})
}
