package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/baholash/baholash-api/internal/config"
	"github.com/baholash/baholash-api/internal/handler"
	"github.com/baholash/baholash-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.EvaluationHandler != nil {
		sessions := api.Group("/sessions")
		deps.EvaluationHandler.Register(sessions)
	}
}
