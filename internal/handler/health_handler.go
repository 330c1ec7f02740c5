package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baholash/baholash-api/internal/config"
	"github.com/baholash/baholash-api/internal/utils"
)

// HealthResponse reports service status plus the evaluation limits the
// browser form needs up front (which model grades and how large an upload
// may be).
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Model       string    `json:"model"`
	UploadMaxMB int       `json:"upload_max_mb"`
}

// HealthCheck returns a handler that reports application health information.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Model:       cfg.AIModel,
			UploadMaxMB: cfg.UploadMaxMB,
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
