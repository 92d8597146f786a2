package handlers

import (
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler reports process liveness plus which optional subsystems
// are active. It never touches the AI providers; GET /api/ai/health does
// the expensive probes.
func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success":      true,
			"status":       "ok",
			"databaseMode": app.TruckController.Mode(),
			"aiConfigured": app.Config.HasAnyProvider(),
			"cache":        app.Config.HasCache(),
			"wsClients":    app.Websocket.ClientCount(),
		})
	})
}
