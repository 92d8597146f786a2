package handlers

import (
	"errors"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/ai"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	chatController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/chat"
	diagnosisController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/diagnosis"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/websockets"

	"github.com/gofiber/fiber/v2"
)

type AIHandler struct {
	Handler
	diagnosisController *diagnosisController.DiagnosisController
	chatController      *chatController.ChatController
	aiService           *ai.Service
	websocket           *websockets.Manager
	missingVariables    []string
}

func NewAIHandler(app *app.App, router fiber.Router) *AIHandler {
	log := logger.New("handlers").File("ai_handler")
	return &AIHandler{
		diagnosisController: app.DiagnosisController,
		chatController:      app.ChatController,
		aiService:           app.AIService,
		websocket:           app.Websocket,
		missingVariables:    app.Config.MissingAIVariables(),
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *AIHandler) Register() {
	aiGroup := h.router.Group("/ai")
	aiGroup.Get("/diagnose", h.diagnoseInfo)
	aiGroup.Post("/diagnose", h.diagnose)
	aiGroup.Post("/chat", h.chat)
	aiGroup.Get("/health", h.health)
}

// diagnoseInfo lets clients check what the diagnosis endpoint needs
// before paying for a provider round trip.
func (h *AIHandler) diagnoseInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":    true,
		"configured": h.aiService.Configured(),
		"providers":  h.aiService.ProviderNames(),
		"usage":      "POST a JSON body with truck, symptoms, and optional urgency",
	})
}

func (h *AIHandler) diagnose(c *fiber.Ctx) error {
	log := h.log.Function("diagnose")

	if !h.aiService.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success":          false,
			"error":            "AI diagnosis service is not configured",
			"missingVariables": h.missingVariables,
		})
	}

	var request DiagnosisRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse diagnosis request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}

	diagnosis, attempts, err := h.diagnosisController.Diagnose(c.UserContext(), &request)
	if err != nil {
		return h.diagnosisError(c, err, attempts)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"result":       diagnosis.Result,
		"provider":     diagnosis.Provider,
		"fallbackUsed": diagnosis.FallbackUsed,
	})
}

func (h *AIHandler) chat(c *fiber.Ctx) error {
	log := h.log.Function("chat")

	if !h.aiService.Configured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success":          false,
			"error":            "AI chat service is not configured",
			"missingVariables": h.missingVariables,
		})
	}

	var request ChatRequest
	if err := c.BodyParser(&request); err != nil {
		log.Er("failed to parse chat request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}

	reply, attempts, err := h.chatController.Chat(c.UserContext(), &request)
	if err != nil {
		return h.diagnosisError(c, err, attempts)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"reply":        reply.Reply,
		"provider":     reply.Provider,
		"fallbackUsed": reply.FallbackUsed,
	})
}

// health probes every known provider fresh on each call and pushes the
// snapshot to connected websocket clients so dashboards refresh without
// polling.
func (h *AIHandler) health(c *fiber.Ctx) error {
	statuses := h.aiService.CheckHealth(c.UserContext())

	healthy := false
	for _, status := range statuses {
		if status.IsHealthy {
			healthy = true
			break
		}
	}

	h.websocket.Broadcast("ai-health", statuses)

	return c.JSON(fiber.Map{
		"success":   true,
		"healthy":   healthy,
		"providers": statuses,
	})
}

func (h *AIHandler) diagnosisError(c *fiber.Ctx, err error, attempts []ai.Attempt) error {
	switch {
	case errors.Is(err, diagnosisController.ErrInvalidRequest),
		errors.Is(err, chatController.ErrInvalidChat):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": err.Error()})
	case errors.Is(err, ai.ErrAllProvidersUnavailable):
		failures := make([]fiber.Map, 0, len(attempts))
		for _, attempt := range attempts {
			failure := fiber.Map{"provider": attempt.Provider}
			if attempt.Err != "" {
				failure["error"] = attempt.Err
			}
			failures = append(failures, failure)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success":  false,
			"error":    "all AI providers are currently unavailable",
			"attempts": failures,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "diagnosis failed"})
	}
}
