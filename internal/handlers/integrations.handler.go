package handlers

import (
	"errors"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	chatController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/chat"
	diagnosisController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/diagnosis"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"

	"github.com/gofiber/fiber/v2"
)

const defaultHistoryLimit = 50

// IntegrationsHandler serves the saved-history surface: diagnosis sessions
// and chat conversations the client explicitly asked to keep.
type IntegrationsHandler struct {
	Handler
	diagnosisController *diagnosisController.DiagnosisController
	chatController      *chatController.ChatController
}

func NewIntegrationsHandler(app *app.App, router fiber.Router) *IntegrationsHandler {
	log := logger.New("handlers").File("integrations_handler")
	return &IntegrationsHandler{
		diagnosisController: app.DiagnosisController,
		chatController:      app.ChatController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *IntegrationsHandler) Register() {
	integrations := h.router.Group("/integrations")
	integrations.Post("/history", h.saveSession)
	integrations.Get("/history", h.getSessions)
	integrations.Get("/history/:id", h.getSessionByID)
	integrations.Delete("/history/:id", h.deleteSession)

	integrations.Post("/conversations", h.saveConversation)
	integrations.Get("/conversations", h.getConversations)
}

type saveSessionRequest struct {
	Request   DiagnosisRequest `json:"request"`
	Diagnosis Diagnosis        `json:"diagnosis"`
}

func (h *IntegrationsHandler) saveSession(c *fiber.Ctx) error {
	log := h.log.Function("saveSession")

	var body saveSessionRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse save request", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}

	session, err := h.diagnosisController.SaveSession(c.UserContext(), &body.Request, &body.Diagnosis)
	if err != nil {
		if errors.Is(err, diagnosisController.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to save session"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "session": session})
}

func (h *IntegrationsHandler) getSessions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)

	sessions, err := h.diagnosisController.GetSessions(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load sessions"})
	}

	return c.JSON(fiber.Map{"success": true, "sessions": sessions, "count": len(sessions)})
}

func (h *IntegrationsHandler) getSessionByID(c *fiber.Ctx) error {
	session, err := h.diagnosisController.GetSessionByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load session"})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"success": false, "error": "session not found"})
	}

	return c.JSON(fiber.Map{"success": true, "session": session})
}

func (h *IntegrationsHandler) deleteSession(c *fiber.Ctx) error {
	err := h.diagnosisController.DeleteSession(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, diagnosisController.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to delete session"})
	}

	return c.JSON(fiber.Map{"success": true})
}

type saveConversationRequest struct {
	Request ChatRequest `json:"request"`
	Reply   *ChatReply  `json:"reply,omitempty"`
}

func (h *IntegrationsHandler) saveConversation(c *fiber.Ctx) error {
	log := h.log.Function("saveConversation")

	var body saveConversationRequest
	if err := c.BodyParser(&body); err != nil {
		log.Er("failed to parse conversation", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}

	conversation, err := h.chatController.SaveConversation(c.UserContext(), &body.Request, body.Reply)
	if err != nil {
		if errors.Is(err, chatController.ErrInvalidChat) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to save conversation"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "conversation": conversation})
}

func (h *IntegrationsHandler) getConversations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)

	conversations, err := h.chatController.GetConversations(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load conversations"})
	}

	return c.JSON(fiber.Map{"success": true, "conversations": conversations, "count": len(conversations)})
}
