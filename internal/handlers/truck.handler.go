package handlers

import (
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	truckController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/truck"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type TruckHandler struct {
	Handler
	controller *truckController.TruckController
}

func NewTruckHandler(app *app.App, router fiber.Router) *TruckHandler {
	log := logger.New("handlers").File("truck_handler")
	return &TruckHandler{
		controller: app.TruckController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *TruckHandler) Register() {
	trucks := h.router.Group("/trucks")
	trucks.Get("/", h.search)
	trucks.Get("/makes", h.makes)
	trucks.Get("/common-issues", h.commonIssues)
	trucks.Get("/:id", h.getByID)
}

func (h *TruckHandler) search(c *fiber.Ctx) error {
	year := c.QueryInt("year", 0)

	trucks, err := h.controller.Search(c.UserContext(), c.Query("make"), c.Query("model"), year)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to search trucks"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"trucks":  trucks,
		"count":   len(trucks),
		"source":  h.controller.Mode(),
	})
}

func (h *TruckHandler) getByID(c *fiber.Ctx) error {
	truck, err := h.controller.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to get truck"})
	}
	if truck == nil {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"success": false, "error": "truck not found"})
	}

	return c.JSON(fiber.Map{"success": true, "truck": truck})
}

func (h *TruckHandler) makes(c *fiber.Ctx) error {
	makes, err := h.controller.Makes(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to list makes"})
	}

	return c.JSON(fiber.Map{"success": true, "makes": makes})
}

func (h *TruckHandler) commonIssues(c *fiber.Ctx) error {
	issues, err := h.controller.CommonIssues(c.UserContext(), c.Query("make"), c.Query("model"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to list common issues"})
	}

	return c.JSON(fiber.Map{"success": true, "issues": issues})
}
