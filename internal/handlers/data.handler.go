package handlers

import (
	"errors"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	locationController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/location"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"

	"github.com/gofiber/fiber/v2"
)

const defaultSearchRadiusKm = 80

type DataHandler struct {
	Handler
	app                *app.App
	dataRepo           repositories.DataRepository
	locationController *locationController.LocationController
	staticData         *staticdata.Store
}

func NewDataHandler(app *app.App, router fiber.Router) *DataHandler {
	log := logger.New("handlers").File("data_handler")
	return &DataHandler{
		app:                app,
		dataRepo:           app.DataRepo,
		locationController: app.LocationController,
		staticData:         app.StaticData,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *DataHandler) Register() {
	data := h.router.Group("/data")
	data.Get("/guides", h.guides)
	data.Get("/guides/:id", h.guideByID)
	data.Get("/manuals", h.manuals)
	data.Get("/schema", h.schema)
	data.Get("/locations", h.locationsByState)
	data.Get("/locations/search", h.searchLocations)
	data.Post("/maintenance", h.createMaintenanceRecord)
	data.Get("/maintenance", h.maintenanceRecords)

	h.router.Get("/database/test", h.databaseTest)
}

func (h *DataHandler) guides(c *fiber.Ctx) error {
	guides, err := h.dataRepo.Guides(c.UserContext(), c.Query("category"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load repair guides"})
	}

	return c.JSON(fiber.Map{"success": true, "guides": guides})
}

func (h *DataHandler) guideByID(c *fiber.Ctx) error {
	guide, err := h.dataRepo.GuideByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load repair guide"})
	}
	if guide == nil {
		return c.Status(fiber.StatusNotFound).
			JSON(fiber.Map{"success": false, "error": "guide not found"})
	}

	return c.JSON(fiber.Map{"success": true, "guide": guide})
}

func (h *DataHandler) manuals(c *fiber.Ctx) error {
	manuals, err := h.dataRepo.Manuals(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load repair manuals"})
	}

	return c.JSON(fiber.Map{"success": true, "manuals": manuals})
}

func (h *DataHandler) schema(c *fiber.Ctx) error {
	schema, err := h.staticData.Schema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load truck schema"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(schema)
}

func (h *DataHandler) locationsByState(c *fiber.Ctx) error {
	locations, err := h.locationController.ByState(c.UserContext(), c.Query("state"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load service locations"})
	}

	return c.JSON(fiber.Map{"success": true, "locations": locations})
}

func (h *DataHandler) searchLocations(c *fiber.Ctx) error {
	log := h.log.Function("searchLocations")

	if c.Query("lat") == "" || c.Query("lon") == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "lat and lon are required"})
	}

	lat := c.QueryFloat("lat")
	lon := c.QueryFloat("lon")
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "lat and lon must be valid coordinates"})
	}

	radius := c.QueryFloat("radius", defaultSearchRadiusKm)
	if radius <= 0 {
		radius = defaultSearchRadiusKm
	}

	locations, err := h.locationController.Nearby(c.UserContext(), lat, lon, radius, c.Query("q"))
	if err != nil {
		log.Er("location search failed", err, "lat", lat, "lon", lon)
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to search service locations"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"locations": locations,
		"count":     len(locations),
		"radiusKm":  radius,
	})
}

func (h *DataHandler) createMaintenanceRecord(c *fiber.Ctx) error {
	log := h.log.Function("createMaintenanceRecord")

	var record MaintenanceRecord
	if err := c.BodyParser(&record); err != nil {
		log.Er("failed to parse maintenance record", err)
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "invalid request body"})
	}
	if record.TruckID == "" || record.ServiceType == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "truckId and serviceType are required"})
	}

	if err := h.dataRepo.CreateMaintenanceRecord(c.UserContext(), &record); err != nil {
		if errors.Is(err, repositories.ErrInvalidRecord) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to save maintenance record"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "record": record})
}

func (h *DataHandler) maintenanceRecords(c *fiber.Ctx) error {
	truckID := c.Query("truckId")
	if truckID == "" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"success": false, "error": "truckId is required"})
	}

	records, err := h.dataRepo.MaintenanceRecords(c.UserContext(), truckID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"success": false, "error": "failed to load maintenance records"})
	}

	return c.JSON(fiber.Map{"success": true, "records": records, "count": len(records)})
}

// databaseTest pings whichever external store is configured so deploys can
// verify connectivity without a truck query.
func (h *DataHandler) databaseTest(c *fiber.Ctx) error {
	log := h.log.Function("databaseTest")
	mode := h.app.TruckController.Mode()

	var err error
	start := time.Now()
	switch {
	case h.app.PostgresStore != nil:
		err = h.app.PostgresStore.Ping(c.UserContext())
	case h.app.MongoStore != nil:
		err = h.app.MongoStore.Ping(c.UserContext())
	default:
		return c.JSON(fiber.Map{
			"success":  true,
			"mode":     mode,
			"message":  "no external database configured, serving static dataset",
			"missing":  h.app.Config.MissingDatabaseVariables(),
			"canWrite": false,
		})
	}
	latency := time.Since(start).Milliseconds()

	if err != nil {
		log.Er("database ping failed", err, "mode", mode)
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"success": false, "mode": mode, "latency": latency, "error": err.Error()})
	}

	return c.JSON(fiber.Map{"success": true, "mode": mode, "latency": latency, "canWrite": true})
}
