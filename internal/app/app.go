package app

import (
	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/ai"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/geocode"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/services"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/websockets"

	chatController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/chat"
	diagnosisController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/diagnosis"
	locationController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/location"
	truckController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/truck"
)

type App struct {
	Database  database.DB
	Config    config.Config
	Websocket *websockets.Manager

	// Datastores; PostgresStore and MongoStore are nil unless configured.
	PostgresStore *database.PostgresStore
	MongoStore    *database.MongoStore
	StaticData    *staticdata.Store
	LocalStore    *database.LocalStore

	// Services
	AIService          *ai.Service
	TransactionService *services.TransactionService
	Geocoder           *geocode.Client

	// Repositories
	TruckRepo   repositories.TruckRepository
	DataRepo    repositories.DataRepository
	HistoryRepo repositories.HistoryRepository

	// Controllers
	DiagnosisController *diagnosisController.DiagnosisController
	TruckController     *truckController.TruckController
	LocationController  *locationController.LocationController
	ChatController      *chatController.ChatController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	staticData := staticdata.New(config.DataDir)

	// Exactly one external store serves trucks and data entities; static
	// JSON takes over when neither is configured.
	var (
		postgresStore *database.PostgresStore
		mongoStore    *database.MongoStore
		truckStore    repositories.TruckStore
		dataStore     repositories.DataStore
		mode          = "static"
	)
	switch {
	case config.HasPostgres():
		postgresStore, err = database.NewPostgresStore(config)
		if err != nil {
			return &App{}, log.Err("failed to create postgres store", err)
		}
		truckStore, dataStore, mode = postgresStore, postgresStore, "postgres"
	case config.HasMongo():
		mongoStore = database.NewMongoStore(config)
		truckStore, dataStore, mode = mongoStore, mongoStore, "mongodb"
	}

	// Initialize services
	aiService := ai.NewService(config)
	transactionService := services.NewTransactionService(db)
	geocoder := geocode.NewClient(config.NominatimEndpoint)

	// Initialize repositories
	truckRepo := repositories.NewTruck(truckStore, staticData, db.Cache.Trucks, mode)
	dataRepo := repositories.NewData(dataStore, staticData)
	historyRepo := repositories.NewHistory(db)

	// Initialize controllers with repositories and services
	diagnosisCtrl := diagnosisController.New(aiService, historyRepo)
	truckCtrl := truckController.New(truckRepo)
	locationCtrl := locationController.New(dataRepo, geocoder)
	chatCtrl := chatController.New(aiService, historyRepo, transactionService)

	app := &App{
		Database:  db,
		Config:    config,
		Websocket: websockets.New(),

		PostgresStore: postgresStore,
		MongoStore:    mongoStore,
		StaticData:    staticData,
		LocalStore:    database.NewLocalStore(),

		AIService:          aiService,
		TransactionService: transactionService,
		Geocoder:           geocoder,

		TruckRepo:   truckRepo,
		DataRepo:    dataRepo,
		HistoryRepo: historyRepo,

		DiagnosisController: diagnosisCtrl,
		TruckController:     truckCtrl,
		LocationController:  locationCtrl,
		ChatController:      chatCtrl,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("history store is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is empty")
	}

	nilChecks := []any{
		a.Websocket,
		a.StaticData,
		a.LocalStore,
		a.AIService,
		a.TransactionService,
		a.Geocoder,
		a.TruckRepo,
		a.DataRepo,
		a.HistoryRepo,
		a.DiagnosisController,
		a.TruckController,
		a.LocationController,
		a.ChatController,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.PostgresStore != nil {
		if closeErr := a.PostgresStore.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
