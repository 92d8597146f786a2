package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/handlers"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	log := logger.New("main")

	application, err := app.New()
	if err != nil {
		log.Er("failed to initialize application", err)
		os.Exit(1)
	}

	server := fiber.New(fiber.Config{
		AppName:               "truck-repair-assistant",
		DisableStartupMessage: false,
	})

	server.Use(recover.New())
	server.Use(cors.New())

	if err := handlers.Router(server, application); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		addr := fmt.Sprintf(":%d", application.Config.Port)
		if err := server.Listen(addr); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	if err := server.Shutdown(); err != nil {
		log.Er("failed to shut down server cleanly", err)
	}
	if err := application.Close(); err != nil {
		log.Er("failed to close application resources", err)
	}
}
