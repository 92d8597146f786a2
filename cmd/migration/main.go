package main

import (
	"context"
	"os"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/cmd/migration/initialize"
	"github.com/Margarita215729/truck-repair-assistant-sub001/cmd/migration/seed"
	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
)

// Applies the relational schema (postgres only) and seeds whichever
// external store is configured from the bundled dataset.
func main() {
	log := logger.New("migration")

	cfg, err := config.InitConfig()
	if err != nil {
		log.Er("failed to initialize config", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	static := staticdata.New(cfg.DataDir)

	switch {
	case cfg.HasPostgres():
		store, err := database.NewPostgresStore(cfg)
		if err != nil {
			log.Er("failed to connect to postgres", err)
			os.Exit(1)
		}
		defer store.Close()

		if _, err := initialize.Migrate(store.DB(), log); err != nil {
			os.Exit(1)
		}
		if err := seed.Seed(ctx, store, static, log); err != nil {
			os.Exit(1)
		}

	case cfg.HasMongo():
		store := database.NewMongoStore(cfg)
		if err := seed.Seed(ctx, store, static, log); err != nil {
			os.Exit(1)
		}

	default:
		log.Warn("no external database configured, nothing to migrate",
			"missing", cfg.MissingDatabaseVariables())
	}

	// Reseeding invalidates anything cached from the old dataset.
	if cfg.HasCache() {
		db, err := database.New(cfg)
		if err != nil {
			log.Er("failed to connect to cache for flush", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.FlushAllCaches(); err != nil {
			os.Exit(1)
		}
	}

	log.Info("Migration complete")
}
