package seed

import (
	"context"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
)

// Store is the write surface a seed target has to offer. Both the
// relational and the document adapters satisfy it.
type Store interface {
	UpsertTruck(ctx context.Context, truck *Truck) error
	UpsertServiceLocation(ctx context.Context, loc *ServiceLocation) error
	UpsertRepairGuide(ctx context.Context, guide *RepairGuide) error
}

// Seed copies the bundled reference dataset into the configured store.
// Upserts keyed on the stable static IDs make reruns safe.
func Seed(ctx context.Context, store Store, static *staticdata.Store, log logger.Logger) error {
	log = log.Function("Seed")
	log.Info("Seeding reference data")

	trucks, err := static.SearchTrucks("", "", 0)
	if err != nil {
		return log.Err("failed to load static trucks", err)
	}
	for i := range trucks {
		if err := store.UpsertTruck(ctx, &trucks[i]); err != nil {
			return log.Err("failed to seed truck", err, "make", trucks[i].Make, "model", trucks[i].Model)
		}
	}
	log.Info("Seeded trucks", "count", len(trucks))

	locations, err := static.Locations("")
	if err != nil {
		return log.Err("failed to load static service locations", err)
	}
	for i := range locations {
		if err := store.UpsertServiceLocation(ctx, &locations[i]); err != nil {
			return log.Err("failed to seed service location", err, "name", locations[i].Name)
		}
	}
	log.Info("Seeded service locations", "count", len(locations))

	guides, err := static.Guides("")
	if err != nil {
		return log.Err("failed to load static repair guides", err)
	}
	for i := range guides {
		if err := store.UpsertRepairGuide(ctx, &guides[i]); err != nil {
			return log.Err("failed to seed repair guide", err, "title", guides[i].Title)
		}
	}
	log.Info("Seeded repair guides", "count", len(guides))

	return nil
}
