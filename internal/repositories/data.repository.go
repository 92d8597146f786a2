package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/utils"
)

// ErrInvalidRecord marks maintenance record input the caller can fix.
var ErrInvalidRecord = errors.New("invalid maintenance record")

// DataStore is the datastore slice behind guides, locations, and
// maintenance records.
type DataStore interface {
	GetServiceLocations(ctx context.Context, state string) ([]ServiceLocation, error)
	GetRepairGuides(ctx context.Context, category string) ([]RepairGuide, error)
	CreateMaintenanceRecord(ctx context.Context, rec *MaintenanceRecord) error
	GetMaintenanceRecords(ctx context.Context, truckID string) ([]MaintenanceRecord, error)
}

type DataRepository interface {
	Locations(ctx context.Context, state string) ([]ServiceLocation, error)
	Guides(ctx context.Context, category string) ([]RepairGuide, error)
	GuideByID(ctx context.Context, id string) (*RepairGuide, error)
	Manuals(ctx context.Context) ([]ManualEntry, error)
	CreateMaintenanceRecord(ctx context.Context, rec *MaintenanceRecord) error
	MaintenanceRecords(ctx context.Context, truckID string) ([]MaintenanceRecord, error)
}

type dataRepository struct {
	store  DataStore // nil in static data mode
	static *staticdata.Store
	log    logger.Logger
}

func NewData(store DataStore, static *staticdata.Store) DataRepository {
	return &dataRepository{
		store:  store,
		static: static,
		log:    logger.New("dataRepository"),
	}
}

func (r *dataRepository) Locations(ctx context.Context, state string) ([]ServiceLocation, error) {
	log := r.log.Function("Locations")

	if r.store == nil {
		return r.static.Locations(state)
	}

	locations, err := r.store.GetServiceLocations(ctx, state)
	if err != nil {
		log.Warn("store query failed, serving static dataset", "error", err)
		return r.static.Locations(state)
	}

	return locations, nil
}

func (r *dataRepository) Guides(ctx context.Context, category string) ([]RepairGuide, error) {
	log := r.log.Function("Guides")

	if r.store == nil {
		return r.static.Guides(category)
	}

	guides, err := r.store.GetRepairGuides(ctx, category)
	if err != nil {
		log.Warn("store query failed, serving static dataset", "error", err)
		return r.static.Guides(category)
	}

	return guides, nil
}

func (r *dataRepository) GuideByID(ctx context.Context, id string) (*RepairGuide, error) {
	guides, err := r.Guides(ctx, "")
	if err != nil {
		return nil, err
	}

	for i := range guides {
		if guides[i].ID == id {
			guide := guides[i]
			return &guide, nil
		}
	}

	return nil, nil
}

// Manuals always come from the bundled CSV; no store mirrors them.
func (r *dataRepository) Manuals(ctx context.Context) ([]ManualEntry, error) {
	return r.static.Manuals()
}

func (r *dataRepository) CreateMaintenanceRecord(ctx context.Context, rec *MaintenanceRecord) error {
	log := r.log.Function("CreateMaintenanceRecord")

	normalized, err := utils.NormalizeServiceDate(rec.ServiceDate)
	if err != nil {
		log.Warn("rejected service date", "truckID", rec.TruckID, "error", err)
		return fmt.Errorf("%w: %s", ErrInvalidRecord, err)
	}
	rec.ServiceDate = normalized

	if r.store == nil {
		return log.Error("maintenance records require a configured database")
	}

	return r.store.CreateMaintenanceRecord(ctx, rec)
}

func (r *dataRepository) MaintenanceRecords(ctx context.Context, truckID string) ([]MaintenanceRecord, error) {
	if r.store == nil {
		return []MaintenanceRecord{}, nil
	}
	return r.store.GetMaintenanceRecords(ctx, truckID)
}
