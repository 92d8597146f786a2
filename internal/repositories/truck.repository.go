package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
)

const TRUCK_CACHE_EXPIRY = 6 * time.Hour

// TruckStore is the slice of a datastore the truck repository needs.
// PostgresStore and MongoStore both satisfy it.
type TruckStore interface {
	GetTrucks(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error)
	GetTruckByID(ctx context.Context, id string) (*Truck, error)
}

type TruckRepository interface {
	Search(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error)
	GetByID(ctx context.Context, id string) (*Truck, error)
	Makes(ctx context.Context) ([]string, error)
	CommonIssues(ctx context.Context, makeFilter, modelFilter string) ([]string, error)
	Mode() string
}

type truckRepository struct {
	store  TruckStore // nil in static data mode
	static *staticdata.Store
	cache  database.CacheClient
	mode   string
	log    logger.Logger
}

// NewTruck picks the backing store: the external store when one is
// configured, the static dataset otherwise. A store failure at read time
// also falls back to static data rather than failing the request.
func NewTruck(store TruckStore, static *staticdata.Store, cache database.CacheClient, mode string) TruckRepository {
	if store == nil {
		mode = "static"
	}
	return &truckRepository{
		store:  store,
		static: static,
		cache:  cache,
		mode:   mode,
		log:    logger.New("truckRepository"),
	}
}

func (r *truckRepository) Mode() string {
	return r.mode
}

func (r *truckRepository) Search(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error) {
	log := r.log.Function("Search")

	if r.store == nil {
		return r.static.SearchTrucks(makeFilter, modelFilter, year)
	}

	trucks, err := r.store.GetTrucks(ctx, makeFilter, modelFilter, year)
	if err != nil {
		log.Warn("store query failed, serving static dataset", "error", err)
		return r.static.SearchTrucks(makeFilter, modelFilter, year)
	}

	return trucks, nil
}

func (r *truckRepository) GetByID(ctx context.Context, id string) (*Truck, error) {
	log := r.log.Function("GetByID")

	var cached Truck
	found, err := database.NewCacheBuilder(r.cache, "truck:"+id).WithContext(ctx).Get(&cached)
	if err != nil {
		log.Warn("cache read failed", "id", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	truck, err := r.lookupByID(ctx, id)
	if err != nil || truck == nil {
		return truck, err
	}

	if err := database.NewCacheBuilder(r.cache, "truck:"+id).
		WithStruct(truck).
		WithTTL(TRUCK_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		log.Warn("failed to cache truck", "id", id, "error", err)
	}

	return truck, nil
}

func (r *truckRepository) lookupByID(ctx context.Context, id string) (*Truck, error) {
	log := r.log.Function("lookupByID")

	if r.store == nil {
		return r.static.TruckByID(id)
	}

	truck, err := r.store.GetTruckByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Warn("store lookup failed, serving static dataset", "id", id, "error", err)
		return r.static.TruckByID(id)
	}

	return truck, nil
}

func (r *truckRepository) Makes(ctx context.Context) ([]string, error) {
	// Distinct makes come from the static dataset in every mode; the
	// external stores are seeded from the same file.
	return r.static.Makes()
}

func (r *truckRepository) CommonIssues(ctx context.Context, makeFilter, modelFilter string) ([]string, error) {
	return r.static.CommonIssues(makeFilter, modelFilter)
}
