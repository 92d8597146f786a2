package locationController

import (
	"context"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/geocode"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
)

type LocationController struct {
	dataRepo repositories.DataRepository
	geocoder *geocode.Client
	log      logger.Logger
}

func New(dataRepo repositories.DataRepository, geocoder *geocode.Client) *LocationController {
	return &LocationController{
		dataRepo: dataRepo,
		geocoder: geocoder,
		log:      logger.New("LocationController"),
	}
}

// Nearby merges known service locations with geocoded candidates for the
// free-text query, dedupes them, and returns them nearest-first within
// the radius.
func (lc *LocationController) Nearby(
	ctx context.Context,
	lat, lon, radiusKm float64,
	query string,
) ([]ServiceLocation, error) {
	log := lc.log.Function("Nearby")

	known, err := lc.dataRepo.Locations(ctx, "")
	if err != nil {
		return nil, log.Err("failed to load service locations", err)
	}

	if query != "" {
		geocoded, err := lc.geocoder.Search(ctx, query)
		if err != nil {
			// Geocoding is best effort; known locations still serve.
			log.Warn("geocoding search failed", "query", query, "error", err)
		} else {
			known = append(known, geocoded...)
		}
	}

	locations := geocode.DedupeLocations(known)
	locations = geocode.FilterByRadius(locations, lat, lon, radiusKm)
	locations = geocode.SortByProximity(locations, lat, lon)

	if locations == nil {
		locations = []ServiceLocation{}
	}
	return locations, nil
}

func (lc *LocationController) ByState(ctx context.Context, state string) ([]ServiceLocation, error) {
	locations, err := lc.dataRepo.Locations(ctx, state)
	if err != nil {
		return nil, lc.log.Function("ByState").
			Err("failed to load service locations", err, "state", state)
	}

	if locations == nil {
		locations = []ServiceLocation{}
	}
	return locations, nil
}
