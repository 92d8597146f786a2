package truckController

import (
	"context"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
)

type TruckController struct {
	truckRepo repositories.TruckRepository
	log       logger.Logger
}

func New(truckRepo repositories.TruckRepository) *TruckController {
	return &TruckController{
		truckRepo: truckRepo,
		log:       logger.New("TruckController"),
	}
}

func (tc *TruckController) Search(
	ctx context.Context,
	makeFilter, modelFilter string,
	year int,
) ([]Truck, error) {
	trucks, err := tc.truckRepo.Search(ctx, makeFilter, modelFilter, year)
	if err != nil {
		return nil, tc.log.Function("Search").
			Err("failed to search trucks", err, "make", makeFilter, "model", modelFilter)
	}

	if trucks == nil {
		trucks = []Truck{}
	}
	return trucks, nil
}

func (tc *TruckController) GetByID(ctx context.Context, id string) (*Truck, error) {
	log := tc.log.Function("GetByID")

	if id == "" {
		return nil, log.Error("truck id is required")
	}

	truck, err := tc.truckRepo.GetByID(ctx, id)
	if err != nil {
		return nil, log.Err("failed to get truck", err, "id", id)
	}

	return truck, nil
}

func (tc *TruckController) Makes(ctx context.Context) ([]string, error) {
	makes, err := tc.truckRepo.Makes(ctx)
	if err != nil {
		return nil, tc.log.Function("Makes").Err("failed to list makes", err)
	}
	return makes, nil
}

func (tc *TruckController) CommonIssues(
	ctx context.Context,
	makeFilter, modelFilter string,
) ([]string, error) {
	issues, err := tc.truckRepo.CommonIssues(ctx, makeFilter, modelFilter)
	if err != nil {
		return nil, tc.log.Function("CommonIssues").
			Err("failed to list common issues", err, "make", makeFilter)
	}
	return issues, nil
}

// Mode reports which datastore currently backs truck lookups.
func (tc *TruckController) Mode() string {
	return tc.truckRepo.Mode()
}
