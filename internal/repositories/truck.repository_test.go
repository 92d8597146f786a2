package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/staticdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTruckStore struct {
	trucks []Truck
	err    error
}

func (f *fakeTruckStore) GetTrucks(ctx context.Context, makeFilter, modelFilter string, year int) ([]Truck, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trucks, nil
}

func (f *fakeTruckStore) GetTruckByID(ctx context.Context, id string) (*Truck, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.trucks {
		if f.trucks[i].ID == id {
			return &f.trucks[i], nil
		}
	}
	return nil, errors.New("not found")
}

func staticStore(t *testing.T) *staticdata.Store {
	t.Helper()

	dir := t.TempDir()
	dataset := `[
		{"make":"Peterbilt","model":"579","yearStart":2012,"yearEnd":0,
		 "engines":["PACCAR MX-13"],"commonIssues":["DEF faults"]}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "truck_dataset.json"), []byte(dataset), 0644))

	return staticdata.New(dir)
}

func TestTruckRepository_StaticMode(t *testing.T) {
	repo := NewTruck(nil, staticStore(t), nil, "postgres")

	assert.Equal(t, "static", repo.Mode(), "nil store forces static mode")

	trucks, err := repo.Search(context.Background(), "peterbilt", "", 0)
	require.NoError(t, err)
	require.Len(t, trucks, 1)
	assert.Equal(t, "579", trucks[0].Model)
}

func TestTruckRepository_StoreMode(t *testing.T) {
	store := &fakeTruckStore{trucks: []Truck{
		{ID: "t1", Make: "Kenworth", Model: "T680"},
	}}
	repo := NewTruck(store, staticStore(t), nil, "postgres")

	assert.Equal(t, "postgres", repo.Mode())

	trucks, err := repo.Search(context.Background(), "", "", 0)
	require.NoError(t, err)
	require.Len(t, trucks, 1)
	assert.Equal(t, "Kenworth", trucks[0].Make)
}

func TestTruckRepository_StoreFailureFallsBackToStatic(t *testing.T) {
	store := &fakeTruckStore{err: errors.New("connection refused")}
	repo := NewTruck(store, staticStore(t), nil, "mongodb")

	trucks, err := repo.Search(context.Background(), "Peterbilt", "", 0)

	require.NoError(t, err, "a store failure must not fail the request")
	require.Len(t, trucks, 1)
	assert.Equal(t, "Peterbilt", trucks[0].Make)
}

func TestTruckRepository_GetByID_StaticSlug(t *testing.T) {
	repo := NewTruck(nil, staticStore(t), nil, "")

	truck, err := repo.GetByID(context.Background(), "peterbilt-579")
	require.NoError(t, err)
	require.NotNil(t, truck)
	assert.Equal(t, "Peterbilt", truck.Make)

	missing, err := repo.GetByID(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
