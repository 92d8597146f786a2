package database

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow replays driver values through the same Scan path the pooled
// queries use, so column order and destination types stay aligned with
// the column-list constants.
type fakeRow struct {
	values []any
}

func (r fakeRow) Scan(dest ...any) error {
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}

	for i, d := range dest {
		if scanner, ok := d.(sql.Scanner); ok {
			if err := scanner.Scan(r.values[i]); err != nil {
				return err
			}
			continue
		}
		switch v := d.(type) {
		case *string:
			*v = r.values[i].(string)
		case *int:
			*v = r.values[i].(int)
		case *float64:
			*v = r.values[i].(float64)
		default:
			return fmt.Errorf("unsupported destination type %T", d)
		}
	}

	return nil
}

func TestScanTruck(t *testing.T) {
	row := fakeRow{values: []any{
		"peterbilt-579",
		"Peterbilt",
		"579",
		2012,
		int64(0),
		[]byte(`{"Paccar MX-13","Cummins X15"}`),
		[]byte(`{"DEF system faults","EGR cooler leaks"}`),
	}}

	truck, err := scanTruck(row)
	require.NoError(t, err)

	assert.Equal(t, "peterbilt-579", truck.ID)
	assert.Equal(t, "Peterbilt", truck.Make)
	assert.Equal(t, "579", truck.Model)
	assert.Equal(t, 2012, truck.YearStart)
	assert.Equal(t, 0, truck.YearEnd)
	assert.Equal(t, []string{"Paccar MX-13", "Cummins X15"}, []string(truck.Engines))
	assert.Len(t, truck.CommonIssues, 2)

	assert.Len(t, strings.Split(truckColumns, ", "), len(row.values))
}

func TestScanTruckNullYearEnd(t *testing.T) {
	row := fakeRow{values: []any{
		"kenworth-w900", "Kenworth", "W900", 1961, nil,
		[]byte(`{}`), []byte(`{}`),
	}}

	truck, err := scanTruck(row)
	require.NoError(t, err)
	assert.Equal(t, 0, truck.YearEnd)
}

func TestScanServiceLocation(t *testing.T) {
	row := fakeRow{values: []any{
		"loc-1",
		"Southeast Truck Center",
		"1200 Industrial Blvd",
		"Atlanta",
		"GA",
		"404-555-0100",
		33.749,
		-84.388,
		[]byte(`{"engine repair","brakes"}`),
	}}

	loc, err := scanServiceLocation(row)
	require.NoError(t, err)

	assert.Equal(t, "loc-1", loc.ID)
	assert.Equal(t, "Southeast Truck Center", loc.Name)
	assert.Equal(t, "GA", loc.State)
	assert.InDelta(t, 33.749, loc.Latitude, 0.0001)
	assert.InDelta(t, -84.388, loc.Longitude, 0.0001)
	assert.Equal(t, []string{"engine repair", "brakes"}, []string(loc.Services))

	assert.Len(t, strings.Split(locationColumns, ", "), len(row.values))
}

func TestScanRepairGuide(t *testing.T) {
	row := fakeRow{values: []any{
		"guide-1",
		"Replacing the air dryer cartridge",
		"brakes",
		"Freightliner",
		"intermediate",
		[]byte(`{"Chock the wheels","Drain the air tanks"}`),
		[]byte(`{"Wrench set"}`),
		"https://example.com/videos/air-dryer",
	}}

	guide, err := scanRepairGuide(row)
	require.NoError(t, err)

	assert.Equal(t, "guide-1", guide.ID)
	assert.Equal(t, "brakes", guide.Category)
	assert.Equal(t, "Freightliner", guide.TruckMake)
	assert.Len(t, guide.Steps, 2)
	assert.Equal(t, "https://example.com/videos/air-dryer", guide.VideoURL)

	assert.Len(t, strings.Split(guideColumns, ", "), len(row.values))
}
