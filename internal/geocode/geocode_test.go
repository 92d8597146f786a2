package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		expectedKm             float64
		tolerance              float64
	}{
		{"identical points", 32.8, -96.8, 32.8, -96.8, 0, 0.001},
		{"Dallas to Oklahoma City", 32.7767, -96.7970, 35.4676, -97.5164, 306, 5},
		{"Dallas to Amarillo", 32.7767, -96.7970, 35.2220, -101.8313, 526, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.expectedKm, got, tt.tolerance)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	forward := Distance(32.8, -96.8, 35.4, -97.6)
	backward := Distance(35.4, -97.6, 32.8, -96.8)

	assert.InDelta(t, forward, backward, 0.0001)
}

func TestDedupeLocations(t *testing.T) {
	locations := []ServiceLocation{
		{Name: "Dallas Truck Service", Address: "4521 Irving Blvd"},
		{Name: "dallas truck service", Address: "4521 irving blvd"},
		{Name: "Dallas Truck Service", Address: "100 Other St"},
		{Name: "OKC Fleet Services", Address: "1800 S Meridian Ave"},
	}

	deduped := DedupeLocations(locations)

	require.Len(t, deduped, 3, "name+address duplicates collapse case-insensitively")
	assert.Equal(t, "Dallas Truck Service", deduped[0].Name)
}

func TestSortByProximity(t *testing.T) {
	locations := []ServiceLocation{
		{Name: "Far", Latitude: 39.8, Longitude: -104.9},
		{Name: "Near", Latitude: 32.9, Longitude: -96.9},
		{Name: "Middle", Latitude: 35.4, Longitude: -97.6},
	}

	sorted := SortByProximity(locations, 32.8, -96.8)

	require.Len(t, sorted, 3)
	assert.Equal(t, "Near", sorted[0].Name)
	assert.Equal(t, "Middle", sorted[1].Name)
	assert.Equal(t, "Far", sorted[2].Name)
	assert.Greater(t, sorted[2].DistanceKm, sorted[1].DistanceKm)
}

func TestFilterByRadius(t *testing.T) {
	locations := []ServiceLocation{
		{Name: "Near", Latitude: 32.9, Longitude: -96.9},
		{Name: "Far", Latitude: 39.8, Longitude: -104.9},
	}

	within := FilterByRadius(locations, 32.8, -96.8, 50)
	require.Len(t, within, 1)
	assert.Equal(t, "Near", within[0].Name)

	all := FilterByRadius(locations, 32.8, -96.8, 0)
	assert.Len(t, all, 2, "non-positive radius keeps everything")
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "truck repair Dallas", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"display_name": "Dallas Truck Service, Irving Blvd, Dallas", "lat": "32.8023", "lon": "-96.8551", "name": "Dallas Truck Service"},
			{"display_name": "Dallas Truck Service, Irving Blvd, Dallas", "lat": "32.8023", "lon": "-96.8551", "name": "Dallas Truck Service"},
			{"display_name": "Somewhere Else, OKC", "lat": "not-a-number", "lon": "-97.6", "name": "Bad Coords"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	locations, err := client.Search(context.Background(), "truck repair Dallas")

	require.NoError(t, err)
	require.Len(t, locations, 1, "duplicates and unparseable coordinates are dropped")
	assert.Equal(t, "Dallas Truck Service", locations[0].Name)
	assert.InDelta(t, 32.8023, locations[0].Latitude, 0.0001)
}

func TestClient_Search_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Search(context.Background(), "anything")

	assert.Error(t, err)
}
