package geocode

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	logg "github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"golang.org/x/time/rate"
)

const earthRadiusKm = 6371.0

// Client queries a Nominatim-compatible OpenStreetMap mirror. Queries
// within one logical search are serialized by a 1 req/s limiter per the
// mirror's usage policy; concurrent requests share the same limiter.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	log      logg.Logger
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		http:     &http.Client{Timeout: 10 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		log:      logg.New("geocode"),
	}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
}

// Search geocodes a free-text query into service-location candidates.
func (c *Client) Search(ctx context.Context, query string) ([]ServiceLocation, error) {
	log := c.log.Function("Search")

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "10")

	reqURL := c.endpoint + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// Nominatim requires an identifying User-Agent.
	req.Header.Set("User-Agent", "truck-repair-assistant/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, log.Err("geocoding request failed", err, "query", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Error("geocoding returned non-200", "status", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, log.Err("failed to decode geocoding response", err)
	}

	locations := make([]ServiceLocation, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			continue
		}

		name := r.Name
		if name == "" {
			name = firstSegment(r.DisplayName)
		}

		locations = append(locations, ServiceLocation{
			Name:      name,
			Address:   r.DisplayName,
			Latitude:  lat,
			Longitude: lon,
		})
	}

	return DedupeLocations(locations), nil
}

func firstSegment(displayName string) string {
	name, _, _ := strings.Cut(displayName, ",")
	return strings.TrimSpace(name)
}

// Distance computes the great-circle distance in kilometers.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DedupeLocations drops entries whose normalized name+address was already
// seen, keeping the first occurrence.
func DedupeLocations(locations []ServiceLocation) []ServiceLocation {
	seen := map[string]bool{}
	out := make([]ServiceLocation, 0, len(locations))

	for _, loc := range locations {
		key := strings.ToLower(strings.TrimSpace(loc.Name)) + "|" +
			strings.ToLower(strings.TrimSpace(loc.Address))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, loc)
	}

	return out
}

// SortByProximity fills DistanceKm from the given origin and sorts
// nearest-first.
func SortByProximity(locations []ServiceLocation, lat, lon float64) []ServiceLocation {
	for i := range locations {
		locations[i].DistanceKm = round1(Distance(lat, lon, locations[i].Latitude, locations[i].Longitude))
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].DistanceKm < locations[j].DistanceKm
	})

	return locations
}

// FilterByRadius keeps locations within radiusKm of the origin; a
// non-positive radius keeps everything.
func FilterByRadius(locations []ServiceLocation, lat, lon, radiusKm float64) []ServiceLocation {
	if radiusKm <= 0 {
		return locations
	}

	out := make([]ServiceLocation, 0, len(locations))
	for _, loc := range locations {
		if Distance(lat, lon, loc.Latitude, loc.Longitude) <= radiusKm {
			out = append(out, loc)
		}
	}

	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
