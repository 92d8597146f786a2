package models

// ServiceLocation is a truck service shop, sourced from the configured
// datastore or from geocoding search results.
type ServiceLocation struct {
	ID        string   `json:"id"        bson:"_id,omitempty"`
	Name      string   `json:"name"      bson:"name"`
	Address   string   `json:"address"   bson:"address"`
	City      string   `json:"city"      bson:"city"`
	State     string   `json:"state"     bson:"state"`
	Phone     string   `json:"phone"     bson:"phone"`
	Latitude  float64  `json:"latitude"  bson:"latitude"`
	Longitude float64  `json:"longitude" bson:"longitude"`
	Services  []string `json:"services"  bson:"services"`
	// DistanceKm is filled in by proximity search, zero otherwise.
	DistanceKm float64 `json:"distanceKm,omitempty" bson:"-"`
}
