package models

// RepairGuide is a step-by-step repair walkthrough tied to a truck make or
// a symptom category.
type RepairGuide struct {
	ID         string   `json:"id"         bson:"_id,omitempty"`
	Title      string   `json:"title"      bson:"title"`
	Category   string   `json:"category"   bson:"category"`
	TruckMake  string   `json:"truckMake"  bson:"truck_make"`
	Difficulty string   `json:"difficulty" bson:"difficulty"`
	Steps      []string `json:"steps"      bson:"steps"`
	Tools      []string `json:"tools"      bson:"tools"`
	VideoURL   string   `json:"videoUrl"   bson:"video_url"`
}

// MaintenanceRecord tracks completed or scheduled service on a truck.
type MaintenanceRecord struct {
	ID          string  `json:"id"          bson:"_id,omitempty"`
	TruckID     string  `json:"truckId"     bson:"truck_id"`
	ServiceType string  `json:"serviceType" bson:"service_type"`
	Description string  `json:"description" bson:"description"`
	ServiceDate string  `json:"serviceDate" bson:"service_date"`
	Mileage     int     `json:"mileage"     bson:"mileage"`
	Cost        float64 `json:"cost"        bson:"cost"`
	Status      string  `json:"status"      bson:"status"`
}

// ManualEntry is one row of the repair manuals CSV.
type ManualEntry struct {
	Make     string `json:"make"`
	Model    string `json:"model"`
	Title    string `json:"title"`
	Section  string `json:"section"`
	PageFrom int    `json:"pageFrom"`
	PageTo   int    `json:"pageTo"`
	URL      string `json:"url"`
}
