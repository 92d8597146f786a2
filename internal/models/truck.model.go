package models

// Truck is the canonical vehicle record. The same shape is served from the
// static dataset, mongo, and postgres, so it carries both json and bson tags.
type Truck struct {
	ID           string   `json:"id"           bson:"_id,omitempty"`
	Make         string   `json:"make"         bson:"make"`
	Model        string   `json:"model"        bson:"model"`
	YearStart    int      `json:"yearStart"    bson:"year_start"`
	YearEnd      int      `json:"yearEnd"      bson:"year_end"`
	Engines      []string `json:"engines"      bson:"engines"`
	CommonIssues []string `json:"commonIssues" bson:"common_issues"`
}

// InYear reports whether the given model year falls inside the truck's
// production range. A zero YearEnd means the model is still in production.
func (t Truck) InYear(year int) bool {
	if year == 0 {
		return true
	}
	if year < t.YearStart {
		return false
	}
	return t.YearEnd == 0 || year <= t.YearEnd
}

// TruckRef identifies the vehicle a diagnosis request is about.
type TruckRef struct {
	Make   string `json:"make"`
	Model  string `json:"model"`
	Year   int    `json:"year"`
	Engine string `json:"engine"`
}

func (t TruckRef) IsZero() bool {
	return t.Make == "" && t.Model == "" && t.Year == 0 && t.Engine == ""
}
