package models

import "encoding/json"

type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}

// SymptomList accepts either a JSON array of strings or a single string on
// the wire; clients send both forms.
type SymptomList []string

func (s *SymptomList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	if one == "" {
		*s = nil
		return nil
	}
	*s = SymptomList{one}
	return nil
}

type DiagnosisRequest struct {
	Truck          TruckRef     `json:"truck"`
	Symptoms       SymptomList  `json:"symptoms"`
	AdditionalInfo string       `json:"additionalInfo,omitempty"`
	Urgency        UrgencyLevel `json:"urgency,omitempty"`
}

// DiagnosisResult is the parsed AI answer. Immutable once returned from a
// provider; the selection layer only wraps it, never edits it.
type DiagnosisResult struct {
	Diagnosis      string   `json:"diagnosis"`
	Confidence     int      `json:"confidence"`
	RepairSteps    []string `json:"repairSteps"`
	RequiredTools  []string `json:"requiredTools"`
	EstimatedTime  string   `json:"estimatedTime"`
	EstimatedCost  string   `json:"estimatedCost"`
	SafetyWarnings []string `json:"safetyWarnings"`
	UrgencyLevel   string   `json:"urgencyLevel"`
}

// Diagnosis couples a result with the provider that produced it.
// FallbackUsed is true iff a provider attempt failed before the attempt
// that produced Result.
type Diagnosis struct {
	Result       *DiagnosisResult `json:"result"`
	Provider     string           `json:"provider"`
	FallbackUsed bool             `json:"fallbackUsed"`
}

// DiagnosisSession is a saved diagnosis, persisted to the local history
// store only when the client explicitly saves it.
type DiagnosisSession struct {
	BaseUUIDModel
	TruckMake      string `gorm:"type:varchar(255);index"     json:"truckMake"`
	TruckModel     string `gorm:"type:varchar(255)"           json:"truckModel"`
	TruckYear      int    `gorm:"type:int"                    json:"truckYear"`
	TruckEngine    string `gorm:"type:varchar(255)"           json:"truckEngine"`
	Symptoms       string `gorm:"type:text"                   json:"symptoms"`
	AdditionalInfo string `gorm:"type:text"                   json:"additionalInfo"`
	Urgency        string `gorm:"type:varchar(16)"            json:"urgency"`
	ResultJSON     string `gorm:"type:text"                   json:"resultJson"`
	Provider       string `gorm:"type:varchar(64)"            json:"provider"`
	FallbackUsed   bool   `gorm:"type:bool"                   json:"fallbackUsed"`
}
