package diagnosisController

import (
	"testing"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		req         *DiagnosisRequest
		expectError bool
	}{
		{
			name: "valid request",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Make: "Peterbilt", Model: "579", Year: 2019},
				Symptoms: SymptomList{"rough idle"},
				Urgency:  UrgencyMedium,
			},
			expectError: false,
		},
		{
			name: "valid without urgency",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Make: "Volvo"},
				Symptoms: SymptomList{"hard start"},
			},
			expectError: false,
		},
		{
			name:        "nil request",
			req:         nil,
			expectError: true,
		},
		{
			name: "missing truck",
			req: &DiagnosisRequest{
				Symptoms: SymptomList{"rough idle"},
			},
			expectError: true,
		},
		{
			name: "truck with only year",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Year: 2019},
				Symptoms: SymptomList{"rough idle"},
			},
			expectError: true,
		},
		{
			name: "empty symptoms",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Make: "Peterbilt"},
				Symptoms: SymptomList{},
			},
			expectError: true,
		},
		{
			name: "whitespace-only symptom",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Make: "Peterbilt"},
				Symptoms: SymptomList{"   "},
			},
			expectError: true,
		},
		{
			name: "invalid urgency",
			req: &DiagnosisRequest{
				Truck:    TruckRef{Make: "Peterbilt"},
				Symptoms: SymptomList{"rough idle"},
				Urgency:  "critical",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
