package ai

import (
	"testing"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseDiagnosisResult(t *testing.T) {
	req := validRequest()

	tests := []struct {
		name               string
		raw                string
		expectedDiagnosis  string
		expectedConfidence int
		expectedUrgency    string
	}{
		{
			name: "clean JSON reply",
			raw: `{"diagnosis":"injector failure","confidence":85,
				"repairSteps":["scan codes","test injectors"],
				"urgencyLevel":"high"}`,
			expectedDiagnosis:  "injector failure",
			expectedConfidence: 85,
			expectedUrgency:    "high",
		},
		{
			name: "JSON wrapped in markdown fences",
			raw: "Here you go:\n```json\n" +
				`{"diagnosis":"worn brake pads","confidence":70,"urgencyLevel":"medium"}` +
				"\n```",
			expectedDiagnosis:  "worn brake pads",
			expectedConfidence: 70,
			expectedUrgency:    "medium",
		},
		{
			name:               "no JSON at all falls back to freeform",
			raw:                "Probably the alternator belt.",
			expectedDiagnosis:  "Probably the alternator belt.",
			expectedConfidence: 40,
			expectedUrgency:    "medium",
		},
		{
			name:               "confidence clamped to 100",
			raw:                `{"diagnosis":"x","confidence":250}`,
			expectedDiagnosis:  "x",
			expectedConfidence: 100,
			expectedUrgency:    "medium",
		},
		{
			name:               "invalid urgency replaced by request urgency",
			raw:                `{"diagnosis":"x","confidence":50,"urgencyLevel":"catastrophic"}`,
			expectedDiagnosis:  "x",
			expectedConfidence: 50,
			expectedUrgency:    "medium",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseDiagnosisResult(tt.raw, req)

			assert.Equal(t, tt.expectedDiagnosis, result.Diagnosis)
			assert.Equal(t, tt.expectedConfidence, result.Confidence)
			assert.Equal(t, tt.expectedUrgency, result.UrgencyLevel)
		})
	}
}

func TestBuildDiagnosisPrompt(t *testing.T) {
	prompt := buildDiagnosisPrompt(&DiagnosisRequest{
		Truck:          TruckRef{Make: "Kenworth", Model: "T680", Year: 2021, Engine: "PACCAR MX-13"},
		Symptoms:       SymptomList{"hard start", "white smoke"},
		AdditionalInfo: "worse on cold mornings",
		Urgency:        UrgencyHigh,
	})

	assert.Contains(t, prompt, "Kenworth T680 (2021)")
	assert.Contains(t, prompt, "PACCAR MX-13")
	assert.Contains(t, prompt, "- hard start")
	assert.Contains(t, prompt, "- white smoke")
	assert.Contains(t, prompt, "worse on cold mornings")
	assert.Contains(t, prompt, "high")
}

func TestSymptomList_AcceptsStringOrArray(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected SymptomList
	}{
		{"array form", `["rough idle","stalling"]`, SymptomList{"rough idle", "stalling"}},
		{"single string form", `"rough idle"`, SymptomList{"rough idle"}},
		{"empty string", `""`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var symptoms SymptomList
			err := symptoms.UnmarshalJSON([]byte(tt.payload))

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, symptoms)
		})
	}
}
