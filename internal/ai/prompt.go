package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
)

const diagnosisSystemPrompt = `You are an expert heavy-truck diagnostic technician.
Given a truck and its symptoms, respond with a single JSON object with fields:
"diagnosis" (string), "confidence" (number 0-100), "repairSteps" (string array),
"requiredTools" (string array), "estimatedTime" (string), "estimatedCost" (string),
"safetyWarnings" (string array), "urgencyLevel" ("low"|"medium"|"high").
Respond with JSON only, no prose around it.`

func buildDiagnosisPrompt(req *DiagnosisRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Truck: %s %s", req.Truck.Make, req.Truck.Model)
	if req.Truck.Year != 0 {
		fmt.Fprintf(&b, " (%d)", req.Truck.Year)
	}
	if req.Truck.Engine != "" {
		fmt.Fprintf(&b, ", engine: %s", req.Truck.Engine)
	}
	fmt.Fprintf(&b, "\nSymptoms:\n")
	for _, s := range req.Symptoms {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	if req.AdditionalInfo != "" {
		fmt.Fprintf(&b, "Additional info: %s\n", req.AdditionalInfo)
	}
	if req.Urgency != "" {
		fmt.Fprintf(&b, "Reported urgency: %s\n", req.Urgency)
	}

	return b.String()
}

var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// parseDiagnosisResult extracts the JSON object out of a model reply.
// Models wrap answers in markdown fences or prose often enough that a
// lenient regex extraction beats strict decoding; a reply with no usable
// JSON becomes a freeform diagnosis with low confidence.
func parseDiagnosisResult(raw string, req *DiagnosisRequest) *DiagnosisResult {
	fallback := &DiagnosisResult{
		Diagnosis:    strings.TrimSpace(raw),
		Confidence:   40,
		UrgencyLevel: string(requestUrgency(req)),
	}

	blob := jsonObjectRe.FindString(raw)
	if blob == "" {
		return fallback
	}

	var parsed struct {
		Diagnosis      string      `json:"diagnosis"`
		Confidence     json.Number `json:"confidence"`
		RepairSteps    []string    `json:"repairSteps"`
		RequiredTools  []string    `json:"requiredTools"`
		EstimatedTime  string      `json:"estimatedTime"`
		EstimatedCost  string      `json:"estimatedCost"`
		SafetyWarnings []string    `json:"safetyWarnings"`
		UrgencyLevel   string      `json:"urgencyLevel"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil || parsed.Diagnosis == "" {
		return fallback
	}

	confidence := 50
	if f, err := parsed.Confidence.Float64(); err == nil {
		confidence = int(f)
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	urgency := strings.ToLower(strings.TrimSpace(parsed.UrgencyLevel))
	if !UrgencyLevel(urgency).Valid() {
		urgency = string(requestUrgency(req))
	}

	return &DiagnosisResult{
		Diagnosis:      parsed.Diagnosis,
		Confidence:     confidence,
		RepairSteps:    parsed.RepairSteps,
		RequiredTools:  parsed.RequiredTools,
		EstimatedTime:  parsed.EstimatedTime,
		EstimatedCost:  parsed.EstimatedCost,
		SafetyWarnings: parsed.SafetyWarnings,
		UrgencyLevel:   urgency,
	}
}

func requestUrgency(req *DiagnosisRequest) UrgencyLevel {
	if req != nil && req.Urgency.Valid() {
		return req.Urgency
	}
	return UrgencyMedium
}
