package ai

import (
	"context"
	"errors"
	"time"

	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
)

// ErrAllProvidersUnavailable is returned when every attempted provider
// failed to produce a result.
var ErrAllProvidersUnavailable = errors.New("all AI providers unavailable")

// Provider is one AI backend. Implementations wrap exactly one HTTP API
// and never retry on their own; retry policy lives in the Service.
type Provider interface {
	Name() string
	Diagnose(ctx context.Context, req *DiagnosisRequest) (*DiagnosisResult, error)
	Chat(ctx context.Context, turns []ChatTurn) (string, error)
	CheckHealth(ctx context.Context) HealthStatus
}

// Attempt records the outcome of a single provider call.
type Attempt struct {
	Provider string        `json:"provider"`
	OK       bool          `json:"ok"`
	Err      string        `json:"error,omitempty"`
	Duration time.Duration `json:"-"`
}
