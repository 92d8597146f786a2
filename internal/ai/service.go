package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
)

// maxAttempts bounds a request to the primary call plus one fallback.
const maxAttempts = 2

var allProviderNames = []string{
	ProviderAzureOpenAI,
	ProviderAzureFoundry,
	ProviderGitHubModels,
}

// Service walks an ordered list of providers: the first configured
// provider is the primary, the next is the single fallback. A provider
// that fails is tried again on the very next request; there is no backoff
// and no circuit breaker.
type Service struct {
	providers []Provider
	log       logger.Logger
}

// NewService builds the provider chain from configuration in the fixed
// order azure-openai, azure-ai-foundry, github-models, keeping only the
// configured ones.
func NewService(cfg config.Config) *Service {
	var providers []Provider
	if cfg.HasAzureOpenAI() {
		providers = append(providers, NewAzureOpenAI(cfg))
	}
	if cfg.HasFoundry() {
		providers = append(providers, NewFoundry(cfg))
	}
	if cfg.HasGitHubModels() {
		providers = append(providers, NewGitHubModels(cfg))
	}

	return NewServiceWithProviders(providers)
}

// NewServiceWithProviders wires an explicit chain; tests and callers that
// construct their own clients use this directly.
func NewServiceWithProviders(providers []Provider) *Service {
	return &Service{
		providers: providers,
		log:       logger.New("aiService"),
	}
}

func (s *Service) Configured() bool {
	return len(s.providers) > 0
}

// ProviderNames lists the configured chain in attempt order.
func (s *Service) ProviderNames() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name())
	}
	return names
}

// Diagnose tries the primary provider and, on failure, exactly one
// fallback. FallbackUsed is true iff a failed attempt preceded the one
// that produced the returned result.
func (s *Service) Diagnose(ctx context.Context, req *DiagnosisRequest) (*Diagnosis, []Attempt, error) {
	log := s.log.Function("Diagnose")

	var attempts []Attempt
	for i, provider := range s.attemptChain() {
		start := time.Now()
		result, err := provider.Diagnose(ctx, req)
		duration := time.Since(start)

		if err != nil {
			attempts = append(attempts, Attempt{
				Provider: provider.Name(),
				Err:      err.Error(),
				Duration: duration,
			})
			log.Warn("provider attempt failed",
				"provider", provider.Name(), "attempt", i+1, "error", err)
			continue
		}

		attempts = append(attempts, Attempt{
			Provider: provider.Name(),
			OK:       true,
			Duration: duration,
		})

		return &Diagnosis{
			Result:       result,
			Provider:     provider.Name(),
			FallbackUsed: i > 0,
		}, attempts, nil
	}

	return nil, attempts, s.exhausted(attempts)
}

// Chat has the same selection and failure semantics as Diagnose.
func (s *Service) Chat(ctx context.Context, turns []ChatTurn) (*ChatReply, []Attempt, error) {
	log := s.log.Function("Chat")

	var attempts []Attempt
	for i, provider := range s.attemptChain() {
		start := time.Now()
		reply, err := provider.Chat(ctx, turns)
		duration := time.Since(start)

		if err != nil {
			attempts = append(attempts, Attempt{
				Provider: provider.Name(),
				Err:      err.Error(),
				Duration: duration,
			})
			log.Warn("provider attempt failed",
				"provider", provider.Name(), "attempt", i+1, "error", err)
			continue
		}

		attempts = append(attempts, Attempt{
			Provider: provider.Name(),
			OK:       true,
			Duration: duration,
		})

		return &ChatReply{
			Reply:        reply,
			Provider:     provider.Name(),
			FallbackUsed: i > 0,
		}, attempts, nil
	}

	return nil, attempts, s.exhausted(attempts)
}

// CheckHealth probes every known provider. Unconfigured providers report
// unhealthy with a reason; configured ones are probed with their own
// timeout and probe errors are captured into the status, never returned.
func (s *Service) CheckHealth(ctx context.Context) []HealthStatus {
	configured := make(map[string]Provider, len(s.providers))
	for _, p := range s.providers {
		configured[p.Name()] = p
	}

	statuses := make([]HealthStatus, 0, len(allProviderNames))
	for _, name := range allProviderNames {
		provider, ok := configured[name]
		if !ok {
			statuses = append(statuses, HealthStatus{
				Service: name,
				Error:   "provider not configured",
			})
			continue
		}
		statuses = append(statuses, provider.CheckHealth(ctx))
	}

	return statuses
}

func (s *Service) attemptChain() []Provider {
	if len(s.providers) <= maxAttempts {
		return s.providers
	}
	return s.providers[:maxAttempts]
}

func (s *Service) exhausted(attempts []Attempt) error {
	if len(attempts) == 0 {
		return fmt.Errorf("%w: no provider configured", ErrAllProvidersUnavailable)
	}

	last := attempts[len(attempts)-1]
	return fmt.Errorf("%w: last attempt (%s): %s",
		ErrAllProvidersUnavailable, last.Provider, last.Err)
}
