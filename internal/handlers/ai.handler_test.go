package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/ai"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/app"
	chatController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/chat"
	diagnosisController "github.com/Margarita215729/truck-repair-assistant-sub001/internal/controllers/diagnosis"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/websockets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name         string
	err          error
	healthProbes int
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) Diagnose(ctx context.Context, req *DiagnosisRequest) (*DiagnosisResult, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &DiagnosisResult{Diagnosis: "worn brake pads", Confidence: 80}, nil
}

func (p *stubProvider) Chat(ctx context.Context, turns []ChatTurn) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "check the air dryer cartridge", nil
}

func (p *stubProvider) CheckHealth(ctx context.Context) HealthStatus {
	p.healthProbes++
	return HealthStatus{Service: p.name, IsHealthy: p.err == nil}
}

func newTestApp(t *testing.T, providers ...ai.Provider) *fiber.App {
	t.Helper()

	aiService := ai.NewServiceWithProviders(providers)
	application := &app.App{
		Websocket:           websockets.New(),
		LocalStore:          database.NewLocalStore(),
		AIService:           aiService,
		DiagnosisController: diagnosisController.New(aiService, nil),
		ChatController:      chatController.New(aiService, nil, nil),
	}

	server := fiber.New()
	NewAIHandler(application, server.Group("/api")).Register()
	return server
}

func TestDiagnoseEndpoint(t *testing.T) {
	validBody := `{"truck":{"make":"Peterbilt","model":"579"},"symptoms":["grinding noise when braking"]}`

	tests := []struct {
		name           string
		body           string
		providers      []ai.Provider
		expectedStatus int
		expectedOK     bool
	}{
		{
			name:           "valid request with healthy provider",
			body:           validBody,
			providers:      []ai.Provider{&stubProvider{name: "azure-openai"}},
			expectedStatus: fiber.StatusOK,
			expectedOK:     true,
		},
		{
			name:           "malformed json",
			body:           `{"truck":`,
			providers:      []ai.Provider{&stubProvider{name: "azure-openai"}},
			expectedStatus: fiber.StatusBadRequest,
			expectedOK:     false,
		},
		{
			name:           "missing symptoms",
			body:           `{"truck":{"make":"Peterbilt"}}`,
			providers:      []ai.Provider{&stubProvider{name: "azure-openai"}},
			expectedStatus: fiber.StatusBadRequest,
			expectedOK:     false,
		},
		{
			name:           "no providers configured",
			body:           validBody,
			providers:      nil,
			expectedStatus: fiber.StatusServiceUnavailable,
			expectedOK:     false,
		},
		{
			name: "all providers failing",
			body: validBody,
			providers: []ai.Provider{
				&stubProvider{name: "azure-openai", err: assert.AnError},
				&stubProvider{name: "github-models", err: assert.AnError},
			},
			expectedStatus: fiber.StatusInternalServerError,
			expectedOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestApp(t, tt.providers...)

			req := httptest.NewRequest(fiber.MethodPost, "/api/ai/diagnose", strings.NewReader(tt.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := server.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var payload map[string]any
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(raw, &payload))
			assert.Equal(t, tt.expectedOK, payload["success"])
		})
	}
}

func TestDiagnoseFallbackReported(t *testing.T) {
	server := newTestApp(t,
		&stubProvider{name: "azure-openai", err: assert.AnError},
		&stubProvider{name: "github-models"},
	)

	body := `{"truck":{"make":"Kenworth","model":"T680"},"symptoms":["hard starting"]}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/ai/diagnose", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := server.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "github-models", payload["provider"])
	assert.Equal(t, true, payload["fallbackUsed"])
}

func TestDiagnoseTotalFailureReportsAttempts(t *testing.T) {
	server := newTestApp(t,
		&stubProvider{name: "azure-openai", err: assert.AnError},
		&stubProvider{name: "github-models", err: assert.AnError},
	)

	body := `{"truck":{"make":"Mack","model":"Anthem"},"symptoms":["coolant loss"]}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/ai/diagnose", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := server.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var payload struct {
		Success  bool `json:"success"`
		Attempts []struct {
			Provider string `json:"provider"`
			Error    string `json:"error"`
		} `json:"attempts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.False(t, payload.Success)
	require.Len(t, payload.Attempts, 2)
	assert.Equal(t, "azure-openai", payload.Attempts[0].Provider)
	assert.NotEmpty(t, payload.Attempts[0].Error)
	assert.Equal(t, "github-models", payload.Attempts[1].Provider)
}

func TestChatEndpoint(t *testing.T) {
	server := newTestApp(t, &stubProvider{name: "azure-openai"})

	body := `{"messages":[{"role":"user","content":"my reefer unit keeps tripping"}]}`
	req := httptest.NewRequest(fiber.MethodPost, "/api/ai/chat", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := server.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "check the air dryer cartridge", payload["reply"])
	assert.Equal(t, false, payload["fallbackUsed"])
}

func TestHealthEndpointListsProviders(t *testing.T) {
	server := newTestApp(t,
		&stubProvider{name: "azure-openai"},
		&stubProvider{name: "github-models", err: assert.AnError},
	)

	req := httptest.NewRequest(fiber.MethodGet, "/api/ai/health", nil)
	resp, err := server.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success   bool           `json:"success"`
		Healthy   bool           `json:"healthy"`
		Providers []HealthStatus `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload.Success)
	assert.True(t, payload.Healthy)
	assert.Len(t, payload.Providers, 3)
}

func TestHealthEndpointReprobesEachCall(t *testing.T) {
	provider := &stubProvider{name: "azure-openai"}
	server := newTestApp(t, provider)

	for i := 0; i < 2; i++ {
		resp, err := server.Test(httptest.NewRequest(fiber.MethodGet, "/api/ai/health", nil))
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 2, provider.healthProbes)
}
