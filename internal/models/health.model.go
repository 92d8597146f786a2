package models

const (
	ProviderAzureOpenAI  = "azure-openai"
	ProviderAzureFoundry = "azure-ai-foundry"
	ProviderGitHubModels = "github-models"
)

// HealthStatus is recomputed on every probe and never persisted.
type HealthStatus struct {
	Service   string `json:"service"`
	IsHealthy bool   `json:"isHealthy"`
	LatencyMs int64  `json:"latency,omitempty"`
	Error     string `json:"error,omitempty"`
}
