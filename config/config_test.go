package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigDefaults(t *testing.T) {
	config, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, 4000, config.Port)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, "data", config.DataDir)
	assert.Equal(t, "gpt-4o", config.AzureOpenAIDeployment)
	assert.Equal(t, "https://models.inference.ai.azure.com", config.GitHubModelsEndpoint)
	assert.Equal(t, 30*time.Second, config.AITimeout())
}

func TestInitConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("AI_TIMEOUT_MS", "5000")
	t.Setenv("GITHUB_TOKEN", "ghp_test")

	config, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, 5*time.Second, config.AITimeout())
	assert.True(t, config.HasGitHubModels())
	assert.True(t, config.HasAnyProvider())
}

func TestInitConfigRejectsInvalidPort(t *testing.T) {
	t.Setenv("PORT", "-1")

	_, err := InitConfig()
	assert.Error(t, err)
}

func TestProviderDetection(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected bool
	}{
		{name: "nothing set", config: Config{}, expected: false},
		{
			name:     "azure openai needs endpoint and key",
			config:   Config{AzureOpenAIEndpoint: "https://example.openai.azure.com"},
			expected: false,
		},
		{
			name: "azure openai complete",
			config: Config{
				AzureOpenAIEndpoint: "https://example.openai.azure.com",
				AzureOpenAIKey:      "key",
			},
			expected: true,
		},
		{
			name:     "foundry needs agent id",
			config:   Config{AzureProjectsEndpoint: "https://example.services.ai.azure.com"},
			expected: false,
		},
		{
			name: "foundry complete",
			config: Config{
				AzureProjectsEndpoint: "https://example.services.ai.azure.com",
				AzureAgentID:          "agent-1",
			},
			expected: true,
		},
		{name: "github token only", config: Config{GitHubToken: "ghp_x"}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.HasAnyProvider())
		})
	}
}

func TestMissingAIVariables(t *testing.T) {
	empty := Config{}
	missing := empty.MissingAIVariables()
	assert.Contains(t, missing, "AZURE_OPENAI_ENDPOINT")
	assert.Contains(t, missing, "AZURE_OPENAI_KEY")
	assert.Contains(t, missing, "GITHUB_TOKEN")

	configured := Config{GitHubToken: "ghp_x"}
	assert.Empty(t, configured.MissingAIVariables())
}

func TestMissingDatabaseVariables(t *testing.T) {
	empty := Config{}
	assert.Contains(t, empty.MissingDatabaseVariables(), "MONGODB_URI")
	assert.Contains(t, empty.MissingDatabaseVariables(), "DB_HOST")

	mongo := Config{MongoURI: "mongodb://localhost:27017"}
	assert.Empty(t, mongo.MissingDatabaseVariables())

	postgres := Config{DatabaseHost: "localhost", DatabaseName: "trucks", DatabaseUser: "app"}
	assert.Empty(t, postgres.MissingDatabaseVariables())
}

func TestPostgresDSN(t *testing.T) {
	config := Config{
		DatabaseHost:     "db.internal",
		DatabasePort:     5432,
		DatabaseUser:     "app",
		DatabasePassword: "secret",
		DatabaseName:     "trucks",
	}

	dsn := config.PostgresDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=trucks")
	assert.Contains(t, dsn, "sslmode=disable")
}
