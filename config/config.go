package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config carries every environment-driven setting the service understands.
// Unset provider or datastore settings are not an error at load time; the
// affected subsystem degrades (static data mode, provider skipped) and the
// Missing* helpers report what would be needed to enable it.
type Config struct {
	Port        int
	Environment string

	// Local history store (sqlite) and valkey cache.
	DatabaseDbPath       string
	DatabaseCacheAddress string
	DatabaseCachePort    int

	// Relational store.
	DatabaseHost     string
	DatabasePort     int
	DatabaseName     string
	DatabaseUser     string
	DatabasePassword string

	// Document store.
	MongoURI      string
	MongoDatabase string

	// AI providers.
	AzureOpenAIEndpoint   string
	AzureOpenAIKey        string
	AzureOpenAIDeployment string
	AzureOpenAIAPIVersion string

	AzureProjectsEndpoint string
	AzureProjectsToken    string
	AzureAgentID          string
	AzureThreadID         string

	GitHubToken          string
	GitHubModelsEndpoint string
	GitHubModel          string

	AITimeoutMs int

	// Static assets and geocoding.
	DataDir           string
	NominatimEndpoint string
}

func InitConfig() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 4000)
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SQLITE_DB_PATH", "data/history.db")
	v.SetDefault("CACHE_ADDRESS", "")
	v.SetDefault("CACHE_PORT", 6379)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("MONGODB_DB", "truck_repair")
	v.SetDefault("AZURE_OPENAI_DEPLOYMENT", "gpt-4o")
	v.SetDefault("AZURE_OPENAI_API_VERSION", "2024-10-21")
	v.SetDefault("GITHUB_MODELS_ENDPOINT", "https://models.inference.ai.azure.com")
	v.SetDefault("GITHUB_MODEL", "gpt-4o")
	v.SetDefault("AI_TIMEOUT_MS", 30000)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("NOMINATIM_ENDPOINT", "https://nominatim.openstreetmap.org")

	config := Config{
		Port:        v.GetInt("PORT"),
		Environment: v.GetString("ENVIRONMENT"),

		DatabaseDbPath:       v.GetString("SQLITE_DB_PATH"),
		DatabaseCacheAddress: v.GetString("CACHE_ADDRESS"),
		DatabaseCachePort:    v.GetInt("CACHE_PORT"),

		DatabaseHost:     v.GetString("DB_HOST"),
		DatabasePort:     v.GetInt("DB_PORT"),
		DatabaseName:     v.GetString("DB_NAME"),
		DatabaseUser:     v.GetString("DB_USER"),
		DatabasePassword: v.GetString("DB_PASSWORD"),

		MongoURI:      v.GetString("MONGODB_URI"),
		MongoDatabase: v.GetString("MONGODB_DB"),

		AzureOpenAIEndpoint:   v.GetString("AZURE_OPENAI_ENDPOINT"),
		AzureOpenAIKey:        v.GetString("AZURE_OPENAI_KEY"),
		AzureOpenAIDeployment: v.GetString("AZURE_OPENAI_DEPLOYMENT"),
		AzureOpenAIAPIVersion: v.GetString("AZURE_OPENAI_API_VERSION"),

		AzureProjectsEndpoint: v.GetString("AZURE_PROJECTS_ENDPOINT"),
		AzureProjectsToken:    v.GetString("AZURE_PROJECTS_TOKEN"),
		AzureAgentID:          v.GetString("AZURE_AGENT_ID"),
		AzureThreadID:         v.GetString("AZURE_THREAD_ID"),

		GitHubToken:          v.GetString("GITHUB_TOKEN"),
		GitHubModelsEndpoint: v.GetString("GITHUB_MODELS_ENDPOINT"),
		GitHubModel:          v.GetString("GITHUB_MODEL"),

		AITimeoutMs: v.GetInt("AI_TIMEOUT_MS"),

		DataDir:           v.GetString("DATA_DIR"),
		NominatimEndpoint: v.GetString("NOMINATIM_ENDPOINT"),
	}

	if config.Port <= 0 || config.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", config.Port)
	}

	return config, nil
}

func (c Config) HasAzureOpenAI() bool {
	return c.AzureOpenAIEndpoint != "" && c.AzureOpenAIKey != ""
}

func (c Config) HasFoundry() bool {
	return c.AzureProjectsEndpoint != "" && c.AzureAgentID != ""
}

func (c Config) HasGitHubModels() bool {
	return c.GitHubToken != ""
}

func (c Config) HasAnyProvider() bool {
	return c.HasAzureOpenAI() || c.HasFoundry() || c.HasGitHubModels()
}

func (c Config) HasPostgres() bool {
	return c.DatabaseHost != "" && c.DatabaseName != "" && c.DatabaseUser != ""
}

func (c Config) HasMongo() bool {
	return c.MongoURI != ""
}

func (c Config) HasCache() bool {
	return c.DatabaseCacheAddress != ""
}

func (c Config) AITimeout() time.Duration {
	if c.AITimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.AITimeoutMs) * time.Millisecond
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
	)
}

// MissingAIVariables lists the environment variables that would have to be
// set before at least one AI provider becomes usable. Empty when any
// provider is already configured.
func (c Config) MissingAIVariables() []string {
	if c.HasAnyProvider() {
		return nil
	}

	missing := []string{}
	if c.AzureOpenAIEndpoint == "" {
		missing = append(missing, "AZURE_OPENAI_ENDPOINT")
	}
	if c.AzureOpenAIKey == "" {
		missing = append(missing, "AZURE_OPENAI_KEY")
	}
	if c.AzureProjectsEndpoint == "" {
		missing = append(missing, "AZURE_PROJECTS_ENDPOINT")
	}
	if c.AzureAgentID == "" {
		missing = append(missing, "AZURE_AGENT_ID")
	}
	if c.GitHubToken == "" {
		missing = append(missing, "GITHUB_TOKEN")
	}

	return missing
}

// MissingDatabaseVariables lists what an external datastore would need.
// Empty when postgres or mongo is configured; static data mode needs nothing.
func (c Config) MissingDatabaseVariables() []string {
	if c.HasPostgres() || c.HasMongo() {
		return nil
	}

	missing := []string{"MONGODB_URI"}
	if c.DatabaseHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DatabaseName == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.DatabaseUser == "" {
		missing = append(missing, "DB_USER")
	}

	return missing
}
