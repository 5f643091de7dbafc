// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/capedit/capedit/internal/tier"
	"github.com/capedit/capedit/internal/transcribe"
)

// Config holds all runtime configuration. Each value is read from a
// CAPEDIT_-prefixed environment variable, falling back to the bare
// name so the conventional GEMINI_API_KEY / OPENAI_API_KEY work as-is.
type Config struct {
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	Provider string `envconfig:"PROVIDER" default:"gemini"`
	Model    string `envconfig:"MODEL"`
	Language string `envconfig:"LANGUAGE"`

	Port int    `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	Tier string `envconfig:"TIER" default:"free"`
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("capedit", &cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks provider selection and the matching API key.
func (c *Config) Validate() error {
	switch transcribe.Provider(c.Provider) {
	case transcribe.ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case transcribe.ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("unknown transcription provider %q", c.Provider)
	}

	if !tier.Valid(tier.Tier(c.Tier)) {
		return fmt.Errorf("unknown tier %q", c.Tier)
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TranscribeOptions builds the provider options from configuration.
func (c *Config) TranscribeOptions() transcribe.Options {
	return transcribe.Options{
		Language: c.Language,
		Model:    c.Model,
	}
}

// APIKey returns the key for the configured provider.
func (c *Config) APIKey() string {
	if transcribe.Provider(c.Provider) == transcribe.ProviderOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}
