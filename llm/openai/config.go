package openai

import (
	"fmt"

	"github.com/alt-coder/pocketgraph/internal/env"
)

// Config holds OpenAI-specific configuration settings
type Config struct {
	APIKey      string  // OpenAI API key
	Model       string  // Default: "gpt-4o"
	Temperature float32 // Default: 0.7
	BaseURL     string  // Default: "https://api.openai.com/v1"
	OrgID       string  // Optional organization ID

	MaxTokens        int     // Maximum tokens in response, 0 = no limit (default)
	TopP             float32 // Nucleus sampling parameter, default: 1.0
	FrequencyPenalty float32
	PresencePenalty  float32
}

// NewConfigFromEnv creates config from environment variables with sensible defaults
func NewConfigFromEnv() (*Config, error) {
	config := &Config{
		APIKey:           env.String("OPENAI_API_KEY", ""),
		Model:            env.String("OPENAI_MODEL", "gpt-4o"),
		Temperature:      env.Float32("OPENAI_TEMPERATURE", 0.7),
		BaseURL:          env.String("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OrgID:            env.String("OPENAI_ORG_ID", ""),
		MaxTokens:        env.Int("OPENAI_MAX_TOKENS", 0),
		TopP:             env.Float32("OPENAI_TOP_P", 1.0),
		FrequencyPenalty: env.Float32("OPENAI_FREQUENCY_PENALTY", 0.0),
		PresencePenalty:  env.Float32("OPENAI_PRESENCE_PENALTY", 0.0),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid and complete
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required. Please set it with your OpenAI API key")
	}

	if c.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}

	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", c.Temperature)
	}

	if c.MaxTokens < 0 {
		return fmt.Errorf("maxTokens cannot be negative, got %d", c.MaxTokens)
	}

	if c.TopP < 0.0 || c.TopP > 1.0 {
		return fmt.Errorf("topP must be between 0.0 and 1.0, got %f", c.TopP)
	}

	if c.FrequencyPenalty < -2.0 || c.FrequencyPenalty > 2.0 {
		return fmt.Errorf("frequencyPenalty must be between -2.0 and 2.0, got %f", c.FrequencyPenalty)
	}

	if c.PresencePenalty < -2.0 || c.PresencePenalty > 2.0 {
		return fmt.Errorf("presencePenalty must be between -2.0 and 2.0, got %f", c.PresencePenalty)
	}

	return nil
}
