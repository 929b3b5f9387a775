package anthropic

import (
	"fmt"

	"github.com/alt-coder/pocketgraph/internal/env"
)

// Config holds Anthropic-specific configuration settings
type Config struct {
	APIKey      string
	Model       string  // Default: "claude-sonnet-4-5"
	MaxTokens   int     // Default: 4096
	Temperature float32 // Default: 0.7
}

// NewConfigFromEnv creates config from environment variables with sensible defaults
func NewConfigFromEnv() (*Config, error) {
	config := &Config{
		APIKey:      env.String("ANTHROPIC_API_KEY", ""),
		Model:       env.String("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		MaxTokens:   env.Int("ANTHROPIC_MAX_TOKENS", 4096),
		Temperature: env.Float32("ANTHROPIC_TEMPERATURE", 0.7),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration is valid and complete
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("maxTokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0.0 || c.Temperature > 1.0 {
		return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", c.Temperature)
	}
	return nil
}
