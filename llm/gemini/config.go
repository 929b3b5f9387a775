package gemini

import (
	"fmt"

	"github.com/alt-coder/pocketgraph/internal/env"
	"google.golang.org/genai"
)

// Config holds Gemini-specific configuration settings
type Config struct {
	APIKey          string        // Google API key
	Model           string        // Default: "gemini-2.0-flash"
	Temperature     float32       // Default: 0.7
	MaxOutputTokens int           // 0 = model default
	Backend         genai.Backend // Default: genai.BackendGeminiAPI
}

// NewConfigFromEnv creates config from environment variables with sensible defaults
func NewConfigFromEnv() (*Config, error) {
	config := &Config{
		APIKey:          env.String("GOOGLE_API_KEY", ""),
		Model:           env.String("CHAT_MODEL", "gemini-2.0-flash"),
		Temperature:     env.Float32("CHAT_TEMPERATURE", 0.7),
		MaxOutputTokens: env.Int("CHAT_MAX_OUTPUT_TOKENS", 0),
		Backend:         genai.BackendGeminiAPI,
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid and complete
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable is required. Please set it with your Google API key")
	}

	if c.Model == "" {
		return fmt.Errorf("model name cannot be empty")
	}

	if c.Temperature < 0.0 || c.Temperature > 2.0 {
		return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", c.Temperature)
	}

	if c.MaxOutputTokens < 0 {
		return fmt.Errorf("maxOutputTokens cannot be negative, got %d", c.MaxOutputTokens)
	}

	return nil
}
