// Package config loads CLI settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/alt-coder/pocketgraph/internal/logging"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Prefix is the namespace of every setting read by Load.
const Prefix = "POCKETGRAPH_"

// Config holds the CLI settings. Provider credentials are read by the
// provider packages themselves.
type Config struct {
	Provider     string        `mapstructure:"PROVIDER"`
	LogLevel     string        `mapstructure:"LOG_LEVEL"`
	MaxRetries   int           `mapstructure:"MAX_RETRIES"`
	RetryWait    time.Duration `mapstructure:"RETRY_WAIT"`
	MaxHistory   int           `mapstructure:"MAX_HISTORY"`
	SystemPrompt string        `mapstructure:"SYSTEM_PROMPT"`
	MCPConfig    string        `mapstructure:"MCP_CONFIG"`
	MetricsAddr  string        `mapstructure:"METRICS_ADDR"`
}

func defaults() map[string]any {
	return map[string]any{
		"PROVIDER":      "mock",
		"LOG_LEVEL":     "info",
		"MAX_RETRIES":   3,
		"RETRY_WAIT":    "1s",
		"MAX_HISTORY":   20,
		"SYSTEM_PROMPT": "You are a helpful assistant.",
	}
}

// Load reads envFile (or ./.env when envFile is empty and the file exists)
// into the process environment, then decodes POCKETGRAPH_* variables over
// the defaults. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return FromEnviron(os.Environ())
}

// FromEnviron decodes a KEY=value list.
func FromEnviron(environ []string) (*Config, error) {
	input := defaults()
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, Prefix) {
			continue
		}
		input[strings.TrimPrefix(key, Prefix)] = value
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid and complete
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("%sPROVIDER cannot be empty", Prefix)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("maxRetries must be at least 1, got %d", c.MaxRetries)
	}
	if c.RetryWait < 0 {
		return fmt.Errorf("retryWait cannot be negative, got %v", c.RetryWait)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("maxHistory cannot be negative, got %d", c.MaxHistory)
	}
	return nil
}
