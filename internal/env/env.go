// Package env reads typed values from environment variables with defaults.
package env

import (
	"os"
	"strconv"
)

// String returns the environment variable value or a default if not set
func String(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Float32 returns the environment variable as float32 or default if not set/invalid
func Float32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(parsed)
		}
	}
	return defaultValue
}

// Int returns the environment variable as int or default if not set/invalid
func Int(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
