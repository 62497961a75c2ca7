// Package config loads service configuration from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the service reads at startup.
type Config struct {
	// HTTP server
	Port string

	// Persistence: a DSN selects postgres, otherwise the document lives in
	// a local JSON file at LedgerFile.
	DatabaseURL string
	LedgerFile  string

	// Narrative summary
	GeminiAPIKey string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration, sourcing a .env file first when present.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		LedgerFile:   getEnv("LEDGER_FILE", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}
}

// Validate reports configuration errors that would prevent startup.
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q: must be a number", c.Port)
	} else if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid log format %q: must be json or text", c.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
