// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir            string // Base directory for the cache database, always absolute
	Port               int
	LogLevel           string
	DevMode            bool
	BrokerageBaseURL   string
	BrokerageAPIKey    string
	BrokerageAPISecret string
	QuoteCacheTTL      time.Duration
	HistoryCacheTTL    time.Duration
	CacheCleanupCron   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("LOTWATCH_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("LOTWATCH_PORT", 8010),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		BrokerageBaseURL:   getEnv("BROKERAGE_BASE_URL", "https://tradernet.com/api"),
		BrokerageAPIKey:    getEnv("BROKERAGE_API_KEY", ""),
		BrokerageAPISecret: getEnv("BROKERAGE_API_SECRET", ""),
		QuoteCacheTTL:      getEnvAsDuration("QUOTE_CACHE_TTL", 10*time.Minute),
		HistoryCacheTTL:    getEnvAsDuration("HISTORY_CACHE_TTL", 4*time.Hour),
		CacheCleanupCron:   getEnv("CACHE_CLEANUP_CRON", "0 0 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	// Brokerage credentials are optional: without them the server still
	// serves cached data and health endpoints.
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
