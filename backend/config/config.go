// ABOUTME: Configuration loader for backend service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, for rendered catalog payloads (default 300)
	CalculatorTTL      int      // seconds a calculator lives after its last write (default 86400)
	CatalogPath        string   // instance catalog file; empty uses the embedded catalog
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitWrite   int  // Requests per minute for write endpoints (default: 30)
	RateLimitDefault int  // Requests per minute for all other endpoints (default: 100)

	// Planning
	CompareConcurrency int // parallel plans per comparison (default: 4)

	// Observability
	MetricsEnabled bool // serve /metrics (default: true)
}

// CacheDuration returns CacheTTL as a duration
func (c *Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// CalculatorDuration returns CalculatorTTL as a duration
func (c *Config) CalculatorDuration() time.Duration {
	return time.Duration(c.CalculatorTTL) * time.Second
}

// Load reads configuration from the environment. Variables in the file named by
// ENV_FILE (default .env) are applied first without overriding the real environment.
func Load() (*Config, error) {
	if err := loadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CalculatorTTL:      getEnvInt("CALCULATOR_TTL", 86400),
		CatalogPath:        os.Getenv("CATALOG_PATH"),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitWrite:   getEnvInt("RATE_LIMIT_WRITE", 30),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),

		CompareConcurrency: getEnvInt("COMPARE_CONCURRENCY", 4),

		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
	}

	// Validate rate limit values
	for _, rl := range []struct {
		name  string
		value int
	}{
		{"RATE_LIMIT_WRITE", cfg.RateLimitWrite},
		{"RATE_LIMIT_DEFAULT", cfg.RateLimitDefault},
	} {
		if rl.value < 1 || rl.value > 10000 {
			return nil, fmt.Errorf("%s must be between 1 and 10000, got %d", rl.name, rl.value)
		}
	}

	if cfg.CompareConcurrency < 1 {
		return nil, fmt.Errorf("COMPARE_CONCURRENCY must be at least 1, got %d", cfg.CompareConcurrency)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}
	if cfg.CalculatorTTL < 1 {
		return nil, fmt.Errorf("CALCULATOR_TTL must be positive, got %d", cfg.CalculatorTTL)
	}

	return cfg, nil
}

// loadEnvFile applies path when it exists. A missing file is not an error.
func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		slog.Debug("Loaded environment file", "path", path)
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
