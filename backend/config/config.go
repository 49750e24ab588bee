// ABOUTME: Configuration loader for the sizing service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	CacheTTL           int      // seconds, sizing result cache
	CORSAllowedOrigins []string // allowed CORS origins (empty = block all cross-origin)
	MaxRequestBody     int64    // bytes accepted in a POST body (default: 1 MiB)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitDefault int  // Requests per minute per client (default: 100)

	// Sizing
	DefaultRAMCandidatesGB []float64 // RAM tiers used when a request omits them (default: 4,8)
}

func Load() (*Config, error) {
	if err := loadDotEnv(getEnv("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),
		MaxRequestBody:     int64(getEnvInt("MAX_REQUEST_BODY", 1<<20)),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnvInt("RATE_LIMIT_DEFAULT", 100),
	}

	ram, err := getEnvFloatList("DEFAULT_RAM_CANDIDATES_GB", []float64{4, 8})
	if err != nil {
		return nil, err
	}
	cfg.DefaultRAMCandidatesGB = ram

	if cfg.RateLimitDefault < 1 || cfg.RateLimitDefault > 10000 {
		return nil, fmt.Errorf("RATE_LIMIT_DEFAULT must be between 1 and 10000, got %d", cfg.RateLimitDefault)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("CACHE_TTL must not be negative, got %d", cfg.CacheTTL)
	}
	if cfg.MaxRequestBody < 1 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY must be positive, got %d", cfg.MaxRequestBody)
	}
	for _, gb := range cfg.DefaultRAMCandidatesGB {
		if gb <= 0 {
			return nil, fmt.Errorf("DEFAULT_RAM_CANDIDATES_GB values must be positive, got %g", gb)
		}
	}

	return cfg, nil
}

// loadDotEnv merges path into the environment. Variables already set win,
// and a missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
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

// getEnvFloatList parses a comma-separated list of numbers. Unlike the scalar
// helpers it reports malformed entries instead of falling back silently.
func getEnvFloatList(key string, defaultValue []float64) ([]float64, error) {
	parts := getEnvStringList(key)
	if len(parts) == 0 {
		return defaultValue, nil
	}
	result := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid number %q", key, part)
		}
		result = append(result, f)
	}
	return result, nil
}
