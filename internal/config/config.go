// Package config reads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ksahni/folio"
)

// Config holds application configuration
type Config struct {
	PortfolioPath string // portfolio definition file
	Currency      string // reporting currency
	Benchmark     string // benchmark index symbol
	RatePolicy    folio.RatePolicy
	Workers       int // concurrent price fetches
	Port          int
	LogLevel      string
	Pretty        bool
	GeminiAPIKey  string
}

// Load reads configuration from environment variables, with a .env file as
// an optional source.
func Load() (*Config, error) {
	_ = godotenv.Load()

	policy, err := folio.ParseRatePolicy(getEnv("FOLIO_RATE_POLICY", "per-date"))
	if err != nil {
		return nil, fmt.Errorf("FOLIO_RATE_POLICY: %w", err)
	}

	cfg := &Config{
		PortfolioPath: getEnv("FOLIO_PORTFOLIO", "portfolio.json"),
		Currency:      getEnv("FOLIO_CURRENCY", folio.DefaultCurrency),
		Benchmark:     getEnv("FOLIO_BENCHMARK", folio.DefaultBenchmark),
		RatePolicy:    policy,
		Workers:       getEnvAsInt("FOLIO_WORKERS", folio.DefaultWorkers),
		Port:          getEnvAsInt("FOLIO_PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Pretty:        getEnvAsBool("LOG_PRETTY", false),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.PortfolioPath == "" {
		return fmt.Errorf("FOLIO_PORTFOLIO is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("FOLIO_PORT %d is out of range", c.Port)
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
