package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config runtime settings for the dashboard gateway.
type Config struct {
	// Server
	ServerPort string
	Debug      bool

	// Marketplace API
	MarketAPIHost string
	APITimeout    time.Duration

	// Dashboard refresh
	RefreshInterval       time.Duration
	OwnerFetchConcurrency int

	// Session persistence
	SessionFile string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:            getEnv("PORT", "4000"),
		Debug:                 getEnvBool("DEBUG", false),
		MarketAPIHost:         getEnv("MARKET_API_HOST", "http://localhost:5000/api"),
		APITimeout:            getEnvDuration("API_TIMEOUT", 10*time.Second),
		RefreshInterval:       getEnvDuration("REFRESH_INTERVAL", 30*time.Second),
		OwnerFetchConcurrency: getEnvInt("OWNER_FETCH_CONCURRENCY", 4),
		SessionFile:           getEnv("SESSION_FILE", "session.json"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		n, err := strconv.Atoi(value)
		if err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}
