package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	HTTPAddr           string
	AdminToken         string
	ResultsSecret      string
	RateLimitPerMinute int
}

func Load() (Config, error) {
	// Optional: load local .env for development. Missing file is fine.
	_ = godotenv.Load()

	ratePerMinute := getenvIntDefault("AGENTDIR_RATE_LIMIT_PER_MINUTE", 120)
	if ratePerMinute < 10 {
		ratePerMinute = 10
	}

	cfg := Config{
		DatabaseURL:        os.Getenv("AGENTDIR_DATABASE_URL"),
		HTTPAddr:           getenvDefault("AGENTDIR_HTTP_ADDR", ":8080"),
		AdminToken:         strings.TrimSpace(os.Getenv("AGENTDIR_ADMIN_TOKEN")),
		ResultsSecret:      strings.TrimSpace(os.Getenv("AGENTDIR_RESULTS_SECRET")),
		RateLimitPerMinute: ratePerMinute,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("AGENTDIR_DATABASE_URL is required")
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvIntDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
