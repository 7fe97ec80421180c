package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the StegoCrypt API.
// The core never touches the filesystem; nothing here points at a directory.
type Config struct {
	Environment    string // "development" or "production"
	Port           string
	AllowedOrigins []string
	LogLevel       slog.Level

	// Upload and abuse limits
	MaxUploadBytes int64
	MaxImagePixels int // decoded size cap, independent of the compressed upload size
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// Load reads an optional .env file, then the process environment, and applies
// development fallbacks. Production deployments must set their CORS origins.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	env := getEnv("STEGO_ENV", "production")

	corsOrigins := getEnv("CORS_ALLOWED_ORIGINS", "")
	if corsOrigins == "" {
		if env == "production" {
			return nil, errors.New("config: CORS_ALLOWED_ORIGINS is required in production")
		}
		corsOrigins = "http://localhost:3000,http://localhost:5173"
	}

	maxUpload, err := getInt64("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive, got %d", maxUpload)
	}

	maxPixels, err := getInt64("MAX_IMAGE_PIXELS", 89_478_485)
	if err != nil {
		return nil, err
	}
	if maxPixels <= 0 {
		return nil, fmt.Errorf("config: MAX_IMAGE_PIXELS must be positive, got %d", maxPixels)
	}

	rps, err := getFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := getInt64("RATE_LIMIT_BURST", 20)
	if err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "60s"))
	if err != nil {
		return nil, fmt.Errorf("config: REQUEST_TIMEOUT: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}

	return &Config{
		Environment:    env,
		Port:           getEnv("PORT", "8000"),
		AllowedOrigins: splitOrigins(corsOrigins),
		LogLevel:       level,
		MaxUploadBytes: maxUpload,
		MaxImagePixels: int(maxPixels),
		RateLimitRPS:   rps,
		RateLimitBurst: int(burst),
		RequestTimeout: timeout,
	}, nil
}

// getEnv retrieves an environment variable or returns a fallback value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getInt64(key string, fallback int64) (int64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return v, nil
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
