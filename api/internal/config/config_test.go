package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Development(t *testing.T) {
	t.Setenv("STEGO_ENV", "development")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 89_478_485, cfg.MaxImagePixels)
}

func TestLoad_Production_MissingOrigins(t *testing.T) {
	t.Setenv("STEGO_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("STEGO_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://stego.example.com, https://admin.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("MAX_IMAGE_PIXELS", "4000000")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("REQUEST_TIMEOUT", "15s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://stego.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Equal(t, 4_000_000, cfg.MaxImagePixels)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 4, cfg.RateLimitBurst)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"non numeric upload": {"MAX_UPLOAD_BYTES", "ten"},
		"negative upload":    {"MAX_UPLOAD_BYTES", "-1"},
		"zero pixels":        {"MAX_IMAGE_PIXELS", "0"},
		"bad pixels":         {"MAX_IMAGE_PIXELS", "lots"},
		"bad rps":            {"RATE_LIMIT_RPS", "fast"},
		"bad timeout":        {"REQUEST_TIMEOUT", "soon"},
		"bad log level":      {"LOG_LEVEL", "chatty"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("STEGO_ENV", "development")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
