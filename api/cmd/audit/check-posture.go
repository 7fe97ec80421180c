package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/irgordon/stegocrypt/api/internal/config"
)

// maxSaneUploadBytes is the largest upload cap that is still reasonable to
// hold fully in memory per request.
const maxSaneUploadBytes = 50 << 20

func main() {
	fmt.Println("🔍 StegoCrypt: Running Deployment Posture Audit...")

	// 1. Load the current Environment
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️  Warning: No .env file found, checking system env vars...")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ CRITICAL: Configuration does not load: %v\n", err)
		os.Exit(1)
	}

	failures := audit(cfg)

	// 2. Final Verdict
	fmt.Println("--------------------------------------------------")
	if len(failures) > 0 {
		for _, f := range failures {
			fmt.Println("❌ FAIL:", f)
		}
		fmt.Println("🚨 VERDICT: DEPLOYMENT POSTURE FAILED.")
		os.Exit(1)
	}
	fmt.Println("🚀 VERDICT: DEPLOYMENT POSTURE VALIDATED.")
}

// audit returns one line per violated rule.
func audit(cfg *config.Config) []string {
	var failures []string

	// --- Audit Point 1: Environment ---
	if cfg.Environment != "production" {
		failures = append(failures, fmt.Sprintf("STEGO_ENV is %q, expected \"production\"", cfg.Environment))
	}

	// --- Audit Point 2: CORS origins ---
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			failures = append(failures, "CORS_ALLOWED_ORIGINS must not contain a wildcard")
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			failures = append(failures, fmt.Sprintf("CORS origin %q is not a valid URL", origin))
			continue
		}
		if strings.HasPrefix(u.Hostname(), "localhost") || u.Hostname() == "127.0.0.1" {
			failures = append(failures, fmt.Sprintf("CORS origin %q points at a local host", origin))
		}
		if u.Scheme != "https" {
			failures = append(failures, fmt.Sprintf("CORS origin %q is not served over https", origin))
		}
	}

	// --- Audit Point 3: Upload & abuse limits ---
	if cfg.MaxUploadBytes > maxSaneUploadBytes {
		failures = append(failures, fmt.Sprintf("MAX_UPLOAD_BYTES %d exceeds %d", cfg.MaxUploadBytes, maxSaneUploadBytes))
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		failures = append(failures, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	// --- Audit Point 4: Log verbosity ---
	if cfg.LogLevel < slog.LevelInfo {
		failures = append(failures, "LOG_LEVEL below info leaks request metadata in production")
	}

	return failures
}
