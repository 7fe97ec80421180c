package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/irgordon/stegocrypt/api/internal/api/handlers"
	"github.com/irgordon/stegocrypt/api/internal/api/middleware"
	"github.com/irgordon/stegocrypt/api/internal/api/router"
	"github.com/irgordon/stegocrypt/api/internal/config"
	"github.com/irgordon/stegocrypt/api/internal/core/services"
	deliveryhttp "github.com/irgordon/stegocrypt/api/internal/delivery/http"
	"github.com/irgordon/stegocrypt/api/internal/infrastructure/crypto"
)

func main() {
	// --- 1. Core Telemetry & Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("FATAL: invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("Booting StegoCrypt API", "env", cfg.Environment)

	// --- 2. Dependency Injection ---
	envelope := crypto.NewPasswordEnvelope()
	stegoService := services.NewStegoService(envelope, cfg.MaxImagePixels, logger)

	stegoHandler := handlers.NewStegoHandler(stegoService, cfg.MaxUploadBytes)
	healthHandler := deliveryhttp.NewHealthHandler(stegoService, logger)

	// --- 3. Background Workers ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	rateLimiter := middleware.NewRateLimiter(workerCtx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	// --- 4. HTTP Gateway ---
	mux := router.NewRouter(router.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RequestTimeout: cfg.RequestTimeout,
		StegoHandler:   stegoHandler,
		HealthHandler:  healthHandler,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
	}

	// --- 5. Graceful Exit ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("StegoCrypt API active", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("CRITICAL: Server crashed", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("Shutting down...")
	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("ERROR: Forced shutdown", "error", err)
	}
	logger.Info("StegoCrypt API stopped")
}
