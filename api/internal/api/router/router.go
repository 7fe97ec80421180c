package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/irgordon/stegocrypt/api/internal/api/handlers"
	stego_middleware "github.com/irgordon/stegocrypt/api/internal/api/middleware"
	deliveryhttp "github.com/irgordon/stegocrypt/api/internal/delivery/http"
)

// formOverhead covers multipart boundaries and the text fields on top of the
// image itself.
const formOverhead = 2 << 20

// RouterConfig defines the strict dependencies required to build the API routing tree.
type RouterConfig struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	RequestTimeout time.Duration
	StegoHandler   *handlers.StegoHandler
	HealthHandler  *deliveryhttp.HealthHandler
	RateLimiter    *stego_middleware.RateLimiter
	Logger         *slog.Logger
}

// NewRouter constructs the Chi multiplexer, attaches global middleware, and wires all endpoints.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// =========================================================================
	// 1. Global Gateway Middleware Pipeline
	// =========================================================================

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(stego_middleware.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// 🛡️ Uploads are held in memory, so the whole body is capped
	r.Use(stego_middleware.MaxBytes(cfg.MaxUploadBytes + formOverhead))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Capacity-Used", "X-Encryption-Used", "X-Message-Size", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// =========================================================================
	// 2. Routing Tree
	// =========================================================================

	r.Get("/", cfg.StegoHandler.Info)
	r.Get("/health", cfg.HealthHandler.Check)

	// 🛡️ Token bucket only on the endpoints that decode images
	r.Group(func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}
		r.Post("/capacity", cfg.StegoHandler.Capacity)
		r.Post("/encode", cfg.StegoHandler.Encode)
		r.Post("/decode", cfg.StegoHandler.Decode)
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	return r
}
