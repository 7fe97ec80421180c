package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const serviceName = "StegoCrypt API"

// SelfTester is satisfied by the stego pipeline.
type SelfTester interface {
	SelfTest(ctx context.Context) error
}

type HealthHandler struct {
	checker SelfTester
	logger  *slog.Logger
}

func NewHealthHandler(checker SelfTester, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	// 🛡️ SLA: Use a tight timeout for health checks
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	// Round-trip a tiny message through the codec to prove it still works
	if err := h.checker.SelfTest(ctx); err != nil {
		h.logger.Error("Health self-test failed", slog.Any("error", err))
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "service": serviceName})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy", "service": serviceName})
}
