package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL  = 3 * time.Minute
	cleanupInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter is a per-client token bucket keyed by remote IP.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	logger   *slog.Logger
	visitors sync.Map // ip -> *visitor
}

// NewRateLimiter starts the idle-visitor sweeper, which runs until ctx is done.
func NewRateLimiter(ctx context.Context, rps float64, burst int, logger *slog.Logger) *RateLimiter {
	m := &RateLimiter{
		limit:  rate.Limit(rps),
		burst:  burst,
		logger: logger,
	}
	go m.cleanupVisitors(ctx)
	return m
}

func (m *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)

		v, _ := m.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(m.limit, m.burst)})
		vis := v.(*visitor)
		vis.lastSeen.Store(time.Now().UnixNano())

		if !vis.limiter.Allow() {
			m.logger.Warn("Rate limit exceeded", slog.String("ip", ip), slog.String("path", r.URL.Path))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"detail": "Rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimiter) cleanupVisitors(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *RateLimiter) sweep(now time.Time) {
	m.visitors.Range(func(key, value any) bool {
		if now.Sub(time.Unix(0, value.(*visitor).lastSeen.Load())) > visitorIdleTTL {
			m.visitors.Delete(key)
		}
		return true
	})
}

// clientIP relies on chi's RealIP having already rewritten RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
