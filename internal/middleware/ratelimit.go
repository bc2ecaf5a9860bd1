package middleware

import (
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/Marsh2546/nvr-monitoring-system/internal/ratelimit"
)

// RateLimitMiddleware throttles write-style endpoints (snapshot triggers,
// maintenance) per client IP.
type RateLimitMiddleware struct {
	Limiter *ratelimit.Limiter
	Config  ratelimit.LimitConfig
}

func NewRateLimitMiddleware(limiter *ratelimit.Limiter, cfg ratelimit.LimitConfig) *RateLimitMiddleware {
	return &RateLimitMiddleware{Limiter: limiter, Config: cfg}
}

func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		decision, err := m.Limiter.Check(r.Context(), m.Limiter.HashIP(ip), m.Config)
		if err != nil {
			// Fail open: a Redis outage should not block maintenance.
			log.Printf("[RATELIMIT] check failed, allowing request: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(decision.RetryAfter))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
