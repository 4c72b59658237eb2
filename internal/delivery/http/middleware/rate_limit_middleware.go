package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go-hospital-directory/config"
	"go-hospital-directory/pkg/metrics"
	"go-hospital-directory/pkg/response"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

// RateLimitMiddleware keeps one token bucket per client IP.
// Idle buckets expire out of the visitor cache.
type RateLimitMiddleware struct {
	rps      rate.Limit
	burst    int
	visitors *cache.Cache
	metrics  *metrics.Metrics
}

func NewRateLimitMiddleware(cfg config.RateLimitConfig, m *metrics.Metrics) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rps:      rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		visitors: cache.New(visitorIdleTTL, 2*visitorIdleTTL),
		metrics:  m,
	}
}

func (m *RateLimitMiddleware) limiter(ip string) *rate.Limiter {
	if v, found := m.visitors.Get(ip); found {
		m.visitors.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(m.rps, m.burst)
	if err := m.visitors.Add(ip, limiter, cache.DefaultExpiration); err != nil {
		// another request registered the bucket first
		if v, found := m.visitors.Get(ip); found {
			return v.(*rate.Limiter)
		}
	}
	return limiter
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.rps <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		if !m.limiter(clientIP(r)).Allow() {
			m.metrics.RateLimitHit()
			w.Header().Set("Retry-After", "1")
			response.TooManyRequests(w, "Too many requests, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
