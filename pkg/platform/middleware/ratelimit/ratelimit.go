// Package ratelimit throttles requests per client IP with a token bucket.
package ratelimit

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"workaccess/pkg/apperrors"
	"workaccess/pkg/platform/httputil"
)

// maxEntries bounds the limiter map; when exceeded the map is dropped
// wholesale, which briefly over-admits rather than growing without bound.
const maxEntries = 10000

type Limiter struct {
	rps     rate.Limit
	burst   int
	logger  *slog.Logger
	counter prometheus.Counter

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// New builds a per-IP limiter. counter may be nil.
func New(rps float64, burst int, logger *slog.Logger, counter prometheus.Counter) *Limiter {
	return &Limiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		logger:   logger,
		counter:  counter,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *Limiter) limiterFor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.limiters) > maxEntries {
		l.limiters = make(map[string]*rate.Limiter)
	}
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.limiterFor(ip).Allow() {
			if l.counter != nil {
				l.counter.Inc()
			}
			l.logger.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			httputil.WriteError(w, r, apperrors.New(apperrors.CodeRateLimited, "too many requests"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
