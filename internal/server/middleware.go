package server

import (
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	logger   *slog.Logger
}

func newIPRateLimiter(r rate.Limit, burst int, logger *slog.Logger) *ipRateLimiter {
	if r == 0 {
		r = rate.Inf
	}
	return &ipRateLimiter{rate: r, burst: burst, logger: logger}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	if lim, ok := l.limiters.Load(ip); ok {
		return lim.(*rate.Limiter)
	}
	lim, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return lim.(*rate.Limiter)
}

func (l *ipRateLimiter) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.get(ip).Allow() {
			l.logger.WarnContext(r.Context(), "rate limit exceeded", "ip", ip, "path", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP reads the address set by middleware.RealIP, dropping any port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
