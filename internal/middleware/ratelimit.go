package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"orgboard-backend/internal/cache"
	"orgboard-backend/internal/response"
)

const (
	authLimit  = 10
	authWindow = time.Minute
)

// RateLimitAuth limits signup/login attempts per client IP. The counter is
// best effort: a cache error never blocks the request.
func RateLimitAuth(cacheClient cache.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := "rl:auth:" + ip
			count, err := cacheClient.IncrWithTTL(r.Context(), key, authWindow)
			if err == nil && count > authLimit {
				response.Error(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
