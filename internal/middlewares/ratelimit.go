package middlewares

import (
	"net"
	"net/http"
	"strconv"

	"github.com/ulule/limiter/v3"

	"github.com/sbilibin2017/gw-money-tracker/internal/logger"
)

// RateLimitMiddleware limits requests per client IP with the given limiter.
// A failing limiter store lets the request through.
func RateLimitMiddleware(l *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			lctx, err := l.Get(r.Context(), ip)
			if err != nil {
				logger.Log.Errorw("failed to get rate limit context", "ip", ip, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				logger.Log.Warnw("rate limit exceeded", "ip", ip, "limit", lctx.Limit)
				writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
