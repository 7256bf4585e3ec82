package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/finsignal/screener/pkg/logger"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// fallbackLimiter throttles API requests in-process when Redis is
// disabled. Same budget as redisclient.APIRateLimit: 60 per minute.
var fallbackLimiter = rate.NewLimiter(rate.Limit(1), 60)

// rateLimitMiddleware enforces the API request budget. With Redis
// enabled the limit is shared across instances via a sliding window;
// otherwise a local token bucket applies.
func rateLimitMiddleware(limiter *redisclient.RateLimiter, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed := true

			if limiter != nil {
				ok, _, err := limiter.Allow(r.Context(), redisclient.APIRateLimit)
				if err != nil {
					// A broken limiter must not take the API down
					log.WithError(err).Warn("Rate limiter check failed")
				} else {
					allowed = ok
				}
			} else {
				allowed = fallbackLimiter.Allow()
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "Rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
