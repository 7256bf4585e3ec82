package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/finsignal/screener/internal/api/handlers"
	"github.com/finsignal/screener/pkg/logger"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// NewRouter creates and configures the HTTP router
// SSOT: route registration happens only in this function.
func NewRouter(
	screeningHandler *handlers.ScreeningHandler,
	backtestHandler *handlers.BacktestHandler,
	statusHandler *handlers.StatusHandler,
	limiter *redisclient.RateLimiter,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check stays outside the rate limit
	r.HandleFunc("/health", statusHandler.Health).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()
	api.Use(rateLimitMiddleware(limiter, log))

	// Screening endpoints
	api.HandleFunc("/opportunities", screeningHandler.GetOpportunities).Methods("GET")
	api.HandleFunc("/screen", screeningHandler.Screen).Methods("POST")
	api.HandleFunc("/runs", screeningHandler.GetRuns).Methods("GET")

	// Backtest
	api.HandleFunc("/backtest", backtestHandler.Run).Methods("POST")

	// Status
	api.HandleFunc("/status", statusHandler.Status).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
