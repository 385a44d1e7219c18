// Package server wires the HTTP surface of the file gateway: the public
// health endpoints, the metrics endpoint and the authenticated file routes.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ebogdum/filegate/auth"
	"github.com/ebogdum/filegate/config"
	"github.com/ebogdum/filegate/core"
	"github.com/ebogdum/filegate/metrics"
	"github.com/ebogdum/filegate/server/handlers"
	authMiddleware "github.com/ebogdum/filegate/server/middleware"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	engine *core.Engine,
	authenticator auth.Authenticator,
	authorizer auth.Authorizer,
	uploadConfig *config.UploadConfig,
	logger *zap.Logger,
) chi.Router {
	metrics.RegisterMetrics()

	r := chi.NewRouter()

	// Basic middleware
	r.Use(authMiddleware.RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(authMiddleware.SecurityHeaders())

	// Request logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("user_agent", r.UserAgent()),
				zap.String("remote_addr", r.RemoteAddr))
		})
	})

	// Public endpoints (no auth required)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Hello World!")); err != nil {
			logger.Warn("Failed to write greeting response", zap.Error(err))
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"OK"}`)); err != nil {
			logger.Warn("Failed to write status response", zap.Error(err))
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	// File routes, authenticated via the identity delegate
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authentication(authenticator, logger))

		r.Get("/list", handlers.List(engine, logger))
		r.Get("/search", handlers.Search(engine, logger))
		r.Get("/download", handlers.Download(engine, authorizer, logger))
		r.Delete("/delete", handlers.Delete(engine, authorizer, logger))

		uploadLimiter := rate.NewLimiter(rate.Limit(uploadConfig.RatePerSecond), uploadConfig.Burst)
		r.With(authMiddleware.RateLimit(uploadLimiter, logger)).
			Post("/upload", handlers.Upload(engine, logger, uploadConfig.MaxFiles, uploadConfig.MaxMemory))
	})

	return r
}
