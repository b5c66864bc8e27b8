package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet"
)

// NewRouter routes one POST endpoint per document operation, plus GET /health.
func NewRouter(wallet *idwallet.Wallet, cfg *ServeConfig, logger logrus.FieldLogger) *chi.Mux {
	h := &handlers{wallet: wallet, log: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.WriteTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestSize))

	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CorsOrigins,
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.health)
	r.Post("/pub-info", h.pubInfo)
	r.Post("/id-request", h.idRequest)
	r.Post("/credential", h.credential)
	r.Post("/deployment-info", h.deploymentInfo)
	r.Post("/deployment", h.deployment)
	r.Post("/decrypt", h.decrypt)
	return r
}

// requestLogger logs method, path and status of every request. Bodies are never logged.
func requestLogger(logger logrus.FieldLogger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}).Info("Request")
		})
	}
}
