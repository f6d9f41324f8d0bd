package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/plastinin/renderclient/internal/adapter/http/handler"
	httpmiddleware "github.com/plastinin/renderclient/internal/adapter/http/middleware"
	"github.com/plastinin/renderclient/internal/adapter/metrics"
	"go.uber.org/zap"
)

// NewRouter создаёт и настраивает HTTP роутер
func NewRouter(
	clientHandler *handler.ClientHandler,
	healthHandler *handler.HealthHandler,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.NewLoggingMiddleware(logger))
	r.Use(httpmiddleware.NewMetricsMiddleware(httpMetrics))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Health check и метрики (вне версионирования API)
	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", clientHandler.State)
		r.Post("/file", clientHandler.SelectFile)
		r.Post("/upload", clientHandler.Upload)
		r.Post("/results", clientHandler.FetchResults)
	})

	return r
}
