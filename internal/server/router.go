package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/unclebandit/campaign-manager/internal/controller"
	"github.com/unclebandit/campaign-manager/internal/handler"
	"github.com/unclebandit/campaign-manager/internal/metrics"
	"github.com/unclebandit/campaign-manager/internal/response"
	"github.com/unclebandit/campaign-manager/internal/service"
)

type Options struct {
	Service     service.CampaignServicer
	Log         *zap.Logger
	ShowErrors  bool
	CORSOrigins []string
	// Gatherer backs /metrics. Nil leaves the endpoint unmounted.
	Gatherer    prometheus.Gatherer
}

// NewRouter wires every HTTP route of the campaign API.
func NewRouter(opts Options) http.Handler {
	campaigns := controller.NewCampaignController(opts.Service, opts.Log, opts.ShowErrors)
	dashboard := handler.NewDashboardHandler(opts.Service, opts.Log, opts.ShowErrors)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(opts.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(metrics.Middleware)

	r.NotFound(response.NotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	r.Get("/health", dashboard.HealthHandler)
	r.Route("/campaigns", campaigns.Routes)
	r.Get("/dashboard/stats", dashboard.StatsHandler)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		})
	}
}
