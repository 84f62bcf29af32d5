// Package httptransport assembles the HTTP surface: platform middleware,
// platform routes and every domain handler.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"rishta/pkg/platform/httputil"
	"rishta/pkg/platform/middleware/metadata"
	"rishta/pkg/platform/middleware/request"
	"rishta/pkg/platform/middleware/requesttime"
)

// RouteRegistrar is implemented by every domain handler.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthChecker is a dependency checked by GET /healthz.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// MetricsHandler serves the Prometheus registry and observes request latency.
type MetricsHandler interface {
	request.LatencyObserver
	Handler() http.Handler
}

type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	// TrustedProxies may set X-Forwarded-For / X-Real-IP. Empty means the
	// socket address is always the client.
	TrustedProxies []netip.Prefix
}

type Router struct {
	cfg      Config
	logger   *slog.Logger
	metrics  MetricsHandler
	checks   map[string]HealthChecker
	handlers []RouteRegistrar
}

type Option func(*Router)

func WithMetrics(m MetricsHandler) Option {
	return func(r *Router) {
		r.metrics = m
	}
}

// WithHealthCheck adds a named dependency to GET /healthz.
func WithHealthCheck(name string, check HealthChecker) Option {
	return func(r *Router) {
		r.checks[name] = check
	}
}

func WithHandlers(handlers ...RouteRegistrar) Option {
	return func(r *Router) {
		r.handlers = append(r.handlers, handlers...)
	}
}

func New(cfg Config, logger *slog.Logger, opts ...Option) *Router {
	r := &Router{cfg: cfg, logger: logger, checks: make(map[string]HealthChecker)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Handler builds the chi mux. Middleware order: correlation id first so every
// later log line carries it, recovery before anything that may panic.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(request.RequestID)
	r.Use(request.Recovery(rt.logger))
	r.Use(request.Logger(rt.logger))
	r.Use(metadata.ClientMetadata(rt.cfg.TrustedProxies))
	r.Use(requesttime.Middleware)
	if rt.cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(rt.cfg.RequestTimeout))
	}
	if rt.metrics != nil {
		r.Use(request.LatencyMiddleware(rt.metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", request.HeaderRequestID},
		ExposedHeaders:   []string{request.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Hello, Rishta!"))
	})
	r.Get("/healthz", rt.handleHealth)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	for _, h := range rt.handlers {
		h.Register(r)
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (rt *Router) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(rt.checks))}
	status := http.StatusOK
	for name, check := range rt.checks {
		if err := check.Health(ctx); err != nil {
			rt.logger.WarnContext(ctx, "health check failed",
				"dependency", name,
				"error", err,
				"request_id", request.GetRequestID(ctx),
			)
			resp.Checks[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	httputil.WriteJSON(w, status, resp)
}
