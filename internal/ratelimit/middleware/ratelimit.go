package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rishta/internal/ratelimit/metrics"
	"rishta/internal/ratelimit/models"
	audit "rishta/pkg/platform/audit"
	"rishta/pkg/platform/circuit"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

// BucketStore is the counter backend consulted per request.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// AuditPublisher receives rejected-request events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Middleware struct {
	primary       BucketStore
	fallback      BucketStore
	breaker       *circuit.Breaker
	limits        map[models.EndpointClass]models.Limit
	fallbackLimit models.Limit
	logger        *slog.Logger
	metrics       *metrics.Metrics
	auditor       AuditPublisher
	disabled      bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// WithFallback routes checks to an in-process store while the primary is failing.
func WithFallback(store BucketStore, breaker *circuit.Breaker) Option {
	return func(m *Middleware) {
		m.fallback = store
		m.breaker = breaker
	}
}

// WithLimit overrides the budget for one endpoint class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(m *Middleware) {
		m.limits[class] = limit
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(mw *Middleware) {
		mw.metrics = m
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(m *Middleware) {
		m.auditor = p
	}
}

// New builds the middleware. defaultLimit applies to every class without an override.
func New(primary BucketStore, logger *slog.Logger, defaultLimit models.Limit, opts ...Option) *Middleware {
	m := &Middleware{
		primary:       primary,
		logger:        logger,
		limits:        make(map[models.EndpointClass]models.Limit),
		fallbackLimit: defaultLimit,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

func (m *Middleware) limitFor(class models.EndpointClass) models.Limit {
	if l, ok := m.limits[class]; ok {
		return l
	}
	return m.fallbackLimit
}

// RateLimit limits requests per client address for the given class.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			limit := m.limitFor(class)

			result, degraded, err := m.check(ctx, models.NewIPRateLimitKey(class, ip), limit)
			if err != nil {
				// Fail open: a limiter outage must not take the API down with it.
				m.logger.ErrorContext(ctx, "failed to check IP rate limit",
					"error", err,
					"class", class,
					"request_id", requestcontext.RequestID(ctx),
				)
				next.ServeHTTP(w, r)
				return
			}

			if degraded {
				w.Header().Set("X-RateLimit-Status", "degraded")
			}
			addRateLimitHeaders(w, result)

			if !result.Allowed {
				m.reject(ctx, class, ip)
				writeRateLimitExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// check consults the primary store and switches to the fallback while the
// breaker is open. The primary keeps being tried so the breaker can close.
func (m *Middleware) check(ctx context.Context, key string, limit models.Limit) (*models.RateLimitResult, bool, error) {
	result, err := m.primary.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if m.breaker == nil || m.fallback == nil {
		return result, false, err
	}

	if err != nil {
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.logger.WarnContext(ctx, "rate limit store failing, switching to in-memory fallback", "error", err)
			m.setCircuit(true)
		}
		if !useFallback {
			return nil, false, err
		}
		return m.fromFallback(ctx, key, limit)
	}

	usePrimary, change := m.breaker.RecordSuccess()
	if change.Closed {
		m.logger.InfoContext(ctx, "rate limit store recovered")
		m.setCircuit(false)
	}
	if usePrimary {
		return result, false, nil
	}
	return m.fromFallback(ctx, key, limit)
}

func (m *Middleware) fromFallback(ctx context.Context, key string, limit models.Limit) (*models.RateLimitResult, bool, error) {
	if m.metrics != nil {
		m.metrics.IncrementDegraded()
	}
	result, err := m.fallback.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	return result, true, err
}

func (m *Middleware) setCircuit(open bool) {
	if m.metrics != nil {
		m.metrics.SetCircuitOpen(open)
	}
}

func (m *Middleware) reject(ctx context.Context, class models.EndpointClass, ip string) {
	if m.metrics != nil {
		m.metrics.IncrementRejected(string(class))
	}
	m.logger.WarnContext(ctx, "rate limit exceeded",
		"class", class,
		"request_id", requestcontext.RequestID(ctx),
	)
	if m.auditor != nil {
		_ = m.auditor.Emit(ctx, audit.Event{
			Subject:   requestcontext.Identity(ctx),
			Action:    string(audit.EventRateLimitExceeded),
			Reason:    string(class),
			ActorID:   ip,
			RequestID: requestcontext.RequestID(ctx),
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	if result == nil {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limited",
		Message:    "Too many requests. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
