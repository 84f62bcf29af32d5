package service

import (
	"context"
	"log/slog"
	"time"

	"rishta/internal/payment/metrics"
	"rishta/internal/payment/models"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/audit"
	"rishta/pkg/requestcontext"
)

// Gateway is the external payment processor.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64) (*models.Intent, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service creates payment intents. Contact requests record the resulting
// reference; nothing here is persisted.
type Service struct {
	gateway        Gateway
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New returns a payment service. A nil gateway makes every call fail as
// not configured.
func New(gateway Gateway, opts ...Option) *Service {
	s := &Service{gateway: gateway}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateIntent(ctx context.Context, req *models.IntentRequest) (*models.Intent, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "payment gateway is not configured")
	}

	start := time.Now()
	intent, err := s.gateway.CreateIntent(ctx, req.Amount)
	if s.metrics != nil {
		s.metrics.ObserveGatewayLatency(time.Since(start).Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementGatewayFailures()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create payment intent")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, string(audit.EventPaymentIntentCreated),
			"payment_intent_id", intent.ID,
			"amount", intent.Amount,
			"currency", intent.Currency,
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher != nil {
		_ = s.auditPublisher.Emit(ctx, audit.Event{
			Subject:    requestcontext.Identity(ctx),
			Action:     string(audit.EventPaymentIntentCreated),
			ResourceID: intent.ID,
			RequestID:  requestcontext.RequestID(ctx),
		})
	}
	if s.metrics != nil {
		s.metrics.IncrementIntentsCreated()
	}
	return intent, nil
}
