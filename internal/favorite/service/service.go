package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rishta/internal/favorite/metrics"
	"rishta/internal/favorite/models"
	"rishta/internal/favorite/ports"
	"rishta/pkg/attrs"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, e *models.Entry) error
	Delete(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Entry, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages per-identity bookmark sets.
type Service struct {
	store          Store
	profiles       ports.ProfilePort
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

// WithProfiles makes Add fill in a summary the caller left empty. Unknown
// targets are still bookmarked with whatever summary the caller sent.
func WithProfiles(p ports.ProfilePort) Option {
	return func(s *Service) {
		s.profiles = p
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add bookmarks a profile. A second add of the same (owner, target) pair is
// a conflict.
func (s *Service) Add(ctx context.Context, req *models.AddRequest) (*models.Entry, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	summary := req.Summary
	if s.profiles != nil {
		resolved, err := s.profiles.Summary(ctx, req.TargetProfileID)
		switch {
		case err == nil:
			if summary.IsZero() {
				summary = resolved
			}
		case dErrors.HasCode(err, dErrors.CodeNotFound):
			// The target may live elsewhere; keep the caller's summary.
		default:
			return nil, wrapFavoriteErr(err, "failed to resolve biodata")
		}
	}

	e := &models.Entry{
		ID:              uuid.New(),
		OwnerIdentity:   req.OwnerIdentity,
		TargetProfileID: req.TargetProfileID,
		Summary:         summary,
		CreatedAt:       requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add favorite")
	}

	s.logAudit(ctx, string(audit.EventFavoriteAdded),
		"identity", e.OwnerIdentity,
		"profile_id", e.TargetProfileID,
	)
	if s.metrics != nil {
		s.metrics.IncrementAdded()
	}
	return e, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	e, err := s.store.Delete(ctx, id)
	if err != nil {
		return wrapFavoriteErr(err, "failed to delete favorite")
	}
	s.logAudit(ctx, string(audit.EventFavoriteRemoved),
		"identity", e.OwnerIdentity,
		"profile_id", e.TargetProfileID,
	)
	if s.metrics != nil {
		s.metrics.IncrementRemoved()
	}
	return nil
}

// ListByOwner returns the owner's favorites. Callers must not rely on order.
func (s *Service) ListByOwner(ctx context.Context, owner string) ([]*models.Entry, error) {
	owner = email.Normalize(owner)
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	out, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list favorites")
	}
	return out, nil
}

func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid favorite id")
	}
	return id, nil
}

func wrapFavoriteErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event, args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:    attrs.ExtractString(attributes, "identity"),
		Action:     event,
		ResourceID: attrs.ExtractValue(attributes, "profile_id"),
		RequestID:  attrs.ExtractString(attributes, "request_id"),
	})
}
