package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rishta/internal/contact/metrics"
	"rishta/internal/contact/models"
	"rishta/pkg/attrs"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/email"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, c *models.ContactRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error)
	ListByTarget(ctx context.Context, targetProfileID int64) ([]*models.ContactRequest, error)
	ListByRequester(ctx context.Context, requester string) ([]*models.ContactRequest, error)
	ListAll(ctx context.Context) ([]*models.ContactRequest, error)
	Execute(ctx context.Context, id uuid.UUID, validate func(*models.ContactRequest) error, mutate func(*models.ContactRequest)) (*models.ContactRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRequesterName(ctx context.Context, requester, name string) (int64, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service mediates contact requests between a paying requester and a
// profile. Payment is captured elsewhere; only its reference is kept here.
type Service struct {
	store          Store
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records a pending request. A second request for the same
// (target, requester) pair is a conflict, whatever the first one's status.
func (s *Service) Submit(ctx context.Context, req *models.SubmitRequest) (*models.ContactRequest, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &models.ContactRequest{
		ID:                uuid.New(),
		TargetProfileID:   req.TargetProfileID,
		RequesterIdentity: req.RequesterIdentity,
		Requester:         models.RequesterSnapshot{Name: req.RequesterName, Mobile: req.RequesterMobile},
		PaymentReference:  req.PaymentReference,
		Status:            models.StatusPending,
		RequestedAt:       requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "contact already requested for this biodata")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save contact request")
	}

	s.logAudit(ctx, string(audit.EventContactRequested),
		"identity", c.RequesterIdentity,
		"profile_id", c.TargetProfileID,
		"contact_request_id", c.ID.String(),
	)
	if s.metrics != nil {
		s.metrics.IncrementSubmitted()
	}
	return c, nil
}

// Approve marks a request approved. Approving an approved request returns it
// unchanged.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error) {
	var wasPending bool
	c, err := s.store.Execute(ctx, id,
		func(c *models.ContactRequest) error {
			wasPending = !c.IsApproved()
			return nil
		},
		func(c *models.ContactRequest) {
			c.ApplyApproval(requestcontext.Now(ctx))
		},
	)
	if err != nil {
		return nil, wrapContactErr(err, "failed to approve contact request")
	}

	if wasPending {
		s.logAudit(ctx, string(audit.EventContactApproved),
			"identity", c.RequesterIdentity,
			"profile_id", c.TargetProfileID,
			"contact_request_id", c.ID.String(),
			"actor", requestcontext.Identity(ctx),
		)
		if s.metrics != nil {
			s.metrics.IncrementApproved()
		}
	}
	return c, nil
}

func (s *Service) ListByTarget(ctx context.Context, targetProfileID int64) ([]*models.ContactRequest, error) {
	if targetProfileID <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "biodata id must be a positive integer")
	}
	out, err := s.store.ListByTarget(ctx, targetProfileID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contact requests")
	}
	return out, nil
}

func (s *Service) ListByRequester(ctx context.Context, requester string) ([]*models.ContactRequest, error) {
	requester = email.Normalize(requester)
	if requester == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	out, err := s.store.ListByRequester(ctx, requester)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contact requests")
	}
	return out, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*models.ContactRequest, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contact requests")
	}
	if s.metrics != nil {
		pending := 0
		for _, c := range out {
			if !c.IsApproved() {
				pending++
			}
		}
		s.metrics.SetPending(pending)
	}
	return out, nil
}

func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return wrapContactErr(err, "failed to delete contact request")
	}
	s.logAudit(ctx, string(audit.EventContactDeleted),
		"contact_request_id", id.String(),
		"actor", requestcontext.Identity(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	return nil
}

// RenameRequester rewrites the requester name on every request the identity
// has made. It reports NoChange when no request was modified.
func (s *Service) RenameRequester(ctx context.Context, requester, name string) (int64, error) {
	requester = email.Normalize(requester)
	name = strings.TrimSpace(name)
	if requester == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "email is required")
	}
	if name == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "name is required")
	}

	modified, err := s.store.UpdateRequesterName(ctx, requester, name)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update contact requests")
	}
	if modified == 0 {
		return 0, dErrors.New(dErrors.CodeNoChange, "no contact request updated")
	}
	return modified, nil
}

// ParseID parses a contact request id path parameter.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid contact request id")
	}
	return id, nil
}

func wrapContactErr(err error, msg string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "contact request not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "contact request was modified concurrently, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
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
		ActorID:    attrs.ExtractString(attributes, "actor"),
		RequestID:  attrs.ExtractString(attributes, "request_id"),
	})
}
