package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"rishta/internal/story/models"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/audit"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, st *models.Story) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Story, error)
	ListNewestFirst(ctx context.Context) ([]*models.Story, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req *models.CreateRequest) (*models.Story, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	st := &models.Story{
		ID:               uuid.New(),
		SelfProfileID:    req.SelfProfileID,
		PartnerProfileID: req.PartnerProfileID,
		Title:            req.Title,
		CoupleImage:      req.CoupleImage,
		Story:            req.Story,
		Rating:           req.Rating,
		MarriageDate:     req.MarriageDate,
		CreatedAt:        requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save story")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, string(audit.EventStoryPublished),
			"story_id", st.ID.String(),
			"profile_id", st.SelfProfileID,
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher != nil {
		_ = s.auditPublisher.Emit(ctx, audit.Event{
			Action:     string(audit.EventStoryPublished),
			ResourceID: st.ID.String(),
			RequestID:  requestcontext.RequestID(ctx),
		})
	}
	return st, nil
}

func (s *Service) List(ctx context.Context) ([]*models.Story, error) {
	out, err := s.store.ListNewestFirst(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list stories")
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Story, error) {
	st, err := s.store.FindByID(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load story")
	}
	return st, nil
}

func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid story id")
	}
	return id, nil
}
