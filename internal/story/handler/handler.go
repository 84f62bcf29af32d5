package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rishta/internal/story/models"
	"rishta/internal/story/service"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, req *models.CreateRequest) (*models.Story, error)
	List(ctx context.Context) ([]*models.Story, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Story, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
	guards  shared.Guards
}

func New(svc Service, logger *slog.Logger, guards shared.Guards) *Handler {
	return &Handler{service: svc, logger: logger, guards: guards}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.guards.Writes()).Post("/success-story", h.handleCreate)
	r.Get("/success-story", h.handleList)
	r.Get("/success-story/{id}", h.handleGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid story request", err)
		return
	}
	st, err := h.service.Create(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to create story", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, models.CreateResponse{Success: true, InsertedID: st.ID})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.List(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list stories", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	st, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to load story", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, st)
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
