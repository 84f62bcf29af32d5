package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rishta/internal/favorite/models"
	"rishta/internal/favorite/service"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

type Service interface {
	Add(ctx context.Context, req *models.AddRequest) (*models.Entry, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, owner string) ([]*models.Entry, error)
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
	r.With(h.guards.Writes()).Post("/addfevorites", h.handleAdd)
	r.Delete("/deletefevorite/{id}", h.handleRemove)
	r.Get("/myfevorites", h.handleList)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.AddRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid favorite request", err)
		return
	}
	e, err := h.service.Add(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to add favorite", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Remove(ctx, id); err != nil {
		h.writeError(ctx, w, "failed to delete favorite", err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "Deleted")
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.ListByOwner(ctx, r.URL.Query().Get("email"))
	if err != nil {
		h.writeError(ctx, w, "failed to list favorites", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
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
