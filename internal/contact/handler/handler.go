package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rishta/internal/contact/models"
	"rishta/internal/contact/service"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/platform/middleware/admin"
	"rishta/pkg/requestcontext"
)

// Service defines the contact request operations used over HTTP.
type Service interface {
	Submit(ctx context.Context, req *models.SubmitRequest) (*models.ContactRequest, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.ContactRequest, error)
	ListByTarget(ctx context.Context, targetProfileID int64) ([]*models.ContactRequest, error)
	ListByRequester(ctx context.Context, requester string) ([]*models.ContactRequest, error)
	ListAll(ctx context.Context) ([]*models.ContactRequest, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RenameRequester(ctx context.Context, requester, name string) (int64, error)
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
	r.With(h.guards.Writes()).Post("/contact-requests", h.handleSubmit)

	r.Group(func(r chi.Router) {
		r.Use(h.guards.Auth())

		r.Get("/my-contact-requests", h.handleListMine)
		r.Get("/all-contact-request/{id}", h.handleListByTarget)
		r.With(admin.RequireSelf("email", h.logger)).Patch("/update-contact-request-name/{email}", h.handleRenameRequester)

		r.Group(func(r chi.Router) {
			r.Use(h.guards.Admin())
			r.Get("/all-contact-request", h.handleListAll)
			r.Patch("/approve-contact/{id}", h.handleApprove)
			r.Delete("/all-contact-request/{id}", h.handleRemove)
		})
	})
}

type renameResponse struct {
	Success  bool  `json:"success"`
	Modified int64 `json:"modifiedCount"`
}

type contactResponse struct {
	Success bool                   `json:"success"`
	Data    *models.ContactRequest `json:"data"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.SubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid contact request", err)
		return
	}
	c, err := h.service.Submit(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to submit contact request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, contactResponse{Success: true, Data: c})
}

func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.Approve(ctx, id)
	if err != nil {
		h.writeError(ctx, w, "failed to approve contact request", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, contactResponse{Success: true, Data: c})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := service.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Remove(ctx, id); err != nil {
		h.writeError(ctx, w, "failed to delete contact request", err)
		return
	}
	httputil.WriteMessage(w, http.StatusOK, "contact request deleted")
}

func (h *Handler) handleListAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.ListAll(ctx)
	if err != nil {
		h.writeError(ctx, w, "failed to list contact requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListByTarget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	target, err := strconv.ParseInt(strings.TrimSpace(chi.URLParam(r, "id")), 10, 64)
	if err != nil || target <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "biodata id must be a positive integer"))
		return
	}
	out, err := h.service.ListByTarget(ctx, target)
	if err != nil {
		h.writeError(ctx, w, "failed to list contact requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	out, err := h.service.ListByRequester(ctx, requestcontext.Identity(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to list contact requests", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleRenameRequester(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RenameRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid rename request", err)
		return
	}
	n, err := h.service.RenameRequester(ctx, chi.URLParam(r, "email"), req.Name)
	if err != nil {
		h.writeError(ctx, w, "failed to update contact request name", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, renameResponse{Success: true, Modified: n})
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
