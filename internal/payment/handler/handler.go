package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rishta/internal/payment/models"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/platform/httputil"
	"rishta/pkg/requestcontext"
)

type Service interface {
	CreateIntent(ctx context.Context, req *models.IntentRequest) (*models.Intent, error)
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
	r.With(h.guards.Payments()).Post("/create-payment-intent", h.handleCreateIntent)
}

func (h *Handler) handleCreateIntent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.IntentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(ctx, w, "invalid payment intent request", err)
		return
	}
	intent, err := h.service.CreateIntent(ctx, &req)
	if err != nil {
		h.writeError(ctx, w, "failed to create payment intent", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, intent)
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
