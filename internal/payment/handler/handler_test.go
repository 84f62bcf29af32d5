package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"rishta/internal/payment/models"
	"rishta/internal/payment/service"
	"rishta/internal/transport/http/shared"
	"rishta/pkg/testutil"
)

type stubGateway struct{ fail bool }

func (g stubGateway) CreateIntent(_ context.Context, amount int64) (*models.Intent, error) {
	if g.fail {
		return nil, errors.New("gateway unavailable")
	}
	return &models.Intent{ID: "pi_9", ClientSecret: "pi_9_secret", Amount: amount}, nil
}

func newPaymentRouter(gw service.Gateway) http.Handler {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(gw), logger, shared.Guards{})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestCreatePaymentIntent(t *testing.T) {
	router := newPaymentRouter(stubGateway{})

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 500}))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "clientSecret", "pi_9_secret")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 0}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": "ten"}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestCreatePaymentIntentGatewayFailure(t *testing.T) {
	router := newPaymentRouter(stubGateway{fail: true})
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/create-payment-intent", map[string]any{"amount": 500}))
	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}
