package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rishta/internal/contact/models"
	"rishta/internal/contact/service"
	"rishta/internal/contact/store"
	"rishta/internal/transport/http/shared"
	"rishta/pkg/testutil"
)

const adminEmail = "admin@example.com"

func newContactRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(store.NewInMemory()), logger, shared.Guards{
		RequireAuth:  testutil.FakeAuth,
		RequireAdmin: testutil.FakeAdmin(adminEmail),
	})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

type submitResponse struct {
	Success bool                  `json:"success"`
	Data    models.ContactRequest `json:"data"`
}

func TestContactRequestLifecycle(t *testing.T) {
	router := newContactRouter(t)
	body := map[string]any{
		"target_profile_id": 2,
		"requester_email":   "carol@example.com",
		"requester_name":    "Carol",
		"transaction_id":    "tx_1",
	}

	var created submitResponse
	testutil.Given(t, "carol pays for contact with biodata 2", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contact-requests", body))
		testutil.AssertStatus(t, rr, http.StatusCreated)
		created = *testutil.UnmarshalResponse[submitResponse](t, rr)
		assert.Equal(t, models.StatusPending, created.Data.Status)
		assert.Equal(t, "tx_1", created.Data.PaymentReference)
	})

	testutil.When(t, "carol submits again", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contact-requests", body))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	testutil.Then(t, "carol sees the request and only admins can approve it", func(t *testing.T) {
		req := testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/my-contact-requests"), "carol@example.com")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		mine := testutil.UnmarshalResponse[[]models.ContactRequest](t, rr)
		require.Len(t, *mine, 1)

		path := "/approve-contact/" + created.Data.ID.String()
		req = testutil.AsUser(testutil.NewRequest(t, http.MethodPatch, path), "carol@example.com")
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusForbidden)

		req = testutil.AsUser(testutil.NewRequest(t, http.MethodPatch, path), adminEmail)
		rr = testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		approved := testutil.UnmarshalResponse[submitResponse](t, rr)
		assert.Equal(t, models.StatusApproved, approved.Data.Status)
	})

	testutil.Then(t, "the target listing and admin listing include it", func(t *testing.T) {
		req := testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/all-contact-request/2"), "bob@example.com")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusOK(t, rr)
		assert.Len(t, *testutil.UnmarshalResponse[[]models.ContactRequest](t, rr), 1)

		req = testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/all-contact-request"), adminEmail)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))
	})

	testutil.Then(t, "an admin removes it and a second removal is not found", func(t *testing.T) {
		path := "/all-contact-request/" + created.Data.ID.String()
		req := testutil.AsUser(testutil.NewRequest(t, http.MethodDelete, path), adminEmail)
		testutil.AssertStatusOK(t, testutil.DoRequest(router, req))

		req = testutil.AsUser(testutil.NewRequest(t, http.MethodDelete, path), adminEmail)
		testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusNotFound)
	})
}

func TestContactRequestValidation(t *testing.T) {
	router := newContactRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contact-requests", map[string]any{
		"target_profile_id": 2,
		"requester_email":   "carol@example.com",
		"requester_name":    "Carol",
	}))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	req := testutil.AsUser(testutil.NewRequest(t, http.MethodPatch, "/approve-contact/not-a-uuid"), adminEmail)
	testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusBadRequest)

	req = testutil.AsUser(testutil.NewRequest(t, http.MethodGet, "/all-contact-request/abc"), "bob@example.com")
	testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusBadRequest)

	testutil.AssertStatus(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/my-contact-requests")), http.StatusUnauthorized)
}

func TestRenameRequesterRoute(t *testing.T) {
	router := newContactRouter(t)
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/contact-requests", map[string]any{
		"target_profile_id": 2,
		"requester_email":   "carol@example.com",
		"requester_name":    "Carol",
		"transaction_id":    "tx_1",
	}))
	require.Equal(t, http.StatusCreated, rr.Code)

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/update-contact-request-name/carol@example.com", map[string]any{"name": "Carol Khan"})
	testutil.AsUser(req, "mallory@example.com")
	testutil.AssertStatus(t, testutil.DoRequest(router, req), http.StatusForbidden)

	req = testutil.NewJSONRequest(t, http.MethodPatch, "/update-contact-request-name/carol@example.com", map[string]any{"name": "Carol Khan"})
	testutil.AsUser(req, "carol@example.com")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "modifiedCount", float64(1))

	req = testutil.NewJSONRequest(t, http.MethodPatch, "/update-contact-request-name/carol@example.com", map[string]any{"name": "Carol Khan"})
	testutil.AsUser(req, "carol@example.com")
	testutil.AssertStatusAndError(t, testutil.DoRequest(router, req), http.StatusBadRequest, "no_change")
}
