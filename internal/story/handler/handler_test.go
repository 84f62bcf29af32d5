package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"rishta/internal/story/models"
	"rishta/internal/story/service"
	"rishta/internal/story/store"
	"rishta/internal/transport/http/shared"
	"rishta/pkg/testutil"
)

func newStoryRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := New(service.New(store.NewInMemory()), logger, shared.Guards{})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestSuccessStoryRoutes(t *testing.T) {
	router := newStoryRouter(t)
	body := map[string]any{
		"self_profile_id":    1,
		"partner_profile_id": 2,
		"title":              "Found each other",
		"couple_image":       "https://img.example.com/couple.jpg",
		"story":              "We met through the site.",
		"rating":             4,
		"marriage_date":      "2025-12-01",
	}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/success-story", body))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[models.CreateResponse](t, rr)
	assert.True(t, created.Success)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/success-story/"+created.InsertedID.String()))
	testutil.AssertStatusOK(t, rr)
	assert.Equal(t, 4, testutil.UnmarshalResponse[models.Story](t, rr).Rating)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/success-story"))
	testutil.AssertStatusOK(t, rr)
	assert.Len(t, *testutil.UnmarshalResponse[[]models.Story](t, rr), 1)

	delete(body, "rating")
	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/success-story", body))
	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/success-story/00000000-0000-0000-0000-000000000001"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/success-story/nope"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}
