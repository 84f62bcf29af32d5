package httptransport_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	contactHandler "rishta/internal/contact/handler"
	contactService "rishta/internal/contact/service"
	contactStore "rishta/internal/contact/store"
	favoriteAdapters "rishta/internal/favorite/adapters"
	favoriteHandler "rishta/internal/favorite/handler"
	favoriteService "rishta/internal/favorite/service"
	favoriteStore "rishta/internal/favorite/store"
	jwttoken "rishta/internal/jwt_token"
	membershipAdapters "rishta/internal/membership/adapters"
	membershipHandler "rishta/internal/membership/handler"
	membershipModels "rishta/internal/membership/models"
	membershipService "rishta/internal/membership/service"
	accountStore "rishta/internal/membership/store/account"
	premiumStore "rishta/internal/membership/store/premium"
	"rishta/internal/platform/metrics"
	profileHandler "rishta/internal/profile/handler"
	profileService "rishta/internal/profile/service"
	profileStore "rishta/internal/profile/store"
	rateLimitMiddleware "rishta/internal/ratelimit/middleware"
	rateLimitModels "rishta/internal/ratelimit/models"
	"rishta/internal/ratelimit/store/bucket"
	"rishta/internal/sequence"
	httptransport "rishta/internal/transport/http"
	"rishta/internal/transport/http/shared"
	adminmw "rishta/pkg/platform/middleware/admin"
	authmw "rishta/pkg/platform/middleware/auth"
	"rishta/pkg/platform/middleware/metadata"
	"rishta/pkg/testutil"
)

const adminEmail = "admin@example.com"

type checkFunc func(ctx context.Context) error

func (f checkFunc) Health(ctx context.Context) error { return f(ctx) }

type RouterSuite struct {
	suite.Suite
	router  http.Handler
	healthy bool
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.healthy = true

	profiles := profileService.New(profileStore.NewInMemory(), sequence.NewMemory())
	membership := membershipService.New(accountStore.NewInMemory(), premiumStore.NewInMemory(),
		membershipService.WithProfileOwners(membershipAdapters.NewProfileAdapter(profiles)))
	_, err := membership.CreateAccount(ctx, &membershipModels.CreateAccountRequest{Email: adminEmail, Name: "Admin"})
	s.Require().NoError(err)
	_, err = membership.GrantAdminRole(ctx, adminEmail)
	s.Require().NoError(err)

	limiter := rateLimitMiddleware.New(bucket.NewInMemoryBucketStore(), log,
		rateLimitModels.Limit{RequestsPerWindow: 5, Window: time.Minute})
	guards := shared.Guards{
		RequireAuth:   authmw.RequireAuth(jwttoken.NewJWTServiceAdapter(jwttoken.NewDevVerifier()), log),
		RequireAdmin:  adminmw.RequireAdmin(membership, log),
		LimitWrites:   limiter.RateLimit(rateLimitModels.ClassWrite),
		LimitPayments: limiter.RateLimit(rateLimitModels.ClassPayment),
	}
	favorites := favoriteService.New(favoriteStore.NewInMemory(),
		favoriteService.WithProfiles(favoriteAdapters.NewProfileAdapter(profiles)))

	rt := httptransport.New(httptransport.Config{
		CORSOrigins:    []string{"https://rishta.example.com"},
		RequestTimeout: 5 * time.Second,
	}, log,
		httptransport.WithMetrics(metrics.New(metrics.NewRegistry())),
		httptransport.WithHealthCheck("mongo", checkFunc(func(context.Context) error {
			if !s.healthy {
				return errors.New("connection refused")
			}
			return nil
		})),
		httptransport.WithHandlers(
			membershipHandler.New(membership, log, guards),
			profileHandler.New(profiles, log, guards),
			contactHandler.New(contactService.New(contactStore.NewInMemory()), log, guards),
			favoriteHandler.New(favorites, log, guards),
		),
	)
	s.router = rt.Handler()
}

func (s *RouterSuite) do(req *http.Request) *httpResult {
	rr := testutil.DoRequest(s.router, req)
	return &httpResult{code: rr.Code, body: rr.Body.String(), header: rr.Header()}
}

type httpResult struct {
	code   int
	body   string
	header http.Header
}

func (s *RouterSuite) TestPlatformRoutes() {
	t := s.T()

	res := s.do(testutil.NewRequest(t, http.MethodGet, "/"))
	s.Equal(http.StatusOK, res.code)
	s.Contains(res.body, "Rishta")
	s.NotEmpty(res.header.Get("X-Request-ID"))

	req := testutil.NewRequest(t, http.MethodGet, "/")
	req.Header.Set("X-Request-ID", "req-123")
	s.Equal("req-123", s.do(req).header.Get("X-Request-ID"))

	s.Equal(http.StatusOK, s.do(testutil.NewRequest(t, http.MethodGet, "/healthz")).code)
	s.healthy = false
	res = s.do(testutil.NewRequest(t, http.MethodGet, "/healthz"))
	s.Equal(http.StatusServiceUnavailable, res.code)
	s.Contains(res.body, "unavailable")

	res = s.do(testutil.NewRequest(t, http.MethodGet, "/metrics"))
	s.Equal(http.StatusOK, res.code)
	s.Contains(res.body, "rishta_http_requests_total")
}

func (s *RouterSuite) TestMembershipAndProfileFlow() {
	t := s.T()

	res := s.do(testutil.NewJSONRequest(t, http.MethodPost, "/users", map[string]any{"email": "alice@example.com", "name": "Alice"}))
	s.Require().Equal(http.StatusCreated, res.code, res.body)

	res = s.do(testutil.NewJSONRequest(t, http.MethodPost, "/add-biodata", map[string]any{
		"email":            "alice@example.com",
		"biodata_type":     "Female",
		"name":             "Alice",
		"present_division": "Dhaka",
		"mobile_number":    "+8801711111111",
	}))
	s.Require().Equal(http.StatusCreated, res.code, res.body)

	path := "/biodata/request-premium/alice@example.com"
	body := map[string]any{"profile_id": 1}
	s.Equal(http.StatusUnauthorized, s.do(testutil.NewJSONRequest(t, http.MethodPatch, path, body)).code)
	s.Equal(http.StatusUnauthorized, s.do(testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPatch, path, body), "not-an-email")).code)
	s.Equal(http.StatusForbidden, s.do(testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPatch, path, body), "bob@example.com")).code)
	s.Equal(http.StatusBadRequest, s.do(testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPatch, path, map[string]any{"profile_id": 2}), "alice@example.com")).code,
		"a biodata that does not exist cannot be linked")
	s.Equal(http.StatusOK, s.do(testutil.WithBearer(testutil.NewJSONRequest(t, http.MethodPatch, path, body), "alice@example.com")).code)

	approve := "/make-premium/alice@example.com"
	denied := testutil.DoRequest(s.router, testutil.WithBearer(testutil.NewRequest(t, http.MethodPatch, approve), "alice@example.com"))
	testutil.AssertStatusAndError(t, denied, http.StatusForbidden, "forbidden")
	testutil.AssertErrorMessage(t, denied, "administrator role required")
	res = s.do(testutil.WithBearer(testutil.NewRequest(t, http.MethodPatch, approve), adminEmail))
	s.Equal(http.StatusOK, res.code, res.body)
	s.Contains(res.body, `"is_premium":true`)

	res = s.do(testutil.WithBearer(testutil.NewRequest(t, http.MethodGet, "/requestedpremiumuser"), adminEmail))
	s.Equal(http.StatusOK, res.code)
	s.NotContains(res.body, "alice@example.com")
}

func (s *RouterSuite) TestFavoritesAcceptUnknownTargetsAndContactsAreRateLimited() {
	t := s.T()

	res := s.do(testutil.NewJSONRequest(t, http.MethodPost, "/addfevorites", map[string]any{
		"owner_email":       "bob@example.com",
		"target_profile_id": 9,
		"name":              "Elsewhere",
	}))
	s.Equal(http.StatusCreated, res.code, "unknown biodata is bookmarked with the caller's summary")
	s.Contains(res.body, `"name":"Elsewhere"`)

	codes := make([]int, 0, 6)
	for range 6 {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/contact-requests", map[string]any{
			"target_profile_id": 2,
			"requester_email":   "carol@example.com",
			"requester_name":    "Carol",
			"transaction_id":    "tx_1",
		})
		req.RemoteAddr = "203.0.113.9:5555"
		codes = append(codes, s.do(req).code)
	}
	s.Equal(http.StatusCreated, codes[0])
	s.Equal(http.StatusConflict, codes[1])
	s.Equal(http.StatusTooManyRequests, codes[5])
}

func (s *RouterSuite) TestRotatingForwardedForDoesNotEscapeTheLimiter() {
	t := s.T()

	rejected := 0
	for i := range 10 {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/users", map[string]any{
			"email": fmt.Sprintf("spoof%d@example.com", i),
			"name":  "Spoof",
		})
		req.RemoteAddr = "198.51.100.20:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.18.0.%d", i+1))
		if s.do(req).code == http.StatusTooManyRequests {
			rejected++
		}
	}
	s.Equal(5, rejected, "forwarding headers from an untrusted peer share the socket's bucket")
}

func TestTrustedProxyForwardsDistinctClients(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter := rateLimitMiddleware.New(bucket.NewInMemoryBucketStore(), log,
		rateLimitModels.Limit{RequestsPerWindow: 1, Window: time.Minute})
	trusted, err := metadata.ParseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	rt := httptransport.New(httptransport.Config{TrustedProxies: trusted}, log,
		httptransport.WithHandlers(routeFunc(func(r chi.Router) {
			r.With(limiter.RateLimit(rateLimitModels.ClassWrite)).Post("/ping", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})),
	)
	h := rt.Handler()

	send := func(remote, forwarded string) int {
		req := testutil.NewRequest(t, http.MethodPost, "/ping")
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-For", forwarded)
		return testutil.DoRequest(h, req).Code
	}
	assert.Equal(t, http.StatusNoContent, send("10.0.0.5:443", "203.0.113.1"))
	assert.Equal(t, http.StatusNoContent, send("10.0.0.5:443", "203.0.113.2"), "a second client behind the proxy has its own bucket")
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.5:443", "203.0.113.1"))
}

type routeFunc func(r chi.Router)

func (f routeFunc) Register(r chi.Router) { f(r) }

func TestCORSPreflight(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rt := httptransport.New(httptransport.Config{CORSOrigins: []string{"https://rishta.example.com"}}, log)

	req := testutil.NewRequest(t, http.MethodOptions, "/users")
	req.Header.Set("Origin", "https://rishta.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := testutil.DoRequest(rt.Handler(), req)

	require.Equal(t, "https://rishta.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
