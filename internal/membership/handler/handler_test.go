package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rishta/internal/membership/handler/mocks"
	"rishta/internal/membership/models"
	"rishta/internal/transport/http/shared"
	dErrors "rishta/pkg/domain-errors"
	"rishta/pkg/pagination"
	"rishta/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/membership-mocks.go -package=mocks Service

const adminEmail = "admin@example.com"

type MembershipHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
}

func TestMembershipHandlerSuite(t *testing.T) {
	suite.Run(t, new(MembershipHandlerSuite))
}

func (s *MembershipHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(s.service, logger, shared.Guards{
		RequireAuth:  testutil.FakeAuth,
		RequireAdmin: testutil.FakeAdmin(adminEmail),
	})
	r := chi.NewRouter()
	h.Register(r)
	s.router = r
}

func account(identity string) *models.Account {
	return &models.Account{
		Identity:    identity,
		DisplayName: "Alice",
		Role:        models.RoleMember,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *MembershipHandlerSuite) TestCreateUser() {
	s.Run("created", func() {
		s.service.EXPECT().
			CreateAccount(gomock.Any(), &models.CreateAccountRequest{Email: "alice@example.com", Name: "Alice"}).
			Return(account("alice@example.com"), nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]string{"email": "alice@example.com", "name": "Alice"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[models.AccountResponse](s.T(), rr)
		s.Equal("alice@example.com", resp.Account.Identity)
	})

	s.Run("duplicate maps to 409", func() {
		s.service.EXPECT().
			CreateAccount(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "user already exists"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users", map[string]string{"email": "alice@example.com"})
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusConflict, "conflict")
	})

	s.Run("malformed body never reaches the service", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/users", `{"email":`)
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "bad_request")
	})
}

func (s *MembershipHandlerSuite) TestListUsers() {
	s.Run("defaults and echoes paging", func() {
		s.service.EXPECT().
			ListByFilter(gomock.Any(), models.Filter{NameContains: "ali", Role: models.RoleAdmin}, pagination.Params{Page: 1, Limit: 10}).
			Return(&pagination.Page[*models.Account]{
				Items:       []*models.Account{account("alice@example.com")},
				Total:       11,
				CurrentPage: 1,
				PerPage:     10,
				TotalPages:  2,
			}, nil)

		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users?name=ali&role=admin"))
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[listUsersResponse](s.T(), rr)
		s.Equal(int64(11), resp.Total)
		s.Equal(2, resp.TotalPages)
		s.Len(resp.Users, 1)
	})

	s.Run("non-integer page is rejected before the service", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/users?page=two"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})
}

func (s *MembershipHandlerSuite) TestGetUser() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/authusers"))
	testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)

	s.service.EXPECT().
		GetByIdentity(gomock.Any(), "ghost@example.com").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/authusers?email=ghost@example.com"))
	testutil.AssertStatus(s.T(), rr, http.StatusNotFound)
}

func (s *MembershipHandlerSuite) TestRequestPremiumIsOwnerScoped() {
	s.Run("no token", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/biodata/request-premium/alice@example.com", map[string]int{"profile_id": 3})
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusUnauthorized)
	})

	s.Run("another identity", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/biodata/request-premium/alice@example.com", map[string]int{"profile_id": 3})
		testutil.AsUser(req, "bob@example.com")
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusForbidden)
	})

	s.Run("owner", func() {
		a := account("alice@example.com")
		a.PremiumRequested = true
		a.LinkedProfileID = 3
		s.service.EXPECT().RequestPremium(gomock.Any(), "alice@example.com", int64(3)).Return(a, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/biodata/request-premium/alice@example.com", map[string]int{"profile_id": 3})
		testutil.AsUser(req, "alice@example.com")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[models.AccountResponse](s.T(), rr)
		s.True(resp.Account.PremiumRequested)
	})
}

func (s *MembershipHandlerSuite) TestAdminTransitions() {
	s.Run("members cannot approve", func() {
		req := testutil.AsUser(testutil.NewRequest(s.T(), http.MethodPatch, "/make-premium/alice@example.com"), "alice@example.com")
		testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusForbidden)
	})

	s.Run("admin approves premium", func() {
		a := account("alice@example.com")
		a.IsPremium = true
		s.service.EXPECT().ApprovePremium(gomock.Any(), "alice@example.com").Return(a, nil)

		req := testutil.AsUser(testutil.NewRequest(s.T(), http.MethodPatch, "/make-premium/alice@example.com"), adminEmail)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		resp := testutil.UnmarshalResponse[models.AccountResponse](s.T(), rr)
		s.True(resp.Account.IsPremium)
		s.False(resp.Account.PremiumRequested)
	})

	s.Run("admin grants admin", func() {
		a := account("bob@example.com")
		a.Role = models.RoleAdmin
		s.service.EXPECT().GrantAdminRole(gomock.Any(), "bob@example.com").Return(a, nil)

		req := testutil.AsUser(testutil.NewRequest(s.T(), http.MethodPatch, "/make-admin/bob@example.com"), adminEmail)
		testutil.AssertStatusOK(s.T(), testutil.DoRequest(s.router, req))
	})

	s.Run("pending requests listing", func() {
		s.service.EXPECT().ListPremiumRequests(gomock.Any()).Return([]*models.Account{account("carol@example.com")}, nil)

		req := testutil.AsUser(testutil.NewRequest(s.T(), http.MethodGet, "/requestedpremiumuser"), adminEmail)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusOK(s.T(), rr)
		s.Contains(rr.Body.String(), "carol@example.com")
	})

	s.Run("internal failures hide their cause", func() {
		s.service.EXPECT().
			GrantAdminRole(gomock.Any(), "bob@example.com").
			Return(nil, dErrors.Wrap(io.ErrUnexpectedEOF, dErrors.CodeInternal, "failed to grant admin role"))

		req := testutil.AsUser(testutil.NewRequest(s.T(), http.MethodPatch, "/make-admin/bob@example.com"), adminEmail)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
		s.NotContains(rr.Body.String(), "unexpected EOF")
	})
}

func (s *MembershipHandlerSuite) TestRenameNoChange() {
	s.service.EXPECT().
		Rename(gomock.Any(), "alice@example.com", "Alice").
		Return(nil, dErrors.New(dErrors.CodeNoChange, "no change detected"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPatch, "/update-user-name/alice@example.com", map[string]string{"name": "Alice"})
	testutil.AsUser(req, "alice@example.com")
	testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusBadRequest, "no_change")
}

func (s *MembershipHandlerSuite) TestPremiumRoster() {
	s.service.EXPECT().ListPremiumMembers(gomock.Any()).Return([]*models.PremiumMember{}, nil)
	testutil.AssertStatusOK(s.T(), testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/all-premium-members")))

	s.service.EXPECT().
		AddPremiumMember(gomock.Any(), &models.AddPremiumMemberRequest{Email: "alice@example.com", Name: "Alice", ProfileID: 1}).
		Return(&models.PremiumMember{Identity: "alice@example.com"}, nil)
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/all-premium-members", map[string]any{"email": "alice@example.com", "name": "Alice", "profile_id": 1})
	testutil.AsUser(req, adminEmail)
	testutil.AssertStatus(s.T(), testutil.DoRequest(s.router, req), http.StatusCreated)
}
