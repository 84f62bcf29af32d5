//go:build integration

package account_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rishta/internal/membership/models"
	"rishta/internal/membership/store/account"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/testutil/containers"
)

const testDatabase = "rishta_account_store_test"

type MongoAccountStoreSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	store *account.Mongo
	ctx   context.Context
}

func TestMongoAccountStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoAccountStoreSuite))
}

func (s *MongoAccountStoreSuite) SetupSuite() {
	s.mongo = containers.GetManager().GetMongo(s.T())
	s.ctx = context.Background()
}

func (s *MongoAccountStoreSuite) SetupTest() {
	s.Require().NoError(s.mongo.DropDatabase(s.ctx, testDatabase))
	st, err := account.NewMongo(s.ctx, s.mongo.Database(testDatabase))
	s.Require().NoError(err)
	s.store = st
}

func newAccount(identity, name string) *models.Account {
	a, _ := models.NewAccount(identity, name, "", time.Now().UTC().Truncate(time.Millisecond))
	return a
}

func (s *MongoAccountStoreSuite) TestConcurrentCreateSameIdentity() {
	const goroutines = 50
	var created, duplicate atomic.Int32
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(s.ctx, newAccount("race@example.com", "Race"))
			switch {
			case err == nil:
				created.Add(1)
			case s.ErrorIs(err, sentinel.ErrAlreadyUsed):
				duplicate.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(goroutines-1), duplicate.Load())
}

func (s *MongoAccountStoreSuite) TestCaseInsensitiveNameFilter() {
	for i, name := range []string{"Anna Rahman", "RAHIM", "Karim", "a.b+c"} {
		s.Require().NoError(s.store.Create(s.ctx, newAccount(fmt.Sprintf("u%d@example.com", i), name)))
	}

	n, err := s.store.Count(s.ctx, models.Filter{NameContains: "rah"})
	s.Require().NoError(err)
	s.Equal(int64(2), n)

	// Regex metacharacters are matched literally.
	n, err = s.store.Count(s.ctx, models.Filter{NameContains: "b+c"})
	s.Require().NoError(err)
	s.Equal(int64(1), n)
}

func (s *MongoAccountStoreSuite) TestApprovalReplacesBothFlagsAtOnce() {
	a := newAccount("alice@example.com", "Alice")
	a.ApplyPremiumRequest(3, time.Now())
	s.Require().NoError(s.store.Create(s.ctx, a))

	updated, err := s.store.Execute(s.ctx, "alice@example.com",
		func(a *models.Account) error { return a.CanApprovePremium() },
		func(a *models.Account) { a.ApplyPremiumApproval(time.Now()) },
	)
	s.Require().NoError(err)
	s.True(updated.IsPremium)
	s.False(updated.PremiumRequested)

	stored, err := s.store.FindByIdentity(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.True(stored.IsPremium)
	s.False(stored.PremiumRequested)
	s.Equal(int64(1), stored.Version)
	s.Equal(int64(3), stored.LinkedProfileID)
}
