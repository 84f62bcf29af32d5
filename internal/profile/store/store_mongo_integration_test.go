//go:build integration

package store_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rishta/internal/profile/models"
	"rishta/internal/profile/store"
	"rishta/pkg/platform/sentinel"
	"rishta/pkg/testutil/containers"
)

const testDatabase = "rishta_profile_store_test"

type MongoProfileStoreSuite struct {
	suite.Suite
	mongo *containers.MongoContainer
	store *store.Mongo
	ctx   context.Context
}

func TestMongoProfileStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(MongoProfileStoreSuite))
}

func (s *MongoProfileStoreSuite) SetupSuite() {
	s.mongo = containers.GetManager().GetMongo(s.T())
	s.ctx = context.Background()
}

func (s *MongoProfileStoreSuite) SetupTest() {
	s.Require().NoError(s.mongo.DropDatabase(s.ctx, testDatabase))
	st, err := store.NewMongo(s.ctx, s.mongo.Database(testDatabase))
	s.Require().NoError(err)
	s.store = st
}

func profileFor(id int64, owner string) *models.Profile {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &models.Profile{
		ProfileID:     id,
		OwnerIdentity: owner,
		Attributes: models.Attributes{
			BiodataType:     models.BiodataFemale,
			Name:            owner,
			PresentDivision: "Dhaka",
			MobileNumber:    "+880100",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *MongoProfileStoreSuite) TestRoundTrip() {
	in := profileFor(1, "alice@example.com")
	s.Require().NoError(s.store.Create(s.ctx, in))

	out, err := s.store.FindByOwner(s.ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(in.ProfileID, out.ProfileID)
	s.Equal(in.Attributes, out.Attributes)
	s.True(in.CreatedAt.Equal(out.CreatedAt))

	_, err = s.store.FindByProfileID(s.ctx, 2)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MongoProfileStoreSuite) TestUniqueIndexesClassifyDuplicates() {
	s.Require().NoError(s.store.Create(s.ctx, profileFor(1, "alice@example.com")))

	s.ErrorIs(s.store.Create(s.ctx, profileFor(2, "alice@example.com")), store.ErrOwnerTaken)
	s.ErrorIs(s.store.Create(s.ctx, profileFor(1, "bob@example.com")), store.ErrProfileIDTaken)
}

func (s *MongoProfileStoreSuite) TestMaxProfileID() {
	maxID, err := s.store.MaxProfileID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), maxID)

	for _, id := range []int64{4, 11, 7} {
		s.Require().NoError(s.store.Create(s.ctx, profileFor(id, fmt.Sprintf("u%d@example.com", id))))
	}
	maxID, err = s.store.MaxProfileID(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(11), maxID)
}

func (s *MongoProfileStoreSuite) TestListAndCount() {
	for i := int64(1); i <= 7; i++ {
		p := profileFor(i, fmt.Sprintf("u%d@example.com", i))
		if i%2 == 0 {
			p.Attributes.BiodataType = models.BiodataMale
		}
		s.Require().NoError(s.store.Create(s.ctx, p))
	}

	filter := models.Filter{BiodataType: models.BiodataFemale}
	page, err := s.store.List(s.ctx, filter, 2, 2)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	s.Equal(int64(5), page[0].ProfileID)
	s.Equal(int64(7), page[1].ProfileID)

	total, err := s.store.Count(s.ctx, filter)
	s.Require().NoError(err)
	s.Equal(int64(4), total)
}

// TestConcurrentCreateSameOwner verifies the owner index admits exactly one
// profile when many writers race.
func (s *MongoProfileStoreSuite) TestConcurrentCreateSameOwner() {
	const goroutines = 50
	var succeeded, taken atomic.Int32
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(s.ctx, profileFor(int64(i+1), "race@example.com"))
			switch {
			case err == nil:
				succeeded.Add(1)
			case s.ErrorIs(err, store.ErrOwnerTaken):
				taken.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), succeeded.Load())
	s.Equal(int32(goroutines-1), taken.Load())
}

// TestConcurrentExecuteAppliesEveryMutation verifies the version check
// serializes concurrent read-modify-write cycles.
func (s *MongoProfileStoreSuite) TestConcurrentExecuteAppliesEveryMutation() {
	s.Require().NoError(s.store.Create(s.ctx, profileFor(1, "alice@example.com")))

	const goroutines = 4
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				_, err := s.store.Execute(s.ctx, 1,
					func(*models.Profile) error { return nil },
					func(p *models.Profile) { p.Attributes.Age++ },
				)
				if err == nil {
					return
				}
				s.Require().ErrorIs(err, sentinel.ErrConflict)
			}
		}()
	}
	wg.Wait()

	p, err := s.store.FindByProfileID(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(goroutines, p.Attributes.Age)
	s.Equal(int64(goroutines), p.Version)
}
