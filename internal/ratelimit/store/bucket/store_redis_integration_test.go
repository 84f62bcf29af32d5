//go:build integration

package bucket_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rishta/internal/ratelimit/store/bucket"
	"rishta/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *bucket.RedisBucketStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = bucket.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestWindowExpiresAndResets() {
	ctx := context.Background()
	key := "rl:ip:write:expiry"

	for range 2 {
		result, err := s.store.Allow(ctx, key, 2, 300*time.Millisecond)
		s.Require().NoError(err)
		s.True(result.Allowed)
	}
	denied, err := s.store.Allow(ctx, key, 2, 300*time.Millisecond)
	s.Require().NoError(err)
	s.False(denied.Allowed)
	s.GreaterOrEqual(denied.RetryAfter, 1)

	time.Sleep(400 * time.Millisecond)

	again, err := s.store.Allow(ctx, key, 2, 300*time.Millisecond)
	s.Require().NoError(err)
	s.True(again.Allowed)
	s.Equal(1, again.Remaining)
}

// TestConcurrentAllowRequests verifies concurrent callers never exceed the limit.
func (s *RedisStoreSuite) TestConcurrentAllowRequests() {
	ctx := context.Background()
	key := "rl:ip:write:concurrent"
	limit := 10
	const goroutines = 50

	var wg sync.WaitGroup
	var allowedCount atomic.Int32
	var deniedCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := s.store.Allow(ctx, key, limit, time.Minute)
			s.Require().NoError(err)
			if result.Allowed {
				allowedCount.Add(1)
			} else {
				deniedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(limit), allowedCount.Load(), "exactly %d requests should be allowed", limit)
	s.Equal(int32(goroutines-limit), deniedCount.Load())
}
