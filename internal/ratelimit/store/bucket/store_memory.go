package bucket

import (
	"context"
	"sync"
	"time"

	"rishta/internal/ratelimit/models"
)

// sweepEvery is how many Allow calls pass between evictions of idle windows.
const sweepEvery = 1024

// InMemoryBucketStore implements a sliding-window limiter in process memory.
// It serves single-instance deployments and is the fallback when Redis is
// unavailable. Keys are per client address, so idle windows are evicted
// periodically to keep memory bounded.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
	calls   int
	now     func() time.Time
}

type slidingWindow struct {
	hits   []time.Time
	window time.Duration
}

func NewInMemoryBucketStore() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		windows: make(map[string]*slidingWindow),
		now:     time.Now,
	}
}

// Allow records one hit for key and reports whether it fits in limit hits per
// window. Rejected hits are not recorded.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.calls++
	if s.calls%sweepEvery == 0 {
		s.sweep(now)
	}

	sw, ok := s.windows[key]
	if !ok {
		sw = &slidingWindow{window: window}
		s.windows[key] = sw
	}
	sw.expire(now)

	if len(sw.hits) < limit {
		sw.hits = append(sw.hits, now)
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: limit - len(sw.hits),
			ResetAt:   sw.hits[0].Add(window),
		}, nil
	}

	resetAt := now.Add(window)
	if len(sw.hits) > 0 {
		resetAt = sw.hits[0].Add(window)
	}
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		ResetAt:    resetAt,
		RetryAfter: models.RetryAfterSeconds(resetAt.Sub(now)),
	}, nil
}

// Len reports how many client windows are tracked.
func (s *InMemoryBucketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// sweep must be called with s.mu held.
func (s *InMemoryBucketStore) sweep(now time.Time) {
	for key, sw := range s.windows {
		sw.expire(now)
		if len(sw.hits) == 0 {
			delete(s.windows, key)
		}
	}
}

// expire drops hits older than the window. Hits are appended in time order.
func (sw *slidingWindow) expire(now time.Time) {
	cutoff := now.Add(-sw.window)
	i := 0
	for i < len(sw.hits) && !sw.hits[i].After(cutoff) {
		i++
	}
	sw.hits = sw.hits[i:]
}
