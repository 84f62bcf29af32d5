// Package sequence hands out monotonically increasing integers from named
// counters. Next is atomic in every backend, so two callers never receive the
// same value; values are never reused, although a caller that fails after
// drawing one leaves a gap.
package sequence

import (
	"context"
	"sync"
)

// ProfileIDs is the counter used for biodata profile ids.
const ProfileIDs = "profile_id"

// Allocator is implemented by the memory, Mongo and Redis backends.
type Allocator interface {
	// Next increments the named counter and returns the new value (1 for a fresh counter).
	Next(ctx context.Context, name string) (int64, error)
	// Floor raises the counter to at least min so the next value is greater than min.
	Floor(ctx context.Context, name string, min int64) error
}

// Memory is an in-process Allocator.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

func (m *Memory) Next(ctx context.Context, name string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
	return m.counters[name], nil
}

func (m *Memory) Floor(_ context.Context, name string, min int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters[name] < min {
		m.counters[name] = min
	}
	return nil
}
