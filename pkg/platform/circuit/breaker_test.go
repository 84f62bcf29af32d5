package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcome struct {
	fail        bool
	useFallback bool
	trusted     bool
	opened      bool
	closed      bool
}

func TestBreakerTransitions(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		outcomes  []outcome
		wantState State
	}{
		{
			name: "stays closed below the failure threshold",
			opts: []Option{WithFailureThreshold(3)},
			outcomes: []outcome{
				{fail: true},
				{fail: true},
			},
			wantState: StateClosed,
		},
		{
			name: "opens on the threshold failure",
			opts: []Option{WithFailureThreshold(2)},
			outcomes: []outcome{
				{fail: true},
				{fail: true, useFallback: true, opened: true},
				{fail: true, useFallback: true},
			},
			wantState: StateOpen,
		},
		{
			name: "a success resets the consecutive failure count",
			opts: []Option{WithFailureThreshold(2)},
			outcomes: []outcome{
				{fail: true},
				{trusted: true},
				{fail: true},
			},
			wantState: StateClosed,
		},
		{
			name: "closes after enough successes while open",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes: []outcome{
				{fail: true, useFallback: true, opened: true},
				{},
				{trusted: true, closed: true},
			},
			wantState: StateClosed,
		},
		{
			name: "a failure while recovering restarts the success count",
			opts: []Option{WithFailureThreshold(1), WithSuccessThreshold(2)},
			outcomes: []outcome{
				{fail: true, useFallback: true, opened: true},
				{},
				{fail: true, useFallback: true},
				{},
			},
			wantState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("ratelimit-redis", tt.opts...)
			for i, o := range tt.outcomes {
				if o.fail {
					useFallback, change := b.RecordFailure()
					assert.Equal(t, o.useFallback, useFallback, "outcome %d fallback", i)
					assert.Equal(t, o.opened, change.Opened, "outcome %d opened", i)
					continue
				}
				trusted, change := b.RecordSuccess()
				assert.Equal(t, o.trusted, trusted, "outcome %d trusted", i)
				assert.Equal(t, o.closed, change.Closed, "outcome %d closed", i)
			}
			assert.Equal(t, tt.wantState, b.State())
		})
	}
}

func TestBreakerDefaultsAndReset(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(0), WithSuccessThreshold(-1))
	assert.Equal(t, "ratelimit-redis", b.Name())
	assert.Equal(t, "closed", b.State().String())

	for range 4 {
		b.RecordFailure()
	}
	require.False(t, b.IsOpen(), "invalid thresholds fall back to the default of five")
	b.RecordFailure()
	require.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())

	b.Reset()
	assert.False(t, b.IsOpen())
	_, change := b.RecordFailure()
	assert.False(t, change.Opened, "reset clears the failure count")
}

func TestBreakerConcurrentFailuresOpenOnce(t *testing.T) {
	b := New("ratelimit-redis", WithFailureThreshold(10))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Go(func() {
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	assert.True(t, b.IsOpen())
	assert.Equal(t, 1, opened)
}
