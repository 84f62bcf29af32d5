package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rishta/internal/ratelimit/metrics"
	"rishta/internal/ratelimit/models"
	"rishta/internal/ratelimit/store/bucket"
	audit "rishta/pkg/platform/audit"
	"rishta/pkg/platform/audit/store/memory"
	"rishta/pkg/platform/circuit"
	"rishta/pkg/requestcontext"
)

type failingStore struct{ err error }

func (f *failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, f.err
}

type toggleStore struct {
	fail  bool
	inner BucketStore
}

func (s *toggleStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	if s.fail {
		return nil, errors.New("redis: connection refused")
	}
	return s.inner.Allow(ctx, key, limit, window)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/biodata", nil)
	req = req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimitRejectsOverBudget(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	auditStore := memory.NewInMemoryStore()
	mw := New(bucket.NewInMemoryBucketStore(), discardLogger(),
		models.Limit{RequestsPerWindow: 2, Window: time.Minute},
		WithMetrics(m),
		WithAuditPublisher(auditStoreEmitter{auditStore}),
	)
	h := mw.RateLimit(models.ClassWrite)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
	second := doRequest(h, "10.0.0.1")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := doRequest(h, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), `"error":"rate_limited"`)

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.2").Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitRejected.WithLabelValues("write")))
	events, err := auditStore.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "rate_limit_exceeded", events[0].Action)
}

func TestRateLimitPerClassOverride(t *testing.T) {
	mw := New(bucket.NewInMemoryBucketStore(), discardLogger(),
		models.Limit{RequestsPerWindow: 100, Window: time.Minute},
		WithLimit(models.ClassPayment, models.Limit{RequestsPerWindow: 1, Window: time.Minute}),
	)
	h := mw.RateLimit(models.ClassPayment)(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1").Code)
}

func TestRateLimitFailsOpenWithoutFallback(t *testing.T) {
	mw := New(&failingStore{err: errors.New("boom")}, discardLogger(),
		models.Limit{RequestsPerWindow: 1, Window: time.Minute})
	h := mw.RateLimit(models.ClassWrite)(okHandler())

	for range 3 {
		assert.Equal(t, http.StatusOK, doRequest(h, "10.0.0.1").Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	mw := New(&failingStore{err: errors.New("unused")}, discardLogger(),
		models.Limit{RequestsPerWindow: 1, Window: time.Minute}, WithDisabled(true))
	h := mw.RateLimit(models.ClassWrite)(okHandler())

	rr := doRequest(h, "10.0.0.1")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitFallsBackWhileCircuitOpen(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	primary := &toggleStore{fail: true, inner: bucket.NewInMemoryBucketStore()}
	breaker := circuit.New("ratelimit", circuit.WithFailureThreshold(1), circuit.WithSuccessThreshold(1))
	mw := New(primary, discardLogger(),
		models.Limit{RequestsPerWindow: 1, Window: time.Minute},
		WithFallback(bucket.NewInMemoryBucketStore(), breaker),
		WithMetrics(m),
	)
	h := mw.RateLimit(models.ClassWrite)(okHandler())

	first := doRequest(h, "10.0.0.1")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "degraded", first.Header().Get("X-RateLimit-Status"))
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimitCircuitOpen))

	// fallback still enforces the budget
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "10.0.0.1").Code)

	primary.fail = false
	recovered := doRequest(h, "10.0.0.9")
	assert.Equal(t, http.StatusOK, recovered.Code)
	assert.Empty(t, recovered.Header().Get("X-RateLimit-Status"))
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RateLimitCircuitOpen))
}

type auditStoreEmitter struct{ store *memory.InMemoryStore }

func (a auditStoreEmitter) Emit(ctx context.Context, e audit.Event) error {
	return a.store.Append(ctx, e)
}
