//go:build integration

// Package containers starts shared testcontainers for integration suites.
// Each backing service is started at most once per test binary and reused;
// suites isolate themselves by flushing or dropping state in SetupTest.
package containers

import (
	"sync"
	"testing"
)

// Manager hands out lazily started, process-wide containers.
type Manager struct {
	redisOnce sync.Once
	redis     *RedisContainer
	redisErr  string

	mongoOnce sync.Once
	mongo     *MongoContainer
	mongoErr  string

	redpandaOnce sync.Once
	redpanda     *RedpandaContainer
	redpandaErr  string
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{}
	})
	return manager
}

// GetRedis starts Redis on first use.
func (m *Manager) GetRedis(t *testing.T) *RedisContainer {
	t.Helper()
	m.redisOnce.Do(func() {
		m.redis, m.redisErr = startOnce(t, NewRedisContainer)
	})
	if m.redis == nil {
		t.Fatalf("redis container unavailable: %s", m.redisErr)
	}
	return m.redis
}

// GetMongo starts MongoDB on first use.
func (m *Manager) GetMongo(t *testing.T) *MongoContainer {
	t.Helper()
	m.mongoOnce.Do(func() {
		m.mongo, m.mongoErr = startOnce(t, NewMongoContainer)
	})
	if m.mongo == nil {
		t.Fatalf("mongo container unavailable: %s", m.mongoErr)
	}
	return m.mongo
}

// GetRedpanda starts a Kafka-compatible broker on first use.
func (m *Manager) GetRedpanda(t *testing.T) *RedpandaContainer {
	t.Helper()
	m.redpandaOnce.Do(func() {
		m.redpanda, m.redpandaErr = startOnce(t, NewRedpandaContainer)
	})
	if m.redpanda == nil {
		t.Fatalf("redpanda container unavailable: %s", m.redpandaErr)
	}
	return m.redpanda
}

// startOnce runs start in a subtest so a t.Fatalf inside it is recorded
// without leaving the sync.Once half done.
func startOnce[T any](t *testing.T, start func(*testing.T) *T) (*T, string) {
	var out *T
	ok := t.Run("start container", func(st *testing.T) {
		out = start(st)
	})
	if !ok {
		return nil, "startup failed, see subtest output"
	}
	return out, ""
}
