// Package kafka ships audit events to a Kafka topic, keyed by subject so one
// member's history stays ordered within a partition.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "rishta/pkg/platform/audit"
)

// DeliveryTimeout caps how long a record may wait for a broker ack before
// ProduceSync fails it.
const DeliveryTimeout = 10 * time.Second

type Store struct {
	client *kgo.Client
	topic  string
}

// New creates a producer for topic. Extra kgo options are appended to the defaults.
func New(brokers []string, topic string, opts ...kgo.Opt) (*Store, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka audit store requires at least one broker")
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("rishta-audit"),
		kgo.RecordDeliveryTimeout(DeliveryTimeout),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Store{client: client, topic: topic}, nil
}

// Append produces the event synchronously and waits for the broker ack.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(event.Category)},
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// Ping checks broker connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Health satisfies the readiness check.
func (s *Store) Health(ctx context.Context) error {
	return s.Ping(ctx)
}

// Close flushes and closes the producer.
func (s *Store) Close() {
	s.client.Close()
}
