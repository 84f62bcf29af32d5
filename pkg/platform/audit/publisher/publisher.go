// Package publisher fronts an audit store with optional asynchronous buffering.
//
// In synchronous mode Emit writes straight to the store. With WithAsyncBuffer
// events are queued and a background worker persists them; a full queue drops
// the event rather than blocking the request that produced it. Every
// background write is bounded by the append timeout and Shutdown gives up
// at its deadline, so a dead backend cannot hang the process on exit.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	audit "rishta/pkg/platform/audit"
	"rishta/pkg/platform/audit/worker"
)

// ErrBufferFull is returned when the async queue cannot take another event.
var ErrBufferFull = errors.New("audit buffer full")

const (
	defaultAppendTimeout = 5 * time.Second
	defaultCloseTimeout  = 10 * time.Second
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	dropped prometheus.Counter

	bufferSize    int
	appendTimeout time.Duration
	mu            sync.RWMutex
	closed        bool
	inbox         chan audit.Event
	done          chan struct{}
	stop          context.CancelFunc
}

type Option func(*Publisher)

// WithAsyncBuffer enables background persistence with a queue of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		p.bufferSize = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithAppendTimeout bounds each background store write. Zero disables the
// bound.
func WithAppendTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.appendTimeout = d
	}
}

// WithDroppedCounter counts events discarded because the queue was full.
func WithDroppedCounter(c prometheus.Counter) Option {
	return func(p *Publisher) {
		p.dropped = c
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, appendTimeout: defaultAppendTimeout}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufferSize > 0 {
		p.inbox = make(chan audit.Event, p.bufferSize)
		p.done = make(chan struct{})
		runCtx, stop := context.WithCancel(context.Background())
		p.stop = stop
		w := worker.NewWorker(store, p.inbox, p.logger, p.appendTimeout)
		go func() {
			defer close(p.done)
			_ = w.Run(runCtx)
		}()
	}
	return p
}

// Emit records an event, stamping the time when the caller left it zero.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}

	if p.inbox == nil {
		if err := p.store.Append(ctx, event); err != nil {
			return fmt.Errorf("append audit event: %w", err)
		}
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("audit publisher closed")
	}
	select {
	case p.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		if p.dropped != nil {
			p.dropped.Inc()
		}
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		}
		return ErrBufferFull
	}
}

// Close is Shutdown with a default deadline.
func (p *Publisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultCloseTimeout)
	defer cancel()
	return p.Shutdown(ctx)
}

// Shutdown stops accepting events and waits for queued ones to be persisted.
// When ctx ends first the worker is cancelled, the remaining events are
// abandoned and ctx's error is returned.
func (p *Publisher) Shutdown(ctx context.Context) error {
	if p.inbox == nil {
		return nil
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		p.stop()
		pending := len(p.inbox)
		if p.logger != nil {
			p.logger.Warn("audit flush deadline reached, abandoning queued events", "pending", pending)
		}
		return fmt.Errorf("flush audit events (%d pending): %w", pending, ctx.Err())
	}
}
