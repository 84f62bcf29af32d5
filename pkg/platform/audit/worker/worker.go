package worker

import (
	"context"
	"log/slog"
	"time"

	audit "rishta/pkg/platform/audit"
)

// Worker drains audit events from a channel into a store. A failed append is
// logged and skipped so one bad write cannot stall the queue.
type Worker struct {
	store         audit.Store
	inbox         <-chan audit.Event
	logger        *slog.Logger
	appendTimeout time.Duration
}

// NewWorker builds a worker. A positive appendTimeout bounds every store
// write so an unreachable backend cannot pin the queue.
func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger, appendTimeout time.Duration) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger, appendTimeout: appendTimeout}
}

// Run processes events until the inbox is closed or ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.append(ctx, event); err != nil && w.logger != nil {
				w.logger.ErrorContext(ctx, "failed to persist audit event",
					"action", event.Action,
					"subject", event.Subject,
					"error", err,
				)
			}
		}
	}
}

func (w *Worker) append(ctx context.Context, event audit.Event) error {
	if w.appendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.appendTimeout)
		defer cancel()
	}
	return w.store.Append(ctx, event)
}
