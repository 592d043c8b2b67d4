// Package worker drains registry events into a store off the request path.
package worker

import (
	"context"
	"log/slog"

	"namemarket/pkg/platform/events"
)

// Worker pulls events from an inbox channel and appends them to the event
// store. By the time an event reaches the inbox its registry write has
// already committed, so an append failure is logged and the event dropped
// rather than fed back to the caller.
type Worker struct {
	store  events.Store
	inbox  <-chan events.Event
	logger *slog.Logger
}

func New(store events.Store, inbox <-chan events.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes the inbox until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.WarnContext(ctx, "failed to persist event",
					"kind", string(event.Kind),
					"error", err.Error(),
				)
			}
		}
	}
}
