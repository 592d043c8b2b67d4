package publisher

import (
	"context"
	"log/slog"
	"sync"

	"namemarket/pkg/platform/events"
)

// Publisher fans registry events out to a store. In sync mode Emit appends
// directly; with an async buffer Emit enqueues and a background goroutine
// drains, so emitting never blocks a registry operation on slow sinks.
//
// Delivery is at-least-once from the caller's point of view; a full async
// buffer drops the event with a log line rather than stalling the operation.
type Publisher struct {
	store  events.Store
	logger *slog.Logger

	inbox  chan events.Event
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

type Option func(*config)

type config struct {
	buffer int
	logger *slog.Logger
}

// WithAsyncBuffer enables async emission with the given channel capacity.
func WithAsyncBuffer(size int) Option {
	return func(c *config) {
		c.buffer = size
	}
}

// WithLogger sets the logger used for drop reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewPublisher builds a publisher over the given store. Without options the
// publisher is synchronous.
func NewPublisher(store events.Store, opts ...Option) *Publisher {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	p := &Publisher{store: store, logger: cfg.logger, done: make(chan struct{})}
	if cfg.buffer > 0 {
		p.inbox = make(chan events.Event, cfg.buffer)
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit publishes one event. In async mode a full buffer drops the event and
// returns nil; registry operations must not fail because an indexer is slow.
func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.Warn("event buffer full, dropping event",
			"kind", string(event.Kind),
			"subject", event.Subject(),
		)
		return nil
	}
}

// List exposes the underlying store's per-subject view.
func (p *Publisher) List(ctx context.Context, subject string) ([]events.Event, error) {
	return p.store.ListBySubject(ctx, subject)
}

// Close stops the async goroutine after draining buffered events. Safe to call
// on a sync publisher and safe to call twice.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
		close(p.done)
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		if err := p.store.Append(context.Background(), event); err != nil {
			p.logger.Error("failed to append event",
				"kind", string(event.Kind),
				"subject", event.Subject(),
				"error", err.Error(),
			)
		}
	}
}
