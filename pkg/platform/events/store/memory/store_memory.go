package memory

import (
	"context"
	"sync"

	"namemarket/pkg/platform/events"
)

// InMemoryStore keeps emitted events per subject. It backs tests and
// single-node deployments where no indexer is attached.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]events.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]events.Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event events.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	subject := event.Subject()
	s.events[subject] = append(s.events[subject], event)
	return nil
}

func (s *InMemoryStore) ListBySubject(_ context.Context, subject string) ([]events.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]events.Event{}, s.events[subject]...), nil
}
