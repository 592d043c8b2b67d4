package ip

import (
	"context"
	"sync"

	"namemarket/internal/registry/models"
	"namemarket/pkg/platform/sentinel"
)

// InMemory keeps IP records in a mutex-guarded map. It favors clarity over
// performance and backs unit tests and single-node deployments.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.IPRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]models.IPRecord)}
}

// CreateIfAbsent inserts the record unless its IP is already keyed.
func (s *InMemory) CreateIfAbsent(_ context.Context, record *models.IPRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.IP]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.records[record.IP] = *record
	return nil
}

// FindByIP returns the record keyed by ip.
func (s *InMemory) FindByIP(_ context.Context, ip string) (*models.IPRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[ip]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := record
	return &out, nil
}

// Purge removes a record. Maintenance tooling only; never part of the public
// operation surface.
func (s *InMemory) Purge(_ context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[ip]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, ip)
	return nil
}

// Count returns the number of stored records.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
