package domainrec

import (
	"context"
	"sync"

	"namemarket/internal/registry/models"
	"namemarket/pkg/platform/sentinel"
)

// InMemory keeps domain records in a mutex-guarded map. Execute serializes
// check-then-mutate sequences under the store lock so two concurrent
// purchases of the same name cannot both pass validation.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]models.DomainRecord
}

func NewInMemory() *InMemory {
	return &InMemory{records: make(map[string]models.DomainRecord)}
}

// CreateIfAbsent inserts the record unless its name is already keyed.
func (s *InMemory) CreateIfAbsent(_ context.Context, record *models.DomainRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.Name]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.records[record.Name] = *record
	return nil
}

// FindByName returns the record keyed by name. Logical expiry is the
// service's concern; the store returns expired records unchanged.
func (s *InMemory) FindByName(_ context.Context, name string) (*models.DomainRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := record
	return &out, nil
}

// Execute runs validate then mutate on the named record while holding the
// store lock. The mutation is persisted only if validate returns nil; a
// validation failure leaves the record untouched. Returns the record as it
// stands after the call.
func (s *InMemory) Execute(
	_ context.Context,
	name string,
	validate func(*models.DomainRecord) error,
	mutate func(*models.DomainRecord),
) (*models.DomainRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[name]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&record); err != nil {
		return nil, err
	}
	mutate(&record)
	s.records[name] = record
	out := record
	return &out, nil
}

// Purge removes a record. Maintenance tooling only; production operations
// never delete domain records, even expired ones.
func (s *InMemory) Purge(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.records, name)
	return nil
}

// Count returns the number of stored records, expired ones included.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
