package ledger

import (
	"context"
	"sync"

	"namemarket/pkg/platform/sentinel"
)

// InMemory is the fee ledger as a mutex-guarded accumulator. The balance can
// never go negative: debits are compare-and-debit under the lock.
type InMemory struct {
	mu      sync.RWMutex
	balance uint64
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

// Credit adds collected fees to the balance.
func (s *InMemory) Credit(_ context.Context, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balance += amount
	return nil
}

// DebitIfAvailable subtracts amount if the balance covers it. A failed debit
// leaves the balance unchanged.
func (s *InMemory) DebitIfAvailable(_ context.Context, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if amount > s.balance {
		return sentinel.ErrInsufficient
	}
	s.balance -= amount
	return nil
}

// Balance returns the current accumulated fees.
func (s *InMemory) Balance(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balance, nil
}
