// Package events carries registry change notifications to external observers
// (indexers). Delivery is at-least-once and sits outside transactional state:
// the Postgres store writes through an outbox table, the memory store keeps
// per-subject lists for tests and single-node deployments.
package events

import (
	"context"
	"time"

	id "namemarket/pkg/domain"
)

// Kind names a registry state change.
type Kind string

const (
	KindIPAllotted      Kind = "ip_allotted"
	KindDomainAssigned  Kind = "domain_assigned"
	KindDomainPurchased Kind = "domain_purchased"
	KindFeesWithdrawn   Kind = "fees_withdrawn"
)

// Event is emitted from registry logic after a successful state change. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Kind      Kind
	Domain    string
	IP        string
	Owner     id.Principal
	NewOwner  id.Principal
	Price     uint64
	Amount    uint64
	ExpiresAt time.Time
	At        time.Time
	RequestID string
}

// Subject is the record key the event is about, used by stores that index
// events per record.
func (e Event) Subject() string {
	if e.Domain != "" {
		return e.Domain
	}
	return e.IP
}

// Store persists emitted events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
