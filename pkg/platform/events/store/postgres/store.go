package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "namemarket/pkg/domain"
	"namemarket/pkg/platform/events"
	txcontext "namemarket/pkg/platform/tx"
)

// Store implements events.Store using the transactional outbox pattern.
// Events are written to the outbox table in the same transaction as the
// registry mutation and published downstream by an outbox relay, which gives
// indexers at-least-once delivery.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL event store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON structure handed to the downstream relay. Field
// names match events.Event for proper deserialization by consumers.
type outboxPayload struct {
	ID        string `json:"ID"`
	Kind      string `json:"Kind"`
	Domain    string `json:"Domain,omitempty"`
	IP        string `json:"IP,omitempty"`
	Owner     string `json:"Owner,omitempty"`
	NewOwner  string `json:"NewOwner,omitempty"`
	Price     uint64 `json:"Price,omitempty"`
	Amount    uint64 `json:"Amount,omitempty"`
	ExpiresAt string `json:"ExpiresAt,omitempty"`
	At        string `json:"At"`
	RequestID string `json:"RequestID,omitempty"`
}

// Append writes an event to the outbox table.
func (s *Store) Append(ctx context.Context, event events.Event) error {
	eventID := uuid.New()

	payload := outboxPayload{
		ID:        eventID.String(),
		Kind:      string(event.Kind),
		Domain:    event.Domain,
		IP:        event.IP,
		Owner:     event.Owner.String(),
		NewOwner:  event.NewOwner.String(),
		Price:     event.Price,
		Amount:    event.Amount,
		At:        event.At.Format(time.RFC3339Nano),
		RequestID: event.RequestID,
	}
	if !event.ExpiresAt.IsZero() {
		payload.ExpiresAt = event.ExpiresAt.Format(time.RFC3339Nano)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	aggregateType := "ip"
	if event.Domain != "" {
		aggregateType = "domain"
	}
	if event.Kind == events.KindFeesWithdrawn {
		aggregateType = "ledger"
	}
	_, err = s.execer(ctx).ExecContext(ctx, query,
		eventID, aggregateType, event.Subject(), string(event.Kind), payloadBytes, event.At)
	if err != nil {
		return fmt.Errorf("insert outbox event: %w", err)
	}
	return nil
}

// ListBySubject reads back outbox rows for one record. Primarily for
// operational inspection; consumers read from the relay, not this table.
func (s *Store) ListBySubject(ctx context.Context, subject string) ([]events.Event, error) {
	query := `
		SELECT payload FROM outbox
		WHERE aggregate_id = $1
		ORDER BY created_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, subject)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var out []events.Event
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		var payload outboxPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, fmt.Errorf("unmarshal outbox payload: %w", err)
		}
		event, err := payload.toEvent()
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

func (p outboxPayload) toEvent() (events.Event, error) {
	at, err := time.Parse(time.RFC3339Nano, p.At)
	if err != nil {
		return events.Event{}, fmt.Errorf("parse event timestamp: %w", err)
	}
	event := events.Event{
		Kind:      events.Kind(p.Kind),
		Domain:    p.Domain,
		IP:        p.IP,
		Owner:     toPrincipal(p.Owner),
		NewOwner:  toPrincipal(p.NewOwner),
		Price:     p.Price,
		Amount:    p.Amount,
		At:        at,
		RequestID: p.RequestID,
	}
	if p.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339Nano, p.ExpiresAt)
		if err != nil {
			return events.Event{}, fmt.Errorf("parse event expiry: %w", err)
		}
		event.ExpiresAt = expiresAt
	}
	return event, nil
}

func toPrincipal(s string) id.Principal {
	return id.Principal(s)
}
