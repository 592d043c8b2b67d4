package ip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"namemarket/internal/registry/models"
	id "namemarket/pkg/domain"
	"namemarket/pkg/platform/sentinel"
	txcontext "namemarket/pkg/platform/tx"
)

func toPrincipal(s string) id.Principal {
	return id.Principal(s)
}

// Postgres persists IP records in the ip_records table.
//
// Schema:
//
//	CREATE TABLE ip_records (
//	    ip           TEXT PRIMARY KEY,
//	    website_code TEXT NOT NULL,
//	    owner        TEXT NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Postgres) CreateIfAbsent(ctx context.Context, record *models.IPRecord) error {
	query := `
		INSERT INTO ip_records (ip, website_code, owner, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ip) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		record.IP, record.WebsiteCode, record.Owner.String(), record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ip record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert ip record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *Postgres) FindByIP(ctx context.Context, ip string) (*models.IPRecord, error) {
	query := `
		SELECT ip, website_code, owner, created_at
		FROM ip_records
		WHERE ip = $1
	`
	var record models.IPRecord
	var owner string
	err := s.execer(ctx).QueryRowContext(ctx, query, ip).
		Scan(&record.IP, &record.WebsiteCode, &owner, &record.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ip record: %w", err)
	}
	record.Owner = toPrincipal(owner)
	return &record, nil
}

// Purge removes a record. Maintenance tooling only.
func (s *Postgres) Purge(ctx context.Context, ip string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM ip_records WHERE ip = $1`, ip)
	if err != nil {
		return fmt.Errorf("purge ip record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("purge ip record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM ip_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ip records: %w", err)
	}
	return count, nil
}
