package domainrec

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

// Postgres persists domain records in the domain_records table.
//
// Schema:
//
//	CREATE TABLE domain_records (
//	    name        TEXT PRIMARY KEY,
//	    ip          TEXT NOT NULL,
//	    owner       TEXT NOT NULL,
//	    assigned_at TIMESTAMPTZ NOT NULL,
//	    expires_at  TIMESTAMPTZ NOT NULL
//	);
//
// Execute relies on SELECT ... FOR UPDATE, so it must run inside a
// transaction carried by the context (tx.SQLRunner provides one).
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

func (s *Postgres) CreateIfAbsent(ctx context.Context, record *models.DomainRecord) error {
	query := `
		INSERT INTO domain_records (name, ip, owner, assigned_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		record.Name, record.IP, record.Owner.String(), record.AssignedAt, record.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert domain record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert domain record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.DomainRecord, error) {
	query := `
		SELECT name, ip, owner, assigned_at, expires_at
		FROM domain_records
		WHERE name = $1
	`
	return s.scanRecord(s.execer(ctx).QueryRowContext(ctx, query, name))
}

// Execute locks the named row, runs validate then mutate, and persists the
// mutation. The row lock is held until the surrounding transaction commits,
// which serializes concurrent ownership changes on the same name.
func (s *Postgres) Execute(
	ctx context.Context,
	name string,
	validate func(*models.DomainRecord) error,
	mutate func(*models.DomainRecord),
) (*models.DomainRecord, error) {
	sqlTx, ok := txcontext.From(ctx)
	if !ok {
		return nil, fmt.Errorf("domain record execute: %w", sentinel.ErrInvalidState)
	}

	query := `
		SELECT name, ip, owner, assigned_at, expires_at
		FROM domain_records
		WHERE name = $1
		FOR UPDATE
	`
	record, err := s.scanRecord(sqlTx.QueryRowContext(ctx, query, name))
	if err != nil {
		return nil, err
	}
	if err := validate(record); err != nil {
		return nil, err
	}
	mutate(record)

	update := `
		UPDATE domain_records
		SET ip = $2, owner = $3, assigned_at = $4, expires_at = $5
		WHERE name = $1
	`
	if _, err := sqlTx.ExecContext(ctx, update,
		record.Name, record.IP, record.Owner.String(), record.AssignedAt, record.ExpiresAt); err != nil {
		return nil, fmt.Errorf("update domain record: %w", err)
	}
	return record, nil
}

// Purge removes a record. Maintenance tooling only.
func (s *Postgres) Purge(ctx context.Context, name string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM domain_records WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("purge domain record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("purge domain record: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM domain_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count domain records: %w", err)
	}
	return count, nil
}

func (s *Postgres) scanRecord(row *sql.Row) (*models.DomainRecord, error) {
	var record models.DomainRecord
	var owner string
	err := row.Scan(&record.Name, &record.IP, &owner, &record.AssignedAt, &record.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan domain record: %w", err)
	}
	record.Owner = id.Principal(owner)
	return &record, nil
}
