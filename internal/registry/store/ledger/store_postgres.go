package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"namemarket/pkg/platform/sentinel"
	txcontext "namemarket/pkg/platform/tx"
)

// Postgres keeps the fee ledger as a single row.
//
// Schema:
//
//	CREATE TABLE fee_ledger (
//	    id      SMALLINT PRIMARY KEY CHECK (id = 1),
//	    balance BIGINT NOT NULL CHECK (balance >= 0)
//	);
//
// Debits are compare-and-debit in one statement so the non-negative invariant
// holds without an explicit row lock.
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

func (s *Postgres) Credit(ctx context.Context, amount uint64) error {
	if amount > math.MaxInt64 {
		return fmt.Errorf("credit fee ledger: amount %d overflows bigint", amount)
	}
	query := `
		INSERT INTO fee_ledger (id, balance) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET balance = fee_ledger.balance + EXCLUDED.balance
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, int64(amount)); err != nil {
		return fmt.Errorf("credit fee ledger: %w", err)
	}
	return nil
}

func (s *Postgres) DebitIfAvailable(ctx context.Context, amount uint64) error {
	// The balance column is a bigint, so no balance can ever cover an amount
	// past its range.
	if amount > math.MaxInt64 {
		return sentinel.ErrInsufficient
	}
	query := `
		UPDATE fee_ledger
		SET balance = balance - $1
		WHERE id = 1 AND balance >= $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query, int64(amount))
	if err != nil {
		return fmt.Errorf("debit fee ledger: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit fee ledger: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrInsufficient
	}
	return nil
}

func (s *Postgres) Balance(ctx context.Context) (uint64, error) {
	var balance int64
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT balance FROM fee_ledger WHERE id = 1`).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read fee ledger: %w", err)
	}
	return uint64(balance), nil
}
