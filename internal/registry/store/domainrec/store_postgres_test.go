package domainrec

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namemarket/internal/registry/models"
	id "namemarket/pkg/domain"
	"namemarket/pkg/platform/sentinel"
	"namemarket/pkg/platform/tx"
)

var assignedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
var expiresAt = assignedAt.Add(365 * 24 * time.Hour)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock, *tx.SQLRunner) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock, tx.NewSQLRunner(db)
}

func recordRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"name", "ip", "owner", "assigned_at", "expires_at"}).
		AddRow("example.com", "192.168.1.1", "owner-a", assignedAt, expiresAt)
}

func TestPostgresCreateIfAbsent(t *testing.T) {
	record, err := models.NewDomainRecord("example.com", "192.168.1.1", "owner-a", assignedAt, 365*24*time.Hour)
	require.NoError(t, err)

	t.Run("inserts a fresh name", func(t *testing.T) {
		store, mock, _ := newMockStore(t)
		mock.ExpectExec(`INSERT INTO domain_records`).
			WithArgs(record.Name, record.IP, "owner-a", record.AssignedAt, record.ExpiresAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateIfAbsent(context.Background(), record))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict maps to ErrAlreadyUsed", func(t *testing.T) {
		store, mock, _ := newMockStore(t)
		mock.ExpectExec(`INSERT INTO domain_records`).
			WithArgs(record.Name, record.IP, "owner-a", record.AssignedAt, record.ExpiresAt).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.CreateIfAbsent(context.Background(), record), sentinel.ErrAlreadyUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresFindByName(t *testing.T) {
	t.Run("scans the full record", func(t *testing.T) {
		store, mock, _ := newMockStore(t)
		mock.ExpectQuery(`SELECT name, ip, owner, assigned_at, expires_at`).
			WithArgs("example.com").
			WillReturnRows(recordRows())

		record, err := store.FindByName(context.Background(), "example.com")
		require.NoError(t, err)
		assert.Equal(t, "192.168.1.1", record.IP)
		assert.Equal(t, id.Principal("owner-a"), record.Owner)
		assert.Equal(t, expiresAt, record.ExpiresAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		store, mock, _ := newMockStore(t)
		mock.ExpectQuery(`SELECT name, ip, owner, assigned_at, expires_at`).
			WithArgs("missing.com").
			WillReturnRows(sqlmock.NewRows([]string{"name", "ip", "owner", "assigned_at", "expires_at"}))

		_, err := store.FindByName(context.Background(), "missing.com")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresExecute(t *testing.T) {
	t.Run("requires a transaction in context", func(t *testing.T) {
		store, _, _ := newMockStore(t)
		_, err := store.Execute(context.Background(), "example.com",
			func(*models.DomainRecord) error { return nil },
			func(*models.DomainRecord) {},
		)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("locks, validates, mutates, and persists", func(t *testing.T) {
		store, mock, runner := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, ip, owner, assigned_at, expires_at[\s\S]*FOR UPDATE`).
			WithArgs("example.com").
			WillReturnRows(recordRows())
		mock.ExpectExec(`UPDATE domain_records`).
			WithArgs("example.com", "192.168.1.1", "buyer-b", assignedAt, expiresAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := runner.RunInTx(context.Background(), func(txCtx context.Context) error {
			record, err := store.Execute(txCtx, "example.com",
				func(record *models.DomainRecord) error {
					return record.CanPurchase("buyer-b")
				},
				func(record *models.DomainRecord) {
					record.ApplyPurchase("buyer-b")
				},
			)
			if err != nil {
				return err
			}
			assert.Equal(t, id.Principal("buyer-b"), record.Owner)
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("validation failure rolls back without an update", func(t *testing.T) {
		store, mock, runner := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT name, ip, owner, assigned_at, expires_at[\s\S]*FOR UPDATE`).
			WithArgs("example.com").
			WillReturnRows(recordRows())
		mock.ExpectRollback()

		err := runner.RunInTx(context.Background(), func(txCtx context.Context) error {
			_, err := store.Execute(txCtx, "example.com",
				func(record *models.DomainRecord) error {
					return record.CanPurchase("owner-a")
				},
				func(record *models.DomainRecord) {
					record.ApplyPurchase("owner-a")
				},
			)
			return err
		})
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
