package ip

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namemarket/internal/registry/models"
	"namemarket/pkg/platform/sentinel"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresCreateIfAbsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record, err := models.NewIPRecord("192.168.1.1", "<html>x</html>", "owner-a", now)
	require.NoError(t, err)

	t.Run("inserts a fresh ip", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO ip_records`).
			WithArgs(record.IP, record.WebsiteCode, "owner-a", now).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.CreateIfAbsent(context.Background(), record))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict maps to ErrAlreadyUsed", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO ip_records`).
			WithArgs(record.IP, record.WebsiteCode, "owner-a", now).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.CreateIfAbsent(context.Background(), record)
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresFindByIP(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("scans the full record", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT ip, website_code, owner, created_at`).
			WithArgs("192.168.1.1").
			WillReturnRows(sqlmock.NewRows([]string{"ip", "website_code", "owner", "created_at"}).
				AddRow("192.168.1.1", "<html>x</html>", "owner-a", now))

		record, err := store.FindByIP(context.Background(), "192.168.1.1")
		require.NoError(t, err)
		assert.Equal(t, "<html>x</html>", record.WebsiteCode)
		assert.EqualValues(t, "owner-a", record.Owner)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no rows maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT ip, website_code, owner, created_at`).
			WithArgs("10.0.0.9").
			WillReturnRows(sqlmock.NewRows([]string{"ip", "website_code", "owner", "created_at"}))

		_, err := store.FindByIP(context.Background(), "10.0.0.9")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresPurge(t *testing.T) {
	t.Run("deletes an existing row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM ip_records`).
			WithArgs("192.168.1.1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Purge(context.Background(), "192.168.1.1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`DELETE FROM ip_records`).
			WithArgs("192.168.1.1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, store.Purge(context.Background(), "192.168.1.1"), sentinel.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
