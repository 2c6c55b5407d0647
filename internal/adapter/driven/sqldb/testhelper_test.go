package sqldb

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mysqlConfig() *model.ConnectionConfig {
	return &model.ConnectionConfig{
		Host:     "db.internal",
		Port:     3306,
		User:     "luna",
		Password: "hunter2",
		Database: "world",
	}
}

// newMock creates a sqlmock database with exact query matching and ping
// expectations enabled.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	return db, mock
}

// openMockManager returns an open mysql Manager backed by sqlmock.
func openMockManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock := newMock(t)
	m := NewManager(DriverMySQL, discardLogger(), WithOpenFunc(func(driverName, _ string) (*sql.DB, error) {
		require.Equal(t, "mysql", driverName)
		return db, nil
	}))

	mock.ExpectPing()
	require.NoError(t, m.Open(t.Context(), mysqlConfig()))
	return m, mock
}

// noOpen fails the test if the manager tries to reach a database.
func noOpen(t *testing.T) OpenFunc {
	return func(string, string) (*sql.DB, error) {
		t.Fatal("manager must not open a database")
		return nil, nil
	}
}

// openSQLiteManager returns an open Manager over a fresh sqlite file.
func openSQLiteManager(t *testing.T) *Manager {
	t.Helper()

	m := NewManager(DriverSQLite, discardLogger())
	cfg := &model.ConnectionConfig{Database: filepath.Join(t.TempDir(), "test.db")}
	require.NoError(t, m.Open(t.Context(), cfg))
	t.Cleanup(func() { _ = m.Close() })
	return m
}
