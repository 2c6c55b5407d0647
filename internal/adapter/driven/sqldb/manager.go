// Package sqldb implements the ConnectionManager port over database/sql with a
// single dedicated connection.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ConnectionManager = (*Manager)(nil)

// OpenFunc opens a database handle; sql.Open satisfies it.
type OpenFunc func(driverName, dsn string) (*sql.DB, error)

// Option configures a Manager.
type Option func(*Manager)

// WithOpenFunc replaces sql.Open, e.g. to hand the manager a mock database.
func WithOpenFunc(fn OpenFunc) Option {
	return func(m *Manager) { m.open = fn }
}

// Manager owns at most one live database session. Every method blocks until
// the driver returns. A Manager is not safe for concurrent use.
type Manager struct {
	driver Driver
	open   OpenFunc
	logger *slog.Logger

	db     *sql.DB
	conn   *sql.Conn
	cursor *RowSet
}

// NewManager creates a closed Manager for driver.
func NewManager(driver Driver, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		driver: driver,
		open:   sql.Open,
		logger: logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the cached lifecycle state.
func (m *Manager) State() model.ConnState {
	if m.conn != nil {
		return model.ConnStateOpen
	}
	return model.ConnStateClosed
}

// Open establishes the session described by cfg. On failure everything created
// along the way is released and the manager stays closed. An open manager is
// closed first, so Open doubles as reconfigure.
func (m *Manager) Open(ctx context.Context, cfg *model.ConnectionConfig) error {
	if cfg == nil {
		m.logger.Error("database open rejected", "op", "open", "error", driven.ErrNoConfig)
		return driven.ErrNoConfig
	}

	if m.conn != nil {
		if err := m.Close(); err != nil {
			m.logger.Warn("closing previous connection failed", "op", "open", "error", err)
		}
	}

	if err := m.connect(ctx, cfg); err != nil {
		m.logger.Error("database connection failed",
			"op", "open",
			"driver", m.driver,
			"host", cfg.Host,
			"database", cfg.Database,
			"error", err,
		)
		return err
	}

	m.logger.Info("database connected",
		"driver", m.driver,
		"host", cfg.Host,
		"port", cfg.Port,
		"database", cfg.Database,
	)
	return nil
}

func (m *Manager) connect(ctx context.Context, cfg *model.ConnectionConfig) error {
	dsn, err := m.driver.target(cfg)
	if err != nil {
		return fmt.Errorf("build target: %w", err)
	}

	db, err := m.open(string(m.driver), dsn)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("acquire conn: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		_ = db.Close()
		return fmt.Errorf("ping: %w", err)
	}

	m.db = db
	m.conn = conn
	return nil
}

// Close releases the session. It always leaves the manager closed and returns
// the first error encountered. Closing a closed manager is a no-op.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}

	var firstErr error

	if err := m.releaseCursor(); err != nil {
		firstErr = fmt.Errorf("close cursor: %w", err)
	}

	if err := m.conn.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close conn: %w", err)
	}

	if err := m.db.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close db: %w", err)
	}

	m.conn = nil
	m.db = nil

	if firstErr != nil {
		m.logger.Error("database close failed", "op", "close", "error", firstErr)
		return firstErr
	}
	m.logger.Info("database connection closed")
	return nil
}

// IsConnected reports whether the manager is open and the session is alive
// right now. While a RowSet is being read the session is judged by the cursor
// instead of a ping, since the wire is busy.
func (m *Manager) IsConnected(ctx context.Context) bool {
	if m.conn == nil {
		return false
	}
	if m.cursor != nil && !m.cursor.closed {
		return m.cursor.Err() == nil
	}
	if err := m.conn.PingContext(ctx); err != nil {
		m.logger.Warn("database ping failed", "op", "is_connected", "error", err)
		return false
	}
	return true
}

// QueryRows runs a row-returning statement. Any RowSet still open from an
// earlier call is closed first.
func (m *Manager) QueryRows(ctx context.Context, query string, args ...any) (driven.RowSet, error) {
	if err := m.ready("query_rows"); err != nil {
		return nil, err
	}

	rows, err := m.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, m.fail("query_rows", fmt.Errorf("query: %w", err))
	}

	m.cursor = &RowSet{rows: rows}
	return m.cursor, nil
}

// Execute runs a mutating statement and returns the number of affected rows.
// It returns driven.ExecFailed together with the error on any failure.
func (m *Manager) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	if err := m.ready("execute"); err != nil {
		return driven.ExecFailed, err
	}

	res, err := m.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return driven.ExecFailed, m.fail("execute", fmt.Errorf("exec: %w", err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return driven.ExecFailed, m.fail("execute", fmt.Errorf("rows affected: %w", err))
	}
	return n, nil
}

// QueryScalar returns the first column of the first row. A statement that
// yields no rows returns (nil, nil). Byte slices are returned as strings.
func (m *Manager) QueryScalar(ctx context.Context, query string, args ...any) (any, error) {
	if err := m.ready("query_scalar"); err != nil {
		return nil, err
	}

	var v any
	err := m.conn.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, m.fail("query_scalar", fmt.Errorf("query row: %w", err))
	}
	return normalize(v), nil
}

// ready guards statement methods. It checks cached state only, so a guarded
// call never touches the transport, and frees the wire of any open cursor.
func (m *Manager) ready(op string) error {
	if m.conn == nil {
		m.logger.Error("database not connected", "op", op)
		return driven.ErrNotConnected
	}
	if err := m.releaseCursor(); err != nil {
		m.logger.Warn("closing previous cursor failed", "op", op, "error", err)
	}
	return nil
}

func (m *Manager) releaseCursor() error {
	if m.cursor == nil {
		return nil
	}
	c := m.cursor
	m.cursor = nil
	if c.closed {
		return nil
	}
	return c.Close()
}

func (m *Manager) fail(op string, err error) error {
	m.logger.Error("database statement failed", "op", op, "error", err)
	return err
}
