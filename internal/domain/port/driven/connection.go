package driven

import (
	"context"
	"errors"
	"iter"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
)

var (
	// ErrConfigAbsent is returned when there is no configuration to load.
	ErrConfigAbsent = errors.New("connection config absent")

	// ErrConfigMalformed wraps decoder failures for the configuration file.
	ErrConfigMalformed = errors.New("connection config malformed")

	// ErrNoConfig is returned by Open when called without a configuration.
	ErrNoConfig = errors.New("no connection config")

	// ErrNotConnected is returned by statement methods while the connection is closed.
	ErrNotConnected = errors.New("not connected")
)

// ExecFailed is the row count Execute reports alongside a non-nil error.
const ExecFailed int64 = -1

// RowSet is a forward-only cursor over query results. It is consumed once and
// must be closed before the next statement runs on the same connection.
type RowSet interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Values() ([]any, error)
	All() iter.Seq2[[]any, error]
	Err() error
	Close() error
}

// ConnectionManager defines the driven port for the single managed database
// connection. Implementations are not safe for concurrent use.
type ConnectionManager interface {
	// Open connects using cfg. A nil cfg returns ErrNoConfig without any attempt.
	// An already open connection is closed before the new one is established.
	Open(ctx context.Context, cfg *model.ConnectionConfig) error

	// Close releases the connection. Closing a closed manager is a no-op.
	Close() error

	// IsConnected reports whether the connection is open and answers a ping.
	IsConnected(ctx context.Context) bool

	// State returns the cached lifecycle state without touching the transport.
	State() model.ConnState

	// QueryRows runs a row-returning statement.
	QueryRows(ctx context.Context, query string, args ...any) (RowSet, error)

	// Execute runs a mutating statement and returns the affected row count,
	// or ExecFailed with the error.
	Execute(ctx context.Context, query string, args ...any) (int64, error)

	// QueryScalar returns the first column of the first row, or nil when the
	// statement produced no rows.
	QueryScalar(ctx context.Context, query string, args ...any) (any, error)
}
