package sqldb

import (
	"database/sql"
	"fmt"
	"iter"

	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RowSet = (*RowSet)(nil)

// RowSet is a forward-only cursor over the rows of one query. It holds the
// manager's connection until it is exhausted or closed.
type RowSet struct {
	rows   *sql.Rows
	closed bool
}

// Columns returns the result column names.
func (r *RowSet) Columns() ([]string, error) {
	return r.rows.Columns()
}

// Next advances to the next row. It returns false once the rows are exhausted,
// after which the cursor is released.
func (r *RowSet) Next() bool {
	if r.closed {
		return false
	}
	if !r.rows.Next() {
		r.closed = true
		return false
	}
	return true
}

// Scan copies the current row into dest.
func (r *RowSet) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Values returns the current row as a slice, one element per column.
// Byte slices are returned as strings.
func (r *RowSet) Values() ([]any, error) {
	cols, err := r.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	for i, v := range vals {
		vals[i] = normalize(v)
	}
	return vals, nil
}

// All yields every remaining row and closes the cursor when iteration stops.
// A scan or iteration error is yielded once as the final element.
func (r *RowSet) All() iter.Seq2[[]any, error] {
	return func(yield func([]any, error) bool) {
		defer r.Close()

		for r.Next() {
			vals, err := r.Values()
			if !yield(vals, err) || err != nil {
				return
			}
		}
		if err := r.Err(); err != nil {
			yield(nil, err)
		}
	}
}

// Err returns the error, if any, encountered during iteration.
func (r *RowSet) Err() error {
	return r.rows.Err()
}

// Close releases the cursor. It is safe to call more than once.
func (r *RowSet) Close() error {
	r.closed = true
	return r.rows.Close()
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
