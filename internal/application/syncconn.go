package application

import (
	"context"
	"sync"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ConnectionManager = (*SyncConnection)(nil)

// SyncConnection serializes access to a ConnectionManager so it can be shared
// between goroutines, such as concurrent HTTP handlers. A RowSet returned by
// QueryRows is read outside the lock; drain and close it before the next call.
type SyncConnection struct {
	mu    sync.Mutex
	inner driven.ConnectionManager
}

// NewSyncConnection wraps inner.
func NewSyncConnection(inner driven.ConnectionManager) *SyncConnection {
	return &SyncConnection{inner: inner}
}

func (s *SyncConnection) Open(ctx context.Context, cfg *model.ConnectionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Open(ctx, cfg)
}

func (s *SyncConnection) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close()
}

func (s *SyncConnection) IsConnected(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.IsConnected(ctx)
}

func (s *SyncConnection) State() model.ConnState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.State()
}

func (s *SyncConnection) QueryRows(ctx context.Context, query string, args ...any) (driven.RowSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.QueryRows(ctx, query, args...)
}

func (s *SyncConnection) Execute(ctx context.Context, query string, args ...any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Execute(ctx, query, args...)
}

func (s *SyncConnection) QueryScalar(ctx context.Context, query string, args ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.QueryScalar(ctx, query, args...)
}
