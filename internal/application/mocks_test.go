package application_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockCipher reverses known values and falls back for everything else.
type mockCipher struct {
	plain map[string]string
	calls int
}

func (m *mockCipher) Encrypt(plaintext string) (string, error) { return plaintext, nil }

func (m *mockCipher) Decrypt(ciphertext string) (string, bool) {
	m.calls++
	if p, ok := m.plain[ciphertext]; ok {
		return p, true
	}
	return ciphertext, false
}

type mockConnectionManager struct {
	openErr   error
	opened    *model.ConnectionConfig
	openCalls int
	closes    int
	state     model.ConnState
}

func (m *mockConnectionManager) Open(_ context.Context, cfg *model.ConnectionConfig) error {
	m.openCalls++
	if cfg == nil {
		return driven.ErrNoConfig
	}
	if m.openErr != nil {
		return m.openErr
	}
	m.opened = cfg
	m.state = model.ConnStateOpen
	return nil
}

func (m *mockConnectionManager) Close() error {
	m.closes++
	m.state = model.ConnStateClosed
	return nil
}

func (m *mockConnectionManager) IsConnected(_ context.Context) bool {
	return m.state == model.ConnStateOpen
}

func (m *mockConnectionManager) State() model.ConnState {
	if m.state == "" {
		return model.ConnStateClosed
	}
	return m.state
}

func (m *mockConnectionManager) QueryRows(_ context.Context, _ string, _ ...any) (driven.RowSet, error) {
	return nil, driven.ErrNotConnected
}

func (m *mockConnectionManager) Execute(_ context.Context, _ string, _ ...any) (int64, error) {
	if m.state != model.ConnStateOpen {
		return driven.ExecFailed, driven.ErrNotConnected
	}
	return 1, nil
}

func (m *mockConnectionManager) QueryScalar(_ context.Context, _ string, _ ...any) (any, error) {
	if m.state != model.ConnStateOpen {
		return nil, driven.ErrNotConnected
	}
	return int64(1), nil
}
