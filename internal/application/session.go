package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/dbsession/internal/domain/model"
	"github.com/ericfisherdev/dbsession/internal/domain/port/driven"
)

// Session is the process-wide handle to the loaded configuration and the
// managed connection. It is built once at startup and passed to whatever needs it.
type Session struct {
	Config *model.ConnectionConfig
	DB     driven.ConnectionManager
}

// Bootstrap loads the configuration at path and opens db with it. On any
// failure db is left closed and no Session is returned.
func Bootstrap(ctx context.Context, loader *ConfigLoader, db driven.ConnectionManager, path string) (*Session, error) {
	cfg, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := db.Open(ctx, cfg); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Session{Config: cfg, DB: db}, nil
}

// Close tears down the managed connection.
func (s *Session) Close() error {
	return s.DB.Close()
}
