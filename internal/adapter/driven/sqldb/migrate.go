package sqldb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Migrate applies all pending migrations found in dir of fsys over the open
// session. It is safe to call on every startup; already-applied migrations are
// skipped.
func (m *Manager) Migrate(ctx context.Context, fsys fs.FS, dir string) error {
	if err := m.ready("migrate"); err != nil {
		return err
	}

	sourceDriver, err := iofs.New(fsys, dir)
	if err != nil {
		return m.fail("migrate", fmt.Errorf("create migration source: %w", err))
	}

	var dbDriver database.Driver
	switch m.driver {
	case DriverMySQL:
		// Reuse the managed connection so migrations see the same session.
		dbDriver, err = migratemysql.WithConnection(ctx, m.conn, &migratemysql.Config{})
	case DriverSQLite:
		dbDriver, err = migratesqlite.WithInstance(m.db, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("unknown driver %q", m.driver)
	}
	if err != nil {
		return m.fail("migrate", fmt.Errorf("create migration db driver: %w", err))
	}

	mg, err := migrate.NewWithInstance("iofs", sourceDriver, string(m.driver), dbDriver)
	if err != nil {
		return m.fail("migrate", fmt.Errorf("create migrator: %w", err))
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return m.fail("migrate", fmt.Errorf("run migrations: %w", err))
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return m.fail("migrate", fmt.Errorf("read migration version: %w", err))
	}
	m.logger.Info("migrations complete", "version", version, "dirty", dirty)

	return nil
}
