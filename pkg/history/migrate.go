package history

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migration reports the schema versions before and after a migration.
type Migration struct {
	From    uint
	To      uint
	Changed bool
}

// migrateDB moves the schema of db to target.
//   - target < 0 migrates to the latest version.
//   - target == 0 rolls back every migration.
//   - target > 0 migrates to that version.
func migrateDB(db *sql.DB, backend Backend, target int) (Migration, error) {
	var (
		driver database.Driver
		err    error
	)
	switch backend {
	case SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case PostgreSQLBackend:
		driver, err = migratepgx.WithInstance(db, &migratepgx.Config{})
	default:
		return Migration{}, fmt.Errorf("%w: %s", ErrUnsupportedBackend, backend)
	}
	if err != nil {
		return Migration{}, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return Migration{}, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return Migration{}, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(backend), driver)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Migration{}, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return Migration{}, fmt.Errorf("database is in a dirty state at version %d. Fix manually or force the version", from)
	}

	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return Migration{From: from, To: from}, nil
	}
	if err != nil {
		return Migration{}, fmt.Errorf("failed to migrate to version %d: %w", target, err)
	}

	to, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Migration{}, fmt.Errorf("failed to get migrated version: %w", err)
	}
	return Migration{From: from, To: to, Changed: true}, nil
}
