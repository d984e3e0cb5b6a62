// Package history persists evaluation runs so later runs can report their change
// against a baseline.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Backend names a storage backend.
type Backend string

const (
	SQLiteBackend     Backend = "sqlite" // default
	MySQLBackend      Backend = "mysql"
	PostgreSQLBackend Backend = "postgresql"
	NoneBackend       Backend = "none"
)

var (
	// ErrUnsupportedBackend is returned for an unknown backend name.
	ErrUnsupportedBackend = errors.New("history: unsupported backend")
	// ErrNoRuns is returned when no run matches a lookup.
	ErrNoRuns = errors.New("history: no recorded runs")
	// ErrDisabled is returned by operations that need a database on NoneBackend.
	ErrDisabled = errors.New("history: disabled")
)

// ParseBackend resolves a backend name, case-insensitively. An empty name selects
// SQLiteBackend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return SQLiteBackend, nil
	case SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend:
		return b, nil
	case "postgres":
		return PostgreSQLBackend, nil
	default:
		return "", fmt.Errorf("%w: %q. Must be sqlite, mysql, postgresql, or none", ErrUnsupportedBackend, name)
	}
}

func (b Backend) driverName() string {
	switch b {
	case MySQLBackend:
		return "mysql"
	case PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// DefaultSQLitePath returns the database file used when the sqlite backend has no
// connection string.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".metashift", "history.db")
	}
	return filepath.Join(home, ".metashift", "history.db")
}
