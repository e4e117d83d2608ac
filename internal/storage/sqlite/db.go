// Package sqlite keeps the swipe ledger in a local SQLite file so that a
// swipe with an unknown outcome stays blocked across CLI invocations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/matchme/internal/storage/migrations"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory ledger
const MemoryPath = ":memory:"

// DB is the ledger database
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Open opens the ledger database at path, creating its directory with
// owner-only permissions. The file holds the user's swipe history.
func Open(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dsn := "file::memory:?_foreign_keys=ON"
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	// One writer; an in-memory database also lives on a single connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping ledger %s: %w", path, err)
	}

	return &DB{DB: db, path: path, logger: logger}, nil
}

// Path returns the location the database was opened from
func (db *DB) Path() string { return db.path }

type migration struct {
	version int
	name    string
}

// Migrate brings the ledger schema up to date. Each migration runs in its
// own transaction together with its ledger_schema row.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS ledger_schema (
		version    INTEGER PRIMARY KEY,
		name       TEXT NOT NULL,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("create ledger_schema: %w", err)
	}

	current, err := db.Version(ctx)
	if err != nil {
		return err
	}

	pending, err := pendingMigrations(current)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if err := db.apply(ctx, m); err != nil {
			return err
		}
		db.logger.Info("ledger migration applied", "name", m.name, "version", m.version, "path", db.path)
	}
	return nil
}

func (db *DB) apply(ctx context.Context, m migration) error {
	data, err := fs.ReadFile(migrations.FS, m.name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration %s: %w", m.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO ledger_schema (version, name) VALUES (?, ?)", m.version, m.name); err != nil {
		return fmt.Errorf("record migration %s: %w", m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.name, err)
	}
	return nil
}

// Version returns the applied schema version, 0 for a fresh file
func (db *DB) Version(ctx context.Context) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM ledger_schema").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read ledger schema version: %w", err)
	}
	return version, nil
}

// pendingMigrations lists the embedded migrations above current in order.
// A malformed or duplicated version is an error: the set ships with the binary.
func pendingMigrations(current int) ([]migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var all []migration
	seen := make(map[int]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, err := parseVersion(e.Name())
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", prev, e.Name(), version)
		}
		seen[version] = e.Name()
		all = append(all, migration{version: version, name: e.Name()})
	}
	slices.SortFunc(all, func(a, b migration) int { return a.version - b.version })

	var pending []migration
	for _, m := range all {
		if m.version > current {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// parseVersion reads the number prefix of "002_swipe_outcomes.sql"
func parseVersion(name string) (int, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("invalid migration filename: %s", name)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("invalid migration version in %s", name)
	}
	return version, nil
}
