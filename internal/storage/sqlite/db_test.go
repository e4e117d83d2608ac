package sqlite

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_CreatesPrivateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data", "nested")
	db, err := Open(context.Background(), filepath.Join(dir, "ledger.db"), testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat ledger dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("dir perm = %o, want 700", perm)
	}

	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("journal_mode = %q; want wal", journalMode)
	}
	if db.Path() != filepath.Join(dir, "ledger.db") {
		t.Errorf("Path() = %q", db.Path())
	}
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if db, err := Open(ctx, filepath.Join(t.TempDir(), "ledger.db"), testLogger()); err == nil {
		db.Close()
		t.Fatal("Open() with cancelled context succeeded")
	}
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath, testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	version, err := db.Version(ctx)
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if version != 2 {
		t.Errorf("Version() = %d; want 2", version)
	}

	for _, table := range []string{"swipe_attempts", "swipe_outcomes"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}

	var names []string
	rows, err := db.Query("SELECT name FROM ledger_schema ORDER BY version")
	if err != nil {
		t.Fatalf("query ledger_schema: %v", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			t.Fatal(err)
		}
		names = append(names, n)
	}
	if len(names) != 2 || names[0] != "001_swipe_attempts.sql" || names[1] != "002_swipe_outcomes.sql" {
		t.Errorf("applied = %v", names)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	for i := range 2 {
		db, err := Open(ctx, path, testLogger())
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		if err := db.Migrate(ctx); err != nil {
			t.Fatalf("Migrate() #%d error = %v", i+1, err)
		}
		version, _ := db.Version(ctx)
		db.Close()
		if version != 2 {
			t.Errorf("Version() #%d = %d; want 2", i+1, version)
		}
	}
}

func TestPendingMigrations(t *testing.T) {
	tests := []struct {
		current int
		want    []string
	}{
		{0, []string{"001_swipe_attempts.sql", "002_swipe_outcomes.sql"}},
		{1, []string{"002_swipe_outcomes.sql"}},
		{2, nil},
	}
	for _, tt := range tests {
		got, err := pendingMigrations(tt.current)
		if err != nil {
			t.Fatalf("pendingMigrations(%d) error = %v", tt.current, err)
		}
		var names []string
		for _, m := range got {
			names = append(names, m.name)
		}
		if len(names) != len(tt.want) {
			t.Errorf("pendingMigrations(%d) = %v, want %v", tt.current, names, tt.want)
			continue
		}
		for i := range names {
			if names[i] != tt.want[i] {
				t.Errorf("pendingMigrations(%d) = %v, want %v", tt.current, names, tt.want)
			}
		}
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"001_swipe_attempts.sql", 1, false},
		{"002_swipe_outcomes.sql", 2, false},
		{"010_something.sql", 10, false},
		{"notaversion.sql", 0, true},
		{"abc_name.sql", 0, true},
		{"000_zero.sql", 0, true},
	}
	for _, tt := range tests {
		got, err := parseVersion(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseVersion(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseVersion(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

// openTestDB opens and migrates an in-memory ledger
func openTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, MemoryPath, testLogger())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
