package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/twy/internal/storage"
)

func setupTestDB(t *testing.T) string {
	dbPath := filepath.Join(t.TempDir(), "twy.db")

	store := storage.NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	if _, err := store.CreateCycle("Backup Cycle", "2026-01-05", ""); err != nil {
		t.Fatalf("failed to create cycle: %v", err)
	}
	store.Close()

	return dbPath
}

func countCycles(t *testing.T, dbPath string) int {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM cycles").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return count
}

func TestExport_ToExplicitPath(t *testing.T) {
	dbPath := setupTestDB(t)
	destPath := filepath.Join(t.TempDir(), "snapshot.db")

	mgr := NewManager(dbPath)
	got, err := mgr.Export(destPath)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if got != destPath {
		t.Errorf("Export returned %s, want %s", got, destPath)
	}
	if countCycles(t, destPath) != 1 {
		t.Error("snapshot is missing the cycle row")
	}
}

func TestExport_DefaultPathRotates(t *testing.T) {
	dbPath := setupTestDB(t)

	mgr := NewManager(dbPath)
	path, err := mgr.Export("")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if !strings.HasPrefix(filepath.Base(path), BackupFilePrefix) {
		t.Errorf("snapshot name %s missing prefix %s", filepath.Base(path), BackupFilePrefix)
	}
	if filepath.Dir(path) != mgr.BackupDir() {
		t.Errorf("snapshot landed in %s, want %s", filepath.Dir(path), mgr.BackupDir())
	}

	infos, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("got %d snapshots, want 1", len(infos))
	}
}

func TestExport_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "nope.db"))
	if _, err := mgr.Export(""); err == nil {
		t.Error("expected an error for a missing database")
	}
}

func TestImport_RoundTrip(t *testing.T) {
	dbPath := setupTestDB(t)
	snapshot := filepath.Join(t.TempDir(), "snapshot.db")

	mgr := NewManager(dbPath)
	if _, err := mgr.Export(snapshot); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	// Grow the live database past the snapshot, then import to roll back
	store := storage.NewSQLiteStore(dbPath)
	if err := store.Load(); err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	if _, err := store.CreateCycle("Second Cycle", "2026-03-30", ""); err != nil {
		t.Fatalf("failed to create cycle: %v", err)
	}
	store.Close()

	if countCycles(t, dbPath) != 2 {
		t.Fatal("setup failed, expected 2 cycles before import")
	}

	if err := mgr.Import(snapshot); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if countCycles(t, dbPath) != 1 {
		t.Error("import did not restore the snapshot state")
	}
}

func TestImport_RejectsInvalidSnapshot(t *testing.T) {
	dbPath := setupTestDB(t)

	// A database without the expected tables must be rejected
	badPath := filepath.Join(t.TempDir(), "bad.db")
	db, err := sql.Open("sqlite", badPath)
	if err != nil {
		t.Fatalf("failed to create bad database: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE wrong (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	db.Close()

	mgr := NewManager(dbPath)
	if err := mgr.Import(badPath); err == nil {
		t.Fatal("expected an error for a snapshot missing expected tables")
	}

	// The live database must be untouched after the failed import
	if countCycles(t, dbPath) != 1 {
		t.Error("failed import modified the live database")
	}
}

func TestImport_RejectsGarbageFile(t *testing.T) {
	dbPath := setupTestDB(t)

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a sqlite file"), 0600); err != nil {
		t.Fatalf("failed to write garbage file: %v", err)
	}

	mgr := NewManager(dbPath)
	if err := mgr.Import(garbage); err == nil {
		t.Fatal("expected an error for a non-database file")
	}
	if countCycles(t, dbPath) != 1 {
		t.Error("failed import modified the live database")
	}
}

func TestImport_MissingSource(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if err := mgr.Import(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected an error for a missing snapshot file")
	}
}
