// Package backup exports and imports the database as snapshot files.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/julianstephens/twy/internal/storage"
	_ "modernc.org/sqlite"
)

const (
	// MaxBackups is the maximum number of rotated snapshots to keep
	MaxBackups = 14
	// BackupDirName is the name of the backup directory
	BackupDirName = "backups"
	// BackupFilePrefix is the prefix for snapshot files
	BackupFilePrefix = "twy-"
	// BackupFileSuffix is the suffix for snapshot files
	BackupFileSuffix = ".db"
)

// Info describes one snapshot file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager handles snapshot export and import for a SQLite database file.
type Manager struct {
	dbPath    string
	backupDir string
}

func NewManager(dbPath string) *Manager {
	return &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), BackupDirName),
	}
}

// BackupDir returns the rotation directory path.
func (m *Manager) BackupDir() string {
	return m.backupDir
}

// Export writes a consistent snapshot of the database to destPath. An empty
// destPath writes a timestamped file into the rotation directory and prunes
// old snapshots.
func (m *Manager) Export(destPath string) (string, error) {
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	rotate := destPath == ""
	if rotate {
		if err := os.MkdirAll(m.backupDir, 0700); err != nil {
			return "", fmt.Errorf("failed to create backup directory: %w", err)
		}
		destPath = m.nextSnapshotPath()
	}

	if err := m.snapshotTo(destPath); err != nil {
		return "", fmt.Errorf("failed to export database: %w", err)
	}

	if rotate {
		if err := m.rotate(); err != nil {
			// Rotation failure should not fail the export itself
			fmt.Fprintf(os.Stderr, "Warning: failed to rotate old backups: %v\n", err)
		}
	}

	return destPath, nil
}

// Import validates a snapshot file and, only if it contains every expected
// table, replaces the current database with it. On any validation failure the
// current database is left untouched.
func (m *Manager) Import(srcPath string) error {
	if _, err := os.Stat(srcPath); err != nil {
		return fmt.Errorf("cannot read snapshot: %w", err)
	}

	if err := validateSnapshot(srcPath); err != nil {
		return err
	}

	// Stage next to the target so the final rename is atomic. The uuid keeps
	// staged copies from ever colliding with a real snapshot or each other.
	tmpPath := filepath.Join(filepath.Dir(m.dbPath), fmt.Sprintf(".twy-import-%s.tmp", uuid.New().String()))
	if err := copyFile(srcPath, tmpPath); err != nil {
		return fmt.Errorf("failed to stage snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, m.dbPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace database: %w", err)
	}

	return nil
}

// List returns the rotated snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var infos []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, BackupFilePrefix) || !strings.HasSuffix(name, BackupFileSuffix) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Path:      filepath.Join(m.backupDir, name),
			Timestamp: fi.ModTime(),
			Size:      fi.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Timestamp.After(infos[j].Timestamp) })
	return infos, nil
}

func (m *Manager) nextSnapshotPath() string {
	timestamp := time.Now().Format("20060102-1504")
	path := filepath.Join(m.backupDir, BackupFilePrefix+timestamp+BackupFileSuffix)
	if _, err := os.Stat(path); err == nil {
		timestamp = time.Now().Format("20060102-150405")
		path = filepath.Join(m.backupDir, BackupFilePrefix+timestamp+BackupFileSuffix)
	}
	return path
}

// snapshotTo uses VACUUM INTO for a clean, consistent copy of the database.
func (m *Manager) snapshotTo(destPath string) error {
	srcDB, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer srcDB.Close()

	var count int
	if err := srcDB.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	// VACUUM INTO refuses to overwrite an existing file
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing snapshot: %w", err)
		}
	}

	if _, err := srcDB.Exec("VACUUM INTO ?", destPath); err != nil {
		return err
	}
	return nil
}

// validateSnapshot opens the candidate read-only and checks the schema
// contains every expected record kind.
func validateSnapshot(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	defer db.Close()

	if err := storage.ValidateSchema(db); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}
	return nil
}

func (m *Manager) rotate() error {
	infos, err := m.List()
	if err != nil {
		return err
	}
	for _, old := range infos[min(len(infos), MaxBackups):] {
		if err := os.Remove(old.Path); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
