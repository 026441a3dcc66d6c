package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/twy/internal/backup"
)

type ExportCmd struct {
	Path string `arg:"" optional:"" help:"Destination file (defaults to a timestamped snapshot in the backup directory)."`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if !strings.HasSuffix(ctx.Store.GetConfigPath(), ".db") {
		return fmt.Errorf("export requires the SQLite backend")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.Export(c.Path)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Printf("✓ Exported snapshot: %s\n", path)
	return nil
}

type ImportCmd struct {
	Path  string `arg:"" help:"Snapshot file to import."`
	Force bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	dbPath := ctx.Store.GetConfigPath()
	if !strings.HasSuffix(dbPath, ".db") {
		return fmt.Errorf("import requires the SQLite backend")
	}

	if _, err := os.Stat(c.Path); os.IsNotExist(err) {
		return fmt.Errorf("snapshot file not found: %s", c.Path)
	}

	if !c.Force {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Replace your current database with this snapshot?").
				Description(fmt.Sprintf("Import from: %s", filepath.Base(c.Path))).
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	mgr := backup.NewManager(dbPath)

	// Keep a snapshot of the current state before replacing it, when one exists
	if _, err := os.Stat(dbPath); err == nil {
		if _, err := mgr.Export(""); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to back up current database: %v\n", err)
		}
	}

	if err := mgr.Import(c.Path); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("✓ Snapshot imported successfully.")
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		fmt.Printf("Backups are stored in: %s\n", mgr.BackupDir())
		return nil
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), backup.MaxBackups)
	for _, b := range backups {
		fmt.Printf("  %s  %s  (%.1f KB)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024.0)
	}
	fmt.Printf("\nBackup directory: %s\n", mgr.BackupDir())
	return nil
}
