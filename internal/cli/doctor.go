package cli

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/storage"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := false

	// Check 1: store reachable
	if err := ctx.Store.Load(); err != nil {
		fmt.Printf("❌ Store reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Store reachable: OK\n")
		dbReachable = true
	}

	db := sqliteDB(ctx)

	// Check 2: expected schema (SQLite backend only)
	if dbReachable && db != nil {
		if err := storage.ValidateSchema(db); err != nil {
			fmt.Printf("❌ Schema: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Schema: OK\n")
		}
	} else {
		fmt.Printf("⊘ Schema: SKIPPED\n")
	}

	// Check 3: referential integrity (no orphaned rows)
	if dbReachable && db != nil {
		if err := checkOrphans(db); err != nil {
			fmt.Printf("❌ Referential integrity: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Referential integrity: OK\n")
		}
	} else {
		fmt.Printf("⊘ Referential integrity: SKIPPED\n")
	}

	// Check 4: at most one active cycle
	if dbReachable {
		if err := checkActiveCycles(ctx); err != nil {
			fmt.Printf("❌ Active cycle: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Active cycle: OK\n")
		}
	} else {
		fmt.Printf("⊘ Active cycle: SKIPPED\n")
	}

	// Check 5: ledger week numbers in range
	if dbReachable && db != nil {
		if err := checkWeekBounds(db); err != nil {
			fmt.Printf("❌ Ledger week numbers: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Ledger week numbers: OK\n")
		}
	} else {
		fmt.Printf("⊘ Ledger week numbers: SKIPPED\n")
	}

	// Check 6: no other twy process holding the store (warning only)
	if err := checkConcurrentProcesses(); err != nil {
		fmt.Printf("⚠ Single writer: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single writer: OK\n")
	}

	// Check 7: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// sqliteDB returns the underlying database when the SQLite backend is in
// use, nil otherwise.
func sqliteDB(ctx *Context) *sql.DB {
	if s, ok := ctx.Store.(*storage.SQLiteStore); ok {
		return s.GetDB()
	}
	return nil
}

func checkOrphans(db *sql.DB) error {
	queries := map[string]string{
		"ledger rows without a tactic": "SELECT COUNT(*) FROM weekly_scores ws WHERE NOT EXISTS (SELECT 1 FROM tactics t WHERE t.id = ws.tactic_id)",
		"tactics without a goal":       "SELECT COUNT(*) FROM tactics t WHERE NOT EXISTS (SELECT 1 FROM goals g WHERE g.id = t.goal_id)",
		"goals without a cycle":        "SELECT COUNT(*) FROM goals g WHERE NOT EXISTS (SELECT 1 FROM cycles c WHERE c.id = g.cycle_id)",
		"reviews without a cycle":      "SELECT COUNT(*) FROM weekly_reviews r WHERE NOT EXISTS (SELECT 1 FROM cycles c WHERE c.id = r.cycle_id)",
	}
	for desc, q := range queries {
		var count int
		if err := db.QueryRow(q).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("found %d %s", count, desc)
		}
	}
	return nil
}

func checkActiveCycles(ctx *Context) error {
	cycles, err := ctx.Store.GetCycles()
	if err != nil {
		return err
	}
	active := 0
	for _, c := range cycles {
		if c.Active {
			active++
		}
	}
	if active > 1 {
		return fmt.Errorf("%d cycles are marked active; at most one is allowed", active)
	}
	return nil
}

func checkWeekBounds(db *sql.DB) error {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM weekly_scores WHERE week_number < 1 OR week_number > ?",
		clock.WeeksPerCycle,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("found %d ledger rows with a week number outside 1-%d", count, clock.WeeksPerCycle)
	}
	return nil
}

// checkConcurrentProcesses scans for another running twy process. The store
// is single-writer; two processes sharing it can corrupt data.
func checkConcurrentProcesses() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not enumerate processes: %w", err)
	}
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == "twy" {
			return fmt.Errorf("another twy process is running (pid %d); avoid concurrent writes to the same store", p.Pid())
		}
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong (%s)", now.Format(time.RFC3339))
	}
	// Local-day parsing must work for week arithmetic
	if _, err := clock.ParseDate(now.Format(clock.DateFormat)); err != nil {
		return err
	}
	return nil
}
