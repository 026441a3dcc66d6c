package ledger

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/storage"
)

func setupLedger(t *testing.T) (*Ledger, int64, int64) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "test.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cycleID, err := store.CreateCycle("Cycle", "2026-01-05", "")
	if err != nil {
		t.Fatalf("failed to create cycle: %v", err)
	}
	goalID, err := store.CreateGoal(cycleID, "Goal", "")
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	tacticID, err := store.CreateTactic(goalID, "Tactic", 4)
	if err != nil {
		t.Fatalf("failed to create tactic: %v", err)
	}

	return New(store), cycleID, tacticID
}

func TestSetDay_RoundTrip(t *testing.T) {
	ldg, cycleID, tacticID := setupLedger(t)

	if err := ldg.SetDay(cycleID, 1, tacticID, models.DayTue, true); err != nil {
		t.Fatalf("SetDay failed: %v", err)
	}

	rows, err := ldg.Week(cycleID, 1)
	if err != nil {
		t.Fatalf("Week failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if !rows[0].Days[models.DayIndex(models.DayTue)] {
		t.Error("Tuesday completion not recorded")
	}
	if rows[0].DaysDone() != 1 {
		t.Errorf("DaysDone = %d, want 1", rows[0].DaysDone())
	}
}

func TestSetDay_Idempotent(t *testing.T) {
	ldg, cycleID, tacticID := setupLedger(t)

	for i := 0; i < 3; i++ {
		if err := ldg.SetDay(cycleID, 2, tacticID, models.DaySat, true); err != nil {
			t.Fatalf("SetDay failed: %v", err)
		}
	}

	rows, _ := ldg.Week(cycleID, 2)
	if rows[0].DaysDone() != 1 {
		t.Errorf("DaysDone = %d after repeated marks, want 1", rows[0].DaysDone())
	}
}

func TestSetDay_UnmarkClearsSlot(t *testing.T) {
	ldg, cycleID, tacticID := setupLedger(t)

	ldg.SetDay(cycleID, 1, tacticID, models.DayMon, true)
	ldg.SetDay(cycleID, 1, tacticID, models.DayMon, false)

	rows, _ := ldg.Week(cycleID, 1)
	if rows[0].DaysDone() != 0 {
		t.Errorf("DaysDone = %d after unmark, want 0", rows[0].DaysDone())
	}
}

func TestSetDay_InvalidDayIsSilentNoOp(t *testing.T) {
	ldg, cycleID, tacticID := setupLedger(t)

	if err := ldg.SetDay(cycleID, 1, tacticID, "someday", true); err != nil {
		t.Fatalf("invalid day should be tolerated, got %v", err)
	}

	rows, _ := ldg.Week(cycleID, 1)
	if rows[0].DaysDone() != 0 {
		t.Errorf("invalid day must not touch the vector, DaysDone = %d", rows[0].DaysDone())
	}
}

func TestWeek_IsolatesWeeks(t *testing.T) {
	ldg, cycleID, tacticID := setupLedger(t)

	ldg.SetDay(cycleID, 1, tacticID, models.DayMon, true)
	ldg.SetDay(cycleID, 5, tacticID, models.DayFri, true)

	week1, _ := ldg.Week(cycleID, 1)
	week5, _ := ldg.Week(cycleID, 5)
	week9, _ := ldg.Week(cycleID, 9)

	if week1[0].DaysDone() != 1 || !week1[0].Days[1] {
		t.Errorf("week 1 vector wrong: %v", week1[0].Days)
	}
	if week5[0].DaysDone() != 1 || !week5[0].Days[5] {
		t.Errorf("week 5 vector wrong: %v", week5[0].Days)
	}
	if week9[0].DaysDone() != 0 {
		t.Errorf("week 9 should be untouched, got %v", week9[0].Days)
	}
}
