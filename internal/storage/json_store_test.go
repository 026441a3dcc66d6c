package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/twy/internal/models"
)

func setupTestJSONStore(t *testing.T) *JSONStore {
	path := filepath.Join(t.TempDir(), "test.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestJSONStore_PersistsAcrossReload(t *testing.T) {
	store := setupTestJSONStore(t)

	cycleID, err := store.CreateCycle("Persisted", "2026-01-05", "a vision")
	if err != nil {
		t.Fatalf("CreateCycle failed: %v", err)
	}
	goalID, _ := store.CreateGoal(cycleID, "Goal", "")
	tacticID, _ := store.CreateTactic(goalID, "Tactic", 3)
	store.UpsertDayCompletion(cycleID, 2, tacticID, models.DayWed, true)

	// A fresh store over the same file must see everything
	reopened := NewJSONStore(store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cycle, err := reopened.GetCycle(cycleID)
	if err != nil {
		t.Fatalf("GetCycle failed: %v", err)
	}
	if cycle.Vision != "a vision" {
		t.Errorf("Vision = %q, want %q", cycle.Vision, "a vision")
	}
	if cycle.EndDate != "2026-03-29" {
		t.Errorf("EndDate = %s, want 2026-03-29", cycle.EndDate)
	}

	scorecard, err := reopened.GetWeekScorecard(cycleID, 2)
	if err != nil {
		t.Fatalf("GetWeekScorecard failed: %v", err)
	}
	if len(scorecard) != 1 || !scorecard[0].Days[3] {
		t.Errorf("completion vector lost across reload: %+v", scorecard)
	}
}

func TestJSONStore_Load_MissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected an error for an uninitialized store")
	}
}

func TestJSONStore_ActiveCycleExclusive(t *testing.T) {
	store := setupTestJSONStore(t)

	first, _ := store.CreateCycle("First", "2026-01-05", "")
	second, _ := store.CreateCycle("Second", "2026-03-30", "")

	if err := store.SetActiveCycle(first); err != nil {
		t.Fatalf("SetActiveCycle failed: %v", err)
	}

	active, err := store.GetActiveCycle()
	if err != nil {
		t.Fatalf("GetActiveCycle failed: %v", err)
	}
	if active.ID != first {
		t.Errorf("active cycle = %d, want %d", active.ID, first)
	}

	other, _ := store.GetCycle(second)
	if other.Active {
		t.Error("only one cycle may be active at a time")
	}
}

func TestJSONStore_DeleteCycleCascades(t *testing.T) {
	store := setupTestJSONStore(t)

	cycleID, _ := store.CreateCycle("Doomed", "2026-01-05", "")
	goalID, _ := store.CreateGoal(cycleID, "Goal", "")
	tacticID, _ := store.CreateTactic(goalID, "Tactic", 2)
	store.UpsertDayCompletion(cycleID, 1, tacticID, models.DayMon, true)
	store.SaveWeeklyReview(cycleID, 1, "wins", "", "")

	if err := store.DeleteCycle(cycleID); err != nil {
		t.Fatalf("DeleteCycle failed: %v", err)
	}

	if _, err := store.GetCycle(cycleID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected cycle to be gone, got %v", err)
	}
	if goals, _ := store.GetGoalsByCycle(cycleID); len(goals) != 0 {
		t.Errorf("%d goals survived the cascade", len(goals))
	}
	if _, err := store.GetTactic(tacticID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected tactic to be gone, got %v", err)
	}
	if scores, _ := store.GetScoresForTactic(cycleID, tacticID); len(scores) != 0 {
		t.Errorf("%d ledger rows survived the cascade", len(scores))
	}
	if _, err := store.GetWeeklyReview(cycleID, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected review to be gone, got %v", err)
	}
}

func TestJSONStore_ScorecardOrdering(t *testing.T) {
	store := setupTestJSONStore(t)

	cycleID, _ := store.CreateCycle("Ordered", "2026-01-05", "")
	goalA, _ := store.CreateGoal(cycleID, "Goal A", "")
	goalB, _ := store.CreateGoal(cycleID, "Goal B", "")
	store.CreateTactic(goalA, "A1", 3)
	store.CreateTactic(goalB, "B1", 3)
	store.CreateTactic(goalA, "A2", 3)

	scorecard, err := store.GetWeekScorecard(cycleID, 1)
	if err != nil {
		t.Fatalf("GetWeekScorecard failed: %v", err)
	}

	var titles []string
	for _, row := range scorecard {
		titles = append(titles, row.TacticTitle)
	}
	want := []string{"A1", "A2", "B1"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestJSONStore_UpsertInvalidDay(t *testing.T) {
	store := setupTestJSONStore(t)

	cycleID, _ := store.CreateCycle("Cycle", "2026-01-05", "")
	goalID, _ := store.CreateGoal(cycleID, "Goal", "")
	tacticID, _ := store.CreateTactic(goalID, "Tactic", 3)

	if err := store.UpsertDayCompletion(cycleID, 1, tacticID, "blursday", true); err == nil {
		t.Error("expected an error for an invalid day key")
	}
}
