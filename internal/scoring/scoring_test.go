package scoring

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/storage"
)

func row(target int, days ...int) models.TacticWithScore {
	t := models.TacticWithScore{WeeklyTarget: target}
	for _, d := range days {
		t.Days[d] = true
	}
	return t
}

func TestScoreWeek_PartialCompletion(t *testing.T) {
	// 3 of 5 target days done: 3/5 = 60%
	summary := ScoreWeek(1, []models.TacticWithScore{row(5, 0, 1, 2)})

	if summary.Score != 60 {
		t.Errorf("Score = %d, want 60", summary.Score)
	}
	if summary.CompletedTactics != 0 {
		t.Errorf("CompletedTactics = %d, want 0", summary.CompletedTactics)
	}
	if summary.TotalTactics != 1 {
		t.Errorf("TotalTactics = %d, want 1", summary.TotalTactics)
	}
}

func TestScoreWeek_OvershootCapsAtTarget(t *testing.T) {
	// 4 days done against a target of 3 still scores 100, not 133
	summary := ScoreWeek(1, []models.TacticWithScore{row(3, 0, 1, 2, 3)})

	if summary.Score != 100 {
		t.Errorf("Score = %d, want 100", summary.Score)
	}
	if summary.CompletedTactics != 1 {
		t.Errorf("CompletedTactics = %d, want 1", summary.CompletedTactics)
	}
}

func TestScoreWeek_MultipleTactics(t *testing.T) {
	summary := ScoreWeek(2, []models.TacticWithScore{
		row(3, 0, 1, 2),       // at target
		row(5, 0, 1, 2, 3, 4), // at target
	})

	if summary.Score != 100 {
		t.Errorf("Score = %d, want 100", summary.Score)
	}
	if summary.CompletedTactics != 2 {
		t.Errorf("CompletedTactics = %d, want 2", summary.CompletedTactics)
	}
	if summary.TotalTactics != 2 {
		t.Errorf("TotalTactics = %d, want 2", summary.TotalTactics)
	}
}

func TestScoreWeek_MeanOfRatios(t *testing.T) {
	// (3/5 + 1/1) / 2 = 0.8 -> 80
	summary := ScoreWeek(1, []models.TacticWithScore{
		row(5, 0, 1, 2),
		row(1, 6),
	})
	if summary.Score != 80 {
		t.Errorf("Score = %d, want 80", summary.Score)
	}
}

func TestScoreWeek_EmptyScorecard(t *testing.T) {
	summary := ScoreWeek(4, nil)
	if summary.WeekNumber != 4 {
		t.Errorf("WeekNumber = %d, want 4", summary.WeekNumber)
	}
	if summary.Score != 0 || summary.TotalTactics != 0 || summary.CompletedTactics != 0 {
		t.Errorf("empty scorecard should be all zeros, got %+v", summary)
	}
}

func TestOverallScore_ExcludesEmptyAndZeroWeeks(t *testing.T) {
	scores := []models.WeekScoreSummary{
		{WeekNumber: 1, TotalTactics: 2, Score: 80},
		{WeekNumber: 2, TotalTactics: 2, Score: 90},
		{WeekNumber: 3, TotalTactics: 0, Score: 0}, // no tactics
		{WeekNumber: 4, TotalTactics: 2, Score: 0}, // nothing marked
	}

	// Only weeks 1 and 2 count: (80 + 90) / 2 = 85
	if got := OverallScore(scores); got != 85 {
		t.Errorf("OverallScore = %d, want 85", got)
	}
}

func TestOverallScore_NoScoredWeeks(t *testing.T) {
	scores := []models.WeekScoreSummary{
		{WeekNumber: 1, TotalTactics: 0, Score: 0},
		{WeekNumber: 2, TotalTactics: 3, Score: 0},
	}
	if got := OverallScore(scores); got != 0 {
		t.Errorf("OverallScore = %d, want 0", got)
	}
}

func TestOverallScore_Rounds(t *testing.T) {
	scores := []models.WeekScoreSummary{
		{WeekNumber: 1, TotalTactics: 1, Score: 80},
		{WeekNumber: 2, TotalTactics: 1, Score: 85},
	}
	// 82.5 rounds half away from zero to 83
	if got := OverallScore(scores); got != 83 {
		t.Errorf("OverallScore = %d, want 83", got)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		score int
		want  Band
	}{
		{100, BandOnTrack},
		{85, BandOnTrack},
		{84, BandNeedsImprovement},
		{65, BandNeedsImprovement},
		{64, BandCritical},
		{0, BandCritical},
	}
	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func setupEngine(t *testing.T) (*Engine, storage.Provider, int64) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "test.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cycleID, err := store.CreateCycle("Test Cycle", "2026-01-05", "")
	if err != nil {
		t.Fatalf("failed to create cycle: %v", err)
	}
	return New(store), store, cycleID
}

func TestEngine_WeekScore(t *testing.T) {
	engine, store, cycleID := setupEngine(t)

	goalID, err := store.CreateGoal(cycleID, "Health", "")
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	tacticID, err := store.CreateTactic(goalID, "Run", 3)
	if err != nil {
		t.Fatalf("failed to create tactic: %v", err)
	}

	for _, day := range []models.DayKey{models.DayMon, models.DayWed} {
		if err := store.UpsertDayCompletion(cycleID, 1, tacticID, day, true); err != nil {
			t.Fatalf("failed to mark day: %v", err)
		}
	}

	summary, err := engine.WeekScore(cycleID, 1)
	if err != nil {
		t.Fatalf("WeekScore failed: %v", err)
	}
	// 2/3 = 66.7 -> 67
	if summary.Score != 67 {
		t.Errorf("Score = %d, want 67", summary.Score)
	}
	if summary.CompletedTactics != 0 {
		t.Errorf("CompletedTactics = %d, want 0", summary.CompletedTactics)
	}
}

func TestEngine_AllWeekScores_AlwaysTwelve(t *testing.T) {
	engine, _, cycleID := setupEngine(t)

	scores, err := engine.AllWeekScores(cycleID)
	if err != nil {
		t.Fatalf("AllWeekScores failed: %v", err)
	}
	if len(scores) != 12 {
		t.Fatalf("got %d week scores, want 12", len(scores))
	}
	for i, s := range scores {
		if s.WeekNumber != i+1 {
			t.Errorf("scores[%d].WeekNumber = %d, want %d", i, s.WeekNumber, i+1)
		}
	}
}

func TestEngine_GoalProgress_SingleWeek(t *testing.T) {
	engine, store, cycleID := setupEngine(t)

	goalID, err := store.CreateGoal(cycleID, "Writing", "")
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	tacticID, err := store.CreateTactic(goalID, "Draft pages", 4)
	if err != nil {
		t.Fatalf("failed to create tactic: %v", err)
	}

	// 2 of 4 target days in week 3; a mark in week 1 must not leak in
	store.UpsertDayCompletion(cycleID, 1, tacticID, models.DayMon, true)
	store.UpsertDayCompletion(cycleID, 3, tacticID, models.DayTue, true)
	store.UpsertDayCompletion(cycleID, 3, tacticID, models.DayThu, true)

	progress, err := engine.GoalProgress(cycleID, 3)
	if err != nil {
		t.Fatalf("GoalProgress failed: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("got %d goals, want 1", len(progress))
	}
	if progress[0].Score != 50 {
		t.Errorf("Score = %d, want 50", progress[0].Score)
	}
	if progress[0].CompletedTactics != 0 {
		t.Errorf("CompletedTactics = %d, want 0", progress[0].CompletedTactics)
	}
}

func TestEngine_GoalProgress_WholeCycle(t *testing.T) {
	engine, store, cycleID := setupEngine(t)

	goalID, err := store.CreateGoal(cycleID, "Reading", "")
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	tacticID, err := store.CreateTactic(goalID, "Read nightly", 2)
	if err != nil {
		t.Fatalf("failed to create tactic: %v", err)
	}

	// 6 completions against a cycle-long target of 2*12 = 24 -> 25%
	for week := 1; week <= 3; week++ {
		store.UpsertDayCompletion(cycleID, week, tacticID, models.DayMon, true)
		store.UpsertDayCompletion(cycleID, week, tacticID, models.DayTue, true)
	}

	progress, err := engine.GoalProgress(cycleID, 0)
	if err != nil {
		t.Fatalf("GoalProgress failed: %v", err)
	}
	if progress[0].Score != 25 {
		t.Errorf("Score = %d, want 25", progress[0].Score)
	}
	if progress[0].TotalTactics != 1 {
		t.Errorf("TotalTactics = %d, want 1", progress[0].TotalTactics)
	}
}

func TestEngine_GoalProgress_GoalWithoutTactics(t *testing.T) {
	engine, store, cycleID := setupEngine(t)

	if _, err := store.CreateGoal(cycleID, "Empty goal", ""); err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}

	progress, err := engine.GoalProgress(cycleID, 0)
	if err != nil {
		t.Fatalf("GoalProgress failed: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("got %d goals, want 1", len(progress))
	}
	if progress[0].Score != 0 || progress[0].TotalTactics != 0 {
		t.Errorf("empty goal should report zeros, got %+v", progress[0])
	}
}
