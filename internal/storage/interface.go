package storage

import (
	"errors"

	"github.com/julianstephens/twy/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Implementations wrap it so callers can check with errors.Is.
var ErrNotFound = errors.New("record not found")

// Provider is the storage contract consumed by the ledger, the scoring
// engine, and the CLI. Implementations are not safe for concurrent use;
// the application is a single logical writer. Every mutating call persists
// durably before returning, and multi-record mutations (cascade deletes,
// activation) apply atomically.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Cycles
	CreateCycle(title, startDate, vision string) (int64, error)
	GetCycles() ([]models.Cycle, error)
	GetActiveCycle() (models.Cycle, error)
	GetCycle(id int64) (models.Cycle, error)
	UpdateCycle(models.Cycle) error
	SetActiveCycle(id int64) error
	DeleteCycle(id int64) error

	// Goals
	CreateGoal(cycleID int64, title, description string) (int64, error)
	GetGoalsByCycle(cycleID int64) ([]models.Goal, error)
	UpdateGoal(models.Goal) error
	DeleteGoal(id int64) error

	// Tactics
	CreateTactic(goalID int64, title string, weeklyTarget int) (int64, error)
	GetTactic(id int64) (models.Tactic, error)
	GetTacticsByGoal(goalID int64) ([]models.Tactic, error)
	GetTacticsByCycle(cycleID int64) ([]models.Tactic, error)
	UpdateTactic(models.Tactic) error
	DeleteTactic(id int64) error

	// Completion ledger
	UpsertDayCompletion(cycleID int64, week int, tacticID int64, day models.DayKey, done bool) error
	GetWeekScorecard(cycleID int64, week int) ([]models.TacticWithScore, error)
	GetScoresForTactic(cycleID, tacticID int64) ([]models.WeeklyScore, error)

	// Weekly reviews
	SaveWeeklyReview(cycleID int64, week int, wins, improvements, insights string) error
	GetWeeklyReview(cycleID int64, week int) (models.WeeklyReview, error)
	GetWeeklyReviews(cycleID int64) ([]models.WeeklyReview, error)

	// Utils
	GetConfigPath() string
}
