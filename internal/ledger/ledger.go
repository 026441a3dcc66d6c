// Package ledger records per-week, per-tactic daily completion.
package ledger

import (
	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/storage"
)

// Ledger maintains the 7-slot completion vectors. It owns no state; all rows
// live in the store, keyed uniquely by (cycle, week, tactic).
type Ledger struct {
	store storage.Provider
}

func New(store storage.Provider) *Ledger {
	return &Ledger{store: store}
}

// SetDay sets one day slot for a tactic's week, creating the all-false row on
// first touch. Repeated calls with the same value are idempotent. A day value
// outside the week enumeration is tolerated as a silent no-op so malformed
// external input can't corrupt the ledger.
func (l *Ledger) SetDay(cycleID int64, week int, tacticID int64, day models.DayKey, done bool) error {
	if models.DayIndex(day) < 0 {
		return nil
	}
	return l.store.UpsertDayCompletion(cycleID, week, tacticID, day, done)
}

// Week returns the scorecard for a cycle week: every tactic under the cycle's
// goals exactly once, joined with its completion vector (zero vector when the
// tactic has no ledger row), ordered by (goal sort order, tactic sort order).
func (l *Ledger) Week(cycleID int64, week int) ([]models.TacticWithScore, error) {
	return l.store.GetWeekScorecard(cycleID, week)
}
