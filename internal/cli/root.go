package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/ledger"
	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/scoring"
	"github.com/julianstephens/twy/internal/storage"
)

type Context struct {
	Store  storage.Provider
	Ledger *ledger.Ledger
	Engine *scoring.Engine
}

var (
	onTrackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderScore renders a 0-100 score colored by its band.
func renderScore(score int) string {
	text := fmt.Sprintf("%d%%", score)
	switch scoring.BandFor(score) {
	case scoring.BandOnTrack:
		return onTrackStyle.Render(text)
	case scoring.BandNeedsImprovement:
		return warningStyle.Render(text)
	default:
		return criticalStyle.Render(text)
	}
}

// resolveCycle picks the cycle a command operates on: an explicit --cycle id,
// or the active cycle.
func resolveCycle(ctx *Context, cycleID int64) (models.Cycle, error) {
	if cycleID > 0 {
		return ctx.Store.GetCycle(cycleID)
	}
	cycle, err := ctx.Store.GetActiveCycle()
	if err != nil {
		return models.Cycle{}, fmt.Errorf("no active cycle; create one with 'twy cycle new' or pass --cycle")
	}
	return cycle, nil
}

// resolveWeek picks the week a command operates on: an explicit --week, or
// the cycle's current week clamped into 1-12 so a finished or not-yet-started
// cycle still lands on a usable scorecard week.
func resolveWeek(cycle models.Cycle, week int) (int, error) {
	if week != 0 {
		if week < 1 || week > clock.WeeksPerCycle {
			return 0, fmt.Errorf("week must be between 1 and %d", clock.WeeksPerCycle)
		}
		return week, nil
	}

	current, err := clock.CurrentWeek(cycle.StartDate, time.Now())
	if err != nil {
		return 0, err
	}
	if current < 1 {
		return 1, nil
	}
	if current > clock.WeeksPerCycle {
		return clock.WeeksPerCycle, nil
	}
	return current, nil
}

func formatVector(days [7]bool) string {
	out := ""
	for i, done := range days {
		if i > 0 {
			out += " "
		}
		if done {
			out += "✓"
		} else {
			out += "·"
		}
	}
	return out
}
