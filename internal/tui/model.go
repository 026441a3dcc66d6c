package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/ledger"
	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/scoring"
)

type Model struct {
	ledger *ledger.Ledger

	cycle   models.Cycle
	week    int
	rows    []models.TacticWithScore
	summary models.WeekScoreSummary

	cursorRow int
	cursorDay int

	keys     KeyMap
	help     help.Model
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(ldg *ledger.Ledger, cycle models.Cycle) Model {
	m := Model{
		ledger: ldg,
		cycle:  cycle,
		week:   currentWeekClamped(cycle),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads the scorecard for the selected week and keeps the cursor
// on a valid cell.
func (m *Model) refresh() {
	rows, err := m.ledger.Week(m.cycle.ID, m.week)
	if err != nil {
		m.err = err
		return
	}
	m.rows = rows
	m.summary = scoring.ScoreWeek(m.week, rows)
	m.err = nil

	if m.cursorRow >= len(m.rows) {
		m.cursorRow = len(m.rows) - 1
	}
	if m.cursorRow < 0 {
		m.cursorRow = 0
	}
}

func currentWeekClamped(cycle models.Cycle) int {
	week, err := clock.CurrentWeek(cycle.StartDate, time.Now())
	if err != nil || week < 1 {
		return 1
	}
	if week > clock.WeeksPerCycle {
		return clock.WeeksPerCycle
	}
	return week
}
