package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Up):
			if m.cursorRow > 0 {
				m.cursorRow--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursorRow < len(m.rows)-1 {
				m.cursorRow++
			}

		case key.Matches(msg, m.keys.Left):
			if m.cursorDay > 0 {
				m.cursorDay--
			}

		case key.Matches(msg, m.keys.Right):
			if m.cursorDay < len(models.DayKeys)-1 {
				m.cursorDay++
			}

		case key.Matches(msg, m.keys.PrevWeek):
			if m.week > 1 {
				m.week--
				m.refresh()
			}

		case key.Matches(msg, m.keys.NextWeek):
			if m.week < clock.WeeksPerCycle {
				m.week++
				m.refresh()
			}

		case key.Matches(msg, m.keys.Today):
			m.week = currentWeekClamped(m.cycle)
			m.refresh()

		case key.Matches(msg, m.keys.Toggle):
			m.toggleCell()
		}
	}

	return m, nil
}

func (m *Model) toggleCell() {
	if m.cursorRow < 0 || m.cursorRow >= len(m.rows) {
		return
	}
	row := m.rows[m.cursorRow]
	day := models.DayKeys[m.cursorDay]
	done := !row.Days[m.cursorDay]
	if err := m.ledger.SetDay(m.cycle.ID, m.week, row.TacticID, day, done); err != nil {
		m.err = err
		return
	}
	m.refresh()
}
