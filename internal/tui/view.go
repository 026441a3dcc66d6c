package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/twy/internal/models"
	"github.com/julianstephens/twy/internal/scoring"
)

const tacticColWidth = 32

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s — week %d", m.cycle.Title, m.week)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("No tactics yet. Add goals and tactics with 'twy goal add' and 'twy tactic add'."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		b.String(),
		"",
		m.help.View(m.keys),
	)
}

func (m Model) viewGrid() string {
	var b strings.Builder

	// Day header aligned with the grid columns
	header := strings.Repeat(" ", tacticColWidth+2)
	for _, day := range models.DayKeys {
		header += fmt.Sprintf(" %s ", models.DayLabels[day][:1])
	}
	b.WriteString(mutedStyle.Render(header))
	b.WriteString("\n")

	var lastGoal int64 = -1
	for i, row := range m.rows {
		if row.GoalID != lastGoal {
			b.WriteString(goalStyle.Render(row.GoalTitle))
			b.WriteString("\n")
			lastGoal = row.GoalID
		}

		title := row.TacticTitle
		if len(title) > tacticColWidth {
			title = title[:tacticColWidth-1] + "…"
		}
		b.WriteString(fmt.Sprintf("  %-*s", tacticColWidth, title))

		for d, done := range row.Days {
			cell := "·"
			if done {
				cell = "✓"
			}
			switch {
			case i == m.cursorRow && d == m.cursorDay:
				b.WriteString(cursorStyle.Render(fmt.Sprintf(" %s ", cell)))
			case done:
				b.WriteString(doneStyle.Render(fmt.Sprintf(" %s ", cell)))
			default:
				b.WriteString(mutedStyle.Render(fmt.Sprintf(" %s ", cell)))
			}
		}

		done := row.DaysDone()
		status := fmt.Sprintf("  %d/%d", done, row.WeeklyTarget)
		if done >= row.WeeklyTarget {
			b.WriteString(doneStyle.Render(status))
		} else {
			b.WriteString(mutedStyle.Render(status))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewFooter() string {
	score := renderScore(m.summary.Score)
	return fmt.Sprintf("Week score: %s  (%d/%d tactics at target)",
		score, m.summary.CompletedTactics, m.summary.TotalTactics)
}

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
