package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/scoring"
)

type DashboardCmd struct {
	Cycle int64 `help:"Cycle id (defaults to the active cycle)."`
}

func (c *DashboardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}

	week, err := clock.CurrentWeek(cycle.StartDate, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s → %s)\n", cycle.Title, cycle.StartDate, cycle.EndDate)
	if cycle.Vision != "" {
		fmt.Printf("%s\n", mutedStyle.Render(cycle.Vision))
	}
	switch {
	case week == 0:
		fmt.Println("\nCycle has not started yet.")
	case week == clock.WeekComplete:
		fmt.Println("\nCycle complete.")
	default:
		fmt.Printf("\nWeek %d of %d\n", week, clock.WeeksPerCycle)
	}

	scores, err := ctx.Engine.AllWeekScores(cycle.ID)
	if err != nil {
		return err
	}

	fmt.Println("\nWeekly scores:")
	for _, w := range scores {
		marker := " "
		if w.WeekNumber == week {
			marker = ">"
		}
		if w.TotalTactics == 0 || w.Score == 0 {
			fmt.Printf("  %s week %2d  %s\n", marker, w.WeekNumber, mutedStyle.Render("—"))
			continue
		}
		fmt.Printf("  %s week %2d  %s  (%d/%d tactics at target)\n",
			marker, w.WeekNumber, renderScore(w.Score), w.CompletedTactics, w.TotalTactics)
	}

	overall := scoring.OverallScore(scores)
	if overall > 0 {
		fmt.Printf("\nOverall cycle score: %s — %s\n", renderScore(overall), scoring.BandFor(overall))
	} else {
		fmt.Println("\nOverall cycle score: no scored weeks yet")
	}

	progress, err := ctx.Engine.GoalProgress(cycle.ID, 0)
	if err != nil {
		return err
	}
	if len(progress) > 0 {
		fmt.Println("\nGoal progress (whole cycle):")
		for _, p := range progress {
			fmt.Printf("  %s  %s (%d/%d tactics complete)\n",
				renderScore(p.Score), p.GoalTitle, p.CompletedTactics, p.TotalTactics)
		}
	}

	return nil
}
