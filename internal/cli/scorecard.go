package cli

import (
	"fmt"
)

type ScorecardCmd struct {
	Week  int   `short:"w" help:"Week number 1-12 (defaults to the current week)."`
	Cycle int64 `help:"Cycle id (defaults to the active cycle)."`
}

func (c *ScorecardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}
	week, err := resolveWeek(cycle, c.Week)
	if err != nil {
		return err
	}

	scorecard, err := ctx.Ledger.Week(cycle.ID, week)
	if err != nil {
		return err
	}
	if len(scorecard) == 0 {
		fmt.Printf("No tactics in cycle %q yet. Add goals and tactics first.\n", cycle.Title)
		return nil
	}

	fmt.Printf("%s — week %d\n\n", cycle.Title, week)
	fmt.Printf("  %-36s %-13s %s\n", "", "S M T W T F S", "done/target")

	var lastGoal int64 = -1
	for _, row := range scorecard {
		if row.GoalID != lastGoal {
			fmt.Printf("  %s\n", row.GoalTitle)
			lastGoal = row.GoalID
		}
		done := row.DaysDone()
		status := fmt.Sprintf("%d/%d", done, row.WeeklyTarget)
		if done >= row.WeeklyTarget {
			status += " ✓"
		}
		fmt.Printf("    %-34s %s  %s\n", truncate(row.TacticTitle, 34), formatVector(row.Days), status)
	}

	score, err := ctx.Engine.WeekScore(cycle.ID, week)
	if err != nil {
		return err
	}
	fmt.Printf("\nWeek score: %s (%d/%d tactics at target)\n",
		renderScore(score.Score), score.CompletedTactics, score.TotalTactics)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
