package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/twy/internal/logger"
	"github.com/julianstephens/twy/internal/models"
)

type MarkCmd struct {
	Tactic int64  `arg:"" help:"Tactic id."`
	Day    string `arg:"" optional:"" help:"Day of week (sun|mon|tue|wed|thu|fri|sat), defaults to today."`
	Week   int    `short:"w" help:"Week number 1-12 (defaults to the current week)."`
	Cycle  int64  `help:"Cycle id (defaults to the active cycle)."`
	Undo   bool   `short:"u" help:"Unmark the day instead."`
}

func (c *MarkCmd) Run(ctx *Context) error {
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

	dayStr := c.Day
	if dayStr == "" {
		dayStr = string(models.DayKeys[time.Now().Weekday()])
	}
	day, ok := models.ParseDayKey(dayStr)
	if !ok {
		return fmt.Errorf("invalid day %q (expected one of sun, mon, tue, wed, thu, fri, sat)", dayStr)
	}

	if _, err := ctx.Store.GetTactic(c.Tactic); err != nil {
		return err
	}

	done := !c.Undo
	if err := ctx.Ledger.SetDay(cycle.ID, week, c.Tactic, day, done); err != nil {
		return err
	}
	logger.Debug("marked day", "cycle", cycle.ID, "week", week, "tactic", c.Tactic, "day", day, "done", done)

	verb := "Marked"
	if c.Undo {
		verb = "Unmarked"
	}
	fmt.Printf("%s %s for tactic #%d in week %d.\n", verb, models.DayLabels[day], c.Tactic, week)

	score, err := ctx.Engine.WeekScore(cycle.ID, week)
	if err != nil {
		return err
	}
	fmt.Printf("Week %d score: %s (%d/%d tactics at target)\n",
		week, renderScore(score.Score), score.CompletedTactics, score.TotalTactics)
	return nil
}
