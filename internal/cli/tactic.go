package cli

import (
	"fmt"
)

type TacticAddCmd struct {
	Goal   int64  `arg:"" help:"Goal id the tactic belongs to."`
	Title  string `arg:"" help:"Tactic title."`
	Target int    `short:"t" help:"Weekly target: days per week (1-7)." default:"7"`
}

func (c *TacticAddCmd) Validate() error {
	if c.Target < 1 || c.Target > 7 {
		return fmt.Errorf("weekly target must be between 1 and 7")
	}
	return nil
}

func (c *TacticAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	id, err := ctx.Store.CreateTactic(c.Goal, c.Title, c.Target)
	if err != nil {
		return err
	}
	fmt.Printf("Added tactic #%d %q (%dx/week) to goal #%d.\n", id, c.Title, c.Target, c.Goal)
	return nil
}

type TacticListCmd struct {
	Cycle int64 `help:"Cycle id (defaults to the active cycle)."`
}

func (c *TacticListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}

	tactics, err := ctx.Store.GetTacticsByCycle(cycle.ID)
	if err != nil {
		return err
	}
	if len(tactics) == 0 {
		fmt.Printf("No tactics in cycle %q yet.\n", cycle.Title)
		return nil
	}

	fmt.Printf("Tactics in cycle %q:\n", cycle.Title)
	for _, tactic := range tactics {
		fmt.Printf("  #%d %s (%dx/week)\n", tactic.ID, tactic.Title, tactic.WeeklyTarget)
	}
	return nil
}

type TacticEditCmd struct {
	ID     int64  `arg:"" help:"Tactic id to edit."`
	Title  string `help:"New title."`
	Target int    `short:"t" help:"New weekly target (1-7)."`
}

func (c *TacticEditCmd) Validate() error {
	if c.Target != 0 && (c.Target < 1 || c.Target > 7) {
		return fmt.Errorf("weekly target must be between 1 and 7")
	}
	return nil
}

func (c *TacticEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	tactic, err := ctx.Store.GetTactic(c.ID)
	if err != nil {
		return err
	}

	if c.Title != "" {
		tactic.Title = c.Title
	}
	if c.Target != 0 {
		tactic.WeeklyTarget = c.Target
	}

	if err := ctx.Store.UpdateTactic(tactic); err != nil {
		return err
	}
	fmt.Printf("Updated tactic #%d.\n", c.ID)
	return nil
}

type TacticDeleteCmd struct {
	ID int64 `arg:"" help:"Tactic id to delete."`
}

func (c *TacticDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.DeleteTactic(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted tactic #%d and its completions.\n", c.ID)
	return nil
}
