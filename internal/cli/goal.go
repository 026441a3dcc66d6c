package cli

import (
	"fmt"
)

type GoalAddCmd struct {
	Title       string `arg:"" help:"Goal title."`
	Description string `short:"d" help:"Goal description."`
	Cycle       int64  `help:"Cycle id (defaults to the active cycle)."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}

	id, err := ctx.Store.CreateGoal(cycle.ID, c.Title, c.Description)
	if err != nil {
		return err
	}
	fmt.Printf("Added goal #%d %q to cycle %q.\n", id, c.Title, cycle.Title)
	return nil
}

type GoalListCmd struct {
	Cycle int64 `help:"Cycle id (defaults to the active cycle)."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}

	goals, err := ctx.Store.GetGoalsByCycle(cycle.ID)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Printf("No goals in cycle %q. Add one with 'twy goal add'.\n", cycle.Title)
		return nil
	}

	fmt.Printf("Goals in cycle %q:\n", cycle.Title)
	for _, goal := range goals {
		fmt.Printf("  #%d %s\n", goal.ID, goal.Title)
		if goal.Description != "" {
			fmt.Printf("      %s\n", goal.Description)
		}
		tactics, err := ctx.Store.GetTacticsByGoal(goal.ID)
		if err != nil {
			return err
		}
		for _, tactic := range tactics {
			fmt.Printf("      - #%d %s (%dx/week)\n", tactic.ID, tactic.Title, tactic.WeeklyTarget)
		}
	}
	return nil
}

type GoalEditCmd struct {
	ID          int64  `arg:"" help:"Goal id to edit."`
	Title       string `help:"New title."`
	Description string `short:"d" help:"New description."`
}

func (c *GoalEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := ctx.Store.GetActiveCycle()
	if err != nil {
		return err
	}
	goals, err := ctx.Store.GetGoalsByCycle(cycle.ID)
	if err != nil {
		return err
	}

	for _, goal := range goals {
		if goal.ID != c.ID {
			continue
		}
		if c.Title != "" {
			goal.Title = c.Title
		}
		if c.Description != "" {
			goal.Description = c.Description
		}
		if err := ctx.Store.UpdateGoal(goal); err != nil {
			return err
		}
		fmt.Printf("Updated goal #%d.\n", c.ID)
		return nil
	}
	return fmt.Errorf("goal %d not found in the active cycle", c.ID)
}

type GoalDeleteCmd struct {
	ID int64 `arg:"" help:"Goal id to delete."`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.DeleteGoal(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted goal #%d, its tactics, and their completions.\n", c.ID)
	return nil
}
