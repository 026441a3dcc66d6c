package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/twy/internal/clock"
	"github.com/julianstephens/twy/internal/logger"
)

type CycleNewCmd struct {
	Title  string `arg:"" help:"Cycle title."`
	Start  string `short:"s" help:"Start date (YYYY-MM-DD), defaults to today."`
	Vision string `short:"v" help:"Vision statement for the cycle."`
}

func (c *CycleNewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	start := c.Start
	if start == "" {
		start = clock.Today()
	}
	if _, err := clock.ParseDate(start); err != nil {
		return err
	}

	vision := c.Vision
	if vision == "" {
		form := huh.NewForm(huh.NewGroup(
			huh.NewText().
				Title("Vision").
				Description("What will these 12 weeks make true?").
				Value(&vision),
		))
		if err := form.Run(); err != nil {
			return err
		}
	}

	id, err := ctx.Store.CreateCycle(c.Title, start, vision)
	if err != nil {
		return err
	}
	logger.Info("created cycle", "id", id, "start", start)

	end, _ := clock.EndDate(start)
	fmt.Printf("Created cycle #%d %q (%s → %s). It is now the active cycle.\n", id, c.Title, start, end)
	return nil
}

type CycleListCmd struct{}

func (c *CycleListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycles, err := ctx.Store.GetCycles()
	if err != nil {
		return err
	}
	if len(cycles) == 0 {
		fmt.Println("No cycles found. Create one with 'twy cycle new'.")
		return nil
	}

	fmt.Println("Cycles:")
	for _, cycle := range cycles {
		marker := " "
		if cycle.Active {
			marker = "*"
		}
		week, err := clock.CurrentWeek(cycle.StartDate, time.Now())
		if err != nil {
			return err
		}
		status := fmt.Sprintf("week %d/%d", week, clock.WeeksPerCycle)
		if week == 0 {
			status = "not started"
		} else if week == clock.WeekComplete {
			status = "complete"
		}
		fmt.Printf("  %s #%d %s (%s → %s, %s)\n",
			marker, cycle.ID, cycle.Title, cycle.StartDate, cycle.EndDate, status)
	}
	return nil
}

type CycleActivateCmd struct {
	ID int64 `arg:"" help:"Cycle id to activate."`
}

func (c *CycleActivateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}
	if err := ctx.Store.SetActiveCycle(c.ID); err != nil {
		return err
	}
	fmt.Printf("Cycle #%d is now active.\n", c.ID)
	return nil
}

type CycleEditCmd struct {
	ID     int64  `arg:"" help:"Cycle id to edit."`
	Title  string `help:"New title."`
	Vision string `help:"New vision statement."`
	Start  string `help:"New start date (YYYY-MM-DD); the end date moves with it."`
}

func (c *CycleEditCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := ctx.Store.GetCycle(c.ID)
	if err != nil {
		return err
	}

	if c.Title != "" {
		cycle.Title = c.Title
	}
	if c.Vision != "" {
		cycle.Vision = c.Vision
	}
	if c.Start != "" {
		end, err := clock.EndDate(c.Start)
		if err != nil {
			return err
		}
		cycle.StartDate = c.Start
		cycle.EndDate = end
	}

	if err := ctx.Store.UpdateCycle(cycle); err != nil {
		return err
	}
	fmt.Printf("Updated cycle #%d.\n", c.ID)
	return nil
}

type CycleDeleteCmd struct {
	ID    int64 `arg:"" help:"Cycle id to delete."`
	Force bool  `short:"f" help:"Skip the confirmation prompt."`
}

func (c *CycleDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := ctx.Store.GetCycle(c.ID)
	if err != nil {
		return err
	}

	if !c.Force {
		confirmed := false
		form := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete cycle %q?", cycle.Title)).
				Description("All of its goals, tactics, completions, and reviews will be removed.").
				Value(&confirmed),
		))
		if err := form.Run(); err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Store.DeleteCycle(c.ID); err != nil {
		return err
	}
	logger.Info("deleted cycle", "id", c.ID)
	fmt.Printf("Deleted cycle #%d and everything it owned.\n", c.ID)
	return nil
}
