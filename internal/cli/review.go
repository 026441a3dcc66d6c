package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/twy/internal/storage"
)

type ReviewCmd struct {
	Week  int   `short:"w" help:"Week number 1-12 (defaults to the current week)."`
	Cycle int64 `help:"Cycle id (defaults to the active cycle)."`
	Show  bool  `help:"Print the review instead of editing it."`
	List  bool  `help:"List all reviews for the cycle."`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cycle, err := resolveCycle(ctx, c.Cycle)
	if err != nil {
		return err
	}

	if c.List {
		reviews, err := ctx.Store.GetWeeklyReviews(cycle.ID)
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			fmt.Printf("No reviews recorded for cycle %q yet.\n", cycle.Title)
			return nil
		}
		for _, r := range reviews {
			fmt.Printf("Week %d:\n", r.WeekNumber)
			printReviewBody(r.Wins, r.Improvements, r.Insights)
		}
		return nil
	}

	week, err := resolveWeek(cycle, c.Week)
	if err != nil {
		return err
	}

	review, err := ctx.Store.GetWeeklyReview(cycle.ID, week)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if c.Show {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No review for week %d yet. Run 'twy review -w %d' to write one.\n", week, week)
			return nil
		}
		fmt.Printf("Week %d review:\n", week)
		printReviewBody(review.Wins, review.Improvements, review.Insights)
		return nil
	}

	// Pre-fill with the existing review so saving is an upsert
	wins := review.Wins
	improvements := review.Improvements
	insights := review.Insights

	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title(fmt.Sprintf("Week %d — wins", week)).
			Description("What went well this week?").
			Value(&wins),
		huh.NewText().
			Title("Improvements").
			Description("What should change next week?").
			Value(&improvements),
		huh.NewText().
			Title("Insights").
			Description("What did you learn?").
			Value(&insights),
	))
	if err := form.Run(); err != nil {
		return err
	}

	if err := ctx.Store.SaveWeeklyReview(cycle.ID, week, wins, improvements, insights); err != nil {
		return err
	}
	fmt.Printf("Saved review for week %d.\n", week)
	return nil
}

func printReviewBody(wins, improvements, insights string) {
	if wins != "" {
		fmt.Printf("  Wins: %s\n", wins)
	}
	if improvements != "" {
		fmt.Printf("  Improvements: %s\n", improvements)
	}
	if insights != "" {
		fmt.Printf("  Insights: %s\n", insights)
	}
	fmt.Println()
}
