package cli

import (
	"fmt"

	"github.com/julianstephens/twy/internal/seed"
)

type InitCmd struct {
	Demo bool `help:"Seed the new database with demo data."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized twy storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Demo {
		if err := seed.Demo(ctx.Store); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		fmt.Println("Seeded demo cycle with goals, tactics, and 8 weeks of history.")
	}

	return nil
}
