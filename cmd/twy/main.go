package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/twy/internal/cli"
	"github.com/julianstephens/twy/internal/config"
	"github.com/julianstephens/twy/internal/ledger"
	"github.com/julianstephens/twy/internal/logger"
	"github.com/julianstephens/twy/internal/scoring"
	"github.com/julianstephens/twy/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path"`
	Db      string `help:"Database file path (overrides the config file)." type:"path"`
	Debug   bool   `help:"Verbose logging to stderr."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize twy storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive scorecard." default:"1"`
	Dashboard cli.DashboardCmd `cmd:"" help:"Show the 12-week cycle dashboard."`
	Scorecard cli.ScorecardCmd `cmd:"" help:"Show a weekly scorecard."`
	Mark      cli.MarkCmd      `cmd:"" help:"Mark a tactic done (or not) for a day."`
	Review    cli.ReviewCmd    `cmd:"" help:"Write or read a weekly review."`
	Cycle     struct {
		New      cli.CycleNewCmd      `cmd:"" help:"Start a new 12-week cycle."`
		List     cli.CycleListCmd     `cmd:"" help:"List all cycles."`
		Activate cli.CycleActivateCmd `cmd:"" help:"Make a cycle the active one."`
		Edit     cli.CycleEditCmd     `cmd:"" help:"Edit a cycle."`
		Delete   cli.CycleDeleteCmd   `cmd:"" help:"Delete a cycle and everything under it."`
	} `cmd:"" help:"Manage cycles."`
	Goal struct {
		Add    cli.GoalAddCmd    `cmd:"" help:"Add a goal to the active cycle."`
		List   cli.GoalListCmd   `cmd:"" help:"List goals and their tactics."`
		Edit   cli.GoalEditCmd   `cmd:"" help:"Edit a goal."`
		Delete cli.GoalDeleteCmd `cmd:"" help:"Delete a goal and its tactics."`
	} `cmd:"" help:"Manage goals."`
	Tactic struct {
		Add    cli.TacticAddCmd    `cmd:"" help:"Add a tactic to a goal."`
		List   cli.TacticListCmd   `cmd:"" help:"List tactics."`
		Edit   cli.TacticEditCmd   `cmd:"" help:"Edit a tactic."`
		Delete cli.TacticDeleteCmd `cmd:"" help:"Delete a tactic and its history."`
	} `cmd:"" help:"Manage tactics."`
	Export cli.ExportCmd `cmd:"" help:"Export a database snapshot."`
	Import cli.ImportCmd `cmd:"" help:"Import a database snapshot."`
	Backup struct {
		List cli.BackupListCmd `cmd:"" help:"List available backups."`
	} `cmd:"" help:"Manage backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run diagnostics against the store."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("twy"),
		kong.Description("12 Week Year execution tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	debug := CLI.Debug
	if !debug && cfg.Log.Debug != nil {
		debug = *cfg.Log.Debug
	}
	if err := logger.Init(logger.Config{Debug: debug, ConfigDir: filepath.Dir(configPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dbPath := config.ResolveDBPath(CLI.Db, cfg)

	// Storage backend follows the file extension
	var store storage.Provider
	if strings.HasSuffix(dbPath, ".json") {
		store = storage.NewJSONStore(dbPath)
	} else {
		store = storage.NewSQLiteStore(dbPath)
	}

	appCtx := &cli.Context{
		Store:  store,
		Ledger: ledger.New(store),
		Engine: scoring.New(store),
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("command failed", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
