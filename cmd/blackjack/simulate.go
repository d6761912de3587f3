package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
	"github.com/lox/blackjack/internal/tui"
)

// SimulateCmd plays many rounds with a strategy bot and reports the results
type SimulateCmd struct {
	Rounds    int           `short:"n" help:"Rounds per session, overrides the config file"`
	Sessions  int           `help:"Concurrent sessions, overrides the config file"`
	Strategy  string        `short:"s" help:"Strategy to play: ${strategies}"`
	Bet       int64         `help:"Flat bet per round, overrides the config file"`
	Seed      int64         `help:"RNG seed (0 for random)"`
	Timeout   time.Duration `default:"10m" help:"Stop the run after this long"`
	Progress  time.Duration `default:"5s" help:"Progress log interval, 0 to disable"`
	StatsFile string        `type:"path" help:"Also write a JSON report to this file"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	sim := cfg.Simulation
	if c.Rounds > 0 {
		sim.Rounds = c.Rounds
	}
	if c.Sessions > 0 {
		sim.Sessions = c.Sessions
	}
	if c.Strategy != "" {
		sim.Strategy = c.Strategy
	}
	if c.Bet > 0 {
		sim.Bet = c.Bet
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := shared.SetupLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	logger.Info("Starting simulation",
		"strategy", sim.Strategy,
		"rounds", sim.Rounds,
		"sessions", sim.Sessions,
		"bet", sim.Bet,
		"seed", seed)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	res, err := simulator.New(simulator.Config{
		Rounds:           sim.Rounds,
		Sessions:         sim.Sessions,
		Strategy:         sim.Strategy,
		Bet:              game.Chip(sim.Bet),
		Seed:             seed,
		Packs:            cfg.Table.Packs,
		PlayerBank:       cfg.PlayerBank(),
		DealerBank:       cfg.DealerBank(),
		SplitLimit:       cfg.Table.SplitLimit,
		Options:          opts,
		Timeout:          c.Timeout,
		ProgressInterval: c.Progress,
		Logger:           logger.WithPrefix("sim"),
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Println(tui.HeaderStyle.Render(fmt.Sprintf("%s strategy, seed %d", sim.Strategy, seed)))
	simulator.WriteSummary(os.Stdout, res, sim.Strategy)

	if c.StatsFile != "" {
		err := fileutil.WriteAtomic(c.StatsFile, 0o644, func(w io.Writer) error {
			return simulator.WriteJSON(w, res, sim.Strategy)
		})
		if err != nil {
			return fmt.Errorf("failed to write stats file: %w", err)
		}
		logger.Info("Stats written to file", "file", c.StatsFile)
	}
	return nil
}
