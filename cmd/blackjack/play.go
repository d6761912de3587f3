package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd seats a human player at an interactive table
type PlayCmd struct {
	Seed    int64  `help:"Shuffle seed (0 for random)"`
	Balance int64  `help:"Opening balance, overrides the config file"`
	NoColor bool   `env:"NO_COLOR" help:"Disable colours"`
	LogFile string `type:"path" help:"Write logs to this file"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.Balance > 0 {
		cfg.Bank.Player = c.Balance
	}

	// The table owns the terminal, so logs only go to a file
	var out io.Writer = io.Discard
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger, err := shared.SetupLogger(cfg.LogLevel, out)
	if err != nil {
		return err
	}

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	opts, err := cfg.GameOptions()
	if err != nil {
		return err
	}

	seed := randutil.Seed(c.Seed)
	rng := randutil.New(seed)
	shoe := deck.NewShoe(cfg.Table.Packs)
	shoe.Shuffle(rng)

	player := game.NewPlayer(cfg.PlayerBank()).WithSplitLimit(cfg.SplitLimit())
	table := game.NewTable(shoe, game.NewDealer(cfg.DealerBank()), player)
	logger.Info("Opening table",
		"seed", seed,
		"packs", cfg.Table.Packs,
		"balance", player.Balance())

	model := tui.New(game.NewRound(table, opts...), rng, logger)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running table: %w", err)
	}

	fmt.Printf("Left the table with %d chips (seed %d)\n", model.State().Table().Player().Balance(), seed)
	return nil
}
