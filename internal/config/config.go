// Package config loads table rules, banks and simulation settings from an
// HCL file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// DefaultFile is the config file looked for when none is given
const DefaultFile = "blackjack.hcl"

// minReshuffleAt is the fewest cards the cut card may leave: enough for a
// long round with every split taken.
func minReshuffleAt(splitLimit int) int {
	return 2*splitLimit + 10
}

// Config represents the complete configuration
type Config struct {
	LogLevel   string              `hcl:"log_level,optional"`
	Table      *TableSettings      `hcl:"table,block"`
	Bank       *BankSettings       `hcl:"bank,block"`
	Simulation *SimulationSettings `hcl:"simulation,block"`
}

// TableSettings contains the table rules
type TableSettings struct {
	Packs            int    `hcl:"packs,optional"`
	SplitLimit       *int   `hcl:"split_limit,optional"`
	ReshuffleAt      *int   `hcl:"reshuffle_at,optional"`
	MinBet           int64  `hcl:"min_bet,optional"`
	MaxBet           int64  `hcl:"max_bet,optional"`
	DealerHitsSoft17 bool   `hcl:"dealer_hits_soft_17,optional"`
	DoubleAfterSplit *bool  `hcl:"double_after_split,optional"`
	BlackjackPayout  string `hcl:"blackjack_payout,optional"`
	InsurancePayout  string `hcl:"insurance_payout,optional"`
}

// BankSettings contains the opening balances
type BankSettings struct {
	Player int64 `hcl:"player,optional"`
	Dealer int64 `hcl:"dealer,optional"`
}

// SimulationSettings contains defaults for the simulate command
type SimulationSettings struct {
	Rounds   int    `hcl:"rounds,optional"`
	Sessions int    `hcl:"sessions,optional"`
	Strategy string `hcl:"strategy,optional"`
	Bet      int64  `hcl:"bet,optional"`
}

// Default returns the default configuration
func Default() *Config {
	splitLimit := game.DefaultSplitLimit
	reshuffleAt := deck.PackSize
	das := true
	return &Config{
		LogLevel: "info",
		Table: &TableSettings{
			Packs:            6,
			SplitLimit:       &splitLimit,
			ReshuffleAt:      &reshuffleAt,
			MinBet:           1,
			DoubleAfterSplit: &das,
			BlackjackPayout:  game.BlackjackPays.String(),
			InsurancePayout:  game.InsurancePays.String(),
		},
		Bank: &BankSettings{
			Player: 1000,
			Dealer: 1_000_000,
		},
		Simulation: &SimulationSettings{
			Rounds:   10_000,
			Sessions: 4,
			Strategy: "basic",
			Bet:      10,
		},
	}
}

// Load loads configuration from an HCL file. A missing file gives the
// default configuration.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills in missing blocks and values
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	if c.Table == nil {
		c.Table = defaults.Table
	}
	if c.Table.Packs == 0 {
		c.Table.Packs = defaults.Table.Packs
	}
	if c.Table.SplitLimit == nil {
		c.Table.SplitLimit = defaults.Table.SplitLimit
	}
	if c.Table.ReshuffleAt == nil {
		c.Table.ReshuffleAt = defaults.Table.ReshuffleAt
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = defaults.Table.MinBet
	}
	if c.Table.DoubleAfterSplit == nil {
		c.Table.DoubleAfterSplit = defaults.Table.DoubleAfterSplit
	}
	if c.Table.BlackjackPayout == "" {
		c.Table.BlackjackPayout = defaults.Table.BlackjackPayout
	}
	if c.Table.InsurancePayout == "" {
		c.Table.InsurancePayout = defaults.Table.InsurancePayout
	}

	if c.Bank == nil {
		c.Bank = defaults.Bank
	}
	if c.Bank.Player == 0 {
		c.Bank.Player = defaults.Bank.Player
	}
	if c.Bank.Dealer == 0 {
		c.Bank.Dealer = defaults.Bank.Dealer
	}

	if c.Simulation == nil {
		c.Simulation = defaults.Simulation
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = defaults.Simulation.Rounds
	}
	if c.Simulation.Sessions == 0 {
		c.Simulation.Sessions = defaults.Simulation.Sessions
	}
	if c.Simulation.Strategy == "" {
		c.Simulation.Strategy = defaults.Simulation.Strategy
	}
	if c.Simulation.Bet == 0 {
		c.Simulation.Bet = defaults.Simulation.Bet
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	t := c.Table
	if t.Packs < 1 || t.Packs > 8 {
		return fmt.Errorf("table: packs must be between 1 and 8, got %d", t.Packs)
	}
	if *t.SplitLimit < 0 {
		return fmt.Errorf("table: split_limit must not be negative")
	}
	if low, high := minReshuffleAt(*t.SplitLimit), t.Packs*deck.PackSize-1; *t.ReshuffleAt < low || *t.ReshuffleAt > high {
		return fmt.Errorf("table: reshuffle_at must be between %d and %d", low, high)
	}
	if t.MinBet < 1 {
		return fmt.Errorf("table: min_bet must be positive")
	}
	if t.MaxBet != 0 && t.MaxBet < t.MinBet {
		return fmt.Errorf("table: max_bet %d is below min_bet %d", t.MaxBet, t.MinBet)
	}
	if _, err := game.ParseRatio(t.BlackjackPayout); err != nil {
		return fmt.Errorf("table: blackjack_payout: %w", err)
	}
	if _, err := game.ParseRatio(t.InsurancePayout); err != nil {
		return fmt.Errorf("table: insurance_payout: %w", err)
	}

	if c.Bank.Player < 0 || c.Bank.Dealer < 0 {
		return fmt.Errorf("bank: balances must not be negative")
	}

	s := c.Simulation
	if s.Rounds < 1 {
		return fmt.Errorf("simulation: rounds must be positive")
	}
	if s.Sessions < 1 {
		return fmt.Errorf("simulation: sessions must be positive")
	}
	if !slices.Contains(bot.Names(), s.Strategy) {
		return fmt.Errorf("simulation: invalid strategy %s", s.Strategy)
	}
	if s.Bet < t.MinBet || (t.MaxBet != 0 && s.Bet > t.MaxBet) {
		return fmt.Errorf("simulation: bet %d is outside the table limits", s.Bet)
	}

	return nil
}

// Rules returns the table rules. The config must be valid.
func (c *Config) Rules() (game.Rules, error) {
	blackjack, err := game.ParseRatio(c.Table.BlackjackPayout)
	if err != nil {
		return game.Rules{}, err
	}
	insurance, err := game.ParseRatio(c.Table.InsurancePayout)
	if err != nil {
		return game.Rules{}, err
	}
	return game.Rules{
		BlackjackPayout:  blackjack,
		InsurancePayout:  insurance,
		DealerHitsSoft17: c.Table.DealerHitsSoft17,
		DoubleAfterSplit: *c.Table.DoubleAfterSplit,
		MinBet:           game.Chip(c.Table.MinBet),
		MaxBet:           game.Chip(c.Table.MaxBet),
		ReshuffleAt:      *c.Table.ReshuffleAt,
	}, nil
}

// GameOptions converts the table rules into round options
func (c *Config) GameOptions() ([]game.Option, error) {
	rules, err := c.Rules()
	if err != nil {
		return nil, err
	}
	return []game.Option{game.WithRules(rules)}, nil
}

// SplitLimit returns the number of splits allowed per round
func (c *Config) SplitLimit() int {
	return *c.Table.SplitLimit
}

// PlayerBank returns the player's opening balance
func (c *Config) PlayerBank() game.Chip {
	return game.Chip(c.Bank.Player)
}

// DealerBank returns the dealer's opening balance
func (c *Config) DealerBank() game.Chip {
	return game.Chip(c.Bank.Dealer)
}
