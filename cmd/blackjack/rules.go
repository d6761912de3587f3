package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/tui"
)

// RulesCmd prints the rules a table would be played under
type RulesCmd struct{}

func (c *RulesCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}
	writeRules(os.Stdout, cfg, rules)
	return nil
}

func writeRules(w io.Writer, cfg *config.Config, rules game.Rules) {
	fmt.Fprintln(w, tui.HeaderStyle.Render("Table rules"))
	fmt.Fprintf(w, "Packs in the shoe: %d\n", cfg.Table.Packs)
	fmt.Fprintf(w, "Blackjack pays: %s\n", rules.BlackjackPayout)
	fmt.Fprintf(w, "Insurance pays: %s\n", rules.InsurancePayout)
	if rules.DealerHitsSoft17 {
		fmt.Fprintln(w, "Dealer hits soft 17")
	} else {
		fmt.Fprintln(w, "Dealer stands on soft 17")
	}
	fmt.Fprintf(w, "Double after split: %s\n", yesNo(rules.DoubleAfterSplit))
	fmt.Fprintf(w, "Splits per round: %d\n", cfg.SplitLimit())
	if rules.MaxBet > 0 {
		fmt.Fprintf(w, "Bets: %d to %d\n", rules.MinBet, rules.MaxBet)
	} else {
		fmt.Fprintf(w, "Bets: %d or more\n", rules.MinBet)
	}
	fmt.Fprintf(w, "Cut card: %d cards from the end\n", rules.ReshuffleAt)
	fmt.Fprintf(w, "Player bank: %d\n", cfg.PlayerBank())
	fmt.Fprintf(w, "House bank: %d\n", cfg.DealerBank())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
