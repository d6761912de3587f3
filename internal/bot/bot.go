// Package bot provides automated players for the simulator.
package bot

import (
	"fmt"
	"sort"
	"strings"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// Strategy decides how an automated player acts during a round. It is only
// asked about states where a decision is needed, and must return a legal
// action.
type Strategy interface {
	// Insurance returns the insurance to buy, at most s.MaxInsurance()
	Insurance(s *game.InsuranceState) game.Chip
	// Decide returns the action to take on the current hand
	Decide(s *game.PlayerTurnState) game.Action
}

// Factory builds a strategy from a seeded source and a logger
type Factory func(rng *rand.Rand, logger *log.Logger) Strategy

var strategies = map[string]Factory{
	"mimic": func(_ *rand.Rand, logger *log.Logger) Strategy { return NewMimicBot(logger) },
	"random": func(rng *rand.Rand, logger *log.Logger) Strategy {
		return NewRandBot(rng, logger)
	},
	"basic": func(_ *rand.Rand, logger *log.Logger) Strategy { return NewBasicBot(logger) },
}

// Names returns the registered strategy names, sorted
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates the named strategy
func New(name string, rng *rand.Rand, logger *log.Logger) (Strategy, error) {
	factory, ok := strategies[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(rng, logger), nil
}

// firstAllowed returns the first preferred action that is legal, falling
// back to standing.
func firstAllowed(s *game.PlayerTurnState, preferred ...game.Action) game.Action {
	for _, action := range preferred {
		if s.Can(action) {
			return action
		}
	}
	return game.Stand
}

// upCardValue counts an ace as 11
func upCardValue(s *game.PlayerTurnState) int {
	up := s.UpCard()
	if up.IsAce() {
		return 11
	}
	return up.Denomination()
}
