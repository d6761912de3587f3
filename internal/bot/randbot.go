package bot

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger.WithPrefix("random")}
}

// Insurance buys a random amount between nothing and the maximum
func (r *RandBot) Insurance(s *game.InsuranceState) game.Chip {
	return game.Chip(r.rng.Uint64N(uint64(s.MaxInsurance()) + 1))
}

func (r *RandBot) Decide(s *game.PlayerTurnState) game.Action {
	actions := s.Actions()
	if len(actions) == 0 {
		return game.Stand
	}
	action := actions[r.rng.IntN(len(actions))]
	r.logger.Debug("decision", "hand", s.HandIndex(), "choices", len(actions), "action", action)
	return action
}
