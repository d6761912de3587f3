package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// MimicBot plays like the dealer: hit below 17, otherwise stand. It never
// buys insurance, doubles or splits.
type MimicBot struct {
	logger *log.Logger
}

// NewMimicBot creates a new MimicBot instance
func NewMimicBot(logger *log.Logger) *MimicBot {
	return &MimicBot{logger: logger.WithPrefix("mimic")}
}

func (m *MimicBot) Insurance(*game.InsuranceState) game.Chip {
	return 0
}

func (m *MimicBot) Decide(s *game.PlayerTurnState) game.Action {
	score, err := s.Hand().Score()
	if err != nil {
		m.logger.Warn("cannot score hand", "error", err)
		return game.Stand
	}
	action := game.Stand
	if score < 17 {
		action = firstAllowed(s, game.Hit)
	}
	m.logger.Debug("decision", "hand", s.HandIndex(), "score", score, "action", action)
	return action
}
