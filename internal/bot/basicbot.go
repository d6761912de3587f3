package bot

import (
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// BasicBot follows textbook basic strategy for a multi-deck shoe where the
// dealer stands on soft 17 and doubling after a split is allowed. When the
// preferred play is not legal it falls back to the usual alternative, e.g. a
// double becomes a hit on three cards. It never buys insurance.
type BasicBot struct {
	logger *log.Logger
}

// NewBasicBot creates a new BasicBot instance
func NewBasicBot(logger *log.Logger) *BasicBot {
	return &BasicBot{logger: logger.WithPrefix("basic")}
}

func (b *BasicBot) Insurance(*game.InsuranceState) game.Chip {
	return 0
}

func (b *BasicBot) Decide(s *game.PlayerTurnState) game.Action {
	hand := s.Hand()
	score, err := hand.Score()
	if err != nil {
		b.logger.Warn("cannot score hand", "error", err)
		return game.Stand
	}
	soft, _ := hand.Soft()
	up := upCardValue(s)

	var preferred []game.Action
	if s.Can(game.Split) && shouldSplit(hand.Cards()[0].Card.Denomination(), up) {
		preferred = []game.Action{game.Split}
	}
	if soft {
		preferred = append(preferred, softTotal(score, up)...)
	} else {
		preferred = append(preferred, hardTotal(score, up)...)
	}

	action := firstAllowed(s, preferred...)
	b.logger.Debug("decision",
		"hand", s.HandIndex(),
		"score", score,
		"soft", soft,
		"up", up,
		"action", action)
	return action
}

// shouldSplit takes the pair denomination, with an ace as 1
func shouldSplit(pair, up int) bool {
	switch pair {
	case 1, 8:
		return true
	case 9:
		return up <= 9 && up != 7
	case 7:
		return up <= 7
	case 6:
		return up <= 6
	case 4:
		return up == 5 || up == 6
	case 2, 3:
		return up <= 7
	default:
		return false
	}
}

func hardTotal(score, up int) []game.Action {
	switch {
	case score >= 17:
		return []game.Action{game.Stand}
	case score == 16 && up >= 9, score == 15 && up == 10:
		return []game.Action{game.Surrender, game.Hit}
	case score >= 13:
		if up <= 6 {
			return []game.Action{game.Stand}
		}
	case score == 12:
		if up >= 4 && up <= 6 {
			return []game.Action{game.Stand}
		}
	case score == 11:
		if up <= 10 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	case score == 10:
		if up <= 9 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	case score == 9:
		if up >= 3 && up <= 6 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	}
	return []game.Action{game.Hit}
}

func softTotal(score, up int) []game.Action {
	switch {
	case score >= 19:
		return []game.Action{game.Stand}
	case score == 18:
		switch {
		case up >= 3 && up <= 6:
			return []game.Action{game.DoubleDown, game.Stand}
		case up <= 8:
			return []game.Action{game.Stand}
		default:
			return []game.Action{game.Hit}
		}
	case score == 17:
		if up >= 3 && up <= 6 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	case score >= 15:
		if up >= 4 && up <= 6 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	case score >= 13:
		if up == 5 || up == 6 {
			return []game.Action{game.DoubleDown, game.Hit}
		}
	}
	return []game.Action{game.Hit}
}
