package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Describe turns a round error into a message for the player
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, game.ErrBetOutOfRange):
		return "That bet is outside the table limits"
	case errors.Is(err, game.ErrInsufficientFunds):
		return "You don't have enough chips for that"
	case errors.Is(err, game.ErrOverInsurance):
		return "Insurance is limited to half your bet"
	case errors.Is(err, game.ErrSplitLimitReached):
		return "You can't split any more hands"
	case errors.Is(err, game.ErrCannotSplitNonPair),
		errors.Is(err, game.ErrCannotSplitDifferentDenominations):
		return "Only a pair can be split"
	case errors.Is(err, game.ErrActionNotAllowed):
		return "You can't do that right now"
	case errors.Is(err, game.ErrEmptyShoe):
		return "The shoe has run out of cards"
	case errors.Is(err, game.ErrAlreadyPlaying):
		return "A round is already in progress"
	default:
		return err.Error()
	}
}

// actionKeys maps each action to the key that takes it
var actionKeys = map[game.Action]string{
	game.Hit:        "h",
	game.Stand:      "s",
	game.DoubleDown: "d",
	game.Split:      "p",
	game.Surrender:  "r",
}

// formatCard renders a card with its suit colour, or a hidden card back
func formatCard(c deck.PlayerCard) string {
	switch {
	case !c.IsUp():
		return HiddenCardStyle.Render(c.String())
	case c.Card.IsRed():
		return RedCardStyle.Render(c.String())
	default:
		return BlackCardStyle.Render(c.String())
	}
}

// formatHand renders the cards of a hand followed by its score when every
// card is showing
func formatHand(h game.Hand) string {
	cards := h.Cards()
	formatted := make([]string, len(cards))
	for i, c := range cards {
		formatted[i] = formatCard(c)
	}
	out := "[" + strings.Join(formatted, " ") + "]"
	if score, err := h.Score(); err == nil && len(cards) > 0 {
		out += " " + scoreText(h, score)
	}
	return out
}

func scoreText(h game.Hand, score int) string {
	switch {
	case h.Natural():
		return "blackjack"
	case score > 21:
		return fmt.Sprintf("%d bust", score)
	}
	if soft, _ := h.Soft(); soft && score < 21 {
		return fmt.Sprintf("soft %d", score)
	}
	return fmt.Sprintf("%d", score)
}

func outcomeStyle(o game.Outcome) lipgloss.Style {
	switch o {
	case game.Win:
		return SuccessStyle
	case game.Lose:
		return ErrorStyle
	case game.Push, game.Forfeit:
		return WarningStyle
	default:
		return InfoStyle
	}
}

// renderHands lists the player's hands, marking the one in play
func renderHands(hands []game.Hand, active int) string {
	var b strings.Builder
	for i, h := range hands {
		line := fmt.Sprintf("Hand %d: %s bet %d", i+1, formatHand(h), h.Stake())
		if h.Insurance() > 0 {
			line += fmt.Sprintf(" ins %d", h.Insurance())
		}
		if h.Outcome() != game.Undetermined {
			line += " " + outcomeStyle(h.Outcome()).Render(h.Outcome().String())
		}
		if i == active {
			line = ActiveHandStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
