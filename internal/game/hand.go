package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// Outcome is the result of a hand, or of a whole round
type Outcome int

const (
	Undetermined Outcome = iota
	Push
	Forfeit
	Win
	Lose
)

func (o Outcome) String() string {
	switch o {
	case Undetermined:
		return "undetermined"
	case Push:
		return "push"
	case Forfeit:
		return "forfeit"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "?"
	}
}

// Hand is a set of dealt cards together with the wager riding on them.
type Hand struct {
	cards     []deck.PlayerCard
	bet       Chip
	insurance Chip
	stake     Chip // total wagered on the hand, kept after settlement
	outcome   Outcome
	split     bool
	doubled   bool
	stood     bool
}

// NewHand creates a hand with a bet and optional starting cards
func NewHand(bet Chip, cards ...deck.PlayerCard) Hand {
	return Hand{
		cards: append([]deck.PlayerCard(nil), cards...),
		bet:   bet,
		stake: bet,
	}
}

// Cards returns a copy of the cards in the hand
func (h Hand) Cards() []deck.PlayerCard {
	return append([]deck.PlayerCard(nil), h.cards...)
}

// Len returns the number of cards in the hand
func (h Hand) Len() int {
	return len(h.cards)
}

// Bet returns the chips currently riding on the hand
func (h Hand) Bet() Chip {
	return h.bet
}

// Insurance returns the insurance side bet
func (h Hand) Insurance() Chip {
	return h.insurance
}

// Stake returns the total wagered on the hand, including doubles. Unlike Bet
// it is not cleared when the hand is settled.
func (h Hand) Stake() Chip {
	return h.stake
}

// Outcome returns the result of the hand
func (h Hand) Outcome() Outcome {
	return h.outcome
}

// IsSplit returns true if the hand was formed by splitting a pair
func (h Hand) IsSplit() bool {
	return h.split
}

// IsSplitAces returns true for a hand formed by splitting aces. Such hands
// receive exactly one more card.
func (h Hand) IsSplitAces() bool {
	return h.split && len(h.cards) > 0 && h.cards[0].Card.IsAce()
}

// Doubled returns true if the bet on the hand was doubled
func (h Hand) Doubled() bool {
	return h.doubled
}

// Stood returns true once the hand has stopped drawing cards
func (h Hand) Stood() bool {
	return h.stood
}

// Finished returns true once the hand has an outcome
func (h Hand) Finished() bool {
	return h.outcome != Undetermined
}

// Done returns true if the hand takes no further action this round
func (h Hand) Done() bool {
	return h.stood || h.Finished()
}

// AddCard appends a card to the hand
func (h *Hand) AddCard(card deck.PlayerCard) {
	h.cards = append(h.cards, card)
}

// RevealCard turns the card at index face up
func (h *Hand) RevealCard(index int) error {
	if index < 0 || index >= len(h.cards) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidCard, index, len(h.cards))
	}
	return h.cards[index].Reveal()
}

// Revealed returns true if every card is face up
func (h Hand) Revealed() bool {
	for _, c := range h.cards {
		if !c.IsUp() {
			return false
		}
	}
	return true
}

// Score returns the blackjack total of the hand. Every card must be face up.
func (h Hand) Score() (int, error) {
	score, _, err := h.evaluate()
	return score, err
}

// Soft returns true if the score counts an ace as eleven
func (h Hand) Soft() (bool, error) {
	_, soft, err := h.evaluate()
	return soft, err
}

// evaluate scores the hand. With subtotal S of the non-ace cards and k aces
// the candidate totals are S+k+10j for j in 0..k; the best is the largest
// that does not exceed 21, otherwise the smallest.
func (h Hand) evaluate() (score int, soft bool, err error) {
	subtotal, aces := 0, 0
	for _, c := range h.cards {
		if !c.IsUp() {
			return 0, false, ErrCardNotRevealed
		}
		if c.Card.IsAce() {
			aces++
			continue
		}
		subtotal += c.Card.Denomination()
	}

	for j := aces; j > 0; j-- {
		if total := subtotal + aces + 10*j; total <= 21 {
			return total, true, nil
		}
	}
	return subtotal + aces, false, nil
}

// Blackjack returns true for a two card hand of an ace and a ten-card
func (h Hand) Blackjack() bool {
	if len(h.cards) != 2 {
		return false
	}
	a, b := h.cards[0].Card, h.cards[1].Card
	return (a.IsAce() && b.IsTen()) || (a.IsTen() && b.IsAce())
}

// Natural returns true for a blackjack that was dealt rather than formed by
// splitting. Only naturals are paid at blackjack odds.
func (h Hand) Natural() bool {
	return h.Blackjack() && !h.split
}

// CanSplit returns nil if the hand is a pair that may be split
func (h Hand) CanSplit() error {
	if len(h.cards) != 2 {
		return ErrCannotSplitNonPair
	}
	if h.cards[0].Card.Denomination() != h.cards[1].Card.Denomination() {
		return ErrCannotSplitDifferentDenominations
	}
	return nil
}

// Split moves the second card of a pair into a new hand carrying the same
// bet. The chips for the new bet are not taken here; see Player.SplitHand.
func (h *Hand) Split() (Hand, error) {
	if err := h.CanSplit(); err != nil {
		return Hand{}, err
	}
	second := NewHand(h.bet, h.cards[1])
	second.split = true
	h.cards = h.cards[:1:1]
	h.split = true
	return second, nil
}

// IncreaseBet adds chips to the bet
func (h *Hand) IncreaseBet(amount Chip) {
	h.bet += amount
	h.stake += amount
}

// AddInsurance adds chips to the insurance bet
func (h *Hand) AddInsurance(amount Chip) {
	h.insurance += amount
}

// ForfeitBet clears the bet and returns the amount
func (h *Hand) ForfeitBet() Chip {
	amount := h.bet
	h.bet = 0
	return amount
}

// ReturnBet clears the bet and returns the amount
func (h *Hand) ReturnBet() Chip {
	return h.ForfeitBet()
}

// ForfeitInsurance clears the insurance bet and returns the amount
func (h *Hand) ForfeitInsurance() Chip {
	amount := h.insurance
	h.insurance = 0
	return amount
}

// ReturnInsurance clears the insurance bet and returns the amount
func (h *Hand) ReturnInsurance() Chip {
	return h.ForfeitInsurance()
}

// Finish records the outcome of the hand. A hand is finished only once.
func (h *Hand) Finish(outcome Outcome) error {
	if h.outcome != Undetermined {
		return fmt.Errorf("%w: already %s", ErrHandAlreadyFinished, h.outcome)
	}
	h.outcome = outcome
	return nil
}

func (h *Hand) stand() {
	h.stood = true
}

func (h *Hand) markDoubled() {
	h.doubled = true
}

func (h Hand) clone() Hand {
	h.cards = append([]deck.PlayerCard(nil), h.cards...)
	return h
}

func (h *Hand) returnCards() []deck.Card {
	cards := make([]deck.Card, len(h.cards))
	for i, c := range h.cards {
		cards[i] = c.Card
	}
	h.cards = nil
	return cards
}

func (h Hand) String() string {
	cards := make([]string, len(h.cards))
	for i, c := range h.cards {
		cards[i] = c.String()
	}
	return fmt.Sprintf("[%s] bet=%d", strings.Join(cards, " "), h.bet)
}
