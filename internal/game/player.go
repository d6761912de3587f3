package game

import (
	"fmt"
	"strings"

	"github.com/lox/blackjack/internal/deck"
)

// DefaultSplitLimit is the number of splits a player may make per round
const DefaultSplitLimit = 3

// Player owns a bank and one or more hands. Hands created by a split are
// inserted directly after the hand they came from, and hands are played and
// settled left to right.
type Player struct {
	bank       Bank
	hands      []Hand
	splitLimit int
	splits     int
}

// NewPlayer creates a player with an opening balance and no hands
func NewPlayer(balance Chip) Player {
	return Player{
		bank:       NewBank(balance),
		splitLimit: DefaultSplitLimit,
	}
}

// WithSplitLimit returns a copy of the player with a different split limit
func (p Player) WithSplitLimit(limit int) Player {
	p = p.clone()
	p.splitLimit = limit
	return p
}

// WithHands returns a copy of the player holding the given hands. It is
// intended for setting up fixtures.
func (p Player) WithHands(hands ...Hand) Player {
	p = p.clone()
	p.hands = make([]Hand, len(hands))
	for i, h := range hands {
		p.hands[i] = h.clone()
	}
	return p
}

// Bank returns the player's bank
func (p Player) Bank() Bank {
	return p.bank
}

// Balance returns the player's bank balance
func (p Player) Balance() Chip {
	return p.bank.Balance()
}

// Hands returns copies of the player's hands
func (p Player) Hands() []Hand {
	if len(p.hands) == 0 {
		return nil
	}
	hands := make([]Hand, len(p.hands))
	for i, h := range p.hands {
		hands[i] = h.clone()
	}
	return hands
}

// Hand returns a copy of the hand at index
func (p Player) Hand(index int) (Hand, error) {
	if index < 0 || index >= len(p.hands) {
		return Hand{}, fmt.Errorf("%w: index %d of %d", ErrInvalidHand, index, len(p.hands))
	}
	return p.hands[index].clone(), nil
}

// NumHands returns the number of hands in play
func (p Player) NumHands() int {
	return len(p.hands)
}

// SplitLimit returns the maximum number of splits per round
func (p Player) SplitLimit() int {
	return p.splitLimit
}

// Splits returns the number of splits made this round
func (p Player) Splits() int {
	return p.splits
}

// Deposit adds chips to the player's bank
func (p *Player) Deposit(amount Chip) {
	p.bank.Deposit(amount)
}

// Withdraw removes chips from the player's bank
func (p *Player) Withdraw(amount Chip) error {
	return p.bank.Withdraw(amount)
}

// PlaceBet withdraws amount and opens a hand with it. Bets can only be
// placed before any hand is in play.
func (p *Player) PlaceBet(amount Chip) error {
	if len(p.hands) > 0 {
		return ErrAlreadyPlaying
	}
	if err := p.bank.Withdraw(amount); err != nil {
		return err
	}
	p.hands = append(p.hands, NewHand(amount))
	return nil
}

// AddCard deals a card to the hand at index
func (p *Player) AddCard(card deck.PlayerCard, hand int) error {
	h, err := p.hand(hand)
	if err != nil {
		return err
	}
	h.AddCard(card)
	return nil
}

// RevealCard turns a card in one of the player's hands face up
func (p *Player) RevealCard(hand, card int) error {
	h, err := p.hand(hand)
	if err != nil {
		return err
	}
	return h.RevealCard(card)
}

// SplitHand splits the pair at index into two hands, withdrawing a second bet
// equal to the first.
func (p *Player) SplitHand(index int) error {
	h, err := p.hand(index)
	if err != nil {
		return err
	}
	if err := h.CanSplit(); err != nil {
		return err
	}
	if p.splits >= p.splitLimit {
		return fmt.Errorf("%w: %d of %d", ErrSplitLimitReached, p.splits, p.splitLimit)
	}
	if err := p.bank.Withdraw(h.bet); err != nil {
		return err
	}

	second, err := h.Split()
	if err != nil {
		return err
	}
	p.hands = append(p.hands[:index+1], append([]Hand{second}, p.hands[index+1:]...)...)
	p.splits++
	return nil
}

// DoubleDown withdraws a second bet equal to the hand's bet and doubles it
func (p *Player) DoubleDown(index int) error {
	h, err := p.hand(index)
	if err != nil {
		return err
	}
	amount := h.bet
	if err := p.bank.Withdraw(amount); err != nil {
		return err
	}
	h.IncreaseBet(amount)
	h.markDoubled()
	return nil
}

// BuyInsurance withdraws amount and places it as insurance on a hand
func (p *Player) BuyInsurance(index int, amount Chip) error {
	h, err := p.hand(index)
	if err != nil {
		return err
	}
	if err := p.bank.Withdraw(amount); err != nil {
		return err
	}
	h.AddInsurance(amount)
	return nil
}

// ForfeitBet clears the bet on a hand and returns the amount, to be
// deposited with the dealer.
func (p *Player) ForfeitBet(index int) (Chip, error) {
	h, err := p.hand(index)
	if err != nil {
		return 0, err
	}
	return h.ForfeitBet(), nil
}

// ForfeitInsurance clears the insurance on a hand and returns the amount, to
// be deposited with the dealer.
func (p *Player) ForfeitInsurance(index int) (Chip, error) {
	h, err := p.hand(index)
	if err != nil {
		return 0, err
	}
	return h.ForfeitInsurance(), nil
}

// ReturnBet moves the bet on a hand back into the player's bank
func (p *Player) ReturnBet(index int) error {
	h, err := p.hand(index)
	if err != nil {
		return err
	}
	p.bank.Deposit(h.ReturnBet())
	return nil
}

// ReturnInsurance moves the insurance on a hand back into the player's bank
func (p *Player) ReturnInsurance(index int) error {
	h, err := p.hand(index)
	if err != nil {
		return err
	}
	p.bank.Deposit(h.ReturnInsurance())
	return nil
}

// ReturnCards clears all hands, returning their cards
func (p *Player) ReturnCards() []deck.Card {
	var cards []deck.Card
	for i := range p.hands {
		cards = append(cards, p.hands[i].returnCards()...)
	}
	p.hands = nil
	p.splits = 0
	return cards
}

func (p *Player) hand(index int) (*Hand, error) {
	if index < 0 || index >= len(p.hands) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrInvalidHand, index, len(p.hands))
	}
	return &p.hands[index], nil
}

func (p Player) clone() Player {
	p.hands = p.Hands()
	return p
}

func (p Player) String() string {
	hands := make([]string, len(p.hands))
	for i, h := range p.hands {
		hands[i] = h.String()
	}
	return fmt.Sprintf("bank=%d splits=%d/%d hands=%s", p.bank.Balance(), p.splits, p.splitLimit, strings.Join(hands, "; "))
}
