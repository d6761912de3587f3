package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Dealer owns the house bank and a single hand. The dealer never splits or
// doubles.
type Dealer struct {
	bank Bank
	hand Hand
}

// NewDealer creates a dealer with an opening balance and an empty hand
func NewDealer(balance Chip) Dealer {
	return Dealer{bank: NewBank(balance)}
}

// WithHand returns a copy of the dealer holding the given hand. It is
// intended for setting up fixtures.
func (d Dealer) WithHand(hand Hand) Dealer {
	d.hand = hand.clone()
	return d
}

// Bank returns the dealer's bank
func (d Dealer) Bank() Bank {
	return d.bank
}

// Balance returns the dealer's bank balance
func (d Dealer) Balance() Chip {
	return d.bank.Balance()
}

// Hand returns a copy of the dealer's hand
func (d Dealer) Hand() Hand {
	return d.hand.clone()
}

// UpCard returns the dealer's first card, which is always dealt face up
func (d Dealer) UpCard() (deck.Card, bool) {
	if d.hand.Len() == 0 {
		return deck.Card{}, false
	}
	return d.hand.cards[0].Card, true
}

// ShowsBlackjackCard returns true when the up card is an ace or a ten-card,
// meaning the dealer could hold a natural.
func (d Dealer) ShowsBlackjackCard() bool {
	up, ok := d.UpCard()
	return ok && (up.IsAce() || up.IsTen())
}

// AddCard deals a card to the dealer
func (d *Dealer) AddCard(card deck.PlayerCard) {
	d.hand.AddCard(card)
}

// RevealCard turns the card at index face up
func (d *Dealer) RevealCard(index int) error {
	return d.hand.RevealCard(index)
}

// RevealAll turns every face down card face up
func (d *Dealer) RevealAll() {
	for i := range d.hand.cards {
		if !d.hand.cards[i].IsUp() {
			_ = d.hand.cards[i].Reveal()
		}
	}
}

// Deposit adds chips to the dealer's bank
func (d *Dealer) Deposit(amount Chip) {
	d.bank.Deposit(amount)
}

// Withdraw removes chips from the dealer's bank
func (d *Dealer) Withdraw(amount Chip) error {
	if err := d.bank.Withdraw(amount); err != nil {
		return fmt.Errorf("dealer: %w", err)
	}
	return nil
}

// ReturnCards clears the dealer's hand, returning its cards
func (d *Dealer) ReturnCards() []deck.Card {
	cards := d.hand.returnCards()
	d.hand = Hand{}
	return cards
}

func (d Dealer) clone() Dealer {
	d.hand = d.hand.clone()
	return d
}

func (d Dealer) String() string {
	return fmt.Sprintf("bank=%d hand=%s", d.bank.Balance(), d.hand)
}
