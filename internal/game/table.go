package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// Table is a snapshot of everything on the table: the shoe, the discard tray,
// the dealer and the player. Accessors return copies so a snapshot can be
// held and compared freely.
type Table struct {
	shoe    deck.Shoe
	discard []deck.Card
	dealer  Dealer
	player  Player
}

// NewTable creates a table
func NewTable(shoe deck.Shoe, dealer Dealer, player Player) Table {
	return Table{
		shoe:   shoe.Clone(),
		dealer: dealer.clone(),
		player: player.clone(),
	}
}

// Shoe returns a copy of the shoe
func (t Table) Shoe() deck.Shoe {
	return t.shoe.Clone()
}

// Discard returns the cards collected from finished rounds
func (t Table) Discard() []deck.Card {
	return append([]deck.Card(nil), t.discard...)
}

// Dealer returns a copy of the dealer
func (t Table) Dealer() Dealer {
	return t.dealer.clone()
}

// Player returns a copy of the player
func (t Table) Player() Player {
	return t.player.clone()
}

// Chips returns every chip on the table: both banks plus all bets and
// insurance in play. Settlement only moves chips, so this is constant for a
// round.
func (t Table) Chips() Chip {
	total := t.dealer.Balance() + t.player.Balance()
	for _, h := range t.player.hands {
		total += h.bet + h.insurance
	}
	return total
}

func (t Table) String() string {
	return fmt.Sprintf("shoe=%d discard=%d\ndealer: %s\nplayer: %s", t.shoe.Remaining(), len(t.discard), t.dealer, t.player)
}

func (t Table) clone() Table {
	return Table{
		shoe:    t.shoe.Clone(),
		discard: append([]deck.Card(nil), t.discard...),
		dealer:  t.dealer.clone(),
		player:  t.player.clone(),
	}
}

func (t *Table) dealToPlayer(hand int, face deck.Face) error {
	card, err := t.shoe.Deal(face)
	if err != nil {
		return err
	}
	return t.player.AddCard(card, hand)
}

func (t *Table) dealToDealer(face deck.Face) error {
	card, err := t.shoe.Deal(face)
	if err != nil {
		return err
	}
	t.dealer.AddCard(card)
	return nil
}

// win settles a hand as a win: the dealer pays the bet at ratio and the bet
// is returned.
func (t *Table) win(hand int, ratio Ratio) error {
	h, err := t.player.hand(hand)
	if err != nil {
		return err
	}
	if err := h.Finish(Win); err != nil {
		return err
	}
	payout := ratio.Apply(h.bet)
	if err := t.dealer.Withdraw(payout); err != nil {
		return err
	}
	t.player.Deposit(payout)
	return t.player.ReturnBet(hand)
}

// push settles a hand as a stand-off: the bet is returned
func (t *Table) push(hand int) error {
	h, err := t.player.hand(hand)
	if err != nil {
		return err
	}
	if err := h.Finish(Push); err != nil {
		return err
	}
	return t.player.ReturnBet(hand)
}

// lose settles a hand as a loss: the bet goes to the dealer
func (t *Table) lose(hand int) error {
	h, err := t.player.hand(hand)
	if err != nil {
		return err
	}
	if err := h.Finish(Lose); err != nil {
		return err
	}
	t.dealer.Deposit(h.ForfeitBet())
	return nil
}

// surrender settles a hand as forfeited: the dealer keeps half the bet,
// rounded down, and the rest is returned.
func (t *Table) surrender(hand int) error {
	h, err := t.player.hand(hand)
	if err != nil {
		return err
	}
	if err := h.Finish(Forfeit); err != nil {
		return err
	}
	bet := h.ForfeitBet()
	t.dealer.Deposit(bet / 2)
	t.player.Deposit(bet - bet/2)
	return nil
}

// takeInsurance moves a losing insurance bet to the dealer
func (t *Table) takeInsurance(hand int) error {
	amount, err := t.player.ForfeitInsurance(hand)
	if err != nil {
		return err
	}
	t.dealer.Deposit(amount)
	return nil
}

// payInsurance pays a winning insurance bet at ratio and returns the stake
func (t *Table) payInsurance(hand int, ratio Ratio) error {
	h, err := t.player.hand(hand)
	if err != nil {
		return err
	}
	payout := ratio.Apply(h.insurance)
	if err := t.dealer.Withdraw(payout); err != nil {
		return err
	}
	t.player.Deposit(payout)
	return t.player.ReturnInsurance(hand)
}

// collectCards moves every dealt card to the discard tray
func (t *Table) collectCards() {
	t.discard = append(t.discard, t.player.ReturnCards()...)
	t.discard = append(t.discard, t.dealer.ReturnCards()...)
}

// reshuffle returns the discard tray to the shoe and shuffles it
func (t *Table) reshuffle(src deck.Source) {
	t.shoe.AddCards(t.discard...)
	t.discard = nil
	t.shoe.Shuffle(src)
}
