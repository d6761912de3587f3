package game

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

const testDealerBank Chip = 1000

// stackedShoe returns a shoe that deals the given cards in the order they
// are written. Opening deals go player, dealer, player, dealer hole card.
func stackedShoe(deal string) deck.Shoe {
	cards := deck.MustParseCards(deal)
	slices.Reverse(cards)
	return deck.NewShoeWithCards(cards)
}

func stackedTable(deal string, balance Chip) Table {
	return NewTable(stackedShoe(deal), NewDealer(testDealerBank), NewPlayer(balance))
}

func mustBet(t *testing.T, table Table, bet Chip, opts ...Option) RoundState {
	t.Helper()
	state, err := NewRound(table, opts...).PlaceBet(bet)
	require.NoError(t, err)
	return state
}

func as[T RoundState](t *testing.T, s RoundState) T {
	t.Helper()
	v, ok := s.(T)
	if !ok {
		t.Fatalf("expected %T, got %T", v, s)
	}
	return v
}

func upHand(bet Chip, cards string) Hand {
	h := NewHand(bet)
	for _, c := range deck.MustParseCards(cards) {
		h.AddCard(deck.Up(c))
	}
	return h
}
