package deck

import "errors"

// ErrEmpty is returned when dealing from a shoe with no cards left.
var ErrEmpty = errors.New("shoe is empty")

// Source produces uniformly distributed integers in [0, n). A
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Shoe holds the undealt cards for one or more packs. Cards are dealt from the
// end of the shoe, so the order after shuffling determines the deal order.
//
// Shoe is a value type; Clone returns an independent copy.
type Shoe struct {
	cards []Card
}

// NewShoe creates a shoe holding the standard 52-card pack repeated packs
// times. The shoe is not shuffled.
func NewShoe(packs int) Shoe {
	pack := AllCards()
	cards := make([]Card, 0, len(pack)*max(packs, 0))
	for i := 0; i < packs; i++ {
		cards = append(cards, pack...)
	}
	return Shoe{cards: cards}
}

// NewShoeWithCards creates a shoe holding exactly the given cards. The last
// card is dealt first.
func NewShoeWithCards(cards []Card) Shoe {
	return Shoe{cards: append([]Card(nil), cards...)}
}

// Shuffle permutes the cards in place. For each index i from the front the
// card is swapped with the card at src.IntN(len). The algorithm is fixed so
// that a seeded source always yields the same permutation.
func (s *Shoe) Shuffle(src Source) {
	n := len(s.cards)
	for i := 0; i < n; i++ {
		j := src.IntN(n)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Deal removes the next card from the shoe and returns it with the given face.
func (s *Shoe) Deal(face Face) (PlayerCard, error) {
	if len(s.cards) == 0 {
		return PlayerCard{}, ErrEmpty
	}
	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]
	return PlayerCard{Card: card, Face: face}, nil
}

// Add places a card at the end of the shoe, making it the next card dealt.
func (s *Shoe) Add(card Card) {
	s.cards = append(s.cards, card)
}

// AddCards places cards at the end of the shoe. The last card given is dealt
// first.
func (s *Shoe) AddCards(cards ...Card) {
	s.cards = append(s.cards, cards...)
}

// Remaining returns the number of cards left in the shoe
func (s Shoe) Remaining() int {
	return len(s.cards)
}

// Empty returns true if the shoe has no cards left
func (s Shoe) Empty() bool {
	return len(s.cards) == 0
}

// Cards returns a copy of the cards in the shoe, next card last.
func (s Shoe) Cards() []Card {
	return append([]Card(nil), s.cards...)
}

// Peek returns the next card without removing it from the shoe
func (s Shoe) Peek() (Card, bool) {
	if len(s.cards) == 0 {
		return Card{}, false
	}
	return s.cards[len(s.cards)-1], true
}

// Clone returns an independent copy of the shoe
func (s Shoe) Clone() Shoe {
	return Shoe{cards: append([]Card(nil), s.cards...)}
}
