package deck

import "errors"

// ErrCardAlreadyRevealed is returned when revealing a card that is already
// face up.
var ErrCardAlreadyRevealed = errors.New("card already revealed")

// Face is the orientation of a dealt card
type Face int

const (
	FaceDown Face = iota
	FaceUp
)

func (f Face) String() string {
	if f == FaceUp {
		return "up"
	}
	return "down"
}

// PlayerCard is a card that has been dealt to a hand
type PlayerCard struct {
	Card Card
	Face Face
}

// Up wraps a card face up
func Up(card Card) PlayerCard {
	return PlayerCard{Card: card, Face: FaceUp}
}

// Down wraps a card face down
func Down(card Card) PlayerCard {
	return PlayerCard{Card: card, Face: FaceDown}
}

// IsUp returns true if the card is face up
func (c PlayerCard) IsUp() bool {
	return c.Face == FaceUp
}

// Reveal turns a face down card face up
func (c *PlayerCard) Reveal() error {
	if c.Face == FaceUp {
		return ErrCardAlreadyRevealed
	}
	c.Face = FaceUp
	return nil
}

// String returns the card, or "??" while it is face down
func (c PlayerCard) String() string {
	if c.Face == FaceDown {
		return "??"
	}
	return c.Card.String()
}
