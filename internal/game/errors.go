package game

import (
	"errors"

	"github.com/lox/blackjack/internal/deck"
)

// Errors returned by round operations. All of them describe an operation
// that is illegal for the current state; the snapshot the operation was
// called on is left untouched.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrEmptyShoe         = deck.ErrEmpty

	ErrInvalidHand = errors.New("invalid hand")
	ErrInvalidCard = errors.New("invalid card")

	ErrCardAlreadyRevealed = deck.ErrCardAlreadyRevealed
	ErrCardNotRevealed     = errors.New("card not revealed")
	ErrHandAlreadyFinished = errors.New("hand already finished")

	ErrCannotSplitNonPair                = errors.New("cannot split a hand that is not a pair")
	ErrCannotSplitDifferentDenominations = errors.New("cannot split cards of different denominations")
	ErrSplitLimitReached                 = errors.New("split limit reached")

	ErrOverInsurance = errors.New("insurance exceeds half the bet")

	ErrAlreadyPlaying   = errors.New("already playing")
	ErrActionNotAllowed = errors.New("action not allowed")
	ErrBetOutOfRange    = errors.New("bet out of range")
)
