package game

import "fmt"

// Rules are the table rules a round is played under
type Rules struct {
	// BlackjackPayout is paid on a natural. Default 3:2.
	BlackjackPayout Ratio
	// InsurancePayout is paid on insurance when the dealer has a natural.
	// Default 2:1.
	InsurancePayout Ratio
	// DealerHitsSoft17 makes the dealer draw on a soft 17. By default the
	// dealer stands on every 17.
	DealerHitsSoft17 bool
	// DoubleAfterSplit allows doubling down on a hand formed by a split.
	DoubleAfterSplit bool
	// MinBet and MaxBet bound the opening bet. A MaxBet of 0 means no limit.
	MinBet Chip
	MaxBet Chip
	// ReshuffleAt is the position of the cut card: once this many cards or
	// fewer remain the shoe needs reshuffling. 0 disables the cut card.
	ReshuffleAt int
}

// DefaultRules returns the standard rules
func DefaultRules() Rules {
	return Rules{
		BlackjackPayout:  BlackjackPays,
		InsurancePayout:  InsurancePays,
		DoubleAfterSplit: true,
		MinBet:           1,
	}
}

// Option configures the rules of a round
type Option func(*Rules)

// WithRules replaces all rules
func WithRules(rules Rules) Option {
	return func(r *Rules) {
		*r = rules
	}
}

// WithBlackjackPayout sets the payout for a natural
func WithBlackjackPayout(ratio Ratio) Option {
	return func(r *Rules) {
		r.BlackjackPayout = ratio
	}
}

// WithInsurancePayout sets the payout for winning insurance
func WithInsurancePayout(ratio Ratio) Option {
	return func(r *Rules) {
		r.InsurancePayout = ratio
	}
}

// WithDealerHitsSoft17 controls whether the dealer draws on a soft 17
func WithDealerHitsSoft17(hits bool) Option {
	return func(r *Rules) {
		r.DealerHitsSoft17 = hits
	}
}

// WithDoubleAfterSplit controls whether split hands may double down
func WithDoubleAfterSplit(allowed bool) Option {
	return func(r *Rules) {
		r.DoubleAfterSplit = allowed
	}
}

// WithBetLimits bounds the opening bet. A max of 0 means no limit.
func WithBetLimits(min, max Chip) Option {
	return func(r *Rules) {
		r.MinBet = min
		r.MaxBet = max
	}
}

// WithReshuffleAt places the cut card so that the shoe needs reshuffling
// once remaining cards drop to n.
func WithReshuffleAt(n int) Option {
	return func(r *Rules) {
		r.ReshuffleAt = n
	}
}

func (r Rules) checkBet(amount Chip) error {
	if amount < r.MinBet || (r.MaxBet > 0 && amount > r.MaxBet) {
		if r.MaxBet > 0 {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrBetOutOfRange, amount, r.MinBet, r.MaxBet)
		}
		return fmt.Errorf("%w: %d below minimum %d", ErrBetOutOfRange, amount, r.MinBet)
	}
	return nil
}
