package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Ratio is a payout expressed as odds, e.g. 3:2 pays three chips for every two
// wagered.
type Ratio struct {
	Numerator   Chip
	Denominator Chip
}

// Standard payouts
var (
	EvenMoney     = Ratio{Numerator: 1, Denominator: 1}
	BlackjackPays = Ratio{Numerator: 3, Denominator: 2}
	InsurancePays = Ratio{Numerator: 2, Denominator: 1}
)

// Apply returns the payout for amount, rounded up to a whole chip:
// ceil(amount * Numerator / Denominator).
func (r Ratio) Apply(amount Chip) Chip {
	return (amount*r.Numerator + r.Denominator - 1) / r.Denominator
}

// Valid reports whether both terms are positive
func (r Ratio) Valid() bool {
	return r.Numerator > 0 && r.Denominator > 0
}

func (r Ratio) String() string {
	return fmt.Sprintf("%d:%d", r.Numerator, r.Denominator)
}

// ParseRatio parses odds in "N:D" form, e.g. "3:2"
func ParseRatio(s string) (Ratio, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Ratio{}, fmt.Errorf("invalid ratio %q: expected N:D", s)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	d, err := strconv.ParseUint(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
	}
	r := Ratio{Numerator: Chip(n), Denominator: Chip(d)}
	if !r.Valid() {
		return Ratio{}, fmt.Errorf("invalid ratio %q: terms must be positive", s)
	}
	return r, nil
}
