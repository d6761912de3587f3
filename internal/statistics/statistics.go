package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// RoundResult represents the outcome of a single round for the player
type RoundResult struct {
	Net         int64        // Chips won (positive) or lost (negative)
	Wagered     game.Chip    // Total staked across all hands, excluding insurance
	Outcome     game.Outcome // Round outcome
	Seed        int64        // Session seed, for replay
	Natural     bool         // Player was dealt a natural
	Doubled     bool         // At least one hand was doubled
	Splits      int          // Number of splits made
	Surrendered bool
	Insured     bool // Insurance was bought
}

// OutcomeStats tracks results for rounds with one outcome
type OutcomeStats struct {
	Rounds int
	Net    float64
}

// Statistics tracks blackjack simulation statistics
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation
	Wagered float64

	// Per outcome ledger, indexed by game.Outcome
	Outcomes [5]OutcomeStats
	AllNet   float64 // Total net for sanity check

	Naturals     int
	Doubles      int
	Splits       int
	Surrenders   int
	Insured      int
	InsuranceNet float64 // Net of rounds where insurance was bought
}

// Mean returns the arithmetic mean of all results in chips per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge returns the player's loss as a fraction of the total wagered
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -s.SumNet / s.Wagered
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Wagered += float64(result.Wagered)
	s.AllNet += net

	if o := int(result.Outcome); o >= 0 && o < len(s.Outcomes) {
		s.Outcomes[o].Rounds++
		s.Outcomes[o].Net += net
	}

	if result.Natural {
		s.Naturals++
	}
	if result.Doubled {
		s.Doubles++
	}
	s.Splits += result.Splits
	if result.Surrendered {
		s.Surrenders++
	}
	if result.Insured {
		s.Insured++
		s.InsuranceNet += net
	}
}

// Merge adds every result recorded in other
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.AllNet += other.AllNet
	for i := range s.Outcomes {
		s.Outcomes[i].Rounds += other.Outcomes[i].Rounds
		s.Outcomes[i].Net += other.Outcomes[i].Net
	}
	s.Naturals += other.Naturals
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.Surrenders += other.Surrenders
	s.Insured += other.Insured
	s.InsuranceNet += other.InsuranceNet
}

// Count returns the number of rounds with the given outcome
func (s *Statistics) Count(outcome game.Outcome) int {
	if int(outcome) < 0 || int(outcome) >= len(s.Outcomes) {
		return 0
	}
	return s.Outcomes[outcome].Rounds
}

// Rate returns the fraction of rounds with the given outcome
func (s *Statistics) Rate(outcome game.Outcome) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Count(outcome)) / float64(s.Rounds)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the per outcome nets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	var sum float64
	for _, o := range s.Outcomes {
		sum += o.Net
	}
	return math.Abs(s.AllNet-sum) <= 1e-6 && math.Abs(s.AllNet-s.SumNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.2f, SumNet=%.2f", s.AllNet, s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	total := 0
	for _, o := range s.Outcomes {
		total += o.Rounds
	}
	if total != s.Rounds {
		return fmt.Errorf("outcome rounds total (%d) does not match total rounds (%d)", total, s.Rounds)
	}

	if s.Outcomes[game.Undetermined].Rounds > 0 {
		return fmt.Errorf("%d rounds finished without an outcome", s.Outcomes[game.Undetermined].Rounds)
	}

	return nil
}
