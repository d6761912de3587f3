package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Zero(t, stats.HouseEdge())
	assert.Zero(t, stats.Rate(game.Win))
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 15, Wagered: 10, Outcome: game.Win, Natural: true})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 15.0, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 15.0, stats.Median())
	assert.Equal(t, 1, stats.Naturals)
	assert.Equal(t, 1, stats.Count(game.Win))
	assert.True(t, stats.IsLedgerBalanced())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	results := []RoundResult{
		{Net: 10, Wagered: 10, Outcome: game.Win},
		{Net: -20, Wagered: 20, Outcome: game.Lose, Doubled: true},
		{Net: 30, Wagered: 30, Outcome: game.Win, Splits: 2},
		{Net: 0, Wagered: 10, Outcome: game.Push},
		{Net: -5, Wagered: 10, Outcome: game.Forfeit, Surrendered: true},
	}
	for _, r := range results {
		stats.Add(r)
	}

	assert.InDelta(t, 3.0, stats.Mean(), 1e-9)
	assert.Equal(t, 5, stats.Rounds)
	// sorted values: -20, -5, 0, 10, 30
	assert.Equal(t, 0.0, stats.Median())

	assert.Equal(t, 2, stats.Count(game.Win))
	assert.Equal(t, 1, stats.Count(game.Lose))
	assert.Equal(t, 1, stats.Count(game.Push))
	assert.Equal(t, 1, stats.Count(game.Forfeit))
	assert.InDelta(t, 0.4, stats.Rate(game.Win), 1e-9)
	assert.InDelta(t, 40.0, stats.Outcomes[game.Win].Net, 1e-9)

	assert.Equal(t, 1, stats.Doubles)
	assert.Equal(t, 2, stats.Splits)
	assert.Equal(t, 1, stats.Surrenders)
	assert.InDelta(t, -15.0/80.0, stats.HouseEdge(), 1e-9)

	assert.True(t, stats.IsLedgerBalanced())
	assert.NoError(t, stats.Validate())
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := int64(1); i <= 5; i++ {
		stats.Add(RoundResult{Net: i, Outcome: game.Win})
	}

	tests := []struct {
		percentile float64
		expected   float64
	}{
		{0.0, 1.0},
		{0.25, 2.0},
		{0.5, 3.0},
		{0.75, 4.0},
		{1.0, 5.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, stats.Percentile(tt.percentile), 1e-9, "percentile %.2f", tt.percentile)
	}
}

func TestStatistics_ConfidenceInterval(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []int64{1, 2, 3, 4, 5} {
		stats.Add(RoundResult{Net: v, Outcome: game.Win})
	}

	low, high := stats.ConfidenceInterval95()
	assert.InDelta(t, stats.Mean(), (low+high)/2, 1e-9)
	assert.Greater(t, high-low, 0.0)
}

func TestStatistics_Variance(t *testing.T) {
	stats := &Statistics{}
	for _, v := range []int64{1, 3, 5} {
		stats.Add(RoundResult{Net: v, Outcome: game.Win})
	}

	assert.InDelta(t, 4.0, stats.Variance(), 1e-9)
	assert.InDelta(t, 2.0, stats.StdDev(), 1e-9)
}

func TestStatistics_Insurance(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{Net: 0, Wagered: 20, Outcome: game.Lose, Insured: true})
	stats.Add(RoundResult{Net: -5, Wagered: 20, Outcome: game.Push, Insured: true})

	assert.Equal(t, 2, stats.Insured)
	assert.InDelta(t, -5.0, stats.InsuranceNet, 1e-9)
	assert.NoError(t, stats.Validate())
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	results := []RoundResult{
		{Net: 10, Wagered: 10, Outcome: game.Win},
		{Net: -10, Wagered: 10, Outcome: game.Lose},
		{Net: 15, Wagered: 10, Outcome: game.Win, Natural: true},
		{Net: -20, Wagered: 20, Outcome: game.Lose, Doubled: true, Splits: 1},
	}
	for i, r := range results {
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
		all.Add(r)
	}

	a.Merge(b)
	assert.Equal(t, all.Rounds, a.Rounds)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.InDelta(t, all.Median(), a.Median(), 1e-9)
	assert.Equal(t, all.Outcomes, a.Outcomes)
	assert.Equal(t, all.Naturals, a.Naturals)
	assert.Equal(t, all.Splits, a.Splits)
	require.NoError(t, a.Validate())
}

func TestStatistics_Validate(t *testing.T) {
	t.Run("ledger mismatch", func(t *testing.T) {
		stats := &Statistics{Rounds: 1, SumNet: 1, Values: []float64{1}, AllNet: 1}
		stats.Outcomes[game.Win] = OutcomeStats{Rounds: 1, Net: 0.5}
		assert.ErrorContains(t, stats.Validate(), "ledger mismatch")
	})

	t.Run("no rounds", func(t *testing.T) {
		assert.ErrorContains(t, (&Statistics{}).Validate(), "invalid rounds count")
	})

	t.Run("values mismatch", func(t *testing.T) {
		stats := &Statistics{Rounds: 2, Values: []float64{1}}
		assert.ErrorContains(t, stats.Validate(), "values array length")
	})

	t.Run("outcome mismatch", func(t *testing.T) {
		stats := &Statistics{Rounds: 2, Values: []float64{0, 0}}
		stats.Outcomes[game.Push].Rounds = 1
		assert.ErrorContains(t, stats.Validate(), "outcome rounds total")
	})

	t.Run("undetermined rounds", func(t *testing.T) {
		stats := &Statistics{}
		stats.Add(RoundResult{Outcome: game.Undetermined})
		assert.ErrorContains(t, stats.Validate(), "without an outcome")
	})
}
