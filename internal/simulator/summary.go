package simulator

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lox/blackjack/internal/game"
)

// WriteSummary writes a summary of simulation results
func WriteSummary(w io.Writer, res *Result, strategy string) {
	stats := res.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "=== FINAL RESULTS for %s strategy ===\n", strategy)
	fmt.Fprintf(w, "Sessions: %d\n", len(res.Sessions))
	fmt.Fprintf(w, "Rounds played: %d\n", stats.Rounds)
	fmt.Fprintf(w, "Elapsed: %v\n", res.Elapsed)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f chips/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f chips/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f chips\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f chips\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/round\n", low, high)
	fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
		stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))
	fmt.Fprintf(w, "House edge: %.2f%%\n", stats.HouseEdge()*100)

	fmt.Fprintf(w, "\n=== OUTCOMES ===\n")
	for _, o := range []game.Outcome{game.Win, game.Lose, game.Push, game.Forfeit} {
		fmt.Fprintf(w, "%-8s %6d rounds (%5.1f%%), %+.0f chips\n",
			o.String()+":", stats.Count(o), stats.Rate(o)*100, stats.Outcomes[o].Net)
	}

	fmt.Fprintf(w, "\n=== PLAY ===\n")
	fmt.Fprintf(w, "Naturals: %d\n", stats.Naturals)
	fmt.Fprintf(w, "Doubles: %d\n", stats.Doubles)
	fmt.Fprintf(w, "Splits: %d\n", stats.Splits)
	fmt.Fprintf(w, "Surrenders: %d\n", stats.Surrenders)
	fmt.Fprintf(w, "Insured: %d rounds, %+.0f chips\n", stats.Insured, stats.InsuranceNet)

	if busted := res.BustedSessions(); busted > 0 {
		fmt.Fprintf(w, "\nPlayer went broke in %d of %d sessions\n", busted, len(res.Sessions))
	}
}

// BustedSessions returns the number of sessions that ended with the player
// unable to cover the bet
func (r *Result) BustedSessions() int {
	busted := 0
	for _, s := range r.Sessions {
		if s.Busted {
			busted++
		}
	}
	return busted
}

// Report is the machine readable form of a simulation result
type Report struct {
	Strategy       string                   `json:"strategy"`
	Sessions       int                      `json:"sessions"`
	BustedSessions int                      `json:"busted_sessions"`
	Rounds         int                      `json:"rounds"`
	ElapsedMillis  int64                    `json:"elapsed_ms"`
	Mean           float64                  `json:"mean"`
	Median         float64                  `json:"median"`
	StdDev         float64                  `json:"std_dev"`
	StdError       float64                  `json:"std_error"`
	CI95           [2]float64               `json:"ci95"`
	HouseEdge      float64                  `json:"house_edge"`
	Outcomes       map[string]OutcomeReport `json:"outcomes"`
	Naturals       int                      `json:"naturals"`
	Doubles        int                      `json:"doubles"`
	Splits         int                      `json:"splits"`
	Surrenders     int                      `json:"surrenders"`
	Insured        int                      `json:"insured"`
	InsuranceNet   float64                  `json:"insurance_net"`
}

// OutcomeReport summarises the rounds that ended with one outcome
type OutcomeReport struct {
	Rounds int     `json:"rounds"`
	Rate   float64 `json:"rate"`
	Net    float64 `json:"net"`
}

// NewReport builds the report for a simulation result
func NewReport(res *Result, strategy string) Report {
	stats := res.Stats
	low, high := stats.ConfidenceInterval95()
	report := Report{
		Strategy:       strategy,
		Sessions:       len(res.Sessions),
		BustedSessions: res.BustedSessions(),
		Rounds:         stats.Rounds,
		ElapsedMillis:  res.Elapsed.Milliseconds(),
		Mean:           stats.Mean(),
		Median:         stats.Median(),
		StdDev:         stats.StdDev(),
		StdError:       stats.StdError(),
		CI95:           [2]float64{low, high},
		HouseEdge:      stats.HouseEdge(),
		Outcomes:       make(map[string]OutcomeReport),
		Naturals:       stats.Naturals,
		Doubles:        stats.Doubles,
		Splits:         stats.Splits,
		Surrenders:     stats.Surrenders,
		Insured:        stats.Insured,
		InsuranceNet:   stats.InsuranceNet,
	}
	for _, o := range []game.Outcome{game.Win, game.Lose, game.Push, game.Forfeit} {
		report.Outcomes[o.String()] = OutcomeReport{
			Rounds: stats.Count(o),
			Rate:   stats.Rate(o),
			Net:    stats.Outcomes[o].Net,
		}
	}
	return report
}

// WriteJSON writes the report for res as indented JSON
func WriteJSON(w io.Writer, res *Result, strategy string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(res, strategy))
}
