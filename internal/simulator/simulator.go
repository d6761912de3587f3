package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// ErrTimeout is returned when a simulation runs past its timeout
var ErrTimeout = errors.New("simulation timed out")

// Config holds configuration for running simulations
type Config struct {
	Rounds     int // Rounds per session
	Sessions   int
	Strategy   string
	Bet        game.Chip
	Seed       int64
	Packs      int
	PlayerBank game.Chip
	DealerBank game.Chip
	SplitLimit *int // Splits per round, game.DefaultSplitLimit when nil
	Options    []game.Option

	Timeout          time.Duration
	ProgressInterval time.Duration
	Clock            quartz.Clock
	Logger           *log.Logger
}

// SessionResult describes how one session ended
type SessionResult struct {
	Index        int
	Seed         int64
	Rounds       int
	FinalBalance game.Chip
	Busted       bool // Player could no longer cover the bet
	DealerBusted bool // Dealer could no longer cover a round
	Reshuffles   int
	TableChips   game.Chip // Chips on the table, constant for the session
}

// Result is the outcome of a simulation run
type Result struct {
	Stats    *statistics.Statistics
	Sessions []SessionResult
	Elapsed  time.Duration
}

// Simulator runs blackjack sessions with an automated player
type Simulator struct {
	config Config
	rounds atomic.Int64
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Sessions <= 0 {
		config.Sessions = 1
	}
	if config.Packs <= 0 {
		config.Packs = 6
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Validate checks the configuration before a run
func (c Config) Validate() error {
	if c.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", c.Rounds)
	}
	if c.Bet == 0 {
		return errors.New("bet must be positive")
	}
	if c.PlayerBank < c.Bet {
		return fmt.Errorf("player bank %d cannot cover a bet of %d", c.PlayerBank, c.Bet)
	}
	if c.DealerBank < c.exposure() {
		return fmt.Errorf("dealer bank %d cannot cover a bet of %d", c.DealerBank, c.Bet)
	}
	if _, err := bot.New(c.Strategy, nil, log.New(io.Discard)); err != nil {
		return err
	}
	return nil
}

func (c Config) splitLimit() int {
	if c.SplitLimit == nil {
		return game.DefaultSplitLimit
	}
	return *c.SplitLimit
}

// exposure is the most the dealer can pay out on one round of Bet: every
// split hand doubled and won, a natural, or a full insurance bet.
func (c Config) exposure() game.Chip {
	rules := game.DefaultRules()
	for _, opt := range c.Options {
		opt(&rules)
	}
	hands := game.Chip(c.splitLimit() + 1)
	return max(2*hands*c.Bet, rules.BlackjackPayout.Apply(c.Bet), rules.InsurancePayout.Apply(c.Bet/2))
}

// Run plays every session concurrently and returns the combined results.
// Session i is seeded with Seed+i, so a run is reproducible for a seed.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}

	clock := s.config.Clock
	start := clock.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var timedOut atomic.Bool
	if s.config.Timeout > 0 {
		timer := clock.AfterFunc(s.config.Timeout, func() {
			timedOut.Store(true)
			cancel()
		})
		defer timer.Stop()
	}

	if s.config.ProgressInterval > 0 {
		clock.TickerFunc(ctx, s.config.ProgressInterval, func() error {
			s.config.Logger.Info("Simulation progress",
				"rounds", s.rounds.Load(),
				"elapsed", clock.Since(start).Round(time.Millisecond))
			return nil
		})
	}

	sessions := make([]SessionResult, s.config.Sessions)
	stats := make([]*statistics.Statistics, s.config.Sessions)

	g, gctx := errgroup.WithContext(ctx)
	for i := range sessions {
		g.Go(func() error {
			result, sessionStats, err := s.runSession(gctx, i)
			if err != nil {
				return err
			}
			sessions[i] = result
			stats[i] = sessionStats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if timedOut.Load() {
			return nil, fmt.Errorf("%w after %v: %w", ErrTimeout, s.config.Timeout, err)
		}
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, st := range stats {
		total.Merge(st)
	}
	if total.Rounds > 0 {
		if err := total.Validate(); err != nil {
			return nil, fmt.Errorf("statistics validation failed: %w", err)
		}
	}

	return &Result{
		Stats:    total,
		Sessions: sessions,
		Elapsed:  clock.Since(start),
	}, nil
}

// runSession plays rounds on a single shoe until the round count is reached
// or either side can no longer cover the bet.
func (s *Simulator) runSession(ctx context.Context, index int) (SessionResult, *statistics.Statistics, error) {
	seed := s.config.Seed + int64(index)
	logger := s.config.Logger.With("session", index, "seed", seed)
	rng := randutil.New(seed)

	strategy, err := bot.New(s.config.Strategy, rng, logger)
	if err != nil {
		return SessionResult{}, nil, err
	}

	shoe := deck.NewShoe(s.config.Packs)
	shoe.Shuffle(rng)
	player := game.NewPlayer(s.config.PlayerBank).WithSplitLimit(s.config.splitLimit())
	table := game.NewTable(shoe, game.NewDealer(s.config.DealerBank), player)
	bet := game.NewRound(table, s.config.Options...)

	result := SessionResult{Index: index, Seed: seed, TableChips: table.Chips()}
	stats := &statistics.Statistics{}

	for result.Rounds < s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return result, nil, fmt.Errorf("session %d stopped after %d rounds: %w", index, result.Rounds, err)
		}

		t := bet.Table()
		if t.Player().Balance() < s.config.Bet {
			result.Busted = true
			break
		}
		if t.Dealer().Balance() < s.config.exposure() {
			result.DealerBusted = true
			break
		}
		if bet.NeedsReshuffle() {
			bet = bet.Reshuffle(rng)
			result.Reshuffles++
			logger.Debug("Reshuffled shoe", "round", result.Rounds)
		}

		reshuffle := func(st *game.PlayerTurnState) *game.PlayerTurnState {
			result.Reshuffles++
			logger.Debug("Reshuffled shoe mid-round", "round", result.Rounds+1)
			return st.Reshuffle(rng)
		}
		end, round, err := playRound(bet, strategy, s.config.Bet, reshuffle)
		if err != nil {
			return result, nil, fmt.Errorf("session %d round %d: %w", index, result.Rounds+1, err)
		}
		if before, after := t.Chips(), end.Table().Chips(); before != after {
			return result, nil, fmt.Errorf("session %d round %d: chips not conserved: %d before, %d after",
				index, result.Rounds+1, before, after)
		}

		round.Seed = seed
		stats.Add(round)
		result.Rounds++
		s.rounds.Add(1)

		logger.Debug("Round complete",
			"round", result.Rounds,
			"outcome", round.Outcome,
			"net", round.Net,
			"balance", end.Table().Player().Balance())

		bet = end.PlayAgain()
	}

	result.FinalBalance = bet.Table().Player().Balance()
	logger.Debug("Session complete",
		"rounds", result.Rounds,
		"balance", result.FinalBalance,
		"busted", result.Busted)
	return result, stats, nil
}

// playRound drives one round to the end with strategy making every decision.
// When the shoe runs dry the turn is reshuffled and the action retried once.
func playRound(bet *game.BetState, strategy bot.Strategy, amount game.Chip, reshuffle func(*game.PlayerTurnState) *game.PlayerTurnState) (*game.EndState, statistics.RoundResult, error) {
	var result statistics.RoundResult
	startBalance := bet.Table().Player().Balance()

	state, err := bet.PlaceBet(amount)
	for err == nil {
		switch st := state.(type) {
		case *game.InsuranceState:
			insurance := strategy.Insurance(st)
			result.Insured = insurance > 0
			state, err = st.BuyInsurance(insurance)

		case *game.PlayerTurnState:
			action := strategy.Decide(st)
			if action == game.Surrender {
				result.Surrendered = true
			}
			state, err = st.Apply(action)
			if errors.Is(err, game.ErrEmptyShoe) {
				state, err = reshuffle(st).Apply(action)
			}

		case *game.EndState:
			player := st.Table().Player()
			result.Net = int64(player.Balance()) - int64(startBalance)
			result.Outcome = st.Outcome()
			result.Splits = player.Splits()
			for i, h := range player.Hands() {
				result.Wagered += h.Stake()
				if h.Doubled() {
					result.Doubled = true
				}
				if i == 0 && h.Natural() {
					result.Natural = true
				}
			}
			return st, result, nil

		default:
			return nil, result, fmt.Errorf("unexpected %s phase", state.Phase())
		}
	}
	return nil, result, err
}
