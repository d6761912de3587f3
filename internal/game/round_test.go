package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func TestPushReturnsBet(t *testing.T) {
	table := stackedTable("Ts 9h 8c 9d", 360)
	turn := as[*PlayerTurnState](t, mustBet(t, table, 90))

	assert.Equal(t, Chip(270), turn.Table().Player().Balance())
	assert.Equal(t, deck.NewCard(deck.Hearts, deck.Nine), turn.UpCard())

	state, err := turn.Stand()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	assert.Equal(t, Push, end.Outcome())
	assert.Equal(t, Chip(360), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank, end.Table().Dealer().Balance())
	assert.True(t, end.Table().Dealer().Hand().Revealed())
}

func TestNaturalPaysThreeToTwoRoundedUp(t *testing.T) {
	state := mustBet(t, stackedTable("As 9h Kd 7c", 100), 5)
	end := as[*EndState](t, state)

	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, Chip(108), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank-8, end.Table().Dealer().Balance())
}

func TestNaturalWithCustomPayout(t *testing.T) {
	state := mustBet(t, stackedTable("As 9h Kd 7c", 100), 10, WithBlackjackPayout(Ratio{Numerator: 6, Denominator: 5}))
	end := as[*EndState](t, state)
	assert.Equal(t, Chip(112), end.Table().Player().Balance())
}

func TestNaturalAgainstDealerShowingBlackjackCard(t *testing.T) {
	t.Run("dealer natural pushes", func(t *testing.T) {
		end := as[*EndState](t, mustBet(t, stackedTable("As Ah Kd Qc", 100), 10))
		assert.Equal(t, Push, end.Outcome())
		assert.Equal(t, Chip(100), end.Table().Player().Balance())
		assert.True(t, end.Table().Dealer().Hand().Blackjack())
	})

	t.Run("no dealer natural wins", func(t *testing.T) {
		end := as[*EndState](t, mustBet(t, stackedTable("As Kh Kd 5c", 100), 10))
		assert.Equal(t, Win, end.Outcome())
		assert.Equal(t, Chip(115), end.Table().Player().Balance())
	})
}

func TestBustLosesImmediately(t *testing.T) {
	table := stackedTable("Ts 9h 6c 8d Kc 5d", 100)
	turn := as[*PlayerTurnState](t, mustBet(t, table, 10))

	state, err := turn.Hit()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	assert.Equal(t, Lose, end.Outcome())
	assert.Equal(t, Chip(90), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank+10, end.Table().Dealer().Balance())
	assert.Equal(t, 2, end.Table().Dealer().Hand().Len(), "dealer does not draw against a bust")
	assert.Equal(t, 1, end.Table().Shoe().Remaining())
}

func TestHitToTwentyOneStands(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("Ts 9h 5c 8d 6d", 100), 10))

	state, err := turn.Hit()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, Chip(110), end.Table().Player().Balance())
}

func TestHitKeepsTurn(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("2s 9h 3c 8d 4d", 100), 10))

	state, err := turn.Hit()
	require.NoError(t, err)
	next := as[*PlayerTurnState](t, state)
	assert.Equal(t, 3, next.Hand().Len())
	assert.Equal(t, 0, next.HandIndex())

	assert.Equal(t, 2, turn.Hand().Len(), "previous snapshot is unchanged")
	assert.Equal(t, 1, turn.Table().Shoe().Remaining())
}

func TestInsurance(t *testing.T) {
	t.Run("dealer natural pays insurance", func(t *testing.T) {
		ins := as[*InsuranceState](t, mustBet(t, stackedTable("Ts As 9c Kd", 100), 20))
		assert.Equal(t, Chip(10), ins.MaxInsurance())

		_, err := ins.BuyInsurance(11)
		assert.ErrorIs(t, err, ErrOverInsurance)

		state, err := ins.BuyInsurance(10)
		require.NoError(t, err)
		end := as[*EndState](t, state)

		assert.Equal(t, Lose, end.Outcome())
		// net change is -bet + 2 * insurance
		assert.Equal(t, Chip(100), end.Table().Player().Balance())
		assert.Equal(t, testDealerBank, end.Table().Dealer().Balance())
	})

	t.Run("dealer natural without insurance", func(t *testing.T) {
		ins := as[*InsuranceState](t, mustBet(t, stackedTable("Ts As 9c Kd", 100), 20))
		state, err := ins.PassInsurance()
		require.NoError(t, err)
		end := as[*EndState](t, state)
		assert.Equal(t, Lose, end.Outcome())
		assert.Equal(t, Chip(80), end.Table().Player().Balance())
	})

	t.Run("insurance lost and play continues", func(t *testing.T) {
		ins := as[*InsuranceState](t, mustBet(t, stackedTable("Ts As 9c 7d", 100), 20))
		state, err := ins.BuyInsurance(5)
		require.NoError(t, err)
		turn := as[*PlayerTurnState](t, state)

		assert.Equal(t, Chip(0), turn.Hand().Insurance())
		assert.Equal(t, testDealerBank+5, turn.Table().Dealer().Balance())

		state, err = turn.Stand()
		require.NoError(t, err)
		end := as[*EndState](t, state)

		assert.Equal(t, Win, end.Outcome())
		assert.Equal(t, Chip(115), end.Table().Player().Balance())
		assert.Equal(t, testDealerBank-15, end.Table().Dealer().Balance())
	})

	t.Run("offered on a ten up card", func(t *testing.T) {
		ins := as[*InsuranceState](t, mustBet(t, stackedTable("9s Kh 9c 7d", 100), 20))
		state, err := ins.PassInsurance()
		require.NoError(t, err)
		turn := as[*PlayerTurnState](t, state)
		assert.True(t, turn.Table().Dealer().Hand().Revealed())
	})

	t.Run("insufficient funds", func(t *testing.T) {
		ins := as[*InsuranceState](t, mustBet(t, stackedTable("Ts As 9c Kd", 25), 20))
		_, err := ins.BuyInsurance(10)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestDoubleDown(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("6s 9h 5c 8d Ts", 100), 10))
	assert.Equal(t, []Action{Hit, Stand, DoubleDown, Surrender}, turn.Actions())

	state, err := turn.DoubleDown()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	hand, err := end.Table().Player().Hand(0)
	require.NoError(t, err)
	assert.True(t, hand.Doubled())
	assert.Equal(t, Chip(20), hand.Stake())
	assert.Equal(t, 3, hand.Len())

	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, Chip(120), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank-20, end.Table().Dealer().Balance())
}

func TestDoubleDownRestrictions(t *testing.T) {
	t.Run("only on two cards", func(t *testing.T) {
		turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("2s 9h 3c 8d 4d", 100), 10))
		state, err := turn.Hit()
		require.NoError(t, err)
		turn = as[*PlayerTurnState](t, state)

		assert.False(t, turn.Can(DoubleDown))
		_, err = turn.DoubleDown()
		assert.ErrorIs(t, err, ErrActionNotAllowed)
	})

	t.Run("needs funds", func(t *testing.T) {
		turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("6s 9h 5c 8d Ts", 15), 10))
		_, err := turn.DoubleDown()
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestSurrender(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("Ts 9h 6c 8d", 100), 11))

	state, err := turn.Surrender()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	assert.Equal(t, Forfeit, end.Outcome())
	assert.Equal(t, Chip(95), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank+5, end.Table().Dealer().Balance())
}

func TestSurrenderOnlyAsFirstAction(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("2s 9h 3c 8d 4d", 100), 10))
	state, err := turn.Hit()
	require.NoError(t, err)

	_, err = as[*PlayerTurnState](t, state).Surrender()
	assert.ErrorIs(t, err, ErrActionNotAllowed)
}

func TestSplitPlaysHandsInOrder(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("8s 9h 8c 7d Kd Ts Tc", 100), 10))
	require.True(t, turn.Can(Split))

	state, err := turn.Split()
	require.NoError(t, err)
	first := as[*PlayerTurnState](t, state)
	assert.Equal(t, 0, first.HandIndex())
	assert.Equal(t, Chip(80), first.Table().Player().Balance())

	hands := first.Table().Player().Hands()
	require.Len(t, hands, 2)
	assert.Equal(t, "[8♠ K♦] bet=10", hands[0].String())
	assert.Equal(t, "[8♣ T♠] bet=10", hands[1].String())
	assert.True(t, hands[0].IsSplit())
	assert.True(t, hands[1].IsSplit())

	state, err = first.Stand()
	require.NoError(t, err)
	second := as[*PlayerTurnState](t, state)
	assert.Equal(t, 1, second.HandIndex())

	state, err = second.Stand()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, Chip(120), end.Table().Player().Balance())
	assert.Equal(t, testDealerBank-20, end.Table().Dealer().Balance())
}

func TestSplitLimit(t *testing.T) {
	deal := "8s 9h 8c 7d 8d 2c"

	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable(deal, 100), 10))
	state, err := turn.Split()
	require.NoError(t, err)
	assert.True(t, as[*PlayerTurnState](t, state).Can(Split))

	limited := NewTable(stackedShoe(deal), NewDealer(testDealerBank), NewPlayer(100).WithSplitLimit(1))
	turn = as[*PlayerTurnState](t, mustBet(t, limited, 10))
	state, err = turn.Split()
	require.NoError(t, err)

	next := as[*PlayerTurnState](t, state)
	assert.False(t, next.Can(Split))
	_, err = next.Split()
	assert.ErrorIs(t, err, ErrSplitLimitReached)
}

func TestSplitAcesTakeOneCard(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("As 9h Ac 7d Kd 5c Tc", 100), 10))

	state, err := turn.Split()
	require.NoError(t, err)
	end := as[*EndState](t, state)

	hands := end.Table().Player().Hands()
	require.Len(t, hands, 2)
	assert.True(t, hands[0].Blackjack())
	assert.False(t, hands[0].Natural())
	assert.Equal(t, 2, hands[1].Len())

	// ace and ten after a split pays even money
	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, Chip(120), end.Table().Player().Balance())
}

func TestSplitNonPair(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("9s 9h 8c 7d", 100), 10))
	assert.False(t, turn.Can(Split))
	_, err := turn.Split()
	assert.ErrorIs(t, err, ErrCannotSplitDifferentDenominations)
}

func TestDoubleAfterSplit(t *testing.T) {
	deal := "5s 9h 5c 7d 6d 4c"

	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable(deal, 100), 10))
	state, err := turn.Split()
	require.NoError(t, err)
	assert.True(t, as[*PlayerTurnState](t, state).Can(DoubleDown))

	turn = as[*PlayerTurnState](t, mustBet(t, stackedTable(deal, 100), 10, WithDoubleAfterSplit(false)))
	state, err = turn.Split()
	require.NoError(t, err)
	assert.False(t, as[*PlayerTurnState](t, state).Can(DoubleDown))
}

func TestDealerSoft17(t *testing.T) {
	deal := "Ts 6h Tc Ad 4c"

	t.Run("stands by default", func(t *testing.T) {
		turn := as[*PlayerTurnState](t, mustBet(t, stackedTable(deal, 100), 10))
		state, err := turn.Stand()
		require.NoError(t, err)
		end := as[*EndState](t, state)
		assert.Equal(t, Win, end.Outcome())
		assert.Equal(t, 2, end.Table().Dealer().Hand().Len())
	})

	t.Run("hits when configured", func(t *testing.T) {
		turn := as[*PlayerTurnState](t, mustBet(t, stackedTable(deal, 100), 10, WithDealerHitsSoft17(true)))
		state, err := turn.Stand()
		require.NoError(t, err)
		end := as[*EndState](t, state)
		assert.Equal(t, Lose, end.Outcome())
		assert.Equal(t, 3, end.Table().Dealer().Hand().Len())
	})
}

func TestPlaceBetErrors(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		bet := NewRound(stackedTable("Ts 9h 8c 9d", 100), WithBetLimits(5, 50))
		_, err := bet.PlaceBet(4)
		assert.ErrorIs(t, err, ErrBetOutOfRange)
		_, err = bet.PlaceBet(51)
		assert.ErrorIs(t, err, ErrBetOutOfRange)
		_, err = bet.PlaceBet(50)
		assert.NoError(t, err)
	})

	t.Run("zero bet", func(t *testing.T) {
		_, err := NewRound(stackedTable("Ts 9h 8c 9d", 100)).PlaceBet(0)
		assert.ErrorIs(t, err, ErrBetOutOfRange)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		bet := NewRound(stackedTable("Ts 9h 8c 9d", 100))
		_, err := bet.PlaceBet(101)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		assert.Equal(t, Chip(100), bet.Table().Player().Balance())
		assert.Equal(t, 4, bet.Table().Shoe().Remaining())
	})

	t.Run("already playing", func(t *testing.T) {
		player := NewPlayer(100).WithHands(NewHand(10))
		table := NewTable(stackedShoe("Ts 9h 8c 9d"), NewDealer(testDealerBank), player)
		_, err := NewRound(table).PlaceBet(10)
		assert.ErrorIs(t, err, ErrAlreadyPlaying)
	})

	t.Run("short shoe", func(t *testing.T) {
		_, err := NewRound(stackedTable("Ts 9h 8c", 100)).PlaceBet(10)
		assert.ErrorIs(t, err, ErrEmptyShoe)
		assert.ErrorIs(t, err, deck.ErrEmpty)
	})
}

func TestPlayAgainAndReshuffle(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("Ts 9h 8c 9d", 360), 90))
	state, err := turn.Stand()
	require.NoError(t, err)

	next := as[*EndState](t, state).PlayAgain()
	table := next.Table()
	assert.Equal(t, 0, table.Player().NumHands())
	assert.Equal(t, 0, table.Dealer().Hand().Len())
	assert.Len(t, table.Discard(), 4)
	assert.Equal(t, Chip(360), table.Player().Balance())
	assert.True(t, next.NeedsReshuffle())

	_, err = next.PlaceBet(10)
	assert.ErrorIs(t, err, ErrEmptyShoe)

	shuffled := next.Reshuffle(randutil.New(1))
	assert.False(t, shuffled.NeedsReshuffle())
	assert.Equal(t, 4, shuffled.Table().Shoe().Remaining())
	assert.Empty(t, shuffled.Table().Discard())
	assert.Len(t, next.Table().Discard(), 4, "previous snapshot is unchanged")

	_, err = shuffled.PlaceBet(10)
	assert.NoError(t, err)
}

func TestReshuffleAtCutCard(t *testing.T) {
	table := NewTable(deck.NewShoe(1), NewDealer(testDealerBank), NewPlayer(100))
	assert.False(t, NewRound(table, WithReshuffleAt(10)).NeedsReshuffle())
	assert.True(t, NewRound(table, WithReshuffleAt(52)).NeedsReshuffle())
}

// secondRound plays a winning round from the top of deal and returns the
// betting state for the next one, leaving four cards in the discard tray.
func secondRound(t *testing.T, deal string) *BetState {
	t.Helper()
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("Ts 9h Tc 8d "+deal, 100), 10))
	state, err := turn.Stand()
	require.NoError(t, err)
	next := as[*EndState](t, state).PlayAgain()
	require.Len(t, next.Table().Discard(), 4)
	return next
}

func TestReshuffleMidRound(t *testing.T) {
	// Player 14 against dealer 16, with the four remaining cards all dealt
	bet := secondRound(t, "9s 9h 5c 7d")
	require.False(t, bet.NeedsReshuffle())
	state, err := bet.PlaceBet(10)
	require.NoError(t, err)
	turn := as[*PlayerTurnState](t, state)
	require.Zero(t, turn.Table().Shoe().Remaining())

	_, err = turn.Stand()
	assert.ErrorIs(t, err, ErrEmptyShoe)
	_, err = turn.Hit()
	assert.ErrorIs(t, err, ErrEmptyShoe)
	assert.Equal(t, Chip(100), turn.Table().Player().Balance())

	shuffled := turn.Reshuffle(randutil.New(1))
	assert.Equal(t, 4, shuffled.Table().Shoe().Remaining())
	assert.Empty(t, shuffled.Table().Discard())
	assert.Equal(t, turn.Hand().String(), shuffled.Hand().String())
	assert.Equal(t, 0, shuffled.HandIndex())
	assert.Len(t, turn.Table().Discard(), 4, "previous snapshot is unchanged")

	// The tray holds Ts Tc 9h 8d so the dealer busts on any of them
	state, err = shuffled.Stand()
	require.NoError(t, err)
	end := as[*EndState](t, state)
	assert.Equal(t, Win, end.Outcome())
	assert.Equal(t, 3, end.Table().Shoe().Remaining())
	assert.Equal(t, Chip(120), end.Table().Player().Balance())
}

func TestReshuffleDuringInsurance(t *testing.T) {
	bet := secondRound(t, "9s As 5c 7d")
	state, err := bet.PlaceBet(10)
	require.NoError(t, err)
	insurance := as[*InsuranceState](t, state)

	shuffled := insurance.Reshuffle(randutil.New(1))
	assert.Equal(t, 4, shuffled.Table().Shoe().Remaining())
	assert.Empty(t, shuffled.Table().Discard())
	assert.Equal(t, Chip(5), shuffled.MaxInsurance())

	state, err = shuffled.PassInsurance()
	require.NoError(t, err)
	assert.IsType(t, &PlayerTurnState{}, state)
}

func TestApplyMatchesActions(t *testing.T) {
	turn := as[*PlayerTurnState](t, mustBet(t, stackedTable("Ts 9h 8c 9d", 100), 10))
	state, err := turn.Apply(Stand)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnd, state.Phase())

	_, err = turn.Apply(Action(42))
	assert.ErrorIs(t, err, ErrActionNotAllowed)
}

func TestRoundOutcome(t *testing.T) {
	settled := func(outcome Outcome, stake Chip) Hand {
		h := NewHand(stake)
		h.outcome = outcome
		return h
	}

	assert.Equal(t, Undetermined, roundOutcome(nil))
	assert.Equal(t, Forfeit, roundOutcome([]Hand{settled(Forfeit, 10)}))
	assert.Equal(t, Push, roundOutcome([]Hand{settled(Push, 10), settled(Push, 10)}))
	assert.Equal(t, Lose, roundOutcome([]Hand{settled(Win, 10), settled(Lose, 20)}))
	assert.Equal(t, Win, roundOutcome([]Hand{settled(Win, 10), settled(Push, 10)}))
	assert.Equal(t, Push, roundOutcome([]Hand{settled(Win, 10), settled(Lose, 10)}))
}

func TestChipsAreConserved(t *testing.T) {
	rng := randutil.New(99)
	shoe := deck.NewShoe(4)
	shoe.Shuffle(rng)
	table := NewTable(shoe, NewDealer(1_000_000), NewPlayer(100_000))
	total := table.Chips()

	bet := NewRound(table, WithReshuffleAt(60))
	for i := 0; i < 500; i++ {
		if bet.NeedsReshuffle() {
			bet = bet.Reshuffle(rng)
		}
		state, err := bet.PlaceBet(Chip(1 + rng.IntN(20)))
		require.NoError(t, err)

		for state.Phase() != PhaseEnd {
			require.Equal(t, total, state.Table().Chips())
			switch s := state.(type) {
			case *InsuranceState:
				state, err = s.BuyInsurance(Chip(rng.IntN(int(s.MaxInsurance()) + 1)))
			case *PlayerTurnState:
				actions := s.Actions()
				require.NotEmpty(t, actions)
				state, err = s.Apply(actions[rng.IntN(len(actions))])
			}
			require.NoError(t, err)
		}

		end := as[*EndState](t, state)
		require.Equal(t, total, end.Table().Chips())
		for _, h := range end.Table().Player().Hands() {
			assert.True(t, h.Finished())
			assert.Equal(t, Chip(0), h.Bet())
			assert.Equal(t, Chip(0), h.Insurance())
		}
		bet = end.PlayAgain()
	}
}

func TestParseRatio(t *testing.T) {
	r, err := ParseRatio(" 6 : 5 ")
	require.NoError(t, err)
	assert.Equal(t, Ratio{Numerator: 6, Denominator: 5}, r)
	assert.Equal(t, "6:5", r.String())

	for _, bad := range []string{"3", "0:1", "1:0", "a:b", ""} {
		_, err := ParseRatio(bad)
		assert.Error(t, err, bad)
	}
}

func TestRatioApplyRoundsUp(t *testing.T) {
	assert.Equal(t, Chip(8), BlackjackPays.Apply(5))
	assert.Equal(t, Chip(15), BlackjackPays.Apply(10))
	assert.Equal(t, Chip(14), InsurancePays.Apply(7))
	assert.Equal(t, Chip(9), EvenMoney.Apply(9))
	assert.Equal(t, Chip(6), Ratio{Numerator: 6, Denominator: 5}.Apply(5))
}

func TestParseAction(t *testing.T) {
	for input, want := range map[string]Action{
		"h": Hit, "Stand": Stand, "double": DoubleDown, "p": Split, "surrender": Surrender,
	} {
		got, err := ParseAction(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseAction("fold")
	assert.Error(t, err)
}
