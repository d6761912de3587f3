package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
)

// RoundState is one phase of a round: *BetState, *InsuranceState,
// *PlayerTurnState or *EndState. Each phase carries its own copy of the
// table and exposes only the operations that are legal in that phase.
// Operations never modify the state they are called on; they return the
// next state.
type RoundState interface {
	Phase() Phase
	Table() Table
	Rules() Rules
	roundState()
}

type round struct {
	table Table
	rules Rules
}

// Table returns a copy of the table
func (r round) Table() Table {
	return r.table.clone()
}

// Rules returns the rules the round is played under
func (r round) Rules() Rules {
	return r.rules
}

func (round) roundState() {}

// NewRound starts a new round at the betting phase. The player must not have
// any hands in play.
func NewRound(table Table, opts ...Option) *BetState {
	rules := DefaultRules()
	for _, opt := range opts {
		opt(&rules)
	}
	return &BetState{round{table: table.clone(), rules: rules}}
}

// BetState waits for the player's opening bet
type BetState struct {
	round
}

func (s *BetState) Phase() Phase { return PhaseBet }

// NeedsReshuffle returns true once the cut card has been reached or the shoe
// cannot deal another round.
func (s *BetState) NeedsReshuffle() bool {
	remaining := s.table.shoe.Remaining()
	return remaining < 4 || (s.rules.ReshuffleAt > 0 && remaining <= s.rules.ReshuffleAt)
}

// Reshuffle returns the discard tray to the shoe and shuffles it with src
func (s *BetState) Reshuffle(src deck.Source) *BetState {
	t := s.table.clone()
	t.reshuffle(src)
	return &BetState{round{table: t, rules: s.rules}}
}

// PlaceBet takes the player's bet and deals the opening cards: one up to the
// player, one up to the dealer, one up to the player and the dealer's hole
// card face down.
//
// Naturals are settled immediately. When the dealer's up card is an ace or
// ten-card and the player has no natural the round moves to insurance.
func (s *BetState) PlaceBet(amount Chip) (RoundState, error) {
	if s.table.player.NumHands() > 0 {
		return nil, ErrAlreadyPlaying
	}
	if err := s.rules.checkBet(amount); err != nil {
		return nil, err
	}
	if n := s.table.shoe.Remaining(); n < 4 {
		return nil, fmt.Errorf("%w: %d cards left, need 4", ErrEmptyShoe, n)
	}

	t := s.table.clone()
	if err := t.player.PlaceBet(amount); err != nil {
		return nil, err
	}
	for _, deal := range []func() error{
		func() error { return t.dealToPlayer(0, deck.FaceUp) },
		func() error { return t.dealToDealer(deck.FaceUp) },
		func() error { return t.dealToPlayer(0, deck.FaceUp) },
		func() error { return t.dealToDealer(deck.FaceDown) },
	} {
		if err := deal(); err != nil {
			return nil, err
		}
	}

	dealerShows := t.dealer.ShowsBlackjackCard()
	natural := t.player.hands[0].Natural()

	switch {
	case dealerShows && natural:
		if err := t.dealer.RevealCard(1); err != nil {
			return nil, err
		}
		if t.dealer.hand.Blackjack() {
			if err := t.push(0); err != nil {
				return nil, err
			}
			return endRound(t, s.rules, Push), nil
		}
		if err := t.win(0, s.rules.BlackjackPayout); err != nil {
			return nil, err
		}
		return endRound(t, s.rules, Win), nil

	case dealerShows:
		return &InsuranceState{round{table: t, rules: s.rules}}, nil

	case natural:
		if err := t.win(0, s.rules.BlackjackPayout); err != nil {
			return nil, err
		}
		return endRound(t, s.rules, Win), nil

	default:
		return &PlayerTurnState{round: round{table: t, rules: s.rules}, hand: 0}, nil
	}
}

// InsuranceState offers the player insurance against a dealer natural
type InsuranceState struct {
	round
}

func (s *InsuranceState) Phase() Phase { return PhaseInsurance }

// Reshuffle returns the discard tray to the shoe and shuffles it with src.
// Cards in play stay where they are.
func (s *InsuranceState) Reshuffle(src deck.Source) *InsuranceState {
	t := s.table.clone()
	t.reshuffle(src)
	return &InsuranceState{round{table: t, rules: s.rules}}
}

// MaxInsurance returns the largest insurance bet still allowed: half the bet,
// rounded down, less any insurance already bought.
func (s *InsuranceState) MaxInsurance() Chip {
	h := s.table.player.hands[0]
	limit := h.bet / 2
	if h.insurance >= limit {
		return 0
	}
	return limit - h.insurance
}

// BuyInsurance places an insurance bet of up to half the main bet, then the
// dealer checks the hole card. If the dealer has a natural the main bet is
// lost and insurance pays; otherwise insurance is lost and play continues.
func (s *InsuranceState) BuyInsurance(amount Chip) (RoundState, error) {
	if amount > s.MaxInsurance() {
		h := s.table.player.hands[0]
		return nil, fmt.Errorf("%w: %d + %d > %d", ErrOverInsurance, h.insurance, amount, h.bet/2)
	}
	t := s.table.clone()
	if amount > 0 {
		if err := t.player.BuyInsurance(0, amount); err != nil {
			return nil, err
		}
	}
	return s.revealHoleCard(t)
}

// PassInsurance declines insurance. It is the same as buying none.
func (s *InsuranceState) PassInsurance() (RoundState, error) {
	return s.BuyInsurance(0)
}

func (s *InsuranceState) revealHoleCard(t Table) (RoundState, error) {
	if err := t.dealer.RevealCard(1); err != nil {
		return nil, err
	}
	if t.dealer.hand.Blackjack() {
		if err := t.lose(0); err != nil {
			return nil, err
		}
		if err := t.payInsurance(0, s.rules.InsurancePayout); err != nil {
			return nil, err
		}
		return endRound(t, s.rules, Lose), nil
	}
	if err := t.takeInsurance(0); err != nil {
		return nil, err
	}
	return &PlayerTurnState{round: round{table: t, rules: s.rules}, hand: 0}, nil
}

// PlayerTurnState waits for the player to act on one of their hands
type PlayerTurnState struct {
	round
	hand int
}

func (s *PlayerTurnState) Phase() Phase { return PhasePlayerTurn }

// Reshuffle returns the discard tray to the shoe and shuffles it with src, so
// a round that ran the shoe dry can carry on. Cards in play stay where they
// are.
func (s *PlayerTurnState) Reshuffle(src deck.Source) *PlayerTurnState {
	t := s.table.clone()
	t.reshuffle(src)
	return &PlayerTurnState{round: round{table: t, rules: s.rules}, hand: s.hand}
}

// HandIndex returns the index of the hand being played
func (s *PlayerTurnState) HandIndex() int {
	return s.hand
}

// Hand returns a copy of the hand being played
func (s *PlayerTurnState) Hand() Hand {
	return s.table.player.hands[s.hand].clone()
}

// UpCard returns the dealer's up card
func (s *PlayerTurnState) UpCard() deck.Card {
	up, _ := s.table.dealer.UpCard()
	return up
}

// Actions returns the actions the player can take on the current hand
func (s *PlayerTurnState) Actions() []Action {
	var actions []Action
	for _, a := range []Action{Hit, Stand, DoubleDown, Split, Surrender} {
		if s.check(a) == nil {
			actions = append(actions, a)
		}
	}
	return actions
}

// Can reports whether action is currently legal
func (s *PlayerTurnState) Can(action Action) bool {
	return s.check(action) == nil
}

func (s *PlayerTurnState) check(action Action) error {
	p := s.table.player
	h := p.hands[s.hand]
	switch action {
	case Hit:
		if h.IsSplitAces() {
			return fmt.Errorf("%w: split aces take one card", ErrActionNotAllowed)
		}
	case Stand:
	case DoubleDown:
		if h.Len() != 2 || h.doubled || h.IsSplitAces() {
			return fmt.Errorf("%w: double down is only allowed on the first two cards", ErrActionNotAllowed)
		}
		if h.split && !s.rules.DoubleAfterSplit {
			return fmt.Errorf("%w: double after split is not allowed", ErrActionNotAllowed)
		}
		if p.Balance() < h.bet {
			return fmt.Errorf("%w: need %d to double, have %d", ErrInsufficientFunds, h.bet, p.Balance())
		}
	case Split:
		if err := h.CanSplit(); err != nil {
			return err
		}
		if p.splits >= p.splitLimit {
			return fmt.Errorf("%w: %d of %d", ErrSplitLimitReached, p.splits, p.splitLimit)
		}
		if p.Balance() < h.bet {
			return fmt.Errorf("%w: need %d to split, have %d", ErrInsufficientFunds, h.bet, p.Balance())
		}
	case Surrender:
		if len(p.hands) != 1 || p.splits > 0 || h.Len() != 2 || h.doubled {
			return fmt.Errorf("%w: surrender is only allowed as the first action", ErrActionNotAllowed)
		}
	default:
		return fmt.Errorf("%w: unknown action %d", ErrActionNotAllowed, action)
	}
	return nil
}

// Apply performs action on the current hand
func (s *PlayerTurnState) Apply(action Action) (RoundState, error) {
	switch action {
	case Hit:
		return s.Hit()
	case Stand:
		return s.Stand()
	case DoubleDown:
		return s.DoubleDown()
	case Split:
		return s.Split()
	case Surrender:
		return s.Surrender()
	default:
		return nil, fmt.Errorf("%w: unknown action %d", ErrActionNotAllowed, action)
	}
}

// Hit deals one card to the current hand. A bust loses the bet immediately;
// reaching 21 stands automatically.
func (s *PlayerTurnState) Hit() (RoundState, error) {
	if err := s.check(Hit); err != nil {
		return nil, err
	}
	t := s.table.clone()
	if err := t.dealToPlayer(s.hand, deck.FaceUp); err != nil {
		return nil, err
	}
	busted, err := s.afterDraw(&t, s.hand)
	if err != nil {
		return nil, err
	}
	if busted || t.player.hands[s.hand].stood {
		return s.advance(t, s.hand+1)
	}
	return &PlayerTurnState{round: round{table: t, rules: s.rules}, hand: s.hand}, nil
}

// Stand ends play on the current hand and moves to the next hand, or to the
// dealer once every hand has been played.
func (s *PlayerTurnState) Stand() (RoundState, error) {
	t := s.table.clone()
	t.player.hands[s.hand].stand()
	return s.advance(t, s.hand+1)
}

// DoubleDown doubles the bet on the current hand, deals exactly one more card
// and stands.
func (s *PlayerTurnState) DoubleDown() (RoundState, error) {
	if err := s.check(DoubleDown); err != nil {
		return nil, err
	}
	t := s.table.clone()
	if err := t.player.DoubleDown(s.hand); err != nil {
		return nil, err
	}
	if err := t.dealToPlayer(s.hand, deck.FaceUp); err != nil {
		return nil, err
	}
	if _, err := s.afterDraw(&t, s.hand); err != nil {
		return nil, err
	}
	t.player.hands[s.hand].stand()
	return s.advance(t, s.hand+1)
}

// Split splits the current pair into two hands, each backed by an equal bet
// and dealt one more card. Split aces are dealt one card each and stand.
func (s *PlayerTurnState) Split() (RoundState, error) {
	if err := s.check(Split); err != nil {
		return nil, err
	}
	t := s.table.clone()
	if err := t.player.SplitHand(s.hand); err != nil {
		return nil, err
	}
	aces := t.player.hands[s.hand].IsSplitAces()
	for _, i := range []int{s.hand, s.hand + 1} {
		if err := t.dealToPlayer(i, deck.FaceUp); err != nil {
			return nil, err
		}
		if aces {
			t.player.hands[i].stand()
			continue
		}
		if _, err := s.afterDraw(&t, i); err != nil {
			return nil, err
		}
	}
	return s.advance(t, s.hand)
}

// Surrender gives up the hand before taking any other action. The dealer
// keeps half the bet and the round ends.
func (s *PlayerTurnState) Surrender() (RoundState, error) {
	if err := s.check(Surrender); err != nil {
		return nil, err
	}
	t := s.table.clone()
	if err := t.surrender(s.hand); err != nil {
		return nil, err
	}
	return s.advance(t, s.hand+1)
}

// afterDraw settles a bust or stands a hand that reached 21
func (s *PlayerTurnState) afterDraw(t *Table, hand int) (busted bool, err error) {
	h := &t.player.hands[hand]
	score, err := h.Score()
	if err != nil {
		return false, err
	}
	switch {
	case score > 21:
		return true, t.lose(hand)
	case score == 21:
		h.stand()
	}
	return false, nil
}

// advance moves to the first hand at or after from that still needs to be
// played, or to the dealer.
func (s *PlayerTurnState) advance(t Table, from int) (RoundState, error) {
	for i := from; i < len(t.player.hands); i++ {
		if !t.player.hands[i].Done() {
			return &PlayerTurnState{round: round{table: t, rules: s.rules}, hand: i}, nil
		}
	}
	return playDealer(t, s.rules)
}

// playDealer reveals the hole card, draws to 17 if any hand is still live,
// then settles every remaining hand against the dealer.
func playDealer(t Table, rules Rules) (RoundState, error) {
	t.dealer.RevealAll()

	live := false
	for _, h := range t.player.hands {
		if !h.Finished() {
			live = true
			break
		}
	}

	if live {
		for {
			score, soft, err := t.dealer.hand.evaluate()
			if err != nil {
				return nil, err
			}
			if score > 17 || (score == 17 && !(soft && rules.DealerHitsSoft17)) {
				break
			}
			if err := t.dealToDealer(deck.FaceUp); err != nil {
				return nil, err
			}
		}

		dealerScore, err := t.dealer.hand.Score()
		if err != nil {
			return nil, err
		}
		for i, h := range t.player.hands {
			if h.Finished() {
				continue
			}
			score, err := h.Score()
			if err != nil {
				return nil, err
			}
			switch {
			case dealerScore > 21 || dealerScore < score:
				err = t.win(i, EvenMoney)
			case dealerScore == score:
				err = t.push(i)
			default:
				err = t.lose(i)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	return endRound(t, rules, roundOutcome(t.player.hands)), nil
}

// roundOutcome summarises the hands of a round. A single hand gives its own
// outcome; with several hands a shared outcome wins, otherwise the net
// result decides.
func roundOutcome(hands []Hand) Outcome {
	if len(hands) == 0 {
		return Undetermined
	}
	first := hands[0].outcome
	same := true
	var net int64
	for _, h := range hands {
		if h.outcome != first {
			same = false
		}
		switch h.outcome {
		case Win:
			net += int64(h.stake)
		case Lose:
			net -= int64(h.stake)
		case Forfeit:
			net -= int64(h.stake / 2)
		}
	}
	switch {
	case same:
		return first
	case net > 0:
		return Win
	case net < 0:
		return Lose
	default:
		return Push
	}
}

func endRound(t Table, rules Rules, outcome Outcome) *EndState {
	return &EndState{round: round{table: t, rules: rules}, outcome: outcome}
}

// EndState is a finished round
type EndState struct {
	round
	outcome Outcome
}

func (s *EndState) Phase() Phase { return PhaseEnd }

// Outcome returns the result of the round
func (s *EndState) Outcome() Outcome {
	return s.outcome
}

// PlayAgain clears the table into the discard tray and starts the next
// round with the bank balances carried over.
func (s *EndState) PlayAgain() *BetState {
	t := s.table.clone()
	t.collectCards()
	return &BetState{round{table: t, rules: s.rules}}
}
