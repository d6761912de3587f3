// Package game implements a single player Blackjack round against a dealer.
//
// A round is a small state machine. Each phase is its own type and only
// exposes the operations that are legal in that phase:
//
//	BetState -> InsuranceState -> PlayerTurnState -> EndState
//
// Every operation returns a new state and leaves the state it was called on
// untouched, so a snapshot can be kept, replayed or compared. Failed
// operations return an error and no state.
//
// # Basic Usage
//
//	shoe := deck.NewShoe(6)
//	shoe.Shuffle(randutil.New(42))
//	table := game.NewTable(shoe, game.NewDealer(10000), game.NewPlayer(500))
//
//	var state game.RoundState = game.NewRound(table)
//	state, err := state.(*game.BetState).PlaceBet(10)
//	for err == nil {
//		switch s := state.(type) {
//		case *game.InsuranceState:
//			state, err = s.PassInsurance()
//		case *game.PlayerTurnState:
//			state, err = s.Stand()
//		case *game.EndState:
//			fmt.Println(s.Outcome())
//			return
//		}
//	}
//
// # Money
//
// Balances are unsigned Chips held in a Bank. Settlement only moves chips
// between the player, the dealer and the bets on the table, so
// Table.Chips is the same before and after every operation. Payout ratios
// are odds and round up to a whole chip, e.g. a 3:2 natural on a bet of 5
// pays 8.
//
// # Deterministic Testing
//
// The shoe deals from the end of its card slice. Build a shoe with
// deck.NewShoeWithCards to script exact deals, or shuffle with a seeded
// source from the randutil package.
package game
