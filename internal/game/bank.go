package game

import "fmt"

// Chip is the unsigned currency unit used for all wagers and balances
type Chip uint64

// Bank holds a chip balance. The balance can never go negative.
type Bank struct {
	balance Chip
}

// NewBank creates a bank with an opening balance
func NewBank(balance Chip) Bank {
	return Bank{balance: balance}
}

// Balance returns the current balance
func (b Bank) Balance() Chip {
	return b.balance
}

// Deposit adds chips to the bank
func (b *Bank) Deposit(amount Chip) {
	b.balance += amount
}

// Withdraw removes chips from the bank, failing if the balance does not
// cover the amount.
func (b *Bank) Withdraw(amount Chip) error {
	if amount > b.balance {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, amount, b.balance)
	}
	b.balance -= amount
	return nil
}

func (b Bank) String() string {
	return fmt.Sprintf("%d", b.balance)
}
