package wallet

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is an error when an authorization exceeds the wallet balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// Wallet provides an interface for moving a player's chips in and out of a hand.
// Authorize reserves chips against a specific hand; Approve finalizes every
// authorization for that hand once it has been settled. Implementations backed
// by shared storage must provide their own locking; the engine assumes a single
// caller per hand.
type Wallet interface {
	// Balance returns the spendable chip balance
	Balance() int
	// Authorize moves chips from the balance into the hand's escrow
	Authorize(handID string, amount int) error
	// Authorized returns the chips held in escrow for the hand
	Authorized(handID string) int
	// Credit adds winnings (or refunds) to the balance
	Credit(amount int)
	// Approve closes out the hand's escrow after settlement
	Approve(handID string)
}

// InMemory is a Wallet held entirely in memory. It is suitable for tests and
// for hosts that reconcile durable balances themselves.
type InMemory struct {
	balance    int
	authorized map[string]int
}

// NewInMemory returns an in-memory wallet with the given starting balance
func NewInMemory(balance int) *InMemory {
	if balance < 0 {
		panic("wallet: balance cannot be negative")
	}

	return &InMemory{
		balance:    balance,
		authorized: make(map[string]int),
	}
}

// Balance returns the spendable chip balance
func (w *InMemory) Balance() int {
	return w.balance
}

// Authorize moves chips from the balance into the hand's escrow
func (w *InMemory) Authorize(handID string, amount int) error {
	if amount < 0 {
		return fmt.Errorf("cannot authorize a negative amount: %d", amount)
	}

	if amount > w.balance {
		return ErrInsufficientFunds
	}

	w.balance -= amount
	w.authorized[handID] += amount
	return nil
}

// Authorized returns the chips held in escrow for the hand
func (w *InMemory) Authorized(handID string) int {
	return w.authorized[handID]
}

// Credit adds winnings (or refunds) to the balance
func (w *InMemory) Credit(amount int) {
	if amount < 0 {
		panic("wallet: cannot credit a negative amount")
	}

	w.balance += amount
}

// Approve closes out the hand's escrow after settlement
func (w *InMemory) Approve(handID string) {
	delete(w.authorized, handID)
}
