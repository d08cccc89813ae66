package holdem

import (
	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/poker/wallet"
)

// PlayerState is where a player stands in the hand
type PlayerState int

// valid player states
const (
	// Active players still have chips behind and may act
	Active PlayerState = iota
	// Folded players surrendered their cards and any chips committed
	Folded
	// AllIn players have every chip committed and ride to showdown
	AllIn
)

func (s PlayerState) String() string {
	switch s {
	case Active:
		return "active"
	case Folded:
		return "folded"
	case AllIn:
		return "all-in"
	}

	panic("unknown player state")
}

// Player is a participant in a single hand
type Player struct {
	ID string

	wallet            wallet.Wallet
	seat              int
	state             PlayerState
	hole              deck.Hand
	roundContribution int
	totalContribution int
}

// Seat returns the player's position in the hand, with 0 being the small blind
func (p *Player) Seat() int {
	return p.seat
}

// State returns the player's current state
func (p *Player) State() PlayerState {
	return p.state
}

// Balance returns the chips the player still has behind
func (p *Player) Balance() int {
	return p.wallet.Balance()
}

// RoundBet returns the chips the player has committed to the current
// betting round
func (p *Player) RoundBet() int {
	return p.roundContribution
}

// TotalBet returns the chips the player has committed across the whole hand
func (p *Player) TotalBet() int {
	return p.totalContribution
}

// HoleCards returns a copy of the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.hole.Clone()
}

// canAct reports whether the player may still take actions. Players with no
// chips behind are marked all-in the moment their last chip is committed, so
// an active player always has a positive balance.
func (p *Player) canAct() bool {
	return p.state == Active
}
