// Package eval defines the hand-evaluator capability the settlement engine
// consumes. The engine never ranks hands itself; it only requires that equal
// scores are true payout ties and that a higher score beats a lower one.
package eval

import (
	"holdem-engine/pkg/deck"
)

// Score is a totally ordered hand strength. Higher is better, and two hands
// with equal scores split pots they are both eligible for.
type Score int

// Evaluator scores a player's best five-card hand from their hole cards and
// the community cards
type Evaluator interface {
	Evaluate(hole, board deck.Hand) (Score, deck.Hand, error)
}
