// Package potmanager turns per-player chip contributions into side pots and
// pays them out. It is pure computation over chips and scores; it never
// touches wallets or game state.
package potmanager

import (
	"fmt"
	"sort"
)

// Contribution is one player's total chips committed to the hand
type Contribution struct {
	ID     string
	Seat   int
	Amount int
	Folded bool
}

// SidePot is a pot built from one contribution tier. Eligible lists the
// players who can win it, in seating order. contributors lists everyone whose
// chips are in it, folded players included, so a pot with no eligible winner
// can be refunded.
type SidePot struct {
	Amount       int
	Eligible     []string
	tierSize     int
	contributors []string
}

// Calculate builds side pots from the contributions. Pots are returned from
// the bottom tier up, and the sum of pot amounts always equals the sum of
// contributions.
func Calculate(contributions []Contribution) []SidePot {
	remaining := make([]Contribution, 0, len(contributions))
	for _, c := range contributions {
		if c.Amount < 0 {
			panic(fmt.Sprintf("negative contribution for %s: %d", c.ID, c.Amount))
		}

		if c.Amount > 0 {
			remaining = append(remaining, c)
		}
	}

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].Seat < remaining[j].Seat
	})

	var pots []SidePot
	for len(remaining) > 0 {
		tier := remaining[0].Amount
		for _, c := range remaining {
			if c.Amount < tier {
				tier = c.Amount
			}
		}

		pot := SidePot{
			Amount:   tier * len(remaining),
			tierSize: tier,
		}

		next := remaining[:0]
		for _, c := range remaining {
			pot.contributors = append(pot.contributors, c.ID)
			if !c.Folded {
				pot.Eligible = append(pot.Eligible, c.ID)
			}

			c.Amount -= tier
			if c.Amount > 0 {
				next = append(next, c)
			}
		}

		remaining = next
		pots = append(pots, pot)
	}

	return pots
}
