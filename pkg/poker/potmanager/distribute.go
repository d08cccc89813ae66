package potmanager

import (
	"fmt"

	"holdem-engine/pkg/poker/eval"
)

// Distribute pays each pot to the best-scoring eligible players. Ties split
// evenly, with odd chips going to the tied winners earliest in seating order.
// A pot with no eligible player is refunded to its contributors. The returned
// payouts always sum to the pot amounts; any imbalance is an error.
func Distribute(pots []SidePot, scores map[string]eval.Score) (map[string]int, error) {
	payouts := make(map[string]int)

	for i, pot := range pots {
		if len(pot.Eligible) == 0 {
			// every contributor paid exactly the tier size, so the
			// refund divides evenly
			for _, id := range pot.contributors {
				payouts[id] += pot.tierSize
			}

			continue
		}

		var winners []string
		best := eval.Score(-1)
		for _, id := range pot.Eligible {
			score, ok := scores[id]
			if !ok {
				return nil, fmt.Errorf("no score for eligible player %s in pot %d", id, i)
			}

			switch {
			case score > best:
				best = score
				winners = []string{id}
			case score == best:
				winners = append(winners, id)
			}
		}

		share := pot.Amount / len(winners)
		remainder := pot.Amount % len(winners)
		for j, id := range winners {
			payouts[id] += share
			if j < remainder {
				payouts[id]++
			}
		}
	}

	total := 0
	for _, pot := range pots {
		total += pot.Amount
	}

	paid := 0
	for _, amount := range payouts {
		paid += amount
	}

	if paid != total {
		return nil, fmt.Errorf("paid %d chips from pots worth %d", paid, total)
	}

	return payouts, nil
}
