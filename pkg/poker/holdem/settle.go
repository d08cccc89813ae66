package holdem

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/poker/eval"
	"holdem-engine/pkg/poker/potmanager"
)

// Result is one player's payout from a settled hand
type Result struct {
	PlayerID string
	Seat     int
	Amount   int
	// Score and WinningHand are set only when the hand was decided at a
	// showdown; a win by everyone else folding shows no cards
	Score       eval.Score
	WinningHand deck.Hand
}

// SettleShowdown ends the hand and pays the winners. With one contender left
// it can be called on any street; otherwise every street must have been
// dealt and the final round closed. Winnings are credited to wallets, every
// escrow for the hand is approved, and the chips paid always equal the chips
// contributed. A second call returns ErrHandSettled.
func (h *Hand) SettleShowdown() ([]Result, error) {
	if h.settled {
		return nil, ErrHandSettled
	}

	contenders := h.countContenders()
	if contenders > 1 && (h.street != Showdown || !h.isRoundClosed()) {
		return nil, ErrOpenBet
	}

	h.commitRound()

	var (
		payouts map[string]int
		scores  map[string]eval.Score
		bests   map[string]deck.Hand
	)

	if contenders == 1 {
		for _, p := range h.players {
			if p.state != Folded {
				payouts = map[string]int{p.ID: h.pot}
				break
			}
		}
	} else {
		scores = make(map[string]eval.Score)
		bests = make(map[string]deck.Hand)
		for _, p := range h.players {
			if p.state == Folded {
				continue
			}

			score, best, err := h.evaluator.Evaluate(p.hole, h.community)
			if err != nil {
				return nil, fmt.Errorf("evaluating %s: %w", p.ID, err)
			}

			scores[p.ID] = score
			bests[p.ID] = best
		}

		contributions := make([]potmanager.Contribution, len(h.players))
		for i, p := range h.players {
			contributions[i] = potmanager.Contribution{
				ID:     p.ID,
				Seat:   p.seat,
				Amount: p.totalContribution,
				Folded: p.state == Folded,
			}
		}

		var err error
		payouts, err = potmanager.Distribute(potmanager.Calculate(contributions), scores)
		if err != nil {
			return nil, fmt.Errorf("distributing pots: %w", err)
		}
	}

	if err := h.checkConservation(payouts); err != nil {
		return nil, err
	}

	for id, amount := range payouts {
		h.player(id).wallet.Credit(amount)
	}

	for _, p := range h.players {
		p.wallet.Approve(h.id)
	}

	h.settled = true
	h.street = Showdown
	h.actingIndex = -1

	results := make([]Result, 0, len(payouts))
	for id, amount := range payouts {
		p := h.player(id)
		results = append(results, Result{
			PlayerID:    id,
			Seat:        p.seat,
			Amount:      amount,
			Score:       scores[id],
			WinningHand: bests[id],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Seat < results[j].Seat
	})

	for _, r := range results {
		h.logger.WithFields(logrus.Fields{
			"player": r.PlayerID,
			"amount": r.Amount,
		}).Infof("%s wins %d", r.PlayerID, r.Amount)
	}

	return results, nil
}

// checkConservation verifies that the chips about to be paid equal the chips
// the players put in. A mismatch leaves the hand unsettled and is logged
// with the full ledger.
func (h *Hand) checkConservation(payouts map[string]int) error {
	contributed := 0
	for _, p := range h.players {
		contributed += p.totalContribution
	}

	paid := 0
	for _, amount := range payouts {
		paid += amount
	}

	if paid == contributed && h.pot == contributed {
		return nil
	}

	fields := logrus.Fields{
		"pot":         h.pot,
		"contributed": contributed,
		"paid":        paid,
	}
	for _, p := range h.players {
		fields["contributed."+p.ID] = p.totalContribution
	}
	for id, amount := range payouts {
		fields["paid."+id] = amount
	}

	h.logger.WithFields(fields).Error("chip totals do not balance")
	return ErrChipLeak
}
