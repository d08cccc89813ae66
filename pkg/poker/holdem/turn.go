package holdem

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"holdem-engine/pkg/poker/action"
)

// TurnResultType says what an action did to the flow of the hand
type TurnResultType int

// turn result types
const (
	// TurnContinue means betting continues with NextPlayerID
	TurnContinue TurnResultType = iota
	// TurnEndRound means the betting round closed; call AdvanceStreet
	TurnEndRound
	// TurnEndHand means one player remains; call SettleShowdown
	TurnEndHand
)

// TurnResult describes the outcome of a single action
type TurnResult struct {
	Type TurnResultType
	// NextPlayerID is the player to act next, set only for TurnContinue
	NextPlayerID string
	// Committed is exactly how many chips the action moved into the
	// player's round contribution
	Committed int
}

// ApplyAction performs an action for the player whose turn it is. Invalid
// actions and out-of-turn attempts leave the hand untouched. A bet or raise
// the player cannot afford returns wallet.ErrInsufficientFunds; the caller
// may substitute an all-in.
func (h *Hand) ApplyAction(playerID string, act action.Action, amount int) (TurnResult, error) {
	if h.settled {
		return TurnResult{}, ErrHandSettled
	}

	if h.street == Showdown {
		return TurnResult{}, ErrHandComplete
	}

	if h.actingIndex < 0 {
		return TurnResult{}, InvalidActionError("no action is pending")
	}

	p := h.players[h.actingIndex]
	if p.ID != playerID {
		return TurnResult{}, InvalidActionError(fmt.Sprintf("it is not %s's turn", playerID))
	}

	prevMax := h.maxRoundBet
	committed, err := h.apply(p, act, amount)
	if err != nil {
		return TurnResult{}, err
	}

	if h.maxRoundBet > prevMax {
		// the aggressor closes the round once action returns to them
		h.closingPlayerID = p.ID
		h.closerHasActed = false
	}

	if p.ID == h.closingPlayerID {
		h.closerHasActed = true
	}

	logAmount := p.roundContribution
	if act == action.Call {
		logAmount = committed
	}

	h.logger.WithFields(logrus.Fields{
		"player": p.ID,
		"street": h.street.String(),
		"action": string(act),
		"amount": committed,
	}).Infof("%s %s", p.ID, act.LogMessage(logAmount))

	return h.processTurn(p, committed)
}

// processTurn decides what happens after an action: the hand ends, the round
// closes, or play moves to the next player
func (h *Hand) processTurn(p *Player, committed int) (TurnResult, error) {
	if h.countContenders() <= 1 {
		h.actingIndex = -1
		return TurnResult{Type: TurnEndHand, Committed: committed}, nil
	}

	if h.isRoundClosed() {
		h.actingIndex = -1
		return TurnResult{Type: TurnEndRound, Committed: committed}, nil
	}

	next := h.nextActiveFrom((p.seat + 1) % len(h.players))
	if next < 0 {
		// everyone left is all-in
		h.actingIndex = -1
		return TurnResult{Type: TurnEndRound, Committed: committed}, nil
	}

	h.actingIndex = next
	return TurnResult{
		Type:         TurnContinue,
		NextPlayerID: h.players[next].ID,
		Committed:    committed,
	}, nil
}

// AdvanceStreet closes out the current betting round, deals the next
// street's community cards, and opens the next round. Once fewer than two
// players can act, each remaining street opens with no betting and the
// caller advances straight through to the showdown.
func (h *Hand) AdvanceStreet() (Street, error) {
	if h.settled {
		return h.street, ErrHandSettled
	}

	if h.street == Showdown {
		return h.street, ErrHandComplete
	}

	if !h.isRoundClosed() {
		return h.street, ErrOpenBet
	}

	h.commitRound()
	h.street++

	for i := 0; i < h.street.communityCards(); i++ {
		card, err := h.deck.Draw()
		if err != nil {
			return h.street, err
		}

		h.community.AddCard(card)
	}

	if h.street == Showdown {
		h.logger.WithField("pot", h.pot).Info("betting complete, on to the showdown")
	} else {
		h.logger.WithFields(logrus.Fields{
			"street":    h.street.String(),
			"pot":       h.pot,
			"community": h.community.String(),
		}).Infof("dealt the %s", h.street)
	}

	if h.street == Showdown || h.countCanAct() < 2 {
		h.actingIndex = -1
		h.closingPlayerID = ""
		h.closerHasActed = true
		return h.street, nil
	}

	first := h.firstToAct()
	h.actingIndex = first
	h.closingPlayerID = h.players[h.lastActiveBefore(first)].ID
	h.closerHasActed = false

	return h.street, nil
}

// firstToAct returns the index opening a post-flop betting round: the first
// player who can act from the small blind around. Heads-up the non-dealer
// acts first.
func (h *Hand) firstToAct() int {
	if len(h.players) == 2 {
		return 1
	}

	return h.nextActiveFrom(0)
}

// lastActiveBefore returns the index of the player who acts last in a round
// opened by the player at start
func (h *Hand) lastActiveBefore(start int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		idx := ((start-i)%n + n) % n
		if h.players[idx].canAct() {
			return idx
		}
	}

	return -1
}
