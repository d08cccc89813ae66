package holdem

import (
	"fmt"

	"holdem-engine/pkg/poker/action"
	"holdem-engine/pkg/poker/wallet"
)

// apply validates and executes the action for the player, returning the
// chips committed. Validation failures are InvalidActionError and leave the
// hand untouched. A bet or raise beyond the player's balance returns
// wallet.ErrInsufficientFunds; callers typically retry with an all-in.
func (h *Hand) apply(p *Player, act action.Action, amount int) (int, error) {
	switch act {
	case action.Check:
		return h.applyCheck(p)
	case action.Call:
		return h.applyCall(p)
	case action.Bet:
		return h.applyBet(p, amount)
	case action.Raise:
		return h.applyRaise(p, amount)
	case action.AllIn:
		return h.applyAllIn(p)
	case action.Fold:
		p.state = Folded
		return 0, nil
	}

	return 0, InvalidActionError(fmt.Sprintf("unknown action: %s", string(act)))
}

func (h *Hand) applyCheck(p *Player) (int, error) {
	if p.roundContribution < h.maxRoundBet {
		return 0, InvalidActionError(fmt.Sprintf("%s cannot check facing a bet of %d", p.ID, h.maxRoundBet))
	}

	return 0, nil
}

// applyCall commits the chips owed to the current bet. A player who cannot
// cover the bet gets ErrInsufficientFunds and should go all-in instead.
func (h *Hand) applyCall(p *Player) (int, error) {
	owed := h.maxRoundBet - p.roundContribution
	if owed <= 0 {
		return 0, InvalidActionError("there is no bet to call")
	}

	if owed > p.wallet.Balance() {
		return 0, wallet.ErrInsufficientFunds
	}

	return h.commitChips(p, owed)
}

func (h *Hand) applyBet(p *Player, amount int) (int, error) {
	if h.maxRoundBet > 0 {
		return 0, InvalidActionError(fmt.Sprintf("there is already a bet of %d; raise instead", h.maxRoundBet))
	}

	if amount < h.minRaise {
		return 0, InvalidActionError(fmt.Sprintf("bet must be at least %d", h.minRaise))
	}

	if amount > p.wallet.Balance() {
		return 0, wallet.ErrInsufficientFunds
	}

	committed, err := h.commitChips(p, amount)
	if err != nil {
		return 0, err
	}

	h.maxRoundBet = amount
	return committed, nil
}

// applyRaise raises the round bet to amount. The amount is the total the
// player will have in for the round, not an increment on top of their call.
func (h *Hand) applyRaise(p *Player, amount int) (int, error) {
	if h.maxRoundBet == 0 {
		return 0, InvalidActionError("there is no bet to raise; bet instead")
	}

	if amount < h.maxRoundBet+h.minRaise {
		return 0, InvalidActionError(fmt.Sprintf("raise must be to at least %d", h.maxRoundBet+h.minRaise))
	}

	if amount-p.roundContribution > p.wallet.Balance() {
		return 0, wallet.ErrInsufficientFunds
	}

	committed, err := h.commitChips(p, amount-p.roundContribution)
	if err != nil {
		return 0, err
	}

	h.maxRoundBet = amount
	return committed, nil
}

func (h *Hand) applyAllIn(p *Player) (int, error) {
	committed, err := h.commitChips(p, p.wallet.Balance())
	if err != nil {
		return 0, err
	}

	if p.roundContribution > h.maxRoundBet {
		h.maxRoundBet = p.roundContribution
	}

	return committed, nil
}

// isRoundClosed reports whether the betting round is finished: everyone who
// can act has matched the bet, and the closing player has either acted or
// can no longer act.
func (h *Hand) isRoundClosed() bool {
	if h.actingIndex < 0 {
		return true
	}

	if h.pendingBet() {
		return false
	}

	if h.closerHasActed {
		return true
	}

	closer := h.player(h.closingPlayerID)
	return closer == nil || !closer.canAct()
}

// commitRound sweeps every player's round contribution into the pot and
// resets the bet for the next street
func (h *Hand) commitRound() {
	for _, p := range h.players {
		h.pot += p.roundContribution
		p.roundContribution = 0
	}

	h.maxRoundBet = 0
}
