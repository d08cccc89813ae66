package holdem

import "errors"

// ErrHandSettled is an error when the hand has already paid out its winners
var ErrHandSettled = errors.New("hand has already been settled")

// ErrOpenBet is an error when the betting round still has action pending
var ErrOpenBet = errors.New("betting round is still open")

// ErrHandComplete is an error when no further streets or actions remain
var ErrHandComplete = errors.New("hand is complete")

// ErrChipLeak is an error when settlement would create or destroy chips. The
// hand is left unsettled and must be reconciled by the caller.
var ErrChipLeak = errors.New("chip totals do not balance")

// InvalidActionError is an error for an action a player is not allowed to
// take right now. The hand state is untouched and the player may act again.
type InvalidActionError string

func (e InvalidActionError) Error() string {
	return string(e)
}
