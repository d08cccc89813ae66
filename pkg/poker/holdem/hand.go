// Package holdem runs a single hand of Texas Hold'em from blinds to payout:
// turn rotation, bet validation, side pots, and showdown settlement. Each
// hand owns its own state; nothing is shared between hands.
package holdem

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/poker/eval"
	"holdem-engine/pkg/poker/wallet"
)

const (
	maxPlayers       = 10
	minBuyInBigBlind = 20
	holeCards        = 2
)

// Options configures a hand
type Options struct {
	SmallBlind int
	BigBlind   int
	// Seed fixes the deck shuffle for reproducible deals. Zero seeds
	// from system entropy.
	Seed int64
}

func (o Options) validate() error {
	if o.SmallBlind < 1 {
		return fmt.Errorf("small blind must be at least 1, got %d", o.SmallBlind)
	}

	if o.BigBlind < o.SmallBlind {
		return fmt.Errorf("big blind (%d) cannot be less than the small blind (%d)", o.BigBlind, o.SmallBlind)
	}

	if o.Seed < 0 {
		return fmt.Errorf("seed cannot be negative: %d", o.Seed)
	}

	return nil
}

// MinBuyIn returns the smallest stack a player may bring to a table with the
// given big blind
func MinBuyIn(bigBlind int) int {
	return bigBlind * minBuyInBigBlind
}

// CanAfford reports whether the wallet covers the minimum buy-in for a table
// with the given big blind
func CanAfford(w wallet.Wallet, bigBlind int) bool {
	return w.Balance() >= MinBuyIn(bigBlind)
}

// Seat pairs a player with the wallet funding them for the hand
type Seat struct {
	PlayerID string
	Wallet   wallet.Wallet
}

// Hand is a single hand of Texas Hold'em. Seat 0 posts the small blind and
// seat 1 the big blind; heads-up, seat 0 is also the dealer. A Hand is not
// safe for concurrent use.
type Hand struct {
	id        string
	options   Options
	logger    logrus.FieldLogger
	deck      *deck.Deck
	evaluator eval.Evaluator

	players   []*Player
	community deck.Hand
	street    Street
	pot       int

	actingIndex     int
	maxRoundBet     int
	minRaise        int
	closingPlayerID string
	closerHasActed  bool
	settled         bool
}

// New starts a hand: it shuffles, posts the blinds, and deals the hole
// cards. Seats are in position order starting from the small blind. A blind
// larger than a player's stack puts them all-in for what they have.
func New(logger logrus.FieldLogger, evaluator eval.Evaluator, seats []Seat, options Options) (*Hand, error) {
	if err := options.validate(); err != nil {
		return nil, err
	}

	if len(seats) < 2 || len(seats) > maxPlayers {
		return nil, fmt.Errorf("hand requires between 2 and %d players, got %d", maxPlayers, len(seats))
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if evaluator == nil {
		evaluator = eval.Chehsunliu{}
	}

	id := uuid.New().String()

	seen := make(map[string]bool)
	players := make([]*Player, len(seats))
	for i, seat := range seats {
		if seat.PlayerID == "" {
			return nil, fmt.Errorf("seat %d has no player id", i)
		}

		if seen[seat.PlayerID] {
			return nil, fmt.Errorf("player %s is seated twice", seat.PlayerID)
		}
		seen[seat.PlayerID] = true

		if seat.Wallet == nil {
			return nil, fmt.Errorf("player %s has no wallet", seat.PlayerID)
		}

		if seat.Wallet.Balance() <= 0 {
			return nil, fmt.Errorf("player %s has no chips", seat.PlayerID)
		}

		players[i] = &Player{
			ID:     seat.PlayerID,
			wallet: seat.Wallet,
			seat:   i,
		}
	}

	h := &Hand{
		id:        id,
		options:   options,
		logger:    logger.WithField("hand", id),
		deck:      deck.New(),
		evaluator: evaluator,
		players:   players,
		street:    PreFlop,
		minRaise:  options.BigBlind,
	}

	h.deck.Shuffle(options.Seed)

	if err := h.postBlind(players[0], options.SmallBlind, "small blind"); err != nil {
		return nil, err
	}

	if err := h.postBlind(players[1], options.BigBlind, "big blind"); err != nil {
		return nil, err
	}

	h.maxRoundBet = options.BigBlind
	h.closingPlayerID = players[1].ID

	for pass := 0; pass < holeCards; pass++ {
		for _, p := range players {
			card, err := h.deck.Draw()
			if err != nil {
				return nil, err
			}

			p.hole.AddCard(card)
		}
	}

	start := 2
	if len(players) == 2 {
		// heads-up the dealer posts the small blind and acts first
		start = 0
	}

	h.actingIndex = h.nextActiveFrom(start)
	if h.countCanAct() < 2 && !h.pendingBet() {
		h.actingIndex = -1
		h.closerHasActed = true
	}

	return h, nil
}

// nextActiveFrom returns the index of the first player at or after start who
// can still act, wrapping around the table. Returns -1 if nobody can.
func (h *Hand) nextActiveFrom(start int) int {
	n := len(h.players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if h.players[idx].canAct() {
			return idx
		}
	}

	return -1
}

// pendingBet reports whether any player who can act still owes chips to the
// current bet
func (h *Hand) pendingBet() bool {
	for _, p := range h.players {
		if p.canAct() && p.roundContribution < h.maxRoundBet {
			return true
		}
	}

	return false
}

func (h *Hand) postBlind(p *Player, amount int, name string) error {
	committed, err := h.commitChips(p, amount)
	if err != nil {
		return err
	}

	h.logger.WithFields(logrus.Fields{
		"player": p.ID,
		"amount": committed,
	}).Infof("%s posted the %s", p.ID, name)

	return nil
}

// commitChips moves chips from the player's wallet into their round
// contribution, capped at their balance. A player whose last chip is
// committed is marked all-in.
func (h *Hand) commitChips(p *Player, amount int) (int, error) {
	if balance := p.wallet.Balance(); amount > balance {
		amount = balance
	}

	if err := p.wallet.Authorize(h.id, amount); err != nil {
		return 0, err
	}

	p.roundContribution += amount
	p.totalContribution += amount

	if p.wallet.Balance() == 0 {
		p.state = AllIn
	}

	return amount, nil
}

// ID returns the hand's unique identifier, which is also the key wallets
// hold escrowed chips under
func (h *Hand) ID() string {
	return h.id
}

// Street returns the current street
func (h *Hand) Street() Street {
	return h.street
}

// Options returns the options the hand was started with
func (h *Hand) Options() Options {
	return h.options
}

// Pot returns the chips committed in completed betting rounds. Chips bet on
// the current street are not included until the round closes.
func (h *Hand) Pot() int {
	return h.pot
}

// CurrentBet returns the amount every player must match to stay in the
// current betting round
func (h *Hand) CurrentBet() int {
	return h.maxRoundBet
}

// Community returns a copy of the community cards dealt so far
func (h *Hand) Community() deck.Hand {
	return h.community.Clone()
}

// Players returns the players in seat order
func (h *Hand) Players() []*Player {
	return h.players
}

// DealerSeat returns the seat with the dealer button. Heads-up the small
// blind deals; otherwise the button sits behind the blinds in the last seat.
func (h *Hand) DealerSeat() int {
	if len(h.players) == 2 {
		return 0
	}

	return len(h.players) - 1
}

// ActingPlayerID returns the player whose turn it is, or an empty string if
// no action is pending
func (h *Hand) ActingPlayerID() string {
	if h.actingIndex < 0 {
		return ""
	}

	return h.players[h.actingIndex].ID
}

func (h *Hand) player(id string) *Player {
	for _, p := range h.players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

func (h *Hand) countCanAct() int {
	count := 0
	for _, p := range h.players {
		if p.canAct() {
			count++
		}
	}

	return count
}

func (h *Hand) countContenders() int {
	count := 0
	for _, p := range h.players {
		if p.state != Folded {
			count++
		}
	}

	return count
}
