package holdem

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"holdem-engine/pkg/deck"
	"holdem-engine/pkg/poker/action"
	"holdem-engine/pkg/poker/eval"
	"holdem-engine/pkg/poker/wallet"
)

// failingEvaluator proves settlement paths that must not evaluate hands
type failingEvaluator struct{}

func (failingEvaluator) Evaluate(hole, board deck.Hand) (eval.Score, deck.Hand, error) {
	return 0, nil, errors.New("evaluator should not be called")
}

// stubEvaluator scores hands by their hole cards so tests control winners
type stubEvaluator struct {
	scores map[string]eval.Score
}

func (s stubEvaluator) Evaluate(hole, board deck.Hand) (eval.Score, deck.Hand, error) {
	return s.scores[hole.String()], hole.Clone(), nil
}

// score lets a test assign a score to a seated player after the deal
func (s stubEvaluator) score(h *Hand, playerID string, score eval.Score) {
	s.scores[h.player(playerID).hole.String()] = score
}

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func defaultOptions() Options {
	return Options{SmallBlind: 5, BigBlind: 10, Seed: 1}
}

// setupHand seats players a, b, c, ... with the given balances
func setupHand(t *testing.T, ev eval.Evaluator, options Options, balances ...int) (*Hand, []*wallet.InMemory) {
	t.Helper()

	wallets := make([]*wallet.InMemory, len(balances))
	seats := make([]Seat, len(balances))
	for i, balance := range balances {
		wallets[i] = wallet.NewInMemory(balance)
		seats[i] = Seat{
			PlayerID: string(rune('a' + i)),
			Wallet:   wallets[i],
		}
	}

	h, err := New(testLogger(), ev, seats, options)
	assert.NoError(t, err)
	assert.NotNil(t, h)

	return h, wallets
}

func assertConservation(t *testing.T, h *Hand) {
	t.Helper()

	contributed, round := 0, 0
	for _, p := range h.players {
		contributed += p.totalContribution
		round += p.roundContribution
	}

	assert.Equal(t, contributed, h.pot+round, "chips contributed must equal pot plus live bets")
}

func TestMinBuyIn(t *testing.T) {
	a := assert.New(t)

	a.Equal(200, MinBuyIn(10))
	a.True(CanAfford(wallet.NewInMemory(200), 10))
	a.False(CanAfford(wallet.NewInMemory(199), 10))
}

func TestNew_validation(t *testing.T) {
	a := assert.New(t)

	seats := func(n int) []Seat {
		s := make([]Seat, n)
		for i := range s {
			s[i] = Seat{PlayerID: string(rune('a' + i)), Wallet: wallet.NewInMemory(1000)}
		}

		return s
	}

	_, err := New(testLogger(), nil, seats(2), Options{SmallBlind: 0, BigBlind: 10})
	a.EqualError(err, "small blind must be at least 1, got 0")

	_, err = New(testLogger(), nil, seats(2), Options{SmallBlind: 10, BigBlind: 5})
	a.EqualError(err, "big blind (5) cannot be less than the small blind (10)")

	_, err = New(testLogger(), nil, seats(2), Options{SmallBlind: 5, BigBlind: 10, Seed: -1})
	a.EqualError(err, "seed cannot be negative: -1")

	_, err = New(testLogger(), nil, seats(1), defaultOptions())
	a.EqualError(err, "hand requires between 2 and 10 players, got 1")

	_, err = New(testLogger(), nil, seats(11), defaultOptions())
	a.EqualError(err, "hand requires between 2 and 10 players, got 11")

	dup := seats(2)
	dup[1].PlayerID = "a"
	_, err = New(testLogger(), nil, dup, defaultOptions())
	a.EqualError(err, "player a is seated twice")

	noWallet := seats(2)
	noWallet[1].Wallet = nil
	_, err = New(testLogger(), nil, noWallet, defaultOptions())
	a.EqualError(err, "player b has no wallet")

	broke := seats(2)
	broke[1].Wallet = wallet.NewInMemory(0)
	_, err = New(testLogger(), nil, broke, defaultOptions())
	a.EqualError(err, "player b has no chips")
}

func TestNew_blindsAndDeal(t *testing.T) {
	a := assert.New(t)

	h, wallets := setupHand(t, nil, defaultOptions(), 1000, 1000, 1000)

	a.Equal(995, wallets[0].Balance())
	a.Equal(990, wallets[1].Balance())
	a.Equal(1000, wallets[2].Balance())
	a.Equal(5, wallets[0].Authorized(h.ID()))
	a.Equal(10, wallets[1].Authorized(h.ID()))

	a.Equal(PreFlop, h.Street())
	a.Equal(0, h.Pot())
	a.Equal(2, h.DealerSeat())
	a.Equal("c", h.ActingPlayerID())

	for _, p := range h.Players() {
		a.Len(p.HoleCards(), 2)
		a.Equal(Active, p.State())
	}

	a.Empty(h.Community())
	assertConservation(t, h)
}

func TestNew_dealIsReproducible(t *testing.T) {
	a := assert.New(t)

	h1, _ := setupHand(t, nil, defaultOptions(), 1000, 1000)
	h2, _ := setupHand(t, nil, defaultOptions(), 1000, 1000)

	for i := range h1.Players() {
		a.Equal(h1.players[i].hole.String(), h2.players[i].hole.String())
	}
}

func TestHand_checkCallToShowdown(t *testing.T) {
	a := assert.New(t)

	ev := stubEvaluator{scores: make(map[string]eval.Score)}
	h, wallets := setupHand(t, ev, defaultOptions(), 1000, 1000, 1000)
	ev.score(h, "a", 200)
	ev.score(h, "b", 100)
	ev.score(h, "c", 300)

	res, err := h.ApplyAction("c", action.Call, 0)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "a", Committed: 10}, res)

	res, err = h.ApplyAction("a", action.Call, 0)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "b", Committed: 5}, res)

	res, err = h.ApplyAction("b", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnEndRound, res.Type)

	street, err := h.AdvanceStreet()
	a.NoError(err)
	a.Equal(Flop, street)
	a.Equal(30, h.Pot())
	a.Len(h.Community(), 3)
	a.Equal("a", h.ActingPlayerID())
	assertConservation(t, h)

	for _, street := range []Street{Turn, River} {
		for _, id := range []string{"a", "b"} {
			res, err = h.ApplyAction(id, action.Check, 0)
			a.NoError(err)
			a.Equal(TurnContinue, res.Type)
		}

		res, err = h.ApplyAction("c", action.Check, 0)
		a.NoError(err)
		a.Equal(TurnEndRound, res.Type)

		got, err := h.AdvanceStreet()
		a.NoError(err)
		a.Equal(street, got)
	}

	a.Len(h.Community(), 5)

	for _, id := range []string{"a", "b"} {
		res, err = h.ApplyAction(id, action.Check, 0)
		a.NoError(err)
	}
	res, err = h.ApplyAction("c", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnEndRound, res.Type)

	street, err = h.AdvanceStreet()
	a.NoError(err)
	a.Equal(Showdown, street)
	a.Empty(h.ActingPlayerID())

	results, err := h.SettleShowdown()
	a.NoError(err)
	a.Len(results, 1)
	a.Equal("c", results[0].PlayerID)
	a.Equal(30, results[0].Amount)
	a.Equal(eval.Score(300), results[0].Score)
	a.Len(results[0].WinningHand, 2)

	a.Equal(995, wallets[0].Balance())
	a.Equal(990, wallets[1].Balance())
	a.Equal(1020, wallets[2].Balance())
	for i, w := range wallets {
		a.Zero(w.Authorized(h.ID()), "wallet %d should have no escrow left", i)
	}
}

func TestHand_betRaiseFoldEndsHand(t *testing.T) {
	a := assert.New(t)

	// the evaluator must never run when everyone else folds
	h, wallets := setupHand(t, failingEvaluator{}, defaultOptions(), 1000, 1000, 1000)

	res, err := h.ApplyAction("c", action.Raise, 30)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "a", Committed: 30}, res)

	res, err = h.ApplyAction("a", action.Fold, 0)
	a.NoError(err)
	a.Equal(TurnContinue, res.Type)

	res, err = h.ApplyAction("b", action.Call, 0)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnEndRound, Committed: 20}, res)

	street, err := h.AdvanceStreet()
	a.NoError(err)
	a.Equal(Flop, street)
	a.Equal(65, h.Pot())
	a.Equal("b", h.ActingPlayerID())

	res, err = h.ApplyAction("b", action.Bet, 40)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "c", Committed: 40}, res)

	res, err = h.ApplyAction("c", action.Raise, 100)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "b", Committed: 100}, res)

	res, err = h.ApplyAction("b", action.Fold, 0)
	a.NoError(err)
	a.Equal(TurnEndHand, res.Type)

	results, err := h.SettleShowdown()
	a.NoError(err)
	a.Len(results, 1)
	a.Equal("c", results[0].PlayerID)
	a.Equal(205, results[0].Amount)
	a.Nil(results[0].WinningHand, "a win by folds shows no cards")

	a.Equal(995, wallets[0].Balance())
	a.Equal(930, wallets[1].Balance())
	a.Equal(1075, wallets[2].Balance())
}

func TestHand_invalidActions(t *testing.T) {
	a := assert.New(t)

	h, _ := setupHand(t, nil, defaultOptions(), 1000, 1000, 1000)

	_, err := h.ApplyAction("a", action.Call, 0)
	a.Equal(InvalidActionError("it is not a's turn"), err)
	a.Equal("c", h.ActingPlayerID())

	_, err = h.ApplyAction("c", action.Check, 0)
	a.Equal(InvalidActionError("c cannot check facing a bet of 10"), err)

	_, err = h.ApplyAction("c", action.Bet, 50)
	a.Equal(InvalidActionError("there is already a bet of 10; raise instead"), err)

	_, err = h.ApplyAction("c", action.Raise, 15)
	a.Equal(InvalidActionError("raise must be to at least 20"), err)

	_, err = h.ApplyAction("c", action.Action("discard"), 0)
	a.Equal(InvalidActionError("unknown action: discard"), err)

	// nothing above moved any chips
	a.Equal("c", h.ActingPlayerID())
	a.Zero(h.player("c").totalContribution)
	assertConservation(t, h)

	_, err = h.ApplyAction("c", action.Call, 0)
	a.NoError(err)
	_, err = h.ApplyAction("a", action.Call, 0)
	a.NoError(err)
	res, err := h.ApplyAction("b", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnEndRound, res.Type)

	_, err = h.AdvanceStreet()
	a.NoError(err)

	_, err = h.ApplyAction("a", action.Call, 0)
	a.Equal(InvalidActionError("there is no bet to call"), err)

	_, err = h.ApplyAction("a", action.Raise, 20)
	a.Equal(InvalidActionError("there is no bet to raise; bet instead"), err)

	_, err = h.ApplyAction("a", action.Bet, 5)
	a.Equal(InvalidActionError("bet must be at least 10"), err)
}

func TestHand_insufficientFundsSubstituteAllIn(t *testing.T) {
	a := assert.New(t)

	h, _ := setupHand(t, nil, defaultOptions(), 1000, 1000, 50)

	_, err := h.ApplyAction("c", action.Raise, 100)
	a.Equal(wallet.ErrInsufficientFunds, err)
	a.Equal("c", h.ActingPlayerID(), "a failed raise must not consume the turn")

	res, err := h.ApplyAction("c", action.AllIn, 0)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnContinue, NextPlayerID: "a", Committed: 50}, res)
	a.Equal(AllIn, h.player("c").State())
	a.Equal(50, h.maxRoundBet)
	assertConservation(t, h)
}

func TestHand_roundClosesWithinOneOrbit(t *testing.T) {
	a := assert.New(t)

	// with no raises the round must close within one action per player
	h, _ := setupHand(t, nil, defaultOptions(), 1000, 1000, 1000, 1000)

	for i, step := range []struct {
		playerID string
		act      action.Action
	}{
		{"c", action.Call},
		{"d", action.Call},
		{"a", action.Call},
		{"b", action.Check},
	} {
		res, err := h.ApplyAction(step.playerID, step.act, 0)
		a.NoError(err)

		if i < 3 {
			a.Equal(TurnContinue, res.Type)
		} else {
			a.Equal(TurnEndRound, res.Type)
		}
	}
}

func TestHand_advanceStreetGuards(t *testing.T) {
	a := assert.New(t)

	h, _ := setupHand(t, nil, defaultOptions(), 1000, 1000, 1000)

	_, err := h.AdvanceStreet()
	a.Equal(ErrOpenBet, err)
	a.Equal(PreFlop, h.Street())
}

func TestHand_headsUpOrder(t *testing.T) {
	a := assert.New(t)

	h, _ := setupHand(t, nil, defaultOptions(), 1000, 1000)

	// the dealer posts the small blind and opens pre-flop
	a.Equal(0, h.DealerSeat())
	a.Equal("a", h.ActingPlayerID())

	res, err := h.ApplyAction("a", action.Call, 0)
	a.NoError(err)
	a.Equal(TurnContinue, res.Type)

	res, err = h.ApplyAction("b", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnEndRound, res.Type)

	_, err = h.AdvanceStreet()
	a.NoError(err)

	// post-flop the non-dealer opens
	a.Equal("b", h.ActingPlayerID())

	res, err = h.ApplyAction("b", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnContinue, res.Type)

	res, err = h.ApplyAction("a", action.Check, 0)
	a.NoError(err)
	a.Equal(TurnEndRound, res.Type)
}

func TestHand_shortBigBlindGoesAllIn(t *testing.T) {
	a := assert.New(t)

	ev := stubEvaluator{scores: make(map[string]eval.Score)}
	h, wallets := setupHand(t, ev, defaultOptions(), 1000, 4)
	ev.score(h, "a", 100)
	ev.score(h, "b", 200)

	a.Equal(AllIn, h.player("b").State())
	a.Equal(10, h.maxRoundBet, "the short blind does not lower the bet")
	a.Equal("a", h.ActingPlayerID())

	res, err := h.ApplyAction("a", action.Call, 0)
	a.NoError(err)
	a.Equal(TurnResult{Type: TurnEndRound, Committed: 5}, res)

	for _, street := range []Street{Flop, Turn, River, Showdown} {
		got, err := h.AdvanceStreet()
		a.NoError(err)
		a.Equal(street, got)
		a.Empty(h.ActingPlayerID())
	}

	results, err := h.SettleShowdown()
	a.NoError(err)

	// b wins only what their four chips cover; the rest returns to a
	a.Equal([]Result{
		{PlayerID: "a", Seat: 0, Amount: 6, Score: 100, WinningHand: h.player("a").hole},
		{PlayerID: "b", Seat: 1, Amount: 8, Score: 200, WinningHand: h.player("b").hole},
	}, results)

	a.Equal(996, wallets[0].Balance())
	a.Equal(8, wallets[1].Balance())
}
