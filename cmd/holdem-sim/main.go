// Command holdem-sim deals a single hand of Texas Hold'em between simple
// computer players and logs every action through to settlement.
package main

import (
	"errors"
	"flag"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"holdem-engine/internal/config"
	"holdem-engine/internal/util"
	"holdem-engine/pkg/poker/action"
	"holdem-engine/pkg/poker/eval"
	"holdem-engine/pkg/poker/holdem"
	"holdem-engine/pkg/poker/wallet"
)

var (
	stakes     = flag.String("stakes", "", "stakes preset (empty uses the configured default)")
	numPlayers = flag.Int("players", 4, "number of players at the table")
	seed       = flag.Int64("seed", 0, "deck shuffle seed; 0 shuffles from the clock")
)

func main() {
	flag.Parse()
	setupLogger()

	name := *stakes
	if name == "" {
		name = config.Instance().DefaultStakes
	}

	st, err := config.StakesByName(name)
	if err != nil {
		logrus.WithError(err).Fatalf("valid stakes are: %s", strings.Join(config.StakeNames(), ", "))
	}

	buyIn := st.BigBlind * config.Instance().MinBuyInBigBlinds
	seats := make([]holdem.Seat, *numPlayers)
	seen := make(map[string]bool)
	for i := range seats {
		playerName := util.GetRandomName()
		for seen[playerName] {
			playerName = util.GetRandomName()
		}
		seen[playerName] = true

		w := wallet.NewInMemory(buyIn)
		if !holdem.CanAfford(w, st.BigBlind) {
			logrus.Fatalf("a buy-in of %d does not cover the table minimum of %d", buyIn, holdem.MinBuyIn(st.BigBlind))
		}

		seats[i] = holdem.Seat{
			PlayerID: playerName,
			Wallet:   w,
		}
	}

	h, err := holdem.New(logrus.StandardLogger(), eval.Chehsunliu{}, seats, holdem.Options{
		SmallBlind: st.SmallBlind,
		BigBlind:   st.BigBlind,
		Seed:       *seed,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not start the hand")
	}

	logrus.WithFields(logrus.Fields{
		"stakes":  name,
		"players": *numPlayers,
		"buyIn":   buyIn,
	}).Info("dealing a hand")

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := playHand(h, rng, st.BigBlind); err != nil {
		logrus.WithError(err).Fatal("the hand could not be played out")
	}

	results, err := h.SettleShowdown()
	if err != nil {
		logrus.WithError(err).Fatal("the hand could not be settled")
	}

	for _, result := range results {
		entry := logrus.WithFields(logrus.Fields{
			"player": result.PlayerID,
			"amount": result.Amount,
		})

		if result.WinningHand != nil {
			entry.Infof("%s wins %d with %s (%s)", result.PlayerID, result.Amount, eval.Describe(result.Score), result.WinningHand)
		} else {
			entry.Infof("%s wins %d", result.PlayerID, result.Amount)
		}
	}
}

// playHand runs betting rounds until the board is out or one player remains
func playHand(h *holdem.Hand, rng *rand.Rand, bigBlind int) error {
	for {
		id := h.ActingPlayerID()
		if id == "" {
			street, err := h.AdvanceStreet()
			if err != nil {
				return err
			}

			if street == holdem.Showdown {
				return nil
			}

			continue
		}

		var p *holdem.Player
		for _, candidate := range h.Players() {
			if candidate.ID == id {
				p = candidate
			}
		}

		act, amount := chooseAction(h, p, rng, bigBlind)
		result, err := h.ApplyAction(id, act, amount)
		if errors.Is(err, wallet.ErrInsufficientFunds) {
			result, err = h.ApplyAction(id, action.AllIn, 0)
		}
		if err != nil {
			return err
		}

		if result.Type == holdem.TurnEndHand {
			return nil
		}
	}
}

// chooseAction plays a loose-passive style: mostly calls and checks, with
// the occasional bet, raise, or fold
func chooseAction(h *holdem.Hand, p *holdem.Player, rng *rand.Rand, bigBlind int) (action.Action, int) {
	owed := h.CurrentBet() - p.RoundBet()
	if owed > 0 {
		switch rng.Intn(8) {
		case 0:
			return action.Raise, h.CurrentBet() + bigBlind
		case 1:
			return action.Fold, 0
		default:
			return action.Call, 0
		}
	}

	if h.CurrentBet() == 0 && rng.Intn(4) == 0 {
		return action.Bet, bigBlind
	}

	return action.Check, 0
}

func setupLogger() {
	if lvl := config.Instance().LogLevel; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(util.Getenv("LOG_FORMAT", config.Instance().LogFormat)) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	logrus.SetOutput(os.Stdout)
}
