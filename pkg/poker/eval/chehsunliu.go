package eval

import (
	"fmt"

	"github.com/chehsunliu/poker"

	"holdem-engine/pkg/deck"
)

// worstRank is the lowest-valued hand in the evaluator's rank table (7-5-4-3-2
// offsuit). Ranks count down from here as hands improve, so inverting against
// it yields a higher-is-better Score.
const worstRank = 7462

var rankChars = "23456789TJQKA"

// Chehsunliu evaluates hands with the chehsunliu/poker lookup tables
type Chehsunliu struct{}

var _ Evaluator = Chehsunliu{}

// Evaluate returns the score and the best five cards for the given hole and
// board cards. At least five cards must be available in total.
func (Chehsunliu) Evaluate(hole, board deck.Hand) (Score, deck.Hand, error) {
	all := make(deck.Hand, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)

	if len(all) < 5 {
		return 0, nil, fmt.Errorf("cannot evaluate %d cards; need at least 5", len(all))
	}

	cards, err := convertCards(all)
	if err != nil {
		return 0, nil, err
	}

	rank := poker.Evaluate(cards)
	best, err := bestFive(all, rank)
	if err != nil {
		return 0, nil, err
	}

	return Score(worstRank - int(rank)), best, nil
}

// Describe returns a human-readable name for the score's hand class
func Describe(s Score) string {
	return poker.RankString(int32(worstRank - int(s)))
}

func convertCards(cards deck.Hand) ([]poker.Card, error) {
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		if c.Rank < 2 || c.Rank > deck.Ace {
			return nil, fmt.Errorf("card rank out of range: %d", c.Rank)
		}

		var suit byte
		switch c.Suit {
		case deck.Clubs:
			suit = 'c'
		case deck.Diamonds:
			suit = 'd'
		case deck.Hearts:
			suit = 'h'
		case deck.Spades:
			suit = 's'
		default:
			return nil, fmt.Errorf("unknown suit: %s", c.Suit)
		}

		out[i] = poker.NewCard(string([]byte{rankChars[c.Rank-2], suit}))
	}

	return out, nil
}

// bestFive finds the five-card combination that produces the winning rank
func bestFive(all deck.Hand, rank int32) (deck.Hand, error) {
	if len(all) == 5 {
		return all.Clone(), nil
	}

	var found deck.Hand
	combinations(all, 5, func(combo deck.Hand) bool {
		cards, err := convertCards(combo)
		if err != nil {
			return false
		}

		if poker.Evaluate(cards) == rank {
			found = combo.Clone()
			return true
		}

		return false
	})

	if found == nil {
		return nil, fmt.Errorf("no five-card combination matches rank %d", rank)
	}

	return found, nil
}

// combinations visits every k-card combination until fn returns true
func combinations(cards deck.Hand, k int, fn func(deck.Hand) bool) {
	combo := make(deck.Hand, 0, k)

	var walk func(start int) bool
	walk = func(start int) bool {
		if len(combo) == k {
			return fn(combo)
		}

		for i := start; i <= len(cards)-(k-len(combo)); i++ {
			combo = append(combo, cards[i])
			if walk(i + 1) {
				return true
			}
			combo = combo[:len(combo)-1]
		}

		return false
	}

	walk(0)
}
