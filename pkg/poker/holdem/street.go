package holdem

import (
	"encoding/json"
	"fmt"
)

// Street is a stage of the hand
type Street int

// streets in play order
const (
	PreFlop Street = iota
	Flop
	Turn
	River
	Showdown
)

func (s Street) String() string {
	switch s {
	case PreFlop:
		return "pre-flop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	}

	panic(fmt.Sprintf("unknown street: %d", int(s)))
}

// MarshalJSON encodes the street as its name
func (s Street) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// communityCards returns how many cards are dealt entering the street
func (s Street) communityCards() int {
	switch s {
	case Flop:
		return 3
	case Turn, River:
		return 1
	}

	return 0
}
