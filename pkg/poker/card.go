package poker

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "♠"
	Hearts   Suit = "♥"
	Diamonds Suit = "♦"
	Clubs    Suit = "♣"
)

// Value represents a card value
type Value string

const (
	Ace   Value = "A"
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "10"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
)

// Card represents an immutable playing card
type Card struct {
	suit  Suit
	value Value
}

// NewCard creates a new Card with the given suit and value. Card fields are
// unexported so this is the only way to construct one.
func NewCard(suit Suit, value Value) Card {
	return Card{suit: suit, value: value}
}

// String returns a string representation of the card
func (c Card) String() string {
	return string(c.value) + string(c.suit)
}

// Suit returns the card's suit
func (c Card) Suit() Suit {
	return c.suit
}

// Value returns the card's value
func (c Card) Value() Value {
	return c.value
}

// cardJSON is the wire form of a card. Card fields are unexported, so
// snapshots crossing a process boundary need explicit codec hooks.
type cardJSON struct {
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

// MarshalJSON implements json.Marshaler.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Suit:  string(c.suit),
		Value: string(c.value),
	})
}

// suitAliases maps the lowercased wire forms a host may send back to a
// Suit: the symbol itself or the single-letter shorthand.
var suitAliases = map[string]Suit{
	"♠": Spades, "s": Spades,
	"♥": Hearts, "h": Hearts,
	"♦": Diamonds, "d": Diamonds,
	"♣": Clubs, "c": Clubs,
}

// UnmarshalJSON implements json.Unmarshaler. Suits accept the symbol or
// single-letter form, values the canonical symbols with "T" for ten.
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}

	suit, ok := suitAliases[strings.ToLower(cj.Suit)]
	if !ok {
		return fmt.Errorf("invalid suit: %s", cj.Suit)
	}

	value := Value(strings.ToUpper(cj.Value))
	if value == "T" {
		value = Ten
	}
	if valueToInt(value) == 0 {
		return fmt.Errorf("invalid value: %s", cj.Value)
	}

	c.suit = suit
	c.value = value
	return nil
}

// valueToInt converts a card Value to its integer representation for hand
// comparisons (J=11, Q=12, K=13, A=14).
func valueToInt(value Value) int {
	switch value {
	case Ace:
		return 14
	case King:
		return 13
	case Queen:
		return 12
	case Jack:
		return 11
	case Ten:
		return 10
	case Nine:
		return 9
	case Eight:
		return 8
	case Seven:
		return 7
	case Six:
		return 6
	case Five:
		return 5
	case Four:
		return 4
	case Three:
		return 3
	case Two:
		return 2
	default:
		return 0
	}
}
