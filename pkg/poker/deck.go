package poker

import (
	"fmt"
	"math/rand"
)

// Deck represents a deck of cards plus the discard pile that accumulates
// during the draw phase.
type Deck struct {
	cards    []Card
	discards []Card
	rng      *rand.Rand
}

// NewDeck creates a new shuffled 52-card deck using the given random number
// generator.
func NewDeck(rng *rand.Rand) *Deck {
	deck := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}

	suits := []Suit{Spades, Hearts, Diamonds, Clubs}
	values := []Value{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

	for _, suit := range suits {
		for _, value := range values {
			deck.cards = append(deck.cards, Card{suit: suit, value: value})
		}
	}

	deck.Shuffle()

	return deck
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card from the deck
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Deal draws n cards from the deck. It fails if the deck runs out even after
// reshuffling the discard pile back in.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if d.NeedsReshuffle(n) {
		d.ReshuffleDiscards()
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("deck exhausted: %d cards requested, %d remaining", n, len(d.cards))
	}
	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]
	return cards, nil
}

// AddDiscarded adds cards to the discard pile. Discards are reshuffled back
// into the deck when it runs low during the draw phase.
func (d *Deck) AddDiscarded(cards []Card) {
	d.discards = append(d.discards, cards...)
}

// NeedsReshuffle reports whether the deck cannot serve n more cards without
// folding the discard pile back in.
func (d *Deck) NeedsReshuffle(n int) bool {
	return len(d.cards) < n && len(d.discards) > 0
}

// ReshuffleDiscards shuffles the discard pile back into the deck.
func (d *Deck) ReshuffleDiscards() {
	if len(d.discards) == 0 {
		return
	}
	d.cards = append(d.cards, d.discards...)
	d.discards = nil
	d.Shuffle()
}

// Size returns the number of cards remaining in the deck
func (d *Deck) Size() int {
	return len(d.cards)
}

// DiscardSize returns the number of cards in the discard pile
func (d *Deck) DiscardSize() int {
	return len(d.discards)
}
