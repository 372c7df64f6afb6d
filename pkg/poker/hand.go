package poker

import (
	"fmt"
	"strings"
)

// invalidEvaluation is the sentinel for hands that cannot be evaluated
// (wrong card count, duplicate cards). All such hands compare equal to each
// other and worse than any valid hand.
var invalidEvaluation = HandEvaluation{
	Rank:        rankInvalid,
	Description: "No hand",
}

// Hand is an ordered set of cards owned by a single player, with a cached
// evaluation that is invalidated whenever cards are added or removed.
type Hand struct {
	cards []Card
	eval  *HandEvaluation
}

// NewHand creates a hand, optionally with initial cards.
func NewHand(cards ...Card) *Hand {
	h := &Hand{cards: make([]Card, 0, 5)}
	h.cards = append(h.cards, cards...)
	return h
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []Card {
	cards := make([]Card, len(h.cards))
	copy(cards, h.cards)
	return cards
}

// Len returns the number of cards in the hand.
func (h *Hand) Len() int {
	return len(h.cards)
}

// AddCards appends cards to the hand and invalidates the cached evaluation.
func (h *Hand) AddCards(cards []Card) {
	h.cards = append(h.cards, cards...)
	h.eval = nil
}

// RemoveCards removes the cards at the given indexes, preserving the order of
// the remaining cards, and invalidates the cached evaluation. It returns the
// removed cards.
func (h *Hand) RemoveCards(indexes []int) ([]Card, error) {
	picked := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(h.cards) {
			return nil, fmt.Errorf("card index %d out of range [0,%d)", idx, len(h.cards))
		}
		if picked[idx] {
			return nil, fmt.Errorf("card index %d repeated", idx)
		}
		picked[idx] = true
	}

	removed := make([]Card, 0, len(indexes))
	kept := make([]Card, 0, len(h.cards)-len(indexes))
	for i, card := range h.cards {
		if picked[i] {
			removed = append(removed, card)
		} else {
			kept = append(kept, card)
		}
	}
	h.cards = kept
	h.eval = nil
	return removed, nil
}

// Evaluation returns the hand's evaluation, computing and caching it on
// first use. A hand that is not exactly five distinct cards yields the
// invalid sentinel rather than an error; callers needing the error use
// EvaluateHand directly.
func (h *Hand) Evaluation() HandEvaluation {
	if h.eval == nil {
		eval, err := EvaluateHand(h.cards)
		if err != nil {
			eval = invalidEvaluation
		}
		h.eval = &eval
	}
	return *h.eval
}

// Compare compares this hand against another using poker rankings. It
// returns 1 if h is better, -1 if other is better, and 0 on a tie.
func (h *Hand) Compare(other *Hand) int {
	return CompareEvaluations(h.Evaluation(), other.Evaluation())
}

// Less reports whether h ranks strictly below other.
func (h *Hand) Less(other *Hand) bool {
	return h.Compare(other) < 0
}

// Show returns the cards plus the hand's description, e.g.
// "A♠, K♠, Q♠, J♠, 10♠ (Royal Flush)".
func (h *Hand) Show() string {
	if len(h.cards) == 0 {
		return "Empty hand"
	}
	parts := make([]string, len(h.cards))
	for i, card := range h.cards {
		parts[i] = card.String()
	}
	return fmt.Sprintf("%s (%s)", strings.Join(parts, ", "), h.Evaluation().Description)
}
