package poker

import (
	"errors"
	"fmt"
	"sort"
)

// HandRank represents the rank class of a poker hand. Lower is better:
// 1 is a royal flush, 10 is a bare high card.
type HandRank int

const (
	RoyalFlush HandRank = iota + 1
	StraightFlush
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

// rankInvalid sorts below every real rank class. Hands that are not exactly
// five distinct cards evaluate to it.
const rankInvalid = HighCard + 1

// String returns the rank class name
func (r HandRank) String() string {
	switch r {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return "Straight Flush"
	case FourOfAKind:
		return "Four of a Kind"
	case FullHouse:
		return "Full House"
	case Flush:
		return "Flush"
	case Straight:
		return "Straight"
	case ThreeOfAKind:
		return "Three of a Kind"
	case TwoPair:
		return "Two Pair"
	case OnePair:
		return "One Pair"
	case HighCard:
		return "High Card"
	default:
		return "Invalid"
	}
}

// Evaluation errors returned by EvaluateHand.
var (
	ErrHandSize      = errors.New("hand must contain exactly 5 cards")
	ErrDuplicateCard = errors.New("duplicate card in hand")
)

// HandEvaluation is the complete evaluation of a 5-card hand: the rank class,
// the tiebreaker values in descending order of significance, and a
// human-readable description.
type HandEvaluation struct {
	Rank        HandRank
	Tiebreakers []int
	Description string
}

// EvaluateHand evaluates exactly 5 distinct cards and returns their ranking.
// The ace plays high everywhere except in the A-2-3-4-5 straight, where it
// counts as 1 and the hand ranks below every other straight.
func EvaluateHand(cards []Card) (HandEvaluation, error) {
	if len(cards) != 5 {
		return HandEvaluation{}, fmt.Errorf("%w: got %d", ErrHandSize, len(cards))
	}

	seen := make(map[Card]bool, 5)
	for _, card := range cards {
		if seen[card] {
			return HandEvaluation{}, fmt.Errorf("%w: %s", ErrDuplicateCard, card)
		}
		seen[card] = true
	}

	ranks := make([]int, 5)
	suits := make(map[Suit]bool, 4)
	rankCounts := make(map[int]int, 5)
	for i, card := range cards {
		ranks[i] = valueToInt(card.value)
		suits[card.suit] = true
		rankCounts[ranks[i]]++
	}

	// Group the distinct ranks by frequency (most frequent first, then
	// highest rank first). Pairs, trips and quads fall out of this ordering.
	type rankCount struct {
		rank  int
		count int
	}
	counts := make([]rankCount, 0, len(rankCounts))
	for rank, count := range rankCounts {
		counts = append(counts, rankCount{rank: rank, count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].rank > counts[j].rank
	})

	// Descending ranks for high-card comparisons.
	sort.Sort(sort.Reverse(sort.IntSlice(ranks)))

	isFlush := len(suits) == 1
	isStraight := len(rankCounts) == 5 && ranks[0]-ranks[4] == 4

	// Ace-low straight: the wheel ranks as 5-high, the worst straight.
	if len(rankCounts) == 5 && ranks[0] == 14 && ranks[1] == 5 && ranks[2] == 4 && ranks[3] == 3 && ranks[4] == 2 {
		isStraight = true
		ranks = []int{5, 4, 3, 2, 1}
	}

	switch {
	case isFlush && isStraight:
		if ranks[0] == 14 {
			return HandEvaluation{RoyalFlush, ranks, "Royal Flush"}, nil
		}
		return HandEvaluation{StraightFlush, ranks, fmt.Sprintf("Straight Flush, %d high", ranks[0])}, nil

	case counts[0].count == 4:
		quad := counts[0].rank
		kicker := counts[1].rank
		return HandEvaluation{FourOfAKind, []int{quad, kicker}, fmt.Sprintf("Four of a Kind, %ds", quad)}, nil

	case counts[0].count == 3 && counts[1].count == 2:
		trips := counts[0].rank
		pair := counts[1].rank
		return HandEvaluation{FullHouse, []int{trips, pair}, fmt.Sprintf("Full House, %ds over %ds", trips, pair)}, nil

	case isFlush:
		return HandEvaluation{Flush, ranks, fmt.Sprintf("Flush, %d high", ranks[0])}, nil

	case isStraight:
		return HandEvaluation{Straight, ranks, fmt.Sprintf("Straight, %d high", ranks[0])}, nil

	case counts[0].count == 3:
		trips := counts[0].rank
		tiebreakers := append([]int{trips}, kickersExcluding(ranks, trips)...)
		return HandEvaluation{ThreeOfAKind, tiebreakers, fmt.Sprintf("Three of a Kind, %ds", trips)}, nil

	case counts[0].count == 2 && counts[1].count == 2:
		highPair := counts[0].rank
		lowPair := counts[1].rank
		kicker := counts[2].rank
		return HandEvaluation{TwoPair, []int{highPair, lowPair, kicker}, fmt.Sprintf("Two Pair, %ds and %ds", highPair, lowPair)}, nil

	case counts[0].count == 2:
		pair := counts[0].rank
		tiebreakers := append([]int{pair}, kickersExcluding(ranks, pair)...)
		return HandEvaluation{OnePair, tiebreakers, fmt.Sprintf("One Pair, %ds", pair)}, nil

	default:
		return HandEvaluation{HighCard, ranks, fmt.Sprintf("High Card, %d", ranks[0])}, nil
	}
}

// kickersExcluding returns the descending ranks with every copy of excluded
// removed. The input must already be sorted in descending order.
func kickersExcluding(ranks []int, excluded int) []int {
	kickers := make([]int, 0, len(ranks))
	for _, rank := range ranks {
		if rank != excluded {
			kickers = append(kickers, rank)
		}
	}
	return kickers
}

// CompareEvaluations compares two hand evaluations and returns:
// -1 if a < b (a is worse)
// 0 if a == b (tie)
// 1 if a > b (a is better)
// Rank classes order first (lower class wins); within the same class the
// tiebreaker sequences compare lexicographically.
func CompareEvaluations(a, b HandEvaluation) int {
	if a.Rank != b.Rank {
		if a.Rank < b.Rank {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreakers) && i < len(b.Tiebreakers); i++ {
		if a.Tiebreakers[i] != b.Tiebreakers[i] {
			if a.Tiebreakers[i] > b.Tiebreakers[i] {
				return 1
			}
			return -1
		}
	}
	if len(a.Tiebreakers) != len(b.Tiebreakers) {
		if len(a.Tiebreakers) > len(b.Tiebreakers) {
			return 1
		}
		return -1
	}
	return 0
}
