package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func royalFlush(suit Suit) []Card {
	return []Card{
		{suit: suit, value: Ace},
		{suit: suit, value: King},
		{suit: suit, value: Queen},
		{suit: suit, value: Jack},
		{suit: suit, value: Ten},
	}
}

func nineHighStraight(s1, s2 Suit) []Card {
	return []Card{
		{suit: s1, value: Nine},
		{suit: s2, value: Eight},
		{suit: s1, value: Seven},
		{suit: s2, value: Six},
		{suit: s1, value: Five},
	}
}

func pairOfTwos(s1, s2 Suit) []Card {
	return []Card{
		{suit: s1, value: Two},
		{suit: s2, value: Two},
		{suit: s1, value: Nine},
		{suit: s2, value: Seven},
		{suit: s1, value: Four},
	}
}

// syncStartTotal records the current in-play total as the hand's baseline so
// the conservation check passes for tests that stage state by hand.
func syncStartTotal(g *Game) {
	g.handStartTotal = g.potTotal()
	for _, p := range g.players {
		g.handStartTotal += p.Chips
	}
}

func TestResolveShowdownSingleWinner(t *testing.T) {
	g := newBettingGame(t)
	g.players[0].Hand = NewHand(royalFlush(Hearts)...)
	g.players[1].Hand = NewHand(nineHighStraight(Spades, Clubs)...)
	g.players[2].Hand = NewHand(pairOfTwos(Diamonds, Hearts)...)

	for _, p := range g.players {
		p.PlaceBet(100)
	}
	syncStartTotal(g)

	result, err := g.resolveShowdown()
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, int64(300), result.TotalPot)
	require.Len(t, result.Pots, 1)
	assert.Equal(t, []string{"alice"}, result.Pots[0].Winners)
	assert.Equal(t, "Royal Flush", result.Pots[0].WinningHand)
	assert.Equal(t, int64(300), result.Pots[0].Payouts["alice"])

	assert.Equal(t, int64(1200), g.players[0].Chips)
	assert.Equal(t, int64(900), g.players[1].Chips)
	assert.Equal(t, int64(0), g.pots.Total(), "Pots are emptied after distribution")
}

func TestResolveShowdownSplitPotOddChip(t *testing.T) {
	g := newBettingGame(t)
	// Identical straights in different suits tie; carol is behind.
	g.players[0].Hand = NewHand(nineHighStraight(Hearts, Diamonds)...)
	g.players[1].Hand = NewHand(nineHighStraight(Spades, Clubs)...)
	g.players[2].Hand = NewHand(pairOfTwos(Clubs, Spades)...)

	g.players[0].PlaceBet(100)
	g.players[1].PlaceBet(100)
	g.players[2].PlaceBet(101)
	syncStartTotal(g)

	result, err := g.resolveShowdown()
	require.NoError(t, err)

	require.Len(t, result.Pots, 1)
	pr := result.Pots[0]
	assert.Equal(t, int64(301), pr.Amount)
	assert.Equal(t, []string{"alice", "bob"}, pr.Winners)

	// The odd chip goes to the first winner in seating order.
	assert.Equal(t, int64(151), pr.Payouts["alice"])
	assert.Equal(t, int64(150), pr.Payouts["bob"])
	assert.Equal(t, int64(1051), g.players[0].Chips)
	assert.Equal(t, int64(1050), g.players[1].Chips)
}

func TestResolveShowdownSidePots(t *testing.T) {
	g := newBettingGame(t)
	// Alice is all-in for 100 with the best hand; bob and carol contest
	// the 400-chip side pot, which bob's straight takes.
	g.players[0].Hand = NewHand(royalFlush(Clubs)...)
	g.players[1].Hand = NewHand(nineHighStraight(Spades, Hearts)...)
	g.players[2].Hand = NewHand(pairOfTwos(Hearts, Diamonds)...)

	g.players[0].Chips = 100
	g.players[0].PlaceBet(100)
	g.players[1].PlaceBet(300)
	g.players[2].PlaceBet(300)
	require.True(t, g.players[0].IsAllIn)
	syncStartTotal(g)

	_, err := g.pots.ComputeSidePots(g.players)
	require.NoError(t, err)

	result, err := g.resolveShowdown()
	require.NoError(t, err)

	assert.Equal(t, int64(700), result.TotalPot)
	require.Len(t, result.Pots, 2)

	assert.Equal(t, int64(300), result.Pots[0].Amount)
	assert.Equal(t, []string{"alice"}, result.Pots[0].Winners)
	assert.Equal(t, "Royal Flush", result.Pots[0].WinningHand)

	assert.Equal(t, int64(400), result.Pots[1].Amount)
	assert.Equal(t, []string{"bob"}, result.Pots[1].Winners)

	assert.Equal(t, int64(300), g.players[0].Chips)
	assert.Equal(t, int64(1100), g.players[1].Chips)
	assert.Equal(t, int64(700), g.players[2].Chips)
}

func TestResolveShowdownOrphanedSidePot(t *testing.T) {
	g, err := NewGame([]string{"alice", "bob", "carol", "dave"}, GameConfig{
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		Seed:          2,
	})
	require.NoError(t, err)

	g.players[0].Hand = NewHand(royalFlush(Hearts)...)
	g.players[3].Hand = NewHand(pairOfTwos(Spades, Clubs)...)

	// Alice and dave are all-in for 100; bob and carol build a side pot
	// between themselves.
	g.players[0].Chips = 100
	g.players[0].PlaceBet(100)
	g.players[3].Chips = 100
	g.players[3].PlaceBet(100)
	g.players[1].PlaceBet(300)
	g.players[2].PlaceBet(300)
	syncStartTotal(g)

	_, err = g.pots.ComputeSidePots(g.players)
	require.NoError(t, err)

	// Both side-pot contenders fold on the next street. Their pot has no
	// eligible seat left, so it opens to the remaining hands.
	g.players[1].Fold()
	g.players[2].Fold()

	result, err := g.resolveShowdown()
	require.NoError(t, err)

	require.Len(t, result.Pots, 2)
	assert.Equal(t, int64(400), result.Pots[0].Amount)
	assert.Equal(t, []string{"alice"}, result.Pots[0].Winners)
	assert.Equal(t, int64(400), result.Pots[1].Amount)
	assert.Equal(t, []string{"alice"}, result.Pots[1].Winners,
		"An orphaned pot goes to the best remaining hand")

	assert.Equal(t, int64(800), g.players[0].Chips)
}

func TestResolveShowdownUncontested(t *testing.T) {
	g := newBettingGame(t)
	g.players[0].PlaceBet(50)
	g.players[1].PlaceBet(50)
	g.players[2].PlaceBet(50)
	g.players[1].Fold()
	g.players[2].Fold()
	syncStartTotal(g)

	result, err := g.resolveShowdown()
	require.NoError(t, err)

	// Alice takes everything without anyone's cards being evaluated.
	require.Len(t, result.Pots, 1)
	assert.Equal(t, []string{"alice"}, result.Pots[0].Winners)
	assert.Empty(t, result.Pots[0].WinningHand)
	assert.Equal(t, int64(150), result.Pots[0].Payouts["alice"])
	assert.Equal(t, int64(1100), g.players[0].Chips)
}

func TestResolveShowdownPerPotWinners(t *testing.T) {
	g := newBettingGame(t)
	// Carol folded after contributing; her chips stay in the pot.
	g.players[0].Hand = NewHand(pairOfTwos(Hearts, Spades)...)
	g.players[1].Hand = NewHand(nineHighStraight(Diamonds, Clubs)...)

	g.players[0].PlaceBet(100)
	g.players[1].PlaceBet(100)
	g.players[2].PlaceBet(100)
	g.players[2].Fold()
	syncStartTotal(g)

	result, err := g.resolveShowdown()
	require.NoError(t, err)

	require.Len(t, result.Pots, 1)
	assert.Equal(t, int64(300), result.Pots[0].Amount)
	assert.Equal(t, []string{"bob"}, result.Pots[0].Winners)
	assert.Equal(t, int64(1200), g.players[1].Chips)
	assert.Equal(t, int64(900), g.players[2].Chips, "A folded seat never gets chips back")
}
