package poker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBettingGame(t *testing.T, names ...string) *Game {
	t.Helper()
	if len(names) == 0 {
		names = []string{"alice", "bob", "carol"}
	}
	g, err := NewGame(names, GameConfig{
		StartingChips: 1000,
		SmallBlind:    10,
		BigBlind:      20,
		Seed:          1,
	})
	require.NoError(t, err)
	return g
}

func TestApplyCallMatchesPrevailingBet(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 60

	seat := g.players[0]
	applied := g.applyCall(seat)

	assert.Equal(t, "call", applied.name)
	assert.Equal(t, int64(60), applied.moved)
	assert.Equal(t, int64(60), seat.Bet)
	assert.Equal(t, int64(940), seat.Chips)
	assert.False(t, applied.reopened)
}

func TestApplyCallWithNothingOwedIsCheck(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 20

	seat := g.players[0]
	seat.PlaceBet(20)
	applied := g.applyCall(seat)

	assert.Equal(t, int64(0), applied.moved)
	assert.False(t, applied.reopened)
}

func TestApplyCallShortAllInReopens(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 200

	seat := g.players[2]
	seat.Chips = 50
	applied := g.applyCall(seat)

	assert.Equal(t, int64(50), applied.moved)
	assert.True(t, seat.IsAllIn)
	assert.True(t, applied.reopened, "A short all-in call must reopen the action")

	// The prevailing bet and raise count are untouched.
	assert.Equal(t, int64(200), g.round.CurrentBet)
	assert.Equal(t, 0, g.round.RaiseCount)
}

func TestApplyRaiseUpdatesRoundState(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 20

	seat := g.players[0]
	applied := g.applyRaise(seat, 100)

	assert.Equal(t, "raise", applied.name)
	assert.Equal(t, int64(100), applied.moved)
	assert.True(t, applied.reopened)
	assert.Equal(t, int64(100), g.round.CurrentBet)
	assert.Equal(t, 1, g.round.RaiseCount)
	assert.Equal(t, int64(100), seat.Bet)
}

func TestApplyRaiseBelowMinimumDowngradesToCall(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 100

	// Minimum raise is CurrentBet + MinBet = 120; 110 is short.
	seat := g.players[0]
	applied := g.applyRaise(seat, 110)

	assert.Equal(t, "call", applied.name)
	assert.Equal(t, int64(100), applied.moved)
	assert.Equal(t, int64(100), g.round.CurrentBet)
	assert.Equal(t, 0, g.round.RaiseCount)
}

func TestApplyRaiseAtCapDowngradesToCall(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 20
	g.round.RaiseCount = g.cfg.MaxRaisesPerStreet

	seat := g.players[0]
	applied := g.applyRaise(seat, 200)

	assert.Equal(t, "call", applied.name)
	assert.Equal(t, int64(20), seat.Bet)
	assert.Equal(t, g.cfg.MaxRaisesPerStreet, g.round.RaiseCount)
}

func TestApplyRaiseClampsToStack(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 20

	seat := g.players[0]
	applied := g.applyRaise(seat, 5000)

	assert.Equal(t, "raise", applied.name)
	assert.Equal(t, int64(1000), applied.moved)
	assert.Equal(t, int64(1000), g.round.CurrentBet)
	assert.True(t, seat.IsAllIn)
}

func TestApplyRaiseClampedBelowMinimumBecomesCall(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 100

	// The whole stack cannot reach the minimum raise: it is a call, which
	// in turn is a short all-in that reopens the action.
	seat := g.players[0]
	seat.Chips = 80
	applied := g.applyRaise(seat, 500)

	assert.Equal(t, "call", applied.name)
	assert.Equal(t, int64(80), applied.moved)
	assert.True(t, seat.IsAllIn)
	assert.True(t, applied.reopened)
	assert.Equal(t, int64(100), g.round.CurrentBet)
}

func TestApplyActionUnknownTypeBecomesCall(t *testing.T) {
	g := newBettingGame(t)
	g.round.CurrentBet = 40

	seat := g.players[0]
	applied := g.applyAction(seat, Action{Type: ActionType(99)})

	assert.Equal(t, "call", applied.name)
	assert.Equal(t, int64(40), seat.Bet)
}

func TestApplyActionFold(t *testing.T) {
	g := newBettingGame(t)
	seat := g.players[1]

	applied := g.applyAction(seat, Action{Type: ActionFold})

	assert.Equal(t, "fold", applied.name)
	assert.Equal(t, int64(0), applied.moved)
	assert.True(t, seat.HasFolded)
}

func TestRequestActionMissingDeciderFallsBackToCall(t *testing.T) {
	g := newBettingGame(t)
	action := g.requestAction(context.Background(), g.players[0])
	assert.Equal(t, ActionCall, action.Type)
}

func TestRequestActionDeciderErrorFallsBackToCall(t *testing.T) {
	g := newBettingGame(t)
	require.NoError(t, g.SetDecider("alice", DeciderFunc(
		func(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
			return Action{}, errors.New("flaky strategy")
		})))

	action := g.requestAction(context.Background(), g.players[0])
	assert.Equal(t, ActionCall, action.Type)
}

func TestRequestActionTimeBankExpiresToCall(t *testing.T) {
	g := newBettingGame(t)
	g.cfg.TimeBank = 10 * time.Millisecond
	require.NoError(t, g.SetDecider("alice", DeciderFunc(
		func(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
			<-ctx.Done()
			return Action{}, ctx.Err()
		})))

	start := time.Now()
	action := g.requestAction(context.Background(), g.players[0])
	assert.Equal(t, ActionCall, action.Type)
	assert.Less(t, time.Since(start), time.Second)
}

// countingDecider wraps another decider and counts how often it is asked.
type countingDecider struct {
	inner Decider
	count int
}

func (d *countingDecider) DecideAction(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
	d.count++
	return d.inner.DecideAction(ctx, seat, snap)
}

func TestRunBettingStreetAllCallsTerminatesInOneOrbit(t *testing.T) {
	g := newBettingGame(t)

	counter := &countingDecider{inner: DeciderFunc(
		func(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
			return Action{Type: ActionCall}, nil
		})}
	for _, p := range g.players {
		require.NoError(t, g.SetDecider(p.Name, counter))
	}

	_, err := g.runBettingStreet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counter.count, "A street of calls is exactly one action per seat")
}

func TestRunBettingStreetRaiseExtendsStreet(t *testing.T) {
	g := newBettingGame(t)

	counter := &countingDecider{inner: DeciderFunc(
		func(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
			// Bob raises on his first turn; everyone else calls.
			if seat == "bob" && snap.CurrentBet == 0 {
				return Action{Type: ActionRaise, Amount: 100}, nil
			}
			return Action{Type: ActionCall}, nil
		})}
	for _, p := range g.players {
		require.NoError(t, g.SetDecider(p.Name, counter))
	}

	_, err := g.runBettingStreet(context.Background())
	require.NoError(t, err)

	// alice, bob's raise, carol, then alice again.
	assert.Equal(t, 4, counter.count)
	assert.Equal(t, int64(100), g.round.CurrentBet)
	for _, p := range g.players {
		assert.Equal(t, int64(100), p.Bet)
	}
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	g := newBettingGame(t)
	for _, p := range g.players {
		cards, err := g.deck.Deal(5)
		require.NoError(t, err)
		p.Hand.AddCards(cards)
	}
	g.round.CurrentBet = 50
	g.players[0].PlaceBet(20)

	snap := g.Snapshot("alice")
	assert.Equal(t, int64(30), snap.ToCall)
	require.Len(t, snap.Players, 3)
	for _, ps := range snap.Players {
		if ps.Name == "alice" {
			assert.Len(t, ps.Cards, 5, "Viewer sees their own cards")
		} else {
			assert.Empty(t, ps.Cards, "Other hands stay hidden")
		}
	}
}

func TestActionTypeString(t *testing.T) {
	assert.Equal(t, "fold", ActionFold.String())
	assert.Equal(t, "call", ActionCall.String())
	assert.Equal(t, "raise", ActionRaise.String())
	assert.Equal(t, "unknown", ActionType(42).String())
}
