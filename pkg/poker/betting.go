package poker

import (
	"context"
)

// ActionType enumerates the decisions a seat can make. It is a closed sum:
// anything a collaborator returns outside it is treated as a call, the
// safest action.
type ActionType int

const (
	ActionFold ActionType = iota
	ActionCall
	ActionRaise
)

// String returns the action name
func (a ActionType) String() string {
	switch a {
	case ActionFold:
		return "fold"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// Action is a seat's decision. For a raise, Amount is the total bet the seat
// intends to have in front of it this street, not the increment.
type Action struct {
	Type   ActionType
	Amount int64
}

// Decider supplies decisions for seats. It is the engine's single consumed
// capability: the host backs it with whatever decision mechanism it likes.
// The call blocks until a decision is made or ctx is done; on error or
// cancellation the engine falls back to a call and the hand continues.
type Decider interface {
	DecideAction(ctx context.Context, seat string, snap GameSnapshot) (Action, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, seat string, snap GameSnapshot) (Action, error)

// DecideAction implements Decider
func (f DeciderFunc) DecideAction(ctx context.Context, seat string, snap GameSnapshot) (Action, error) {
	return f(ctx, seat, snap)
}

// DrawDecider supplies draw-phase decisions: the indexes of the cards the
// seat discards. Errors and invalid indexes leave the hand untouched.
type DrawDecider interface {
	DecideDiscards(ctx context.Context, seat string, snap GameSnapshot) ([]int, error)
}

// DrawDeciderFunc adapts a function to the DrawDecider interface.
type DrawDeciderFunc func(ctx context.Context, seat string, snap GameSnapshot) ([]int, error)

// DecideDiscards implements DrawDecider
func (f DrawDeciderFunc) DecideDiscards(ctx context.Context, seat string, snap GameSnapshot) ([]int, error) {
	return f(ctx, seat, snap)
}

// BettingResult is what a completed street hands back to the game loop.
type BettingResult struct {
	PotTotal int64
	// NeedsPotRecompute is set once any seat has gone all-in this hand,
	// which forces side-pot computation before the street's bets are swept.
	NeedsPotRecompute bool
}

// appliedAction is the outcome of clamping and applying one decision.
type appliedAction struct {
	name     string
	moved    int64
	reopened bool
}

// runBettingStreet drives one betting street to completion: repeatedly asks
// the table for the next seat that owes an action, obtains a decision from
// the host, clamps it against table rules, applies it, and stops when the
// table reports the street complete.
func (g *Game) runBettingStreet(ctx context.Context) (BettingResult, error) {
	g.table.ResetActionTracking()
	g.table.SetCursor(g.round.FirstToAct)

	for !g.table.StreetComplete() {
		seat := g.table.NextToAct()
		if seat == nil {
			break
		}

		action := g.requestAction(ctx, seat)
		applied := g.applyAction(seat, action)
		g.table.MarkActed(seat, applied.reopened)

		if seat.IsAllIn {
			g.anyAllIn = true
		}

		g.events.Publish(Event{
			Type:   EventPlayerAction,
			Phase:  g.round.Phase,
			Seat:   seat.Name,
			Action: applied.name,
			Amount: applied.moved,
			Chips:  seat.Chips,
			Bet:    seat.Bet,
			Pot:    g.potTotal(),
		})
	}

	g.events.Publish(Event{
		Type:  EventStreetComplete,
		Phase: g.round.Phase,
		Pot:   g.potTotal(),
	})

	return BettingResult{
		PotTotal:          g.potTotal(),
		NeedsPotRecompute: g.anyAllIn,
	}, nil
}

// requestAction obtains a decision from the seat's decider, bounded by the
// configured time bank. A missing decider, a decider error, or a cancelled
// context all degrade to a call; only the engine's own accounting can abort
// a hand.
func (g *Game) requestAction(ctx context.Context, seat *Player) Action {
	decider := g.deciders[seat.Name]
	if decider == nil {
		g.log.Warnf("no decider registered for seat %s, falling back to call", seat.Name)
		return Action{Type: ActionCall}
	}

	dctx := ctx
	if g.cfg.TimeBank > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, g.cfg.TimeBank)
		defer cancel()
	}

	action, err := decider.DecideAction(dctx, seat.Name, g.Snapshot(seat.Name))
	if err != nil {
		g.log.Warnf("decider for seat %s failed (%v), falling back to call", seat.Name, err)
		g.events.Publish(Event{
			Type:   EventRecoverable,
			Phase:  g.round.Phase,
			Seat:   seat.Name,
			Action: "decider failure: " + err.Error(),
		})
		return Action{Type: ActionCall}
	}
	return action
}

// applyAction clamps and applies one decision, mutating the seat and the
// round state. It reports whether the action reopened the street.
func (g *Game) applyAction(seat *Player, action Action) appliedAction {
	switch action.Type {
	case ActionFold:
		seat.Fold()
		g.log.Debugf("%s folds", seat.Name)
		return appliedAction{name: "fold"}

	case ActionRaise:
		return g.applyRaise(seat, action.Amount)

	case ActionCall:
		return g.applyCall(seat)

	default:
		g.log.Infof("unrecognized action %d from %s, treating as call", action.Type, seat.Name)
		return g.applyCall(seat)
	}
}

// applyRaise validates a raise against the table rules. An illegal raise is
// silently downgraded to a call; this is a recoverable event, not an error.
func (g *Game) applyRaise(seat *Player, amount int64) appliedAction {
	if maxTotal := seat.Bet + seat.Chips; amount > maxTotal {
		amount = maxTotal
	}

	if g.round.RaiseCount >= g.cfg.MaxRaisesPerStreet {
		g.log.Infof("max raises (%d) reached, converting %s's raise to call",
			g.cfg.MaxRaisesPerStreet, seat.Name)
		return g.applyCall(seat)
	}

	minRaise := g.round.CurrentBet + g.cfg.MinBet
	if amount < minRaise {
		g.log.Infof("raise to %d below minimum %d, converting %s's raise to call",
			amount, minRaise, seat.Name)
		return g.applyCall(seat)
	}

	moved := seat.PlaceBet(amount - seat.Bet)
	g.round.CurrentBet = seat.Bet
	g.round.RaiseCount++
	g.log.Debugf("%s raises to %d (moved %d, raise %d of %d)",
		seat.Name, seat.Bet, moved, g.round.RaiseCount, g.cfg.MaxRaisesPerStreet)
	return appliedAction{name: "raise", moved: moved, reopened: true}
}

// applyCall matches the prevailing bet as far as the seat's chips allow. A
// seat that cannot reach the prevailing bet goes all-in for less, and that
// short all-in reopens the action for every other active seat.
func (g *Game) applyCall(seat *Player) appliedAction {
	toCall := g.round.CurrentBet - seat.Bet
	if toCall < 0 {
		toCall = 0
	}

	moved := seat.PlaceBet(toCall)
	reopened := seat.IsAllIn && seat.Bet < g.round.CurrentBet
	if reopened {
		g.log.Debugf("%s is all-in for %d, below the prevailing bet %d; action reopens",
			seat.Name, seat.Bet, g.round.CurrentBet)
	} else {
		g.log.Debugf("%s calls %d", seat.Name, moved)
	}
	return appliedAction{name: "call", moved: moved, reopened: reopened}
}

// potTotal is every contested chip right now: pots already built plus the
// street bets not yet swept.
func (g *Game) potTotal() int64 {
	total := g.pots.Total()
	for _, p := range g.players {
		total += p.Bet
	}
	return total
}
