package poker

import (
	"fmt"

	"github.com/vctt94/drawpoker/pkg/statemachine"
)

// PlayerStateFn represents a player state function following Rob Pike's pattern
type PlayerStateFn = statemachine.StateFn[Player]

// Player represents a seat at the table: a name, a chip stack, the bet
// placed this street, and the hand it owns. The chip stack persists across
// hands; bet, fold and all-in status reset every hand.
type Player struct {
	Name      string
	TableSeat int

	Chips int64 // chips in the stack, never negative
	Bet   int64 // current-street bet, swept into the pot at street end
	Hand  *Hand

	// Status flags kept in sync by the state functions.
	HasFolded bool
	IsAllIn   bool

	stateMachine *statemachine.Machine[Player]
}

// NewPlayer creates a player with the given starting chips.
func NewPlayer(name string, chips int64) *Player {
	p := &Player{
		Name:      name,
		TableSeat: -1,
		Chips:     chips,
		Hand:      NewHand(),
	}

	p.stateMachine = statemachine.New(p, playerStateActive)
	p.HasFolded = false
	p.IsAllIn = false

	return p
}

// State functions following Rob Pike's pattern: each checks the player's
// condition, keeps the flags consistent, and returns the next state.

// playerStateActive represents a player still able to act in the hand.
func playerStateActive(entity *Player) PlayerStateFn {
	if entity.HasFolded {
		return playerStateFolded
	}
	if entity.Chips == 0 && entity.Bet > 0 {
		return playerStateAllIn
	}

	entity.HasFolded = false
	entity.IsAllIn = false
	return playerStateActive
}

// playerStateFolded represents a player who has folded this hand.
func playerStateFolded(entity *Player) PlayerStateFn {
	if !entity.HasFolded {
		return playerStateActive
	}

	entity.HasFolded = true
	entity.IsAllIn = false
	return playerStateFolded
}

// playerStateAllIn represents a player who has wagered every chip.
func playerStateAllIn(entity *Player) PlayerStateFn {
	if entity.HasFolded {
		return playerStateFolded
	}
	if entity.Chips > 0 {
		return playerStateActive
	}

	entity.HasFolded = false
	entity.IsAllIn = true
	return playerStateAllIn
}

// StateName returns a string representation of the player's current state.
func (p *Player) StateName() string {
	if p.stateMachine == nil {
		return "UNINITIALIZED"
	}

	current := p.stateMachine.Current()
	switch fmt.Sprintf("%p", current) {
	case fmt.Sprintf("%p", playerStateActive):
		return "ACTIVE"
	case fmt.Sprintf("%p", playerStateFolded):
		return "FOLDED"
	case fmt.Sprintf("%p", playerStateAllIn):
		return "ALL_IN"
	default:
		return "UNKNOWN"
	}
}

// CanAct reports whether the player can still take betting actions: not
// folded, not all-in, and holding chips.
func (p *Player) CanAct() bool {
	return !p.HasFolded && !p.IsAllIn && p.Chips > 0
}

// PlaceBet moves up to amount chips from the stack into the player's
// current-street bet, clamped to the chips available, and returns the amount
// actually wagered. Exhausting the stack puts the player all-in.
func (p *Player) PlaceBet(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	if amount > p.Chips {
		amount = p.Chips
	}

	p.Chips -= amount
	p.Bet += amount

	if p.Chips == 0 && p.Bet > 0 {
		p.stateMachine.Dispatch(playerStateAllIn)
	}
	return amount
}

// Fold marks the player as folded for the rest of the hand.
func (p *Player) Fold() {
	p.HasFolded = true
	p.stateMachine.Dispatch(playerStateFolded)
}

// ResetForNewStreet clears the per-street bet; fold and all-in status carry
// over until the next hand.
func (p *Player) ResetForNewStreet() {
	p.Bet = 0
}

// ResetForNewHand resets the player's hand-scoped state, preserving the chip
// stack.
func (p *Player) ResetForNewHand() {
	p.Hand = NewHand()
	p.Bet = 0
	p.HasFolded = false
	p.IsAllIn = false
	p.stateMachine.Dispatch(playerStateActive)
}

// String returns the player's name, stack and status.
func (p *Player) String() string {
	return fmt.Sprintf("%s (chips: %d, bet: %d, state: %s)", p.Name, p.Chips, p.Bet, p.StateName())
}
