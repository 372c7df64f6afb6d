package poker

import (
	"io"

	"github.com/decred/slog"
)

// Table maintains the seating order and turn rotation for one hand: whose
// turn it is, which seats still owe an action this street, and which have
// acted since the last raise.
//
// The tracking sets are always rebuilt from player status rather than
// patched incrementally, so a fold or all-in can never leave a stale entry
// behind.
type Table struct {
	log     slog.Logger
	players []*Player
	cursor  int

	needsToAct          map[string]bool
	actedSinceLastRaise map[string]bool
}

// NewTable creates a table over the given players in seating order.
func NewTable(players []*Player, log slog.Logger) *Table {
	if log == nil {
		log = slog.NewBackend(io.Discard).Logger("TABL")
	}
	for i, p := range players {
		p.TableSeat = i
	}
	t := &Table{
		log:     log,
		players: players,
	}
	t.ResetActionTracking()
	return t
}

// Players returns the seats in seating order.
func (t *Table) Players() []*Player {
	return t.players
}

// SetCursor positions the rotation so that the seat at index acts next.
func (t *Table) SetCursor(index int) {
	if len(t.players) == 0 {
		return
	}
	t.cursor = index % len(t.players)
}

// NextToAct returns the next seat in table order, starting at the cursor,
// that can act and still owes an action this street. It wraps circularly and
// returns nil when no such seat exists.
func (t *Table) NextToAct() *Player {
	for i := 0; i < len(t.players); i++ {
		p := t.players[(t.cursor+i)%len(t.players)]
		if !p.CanAct() || !t.needsToAct[p.Name] {
			continue
		}
		t.cursor = (p.TableSeat + 1) % len(t.players)
		t.log.Debugf("next to act: %s (seat %d)", p.Name, p.TableSeat)
		return p
	}
	return nil
}

// MarkActed records that a seat completed its action. A raise reopens the
// street: every other seat that can still act owes a new action, and the
// acted-since-last-raise set collapses to the raiser alone.
func (t *Table) MarkActed(p *Player, isRaise bool) {
	delete(t.needsToAct, p.Name)
	t.actedSinceLastRaise[p.Name] = true

	if isRaise {
		t.needsToAct = make(map[string]bool)
		for _, other := range t.players {
			if other != p && other.CanAct() {
				t.needsToAct[other.Name] = true
			}
		}
		t.actedSinceLastRaise = map[string]bool{p.Name: true}
		t.log.Debugf("%s reopened the action; %d seats must act again", p.Name, len(t.needsToAct))
		return
	}

	// Drop seats that folded or went all-in since the sets were built.
	t.pruneNeedsToAct()
}

// pruneNeedsToAct rebuilds needs-to-act against current seat status.
func (t *Table) pruneNeedsToAct() {
	rebuilt := make(map[string]bool, len(t.needsToAct))
	for _, p := range t.players {
		if p.CanAct() && t.needsToAct[p.Name] {
			rebuilt[p.Name] = true
		}
	}
	t.needsToAct = rebuilt
}

// ResetActionTracking starts a fresh street: every seat that can act owes an
// action and nobody has acted since the last raise.
func (t *Table) ResetActionTracking() {
	t.needsToAct = make(map[string]bool)
	for _, p := range t.players {
		if p.CanAct() {
			t.needsToAct[p.Name] = true
		}
	}
	t.actedSinceLastRaise = make(map[string]bool)
	t.cursor = 0
}

// StreetComplete reports whether the current betting street is finished:
// either nobody owes an action, or at most one seat remains unfolded so no
// further betting is possible. A street where every remaining seat is
// all-in completes immediately.
func (t *Table) StreetComplete() bool {
	t.pruneNeedsToAct()
	if len(t.needsToAct) == 0 {
		return true
	}
	return t.NonFoldedCount() <= 1
}

// ActivePlayers returns the seats that can still take actions: not folded,
// not all-in, chips remaining.
func (t *Table) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range t.players {
		if p.CanAct() {
			active = append(active, p)
		}
	}
	return active
}

// AllInPlayers returns the seats that are all-in.
func (t *Table) AllInPlayers() []*Player {
	var allIn []*Player
	for _, p := range t.players {
		if p.IsAllIn {
			allIn = append(allIn, p)
		}
	}
	return allIn
}

// FoldedPlayers returns the seats that have folded.
func (t *Table) FoldedPlayers() []*Player {
	var folded []*Player
	for _, p := range t.players {
		if p.HasFolded {
			folded = append(folded, p)
		}
	}
	return folded
}

// NonFoldedCount returns the number of seats still contesting the pot.
func (t *Table) NonFoldedCount() int {
	count := 0
	for _, p := range t.players {
		if !p.HasFolded {
			count++
		}
	}
	return count
}

// NonFoldedPlayers returns the seats still contesting the pot, in seating
// order.
func (t *Table) NonFoldedPlayers() []*Player {
	var alive []*Player
	for _, p := range t.players {
		if !p.HasFolded {
			alive = append(alive, p)
		}
	}
	return alive
}
