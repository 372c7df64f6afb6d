package poker

import (
	"errors"
	"fmt"
)

// Errors surfaced by game construction and hand resolution.
var (
	ErrNotEnoughPlayers = errors.New("at least 2 players with chips are required")
	ErrDuplicateName    = errors.New("player names must be unique within a table")
	ErrHandInProgress   = errors.New("a hand is already being resolved")
)

// ChipConservationError reports a violation of the invariant that chips are
// never created or destroyed while resolving a hand. It indicates a defect
// in the engine itself: hand resolution must abort rather than continue with
// corrupted state.
type ChipConservationError struct {
	Expected int64
	Actual   int64
	Context  string
	Dump     string
}

// Error implements the error interface
func (e *ChipConservationError) Error() string {
	return fmt.Sprintf("chip conservation violated during %s: expected %d chips in play, found %d",
		e.Context, e.Expected, e.Actual)
}
