package poker

// Phase identifies where a hand is in its lifecycle.
type Phase int

const (
	PhaseNewHand Phase = iota
	PhasePreDraw
	PhaseDraw
	PhasePostDraw
	PhaseShowdown
	PhaseComplete
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseNewHand:
		return "NEW_HAND"
	case PhasePreDraw:
		return "PRE_DRAW"
	case PhaseDraw:
		return "DRAW"
	case PhasePostDraw:
		return "POST_DRAW"
	case PhaseShowdown:
		return "SHOWDOWN"
	case PhaseComplete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

// RoundState tracks the state of the current betting street and the fixed
// positions for the hand. It is created at hand start and discarded after
// showdown.
type RoundState struct {
	Phase      Phase
	CurrentBet int64 // prevailing bet every seat must match to stay in
	RaiseCount int   // raises this street, capped by config

	Dealer     int
	SmallBlind int
	BigBlind   int
	FirstToAct int
}

// NewRoundState computes the positions for a hand with numPlayers seats and
// the given dealer. Heads-up, the dealer posts the small blind.
func NewRoundState(numPlayers, dealer int) *RoundState {
	rs := &RoundState{
		Phase:  PhaseNewHand,
		Dealer: dealer,
	}
	if numPlayers == 2 {
		rs.SmallBlind = dealer
		rs.BigBlind = (dealer + 1) % numPlayers
	} else {
		rs.SmallBlind = (dealer + 1) % numPlayers
		rs.BigBlind = (dealer + 2) % numPlayers
	}
	rs.FirstToAct = (rs.BigBlind + 1) % numPlayers
	return rs
}

// NewStreet resets the per-street betting state. After the draw, the first
// seat past the dealer opens the action.
func (rs *RoundState) NewStreet(phase Phase, numPlayers int) {
	rs.Phase = phase
	rs.CurrentBet = 0
	rs.RaiseCount = 0
	if phase == PhasePostDraw {
		rs.FirstToAct = (rs.Dealer + 1) % numPlayers
	}
}
