package poker

// PlayerSnapshot is one seat's public state at a decision point. Cards is
// populated only for the viewer's own seat.
type PlayerSnapshot struct {
	Name      string
	TableSeat int
	Chips     int64
	Bet       int64
	HasFolded bool
	IsAllIn   bool
	Cards     []Card
}

// GameSnapshot is an immutable view of the hand handed to deciders. It
// shares nothing with the live game state, so a decider may retain it.
type GameSnapshot struct {
	Phase      Phase
	Dealer     int
	CurrentBet int64
	RaiseCount int
	MinBet     int64
	MaxRaises  int
	Pot        int64
	Players    []PlayerSnapshot

	// ToCall is what the viewer owes to stay in the hand.
	ToCall int64
}

// Snapshot builds the view of the hand as seen by viewer. Only the viewer's
// own hole cards are included.
func (g *Game) Snapshot(viewer string) GameSnapshot {
	snap := GameSnapshot{
		Phase:      g.round.Phase,
		Dealer:     g.round.Dealer,
		CurrentBet: g.round.CurrentBet,
		RaiseCount: g.round.RaiseCount,
		MinBet:     g.cfg.MinBet,
		MaxRaises:  g.cfg.MaxRaisesPerStreet,
		Pot:        g.potTotal(),
		Players:    make([]PlayerSnapshot, 0, len(g.players)),
	}

	for _, p := range g.players {
		ps := PlayerSnapshot{
			Name:      p.Name,
			TableSeat: p.TableSeat,
			Chips:     p.Chips,
			Bet:       p.Bet,
			HasFolded: p.HasFolded,
			IsAllIn:   p.IsAllIn,
		}
		if p.Name == viewer {
			ps.Cards = p.Hand.Cards()
			if owed := g.round.CurrentBet - p.Bet; owed > 0 {
				snap.ToCall = owed
			}
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}
