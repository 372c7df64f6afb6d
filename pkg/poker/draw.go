package poker

import (
	"context"
)

// runDrawPhase lets every non-folded seat with chips in the hand exchange up
// to five cards. Seats act in seating order from the dealer's left. A seat
// without a draw decider, or one whose decider errors or returns invalid
// indexes, stands pat.
func (g *Game) runDrawPhase(ctx context.Context) error {
	active := g.table.NonFoldedPlayers()

	// Worst case every active seat redraws its whole hand. If the stock
	// cannot cover that, fold the discards back in up front rather than
	// mid-phase.
	if g.deck.Size() < len(active)*5 && g.deck.DiscardSize() > 0 {
		g.log.Debugf("reshuffling %d discards into %d-card deck before draw",
			g.deck.DiscardSize(), g.deck.Size())
		g.deck.ReshuffleDiscards()
	}

	n := len(g.players)
	for i := 1; i <= n; i++ {
		seat := g.players[(g.round.Dealer+i)%n]
		if seat.HasFolded {
			continue
		}
		if err := g.runSeatDraw(ctx, seat); err != nil {
			return err
		}
	}

	g.round.NewStreet(PhasePostDraw, n)
	return nil
}

func (g *Game) runSeatDraw(ctx context.Context, seat *Player) error {
	discards := g.requestDiscards(ctx, seat)
	if len(discards) == 0 {
		g.log.Debugf("%s stands pat", seat.Name)
		g.publishDraw(seat, 0)
		return nil
	}

	removed, err := seat.Hand.RemoveCards(discards)
	if err != nil {
		g.log.Warnf("invalid discards %v from %s (%v), standing pat",
			discards, seat.Name, err)
		g.events.Publish(Event{
			Type:   EventRecoverable,
			Phase:  g.round.Phase,
			Seat:   seat.Name,
			Action: "invalid discards: " + err.Error(),
		})
		g.publishDraw(seat, 0)
		return nil
	}

	replacements, err := g.deck.Deal(len(removed))
	if err != nil {
		// Discards rejoin the stock before Deal fails, so running dry
		// here means the table genuinely exceeds the card supply.
		return err
	}
	g.deck.AddDiscarded(removed)
	seat.Hand.AddCards(replacements)

	g.log.Debugf("%s draws %d", seat.Name, len(removed))
	g.publishDraw(seat, len(removed))
	return nil
}

// requestDiscards obtains the seat's discard indexes, bounded by the time
// bank. Any failure means stand pat.
func (g *Game) requestDiscards(ctx context.Context, seat *Player) []int {
	decider := g.drawDeciders[seat.Name]
	if decider == nil {
		return nil
	}

	dctx := ctx
	if g.cfg.TimeBank > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, g.cfg.TimeBank)
		defer cancel()
	}

	discards, err := decider.DecideDiscards(dctx, seat.Name, g.Snapshot(seat.Name))
	if err != nil {
		g.log.Warnf("draw decider for seat %s failed (%v), standing pat", seat.Name, err)
		g.events.Publish(Event{
			Type:   EventRecoverable,
			Phase:  g.round.Phase,
			Seat:   seat.Name,
			Action: "draw decider failure: " + err.Error(),
		})
		return nil
	}
	return discards
}

func (g *Game) publishDraw(seat *Player, count int) {
	g.events.Publish(Event{
		Type:   EventDrawCompleted,
		Phase:  g.round.Phase,
		Seat:   seat.Name,
		Amount: int64(count),
		Chips:  seat.Chips,
	})
}
