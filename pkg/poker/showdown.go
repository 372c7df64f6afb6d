package poker

// resolveShowdown settles the hand: builds the distribution pots, finds each
// pot's winners among its eligible seats, and pays out. When only one seat
// remains unfolded it takes everything uncontested, hands unseen.
func (g *Game) resolveShowdown() (*ShowdownResult, error) {
	g.round.Phase = PhaseShowdown

	g.pots.EndBettingRound(g.players)

	result := &ShowdownResult{TotalPot: g.pots.Total()}

	remaining := g.table.NonFoldedPlayers()
	if len(remaining) == 1 {
		g.payUncontested(remaining[0], result)
	} else {
		for _, pot := range g.pots.DistributionPots(g.players) {
			g.resolvePot(pot, result)
		}
	}

	g.pots.Reset()

	if err := g.validateChipConservation("after showdown distribution"); err != nil {
		return nil, err
	}

	g.events.Publish(Event{
		Type:     EventShowdownResult,
		Phase:    g.round.Phase,
		Pot:      result.TotalPot,
		Showdown: result,
	})
	return result, nil
}

func (g *Game) payUncontested(winner *Player, result *ShowdownResult) {
	amount := g.pots.Total()
	winner.Chips += amount
	g.log.Debugf("%s wins %d uncontested", winner.Name, amount)
	result.Pots = append(result.Pots, PotResult{
		Amount:   amount,
		Eligible: []string{winner.Name},
		Winners:  []string{winner.Name},
		Payouts:  map[string]int64{winner.Name: amount},
	})
}

// resolvePot finds the best hand among the pot's eligible seats and splits
// the pot between the holders. The split is integer division; the remainder
// goes one chip at a time to winners in seating order.
//
// When every eligible seat folded on a later street the pot opens up to all
// remaining seats: the chips must go somewhere.
func (g *Game) resolvePot(pot *SidePot, result *ShowdownResult) {
	winners, best := g.bestAmong(func(seat *Player) bool {
		return pot.hasEligible(seat.Name)
	})
	if len(winners) == 0 {
		g.log.Debugf("every seat eligible for a pot of %d folded; opening it to the field", pot.Amount)
		winners, best = g.bestAmong(func(*Player) bool { return true })
	}

	if len(winners) == 0 || pot.Amount == 0 {
		return
	}

	share := pot.Amount / int64(len(winners))
	rem := pot.Amount % int64(len(winners))

	pr := PotResult{
		Amount:      pot.Amount,
		Eligible:    pot.Eligible,
		Payouts:     make(map[string]int64, len(winners)),
		WinningHand: best.Description,
	}
	for i, w := range winners {
		payout := share
		if int64(i) < rem {
			payout++
		}
		w.Chips += payout
		pr.Winners = append(pr.Winners, w.Name)
		pr.Payouts[w.Name] = payout
		g.log.Debugf("%s wins %d from pot of %d with %s",
			w.Name, payout, pot.Amount, best.Description)
	}
	result.Pots = append(result.Pots, pr)
}

// bestAmong returns the non-folded seats holding the best hand, restricted
// to those the filter admits, in seating order.
func (g *Game) bestAmong(filter func(*Player) bool) ([]*Player, HandEvaluation) {
	var winners []*Player
	var best HandEvaluation

	for _, seat := range g.players {
		if seat.HasFolded || !filter(seat) {
			continue
		}
		eval := seat.Hand.Evaluation()
		if eval.Rank == rankInvalid {
			g.log.Warnf("seat %s holds an unevaluable hand, excluded from pot", seat.Name)
			continue
		}
		switch {
		case len(winners) == 0:
			winners = []*Player{seat}
			best = eval
		default:
			switch cmp := CompareEvaluations(eval, best); {
			case cmp > 0:
				winners = []*Player{seat}
				best = eval
			case cmp == 0:
				winners = append(winners, seat)
			}
		}
	}
	return winners, best
}
