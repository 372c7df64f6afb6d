package poker

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
)

// SidePot is one tranche of the contested money: an amount plus the set of
// seats eligible to win it. Folded seats' chips stay inside the amount but
// the seats themselves are never eligible.
type SidePot struct {
	Amount   int64
	Eligible []string // seat names, sorted
}

// hasEligible reports whether name may win this pot.
func (sp *SidePot) hasEligible(name string) bool {
	for _, n := range sp.Eligible {
		if n == name {
			return true
		}
	}
	return false
}

// PotManager converts per-seat street bets into one or more pots with
// correct eligibility, merging tranches across streets when their eligible
// sets coincide, and guards the chip-conservation invariant while doing so.
type PotManager struct {
	log      slog.Logger
	main     int64
	sidePots []*SidePot

	// absorbed is set when the current street's bets are already represented
	// inside sidePots, so EndBettingRound must zero them without sweeping
	// them into the main pot a second time.
	absorbed bool
}

// NewPotManager creates an empty pot manager.
func NewPotManager(log slog.Logger) *PotManager {
	if log == nil {
		log = slog.NewBackend(io.Discard).Logger("POT")
	}
	return &PotManager{log: log}
}

// AddToMain adds chips directly to the main pot (antes).
func (pm *PotManager) AddToMain(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("cannot add negative amount %d to pot", amount)
	}
	pm.main += amount
	return nil
}

// Main returns the main pot amount.
func (pm *PotManager) Main() int64 {
	return pm.main
}

// SidePots returns the current side pots.
func (pm *PotManager) SidePots() []*SidePot {
	return pm.sidePots
}

// Total returns the chips across the main pot and every side pot.
func (pm *PotManager) Total() int64 {
	total := pm.main
	for _, sp := range pm.sidePots {
		total += sp.Amount
	}
	return total
}

// ComputeSidePots splits the current street's bets into tranches. It must be
// called before EndBettingRound, while the bets are still on the seats.
//
// Every distinct bet level produces one tranche sized
// (level - previousLevel) x (seats that bet at least level); a seat is
// eligible for a tranche iff it bet at least that level and has not folded.
// Tranches whose eligible set matches an existing pot are merged into it,
// which is how an all-in seat's pot stays a single pot while later streets
// continue without it.
//
// Calling with no seats clears the side pots; calling again with no new bets
// returns the existing side pots unchanged.
func (pm *PotManager) ComputeSidePots(players []*Player) ([]*SidePot, error) {
	if len(players) == 0 {
		pm.sidePots = nil
		return nil, nil
	}

	totalBefore := pm.totalInPlay(players)

	var totalBets int64
	for _, p := range players {
		totalBets += p.Bet
	}
	if totalBets == 0 {
		pm.log.Debugf("no bets to process, returning existing side pots")
		return pm.sidePots, nil
	}

	// Distinct bet levels, ascending. Folded seats' bets still define
	// levels: their chips are in the pot even though they cannot win it.
	levelSet := make(map[int64]bool)
	for _, p := range players {
		if p.Bet > 0 {
			levelSet[p.Bet] = true
		}
	}
	levels := make([]int64, 0, len(levelSet))
	for lvl := range levelSet {
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	newPots := make([]*SidePot, 0, len(levels))
	var prev int64
	for _, lvl := range levels {
		pot := &SidePot{}
		for _, p := range players {
			if p.Bet >= lvl && !p.HasFolded {
				pot.Eligible = append(pot.Eligible, p.Name)
			}
			// Each contributor pays min(bet, lvl) - prev into this tranche.
			if p.Bet > prev {
				contribution := p.Bet
				if contribution > lvl {
					contribution = lvl
				}
				pot.Amount += contribution - prev
			}
		}
		sort.Strings(pot.Eligible)
		if pot.Amount > 0 {
			pm.log.Debugf("side pot tranche at level %d: amount=%d eligible=%s",
				lvl, pot.Amount, strings.Join(pot.Eligible, ","))
			newPots = append(newPots, pot)
		}
		prev = lvl
	}

	merged := pm.mergePots(pm.sidePots, newPots)

	// Every chip bet this street must now live in exactly one tranche.
	var oldTotal, mergedTotal int64
	for _, sp := range pm.sidePots {
		oldTotal += sp.Amount
	}
	for _, sp := range merged {
		mergedTotal += sp.Amount
	}
	if mergedTotal != totalBets+oldTotal {
		return nil, pm.conservationError("side pot computation",
			totalBets+oldTotal, mergedTotal, players)
	}

	// Re-validate the hand-wide invariant: the bets are still on the seats,
	// so the model total counts them once inside the new tranches instead.
	totalAfter := pm.main + mergedTotal
	for _, p := range players {
		totalAfter += p.Chips
	}
	if totalAfter != totalBefore {
		return nil, pm.conservationError("side pot validation", totalBefore, totalAfter, players)
	}

	pm.sidePots = merged
	pm.absorbed = true
	return pm.sidePots, nil
}

// mergePots combines existing and new tranches, summing the amounts of any
// pots that share an identical eligible-seat set. Pot order follows the
// first appearance of each eligible set, so earlier (lower) tranches stay
// first.
func (pm *PotManager) mergePots(existing, newPots []*SidePot) []*SidePot {
	var ordered []*SidePot
	index := make(map[string]*SidePot)

	add := func(sp *SidePot) {
		key := strings.Join(sp.Eligible, "\x00")
		if found, ok := index[key]; ok {
			pm.log.Debugf("merging pot of %d into pot with identical eligibility", sp.Amount)
			found.Amount += sp.Amount
			return
		}
		merged := &SidePot{Amount: sp.Amount, Eligible: append([]string(nil), sp.Eligible...)}
		index[key] = merged
		ordered = append(ordered, merged)
	}

	for _, sp := range existing {
		add(sp)
	}
	for _, sp := range newPots {
		add(sp)
	}
	return ordered
}

// EndBettingRound sweeps each seat's current-street bet out of the seat and
// zeroes it. When ComputeSidePots already absorbed the bets into side pots
// the sweep only zeroes; otherwise the bets land in the main pot. Must run
// strictly after ComputeSidePots, which needs the per-seat bet amounts.
func (pm *PotManager) EndBettingRound(players []*Player) {
	for _, p := range players {
		if p.Bet == 0 {
			continue
		}
		if !pm.absorbed {
			pm.main += p.Bet
		}
		pm.log.Debugf("%s's street bet of %d swept", p.Name, p.Bet)
		p.Bet = 0
	}
	pm.absorbed = false
}

// DistributionPots returns the pots to settle at showdown. With no side
// pots the main pot is a single tranche open to every non-folded seat; with
// side pots, a non-empty main pot (antes) is prepended with the same open
// eligibility.
func (pm *PotManager) DistributionPots(players []*Player) []*SidePot {
	var pots []*SidePot
	if pm.main > 0 || len(pm.sidePots) == 0 {
		open := &SidePot{Amount: pm.main}
		for _, p := range players {
			if !p.HasFolded {
				open.Eligible = append(open.Eligible, p.Name)
			}
		}
		sort.Strings(open.Eligible)
		pots = append(pots, open)
	}
	return append(pots, pm.sidePots...)
}

// Reset empties the main pot and all side pots. Called only after the chips
// have been distributed at showdown.
func (pm *PotManager) Reset() {
	pm.main = 0
	pm.sidePots = nil
	pm.absorbed = false
}

// totalInPlay counts every chip the manager can see: stacks, unswept street
// bets, the main pot, and the side pots.
func (pm *PotManager) totalInPlay(players []*Player) int64 {
	total := pm.Total()
	for _, p := range players {
		total += p.Chips + p.Bet
	}
	return total
}

// conservationError logs and builds the fatal chip-accounting error,
// attaching a full state dump for postmortem debugging.
func (pm *PotManager) conservationError(context string, expected, actual int64, players []*Player) error {
	seats := make([]string, len(players))
	for i, p := range players {
		seats[i] = p.String()
	}
	dump := spew.Sdump(struct {
		Main     int64
		SidePots []*SidePot
		Seats    []string
	}{pm.main, pm.sidePots, seats})

	pm.log.Errorf("chip conservation violated during %s: expected=%d actual=%d\n%s",
		context, expected, actual, dump)

	return &ChipConservationError{
		Expected: expected,
		Actual:   actual,
		Context:  context,
		Dump:     dump,
	}
}
