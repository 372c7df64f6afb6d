package poker

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
	"github.com/vctt94/drawpoker/pkg/statemachine"
)

// GameConfig holds the table rules for a game.
type GameConfig struct {
	StartingChips int64
	SmallBlind    int64
	BigBlind      int64
	Ante          int64

	// MinBet is the minimum raise increment. Defaults to BigBlind.
	MinBet int64

	// MaxRaisesPerStreet caps raises per betting street. Defaults to 4.
	MaxRaisesPerStreet int

	// TimeBank bounds each decider call. Zero means unbounded.
	TimeBank time.Duration

	// Seed drives the deck shuffle. Zero seeds from the clock.
	Seed int64

	Log slog.Logger
}

func (cfg *GameConfig) normalize() {
	if cfg.MinBet <= 0 {
		cfg.MinBet = cfg.BigBlind
	}
	if cfg.MaxRaisesPerStreet <= 0 {
		cfg.MaxRaisesPerStreet = 4
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Log == nil {
		cfg.Log = slog.NewBackend(io.Discard).Logger("GAME")
	}
}

// HandStateFn represents a phase of hand resolution following Rob Pike's
// state function pattern.
type HandStateFn = statemachine.StateFn[Game]

// Game owns a table of players and resolves hands for it. A single
// goroutine drives each hand; the game never spawns goroutines of its own,
// and all waiting happens inside decider calls, which the configured time
// bank bounds.
type Game struct {
	cfg GameConfig
	log slog.Logger
	rng *rand.Rand

	players []*Player
	table   *Table
	deck    *Deck
	round   *RoundState
	pots    *PotManager

	deciders     map[string]Decider
	drawDeciders map[string]DrawDecider
	events       *EventManager

	dealer  int
	handNum int

	// Hand-scoped fields, valid only while PlayHand runs.
	ctx            context.Context
	err            error
	showdown       *ShowdownResult
	anyAllIn       bool
	handStartTotal int64
	handInProgress bool
}

// NewGame creates a game with one seat per name, each starting with
// cfg.StartingChips. Names must be unique; they identify seats in deciders,
// events and payouts.
func NewGame(names []string, cfg GameConfig) (*Game, error) {
	if len(names) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
	}

	cfg.normalize()
	rng := rand.New(rand.NewSource(cfg.Seed))

	players := make([]*Player, 0, len(names))
	for _, name := range names {
		players = append(players, NewPlayer(name, cfg.StartingChips))
	}

	g := &Game{
		cfg:          cfg,
		log:          cfg.Log,
		rng:          rng,
		players:      players,
		table:        NewTable(players, cfg.Log),
		deck:         NewDeck(rng),
		pots:         NewPotManager(cfg.Log),
		deciders:     make(map[string]Decider),
		drawDeciders: make(map[string]DrawDecider),
		events:       &EventManager{},
	}
	g.round = NewRoundState(len(players), g.dealer)
	return g, nil
}

// SetDecider registers the decision source for a seat.
func (g *Game) SetDecider(seat string, d Decider) error {
	if g.playerByName(seat) == nil {
		return fmt.Errorf("no seat named %q", seat)
	}
	g.deciders[seat] = d
	return nil
}

// SetDrawDecider registers the draw-phase decision source for a seat. Seats
// without one stand pat.
func (g *Game) SetDrawDecider(seat string, d DrawDecider) error {
	if g.playerByName(seat) == nil {
		return fmt.Errorf("no seat named %q", seat)
	}
	g.drawDeciders[seat] = d
	return nil
}

// SetEventChannel directs hand events to ch. Publishing never blocks: when
// ch is full the event is dropped.
func (g *Game) SetEventChannel(ch chan<- Event) {
	g.events.SetEventChannel(ch)
}

// Players returns the seats in table order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

func (g *Game) playerByName(name string) *Player {
	for _, p := range g.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PlayHand resolves one complete hand: antes and blinds, the deal, pre-draw
// betting, the draw, post-draw betting and the showdown. It returns the
// showdown result, or an error only when the engine's own accounting is
// broken; collaborator failures never abort a hand.
func (g *Game) PlayHand(ctx context.Context) (*ShowdownResult, error) {
	if g.handInProgress {
		return nil, ErrHandInProgress
	}
	funded := 0
	for _, p := range g.players {
		if p.Chips > 0 {
			funded++
		}
	}
	if funded < 2 {
		return nil, ErrNotEnoughPlayers
	}

	g.handInProgress = true
	defer func() { g.handInProgress = false }()

	g.ctx = ctx
	g.err = nil
	g.showdown = nil

	for state := handStateSetup; state != nil; {
		state = state(g)
	}
	return g.showdown, g.err
}

// fail records a fatal engine error and ends the hand state loop.
func (g *Game) fail(err error) HandStateFn {
	g.err = err
	g.log.Errorf("hand %d aborted: %v", g.handNum, err)
	return nil
}

// Hand state functions. Each performs one phase and returns the next; the
// loop in PlayHand drives them until nil.

func handStateSetup(g *Game) HandStateFn {
	g.handNum++
	g.anyAllIn = false
	g.pots.Reset()
	g.deck = NewDeck(g.rng)

	for _, p := range g.players {
		p.ResetForNewHand()
		// Seats with no chips sit the hand out.
		if p.Chips == 0 {
			p.Fold()
		}
	}

	g.handStartTotal = 0
	for _, p := range g.players {
		g.handStartTotal += p.Chips
	}

	g.round = NewRoundState(len(g.players), g.dealer)
	g.round.Phase = PhasePreDraw
	g.adjustPositions()

	g.log.Infof("hand %d: dealer seat %d, %d chips in play",
		g.handNum, g.dealer, g.handStartTotal)
	g.events.Publish(Event{
		Type:  EventHandStarted,
		Phase: g.round.Phase,
		Pot:   0,
	})
	return handStateForcedBets
}

func handStateForcedBets(g *Game) HandStateFn {
	if g.cfg.Ante > 0 {
		g.postAntes()
	}

	g.postBlind(g.round.SmallBlind, g.cfg.SmallBlind, "small blind")
	g.postBlind(g.round.BigBlind, g.cfg.BigBlind, "big blind")

	sb, bb := g.players[g.round.SmallBlind], g.players[g.round.BigBlind]
	g.round.CurrentBet = sb.Bet
	if bb.Bet > g.round.CurrentBet {
		g.round.CurrentBet = bb.Bet
	}
	return handStateDeal
}

// postAntes collects the ante from every participating seat straight into
// the main pot. Antes are dead money: they never count toward the seat's
// street bet.
func (g *Game) postAntes() {
	for _, p := range g.players {
		if p.HasFolded || p.Chips == 0 {
			continue
		}
		posted := p.PlaceBet(g.cfg.Ante)
		p.Bet -= posted
		if p.IsAllIn {
			g.anyAllIn = true
		}
		if err := g.pots.AddToMain(posted); err != nil {
			// Unreachable: PlaceBet never returns a negative amount.
			g.log.Errorf("ante: %v", err)
			continue
		}
		g.events.Publish(Event{
			Type:   EventAntePosted,
			Phase:  g.round.Phase,
			Seat:   p.Name,
			Amount: posted,
			Chips:  p.Chips,
			Pot:    g.potTotal(),
		})
	}
}

// postBlind posts a forced bet for the seat, clamped to its stack. A short
// blind puts the seat all-in.
func (g *Game) postBlind(seatIdx int, amount int64, label string) {
	p := g.players[seatIdx]
	if p.HasFolded {
		return
	}
	posted := p.PlaceBet(amount)
	if p.IsAllIn {
		g.anyAllIn = true
	}
	g.log.Debugf("%s posts %s of %d", p.Name, label, posted)
	g.events.Publish(Event{
		Type:   EventBlindPosted,
		Phase:  g.round.Phase,
		Seat:   p.Name,
		Action: label,
		Amount: posted,
		Chips:  p.Chips,
		Bet:    p.Bet,
		Pot:    g.potTotal(),
	})
}

func handStateDeal(g *Game) HandStateFn {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		p := g.players[(g.round.Dealer+i)%n]
		if p.HasFolded {
			continue
		}
		cards, err := g.deck.Deal(5)
		if err != nil {
			return g.fail(err)
		}
		p.Hand.AddCards(cards)
	}
	return handStatePreDraw
}

func handStatePreDraw(g *Game) HandStateFn {
	if _, err := g.runBettingStreet(g.ctx); err != nil {
		return g.fail(err)
	}
	if err := g.settleStreet(); err != nil {
		return g.fail(err)
	}
	if g.table.NonFoldedCount() <= 1 {
		return handStateShowdown
	}
	g.round.Phase = PhaseDraw
	return handStateDraw
}

func handStateDraw(g *Game) HandStateFn {
	if err := g.runDrawPhase(g.ctx); err != nil {
		return g.fail(err)
	}
	return handStatePostDraw
}

func handStatePostDraw(g *Game) HandStateFn {
	if _, err := g.runBettingStreet(g.ctx); err != nil {
		return g.fail(err)
	}
	if err := g.settleStreet(); err != nil {
		return g.fail(err)
	}
	return handStateShowdown
}

func handStateShowdown(g *Game) HandStateFn {
	result, err := g.resolveShowdown()
	if err != nil {
		return g.fail(err)
	}
	g.showdown = result
	return handStateComplete
}

func handStateComplete(g *Game) HandStateFn {
	g.round.Phase = PhaseComplete
	g.rotateDealer()
	return nil
}

// settleStreet moves the street's bets into the pots. Once any seat is
// all-in the layered side pots are computed first, so that seats are only
// eligible for the chips they could match.
func (g *Game) settleStreet() error {
	if g.anyAllIn {
		if _, err := g.pots.ComputeSidePots(g.players); err != nil {
			return err
		}
	}
	g.pots.EndBettingRound(g.players)
	return g.validateChipConservation("street settlement")
}

// validateChipConservation checks that stacks, street bets and pots still
// sum to the hand's starting total. A mismatch is fatal.
func (g *Game) validateChipConservation(stage string) error {
	total := g.pots.Total()
	for _, p := range g.players {
		total += p.Chips + p.Bet
	}
	if total == g.handStartTotal {
		return nil
	}
	return &ChipConservationError{
		Expected: g.handStartTotal,
		Actual:   total,
		Context:  stage,
		Dump:     spew.Sdump(g.players) + spew.Sdump(g.pots.SidePots()),
	}
}

// adjustPositions moves the blind and first-to-act positions past seats
// sitting the hand out, so forced bets always land on dealt-in seats.
func (g *Game) adjustPositions() {
	n := len(g.players)
	g.round.SmallBlind = g.nextParticipating(g.round.SmallBlind)
	bb := g.nextParticipating(g.round.BigBlind)
	if bb == g.round.SmallBlind {
		bb = g.nextParticipating((bb + 1) % n)
	}
	g.round.BigBlind = bb
	g.round.FirstToAct = g.nextParticipating((bb + 1) % n)
}

// nextParticipating returns the first seat at or after idx, wrapping, that
// is dealt into the hand.
func (g *Game) nextParticipating(idx int) int {
	n := len(g.players)
	for i := 0; i < n; i++ {
		j := (idx + i) % n
		if !g.players[j].HasFolded {
			return j
		}
	}
	return idx
}

// rotateDealer advances the button to the next seat that can fund a hand.
func (g *Game) rotateDealer() {
	n := len(g.players)
	for i := 1; i <= n; i++ {
		next := (g.dealer + i) % n
		if g.players[next].Chips > 0 {
			g.dealer = next
			return
		}
	}
}
