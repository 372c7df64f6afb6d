package poker

// EventType identifies a structured event emitted while a hand resolves.
type EventType int

const (
	EventHandStarted EventType = iota
	EventBlindPosted
	EventAntePosted
	EventPlayerAction
	EventStreetComplete
	EventDrawCompleted
	EventShowdownResult
	EventRecoverable // an illegal action or collaborator failure that was absorbed
)

// Event is the structured record published after each seat action and at the
// hand's milestones. The host logs, persists, or displays these; the engine
// itself keeps no history.
type Event struct {
	Type   EventType
	Phase  Phase
	Seat   string
	Action string
	Amount int64 // chips that moved in this action
	Chips  int64 // the seat's stack after the action
	Bet    int64 // the seat's street bet after the action
	Pot    int64 // total contested chips after the action

	// Showdown is set on EventShowdownResult events.
	Showdown *ShowdownResult
}

// PotResult describes how one pot was settled at showdown.
type PotResult struct {
	Amount      int64
	Eligible    []string
	Winners     []string
	Payouts     map[string]int64
	WinningHand string // description of the winning hand, empty on a fold-win
}

// ShowdownResult is the structured outcome of a completed hand, one entry
// per pot. A seat may appear as a winner in several pots.
type ShowdownResult struct {
	Pots     []PotResult
	TotalPot int64
}

// EventManager publishes events to a host-supplied channel without ever
// blocking hand resolution; if the host cannot keep up, events are dropped.
type EventManager struct {
	eventChannel chan<- Event
}

// SetEventChannel sets the channel events are published to.
func (em *EventManager) SetEventChannel(eventChannel chan<- Event) {
	em.eventChannel = eventChannel
}

// Publish publishes an event to the channel (non-blocking).
func (em *EventManager) Publish(event Event) {
	if em.eventChannel == nil {
		return
	}
	select {
	case em.eventChannel <- event:
	default:
		// Channel is full or no reader; the event is dropped.
	}
}
