package statemachine

// StateFn represents a state function following Rob Pike's pattern: the
// states are the functions themselves, and each returns the next state
// function (or nil to terminate).
type StateFn[T any] func(*T) StateFn[T]

// Machine drives an entity through state functions. The engine resolves a
// hand on a single goroutine, so the machine carries no locking; hosts
// running several tables give each its own entity and machine.
type Machine[T any] struct {
	entity *T
	state  StateFn[T]
}

// New creates a machine for the given entity starting at initial.
func New[T any](entity *T, initial StateFn[T]) *Machine[T] {
	return &Machine[T]{
		entity: entity,
		state:  initial,
	}
}

// Dispatch sets the current state, executes it once, and transitions to
// whatever state it returns. A nil state is a no-op.
func (m *Machine[T]) Dispatch(state StateFn[T]) {
	m.state = state
	if state == nil {
		return
	}
	m.state = state(m.entity)
}

// Current returns the current state function.
func (m *Machine[T]) Current() StateFn[T] {
	return m.state
}

// Set replaces the current state without executing it.
func (m *Machine[T]) Set(state StateFn[T]) {
	m.state = state
}
