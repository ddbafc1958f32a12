package action

import (
	"github.com/elliotchance/orderedmap/v2"
	"github.com/pleimann/camel-input/internal/event"
)

// Query is the read-only view game logic uses. Call it only after every
// reconciler of the tick has finished.
type Query[A comparable] interface {
	// Active reports whether a is active this tick
	Active(a A) bool
	// Magnitude returns the axis or analog value of a, if it has one
	Magnitude(a A) (float32, bool)
}

type entry struct {
	magnitude    float32
	hasMagnitude bool
	tick         uint64
	by           event.Event
}

// hold is the last nonzero value reported by an event-driven axis
type hold[A comparable] struct {
	action A
	value  float32
}

// State maps currently active actions to an optional magnitude. It is owned
// by one tick loop and is not safe for concurrent use.
//
// Event-driven axes only report changes, so their last nonzero value is kept
// in a held set, ordered by most recent change, and asserted again every tick.
type State[A comparable] struct {
	tick    uint64
	entries map[A]entry
	held    *orderedmap.OrderedMap[event.Event, hold[A]]
}

// NewState creates an empty action state
func NewState[A comparable]() *State[A] {
	return &State[A]{
		entries: make(map[A]entry),
		held:    orderedmap.NewOrderedMap[event.Event, hold[A]](),
	}
}

// BeginTick starts a new tick. Assertions made during earlier ticks no longer
// protect an entry from deactivation.
func (s *State[A]) BeginTick() {
	s.tick++
}

// Tick returns the current tick number
func (s *State[A]) Tick() uint64 {
	return s.tick
}

// Activate marks a active without a magnitude on behalf of e
func (s *State[A]) Activate(a A, e event.Event) {
	s.entries[a] = entry{tick: s.tick, by: e}
}

// SetMagnitude marks a active with value v on behalf of e. A later write in
// the same tick replaces an earlier one.
func (s *State[A]) SetMagnitude(a A, e event.Event, v float32) {
	s.entries[a] = entry{magnitude: v, hasMagnitude: true, tick: s.tick, by: e}
}

// Deactivate removes a unless another event asserted it during this tick.
// An event may always retract its own assertion.
func (s *State[A]) Deactivate(a A, e event.Event) {
	cur, ok := s.entries[a]
	if !ok {
		return
	}
	if cur.tick == s.tick && cur.by != e {
		return
	}
	delete(s.entries, a)
}

// Hold records v as the held value of axis event e bound to a and asserts
// it for this tick. e moves to the end of the held order.
func (s *State[A]) Hold(a A, e event.Event, v float32) {
	s.held.Delete(e)
	s.held.Set(e, hold[A]{action: a, value: v})
	s.SetMagnitude(a, e, v)
}

// Release forgets the held value of e. It does not touch the active entries.
func (s *State[A]) Release(e event.Event) {
	s.held.Delete(e)
}

// Held returns the held value of e
func (s *State[A]) Held(e event.Event) (float32, bool) {
	h, ok := s.held.Get(e)
	return h.value, ok
}

// AssertHeld asserts every held axis for this tick in held order, so the
// most recently changed axis supplies the magnitude of a shared action.
func (s *State[A]) AssertHeld() {
	for el := s.held.Front(); el != nil; el = el.Next() {
		s.SetMagnitude(el.Value.action, el.Key, el.Value.value)
	}
}

// Rebind adapts the state to a new binding table. An entry survives only
// if lookup still maps its asserting event to the same action. Held axes
// move to the action lookup now gives them, or are forgotten when their
// event is no longer bound.
func (s *State[A]) Rebind(lookup func(event.Event) (A, bool)) {
	for a, cur := range s.entries {
		if b, ok := lookup(cur.by); !ok || b != a {
			delete(s.entries, a)
		}
	}

	var unbound []event.Event
	for el := s.held.Front(); el != nil; el = el.Next() {
		a, ok := lookup(el.Key)
		if !ok {
			unbound = append(unbound, el.Key)
			continue
		}
		el.Value.action = a
	}
	for _, e := range unbound {
		s.held.Delete(e)
	}
}

// Reset removes every action and held axis
func (s *State[A]) Reset() {
	clear(s.entries)
	for el := s.held.Front(); el != nil; el = s.held.Front() {
		s.held.Delete(el.Key)
	}
}

// Active reports whether a is active
func (s *State[A]) Active(a A) bool {
	_, ok := s.entries[a]
	return ok
}

// Magnitude returns the value of a. ok is false when a is inactive or was
// activated by a button.
func (s *State[A]) Magnitude(a A) (float32, bool) {
	e, ok := s.entries[a]
	if !ok || !e.hasMagnitude {
		return 0, false
	}
	return e.magnitude, true
}

// Len returns the number of active actions
func (s *State[A]) Len() int {
	return len(s.entries)
}

// Each calls fn for every active action in unspecified order
func (s *State[A]) Each(fn func(a A, magnitude float32, hasMagnitude bool)) {
	for a, e := range s.entries {
		fn(a, e.magnitude, e.hasMagnitude)
	}
}

// Snapshot copies the active actions. Button activations map to nil.
func (s *State[A]) Snapshot() map[A]*float32 {
	out := make(map[A]*float32, len(s.entries))
	for a, e := range s.entries {
		if e.hasMagnitude {
			v := e.magnitude
			out[a] = &v
		} else {
			out[a] = nil
		}
	}
	return out
}
