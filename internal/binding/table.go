package binding

import (
	"fmt"
	"sort"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/pleimann/camel-input/internal/event"
	"github.com/zeebo/xxh3"
)

// Entry is one Event -> Action binding
type Entry[A comparable] struct {
	Event  event.Event
	Action A
}

// Override is a loaded Action -> [Event] binding set in source order
type Override[A comparable] = *orderedmap.OrderedMap[A, []event.Event]

// NewOverride creates an empty override
func NewOverride[A comparable]() Override[A] {
	return orderedmap.NewOrderedMap[A, []event.Event]()
}

// Table maps Events to Actions. A Table is immutable once built; reconcilers
// may read it from any goroutine.
type Table[A comparable] struct {
	actions map[event.Event]A
	entries []Entry[A]                  // all entries in event order
	buttons map[event.Device][]Entry[A] // pressed/just_pressed entries per device
	axes    map[event.Device][]Entry[A] // axis entries per device
	values  []Entry[A]                  // value_changed entries
	bound   map[A]struct{}
}

func newTable[A comparable](actions map[event.Event]A) *Table[A] {
	t := &Table[A]{
		actions: actions,
		entries: make([]Entry[A], 0, len(actions)),
		buttons: make(map[event.Device][]Entry[A]),
		axes:    make(map[event.Device][]Entry[A]),
		bound:   make(map[A]struct{}),
	}

	for e, a := range actions {
		t.entries = append(t.entries, Entry[A]{Event: e, Action: a})
	}
	sort.Slice(t.entries, func(i, j int) bool {
		return t.entries[i].Event.Less(t.entries[j].Event)
	})

	for _, entry := range t.entries {
		t.bound[entry.Action] = struct{}{}

		switch entry.Event.Kind {
		case event.KindPressed, event.KindJustPressed:
			dev := entry.Event.Button.Device
			t.buttons[dev] = append(t.buttons[dev], entry)
		case event.KindAxis:
			dev := entry.Event.Axis.Device
			t.axes[dev] = append(t.axes[dev], entry)
		case event.KindValueChanged:
			t.values = append(t.values, entry)
		}
	}

	return t
}

// Lookup returns the action bound to e
func (t *Table[A]) Lookup(e event.Event) (A, bool) {
	a, ok := t.actions[e]
	return a, ok
}

// Len returns the number of bound events
func (t *Table[A]) Len() int {
	return len(t.entries)
}

// Entries returns every binding in event order
func (t *Table[A]) Entries() []Entry[A] {
	return t.entries
}

// Buttons returns the Pressed and JustPressed bindings for buttons on dev
func (t *Table[A]) Buttons(dev event.Device) []Entry[A] {
	return t.buttons[dev]
}

// Axes returns the Axis bindings for axes on dev
func (t *Table[A]) Axes(dev event.Device) []Entry[A] {
	return t.axes[dev]
}

// Values returns the ValueChanged bindings
func (t *Table[A]) Values() []Entry[A] {
	return t.values
}

// Binds reports whether any event is bound to a
func (t *Table[A]) Binds(a A) bool {
	_, ok := t.bound[a]
	return ok
}

// Fingerprint hashes the table contents. Equal tables have equal fingerprints
// regardless of how they were built.
func (t *Table[A]) Fingerprint() uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, entry := range t.entries {
		sum := entry.Event.Hash()
		for i := range buf {
			buf[i] = byte(sum >> (8 * i))
		}
		_, _ = h.Write(buf[:])
		_, _ = h.WriteString(fmt.Sprint(entry.Action))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}
