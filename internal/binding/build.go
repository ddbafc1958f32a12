package binding

import (
	"maps"

	"github.com/pleimann/camel-input/internal/event"
)

// Build merges the default bindings with an optional override. Every
// (action, event) pair of the override replaces the default binding for that
// event; when the override binds one event twice the later pair wins. The
// defaults map is not modified.
func Build[A comparable](defaults map[event.Event]A, override Override[A]) *Table[A] {
	merged := make(map[event.Event]A, len(defaults))
	maps.Copy(merged, defaults)

	if override != nil {
		for el := override.Front(); el != nil; el = el.Next() {
			for _, e := range el.Value {
				merged[e] = el.Key
			}
		}
	}

	return newTable(merged)
}

// Invert turns a table back into Action -> [Event] form. Actions appear in the
// order of their first event; events keep table order.
func Invert[A comparable](t *Table[A]) Override[A] {
	out := NewOverride[A]()
	for _, entry := range t.Entries() {
		events, _ := out.Get(entry.Action)
		out.Set(entry.Action, append(events, entry.Event))
	}
	return out
}

// Builder assembles a default binding set in code
type Builder[A comparable] struct {
	bindings map[event.Event]A
}

// NewBuilder creates an empty builder
func NewBuilder[A comparable]() *Builder[A] {
	return &Builder[A]{bindings: make(map[event.Event]A)}
}

// Bind binds e to a, replacing any previous binding for e
func (b *Builder[A]) Bind(e event.Event, a A) *Builder[A] {
	b.bindings[e] = a
	return b
}

// Pressed binds the held state of btn to a
func (b *Builder[A]) Pressed(btn event.Button, a A) *Builder[A] {
	return b.Bind(event.Pressed(btn), a)
}

// JustPressed binds the rising edge of btn to a
func (b *Builder[A]) JustPressed(btn event.Button, a A) *Builder[A] {
	return b.Bind(event.JustPressed(btn), a)
}

// Axis binds src to a
func (b *Builder[A]) Axis(src event.AxisSource, a A) *Builder[A] {
	return b.Bind(event.Axis(src), a)
}

// ValueChanged binds the analog value of btn to a
func (b *Builder[A]) ValueChanged(btn event.Button, a A) *Builder[A] {
	return b.Bind(event.ValueChanged(btn), a)
}

// Build returns a copy of the accumulated bindings
func (b *Builder[A]) Build() map[event.Event]A {
	return maps.Clone(b.bindings)
}
