// Package reconcile recomputes action state from raw device signals.
//
// Each reconciler reads one device channel and writes only the actions bound
// to that channel's events. Run invokes them in the fixed order given by
// Order, so an action bound on several channels is written deterministically:
// a button activation on any channel keeps the action active for the tick
// (logical OR), and the magnitude comes from the last channel in Order that
// reported a value. A held gamepad axis counts as reporting on every tick.
package reconcile

import (
	"github.com/pleimann/camel-input/internal/action"
	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/event"
)

// ButtonInput reports level and edge state of buttons for the current tick.
// JustPressed must be true for exactly one tick per press.
type ButtonInput interface {
	Pressed(b event.Button) bool
	JustPressed(b event.Button) bool
}

// AnalogInput reports the current analog value of pressure-sensitive buttons
type AnalogInput interface {
	Value(b event.Button) float32
}

// Channel identifies one reconciler
type Channel int

const (
	KeyboardButtons Channel = iota
	MouseButtons
	GamepadButtons
	MouseAxes
	GamepadAxes
	AnalogValues
)

func (c Channel) String() string {
	switch c {
	case KeyboardButtons:
		return "keyboard_buttons"
	case MouseButtons:
		return "mouse_buttons"
	case GamepadButtons:
		return "gamepad_buttons"
	case MouseAxes:
		return "mouse_axes"
	case GamepadAxes:
		return "gamepad_axes"
	case AnalogValues:
		return "analog_values"
	default:
		return "unknown"
	}
}

// Order is the sequence Run invokes the reconcilers in
var Order = []Channel{
	KeyboardButtons,
	MouseButtons,
	GamepadButtons,
	MouseAxes,
	GamepadAxes,
	AnalogValues,
}

// Sources is the raw input of one tick. Nil inputs are treated as idle.
type Sources struct {
	Keyboard    ButtonInput
	Mouse       ButtonInput
	Gamepad     ButtonInput
	Motions     []event.MouseMotion
	AxisChanges []event.AxisChange
	Analog      AnalogInput
}

// Run reconciles every channel against table in Order
func Run[A comparable](table *binding.Table[A], src Sources, state *action.State[A]) {
	for _, ch := range Order {
		RunChannel(ch, table, src, state)
	}
}

// RunChannel reconciles a single channel
func RunChannel[A comparable](ch Channel, table *binding.Table[A], src Sources, state *action.State[A]) {
	switch ch {
	case KeyboardButtons:
		Buttons(table, event.Keyboard, src.Keyboard, state)
	case MouseButtons:
		Buttons(table, event.Mouse, src.Mouse, state)
	case GamepadButtons:
		Buttons(table, event.Gamepad, src.Gamepad, state)
	case MouseAxes:
		MouseAxis(table, src.Motions, state)
	case GamepadAxes:
		GamepadAxis(table, src.AxisChanges, state)
	case AnalogValues:
		Values(table, src.Analog, state)
	}
}

// Buttons reconciles the Pressed and JustPressed bindings of one device
func Buttons[A comparable](table *binding.Table[A], dev event.Device, input ButtonInput, state *action.State[A]) {
	for _, entry := range table.Buttons(dev) {
		var on bool
		if input != nil {
			switch entry.Event.Kind {
			case event.KindPressed:
				on = input.Pressed(entry.Event.Button)
			case event.KindJustPressed:
				on = input.JustPressed(entry.Event.Button)
			}
		}

		if on {
			state.Activate(entry.Action, entry.Event)
		} else {
			state.Deactivate(entry.Action, entry.Event)
		}
	}
}

// MouseAxis reconciles mouse axis bindings against this tick's motion events.
// The last motion of the tick wins; an axis with no motion is inactive.
func MouseAxis[A comparable](table *binding.Table[A], motions []event.MouseMotion, state *action.State[A]) {
	entries := table.Axes(event.Mouse)
	if len(entries) == 0 {
		return
	}

	var x, y float32
	if n := len(motions); n > 0 {
		x, y = motions[n-1].DX, motions[n-1].DY
	}

	for _, entry := range entries {
		var delta float32
		switch event.MouseAxis(entry.Event.Axis.Code) {
		case event.MouseX:
			delta = x
		case event.MouseY:
			delta = y
		}

		if delta == 0 {
			state.Deactivate(entry.Action, entry.Event)
		} else {
			state.SetMagnitude(entry.Action, entry.Event, delta)
		}
	}
}

// GamepadAxis applies queued axis changes in order. An axis keeps its value
// until the driver reports a new one; zero deactivates. Every held axis is
// asserted again each tick, so an idle control bound to the same action on an
// earlier channel cannot clear it.
func GamepadAxis[A comparable](table *binding.Table[A], changes []event.AxisChange, state *action.State[A]) {
	for _, change := range changes {
		if change.Source.Device != event.Gamepad {
			continue
		}
		e := event.Axis(change.Source)
		if change.Value == 0 {
			state.Release(e)
		}
		a, ok := table.Lookup(e)
		if !ok {
			continue
		}

		if change.Value == 0 {
			state.Deactivate(a, e)
		} else {
			state.Hold(a, e, change.Value)
		}
	}
	state.AssertHeld()
}

// Values reconciles ValueChanged bindings against current analog values
func Values[A comparable](table *binding.Table[A], input AnalogInput, state *action.State[A]) {
	for _, entry := range table.Values() {
		var v float32
		if input != nil {
			v = input.Value(entry.Event.Button)
		}

		if v == 0 {
			state.Deactivate(entry.Action, entry.Event)
		} else {
			state.SetMagnitude(entry.Action, entry.Event, v)
		}
	}
}
