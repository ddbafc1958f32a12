package device

import (
	"fmt"

	"github.com/pleimann/camel-input/internal/event"
)

// RawKind identifies the payload of a RawEvent
type RawKind uint8

const (
	RawButton RawKind = iota + 1
	RawMotion
	RawAxis
	RawAnalog
	RawDisconnect
)

func (k RawKind) String() string {
	switch k {
	case RawButton:
		return "button"
	case RawMotion:
		return "motion"
	case RawAxis:
		return "axis"
	case RawAnalog:
		return "analog"
	case RawDisconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// RawEvent is one signal from a device reader
type RawEvent struct {
	Kind   RawKind
	Button event.Button      // RawButton, RawAnalog
	Down   bool              // RawButton
	Motion event.MouseMotion // RawMotion
	Axis   event.AxisSource  // RawAxis
	Value  float32           // RawAxis, RawAnalog
	Device event.Device      // RawDisconnect
	ID     int               // RawDisconnect, gamepad id
}

// ButtonEvent creates a press or release event
func ButtonEvent(btn event.Button, down bool) RawEvent {
	return RawEvent{Kind: RawButton, Button: btn, Down: down}
}

// MotionEvent creates a relative mouse motion event
func MotionEvent(dx, dy float32) RawEvent {
	return RawEvent{Kind: RawMotion, Motion: event.MouseMotion{DX: dx, DY: dy}}
}

// AxisEvent creates an absolute axis change event
func AxisEvent(src event.AxisSource, v float32) RawEvent {
	return RawEvent{Kind: RawAxis, Axis: src, Value: v}
}

// AnalogEvent creates an analog button value event
func AnalogEvent(btn event.Button, v float32) RawEvent {
	return RawEvent{Kind: RawAnalog, Button: btn, Value: v}
}

// DisconnectEvent reports that a device went away. Gamepad disconnects carry
// the gamepad id.
func DisconnectEvent(dev event.Device, id int) RawEvent {
	return RawEvent{Kind: RawDisconnect, Device: dev, ID: id}
}

// Input is the per-tick raw input snapshot the reconcilers read. Apply feeds
// it between ticks; EndTick clears edges and drains the event queues.
type Input struct {
	Keyboard *Buttons
	Mouse    *Buttons
	Gamepad  *Buttons

	motions []event.MouseMotion
	changes []event.AxisChange
	analog  map[event.Button]float32
}

// NewInput creates an idle input
func NewInput() *Input {
	return &Input{
		Keyboard: NewButtons(),
		Mouse:    NewButtons(),
		Gamepad:  NewButtons(),
		analog:   make(map[event.Button]float32),
	}
}

// Apply records a raw event for the current tick
func (in *Input) Apply(ev RawEvent) {
	switch ev.Kind {
	case RawButton:
		buttons := in.buttons(ev.Button.Device)
		if buttons == nil {
			return
		}
		if ev.Down {
			buttons.Press(ev.Button)
		} else {
			buttons.Release(ev.Button)
		}
	case RawMotion:
		in.motions = append(in.motions, ev.Motion)
	case RawAxis:
		in.changes = append(in.changes, event.AxisChange{Source: ev.Axis, Value: ev.Value})
	case RawAnalog:
		if ev.Value == 0 {
			delete(in.analog, ev.Button)
		} else {
			in.analog[ev.Button] = ev.Value
		}
	case RawDisconnect:
		in.disconnect(ev.Device, ev.ID)
	}
}

func (in *Input) buttons(dev event.Device) *Buttons {
	switch dev {
	case event.Keyboard:
		return in.Keyboard
	case event.Mouse:
		return in.Mouse
	case event.Gamepad:
		return in.Gamepad
	default:
		return nil
	}
}

// disconnect releases everything the device held so no action stays stuck
func (in *Input) disconnect(dev event.Device, id int) {
	switch dev {
	case event.Keyboard, event.Mouse:
		in.buttons(dev).ReleaseAll()
	case event.Gamepad:
		for btn := range in.Gamepad.pressed {
			if btn.Gamepad == id {
				in.Gamepad.Release(btn)
			}
		}
		for btn := range in.analog {
			if btn.Device == event.Gamepad && btn.Gamepad == id {
				delete(in.analog, btn)
			}
		}
		for _, axis := range event.GamepadAxes {
			in.changes = append(in.changes, event.AxisChange{Source: event.GamepadAxisOf(id, axis)})
		}
	}
}

// Motions returns the mouse motion events queued this tick
func (in *Input) Motions() []event.MouseMotion {
	return in.motions
}

// AxisChanges returns the axis change events queued this tick
func (in *Input) AxisChanges() []event.AxisChange {
	return in.changes
}

// Value returns the analog value of btn, zero when idle
func (in *Input) Value(btn event.Button) float32 {
	return in.analog[btn]
}

// EndTick clears per-tick state. Call it after the tick's reconcilers ran.
func (in *Input) EndTick() {
	in.Keyboard.EndTick()
	in.Mouse.EndTick()
	in.Gamepad.EndTick()
	in.motions = in.motions[:0]
	in.changes = in.changes[:0]
}
