package device

import (
	"testing"

	"github.com/pleimann/camel-input/internal/event"
)

var (
	btnQ     = event.KeyboardButton(event.KeyQ)
	btnSouth = event.GamepadButtonOf(0, event.GamepadSouth)
)

func TestButtonsEdgeOncePerPress(t *testing.T) {
	b := NewButtons()

	b.Press(btnQ)
	if !b.Pressed(btnQ) || !b.JustPressed(btnQ) {
		t.Fatalf("after Press: pressed=%v just=%v, want true true", b.Pressed(btnQ), b.JustPressed(btnQ))
	}
	b.EndTick()

	// Held: level stays, edge is gone
	if !b.Pressed(btnQ) || b.JustPressed(btnQ) {
		t.Errorf("held: pressed=%v just=%v, want true false", b.Pressed(btnQ), b.JustPressed(btnQ))
	}

	// Key repeat does not re-trigger the edge
	b.Press(btnQ)
	if b.JustPressed(btnQ) {
		t.Error("repeated Press produced a second edge")
	}
	b.EndTick()

	b.Release(btnQ)
	if b.Pressed(btnQ) || !b.JustReleased(btnQ) {
		t.Errorf("after Release: pressed=%v released=%v, want false true", b.Pressed(btnQ), b.JustReleased(btnQ))
	}
	b.EndTick()
	if b.JustReleased(btnQ) {
		t.Error("JustReleased survived EndTick")
	}
}

func TestButtonsTapWithinOneTick(t *testing.T) {
	b := NewButtons()
	b.Press(btnQ)
	b.Release(btnQ)

	if b.Pressed(btnQ) {
		t.Error("Pressed = true after press and release")
	}
	if !b.JustPressed(btnQ) {
		t.Error("JustPressed = false for a tap inside one tick")
	}
}

func TestButtonsReleaseWithoutPress(t *testing.T) {
	b := NewButtons()
	b.Release(btnQ)
	if b.JustReleased(btnQ) {
		t.Error("Release of an idle button produced an edge")
	}
}

func TestInputApply(t *testing.T) {
	in := NewInput()

	in.Apply(ButtonEvent(btnQ, true))
	in.Apply(ButtonEvent(btnSouth, true))
	in.Apply(MotionEvent(3, -1))
	in.Apply(MotionEvent(5, 0))
	in.Apply(AxisEvent(event.GamepadAxisOf(0, event.GamepadLeftStickX), 0.5))
	in.Apply(AnalogEvent(event.GamepadButtonOf(0, event.GamepadRightTrigger2), 0.75))

	if !in.Keyboard.Pressed(btnQ) {
		t.Error("keyboard Q not pressed")
	}
	if !in.Gamepad.JustPressed(btnSouth) {
		t.Error("gamepad south not just pressed")
	}
	if in.Mouse.Pressed(btnQ) {
		t.Error("keyboard button leaked into mouse channel")
	}
	if got := in.Motions(); len(got) != 2 || got[1].DX != 5 {
		t.Errorf("Motions() = %v, want 2 events ending with dx=5", got)
	}
	if got := in.AxisChanges(); len(got) != 1 || got[0].Value != 0.5 {
		t.Errorf("AxisChanges() = %v, want one change of 0.5", got)
	}
	if got := in.Value(event.GamepadButtonOf(0, event.GamepadRightTrigger2)); got != 0.75 {
		t.Errorf("Value(right_trigger2) = %v, want 0.75", got)
	}

	in.EndTick()

	if len(in.Motions()) != 0 || len(in.AxisChanges()) != 0 {
		t.Error("EndTick did not drain the event queues")
	}
	if !in.Keyboard.Pressed(btnQ) || in.Gamepad.JustPressed(btnSouth) {
		t.Error("EndTick changed levels or kept edges")
	}
	if got := in.Value(event.GamepadButtonOf(0, event.GamepadRightTrigger2)); got != 0.75 {
		t.Errorf("analog value reset by EndTick: %v", got)
	}

	in.Apply(AnalogEvent(event.GamepadButtonOf(0, event.GamepadRightTrigger2), 0))
	if got := in.Value(event.GamepadButtonOf(0, event.GamepadRightTrigger2)); got != 0 {
		t.Errorf("Value after zero = %v, want 0", got)
	}
}

func TestInputDisconnect(t *testing.T) {
	in := NewInput()
	other := event.GamepadButtonOf(1, event.GamepadSouth)

	in.Apply(ButtonEvent(btnSouth, true))
	in.Apply(ButtonEvent(other, true))
	in.Apply(AnalogEvent(event.GamepadButtonOf(0, event.GamepadLeftTrigger2), 1))
	in.EndTick()

	in.Apply(DisconnectEvent(event.Gamepad, 0))

	if in.Gamepad.Pressed(btnSouth) {
		t.Error("gamepad 0 button still held after disconnect")
	}
	if !in.Gamepad.Pressed(other) {
		t.Error("gamepad 1 button released by gamepad 0 disconnect")
	}
	if in.Value(event.GamepadButtonOf(0, event.GamepadLeftTrigger2)) != 0 {
		t.Error("analog value kept after disconnect")
	}

	changes := in.AxisChanges()
	if len(changes) != len(event.GamepadAxes) {
		t.Fatalf("len(AxisChanges()) = %d, want %d zeroing changes", len(changes), len(event.GamepadAxes))
	}
	for _, c := range changes {
		if c.Value != 0 || c.Source.Gamepad != 0 {
			t.Errorf("disconnect change = %+v, want zero on gamepad 0", c)
		}
	}

	in.Apply(ButtonEvent(btnQ, true))
	in.Apply(DisconnectEvent(event.Keyboard, 0))
	if in.Keyboard.Pressed(btnQ) {
		t.Error("keyboard key held after keyboard disconnect")
	}
}
