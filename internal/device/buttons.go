package device

import (
	"github.com/pleimann/camel-input/internal/event"
)

// Buttons tracks level and edge state of a set of buttons between ticks
type Buttons struct {
	pressed      map[event.Button]bool
	justPressed  map[event.Button]bool
	justReleased map[event.Button]bool
}

// NewButtons creates a tracker with every button released
func NewButtons() *Buttons {
	return &Buttons{
		pressed:      make(map[event.Button]bool),
		justPressed:  make(map[event.Button]bool),
		justReleased: make(map[event.Button]bool),
	}
}

// Press records a press. Repeated presses without a release (key repeat) do
// not produce another edge.
func (b *Buttons) Press(btn event.Button) {
	if b.pressed[btn] {
		return
	}
	b.pressed[btn] = true
	b.justPressed[btn] = true
}

// Release records a release
func (b *Buttons) Release(btn event.Button) {
	if !b.pressed[btn] {
		return
	}
	delete(b.pressed, btn)
	b.justReleased[btn] = true
}

// Pressed reports whether btn is held
func (b *Buttons) Pressed(btn event.Button) bool {
	return b.pressed[btn]
}

// JustPressed reports whether btn went down since the last EndTick. A press
// and release within one tick still counts.
func (b *Buttons) JustPressed(btn event.Button) bool {
	return b.justPressed[btn]
}

// JustReleased reports whether btn went up since the last EndTick
func (b *Buttons) JustReleased(btn event.Button) bool {
	return b.justReleased[btn]
}

// EndTick clears edge state
func (b *Buttons) EndTick() {
	clear(b.justPressed)
	clear(b.justReleased)
}

// ReleaseAll releases every held button, e.g. after a device disconnects
func (b *Buttons) ReleaseAll() {
	for btn := range b.pressed {
		b.Release(btn)
	}
}
