// Package evdev reads keyboards and mice through the Linux input subsystem
// and translates their events into raw input events.
package evdev

import (
	"bytes"
	"encoding/binary"

	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/event"
)

// Event types and codes from linux/input-event-codes.h
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02

	SynReport  uint16 = 0x00
	SynDropped uint16 = 0x03

	RelX uint16 = 0x00
	RelY uint16 = 0x01

	// BTN_MOUSE..BTN_TASK
	btnMouseFirst uint16 = 0x110
	btnMouseLast  uint16 = 0x117
	// Codes below BTN_MISC are keyboard keys
	btnMisc uint16 = 0x100
)

// Key values of an EV_KEY event
const (
	KeyReleased int32 = 0
	KeyPressed  int32 = 1
	KeyRepeated int32 = 2
)

// InputEvent is struct input_event on 64-bit Linux
type InputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// EventSize is the wire size of one InputEvent
var EventSize = binary.Size(InputEvent{})

// DecodeEvents decodes every complete input_event in buf. A trailing partial
// event is ignored.
func DecodeEvents(dst []InputEvent, buf []byte) []InputEvent {
	reader := bytes.NewReader(nil)
	for len(buf) >= EventSize {
		reader.Reset(buf[:EventSize])
		var ev InputEvent
		if err := binary.Read(reader, binary.LittleEndian, &ev); err == nil {
			dst = append(dst, ev)
		}
		buf = buf[EventSize:]
	}
	return dst
}

// Translator turns the event stream of one device node into raw input
// events. Relative motion is buffered until the SYN_REPORT that closes the
// frame so REL_X and REL_Y of one frame become a single motion.
type Translator struct {
	dx, dy float32
	moved  bool
	// dropping is set after SYN_DROPPED until the next SYN_REPORT
	dropping bool
}

// Translate appends the raw events produced by ev
func (t *Translator) Translate(dst []device.RawEvent, ev InputEvent) []device.RawEvent {
	if t.dropping {
		if ev.Type == EvSyn && ev.Code == SynReport {
			t.dropping = false
		}
		return dst
	}

	switch ev.Type {
	case EvKey:
		btn, ok := classifyKey(ev.Code)
		if !ok {
			return dst
		}
		switch ev.Value {
		case KeyPressed, KeyRepeated:
			dst = append(dst, device.ButtonEvent(btn, true))
		case KeyReleased:
			dst = append(dst, device.ButtonEvent(btn, false))
		}

	case EvRel:
		switch ev.Code {
		case RelX:
			t.dx += float32(ev.Value)
			t.moved = true
		case RelY:
			t.dy += float32(ev.Value)
			t.moved = true
		}

	case EvSyn:
		switch ev.Code {
		case SynReport:
			if t.moved {
				dst = append(dst, device.MotionEvent(t.dx, t.dy))
			}
			t.reset()
		case SynDropped:
			t.reset()
			t.dropping = true
		}
	}
	return dst
}

func (t *Translator) reset() {
	t.dx, t.dy, t.moved = 0, 0, false
}

func classifyKey(code uint16) (event.Button, bool) {
	switch {
	case code >= btnMouseFirst && code <= btnMouseLast:
		return event.MouseButtonOf(event.MouseButton(code)), true
	case code > 0 && code < btnMisc:
		return event.KeyboardButton(event.KeyCode(code)), true
	default:
		return event.Button{}, false
	}
}
