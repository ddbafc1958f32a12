package hid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/chewxy/math32"
	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/event"
)

// ReportIDGamepad identifies a gamepad state report
const ReportIDGamepad byte = 0x03

// ReportSize is the length of a gamepad state report in bytes
const ReportSize = 18

var (
	ErrShortReport   = errors.New("report too short")
	ErrUnknownReport = errors.New("unknown report id")
	ErrGamepadIndex  = errors.New("gamepad index out of range")
)

// MaxGamepads bounds the gamepad index a report may carry
const MaxGamepads = 8

// ButtonMap is the bit order of the report's button mask
var ButtonMap = [16]event.GamepadButton{
	event.GamepadSouth,
	event.GamepadEast,
	event.GamepadNorth,
	event.GamepadWest,
	event.GamepadLeftTrigger,
	event.GamepadRightTrigger,
	event.GamepadLeftTrigger2,
	event.GamepadRightTrigger2,
	event.GamepadSelect,
	event.GamepadStart,
	event.GamepadLeftThumb,
	event.GamepadRightThumb,
	event.GamepadDPadUp,
	event.GamepadDPadDown,
	event.GamepadDPadLeft,
	event.GamepadDPadRight,
}

// AxisMap is the order of the report's axis fields
var AxisMap = [6]event.GamepadAxis{
	event.GamepadLeftStickX,
	event.GamepadLeftStickY,
	event.GamepadRightStickX,
	event.GamepadRightStickY,
	event.GamepadDPadX,
	event.GamepadDPadY,
}

// TriggerMap lists the buttons carrying the report's pressure bytes
var TriggerMap = [2]event.GamepadButton{
	event.GamepadLeftTrigger2,
	event.GamepadRightTrigger2,
}

// Report is one decoded gamepad state report
type Report struct {
	Gamepad  int
	Buttons  uint16
	Axes     [6]int16
	Triggers [2]uint8
}

// ParseReport parses a raw HID report.
// Expected format:
//
//	Byte 0: Report ID (0x03)
//	Byte 1: Gamepad index
//	Byte 2-3: Button bitmask (little-endian, bit order per ButtonMap)
//	Byte 4-15: Six signed axes (little-endian int16, order per AxisMap)
//	Byte 16-17: Left and right trigger pressure (0-255)
func ParseReport(data []byte) (*Report, error) {
	if len(data) < ReportSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortReport, len(data))
	}

	if data[0] != ReportIDGamepad {
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownReport, data[0])
	}

	if int(data[1]) >= MaxGamepads {
		return nil, fmt.Errorf("%w: %d", ErrGamepadIndex, data[1])
	}

	r := &Report{
		Gamepad: int(data[1]),
		Buttons: binary.LittleEndian.Uint16(data[2:4]),
	}
	for i := range r.Axes {
		off := 4 + 2*i
		r.Axes[i] = int16(binary.LittleEndian.Uint16(data[off : off+2]))
	}
	r.Triggers[0] = data[16]
	r.Triggers[1] = data[17]
	return r, nil
}

// Encode serializes the report, mainly for tests and device simulators
func (r *Report) Encode() []byte {
	buf := make([]byte, ReportSize)
	buf[0] = ReportIDGamepad
	buf[1] = byte(r.Gamepad)
	binary.LittleEndian.PutUint16(buf[2:4], r.Buttons)
	for i, v := range r.Axes {
		off := 4 + 2*i
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(v))
	}
	buf[16] = r.Triggers[0]
	buf[17] = r.Triggers[1]
	return buf
}

// PressedButtons returns the buttons set in the mask
func (r *Report) PressedButtons() []event.GamepadButton {
	var buttons []event.GamepadButton
	for i, b := range ButtonMap {
		if r.Buttons&(1<<i) != 0 {
			buttons = append(buttons, b)
		}
	}
	return buttons
}

// NormalizeAxis maps a raw axis to [-1, 1]. Values inside deadzone snap to
// 0; a zero deadzone keeps every nonzero reading.
func NormalizeAxis(raw int16, deadzone float32) float32 {
	v := math32.Max(-1, math32.Min(1, float32(raw)/math.MaxInt16))
	if math32.Abs(v) < deadzone {
		return 0
	}
	return v
}

// NormalizeTrigger maps a trigger pressure to [0, 1]
func NormalizeTrigger(raw uint8) float32 {
	return float32(raw) / math.MaxUint8
}

// Decoder turns consecutive reports into raw input events. A report is
// compared with the previous one of the same gamepad; only differences are
// emitted.
type Decoder struct {
	deadzone float32
	last     map[int]Report
}

// NewDecoder creates a decoder with the given stick deadzone
func NewDecoder(deadzone float32) *Decoder {
	return &Decoder{
		deadzone: math32.Max(0, deadzone),
		last:     make(map[int]Report),
	}
}

// Decode appends the events that lead from the previous report of r's gamepad
// to r. The first report of a gamepad is compared with an idle one.
func (d *Decoder) Decode(dst []device.RawEvent, r *Report) []device.RawEvent {
	prev := d.last[r.Gamepad]
	id := r.Gamepad

	if changed := prev.Buttons ^ r.Buttons; changed != 0 {
		for i, code := range ButtonMap {
			bit := uint16(1) << i
			if changed&bit == 0 {
				continue
			}
			dst = append(dst, device.ButtonEvent(event.GamepadButtonOf(id, code), r.Buttons&bit != 0))
		}
	}

	for i, code := range AxisMap {
		was := NormalizeAxis(prev.Axes[i], d.deadzone)
		now := NormalizeAxis(r.Axes[i], d.deadzone)
		if was != now {
			dst = append(dst, device.AxisEvent(event.GamepadAxisOf(id, code), now))
		}
	}

	for i, code := range TriggerMap {
		if prev.Triggers[i] != r.Triggers[i] {
			dst = append(dst, device.AnalogEvent(event.GamepadButtonOf(id, code), NormalizeTrigger(r.Triggers[i])))
		}
	}

	d.last[r.Gamepad] = *r
	return dst
}

// Gamepads returns the indices of gamepads seen since the last Forget
func (d *Decoder) Gamepads() []int {
	ids := make([]int, 0, len(d.last))
	for id := range d.last {
		ids = append(ids, id)
	}
	return ids
}

// Forget drops the remembered state of a gamepad, e.g. after it disconnects
func (d *Decoder) Forget(gamepad int) {
	delete(d.last, gamepad)
}
