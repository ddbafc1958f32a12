package event

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Device tags which physical device a control belongs to
type Device uint8

const (
	Keyboard Device = iota + 1
	Mouse
	Gamepad
)

func (d Device) String() string {
	switch d {
	case Keyboard:
		return "keyboard"
	case Mouse:
		return "mouse"
	case Gamepad:
		return "gamepad"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

func parseDevice(s string) (Device, error) {
	switch s {
	case "keyboard", "key":
		return Keyboard, nil
	case "mouse":
		return Mouse, nil
	case "gamepad", "pad":
		return Gamepad, nil
	default:
		return 0, fmt.Errorf("unknown device: %q", s)
	}
}

// Button is a physical two-state control: Keyboard(code), Mouse(code) or
// Gamepad(id, code). Unused payload fields stay zero so == compares tag and
// payload only.
type Button struct {
	Device  Device
	Gamepad int
	Code    uint16
}

// KeyboardButton returns the Button for a keyboard key
func KeyboardButton(code KeyCode) Button {
	return Button{Device: Keyboard, Code: uint16(code)}
}

// MouseButtonOf returns the Button for a mouse button
func MouseButtonOf(code MouseButton) Button {
	return Button{Device: Mouse, Code: uint16(code)}
}

// GamepadButtonOf returns the Button for a button on gamepad id
func GamepadButtonOf(id int, code GamepadButton) Button {
	return Button{Device: Gamepad, Gamepad: id, Code: uint16(code)}
}

func (b Button) String() string {
	switch b.Device {
	case Keyboard:
		return "keyboard:" + KeyCode(b.Code).String()
	case Mouse:
		return "mouse:" + MouseButton(b.Code).String()
	case Gamepad:
		return fmt.Sprintf("gamepad:%d:%s", b.Gamepad, GamepadButton(b.Code))
	default:
		return fmt.Sprintf("%s:%d", b.Device, b.Code)
	}
}

// AxisSource is a continuous control: Mouse(X|Y) or Gamepad(id, axis)
type AxisSource struct {
	Device  Device
	Gamepad int
	Code    uint16
}

// MouseAxisOf returns the AxisSource for a relative mouse axis
func MouseAxisOf(axis MouseAxis) AxisSource {
	return AxisSource{Device: Mouse, Code: uint16(axis)}
}

// GamepadAxisOf returns the AxisSource for an axis on gamepad id
func GamepadAxisOf(id int, axis GamepadAxis) AxisSource {
	return AxisSource{Device: Gamepad, Gamepad: id, Code: uint16(axis)}
}

func (a AxisSource) String() string {
	switch a.Device {
	case Mouse:
		return "mouse:" + MouseAxis(a.Code).String()
	case Gamepad:
		return fmt.Sprintf("gamepad:%d:%s", a.Gamepad, GamepadAxis(a.Code))
	default:
		return fmt.Sprintf("%s:%d", a.Device, a.Code)
	}
}

// Kind is the trigger semantics of an Event
type Kind uint8

const (
	KindPressed Kind = iota + 1
	KindJustPressed
	KindAxis
	KindValueChanged
)

func (k Kind) String() string {
	switch k {
	case KindPressed:
		return "pressed"
	case KindJustPressed:
		return "just_pressed"
	case KindAxis:
		return "axis"
	case KindValueChanged:
		return "value"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "pressed":
		return KindPressed, nil
	case "just_pressed":
		return KindJustPressed, nil
	case "axis":
		return KindAxis, nil
	case "value", "value_changed":
		return KindValueChanged, nil
	default:
		return 0, fmt.Errorf("unknown event kind: %q", s)
	}
}

// Event is a trigger kind applied to a physical control. Pressed, JustPressed
// and ValueChanged carry a Button; Axis carries an AxisSource.
type Event struct {
	Kind   Kind
	Button Button
	Axis   AxisSource
}

// Pressed is level-triggered: active every tick the button is held
func Pressed(b Button) Event {
	return Event{Kind: KindPressed, Button: b}
}

// JustPressed is edge-triggered: active on the tick of the rising transition
func JustPressed(b Button) Event {
	return Event{Kind: KindJustPressed, Button: b}
}

// Axis is active with the reported value while the axis signal is nonzero
func Axis(src AxisSource) Event {
	return Event{Kind: KindAxis, Axis: src}
}

// ValueChanged is active with the button's analog pressure while it is nonzero
func ValueChanged(b Button) Event {
	return Event{Kind: KindValueChanged, Button: b}
}

// Device returns the device the event's control belongs to
func (e Event) Device() Device {
	if e.Kind == KindAxis {
		return e.Axis.Device
	}
	return e.Button.Device
}

func (e Event) String() string {
	if e.Kind == KindAxis {
		return e.Kind.String() + " " + e.Axis.String()
	}
	return e.Kind.String() + " " + e.Button.String()
}

// Less orders events by kind, device, gamepad id and code
func (e Event) Less(o Event) bool {
	if e.Kind != o.Kind {
		return e.Kind < o.Kind
	}
	a, b := e.key(), o.key()
	if a.Device != b.Device {
		return a.Device < b.Device
	}
	if a.Gamepad != b.Gamepad {
		return a.Gamepad < b.Gamepad
	}
	return a.Code < b.Code
}

func (e Event) key() Button {
	if e.Kind == KindAxis {
		return Button(e.Axis)
	}
	return e.Button
}

// Hash returns a stable 64-bit hash of the event's kind and control
func (e Event) Hash() uint64 {
	k := e.key()
	var buf [12]byte
	buf[0] = byte(e.Kind)
	buf[1] = byte(k.Device)
	binary.LittleEndian.PutUint16(buf[2:4], k.Code)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(int64(k.Gamepad)))
	return xxh3.Hash(buf[:])
}

// Parse parses the symbolic form produced by String, e.g.
// "pressed keyboard:q", "just_pressed gamepad:0:south" or "axis mouse:x"
func Parse(s string) (Event, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return Event{}, fmt.Errorf("invalid event %q: want \"<kind> <device>:<control>\"", s)
	}

	kind, err := parseKind(fields[0])
	if err != nil {
		return Event{}, err
	}

	if kind == KindAxis {
		src, err := ParseAxisSource(fields[1])
		if err != nil {
			return Event{}, err
		}
		return Axis(src), nil
	}

	btn, err := ParseButton(fields[1])
	if err != nil {
		return Event{}, err
	}
	return Event{Kind: kind, Button: btn}, nil
}

// ParseButton parses "keyboard:<key>", "mouse:<button>" or "gamepad:<id>:<button>"
func ParseButton(s string) (Button, error) {
	dev, id, control, err := splitControl(s)
	if err != nil {
		return Button{}, err
	}

	switch dev {
	case Keyboard:
		code, err := keyNames.parse(control)
		if err != nil {
			return Button{}, err
		}
		return KeyboardButton(code), nil
	case Mouse:
		code, err := mouseButtonNames.parse(control)
		if err != nil {
			return Button{}, err
		}
		return MouseButtonOf(code), nil
	default:
		code, err := gamepadButtonNames.parse(control)
		if err != nil {
			return Button{}, err
		}
		return GamepadButtonOf(id, code), nil
	}
}

// ParseAxisSource parses "mouse:<x|y>" or "gamepad:<id>:<axis>"
func ParseAxisSource(s string) (AxisSource, error) {
	dev, id, control, err := splitControl(s)
	if err != nil {
		return AxisSource{}, err
	}

	switch dev {
	case Mouse:
		axis, err := mouseAxisNames.parse(control)
		if err != nil {
			return AxisSource{}, err
		}
		return MouseAxisOf(axis), nil
	case Gamepad:
		axis, err := gamepadAxisNames.parse(control)
		if err != nil {
			return AxisSource{}, err
		}
		return GamepadAxisOf(id, axis), nil
	default:
		return AxisSource{}, fmt.Errorf("%s has no axes", dev)
	}
}

func splitControl(s string) (Device, int, string, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	dev, err := parseDevice(parts[0])
	if err != nil {
		return 0, 0, "", err
	}

	if dev == Gamepad {
		if len(parts) != 3 {
			return 0, 0, "", fmt.Errorf("invalid gamepad control %q: want gamepad:<id>:<control>", s)
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id < 0 {
			return 0, 0, "", fmt.Errorf("invalid gamepad id %q", parts[1])
		}
		return dev, id, parts[2], nil
	}

	if len(parts) != 2 {
		return 0, 0, "", fmt.Errorf("invalid %s control %q: want %s:<control>", dev, s, dev)
	}
	return dev, 0, parts[1], nil
}
