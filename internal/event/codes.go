package event

import (
	"fmt"
	"strings"
)

// Control codes use the Linux input-event numbering (linux/input-event-codes.h)
// so evdev and HID drivers can pass them through unchanged.

// KeyCode identifies a keyboard key
type KeyCode uint16

const (
	KeyEscape     KeyCode = 1
	Key1          KeyCode = 2
	Key2          KeyCode = 3
	Key3          KeyCode = 4
	Key4          KeyCode = 5
	Key5          KeyCode = 6
	Key6          KeyCode = 7
	Key7          KeyCode = 8
	Key8          KeyCode = 9
	Key9          KeyCode = 10
	Key0          KeyCode = 11
	KeyMinus      KeyCode = 12
	KeyEqual      KeyCode = 13
	KeyBackspace  KeyCode = 14
	KeyTab        KeyCode = 15
	KeyQ          KeyCode = 16
	KeyW          KeyCode = 17
	KeyE          KeyCode = 18
	KeyR          KeyCode = 19
	KeyT          KeyCode = 20
	KeyY          KeyCode = 21
	KeyU          KeyCode = 22
	KeyI          KeyCode = 23
	KeyO          KeyCode = 24
	KeyP          KeyCode = 25
	KeyLeftBrace  KeyCode = 26
	KeyRightBrace KeyCode = 27
	KeyEnter      KeyCode = 28
	KeyLeftCtrl   KeyCode = 29
	KeyA          KeyCode = 30
	KeyS          KeyCode = 31
	KeyD          KeyCode = 32
	KeyF          KeyCode = 33
	KeyG          KeyCode = 34
	KeyH          KeyCode = 35
	KeyJ          KeyCode = 36
	KeyK          KeyCode = 37
	KeyL          KeyCode = 38
	KeySemicolon  KeyCode = 39
	KeyApostrophe KeyCode = 40
	KeyGrave      KeyCode = 41
	KeyLeftShift  KeyCode = 42
	KeyBackslash  KeyCode = 43
	KeyZ          KeyCode = 44
	KeyX          KeyCode = 45
	KeyC          KeyCode = 46
	KeyV          KeyCode = 47
	KeyB          KeyCode = 48
	KeyN          KeyCode = 49
	KeyM          KeyCode = 50
	KeyComma      KeyCode = 51
	KeyDot        KeyCode = 52
	KeySlash      KeyCode = 53
	KeyRightShift KeyCode = 54
	KeyLeftAlt    KeyCode = 56
	KeySpace      KeyCode = 57
	KeyCapsLock   KeyCode = 58
	KeyF1         KeyCode = 59
	KeyF2         KeyCode = 60
	KeyF3         KeyCode = 61
	KeyF4         KeyCode = 62
	KeyF5         KeyCode = 63
	KeyF6         KeyCode = 64
	KeyF7         KeyCode = 65
	KeyF8         KeyCode = 66
	KeyF9         KeyCode = 67
	KeyF10        KeyCode = 68
	KeyF11        KeyCode = 87
	KeyF12        KeyCode = 88
	KeyRightCtrl  KeyCode = 97
	KeyRightAlt   KeyCode = 100
	KeyHome       KeyCode = 102
	KeyUp         KeyCode = 103
	KeyPageUp     KeyCode = 104
	KeyLeft       KeyCode = 105
	KeyRight      KeyCode = 106
	KeyEnd        KeyCode = 107
	KeyDown       KeyCode = 108
	KeyPageDown   KeyCode = 109
	KeyInsert     KeyCode = 110
	KeyDelete     KeyCode = 111
)

// MouseButton identifies a mouse button
type MouseButton uint16

const (
	MouseLeft   MouseButton = 0x110
	MouseRight  MouseButton = 0x111
	MouseMiddle MouseButton = 0x112
	MouseSide   MouseButton = 0x113
	MouseExtra  MouseButton = 0x114
)

// MouseAxis identifies a relative mouse axis
type MouseAxis uint16

const (
	MouseX MouseAxis = 0x00
	MouseY MouseAxis = 0x01
)

// GamepadButton identifies a gamepad button
type GamepadButton uint16

const (
	GamepadSouth         GamepadButton = 0x130
	GamepadEast          GamepadButton = 0x131
	GamepadC             GamepadButton = 0x132
	GamepadNorth         GamepadButton = 0x133
	GamepadWest          GamepadButton = 0x134
	GamepadZ             GamepadButton = 0x135
	GamepadLeftTrigger   GamepadButton = 0x136
	GamepadRightTrigger  GamepadButton = 0x137
	GamepadLeftTrigger2  GamepadButton = 0x138
	GamepadRightTrigger2 GamepadButton = 0x139
	GamepadSelect        GamepadButton = 0x13a
	GamepadStart         GamepadButton = 0x13b
	GamepadMode          GamepadButton = 0x13c
	GamepadLeftThumb     GamepadButton = 0x13d
	GamepadRightThumb    GamepadButton = 0x13e
	GamepadDPadUp        GamepadButton = 0x220
	GamepadDPadDown      GamepadButton = 0x221
	GamepadDPadLeft      GamepadButton = 0x222
	GamepadDPadRight     GamepadButton = 0x223
)

// GamepadAxis identifies an absolute gamepad axis
type GamepadAxis uint16

const (
	GamepadLeftStickX  GamepadAxis = 0x00
	GamepadLeftStickY  GamepadAxis = 0x01
	GamepadLeftZ       GamepadAxis = 0x02
	GamepadRightStickX GamepadAxis = 0x03
	GamepadRightStickY GamepadAxis = 0x04
	GamepadRightZ      GamepadAxis = 0x05
	GamepadDPadX       GamepadAxis = 0x10
	GamepadDPadY       GamepadAxis = 0x11
)

// GamepadAxes lists every named gamepad axis
var GamepadAxes = []GamepadAxis{
	GamepadLeftStickX,
	GamepadLeftStickY,
	GamepadLeftZ,
	GamepadRightStickX,
	GamepadRightStickY,
	GamepadRightZ,
	GamepadDPadX,
	GamepadDPadY,
}

// names is a bidirectional code <-> symbolic name table
type names[T ~uint16] struct {
	kind   string
	byCode map[T]string
	byName map[string]T
}

func newNames[T ~uint16](kind string, table map[T]string) names[T] {
	n := names[T]{
		kind:   kind,
		byCode: table,
		byName: make(map[string]T, len(table)),
	}
	for code, name := range table {
		n.byName[name] = code
	}
	return n
}

func (n names[T]) name(code T) string {
	if s, ok := n.byCode[code]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", n.kind, uint16(code))
}

func (n names[T]) parse(s string) (T, error) {
	code, ok := n.byName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown %s: %q", n.kind, s)
	}
	return code, nil
}

var keyNames = newNames("key", map[KeyCode]string{
	KeyEscape: "escape", Key1: "1", Key2: "2", Key3: "3", Key4: "4", Key5: "5",
	Key6: "6", Key7: "7", Key8: "8", Key9: "9", Key0: "0",
	KeyMinus: "minus", KeyEqual: "equal", KeyBackspace: "backspace", KeyTab: "tab",
	KeyQ: "q", KeyW: "w", KeyE: "e", KeyR: "r", KeyT: "t", KeyY: "y", KeyU: "u",
	KeyI: "i", KeyO: "o", KeyP: "p", KeyLeftBrace: "left_brace", KeyRightBrace: "right_brace",
	KeyEnter: "enter", KeyLeftCtrl: "left_ctrl",
	KeyA: "a", KeyS: "s", KeyD: "d", KeyF: "f", KeyG: "g", KeyH: "h", KeyJ: "j",
	KeyK: "k", KeyL: "l", KeySemicolon: "semicolon", KeyApostrophe: "apostrophe",
	KeyGrave: "grave", KeyLeftShift: "left_shift", KeyBackslash: "backslash",
	KeyZ: "z", KeyX: "x", KeyC: "c", KeyV: "v", KeyB: "b", KeyN: "n", KeyM: "m",
	KeyComma: "comma", KeyDot: "dot", KeySlash: "slash", KeyRightShift: "right_shift",
	KeyLeftAlt: "left_alt", KeySpace: "space", KeyCapsLock: "caps_lock",
	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5", KeyF6: "f6",
	KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10", KeyF11: "f11", KeyF12: "f12",
	KeyRightCtrl: "right_ctrl", KeyRightAlt: "right_alt",
	KeyHome: "home", KeyUp: "up", KeyPageUp: "page_up", KeyLeft: "left", KeyRight: "right",
	KeyEnd: "end", KeyDown: "down", KeyPageDown: "page_down", KeyInsert: "insert", KeyDelete: "delete",
})

var mouseButtonNames = newNames("mouse button", map[MouseButton]string{
	MouseLeft:   "left",
	MouseRight:  "right",
	MouseMiddle: "middle",
	MouseSide:   "side",
	MouseExtra:  "extra",
})

var mouseAxisNames = newNames("mouse axis", map[MouseAxis]string{
	MouseX: "x",
	MouseY: "y",
})

var gamepadButtonNames = newNames("gamepad button", map[GamepadButton]string{
	GamepadSouth:         "south",
	GamepadEast:          "east",
	GamepadC:             "c",
	GamepadNorth:         "north",
	GamepadWest:          "west",
	GamepadZ:             "z",
	GamepadLeftTrigger:   "left_trigger",
	GamepadRightTrigger:  "right_trigger",
	GamepadLeftTrigger2:  "left_trigger2",
	GamepadRightTrigger2: "right_trigger2",
	GamepadSelect:        "select",
	GamepadStart:         "start",
	GamepadMode:          "mode",
	GamepadLeftThumb:     "left_thumb",
	GamepadRightThumb:    "right_thumb",
	GamepadDPadUp:        "dpad_up",
	GamepadDPadDown:      "dpad_down",
	GamepadDPadLeft:      "dpad_left",
	GamepadDPadRight:     "dpad_right",
})

var gamepadAxisNames = newNames("gamepad axis", map[GamepadAxis]string{
	GamepadLeftStickX:  "left_stick_x",
	GamepadLeftStickY:  "left_stick_y",
	GamepadLeftZ:       "left_z",
	GamepadRightStickX: "right_stick_x",
	GamepadRightStickY: "right_stick_y",
	GamepadRightZ:      "right_z",
	GamepadDPadX:       "dpad_x",
	GamepadDPadY:       "dpad_y",
})

func (k KeyCode) String() string       { return keyNames.name(k) }
func (b MouseButton) String() string   { return mouseButtonNames.name(b) }
func (a MouseAxis) String() string     { return mouseAxisNames.name(a) }
func (b GamepadButton) String() string { return gamepadButtonNames.name(b) }
func (a GamepadAxis) String() string   { return gamepadAxisNames.name(a) }
