package event

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindPressed, "pressed"},
		{KindJustPressed, "just_pressed"},
		{KindAxis, "axis"},
		{KindValueChanged, "value"},
		{Kind(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.k.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{"keyboard pressed", Pressed(KeyboardButton(KeyQ)), "pressed keyboard:q"},
		{"mouse just pressed", JustPressed(MouseButtonOf(MouseRight)), "just_pressed mouse:right"},
		{"gamepad just pressed", JustPressed(GamepadButtonOf(0, GamepadSouth)), "just_pressed gamepad:0:south"},
		{"mouse axis", Axis(MouseAxisOf(MouseX)), "axis mouse:x"},
		{"gamepad axis", Axis(GamepadAxisOf(1, GamepadLeftStickX)), "axis gamepad:1:left_stick_x"},
		{"analog trigger", ValueChanged(GamepadButtonOf(0, GamepadRightTrigger2)), "value gamepad:0:right_trigger2"},
		{"unnamed key", Pressed(KeyboardButton(KeyCode(250))), "pressed keyboard:key(250)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Event
		wantErr bool
	}{
		{input: "pressed keyboard:q", want: Pressed(KeyboardButton(KeyQ))},
		{input: "Pressed  Keyboard:SPACE", want: Pressed(KeyboardButton(KeySpace))},
		{input: "just_pressed mouse:left", want: JustPressed(MouseButtonOf(MouseLeft))},
		{input: "just_pressed gamepad:2:north", want: JustPressed(GamepadButtonOf(2, GamepadNorth))},
		{input: "axis mouse:y", want: Axis(MouseAxisOf(MouseY))},
		{input: "axis gamepad:0:right_stick_y", want: Axis(GamepadAxisOf(0, GamepadRightStickY))},
		{input: "value gamepad:0:left_trigger2", want: ValueChanged(GamepadButtonOf(0, GamepadLeftTrigger2))},
		{input: "value_changed key:w", want: ValueChanged(KeyboardButton(KeyW))},
		{input: "pressed", wantErr: true},
		{input: "held keyboard:q", wantErr: true},
		{input: "pressed keyboard:nope", wantErr: true},
		{input: "pressed joystick:a", wantErr: true},
		{input: "pressed gamepad:south", wantErr: true},
		{input: "pressed gamepad:-1:south", wantErr: true},
		{input: "axis keyboard:q", wantErr: true},
		{input: "axis mouse:z", wantErr: true},
		{input: "pressed mouse:x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	events := []Event{
		Pressed(KeyboardButton(KeyF12)),
		JustPressed(MouseButtonOf(MouseMiddle)),
		Pressed(GamepadButtonOf(3, GamepadDPadLeft)),
		Axis(GamepadAxisOf(1, GamepadDPadY)),
		ValueChanged(MouseButtonOf(MouseSide)),
	}

	for _, e := range events {
		got, err := Parse(e.String())
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", e.String(), err)
		}
		if got != e {
			t.Errorf("Parse(%q) = %#v, want %#v", e.String(), got, e)
		}
	}
}

func TestEventEquality(t *testing.T) {
	// Same control, different trigger kind must be distinct keys
	m := map[Event]string{
		Pressed(KeyboardButton(KeyQ)):      "level",
		JustPressed(KeyboardButton(KeyQ)):  "edge",
		ValueChanged(KeyboardButton(KeyQ)): "analog",
	}
	if len(m) != 3 {
		t.Fatalf("len(map) = %d, want 3", len(m))
	}

	// Gamepad id is part of the identity
	if Pressed(GamepadButtonOf(0, GamepadSouth)) == Pressed(GamepadButtonOf(1, GamepadSouth)) {
		t.Error("events on different gamepads compare equal")
	}

	// Mouse X and gamepad axis 0 share a numeric code but not a device
	if Axis(MouseAxisOf(MouseX)) == Axis(GamepadAxisOf(0, GamepadLeftStickX)) {
		t.Error("mouse x and gamepad left stick x compare equal")
	}
}

func TestEventHash(t *testing.T) {
	a := JustPressed(GamepadButtonOf(0, GamepadSouth))
	b := JustPressed(GamepadButtonOf(0, GamepadSouth))
	if a.Hash() != b.Hash() {
		t.Errorf("equal events hash differently: %x != %x", a.Hash(), b.Hash())
	}

	c := Pressed(GamepadButtonOf(0, GamepadSouth))
	if a.Hash() == c.Hash() {
		t.Errorf("Pressed and JustPressed hash equal: %x", a.Hash())
	}
}

func TestEventLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{"kind first", Pressed(GamepadButtonOf(0, GamepadSouth)), JustPressed(KeyboardButton(KeyA)), true},
		{"device second", Pressed(KeyboardButton(KeyZ)), Pressed(MouseButtonOf(MouseLeft)), true},
		{"gamepad id third", Pressed(GamepadButtonOf(1, GamepadSouth)), Pressed(GamepadButtonOf(0, GamepadEast)), false},
		{"code last", Pressed(KeyboardButton(KeyQ)), Pressed(KeyboardButton(KeyW)), true},
		{"equal", Axis(MouseAxisOf(MouseX)), Axis(MouseAxisOf(MouseX)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("%v.Less(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEventYAML(t *testing.T) {
	in := []Event{
		Pressed(KeyboardButton(KeySpace)),
		Axis(GamepadAxisOf(0, GamepadLeftStickX)),
	}

	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !strings.Contains(string(data), "pressed keyboard:space") {
		t.Errorf("Marshal() = %q, want symbolic event names", data)
	}

	var out []Event
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Errorf("Unmarshal() = %v, want %v", out, in)
	}

	var bad []Event
	if err := yaml.Unmarshal([]byte("- pressed keyboard:bogus\n"), &bad); err == nil {
		t.Error("Unmarshal() of unknown key succeeded, want error")
	}
	if err := yaml.Unmarshal([]byte("- {kind: pressed}\n"), &bad); err == nil {
		t.Error("Unmarshal() of mapping succeeded, want error")
	}
}
