package hid

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/event"
)

func TestParseReport(t *testing.T) {
	full := &Report{
		Gamepad:  1,
		Buttons:  0x0005, // south, north
		Axes:     [6]int16{32767, -32768, 0, 100, 0, -1},
		Triggers: [2]uint8{0, 255},
	}

	tests := []struct {
		name    string
		data    []byte
		want    *Report
		wantErr error
	}{
		{
			name: "full report",
			data: full.Encode(),
			want: full,
		},
		{
			name: "trailing padding ignored",
			data: append(full.Encode(), 0, 0, 0, 0),
			want: full,
		},
		{
			name:    "data too short",
			data:    []byte{ReportIDGamepad, 0x00, 0x01},
			wantErr: ErrShortReport,
		},
		{
			name: "wrong report ID",
			data: func() []byte {
				buf := full.Encode()
				buf[0] = 0x01
				return buf
			}(),
			wantErr: ErrUnknownReport,
		},
		{
			name: "gamepad index out of range",
			data: func() []byte {
				buf := full.Encode()
				buf[1] = MaxGamepads
				return buf
			}(),
			wantErr: ErrGamepadIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReport(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseReport() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReport() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseReport() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPressedButtons(t *testing.T) {
	r := &Report{Buttons: 0x8003}
	want := []event.GamepadButton{event.GamepadSouth, event.GamepadEast, event.GamepadDPadRight}
	if got := r.PressedButtons(); !reflect.DeepEqual(got, want) {
		t.Errorf("PressedButtons() = %v, want %v", got, want)
	}
}

func TestNormalizeAxis(t *testing.T) {
	tests := []struct {
		raw      int16
		deadzone float32
		want     float32
	}{
		{0, 0, 0},
		{32767, 0, 1},
		{-32767, 0, -1},
		{-32768, 0, -1},
		{1000, 0.1, 0},
		{-1000, 0.1, 0},
		{16384, 0.1, 16384.0 / 32767.0},
		{1000, 0, 1000.0 / 32767.0},
	}

	for _, tt := range tests {
		if got := NormalizeAxis(tt.raw, tt.deadzone); got != tt.want {
			t.Errorf("NormalizeAxis(%d, %v) = %v, want %v", tt.raw, tt.deadzone, got, tt.want)
		}
	}
}

func TestNormalizeTrigger(t *testing.T) {
	if got := NormalizeTrigger(0); got != 0 {
		t.Errorf("NormalizeTrigger(0) = %v, want 0", got)
	}
	if got := NormalizeTrigger(255); got != 1 {
		t.Errorf("NormalizeTrigger(255) = %v, want 1", got)
	}
}

func TestDecoder(t *testing.T) {
	d := NewDecoder(0.1)

	south := event.GamepadButtonOf(0, event.GamepadSouth)
	stickX := event.GamepadAxisOf(0, event.GamepadLeftStickX)
	rt := event.GamepadButtonOf(0, event.GamepadRightTrigger2)

	// First report compares against idle
	got := d.Decode(nil, &Report{Buttons: 0x0001, Axes: [6]int16{32767}})
	want := []device.RawEvent{
		device.ButtonEvent(south, true),
		device.AxisEvent(stickX, 1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("first Decode() = %+v, want %+v", got, want)
	}

	// Identical report produces nothing
	if got := d.Decode(nil, &Report{Buttons: 0x0001, Axes: [6]int16{32767}}); len(got) != 0 {
		t.Errorf("repeat Decode() = %+v, want none", got)
	}

	// Jitter inside the deadzone after centering produces one change only
	got = d.Decode(nil, &Report{Buttons: 0x0001, Axes: [6]int16{0}})
	want = []device.RawEvent{device.AxisEvent(stickX, 0)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("centering Decode() = %+v, want %+v", got, want)
	}
	if got := d.Decode(nil, &Report{Buttons: 0x0001, Axes: [6]int16{500}}); len(got) != 0 {
		t.Errorf("deadzone jitter Decode() = %+v, want none", got)
	}

	got = d.Decode(nil, &Report{Triggers: [2]uint8{0, 255}})
	want = []device.RawEvent{
		device.ButtonEvent(south, false),
		device.AnalogEvent(rt, 1),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("release Decode() = %+v, want %+v", got, want)
	}
}

func TestDecoderPerGamepad(t *testing.T) {
	d := NewDecoder(0)

	d.Decode(nil, &Report{Gamepad: 0, Buttons: 0x0001})
	got := d.Decode(nil, &Report{Gamepad: 1, Buttons: 0x0001})
	want := []device.RawEvent{device.ButtonEvent(event.GamepadButtonOf(1, event.GamepadSouth), true)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode(gamepad 1) = %+v, want %+v", got, want)
	}

	if n := len(d.Gamepads()); n != 2 {
		t.Errorf("len(Gamepads()) = %d, want 2", n)
	}

	d.Forget(0)
	got = d.Decode(nil, &Report{Gamepad: 0, Buttons: 0x0001})
	if len(got) != 1 || !got[0].Down {
		t.Errorf("Decode() after Forget = %+v, want a fresh press", got)
	}
}
