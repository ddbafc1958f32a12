package hid

import (
	"reflect"
	"testing"
)

func TestIsGamepad(t *testing.T) {
	tests := []struct {
		name string
		info DeviceInfo
		want bool
	}{
		{"gamepad", DeviceInfo{UsagePage: 0x01, Usage: 0x05}, true},
		{"joystick", DeviceInfo{UsagePage: 0x01, Usage: 0x04}, true},
		{"multi-axis", DeviceInfo{UsagePage: 0x01, Usage: 0x08}, true},
		{"keyboard", DeviceInfo{UsagePage: 0x01, Usage: 0x06}, false},
		{"vendor page", DeviceInfo{UsagePage: 0xFF00, Usage: 0x05}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.IsGamepad(); got != tt.want {
				t.Errorf("IsGamepad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortDevices(t *testing.T) {
	devices := []DeviceInfo{
		{VendorID: 0x1000, ProductID: 2, UsagePage: 0x01, Usage: 0x06, Path: "kbd"},
		{VendorID: 0x2000, ProductID: 1, UsagePage: 0x01, Usage: 0x05, Path: "pad-b"},
		{VendorID: 0x1000, ProductID: 1, UsagePage: 0xFF00, Path: "vendor"},
		{VendorID: 0x0500, ProductID: 9, UsagePage: 0x01, Usage: 0x04, Path: "stick"},
		{VendorID: 0x2000, ProductID: 1, UsagePage: 0x01, Usage: 0x05, Path: "pad-b2"},
	}

	SortDevices(devices)

	var got []string
	for _, d := range devices {
		got = append(got, d.Path)
	}
	want := []string{"stick", "pad-b", "pad-b2", "vendor", "kbd"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortDevices() order = %v, want %v", got, want)
	}
}
