package hid

import (
	"cmp"
	"slices"

	"github.com/karalabe/hid"
)

// HID usage page and usages that identify game controllers
const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05
	usageMultiAxis          = 0x08
)

// DeviceInfo describes one HID interface found on the system
type DeviceInfo struct {
	VendorID     uint16
	ProductID    uint16
	Path         string
	Manufacturer string
	Product      string
	SerialNumber string
	UsagePage    uint16
	Usage        uint16
}

// IsGamepad reports whether the interface declares a game controller usage
func (d DeviceInfo) IsGamepad() bool {
	if d.UsagePage != usagePageGenericDesktop {
		return false
	}
	switch d.Usage {
	case usageJoystick, usageGamepad, usageMultiAxis:
		return true
	}
	return false
}

func infoFrom(d hid.DeviceInfo) DeviceInfo {
	return DeviceInfo{
		VendorID:     d.VendorID,
		ProductID:    d.ProductID,
		Path:         d.Path,
		Manufacturer: d.Manufacturer,
		Product:      d.Product,
		SerialNumber: d.Serial,
		UsagePage:    d.UsagePage,
		Usage:        d.Usage,
	}
}

// ListDevices returns every HID interface, game controllers first
func ListDevices() ([]DeviceInfo, error) {
	devices := hid.Enumerate(0, 0)

	result := make([]DeviceInfo, len(devices))
	for i, d := range devices {
		result[i] = infoFrom(d)
	}
	SortDevices(result)
	return result, nil
}

// SortDevices orders game controllers before other devices, then by
// vendor and product id. The sort is stable so interfaces of one device
// keep their enumeration order.
func SortDevices(devices []DeviceInfo) {
	slices.SortStableFunc(devices, func(a, b DeviceInfo) int {
		if a.IsGamepad() != b.IsGamepad() {
			if a.IsGamepad() {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.VendorID, b.VendorID); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
}

// enumerate lists the interfaces of one device, game controller
// interfaces first, so open attempts try the gamepad interface before
// keyboard or vendor interfaces of the same adapter.
func enumerate(vendorID, productID uint16) []hid.DeviceInfo {
	devices := hid.Enumerate(vendorID, productID)
	slices.SortStableFunc(devices, func(a, b hid.DeviceInfo) int {
		ga, gb := infoFrom(a).IsGamepad(), infoFrom(b).IsGamepad()
		switch {
		case ga == gb:
			return 0
		case ga:
			return -1
		default:
			return 1
		}
	})
	return devices
}

// FindDevice returns the first interface matching the given vendor and
// product IDs, preferring one with a game controller usage. It returns nil
// when the device is not connected.
func FindDevice(vendorID, productID uint16) *DeviceInfo {
	devices := enumerate(vendorID, productID)
	if len(devices) == 0 {
		return nil
	}
	info := infoFrom(devices[0])
	return &info
}
