package hid

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/karalabe/hid"
	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/event"
)

// Device represents a connection to a HID gamepad adapter
type Device struct {
	vendorID  uint16
	productID uint16
	device    *hid.Device
	deadzone  float32
	mu        sync.Mutex
	closed    bool
}

func executableName() string {
	return "camel-input"
}

// NewDevice opens a connection to a HID device with the specified vendor and
// product IDs. deadzone is applied to every stick axis.
func NewDevice(vendorID, productID uint16, deadzone float32) (*Device, error) {
	devices := enumerate(vendorID, productID)
	if len(devices) == 0 {
		// List available devices to help user find the right one
		allDevices := hid.Enumerate(0, 0)
		if len(allDevices) == 0 {
			return nil, fmt.Errorf("no HID devices found on system - check USB connection")
		}
		return nil, fmt.Errorf("no device found with VendorID=0x%04X, ProductID=0x%04X\n"+
			"  Run '"+executableName()+" --list-devices' to see available devices\n"+
			"  Run '"+executableName()+" set-device' to configure the correct device",
			vendorID, productID)
	}

	// Try to open each matching interface until one succeeds
	// Some devices have multiple interfaces, not all of which can be opened
	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			return &Device{
				vendorID:  vendorID,
				productID: productID,
				device:    dev,
				deadzone:  deadzone,
			}, nil
		}
		lastErr = err
	}

	// All interfaces failed to open
	if len(devices) == 1 {
		return nil, fmt.Errorf("failed to open device 0x%04X:0x%04X: %w\n"+
			"  This may be a permissions issue. On macOS, try:\n"+
			"  1. System Settings > Privacy & Security > Input Monitoring\n"+
			"  2. Add Terminal (or your terminal app) to the list",
			vendorID, productID, lastErr)
	}
	return nil, fmt.Errorf("failed to open any of %d interfaces for device 0x%04X:0x%04X: %w\n"+
		"  This may be a permissions issue. On macOS, try:\n"+
		"  1. System Settings > Privacy & Security > Input Monitoring\n"+
		"  2. Add Terminal (or your terminal app) to the list",
		len(devices), vendorID, productID, lastErr)
}

// NewPendingDevice returns a device that is not connected yet. Call
// WaitForDevice before reading from it.
func NewPendingDevice(vendorID, productID uint16, deadzone float32) *Device {
	return &Device{
		vendorID:  vendorID,
		productID: productID,
		deadzone:  deadzone,
	}
}

// Close closes the HID device connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	if d.device != nil {
		return d.device.Close()
	}
	return nil
}

// ReadEvents continuously reads gamepad reports, decodes them and sends the
// resulting raw events to the channel. When the device fails, a disconnect
// event is sent for every gamepad seen so no input stays held.
func (d *Device) ReadEvents(ctx context.Context, events chan<- device.RawEvent) error {
	buf := make([]byte, 64)
	decoder := NewDecoder(d.deadzone)
	var batch []device.RawEvent

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.mu.Lock()
		if d.closed || d.device == nil {
			d.mu.Unlock()
			return fmt.Errorf("device closed")
		}
		dev := d.device
		d.mu.Unlock()

		n, err := dev.Read(buf)
		if err != nil {
			for _, id := range decoder.Gamepads() {
				batch = append(batch[:0], device.DisconnectEvent(event.Gamepad, id))
				if sendErr := send(ctx, events, batch); sendErr != nil {
					return sendErr
				}
			}
			return fmt.Errorf("read error: %w", err)
		}

		if n == 0 {
			continue
		}

		report, err := ParseReport(buf[:n])
		if err != nil {
			// Adapters interleave other report ids; skip them
			continue
		}

		batch = decoder.Decode(batch[:0], report)
		if err := send(ctx, events, batch); err != nil {
			return err
		}
	}
}

func send(ctx context.Context, events chan<- device.RawEvent, batch []device.RawEvent) error {
	for _, ev := range batch {
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Reconnect attempts to reconnect to the device
func (d *Device) Reconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Close existing connection if any
	if d.device != nil {
		d.device.Close()
		d.device = nil
	}
	d.closed = false

	// Try to find and open the device
	devices := enumerate(d.vendorID, d.productID)
	if len(devices) == 0 {
		return fmt.Errorf("device not found")
	}

	// Try each interface until one opens
	var lastErr error
	for _, devInfo := range devices {
		dev, err := devInfo.Open()
		if err == nil {
			d.device = dev
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("failed to open device: %w", lastErr)
}

// WaitForDevice waits for a device to become available and connects to it
func (d *Device) WaitForDevice(ctx context.Context, pollInterval time.Duration) error {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Reconnect(); err == nil {
				return nil
			}
		}
	}
}
