package hid

import (
	"context"
	"testing"
	"time"

	"github.com/pleimann/camel-input/internal/device"
)

func TestPendingDeviceRefusesRead(t *testing.T) {
	d := NewPendingDevice(0x1234, 0x5678, 0.1)
	events := make(chan device.RawEvent, 1)

	if err := d.ReadEvents(context.Background(), events); err == nil {
		t.Fatal("ReadEvents() on pending device expected error")
	}
	if len(events) != 0 {
		t.Errorf("pending device sent %d events", len(events))
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestWaitForDeviceCancelled(t *testing.T) {
	d := NewPendingDevice(0xFFFF, 0xFFFF, 0.1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := d.WaitForDevice(ctx, time.Millisecond); err != context.Canceled {
		t.Errorf("WaitForDevice() error = %v, want context.Canceled", err)
	}
}
