//go:build !linux

package evdev

import (
	"context"
	"errors"

	"github.com/pleimann/camel-input/internal/device"
)

// ErrUnsupported is returned on platforms without evdev
var ErrUnsupported = errors.New("evdev input is only available on linux")

// Reader is unavailable on this platform
type Reader struct{}

// Open always fails on this platform
func Open(paths []string) (*Reader, error) {
	return nil, ErrUnsupported
}

// Close does nothing
func (r *Reader) Close() error { return nil }

// ReadEvents always fails on this platform
func (r *Reader) ReadEvents(ctx context.Context, events chan<- device.RawEvent) error {
	return ErrUnsupported
}
