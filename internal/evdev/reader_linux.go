//go:build linux

package evdev

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/event"
	"golang.org/x/sys/unix"
)

// pollTimeoutMs bounds how long a read waits before checking ctx
const pollTimeoutMs = 100

// Reader multiplexes several /dev/input/event* nodes with a single epoll
// instance.
type Reader struct {
	files []*os.File
}

// Open opens every device node in paths
func Open(paths []string) (*Reader, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input devices provided")
	}

	r := &Reader{}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		r.files = append(r.files, f)
	}
	return r, nil
}

// Close closes every device node
func (r *Reader) Close() error {
	var errs []error
	for _, f := range r.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.files = nil
	return errors.Join(errs...)
}

// ReadEvents reads until ctx is done or every device went away. A device
// that hangs up is dropped and a disconnect event releases whatever it held.
func (r *Reader) ReadEvents(ctx context.Context, events chan<- device.RawEvent) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	type node struct {
		file *os.File
		tr   Translator
		// devices seen on this node, for disconnect
		seen map[event.Device]bool
	}
	nodes := make(map[int32]*node, len(r.files))

	for _, f := range r.files {
		fd := int(f.Fd())
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return fmt.Errorf("epoll_ctl_add %s: %w", f.Name(), err)
		}
		nodes[int32(fd)] = &node{file: f, seen: make(map[event.Device]bool)}
	}

	const maxEvents = 32
	epollEvents := make([]unix.EpollEvent, maxEvents)
	buf := make([]byte, EventSize*64)
	var decoded []InputEvent
	var batch []device.RawEvent

	for len(nodes) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := unix.EpollWait(epfd, epollEvents, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}

		for i := 0; i < n; i++ {
			nd := nodes[epollEvents[i].Fd]
			if nd == nil {
				continue
			}

			hangup := epollEvents[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0
			var readErr error
			if !hangup {
				var m int
				m, readErr = nd.file.Read(buf)
				if readErr == nil {
					batch = batch[:0]
					decoded = DecodeEvents(decoded[:0], buf[:m])
					for _, ie := range decoded {
						batch = nd.tr.Translate(batch, ie)
					}
					for _, ev := range batch {
						if ev.Kind == device.RawButton {
							nd.seen[ev.Button.Device] = true
						}
						if err := sendEvent(ctx, events, ev); err != nil {
							return err
						}
					}
					continue
				}
			}

			slog.Warn("input device removed", "path", nd.file.Name(), "error", readErr)
			_ = unix.EpollCtl(epfd, unix.EPOLL_CTL_DEL, int(epollEvents[i].Fd), nil)
			delete(nodes, epollEvents[i].Fd)
			for dev := range nd.seen {
				if err := sendEvent(ctx, events, device.DisconnectEvent(dev, 0)); err != nil {
					return err
				}
			}
		}
	}

	return fmt.Errorf("all input devices removed")
}

func sendEvent(ctx context.Context, events chan<- device.RawEvent, ev device.RawEvent) error {
	select {
	case events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
