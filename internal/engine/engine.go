// Package engine drives the per-tick input pipeline: drain raw device
// events, reconcile every channel against the current binding table, then
// hand the resulting action state to the application.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pleimann/camel-input/internal/action"
	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/device"
	"github.com/pleimann/camel-input/internal/reconcile"
)

// Engine owns the input snapshot and action state of one application. It is
// driven by a single goroutine; only the binding store may be updated from
// elsewhere.
type Engine[A comparable] struct {
	store  *binding.Store[A]
	input  *device.Input
	state  *action.State[A]
	table  *binding.Table[A]
	logger *slog.Logger
}

// New creates an engine reading bindings from store
func New[A comparable](store *binding.Store[A]) *Engine[A] {
	return &Engine[A]{
		store:  store,
		input:  device.NewInput(),
		state:  action.NewState[A](),
		logger: slog.Default().With("component", "engine"),
	}
}

// Input returns the raw input snapshot fed between ticks
func (e *Engine[A]) Input() *device.Input {
	return e.input
}

// State returns the action state. Read it only after Tick returned.
func (e *Engine[A]) State() action.Query[A] {
	return e.state
}

// Ticks returns the number of ticks run so far
func (e *Engine[A]) Ticks() uint64 {
	return e.state.Tick()
}

// Snapshot copies the active actions
func (e *Engine[A]) Snapshot() map[A]*float32 {
	return e.state.Snapshot()
}

// Tick runs one reconciliation pass. The binding table is loaded once so
// every reconciler of the tick sees the same snapshot. When the snapshot
// changed since the previous tick, only entries whose asserting event the new
// table maps to the same action survive, and held axes follow their event to
// its new action.
func (e *Engine[A]) Tick() {
	table := e.store.Load()
	if table != e.table {
		if e.table != nil {
			before := e.state.Len()
			e.state.Rebind(table.Lookup)
			e.logger.Debug("binding table changed", "bindings", table.Len(), "dropped", before-e.state.Len())
		}
		e.table = table
	}

	e.state.BeginTick()
	reconcile.Run(table, reconcile.Sources{
		Keyboard:    e.input.Keyboard,
		Mouse:       e.input.Mouse,
		Gamepad:     e.input.Gamepad,
		Motions:     e.input.Motions(),
		AxisChanges: e.input.AxisChanges(),
		Analog:      e.input,
	}, e.state)
	e.input.EndTick()
}

// Run ticks at rate until ctx is done. Raw events arriving between ticks are
// applied to the input snapshot; onTick, if set, is called after every tick
// with the engine as its query facade.
func (e *Engine[A]) Run(ctx context.Context, rate time.Duration, raw <-chan device.RawEvent, onTick func(action.Query[A])) error {
	if rate <= 0 {
		return fmt.Errorf("tick rate must be positive: %v", rate)
	}

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-raw:
			if !ok {
				// Sources are gone; keep ticking so held state decays
				raw = nil
				continue
			}
			e.input.Apply(ev)
		case <-ticker.C:
			e.drain(raw)
			e.Tick()
			if onTick != nil {
				onTick(e.state)
			}
		}
	}
}

// drain applies events already queued so a tick sees everything delivered
// before it started
func (e *Engine[A]) drain(raw <-chan device.RawEvent) {
	for {
		select {
		case ev, ok := <-raw:
			if !ok {
				return
			}
			e.input.Apply(ev)
		default:
			return
		}
	}
}
