// Package timer drives the interval engine once per second and renders it
// in a full-screen terminal UI
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/ayoisaiah/focusroom/internal/interval"
)

// TickSource starts a periodic signal. stop releases it.
type TickSource func() (ticks <-chan time.Time, stop func())

// SecondTicker is the TickSource used outside of tests.
func SecondTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Runner owns an interval engine and the goroutine that ticks it while it
// is running. Every engine operation goes through the Runner so that the
// goroutine is cancelled whenever the engine stops running.
type Runner struct {
	engine   *interval.Engine
	ticks    TickSource
	onUpdate func(interval.State)
	cancel   context.CancelFunc
	mu       sync.Mutex
	closed   bool
}

// NewRunner returns a stopped Runner. onUpdate is called with the engine
// state after every tick and may be nil. The engine's expiry hook runs with
// the Runner locked and must not call back into it.
func NewRunner(
	engine *interval.Engine,
	ticks TickSource,
	onUpdate func(interval.State),
) *Runner {
	if ticks == nil {
		ticks = SecondTicker
	}

	return &Runner{
		engine:   engine,
		ticks:    ticks,
		onUpdate: onUpdate,
	}
}

// SetOnUpdate replaces the tick callback.
func (r *Runner) SetOnUpdate(fn func(interval.State)) {
	r.mu.Lock()
	r.onUpdate = fn
	r.mu.Unlock()
}

// State returns the engine state.
func (r *Runner) State() interval.State {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.State()
}

// Config returns the engine configuration.
func (r *Runner) Config() interval.Config {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.Config()
}

// Snapshot returns the clock text and progress ratio.
func (r *Runner) Snapshot() (clock string, ratio float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.engine.Clock(), r.engine.ProgressRatio()
}

// Ticking reports whether the tick goroutine is active.
func (r *Runner) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.cancel != nil
}

// Start starts the engine and the ticker.
func (r *Runner) Start() {
	r.do(r.engine.Start)
}

// Pause pauses the engine and stops the ticker.
func (r *Runner) Pause() {
	r.do(r.engine.Pause)
}

// Toggle starts a stopped engine or pauses a running one.
func (r *Runner) Toggle() {
	r.do(func() {
		if r.engine.State().Running {
			r.engine.Pause()
			return
		}

		r.engine.Start()
	})
}

// Reset resets the engine and stops the ticker.
func (r *Runner) Reset() {
	r.do(r.engine.Reset)
}

// ToggleBreak switches phase and stops the ticker.
func (r *Runner) ToggleBreak() {
	r.do(r.engine.ToggleBreak)
}

// Reconfigure applies new durations. An effective change stops the ticker.
func (r *Runner) Reconfigure(workMinutes, breakMinutes int) bool {
	var ok bool

	r.do(func() {
		ok = r.engine.Reconfigure(workMinutes, breakMinutes)
	})

	return ok
}

// AdjustWork changes the work duration by delta minutes.
func (r *Runner) AdjustWork(delta int) bool {
	var ok bool

	r.do(func() {
		cfg := r.engine.Config()
		ok = r.engine.Reconfigure(cfg.WorkMinutes()+delta, cfg.BreakMinutes())
	})

	return ok
}

// AdjustBreak changes the break duration by delta minutes.
func (r *Runner) AdjustBreak(delta int) bool {
	var ok bool

	r.do(func() {
		cfg := r.engine.Config()
		ok = r.engine.Reconfigure(cfg.WorkMinutes(), cfg.BreakMinutes()+delta)
	})

	return ok
}

// Close pauses the engine and stops the ticker for good. It is safe to call
// more than once.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	r.engine.Pause()
	r.stopLocked()
	r.closed = true
}

func (r *Runner) do(op func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}

	op()

	running := r.engine.State().Running

	switch {
	case running && r.cancel == nil:
		r.startLocked()
	case !running && r.cancel != nil:
		r.stopLocked()
	}
}

func (r *Runner) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	ch, stop := r.ticks()

	go r.loop(ctx, ch, stop)
}

func (r *Runner) stopLocked() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Runner) loop(ctx context.Context, ch <-chan time.Time, stop func()) {
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			r.mu.Lock()

			// cancelled while waiting for the lock
			if ctx.Err() != nil {
				r.mu.Unlock()
				return
			}

			st := r.engine.Tick()
			fn := r.onUpdate

			r.mu.Unlock()

			if fn != nil {
				fn(st)
			}
		}
	}
}
