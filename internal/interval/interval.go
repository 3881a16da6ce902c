// Package interval implements the work/break countdown state machine that
// drives a focus timer. It performs no I/O: time is advanced by calling Tick
// once per second and the only side effect is an optional expiry hook.
package interval

import (
	"github.com/ayoisaiah/focusroom/internal/timeutil"
)

// Phase is one of the two mutually exclusive timer modes.
type Phase int

const (
	Work Phase = iota
	Break
)

func (p Phase) String() string {
	if p == Break {
		return "Break"
	}

	return "Work"
}

// Reconfiguration bounds, in minutes.
const (
	MinWorkMinutes  = 1
	MaxWorkMinutes  = 60
	MinBreakMinutes = 1
	MaxBreakMinutes = 30

	DefaultWorkMinutes  = 25
	DefaultBreakMinutes = 5
)

const secondsPerMinute = 60

// Config holds the phase durations in seconds.
type Config struct {
	WorkSeconds  int `json:"work_seconds"`
	BreakSeconds int `json:"break_seconds"`
}

// DefaultConfig returns a 25 minute work phase and a 5 minute break.
func DefaultConfig() Config {
	return Config{
		WorkSeconds:  DefaultWorkMinutes * secondsPerMinute,
		BreakSeconds: DefaultBreakMinutes * secondsPerMinute,
	}
}

// ValidMinutes reports whether the supplied durations are within the accepted
// reconfiguration bounds.
func ValidMinutes(workMinutes, breakMinutes int) bool {
	return workMinutes >= MinWorkMinutes && workMinutes <= MaxWorkMinutes &&
		breakMinutes >= MinBreakMinutes && breakMinutes <= MaxBreakMinutes
}

// ConfigFromMinutes converts minute values to a Config. ok is false if either
// value is out of range.
func ConfigFromMinutes(workMinutes, breakMinutes int) (cfg Config, ok bool) {
	if !ValidMinutes(workMinutes, breakMinutes) {
		return Config{}, false
	}

	return Config{
		WorkSeconds:  workMinutes * secondsPerMinute,
		BreakSeconds: breakMinutes * secondsPerMinute,
	}, true
}

// Valid reports whether both durations are within bounds.
func (c Config) Valid() bool {
	return c.WorkSeconds >= MinWorkMinutes*secondsPerMinute &&
		c.WorkSeconds <= MaxWorkMinutes*secondsPerMinute &&
		c.BreakSeconds >= MinBreakMinutes*secondsPerMinute &&
		c.BreakSeconds <= MaxBreakMinutes*secondsPerMinute
}

// Duration returns the length of phase p in seconds.
func (c Config) Duration(p Phase) int {
	if p == Break {
		return c.BreakSeconds
	}

	return c.WorkSeconds
}

// WorkMinutes returns the work duration in whole minutes.
func (c Config) WorkMinutes() int {
	return c.WorkSeconds / secondsPerMinute
}

// BreakMinutes returns the break duration in whole minutes.
func (c Config) BreakMinutes() int {
	return c.BreakSeconds / secondsPerMinute
}

// State is a snapshot of the engine.
type State struct {
	Phase            Phase `json:"phase"`
	RemainingSeconds int   `json:"remaining_seconds"`
	Running          bool  `json:"running"`
	CompletedCycles  int   `json:"completed_cycles"`
}

// ExpiryFunc is invoked when a phase runs out, before the engine moves to the
// next phase. It must not block.
type ExpiryFunc func(ended Phase)

// Engine is the interval state machine. It is not safe for concurrent use;
// callers serialise access.
type Engine struct {
	onExpiry ExpiryFunc
	state    State
	cfg      Config
}

// New returns a stopped engine in the work phase. An invalid cfg is replaced
// with DefaultConfig.
func New(cfg Config, onExpiry ExpiryFunc) *Engine {
	if !cfg.Valid() {
		cfg = DefaultConfig()
	}

	return &Engine{
		cfg:      cfg,
		onExpiry: onExpiry,
		state: State{
			Phase:            Work,
			RemainingSeconds: cfg.WorkSeconds,
		},
	}
}

// OnExpiry replaces the expiry hook.
func (e *Engine) OnExpiry(fn ExpiryFunc) {
	e.onExpiry = fn
}

// Config returns the active configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	return e.state
}

// Start resumes counting down from the current remaining time.
func (e *Engine) Start() {
	e.state.Running = true
}

// Pause stops counting down.
func (e *Engine) Pause() {
	e.state.Running = false
}

// Reset stops the engine and rewinds to the start of a work phase. Completed
// cycles are kept.
func (e *Engine) Reset() {
	e.state.Running = false
	e.state.Phase = Work
	e.state.RemainingSeconds = e.cfg.WorkSeconds
}

// ToggleBreak stops the engine and switches to the other phase with a full
// duration. It never counts as a completed cycle.
func (e *Engine) ToggleBreak() {
	e.state.Running = false

	if e.state.Phase == Work {
		e.state.Phase = Break
	} else {
		e.state.Phase = Work
	}

	e.state.RemainingSeconds = e.cfg.Duration(e.state.Phase)
}

// Reconfigure sets new durations given in minutes. Out of range values are
// rejected and the prior configuration is retained. A change to the
// configuration resets the engine.
func (e *Engine) Reconfigure(workMinutes, breakMinutes int) bool {
	cfg, ok := ConfigFromMinutes(workMinutes, breakMinutes)
	if !ok {
		return false
	}

	if cfg == e.cfg {
		return true
	}

	e.cfg = cfg
	e.Reset()

	return true
}

// SetWorkMinutes changes only the work duration.
func (e *Engine) SetWorkMinutes(minutes int) bool {
	return e.Reconfigure(minutes, e.cfg.BreakMinutes())
}

// SetBreakMinutes changes only the break duration.
func (e *Engine) SetBreakMinutes(minutes int) bool {
	return e.Reconfigure(e.cfg.WorkMinutes(), minutes)
}

// Tick advances the engine by one second. It does nothing unless the engine
// is running. When the remaining time reaches zero the expiry hook fires and
// the engine continues into the next phase.
func (e *Engine) Tick() State {
	if !e.state.Running {
		return e.state
	}

	if e.state.RemainingSeconds > 0 {
		e.state.RemainingSeconds--
	}

	if e.state.RemainingSeconds > 0 {
		return e.state
	}

	ended := e.state.Phase

	e.fireExpiry(ended)

	if ended == Break {
		e.state.Phase = Work
		e.state.RemainingSeconds = e.cfg.WorkSeconds
		e.state.CompletedCycles++
	} else {
		e.state.Phase = Break
		e.state.RemainingSeconds = e.cfg.BreakSeconds
	}

	return e.state
}

// fireExpiry runs the hook and discards any panic so that a failing alert can
// never abort the phase transition.
func (e *Engine) fireExpiry(ended Phase) {
	if e.onExpiry == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	e.onExpiry(ended)
}

// PhaseDuration returns the full length of the current phase in seconds.
func (e *Engine) PhaseDuration() int {
	return e.cfg.Duration(e.state.Phase)
}

// ProgressRatio returns the elapsed fraction of the current phase in [0, 1].
func (e *Engine) ProgressRatio() float64 {
	return Progress(e.state.RemainingSeconds, e.PhaseDuration())
}

// Clock returns the remaining time formatted as MM:SS.
func (e *Engine) Clock() string {
	return timeutil.FormatClock(e.state.RemainingSeconds)
}

// Progress computes 1 - remaining/total clamped to [0, 1]. A non-positive
// total yields 0.
func Progress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}

	r := 1 - float64(remaining)/float64(total)

	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
