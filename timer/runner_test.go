package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/interval"
)

type fakeTicks struct {
	chans   []chan time.Time
	stopped int
	mu      sync.Mutex
}

func (f *fakeTicks) source() (<-chan time.Time, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan time.Time, 8)
	f.chans = append(f.chans, ch)

	return ch, func() {
		f.mu.Lock()
		f.stopped++
		f.mu.Unlock()
	}
}

func (f *fakeTicks) last() chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.chans[len(f.chans)-1]
}

func (f *fakeTicks) counts() (started, stopped int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.chans), f.stopped
}

func newTestRunner(t *testing.T) (*Runner, *fakeTicks, chan interval.State) {
	t.Helper()

	cfg, ok := interval.ConfigFromMinutes(1, 1)
	require.True(t, ok)

	ticks := &fakeTicks{}
	updates := make(chan interval.State, 8)

	r := NewRunner(interval.New(cfg, nil), ticks.source, func(st interval.State) {
		updates <- st
	})

	t.Cleanup(r.Close)

	return r, ticks, updates
}

func waitUpdate(t *testing.T, updates chan interval.State) interval.State {
	t.Helper()

	select {
	case st := <-updates:
		return st
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick")
	}

	return interval.State{}
}

func TestRunnerTicksWhileRunning(t *testing.T) {
	r, ticks, updates := newTestRunner(t)

	assert.False(t, r.Ticking())

	r.Start()
	require.True(t, r.Ticking())

	ticks.last() <- time.Now()
	st := waitUpdate(t, updates)
	assert.Equal(t, 59, st.RemainingSeconds)

	ticks.last() <- time.Now()
	st = waitUpdate(t, updates)
	assert.Equal(t, 58, st.RemainingSeconds)

	// starting again does not spawn a second ticker
	r.Start()

	started, _ := ticks.counts()
	assert.Equal(t, 1, started)
}

func TestRunnerStopsTicking(t *testing.T) {
	cases := []struct {
		name string
		op   func(r *Runner)
	}{
		{name: "pause", op: (*Runner).Pause},
		{name: "toggle", op: (*Runner).Toggle},
		{name: "reset", op: (*Runner).Reset},
		{name: "toggle break", op: (*Runner).ToggleBreak},
		{name: "reconfigure", op: func(r *Runner) { r.Reconfigure(2, 1) }},
		{name: "adjust work", op: func(r *Runner) { r.AdjustWork(1) }},
		{name: "close", op: (*Runner).Close},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, ticks, updates := newTestRunner(t)

			r.Start()

			ticks.last() <- time.Now()
			waitUpdate(t, updates)

			tc.op(r)
			assert.False(t, r.Ticking())
			assert.False(t, r.State().Running)

			before := r.State()

			ticks.last() <- time.Now()

			select {
			case st := <-updates:
				t.Fatalf("tick delivered after cancellation: %+v", st)
			case <-time.After(50 * time.Millisecond):
			}

			assert.Equal(t, before, r.State())

			assert.Eventually(t, func() bool {
				_, stopped := ticks.counts()
				return stopped == 1
			}, time.Second, 10*time.Millisecond)
		})
	}
}

func TestRunnerIdenticalReconfigureKeepsTicking(t *testing.T) {
	r, _, _ := newTestRunner(t)

	r.Start()

	assert.True(t, r.Reconfigure(1, 1))
	assert.True(t, r.Ticking())
	assert.True(t, r.State().Running)

	assert.False(t, r.Reconfigure(0, 1))
	assert.True(t, r.Ticking())
}

func TestRunnerCloseIsFinal(t *testing.T) {
	r, ticks, _ := newTestRunner(t)

	r.Start()
	r.Close()
	r.Close()

	r.Start()
	assert.False(t, r.Ticking())
	assert.False(t, r.State().Running)

	started, _ := ticks.counts()
	assert.Equal(t, 1, started)
}

func TestRunnerPhaseTransition(t *testing.T) {
	r, ticks, updates := newTestRunner(t)

	r.Start()

	var st interval.State

	for range 60 {
		ticks.last() <- time.Now()
		st = waitUpdate(t, updates)
	}

	assert.Equal(t, interval.Break, st.Phase)
	assert.Equal(t, 60, st.RemainingSeconds)
	assert.True(t, r.Ticking())
}
