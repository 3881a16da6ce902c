package timer

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/focusroom/internal/interval"
)

// cmdTimeout bounds the after-expiry command.
const cmdTimeout = 2 * time.Minute

// Alert is the set of side effects performed when a phase ends. Every
// effect is best-effort: failures are logged and never reach the engine.
type Alert struct {
	// Sound is SoundTone, SoundOff or a path to an audio file.
	Sound string
	// Cmd is a shell command run after each expiry.
	Cmd string
	// Notify enables desktop notifications.
	Notify bool

	play   func(sound string) error
	notify func(title, message string) error
	run    func(ctx context.Context, name string, args ...string) error
}

// NewAlert returns an Alert backed by the speaker, the desktop notifier
// and the shell.
func NewAlert(sound, cmd string, notify bool) *Alert {
	return &Alert{
		Sound:  sound,
		Cmd:    cmd,
		Notify: notify,
		play:   playSound,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

func messages(ended interval.Phase) (title, message string) {
	if ended == interval.Work {
		return "Work session is finished", "Take a breather"
	}

	return "Break is over", "Focus on your task"
}

// Fire performs the side effects for the end of phase ended without
// blocking.
func (a *Alert) Fire(ended interval.Phase) {
	go a.fire(ended)
}

func (a *Alert) fire(ended interval.Phase) {
	title, message := messages(ended)

	if a.Notify && a.notify != nil {
		if err := a.notify(title, message); err != nil {
			slog.Warn("unable to display notification", slog.Any("error", err))
		}
	}

	if a.play != nil {
		if err := a.play(a.Sound); err != nil {
			slog.Warn("unable to play sound", slog.Any("error", err))
		}
	}

	if err := a.runCmd(); err != nil {
		slog.Warn("after-expiry command failed", slog.Any("error", err))
	}
}

// runCmd executes the configured command.
func (a *Alert) runCmd() error {
	if a.Cmd == "" || a.run == nil {
		return nil
	}

	cmdSlice, err := shellquote.Split(a.Cmd)
	if err != nil {
		return fmt.Errorf("unable to parse cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()

	return a.run(ctx, cmdSlice[0], cmdSlice[1:]...)
}
