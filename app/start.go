package app

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/identity"
	"github.com/ayoisaiah/focusroom/internal/interval"
	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/report"
	"github.com/ayoisaiah/focusroom/timer"
)

// ensureIdentity restores the session, or asks the user to sign in or
// register.
func ensureIdentity(ctx *cli.Context, e *env) (identity.Identity, error) {
	id, ok, err := e.gate.Restore(ctx.Context)
	if err != nil || ok {
		return id, err
	}

	var register bool

	err = huh.NewSelect[bool]().
		Title("You are not signed in").
		Options(
			huh.NewOption("Sign in", false),
			huh.NewOption("Create an account", true),
		).
		Value(&register).
		Run()
	if err != nil {
		return identity.Identity{}, err
	}

	id, err = signIn(ctx, e, register)
	if err != nil {
		return identity.Identity{}, err
	}

	report.SignedIn(id.DisplayName, id.Email)

	return id, nil
}

// ensureRoom restores the active room, or shows the room picker.
func ensureRoom(
	ctx context.Context,
	e *env,
	id identity.Identity,
) (room.ActiveRoom, error) {
	r, err := e.activeRoom(ctx)
	if errors.Is(err, errNoActiveRoom) {
		return chooseRoom(ctx, e, id)
	}

	return r, err
}

// runTimer shows the timer UI for the active room until the user quits or
// leaves the room.
func runTimer(
	e *env,
	id identity.Identity,
	active room.ActiveRoom,
) (timer.Result, error) {
	cfg, ok := interval.ConfigFromMinutes(e.cfg.Timer.Work, e.cfg.Timer.Break)
	if !ok {
		cfg = interval.DefaultConfig()
	}

	alert := timer.NewAlert(e.cfg.Alert.Sound, e.cfg.Alert.Cmd, e.cfg.Alert.Notify)
	runner := timer.NewRunner(interval.New(cfg, alert.Fire), nil, nil)

	defer runner.Close()

	model := timer.NewModel(runner, timer.Options{
		RoomName:  active.Name,
		UserName:  id.DisplayName,
		DarkTheme: e.cfg.Display.DarkTheme,
		Roster: func(ctx context.Context) ([]room.Member, error) {
			members, err := e.rooms.ListMembers(ctx, active.ID)
			if err != nil {
				return nil, err
			}

			return room.SortMembers(members), nil
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.Attach(p)

	slog.Info(
		"timer started",
		slog.String("room_id", active.ID),
		slog.Int("work_seconds", cfg.WorkSeconds),
		slog.Int("break_seconds", cfg.BreakSeconds),
	)

	_, err := p.Run()

	return model.Result(), err
}

// startAction signs the user in, picks a room and starts the timer.
func startAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		id, err := ensureIdentity(ctx, e)
		if err != nil {
			return err
		}

		active, err := ensureRoom(ctx.Context, e, id)
		if err != nil {
			return err
		}

		result, err := runTimer(e, id, active)
		if err != nil {
			return err
		}

		if result != timer.ResultLeaveRoom {
			return nil
		}

		err = e.rooms.ExitRoom(ctx.Context, active.ID, id.UserID)
		if err != nil {
			return err
		}

		report.RoomLeft(active.Name)

		return nil
	})
}
