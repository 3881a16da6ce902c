package app

import (
	"context"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/internal/config"
	"github.com/ayoisaiah/focusroom/internal/identity"
	"github.com/ayoisaiah/focusroom/internal/pathutil"
	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/internal/state"
	"github.com/ayoisaiah/focusroom/internal/ui"
	"github.com/ayoisaiah/focusroom/store"
	"github.com/ayoisaiah/focusroom/store/remote"
)

var (
	errNotSignedIn = apperr.Validation(
		"you are not signed in: run 'focusroom login' or 'focusroom register'",
	)
	errNoActiveRoom = apperr.Validation(
		"no active room: run 'focusroom rooms select' or 'focusroom rooms create'",
	)
)

// env is the set of collaborators shared by the commands.
type env struct {
	cfg    *config.Config
	client store.Client
	slots  *state.Slots
	gate   *identity.Gate
	rooms  *room.Manager
}

func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := pathutil.ConfigFilePath()

	return config.New(
		config.WithPromptConfig(path),
		config.WithViperConfig(path),
		config.WithCLIConfig(ctx),
	)
}

// newClient returns the store selected by the configuration.
func newClient(cfg *config.Config, slots *state.Slots) (store.Client, error) {
	if cfg.Remote() {
		return remote.New(cfg.Store.URL, slots), nil
	}

	b, err := store.OpenBolt(pathutil.DBFilePath())
	if err != nil {
		return nil, err
	}

	return store.NewLocal(
		b,
		store.NewDirAssets(pathutil.AssetsDir(), ""),
		store.NewTokens(cfg.Store.Secret, cfg.Store.TokenTTL),
		slots,
	), nil
}

func openEnv(ctx *cli.Context) (*env, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	ui.DarkTheme = cfg.Display.DarkTheme

	slots, err := state.Open(pathutil.StateFilePath())
	if errors.Is(err, state.ErrLocked) {
		return nil, store.ErrFocusRunning
	}

	if err != nil {
		return nil, err
	}

	client, err := newClient(cfg, slots)
	if err != nil {
		_ = slots.Close()
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		client: client,
		slots:  slots,
		gate:   identity.NewGate(client, client, client),
		rooms:  room.NewManager(client, slots),
	}

	e.gate.OnChange(func(id *identity.Identity) {
		if id == nil {
			e.rooms.Clear()
		}
	})

	return e, nil
}

func (e *env) Close() error {
	return errors.Join(e.client.Close(), e.slots.Close())
}

// withEnv runs fn with an open env and closes it afterwards.
func withEnv(ctx *cli.Context, fn func(e *env) error) (err error) {
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, e.Close())
	}()

	return fn(e)
}

// identity restores the stored session.
func (e *env) identity(ctx context.Context) (identity.Identity, error) {
	id, ok, err := e.gate.Restore(ctx)
	if err != nil {
		return identity.Identity{}, err
	}

	if !ok {
		return identity.Identity{}, errNotSignedIn
	}

	return id, nil
}

// activeRoom restores the active room from local state.
func (e *env) activeRoom(ctx context.Context) (room.ActiveRoom, error) {
	err := e.rooms.Restore(ctx)
	if err != nil {
		return room.ActiveRoom{}, err
	}

	r, ok := e.rooms.Active()
	if !ok {
		return room.ActiveRoom{}, errNoActiveRoom
	}

	return r, nil
}
