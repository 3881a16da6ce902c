package app

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/apperr"
	"github.com/ayoisaiah/focusroom/report"
)

var errAvatarFile = apperr.Validation("a path to an image file is required")

// setAvatarAction uploads a profile picture.
func setAvatarAction(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		return errAvatarFile
	}

	return withEnv(ctx, func(e *env) error {
		if _, err := e.identity(ctx.Context); err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}

		defer f.Close()

		err = e.gate.UploadAvatar(ctx.Context, filepath.Base(path), f)
		if err != nil {
			return err
		}

		report.ProfileUpdated()

		return nil
	})
}

// removeAvatarAction removes the profile picture.
func removeAvatarAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		if _, err := e.identity(ctx.Context); err != nil {
			return err
		}

		err := e.gate.DeleteAvatar(ctx.Context)
		if err != nil {
			return err
		}

		report.ProfileUpdated()

		return nil
	})
}
