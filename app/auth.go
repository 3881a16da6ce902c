package app

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ayoisaiah/focusroom/internal/identity"
	"github.com/ayoisaiah/focusroom/report"
)

// signIn prompts for credentials and signs in, or signs up when register
// is set.
func signIn(ctx *cli.Context, e *env, register bool) (identity.Identity, error) {
	title := "Sign in to focusroom"
	if register {
		title = "Create a focusroom account"
	}

	email, password, err := promptCredentials(title)
	if err != nil {
		return identity.Identity{}, err
	}

	if register {
		return e.gate.SignUp(ctx.Context, email, password)
	}

	return e.gate.SignIn(ctx.Context, email, password)
}

func authAction(ctx *cli.Context, register bool) error {
	return withEnv(ctx, func(e *env) error {
		id, err := signIn(ctx, e, register)
		if err != nil {
			return err
		}

		report.SignedIn(id.DisplayName, id.Email)

		return nil
	})
}

// loginAction handles the login command.
func loginAction(ctx *cli.Context) error {
	return authAction(ctx, false)
}

// registerAction handles the register command.
func registerAction(ctx *cli.Context) error {
	return authAction(ctx, true)
}

// logoutAction ends the session. The active room is kept for the next
// sign in.
func logoutAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		err := e.gate.SignOut(ctx.Context)
		if err != nil {
			return err
		}

		report.SignedOut()

		return nil
	})
}

// passwdAction changes the password of the signed in user.
func passwdAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		if _, err := e.identity(ctx.Context); err != nil {
			return err
		}

		password, err := promptNewPassword()
		if err != nil {
			return err
		}

		err = e.gate.ChangePassword(ctx.Context, password)
		if err != nil {
			return err
		}

		report.PasswordChanged()

		return nil
	})
}

// renameAction changes the display name.
func renameAction(ctx *cli.Context) error {
	return withEnv(ctx, func(e *env) error {
		if _, err := e.identity(ctx.Context); err != nil {
			return err
		}

		err := e.gate.Rename(ctx.Context, strings.Join(ctx.Args().Slice(), " "))
		if err != nil {
			return err
		}

		report.ProfileUpdated()

		return nil
	})
}
