package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/store"
)

// newRoomOption is the picker value that stands for "create a room".
const newRoomOption = ""

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}

		return nil
	}
}

func validatePassword(s string) error {
	if len(strings.TrimSpace(s)) < store.MinPasswordLength {
		return store.ErrWeakPassword
	}

	return nil
}

// promptCredentials asks for an email and a password.
func promptCredentials(title string) (email, password string, err error) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&email).
				Validate(validateRequired("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(validatePassword),
		).Title(title),
	)

	err = form.Run()

	return email, password, err
}

// promptNewPassword asks for a new password twice.
func promptNewPassword() (string, error) {
	var password, confirm string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&confirm).
				Validate(func(s string) error {
					if s != password {
						return fmt.Errorf("passwords do not match")
					}

					return nil
				}),
		),
	)

	err := form.Run()

	return password, err
}

// promptRoomName asks for the name of a new room.
func promptRoomName() (string, error) {
	var name string

	err := huh.NewInput().
		Title("Room name").
		Value(&name).
		Validate(validateRequired("room name")).
		Run()

	return name, err
}

// pickRoom lets the user choose one of rooms or ask for a new one. ok is
// false when a new room should be created.
func pickRoom(rooms []room.Summary) (picked room.Summary, ok bool, err error) {
	options := make([]huh.Option[string], 0, len(rooms)+1)
	for _, r := range rooms {
		options = append(options, huh.NewOption(r.Name, r.ID))
	}

	options = append(options, huh.NewOption("+ Create a new room", newRoomOption))

	var id string

	err = huh.NewSelect[string]().
		Title("Choose a room").
		Options(options...).
		Value(&id).
		Run()
	if err != nil || id == newRoomOption {
		return room.Summary{}, false, err
	}

	for _, r := range rooms {
		if r.ID == id {
			return r, true, nil
		}
	}

	return room.Summary{}, false, nil
}

// pickInvite lets the user choose one of invites.
func pickInvite(invites []room.IncomingInvite) (room.IncomingInvite, error) {
	options := make([]huh.Option[int], 0, len(invites))
	for i, inv := range invites {
		label := fmt.Sprintf(
			"%s (%s)",
			inv.RoomName,
			inv.CreatedAt.Local().Format(dateFormat),
		)
		options = append(options, huh.NewOption(label, i))
	}

	var i int

	err := huh.NewSelect[int]().
		Title("Choose an invitation").
		Options(options...).
		Value(&i).
		Run()
	if err != nil {
		return room.IncomingInvite{}, err
	}

	return invites[i], nil
}

// confirm asks a yes/no question.
func confirm(title string) (bool, error) {
	var ok bool

	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()

	return ok, err
}
