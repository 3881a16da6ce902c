// Package report prints the outcome of commands to the terminal.
package report

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/ayoisaiah/focusroom/internal/ui"
)

func SignedIn(displayName, email string) {
	pterm.Success.Printfln("signed in as %s (%s)", ui.Highlight(displayName), email)
}

func SignedOut() {
	pterm.Info.Println("signed out")
}

func PasswordChanged() {
	pterm.Success.Println("password updated")
}

func ProfileUpdated() {
	pterm.Success.Println("profile updated")
}

func RoomSelected(name string) {
	pterm.Success.Printfln("active room: %s", ui.Green(name))
}

func RoomLeft(name string) {
	pterm.Info.Printfln("you left %s", ui.Highlight(name))
}

func InviteSent(email, room string) {
	pterm.Success.Printfln("invited %s to %s", ui.Cyan(email), ui.Green(room))
}

func InviteAccepted(room string) {
	pterm.Success.Printfln("invitation to %s accepted", ui.Highlight(room))
}

func InviteRejected(room string) {
	pterm.Info.Printfln("invitation to %s rejected", ui.Highlight(room))
}

func Empty(msg string) {
	pterm.Info.Println(msg)
}

func Error(err error) {
	pterm.Error.Println(err)
}

func Quit(err error) {
	pterm.Error.Println(err)
	os.Exit(1)
}
