package app

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/internal/ui"
	"github.com/ayoisaiah/focusroom/report"
)

const (
	dateFormat = "Jan 02, 2006 03:04 PM"

	noRoomsMsg   = "You are not a member of any room yet"
	noInvitesMsg = "No pending invitations"
)

// printJSON writes v as a single JSON line.
func printJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

// printRoomsTable prints the user's rooms, marking the active one.
func printRoomsTable(w io.Writer, rooms []room.Summary, activeID string) {
	tableBody := make([][]string, 0, len(rooms)+1)
	tableBody = append(tableBody, []string{"#", "NAME", "ID", ""})

	for i, r := range rooms {
		marker := ""
		if r.ID == activeID {
			marker = ui.Green("active")
		}

		tableBody = append(tableBody, []string{
			fmt.Sprintf("%d", i+1),
			r.Name,
			r.ID,
			marker,
		})
	}

	ui.PrintTable(tableBody, w)
}

// printMembersTable prints a room roster.
func printMembersTable(w io.Writer, members []room.Member, selfID string) {
	tableBody := make([][]string, 0, len(members)+1)
	tableBody = append(tableBody, []string{"#", "NAME", "AVATAR"})

	for i, m := range members {
		name := m.DisplayName
		if m.UserID == selfID {
			name = ui.Highlight(name + " (you)")
		}

		tableBody = append(tableBody, []string{
			fmt.Sprintf("%d", i+1),
			name,
			m.AvatarURL,
		})
	}

	ui.PrintTable(tableBody, w)
}

// printInvitesTable prints pending invitations.
func printInvitesTable(w io.Writer, invites []room.IncomingInvite) {
	tableBody := make([][]string, 0, len(invites)+1)
	tableBody = append(tableBody, []string{"#", "ID", "ROOM", "SENT"})

	for i, inv := range invites {
		name := inv.RoomName
		if name == room.UnknownRoom {
			name = ui.Red(name)
		}

		tableBody = append(tableBody, []string{
			fmt.Sprintf("%d", i+1),
			inv.ID,
			name,
			inv.CreatedAt.Local().Format(dateFormat),
		})
	}

	ui.PrintTable(tableBody, w)
}

// hasRows reports msg and returns false when there is nothing to list.
func hasRows(n int, msg string) bool {
	if n == 0 {
		report.Empty(msg)
		return false
	}

	return true
}
