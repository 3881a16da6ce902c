package app

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/room"
	"github.com/ayoisaiah/focusroom/store"
)

func invite(id string, created time.Time) room.IncomingInvite {
	return room.IncomingInvite{
		RoomName: "Study",
		Invitation: store.Invitation{
			ID:        id,
			CreatedAt: created,
			Status:    store.StatusPending,
		},
	}
}

func TestFilterSince(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	invites := []room.IncomingInvite{
		invite("old", now.Add(-72*time.Hour)),
		invite("edge", now.Add(-48*time.Hour)),
		invite("new", now.Add(-time.Hour)),
	}

	testCases := []struct {
		name  string
		since time.Time
		want  []string
	}{
		{name: "zero keeps all", want: []string{"old", "edge", "new"}},
		{name: "inclusive bound", since: now.Add(-48 * time.Hour), want: []string{"edge", "new"}},
		{name: "future drops all", since: now.Add(time.Hour), want: []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := filterSince(invites, tc.since)

			ids := make([]string, 0, len(got))
			for _, inv := range got {
				ids = append(ids, inv.ID)
			}

			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestFindRoom(t *testing.T) {
	rooms := []room.Summary{
		{ID: "r1", Name: "Study"},
		{ID: "r2", Name: "Writing"},
	}

	r, ok := findRoom(rooms, "writing")
	require.True(t, ok)
	assert.Equal(t, "r2", r.ID)

	r, ok = findRoom(rooms, "r1")
	require.True(t, ok)
	assert.Equal(t, "Study", r.Name)

	_, ok = findRoom(rooms, "Gym")
	assert.False(t, ok)
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, validatePassword("  abc  "), store.ErrWeakPassword)
	assert.NoError(t, validatePassword("abcdef"))
}

func TestFirstNonEmptyString(t *testing.T) {
	assert.Equal(t, "vim", firstNonEmptyString("", "vim", "nano"))
	assert.Empty(t, firstNonEmptyString("", ""))
}

func TestPrintRoomsTable(t *testing.T) {
	disableStyling()

	var buf bytes.Buffer

	printRoomsTable(&buf, []room.Summary{
		{ID: "r1", Name: "Study"},
		{ID: "r2", Name: "Writing"},
	}, "r2")

	out := buf.String()
	assert.Contains(t, out, "Study")
	assert.Contains(t, out, "Writing")
	assert.Equal(t, 1, strings.Count(out, "active"))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer

	err := printJSON(&buf, []room.Member{{UserID: "u1", DisplayName: "ada"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"user_id":"u1","display_name":"ada"}]`, buf.String())
}

func TestCommands(t *testing.T) {
	a := Get()

	names := make([]string, 0, len(a.Commands))
	for _, c := range a.Commands {
		names = append(names, c.Name)
	}

	assert.Subset(t, names, []string{
		"start", "login", "register", "logout", "passwd", "status",
		"profile", "rooms", "invites", "config",
	})
}
