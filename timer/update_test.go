package timer

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/focusroom/internal/interval"
	"github.com/ayoisaiah/focusroom/internal/room"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, roster RosterFunc) (*Model, *Runner) {
	t.Helper()

	r, _, _ := newTestRunner(t)

	m := NewModel(r, Options{
		Roster:   roster,
		RoomName: "Study",
		UserName: "ada",
	})

	return m, r
}

func TestModelKeys(t *testing.T) {
	m, r := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, r.State().Running)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, r.State().Running)

	m.Update(runes("b"))
	assert.Equal(t, interval.Break, r.State().Phase)

	m.Update(runes("r"))
	assert.Equal(t, interval.Work, r.State().Phase)

	m.Update(runes("+"))
	assert.Equal(t, 2, r.Config().WorkMinutes())

	m.Update(runes("-"))
	m.Update(runes("-"))
	assert.Equal(t, 1, r.Config().WorkMinutes())

	m.Update(runes("]"))
	assert.Equal(t, 2, r.Config().BreakMinutes())
}

func TestModelQuitClosesRunner(t *testing.T) {
	m, r := newTestModel(t, nil)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, r.Ticking())

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, ResultQuit, m.Result())
	assert.False(t, r.Ticking())

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, r.State().Running)
}

func TestModelLeaveRoom(t *testing.T) {
	m, _ := newTestModel(t, nil)

	_, cmd := m.Update(runes("L"))
	require.NotNil(t, cmd)
	assert.Equal(t, ResultLeaveRoom, m.Result())
}

func TestModelRoster(t *testing.T) {
	roster := func(context.Context) ([]room.Member, error) {
		return []room.Member{
			{UserID: "u1", DisplayName: "ada"},
			{UserID: "u2", DisplayName: room.UnknownUser},
		}, nil
	}

	m, _ := newTestModel(t, roster)

	cmd := m.Init()
	require.NotNil(t, cmd)

	m.Update(cmd())

	view := m.View()
	assert.True(t, strings.Contains(view, "Study"))
	assert.True(t, strings.Contains(view, "ada, Unknown user"))
	assert.True(t, strings.Contains(view, "01:00"))

	m.Update(rosterMsg{err: errors.New("store offline")})
	assert.True(t, strings.Contains(m.View(), "store offline"))
}
