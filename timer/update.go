package timer

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/davecgh/go-spew/spew"

	"github.com/ayoisaiah/focusroom/internal/interval"
	"github.com/ayoisaiah/focusroom/internal/room"
)

// rosterTimeout bounds a roster refresh.
const rosterTimeout = 10 * time.Second

// Result is the reason the UI exited.
type Result int

const (
	ResultQuit Result = iota
	ResultLeaveRoom
)

// RosterFunc fetches the members of the active room.
type RosterFunc func(ctx context.Context) ([]room.Member, error)

// Options configures the UI.
type Options struct {
	Roster    RosterFunc
	RoomName  string
	UserName  string
	DarkTheme bool
}

type (
	tickMsg   interval.State
	rosterMsg struct {
		err     error
		members []room.Member
	}
)

// Model is the bubbletea model of the active room.
type Model struct {
	runner   *Runner
	rosterFn RosterFunc
	rostErr  error
	roomName string
	userName string
	members  []room.Member
	help     help.Model
	progress progress.Model
	style    styles
	result   Result
}

// NewModel returns the UI for runner.
func NewModel(runner *Runner, opts Options) *Model {
	return &Model{
		runner:   runner,
		rosterFn: opts.Roster,
		roomName: opts.RoomName,
		userName: opts.UserName,
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		style:    newStyles(opts.DarkTheme),
	}
}

// Attach forwards runner ticks to p.
func (m *Model) Attach(p *tea.Program) {
	m.runner.SetOnUpdate(func(st interval.State) {
		p.Send(tickMsg(st))
	})
}

// Result reports why the UI exited.
func (m *Model) Result() Result {
	return m.result
}

func (m *Model) fetchRoster() tea.Cmd {
	if m.rosterFn == nil {
		return nil
	}

	fn := m.rosterFn

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), rosterTimeout)
		defer cancel()

		members, err := fn(ctx)

		return rosterMsg{members: members, err: err}
	}
}

func (m *Model) Init() tea.Cmd {
	return m.fetchRoster()
}

func (m *Model) exit(r Result) (tea.Model, tea.Cmd) {
	m.result = r
	m.runner.Close()

	return m, tea.Quit
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeymap.togglePlay):
		m.runner.Toggle()
	case key.Matches(msg, defaultKeymap.reset):
		m.runner.Reset()
	case key.Matches(msg, defaultKeymap.phase):
		m.runner.ToggleBreak()
	case key.Matches(msg, defaultKeymap.workUp):
		m.runner.AdjustWork(1)
	case key.Matches(msg, defaultKeymap.workDown):
		m.runner.AdjustWork(-1)
	case key.Matches(msg, defaultKeymap.breakUp):
		m.runner.AdjustBreak(1)
	case key.Matches(msg, defaultKeymap.breakDown):
		m.runner.AdjustBreak(-1)
	case key.Matches(msg, defaultKeymap.roster):
		return m, m.fetchRoster()
	case key.Matches(msg, defaultKeymap.leave):
		return m.exit(ResultLeaveRoom)
	case key.Matches(msg, defaultKeymap.quit):
		return m.exit(ResultQuit)
	}

	return m, nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil

	case rosterMsg:
		m.rostErr = msg.err
		if msg.err == nil {
			m.members = msg.members
		}

		return m, nil

	case tea.KeyMsg:
		slog.Debug(spew.Sdump(msg))

		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}

		return m, nil

		// FrameMsg is sent when the progress bar wants to animate itself
	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress, _ = progressModel.(progress.Model)

		return m, cmd
	}

	return m, nil
}
