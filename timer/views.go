package timer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/ayoisaiah/focusroom/internal/interval"
)

func (m *Model) headerView() string {
	header := m.roomName
	if m.userName != "" {
		header += " · " + m.userName
	}

	return m.style.hint.Render(header)
}

func (m *Model) timerView(st interval.State, cfg interval.Config) string {
	var s strings.Builder

	clock, ratio := m.runner.Snapshot()

	if st.Phase == interval.Work {
		s.WriteString(m.style.work.Render("Work"))
	} else {
		s.WriteString(m.style.brk.Render("Break"))
	}

	if !st.Running {
		s.WriteString(m.style.secondary.Render("[Paused]"))
	}

	s.WriteString(m.style.hint.Render(
		fmt.Sprintf(" (%d completed)", st.CompletedCycles),
	))

	s.WriteString("\n\n")
	s.WriteString(m.style.main.Render(clock))
	s.WriteString("\n\n")
	s.WriteString(m.progress.ViewAs(ratio))
	s.WriteString("\n\n")
	s.WriteString(m.style.hint.Render(
		fmt.Sprintf("work %dm · break %dm", cfg.WorkMinutes(), cfg.BreakMinutes()),
	))

	return s.String()
}

func (m *Model) rosterView() string {
	if m.rostErr != nil {
		return m.style.err.Render(m.rostErr.Error())
	}

	if len(m.members) == 0 {
		return ""
	}

	names := make([]string, 0, len(m.members))
	for _, member := range m.members {
		names = append(names, member.DisplayName)
	}

	return m.style.secondary.Render("Members: ") +
		m.style.hint.Render(strings.Join(names, ", "))
}

func (m *Model) helpView() string {
	return m.help.ShortHelpView([]key.Binding{
		defaultKeymap.togglePlay,
		defaultKeymap.reset,
		defaultKeymap.phase,
		defaultKeymap.workUp,
		defaultKeymap.breakUp,
		defaultKeymap.roster,
		defaultKeymap.leave,
		defaultKeymap.quit,
	})
}

func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.headerView())
	s.WriteString("\n\n")
	s.WriteString(m.timerView(m.runner.State(), m.runner.Config()))

	if roster := m.rosterView(); roster != "" {
		s.WriteString("\n\n" + roster)
	}

	s.WriteString("\n\n" + m.helpView())

	return m.style.base.Render(s.String())
}
