package timer

import "github.com/charmbracelet/lipgloss"

const (
	padding  = 2
	maxWidth = 80

	workColor  = "#B0DB43"
	breakColor = "#12EAEA"
)

type styles struct {
	base      lipgloss.Style
	main      lipgloss.Style
	secondary lipgloss.Style
	hint      lipgloss.Style
	work      lipgloss.Style
	brk       lipgloss.Style
	err       lipgloss.Style
}

func newStyles(darkTheme bool) styles {
	text := lipgloss.Color("#1F1F1F")
	muted := lipgloss.Color("#6C6C6C")

	if darkTheme {
		text = lipgloss.Color("#F5F5F5")
		muted = lipgloss.Color("#9A9A9A")
	}

	label := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginRight(1).
		Foreground(lipgloss.Color("#1F1F1F"))

	return styles{
		base:      lipgloss.NewStyle().Padding(1, padding),
		main:      lipgloss.NewStyle().Bold(true).Foreground(text),
		secondary: lipgloss.NewStyle().Foreground(text),
		hint:      lipgloss.NewStyle().Foreground(muted),
		work:      label.Background(lipgloss.Color(workColor)),
		brk:       label.Background(lipgloss.Color(breakColor)),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
}
