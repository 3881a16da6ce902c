package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePlay key.Binding
	reset      key.Binding
	phase      key.Binding
	workUp     key.Binding
	workDown   key.Binding
	breakUp    key.Binding
	breakDown  key.Binding
	roster     key.Binding
	leave      key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys(" ", "space"),
		key.WithHelp("space", "start/pause"),
	),
	reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	phase: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "work/break"),
	),
	workUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+/-", "work length"),
	),
	workDown: key.NewBinding(
		key.WithKeys("-"),
	),
	breakUp: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("[/]", "break length"),
	),
	breakDown: key.NewBinding(
		key.WithKeys("["),
	),
	roster: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "refresh members"),
	),
	leave: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "leave room"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
