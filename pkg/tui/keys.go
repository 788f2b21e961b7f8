package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// loginKeyMap defines the login screen bindings
type loginKeyMap struct {
	NextField key.Binding
	Connect   key.Binding
	Quit      key.Binding
}

func newLoginKeyMap() loginKeyMap {
	return loginKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "next field"),
		),
		Connect: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "connect"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Connect, k.Quit}
}

func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// browserKeyMap defines the file browser bindings
type browserKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchPane key.Binding
	Select     key.Binding
	Expand     key.Binding
	Collapse   key.Binding
	Preview    key.Binding
	Clear      key.Binding
	Transfer   key.Binding
	Quit       key.Binding
}

func newBrowserKeyMap() browserKeyMap {
	return browserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "select"),
		),
		Expand: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		Collapse: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse"),
		),
		Preview: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transfer command"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear selection"),
		),
		Transfer: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "transfer now"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchPane, k.Select, k.Expand, k.Collapse, k.Preview, k.Clear, k.Transfer, k.Quit}
}

func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.SwitchPane},
		{k.Select, k.Expand, k.Collapse},
		{k.Preview, k.Clear, k.Transfer, k.Quit},
	}
}

// previewKeyMap defines the command preview bindings
type previewKeyMap struct {
	Copy            key.Binding
	SwitchDirection key.Binding
	SwitchTool      key.Binding
	Back            key.Binding
	Exit            key.Binding
}

func newPreviewKeyMap() previewKeyMap {
	return previewKeyMap{
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy"),
		),
		SwitchDirection: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "switch direction"),
		),
		SwitchTool: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "switch tool"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Exit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("ctrl+q", "exit"),
		),
	}
}

func (k previewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Copy, k.SwitchDirection, k.SwitchTool, k.Back, k.Exit}
}

func (k previewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
