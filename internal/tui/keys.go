package tui

import "github.com/charmbracelet/bubbles/key"

// shellKeys holds key bindings for the interactive shell.
type shellKeys struct {
	Run   key.Binding
	Prev  key.Binding
	Next  key.Binding
	Clear key.Binding
	Quit  key.Binding
}

// ShortHelp returns the bindings for the help bar.
func (k shellKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Prev, k.Next, k.Clear, k.Quit}
}

// FullHelp returns the bindings grouped for expanded help.
func (k shellKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Prev, k.Next},
		{k.Clear, k.Quit},
	}
}

// ShellKeyMap returns the key bindings for the shell.
func ShellKeyMap() shellKeys {
	return shellKeys{
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}
