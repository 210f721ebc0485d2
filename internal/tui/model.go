package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxTranscript caps how many exchanges the model keeps.
const maxTranscript = 500

// chromeLines is the number of lines below the transcript: input and help bar.
const chromeLines = 2

// exchange is one submitted line and the reply it produced.
type exchange struct {
	Input string
	Reply string
	IsErr bool
}

// Model is the Bubble Tea model for the interactive shell.
type Model struct {
	ex         Executor
	prompt     string
	welcome    string
	input      textinput.Model
	help       help.Model
	keys       shellKeys
	transcript []exchange
	history    []string
	histIdx    int // len(history) when not browsing history.
	height     int
	started    bool
	quitting   bool
}

// NewModel creates a Model that sends submitted lines to ex.
func NewModel(ex Executor, prompt string) Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.Focus()

	return Model{
		ex:      ex,
		prompt:  prompt,
		welcome: ex.Welcome(),
		input:   ti,
		help:    help.New(),
		keys:    ShellKeyMap(),
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.started = true
		m.height = msg.Height
		m.help.Width = msg.Width
		if w := msg.Width - len(m.prompt) - 1; w > 0 {
			m.input.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		m.started = true
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Run):
			return m.submit()
		case key.Matches(msg, m.keys.Prev):
			return m.browseHistory(-1), nil
		case key.Matches(msg, m.keys.Next):
			return m.browseHistory(1), nil
		case key.Matches(msg, m.keys.Clear):
			m.transcript = nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit executes the current input line and records the exchange.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}

	m.history = append(m.history, line)
	m.histIdx = len(m.history)

	reply := m.ex.Execute(line)
	m.transcript = append(m.transcript, exchange{
		Input: line,
		Reply: reply.Text,
		IsErr: reply.Err != nil,
	})
	if over := len(m.transcript) - maxTranscript; over > 0 {
		m.transcript = append([]exchange(nil), m.transcript[over:]...)
	}

	if reply.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// browseHistory moves through previously submitted lines. Moving past the
// newest entry clears the input.
func (m Model) browseHistory(delta int) Model {
	if len(m.history) == 0 {
		return m
	}
	idx := m.histIdx + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.history) {
		m.histIdx = len(m.history)
		m.input.SetValue("")
		return m
	}
	m.histIdx = idx
	m.input.SetValue(m.history[idx])
	m.input.CursorEnd()
	return m
}

// View renders the transcript, the input line, and the help bar. Once the
// shell is quitting only the transcript remains on screen.
func (m Model) View() string {
	lines := []string{welcomeStyle.Render(m.welcome)}
	for _, e := range m.transcript {
		lines = append(lines, echoStyle.Render(m.prompt+e.Input))
		if e.Reply == "" {
			continue
		}
		style := replyStyle
		if e.IsErr {
			style = errorStyle
		}
		for _, l := range strings.Split(e.Reply, "\n") {
			lines = append(lines, style.Render(l))
		}
	}

	if m.quitting {
		return strings.Join(lines, "\n") + "\n"
	}

	if m.height > 0 {
		if room := m.height - chromeLines; room > 0 && len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	lines = append(lines, m.input.View(), m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
