package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contacts/internal/command"
	"github.com/smileynet/contacts/internal/contact"
)

// newHandler returns a command handler over an empty directory.
func newHandler(t *testing.T) *command.Handler {
	t.Helper()
	h, err := command.NewHandler(contact.NewDirectory())
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

// recorder is an Executor that records lines and replies from a script.
type recorder struct {
	lines   []string
	replies map[string]command.Reply
}

func (r *recorder) Execute(line string) command.Reply {
	r.lines = append(r.lines, line)
	return r.replies[line]
}

func (r *recorder) Welcome() string { return "hi" }

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// typeLine sets the input to line and presses enter.
func typeLine(m Model, line string) (Model, tea.Cmd) {
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

// isQuit reports whether cmd produces tea.QuitMsg.
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}
