package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"github.com/smileynet/contacts/internal/command"
)

const testPrompt = "Enter a command: "

func TestNewModel(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)

	if m.welcome != "Welcome to the assistant bot!" {
		t.Errorf("welcome = %q", m.welcome)
	}
	if m.input.Prompt != testPrompt {
		t.Errorf("input prompt = %q, want %q", m.input.Prompt, testPrompt)
	}
	if !m.input.Focused() {
		t.Error("input should be focused")
	}
	if len(m.transcript) != 0 || m.quitting {
		t.Error("new model should have an empty transcript and not be quitting")
	}
}

func TestModel_Init_ReturnsBlinkCmd(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	if m.Init() == nil {
		t.Fatal("Init() should return a non-nil Cmd for the cursor blink")
	}
}

func TestModel_SubmitRecordsExchange(t *testing.T) {
	// Given: a fresh model
	m := NewModel(newHandler(t), testPrompt)

	// When: a command is submitted
	m, cmd := typeLine(m, "add John 1234567890")

	// Then: the reply is recorded and the input is cleared
	if cmd != nil {
		t.Errorf("submit returned a command, want nil")
	}
	if len(m.transcript) != 1 {
		t.Fatalf("transcript len = %d, want 1", len(m.transcript))
	}
	got := m.transcript[0]
	if got.Input != "add John 1234567890" || got.Reply != "Contact John added." || got.IsErr {
		t.Errorf("exchange = %+v", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}
}

func TestModel_SubmitMarksErrors(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)

	m, _ = typeLine(m, "add John")

	if !m.transcript[0].IsErr {
		t.Error("invalid format reply should be marked as error")
	}
	if m.transcript[0].Reply != "Invalid format. Use: add [name] [phone]" {
		t.Errorf("reply = %q", m.transcript[0].Reply)
	}
}

func TestModel_SubmitBlankIsIgnored(t *testing.T) {
	rec := &recorder{}
	m := NewModel(rec, testPrompt)

	m, _ = typeLine(m, "   ")

	if len(rec.lines) != 0 {
		t.Errorf("executor called with %q, want no calls", rec.lines)
	}
	if len(m.transcript) != 0 || len(m.history) != 0 {
		t.Error("blank input should not be recorded")
	}
}

func TestModel_QuitCommand(t *testing.T) {
	for _, line := range []string{"exit", "close"} {
		t.Run(line, func(t *testing.T) {
			m := NewModel(newHandler(t), testPrompt)

			m, cmd := typeLine(m, line)

			if !isQuit(cmd) {
				t.Fatal("exit command should return tea.Quit")
			}
			if !m.quitting {
				t.Error("quitting = false, want true")
			}
			if m.transcript[0].Reply != "Good bye!" {
				t.Errorf("reply = %q, want %q", m.transcript[0].Reply, "Good bye!")
			}
		})
	}
}

func TestModel_QuitKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{name: "esc", msg: tea.KeyMsg{Type: tea.KeyEsc}},
		{name: "ctrl+c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel(newHandler(t), testPrompt)
			updated, cmd := m.Update(tt.msg)
			if !isQuit(cmd) {
				t.Fatalf("%s should quit", tt.name)
			}
			if !updated.(Model).quitting {
				t.Error("quitting = false, want true")
			}
		})
	}
}

func TestModel_ClearKey(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	m, _ = typeLine(m, "hello")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	if len(m.transcript) != 0 {
		t.Errorf("transcript len = %d, want 0 after clear", len(m.transcript))
	}
	if len(m.history) != 1 {
		t.Errorf("history len = %d, want 1 (clear keeps history)", len(m.history))
	}
}

func TestModel_History(t *testing.T) {
	// Given: two submitted commands
	m := NewModel(newHandler(t), testPrompt)
	m, _ = typeLine(m, "hello")
	m, _ = typeLine(m, "all")

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}
	steps := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{up, "all"},
		{up, "hello"},
		{up, "hello"}, // stays at the oldest entry
		{down, "all"},
		{down, ""}, // past the newest entry clears the input
		{down, ""},
	}
	for i, step := range steps {
		updated, _ := m.Update(step.msg)
		m = updated.(Model)
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestModel_HistoryEmpty(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := updated.(Model).input.Value(); got != "" {
		t.Errorf("input = %q, want empty", got)
	}
}

func TestModel_TranscriptIsCapped(t *testing.T) {
	rec := &recorder{}
	m := NewModel(rec, testPrompt)
	for i := 0; i < maxTranscript+10; i++ {
		m, _ = typeLine(m, "hello")
	}
	if len(m.transcript) != maxTranscript {
		t.Errorf("transcript len = %d, want %d", len(m.transcript), maxTranscript)
	}
}

func TestModel_TypingUpdatesInput(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("all")})

	if got := updated.(Model).input.Value(); got != "all" {
		t.Errorf("input = %q, want %q", got, "all")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	if m.height != 24 {
		t.Errorf("height = %d, want 24", m.height)
	}
	if m.help.Width != 80 {
		t.Errorf("help width = %d, want 80", m.help.Width)
	}
	if !m.started {
		t.Error("started = false after first WindowSizeMsg")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	m, _ = typeLine(m, "add John 1234567890")
	m, _ = typeLine(m, "add Jane 5555555555")
	m, _ = typeLine(m, "all")

	view := m.View()

	for _, want := range []string{
		"Welcome to the assistant bot!",
		testPrompt + "add John 1234567890",
		"Contact John added.",
		"Contact name: John, phones: 1234567890",
		"Contact name: Jane, phones: 5555555555",
		"quit",
	} {
		if !containsPlainText(view, want) {
			t.Errorf("View() missing %q:\n%s", want, stripANSI(view))
		}
	}
}

func TestModel_ViewTrimsToHeight(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	m = updated.(Model)
	for i := 0; i < 10; i++ {
		m, _ = typeLine(m, "hello")
	}

	view := stripANSI(m.View())

	if got := strings.Count(view, "\n") + 1; got > 6 {
		t.Errorf("View() has %d lines, want at most 6:\n%s", got, view)
	}
	if strings.Contains(view, "Welcome") {
		t.Error("oldest lines should scroll off")
	}
}

func TestModel_ViewWhenQuittingDropsChrome(t *testing.T) {
	m := NewModel(newHandler(t), testPrompt)
	m, _ = typeLine(m, "exit")

	view := stripANSI(m.View())

	if !strings.Contains(view, "Good bye!") {
		t.Errorf("final view should keep the transcript:\n%s", view)
	}
	if strings.Contains(view, "quit") {
		t.Errorf("final view should drop the help bar:\n%s", view)
	}
}

// TestModel_Teatest_Session drives a full session through a Bubble Tea program.
func TestModel_Teatest_Session(t *testing.T) {
	h := newHandler(t)
	tm := teatest.NewTestModel(t, NewModel(h, testPrompt), teatest.WithInitialTermSize(80, 24))

	for _, line := range []string{
		"add John 1234567890",
		"change John 1234567890 1112223333",
		"phone John",
		"phone Jane",
		"exit",
	} {
		tm.Type(line)
		tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	}

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	wantReplies := []string{
		"Contact John added.",
		"Phone for John changed.",
		"Phones for John: 1112223333",
		"Contact not found.",
		"Good bye!",
	}
	if len(final.transcript) != len(wantReplies) {
		t.Fatalf("transcript len = %d, want %d", len(final.transcript), len(wantReplies))
	}
	for i, want := range wantReplies {
		if got := final.transcript[i].Reply; got != want {
			t.Errorf("reply %d = %q, want %q", i, got, want)
		}
	}
}

func TestModel_Teatest_EscQuits(t *testing.T) {
	rec := &recorder{replies: map[string]command.Reply{}}
	tm := teatest.NewTestModel(t, NewModel(rec, testPrompt), teatest.WithInitialTermSize(80, 24))

	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if !tm.FinalModel(t).(Model).quitting {
		t.Error("final model should be quitting")
	}
	if len(rec.lines) != 0 {
		t.Errorf("executor called with %q, want no calls", rec.lines)
	}
}
