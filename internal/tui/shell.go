// Package tui runs the interactive command loop, either as a Bubble Tea
// terminal UI or as plain line-by-line text.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contacts/internal/command"
)

// Executor runs one line of input. Implemented by *command.Handler.
type Executor interface {
	Execute(line string) command.Reply
	Welcome() string
}

// Shell reads commands, executes them, and shows the replies until the user
// quits, input ends, or ctx is cancelled.
type Shell interface {
	Run(ctx context.Context, ex Executor) error
}

// Options configures shell creation.
type Options struct {
	Reader     io.Reader // Input source (default: os.Stdin).
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
	Prompt     string    // Text shown before each command.
}

// NewShell returns a TUI shell when the output is a TTY, or a plain text
// shell otherwise. ForcePlain overrides TTY detection.
func NewShell(opts Options) Shell {
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainShell{r: opts.Reader, w: opts.Writer, prompt: opts.Prompt}
	}

	return &TUIShell{r: opts.Reader, w: opts.Writer, prompt: opts.Prompt}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainShell prints a prompt, reads a line, and prints the reply.
type PlainShell struct {
	r      io.Reader
	w      io.Writer
	prompt string
}

// Run loops until a command asks to quit, input reaches EOF, or ctx is done.
// EOF is a clean exit; a read error or ctx error is returned.
func (s *PlainShell) Run(ctx context.Context, ex Executor) error {
	_, _ = fmt.Fprintln(s.w, ex.Welcome())

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	// Lines of any length reach the executor, which rejects them like any
	// other bad input.
	go func() {
		defer close(lines)
		br := bufio.NewReader(s.r)
		for {
			line, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				readErr <- err
				return
			}
			if line != "" {
				select {
				case lines <- strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"):
				case <-done:
					return
				}
			}
			if err != nil {
				readErr <- nil
				return
			}
		}
	}()

	for {
		_, _ = fmt.Fprint(s.w, s.prompt)
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(s.w)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(s.w)
				return <-readErr
			}
			reply := ex.Execute(line)
			if reply.Text != "" {
				_, _ = fmt.Fprintln(s.w, reply.Text)
			}
			if reply.Quit {
				return nil
			}
		}
	}
}

// TUIShell runs the command loop as a Bubble Tea program.
// Falls back to PlainShell if the TUI program fails to start.
type TUIShell struct {
	r      io.Reader
	w      io.Writer
	prompt string
}

// Run starts the Bubble Tea program and blocks until it exits.
func (s *TUIShell) Run(ctx context.Context, ex Executor) error {
	model := NewModel(ex, s.prompt)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(s.r),
		tea.WithOutput(s.w),
	)

	final, err := p.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		if m, ok := final.(Model); ok && m.started {
			return fmt.Errorf("tui: %w", err)
		}
		// Never got going; serve the session as plain text instead.
		plain := &PlainShell{r: s.r, w: s.w, prompt: s.prompt}
		return plain.Run(ctx, ex)
	}
	return nil
}
