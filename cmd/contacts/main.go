package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/smileynet/contacts"
	"github.com/smileynet/contacts/internal/command"
	"github.com/smileynet/contacts/internal/config"
	"github.com/smileynet/contacts/internal/contact"
	"github.com/smileynet/contacts/internal/logging"
	"github.com/smileynet/contacts/internal/state"
	"github.com/smileynet/contacts/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file layered over the user and project configs." type:"path" placeholder:"FILE"`
	Book   string `help:"Snapshot file to load contacts from and save them to (default: memory only)." type:"path" placeholder:"FILE"`
}

// CLI is the top-level command structure for contacts.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"withargs" help:"Start the interactive contact book."`
	Exec    ExecCmd          `cmd:"" help:"Run a single command and print its reply."`
}

// ShellCmd runs the interactive command loop.
type ShellCmd struct {
	NoTUI bool `help:"Force plain text output even if stdout is a TTY." default:"false"`
}

// ExecCmd runs one command non-interactively.
type ExecCmd struct {
	Line []string `arg:"" passthrough:"" help:"Command and its arguments, e.g. add John 1234567890."`
}

// app holds everything a command needs once configuration is resolved.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	closeLog func() error
	book     *contact.Directory
	store    *state.FileStore // nil when contacts live in memory only
	handler  *command.Handler
}

// loadConfig loads layered config from user, project, and --config paths
// with env and flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/contacts/config.yaml"),
		".contacts/config.yaml",
	}
	if g.Config != "" {
		if _, err := os.Stat(g.Config); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		paths = append(paths, g.Config)
	}

	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if g.Book != "" {
		cfg.Book.Path = g.Book
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires config, logging, the message catalog, and the contact book.
func newApp(cfg *config.Config) (*app, error) {
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log, closeLog: closeLog}

	catalog, err := loadCatalog(cfg.Messages)
	if err != nil {
		return nil, multierr.Append(err, a.closeLog())
	}

	a.book = contact.NewDirectory()
	if cfg.Book.Path != "" {
		a.store = state.NewFileStore(cfg.Book.Path)
		book, found, err := a.store.Load()
		if err != nil {
			return nil, multierr.Append(err, a.closeLog())
		}
		a.book = book
		log.Info("contact book opened",
			zap.String("path", a.store.Path()),
			zap.Bool("existing", found),
			zap.Int("contacts", book.Len()))
	}

	opts := []command.Option{
		command.WithCatalog(catalog),
		command.WithLogger(log),
	}
	if a.store != nil && cfg.Book.Autosave {
		opts = append(opts, command.WithChangeFunc(a.store.Save))
	}
	a.handler, err = command.NewHandler(a.book, opts...)
	if err != nil {
		return nil, multierr.Append(err, a.closeLog())
	}
	return a, nil
}

func loadCatalog(cfg config.Messages) (command.Catalog, error) {
	if cfg.Dir == "" {
		return command.DefaultCatalog()
	}
	return command.LoadCatalog(contacts.OverlayFS(cfg.Dir, contacts.Messages))
}

// close saves the book when autosave is off and releases the logger.
func (a *app) close() error {
	var err error
	if a.store != nil && !a.cfg.Book.Autosave {
		if serr := a.store.Save(a.book); serr != nil {
			err = multierr.Append(err, fmt.Errorf("saving contacts: %w", serr))
		}
	}
	return multierr.Append(err, a.closeLog())
}

// Run executes the shell command.
func (s *ShellCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sh := tui.NewShell(tui.Options{
		ForcePlain: s.NoTUI || cfg.Shell.Plain,
		Prompt:     cfg.Shell.Prompt,
	})
	return s.run(ctx, sh, a)
}

// run drives the shell and closes the app, enabling testable wiring.
func (s *ShellCmd) run(ctx context.Context, sh tui.Shell, a *app) error {
	err := sh.Run(ctx, a.handler)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err := multierr.Append(err, a.close()); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	return nil
}

// Run executes the exec command.
func (e *ExecCmd) Run(g *Globals) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return e.run(os.Stdout, a)
}

// run executes the line, prints the reply to w, and closes the app.
func (e *ExecCmd) run(w io.Writer, a *app) error {
	reply := a.handler.Execute(strings.Join(e.Line, " "))
	if reply.Text != "" {
		_, _ = fmt.Fprintln(w, reply.Text)
	}

	if err := a.close(); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	if reply.Err != nil {
		return &rejectedError{err: reply.Err}
	}
	return nil
}

// rejectedError marks a command the handler refused. Its reply has already
// been printed, so main only sets the exit code.
type rejectedError struct {
	err error
}

func (e *rejectedError) Error() string { return e.err.Error() }

func (e *rejectedError) Unwrap() error { return e.err }

// Exit codes.
const (
	exitSuccess  = 0
	exitRejected = 1
	exitSetup    = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var re *rejectedError
	if errors.As(err, &re) {
		return exitRejected
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contacts"),
		kong.Description("A console contact book."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		var re *rejectedError
		if !errors.As(err, &re) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
