package command

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/smileynet/contacts/internal/contact"
)

// Reply is the outcome of executing one line.
type Reply struct {
	Text string // Text to print; empty means print nothing.
	Quit bool   // Quit ends the command loop.
	Err  error  // Err is set when the input was rejected (bad format, invalid phone, unknown command).
}

// ChangeFunc is called with the directory after every command that mutated it.
type ChangeFunc func(book *contact.Directory) error

// Handler executes command lines against a contact directory.
// It is not safe for concurrent use; the shell drives it from one goroutine.
type Handler struct {
	book     *contact.Directory
	msgs     Catalog
	log      *zap.Logger
	onChange ChangeFunc
}

// Option configures a Handler.
type Option func(*Handler)

// WithCatalog sets the reply strings.
func WithCatalog(c Catalog) Option {
	return func(h *Handler) { h.msgs = c }
}

// WithLogger sets the logger used for command tracing and save failures.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.log = l }
}

// WithChangeFunc registers fn to run after each mutating command. A failing
// fn is logged; the reply is unaffected.
func WithChangeFunc(fn ChangeFunc) Option {
	return func(h *Handler) { h.onChange = fn }
}

// NewHandler creates a Handler over book. Without WithCatalog it uses the
// embedded catalog.
func NewHandler(book *contact.Directory, opts ...Option) (*Handler, error) {
	h := &Handler{book: book, log: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	if h.msgs == (Catalog{}) {
		c, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		h.msgs = c
	}
	return h, nil
}

// Welcome returns the banner printed when a shell starts.
func (h *Handler) Welcome() string {
	return h.msgs.Welcome
}

// Execute parses and runs one line of input.
func (h *Handler) Execute(line string) Reply {
	name, args := Parse(line)
	if name == "" {
		return Reply{}
	}
	h.log.Debug("command", zap.String("name", name), zap.Int("args", len(args)))

	var (
		text    string
		changed bool
		err     error
	)
	switch name {
	case "close", "exit":
		return Reply{Text: h.msgs.Goodbye, Quit: true}
	case "hello":
		text = h.msgs.Greeting
	case "add":
		text, changed, err = h.add(args)
	case "change":
		text, changed, err = h.change(args)
	case "phone":
		text, err = h.phone(args)
	case "all":
		text = h.all()
	case "remove":
		text, changed, err = h.remove(args)
	default:
		return Reply{Text: h.msgs.InvalidCommand, Err: fmt.Errorf("%w: %q", ErrUnknownCommand, name)}
	}

	if err != nil {
		return Reply{Text: h.render(err), Err: err}
	}
	if changed {
		h.notifyChange(name)
	}
	return Reply{Text: text}
}

func (h *Handler) add(args []string) (string, bool, error) {
	if err := requireArgs("add", "add [name] [phone]", args, 2); err != nil {
		return "", false, err
	}
	rec, err := contact.NewRecord(args[0], args[1])
	if err != nil {
		return "", false, err
	}
	h.book.Add(rec)
	return fmt.Sprintf(h.msgs.ContactAdded, args[0]), true, nil
}

func (h *Handler) change(args []string) (string, bool, error) {
	if err := requireArgs("change", "change [name] [old phone] [new phone]", args, 3); err != nil {
		return "", false, err
	}
	rec, ok := h.book.Find(args[0])
	if !ok {
		return h.msgs.ContactNotFound, false, nil
	}
	edited, err := rec.EditPhone(args[1], args[2])
	if err != nil {
		return "", false, err
	}
	if !edited {
		return fmt.Sprintf(h.msgs.PhoneNotFound, args[1], args[0]), false, nil
	}
	return fmt.Sprintf(h.msgs.PhoneChanged, args[0]), true, nil
}

func (h *Handler) phone(args []string) (string, error) {
	if err := requireArgs("phone", "phone [name]", args, 1); err != nil {
		return "", err
	}
	rec, ok := h.book.Find(args[0])
	if !ok {
		return h.msgs.ContactNotFound, nil
	}
	phones := rec.Phones()
	values := make([]string, len(phones))
	for i, p := range phones {
		values[i] = p.Value()
	}
	return fmt.Sprintf(h.msgs.PhonesList, args[0], strings.Join(values, ", ")), nil
}

func (h *Handler) all() string {
	recs := h.book.All()
	if len(recs) == 0 {
		return h.msgs.NoContacts
	}
	lines := make([]string, len(recs))
	for i, rec := range recs {
		lines[i] = rec.String()
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) remove(args []string) (string, bool, error) {
	if err := requireArgs("remove", "remove [name]", args, 1); err != nil {
		return "", false, err
	}
	removed := h.book.Delete(args[0])
	return fmt.Sprintf(h.msgs.ContactRemoved, args[0]), removed, nil
}

// render turns a rejected command's error into its one-line reply.
func (h *Handler) render(err error) string {
	var missing *MissingArgumentError
	if errors.As(err, &missing) {
		return fmt.Sprintf(h.msgs.InvalidFormat, missing.Usage)
	}
	var invalid *contact.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return err.Error()
}

func (h *Handler) notifyChange(name string) {
	if h.onChange == nil {
		return
	}
	if err := h.onChange(h.book); err != nil {
		h.log.Warn("saving contacts failed", zap.String("command", name), zap.Error(err))
	}
}

func requireArgs(name, usage string, args []string, want int) error {
	if len(args) < want {
		return &MissingArgumentError{Command: name, Usage: usage, Got: len(args), Want: want}
	}
	return nil
}
