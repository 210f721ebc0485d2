package command

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned in Reply.Err for input that names no command.
var ErrUnknownCommand = errors.New("command: unknown command")

// MissingArgumentError reports a command invoked with too few arguments.
type MissingArgumentError struct {
	Command string
	Usage   string // e.g. "add [name] [phone]"
	Got     int
	Want    int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("command: %s needs %d argument(s), got %d (usage: %s)", e.Command, e.Want, e.Got, e.Usage)
}
