// Package command turns one line of user input into an operation on the
// contact directory and the reply text to show for it.
package command

import "strings"

// Parse splits line on whitespace into a lower-cased command name and its
// arguments. A blank line yields an empty name.
func Parse(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
