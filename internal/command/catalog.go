package command

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/contacts"
)

// catalogFile is the catalog's file name inside a messages filesystem.
const catalogFile = "messages.yaml"

// Catalog holds the reply strings. Fields taking arguments are fmt templates
// whose verbs all format text (%s, %q, %v).
type Catalog struct {
	Welcome         string `yaml:"welcome"`
	Greeting        string `yaml:"greeting"`
	Goodbye         string `yaml:"goodbye"`
	InvalidCommand  string `yaml:"invalid_command"`
	InvalidFormat   string `yaml:"invalid_format"` // usage
	ContactAdded    string `yaml:"contact_added"`  // name
	ContactNotFound string `yaml:"contact_not_found"`
	ContactRemoved  string `yaml:"contact_removed"` // name
	PhoneChanged    string `yaml:"phone_changed"`   // name
	PhoneNotFound   string `yaml:"phone_not_found"` // old phone, name
	PhonesList      string `yaml:"phones_list"`     // name, joined phones
	NoContacts      string `yaml:"no_contacts"`
}

// Validate checks that every template takes exactly the arguments the
// handler passes it. It reports every bad key, not just the first.
func (c Catalog) Validate() error {
	templates := []struct {
		key  string
		tmpl string
		args int
	}{
		{"welcome", c.Welcome, 0},
		{"greeting", c.Greeting, 0},
		{"goodbye", c.Goodbye, 0},
		{"invalid_command", c.InvalidCommand, 0},
		{"invalid_format", c.InvalidFormat, 1},
		{"contact_added", c.ContactAdded, 1},
		{"contact_not_found", c.ContactNotFound, 0},
		{"contact_removed", c.ContactRemoved, 1},
		{"phone_changed", c.PhoneChanged, 1},
		{"phone_not_found", c.PhoneNotFound, 2},
		{"phones_list", c.PhonesList, 2},
		{"no_contacts", c.NoContacts, 0},
	}

	var err error
	for _, t := range templates {
		n, verr := countTextVerbs(t.tmpl)
		switch {
		case verr != nil:
			err = multierr.Append(err, fmt.Errorf("%s: %w", t.key, verr))
		case n != t.args:
			err = multierr.Append(err, fmt.Errorf("%s: template %q has %d verbs, want %d", t.key, t.tmpl, n, t.args))
		}
	}
	return err
}

// countTextVerbs returns the number of fmt verbs in tmpl. Verbs must be one of
// %s, %q or %v with optional flags, width and precision; %% is a literal.
func countTextVerbs(tmpl string) (int, error) {
	n := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		i++
		if i < len(tmpl) && tmpl[i] == '%' {
			continue
		}
		for i < len(tmpl) && strings.IndexByte("+-# 0123456789.", tmpl[i]) >= 0 {
			i++
		}
		if i >= len(tmpl) {
			return 0, fmt.Errorf("template %q ends inside a verb", tmpl)
		}
		if strings.IndexByte("sqv", tmpl[i]) < 0 {
			return 0, fmt.Errorf("template %q: verb %%%c does not format text", tmpl, tmpl[i])
		}
		n++
	}
	return n, nil
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() (Catalog, error) {
	var c Catalog
	if err := decodeCatalog(contacts.Messages, &c); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

// LoadCatalog loads the embedded catalog and then layers messages.yaml from
// fsys on top of it. Keys absent from fsys keep their embedded values.
func LoadCatalog(fsys fs.FS) (Catalog, error) {
	c, err := DefaultCatalog()
	if err != nil {
		return Catalog{}, err
	}
	if fsys == nil {
		return c, nil
	}
	if err := decodeCatalog(fsys, &c); err != nil {
		return Catalog{}, err
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, fmt.Errorf("command: checking %s: %w", catalogFile, err)
	}
	return c, nil
}

// decodeCatalog decodes messages.yaml from fsys into c, rejecting unknown keys.
// An empty or comment-only file leaves c untouched.
func decodeCatalog(fsys fs.FS, c *Catalog) error {
	data, err := fs.ReadFile(fsys, catalogFile)
	if err != nil {
		return fmt.Errorf("command: reading %s: %w", catalogFile, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("command: parsing %s: %w", catalogFile, err)
	}
	return nil
}
