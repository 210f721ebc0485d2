// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds all contacts configuration.
type Config struct {
	Shell    Shell    `yaml:"shell"`
	Book     Book     `yaml:"book"`
	Messages Messages `yaml:"messages"`
	Log      Log      `yaml:"log"`
}

// Shell holds interactive loop settings.
type Shell struct {
	Prompt string `yaml:"prompt"`
	Plain  bool   `yaml:"plain"` // Force plain text even on a TTY
}

// Book holds the optional snapshot file settings.
type Book struct {
	Path     string `yaml:"path"`     // Empty keeps contacts in memory only
	Autosave bool   `yaml:"autosave"` // Save after every mutating command
}

// Messages holds reply catalog settings.
type Messages struct {
	Dir string `yaml:"dir"` // Directory with an overriding messages.yaml
}

// Log holds logger settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // Empty logs to stderr
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Shell: Shell{
			Prompt: "Enter a command: ",
		},
		Book: Book{
			Autosave: true,
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones field by field. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

var validLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that config values are usable. It reports every problem
// found, not just the first.
func (c *Config) Validate() error {
	var err error
	if c.Shell.Prompt == "" {
		err = multierr.Append(err, errors.New("config: shell.prompt cannot be empty"))
	}
	if !contains(validLevels, c.Log.Level) {
		err = multierr.Append(err, fmt.Errorf("config: log.level must be one of %s, got %q", strings.Join(validLevels, ", "), c.Log.Level))
	}
	if c.Book.Path != "" {
		if info, statErr := os.Stat(c.Book.Path); statErr == nil && info.IsDir() {
			err = multierr.Append(err, fmt.Errorf("config: book.path %q is a directory", c.Book.Path))
		}
	}
	if c.Messages.Dir != "" {
		info, statErr := os.Stat(c.Messages.Dir)
		switch {
		case statErr != nil:
			err = multierr.Append(err, fmt.Errorf("config: messages.dir: %w", statErr))
		case !info.IsDir():
			err = multierr.Append(err, fmt.Errorf("config: messages.dir %q is not a directory", c.Messages.Dir))
		}
	}
	return err
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTS_PROMPT, CONTACTS_PLAIN, CONTACTS_BOOK,
// CONTACTS_LOG_LEVEL, CONTACTS_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTS_PROMPT"); v != "" {
		c.Shell.Prompt = v
	}
	if v := os.Getenv("CONTACTS_PLAIN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTS_PLAIN %q: %w", v, err)
		}
		c.Shell.Plain = b
	}
	if v := os.Getenv("CONTACTS_BOOK"); v != "" {
		c.Book.Path = v
	}
	if v := os.Getenv("CONTACTS_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("CONTACTS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Shell    *rawShell    `yaml:"shell"`
	Book     *rawBook     `yaml:"book"`
	Messages *rawMessages `yaml:"messages"`
	Log      *rawLog      `yaml:"log"`
}

type rawShell struct {
	Prompt *string `yaml:"prompt"`
	Plain  *bool   `yaml:"plain"`
}

type rawBook struct {
	Path     *string `yaml:"path"`
	Autosave *bool   `yaml:"autosave"`
}

type rawMessages struct {
	Dir *string `yaml:"dir"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if s := layer.Shell; s != nil {
		setString(&c.Shell.Prompt, s.Prompt)
		setBool(&c.Shell.Plain, s.Plain)
	}
	if b := layer.Book; b != nil {
		setString(&c.Book.Path, b.Path)
		setBool(&c.Book.Autosave, b.Autosave)
	}
	if m := layer.Messages; m != nil {
		setString(&c.Messages.Dir, m.Dir)
	}
	if l := layer.Log; l != nil {
		setString(&c.Log.Level, l.Level)
		setString(&c.Log.File, l.File)
	}
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
