// Package state persists a contact directory snapshot to the filesystem.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/smileynet/contacts/internal/contact"
)

// ErrEmptyPath indicates a FileStore was asked to work without a file path.
var ErrEmptyPath = errors.New("state: empty snapshot path")

// Snapshot is the on-disk form of a directory.
type Snapshot struct {
	Contacts []SnapshotRecord `json:"contacts"`
}

// SnapshotRecord is one contact in a Snapshot.
type SnapshotRecord struct {
	Name   string   `json:"name"`
	Phones []string `json:"phones"`
}

// FileStore saves and loads a directory as a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes book to the snapshot file, replacing it atomically.
func (s *FileStore) Save(book *contact.Directory) (err error) {
	if s.path == "" {
		return ErrEmptyPath
	}

	data, err := json.MarshalIndent(snapshotOf(book), "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshaling: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	_, werr := tmp.Write(data)
	if err := multierr.Combine(werr, tmp.Close()); err != nil {
		return fmt.Errorf("state: writing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("state: replacing %s: %w", s.path, err)
	}
	return nil
}

// Load reads the snapshot file into a new directory.
// Returns (book, true, nil) if found, (empty book, false, nil) if the file does not exist.
func (s *FileStore) Load() (*contact.Directory, bool, error) {
	if s.path == "" {
		return nil, false, ErrEmptyPath
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return contact.NewDirectory(), false, nil
		}
		return nil, false, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}

	book, err := snap.Directory()
	if err != nil {
		return nil, false, fmt.Errorf("state: loading %s: %w", s.path, err)
	}
	return book, true, nil
}

// Directory rebuilds a directory from the snapshot, validating every phone.
func (snap Snapshot) Directory() (*contact.Directory, error) {
	book := contact.NewDirectory()
	for _, sr := range snap.Contacts {
		if sr.Name == "" {
			return nil, errors.New("contact with empty name")
		}
		rec, err := contact.NewRecord(sr.Name, sr.Phones...)
		if err != nil {
			return nil, fmt.Errorf("contact %q: %w", sr.Name, err)
		}
		book.Add(rec)
	}
	return book, nil
}

func snapshotOf(book *contact.Directory) Snapshot {
	recs := book.All()
	snap := Snapshot{Contacts: make([]SnapshotRecord, len(recs))}
	for i, rec := range recs {
		phones := rec.Phones()
		values := make([]string, len(phones))
		for j, p := range phones {
			values[j] = p.Value()
		}
		snap.Contacts[i] = SnapshotRecord{Name: rec.Name(), Phones: values}
	}
	return snap
}
