// Package file persists the document as pretty-printed JSON in a single
// local file, the service's equivalent of the browser's local storage slot.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yhjeon/assemblybook/internal/book"
)

// DefaultPath is the fixed on-disk location derived from the storage key.
var DefaultPath = book.StorageKey + ".json"

// Store reads and writes the whole document at one path.
type Store struct {
	path string
}

// New constructs a file store. An empty path falls back to DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file location.
func (s *Store) Path() string { return s.path }

// Load reads the document. A missing file is not an error: ok is false and
// the caller starts from the default document.
func (s *Store) Load(_ context.Context) (book.Document, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return book.Document{}, false, nil
		}
		return book.Document{}, false, err
	}
	var doc book.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return book.Document{}, false, err
	}
	doc.Normalize()
	return doc, true, nil
}

// Save writes the document atomically: marshal, write a temp file alongside,
// rename over the target.
func (s *Store) Save(_ context.Context, doc book.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
