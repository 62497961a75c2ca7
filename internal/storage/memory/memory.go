// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing
// a real backing store to be plugged in later.
package memory

import (
	"context"
	"sync"

	"github.com/yhjeon/assemblybook/internal/book"
)

// Store holds the persisted document in process memory. It is guarded by a
// mutex for concurrent use from HTTP handlers.
type Store struct {
	mu     sync.RWMutex
	doc    book.Document
	loaded bool
}

// New constructs an empty in-memory store.
func New() *Store { return &Store{} }

// Seed installs a document as the persisted state, for tests.
func (s *Store) Seed(doc book.Document) {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.loaded = true
	s.mu.Unlock()
}

// Reset drops the persisted state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.doc = book.Document{}
	s.loaded = false
	s.mu.Unlock()
}

// Load returns the persisted document, reporting whether one exists.
func (s *Store) Load(_ context.Context) (book.Document, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return book.Document{}, false, nil
	}
	return s.doc.Clone(), true, nil
}

// Save overwrites the persisted document.
func (s *Store) Save(_ context.Context, doc book.Document) error {
	s.mu.Lock()
	s.doc = doc.Clone()
	s.loaded = true
	s.mu.Unlock()
	return nil
}
