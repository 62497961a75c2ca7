package memory

import (
	"context"
	"testing"

	"github.com/yhjeon/assemblybook/internal/book"
)

func TestLoadBeforeSave(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("fresh store reported a document")
	}
}

func TestSaveIsolation(t *testing.T) {
	s := New()
	ctx := context.Background()

	doc := book.NewDocument()
	doc.PersonalExpenses["Taxi"] = 12000
	if err := s.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's copy must not leak into the store.
	doc.PersonalExpenses["Taxi"] = 0
	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("load: %v (ok=%v)", err, ok)
	}
	if got.PersonalExpenses["Taxi"] != 12000 {
		t.Fatalf("store aliased the saved document")
	}

	// Nor must mutating a loaded copy.
	got.PersonalExpenses["Taxi"] = 1
	again, _, _ := s.Load(ctx)
	if again.PersonalExpenses["Taxi"] != 12000 {
		t.Fatalf("store aliased the loaded document")
	}
}

func TestReset(t *testing.T) {
	s := New()
	s.Seed(book.NewDocument())
	s.Reset()
	if _, ok, _ := s.Load(context.Background()); ok {
		t.Fatalf("document survived reset")
	}
}
