package id

import (
	"strings"
	"testing"
)

func TestNewIDIsUnique(t *testing.T) {
	gen := NewRandomGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := gen.NewID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(id) != 32 {
			t.Fatalf("expected 32 hex chars, got %d", len(id))
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = struct{}{}
	}
}

func TestNewCodeUsesSafeAlphabet(t *testing.T) {
	gen := NewRandomGenerator()

	code, err := gen.NewCode(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("expected 8 chars, got %d", len(code))
	}
	for _, c := range code {
		if !strings.ContainsRune(codeAlphabet, c) {
			t.Fatalf("character %q outside code alphabet", c)
		}
	}
}

func TestNewCodeRejectsNonPositiveLength(t *testing.T) {
	gen := NewRandomGenerator()
	if _, err := gen.NewCode(0); err == nil {
		t.Fatal("expected error for zero length")
	}
}
