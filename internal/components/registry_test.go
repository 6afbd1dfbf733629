package components

import (
	"errors"
	"testing"
)

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry[string]()
	if err := reg.Register(TrashPrefix, "trash"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("HELP:", "help"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if h, ok := reg.Lookup("TRASH:0:42"); !ok || h != "trash" {
		t.Fatalf("expected trash handler, got %q %v", h, ok)
	}
	if h, ok := reg.Lookup("HELP:next:1:42"); !ok || h != "help" {
		t.Fatalf("expected help handler, got %q %v", h, ok)
	}
	if _, ok := reg.Lookup("poll:vote:1"); ok {
		t.Fatalf("unknown ids must not resolve")
	}
	if len(reg.Prefixes()) != 2 {
		t.Fatalf("expected 2 prefixes")
	}
}

func TestRegistryRejectsOverlap(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("TRASH:", 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("TRASH:", 2); !errors.Is(err, ErrPrefixConflict) {
		t.Fatalf("expected conflict for duplicate, got %v", err)
	}
	if err := reg.Register("TRA", 3); !errors.Is(err, ErrPrefixConflict) {
		t.Fatalf("expected conflict for shorter prefix, got %v", err)
	}
	if err := reg.Register("TRASH:X", 4); !errors.Is(err, ErrPrefixConflict) {
		t.Fatalf("expected conflict for longer prefix, got %v", err)
	}
	if err := reg.Register("", 5); !errors.Is(err, ErrEmptyPrefix) {
		t.Fatalf("expected empty prefix error, got %v", err)
	}
}

func TestRegistryRegisterAllIsAtomic(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register(TrashPrefix, 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := reg.RegisterAll(map[string]int{"POLL:": 2, "TRASH:x": 3})
	if !errors.Is(err, ErrPrefixConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, ok := reg.Lookup("POLL:1"); ok {
		t.Fatalf("no prefix of a rejected batch may be registered")
	}

	err = reg.RegisterAll(map[string]int{"HELP:": 4, "HELP:x": 5})
	if !errors.Is(err, ErrPrefixConflict) {
		t.Fatalf("expected conflict within batch, got %v", err)
	}
	if len(reg.Prefixes()) != 1 {
		t.Fatalf("expected only the trash prefix, got %v", reg.Prefixes())
	}

	if err := reg.RegisterAll(map[string]int{"HELP:": 4, "POLL:": 2}); err != nil {
		t.Fatalf("register batch: %v", err)
	}
	if h, ok := reg.Lookup("POLL:1"); !ok || h != 2 {
		t.Fatalf("expected poll handler, got %d %v", h, ok)
	}
}
