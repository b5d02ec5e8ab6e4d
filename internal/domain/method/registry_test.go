package method

import (
	"errors"
	"testing"
)

func TestRegistry_GetUnknownName(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	if _, err := r.Get("missing"); !errors.Is(err, ErrMethodNotFound) {
		t.Fatalf("expected ErrMethodNotFound, got: %v", err)
	}
}

func TestRegistry_PutReplacesAndInvalidates(t *testing.T) {
	t.Parallel()

	var invalidated []string
	r := NewRegistry(func(name string) { invalidated = append(invalidated, name) })

	r.Put(&Declaration{Name: "add", Description: "first"})
	if len(invalidated) != 0 {
		t.Fatalf("first Put must not invalidate, got: %v", invalidated)
	}

	r.Put(&Declaration{Name: "add", Description: "second"})
	if len(invalidated) != 1 || invalidated[0] != "add" {
		t.Fatalf("replacement must invalidate the name, got: %v", invalidated)
	}

	d, err := r.Get("add")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if d.Description != "second" {
		t.Fatalf("replacement must be wholesale, got description %q", d.Description)
	}
}

func TestRegistry_RemoveInvalidates(t *testing.T) {
	t.Parallel()

	var invalidated []string
	r := NewRegistry(func(name string) { invalidated = append(invalidated, name) })

	r.Put(&Declaration{Name: "add"})
	r.Remove("add")

	if _, err := r.Get("add"); !errors.Is(err, ErrMethodNotFound) {
		t.Fatalf("expected ErrMethodNotFound after Remove, got: %v", err)
	}
	if len(invalidated) != 1 || invalidated[0] != "add" {
		t.Fatalf("Remove must invalidate, got: %v", invalidated)
	}

	// Removing a name that is not registered is a no-op.
	r.Remove("add")
	if len(invalidated) != 1 {
		t.Fatalf("removing an unknown name must not invalidate, got: %v", invalidated)
	}
}

func TestRegistry_ListSortedByName(t *testing.T) {
	t.Parallel()

	r := NewRegistry(nil)
	r.Put(&Declaration{Name: "subtract"})
	r.Put(&Declaration{Name: "add"})
	r.Put(&Declaration{Name: "multiply"})

	list := r.List()
	if len(list) != 3 || r.Len() != 3 {
		t.Fatalf("expected 3 declarations, got %d (Len %d)", len(list), r.Len())
	}
	want := []string{"add", "multiply", "subtract"}
	for i, d := range list {
		if d.Name != want[i] {
			t.Fatalf("List order = %v at %d, want %v", d.Name, i, want[i])
		}
	}
}
