package catalog

import (
	"errors"
	"testing"

	"github.com/hugr-lab/gridfilter/predicate"
)

func TestPropertyEntity(t *testing.T) {
	e, err := NewPropertyEntity("people", "People directory", map[string]predicate.Property{
		"Name":       {Type: predicate.TypeString, Nullable: true},
		"Owner.Name": {Type: predicate.TypeString},
		"Age":        {Type: predicate.TypeInteger},
	})
	if err != nil {
		t.Fatalf("NewPropertyEntity failed: %v", err)
	}

	if e.Name() != "people" {
		t.Errorf("expected name 'people', got '%s'", e.Name())
	}
	if e.Comment() != "People directory" {
		t.Errorf("expected comment 'People directory', got '%s'", e.Comment())
	}

	p, err := e.Resolve("owner.name")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Path != "Owner.Name" {
		t.Errorf("expected canonical path 'Owner.Name', got '%s'", p.Path)
	}

	if _, err := e.Resolve("Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	props := e.Properties()
	if len(props) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(props))
	}
	if props[0].Path != "Age" {
		t.Errorf("expected first property 'Age', got '%s'", props[0].Path)
	}
}

func TestNewPropertyEntityInvalid(t *testing.T) {
	tests := []struct {
		name   string
		entity string
		props  map[string]predicate.Property
	}{
		{"empty name", "", nil},
		{"empty path", "e", map[string]predicate.Property{"": {Type: predicate.TypeString}}},
		{"unknown type", "e", map[string]predicate.Property{"X": {Type: "blob"}}},
		{"collection type", "e", map[string]predicate.Property{"X": {Type: predicate.TypeCollection}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPropertyEntity(tt.entity, "", tt.props); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestPropertySetRejectedFoldedLookup(t *testing.T) {
	errLower := errors.New("lower")
	errUpper := errors.New("upper")

	// insertion order must not decide which folded match wins
	for _, order := range [][]string{{"blob", "BLOB"}, {"BLOB", "blob"}} {
		set := newPropertySet()
		for _, path := range order {
			if path == "blob" {
				set.reject(path, errLower)
			} else {
				set.reject(path, errUpper)
			}
		}
		set.seal()

		for i := 0; i < 20; i++ {
			_, err := set.resolve("files", "Blob")
			if !errors.Is(err, errUpper) {
				t.Fatalf("order %v: expected the error of 'BLOB', got %v", order, err)
			}
		}
	}
}
