// Package catalog provides the entity catalog that grid filters are compiled against.
//
// An Entity resolves dotted property paths to predicate.Property metadata and so
// implements the predicate.Accessor collaborator. Two implementations are provided:
//   - Arrow entities: built from an *arrow.Schema (NewSchemaEntity)
//   - Property entities: built from a plain path to property map (NewPropertyEntity)
//
// Custom implementations can reflect live model state. All interfaces are
// goroutine-safe and support context-based cancellation.
package catalog

import (
	"context"
	"errors"

	"github.com/hugr-lab/gridfilter/predicate"
)

// Sentinel errors for property resolution.
var (
	// ErrNotFound is returned when a property path does not exist on an entity.
	ErrNotFound = errors.New("not found")

	// ErrUnsupportedType is returned when a property exists but its type cannot
	// be filtered (binary, map, nested list or struct leaf).
	ErrUnsupportedType = errors.New("unsupported property type")
)

// Catalog represents the set of entities grids can be bound to.
// Implementations can be static (from builder) or dynamic (user-provided).
// All methods MUST be goroutine-safe.
type Catalog interface {
	// Entities returns all entities visible in this catalog.
	// Context may contain auth info for permission-based filtering.
	// Returns empty slice (not nil) if no entities available.
	Entities(ctx context.Context) ([]Entity, error)

	// Entity returns a specific entity by name.
	// Returns (nil, nil) if entity doesn't exist (not an error).
	// Returns (nil, err) if lookup fails for other reasons.
	Entity(ctx context.Context, name string) (Entity, error)
}

// Entity is a filterable type whose properties grid columns are bound to.
// Implementations MUST be goroutine-safe.
type Entity interface {
	predicate.Accessor

	// Name returns the entity name (e.g., "orders").
	// MUST return non-empty string.
	Name() string

	// Comment returns optional entity documentation.
	Comment() string

	// Properties returns the filterable leaf properties ordered by path.
	Properties() []predicate.Property
}
