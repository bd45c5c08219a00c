package catalog

import (
	"context"
	"sort"
)

// staticCatalog is an immutable catalog implementation built from CatalogBuilder.
type staticCatalog struct {
	entities map[string]Entity
}

// NewStaticCatalog creates a static catalog.
// This is exported for use by the gridfilter package builder.
func NewStaticCatalog() *staticCatalog {
	return &staticCatalog{
		entities: make(map[string]Entity),
	}
}

// AddEntity adds an entity to the static catalog, replacing any entity
// with the same name. This is used during catalog building.
func (c *staticCatalog) AddEntity(e Entity) {
	c.entities[e.Name()] = e
}

// Entities implements Catalog interface. Entities are ordered by name.
func (c *staticCatalog) Entities(ctx context.Context) ([]Entity, error) {
	result := make([]Entity, 0, len(c.entities))
	for _, e := range c.entities {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result, nil
}

// Entity implements Catalog interface.
func (c *staticCatalog) Entity(ctx context.Context, name string) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := c.entities[name]
	if !ok {
		return nil, nil // Not found, not an error
	}
	return e, nil
}
