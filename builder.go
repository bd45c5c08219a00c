package gridfilter

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/predicate"
)

// CatalogBuilder builds static catalogs using fluent API.
// Not thread-safe - use only during initialization.
type CatalogBuilder struct {
	entities []*entityBuilder
	built    bool
}

// NewCatalogBuilder creates a new fluent catalog builder.
// Returns builder in "empty" state (no entities).
//
// Example:
//
//	cat, err := gridfilter.NewCatalogBuilder().
//	    Entity("orders").
//	        Comment("Sales orders").
//	        ArrowSchema(ordersSchema).
//	    Entity("people").
//	        Property("Name", predicate.Property{Type: predicate.TypeString, Nullable: true}).
//	        Property("Age", predicate.Property{Type: predicate.TypeInteger}).
//	    Build()
func NewCatalogBuilder() *CatalogBuilder {
	return &CatalogBuilder{
		entities: make([]*entityBuilder, 0),
	}
}

// Entity starts defining a new entity.
// Returns EntityBuilder for describing the entity's properties.
// Entity name MUST be non-empty and unique within catalog.
func (cb *CatalogBuilder) Entity(name string) *EntityBuilder {
	eb := &entityBuilder{
		name:           name,
		props:          make(map[string]predicate.Property),
		catalogBuilder: cb,
	}
	cb.entities = append(cb.entities, eb)
	return &EntityBuilder{builder: eb}
}

// Build finalizes the catalog and returns immutable Catalog implementation.
// Can only be called once. Further modifications return error.
// Returns error if catalog is invalid (e.g., duplicate entity names).
func (cb *CatalogBuilder) Build() (catalog.Catalog, error) {
	if cb.built {
		return nil, fmt.Errorf("catalog already built")
	}

	seenNames := make(map[string]bool)
	for _, eb := range cb.entities {
		if eb.name == "" {
			return nil, fmt.Errorf("entity name cannot be empty")
		}
		if seenNames[eb.name] {
			return nil, fmt.Errorf("duplicate entity name: %s", eb.name)
		}
		seenNames[eb.name] = true

		if eb.schema != nil && len(eb.props) > 0 {
			return nil, fmt.Errorf("entity %s mixes an Arrow schema with explicit properties", eb.name)
		}
	}

	cat := catalog.NewStaticCatalog()
	for _, eb := range cb.entities {
		entity, err := eb.build()
		if err != nil {
			return nil, err
		}
		cat.AddEntity(entity)
	}

	cb.built = true
	return cat, nil
}

// EntityBuilder builds an entity within a catalog.
// Not thread-safe - use only during initialization.
type EntityBuilder struct {
	builder *entityBuilder
}

// entityBuilder is the internal entity builder implementation.
type entityBuilder struct {
	name           string
	comment        string
	schema         *arrow.Schema
	props          map[string]predicate.Property
	catalogBuilder *CatalogBuilder
}

func (eb *entityBuilder) build() (catalog.Entity, error) {
	if eb.schema != nil {
		return catalog.NewSchemaEntity(eb.name, eb.comment, eb.schema)
	}
	return catalog.NewPropertyEntity(eb.name, eb.comment, eb.props)
}

// Comment sets optional entity documentation.
// Returns self for method chaining.
func (eb *EntityBuilder) Comment(comment string) *EntityBuilder {
	eb.builder.comment = comment
	return eb
}

// ArrowSchema describes the entity by an Arrow schema. Struct fields
// become dotted property paths and list fields collection properties.
// Returns self for method chaining.
func (eb *EntityBuilder) ArrowSchema(schema *arrow.Schema) *EntityBuilder {
	eb.builder.schema = schema
	return eb
}

// Property adds one explicitly typed property.
// Returns self for method chaining.
// Path MUST be unique within entity; a later definition replaces an earlier one.
func (eb *EntityBuilder) Property(path string, prop predicate.Property) *EntityBuilder {
	eb.builder.props[path] = prop
	return eb
}

// Entity starts a new entity definition (returns to CatalogBuilder).
// Allows chaining: Entity("a").Property(...).Entity("b").ArrowSchema(...)
func (eb *EntityBuilder) Entity(name string) *EntityBuilder {
	return eb.builder.catalogBuilder.Entity(name)
}

// Build finalizes the catalog (returns to CatalogBuilder).
// Same as calling catalogBuilder.Build().
func (eb *EntityBuilder) Build() (catalog.Catalog, error) {
	return eb.builder.catalogBuilder.Build()
}
