package catalog

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/gridfilter/predicate"
)

// SchemaEntity is an entity described by an Arrow schema.
// Struct fields are addressed with dotted paths ("Owner.Name");
// list fields become collection properties of their element type.
type SchemaEntity struct {
	name    string
	comment string
	schema  *arrow.Schema
	props   *propertySet
}

// NewSchemaEntity creates an entity from an Arrow schema.
// Fields whose type cannot be filtered are kept so that resolving them
// reports ErrUnsupportedType instead of ErrNotFound.
func NewSchemaEntity(name, comment string, schema *arrow.Schema) (*SchemaEntity, error) {
	if name == "" {
		return nil, fmt.Errorf("entity name cannot be empty")
	}
	if schema == nil {
		return nil, fmt.Errorf("entity %s has nil schema", name)
	}

	set := newPropertySet()
	for _, f := range schema.Fields() {
		if err := walkField(set, "", f, false); err != nil {
			return nil, fmt.Errorf("entity %s: %w", name, err)
		}
	}
	set.seal()

	return &SchemaEntity{
		name:    name,
		comment: comment,
		schema:  schema,
		props:   set,
	}, nil
}

// Name implements Entity interface.
func (e *SchemaEntity) Name() string {
	return e.name
}

// Comment implements Entity interface.
func (e *SchemaEntity) Comment() string {
	return e.comment
}

// ArrowSchema returns the schema the entity was built from.
func (e *SchemaEntity) ArrowSchema() *arrow.Schema {
	return e.schema
}

// Resolve implements predicate.Accessor.
func (e *SchemaEntity) Resolve(path string) (predicate.Property, error) {
	return e.props.resolve(e.name, path)
}

// Properties implements Entity interface.
func (e *SchemaEntity) Properties() []predicate.Property {
	return e.props.list()
}

// walkField registers f and, for structs, its children.
// Nullability is inherited: a child of a nullable struct is nullable.
func walkField(set *propertySet, prefix string, f arrow.Field, parentNullable bool) error {
	path := f.Name
	if prefix != "" {
		path = prefix + "." + f.Name
	}
	nullable := f.Nullable || parentNullable

	if st, ok := f.Type.(*arrow.StructType); ok {
		set.reject(path, fmt.Errorf("property %s is a struct: %w", path, ErrUnsupportedType))
		for _, child := range st.Fields() {
			if err := walkField(set, path, child, nullable); err != nil {
				return err
			}
		}
		return nil
	}

	prop, err := fieldProperty(f)
	if err != nil {
		set.reject(path, fmt.Errorf("property %s: %w", path, err))
		return nil
	}
	if prop.Type == predicate.TypeEnum && prop.Enum == nil {
		members, err := ParseEnumMembers(metadataValue(f.Metadata, MetadataEnum))
		if err != nil {
			return fmt.Errorf("property %s: %w", path, err)
		}
		prop.Enum = members
	}
	prop.Path = path
	prop.Nullable = nullable
	set.add(prop)
	return nil
}

// fieldProperty maps one Arrow field to property metadata.
func fieldProperty(f arrow.Field) (predicate.Property, error) {
	if list, ok := f.Type.(arrow.ListLikeType); ok {
		elem := list.ElemField()
		if _, nested := elem.Type.(arrow.ListLikeType); nested {
			return predicate.Property{}, fmt.Errorf("nested list: %w", ErrUnsupportedType)
		}
		p, err := fieldProperty(elem)
		if err != nil {
			return predicate.Property{}, err
		}
		if p.Type == predicate.TypeEnum && p.Enum == nil {
			// list members are declared on the list field
			p.Enum, err = ParseEnumMembers(metadataValue(f.Metadata, MetadataEnum))
			if err != nil {
				return predicate.Property{}, err
			}
		}
		p.Collection = true
		return p, nil
	}

	switch strings.ToLower(metadataValue(f.Metadata, MetadataLogicalType)) {
	case "uuid":
		return predicate.Property{Type: predicate.TypeUUID}, nil
	case "enum":
		return predicate.Property{Type: predicate.TypeEnum}, nil
	case "date":
		return predicate.Property{Type: predicate.TypeDate, Format: predicate.FormatDate}, nil
	case "time":
		return predicate.Property{Type: predicate.TypeDate, Format: predicate.FormatTime}, nil
	case "duration":
		return predicate.Property{Type: predicate.TypeTime}, nil
	}
	if metadataValue(f.Metadata, MetadataExtensionName) == uuidExtensionName {
		return predicate.Property{Type: predicate.TypeUUID}, nil
	}

	return typeProperty(f.Type)
}

// typeProperty maps an Arrow data type to property metadata.
func typeProperty(dt arrow.DataType) (predicate.Property, error) {
	if ext, ok := dt.(arrow.ExtensionType); ok {
		if ext.ExtensionName() == uuidExtensionName {
			return predicate.Property{Type: predicate.TypeUUID}, nil
		}
		return typeProperty(ext.StorageType())
	}

	switch dt.ID() {
	case arrow.STRING, arrow.LARGE_STRING, arrow.STRING_VIEW:
		return predicate.Property{Type: predicate.TypeString}, nil
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return predicate.Property{Type: predicate.TypeInteger}, nil
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return predicate.Property{Type: predicate.TypeNumber}, nil
	case arrow.BOOL:
		return predicate.Property{Type: predicate.TypeBoolean}, nil
	case arrow.DATE32, arrow.DATE64:
		return predicate.Property{Type: predicate.TypeDate, Format: predicate.FormatDate}, nil
	case arrow.TIMESTAMP:
		ts := dt.(*arrow.TimestampType)
		return predicate.Property{
			Type:        predicate.TypeDate,
			Format:      predicate.FormatDateTime,
			OffsetAware: ts.TimeZone != "",
		}, nil
	case arrow.TIME32, arrow.TIME64:
		return predicate.Property{Type: predicate.TypeDate, Format: predicate.FormatTime}, nil
	case arrow.DURATION, arrow.INTERVAL_MONTH_DAY_NANO:
		return predicate.Property{Type: predicate.TypeTime}, nil
	case arrow.DICTIONARY:
		return predicate.Property{Type: predicate.TypeEnum}, nil
	}
	return predicate.Property{}, fmt.Errorf("arrow type %s: %w", dt, ErrUnsupportedType)
}
