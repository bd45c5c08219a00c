// Package serialize provides catalog description serialization to Arrow IPC
// format and ZStandard compression of wire payloads.
package serialize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/hugr-lab/gridfilter/catalog"
	"github.com/hugr-lab/gridfilter/predicate"
)

// CatalogSchema is the Arrow schema of a serialized catalog description.
// One row describes one filterable property.
var CatalogSchema = arrow.NewSchema([]arrow.Field{
	{Name: "entity", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "entity_comment", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "path", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "type", Type: arrow.BinaryTypes.String, Nullable: false},
	{Name: "format", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "nullable", Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
	{Name: "offset_aware", Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
	{Name: "collection", Type: arrow.FixedWidthTypes.Boolean, Nullable: false},
	{Name: "enum", Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// SerializeCatalog describes every entity property of cat in Arrow IPC format.
// Grid front ends use the description to pick column types and operators.
func SerializeCatalog(ctx context.Context, cat catalog.Catalog, allocator memory.Allocator) ([]byte, error) {
	entities, err := cat.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get entities: %w", err)
	}

	builder := array.NewRecordBuilder(allocator, CatalogSchema)
	defer builder.Release()

	entityB := builder.Field(0).(*array.StringBuilder)
	commentB := builder.Field(1).(*array.StringBuilder)
	pathB := builder.Field(2).(*array.StringBuilder)
	typeB := builder.Field(3).(*array.StringBuilder)
	formatB := builder.Field(4).(*array.StringBuilder)
	nullableB := builder.Field(5).(*array.BooleanBuilder)
	offsetB := builder.Field(6).(*array.BooleanBuilder)
	collectionB := builder.Field(7).(*array.BooleanBuilder)
	enumB := builder.Field(8).(*array.StringBuilder)

	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, p := range e.Properties() {
			entityB.Append(e.Name())
			appendOptional(commentB, e.Comment())
			pathB.Append(p.Path)
			typeB.Append(string(p.Type))
			appendOptional(formatB, string(p.Format))
			nullableB.Append(p.Nullable)
			offsetB.Append(p.OffsetAware)
			collectionB.Append(p.Collection)
			appendOptional(enumB, formatEnum(p.Enum))
		}
	}

	record := builder.NewRecordBatch()
	defer record.Release()

	var buf bytes.Buffer
	writer := ipc.NewWriter(&buf, ipc.WithSchema(CatalogSchema), ipc.WithAllocator(allocator))
	if err := writer.Write(record); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to write IPC record: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close IPC writer: %w", err)
	}

	return buf.Bytes(), nil
}

// DeserializeCatalog rebuilds a static catalog of property entities from a
// description produced by SerializeCatalog.
func DeserializeCatalog(data []byte, allocator memory.Allocator) (catalog.Catalog, error) {
	reader, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(allocator))
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC reader: %w", err)
	}
	defer reader.Release()

	if !reader.Schema().Equal(CatalogSchema) {
		return nil, fmt.Errorf("unexpected catalog schema: %s", reader.Schema())
	}

	type entityDef struct {
		comment string
		props   map[string]predicate.Property
	}
	defs := make(map[string]*entityDef)
	var order []string

	for reader.Next() {
		rec := reader.Record()
		entityCol := rec.Column(0).(*array.String)
		commentCol := rec.Column(1).(*array.String)
		pathCol := rec.Column(2).(*array.String)
		typeCol := rec.Column(3).(*array.String)
		formatCol := rec.Column(4).(*array.String)
		nullableCol := rec.Column(5).(*array.Boolean)
		offsetCol := rec.Column(6).(*array.Boolean)
		collectionCol := rec.Column(7).(*array.Boolean)
		enumCol := rec.Column(8).(*array.String)

		for i := 0; i < int(rec.NumRows()); i++ {
			// values alias the record buffers
			name := strings.Clone(entityCol.Value(i))
			def, ok := defs[name]
			if !ok {
				def = &entityDef{props: make(map[string]predicate.Property)}
				defs[name] = def
				order = append(order, name)
			}
			if commentCol.IsValid(i) {
				def.comment = strings.Clone(commentCol.Value(i))
			}

			p := predicate.Property{
				Type:        predicate.DeclaredType(strings.Clone(typeCol.Value(i))),
				Nullable:    nullableCol.Value(i),
				OffsetAware: offsetCol.Value(i),
				Collection:  collectionCol.Value(i),
			}
			if formatCol.IsValid(i) {
				p.Format = predicate.Format(strings.Clone(formatCol.Value(i)))
			}
			if enumCol.IsValid(i) {
				p.Enum, err = catalog.ParseEnumMembers(enumCol.Value(i))
				if err != nil {
					return nil, fmt.Errorf("entity %s property %s: %w", name, pathCol.Value(i), err)
				}
			}
			def.props[strings.Clone(pathCol.Value(i))] = p
		}
	}
	if err := reader.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read IPC record: %w", err)
	}

	cat := catalog.NewStaticCatalog()
	for _, name := range order {
		def := defs[name]
		e, err := catalog.NewPropertyEntity(name, def.comment, def.props)
		if err != nil {
			return nil, err
		}
		cat.AddEntity(e)
	}
	return cat, nil
}

// CompressCatalog compresses serialized catalog data using ZStandard.
func CompressCatalog(data []byte) ([]byte, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	defer codec.Close()

	return codec.Compress(data), nil
}

func appendOptional(b *array.StringBuilder, s string) {
	if s == "" {
		b.AppendNull()
		return
	}
	b.Append(s)
}

func formatEnum(members []predicate.EnumMember) string {
	parts := make([]string, len(members))
	for i, m := range members {
		parts[i] = m.Name + "=" + strconv.FormatInt(m.Value, 10)
	}
	return strings.Join(parts, ",")
}
