package predicate

import (
	"errors"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	set, err := Normalize(Request{}, testEntity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if set.DefaultCombinator != Or {
		t.Errorf("expected default combinator 'or', got '%s'", set.DefaultCombinator)
	}
	if set.CaseSensitivity != CaseSensitive {
		t.Errorf("expected case sensitive default, got '%s'", set.CaseSensitivity)
	}
	if len(set.Columns) != 0 {
		t.Errorf("expected 0 columns, got %d", len(set.Columns))
	}
}

func TestNormalizeActivity(t *testing.T) {
	req := Request{Columns: []Descriptor{
		SimpleColumn{Property: "Name", Value: "a", Filterable: false},
		SimpleColumn{Property: "Name", Operator: OpContains, Value: "", Filterable: true},
		SimpleColumn{Property: "Status", Operator: OpIsNull, Filterable: true},
		&SimpleColumn{Property: "Age", Value: 5, Filterable: true},
		(*SimpleColumn)(nil),
		nil,
		// inactive columns are not resolved
		SimpleColumn{Property: "Missing", Filterable: true},
		DynamicColumn{Property: "Price", Type: "number", Value: 2.5, Filterable: true},
	}}

	set, err := Normalize(req, testEntity)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(set.Columns) != 3 {
		t.Fatalf("expected 3 active columns, got %d", len(set.Columns))
	}

	expected := []struct {
		path string
		dt   DeclaredType
		op   Operator
	}{
		{"Status", TypeEnum, OpIsNull},
		{"Age", TypeInteger, OpEquals},
		{"Price", TypeNumber, OpEquals},
	}
	for i, e := range expected {
		col := set.Columns[i]
		if col.PropertyPath != e.path {
			t.Errorf("column %d: expected path '%s', got '%s'", i, e.path, col.PropertyPath)
		}
		if col.DeclaredType != e.dt {
			t.Errorf("column %d: expected type '%s', got '%s'", i, e.dt, col.DeclaredType)
		}
		if col.Operator != e.op {
			t.Errorf("column %d: expected operator '%s', got '%s'", i, e.op, col.Operator)
		}
	}
}

func TestNormalizeDynamicTypes(t *testing.T) {
	tests := []struct {
		name   string
		col    DynamicColumn
		dt     DeclaredType
		elem   DeclaredType
		format Format
	}{
		{
			name:   "date-time",
			col:    DynamicColumn{Property: "CreatedOn", Type: "string", Format: "date-time", Value: "2024-01-01"},
			dt:     TypeDate,
			format: FormatDateTime,
		},
		{
			name: "uuid format",
			col:  DynamicColumn{Property: "ID", Type: "string", Format: "uuid", Value: "x"},
			dt:   TypeUUID,
		},
		{
			name: "integer on enum property",
			col:  DynamicColumn{Property: "Status", Type: "integer", Value: 1},
			dt:   TypeEnum,
		},
		{
			name:   "empty type uses accessor",
			col:    DynamicColumn{Property: "BirthDate", Value: "2024-01-01"},
			dt:     TypeDate,
			format: FormatDate,
		},
		{
			name: "array with items",
			col:  DynamicColumn{Property: "Age", Type: "array", ItemsType: "integer", Operator: OpContains, Value: []int{1}},
			dt:   TypeCollection,
			elem: TypeInteger,
		},
		{
			name: "array without items uses property",
			col:  DynamicColumn{Property: "Tags", Type: "array", Operator: OpContains, Value: "x"},
			dt:   TypeCollection,
			elem: TypeString,
		},
		{
			name: "selected values retype",
			col:  DynamicColumn{Property: "Email", Type: "string", Operator: OpContains, Value: []string{"a", "b"}},
			dt:   TypeCollection,
			elem: TypeString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.col.Filterable = true
			set, err := Normalize(Request{Columns: []Descriptor{tt.col}}, testEntity)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(set.Columns) != 1 {
				t.Fatalf("expected 1 column, got %d", len(set.Columns))
			}
			col := set.Columns[0]
			if col.DeclaredType != tt.dt {
				t.Errorf("expected type '%s', got '%s'", tt.dt, col.DeclaredType)
			}
			if col.ElementType != tt.elem {
				t.Errorf("expected element type '%s', got '%s'", tt.elem, col.ElementType)
			}
			if col.Format != tt.format {
				t.Errorf("expected format '%s', got '%s'", tt.format, col.Format)
			}
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		acc  Accessor
		kind error
	}{
		{
			name: "unresolvable",
			req:  Request{Columns: []Descriptor{SimpleColumn{Property: "Nope", Value: 1, Filterable: true}}},
			acc:  testEntity,
			kind: ErrUnresolvablePropertyPath,
		},
		{
			name: "empty path",
			req:  Request{Columns: []Descriptor{SimpleColumn{Property: " ", Value: 1, Filterable: true}}},
			acc:  testEntity,
			kind: ErrUnresolvablePropertyPath,
		},
		{
			name: "no accessor",
			req:  Request{Columns: []Descriptor{SimpleColumn{Property: "Age", Value: 1, Filterable: true}}},
			kind: ErrUnresolvablePropertyPath,
		},
		{
			name: "unknown schema type",
			req:  Request{Columns: []Descriptor{DynamicColumn{Property: "Age", Type: "blob", Value: 1, Filterable: true}}},
			acc:  testEntity,
			kind: ErrInvalidDescriptor,
		},
		{
			name: "unknown combinator",
			req:  Request{LogicalOperator: "xor"},
			acc:  testEntity,
			kind: ErrInvalidDescriptor,
		},
		{
			name: "unknown case sensitivity",
			req:  Request{CaseSensitivity: "loud"},
			acc:  testEntity,
			kind: ErrInvalidDescriptor,
		},
		{
			name: "unknown column combinator",
			req: Request{Columns: []Descriptor{SimpleColumn{Property: "Age", Value: 1,
				SecondValue: 2, LogicalOperator: "nand", Filterable: true}}},
			acc:  testEntity,
			kind: ErrInvalidDescriptor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.req, tt.acc)
			if !errors.Is(err, tt.kind) {
				t.Errorf("expected %v, got %v", tt.kind, err)
			}
		})
	}
}

func TestSchemaType(t *testing.T) {
	tests := []struct {
		typ, format string
		dt          DeclaredType
		f           Format
	}{
		{"string", "", TypeString, FormatNone},
		{"string", "date-time", TypeDate, FormatDateTime},
		{"string", "date", TypeDate, FormatDate},
		{"string", "time", TypeDate, FormatTime},
		{"string", "duration", TypeTime, FormatNone},
		{"string", "uuid", TypeUUID, FormatNone},
		{"INTEGER", "", TypeInteger, FormatNone},
		{"number", "", TypeNumber, FormatNone},
		{"boolean", "", TypeBoolean, FormatNone},
		{"array", "", TypeCollection, FormatNone},
	}
	for _, tt := range tests {
		dt, f, err := schemaType(tt.typ, tt.format)
		if err != nil {
			t.Errorf("%s/%s: expected no error, got %v", tt.typ, tt.format, err)
			continue
		}
		if dt != tt.dt || f != tt.f {
			t.Errorf("%s/%s: expected %s/%s, got %s/%s", tt.typ, tt.format, tt.dt, tt.f, dt, f)
		}
	}
}
