package predicate

import (
	"errors"
	"fmt"
	"strings"
)

// Descriptor is a raw grid column in one of the supported source shapes:
// SimpleColumn or DynamicColumn.
type Descriptor interface {
	descriptor()
}

// SimpleColumn is a column bound to a property of a typed entity.
// Its declared type comes from the accessor.
type SimpleColumn struct {
	Property        string
	Operator        Operator
	Value           any
	SecondOperator  Operator
	SecondValue     any
	LogicalOperator Combinator
	Filterable      bool
}

func (SimpleColumn) descriptor() {}

// DynamicColumn is a column of a grid bound to dynamic data. It declares
// its own type with JSON schema words ("string" + "date-time", "integer",
// "array" + items type...).
type DynamicColumn struct {
	Property        string
	Type            string
	Format          string
	ItemsType       string
	Operator        Operator
	Value           any
	SecondOperator  Operator
	SecondValue     any
	LogicalOperator Combinator
	Filterable      bool
}

func (DynamicColumn) descriptor() {}

// Request is the filter state of a grid as delivered by the UI layer.
type Request struct {
	Columns []Descriptor

	// LogicalOperator joins column predicates. Defaults to Or.
	LogicalOperator Combinator

	// CaseSensitivity applies to all string comparisons.
	// Defaults to CaseSensitive.
	CaseSensitivity CaseSensitivity
}

// Normalize reduces a grid request to a canonical filter set holding only
// active columns. Inactive columns are dropped silently; an active column
// whose path does not resolve against acc fails the whole request.
// Resolved columns take the canonical path reported by the accessor.
func Normalize(req Request, acc Accessor) (FilterSet, error) {
	set := FilterSet{
		DefaultCombinator: req.LogicalOperator,
		CaseSensitivity:   req.CaseSensitivity,
	}
	if set.DefaultCombinator == "" {
		set.DefaultCombinator = Or
	}
	if set.DefaultCombinator != And && set.DefaultCombinator != Or {
		return FilterSet{}, invalidDescriptor("", fmt.Errorf("unknown logical operator %q", req.LogicalOperator))
	}
	if set.CaseSensitivity == "" {
		set.CaseSensitivity = CaseSensitive
	}
	if set.CaseSensitivity != CaseSensitive && set.CaseSensitivity != CaseInsensitive {
		return FilterSet{}, invalidDescriptor("", fmt.Errorf("unknown case sensitivity %q", req.CaseSensitivity))
	}

	for i, d := range req.Columns {
		var (
			col    FilterColumn
			active bool
			err    error
		)
		switch c := d.(type) {
		case SimpleColumn:
			col, active, err = fromSimple(c, acc)
		case *SimpleColumn:
			if c == nil {
				continue
			}
			col, active, err = fromSimple(*c, acc)
		case DynamicColumn:
			col, active, err = fromDynamic(c, acc)
		case *DynamicColumn:
			if c == nil {
				continue
			}
			col, active, err = fromDynamic(*c, acc)
		case nil:
			continue
		default:
			return FilterSet{}, invalidDescriptor("", fmt.Errorf("column %d: unsupported descriptor %T", i, d))
		}
		if err != nil {
			return FilterSet{}, err
		}
		if active {
			set.Columns = append(set.Columns, col)
		}
	}
	return set, nil
}

// fromSimple adapts a SimpleColumn. The bool result is false for inactive
// columns.
func fromSimple(c SimpleColumn, acc Accessor) (FilterColumn, bool, error) {
	col := FilterColumn{
		PropertyPath:      strings.TrimSpace(c.Property),
		Operator:          c.Operator,
		PrimaryValue:      c.Value,
		SecondaryValue:    c.SecondValue,
		SecondaryOperator: c.SecondOperator,
		ColumnCombinator:  c.LogicalOperator,
		Filterable:        c.Filterable,
	}
	active, err := checkActive(&col)
	if err != nil || !active {
		return FilterColumn{}, false, err
	}

	prop, err := resolve(acc, col.PropertyPath)
	if err != nil {
		return FilterColumn{}, false, err
	}
	col.Property = prop
	col.PropertyPath = prop.Path
	col.DeclaredType = prop.Type
	col.Format = prop.Format
	applyCollection(&col)
	return col, true, nil
}

// fromDynamic adapts a DynamicColumn. The declared type of the descriptor
// wins over the accessor's unless the descriptor leaves it empty.
func fromDynamic(c DynamicColumn, acc Accessor) (FilterColumn, bool, error) {
	col := FilterColumn{
		PropertyPath:      strings.TrimSpace(c.Property),
		Operator:          c.Operator,
		PrimaryValue:      c.Value,
		SecondaryValue:    c.SecondValue,
		SecondaryOperator: c.SecondOperator,
		ColumnCombinator:  c.LogicalOperator,
		Filterable:        c.Filterable,
	}
	active, err := checkActive(&col)
	if err != nil || !active {
		return FilterColumn{}, false, err
	}

	prop, err := resolve(acc, col.PropertyPath)
	if err != nil {
		return FilterColumn{}, false, err
	}
	col.Property = prop
	col.PropertyPath = prop.Path

	if strings.TrimSpace(c.Type) == "" && strings.TrimSpace(c.Format) == "" {
		col.DeclaredType = prop.Type
		col.Format = prop.Format
		applyCollection(&col)
		return col, true, nil
	}

	t, f, err := schemaType(c.Type, c.Format)
	if err != nil {
		return FilterColumn{}, false, invalidDescriptor(col.PropertyPath, err)
	}
	if t == TypeInteger && prop.Type == TypeEnum {
		t = TypeEnum
	}
	col.DeclaredType = t
	col.Format = f

	if t == TypeCollection {
		col.ElementType = prop.Type
		col.Format = prop.Format
		if c.ItemsType != "" {
			et, ef, err := schemaType(c.ItemsType, "")
			if err != nil || et == TypeCollection {
				return FilterColumn{}, false, invalidDescriptor(col.PropertyPath, fmt.Errorf("invalid items type %q", c.ItemsType))
			}
			col.ElementType = et
			col.Format = ef
		}
		if col.ElementType == "" || col.ElementType == TypeCollection {
			col.ElementType = TypeString
		}
		return col, true, nil
	}
	applyCollection(&col)
	return col, true, nil
}

// checkActive applies defaults and the activity test.
func checkActive(col *FilterColumn) (bool, error) {
	if !col.Filterable {
		return false, nil
	}
	if col.Operator == "" {
		col.Operator = OpEquals
	}
	if !col.Operator.IsNullClass() && !hasValue(col.PrimaryValue) {
		return false, nil
	}
	if !isOperator(col.Operator) {
		return false, invalidDescriptor(col.PropertyPath, fmt.Errorf("unknown operator %q", col.Operator))
	}
	if col.SecondaryOperator != "" && !isOperator(col.SecondaryOperator) {
		return false, invalidDescriptor(col.PropertyPath, fmt.Errorf("unknown operator %q", col.SecondaryOperator))
	}
	if col.ColumnCombinator != "" && col.ColumnCombinator != And && col.ColumnCombinator != Or {
		return false, invalidDescriptor(col.PropertyPath, fmt.Errorf("unknown logical operator %q", col.ColumnCombinator))
	}
	return true, nil
}

// applyCollection retypes a column as a collection filter when the property
// is multi-valued or the user selected a set of values to test against.
func applyCollection(col *FilterColumn) {
	if col.DeclaredType == TypeCollection {
		return
	}
	selectsSet := (col.Operator == OpContains || col.Operator == OpDoesNotContain) &&
		isList(col.PrimaryValue)
	if col.Property.Collection || selectsSet {
		col.ElementType = col.DeclaredType
		col.DeclaredType = TypeCollection
	}
}

// schemaType maps JSON schema type and format words to a declared type.
func schemaType(typ, format string) (DeclaredType, Format, error) {
	typ = strings.ToLower(strings.TrimSpace(typ))
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "date-time", "datetime":
		return TypeDate, FormatDateTime, nil
	case "date":
		return TypeDate, FormatDate, nil
	case "time":
		return TypeDate, FormatTime, nil
	case "duration", "timespan":
		return TypeTime, FormatNone, nil
	case "uuid", "guid":
		return TypeUUID, FormatNone, nil
	case "enum":
		return TypeEnum, FormatNone, nil
	}
	if typ == "" {
		return "", "", errors.New("missing type")
	}
	t, ok := ParseDeclaredType(typ)
	if !ok {
		return "", "", fmt.Errorf("unknown type %q", typ)
	}
	return t, FormatNone, nil
}

func resolve(acc Accessor, path string) (Property, error) {
	if path == "" {
		return Property{}, &CompileError{
			Kind: ErrUnresolvablePropertyPath,
			Err:  errors.New("empty property path"),
		}
	}
	if acc == nil {
		return Property{}, &CompileError{
			Kind:   ErrUnresolvablePropertyPath,
			Column: path,
			Err:    errors.New("no property accessor"),
		}
	}
	prop, err := acc.Resolve(path)
	if err != nil {
		return Property{}, &CompileError{
			Kind:   ErrUnresolvablePropertyPath,
			Column: path,
			Err:    err,
		}
	}
	if prop.Path == "" {
		prop.Path = path
	}
	if !prop.Type.IsValid() || prop.Type == TypeCollection {
		return Property{}, &CompileError{
			Kind:   ErrUnresolvablePropertyPath,
			Column: path,
			Err:    fmt.Errorf("accessor returned unsupported type %q", prop.Type),
		}
	}
	return prop, nil
}

func isOperator(op Operator) bool {
	for _, o := range operators {
		if o == op {
			return true
		}
	}
	return false
}

func invalidDescriptor(column string, err error) error {
	return &CompileError{Kind: ErrInvalidDescriptor, Column: column, Err: err}
}
