// Package grid defines the wire shapes in which grid controls deliver their
// filter state, and converts them to predicate descriptors.
//
// A column that names its own Type, Format or ItemsType is a dynamic column
// (JSON schema style typing); any other column is bound to a typed entity
// and takes its type from the catalog.
package grid

import (
	"strings"

	"github.com/hugr-lab/gridfilter/predicate"
)

// Column is the filter state of one grid column.
type Column struct {
	// Field is the dotted property path the column is bound to.
	Field string `json:"field" msgpack:"field"`

	// Type, Format and ItemsType declare the column type of grids bound
	// to dynamic data ("string" + "date-time", "array" + "integer"...).
	Type      string `json:"type,omitempty" msgpack:"type,omitempty"`
	Format    string `json:"format,omitempty" msgpack:"format,omitempty"`
	ItemsType string `json:"itemsType,omitempty" msgpack:"itemsType,omitempty"`

	Operator string `json:"operator,omitempty" msgpack:"operator,omitempty"`
	Value    any    `json:"value,omitempty" msgpack:"value,omitempty"`

	SecondOperator string `json:"secondOperator,omitempty" msgpack:"secondOperator,omitempty"`
	SecondValue    any    `json:"secondValue,omitempty" msgpack:"secondValue,omitempty"`

	// LogicalOperator joins the two sides of the column ("and"/"or").
	LogicalOperator string `json:"logicalOperator,omitempty" msgpack:"logicalOperator,omitempty"`

	// Filterable defaults to true when omitted.
	Filterable *bool `json:"filterable,omitempty" msgpack:"filterable,omitempty"`
}

// State is the filter state of a whole grid.
type State struct {
	Columns []Column `json:"columns" msgpack:"columns"`

	// LogicalOperator joins column predicates. Defaults to "or".
	LogicalOperator string `json:"logicalOperator,omitempty" msgpack:"logicalOperator,omitempty"`

	// CaseSensitivity is "sensitive" (default) or "insensitive".
	CaseSensitivity string `json:"caseSensitivity,omitempty" msgpack:"caseSensitivity,omitempty"`
}

// IsDynamic reports whether the column declares its own type.
func (c Column) IsDynamic() bool {
	return c.Type != "" || c.Format != "" || c.ItemsType != ""
}

// IsFilterable reports the effective filterable flag.
func (c Column) IsFilterable() bool {
	return c.Filterable == nil || *c.Filterable
}

// Descriptor converts the column to its predicate descriptor.
// Operator and combinator words are parsed leniently ("eq", ">=",
// "startswith"); unknown words are passed through for Normalize to reject
// if the column turns out to be active.
func (c Column) Descriptor() predicate.Descriptor {
	if c.IsDynamic() {
		return predicate.DynamicColumn{
			Property:        c.Field,
			Type:            c.Type,
			Format:          c.Format,
			ItemsType:       c.ItemsType,
			Operator:        operator(c.Operator),
			Value:           c.Value,
			SecondOperator:  operator(c.SecondOperator),
			SecondValue:     c.SecondValue,
			LogicalOperator: combinator(c.LogicalOperator),
			Filterable:      c.IsFilterable(),
		}
	}
	return predicate.SimpleColumn{
		Property:        c.Field,
		Operator:        operator(c.Operator),
		Value:           c.Value,
		SecondOperator:  operator(c.SecondOperator),
		SecondValue:     c.SecondValue,
		LogicalOperator: combinator(c.LogicalOperator),
		Filterable:      c.IsFilterable(),
	}
}

// Request converts the grid state to a normalizer request.
func (s State) Request() predicate.Request {
	req := predicate.Request{
		Columns:         make([]predicate.Descriptor, 0, len(s.Columns)),
		LogicalOperator: combinator(s.LogicalOperator),
		CaseSensitivity: caseSensitivity(s.CaseSensitivity),
	}
	for _, c := range s.Columns {
		req.Columns = append(req.Columns, c.Descriptor())
	}
	return req
}

func operator(s string) predicate.Operator {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if op, ok := predicate.ParseOperator(s); ok {
		return op
	}
	return predicate.Operator(s)
}

func combinator(s string) predicate.Combinator {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if c, ok := predicate.ParseCombinator(s); ok {
		return c
	}
	return predicate.Combinator(s)
}

func caseSensitivity(s string) predicate.CaseSensitivity {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if cs, ok := predicate.ParseCaseSensitivity(s); ok {
		return cs
	}
	return predicate.CaseSensitivity(s)
}
