package predicate

import "strings"

// DeclaredType identifies the value domain of a filtered property.
type DeclaredType string

const (
	TypeString     DeclaredType = "string"
	TypeInteger    DeclaredType = "integer"
	TypeNumber     DeclaredType = "number"
	TypeBoolean    DeclaredType = "boolean"
	TypeDate       DeclaredType = "date"
	TypeTime       DeclaredType = "time"
	TypeUUID       DeclaredType = "uuid"
	TypeEnum       DeclaredType = "enum"
	TypeCollection DeclaredType = "collection"
)

// declaredTypes lists every DeclaredType in a stable order.
var declaredTypes = []DeclaredType{
	TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeDate,
	TypeTime, TypeUUID, TypeEnum, TypeCollection,
}

// DeclaredTypes returns all declared types.
func DeclaredTypes() []DeclaredType {
	return append([]DeclaredType(nil), declaredTypes...)
}

// typeAliases maps names used by grids, schemas and host languages to
// canonical declared types.
var typeAliases = map[string]DeclaredType{
	"string":    TypeString,
	"text":      TypeString,
	"varchar":   TypeString,
	"char":      TypeString,
	"integer":   TypeInteger,
	"int":       TypeInteger,
	"int16":     TypeInteger,
	"int32":     TypeInteger,
	"int64":     TypeInteger,
	"long":      TypeInteger,
	"short":     TypeInteger,
	"bigint":    TypeInteger,
	"number":    TypeNumber,
	"float":     TypeNumber,
	"double":    TypeNumber,
	"decimal":   TypeNumber,
	"numeric":   TypeNumber,
	"boolean":   TypeBoolean,
	"bool":      TypeBoolean,
	"date":      TypeDate,
	"datetime":  TypeDate,
	"timestamp": TypeDate,
	"time":      TypeTime,
	"duration":  TypeTime,
	"timespan":  TypeTime,
	"uuid":      TypeUUID,
	"guid":      TypeUUID,
	"enum":      TypeEnum,
	"array":     TypeCollection,
	"list":      TypeCollection,
	"set":       TypeCollection,
}

// ParseDeclaredType returns the canonical DeclaredType for name.
// Matching is case-insensitive and accepts common aliases.
func ParseDeclaredType(name string) (DeclaredType, bool) {
	t, ok := typeAliases[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// IsValid reports whether t is one of the declared types.
func (t DeclaredType) IsValid() bool {
	for _, dt := range declaredTypes {
		if dt == t {
			return true
		}
	}
	return false
}

// Format refines a DeclaredType.
type Format string

const (
	FormatNone     Format = ""
	FormatDateTime Format = "date-time"
	FormatDate     Format = "date"
	FormatTime     Format = "time"
)

// Operator is an abstract grid filter operator.
type Operator string

const (
	OpEquals         Operator = "Equals"
	OpNotEquals      Operator = "NotEquals"
	OpLessThan       Operator = "LessThan"
	OpLessOrEqual    Operator = "LessOrEqual"
	OpGreaterThan    Operator = "GreaterThan"
	OpGreaterOrEqual Operator = "GreaterOrEqual"
	OpStartsWith     Operator = "StartsWith"
	OpEndsWith       Operator = "EndsWith"
	OpContains       Operator = "Contains"
	OpDoesNotContain Operator = "DoesNotContain"
	OpIn             Operator = "In"
	OpNotIn          Operator = "NotIn"
	OpIsNull         Operator = "IsNull"
	OpIsNotNull      Operator = "IsNotNull"
	OpIsEmpty        Operator = "IsEmpty"
	OpIsNotEmpty     Operator = "IsNotEmpty"
)

var operators = []Operator{
	OpEquals, OpNotEquals, OpLessThan, OpLessOrEqual, OpGreaterThan,
	OpGreaterOrEqual, OpStartsWith, OpEndsWith, OpContains, OpDoesNotContain,
	OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty,
}

// Operators returns all operators.
func Operators() []Operator {
	return append([]Operator(nil), operators...)
}

// ParseOperator returns the Operator named by s, ignoring case.
// Symbolic spellings ("=", "!=", "<", ...) are accepted as well.
func ParseOperator(s string) (Operator, bool) {
	s = strings.TrimSpace(s)
	switch s {
	case "=", "==", "eq":
		return OpEquals, true
	case "!=", "<>", "ne":
		return OpNotEquals, true
	case "<", "lt":
		return OpLessThan, true
	case "<=", "le":
		return OpLessOrEqual, true
	case ">", "gt":
		return OpGreaterThan, true
	case ">=", "ge":
		return OpGreaterOrEqual, true
	}
	for _, op := range operators {
		if strings.EqualFold(string(op), s) {
			return op, true
		}
	}
	return "", false
}

// IsNullClass reports whether the operator needs no literal value.
func (o Operator) IsNullClass() bool {
	switch o {
	case OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty:
		return true
	}
	return false
}

// Combinator joins predicates.
type Combinator string

const (
	And Combinator = "and"
	Or  Combinator = "or"
)

// ParseCombinator parses "and"/"or" ignoring case.
func ParseCombinator(s string) (Combinator, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "&&":
		return And, true
	case "or", "||":
		return Or, true
	}
	return "", false
}

// CaseSensitivity controls string comparisons.
type CaseSensitivity string

const (
	CaseSensitive   CaseSensitivity = "sensitive"
	CaseInsensitive CaseSensitivity = "insensitive"
)

// ParseCaseSensitivity parses a case sensitivity mode ignoring case.
// Both "insensitive" and "caseinsensitive" spellings are accepted.
func ParseCaseSensitivity(s string) (CaseSensitivity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sensitive", "casesensitive", "default":
		return CaseSensitive, true
	case "insensitive", "caseinsensitive":
		return CaseInsensitive, true
	}
	return "", false
}

// EnumMember is one named value of an enumeration.
type EnumMember struct {
	Name  string
	Value int64
}

// Property is what an Accessor knows about a property path.
type Property struct {
	// Path is the dotted accessor string the property was resolved from.
	Path string

	// Type is the scalar type of the property. For collection
	// properties it is the element type.
	Type DeclaredType

	// Format refines Type (e.g. a date-only column).
	Format Format

	Nullable bool

	// OffsetAware marks date properties that carry a UTC offset.
	// They use the DateTimeOffset literal constructor.
	OffsetAware bool

	// Collection marks multi-valued properties.
	Collection bool

	// Enum lists members of enum-typed properties.
	Enum []EnumMember
}

// Accessor resolves property paths of one entity type.
// Implementations MUST be goroutine-safe.
type Accessor interface {
	// Resolve returns the property addressed by a dotted path.
	// Returns an error if the path does not exist on the entity.
	Resolve(path string) (Property, error)
}

// AccessorFunc adapts a function to the Accessor interface.
type AccessorFunc func(path string) (Property, error)

// Resolve calls f(path).
func (f AccessorFunc) Resolve(path string) (Property, error) { return f(path) }

// FilterColumn is the canonical filter state of one grid column.
type FilterColumn struct {
	PropertyPath string
	DeclaredType DeclaredType

	// ElementType is the type of the selected values of a
	// collection-typed column.
	ElementType DeclaredType

	Format            Format
	Operator          Operator
	PrimaryValue      any
	SecondaryValue    any
	SecondaryOperator Operator
	ColumnCombinator  Combinator
	Filterable        bool

	// Property holds accessor metadata (offset awareness, enum members...).
	Property Property
}

// secondaryOperator returns the operator applied to SecondaryValue.
func (c FilterColumn) secondaryOperator() Operator {
	if c.SecondaryOperator == "" {
		return c.Operator
	}
	return c.SecondaryOperator
}

// columnCombinator returns the combinator of the column's two sides.
func (c FilterColumn) columnCombinator() Combinator {
	if c.ColumnCombinator == "" {
		return And
	}
	return c.ColumnCombinator
}

// IsActive reports whether the column takes part in filtering.
func (c FilterColumn) IsActive() bool {
	if !c.Filterable {
		return false
	}
	return c.Operator.IsNullClass() || hasValue(c.PrimaryValue)
}

// IsTwoSided reports whether the column has a usable secondary side.
func (c FilterColumn) IsTwoSided() bool {
	return hasValue(c.PrimaryValue) && hasValue(c.SecondaryValue)
}

// FilterSet is the filter state of a whole grid for one query.
type FilterSet struct {
	Columns           []FilterColumn
	DefaultCombinator Combinator
	CaseSensitivity   CaseSensitivity
}

// CompiledPredicate is the compiler output.
// An empty Text means "no filtering".
type CompiledPredicate struct {
	Text string
}

// IsEmpty reports whether the predicate matches everything.
func (p CompiledPredicate) IsEmpty() bool { return p.Text == "" }

func (p CompiledPredicate) String() string { return p.Text }
