package predicate

// Form is the syntactic shape an operator takes in the predicate language.
type Form int

const (
	// FormBinary renders "<receiver> <token> <literal>".
	FormBinary Form = iota
	// FormMethod renders "<receiver>.<token>(<literal>)".
	FormMethod
	// FormMembership renders "<receiver> in (<literals>)".
	FormMembership
	// FormNullCheck renders "<path> == null" / "<path> != null".
	FormNullCheck
	// FormEmptyCheck renders "<guarded-path> == \"\"" / "!= \"\"".
	FormEmptyCheck
	// FormCollection renders "(<array>).Contains(<path>)".
	FormCollection
)

// Resolution is the outcome of resolving an operator for a declared type.
type Resolution struct {
	Form  Form
	Token string

	// Negate prefixes the predicate with "!".
	Negate bool
}

// NeedsLiteral reports whether the resolution consumes a rendered value.
func (r Resolution) NeedsLiteral() bool {
	return r.Form != FormNullCheck && r.Form != FormEmptyCheck
}

// operatorTokens maps operators to predicate language tokens.
var operatorTokens = map[Operator]string{
	OpEquals:         "==",
	OpNotEquals:      "!=",
	OpLessThan:       "<",
	OpLessOrEqual:    "<=",
	OpGreaterThan:    ">",
	OpGreaterOrEqual: ">=",
	OpStartsWith:     "StartsWith",
	OpEndsWith:       "EndsWith",
	OpContains:       "Contains",
	OpDoesNotContain: "Contains",
	OpIn:             "in",
	OpNotIn:          "in",
}

type operatorSet map[Operator]struct{}

func setOf(ops ...Operator) operatorSet {
	s := make(operatorSet, len(ops))
	for _, op := range ops {
		s[op] = struct{}{}
	}
	return s
}

var (
	nullClass  = []Operator{OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty}
	equality   = []Operator{OpEquals, OpNotEquals}
	ordering   = []Operator{OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual}
	membership = []Operator{OpIn, OpNotIn}
	textual    = []Operator{OpStartsWith, OpEndsWith, OpContains, OpDoesNotContain}
)

func concat(groups ...[]Operator) []Operator {
	var out []Operator
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// legalOperators is the (DeclaredType, Operator) legality table.
var legalOperators = map[DeclaredType]operatorSet{
	TypeString:     setOf(concat(equality, textual, membership, nullClass)...),
	TypeInteger:    setOf(concat(equality, ordering, membership, nullClass)...),
	TypeNumber:     setOf(concat(equality, ordering, membership, nullClass)...),
	TypeDate:       setOf(concat(equality, ordering, nullClass)...),
	TypeTime:       setOf(concat(equality, ordering, nullClass)...),
	TypeUUID:       setOf(concat(equality, membership, nullClass)...),
	TypeEnum:       setOf(concat(equality, membership, nullClass)...),
	TypeBoolean:    setOf(concat(equality, nullClass)...),
	TypeCollection: setOf(OpContains, OpDoesNotContain),
}

// IsLegal reports whether op is meaningful for t.
func IsLegal(t DeclaredType, op Operator) bool {
	ops, ok := legalOperators[t]
	if !ok {
		return false
	}
	_, ok = ops[op]
	return ok
}

// LegalOperators returns the operators allowed for t in declaration order.
func LegalOperators(t DeclaredType) []Operator {
	var out []Operator
	for _, op := range operators {
		if IsLegal(t, op) {
			out = append(out, op)
		}
	}
	return out
}

// ResolveOperator maps an operator and declared type to the predicate
// language form and token. Illegal pairs fail with ErrIllegalOperatorForType.
func ResolveOperator(col FilterColumn, op Operator) (Resolution, error) {
	if !IsLegal(col.DeclaredType, op) {
		return Resolution{}, illegalOperator(col, op)
	}

	switch op {
	case OpIsNull, OpIsEmpty:
		if col.DeclaredType == TypeString {
			return Resolution{Form: FormEmptyCheck, Token: "=="}, nil
		}
		return Resolution{Form: FormNullCheck, Token: "=="}, nil
	case OpIsNotNull, OpIsNotEmpty:
		if col.DeclaredType == TypeString {
			return Resolution{Form: FormEmptyCheck, Token: "!="}, nil
		}
		return Resolution{Form: FormNullCheck, Token: "!="}, nil
	}

	token := operatorTokens[op]
	if col.DeclaredType == TypeCollection {
		return Resolution{Form: FormCollection, Token: token, Negate: op == OpDoesNotContain}, nil
	}

	switch op {
	case OpStartsWith, OpEndsWith, OpContains:
		return Resolution{Form: FormMethod, Token: token}, nil
	case OpDoesNotContain:
		return Resolution{Form: FormMethod, Token: token, Negate: true}, nil
	case OpIn:
		return Resolution{Form: FormMembership, Token: token}, nil
	case OpNotIn:
		return Resolution{Form: FormMembership, Token: token, Negate: true}, nil
	default:
		return Resolution{Form: FormBinary, Token: token}, nil
	}
}
