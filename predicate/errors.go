package predicate

import (
	"errors"
	"fmt"
)

// Compile error kinds.
var (
	// ErrUnresolvablePropertyPath indicates a column path does not exist
	// on the target entity type.
	ErrUnresolvablePropertyPath = errors.New("unresolvable property path")

	// ErrUnparseableLiteral indicates a value cannot be parsed for the
	// declared type of its column.
	ErrUnparseableLiteral = errors.New("unparseable literal")

	// ErrIllegalOperatorForType indicates an operator that is not meaningful
	// for the declared type of its column.
	ErrIllegalOperatorForType = errors.New("illegal operator for type")

	// ErrInvalidDescriptor indicates a descriptor that names an unknown
	// operator, type or combinator.
	ErrInvalidDescriptor = errors.New("invalid filter descriptor")
)

// CompileError describes why a filter set could not be compiled.
// errors.Is matches the Kind sentinel.
type CompileError struct {
	Kind     error
	Column   string
	Operator Operator
	Type     DeclaredType
	Value    any
	Err      error
}

func (e *CompileError) Error() string {
	msg := "predicate: " + e.Kind.Error()
	if e.Column != "" {
		msg += fmt.Sprintf(" in column %q", e.Column)
	}
	switch e.Kind {
	case ErrIllegalOperatorForType:
		msg += fmt.Sprintf(": operator %s is not supported for %s", e.Operator, e.Type)
	case ErrUnparseableLiteral:
		msg += fmt.Sprintf(": value %q is not a valid %s", fmt.Sprint(e.Value), e.Type)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the kind of this error.
func (e *CompileError) Is(target error) bool {
	return target == e.Kind
}

func (e *CompileError) Unwrap() error { return e.Err }

func unparseable(col FilterColumn, t DeclaredType, value any, cause error) error {
	return &CompileError{
		Kind:   ErrUnparseableLiteral,
		Column: col.PropertyPath,
		Type:   t,
		Value:  value,
		Err:    cause,
	}
}

func illegalOperator(col FilterColumn, op Operator) error {
	return &CompileError{
		Kind:     ErrIllegalOperatorForType,
		Column:   col.PropertyPath,
		Operator: op,
		Type:     col.DeclaredType,
	}
}
