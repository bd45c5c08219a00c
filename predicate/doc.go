// Package predicate compiles grid filter descriptors into a textual predicate
// for a dynamic expression evaluator (Dynamic LINQ style grammar).
//
// The package is a pure, single pass pipeline:
//   - Normalize reduces raw grid columns (SimpleColumn, DynamicColumn) to
//     canonical FilterColumn values, dropping inactive columns
//   - RenderLiteral turns one typed value into literal text
//   - ResolveOperator maps an operator and declared type to a token and form
//   - BuildColumnPredicate builds the predicate of one column
//   - Aggregate joins column predicates with the grid combinator
//
// # Basic Usage
//
//	set, err := predicate.Normalize(predicate.Request{
//	    Columns: []predicate.Descriptor{
//	        predicate.SimpleColumn{Property: "Age", Operator: predicate.OpGreaterOrEqual,
//	            Value: 18, SecondOperator: predicate.OpLessOrEqual, SecondValue: 65,
//	            LogicalOperator: predicate.And, Filterable: true},
//	    },
//	}, accessor)
//	if err != nil {
//	    return err
//	}
//	p, err := predicate.Compile(set)
//	// p.Text == "(Age >= 18 and Age <= 65)"
//
// # Literals
//
// Strings are double quoted with embedded quotes escaped. Dates render as
// DateTime("2024-01-01") when the time of day is zero and as
// DateTime("2024-01-01T10:30:00.000Z") otherwise; offset-aware properties use
// DateTimeOffset. UUIDs render as Guid("..."), durations as TimeSpan("..."),
// enums as their ordinal and selected value sets as new []{...}.
//
// # Null Safety
//
// String receivers are guarded as (P == null ? "" : P) so a null property
// never fails inside the evaluator. In case-insensitive mode both the
// guarded receiver and the literal are lower-cased.
//
// # Errors
//
// Failures are reported as *CompileError. Use errors.Is with
// ErrUnresolvablePropertyPath, ErrUnparseableLiteral,
// ErrIllegalOperatorForType or ErrInvalidDescriptor to classify them.
// Compilation is all or nothing.
package predicate
