package predicate

import (
	"errors"
	"fmt"
	"strings"
)

var errEmptyList = errors.New("no values selected")

// foldCall is appended to both operands of case-insensitive string
// comparisons.
const foldCall = ".ToLower()"

// BuildColumnPredicate builds the predicate of a single column.
// Two-sided columns are wrapped as "(<first> <and|or> <second>)";
// one-sided columns are returned without extra parentheses.
func BuildColumnPredicate(col FilterColumn, cs CaseSensitivity) (string, error) {
	first, err := buildSide(col, col.Operator, col.PrimaryValue, cs)
	if err != nil {
		return "", err
	}
	if !col.IsTwoSided() {
		return first, nil
	}

	comb := col.columnCombinator()
	if comb != And && comb != Or {
		return "", &CompileError{
			Kind:   ErrInvalidDescriptor,
			Column: col.PropertyPath,
			Err:    fmt.Errorf("unknown column combinator %q", comb),
		}
	}

	second, err := buildSide(col, col.secondaryOperator(), col.SecondaryValue, cs)
	if err != nil {
		return "", err
	}
	return "(" + first + " " + string(comb) + " " + second + ")", nil
}

// buildSide builds one side of a column predicate.
func buildSide(col FilterColumn, op Operator, value any, cs CaseSensitivity) (string, error) {
	res, err := ResolveOperator(col, op)
	if err != nil {
		return "", err
	}

	path := receiverPath(col.PropertyPath)
	switch res.Form {
	case FormNullCheck:
		return path + " " + res.Token + " null", nil
	case FormEmptyCheck:
		return guardPath(path) + " " + res.Token + ` ""`, nil
	case FormCollection:
		return buildMembership(col, res, path, value, cs)
	}

	fold := cs == CaseInsensitive && col.DeclaredType == TypeString
	receiver := path
	if col.DeclaredType == TypeString {
		receiver = guardPath(path)
		if fold {
			receiver += foldCall
		}
	}

	if res.Form == FormMembership {
		lits, err := renderEach(col, col.DeclaredType, value, fold)
		if err != nil {
			return "", err
		}
		expr := receiver + " " + res.Token + " (" + strings.Join(lits, ", ") + ")"
		if res.Negate {
			return "!(" + expr + ")", nil
		}
		return expr, nil
	}

	lit, err := RenderLiteral(col, value)
	if err != nil {
		return "", err
	}
	if fold {
		lit += foldCall
	}

	if res.Form == FormMethod {
		expr := receiver + "." + res.Token + "(" + lit + ")"
		if res.Negate {
			return "!" + expr, nil
		}
		return expr, nil
	}
	return receiver + " " + res.Token + " " + lit, nil
}

// buildMembership renders Contains/DoesNotContain of a collection column.
//
// For a single-valued property the property is tested for membership in
// the selected values. A collection property is tested for containing any
// of the selected values.
func buildMembership(col FilterColumn, res Resolution, path string, value any, cs CaseSensitivity) (string, error) {
	elemType := elementType(col)

	if col.Property.Collection {
		lits, err := renderEach(col, elemType, value, false)
		if err != nil {
			return "", err
		}
		checks := make([]string, len(lits))
		for i, lit := range lits {
			checks[i] = path + "." + res.Token + "(" + lit + ")"
		}
		expr := checks[0]
		if len(checks) > 1 {
			expr = "(" + strings.Join(checks, " or ") + ")"
		}
		if res.Negate {
			return "!" + expr, nil
		}
		return expr, nil
	}

	fold := cs == CaseInsensitive && elemType == TypeString
	lits, err := renderEach(col, elemType, value, fold)
	if err != nil {
		return "", err
	}
	receiver := path
	if fold {
		receiver = guardPath(path) + foldCall
	}
	expr := "(" + arrayLiteral(lits) + ")." + res.Token + "(" + receiver + ")"
	if res.Negate {
		return "!" + expr, nil
	}
	return expr, nil
}

// renderEach renders every element of value as a literal of type t.
func renderEach(col FilterColumn, t DeclaredType, value any, fold bool) ([]string, error) {
	values := listValues(value)
	if len(values) == 0 {
		return nil, unparseable(col, t, value, errEmptyList)
	}
	lits := make([]string, 0, len(values))
	for _, v := range values {
		lit, err := renderValue(col, t, v)
		if err != nil {
			return nil, err
		}
		if fold {
			lit += foldCall
		}
		lits = append(lits, lit)
	}
	return lits, nil
}

// receiverPath parenthesizes dotted paths so the evaluator binds the
// following member call to the whole chain.
func receiverPath(path string) string {
	if strings.Contains(path, ".") {
		return "(" + path + ")"
	}
	return path
}

// guardPath substitutes the empty string for a null string property.
func guardPath(path string) string {
	return "(" + path + ` == null ? "" : ` + path + ")"
}

func arrayLiteral(elems []string) string {
	return "new []{" + strings.Join(elems, ", ") + "}"
}
