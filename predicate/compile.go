package predicate

import "fmt"

// Compile turns a filter set into a single predicate expression.
//
// Inactive columns are skipped. Any failure aborts compilation; there is no
// partial predicate. An empty or fully inactive set compiles to the empty
// predicate, which matches everything.
//
// Compile is a pure function and safe for concurrent use.
func Compile(set FilterSet) (CompiledPredicate, error) {
	comb := set.DefaultCombinator
	if comb == "" {
		comb = Or
	}
	if comb != And && comb != Or {
		return CompiledPredicate{}, &CompileError{
			Kind: ErrInvalidDescriptor,
			Err:  fmt.Errorf("unknown grid combinator %q", comb),
		}
	}

	cs := set.CaseSensitivity
	if cs == "" {
		cs = CaseSensitive
	}

	predicates := make([]string, 0, len(set.Columns))
	for _, col := range set.Columns {
		if !col.IsActive() {
			continue
		}
		p, err := BuildColumnPredicate(col, cs)
		if err != nil {
			return CompiledPredicate{}, err
		}
		predicates = append(predicates, p)
	}

	return CompiledPredicate{Text: Aggregate(predicates, comb)}, nil
}
