package predicate

import "strings"

// Aggregate joins non-empty column predicates with the grid-level combinator
// in column order. Each column predicate already carries its own grouping,
// so no parentheses are added.
func Aggregate(predicates []string, comb Combinator) string {
	parts := make([]string, 0, len(predicates))
	for _, p := range predicates {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " "+string(comb)+" ")
}
