package predicate_test

import (
	"fmt"

	"github.com/hugr-lab/gridfilter/predicate"
)

func ExampleCompile() {
	people := predicate.AccessorFunc(func(path string) (predicate.Property, error) {
		switch path {
		case "Age":
			return predicate.Property{Path: "Age", Type: predicate.TypeInteger}, nil
		case "Name":
			return predicate.Property{Path: "Name", Type: predicate.TypeString}, nil
		}
		return predicate.Property{}, predicate.ErrUnresolvablePropertyPath
	})

	set, err := predicate.Normalize(predicate.Request{
		CaseSensitivity: predicate.CaseInsensitive,
		Columns: []predicate.Descriptor{
			predicate.SimpleColumn{Property: "Age", Operator: predicate.OpLessThan, Value: 18,
				SecondOperator: predicate.OpGreaterThan, SecondValue: 65, LogicalOperator: predicate.Or, Filterable: true},
			predicate.SimpleColumn{Property: "Name", Operator: predicate.OpContains, Value: "ann", Filterable: true},
		},
	}, people)
	if err != nil {
		fmt.Println(err)
		return
	}

	p, err := predicate.Compile(set)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(p)
	// Output: (Age < 18 or Age > 65) or (Name == null ? "" : Name).ToLower().Contains("ann".ToLower())
}
