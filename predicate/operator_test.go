package predicate

import (
	"errors"
	"testing"
)

func TestLegalityGrid(t *testing.T) {
	legal := map[DeclaredType][]Operator{
		TypeString: {OpEquals, OpNotEquals, OpStartsWith, OpEndsWith, OpContains, OpDoesNotContain,
			OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeInteger: {OpEquals, OpNotEquals, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual,
			OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeNumber: {OpEquals, OpNotEquals, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual,
			OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeDate: {OpEquals, OpNotEquals, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual,
			OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeTime: {OpEquals, OpNotEquals, OpLessThan, OpLessOrEqual, OpGreaterThan, OpGreaterOrEqual,
			OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeUUID:       {OpEquals, OpNotEquals, OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeEnum:       {OpEquals, OpNotEquals, OpIn, OpNotIn, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeBoolean:    {OpEquals, OpNotEquals, OpIsNull, OpIsNotNull, OpIsEmpty, OpIsNotEmpty},
		TypeCollection: {OpContains, OpDoesNotContain},
	}

	for _, dt := range DeclaredTypes() {
		allowed := make(map[Operator]bool)
		for _, op := range legal[dt] {
			allowed[op] = true
		}
		for _, op := range Operators() {
			t.Run(string(dt)+"/"+string(op), func(t *testing.T) {
				if got := IsLegal(dt, op); got != allowed[op] {
					t.Fatalf("expected IsLegal=%v, got %v", allowed[op], got)
				}

				col := FilterColumn{PropertyPath: "P", DeclaredType: dt}
				res, err := ResolveOperator(col, op)
				if !allowed[op] {
					if !errors.Is(err, ErrIllegalOperatorForType) {
						t.Errorf("expected ErrIllegalOperatorForType, got %v", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if res.Token == "" {
					t.Errorf("expected a token for %s/%s", dt, op)
				}
				if op.IsNullClass() == res.NeedsLiteral() {
					t.Errorf("expected NeedsLiteral=%v", !op.IsNullClass())
				}
			})
		}
	}
}

func TestLegalPairsAlwaysRender(t *testing.T) {
	samples := map[DeclaredType]any{
		TypeString:     "abc",
		TypeInteger:    42,
		TypeNumber:     1.5,
		TypeDate:       "2024-02-03",
		TypeTime:       "01:02:03",
		TypeUUID:       "6f9619ff-8b86-d011-b42d-00c04fc964ff",
		TypeEnum:       3,
		TypeBoolean:    true,
		TypeCollection: []string{"a"},
	}

	for _, dt := range DeclaredTypes() {
		for _, op := range LegalOperators(dt) {
			t.Run(string(dt)+"/"+string(op), func(t *testing.T) {
				col := FilterColumn{
					PropertyPath: "P",
					DeclaredType: dt,
					ElementType:  TypeString,
					Operator:     op,
					PrimaryValue: samples[dt],
					Filterable:   true,
				}
				p, err := BuildColumnPredicate(col, CaseInsensitive)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if p == "" {
					t.Errorf("legal pair %s/%s rendered nothing", dt, op)
				}
			})
		}
	}
}

func TestResolveOperatorForms(t *testing.T) {
	tests := []struct {
		dt     DeclaredType
		op     Operator
		form   Form
		token  string
		negate bool
	}{
		{TypeString, OpIsNull, FormEmptyCheck, "==", false},
		{TypeString, OpIsNotEmpty, FormEmptyCheck, "!=", false},
		{TypeEnum, OpIsNull, FormNullCheck, "==", false},
		{TypeDate, OpIsNotNull, FormNullCheck, "!=", false},
		{TypeInteger, OpEquals, FormBinary, "==", false},
		{TypeNumber, OpGreaterOrEqual, FormBinary, ">=", false},
		{TypeString, OpStartsWith, FormMethod, "StartsWith", false},
		{TypeString, OpDoesNotContain, FormMethod, "Contains", true},
		{TypeUUID, OpIn, FormMembership, "in", false},
		{TypeEnum, OpNotIn, FormMembership, "in", true},
		{TypeCollection, OpContains, FormCollection, "Contains", false},
		{TypeCollection, OpDoesNotContain, FormCollection, "Contains", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.dt)+"/"+string(tt.op), func(t *testing.T) {
			res, err := ResolveOperator(FilterColumn{DeclaredType: tt.dt}, tt.op)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if res.Form != tt.form {
				t.Errorf("expected form %d, got %d", tt.form, res.Form)
			}
			if res.Token != tt.token {
				t.Errorf("expected token '%s', got '%s'", tt.token, res.Token)
			}
			if res.Negate != tt.negate {
				t.Errorf("expected negate %v, got %v", tt.negate, res.Negate)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"equals":     OpEquals,
		"Equals":     OpEquals,
		"=":          OpEquals,
		"<>":         OpNotEquals,
		">=":         OpGreaterOrEqual,
		"isnotempty": OpIsNotEmpty,
		" NotIn ":    OpNotIn,
		"startsWith": OpStartsWith,
	}
	for in, expected := range tests {
		got, ok := ParseOperator(in)
		if !ok {
			t.Errorf("%q: expected ok", in)
			continue
		}
		if got != expected {
			t.Errorf("%q: expected %s, got %s", in, expected, got)
		}
	}

	if _, ok := ParseOperator("between"); ok {
		t.Error("expected 'between' to be rejected")
	}
}
