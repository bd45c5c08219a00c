package catalog

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/gridfilter/predicate"
)

func TestMetadataValue(t *testing.T) {
	md := arrow.NewMetadata([]string{"logical_type", "enum"}, []string{"enum", "A,B"})

	if got := metadataValue(md, "logical_type"); got != "enum" {
		t.Errorf("expected 'enum', got '%s'", got)
	}
	if got := metadataValue(md, "missing"); got != "" {
		t.Errorf("expected empty value, got '%s'", got)
	}
	if got := metadataValue(arrow.Metadata{}, "enum"); got != "" {
		t.Errorf("expected empty value for empty metadata, got '%s'", got)
	}
}

func TestParseEnumMembers(t *testing.T) {
	tests := []struct {
		name    string
		def     string
		want    []predicate.EnumMember
		wantErr bool
	}{
		{
			name: "empty",
			def:  "",
			want: nil,
		},
		{
			name: "positional",
			def:  "Low, Medium ,High",
			want: []predicate.EnumMember{{Name: "Low", Value: 0}, {Name: "Medium", Value: 1}, {Name: "High", Value: 2}},
		},
		{
			name: "explicit values",
			def:  "Draft=0,Active=1,Archived=5",
			want: []predicate.EnumMember{{Name: "Draft", Value: 0}, {Name: "Active", Value: 1}, {Name: "Archived", Value: 5}},
		},
		{
			name:    "bad value",
			def:     "A=x",
			wantErr: true,
		},
		{
			name:    "empty name",
			def:     "A,,B",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnumMembers(tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d members, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("member %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}
