package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hugr-lab/gridfilter/predicate"
)

// Field metadata keys understood by NewSchemaEntity.
const (
	// MetadataLogicalType overrides the declared type of a field.
	// Recognized values: "uuid", "enum", "date", "time", "duration".
	MetadataLogicalType = "logical_type"

	// MetadataEnum lists enum members as "Name=Value" pairs separated by
	// commas. Members without "=Value" take their position as value.
	MetadataEnum = "enum"

	// MetadataExtensionName is the Arrow IPC extension name key.
	MetadataExtensionName = "ARROW:extension:name"
)

// uuidExtensionName is the canonical Arrow UUID extension.
const uuidExtensionName = "arrow.uuid"

// metadataValue returns the value of key in md, or "" when absent.
//
// Example:
//
//	if metadataValue(field.Metadata, MetadataLogicalType) == "uuid" {
//	    ...
//	}
func metadataValue(md arrow.Metadata, key string) string {
	if md.Len() == 0 {
		return ""
	}
	if idx := md.FindKey(key); idx >= 0 {
		return md.Values()[idx]
	}
	return ""
}

// ParseEnumMembers parses the MetadataEnum value of a field.
// Returns nil for an empty definition.
//
// Example:
//
//	members, err := catalog.ParseEnumMembers("Draft=0,Active=1,Archived=5")
func ParseEnumMembers(def string) ([]predicate.EnumMember, error) {
	def = strings.TrimSpace(def)
	if def == "" {
		return nil, nil
	}
	parts := strings.Split(def, ",")
	members := make([]predicate.EnumMember, 0, len(parts))
	for i, part := range parts {
		name, value, hasValue := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("enum member %d has empty name", i)
		}
		m := predicate.EnumMember{Name: name, Value: int64(i)}
		if hasValue {
			v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("enum member %s: invalid value %q", name, value)
			}
			m.Value = v
		}
		members = append(members, m)
	}
	return members, nil
}
