package render

import (
	"fmt"
	"sort"
	"strings"
)

// MetaField is one piece of request metadata rendered as a hidden input.
type MetaField struct {
	Name  string
	Value string
}

// Meta builds a MetaField, trimming the name.
func Meta(name string, value any) MetaField {
	return MetaField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// MergeMeta returns a copy of base with fields applied. Empty names are
// dropped and later fields win.
func MergeMeta(base map[string]string, fields ...MetaField) map[string]string {
	out := make(map[string]string, len(base)+len(fields))
	for key, value := range base {
		if key = strings.TrimSpace(key); key != "" {
			out[key] = value
		}
	}
	for _, field := range fields {
		if field.Name != "" {
			out[field.Name] = field.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SortedMeta orders metadata by name for deterministic output.
func SortedMeta(fields map[string]string) []MetaField {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		if strings.TrimSpace(name) != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]MetaField, 0, len(names))
	for _, name := range names {
		out = append(out, MetaField{Name: strings.TrimSpace(name), Value: fields[name]})
	}
	return out
}
