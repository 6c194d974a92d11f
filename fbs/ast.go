package fbs

import "strings"

// String returns the dotted form of the namespace.
func (n Namespace) String() string {
	return strings.Join(n.Parts, ".")
}

// String returns the written form of the type reference.
func (t TypeRef) String() string {
	if t.Vector != nil {
		return "[" + t.Vector.String() + "]"
	}
	return t.Name
}

// IsVector reports whether the reference is a vector type.
func (t TypeRef) IsVector() bool {
	return t.Vector != nil
}

// VariantName returns the name a union variant is referred to by: its alias if
// one was written, otherwise the last segment of its type name.
func (v UnionVal) VariantName() string {
	if v.Alias != nil {
		return *v.Alias
	}
	parts := strings.Split(v.Type, ".")
	return parts[len(parts)-1]
}

// Get returns the value of the named metadata entry, and whether the entry is
// present. Presence without a value (e.g. "deprecated") yields a nil value.
func (m *Metadata) Get(name string) (*MetaValue, bool) {
	if m == nil {
		return nil, false
	}
	for _, entry := range m.Entries {
		if entry.Name == name {
			return entry.Value, true
		}
	}
	return nil, false
}

// CleanDocs strips the comment markers from a run of doc comment tokens,
// returning the documentation text lines.
func CleanDocs(docs []string) []string {
	if len(docs) == 0 {
		return nil
	}
	out := make([]string, len(docs))
	for i, doc := range docs {
		line := strings.TrimPrefix(doc, "///")
		out[i] = strings.TrimPrefix(line, " ")
	}
	return out
}
