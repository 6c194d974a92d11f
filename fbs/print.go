package fbs

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Canonical schema printing. Format produces text that reparses to an equal AST,
which is the basis of the parser round-trip tests and of schema normalization
tooling. It is not a comment-preserving formatter: only doc comments survive,
since only they are represented in the AST.
*/

////////////////////////////////////////////////////////////////////////////////

// Format renders the schema in canonical form.
func Format(s *Schema) string {
	w := &printer{}
	for i, decl := range s.Decls {
		if i > 0 {
			w.line("")
		}
		w.decl(decl)
	}
	return w.sb.String()
}

type printer struct {
	sb strings.Builder
}

func (w *printer) line(format string, args ...any) {
	fmt.Fprintf(&w.sb, format+"\n", args...)
}

func (w *printer) docs(indent string, docs []string) {
	for _, doc := range docs {
		w.line("%s%s", indent, doc)
	}
}

func (w *printer) decl(decl Decl) {
	switch d := decl.(type) {
	case Include:
		w.docs("", d.Docs)
		w.line("include %s;", strconv.Quote(d.Path))
	case Namespace:
		w.docs("", d.Docs)
		w.line("namespace %s;", d.String())
	case Attribute:
		w.docs("", d.Docs)
		w.line("attribute %s;", strconv.Quote(d.Name))
	case Enum:
		w.docs("", d.Docs)
		w.line("enum %s : %s%s {", d.Name, d.Base, metadata(d.Metadata))
		for _, v := range d.Values {
			w.docs("  ", v.Docs)
			if v.Value != nil {
				w.line("  %s = %s,", v.Name, *v.Value)
			} else {
				w.line("  %s,", v.Name)
			}
		}
		w.line("}")
	case Union:
		w.docs("", d.Docs)
		w.line("union %s%s {", d.Name, metadata(d.Metadata))
		for _, v := range d.Variants {
			w.docs("  ", v.Docs)
			if v.Alias != nil {
				w.line("  %s: %s,", *v.Alias, v.Type)
			} else {
				w.line("  %s,", v.Type)
			}
		}
		w.line("}")
	case Struct:
		w.docs("", d.Docs)
		w.line("struct %s%s {", d.Name, metadata(d.Metadata))
		w.fields(d.Fields)
		w.line("}")
	case Table:
		w.docs("", d.Docs)
		w.line("table %s%s {", d.Name, metadata(d.Metadata))
		w.fields(d.Fields)
		w.line("}")
	case Rpc:
		w.docs("", d.Docs)
		w.line("rpc_service %s {", d.Name)
		for _, m := range d.Methods {
			w.docs("  ", m.Docs)
			w.line("  %s(%s): %s%s;", m.Name, m.Request, m.Response, metadata(m.Metadata))
		}
		w.line("}")
	case Root:
		w.docs("", d.Docs)
		w.line("root_type %s;", d.Type)
	case FileIdentifier:
		w.docs("", d.Docs)
		w.line("file_identifier %s;", strconv.Quote(d.ID))
	case FileExtension:
		w.docs("", d.Docs)
		w.line("file_extension %s;", strconv.Quote(d.Ext))
	default:
		panic(fmt.Sprintf("unhandled declaration type %T", decl))
	}
}

func (w *printer) fields(fields []Field) {
	for _, f := range fields {
		w.docs("  ", f.Docs)
		var def string
		if f.Default != nil {
			def = " = " + *f.Default
		}
		w.line("  %s: %s%s%s;", f.Name, f.Type.String(), def, metadata(f.Metadata))
	}
}

func metadata(m *Metadata) string {
	if m == nil {
		return ""
	}
	entries := make([]string, len(m.Entries))
	for i, entry := range m.Entries {
		entries[i] = entry.Name
		if entry.Value != nil {
			entries[i] += ": " + metaValue(*entry.Value)
		}
	}
	return " (" + strings.Join(entries, ", ") + ")"
}

func metaValue(v MetaValue) string {
	switch {
	case v.String != nil:
		return strconv.Quote(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	}
	panic("empty metadata value")
}
