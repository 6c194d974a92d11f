package compile

import (
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/wkalt/fbc/fbs"
	"github.com/wkalt/fbc/ir"
)

/*
compile turns parsed schema files into the typed IR. It builds a symbol table
over all namespaces seen in the unit, resolves every written type reference to
an arena index, validates the structural rules (struct composition, union
membership, field ids, defaults, rpc signatures), computes struct layouts, and
returns an immutable ir.Schema.

Semantic errors are collected across the whole unit before compilation aborts,
so one run reports every unresolved type, duplicate name, and bad default at
once. Parse errors remain fatal per file.

Namespace state is threaded explicitly: a namespace directive produces a new
current-namespace value consumed by the declarations that follow it, so
parsing and symbol gathering stay reentrant.
*/

////////////////////////////////////////////////////////////////////////////////

// File is a named schema source.
type File struct {
	Name   string
	Source string
}

// Unit is a parsed schema file.
type Unit struct {
	Name   string
	Schema *fbs.Schema
}

// ParseFiles parses schema sources concurrently, one goroutine per file.
// Results are ordered by input index, so downstream symbol merging is
// deterministic regardless of scheduling. All parse failures are returned
// together.
func ParseFiles(files []File) ([]Unit, error) {
	units := make([]Unit, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file File) {
			defer wg.Done()
			schema, err := fbs.Parse(file.Name, file.Source)
			units[i] = Unit{Name: file.Name, Schema: schema}
			errs[i] = err
		}(i, file)
	}
	wg.Wait()
	var list ErrorList
	for _, err := range errs {
		if err != nil {
			list = append(list, err)
		}
	}
	if len(list) > 0 {
		return nil, list
	}
	return units, nil
}

// Compile resolves and checks a set of parsed schema files, producing the IR
// for code generation. Files joined by include directives should be supplied
// as one unit set; the directives themselves carry no further meaning here.
func Compile(units ...Unit) (*ir.Schema, error) {
	c := &compiler{
		refs: map[string]ir.Ref{},
		out: &ir.Schema{
			RefByName: map[string]ir.Ref{},
			Root:      ir.NoRef,
		},
		attrs: map[string]bool{},
	}
	c.gather(units)
	c.declare()
	c.build()
	c.checkStructCycles()
	c.finishRoot()
	if len(c.errs) > 0 {
		return nil, ErrorList(c.errs)
	}
	return c.out, nil
}

type directive struct {
	pos   lexer.Position
	ns    string
	value string
}

type symbol struct {
	ns   string
	name string
	decl fbs.Decl
	pos  lexer.Position
	ref  ir.Ref
}

func (s *symbol) fullName() string {
	return qualify(s.ns, s.name)
}

type compiler struct {
	errs []error

	syms []*symbol
	refs map[string]ir.Ref
	pos  map[ir.Ref]lexer.Position

	root    *directive
	fileID  *directive
	fileExt *directive
	attrs   map[string]bool

	out *ir.Schema
}

func (c *compiler) errorf(err error) {
	c.errs = append(c.errs, err)
}

func qualify(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// gather walks each unit in order, threading the current namespace, and
// records symbols and file-level directives.
func (c *compiler) gather(units []Unit) {
	for _, unit := range units {
		ns := ""
		for _, decl := range unit.Schema.Decls {
			switch d := decl.(type) {
			case fbs.Namespace:
				ns = d.String()
			case fbs.Include:
				// Includes are resolved by the loader; by the time units
				// arrive here the set is complete.
			case fbs.Attribute:
				c.attrs[d.Name] = true
				c.out.Attributes = append(c.out.Attributes, d.Name)
			case fbs.Root:
				if c.root != nil {
					c.errorf(RootTypeError{Pos: d.Pos, Msg: "multiple root_type declarations"})
					continue
				}
				c.root = &directive{pos: d.Pos, ns: ns, value: d.Type}
			case fbs.FileIdentifier:
				if c.fileID != nil {
					c.errorf(RootTypeError{Pos: d.Pos, Msg: "multiple file_identifier declarations"})
					continue
				}
				c.fileID = &directive{pos: d.Pos, ns: ns, value: d.ID}
			case fbs.FileExtension:
				if c.fileExt != nil {
					c.errorf(RootTypeError{Pos: d.Pos, Msg: "multiple file_extension declarations"})
					continue
				}
				c.fileExt = &directive{pos: d.Pos, ns: ns, value: d.Ext}
			case fbs.Enum:
				c.addSymbol(ns, d.Name, d, d.Pos)
			case fbs.Union:
				c.addSymbol(ns, d.Name, d, d.Pos)
			case fbs.Struct:
				c.addSymbol(ns, d.Name, d, d.Pos)
			case fbs.Table:
				c.addSymbol(ns, d.Name, d, d.Pos)
			case fbs.Rpc:
				c.addSymbol(ns, d.Name, d, d.Pos)
			}
		}
	}
}

func (c *compiler) addSymbol(ns, name string, decl fbs.Decl, pos lexer.Position) {
	sym := &symbol{ns: ns, name: name, decl: decl, pos: pos}
	if _, ok := c.refs[sym.fullName()]; ok {
		c.errorf(DuplicateDeclarationError{Pos: pos, Name: sym.fullName()})
		return
	}
	c.refs[sym.fullName()] = ir.Ref(len(c.syms))
	c.syms = append(c.syms, sym)
}

// declare creates the arena shell for every symbol, so that bodies built
// later can reference declarations in any order. Synthetic union discriminant
// enums are appended after all declared symbols; they are not addressable
// from schema text and so are excluded from the name table used by resolve.
func (c *compiler) declare() {
	c.pos = map[ir.Ref]lexer.Position{}
	for _, sym := range c.syms {
		base := ir.DeclBase{Name: sym.name, Namespace: sym.ns}
		var decl ir.Decl
		switch d := sym.decl.(type) {
		case fbs.Enum:
			base.Docs = fbs.CleanDocs(d.Docs)
			decl = &ir.Enum{DeclBase: base}
		case fbs.Union:
			base.Docs = fbs.CleanDocs(d.Docs)
			decl = &ir.Union{DeclBase: base}
		case fbs.Struct:
			base.Docs = fbs.CleanDocs(d.Docs)
			decl = &ir.Struct{DeclBase: base}
		case fbs.Table:
			base.Docs = fbs.CleanDocs(d.Docs)
			decl = &ir.Table{DeclBase: base}
		case fbs.Rpc:
			base.Docs = fbs.CleanDocs(d.Docs)
			decl = &ir.Service{DeclBase: base}
		}
		sym.ref = ir.Ref(len(c.out.Decls))
		c.out.Decls = append(c.out.Decls, decl)
		c.out.RefByName[sym.fullName()] = sym.ref
		c.pos[sym.ref] = sym.pos
	}
	for _, sym := range c.syms {
		union, ok := c.out.Decls[sym.ref].(*ir.Union)
		if !ok {
			continue
		}
		hidden := &ir.Enum{
			DeclBase: ir.DeclBase{
				Name:      union.Name + "Type",
				Namespace: union.Namespace,
			},
			BaseType:  ir.UInt8,
			Synthetic: true,
		}
		union.Enum = ir.Ref(len(c.out.Decls))
		c.out.Decls = append(c.out.Decls, hidden)
		c.out.RefByName[hidden.FullName()] = union.Enum
	}
}

// resolve maps a written type reference seen inside namespace ns to a
// declaration: the current namespace chain is searched outward, then the
// reference is tried as a fully-qualified path.
func (c *compiler) resolve(ns, written string) (ir.Ref, bool) {
	for cur := ns; ; {
		if ref, ok := c.refs[qualify(cur, written)]; ok {
			return ref, true
		}
		if cur == "" {
			return 0, false
		}
		if idx := strings.LastIndex(cur, "."); idx >= 0 {
			cur = cur[:idx]
		} else {
			cur = ""
		}
	}
}

// resolveType resolves a written TypeRef to an IR type, reporting an
// unresolved-type error on failure.
func (c *compiler) resolveType(ns string, t fbs.TypeRef) (ir.Type, bool) {
	if t.Vector != nil {
		elem, ok := c.resolveType(ns, *t.Vector)
		if !ok {
			return ir.Type{}, false
		}
		return ir.VectorType(elem), true
	}
	if t.Name == "string" {
		return ir.StringType(), true
	}
	if kind, ok := ir.Scalars[t.Name]; ok {
		return ir.ScalarType(kind), true
	}
	ref, ok := c.resolve(ns, t.Name)
	if !ok {
		c.errorf(UnresolvedTypeError{Pos: t.Pos, Name: t.Name})
		return ir.Type{}, false
	}
	return ir.NamedType(ref), true
}

// build fills declaration bodies. Enums are built before tables so that enum
// defaults can be resolved by variant name, and unions before tables so their
// discriminant enums are complete.
func (c *compiler) build() {
	for _, sym := range c.syms {
		if d, ok := sym.decl.(fbs.Enum); ok {
			c.buildEnum(sym, d)
		}
	}
	for _, sym := range c.syms {
		if d, ok := sym.decl.(fbs.Union); ok {
			c.buildUnion(sym, d)
		}
	}
	for _, sym := range c.syms {
		if d, ok := sym.decl.(fbs.Struct); ok {
			c.buildStruct(sym, d)
		}
	}
	for _, sym := range c.syms {
		if d, ok := sym.decl.(fbs.Table); ok {
			c.buildTable(sym, d)
		}
	}
	for _, sym := range c.syms {
		if d, ok := sym.decl.(fbs.Rpc); ok {
			c.buildService(sym, d)
		}
	}
}

// finishRoot resolves the root_type directive and validates the file
// identifier against it.
func (c *compiler) finishRoot() {
	if c.root != nil {
		ref, ok := c.resolve(c.root.ns, c.root.value)
		if !ok {
			c.errorf(UnresolvedTypeError{Pos: c.root.pos, Name: c.root.value})
		} else if _, isTable := c.out.Decls[ref].(*ir.Table); !isTable {
			c.errorf(RootTypeError{
				Pos: c.root.pos,
				Msg: "root_type must name a table, not a " + c.out.Decls[ref].Kind().String(),
			})
		} else {
			c.out.Root = ref
		}
	}
	if c.fileID != nil {
		if len(c.fileID.value) != 4 {
			c.errorf(RootTypeError{Pos: c.fileID.pos, Msg: "file_identifier must be exactly 4 characters"})
		} else if c.root == nil {
			c.errorf(RootTypeError{Pos: c.fileID.pos, Msg: "file_identifier requires a root_type"})
		} else {
			c.out.FileIdentifier = c.fileID.value
		}
	}
	if c.fileExt != nil {
		c.out.FileExtension = c.fileExt.value
	}
}
