package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"strconv"
	"strings"

	"github.com/wkalt/fbc/ir"
	"github.com/wkalt/fbc/util"
)

/*
The go target emits one package per declared namespace: an integer type with
constants for each enum, positioned accessors for structs, vtable-aware
accessors and builder helpers for tables, and client stubs plus a server
interface for each rpc_service. Output is formatted with go/format, so a
generation bug that produces unparseable code fails loudly here rather than
at the consumer's build.

Each namespace becomes a directory (segments joined by "/") whose package is
named after the last segment; declarations with no namespace land in the
package named by Options.Package. References across namespaces compile to
imports between the generated packages, rooted at Options.Module.
*/

////////////////////////////////////////////////////////////////////////////////

func init() { // nolint:gochecknoinits
	register(goTarget{})
}

const runtimePath = "github.com/wkalt/fbc/flatbuf"

const rpcPath = "github.com/wkalt/fbc/rpc"

type goTarget struct{}

func (goTarget) Name() string { return "go" }

func (goTarget) Generate(schema *ir.Schema, opts Options) ([]File, error) {
	rootPkg := util.When(opts.Package != "", opts.Package, "schema")

	// One group per namespace, in order of first appearance.
	var order []string
	groups := map[string][]ir.Ref{}
	for ref, decl := range schema.Decls {
		ns := decl.Base().Namespace
		if _, ok := groups[ns]; !ok {
			order = append(order, ns)
		}
		groups[ns] = append(groups[ns], ir.Ref(ref))
	}

	var files []File
	for _, ns := range order {
		g := &gogen{
			schema:   schema,
			ns:       ns,
			rootPkg:  rootPkg,
			imports:  map[string]bool{},
			external: map[string]bool{},
		}
		if err := g.run(groups[ns]); err != nil {
			return nil, err
		}
		if len(g.external) > 0 && opts.Module == "" {
			return nil, fmt.Errorf(
				"package %s references other namespaces; set a module import path", g.pkgName(ns))
		}

		var out bytes.Buffer
		fmt.Fprintf(&out, "// Code generated by fbc. DO NOT EDIT.\n\npackage %s\n\n", g.pkgName(ns))
		if len(g.imports)+len(g.external) > 0 {
			fmt.Fprintf(&out, "import (\n")
			for _, p := range util.Okeys(g.imports) {
				fmt.Fprintf(&out, "\t%q\n", p)
			}
			for _, ext := range util.Okeys(g.external) {
				fmt.Fprintf(&out, "\t%s %q\n", g.alias(ext), path.Join(opts.Module, g.dirName(ext)))
			}
			fmt.Fprintf(&out, ")\n\n")
		}
		out.Write(g.buf.Bytes())

		src, err := format.Source(out.Bytes())
		if err != nil {
			return nil, fmt.Errorf("generated code does not parse: %w", err)
		}
		files = append(files, File{
			Path:    path.Join(g.dirName(ns), g.pkgName(ns)+"_generated.go"),
			Content: src,
		})
	}
	return files, nil
}

// exportName converts a schema identifier to an exported Go identifier.
func exportName(s string) string {
	parts := strings.Split(s, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

func unexportName(s string) string {
	name := exportName(s)
	return strings.ToLower(name[:1]) + name[1:]
}

type gogen struct {
	schema  *ir.Schema
	ns      string
	rootPkg string
	buf     bytes.Buffer

	// stdlib and runtime import paths
	imports map[string]bool
	// namespaces of declarations referenced from this package
	external map[string]bool
}

func (g *gogen) pkgName(ns string) string {
	if ns == "" {
		return g.rootPkg
	}
	parts := strings.Split(ns, ".")
	return parts[len(parts)-1]
}

func (g *gogen) dirName(ns string) string {
	if ns == "" {
		return g.rootPkg
	}
	return strings.ReplaceAll(ns, ".", "/")
}

func (g *gogen) alias(ns string) string {
	if ns == "" {
		return strings.ToLower(g.rootPkg)
	}
	return strings.ToLower(strings.ReplaceAll(ns, ".", "_"))
}

// typeName returns the Go type name for ref, qualified by a package alias when
// the declaration lives in another namespace.
func (g *gogen) typeName(ref ir.Ref) string {
	base := g.schema.Decl(ref).Base()
	name := exportName(base.Name)
	if base.Namespace == g.ns {
		return name
	}
	g.external[base.Namespace] = true
	return g.alias(base.Namespace) + "." + name
}

// getter returns the (possibly qualified) GetRootAs function name for a table.
func (g *gogen) getter(ref ir.Ref) string {
	base := g.schema.Decl(ref).Base()
	fn := "GetRootAs" + exportName(base.Name)
	if base.Namespace == g.ns {
		return fn
	}
	g.external[base.Namespace] = true
	return g.alias(base.Namespace) + "." + fn
}

func (g *gogen) pf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *gogen) docs(docs []string, indent string) {
	for _, line := range docs {
		g.pf("%s// %s\n", indent, line)
	}
}

func (g *gogen) run(refs []ir.Ref) error {
	for _, ref := range refs {
		var err error
		switch d := g.schema.Decl(ref).(type) {
		case *ir.Enum:
			g.genEnum(ref, d)
		case *ir.Union:
			// The value accessor lives on the owning table; the
			// discriminant enum is generated like any other.
		case *ir.Struct:
			g.genStruct(ref, d)
		case *ir.Table:
			g.genTable(ref, d)
		case *ir.Service:
			err = g.genService(ref, d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// enums

func (g *gogen) genEnum(ref ir.Ref, e *ir.Enum) {
	name := g.typeName(ref)
	base := scalarGoType(e.BaseType)
	g.docs(e.Docs, "")
	g.pf("type %s %s\n\n", name, base)
	if len(e.Values) > 0 {
		g.pf("const (\n")
		for _, v := range e.Values {
			g.docs(v.Docs, "\t")
			g.pf("\t%s%s %s = %d\n", name, exportName(v.Name), name, v.Value)
		}
		g.pf(")\n\n")
	}

	g.imports["fmt"] = true
	g.pf("func (v %s) String() string {\n\tswitch v {\n", name)
	for _, v := range e.Values {
		g.pf("\tcase %s%s:\n\t\treturn %q\n", name, exportName(v.Name), v.Name)
	}
	g.pf("\t}\n\treturn fmt.Sprintf(\"%s(%%d)\", %s(v))\n}\n\n", name, base)

	g.pf("// %sFromValue returns the member for v, or false for values outside the\n", name)
	g.pf("// declared set.\n")
	g.pf("func %sFromValue(v %s) (%s, bool) {\n\tswitch v {\n", name, base, name)
	for _, v := range e.Values {
		g.pf("\tcase %d:\n", v.Value)
		g.pf("\t\treturn %s%s, true\n", name, exportName(v.Name))
	}
	g.pf("\t}\n\treturn 0, false\n}\n\n")
}

////////////////////////////////////////////////////////////////////////////////
// structs

type structLeaf struct {
	name   string // flattened parameter name
	typ    ir.Type
	kind   ir.TypeKind
	offset int
}

// structLeaves flattens nested struct fields into scalar leaves with absolute
// offsets, in declaration order.
func (g *gogen) structLeaves(st *ir.Struct, prefix string, base int) []structLeaf {
	var leaves []structLeaf
	for _, f := range st.Fields {
		name := f.Name
		if prefix != "" {
			name = prefix + "_" + f.Name
		}
		if g.schema.IsStruct(f.Type) {
			nested := g.schema.Struct(f.Type.Ref)
			leaves = append(leaves, g.structLeaves(nested, name, base+f.Offset)...)
			continue
		}
		kind, _ := g.schema.ScalarKind(f.Type)
		leaves = append(leaves, structLeaf{
			name:   name,
			typ:    f.Type,
			kind:   kind,
			offset: base + f.Offset,
		})
	}
	return leaves
}

func (g *gogen) genStruct(ref ir.Ref, st *ir.Struct) {
	name := g.typeName(ref)
	g.imports[runtimePath] = true
	g.docs(st.Docs, "")
	g.pf("type %s struct {\n\tflatbuf.Table\n}\n\n", name)
	g.pf("func (rcv *%s) Init(buf []byte, pos flatbuf.UOffset) {\n", name)
	g.pf("\trcv.Buf = buf\n\trcv.Pos = pos\n}\n\n")

	for _, f := range st.Fields {
		g.docs(f.Docs, "")
		if g.schema.IsStruct(f.Type) {
			nested := g.typeName(f.Type.Ref)
			g.pf("func (rcv *%s) %s(obj *%s) *%s {\n", name, exportName(f.Name), nested, nested)
			g.pf("\tif obj == nil {\n\t\tobj = new(%s)\n\t}\n", nested)
			g.pf("\tobj.Init(rcv.Buf, rcv.Pos+%d)\n\treturn obj\n}\n\n", f.Offset)
			continue
		}
		kind, _ := g.schema.ScalarKind(f.Type)
		g.pf("func (rcv *%s) %s() %s {\n", name, exportName(f.Name), g.goType(f.Type))
		g.pf("\treturn %s\n}\n\n", g.castEnum(f.Type, fmt.Sprintf("flatbuf.%s(rcv.Buf, rcv.Pos+%d)", getFunc(kind), f.Offset)))
	}

	// Create pushes the struct inline at the current write position, nested
	// structs flattened into leaf parameters.
	leaves := g.structLeaves(st, "", 0)
	params := util.Map(func(leaf structLeaf) string {
		return fmt.Sprintf("%s %s", unexportName(leaf.name), g.goType(leaf.typ))
	}, leaves)
	g.pf("func Create%s(b *flatbuf.Builder%s) flatbuf.UOffset {\n", name, joinParams(params))
	g.pf("\tb.Prep(%d, %d)\n", st.Align, st.Size)
	cur := st.Size
	for i := len(leaves) - 1; i >= 0; i-- {
		leaf := leaves[i]
		if pad := cur - (leaf.offset + leaf.kind.Width()); pad > 0 {
			g.pf("\tb.Pad(%d)\n", pad)
		}
		arg := unexportName(leaf.name)
		if g.schema.IsEnum(leaf.typ) {
			arg = fmt.Sprintf("%s(%s)", scalarGoType(leaf.kind), arg)
		}
		g.pf("\tb.%s(%s)\n", prependFunc(leaf.kind), arg)
		cur = leaf.offset
	}
	g.pf("\treturn b.Offset()\n}\n\n")
}

////////////////////////////////////////////////////////////////////////////////
// tables

func (g *gogen) genTable(ref ir.Ref, t *ir.Table) {
	name := g.typeName(ref)
	g.imports[runtimePath] = true
	g.docs(t.Docs, "")
	g.pf("type %s struct {\n\tflatbuf.Table\n}\n\n", name)

	g.pf("func GetRootAs%s(buf []byte) *%s {\n", name, name)
	g.pf("\tx := &%s{}\n\tx.Table = flatbuf.GetRoot(buf)\n\treturn x\n}\n\n", name)
	g.pf("func (rcv *%s) Init(buf []byte, pos flatbuf.UOffset) {\n", name)
	g.pf("\trcv.Buf = buf\n\trcv.Pos = pos\n}\n\n")

	g.genVTConsts(name, t)

	for _, f := range t.Fields {
		if f.Deprecated {
			continue
		}
		g.genTableAccessor(name, f)
	}

	g.genTableBuilders(name, t)

	if g.schema.Root == ref {
		g.genFinish(name)
	}
}

func (g *gogen) genVTConsts(name string, t *ir.Table) {
	if len(t.Fields) == 0 {
		return
	}
	g.pf("const (\n")
	for _, f := range t.Fields {
		if g.schema.IsUnion(f.Type) {
			g.pf("\t%sVT%sType flatbuf.VOffset = %d\n",
				unexportName(name), exportName(f.Name), 4+2*(f.Slot-1))
		}
		g.pf("\t%sVT%s flatbuf.VOffset = %d\n",
			unexportName(name), exportName(f.Name), 4+2*f.Slot)
	}
	g.pf(")\n\n")
}

func (g *gogen) vtConst(name string, f ir.TableField) string {
	return fmt.Sprintf("%sVT%s", unexportName(name), exportName(f.Name))
}

func (g *gogen) genTableAccessor(name string, f ir.TableField) {
	method := exportName(f.Name)
	vt := g.vtConst(name, f)
	g.docs(f.Docs, "")

	if kind, ok := g.schema.ScalarKind(f.Type); ok {
		g.pf("func (rcv *%s) %s() %s {\n", name, method, g.goType(f.Type))
		call := fmt.Sprintf("rcv.%s(%s, %s)", slotFunc(kind), vt, g.defaultLiteral(f.Default, kind))
		g.pf("\treturn %s\n}\n\n", g.castEnum(f.Type, call))
		return
	}

	switch {
	case f.Type.Kind == ir.String:
		g.pf("func (rcv *%s) %s() string {\n", name, method)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\treturn rcv.Table.String(rcv.Pos + flatbuf.UOffset(o))\n\t}\n")
		g.pf("\treturn \"\"\n}\n\n")
	case f.Type.Kind == ir.Vector:
		g.genVectorAccessor(name, f, vt)
	case g.schema.IsStruct(f.Type):
		obj := g.typeName(f.Type.Ref)
		g.pf("func (rcv *%s) %s(obj *%s) *%s {\n", name, method, obj, obj)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\tif obj == nil {\n\t\t\tobj = new(%s)\n\t\t}\n", obj)
		g.pf("\t\tobj.Init(rcv.Buf, rcv.Pos+flatbuf.UOffset(o))\n\t\treturn obj\n\t}\n")
		g.pf("\treturn nil\n}\n\n")
	case g.schema.IsTable(f.Type):
		obj := g.typeName(f.Type.Ref)
		g.pf("func (rcv *%s) %s(obj *%s) *%s {\n", name, method, obj, obj)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\tif obj == nil {\n\t\t\tobj = new(%s)\n\t\t}\n", obj)
		g.pf("\t\tobj.Init(rcv.Buf, rcv.Indirect(rcv.Pos+flatbuf.UOffset(o)))\n\t\treturn obj\n\t}\n")
		g.pf("\treturn nil\n}\n\n")
	case g.schema.IsUnion(f.Type):
		union := g.schema.Union(f.Type.Ref)
		discEnum := g.typeName(union.Enum)
		g.pf("func (rcv *%s) %sType() %s {\n", name, method, discEnum)
		g.pf("\treturn %s(rcv.Uint8Slot(%sType, 0))\n}\n\n", discEnum, vt)
		g.pf("func (rcv *%s) %s(obj *flatbuf.Table) bool {\n", name, method)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\trcv.Union(obj, rcv.Pos+flatbuf.UOffset(o))\n\t\treturn true\n\t}\n")
		g.pf("\treturn false\n}\n\n")
	}
}

func (g *gogen) genVectorAccessor(name string, f ir.TableField, vt string) {
	method := exportName(f.Name)
	elem := *f.Type.Elem
	stride := g.schema.InlineSize(elem)

	g.pf("func (rcv *%s) %sLength() int {\n", name, method)
	g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
	g.pf("\t\treturn rcv.VectorLen(rcv.Pos + flatbuf.UOffset(o))\n\t}\n")
	g.pf("\treturn 0\n}\n\n")

	if kind, ok := g.schema.ScalarKind(elem); ok {
		g.pf("func (rcv *%s) %s(j int) %s {\n", name, method, g.goType(elem))
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\ta := rcv.Vector(rcv.Pos + flatbuf.UOffset(o))\n")
		call := fmt.Sprintf("flatbuf.%s(rcv.Buf, a+flatbuf.UOffset(j*%d))", getFunc(kind), stride)
		g.pf("\t\treturn %s\n\t}\n", g.castEnum(elem, call))
		g.pf("\treturn 0\n}\n\n")
		if kind == ir.UInt8 && !g.schema.IsEnum(elem) {
			g.pf("func (rcv *%s) %sBytes() []byte {\n", name, method)
			g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
			g.pf("\t\treturn rcv.ByteVector(rcv.Pos + flatbuf.UOffset(o))\n\t}\n")
			g.pf("\treturn nil\n}\n\n")
		}
		return
	}

	switch {
	case elem.Kind == ir.String:
		g.pf("func (rcv *%s) %s(j int) string {\n", name, method)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\ta := rcv.Vector(rcv.Pos + flatbuf.UOffset(o))\n")
		g.pf("\t\treturn rcv.Table.String(a + flatbuf.UOffset(j*%d))\n\t}\n", stride)
		g.pf("\treturn \"\"\n}\n\n")
	case g.schema.IsStruct(elem):
		obj := g.typeName(elem.Ref)
		g.pf("func (rcv *%s) %s(obj *%s, j int) bool {\n", name, method, obj)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\ta := rcv.Vector(rcv.Pos + flatbuf.UOffset(o))\n")
		g.pf("\t\tobj.Init(rcv.Buf, a+flatbuf.UOffset(j*%d))\n\t\treturn true\n\t}\n", stride)
		g.pf("\treturn false\n}\n\n")
	case g.schema.IsTable(elem):
		obj := g.typeName(elem.Ref)
		g.pf("func (rcv *%s) %s(obj *%s, j int) bool {\n", name, method, obj)
		g.pf("\tif o := rcv.Offset(%s); o != 0 {\n", vt)
		g.pf("\t\ta := rcv.Vector(rcv.Pos + flatbuf.UOffset(o))\n")
		g.pf("\t\tobj.Init(rcv.Buf, rcv.Indirect(a+flatbuf.UOffset(j*%d)))\n\t\treturn true\n\t}\n", stride)
		g.pf("\treturn false\n}\n\n")
	}
}

func (g *gogen) genTableBuilders(name string, t *ir.Table) {
	g.pf("func %sStart(b *flatbuf.Builder) {\n\tb.StartObject(%d)\n}\n\n", name, t.NumSlots())

	for _, f := range t.Fields {
		if f.Deprecated {
			continue
		}
		method := exportName(f.Name)
		if kind, ok := g.schema.ScalarKind(f.Type); ok {
			arg := "v"
			if g.schema.IsEnum(f.Type) {
				arg = fmt.Sprintf("%s(v)", scalarGoType(kind))
			}
			g.pf("func %sAdd%s(b *flatbuf.Builder, v %s) {\n", name, method, g.goType(f.Type))
			g.pf("\tb.%s(%d, %s, %s)\n}\n\n",
				prependSlotFunc(kind), f.Slot, arg, g.defaultLiteral(f.Default, kind))
			continue
		}
		switch {
		case g.schema.IsStruct(f.Type):
			g.pf("func %sAdd%s(b *flatbuf.Builder, v flatbuf.UOffset) {\n", name, method)
			g.pf("\tb.PrependStructSlot(%d, v)\n}\n\n", f.Slot)
		case g.schema.IsUnion(f.Type):
			discEnum := g.typeName(g.schema.Union(f.Type.Ref).Enum)
			g.pf("func %sAdd%sType(b *flatbuf.Builder, v %s) {\n", name, method, discEnum)
			g.pf("\tb.PrependUint8Slot(%d, uint8(v), 0)\n}\n\n", f.Slot-1)
			g.pf("func %sAdd%s(b *flatbuf.Builder, v flatbuf.UOffset) {\n", name, method)
			g.pf("\tb.PrependUOffsetSlot(%d, v)\n}\n\n", f.Slot)
		default:
			g.pf("func %sAdd%s(b *flatbuf.Builder, v flatbuf.UOffset) {\n", name, method)
			g.pf("\tb.PrependUOffsetSlot(%d, v)\n}\n\n", f.Slot)
		}
		if f.Type.Kind == ir.Vector {
			elem := *f.Type.Elem
			g.pf("func %sStart%sVector(b *flatbuf.Builder, numElems int) {\n", name, method)
			g.pf("\tb.StartVector(%d, numElems, %d)\n}\n\n",
				g.schema.InlineSize(elem), g.schema.Alignment(elem))
		}
	}

	g.pf("func %sEnd(b *flatbuf.Builder) flatbuf.UOffset {\n\treturn b.EndObject()\n}\n\n", name)
}

func (g *gogen) genFinish(name string) {
	if id := g.schema.FileIdentifier; id != "" {
		g.pf("// FileIdentifier marks buffers whose root is a %s.\n", name)
		g.pf("const FileIdentifier = %q\n\n", id)
		g.pf("func Finish%sBuffer(b *flatbuf.Builder, root flatbuf.UOffset) {\n", name)
		g.pf("\tb.FinishWithIdentifier(root, FileIdentifier)\n}\n\n")
		g.pf("func %sBufferHasIdentifier(buf []byte) bool {\n", name)
		g.pf("\treturn flatbuf.BufferHasIdentifier(buf, FileIdentifier)\n}\n\n")
		return
	}
	g.pf("func Finish%sBuffer(b *flatbuf.Builder, root flatbuf.UOffset) {\n", name)
	g.pf("\tb.Finish(root)\n}\n\n")
}

////////////////////////////////////////////////////////////////////////////////
// services

func (g *gogen) genService(ref ir.Ref, svc *ir.Service) error {
	name := g.typeName(ref)
	wire := svc.FullName()
	g.imports["context"] = true
	g.imports[rpcPath] = true

	g.docs(svc.Docs, "")
	g.pf("type %sClient struct {\n\tc *rpc.Client\n}\n\n", name)
	g.pf("func New%sClient(c *rpc.Client) *%sClient {\n", name, name)
	g.pf("\treturn &%sClient{c: c}\n}\n\n", name)

	for _, m := range svc.Methods {
		resp := g.typeName(m.Response)
		g.docs(m.Docs, "")
		switch m.Streaming {
		case ir.StreamNone:
			g.pf("func (c *%sClient) %s(ctx context.Context, req []byte) (*%s, error) {\n",
				name, exportName(m.Name), resp)
			g.pf("\tbody, err := c.c.Invoke(ctx, %q, %q, req)\n", wire, m.Name)
			g.pf("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
			g.pf("\treturn %s(body), nil\n}\n\n", g.getter(m.Response))
		case ir.StreamServer:
			stream := fmt.Sprintf("%s%sStream", name, exportName(m.Name))
			g.pf("func (c *%sClient) %s(ctx context.Context, req []byte) (*%s, error) {\n",
				name, exportName(m.Name), stream)
			g.pf("\ts, err := c.c.OpenStream(ctx, %q, %q, req)\n", wire, m.Name)
			g.pf("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
			g.pf("\treturn &%s{s: s}, nil\n}\n\n", stream)
			g.pf("type %s struct {\n\ts *rpc.Stream\n}\n\n", stream)
			g.pf("func (s *%s) Recv() (*%s, error) {\n", stream, resp)
			g.pf("\tmsg, err := s.s.Recv()\n")
			g.pf("\tif err != nil {\n\t\treturn nil, err\n\t}\n")
			g.pf("\treturn %s(msg), nil\n}\n\n", g.getter(m.Response))
			g.pf("func (s *%s) Close() error {\n\treturn s.s.Close()\n}\n\n", stream)
		default:
			return fmt.Errorf("service %s method %s: %s streaming is not supported by the go target",
				wire, m.Name, m.Streaming)
		}
	}

	g.pf("type %sServer interface {\n", name)
	for _, m := range svc.Methods {
		req := g.typeName(m.Request)
		if m.Streaming == ir.StreamServer {
			g.pf("\t%s(ctx context.Context, req *%s, send func([]byte) error) error\n",
				exportName(m.Name), req)
		} else {
			g.pf("\t%s(ctx context.Context, req *%s) ([]byte, error)\n", exportName(m.Name), req)
		}
	}
	g.pf("}\n\n")

	g.pf("func Register%s(srv *rpc.Server, impl %sServer) {\n", name, name)
	for _, m := range svc.Methods {
		if m.Streaming == ir.StreamServer {
			g.pf("\tsrv.Stream(%q, %q, func(ctx context.Context, body []byte, send func([]byte) error) error {\n",
				wire, m.Name)
			g.pf("\t\treturn impl.%s(ctx, %s(body), send)\n\t})\n", exportName(m.Name), g.getter(m.Request))
		} else {
			g.pf("\tsrv.Unary(%q, %q, func(ctx context.Context, body []byte) ([]byte, error) {\n",
				wire, m.Name)
			g.pf("\t\treturn impl.%s(ctx, %s(body))\n\t})\n", exportName(m.Name), g.getter(m.Request))
		}
	}
	g.pf("}\n\n")
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// type mapping

func (g *gogen) goType(t ir.Type) string {
	if t.Kind == ir.Named {
		return g.typeName(t.Ref)
	}
	if t.Kind == ir.String {
		return "string"
	}
	return scalarGoType(t.Kind)
}

// castEnum wraps expr in a conversion to the enum's Go type when t is an enum
// reference, and returns it unchanged otherwise.
func (g *gogen) castEnum(t ir.Type, expr string) string {
	if g.schema.IsEnum(t) {
		return fmt.Sprintf("%s(%s)", g.typeName(t.Ref), expr)
	}
	return expr
}

func (g *gogen) defaultLiteral(v ir.Value, kind ir.TypeKind) string {
	switch v.Kind {
	case ir.ValueBool:
		return strconv.FormatBool(v.Bool)
	case ir.ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		if !kind.Signed() && kind != ir.Bool {
			return strconv.FormatUint(uint64(v.Int), 10)
		}
		return strconv.FormatInt(v.Int, 10)
	}
}

func scalarGoType(kind ir.TypeKind) string {
	if kind == ir.Bool {
		return "bool"
	}
	return kind.String()
}

func scalarMethodStem(kind ir.TypeKind) string {
	switch kind {
	case ir.Bool:
		return "Bool"
	case ir.Int8:
		return "Int8"
	case ir.UInt8:
		return "Uint8"
	case ir.Int16:
		return "Int16"
	case ir.UInt16:
		return "Uint16"
	case ir.Int32:
		return "Int32"
	case ir.UInt32:
		return "Uint32"
	case ir.Int64:
		return "Int64"
	case ir.UInt64:
		return "Uint64"
	case ir.Float32:
		return "Float32"
	case ir.Float64:
		return "Float64"
	default:
		panic(fmt.Sprintf("no scalar method for kind %s", kind))
	}
}

func getFunc(kind ir.TypeKind) string {
	return "Get" + scalarMethodStem(kind)
}

func slotFunc(kind ir.TypeKind) string {
	return scalarMethodStem(kind) + "Slot"
}

func prependFunc(kind ir.TypeKind) string {
	return "Prepend" + scalarMethodStem(kind)
}

func prependSlotFunc(kind ir.TypeKind) string {
	return "Prepend" + scalarMethodStem(kind) + "Slot"
}

func joinParams(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return ", " + strings.Join(params, ", ")
}
