package fbs_test

import (
	"reflect"
	"testing"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/fbs"
	"github.com/wkalt/fbc/util"
)

// stripPositions zeroes the lexer positions the parser records, so tests can
// compare trees structurally.
func stripPositions(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			stripPositions(v.Elem())
		}
	case reflect.Interface:
		if !v.IsNil() {
			elem := reflect.New(v.Elem().Type()).Elem()
			elem.Set(v.Elem())
			stripPositions(elem)
			v.Set(elem)
		}
	case reflect.Struct:
		if v.Type() == reflect.TypeOf(lexer.Position{}) {
			v.Set(reflect.Zero(v.Type()))
			return
		}
		for i := 0; i < v.NumField(); i++ {
			stripPositions(v.Field(i))
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			stripPositions(v.Index(i))
		}
	}
}

func stripped(s *fbs.Schema) *fbs.Schema {
	stripPositions(reflect.ValueOf(s))
	return s
}

func typ(name string) fbs.TypeRef {
	return fbs.TypeRef{Name: name}
}

func vec(elem fbs.TypeRef) fbs.TypeRef {
	return fbs.TypeRef{Vector: &elem}
}

func field(name string, t fbs.TypeRef) fbs.Field {
	return fbs.Field{Name: name, Type: t}
}

func meta(entries ...fbs.MetadataEntry) *fbs.Metadata {
	return &fbs.Metadata{Entries: entries}
}

func entry(name string) fbs.MetadataEntry {
	return fbs.MetadataEntry{Name: name}
}

func entryNum(name, value string) fbs.MetadataEntry {
	return fbs.MetadataEntry{Name: name, Value: &fbs.MetaValue{Number: &value}}
}

func entryStr(name, value string) fbs.MetadataEntry {
	return fbs.MetadataEntry{Name: name, Value: &fbs.MetaValue{String: &value}}
}

func schema(decls ...fbs.Decl) *fbs.Schema {
	return &fbs.Schema{Decls: decls}
}

func TestParseDeclarations(t *testing.T) {
	cases := []struct {
		assertion string
		input     string
		expected  *fbs.Schema
	}{
		{
			"empty table",
			`table Empty {}`,
			schema(fbs.Table{Name: "Empty"}),
		},
		{
			"table with scalar and string fields",
			`table HelloRequest { name:string; hp:short = 100; }`,
			schema(fbs.Table{Name: "HelloRequest", Fields: []fbs.Field{
				field("name", typ("string")),
				{Name: "hp", Type: typ("short"), Default: util.Pointer("100")},
			}}),
		},
		{
			"field with metadata",
			`table T { name:string (required, id: 0); }`,
			schema(fbs.Table{Name: "T", Fields: []fbs.Field{
				{Name: "name", Type: typ("string"), Metadata: meta(entry("required"), entryNum("id", "0"))},
			}}),
		},
		{
			"vector and nested vector types",
			`table T { xs:[int]; grid:[[ubyte]]; }`,
			schema(fbs.Table{Name: "T", Fields: []fbs.Field{
				field("xs", vec(typ("int"))),
				field("grid", vec(vec(typ("ubyte")))),
			}}),
		},
		{
			"negative and float defaults",
			`table T { x:int = -1; y:float = 2.5; alive:bool = true; }`,
			schema(fbs.Table{Name: "T", Fields: []fbs.Field{
				{Name: "x", Type: typ("int"), Default: util.Pointer("-1")},
				{Name: "y", Type: typ("float"), Default: util.Pointer("2.5")},
				{Name: "alive", Type: typ("bool"), Default: util.Pointer("true")},
			}}),
		},
		{
			"struct",
			`struct Vec3 { x:float; y:float; z:float; }`,
			schema(fbs.Struct{Name: "Vec3", Fields: []fbs.Field{
				field("x", typ("float")),
				field("y", typ("float")),
				field("z", typ("float")),
			}}),
		},
		{
			"enum with explicit values",
			`enum Color : ubyte { Red, Green = 2, Blue }`,
			schema(fbs.Enum{Name: "Color", Base: "ubyte", Values: []fbs.EnumVal{
				{Name: "Red"},
				{Name: "Green", Value: util.Pointer("2")},
				{Name: "Blue"},
			}}),
		},
		{
			"union with alias and qualified type",
			`union Any { Monster, second: Other.Thing }`,
			schema(fbs.Union{Name: "Any", Variants: []fbs.UnionVal{
				{Type: "Monster"},
				{Alias: util.Pointer("second"), Type: "Other.Thing"},
			}}),
		},
		{
			"namespaces reopen",
			`namespace A.B; table T {} namespace C; table U {}`,
			schema(
				fbs.Namespace{Parts: []string{"A", "B"}},
				fbs.Table{Name: "T"},
				fbs.Namespace{Parts: []string{"C"}},
				fbs.Table{Name: "U"},
			),
		},
		{
			"rpc service with streaming metadata",
			`rpc_service Greeter {
				SayHello(HelloRequest): HelloReply;
				SayManyHellos(ManyHellosRequest): HelloReply (streaming: "server");
			}`,
			schema(fbs.Rpc{Name: "Greeter", Methods: []fbs.RpcMethod{
				{Name: "SayHello", Request: "HelloRequest", Response: "HelloReply"},
				{
					Name: "SayManyHellos", Request: "ManyHellosRequest", Response: "HelloReply",
					Metadata: meta(entryStr("streaming", "server")),
				},
			}}),
		},
		{
			"directives",
			`include "common.fbs";
			attribute "priv";
			root_type Monster;
			file_identifier "MONS";
			file_extension "mon";`,
			schema(
				fbs.Include{Path: "common.fbs"},
				fbs.Attribute{Name: "priv"},
				fbs.Root{Type: "Monster"},
				fbs.FileIdentifier{ID: "MONS"},
				fbs.FileExtension{Ext: "mon"},
			),
		},
		{
			"doc comments attach to declarations and members",
			"/// A monster.\n/// Scary.\ntable Monster {\n/// Health.\nhp:short;\n}",
			schema(fbs.Table{
				Name: "Monster",
				Docs: []string{"/// A monster.", "/// Scary."},
				Fields: []fbs.Field{
					{Name: "hp", Type: typ("short"), Docs: []string{"/// Health."}},
				},
			}),
		},
		{
			"ordinary comments are skipped",
			"// header\ntable T { /* inline */ x:int; }",
			schema(fbs.Table{Name: "T", Fields: []fbs.Field{field("x", typ("int"))}}),
		},
	}
	for _, c := range cases {
		t.Run(c.assertion, func(t *testing.T) {
			parsed, err := fbs.Parse("test.fbs", c.input)
			require.NoError(t, err)
			require.Equal(t, c.expected, stripped(parsed))
		})
	}
}

func TestParsePositions(t *testing.T) {
	parsed, err := fbs.Parse("test.fbs", "table T {}\ntable U {}")
	require.NoError(t, err)
	require.Len(t, parsed.Decls, 2)
	second, ok := parsed.Decls[1].(fbs.Table)
	require.True(t, ok)
	require.Equal(t, "test.fbs", second.Pos.Filename)
	require.Equal(t, 2, second.Pos.Line)
}

func TestCleanDocs(t *testing.T) {
	require.Equal(t, []string{"one", "two"}, fbs.CleanDocs([]string{"/// one", "///two"}))
	require.Nil(t, fbs.CleanDocs(nil))
}
