package fbs

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

/*
This file contains a participle grammar for the flatbuffers schema language. A
schema file is an ordered sequence of directives (include, namespace, attribute,
root_type, file_identifier, file_extension) and type declarations (enum, union,
struct, table, rpc_service). Namespace directives are "reopenable": a directive
applies to every declaration that follows it, up to the next directive or end of
file. The parser does not interpret namespaces - it records schema elements in
order and leaves scoping to the compile package.

Doc comments (///) are real tokens, attached to the declaration, field, enum
value, union variant, or rpc method that follows them. Ordinary // and block
comments are elided.

Numeric literals (enum values, field defaults) are kept as raw strings here.
Interpreting them requires knowledge of the field's type, which is resolution
work the parser does not do.
*/

////////////////////////////////////////////////////////////////////////////////

// nolint:gochecknoglobals
var (
	Lexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "DocComment", Pattern: `///[^\n]*`},
		{Name: "comment", Pattern: `//[^\n]*|/\*(?:[^*]|\*+[^*/])*\*+/`},
		{Name: "whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Float", Pattern: `[-+]?[0-9]*\.[0-9]+(?:[eE][-+]?[0-9]+)?`},
		{Name: "Integer", Pattern: `[-+]?(?:0[xX][0-9a-fA-F]+|[0-9]+)`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[{}()\[\];:,=.]`},
	})

	Options = []participle.Option{
		participle.Lexer(Lexer),
		participle.Unquote("String"),
		participle.Union[Decl](
			Include{}, Namespace{}, Attribute{},
			Enum{}, Union{}, Struct{}, Table{}, Rpc{},
			Root{}, FileIdentifier{}, FileExtension{},
		),
		participle.UseLookahead(1000),
	}

	Parser = participle.MustBuild[Schema](Options...)
)

// Schema is the parsed form of a single .fbs file: schema elements in source
// order. It is immutable once parsed.
type Schema struct {
	Decls []Decl `parser:"@@*"`
}

// Decl is a top-level schema element.
type Decl interface{ decl() }

// Include names another schema file whose declarations join this compilation
// unit.
type Include struct {
	Pos  lexer.Position
	Docs []string `parser:"@DocComment*"`
	Path string   `parser:"'include' @String ';'"`
}

// Namespace sets the namespace for all following declarations.
type Namespace struct {
	Pos   lexer.Position
	Docs  []string `parser:"@DocComment*"`
	Parts []string `parser:"'namespace' @Ident ('.' @Ident)* ';'"`
}

// Attribute declares a user-defined attribute name.
type Attribute struct {
	Pos  lexer.Position
	Docs []string `parser:"@DocComment*"`
	Name string   `parser:"'attribute' @String ';'"`
}

// Enum declares an integral enumeration with an explicit base type.
type Enum struct {
	Pos      lexer.Position
	Docs     []string  `parser:"@DocComment*"`
	Name     string    `parser:"'enum' @Ident"`
	Base     string    `parser:"':' @Ident"`
	Metadata *Metadata `parser:"@@?"`
	Values   []EnumVal `parser:"'{' (@@ (',' @@)* ','?)? '}'"`
}

// EnumVal is one enum member, with an optional explicit value.
type EnumVal struct {
	Pos   lexer.Position
	Docs  []string `parser:"@DocComment*"`
	Name  string   `parser:"@Ident"`
	Value *string  `parser:"('=' @Integer)?"`
}

// Union declares a closed set of table alternatives.
type Union struct {
	Pos      lexer.Position
	Docs     []string   `parser:"@DocComment*"`
	Name     string     `parser:"'union' @Ident"`
	Metadata *Metadata  `parser:"@@?"`
	Variants []UnionVal `parser:"'{' @@ (',' @@)* ','? '}'"`
}

// UnionVal is one union alternative, optionally aliased.
type UnionVal struct {
	Pos   lexer.Position
	Docs  []string `parser:"@DocComment*"`
	Alias *string  `parser:"(@Ident ':')?"`
	Type  string   `parser:"@(Ident ('.' Ident)*)"`
}

// Struct declares a fixed-size inline composite.
type Struct struct {
	Pos      lexer.Position
	Docs     []string  `parser:"@DocComment*"`
	Name     string    `parser:"'struct' @Ident"`
	Metadata *Metadata `parser:"@@?"`
	Fields   []Field   `parser:"'{' @@* '}'"`
}

// Table declares a vtable-indirected record with optional fields.
type Table struct {
	Pos      lexer.Position
	Docs     []string  `parser:"@DocComment*"`
	Name     string    `parser:"'table' @Ident"`
	Metadata *Metadata `parser:"@@?"`
	Fields   []Field   `parser:"'{' @@* '}'"`
}

// Field is a struct or table member.
type Field struct {
	Pos      lexer.Position
	Docs     []string  `parser:"@DocComment*"`
	Name     string    `parser:"@Ident ':'"`
	Type     TypeRef   `parser:"@@"`
	Default  *string   `parser:"('=' @(Float | Integer | Ident))?"`
	Metadata *Metadata `parser:"@@? ';'"`
}

// TypeRef is a written type: a vector of a type, or a (possibly dotted) name.
// Scalar type names are not special at parse time.
type TypeRef struct {
	Pos    lexer.Position
	Vector *TypeRef `parser:"'[' @@ ']'"`
	Name   string   `parser:"| @(Ident ('.' Ident)*)"`
}

// Rpc declares a service with request/response methods.
type Rpc struct {
	Pos     lexer.Position
	Docs    []string    `parser:"@DocComment*"`
	Name    string      `parser:"'rpc_service' @Ident"`
	Methods []RpcMethod `parser:"'{' @@* '}'"`
}

// RpcMethod is one service method.
type RpcMethod struct {
	Pos      lexer.Position
	Docs     []string  `parser:"@DocComment*"`
	Name     string    `parser:"@Ident"`
	Request  string    `parser:"'(' @(Ident ('.' Ident)*) ')'"`
	Response string    `parser:"':' @(Ident ('.' Ident)*)"`
	Metadata *Metadata `parser:"@@? ';'"`
}

// Root names the entry-point table of the schema.
type Root struct {
	Pos  lexer.Position
	Docs []string `parser:"@DocComment*"`
	Type string   `parser:"'root_type' @(Ident ('.' Ident)*) ';'"`
}

// FileIdentifier declares the 4-byte buffer identifier.
type FileIdentifier struct {
	Pos  lexer.Position
	Docs []string `parser:"@DocComment*"`
	ID   string   `parser:"'file_identifier' @String ';'"`
}

// FileExtension declares the preferred file extension for buffers.
type FileExtension struct {
	Pos  lexer.Position
	Docs []string `parser:"@DocComment*"`
	Ext  string   `parser:"'file_extension' @String ';'"`
}

// Metadata is a parenthesized attribute list on a declaration or field.
type Metadata struct {
	Entries []MetadataEntry `parser:"'(' @@ (',' @@)* ')'"`
}

// MetadataEntry is one attribute, with an optional value.
type MetadataEntry struct {
	Pos   lexer.Position
	Name  string     `parser:"@Ident"`
	Value *MetaValue `parser:"(':' @@)?"`
}

// MetaValue is an attribute value: a string, number, or identifier.
type MetaValue struct {
	String *string `parser:"@String"`
	Number *string `parser:"| @(Float | Integer)"`
	Ident  *string `parser:"| @Ident"`
}

func (i Include) decl()        {}
func (n Namespace) decl()      {}
func (a Attribute) decl()      {}
func (e Enum) decl()           {}
func (u Union) decl()          {}
func (s Struct) decl()         {}
func (t Table) decl()          {}
func (r Rpc) decl()            {}
func (r Root) decl()           {}
func (f FileIdentifier) decl() {}
func (f FileExtension) decl()  {}
