package ir

import "fmt"

/*
ir is the compiler's intermediate representation. It is produced from the
parsed AST by the compile package and is the sole input to code generation.

Declarations live in a flat arena (Schema.Decls) and refer to each other by
stable integer Ref indexes rather than by name or pointer. Names are resolved
exactly once, during compilation; everything downstream follows indexes. The
whole structure is immutable once compilation returns it, so it may be shared
freely across generator backends running concurrently.
*/

////////////////////////////////////////////////////////////////////////////////

// Ref is an index into the declaration arena.
type Ref int

// NoRef marks an absent reference, e.g. a schema with no root_type.
const NoRef Ref = -1

// DeclKind discriminates the closed set of declaration kinds.
type DeclKind int

const (
	KindEnum DeclKind = iota + 1
	KindUnion
	KindStruct
	KindTable
	KindService
)

func (k DeclKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindStruct:
		return "struct"
	case KindTable:
		return "table"
	case KindService:
		return "rpc_service"
	default:
		return "unknown"
	}
}

// MarshalJSON returns the JSON representation of the declaration kind.
func (k DeclKind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// Decl is a declaration in the arena. Concrete types are *Enum, *Union,
// *Struct, *Table, and *Service.
type Decl interface {
	Kind() DeclKind
	Base() DeclBase
}

// DeclBase carries the identity shared by all declarations.
type DeclBase struct {
	Name      string   // simple name
	Namespace string   // owning namespace, dotted, possibly empty
	Docs      []string // cleaned doc comment lines
}

// FullName returns the fully-qualified declaration name.
func (d DeclBase) FullName() string {
	if d.Namespace == "" {
		return d.Name
	}
	return d.Namespace + "." + d.Name
}

// Schema is a fully-resolved compilation unit.
type Schema struct {
	Decls []Decl

	// RefByName maps fully-qualified names to arena indexes. Synthetic
	// declarations (union discriminant enums) are included.
	RefByName map[string]Ref

	Root           Ref // root_type table, or NoRef
	FileIdentifier string
	FileExtension  string
	Attributes     []string // declared user attribute names
}

// Decl returns the declaration at r.
func (s *Schema) Decl(r Ref) Decl { return s.Decls[r] }

// Enum returns the enum at r, which must refer to an enum.
func (s *Schema) Enum(r Ref) *Enum { return s.Decls[r].(*Enum) }

// Union returns the union at r, which must refer to a union.
func (s *Schema) Union(r Ref) *Union { return s.Decls[r].(*Union) }

// Struct returns the struct at r, which must refer to a struct.
func (s *Schema) Struct(r Ref) *Struct { return s.Decls[r].(*Struct) }

// Table returns the table at r, which must refer to a table.
func (s *Schema) Table(r Ref) *Table { return s.Decls[r].(*Table) }

// Service returns the service at r, which must refer to a service.
func (s *Schema) Service(r Ref) *Service { return s.Decls[r].(*Service) }

// Enum is an integral enumeration.
type Enum struct {
	DeclBase
	BaseType  TypeKind // integral scalar kind
	Values    []EnumValue
	Synthetic bool // hidden union discriminant enum
}

func (e *Enum) Kind() DeclKind { return KindEnum }
func (e *Enum) Base() DeclBase { return e.DeclBase }

// ValueName returns the name of the enum member with the given value.
func (e *Enum) ValueName(value int64) (string, bool) {
	for _, v := range e.Values {
		if v.Value == value {
			return v.Name, true
		}
	}
	return "", false
}

// EnumValue is one enum member with its resolved integral value.
type EnumValue struct {
	Name  string
	Value int64
	Docs  []string
}

// Union is a closed set of table alternatives plus its hidden discriminant
// enum, whose values are 1..N with 0 reserved for NONE.
type Union struct {
	DeclBase
	Variants []UnionVariant
	Enum     Ref
}

func (u *Union) Kind() DeclKind { return KindUnion }
func (u *Union) Base() DeclBase { return u.DeclBase }

// UnionVariant is one union alternative.
type UnionVariant struct {
	Name  string
	Table Ref
	Docs  []string
}

// Struct is a fixed-size inline composite with a computed layout.
type Struct struct {
	DeclBase
	Fields []StructField
	Size   int
	Align  int
}

func (s *Struct) Kind() DeclKind { return KindStruct }
func (s *Struct) Base() DeclBase { return s.DeclBase }

// StructField is a struct member placed at a fixed offset.
type StructField struct {
	Name   string
	Type   Type // scalar, enum, or struct
	Offset int  // byte offset within the struct
	Docs   []string
}

// Table is a vtable-indirected record.
type Table struct {
	DeclBase
	Fields []TableField
}

func (t *Table) Kind() DeclKind { return KindTable }
func (t *Table) Base() DeclBase { return t.DeclBase }

// NumSlots returns the number of vtable slots the table occupies.
func (t *Table) NumSlots() int {
	slots := 0
	for _, f := range t.Fields {
		if f.Slot+1 > slots {
			slots = f.Slot + 1
		}
	}
	return slots
}

// TableField is a table member with its assigned vtable slot. A union field
// occupies two slots: Slot holds the value, Slot-1 the discriminant.
type TableField struct {
	Name       string
	Type       Type
	Slot       int
	Default    Value
	Required   bool
	Deprecated bool
	Key        bool
	Docs       []string
}

// Service is an RPC service.
type Service struct {
	DeclBase
	Methods []Method
}

func (s *Service) Kind() DeclKind { return KindService }
func (s *Service) Base() DeclBase { return s.DeclBase }

// Method is one RPC method. Request and Response always refer to tables.
type Method struct {
	Name      string
	Request   Ref
	Response  Ref
	Streaming StreamMode
	Docs      []string
}

// StreamMode is the streaming behavior of an RPC method.
type StreamMode int

const (
	StreamNone StreamMode = iota
	StreamServer
	StreamClient
	StreamBidi
)

func (m StreamMode) String() string {
	switch m {
	case StreamNone:
		return "none"
	case StreamServer:
		return "server"
	case StreamClient:
		return "client"
	case StreamBidi:
		return "bidi"
	default:
		return "unknown"
	}
}

// StreamModes maps the streaming attribute strings to modes.
var StreamModes = map[string]StreamMode{ // nolint:gochecknoglobals
	"none":   StreamNone,
	"server": StreamServer,
	"client": StreamClient,
	"bidi":   StreamBidi,
}

// ValueKind discriminates default value literals.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
)

// Value is a normalized scalar default. Integral values (including enum
// defaults and unsigned values, stored bit-exact) use Int.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
}

// IsZero reports whether the value is the zero value for its kind, i.e. would
// be elided from an encoded buffer.
func (v Value) IsZero() bool {
	switch v.Kind {
	case ValueInt:
		return v.Int == 0
	case ValueFloat:
		return v.Float == 0
	case ValueBool:
		return !v.Bool
	default:
		return true
	}
}
