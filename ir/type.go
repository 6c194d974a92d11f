package ir

import "fmt"

// TypeKind is an enumeration of type shapes: the scalar kinds, strings,
// vectors, and references to named declarations.
type TypeKind int

const (
	Bool TypeKind = iota + 1
	Int8
	UInt8
	Int16
	UInt16
	Int32
	UInt32
	Int64
	UInt64
	Float32
	Float64
	String
	Vector
	Named
)

func (k TypeKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case UInt8:
		return "uint8"
	case Int16:
		return "int16"
	case UInt16:
		return "uint16"
	case Int32:
		return "int32"
	case UInt32:
		return "uint32"
	case Int64:
		return "int64"
	case UInt64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Vector:
		return "vector"
	case Named:
		return "named"
	default:
		return "unknown"
	}
}

// MarshalJSON returns the JSON representation of the type kind.
func (k TypeKind) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", k.String())), nil
}

// IsScalar reports whether the kind is a fixed-width scalar.
func (k TypeKind) IsScalar() bool {
	return k >= Bool && k <= Float64
}

// IsInteger reports whether the kind is an integral scalar (excluding bool).
func (k TypeKind) IsInteger() bool {
	return k >= Int8 && k <= UInt64
}

// IsFloat reports whether the kind is a floating-point scalar.
func (k TypeKind) IsFloat() bool {
	return k == Float32 || k == Float64
}

// Signed reports whether an integral kind is signed.
func (k TypeKind) Signed() bool {
	switch k {
	case Int8, Int16, Int32, Int64:
		return true
	default:
		return false
	}
}

// Width returns the encoded byte width of a scalar kind.
func (k TypeKind) Width() int {
	switch k {
	case Bool, Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	case Int64, UInt64, Float64:
		return 8
	default:
		panic(fmt.Sprintf("width of non-scalar kind %s", k))
	}
}

// Scalars maps schema-language scalar type names, including the canonical
// aliases, to their kinds.
var Scalars = map[string]TypeKind{ // nolint:gochecknoglobals
	"bool":    Bool,
	"byte":    Int8,
	"int8":    Int8,
	"ubyte":   UInt8,
	"uint8":   UInt8,
	"short":   Int16,
	"int16":   Int16,
	"ushort":  UInt16,
	"uint16":  UInt16,
	"int":     Int32,
	"int32":   Int32,
	"uint":    UInt32,
	"uint32":  UInt32,
	"long":    Int64,
	"int64":   Int64,
	"ulong":   UInt64,
	"uint64":  UInt64,
	"float":   Float32,
	"float32": Float32,
	"double":  Float64,
	"float64": Float64,
}

// Type is a resolved field or element type.
type Type struct {
	Kind TypeKind
	Elem *Type `json:",omitempty"` // vector element type
	Ref  Ref   `json:",omitempty"` // named declaration
}

// ScalarType returns a Type of the given scalar kind.
func ScalarType(k TypeKind) Type { return Type{Kind: k} }

// StringType returns the string type.
func StringType() Type { return Type{Kind: String} }

// NamedType returns a Type referring to a declaration.
func NamedType(r Ref) Type { return Type{Kind: Named, Ref: r} }

// VectorType returns a vector of the given element type.
func VectorType(elem Type) Type { return Type{Kind: Vector, Elem: &elem} }

// Describe returns a human-readable rendering of the type.
func (s *Schema) Describe(t Type) string {
	switch t.Kind {
	case Vector:
		return "[" + s.Describe(*t.Elem) + "]"
	case Named:
		return s.Decl(t.Ref).Base().FullName()
	default:
		return t.Kind.String()
	}
}

// ScalarKind returns the scalar kind a type encodes as inline: its own kind
// for scalars, the base type for enum references, and false otherwise.
func (s *Schema) ScalarKind(t Type) (TypeKind, bool) {
	if t.Kind.IsScalar() {
		return t.Kind, true
	}
	if t.Kind == Named {
		if e, ok := s.Decl(t.Ref).(*Enum); ok {
			return e.BaseType, true
		}
	}
	return 0, false
}

// InlineSize returns the number of bytes the type occupies inside a table or
// struct body: the scalar width, the struct size, or four bytes for offset
// types (strings, vectors, tables) and union discriminated values.
func (s *Schema) InlineSize(t Type) int {
	if k, ok := s.ScalarKind(t); ok {
		return k.Width()
	}
	if st, ok := s.namedStruct(t); ok {
		return st.Size
	}
	return 4
}

// Alignment returns the required alignment of the type when stored inline.
func (s *Schema) Alignment(t Type) int {
	if k, ok := s.ScalarKind(t); ok {
		return k.Width()
	}
	if st, ok := s.namedStruct(t); ok {
		return st.Align
	}
	return 4
}

func (s *Schema) namedStruct(t Type) (*Struct, bool) {
	if t.Kind != Named {
		return nil, false
	}
	st, ok := s.Decl(t.Ref).(*Struct)
	return st, ok
}

// IsStruct reports whether the type refers to a struct declaration.
func (s *Schema) IsStruct(t Type) bool {
	_, ok := s.namedStruct(t)
	return ok
}

// IsEnum reports whether the type refers to an enum declaration.
func (s *Schema) IsEnum(t Type) bool {
	if t.Kind != Named {
		return false
	}
	_, ok := s.Decl(t.Ref).(*Enum)
	return ok
}

// IsUnion reports whether the type refers to a union declaration.
func (s *Schema) IsUnion(t Type) bool {
	if t.Kind != Named {
		return false
	}
	_, ok := s.Decl(t.Ref).(*Union)
	return ok
}

// IsTable reports whether the type refers to a table declaration.
func (s *Schema) IsTable(t Type) bool {
	if t.Kind != Named {
		return false
	}
	_, ok := s.Decl(t.Ref).(*Table)
	return ok
}
