package compile

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

/*
Semantic error types. Compilation collects every semantic error in the unit
before giving up, so callers see the complete diagnostic set rather than the
first failure. Each type implements Is so callers can test for a category with
errors.Is regardless of the specific message.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrorList aggregates the semantic errors of a compilation unit.
type ErrorList []error

func (e ErrorList) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e ErrorList) Unwrap() []error {
	return e
}

// UnresolvedTypeError indicates a type reference that matches no declaration
// in the current namespace chain or as written.
type UnresolvedTypeError struct {
	Pos  lexer.Position
	Name string
}

func (e UnresolvedTypeError) Error() string {
	return fmt.Sprintf("%s: unresolved type %s", e.Pos, e.Name)
}

func (e UnresolvedTypeError) Is(target error) bool {
	_, ok := target.(UnresolvedTypeError)
	return ok
}

// DuplicateDeclarationError indicates two declarations with the same
// fully-qualified name.
type DuplicateDeclarationError struct {
	Pos  lexer.Position
	Name string
}

func (e DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("%s: duplicate declaration %s", e.Pos, e.Name)
}

func (e DuplicateDeclarationError) Is(target error) bool {
	_, ok := target.(DuplicateDeclarationError)
	return ok
}

// StructCycleError indicates a struct that contains itself, directly or
// through other structs. Path is the full cycle, beginning and ending at the
// same declaration.
type StructCycleError struct {
	Pos  lexer.Position
	Path []string
}

func (e StructCycleError) Error() string {
	return fmt.Sprintf("%s: struct cycle: %s", e.Pos, strings.Join(e.Path, " -> "))
}

func (e StructCycleError) Is(target error) bool {
	_, ok := target.(StructCycleError)
	return ok
}

// InvalidDefaultError indicates a default literal that does not fit the
// field's type.
type InvalidDefaultError struct {
	Pos     lexer.Position
	Field   string
	Literal string
	Reason  string
}

func (e InvalidDefaultError) Error() string {
	return fmt.Sprintf("%s: invalid default %q for field %s: %s", e.Pos, e.Literal, e.Field, e.Reason)
}

func (e InvalidDefaultError) Is(target error) bool {
	_, ok := target.(InvalidDefaultError)
	return ok
}

// NonTableRPCError indicates an rpc method whose request or response is not a
// table.
type NonTableRPCError struct {
	Pos    lexer.Position
	Method string
	Type   string
}

func (e NonTableRPCError) Error() string {
	return fmt.Sprintf("%s: rpc method %s requires table types, got %s", e.Pos, e.Method, e.Type)
}

func (e NonTableRPCError) Is(target error) bool {
	_, ok := target.(NonTableRPCError)
	return ok
}

// UnknownAttributeValueError indicates a recognized attribute with an invalid
// or misapplied value, e.g. an unknown streaming mode.
type UnknownAttributeValueError struct {
	Pos       lexer.Position
	Attribute string
	Msg       string
}

func (e UnknownAttributeValueError) Error() string {
	return fmt.Sprintf("%s: attribute %s: %s", e.Pos, e.Attribute, e.Msg)
}

func (e UnknownAttributeValueError) Is(target error) bool {
	_, ok := target.(UnknownAttributeValueError)
	return ok
}

// UnknownAttributeError indicates an attribute name that is neither builtin
// nor declared with an attribute directive.
type UnknownAttributeError struct {
	Pos  lexer.Position
	Name string
}

func (e UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s: unknown attribute %q", e.Pos, e.Name)
}

func (e UnknownAttributeError) Is(target error) bool {
	_, ok := target.(UnknownAttributeError)
	return ok
}

// FieldIDError indicates explicit field ids that are mixed with implicit ones,
// duplicated, or not contiguous from zero.
type FieldIDError struct {
	Pos   lexer.Position
	Table string
	Msg   string
}

func (e FieldIDError) Error() string {
	return fmt.Sprintf("%s: table %s: %s", e.Pos, e.Table, e.Msg)
}

func (e FieldIDError) Is(target error) bool {
	_, ok := target.(FieldIDError)
	return ok
}

// InvalidEnumValueError indicates an enum member value that cannot be parsed,
// does not fit the base type, or is not strictly increasing.
type InvalidEnumValueError struct {
	Pos  lexer.Position
	Enum string
	Msg  string
}

func (e InvalidEnumValueError) Error() string {
	return fmt.Sprintf("%s: enum %s: %s", e.Pos, e.Enum, e.Msg)
}

func (e InvalidEnumValueError) Is(target error) bool {
	_, ok := target.(InvalidEnumValueError)
	return ok
}

// InvalidUnionVariantError indicates a union member that does not reference a
// table, or a duplicate variant name.
type InvalidUnionVariantError struct {
	Pos   lexer.Position
	Union string
	Msg   string
}

func (e InvalidUnionVariantError) Error() string {
	return fmt.Sprintf("%s: union %s: %s", e.Pos, e.Union, e.Msg)
}

func (e InvalidUnionVariantError) Is(target error) bool {
	_, ok := target.(InvalidUnionVariantError)
	return ok
}

// InvalidStructFieldError indicates a struct field of a type structs cannot
// hold (anything but scalars, integral enums, and other structs).
type InvalidStructFieldError struct {
	Pos    lexer.Position
	Struct string
	Field  string
	Type   string
}

func (e InvalidStructFieldError) Error() string {
	return fmt.Sprintf("%s: struct %s field %s: invalid field type %s", e.Pos, e.Struct, e.Field, e.Type)
}

func (e InvalidStructFieldError) Is(target error) bool {
	_, ok := target.(InvalidStructFieldError)
	return ok
}

// UnsupportedTypeError indicates a type the wire format cannot express, such
// as a vector of vectors.
type UnsupportedTypeError struct {
	Pos  lexer.Position
	Type string
	Msg  string
}

func (e UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: type %s: %s", e.Pos, e.Type, e.Msg)
}

func (e UnsupportedTypeError) Is(target error) bool {
	_, ok := target.(UnsupportedTypeError)
	return ok
}

// RootTypeError indicates a root_type or file_identifier problem.
type RootTypeError struct {
	Pos lexer.Position
	Msg string
}

func (e RootTypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

func (e RootTypeError) Is(target error) bool {
	_, ok := target.(RootTypeError)
	return ok
}
