package compile

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/wkalt/fbc/fbs"
	"github.com/wkalt/fbc/ir"
)

// builtin attributes legal on type declarations.
var declAttrs = map[string]bool{ // nolint:gochecknoglobals
	"original_order": true,
	"force_align":    true,
	"bit_flags":      true,
}

func (c *compiler) buildEnum(sym *symbol, d fbs.Enum) {
	e := c.out.Decls[sym.ref].(*ir.Enum)
	c.checkDeclMetadata(d.Metadata)
	kind, ok := ir.Scalars[d.Base]
	if !ok || !kind.IsInteger() {
		c.errorf(InvalidEnumValueError{Pos: d.Pos, Enum: sym.fullName(), Msg: "invalid base type " + d.Base})
		kind = ir.Int32
	}
	e.BaseType = kind
	next := int64(0)
	seen := map[string]bool{}
	for i, v := range d.Values {
		value := next
		if v.Value != nil {
			parsed, err := strconv.ParseInt(*v.Value, 0, 64)
			if err != nil {
				c.errorf(InvalidEnumValueError{
					Pos: v.Pos, Enum: sym.fullName(),
					Msg: "invalid value " + *v.Value + " for " + v.Name,
				})
				continue
			}
			value = parsed
		}
		if i > 0 && value < next {
			c.errorf(InvalidEnumValueError{
				Pos: v.Pos, Enum: sym.fullName(),
				Msg: "values must be strictly increasing",
			})
		}
		if !fits(kind, value) {
			c.errorf(InvalidEnumValueError{
				Pos: v.Pos, Enum: sym.fullName(),
				Msg: v.Name + " does not fit in " + kind.String(),
			})
		}
		if seen[v.Name] {
			c.errorf(InvalidEnumValueError{
				Pos: v.Pos, Enum: sym.fullName(),
				Msg: "duplicate value name " + v.Name,
			})
			continue
		}
		seen[v.Name] = true
		e.Values = append(e.Values, ir.EnumValue{Name: v.Name, Value: value, Docs: fbs.CleanDocs(v.Docs)})
		next = value + 1
	}
}

func (c *compiler) buildUnion(sym *symbol, d fbs.Union) {
	u := c.out.Decls[sym.ref].(*ir.Union)
	c.checkDeclMetadata(d.Metadata)
	hidden := c.out.Enum(u.Enum)
	hidden.Values = []ir.EnumValue{{Name: "NONE", Value: 0}}
	seen := map[string]bool{}
	for _, v := range d.Variants {
		ref, ok := c.resolve(sym.ns, v.Type)
		if !ok {
			c.errorf(UnresolvedTypeError{Pos: v.Pos, Name: v.Type})
			continue
		}
		if _, isTable := c.out.Decls[ref].(*ir.Table); !isTable {
			c.errorf(InvalidUnionVariantError{
				Pos: v.Pos, Union: sym.fullName(),
				Msg: "variant " + v.Type + " must be a table",
			})
			continue
		}
		name := v.VariantName()
		if seen[name] {
			c.errorf(InvalidUnionVariantError{
				Pos: v.Pos, Union: sym.fullName(),
				Msg: "duplicate variant name " + name,
			})
			continue
		}
		seen[name] = true
		u.Variants = append(u.Variants, ir.UnionVariant{Name: name, Table: ref, Docs: fbs.CleanDocs(v.Docs)})
		hidden.Values = append(hidden.Values, ir.EnumValue{Name: name, Value: int64(len(u.Variants))})
	}
}

func (c *compiler) buildStruct(sym *symbol, d fbs.Struct) {
	st := c.out.Decls[sym.ref].(*ir.Struct)
	c.checkDeclMetadata(d.Metadata)
	for _, f := range d.Fields {
		t, ok := c.resolveType(sym.ns, f.Type)
		if !ok {
			continue
		}
		if _, isScalar := c.out.ScalarKind(t); !isScalar && !c.out.IsStruct(t) {
			c.errorf(InvalidStructFieldError{
				Pos: f.Pos, Struct: sym.fullName(), Field: f.Name,
				Type: c.out.Describe(t),
			})
			continue
		}
		if f.Default != nil {
			c.errorf(InvalidDefaultError{
				Pos: f.Pos, Field: f.Name, Literal: *f.Default,
				Reason: "struct fields take no defaults",
			})
		}
		c.fieldAttrs(f, true)
		st.Fields = append(st.Fields, ir.StructField{
			Name: f.Name,
			Type: t,
			Docs: fbs.CleanDocs(f.Docs),
		})
	}
}

func (c *compiler) buildTable(sym *symbol, d fbs.Table) {
	table := c.out.Decls[sym.ref].(*ir.Table)
	c.checkDeclMetadata(d.Metadata)

	type pending struct {
		field   ir.TableField
		id      *int
		isUnion bool
		pos     lexer.Position
	}
	var fields []pending
	explicit := 0
	for _, f := range d.Fields {
		t, ok := c.resolveType(sym.ns, f.Type)
		if !ok {
			continue
		}
		if t.Kind == ir.Vector && c.out.IsUnion(*t.Elem) {
			c.errorf(InvalidUnionVariantError{
				Pos: f.Pos, Union: c.out.Describe(*t.Elem),
				Msg: "vectors of unions are not supported",
			})
			continue
		}
		if t.Kind == ir.Vector && t.Elem.Kind == ir.Vector {
			c.errorf(UnsupportedTypeError{
				Pos: f.Pos, Type: c.out.Describe(t),
				Msg: "vectors of vectors are not supported; wrap the inner vector in a table",
			})
			continue
		}
		attrs := c.fieldAttrs(f, false)
		fld := ir.TableField{
			Name:       f.Name,
			Type:       t,
			Required:   attrs.required,
			Deprecated: attrs.deprecated,
			Key:        attrs.key,
			Docs:       fbs.CleanDocs(f.Docs),
		}
		kind, isScalar := c.out.ScalarKind(t)
		if isScalar {
			if attrs.required {
				c.errorf(UnknownAttributeValueError{
					Pos: f.Pos, Attribute: "required",
					Msg: "only non-scalar table fields may be required",
				})
			}
			if f.Default != nil {
				fld.Default = c.parseDefault(f, t, kind)
			} else {
				fld.Default = zeroValue(kind)
			}
		} else if f.Default != nil {
			c.errorf(InvalidDefaultError{
				Pos: f.Pos, Field: f.Name, Literal: *f.Default,
				Reason: c.out.Describe(t) + " fields take no default",
			})
		}
		if attrs.key && !isScalar && t.Kind != ir.String {
			c.errorf(UnknownAttributeValueError{
				Pos: f.Pos, Attribute: "key",
				Msg: "key fields must be scalar or string",
			})
		}
		if attrs.id != nil {
			explicit++
		}
		fields = append(fields, pending{field: fld, id: attrs.id, isUnion: c.out.IsUnion(t), pos: f.Pos})
	}

	switch {
	case explicit > 0 && explicit == len(fields):
		occupied := map[int]string{}
		maxSlot := 0
		claim := func(pos lexer.Position, slot int, name string) {
			if prev, ok := occupied[slot]; ok {
				c.errorf(FieldIDError{
					Pos: pos, Table: sym.fullName(),
					Msg: "fields " + prev + " and " + name + " share id " + strconv.Itoa(slot),
				})
				return
			}
			occupied[slot] = name
			maxSlot = max(maxSlot, slot)
		}
		for i := range fields {
			p := &fields[i]
			id := *p.id
			if p.isUnion {
				if id < 1 {
					c.errorf(FieldIDError{
						Pos: p.pos, Table: sym.fullName(),
						Msg: "union field " + p.field.Name + " needs an id above 0 for its discriminant",
					})
					continue
				}
				claim(p.pos, id-1, p.field.Name+" (type)")
			}
			claim(p.pos, id, p.field.Name)
			p.field.Slot = id
		}
		for slot := 0; slot <= maxSlot; slot++ {
			if _, ok := occupied[slot]; !ok {
				c.errorf(FieldIDError{
					Pos: d.Pos, Table: sym.fullName(),
					Msg: "field ids must be contiguous from 0, missing id " + strconv.Itoa(slot),
				})
				break
			}
		}
	case explicit > 0:
		c.errorf(FieldIDError{
			Pos: d.Pos, Table: sym.fullName(),
			Msg: "cannot mix explicit and implicit field ids",
		})
		fallthrough
	default:
		next := 0
		for i := range fields {
			p := &fields[i]
			if p.isUnion {
				next++ // discriminant slot
			}
			p.field.Slot = next
			next++
		}
	}

	for _, p := range fields {
		table.Fields = append(table.Fields, p.field)
	}
}

func (c *compiler) buildService(sym *symbol, d fbs.Rpc) {
	svc := c.out.Decls[sym.ref].(*ir.Service)
	for _, m := range d.Methods {
		req := c.resolveMethodType(sym, m, m.Request)
		resp := c.resolveMethodType(sym, m, m.Response)
		mode := ir.StreamNone
		if m.Metadata != nil {
			for _, entry := range m.Metadata.Entries {
				switch entry.Name {
				case "streaming":
					if entry.Value == nil || entry.Value.String == nil {
						c.errorf(UnknownAttributeValueError{
							Pos: entry.Pos, Attribute: "streaming",
							Msg: "expected a string value",
						})
						continue
					}
					parsed, ok := ir.StreamModes[*entry.Value.String]
					if !ok {
						c.errorf(UnknownAttributeValueError{
							Pos: entry.Pos, Attribute: "streaming",
							Msg: "unknown streaming mode " + strconv.Quote(*entry.Value.String),
						})
						continue
					}
					mode = parsed
				case "idempotent":
				default:
					if !c.attrs[entry.Name] {
						c.errorf(UnknownAttributeError{Pos: entry.Pos, Name: entry.Name})
					}
				}
			}
		}
		if req == ir.NoRef || resp == ir.NoRef {
			continue
		}
		svc.Methods = append(svc.Methods, ir.Method{
			Name:      m.Name,
			Request:   req,
			Response:  resp,
			Streaming: mode,
			Docs:      fbs.CleanDocs(m.Docs),
		})
	}
}

func (c *compiler) resolveMethodType(sym *symbol, m fbs.RpcMethod, written string) ir.Ref {
	ref, ok := c.resolve(sym.ns, written)
	if !ok {
		c.errorf(UnresolvedTypeError{Pos: m.Pos, Name: written})
		return ir.NoRef
	}
	if _, isTable := c.out.Decls[ref].(*ir.Table); !isTable {
		c.errorf(NonTableRPCError{
			Pos:    m.Pos,
			Method: sym.fullName() + "." + m.Name,
			Type:   c.out.Decls[ref].Base().FullName(),
		})
		return ir.NoRef
	}
	return ref
}

type fieldAttrs struct {
	id         *int
	required   bool
	deprecated bool
	key        bool
}

// fieldAttrs interprets the metadata list on a field. Struct fields reject
// the table-only attributes.
func (c *compiler) fieldAttrs(f fbs.Field, inStruct bool) fieldAttrs {
	var attrs fieldAttrs
	if f.Metadata == nil {
		return attrs
	}
	for _, entry := range f.Metadata.Entries {
		switch entry.Name {
		case "deprecated", "required", "id":
			if inStruct {
				c.errorf(UnknownAttributeValueError{
					Pos: entry.Pos, Attribute: entry.Name,
					Msg: "not allowed on struct fields",
				})
				continue
			}
		}
		switch entry.Name {
		case "deprecated":
			attrs.deprecated = true
		case "required":
			attrs.required = true
		case "key":
			attrs.key = true
		case "id":
			if entry.Value == nil || entry.Value.Number == nil {
				c.errorf(UnknownAttributeValueError{
					Pos: entry.Pos, Attribute: "id",
					Msg: "expected an integer value",
				})
				continue
			}
			id, err := strconv.Atoi(*entry.Value.Number)
			if err != nil || id < 0 {
				c.errorf(UnknownAttributeValueError{
					Pos: entry.Pos, Attribute: "id",
					Msg: "expected a non-negative integer, got " + *entry.Value.Number,
				})
				continue
			}
			attrs.id = &id
		default:
			if !c.attrs[entry.Name] {
				c.errorf(UnknownAttributeError{Pos: entry.Pos, Name: entry.Name})
			}
		}
	}
	return attrs
}

func (c *compiler) checkDeclMetadata(m *fbs.Metadata) {
	if m == nil {
		return
	}
	for _, entry := range m.Entries {
		if !declAttrs[entry.Name] && !c.attrs[entry.Name] {
			c.errorf(UnknownAttributeError{Pos: entry.Pos, Name: entry.Name})
		}
	}
}

// parseDefault interprets a default literal for a scalar or enum field.
func (c *compiler) parseDefault(f fbs.Field, t ir.Type, kind ir.TypeKind) ir.Value {
	lit := *f.Default
	invalid := func(reason string) ir.Value {
		c.errorf(InvalidDefaultError{Pos: f.Pos, Field: f.Name, Literal: lit, Reason: reason})
		return zeroValue(kind)
	}
	switch {
	case kind == ir.Bool:
		switch lit {
		case "true", "1":
			return ir.Value{Kind: ir.ValueBool, Bool: true}
		case "false", "0":
			return ir.Value{Kind: ir.ValueBool}
		}
		return invalid("expected a boolean")
	case kind.IsFloat():
		v, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return invalid("expected a number")
		}
		return ir.Value{Kind: ir.ValueFloat, Float: v}
	default:
		if c.out.IsEnum(t) && !numericLiteral(lit) {
			e := c.out.Enum(t.Ref)
			for _, v := range e.Values {
				if v.Name == lit {
					return ir.Value{Kind: ir.ValueInt, Int: v.Value}
				}
			}
			return invalid("not a variant of " + e.FullName())
		}
		v, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			if kind == ir.UInt64 {
				u, uerr := strconv.ParseUint(lit, 0, 64)
				if uerr == nil {
					return ir.Value{Kind: ir.ValueInt, Int: int64(u)}
				}
			}
			return invalid("expected an integer")
		}
		if !fits(kind, v) {
			return invalid("does not fit in " + kind.String())
		}
		return ir.Value{Kind: ir.ValueInt, Int: v}
	}
}

func numericLiteral(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == '-' || s[0] == '+' || (s[0] >= '0' && s[0] <= '9')
}

func zeroValue(kind ir.TypeKind) ir.Value {
	switch {
	case kind == ir.Bool:
		return ir.Value{Kind: ir.ValueBool}
	case kind.IsFloat():
		return ir.Value{Kind: ir.ValueFloat}
	default:
		return ir.Value{Kind: ir.ValueInt}
	}
}

// fits reports whether v is representable by the integral kind. Values parsed
// through the uint64 path skip this check.
func fits(kind ir.TypeKind, v int64) bool {
	switch kind {
	case ir.Int8:
		return v >= -128 && v <= 127
	case ir.UInt8:
		return v >= 0 && v <= 255
	case ir.Int16:
		return v >= -32768 && v <= 32767
	case ir.UInt16:
		return v >= 0 && v <= 65535
	case ir.Int32:
		return v >= -2147483648 && v <= 2147483647
	case ir.UInt32:
		return v >= 0 && v <= 4294967295
	case ir.Int64:
		return true
	case ir.UInt64:
		return v >= 0
	default:
		return true
	}
}
