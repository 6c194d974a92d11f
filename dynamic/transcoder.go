package dynamic

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/wkalt/fbc/flatbuf"
	"github.com/wkalt/fbc/ir"
)

/*
dynamic renders encoded buffers as JSON using a compiled schema, with no
generated code in the loop. The transcoder walks the schema's IR in parallel
with the buffer, appending output to a byte slice. It exists for tooling:
inspecting buffers from the command line, golden-file tests, debugging.

Scalar fields always appear in the output, falling back to their schema
default when absent from the buffer. Reference fields (strings, vectors,
tables, unions) appear only when present. Deprecated fields are skipped.
*/

////////////////////////////////////////////////////////////////////////////////

// ErrNoRoot indicates a transcoder built from a schema with no root table.
var ErrNoRoot = errors.New("schema has no root table")

// Transcoder converts buffers described by one schema root to JSON.
type Transcoder struct {
	schema *ir.Schema
	root   ir.Ref
}

// NewTranscoder returns a transcoder for the schema's root table.
func NewTranscoder(schema *ir.Schema) (*Transcoder, error) {
	if schema.Root == ir.NoRef {
		return nil, ErrNoRoot
	}
	return NewTranscoderFor(schema, schema.Root)
}

// NewTranscoderFor returns a transcoder rooted at a specific table.
func NewTranscoderFor(schema *ir.Schema, root ir.Ref) (*Transcoder, error) {
	if _, ok := schema.Decl(root).(*ir.Table); !ok {
		return nil, fmt.Errorf("root must be a table, got %s", schema.Decl(root).Kind())
	}
	return &Transcoder{schema: schema, root: root}, nil
}

// Transcode renders the buffer as a JSON document.
func (t *Transcoder) Transcode(buf []byte) ([]byte, error) {
	if len(buf) < flatbuf.SizeUOffset {
		return nil, fmt.Errorf("buffer too short: %d bytes", len(buf))
	}
	tab := flatbuf.GetRoot(buf)
	out := make([]byte, 0, 256)
	return t.table(out, tab, t.schema.Table(t.root))
}

func (t *Transcoder) table(out []byte, tab flatbuf.Table, table *ir.Table) ([]byte, error) {
	out = append(out, '{')
	first := true
	var err error
	for _, f := range table.Fields {
		if f.Deprecated {
			continue
		}
		if t.schema.IsUnion(f.Type) {
			out, first, err = t.union(out, first, tab, f)
		} else {
			out, first, err = t.field(out, first, tab, f)
		}
		if err != nil {
			return nil, err
		}
	}
	return append(out, '}'), nil
}

func (t *Transcoder) field(
	out []byte, first bool, tab flatbuf.Table, f ir.TableField,
) ([]byte, bool, error) {
	o := tab.Offset(flatbuf.FieldOffset(f.Slot))
	if o == 0 {
		if kind, ok := t.schema.ScalarKind(f.Type); ok {
			out = t.key(out, first, f.Name)
			return t.defaultValue(out, f, kind), false, nil
		}
		return out, first, nil
	}
	out = t.key(out, first, f.Name)
	out, err := t.value(out, tab, tab.Pos+flatbuf.UOffset(o), f.Type)
	return out, false, err
}

// union emits the discriminant as "<name>_type" and, when a value is set, the
// value itself under the field name.
func (t *Transcoder) union(
	out []byte, first bool, tab flatbuf.Table, f ir.TableField,
) ([]byte, bool, error) {
	union := t.schema.Union(f.Type.Ref)
	disc := tab.Uint8Slot(flatbuf.FieldOffset(f.Slot-1), 0)

	out = t.key(out, first, f.Name+"_type")
	hidden := t.schema.Enum(union.Enum)
	if name, ok := hidden.ValueName(int64(disc)); ok {
		out = strconv.AppendQuote(out, name)
	} else {
		return nil, false, fmt.Errorf("union %s: unknown discriminant %d", union.FullName(), disc)
	}
	if disc == 0 {
		return out, false, nil
	}

	o := tab.Offset(flatbuf.FieldOffset(f.Slot))
	if o == 0 {
		return nil, false, fmt.Errorf("union %s: discriminant set but value absent", union.FullName())
	}
	out = t.key(out, false, f.Name)
	var value flatbuf.Table
	tab.Union(&value, tab.Pos+flatbuf.UOffset(o))
	out, err := t.table(out, value, t.schema.Table(union.Variants[disc-1].Table))
	return out, false, err
}

// value renders the content at pos, which for reference types is the position
// of the offset, not the object.
func (t *Transcoder) value(out []byte, tab flatbuf.Table, pos flatbuf.UOffset, typ ir.Type) ([]byte, error) {
	if kind, ok := t.schema.ScalarKind(typ); ok {
		return t.scalar(out, tab.Buf, pos, typ, kind), nil
	}
	switch {
	case typ.Kind == ir.String:
		return strconv.AppendQuote(out, tab.String(pos)), nil
	case typ.Kind == ir.Vector:
		return t.vector(out, tab, pos, *typ.Elem)
	case t.schema.IsStruct(typ):
		return t.structValue(out, tab, pos, t.schema.Struct(typ.Ref))
	case t.schema.IsTable(typ):
		var sub flatbuf.Table
		tab.Union(&sub, pos)
		return t.table(out, sub, t.schema.Table(typ.Ref))
	default:
		return nil, fmt.Errorf("cannot transcode %s value", t.schema.Describe(typ))
	}
}

func (t *Transcoder) vector(out []byte, tab flatbuf.Table, pos flatbuf.UOffset, elem ir.Type) ([]byte, error) {
	n := tab.VectorLen(pos)
	start := tab.Vector(pos)
	stride := flatbuf.UOffset(t.schema.InlineSize(elem))
	out = append(out, '[')
	var err error
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ',')
		}
		at := start + flatbuf.UOffset(i)*stride
		if t.schema.IsStruct(elem) {
			out, err = t.structValue(out, tab, at, t.schema.Struct(elem.Ref))
		} else {
			out, err = t.value(out, tab, at, elem)
		}
		if err != nil {
			return nil, err
		}
	}
	return append(out, ']'), nil
}

// structValue renders an inline struct starting at pos.
func (t *Transcoder) structValue(out []byte, tab flatbuf.Table, pos flatbuf.UOffset, st *ir.Struct) ([]byte, error) {
	out = append(out, '{')
	var err error
	for i, f := range st.Fields {
		out = t.key(out, i == 0, f.Name)
		at := pos + flatbuf.UOffset(f.Offset)
		if t.schema.IsStruct(f.Type) {
			out, err = t.structValue(out, tab, at, t.schema.Struct(f.Type.Ref))
			if err != nil {
				return nil, err
			}
			continue
		}
		kind, _ := t.schema.ScalarKind(f.Type)
		out = t.scalar(out, tab.Buf, at, f.Type, kind)
	}
	return append(out, '}'), nil
}

// scalar renders the scalar stored at pos. Enum values print as their member
// name when one matches, and as a bare number otherwise.
func (t *Transcoder) scalar(out, buf []byte, pos flatbuf.UOffset, typ ir.Type, kind ir.TypeKind) []byte {
	if t.schema.IsEnum(typ) {
		v := readInt(buf, pos, kind)
		if name, ok := t.schema.Enum(typ.Ref).ValueName(v); ok {
			return strconv.AppendQuote(out, name)
		}
		return strconv.AppendInt(out, v, 10)
	}
	switch kind {
	case ir.Bool:
		return strconv.AppendBool(out, flatbuf.GetBool(buf, pos))
	case ir.UInt64:
		return strconv.AppendUint(out, flatbuf.GetUint64(buf, pos), 10)
	case ir.UInt8, ir.UInt16, ir.UInt32:
		return strconv.AppendUint(out, uint64(readInt(buf, pos, kind)), 10)
	case ir.Float32:
		return strconv.AppendFloat(out, float64(flatbuf.GetFloat32(buf, pos)), 'g', -1, 32)
	case ir.Float64:
		return strconv.AppendFloat(out, flatbuf.GetFloat64(buf, pos), 'g', -1, 64)
	default:
		return strconv.AppendInt(out, readInt(buf, pos, kind), 10)
	}
}

func (t *Transcoder) defaultValue(out []byte, f ir.TableField, kind ir.TypeKind) []byte {
	if t.schema.IsEnum(f.Type) {
		if name, ok := t.schema.Enum(f.Type.Ref).ValueName(f.Default.Int); ok {
			return strconv.AppendQuote(out, name)
		}
		return strconv.AppendInt(out, f.Default.Int, 10)
	}
	switch {
	case kind == ir.Bool:
		return strconv.AppendBool(out, f.Default.Bool)
	case kind.IsFloat():
		return strconv.AppendFloat(out, f.Default.Float, 'g', -1, 64)
	case kind == ir.UInt64:
		return strconv.AppendUint(out, uint64(f.Default.Int), 10)
	default:
		return strconv.AppendInt(out, f.Default.Int, 10)
	}
}

func (t *Transcoder) key(out []byte, first bool, name string) []byte {
	if !first {
		out = append(out, ',')
	}
	out = strconv.AppendQuote(out, name)
	return append(out, ':')
}

// readInt reads any integral scalar kind sign-extended to int64.
func readInt(buf []byte, pos flatbuf.UOffset, kind ir.TypeKind) int64 {
	switch kind {
	case ir.Int8:
		return int64(flatbuf.GetInt8(buf, pos))
	case ir.UInt8:
		return int64(flatbuf.GetUint8(buf, pos))
	case ir.Int16:
		return int64(flatbuf.GetInt16(buf, pos))
	case ir.UInt16:
		return int64(flatbuf.GetUint16(buf, pos))
	case ir.Int32:
		return int64(flatbuf.GetInt32(buf, pos))
	case ir.UInt32:
		return int64(flatbuf.GetUint32(buf, pos))
	case ir.Int64:
		return flatbuf.GetInt64(buf, pos)
	case ir.UInt64:
		return int64(flatbuf.GetUint64(buf, pos))
	default:
		return 0
	}
}
