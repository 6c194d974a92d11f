package flatbuf

/*
Read-side view over an encoded buffer. A Table is a position in a byte slice;
all field access is zero-copy and lazy. The position points at the table body,
whose first four bytes are a signed offset back to the vtable:

	[u16 vtable size][u16 table size][u16 field offsets, 0 = absent]

Absent fields yield the schema default, which the generated accessor supplies.
*/

////////////////////////////////////////////////////////////////////////////////

// Table is a cursor over a table (or struct) inside a buffer.
type Table struct {
	Buf []byte
	Pos UOffset
}

// GetRoot returns the root table of a finished buffer.
func GetRoot(buf []byte) Table {
	return Table{Buf: buf, Pos: GetUOffset(buf, 0)}
}

// BufferHasIdentifier reports whether the buffer declares the given 4-byte
// file identifier just past the root offset.
func BufferHasIdentifier(buf []byte, ident string) bool {
	if len(ident) != 4 || len(buf) < SizeUOffset+4 {
		return false
	}
	return string(buf[SizeUOffset:SizeUOffset+4]) == ident
}

// FieldOffset returns the vtable entry for the field at the given slot,
// written as an offset from the start of the vtable. Slot numbering matches
// the compiler's assignment, with entry i at vtable byte 4 + 2i.
func FieldOffset(slot int) VOffset {
	return VOffset(SizeVOffset*2 + SizeVOffset*slot)
}

// Offset returns the byte offset of a field within the table body, or zero if
// the field is absent. The argument is a vtable offset as returned by
// FieldOffset.
func (t Table) Offset(vtableOffset VOffset) VOffset {
	vtable := UOffset(SOffset(t.Pos) - GetSOffset(t.Buf, t.Pos))
	if vtableOffset < GetVOffset(t.Buf, vtable) {
		return GetVOffset(t.Buf, vtable+UOffset(vtableOffset))
	}
	return 0
}

// Indirect follows a forward offset stored at pos.
func (t Table) Indirect(pos UOffset) UOffset {
	return pos + GetUOffset(t.Buf, pos)
}

// String reads the string whose offset is stored at pos.
func (t Table) String(pos UOffset) string {
	return string(t.ByteVector(pos))
}

// ByteVector reads the byte content of the string or [ubyte] vector whose
// offset is stored at pos.
func (t Table) ByteVector(pos UOffset) []byte {
	pos = t.Indirect(pos)
	n := GetUOffset(t.Buf, pos)
	start := pos + SizeUOffset
	return t.Buf[start : start+n]
}

// VectorLen reads the element count of the vector whose offset is stored at
// the field position pos.
func (t Table) VectorLen(pos UOffset) int {
	return int(GetUOffset(t.Buf, t.Indirect(pos)))
}

// Vector returns the position of the first element of the vector whose offset
// is stored at pos.
func (t Table) Vector(pos UOffset) UOffset {
	return t.Indirect(pos) + SizeUOffset
}

// Union positions out at the object a union value field points to.
func (t Table) Union(out *Table, pos UOffset) {
	out.Buf = t.Buf
	out.Pos = t.Indirect(pos)
}

// Scalar field accessors. Each takes a vtable offset and a default, returning
// the default when the slot is absent.

func (t Table) BoolSlot(vo VOffset, d bool) bool {
	if o := t.Offset(vo); o != 0 {
		return GetBool(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Int8Slot(vo VOffset, d int8) int8 {
	if o := t.Offset(vo); o != 0 {
		return GetInt8(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Uint8Slot(vo VOffset, d uint8) uint8 {
	if o := t.Offset(vo); o != 0 {
		return GetUint8(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Int16Slot(vo VOffset, d int16) int16 {
	if o := t.Offset(vo); o != 0 {
		return GetInt16(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Uint16Slot(vo VOffset, d uint16) uint16 {
	if o := t.Offset(vo); o != 0 {
		return GetUint16(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Int32Slot(vo VOffset, d int32) int32 {
	if o := t.Offset(vo); o != 0 {
		return GetInt32(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Uint32Slot(vo VOffset, d uint32) uint32 {
	if o := t.Offset(vo); o != 0 {
		return GetUint32(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Int64Slot(vo VOffset, d int64) int64 {
	if o := t.Offset(vo); o != 0 {
		return GetInt64(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Uint64Slot(vo VOffset, d uint64) uint64 {
	if o := t.Offset(vo); o != 0 {
		return GetUint64(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Float32Slot(vo VOffset, d float32) float32 {
	if o := t.Offset(vo); o != 0 {
		return GetFloat32(t.Buf, t.Pos+UOffset(o))
	}
	return d
}

func (t Table) Float64Slot(vo VOffset, d float64) float64 {
	if o := t.Offset(vo); o != 0 {
		return GetFloat64(t.Buf, t.Pos+UOffset(o))
	}
	return d
}
