package flatbuf

/*
Write-side buffer construction. The builder grows backward: bytes are placed
from the end of an internal buffer toward the front, so children are always
written before the parents that point at them and forward references never
occur. Offsets handed to callers are measured from the end of the buffer and
only become absolute when the buffer is finished.

Vtables are deduplicated by content. Two tables with the same shape (same
present fields at the same offsets, same body size) share one vtable, keyed by
the serialized vtable bytes.

Misuse (ending an object that was never started, requesting finished bytes
before Finish) panics. These are programming errors in generated or hand-rolled
encoding code, not runtime conditions.
*/

////////////////////////////////////////////////////////////////////////////////

// Builder incrementally constructs a buffer back to front.
type Builder struct {
	buf      []byte
	head     UOffset // index of the first used byte
	minalign int

	vtable    []UOffset // per-slot builder offsets of the current object
	objectEnd UOffset
	nested    bool
	finished  bool

	vtables map[string]UOffset // serialized vtable -> builder offset
}

// NewBuilder returns a builder with the given initial capacity.
func NewBuilder(initialSize int) *Builder {
	if initialSize <= 0 {
		initialSize = 1024
	}
	return &Builder{
		buf:      make([]byte, initialSize),
		head:     UOffset(initialSize),
		minalign: 1,
		vtables:  map[string]UOffset{},
	}
}

// Reset discards the contents for reuse, keeping the allocated buffer.
func (b *Builder) Reset() {
	b.head = UOffset(len(b.buf))
	b.minalign = 1
	b.vtable = b.vtable[:0]
	b.objectEnd = 0
	b.nested = false
	b.finished = false
	b.vtables = map[string]UOffset{}
}

// Offset returns the current write position, measured from the end of the
// buffer.
func (b *Builder) Offset() UOffset {
	return UOffset(len(b.buf)) - b.head
}

// FinishedBytes returns the encoded buffer. Finish must have been called.
func (b *Builder) FinishedBytes() []byte {
	if !b.finished {
		panic("flatbuf: FinishedBytes called before Finish")
	}
	return b.buf[b.head:]
}

func (b *Builder) grow() {
	n := len(b.buf) * 2
	if n == 0 {
		n = 1024
	}
	next := make([]byte, n)
	copy(next[n-len(b.buf):], b.buf)
	b.buf = next
}

// Pad places n zero bytes.
func (b *Builder) Pad(n int) {
	for i := 0; i < n; i++ {
		b.head--
		b.buf[b.head] = 0
	}
}

// Prep makes room for writing additionalBytes followed by an object of the
// given size, padding so the object ends up aligned to its size.
func (b *Builder) Prep(size, additionalBytes int) {
	if size > b.minalign {
		b.minalign = size
	}
	alignSize := (^(len(b.buf) - int(b.head) + additionalBytes) + 1) & (size - 1)
	for int(b.head) <= alignSize+size+additionalBytes {
		before := len(b.buf)
		b.grow()
		b.head += UOffset(len(b.buf) - before)
	}
	b.Pad(alignSize)
}

// Place writes without preparation; the caller has already aligned.

func (b *Builder) PlaceBool(v bool) {
	b.head--
	PutBool(b.buf, b.head, v)
}

func (b *Builder) PlaceUint8(v uint8) {
	b.head--
	b.buf[b.head] = v
}

func (b *Builder) PlaceUOffset(v UOffset) {
	b.head -= SizeUOffset
	PutUOffset(b.buf, b.head, v)
}

func (b *Builder) PlaceVOffset(v VOffset) {
	b.head -= SizeVOffset
	PutVOffset(b.buf, b.head, v)
}

func (b *Builder) PlaceSOffset(v SOffset) {
	b.head -= SizeSOffset
	PutSOffset(b.buf, b.head, v)
}

// Prepend aligns and writes a single scalar.

func (b *Builder) PrependBool(v bool) {
	b.Prep(1, 0)
	b.PlaceBool(v)
}

func (b *Builder) PrependInt8(v int8) {
	b.Prep(1, 0)
	b.head--
	PutInt8(b.buf, b.head, v)
}

func (b *Builder) PrependUint8(v uint8) {
	b.Prep(1, 0)
	b.PlaceUint8(v)
}

func (b *Builder) PrependInt16(v int16) {
	b.Prep(2, 0)
	b.head -= 2
	PutInt16(b.buf, b.head, v)
}

func (b *Builder) PrependUint16(v uint16) {
	b.Prep(2, 0)
	b.head -= 2
	PutUint16(b.buf, b.head, v)
}

func (b *Builder) PrependInt32(v int32) {
	b.Prep(4, 0)
	b.head -= 4
	PutInt32(b.buf, b.head, v)
}

func (b *Builder) PrependUint32(v uint32) {
	b.Prep(4, 0)
	b.head -= 4
	PutUint32(b.buf, b.head, v)
}

func (b *Builder) PrependInt64(v int64) {
	b.Prep(8, 0)
	b.head -= 8
	PutInt64(b.buf, b.head, v)
}

func (b *Builder) PrependUint64(v uint64) {
	b.Prep(8, 0)
	b.head -= 8
	PutUint64(b.buf, b.head, v)
}

func (b *Builder) PrependFloat32(v float32) {
	b.Prep(4, 0)
	b.head -= 4
	PutFloat32(b.buf, b.head, v)
}

func (b *Builder) PrependFloat64(v float64) {
	b.Prep(8, 0)
	b.head -= 8
	PutFloat64(b.buf, b.head, v)
}

// PrependUOffset writes a forward reference to an object previously written
// at the given builder offset.
func (b *Builder) PrependUOffset(off UOffset) {
	b.Prep(SizeUOffset, 0)
	if off > b.Offset() {
		panic("flatbuf: offset points past the written buffer")
	}
	b.PlaceUOffset(b.Offset() - off + SizeUOffset)
}

// CreateString writes a NUL-terminated, length-prefixed string and returns
// its builder offset.
func (b *Builder) CreateString(s string) UOffset {
	b.assertNotNested()
	b.Prep(SizeUOffset, len(s)+1)
	b.PlaceUint8(0)
	b.head -= UOffset(len(s))
	copy(b.buf[b.head:], s)
	b.PlaceUOffset(UOffset(len(s)))
	return b.Offset()
}

// CreateByteVector writes a length-prefixed [ubyte] vector and returns its
// builder offset.
func (b *Builder) CreateByteVector(v []byte) UOffset {
	b.assertNotNested()
	b.Prep(SizeUOffset, len(v))
	b.head -= UOffset(len(v))
	copy(b.buf[b.head:], v)
	b.PlaceUOffset(UOffset(len(v)))
	return b.Offset()
}

// StartVector prepares for numElems elements of the given size, aligned to
// alignment. Elements are then prepended in reverse order.
func (b *Builder) StartVector(elemSize, numElems, alignment int) {
	b.assertNotNested()
	b.nested = true
	b.Prep(SizeUOffset, elemSize*numElems)
	b.Prep(alignment, elemSize*numElems)
}

// EndVector writes the element count and returns the vector's builder offset.
func (b *Builder) EndVector(numElems int) UOffset {
	b.assertNested()
	b.nested = false
	b.PlaceUOffset(UOffset(numElems))
	return b.Offset()
}

// StartObject begins a table with the given number of vtable slots.
func (b *Builder) StartObject(numSlots int) {
	b.assertNotNested()
	b.nested = true
	if cap(b.vtable) < numSlots {
		b.vtable = make([]UOffset, numSlots)
	} else {
		b.vtable = b.vtable[:numSlots]
		for i := range b.vtable {
			b.vtable[i] = 0
		}
	}
	b.objectEnd = b.Offset()
}

// Slot marks the field at slot as present at the current write position.
func (b *Builder) Slot(slot int) {
	b.vtable[slot] = b.Offset()
}

// Scalar slot writers. Values equal to the schema default are elided.

func (b *Builder) PrependBoolSlot(slot int, v, d bool) {
	if v != d {
		b.PrependBool(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependInt8Slot(slot int, v, d int8) {
	if v != d {
		b.PrependInt8(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependUint8Slot(slot int, v, d uint8) {
	if v != d {
		b.PrependUint8(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependInt16Slot(slot int, v, d int16) {
	if v != d {
		b.PrependInt16(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependUint16Slot(slot int, v, d uint16) {
	if v != d {
		b.PrependUint16(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependInt32Slot(slot int, v, d int32) {
	if v != d {
		b.PrependInt32(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependUint32Slot(slot int, v, d uint32) {
	if v != d {
		b.PrependUint32(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependInt64Slot(slot int, v, d int64) {
	if v != d {
		b.PrependInt64(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependUint64Slot(slot int, v, d uint64) {
	if v != d {
		b.PrependUint64(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependFloat32Slot(slot int, v, d float32) {
	if v != d {
		b.PrependFloat32(v)
		b.Slot(slot)
	}
}

func (b *Builder) PrependFloat64Slot(slot int, v, d float64) {
	if v != d {
		b.PrependFloat64(v)
		b.Slot(slot)
	}
}

// PrependUOffsetSlot records a reference field. Zero means absent.
func (b *Builder) PrependUOffsetSlot(slot int, off UOffset) {
	if off != 0 {
		b.PrependUOffset(off)
		b.Slot(slot)
	}
}

// PrependStructSlot records an inline struct field. Structs must be written
// immediately before the enclosing table field, so off must equal the current
// write position.
func (b *Builder) PrependStructSlot(slot int, off UOffset) {
	if off != 0 {
		if off != b.Offset() {
			panic("flatbuf: struct must be written inline in its table")
		}
		b.Slot(slot)
	}
}

// EndObject finishes the current table, writes or reuses its vtable, and
// returns the table's builder offset.
func (b *Builder) EndObject() UOffset {
	b.assertNested()
	b.nested = false

	// Placeholder for the soffset back to the vtable.
	b.PrependSOffset(0)
	object := b.Offset()

	// Trailing absent slots carry no information.
	slots := len(b.vtable)
	for slots > 0 && b.vtable[slots-1] == 0 {
		slots--
	}

	vtableBytes := (slots + 2) * SizeVOffset
	serialized := make([]byte, vtableBytes)
	PutVOffset(serialized, 0, VOffset(vtableBytes))
	PutVOffset(serialized, SizeVOffset, VOffset(object-b.objectEnd))
	for i := 0; i < slots; i++ {
		var fieldOff VOffset
		if b.vtable[i] != 0 {
			fieldOff = VOffset(object - b.vtable[i])
		}
		PutVOffset(serialized, UOffset(2*SizeVOffset+i*SizeVOffset), fieldOff)
	}

	if existing, ok := b.vtables[string(serialized)]; ok {
		PutSOffset(b.buf, UOffset(len(b.buf))-object, SOffset(existing)-SOffset(object))
	} else {
		for int(b.head) < vtableBytes {
			before := len(b.buf)
			b.grow()
			b.head += UOffset(len(b.buf) - before)
		}
		b.head -= UOffset(vtableBytes)
		copy(b.buf[b.head:], serialized)
		objectStart := UOffset(len(b.buf)) - object
		b.vtables[string(serialized)] = b.Offset()
		PutSOffset(b.buf, objectStart, SOffset(b.Offset())-SOffset(object))
	}

	b.vtable = b.vtable[:0]
	return object
}

func (b *Builder) PrependSOffset(v SOffset) {
	b.Prep(SizeSOffset, 0)
	b.PlaceSOffset(v)
}

// Finish writes the root offset, completing the buffer.
func (b *Builder) Finish(root UOffset) {
	b.assertNotNested()
	b.Prep(b.minalign, SizeUOffset)
	b.PrependUOffset(root)
	b.finished = true
}

// FinishWithIdentifier writes the root offset followed by a 4-byte file
// identifier, completing the buffer.
func (b *Builder) FinishWithIdentifier(root UOffset, ident string) {
	if len(ident) != 4 {
		panic("flatbuf: file identifier must be exactly 4 bytes")
	}
	b.assertNotNested()
	b.Prep(b.minalign, SizeUOffset+4)
	for i := 3; i >= 0; i-- {
		b.PlaceUint8(ident[i])
	}
	b.PrependUOffset(root)
	b.finished = true
}

func (b *Builder) assertNested() {
	if !b.nested {
		panic("flatbuf: end called outside an object or vector")
	}
}

func (b *Builder) assertNotNested() {
	if b.nested {
		panic("flatbuf: operation not permitted inside an object or vector")
	}
}
