package flatbuf_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wkalt/fbc/flatbuf"
)

func TestStringFieldGoldenBytes(t *testing.T) {
	// A table with one string field, finished as root. The encoding is
	// deterministic regardless of initial builder capacity.
	b := flatbuf.NewBuilder(16)
	str := b.CreateString("world")
	b.StartObject(1)
	b.PrependUOffsetSlot(0, str)
	root := b.EndObject()
	b.Finish(root)

	want := []byte{
		0x0c, 0x00, 0x00, 0x00, // root offset
		0x00, 0x00, // padding
		0x06, 0x00, 0x08, 0x00, 0x04, 0x00, // vtable: 6 bytes, 8-byte body, field at +4
		0x06, 0x00, 0x00, 0x00, // soffset to vtable
		0x04, 0x00, 0x00, 0x00, // string field offset
		0x05, 0x00, 0x00, 0x00, // string length
		'w', 'o', 'r', 'l', 'd', 0x00, // content, NUL terminated
		0x00, 0x00, // padding
	}
	require.Equal(t, want, b.FinishedBytes())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	o := tab.Offset(flatbuf.FieldOffset(0))
	require.NotZero(t, o)
	require.Equal(t, "world", tab.String(tab.Pos+flatbuf.UOffset(o)))
}

func TestScalarDefaultsAreElided(t *testing.T) {
	build := func(v int32) flatbuf.Table {
		b := flatbuf.NewBuilder(0)
		b.StartObject(1)
		b.PrependInt32Slot(0, v, 42)
		b.Finish(b.EndObject())
		return flatbuf.GetRoot(b.FinishedBytes())
	}

	// Default value: slot absent, reader falls back to the default.
	tab := build(42)
	require.Zero(t, tab.Offset(flatbuf.FieldOffset(0)))
	require.Equal(t, int32(42), tab.Int32Slot(flatbuf.FieldOffset(0), 42))

	// Non-default value: slot present.
	tab = build(7)
	require.NotZero(t, tab.Offset(flatbuf.FieldOffset(0)))
	require.Equal(t, int32(7), tab.Int32Slot(flatbuf.FieldOffset(0), 42))
}

func TestScalarSlots(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(6)
	b.PrependBoolSlot(0, true, false)
	b.PrependInt8Slot(1, -5, 0)
	b.PrependUint16Slot(2, 1000, 0)
	b.PrependInt64Slot(3, -1<<40, 0)
	b.PrependFloat32Slot(4, 1.5, 0)
	b.PrependFloat64Slot(5, -2.25, 0)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	require.Equal(t, true, tab.BoolSlot(flatbuf.FieldOffset(0), false))
	require.Equal(t, int8(-5), tab.Int8Slot(flatbuf.FieldOffset(1), 0))
	require.Equal(t, uint16(1000), tab.Uint16Slot(flatbuf.FieldOffset(2), 0))
	require.Equal(t, int64(-1<<40), tab.Int64Slot(flatbuf.FieldOffset(3), 0))
	require.Equal(t, float32(1.5), tab.Float32Slot(flatbuf.FieldOffset(4), 0))
	require.Equal(t, float64(-2.25), tab.Float64Slot(flatbuf.FieldOffset(5), 0))
}

func TestEnumStoredAsBaseType(t *testing.T) {
	// Enum fields encode as their integral base type, one byte here.
	b := flatbuf.NewBuilder(0)
	b.StartObject(1)
	b.PrependInt8Slot(0, 1, 0)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	o := tab.Offset(flatbuf.FieldOffset(0))
	require.NotZero(t, o)
	require.Equal(t, int8(1), flatbuf.GetInt8(tab.Buf, tab.Pos+flatbuf.UOffset(o)))
}

func TestVtableDeduplication(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	build := func(v int32) flatbuf.UOffset {
		b.StartObject(1)
		b.PrependInt32Slot(0, v, 0)
		return b.EndObject()
	}
	first := build(1)
	second := build(2)

	b.StartObject(2)
	b.PrependUOffsetSlot(0, first)
	b.PrependUOffsetSlot(1, second)
	b.Finish(b.EndObject())
	buf := b.FinishedBytes()

	parent := flatbuf.GetRoot(buf)
	var a, c flatbuf.Table
	parent.Union(&a, parent.Pos+flatbuf.UOffset(parent.Offset(flatbuf.FieldOffset(0))))
	parent.Union(&c, parent.Pos+flatbuf.UOffset(parent.Offset(flatbuf.FieldOffset(1))))

	// Identical shape: both tables resolve to the same vtable.
	vtableOf := func(tab flatbuf.Table) flatbuf.UOffset {
		return flatbuf.UOffset(flatbuf.SOffset(tab.Pos) - flatbuf.GetSOffset(tab.Buf, tab.Pos))
	}
	require.Equal(t, vtableOf(a), vtableOf(c))
	require.Equal(t, int32(1), a.Int32Slot(flatbuf.FieldOffset(0), 0))
	require.Equal(t, int32(2), c.Int32Slot(flatbuf.FieldOffset(0), 0))
}

func TestVectors(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartVector(4, 3, 4)
	// Elements are prepended in reverse.
	b.PrependInt32(30)
	b.PrependInt32(20)
	b.PrependInt32(10)
	vec := b.EndVector(3)

	b.StartObject(1)
	b.PrependUOffsetSlot(0, vec)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	fieldPos := tab.Pos + flatbuf.UOffset(tab.Offset(flatbuf.FieldOffset(0)))
	require.Equal(t, 3, tab.VectorLen(fieldPos))
	start := tab.Vector(fieldPos)
	require.Equal(t, int32(10), flatbuf.GetInt32(tab.Buf, start))
	require.Equal(t, int32(20), flatbuf.GetInt32(tab.Buf, start+4))
	require.Equal(t, int32(30), flatbuf.GetInt32(tab.Buf, start+8))
}

func TestStructFieldsAreInline(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(1)
	// A 12-byte struct of three floats, written directly into the table body.
	b.Prep(4, 12)
	b.PrependFloat32(3)
	b.PrependFloat32(2)
	b.PrependFloat32(1)
	b.PrependStructSlot(0, b.Offset())
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	o := tab.Offset(flatbuf.FieldOffset(0))
	require.NotZero(t, o)
	pos := tab.Pos + flatbuf.UOffset(o)
	require.Equal(t, float32(1), flatbuf.GetFloat32(tab.Buf, pos))
	require.Equal(t, float32(2), flatbuf.GetFloat32(tab.Buf, pos+4))
	require.Equal(t, float32(3), flatbuf.GetFloat32(tab.Buf, pos+8))
}

func TestUnionRoundTrip(t *testing.T) {
	b := flatbuf.NewBuilder(0)

	// The variant table.
	name := b.CreateString("sword")
	b.StartObject(1)
	b.PrependUOffsetSlot(0, name)
	variant := b.EndObject()

	// Parent: slot 0 is the hidden discriminant, slot 1 the value.
	b.StartObject(2)
	b.PrependUint8Slot(0, 1, 0)
	b.PrependUOffsetSlot(1, variant)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	require.Equal(t, uint8(1), tab.Uint8Slot(flatbuf.FieldOffset(0), 0))

	var value flatbuf.Table
	o := tab.Offset(flatbuf.FieldOffset(1))
	require.NotZero(t, o)
	tab.Union(&value, tab.Pos+flatbuf.UOffset(o))
	so := value.Offset(flatbuf.FieldOffset(0))
	require.Equal(t, "sword", value.String(value.Pos+flatbuf.UOffset(so)))
}

func TestFileIdentifier(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(0)
	root := b.EndObject()
	b.FinishWithIdentifier(root, "MONS")
	buf := b.FinishedBytes()

	require.True(t, flatbuf.BufferHasIdentifier(buf, "MONS"))
	require.False(t, flatbuf.BufferHasIdentifier(buf, "XXXX"))

	tab := flatbuf.GetRoot(buf)
	require.Zero(t, tab.Offset(flatbuf.FieldOffset(0)))
}

func TestTrailingAbsentSlotsAreTrimmed(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(4)
	b.PrependInt32Slot(0, 9, 0)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	vtable := flatbuf.UOffset(flatbuf.SOffset(tab.Pos) - flatbuf.GetSOffset(tab.Buf, tab.Pos))
	// One retained slot: 2 metadata entries plus 1 field entry.
	require.Equal(t, flatbuf.VOffset(6), flatbuf.GetVOffset(tab.Buf, vtable))
	require.Equal(t, int32(9), tab.Int32Slot(flatbuf.FieldOffset(0), 0))
	require.Zero(t, tab.Offset(flatbuf.FieldOffset(3)))
}

func TestBuilderGrowth(t *testing.T) {
	b := flatbuf.NewBuilder(1)
	var offs []flatbuf.UOffset
	for i := 0; i < 100; i++ {
		offs = append(offs, b.CreateString("payload payload payload"))
	}
	b.StartVector(4, len(offs), 4)
	for i := len(offs) - 1; i >= 0; i-- {
		b.PrependUOffset(offs[i])
	}
	vec := b.EndVector(len(offs))
	b.StartObject(1)
	b.PrependUOffsetSlot(0, vec)
	b.Finish(b.EndObject())

	tab := flatbuf.GetRoot(b.FinishedBytes())
	fieldPos := tab.Pos + flatbuf.UOffset(tab.Offset(flatbuf.FieldOffset(0)))
	require.Equal(t, 100, tab.VectorLen(fieldPos))
	start := tab.Vector(fieldPos)
	for i := 0; i < 100; i++ {
		require.Equal(t, "payload payload payload", tab.String(start+flatbuf.UOffset(4*i)))
	}
}

func TestBuilderReset(t *testing.T) {
	b := flatbuf.NewBuilder(0)
	b.StartObject(1)
	b.PrependInt32Slot(0, 5, 0)
	b.Finish(b.EndObject())
	first := append([]byte{}, b.FinishedBytes()...)

	b.Reset()
	b.StartObject(1)
	b.PrependInt32Slot(0, 5, 0)
	b.Finish(b.EndObject())
	require.Equal(t, first, b.FinishedBytes())
}
