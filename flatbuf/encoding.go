package flatbuf

import (
	"encoding/binary"
	"math"
)

/*
Low-level scalar access. Buffers are little-endian throughout; every multi-byte
read and write funnels through these helpers so the byte order lives in exactly
one place.
*/

////////////////////////////////////////////////////////////////////////////////

// UOffset is a relative offset pointing forward in the buffer.
type UOffset = uint32

// SOffset is a signed offset, used by tables to locate their vtables in
// either direction.
type SOffset = int32

// VOffset is an offset within a vtable.
type VOffset = uint16

const (
	// SizeUOffset is the encoded width of a forward offset.
	SizeUOffset = 4
	// SizeSOffset is the encoded width of a signed offset.
	SizeSOffset = 4
	// SizeVOffset is the encoded width of a vtable entry.
	SizeVOffset = 2
)

func GetBool(buf []byte, pos UOffset) bool {
	return buf[pos] != 0
}

func GetInt8(buf []byte, pos UOffset) int8 {
	return int8(buf[pos])
}

func GetUint8(buf []byte, pos UOffset) uint8 {
	return buf[pos]
}

func GetInt16(buf []byte, pos UOffset) int16 {
	return int16(binary.LittleEndian.Uint16(buf[pos:]))
}

func GetUint16(buf []byte, pos UOffset) uint16 {
	return binary.LittleEndian.Uint16(buf[pos:])
}

func GetInt32(buf []byte, pos UOffset) int32 {
	return int32(binary.LittleEndian.Uint32(buf[pos:]))
}

func GetUint32(buf []byte, pos UOffset) uint32 {
	return binary.LittleEndian.Uint32(buf[pos:])
}

func GetInt64(buf []byte, pos UOffset) int64 {
	return int64(binary.LittleEndian.Uint64(buf[pos:]))
}

func GetUint64(buf []byte, pos UOffset) uint64 {
	return binary.LittleEndian.Uint64(buf[pos:])
}

func GetFloat32(buf []byte, pos UOffset) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[pos:]))
}

func GetFloat64(buf []byte, pos UOffset) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[pos:]))
}

func GetUOffset(buf []byte, pos UOffset) UOffset {
	return binary.LittleEndian.Uint32(buf[pos:])
}

func GetSOffset(buf []byte, pos UOffset) SOffset {
	return int32(binary.LittleEndian.Uint32(buf[pos:]))
}

func GetVOffset(buf []byte, pos UOffset) VOffset {
	return binary.LittleEndian.Uint16(buf[pos:])
}

func PutBool(buf []byte, pos UOffset, v bool) {
	if v {
		buf[pos] = 1
	} else {
		buf[pos] = 0
	}
}

func PutInt8(buf []byte, pos UOffset, v int8) {
	buf[pos] = byte(v)
}

func PutUint8(buf []byte, pos UOffset, v uint8) {
	buf[pos] = v
}

func PutInt16(buf []byte, pos UOffset, v int16) {
	binary.LittleEndian.PutUint16(buf[pos:], uint16(v))
}

func PutUint16(buf []byte, pos UOffset, v uint16) {
	binary.LittleEndian.PutUint16(buf[pos:], v)
}

func PutInt32(buf []byte, pos UOffset, v int32) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(v))
}

func PutUint32(buf []byte, pos UOffset, v uint32) {
	binary.LittleEndian.PutUint32(buf[pos:], v)
}

func PutInt64(buf []byte, pos UOffset, v int64) {
	binary.LittleEndian.PutUint64(buf[pos:], uint64(v))
}

func PutUint64(buf []byte, pos UOffset, v uint64) {
	binary.LittleEndian.PutUint64(buf[pos:], v)
}

func PutFloat32(buf []byte, pos UOffset, v float32) {
	binary.LittleEndian.PutUint32(buf[pos:], math.Float32bits(v))
}

func PutFloat64(buf []byte, pos UOffset, v float64) {
	binary.LittleEndian.PutUint64(buf[pos:], math.Float64bits(v))
}

func PutUOffset(buf []byte, pos UOffset, v UOffset) {
	binary.LittleEndian.PutUint32(buf[pos:], v)
}

func PutSOffset(buf []byte, pos UOffset, v SOffset) {
	binary.LittleEndian.PutUint32(buf[pos:], uint32(v))
}

func PutVOffset(buf []byte, pos UOffset, v VOffset) {
	binary.LittleEndian.PutUint16(buf[pos:], v)
}
