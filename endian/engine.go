// Package endian provides the byte-order engine used to decode QSH's
// fixed-width scalar fields (header timestamp, i16/i32/i64/u16/u32/u64
// counters), extending encoding/binary with the combined ByteOrder +
// AppendByteOrder interface.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
// binary.LittleEndian and binary.BigEndian both satisfy it unmodified.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host's native byte order.
func CheckEndianness() binary.ByteOrder {
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine is the host's native byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return CheckEndianness() == engine
}

// QSH-v4 files are little-endian throughout; GetLittleEndianEngine is the
// engine primitive.Reader and primitive.Writer are built on, and so the one
// format.ParseHeader and the stream decoders use. GetBigEndianEngine is not
// used by any decoder.

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
