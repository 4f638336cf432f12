package primitive

import (
	"github.com/2dav/qshbook/endian"
	"github.com/2dav/qshbook/internal/pool"
)

// Writer is the mirror of Reader: it encodes the same QSH-v4 primitives
// into a pooled buffer. It exists for tests that need byte-exact fixtures
// and Reader/Writer round trips; this module never writes QSH files as a
// product feature.
type Writer struct {
	buf     *pool.ByteBuffer
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewWriter creates a Writer backed by a pooled buffer.
func NewWriter() *Writer {
	return &Writer{
		buf:    pool.GetRecordBuffer(),
		engine: endian.GetLittleEndianEngine(),
	}
}

// Bytes returns the encoded data so far. The slice is valid until the next
// Write call or Release.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Release returns the backing buffer to its pool. The Writer must not be
// used afterward.
func (w *Writer) Release() {
	pool.PutRecordBuffer(w.buf)
	w.buf = nil
}

// WriteULEB encodes v as unsigned LEB128.
func (w *Writer) WriteULEB(v uint64) {
	w.buf.Grow(maxLEBBytes)

	for {
		b := byte(v & 0x7F)
		v >>= 7

		if v != 0 {
			b |= 0x80
			w.buf.MustWrite([]byte{b})
			continue
		}

		w.buf.MustWrite([]byte{b})
		return
	}
}

// WriteLEB encodes v as signed LEB128 with sign-bit extension on the final
// byte.
func (w *Writer) WriteLEB(v int64) {
	w.buf.Grow(maxLEBBytes)

	for {
		b := byte(v & 0x7F)
		v >>= 7

		signBitSet := b&0x40 != 0
		done := (v == 0 && !signBitSet) || (v == -1 && signBitSet)

		if done {
			w.buf.MustWrite([]byte{b})
			return
		}

		w.buf.MustWrite([]byte{b | 0x80})
	}
}

// ulebWidth reports how many bytes ReadULEB would consume to decode v.
func ulebWidth(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}

	return n
}

// WriteGrowing encodes cur as a delta against prev. If the delta happens
// to equal the sentinel value for the width it would naturally encode to,
// it falls back to the absolute escape to avoid ambiguity with ReadGrowing.
func (w *Writer) WriteGrowing(prev, cur int64) {
	delta := uint64(cur - prev) //nolint:gosec
	n := ulebWidth(delta)

	if delta == ulebSentinel(n) {
		w.WriteULEB(ulebSentinel(n))
		w.WriteULEB(uint64(cur)) //nolint:gosec
		return
	}

	w.WriteULEB(delta)
}

// WriteString encodes s as a ULEB length prefix followed by its UTF-8
// bytes.
func (w *Writer) WriteString(s string) {
	w.WriteULEB(uint64(len(s)))
	if len(s) == 0 {
		return
	}

	w.buf.Grow(len(s))
	w.buf.MustWrite([]byte(s))
}

// WriteByte writes a single raw byte.
func (w *Writer) WriteByte(b byte) {
	w.buf.Grow(1)
	w.buf.MustWrite([]byte{b})
}

// WriteI16 writes a little-endian signed 16-bit integer.
func (w *Writer) WriteI16(v int16) { w.writeFixed(2, uint64(uint16(v))) }

// WriteI32 writes a little-endian signed 32-bit integer.
func (w *Writer) WriteI32(v int32) { w.writeFixed(4, uint64(uint32(v))) }

// WriteI64 writes a little-endian signed 64-bit integer.
func (w *Writer) WriteI64(v int64) { w.writeFixed(8, uint64(v)) }

// WriteU16 writes a little-endian unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) { w.writeFixed(2, uint64(v)) }

// WriteU32 writes a little-endian unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) { w.writeFixed(4, uint64(v)) }

// WriteU64 writes a little-endian unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) { w.writeFixed(8, v) }

func (w *Writer) writeFixed(size int, v uint64) {
	buf := w.scratch[:size]

	switch size {
	case 2:
		w.engine.PutUint16(buf, uint16(v))
	case 4:
		w.engine.PutUint32(buf, uint32(v))
	case 8:
		w.engine.PutUint64(buf, v)
	}

	w.buf.Grow(size)
	w.buf.MustWrite(buf)
}
