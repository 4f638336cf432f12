package primitive

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/2dav/qshbook/endian"
	"github.com/2dav/qshbook/errs"
)

// byteSource is the minimal interface Reader needs from its underlying
// stream: bulk reads for fixed-width scalars and strings, single-byte
// reads for LEB128 groups. compress.DeflateReader satisfies it.
type byteSource interface {
	io.Reader
	io.ByteReader
}

// maxLEBBytes bounds a single LEB128/ULEB128 sequence so a corrupt stream
// with every continuation bit set can't spin forever; 10 bytes covers a
// full 64-bit value with room to spare.
const maxLEBBytes = 10

// Reader decodes QSH-v4 primitives from a byte source. It is stateless
// apart from the source position, so callers own the "previous value"
// state growing() deltas against.
type Reader struct {
	src     byteSource
	engine  endian.EndianEngine
	scratch [8]byte
}

// NewReader wraps src for primitive decoding. QSH-v4 is little-endian
// throughout.
func NewReader(src byteSource) *Reader {
	return &Reader{
		src:    src,
		engine: endian.GetLittleEndianEngine(),
	}
}

// ReadULEB decodes an unsigned LEB128 integer: each byte contributes its
// low 7 bits, continuing while the high bit is set.
func (r *Reader) ReadULEB() (uint64, error) {
	v, _, err := r.readULEBRaw()
	return v, err
}

// TryReadULEB decodes a ULEB128 integer the same as ReadULEB, except that
// running out of input before the first byte is not an error: it reports
// ok=false. Stream decoders call this for the leading field-presence mask
// of each record, the only point at which "no more bytes" is a valid,
// clean end of the record sequence rather than a truncated record.
func (r *Reader) TryReadULEB() (v uint64, ok bool, err error) {
	b, err := r.src.ReadByte()
	if err != nil {
		if err == io.EOF { //nolint:errorlint
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("%w: uleb byte 0: %w", errs.ErrUnexpectedEOF, err)
	}

	if b&0x80 == 0 {
		return uint64(b), true, nil
	}

	rest, _, err := r.readULEBContinuation(uint64(b&0x7F), 7, 1)
	if err != nil {
		return 0, false, err
	}

	return rest, true, nil
}

// readULEBContinuation finishes decoding a ULEB128 value whose first byte
// has already been consumed and folded into partial at the given shift.
func (r *Reader) readULEBContinuation(partial uint64, shift uint, consumed int) (uint64, int, error) {
	result := partial

	for n := consumed; n < maxLEBBytes; n++ {
		b, err := r.src.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("%w: uleb byte %d: %w", errs.ErrUnexpectedEOF, n, err)
		}

		if shift >= 64 || (shift == 63 && b&0x7F > 1) {
			return 0, 0, fmt.Errorf("%w: uleb exceeds 64 bits", errs.ErrOverflow)
		}

		result |= uint64(b&0x7F) << shift
		shift += 7

		if b&0x80 == 0 {
			return result, n + 1, nil
		}
	}

	return 0, 0, fmt.Errorf("%w: uleb continuation exceeds %d bytes", errs.ErrOverflow, maxLEBBytes)
}

// readULEBRaw decodes a ULEB128 value and also reports the number of
// bytes consumed, which growing() needs to compute the sentinel.
func (r *Reader) readULEBRaw() (uint64, int, error) {
	return r.readULEBContinuation(0, 0, 0)
}

// ReadLEB decodes a signed LEB128 integer, sign-extending from the final
// byte's sign bit.
func (r *Reader) ReadLEB() (int64, error) {
	var result int64
	var shift uint
	var b byte
	var err error

	for n := 0; n < maxLEBBytes; n++ {
		b, err = r.src.ReadByte()
		if err != nil {
			return 0, fmt.Errorf("%w: leb byte %d: %w", errs.ErrUnexpectedEOF, n, err)
		}

		if shift >= 64 {
			return 0, fmt.Errorf("%w: leb exceeds 64 bits", errs.ErrOverflow)
		}

		result |= int64(b&0x7F) << shift
		shift += 7

		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}

			return result, nil
		}
	}

	return 0, fmt.Errorf("%w: leb continuation exceeds %d bytes", errs.ErrOverflow, maxLEBBytes)
}

// ulebSentinel is the value whose ULEB128 encoding is all-ones in every
// 7-bit group it occupies, e.g. 0x7F for a single byte or 0x3FFF for two.
// growing() treats reading this exact value, in exactly the width it was
// encoded with, as an escape to a following absolute value rather than a
// real delta.
func ulebSentinel(numBytes int) uint64 {
	bitsUsed := 7 * numBytes
	if bitsUsed >= 64 {
		return ^uint64(0)
	}

	return (uint64(1) << uint(bitsUsed)) - 1
}

// ReadGrowing decodes a "growing" delta against prev: a ULEB is read; if
// it equals the sentinel for the width it was encoded in, a second ULEB
// follows carrying the absolute value. Otherwise the result is
// prev + decoded.
func (r *Reader) ReadGrowing(prev int64) (int64, error) {
	delta, n, err := r.readULEBRaw()
	if err != nil {
		return 0, err
	}

	if delta == ulebSentinel(n) {
		abs, err := r.ReadULEB()
		if err != nil {
			return 0, fmt.Errorf("growing: absolute escape: %w", err)
		}

		return int64(abs), nil //nolint:gosec
	}

	return prev + int64(delta), nil //nolint:gosec
}

// ReadString decodes a ULEB-length-prefixed UTF-8 string. An empty string
// is encoded as length 0.
func (r *Reader) ReadString() (string, error) {
	length, err := r.ReadULEB()
	if err != nil {
		return "", fmt.Errorf("string length: %w", err)
	}

	if length == 0 {
		return "", nil
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return "", fmt.Errorf("%w: string body (%d bytes): %w", errs.ErrUnexpectedEOF, length, err)
	}

	if !utf8.Valid(buf) {
		return "", fmt.Errorf("%w: string body is not valid UTF-8", errs.ErrInvalidUTF8)
	}

	return string(buf), nil
}

// ReadByte reads a single raw byte.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.src.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: byte: %w", errs.ErrUnexpectedEOF, err)
	}

	return b, nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	u, err := r.readFixed(2)
	return int16(u), err //nolint:gosec
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.readFixed(4)
	return int32(u), err //nolint:gosec
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	u, err := r.readFixed(8)
	return int64(u), err //nolint:gosec
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	u, err := r.readFixed(2)
	return uint16(u), err //nolint:gosec
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	u, err := r.readFixed(4)
	return uint32(u), err //nolint:gosec
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	return r.readFixed(8)
}

// readFixed reads size bytes (2, 4, or 8) and decodes them little-endian
// into a uint64, using the endian engine the teacher's fixed-width codecs
// are built on.
func (r *Reader) readFixed(size int) (uint64, error) {
	buf := r.scratch[:size]
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return 0, fmt.Errorf("%w: fixed%d: %w", errs.ErrUnexpectedEOF, size*8, err)
	}

	switch size {
	case 2:
		return uint64(r.engine.Uint16(buf)), nil
	case 4:
		return uint64(r.engine.Uint32(buf)), nil
	case 8:
		return r.engine.Uint64(buf), nil
	default:
		panic(fmt.Sprintf("primitive: unsupported fixed width %d", size))
	}
}
