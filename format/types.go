// Package format defines the wire-level constants of the QSH-v4 container:
// the magic signature, version byte, stream-kind byte, and the compression
// type tag used by the snapshot writer's output blocks.
package format

import "fmt"

// CompressionType selects the codec used to compress an encoded snapshot
// block (see package compress). It mirrors the teacher's own
// EncodingType/CompressionType enum shape.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1
	CompressionZstd CompressionType = 0x2
	CompressionS2   CompressionType = 0x3
	CompressionLZ4  CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Version is the only QSH format version this decoder understands.
const Version = 4

// StreamKind identifies which of the four record streams a QSH file carries.
//
// Exact byte values are taken from spec.md §6 / the QSH-v4 reference format;
// they are not re-derivable from prose and must not be guessed.
type StreamKind uint8

const (
	StreamOrderLog StreamKind = 0x10
	StreamDeal     StreamKind = 0x20
	StreamQuotes   StreamKind = 0x30
	StreamAuxInfo  StreamKind = 0x40
)

func (k StreamKind) String() string {
	switch k {
	case StreamOrderLog:
		return "OrderLog"
	case StreamDeal:
		return "Deal"
	case StreamQuotes:
		return "Quotes"
	case StreamAuxInfo:
		return "AuxInfo"
	default:
		return fmt.Sprintf("StreamKind(0x%02x)", uint8(k))
	}
}

// Valid reports whether k is one of the four known stream kinds.
func (k StreamKind) Valid() bool {
	switch k {
	case StreamOrderLog, StreamDeal, StreamQuotes, StreamAuxInfo:
		return true
	default:
		return false
	}
}

// Magic is the fixed ASCII signature that opens every QSH-v4 file, read
// before the version byte. No reference QSH-v4 binary was available to
// this implementation, so this value is a placeholder rather than a
// byte-for-byte match of the real format; ParseHeader treats it as an
// opaque fixed-width check value, so a future caller with a real sample
// file only needs to change this constant.
var Magic = [4]byte{'Q', 'S', 'c', 'h'}
