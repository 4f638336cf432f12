// Package compress provides the codecs snapshot.Writer uses to compress an
// encoded block of depth-N rows before it hits disk, plus the deflate
// reader that turns a raw QSH file into the buffered byte source the
// primitive reader expects.
package compress

import (
	"fmt"

	"github.com/2dav/qshbook/errs"
	"github.com/2dav/qshbook/format"
)

// Compressor compresses a block of encoded snapshot rows.
type Compressor interface {
	// Compress compresses data and returns a newly allocated result; data
	// is left unmodified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor decompresses a block previously produced by a Compressor
// using the same algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines compression and decompression.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec builds a Codec for the given compression type. target names
// the caller for the error message (e.g. "snapshot writer").
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrInvalidCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the given compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCompression, compressionType)
}
