package compress

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// DeflateReader wraps a raw QSH file in a zlib/deflate decompressor and a
// buffered reader, producing the byte source primitive.Reader consumes.
// QSH-v4 files are deflate-compressed (zlib framing, no gzip wrapper) from
// the first header byte onward.
type DeflateReader struct {
	zr io.ReadCloser
	br *bufio.Reader
}

// NewDeflateReader opens a deflate stream over r.
func NewDeflateReader(r io.Reader) (*DeflateReader, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("compress: open deflate stream: %w", err)
	}

	return &DeflateReader{
		zr: zr,
		br: bufio.NewReaderSize(zr, RecordBufferDefaultSizeHint),
	}, nil
}

// RecordBufferDefaultSizeHint sizes the buffered reader sitting on top of
// the deflate stream; matches the record buffer pool's default so a single
// record rarely spans a refill.
const RecordBufferDefaultSizeHint = 1024 * 16

// Read implements io.Reader.
func (d *DeflateReader) Read(p []byte) (int, error) {
	return d.br.Read(p)
}

// ReadByte implements io.ByteReader, used by the ULEB128/LEB128 decoders.
func (d *DeflateReader) ReadByte() (byte, error) {
	return d.br.ReadByte()
}

// Close releases the underlying zlib reader.
func (d *DeflateReader) Close() error {
	return d.zr.Close()
}
