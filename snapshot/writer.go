package snapshot

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/2dav/qshbook/compress"
	"github.com/2dav/qshbook/errs"
	"github.com/2dav/qshbook/format"
	"github.com/2dav/qshbook/internal/pool"
)

// Writer serializes a block of Rows to an io.Writer, optionally
// compressing the encoded block and always appending an xxHash64
// checksum of the (possibly compressed) payload, so a reader can detect
// truncation or bit rot without decoding every row first.
//
// This is supplemental to the core decode path: nothing in the decode
// direction depends on it, and nothing here reintroduces writing QSH
// files — rows are the engine's own output, not QSH wire records.
type Writer struct {
	w     io.Writer
	codec compress.Codec
	depth int
}

// NewWriter wraps w, serializing depth-N rows with the given
// compression algorithm (format.CompressionNone disables compression).
func NewWriter(w io.Writer, depth int, compression format.CompressionType) (*Writer, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	return &Writer{w: w, codec: codec, depth: depth}, nil
}

// WriteBlock encodes rows as fixed-width little-endian int64 fields,
// compresses the block, and writes [4-byte length][payload][8-byte
// xxHash64 checksum of payload].
func (w *Writer) WriteBlock(rows []Row) error {
	buf := pool.GetBatchBuffer()
	defer pool.PutBatchBuffer(buf)

	rowWidth := 1 + 4*w.depth
	scratch := make([]byte, 8)

	for i, row := range rows {
		if len(row) != rowWidth {
			return fmt.Errorf("snapshot: row %d has %d fields, want %d", i, len(row), rowWidth)
		}

		for _, v := range row {
			binary.LittleEndian.PutUint64(scratch, uint64(v)) //nolint:gosec
			buf.MustWrite(scratch)
		}
	}

	payload, err := w.codec.Compress(buf.Bytes())
	if err != nil {
		return fmt.Errorf("snapshot: compress block: %w", err)
	}

	header := make([]byte, 4)
	binary.LittleEndian.PutUint32(header, uint32(len(payload))) //nolint:gosec

	if _, err := w.w.Write(header); err != nil {
		return fmt.Errorf("snapshot: write block length: %w", err)
	}
	if _, err := w.w.Write(payload); err != nil {
		return fmt.Errorf("snapshot: write block payload: %w", err)
	}

	checksum := make([]byte, 8)
	binary.LittleEndian.PutUint64(checksum, xxhash.Sum64(payload))
	if _, err := w.w.Write(checksum); err != nil {
		return fmt.Errorf("snapshot: write block checksum: %w", err)
	}

	return nil
}

// ReadBlock is the Writer's inverse: it reads one length-prefixed,
// checksummed, possibly-compressed block and decodes it back into rows.
func ReadBlock(r io.Reader, depth int, compression format.CompressionType) ([]Row, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(r, lenBuf); err != nil {
		return nil, fmt.Errorf("%w: block length: %w", errs.ErrUnexpectedEOF, err)
	}

	payload := make([]byte, binary.LittleEndian.Uint32(lenBuf))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("%w: block payload: %w", errs.ErrUnexpectedEOF, err)
	}

	checksumBuf := make([]byte, 8)
	if _, err := io.ReadFull(r, checksumBuf); err != nil {
		return nil, fmt.Errorf("%w: block checksum: %w", errs.ErrUnexpectedEOF, err)
	}

	if want := binary.LittleEndian.Uint64(checksumBuf); xxhash.Sum64(payload) != want {
		return nil, fmt.Errorf("snapshot: block checksum mismatch")
	}

	data, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress block: %w", err)
	}

	rowWidth := 1 + 4*depth
	const fieldSize = 8
	recordSize := rowWidth * fieldSize

	if len(data)%recordSize != 0 {
		return nil, fmt.Errorf("snapshot: block has %d bytes, not a multiple of row size %d", len(data), recordSize)
	}

	rows := make([]Row, 0, len(data)/recordSize)
	for off := 0; off < len(data); off += recordSize {
		row := make(Row, rowWidth)
		for i := range row {
			start := off + i*fieldSize
			row[i] = int64(binary.LittleEndian.Uint64(data[start : start+fieldSize])) //nolint:gosec
		}
		rows = append(rows, row)
	}

	return rows, nil
}
