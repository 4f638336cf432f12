// Package compress provides the codecs snapshot.Writer uses to shrink a
// block of encoded depth-N rows before it hits disk.
//
// # Algorithms
//
//   - None (format.CompressionNone): no-op, use when CPU matters more than
//     bytes, or when the block is already small
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate ratio
//   - S2 (format.CompressionS2): balance of speed and ratio
//   - Zstd (format.CompressionZstd): best ratio, higher cost, suited to
//     archival snapshot files
//
// Callers select an algorithm via CreateCodec or GetCodec and get back a
// Codec, which is just a paired Compressor/Decompressor. All four
// implementations are safe for concurrent use.
package compress
