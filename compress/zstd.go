package compress

// ZstdCompressor compresses snapshot blocks with Zstandard, favoring
// compression ratio over speed. Suited to archival snapshot files where
// decompression happens infrequently. The actual implementation is chosen
// at build time: zstd_cgo.go (cgo, valyala/gozstd) or zstd_pure.go (pure Go,
// klauspost/compress/zstd).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
