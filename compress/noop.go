package compress

// NoOpCompressor passes snapshot blocks through unchanged. Useful when the
// caller wants the block-framing and checksum behavior of snapshot.Writer
// without paying a compression cost, or in tests that want byte-identical
// round trips.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a no-op compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data unchanged. The returned slice shares the input's
// underlying array; callers must not mutate data afterward.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged, mirroring Compress.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
