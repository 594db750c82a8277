package compression

import "github.com/klauspost/compress/zstd"

// Shared stateless instances: EncodeAll/DecodeAll are safe for concurrent
// use, and draft bodies are small enough that one encoder serves all saves.
var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil)
)

// ZstdCompressor is the default codec for stored bodies.
type ZstdCompressor struct{}

func (z ZstdCompressor) Compress(data []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func (z ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(data, nil)
}
