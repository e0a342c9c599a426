// Package blockstore compresses the byte payloads the SPIMI indexer's
// block files carry before they hit disk (spec.md §4.C3). Blocks are
// written once, read once sequentially by the External Merger, and
// then deleted — a fast, low-ratio codec suits that write/read-once
// path, and there is no byte-offset-addressed random-access contract
// to preserve here the way there is for a segment's postings.txt (see
// pkg/index's segment writer), so whole-block snappy compression is
// the only algorithm this package needs.
package blockstore

import "github.com/klauspost/compress/snappy"

// Compressor snappy-compresses block-file bytes.
type Compressor struct{}

// NewCompressor constructs a Compressor.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress snappy-encodes data. Empty input passes through unchanged.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Encode(nil, data), nil
}

// Decompress reverses Compress.
func (c *Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	return snappy.Decode(nil, data)
}
