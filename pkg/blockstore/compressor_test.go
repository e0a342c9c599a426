package blockstore

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressorRoundTrip(t *testing.T) {
	compressor := NewCompressor()

	data := []byte(strings.Repeat("hello world ", 100))

	compressed, err := compressor.Compress(data)
	if err != nil {
		t.Fatalf("Failed to compress: %v", err)
	}

	if len(compressed) >= len(data) {
		t.Logf("Warning: compressed size (%d) >= original size (%d)", len(compressed), len(data))
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}

	if !bytes.Equal(decompressed, data) {
		t.Errorf("decompressed data doesn't match original")
	}
}

func TestCompressorEmptyData(t *testing.T) {
	compressor := NewCompressor()

	data := []byte{}
	compressed, err := compressor.Compress(data)
	if err != nil {
		t.Fatalf("failed to compress empty data: %v", err)
	}
	if len(compressed) != 0 {
		t.Errorf("expected empty compressed data, got %d bytes", len(compressed))
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("failed to decompress empty data: %v", err)
	}
	if len(decompressed) != 0 {
		t.Errorf("expected empty decompressed data, got %d bytes", len(decompressed))
	}
}

func TestCompressorRandomData(t *testing.T) {
	compressor := NewCompressor()

	// Every byte value 0-255 in sequence, unlike the text input above;
	// must still round-trip correctly.
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 256)
	}

	compressed, err := compressor.Compress(data)
	if err != nil {
		t.Fatalf("failed to compress: %v", err)
	}

	decompressed, err := compressor.Decompress(compressed)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}

	if !bytes.Equal(decompressed, data) {
		t.Errorf("decompressed data doesn't match original")
	}
}
