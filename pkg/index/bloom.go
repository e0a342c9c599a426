package index

import (
	"encoding/binary"
	"errors"
	"hash/fnv"
)

// ErrInvalidBloomFilter is returned when serialized bloom filter bytes
// are too short to contain a header.
var ErrInvalidBloomFilter = errors.New("invalid bloom filter data")

// bloomFilter is a probabilistic membership set, adapted from the
// teacher's pkg/lsm.BloomFilter. Each segment carries one over its
// vocabulary so SegmentIndex.FindTerm can reject a term absent from the
// corpus with a single hash probe, instead of a vocabulary-file
// binary search, for the common "not indexed" query-term case.
type bloomFilter struct {
	bits      []byte
	size      int
	numHashes int
}

func newBloomFilter(expectedItems, numHashes int) *bloomFilter {
	if expectedItems < 1 {
		expectedItems = 1
	}
	size := expectedItems * 10
	byteSize := (size + 7) / 8
	return &bloomFilter{
		bits:      make([]byte, byteSize),
		size:      size,
		numHashes: numHashes,
	}
}

func (bf *bloomFilter) add(key []byte) {
	for i := 0; i < bf.numHashes; i++ {
		bitIndex := bf.hash(key, i) % uint64(bf.size)
		bf.bits[bitIndex/8] |= 1 << (bitIndex % 8)
	}
}

func (bf *bloomFilter) mayContain(key []byte) bool {
	for i := 0; i < bf.numHashes; i++ {
		bitIndex := bf.hash(key, i) % uint64(bf.size)
		if bf.bits[bitIndex/8]&(1<<(bitIndex%8)) == 0 {
			return false
		}
	}
	return true
}

func (bf *bloomFilter) hash(key []byte, i int) uint64 {
	h := fnv.New64a()
	h.Write(key)
	hash1 := h.Sum64()

	h.Reset()
	h.Write(key)
	h.Write([]byte{byte(i)})
	hash2 := h.Sum64()

	return hash1 + uint64(i)*hash2
}

func (bf *bloomFilter) marshal() []byte {
	buf := make([]byte, 8+len(bf.bits))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(bf.size))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(bf.numHashes))
	copy(buf[8:], bf.bits)
	return buf
}

func unmarshalBloomFilter(data []byte) (*bloomFilter, error) {
	if len(data) < 8 {
		return nil, ErrInvalidBloomFilter
	}
	size := int(binary.LittleEndian.Uint32(data[0:4]))
	numHashes := int(binary.LittleEndian.Uint32(data[4:8]))
	bits := make([]byte, len(data)-8)
	copy(bits, data[8:])
	return &bloomFilter{bits: bits, size: size, numHashes: numHashes}, nil
}
