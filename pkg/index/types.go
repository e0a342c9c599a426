// Package index implements the memory-bounded inverted index
// construction and ranked retrieval pipeline (spec.md §2, components
// C2–C7 and C10): the Postings Dictionary, Block Writer, Index
// Directory, SPIMI Indexer, External Merger, Segment Index, and Index
// Properties.
//
// The on-disk structures here are grounded on the teacher's
// pkg/lsm.SSTable family — a sparse index plus a bloom filter guarding
// a sorted, immutable file — adapted from key/value storage to
// term/posting-list storage: a block is an SSTable-shaped sorted run
// produced by one SPIMI flush, and a segment is the merged, term-range
// partitioned equivalent of a compacted SSTable.
package index

// Term is a normalized token. Equality and ordering are
// byte-lexicographic, which Go's built-in string comparison already is
// for the ASCII alphabet the processor contract produces.
type Term = string

// DocumentOrdinal is the dense, 0-based identifier assigned in
// ingestion order (spec.md §3).
type DocumentOrdinal uint32

// Posting is one (DocumentOrdinal, payload) pair. RawTF carries the raw
// term frequency in block files; Weight carries the scored payload in
// merged segments. Only one of the two is meaningful at a time,
// depending on which file format produced the Posting.
type Posting struct {
	Ordinal DocumentOrdinal
	RawTF   uint32
	Weight  float64
}

// PostingList is an ordered, strictly increasing (by DocumentOrdinal)
// sequence of Postings for one term.
type PostingList []Posting
