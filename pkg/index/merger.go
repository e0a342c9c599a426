package index

import (
	"container/heap"
	"io"
	"os"
	"sort"

	"github.com/mnohosten/revidx/pkg/scoring"
)

// defaultTermsPerSegment bounds how much of the merged vocabulary a
// single segment directory covers. Smaller segments keep FindTerm's
// per-segment bloom filter and vocabulary small enough to hold
// comfortably in memory while only a handful of segments are consulted
// per query term (spec.md §4.C7).
const defaultTermsPerSegment = 8192

// Merger is the External Merger (spec.md §4.C6): a k-way streaming
// merge of sorted block files that keeps one decoded entry per block on
// its merge heap. Each block reader holds its whole decompressed block
// in memory while the merge runs (see blockReader).
type Merger struct {
	dir             *Directory
	format          scoring.Format
	docLengths      []float64
	termsPerSegment int
	keepBlocks      bool
}

// NewMerger constructs a Merger. docLengths is the DocumentLengthTable
// produced by the SPIMI Indexer, indexed by DocumentOrdinal. keepBlocks
// retains block files after merging, for debug inspection (spec.md §8).
func NewMerger(dir *Directory, format scoring.Format, docLengths []float64, keepBlocks bool) *Merger {
	return &Merger{
		dir:             dir,
		format:          format,
		docLengths:      docLengths,
		termsPerSegment: defaultTermsPerSegment,
		keepBlocks:      keepBlocks,
	}
}

// mergeCursor is one block's current decoded entry plus the reader
// used to pull the next one. The index into the owning Merger's reader
// slice breaks ties deterministically: entries from an earlier block
// carry lower DocumentOrdinals, so when two blocks agree on a term
// their postings must be concatenated in block order, never heap-pop
// order, to keep the merged posting list ordinal-ascending.
type mergeCursor struct {
	term      Term
	postings  PostingList
	readerIdx int
}

type mergeHeap []mergeCursor

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	if h[i].term != h[j].term {
		return h[i].term < h[j].term
	}
	return h[i].readerIdx < h[j].readerIdx
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(mergeCursor)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Merge consumes blockPaths and writes the merged, scored index into
// dir.SegmentsDir(), returning the total number of distinct terms
// indexed. Per-term IDF is computed later, at query time, from each
// term's stored document frequency and the corpus size in Properties.
func (m *Merger) Merge(blockPaths []string) (termCount int, err error) {
	readers := make([]*blockReader, len(blockPaths))
	defer func() {
		for _, r := range readers {
			if r != nil {
				r.close()
			}
		}
	}()

	h := &mergeHeap{}
	heap.Init(h)

	for i, path := range blockPaths {
		r, err := openBlockReader(path)
		if err != nil {
			return 0, err
		}
		readers[i] = r
		if err := m.pullNext(h, readers, i); err != nil {
			return 0, err
		}
	}

	sw := newSegmentWriter(m.dir.SegmentsDir(), m.termsPerSegment)

	for h.Len() > 0 {
		minTerm := (*h)[0].term

		var matched []mergeCursor
		for h.Len() > 0 && (*h)[0].term == minTerm {
			matched = append(matched, heap.Pop(h).(mergeCursor))
		}
		sort.Slice(matched, func(i, j int) bool { return matched[i].readerIdx < matched[j].readerIdx })

		var merged PostingList
		for _, c := range matched {
			merged = append(merged, c.postings...)
		}

		scored := make(PostingList, len(merged))
		for i, p := range merged {
			docLen := 0.0
			if int(p.Ordinal) < len(m.docLengths) {
				docLen = m.docLengths[p.Ordinal]
			}
			scored[i] = Posting{
				Ordinal: p.Ordinal,
				RawTF:   p.RawTF,
				Weight:  m.format.PostingPayload(int(p.RawTF), docLen),
			}
		}

		sw.add(minTerm, scored)
		termCount++

		if len(sw.vocab) >= m.termsPerSegment {
			if err := sw.close(); err != nil {
				return termCount, err
			}
			sw = newSegmentWriter(m.dir.SegmentsDir(), m.termsPerSegment)
		}

		for _, c := range matched {
			if err := m.pullNext(h, readers, c.readerIdx); err != nil {
				return termCount, err
			}
		}
	}

	if err := sw.close(); err != nil {
		return termCount, err
	}

	for i, r := range readers {
		if err := r.close(); err != nil {
			return termCount, err
		}
		readers[i] = nil
	}

	if !m.keepBlocks {
		for _, path := range blockPaths {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return termCount, newInternalIOError("remove block file", err)
			}
		}
	}

	return termCount, nil
}

// pullNext advances readers[idx] and pushes its next entry onto h, or
// does nothing once that reader is exhausted.
func (m *Merger) pullNext(h *mergeHeap, readers []*blockReader, idx int) error {
	entry, err := readers[idx].next()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	heap.Push(h, mergeCursor{term: entry.term, postings: entry.postings, readerIdx: idx})
	return nil
}
