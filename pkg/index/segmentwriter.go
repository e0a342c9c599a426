package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// vocabEntry is one line of a segment's vocabulary.txt: a term, its
// document frequency, and the byte span of its posting list in the
// paired postings.txt.
type vocabEntry struct {
	term   Term
	df     int
	offset int64
	length int64
}

// segmentWriter accumulates one segment's vocabulary and postings
// bytes in memory and writes both files, plus a bloom filter sidecar,
// when closed. Segments are small term-range slices (see
// defaultTermsPerSegment), so buffering one segment's bytes in memory
// is bounded, unlike buffering the whole merged index would be.
type segmentWriter struct {
	segmentsDir string
	postings    strings.Builder
	vocab       []vocabEntry
	bloom       *bloomFilter
}

func newSegmentWriter(segmentsDir string, expectedTerms int) *segmentWriter {
	return &segmentWriter{
		segmentsDir: segmentsDir,
		bloom:       newBloomFilter(expectedTerms, 4),
	}
}

// add appends one term's merged, weighted posting list to the segment.
func (w *segmentWriter) add(term Term, postings PostingList) {
	offset := int64(w.postings.Len())

	var line strings.Builder
	for i, p := range postings {
		if i > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(strconv.FormatUint(uint64(p.Ordinal), 10))
		line.WriteByte(':')
		line.WriteString(strconv.FormatFloat(p.Weight, 'g', -1, 64))
	}
	line.WriteByte('\n')

	w.postings.WriteString(line.String())
	w.bloom.add([]byte(term))
	w.vocab = append(w.vocab, vocabEntry{
		term:   term,
		df:     len(postings),
		offset: offset,
		length: int64(line.Len()),
	})
}

func (w *segmentWriter) empty() bool {
	return len(w.vocab) == 0
}

// close writes vocabulary.txt, postings.txt, and bloom.bin into a
// <first>-<last> directory under segmentsDir.
func (w *segmentWriter) close() (err error) {
	if w.empty() {
		return nil
	}

	first := w.vocab[0].term
	last := w.vocab[len(w.vocab)-1].term
	dir := filepath.Join(w.segmentsDir, segmentDirName(first, last))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newInternalIOError("create segment directory", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
		}
	}()

	var vocabBuf strings.Builder
	for _, e := range w.vocab {
		fmt.Fprintf(&vocabBuf, "%s %d %d %d\n", e.term, e.df, e.offset, e.length)
	}

	if err := os.WriteFile(filepath.Join(dir, "vocabulary.txt"), []byte(vocabBuf.String()), 0o644); err != nil {
		return newInternalIOError("write vocabulary.txt", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "postings.txt"), []byte(w.postings.String()), 0o644); err != nil {
		return newInternalIOError("write postings.txt", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bloom.bin"), w.bloom.marshal(), 0o644); err != nil {
		return newInternalIOError("write bloom.bin", err)
	}

	return nil
}

// segmentDirName mirrors spec.md's "segments must be named by their
// first and last terms". Terms are normalized tokens (no path
// separators survive the processor), so no escaping is needed beyond
// guarding the degenerate empty-term case.
func segmentDirName(first, last Term) string {
	if first == "" {
		first = "_"
	}
	if last == "" {
		last = "_"
	}
	return first + "-" + last
}
