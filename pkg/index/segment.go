package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// VocabularyEntry is one term's entry in a segment's vocabulary.txt:
// its document frequency and the byte span of its posting list in the
// segment's postings.txt (spec.md §4.C7).
type VocabularyEntry struct {
	Term              Term
	DocumentFrequency int
	Offset            int64
	Length            int64
}

// segment is one on-disk <first>-<last> term-range partition. Its
// vocabulary is loaded into memory on first lookup and cached; its
// bloom filter is loaded eagerly since SegmentIndex needs it to decide
// whether a lookup is worth doing at all.
type segment struct {
	path  string
	first Term
	last  Term
	bloom *bloomFilter

	vocab  []VocabularyEntry
	loaded bool
}

// SegmentIndex is the read path's entry point: the sorted collection
// of segment directories under an index root's segments/ subdirectory,
// queried by FindTerm (spec.md's "not indexed" result is the zero
// value plus found=false, never an error).
type SegmentIndex struct {
	root     string
	segments []*segment
}

// OpenSegmentIndex loads the bloom filter and term range of every
// segment directory under dir.SegmentsDir(), but defers loading each
// segment's vocabulary until FindTerm actually needs it.
func OpenSegmentIndex(dir *Directory) (*SegmentIndex, error) {
	entries, err := os.ReadDir(dir.SegmentsDir())
	if err != nil {
		return nil, newInternalIOError("read segments directory", err)
	}

	segments := make([]*segment, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir.SegmentsDir(), e.Name())
		first, last := splitSegmentDirName(e.Name())

		bloomData, err := os.ReadFile(filepath.Join(path, "bloom.bin"))
		if err != nil {
			return nil, newInternalIOError("read segment bloom filter", err)
		}
		bloom, err := unmarshalBloomFilter(bloomData)
		if err != nil {
			return nil, newInternalIOError("parse segment bloom filter", err)
		}

		segments = append(segments, &segment{path: path, first: first, last: last, bloom: bloom})
	}

	sort.Slice(segments, func(i, j int) bool { return segments[i].first < segments[j].first })

	return &SegmentIndex{root: dir.SegmentsDir(), segments: segments}, nil
}

func splitSegmentDirName(name string) (first, last Term) {
	i := strings.IndexByte(name, '-')
	if i < 0 {
		return name, name
	}
	return name[:i], name[i+1:]
}

// SegmentCount reports how many segment directories are loaded.
func (si *SegmentIndex) SegmentCount() int {
	return len(si.segments)
}

// FindTerm locates term's VocabularyEntry and posting list. found is
// false, with no error, when term was never indexed — the normal and
// expected outcome for an out-of-vocabulary query term (spec.md §7).
func (si *SegmentIndex) FindTerm(term Term) (entry VocabularyEntry, postings PostingList, found bool, err error) {
	idx := sort.Search(len(si.segments), func(i int) bool { return si.segments[i].last >= term })
	if idx == len(si.segments) || term < si.segments[idx].first {
		return VocabularyEntry{}, nil, false, nil
	}

	seg := si.segments[idx]
	if seg.bloom != nil && !seg.bloom.mayContain([]byte(term)) {
		return VocabularyEntry{}, nil, false, nil
	}

	if !seg.loaded {
		if err := si.loadVocabulary(seg); err != nil {
			return VocabularyEntry{}, nil, false, err
		}
	}

	i := sort.Search(len(seg.vocab), func(i int) bool { return seg.vocab[i].Term >= term })
	if i == len(seg.vocab) || seg.vocab[i].Term != term {
		return VocabularyEntry{}, nil, false, nil
	}
	entry = seg.vocab[i]

	postings, err = si.readPostings(seg, entry)
	if err != nil {
		return VocabularyEntry{}, nil, false, err
	}
	return entry, postings, true, nil
}

func (si *SegmentIndex) loadVocabulary(seg *segment) error {
	f, err := os.Open(filepath.Join(seg.path, "vocabulary.txt"))
	if err != nil {
		return newInternalIOError("open segment vocabulary", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			return fmt.Errorf("malformed vocabulary line %q in %s", line, seg.path)
		}
		df, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("malformed document frequency in %q: %w", line, err)
		}
		offset, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed offset in %q: %w", line, err)
		}
		length, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return fmt.Errorf("malformed length in %q: %w", line, err)
		}
		seg.vocab = append(seg.vocab, VocabularyEntry{
			Term:              fields[0],
			DocumentFrequency: df,
			Offset:            offset,
			Length:            length,
		})
	}
	if err := scanner.Err(); err != nil {
		return newInternalIOError("scan segment vocabulary", err)
	}
	seg.loaded = true
	return nil
}

func (si *SegmentIndex) readPostings(seg *segment, entry VocabularyEntry) (PostingList, error) {
	f, err := os.Open(filepath.Join(seg.path, "postings.txt"))
	if err != nil {
		return nil, newInternalIOError("open segment postings", err)
	}
	defer f.Close()

	buf := make([]byte, entry.Length)
	if _, err := f.ReadAt(buf, entry.Offset); err != nil {
		return nil, newInternalIOError("read posting list", err)
	}

	line := strings.TrimRight(string(buf), "\n")
	if line == "" {
		return PostingList{}, nil
	}

	fields := strings.Fields(line)
	postings := make(PostingList, 0, len(fields))
	for _, field := range fields {
		colon := strings.IndexByte(field, ':')
		if colon < 0 {
			return nil, fmt.Errorf("malformed posting %q for term %q", field, entry.Term)
		}
		ordinal, err := strconv.ParseUint(field[:colon], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("malformed ordinal in %q: %w", field, err)
		}
		weight, err := strconv.ParseFloat(field[colon+1:], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed weight in %q: %w", field, err)
		}
		postings = append(postings, Posting{Ordinal: DocumentOrdinal(ordinal), Weight: weight})
	}
	return postings, nil
}
