package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mnohosten/revidx/pkg/scoring"
)

func writeTestBlock(t *testing.T, dir *Directory, entries map[Term][]Posting) string {
	t.Helper()
	dict := NewDictionary()
	for term, postings := range entries {
		for _, p := range postings {
			dict.AddDocument(p.Ordinal, map[string]int{term: int(p.RawTF)})
		}
	}
	w := NewBlockWriter(dir)
	path, err := w.Write(dict)
	if err != nil {
		t.Fatalf("write block: %v", err)
	}
	return path
}

func TestMergerCombinesPostingsAcrossBlocks(t *testing.T) {
	root := filepath.Join(t.TempDir(), "idx")
	dir, err := Create(root, CreateErrorOnExists)
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}

	b1 := writeTestBlock(t, dir, map[Term][]Posting{
		"great": {{Ordinal: 0, RawTF: 2}},
		"taste": {{Ordinal: 0, RawTF: 1}},
	})
	b2 := writeTestBlock(t, dir, map[Term][]Posting{
		"great": {{Ordinal: 1, RawTF: 1}},
		"value":  {{Ordinal: 1, RawTF: 1}},
	})

	docLengths := []float64{1.0, 1.0}
	format := scoring.NewTFIDF()
	m := NewMerger(dir, format, docLengths, false)

	termCount, err := m.Merge([]string{b1, b2})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if termCount != 3 {
		t.Fatalf("termCount = %d, want 3", termCount)
	}

	if _, err := os.Stat(b1); !os.IsNotExist(err) {
		t.Fatalf("block %s should have been removed after merge", b1)
	}
	if _, err := os.Stat(b2); !os.IsNotExist(err) {
		t.Fatalf("block %s should have been removed after merge", b2)
	}

	entries, err := os.ReadDir(dir.SegmentsDir())
	if err != nil {
		t.Fatalf("read segments dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one segment directory, got %d", len(entries))
	}

	segDir := filepath.Join(dir.SegmentsDir(), entries[0].Name())
	vocab, err := os.ReadFile(filepath.Join(segDir, "vocabulary.txt"))
	if err != nil {
		t.Fatalf("read vocabulary.txt: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(vocab)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 vocabulary lines, got %d: %v", len(lines), lines)
	}

	var sawGreatDF2 bool
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 4 {
			t.Fatalf("malformed vocabulary line %q", line)
		}
		if fields[0] == "great" && fields[1] == "2" {
			sawGreatDF2 = true
		}
	}
	if !sawGreatDF2 {
		t.Fatalf("expected merged term %q to have document frequency 2, lines=%v", "great", lines)
	}

	if _, err := os.Stat(filepath.Join(segDir, "postings.txt")); err != nil {
		t.Fatalf("postings.txt missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(segDir, "bloom.bin")); err != nil {
		t.Fatalf("bloom.bin missing: %v", err)
	}
}

func TestMergerKeepsBlocksWhenRequested(t *testing.T) {
	root := filepath.Join(t.TempDir(), "idx")
	dir, err := Create(root, CreateErrorOnExists)
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}

	b1 := writeTestBlock(t, dir, map[Term][]Posting{
		"solo": {{Ordinal: 0, RawTF: 1}},
	})

	m := NewMerger(dir, scoring.NewTFIDF(), []float64{1.0}, true)
	if _, err := m.Merge([]string{b1}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	if _, err := os.Stat(b1); err != nil {
		t.Fatalf("block should have been kept: %v", err)
	}
}

func TestMergerEmptyBlockListProducesNoSegments(t *testing.T) {
	root := filepath.Join(t.TempDir(), "idx")
	dir, err := Create(root, CreateErrorOnExists)
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}

	m := NewMerger(dir, scoring.NewTFIDF(), nil, false)
	termCount, err := m.Merge(nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if termCount != 0 {
		t.Fatalf("termCount = %d, want 0", termCount)
	}

	entries, err := os.ReadDir(dir.SegmentsDir())
	if err != nil {
		t.Fatalf("read segments dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no segment directories, got %d", len(entries))
	}
}
