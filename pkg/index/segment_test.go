package index

import (
	"path/filepath"
	"testing"

	"github.com/mnohosten/revidx/pkg/scoring"
)

func buildTestIndex(t *testing.T) (*Directory, *SegmentIndex) {
	t.Helper()
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

	m := NewMerger(dir, scoring.NewTFIDF(), []float64{1.0, 1.0}, false)
	if _, err := m.Merge([]string{b1, b2}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	si, err := OpenSegmentIndex(dir)
	if err != nil {
		t.Fatalf("open segment index: %v", err)
	}
	return dir, si
}

func TestSegmentIndexFindsMergedTerm(t *testing.T) {
	_, si := buildTestIndex(t)

	entry, postings, found, err := si.FindTerm("great")
	if err != nil {
		t.Fatalf("find term: %v", err)
	}
	if !found {
		t.Fatalf("expected to find term %q", "great")
	}
	if entry.DocumentFrequency != 2 {
		t.Fatalf("document frequency = %d, want 2", entry.DocumentFrequency)
	}
	if len(postings) != 2 {
		t.Fatalf("postings = %d, want 2", len(postings))
	}
	if postings[0].Ordinal != 0 || postings[1].Ordinal != 1 {
		t.Fatalf("postings out of order: %+v", postings)
	}
}

func TestSegmentIndexReportsNotFoundForUnknownTerm(t *testing.T) {
	_, si := buildTestIndex(t)

	_, _, found, err := si.FindTerm("absolutelynotindexed")
	if err != nil {
		t.Fatalf("find term: %v", err)
	}
	if found {
		t.Fatalf("expected term to be reported not found")
	}
}

func TestSegmentIndexSingleTermPostingHasNonZeroWeight(t *testing.T) {
	_, si := buildTestIndex(t)

	_, postings, found, err := si.FindTerm("taste")
	if err != nil {
		t.Fatalf("find term: %v", err)
	}
	if !found {
		t.Fatalf("expected to find term %q", "taste")
	}
	if len(postings) != 1 {
		t.Fatalf("postings = %d, want 1", len(postings))
	}
	if postings[0].Weight <= 0 {
		t.Fatalf("weight = %v, want > 0", postings[0].Weight)
	}
}
