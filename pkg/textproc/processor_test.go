package textproc

import "testing"

func TestProcessTokenizesAndCounts(t *testing.T) {
	p := New(1, DefaultStopwords(), false)
	doc := p.Process("R1", "alpha beta alpha")

	if doc.ReviewID != "R1" {
		t.Fatalf("ReviewID = %q", doc.ReviewID)
	}
	if doc.TokenCount != 3 {
		t.Fatalf("TokenCount = %d, want 3", doc.TokenCount)
	}
	if doc.TermFreqs["alpha"] != 2 {
		t.Errorf("alpha freq = %d, want 2", doc.TermFreqs["alpha"])
	}
	if doc.TermFreqs["beta"] != 1 {
		t.Errorf("beta freq = %d, want 1", doc.TermFreqs["beta"])
	}
}

func TestProcessFiltersStopwordsAndShortTokens(t *testing.T) {
	p := New(2, DefaultStopwords(), false)
	doc := p.Process("R1", "the quick brown fox and a dog")

	for _, stop := range []string{"the", "and", "a"} {
		if _, ok := doc.TermFreqs[stop]; ok {
			t.Errorf("stopword %q should have been filtered", stop)
		}
	}
	if _, ok := doc.TermFreqs["fox"]; !ok {
		t.Errorf("expected fox to survive filtering")
	}
}

func TestProcessStemmingNormalizesVariants(t *testing.T) {
	p := New(1, DefaultStopwords(), true)
	doc := p.Process("R1", "running runs runner")

	if len(doc.TermFreqs) == 0 {
		t.Fatalf("expected stemmed terms, got none")
	}
	total := 0
	for _, c := range doc.TermFreqs {
		total += c
	}
	if total != 3 {
		t.Errorf("total occurrences = %d, want 3", total)
	}
	if len(doc.TermFreqs) >= 3 {
		t.Errorf("expected stemming to merge variants into fewer than 3 terms, got %v", doc.TermFreqs)
	}
}

func TestProcessorIdempotentAcrossCalls(t *testing.T) {
	p := New(2, DefaultStopwords(), true)
	a := p.Process("R1", "great product, fast shipping")
	b := p.Process("R1", "great product, fast shipping")

	if len(a.TermFreqs) != len(b.TermFreqs) {
		t.Fatalf("processing the same text twice produced different term sets")
	}
	for term, freq := range a.TermFreqs {
		if b.TermFreqs[term] != freq {
			t.Errorf("term %q: %d vs %d", term, freq, b.TermFreqs[term])
		}
	}
}

func TestStopwordSetHashStableAcrossOrdering(t *testing.T) {
	s1 := newStopwordSet([]string{"a", "b", "c"})
	s2 := newStopwordSet([]string{"c", "b", "a"})
	if s1.Hash() != s2.Hash() {
		t.Errorf("hash should be stable regardless of input order")
	}

	s3 := newStopwordSet([]string{"a", "b"})
	if s1.Hash() == s3.Hash() {
		t.Errorf("different sets should hash differently")
	}
}
