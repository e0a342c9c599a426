package scoring

import (
	"math"
	"testing"
)

func TestTFIDFDocumentWeightsNormalizeToUnitLength(t *testing.T) {
	f := NewTFIDF()
	termFreqs := map[string]int{"alpha": 2, "beta": 1}
	length := f.DocumentLength(termFreqs, 3)

	sumSquares := 0.0
	for term, tf := range termFreqs {
		payload := f.PostingPayload(tf, length)
		sumSquares += payload * payload
		_ = term
	}
	if math.Abs(sumSquares-1.0) > 1e-9 {
		t.Errorf("sum of squared stored weights = %v, want ~1.0", sumSquares)
	}
}

func TestTFIDFQueryWeightZeroWhenDFEqualsN(t *testing.T) {
	f := NewTFIDF()
	w := f.QueryWeight(1, 1, 1)
	if w != 0 {
		t.Errorf("QueryWeight(1,1,1) = %v, want 0 (log10(1/1)=0)", w)
	}
}

func TestBM25OrderingMatchesExpectedRanking(t *testing.T) {
	// corpus: R1="cat"(len1), R2="cat cat"(len2), R3="cat dog"(len2)
	docs := map[string]struct {
		tf  int
		len float64
	}{
		"R1": {tf: 1, len: 1},
		"R2": {tf: 2, len: 2},
		"R3": {tf: 1, len: 2},
	}
	avgdl := (1.0 + 2.0 + 2.0) / 3.0
	f := NewBM25(1.2, 0.75, avgdl)

	idf := f.QueryWeight(1, 3, 3) // df=3 (all docs contain "cat")

	scores := make(map[string]float64)
	for doc, d := range docs {
		scores[doc] = idf * f.PostingPayload(d.tf, d.len)
	}

	if !(scores["R2"] > scores["R1"] && scores["R1"] > scores["R3"]) {
		t.Errorf("expected R2 > R1 > R3, got R1=%v R2=%v R3=%v", scores["R1"], scores["R2"], scores["R3"])
	}
}

func TestBM25QueryWeightClampedNonNegative(t *testing.T) {
	f := NewBM25(1.2, 0.75, 10)
	w := f.QueryWeight(1, 3, 3) // N==df: idf would be negative without clamping
	if w < 0 {
		t.Errorf("QueryWeight = %v, want >= 0", w)
	}
}

func TestBM25NormalizeQueryIsNoOp(t *testing.T) {
	f := NewBM25(1.2, 0.75, 10)
	weights := map[string]float64{"a": 1.5, "b": 2.5}
	normalized := f.NormalizeQuery(weights)
	for term, w := range weights {
		if normalized[term] != w {
			t.Errorf("NormalizeQuery altered %q: %v vs %v", term, normalized[term], w)
		}
	}
}
