package scoring

import "math"

// BM25Format implements Okapi BM25 with configurable k1 (term-frequency
// saturation) and b (length normalization), and the collection average
// document length needed for length normalization.
type BM25Format struct {
	K1    float64
	B     float64
	AvgDL float64
}

// NewBM25 constructs a BM25 scoring format. avgdl is set once the
// corpus has been fully ingested (spec.md §4.C8); callers that don't
// know it yet (index time, before ingestion completes) pass 0 and call
// SetAvgDL before the merger applies PostingPayload.
func NewBM25(k1, b, avgdl float64) *BM25Format {
	return &BM25Format{K1: k1, B: b, AvgDL: avgdl}
}

// SetAvgDL updates the average document length used by PostingPayload.
func (f *BM25Format) SetAvgDL(avgdl float64) {
	f.AvgDL = avgdl
}

func (f *BM25Format) Name() string { return "bm25" }

// DocumentLength is the raw pre-filter token count, per spec.md §4.C5
// step 2c ("raw token length for BM25").
func (f *BM25Format) DocumentLength(_ map[string]int, tokenCount int) float64 {
	return float64(tokenCount)
}

// PostingPayload is the term-frequency contribution pre-multiplied by
// the document's length normalization factor:
//
//	tf * (k1+1) / (tf + k1 * (1 - b + b*len_d/avgdl))
func (f *BM25Format) PostingPayload(tf int, docLength float64) float64 {
	if tf <= 0 {
		return 0
	}
	avgdl := f.AvgDL
	if avgdl == 0 {
		avgdl = 1
	}
	lengthNorm := 1 - f.B + f.B*(docLength/avgdl)
	tfFloat := float64(tf)
	return (tfFloat * (f.K1 + 1)) / (tfFloat + f.K1*lengthNorm)
}

// QueryWeight is log10((N-df+0.5)/(df+0.5)), clamped to non-negative.
// BM25 applies idf at query time and does not weight by query-side
// term frequency (spec.md §4.C8's Score formula sums idf(t)*payload
// over the term set, not a multiset).
func (f *BM25Format) QueryWeight(_ int, n, df int) float64 {
	idf := math.Log10((float64(n) - float64(df) + 0.5) / (float64(df) + 0.5))
	if idf < 0 {
		return 0
	}
	return idf
}

// NormalizeQuery is a no-op for BM25: spec.md §4.C8 states "no query
// normalization."
func (f *BM25Format) NormalizeQuery(weights map[string]float64) map[string]float64 {
	return weights
}
