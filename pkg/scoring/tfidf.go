package scoring

import "math"

// TFIDFFormat implements the lnc.ltc SMART-notation variant spec.md
// §4.C8 specifies: log-tf document weights, cosine-normalized at the
// document side implicitly (via the stored length statistic) and
// explicitly at the query side.
type TFIDFFormat struct{}

// NewTFIDF constructs a TF-IDF scoring format. It carries no parameters.
func NewTFIDF() *TFIDFFormat {
	return &TFIDFFormat{}
}

func (TFIDFFormat) Name() string { return "tfidf" }

// lncWeight is w_d(t) = 1 + log10(tf), the document-side log-tf term
// with no IDF and no normalization applied yet.
func lncWeight(tf int) float64 {
	if tf <= 0 {
		return 0
	}
	return 1 + math.Log10(float64(tf))
}

// DocumentLength is the Euclidean norm of the lnc weight vector,
// sqrt(sum_t w_d(t)^2), computed over every distinct term in the
// document.
func (TFIDFFormat) DocumentLength(termFreqs map[string]int, _ int) float64 {
	sumSquares := 0.0
	for _, tf := range termFreqs {
		w := lncWeight(tf)
		sumSquares += w * w
	}
	return math.Sqrt(sumSquares)
}

// PostingPayload stores w_d(t)/length_d so that cosine similarity
// reduces to a dot product against the normalized query vector at
// query time.
func (TFIDFFormat) PostingPayload(tf int, docLength float64) float64 {
	if docLength == 0 {
		return 0
	}
	return lncWeight(tf) / docLength
}

// QueryWeight is the ltc weight w_q(t) = (1 + log10(tf_q)) * log10(N/df).
func (TFIDFFormat) QueryWeight(queryTF, n, df int) float64 {
	if df <= 0 || n <= 0 {
		return 0
	}
	idf := math.Log10(float64(n) / float64(df))
	return lncWeight(queryTF) * idf
}

// NormalizeQuery divides every weight by the query vector's Euclidean
// norm, per the ltc "c" (cosine normalization). A zero-norm vector
// (e.g. every query term has idf=0) is returned unchanged rather than
// dividing by zero.
func (TFIDFFormat) NormalizeQuery(weights map[string]float64) map[string]float64 {
	sumSquares := 0.0
	for _, w := range weights {
		sumSquares += w * w
	}
	if sumSquares == 0 {
		return weights
	}
	norm := math.Sqrt(sumSquares)
	normalized := make(map[string]float64, len(weights))
	for term, w := range weights {
		normalized[term] = w / norm
	}
	return normalized
}
