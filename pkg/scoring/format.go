// Package scoring implements the two pluggable weighting schemes spec.md
// §4.C8 requires (TF-IDF lnc.ltc and BM25). The teacher's own hand-rolled
// BM25 in pkg/text/inverted_index.go uses natural log and folds IDF into
// a single per-posting call; this package follows the original Python
// source's base-10 IDF (original_source/indexing/tf_idf.py) and the
// SMART-notation split spec.md §4.C8 spells out. At query time the
// Format is called once per query term and the posting-list loop only
// multiplies stored weights; at merge time the External Merger calls
// PostingPayload through the interface once per posting.
package scoring

// Format is the scoring interface both the SPIMI indexer (document
// side), the external merger (payload side), and the query evaluator
// (query side) share.
type Format interface {
	// Name identifies the format in IndexProperties.
	Name() string

	// DocumentLength computes the statistic stored in the
	// DocumentLengthTable for one document: the lnc vector norm for
	// TF-IDF, or the raw pre-filter token count for BM25.
	DocumentLength(termFreqs map[string]int, tokenCount int) float64

	// PostingPayload computes the stored per-(term,document) weight
	// given the term's raw frequency in the document and that
	// document's length statistic.
	PostingPayload(tf int, docLength float64) float64

	// QueryWeight computes one query term's raw (pre-normalization)
	// weight given the term's raw query frequency, the collection size
	// N, and the term's document frequency df.
	QueryWeight(queryTF, n, df int) float64

	// NormalizeQuery applies whole-vector normalization to the raw
	// per-term query weights (TF-IDF cosine-normalizes to unit length;
	// BM25 returns the map unchanged).
	NormalizeQuery(weights map[string]float64) map[string]float64
}
