// Package queryeval implements the Query Evaluator (spec.md §4.C9):
// it runs a query string through the same text processor used at
// index time, scores it against the Segment Index under the active
// scoring.Format, and returns the top-K ranked reviews.
package queryeval

import (
	"container/heap"
	"sort"

	"github.com/mnohosten/revidx/pkg/index"
	"github.com/mnohosten/revidx/pkg/scoring"
	"github.com/mnohosten/revidx/pkg/textproc"
)

// QueryResult is one ranked hit: a review and its final score.
type QueryResult struct {
	ReviewID string
	Score    float64
}

// Evaluator ties together the read-path collaborators needed to answer
// a query: the Segment Index, the ordinal-to-ReviewId translation
// table, the document count N, and the same Processor and
// scoring.Format the index was built with.
type Evaluator struct {
	segments      *index.SegmentIndex
	lookup        *index.ReviewIDLookup
	processor     *textproc.Processor
	format        scoring.Format
	documentCount int
}

// New constructs an Evaluator. documentCount is IndexProperties'
// persisted document_count, the N term in every IDF computation.
func New(segments *index.SegmentIndex, lookup *index.ReviewIDLookup, processor *textproc.Processor, format scoring.Format, documentCount int) *Evaluator {
	return &Evaluator{
		segments:      segments,
		lookup:        lookup,
		processor:     processor,
		format:        format,
		documentCount: documentCount,
	}
}

// Evaluate scores query against the index and returns its top topK
// results, highest score first, ties broken by ascending
// DocumentOrdinal (spec.md §4.C9's tie-break rule, applied before
// ReviewId translation since ordinals are stable and ReviewIds are
// not comparable in any meaningful order).
func (e *Evaluator) Evaluate(query string, topK int) ([]QueryResult, error) {
	if topK <= 0 {
		return nil, nil
	}

	processed := e.processor.Process("", query)

	rawWeights := make(map[string]float64, len(processed.TermFreqs))
	postingsByTerm := make(map[string]index.PostingList, len(processed.TermFreqs))

	for term, qtf := range processed.TermFreqs {
		entry, postings, found, err := e.segments.FindTerm(term)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		rawWeights[term] = e.format.QueryWeight(qtf, e.documentCount, entry.DocumentFrequency)
		postingsByTerm[term] = postings
	}

	if len(rawWeights) == 0 {
		return nil, nil
	}

	queryWeights := e.format.NormalizeQuery(rawWeights)

	// A query term's weight can legitimately be zero (e.g. TF-IDF's
	// idf = log10(N/df) when df == N): the term is still in the
	// vocabulary and still contributes a (zero-valued) accumulator
	// entry for every document it appears in, per the documented S2
	// choice — skipping it here would drop those documents from
	// scores entirely and turn a zero-score match into no match.
	scores := make(map[index.DocumentOrdinal]float64)
	for term, qw := range queryWeights {
		for _, p := range postingsByTerm[term] {
			scores[p.Ordinal] += qw * p.Weight
		}
	}

	ranked := selectTopK(scores, topK)

	results := make([]QueryResult, 0, len(ranked))
	for _, r := range ranked {
		reviewID, err := e.lookup.Lookup(r.ordinal)
		if err != nil {
			return nil, err
		}
		results = append(results, QueryResult{ReviewID: reviewID, Score: r.score})
	}
	return results, nil
}

type scoredOrdinal struct {
	ordinal index.DocumentOrdinal
	score   float64
}

// scoredHeap is a min-heap ordered so the *worst* currently-kept
// result sits at the root, letting selectTopK evict it in O(log K)
// when a better candidate arrives, rather than sorting the whole
// scores map.
type scoredHeap []scoredOrdinal

func (h scoredHeap) Len() int { return len(h) }
func (h scoredHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	// Reversed so the heap's worst-kept element under a score tie is
	// the one with the *largest* ordinal, keeping the lowest ordinal in.
	return h[i].ordinal > h[j].ordinal
}
func (h scoredHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *scoredHeap) Push(x any)   { *h = append(*h, x.(scoredOrdinal)) }
func (h *scoredHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func selectTopK(scores map[index.DocumentOrdinal]float64, topK int) []scoredOrdinal {
	h := &scoredHeap{}
	heap.Init(h)

	for ordinal, score := range scores {
		if h.Len() < topK {
			heap.Push(h, scoredOrdinal{ordinal: ordinal, score: score})
			continue
		}
		worst := (*h)[0]
		if score > worst.score || (score == worst.score && ordinal < worst.ordinal) {
			heap.Pop(h)
			heap.Push(h, scoredOrdinal{ordinal: ordinal, score: score})
		}
	}

	out := make([]scoredOrdinal, h.Len())
	for i := range out {
		out[i] = (*h)[i]
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].ordinal < out[j].ordinal
	})
	return out
}
