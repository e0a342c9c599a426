// Package textproc implements the processor contract spec.md §6
// describes as an external collaborator (tokenization, normalization,
// stopword filtering, stemming). A concrete implementation still has to
// live somewhere for this to be a runnable repository, so this package
// plays that role while keeping the same signature the indexer and the
// query evaluator both call, so index-time and query-time processing
// can never drift apart.
package textproc

// ProcessedDocument is the pure-function output of the processor
// contract: a ReviewId, its pre-filter token count, and a mapping from
// surviving term to in-document frequency.
type ProcessedDocument struct {
	ReviewID   string
	TokenCount int
	TermFreqs  map[string]int
}
