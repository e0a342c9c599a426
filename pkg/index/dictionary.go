package index

// Dictionary is the Postings Dictionary (spec.md §4.C2): an in-memory
// mapping from Term to an ordered posting list for the current block.
// It is owned exclusively by the SPIMI Indexer and is emptied, not
// merely read, on flush — the teacher's MemTable plays an analogous
// role for one generation of writes in pkg/lsm, but that structure is
// retired wholesale on flush (swapped to an immutable list and handed
// to a background worker); this Dictionary is reused in place, since
// spec.md's indexer is single-threaded and flushes synchronously.
type Dictionary struct {
	terms *termSkipList
}

// NewDictionary creates an empty Postings Dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{terms: newTermSkipList()}
}

// AddDocument appends a posting for ordinal to every distinct term in
// termFreqs. Callers must supply ordinals in strictly increasing order
// across calls; per-term posting lists stay sorted by construction,
// with no re-sort needed at flush time.
func (d *Dictionary) AddDocument(ordinal DocumentOrdinal, termFreqs map[string]int) {
	for term, tf := range termFreqs {
		pl := d.terms.getOrCreate(term)
		*pl = append(*pl, Posting{Ordinal: ordinal, RawTF: uint32(tf)})
	}
}

// Empty reports whether the dictionary holds no postings. The SPIMI
// Indexer must never flush an empty dictionary (spec.md §5).
func (d *Dictionary) Empty() bool {
	return d.terms.Size() == 0
}

// Len returns the number of distinct terms currently held.
func (d *Dictionary) Len() int {
	return d.terms.Size()
}

// SortedTerms calls fn for every (Term, PostingList) pair in ascending
// byte order, as spec.md §4.C2 requires for sorted_terms().
func (d *Dictionary) SortedTerms(fn func(Term, PostingList)) {
	d.terms.ascending(func(term Term, pl *PostingList) {
		fn(term, *pl)
	})
}

// Reset discards all postings, returning the Dictionary to its initial
// empty state so the caller's reference can be reused for the next
// block instead of reallocated.
func (d *Dictionary) Reset() {
	d.terms = newTermSkipList()
}
