package index

import "testing"

func TestTermSkipListAscendingOrder(t *testing.T) {
	sl := newTermSkipList()
	terms := []Term{"zebra", "apple", "mango", "banana"}
	for _, term := range terms {
		pl := sl.getOrCreate(term)
		*pl = append(*pl, Posting{Ordinal: 0, RawTF: 1})
	}

	var got []Term
	sl.ascending(func(term Term, _ *PostingList) {
		got = append(got, term)
	})

	want := []Term{"apple", "banana", "mango", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("got %d terms, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTermSkipListGetOrCreateReusesEntry(t *testing.T) {
	sl := newTermSkipList()
	a := sl.getOrCreate("alpha")
	*a = append(*a, Posting{Ordinal: 0, RawTF: 1})

	b := sl.getOrCreate("alpha")
	*b = append(*b, Posting{Ordinal: 1, RawTF: 2})

	if len(*a) != 2 {
		t.Fatalf("expected the same PostingList to accumulate both postings, got %d entries", len(*a))
	}
	if sl.Size() != 1 {
		t.Errorf("Size() = %d, want 1 distinct term", sl.Size())
	}
}
