package index

import (
	"path/filepath"
	"testing"
)

func TestReviewIDLookupRoundTrips(t *testing.T) {
	root := filepath.Join(t.TempDir(), "idx")
	dir, err := Create(root, CreateErrorOnExists)
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}

	ids := []string{"R001", "R002", "R003"}
	for _, id := range ids {
		if _, err := dir.AppendReviewID(id); err != nil {
			t.Fatalf("append review id: %v", err)
		}
	}
	if err := dir.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lookup, err := BuildReviewIDLookup(dir)
	if err != nil {
		t.Fatalf("build lookup: %v", err)
	}
	defer lookup.Close()

	if lookup.Count() != len(ids) {
		t.Fatalf("count = %d, want %d", lookup.Count(), len(ids))
	}

	for ordinal, want := range ids {
		got, err := lookup.Lookup(DocumentOrdinal(ordinal))
		if err != nil {
			t.Fatalf("lookup(%d): %v", ordinal, err)
		}
		if got != want {
			t.Fatalf("lookup(%d) = %q, want %q", ordinal, got, want)
		}
	}
}

func TestReviewIDLookupOutOfRange(t *testing.T) {
	root := filepath.Join(t.TempDir(), "idx")
	dir, err := Create(root, CreateErrorOnExists)
	if err != nil {
		t.Fatalf("create directory: %v", err)
	}
	if _, err := dir.AppendReviewID("R001"); err != nil {
		t.Fatalf("append review id: %v", err)
	}
	if err := dir.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	lookup, err := BuildReviewIDLookup(dir)
	if err != nil {
		t.Fatalf("build lookup: %v", err)
	}
	defer lookup.Close()

	if _, err := lookup.Lookup(5); err == nil {
		t.Fatalf("expected error for out-of-range ordinal")
	}
}
