package index

import (
	"bufio"
	"fmt"
	"os"
)

// ReviewIDLookup translates a DocumentOrdinal back to its original
// ReviewId by seeking into review_ids.txt rather than holding every
// review ID in memory (spec.md §4.C9 calls for the translation step to
// stay within the same bounded-memory discipline as the rest of the
// read path). A single forward scan at open time records each line's
// byte offset; after that, every lookup is one Seek plus one line read.
type ReviewIDLookup struct {
	f       *os.File
	offsets []int64
}

// BuildReviewIDLookup scans dir's review_ids.txt once and returns a
// lookup table indexed by DocumentOrdinal. The file is kept open for
// the lifetime of the lookup; callers must Close it when done.
func BuildReviewIDLookup(dir *Directory) (*ReviewIDLookup, error) {
	f, err := os.Open(dir.ReviewIDsPath())
	if err != nil {
		return nil, newInternalIOError("open review_ids.txt", err)
	}

	var offsets []int64
	var pos int64
	reader := bufio.NewReader(f)
	for {
		offsets = append(offsets, pos)
		line, err := reader.ReadString('\n')
		pos += int64(len(line))
		if err != nil {
			// The final, possibly unterminated, entry has already had
			// its starting offset recorded above; drop the phantom
			// entry this loop iteration would otherwise add for EOF.
			if line == "" {
				offsets = offsets[:len(offsets)-1]
			}
			break
		}
	}

	return &ReviewIDLookup{f: f, offsets: offsets}, nil
}

// Count returns the number of review IDs available for lookup.
func (l *ReviewIDLookup) Count() int {
	return len(l.offsets)
}

// Lookup returns the ReviewId assigned to ordinal.
func (l *ReviewIDLookup) Lookup(ordinal DocumentOrdinal) (string, error) {
	if int(ordinal) >= len(l.offsets) {
		return "", fmt.Errorf("ordinal %d out of range (%d documents indexed)", ordinal, len(l.offsets))
	}

	if _, err := l.f.Seek(l.offsets[ordinal], 0); err != nil {
		return "", newInternalIOError("seek review_ids.txt", err)
	}

	reader := bufio.NewReader(l.f)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", newInternalIOError("read review_ids.txt", err)
	}
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	return line, nil
}

// Close releases the underlying file handle.
func (l *ReviewIDLookup) Close() error {
	return l.f.Close()
}
