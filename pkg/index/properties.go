package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Properties is the persisted IndexProperties record (spec.md §3,
// §4.C10): the indexing configuration retrieval must re-apply
// identically to guarantee query and document terms are comparable.
type Properties struct {
	MinTokenLength int     `json:"min_token_length"`
	StopwordsHash  string  `json:"stopwords_hash"`
	UseStemmer     bool    `json:"use_stemmer"`
	Format         string  `json:"format"`
	BM25K1         float64 `json:"bm25_k1"`
	BM25B          float64 `json:"bm25_b"`
	AvgDocLength   float64 `json:"avg_doc_length"`
	DocumentCount  int     `json:"document_count"`
}

// PropertyMismatchError reports the first processor-affecting field
// found to disagree between an index's persisted Properties and a
// query session's configuration (spec.md §7). It is always fatal.
type PropertyMismatchError struct {
	Field    string
	Indexed  any
	Supplied any
}

func (e *PropertyMismatchError) Error() string {
	return fmt.Sprintf("property mismatch on %s: indexed=%v supplied=%v", e.Field, e.Indexed, e.Supplied)
}

// WriteAtomic persists props as the final step of index creation,
// write-then-rename so a terminated process never leaves a partially
// written properties.json for a caller to misread as complete.
func WriteAtomic(dir *Directory, props Properties) error {
	data, err := json.MarshalIndent(props, "", "  ")
	if err != nil {
		return newInternalIOError("marshal properties", err)
	}

	tmp, err := os.CreateTemp(dir.Root(), "properties-*.tmp")
	if err != nil {
		return newInternalIOError("create properties temp file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return newInternalIOError("write properties", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return newInternalIOError("sync properties", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return newInternalIOError("close properties temp file", err)
	}

	if err := os.Rename(tmpPath, dir.PropertiesPath()); err != nil {
		os.Remove(tmpPath)
		return newInternalIOError("rename properties into place", err)
	}
	return nil
}

// LoadProperties reads properties.json from dir. Its absence signals an
// incomplete or in-progress index, per spec.md §5's cancellation model.
func LoadProperties(dir *Directory) (Properties, error) {
	data, err := os.ReadFile(filepath.Join(dir.Root(), propertiesFile))
	if err != nil {
		return Properties{}, newInternalIOError("read properties.json", err)
	}
	var props Properties
	if err := json.Unmarshal(data, &props); err != nil {
		return Properties{}, newInternalIOError("parse properties.json", err)
	}
	return props, nil
}

// Validate compares the indexed properties against a query session's
// supplied processor configuration, returning a *PropertyMismatchError
// for the first disagreement found.
func (p Properties) Validate(minTokenLength int, stopwordsHash string, useStemmer bool, format string) error {
	if p.MinTokenLength != minTokenLength {
		return &PropertyMismatchError{"min_token_length", p.MinTokenLength, minTokenLength}
	}
	if p.StopwordsHash != stopwordsHash {
		return &PropertyMismatchError{"stopwords_hash", p.StopwordsHash, stopwordsHash}
	}
	if p.UseStemmer != useStemmer {
		return &PropertyMismatchError{"use_stemmer", p.UseStemmer, useStemmer}
	}
	if p.Format != format {
		return &PropertyMismatchError{"format", p.Format, format}
	}
	return nil
}
