package tfidf

import (
	"fmt"
	"sort"
)

// Vocabulary maps terms to dense, zero-based column indices assigned in
// lexicographic term order. Immutable once built; indices are never
// renumbered for the lifetime of a fitted model.
type Vocabulary struct {
	terms []string
	index map[string]uint32
}

// NewVocabulary builds a Vocabulary from terms already in index order. The
// terms must be strictly ascending lexicographically; this is validated so
// corrupt persisted state is caught at load rather than mis-scoring later.
func NewVocabulary(terms []string) (*Vocabulary, error) {
	index := make(map[string]uint32, len(terms))
	for i, t := range terms {
		if i > 0 && terms[i-1] >= t {
			return nil, fmt.Errorf("tfidf: vocabulary terms not strictly ascending at index %d (%q)", i, t)
		}
		index[t] = uint32(i)
	}
	return &Vocabulary{terms: terms, index: index}, nil
}

// BuildVocabulary scans the per-document term lists, counts document
// frequencies, applies the df thresholds (keep t iff df >= minDF and
// df/N <= maxDF), and assigns indices lexicographically. It returns the
// Vocabulary and the document-frequency count for each kept term, aligned
// to index order.
//
// minDF must be >= 1 and maxDF in (0, 1]. A corpus in which no term
// survives yields an empty Vocabulary; that is valid, not an error.
func BuildVocabulary(docTerms [][]string, minDF int, maxDF float64) (*Vocabulary, []int, error) {
	if minDF < 1 {
		return nil, nil, fmt.Errorf("tfidf: min df must be >= 1, got %d", minDF)
	}
	if maxDF <= 0 || maxDF > 1 {
		return nil, nil, fmt.Errorf("tfidf: max df must be in (0, 1], got %g", maxDF)
	}

	dfs := make(map[string]int)
	seen := make(map[string]struct{})
	for _, terms := range docTerms {
		clear(seen)
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			dfs[t]++
		}
	}

	maxCount := maxDF * float64(len(docTerms))
	kept := make([]string, 0, len(dfs))
	for t, df := range dfs {
		if df >= minDF && float64(df) <= maxCount {
			kept = append(kept, t)
		}
	}
	sort.Strings(kept)

	vocab, err := NewVocabulary(kept)
	if err != nil {
		return nil, nil, err
	}

	keptDFs := make([]int, len(kept))
	for i, t := range kept {
		keptDFs[i] = dfs[t]
	}
	return vocab, keptDFs, nil
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Index returns the column index of term, if present.
func (v *Vocabulary) Index(term string) (uint32, bool) {
	i, ok := v.index[term]
	return i, ok
}

// Term returns the term at column index i.
func (v *Vocabulary) Term(i int) string {
	return v.terms[i]
}

// Terms returns a copy of the terms in index order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}
