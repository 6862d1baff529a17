package tfidf

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/lexgo/analysis"
)

// ErrNotFitted is returned by Transform when the vectorizer has no fitted
// vocabulary yet.
var ErrNotFitted = errors.New("tfidf: vectorizer not fitted")

// Options configures a Vectorizer.
type Options struct {
	// MinDF is the minimum document frequency (absolute count) a term needs
	// to enter the vocabulary. Must be >= 1.
	MinDF int

	// MaxDF is the maximum document frequency as a proportion of the corpus
	// in (0, 1]; terms above it are treated as corpus-wide noise.
	MaxDF float64

	// Analyzer tokenizes documents and queries. Nil selects the default
	// analyzer (English stop words, unigrams and bigrams).
	Analyzer *analysis.Analyzer
}

// DefaultOptions are the vectorizer settings used when none are given.
var DefaultOptions = Options{
	MinDF: 1,
	MaxDF: 0.8,
}

// Vectorizer derives TF-IDF state from a corpus and projects text into the
// fitted vector space. The fitted artifacts (vocabulary, IDF) are created
// by FitTransform and immutable afterwards; Transform never alters them.
type Vectorizer struct {
	analyzer *analysis.Analyzer
	minDF    int
	maxDF    float64

	vocab *Vocabulary
	idf   []float64
}

// New creates an unfitted Vectorizer.
func New(optFns ...func(o *Options)) (*Vectorizer, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MinDF < 1 {
		return nil, fmt.Errorf("tfidf: min df must be >= 1, got %d", opts.MinDF)
	}
	if opts.MaxDF <= 0 || opts.MaxDF > 1 {
		return nil, fmt.Errorf("tfidf: max df must be in (0, 1], got %g", opts.MaxDF)
	}

	a := opts.Analyzer
	if a == nil {
		var err error
		a, err = analysis.New()
		if err != nil {
			return nil, err
		}
	}

	return &Vectorizer{
		analyzer: a,
		minDF:    opts.MinDF,
		maxDF:    opts.MaxDF,
	}, nil
}

// Restore reconstructs a fitted Vectorizer from persisted vocabulary terms
// and IDF weights. The terms must be in index (lexicographic) order and idf
// must align one weight per term; both are validated so a truncated or
// tampered artifact is rejected instead of silently mis-scoring.
func Restore(terms []string, idf []float64, optFns ...func(o *Options)) (*Vectorizer, error) {
	v, err := New(optFns...)
	if err != nil {
		return nil, err
	}

	if len(idf) != len(terms) {
		return nil, fmt.Errorf("tfidf: idf length %d does not match vocabulary size %d", len(idf), len(terms))
	}
	for i, w := range idf {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("tfidf: idf weight %g at index %d out of range", w, i)
		}
	}

	vocab, err := NewVocabulary(terms)
	if err != nil {
		return nil, err
	}

	v.vocab = vocab
	v.idf = idf
	return v, nil
}

// Fitted reports whether the vectorizer holds a fitted vocabulary.
func (v *Vectorizer) Fitted() bool {
	return v.vocab != nil
}

// Analyzer returns the analyzer shared by fit and query paths.
func (v *Vectorizer) Analyzer() *analysis.Analyzer {
	return v.analyzer
}

// Vocabulary returns the fitted vocabulary, or nil before fitting.
func (v *Vectorizer) Vocabulary() *Vocabulary {
	return v.vocab
}

// IDF returns a copy of the fitted IDF vector, or nil before fitting.
func (v *Vectorizer) IDF() []float64 {
	if v.idf == nil {
		return nil
	}
	out := make([]float64, len(v.idf))
	copy(out, v.idf)
	return out
}

// MinDF returns the configured minimum document frequency.
func (v *Vectorizer) MinDF() int { return v.minDF }

// MaxDF returns the configured maximum document-frequency proportion.
func (v *Vectorizer) MaxDF() float64 { return v.maxDF }

// FitTransform derives vocabulary, IDF, and the L2-normalized document-term
// matrix from texts in one pass. A prior fit is fully superseded. The pass
// is deterministic: the same texts and configuration always produce
// identical state.
func (v *Vectorizer) FitTransform(texts []string) (*Matrix, error) {
	docTerms := make([][]string, len(texts))
	for i, t := range texts {
		docTerms[i] = v.analyzer.Terms(t)
	}

	vocab, dfs, err := BuildVocabulary(docTerms, v.minDF, v.maxDF)
	if err != nil {
		return nil, err
	}

	n := float64(len(texts))
	idf := make([]float64, vocab.Len())
	for i, df := range dfs {
		idf[i] = math.Log((1+n)/(1+float64(df))) + 1
	}

	m := NewMatrix(vocab.Len())
	for _, terms := range docTerms {
		row := project(terms, vocab, idf)
		row.NormalizeL2()
		if err := m.AppendRow(row); err != nil {
			return nil, err
		}
	}

	v.vocab = vocab
	v.idf = idf
	return m, nil
}

// Transform projects text into the fitted vector space: raw term counts,
// weighted by the frozen IDF, L2-normalized. Terms outside the vocabulary
// are silently dropped. The vocabulary and IDF are never modified.
func (v *Vectorizer) Transform(text string) (Vector, error) {
	if !v.Fitted() {
		return Vector{}, ErrNotFitted
	}

	vec := project(v.analyzer.Terms(text), v.vocab, v.idf)
	vec.NormalizeL2()
	return vec, nil
}

func project(terms []string, vocab *Vocabulary, idf []float64) Vector {
	counts := make(map[uint32]float64)
	for _, t := range terms {
		if j, ok := vocab.Index(t); ok {
			counts[j]++
		}
	}
	return vectorFromCounts(counts, idf)
}
