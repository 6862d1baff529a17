// Package lexgo provides an embedded TF-IDF retrieval engine for Go.
//
// Lexgo ranks the records of a structured text corpus against free-text
// queries using a vector-space model (TF-IDF weighting + cosine similarity)
// with production-ready features including:
//
//   - Type-safe fluent builder: TFIDF[T]() carries an arbitrary metadata payload per record
//   - Deterministic fits: identical corpus + configuration always yields an identical index
//   - Unigram/bigram analysis with configurable stop words and document-frequency bounds
//   - Tag filtering with Roaring Bitmap posting lists
//   - Per-document keyword extraction (top TF-IDF terms)
//   - Durable index generations: checksummed, optionally compressed artifacts
//     behind a pluggable BlobStore (memory, local/mmap, S3, MinIO)
//   - Streaming search API for early-terminating iteration
//   - Structured logging (slog) and pluggable metrics
//
// # Quick Start
//
// Fit an index over festival records and query it:
//
//	type Meta struct {
//	    Region string `json:"region"`
//	}
//
//	ctx := context.Background()
//	ix, err := lexgo.TFIDF[Meta]().
//	    MinDF(1).
//	    MaxDF(0.8).
//	    NGram(1, 2).
//	    Fit(ctx, []lexgo.Record[Meta]{
//	        {ID: "diwali", CanonicalName: "Diwali", AlternateNames: []string{"Deepavali"},
//	            Description: "Festival of lights with oil lamps.", Tags: []string{"lights"},
//	            Meta: Meta{Region: "pan-india"}},
//	        {ID: "holi", CanonicalName: "Holi",
//	            Description: "Festival of colors.", Meta: Meta{Region: "north-india"}},
//	    })
//	if err != nil {
//	    panic(err)
//	}
//
//	results, err := ix.Search(ctx, "festival of lights", 3)
//	for _, r := range results {
//	    fmt.Println(r.ID, r.Score, r.Document.Meta.Region)
//	}
//
// Fluent query form with tag filtering and streaming:
//
//	results, err := ix.Query("harvest festival").
//	    TopK(5).
//	    FilterTags("harvest").
//	    Execute(ctx)
//
//	for r, err := range ix.Query("lamps").TopK(10).Stream(ctx) {
//	    if err != nil {
//	        break
//	    }
//	    if r.Score < 0.05 {
//	        break // Early termination
//	    }
//	    process(r)
//	}
//
// # Persistence
//
// A fitted index saves and loads as one atomic generation. The costly fit
// step runs once; every later process loads the artifacts instead:
//
//	store, _ := blobstore.NewLocalStore("./data")
//	if err := ix.Save(ctx, store); err != nil {
//	    panic(err)
//	}
//
//	ix2, err := lexgo.Load[Meta](ctx, store)
//	if errors.Is(err, lexgo.ErrDataUnavailable) {
//	    // no index yet: fit and save instead
//	}
//
// The same artifacts work against S3 (blobstore/s3), MinIO (blobstore/minio),
// or in-memory stores for tests.
//
// # Concurrency
//
// Fitting is the only mutating step and completes in full before an Index
// exists. A fitted Index is immutable: concurrent Search, TopTerms, and Get
// calls share one instance without locking.
package lexgo

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/lexgo/analysis"
	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/resource"
	"github.com/hupe1980/lexgo/tagindex"
	"github.com/hupe1980/lexgo/tfidf"
)

// Record is one corpus entry as supplied by the caller. Only ID is
// required; records with no text fields index as empty documents. Meta is
// an arbitrary payload carried through fit, persistence, and results.
type Record[T any] struct {
	ID             string   `json:"id"`
	CanonicalName  string   `json:"canonical_name,omitempty"`
	AlternateNames []string `json:"alternate_names,omitempty"`
	Description    string   `json:"description,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	Meta           T        `json:"meta,omitempty"`
}

// searchText concatenates the record's text fields and normalizes the
// result. This is the exact text the document is indexed under.
func (r Record[T]) searchText() string {
	parts := make([]string, 0, 2+len(r.AlternateNames)+len(r.Tags))
	if r.CanonicalName != "" {
		parts = append(parts, r.CanonicalName)
	}
	parts = append(parts, r.AlternateNames...)
	if r.Description != "" {
		parts = append(parts, r.Description)
	}
	parts = append(parts, r.Tags...)
	return analysis.Normalize(strings.Join(parts, " "))
}

// Document is a Record as held by a fitted Index, together with the
// normalized text it was indexed under. Immutable once built.
type Document[T any] struct {
	Record[T]

	// SearchText is the normalized concatenation of the record's canonical
	// name, alternate names, description, and tags.
	SearchText string `json:"search_text"`
}

// Result is one ranked search hit.
type Result[T any] struct {
	// ID is the matched document's identifier.
	ID string

	// Score is the cosine similarity in [0, 1].
	Score float64

	// Document is the matched document.
	Document Document[T]
}

// Term is one weighted vocabulary term of a document row.
type Term struct {
	Text   string
	Weight float64
}

// Stats describes a fitted index.
type Stats struct {
	// Documents is the corpus size.
	Documents int

	// Terms is the vocabulary size.
	Terms int

	// NNZ is the number of non-zero entries in the document-term matrix.
	NNZ int

	// Tags is the number of distinct normalized tags.
	Tags int
}

// Index is a fitted, immutable TF-IDF index over a corpus of documents.
// It is created by the TFIDF builder's Fit or by Load, never modified
// afterwards, and safe for concurrent readers.
type Index[T any] struct {
	vec    *tfidf.Vectorizer
	matrix *tfidf.Matrix
	docs   []Document[T]
	byID   map[string]int
	tags   *tagindex.Index

	codec       codec.Codec
	compression Compression
	logger      *Logger
	metrics     MetricsCollector
	resources   *resource.Controller
}

// newIndex fits records into an Index and records fit metrics. It is the
// internal constructor behind the TFIDF builder.
func newIndex[T any](ctx context.Context, records []Record[T], analyzerFns []func(o *analysis.Options), vecFns []func(o *tfidf.Options), optFns ...Option) (*Index[T], error) {
	opts := applyOptions(optFns)

	start := time.Now()
	ix, err := fitIndex[T](records, analyzerFns, vecFns, opts)
	duration := time.Since(start)

	opts.metricsCollector.RecordFit(len(records), duration, err)
	terms := 0
	if ix != nil {
		terms = ix.vec.Vocabulary().Len()
	}
	opts.logger.LogFit(ctx, len(records), terms, err)
	return ix, err
}

func fitIndex[T any](records []Record[T], analyzerFns []func(o *analysis.Options), vecFns []func(o *tfidf.Options), opts options) (*Index[T], error) {
	analyzer, err := analysis.New(analyzerFns...)
	if err != nil {
		return nil, err
	}

	vecFns = append(vecFns, func(o *tfidf.Options) {
		o.Analyzer = analyzer
	})
	vec, err := tfidf.New(vecFns...)
	if err != nil {
		return nil, err
	}

	docs := make([]Document[T], len(records))
	byID := make(map[string]int, len(records))
	texts := make([]string, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, &ErrInvalidRecord{ID: r.ID, Reason: "empty id"}
		}
		if _, ok := byID[r.ID]; ok {
			return nil, &ErrInvalidRecord{ID: r.ID, Reason: "duplicate id"}
		}
		byID[r.ID] = i

		docs[i] = Document[T]{Record: r, SearchText: r.searchText()}
		texts[i] = docs[i].SearchText
	}

	matrix, err := vec.FitTransform(texts)
	if err != nil {
		return nil, err
	}

	c := opts.codec
	if c == nil {
		c = codec.Default
	}

	return &Index[T]{
		vec:         vec,
		matrix:      matrix,
		docs:        docs,
		byID:        byID,
		tags:        buildTagIndex(docs),
		codec:       c,
		compression: opts.compression,
		logger:      opts.logger,
		metrics:     opts.metricsCollector,
		resources:   opts.resources,
	}, nil
}

// buildTagIndex derives per-tag posting bitmaps from the document list.
// Derived state: rebuilt (never persisted) on every fit and load.
func buildTagIndex[T any](docs []Document[T]) *tagindex.Index {
	tags := tagindex.New()
	for i, d := range docs {
		tags.Add(uint32(i), d.Tags)
	}
	return tags
}

// SearchOptions contains options for Search.
type SearchOptions struct {
	// FilterTags restricts ranking to documents carrying all given tags
	// (matched case-insensitively). Empty means no restriction.
	FilterTags []string
}

// Search ranks all documents against the query and returns the topK best.
//
// The query is normalized and analyzed with the fitted configuration;
// out-of-vocabulary terms contribute nothing and are silently dropped. The
// query vector is weighted by the frozen IDF and L2-normalized, so scores
// are cosine similarities in [0, 1]. Ties keep corpus order. An all-zero
// query vector (empty query, or only unknown terms) scores 0 against every
// document and still returns topK results in the stable order.
//
// topK <= 0 returns an empty slice, not an error. The fitted state is
// never modified; concurrent calls are safe.
func (ix *Index[T]) Search(ctx context.Context, query string, topK int, optFns ...func(o *SearchOptions)) ([]Result[T], error) {
	start := time.Now()

	var opts SearchOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	results, err := ix.search(query, topK, opts)
	duration := time.Since(start)

	ix.metrics.RecordSearch(topK, duration, err)
	ix.logger.LogSearch(ctx, topK, len(results), err)
	return results, err
}

func (ix *Index[T]) search(query string, topK int, opts SearchOptions) ([]Result[T], error) {
	if topK <= 0 {
		return []Result[T]{}, nil
	}

	qvec, err := ix.vec.Transform(query)
	if err != nil {
		return nil, err
	}

	// Nil means no tag constraint.
	filter := ix.tags.Rows(opts.FilterTags)

	type scored struct {
		row   int
		score float64
	}
	candidates := make([]scored, 0, ix.matrix.Rows())
	for i := 0; i < ix.matrix.Rows(); i++ {
		if filter != nil && !filter.Contains(uint32(i)) {
			continue
		}
		s := qvec.Dot(ix.matrix.Row(i))
		// Guard against float rounding above 1.
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		candidates = append(candidates, scored{row: i, score: s})
	}

	// Ties keep corpus order.
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})

	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	results := make([]Result[T], len(candidates))
	for i, c := range candidates {
		results[i] = Result[T]{
			ID:       ix.docs[c.row].ID,
			Score:    c.score,
			Document: ix.docs[c.row],
		}
	}
	return results, nil
}

// TopTerms returns the n highest-weighted vocabulary terms of the document
// with the given id, ordered by descending weight with ties broken by term.
// n <= 0 returns an empty slice. Unknown ids return ErrNotFound.
func (ix *Index[T]) TopTerms(id string, n int) ([]Term, error) {
	row, ok := ix.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if n <= 0 {
		return []Term{}, nil
	}

	vocab := ix.vec.Vocabulary()
	vec := ix.matrix.Row(row)
	terms := make([]Term, vec.NNZ())
	for i, j := range vec.Indices {
		terms[i] = Term{Text: vocab.Term(int(j)), Weight: vec.Values[i]}
	}

	sort.Slice(terms, func(a, b int) bool {
		if terms[a].Weight != terms[b].Weight {
			return terms[a].Weight > terms[b].Weight
		}
		return terms[a].Text < terms[b].Text
	})

	if n < len(terms) {
		terms = terms[:n]
	}
	return terms, nil
}

// Get retrieves a document by ID.
func (ix *Index[T]) Get(id string) (Document[T], error) {
	row, ok := ix.byID[id]
	if !ok {
		var zero Document[T]
		return zero, ErrNotFound
	}
	return ix.docs[row], nil
}

// Len returns the corpus size.
func (ix *Index[T]) Len() int {
	return len(ix.docs)
}

// Stats returns statistics about the fitted index.
func (ix *Index[T]) Stats() Stats {
	return Stats{
		Documents: len(ix.docs),
		Terms:     ix.vec.Vocabulary().Len(),
		NNZ:       ix.matrix.NNZ(),
		Tags:      ix.tags.Len(),
	}
}
