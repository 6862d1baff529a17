package lexgo

import (
	"context"

	"github.com/hupe1980/lexgo/analysis"
	"github.com/hupe1980/lexgo/codec"
	"github.com/hupe1980/lexgo/resource"
	"github.com/hupe1980/lexgo/tfidf"
)

// Builder is an immutable fluent builder for fitting an Index with
// type-safe metadata. Each method returns a new builder with the updated
// configuration, so partially configured builders can be shared and reused.
//
// Example:
//
//	ix, err := lexgo.TFIDF[FestivalMeta]().
//	    MinDF(2).
//	    MaxDF(0.5).
//	    NGram(1, 2).
//	    Compression(lexgo.CompressionZstd).
//	    Fit(ctx, records)
type Builder[T any] struct {
	minDF    int
	maxDF    float64
	ngramMin int
	ngramMax int

	stopWords    []string
	stopWordsSet bool

	codec       codec.Codec
	logger      *Logger
	metrics     MetricsCollector
	compression Compression
	compressed  bool
	ioLimit     int64
	resources   *resource.Controller
}

// TFIDF creates a new index builder with the default analysis and weighting
// settings: unigrams and bigrams, English stop words, MinDF 1, MaxDF 0.8.
func TFIDF[T any]() Builder[T] {
	return Builder[T]{
		minDF:    tfidf.DefaultOptions.MinDF,
		maxDF:    tfidf.DefaultOptions.MaxDF,
		ngramMin: analysis.DefaultOptions.NGramMin,
		ngramMax: analysis.DefaultOptions.NGramMax,
	}
}

// MinDF sets the minimum document frequency (absolute count) a term must
// reach to enter the vocabulary. Must be >= 1.
// Default: 1.
func (b Builder[T]) MinDF(minDF int) Builder[T] {
	b.minDF = minDF
	return b
}

// MaxDF sets the maximum document frequency (fraction of the corpus) a term
// may reach before it is pruned from the vocabulary. Must be in (0, 1].
// Default: 0.8.
func (b Builder[T]) MaxDF(maxDF float64) Builder[T] {
	b.maxDF = maxDF
	return b
}

// NGram sets the inclusive n-gram length range. NGram(1, 1) indexes
// unigrams only. Default: NGram(1, 2), unigrams plus bigrams.
func (b Builder[T]) NGram(minN, maxN int) Builder[T] {
	b.ngramMin = minN
	b.ngramMax = maxN
	return b
}

// StopWords replaces the default English stop-word list. Passing nil or an
// empty slice disables stop-word removal entirely.
func (b Builder[T]) StopWords(words []string) Builder[T] {
	b.stopWords = words
	b.stopWordsSet = true
	return b
}

// Codec sets the codec used to encode the model artifact on Save.
func (b Builder[T]) Codec(c codec.Codec) Builder[T] {
	b.codec = c
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder[T]) Logger(l *Logger) Builder[T] {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder[T]) Metrics(mc MetricsCollector) Builder[T] {
	b.metrics = mc
	return b
}

// Compression sets the compression applied to artifacts on Save.
// Default: CompressionNone.
func (b Builder[T]) Compression(c Compression) Builder[T] {
	b.compression = c
	b.compressed = true
	return b
}

// IOLimit caps artifact read and write throughput at bytesPerSec.
// Ignored when Resources is also set.
func (b Builder[T]) IOLimit(bytesPerSec int64) Builder[T] {
	b.ioLimit = bytesPerSec
	return b
}

// Resources sets a shared resource controller governing persistence IO
// bandwidth, load staging memory, and background cleanup slots.
func (b Builder[T]) Resources(rc *resource.Controller) Builder[T] {
	b.resources = rc
	return b
}

// Fit builds the vocabulary, IDF weights, and document-term matrix from the
// given records and returns the fitted Index. Records must carry unique,
// non-empty IDs. An empty record slice fits an empty but valid index.
func (b Builder[T]) Fit(ctx context.Context, records []Record[T]) (*Index[T], error) {
	analyzerFns := []func(o *analysis.Options){
		func(o *analysis.Options) {
			o.NGramMin = b.ngramMin
			o.NGramMax = b.ngramMax
			if b.stopWordsSet {
				o.StopWords = b.stopWords
			}
		},
	}

	vecFns := []func(o *tfidf.Options){
		func(o *tfidf.Options) {
			o.MinDF = b.minDF
			o.MaxDF = b.maxDF
		},
	}

	var optFns []Option
	if b.codec != nil {
		optFns = append(optFns, WithCodec(b.codec))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}
	if b.compressed {
		optFns = append(optFns, WithCompression(b.compression))
	}
	if b.resources != nil {
		optFns = append(optFns, WithResourceController(b.resources))
	}
	if b.ioLimit > 0 {
		optFns = append(optFns, WithIOLimit(b.ioLimit))
	}

	return newIndex[T](ctx, records, analyzerFns, vecFns, optFns...)
}

// MustFit is like Fit but panics on error. Useful for static corpora known
// to be valid.
func (b Builder[T]) MustFit(ctx context.Context, records []Record[T]) *Index[T] {
	ix, err := b.Fit(ctx, records)
	if err != nil {
		panic(err)
	}

	return ix
}
