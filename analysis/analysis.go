package analysis

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the minimum token length in runes. Single-character
// tokens carry no retrieval signal and are dropped, matching the classic
// vector-space token rule.
const minTokenRunes = 2

// Options configures an Analyzer.
type Options struct {
	// StopWords is the list of tokens removed before n-gram formation.
	// Nil or empty disables stop-word removal.
	StopWords []string

	// NGramMin and NGramMax bound the n-gram sizes emitted by Terms.
	// Both are inclusive. NGramMin must be >= 1 and <= NGramMax.
	NGramMin int
	NGramMax int
}

// DefaultOptions are the analyzer settings used when none are given:
// English stop words, unigrams and bigrams.
var DefaultOptions = Options{
	StopWords: EnglishStopWords,
	NGramMin:  1,
	NGramMax:  2,
}

// Analyzer converts raw text into index terms. Immutable once constructed.
type Analyzer struct {
	stopWords map[string]struct{}
	stopList  []string
	nGramMin  int
	nGramMax  int
}

// New creates an Analyzer.
//
// Example:
//
//	a, err := analysis.New(func(o *analysis.Options) {
//	    o.NGramMax = 3
//	})
func New(optFns ...func(o *Options)) (*Analyzer, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.NGramMin < 1 {
		return nil, fmt.Errorf("analysis: ngram min must be >= 1, got %d", opts.NGramMin)
	}
	if opts.NGramMax < opts.NGramMin {
		return nil, fmt.Errorf("analysis: ngram max %d < min %d", opts.NGramMax, opts.NGramMin)
	}

	a := &Analyzer{
		nGramMin: opts.NGramMin,
		nGramMax: opts.NGramMax,
	}

	if len(opts.StopWords) > 0 {
		a.stopWords = make(map[string]struct{}, len(opts.StopWords))
		a.stopList = make([]string, len(opts.StopWords))
		copy(a.stopList, opts.StopWords)
		for _, w := range opts.StopWords {
			a.stopWords[w] = struct{}{}
		}
	}

	return a, nil
}

// MustNew creates an Analyzer, panicking on invalid options.
func MustNew(optFns ...func(o *Options)) *Analyzer {
	a, err := New(optFns...)
	if err != nil {
		panic(err)
	}
	return a
}

// Options returns a copy of the analyzer's configuration. The engine
// persists this so queries against a reloaded index are analyzed exactly
// as the corpus was.
func (a *Analyzer) Options() Options {
	opts := Options{
		NGramMin: a.nGramMin,
		NGramMax: a.nGramMax,
	}
	if len(a.stopList) > 0 {
		opts.StopWords = make([]string, len(a.stopList))
		copy(opts.StopWords, a.stopList)
	}
	return opts
}

// Normalize lowercases s and collapses every run of whitespace (spaces,
// tabs, newlines) to a single space, trimming the ends. It is idempotent:
// Normalize(Normalize(s)) == Normalize(s). Empty input yields "".
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Tokens splits text into word-character runs of at least two runes.
// The input is normalized first, so callers may pass raw or already
// normalized text interchangeably.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !isWordRune(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Terms runs the full pipeline: normalize, tokenize, remove stop words,
// then emit every n-gram within the configured bounds, joined by a single
// space. The result preserves emission order and may contain duplicates;
// counting is the caller's concern.
func (a *Analyzer) Terms(text string) []string {
	tokens := Tokens(text)

	if a.stopWords != nil {
		kept := tokens[:0]
		for _, t := range tokens {
			if _, ok := a.stopWords[t]; !ok {
				kept = append(kept, t)
			}
		}
		tokens = kept
	}

	if a.nGramMin == 1 && a.nGramMax == 1 {
		return tokens
	}

	var terms []string
	for n := a.nGramMin; n <= a.nGramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			if n == 1 {
				terms = append(terms, tokens[i])
			} else {
				terms = append(terms, strings.Join(tokens[i:i+n], " "))
			}
		}
	}
	return terms
}
