// Package analysis turns raw text into the terms the retrieval engine
// indexes and queries.
//
// # Pipeline
//
// Text passes through three stages:
//
//  1. Normalize: lowercase, collapse whitespace runs, trim. Idempotent.
//  2. Tokenize: maximal runs of Unicode word characters (letters, digits,
//     underscore) of at least two runes. Punctuation and whitespace both
//     delimit; shorter runs are dropped.
//  3. Terms: stop words are removed from the token stream, then n-grams
//     (default unigrams and bigrams) are formed over the remaining tokens
//     with a single space as the joiner. Because removal happens first, a
//     bigram may span a removed stop word.
//
// The same Analyzer must be used at fit time and at query time; the engine
// persists its configuration so a reloaded index analyzes queries exactly
// as the corpus was analyzed.
//
// # Thread Safety
//
// An Analyzer is immutable after construction and safe for concurrent use.
package analysis
