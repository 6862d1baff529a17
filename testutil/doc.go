// Package testutil provides testing utilities for Lexgo.
//
// This package is intended for use in tests and benchmarks only.
// It generates deterministic synthetic corpora whose term frequencies
// follow a Zipfian distribution, approximating natural language.
//
// # Corpus Generation
//
//	rng := testutil.NewRNG(4711)
//	docs := rng.Documents(1000, 40, 120)  // 1000 docs, 40-120 words each
//	queries := rng.Queries(100, 3)        // 100 three-term queries
//
// The same seed always yields the same corpus, so benchmarks and
// regression tests stay comparable across runs.
package testutil
