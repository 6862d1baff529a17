// Package tfidf implements the vector-space weighting model: vocabulary
// construction over a corpus, smoothed TF-IDF weights, and the sparse
// document-term matrix queries are scored against.
//
// # Model
//
// For a corpus of N documents, term t and document d:
//
//	tf(t,d)  = raw count of t in d
//	idf(t)   = ln((1+N)/(1+df(t))) + 1
//	weight   = tf(t,d) * idf(t)
//
// where df(t) is the number of documents containing t. Each document's
// weight vector is L2-normalized; a document with no surviving terms stays
// the zero vector. The IDF vector is frozen at fit time and reused to
// project queries into the same space, so cosine similarity between a
// transformed query and a matrix row reduces to a sparse dot product.
//
// Vocabulary indices are assigned in lexicographic term order: dense,
// zero-based, and reproducible, so fitting the same corpus twice yields
// bit-identical state.
//
// # Fitting vs Transforming
//
// FitTransform derives vocabulary, document frequencies, IDF, and the
// matrix in one deterministic pass. Transform projects new text using the
// frozen vocabulary and IDF; terms unseen at fit time contribute nothing
// and are silently dropped, never added.
package tfidf
