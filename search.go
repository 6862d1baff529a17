package lexgo

import (
	"context"
	"iter"
)

// Query creates a new fluent query builder for the given free-text query.
//
// Example:
//
//	results, err := ix.Query("festival of lights").
//	    TopK(5).
//	    FilterTags("lights").
//	    Execute(ctx)
//
//	// Or with streaming:
//	for result, err := range ix.Query("harvest").TopK(100).Stream(ctx) {
//	    if err != nil { break }
//	    if result.Score < 0.1 { break }
//	    process(result)
//	}
func (ix *Index[T]) Query(query string) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		ix:    ix,
		query: query,
		topK:  10, // Default k
	}
}

// QueryBuilder is a fluent builder for constructing search queries.
type QueryBuilder[T any] struct {
	ix    *Index[T]
	query string
	topK  int

	filterTags []string
	minScore   float64
}

// TopK sets the number of results to return.
func (qb *QueryBuilder[T]) TopK(k int) *QueryBuilder[T] {
	qb.topK = k
	return qb
}

// FilterTags restricts ranking to documents carrying all given tags.
// Tags match case-insensitively.
func (qb *QueryBuilder[T]) FilterTags(tags ...string) *QueryBuilder[T] {
	qb.filterTags = append(qb.filterTags, tags...)
	return qb
}

// MinScore drops results scoring below the given cosine similarity.
// Default: 0, keep everything.
func (qb *QueryBuilder[T]) MinScore(score float64) *QueryBuilder[T] {
	qb.minScore = score
	return qb
}

// Execute runs the query and returns the ranked results.
func (qb *QueryBuilder[T]) Execute(ctx context.Context) ([]Result[T], error) {
	results, err := qb.ix.Search(ctx, qb.query, qb.topK, func(o *SearchOptions) {
		o.FilterTags = qb.filterTags
	})
	if err != nil {
		return nil, err
	}

	if qb.minScore > 0 {
		// Results are sorted by descending score, cut at the threshold.
		for i, r := range results {
			if r.Score < qb.minScore {
				results = results[:i]
				break
			}
		}
	}

	return results, nil
}

// MustExecute runs the query, panicking on error.
// Use this only in tests or when you're certain the query is valid.
func (qb *QueryBuilder[T]) MustExecute(ctx context.Context) []Result[T] {
	results, err := qb.Execute(ctx)
	if err != nil {
		panic(err)
	}
	return results
}

// Stream returns an iterator over ranked results for early-terminating
// processing. Results are yielded in order from best to worst score.
//
// Example:
//
//	for result, err := range ix.Query("lamps").TopK(100).Stream(ctx) {
//	    if err != nil { break }
//	    if result.Score < 0.05 { break } // Early termination
//	    process(result)
//	}
func (qb *QueryBuilder[T]) Stream(ctx context.Context) iter.Seq2[Result[T], error] {
	return func(yield func(Result[T], error) bool) {
		results, err := qb.Execute(ctx)
		if err != nil {
			var zero Result[T]
			yield(zero, err)
			return
		}

		for _, r := range results {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// First returns only the best result, or ErrNotFound if nothing matches.
func (qb *QueryBuilder[T]) First(ctx context.Context) (Result[T], error) {
	qb.topK = 1
	results, err := qb.Execute(ctx)
	if err != nil {
		return Result[T]{}, err
	}
	if len(results) == 0 {
		return Result[T]{}, ErrNotFound
	}
	return results[0], nil
}

// Count executes the query and returns the number of results.
func (qb *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	results, err := qb.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return len(results), nil
}

// Exists checks if at least one result matches the query.
func (qb *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	qb.topK = 1
	results, err := qb.Execute(ctx)
	if err != nil {
		return false, err
	}
	return len(results) > 0, nil
}
