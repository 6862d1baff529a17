package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/testutil"
)

// makeRecords wraps a synthetic corpus into records with generated tag sets.
func makeRecords(rng *testutil.RNG, num int) []lexgo.Record[int] {
	docs := rng.Documents(num, 20, 80)

	records := make([]lexgo.Record[int], num)
	for i, doc := range docs {
		records[i] = lexgo.Record[int]{
			ID:          fmt.Sprintf("doc-%05d", i),
			Description: doc,
			Tags:        rng.Tags(3),
			Meta:        i,
		}
	}

	return records
}

func BenchmarkFit(b *testing.B) {
	ctx := context.Background()

	for _, size := range []int{100, 1_000, 10_000} {
		b.Run(fmt.Sprintf("docs=%d", size), func(b *testing.B) {
			records := makeRecords(testutil.NewRNG(1), size)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := lexgo.TFIDF[int]().Fit(ctx, records); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearch(b *testing.B) {
	const numQueries = 256
	ctx := context.Background()

	for _, size := range []int{1_000, 10_000} {
		rng := testutil.NewRNG(1)

		index, err := lexgo.TFIDF[int]().Fit(ctx, makeRecords(rng, size))
		if err != nil {
			b.Fatal(err)
		}

		queries := rng.Queries(numQueries, 3)

		for _, k := range []int{1, 10, 100} {
			b.Run(fmt.Sprintf("docs=%d/k=%d", size, k), func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if _, err := index.Search(ctx, queries[i%numQueries], k); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkSearchFiltered(b *testing.B) {
	const numQueries = 256
	ctx := context.Background()

	rng := testutil.NewRNG(1)

	index, err := lexgo.TFIDF[int]().Fit(ctx, makeRecords(rng, 10_000))
	if err != nil {
		b.Fatal(err)
	}

	queries := rng.Queries(numQueries, 3)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, err := index.Search(ctx, queries[i%numQueries], 10, func(o *lexgo.SearchOptions) {
			o.FilterTags = []string{"harvest"}
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkTopTerms(b *testing.B) {
	ctx := context.Background()

	const size = 1_000

	index, err := lexgo.TFIDF[int]().Fit(ctx, makeRecords(testutil.NewRNG(1), size))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := index.TopTerms(fmt.Sprintf("doc-%05d", i%size), 10); err != nil {
			b.Fatal(err)
		}
	}
}
