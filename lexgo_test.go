package lexgo

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type festivalMeta struct {
	Region string `json:"region,omitempty"`
	Month  string `json:"month,omitempty"`
}

func festivalRecords() []Record[festivalMeta] {
	return []Record[festivalMeta]{
		{
			ID:             "diwali",
			CanonicalName:  "Diwali",
			AlternateNames: []string{"Deepavali", "Festival of Lights"},
			Description:    "Hindu festival of lights celebrated with oil lamps, fireworks and sweets.",
			Tags:           []string{"lights", "hindu"},
			Meta:           festivalMeta{Region: "pan-india", Month: "november"},
		},
		{
			ID:             "holi",
			CanonicalName:  "Holi",
			AlternateNames: []string{"Festival of Colours"},
			Description:    "Spring festival where crowds throw coloured powder and water.",
			Tags:           []string{"spring", "hindu"},
			Meta:           festivalMeta{Region: "north-india", Month: "march"},
		},
		{
			ID:            "pongal",
			CanonicalName: "Pongal",
			Description:   "Tamil harvest festival thanking the sun god with newly harvested rice.",
			Tags:          []string{"harvest", "tamil"},
			Meta:          festivalMeta{Region: "tamil-nadu", Month: "january"},
		},
		{
			ID:            "onam",
			CanonicalName: "Onam",
			Description:   "Kerala harvest festival with boat races, flower carpets and feasts.",
			Tags:          []string{"harvest"},
			Meta:          festivalMeta{Region: "kerala", Month: "september"},
		},
		{
			ID:            "navratri",
			CanonicalName: "Navratri",
			Description:   "Nine nights of dance and worship of the goddess Durga.",
			Tags:          []string{"dance", "hindu"},
			Meta:          festivalMeta{Region: "gujarat", Month: "october"},
		},
	}
}

func fitFestivals(t *testing.T) *Index[festivalMeta] {
	t.Helper()

	ix, err := TFIDF[festivalMeta]().Fit(context.Background(), festivalRecords())
	require.NoError(t, err)

	return ix
}

func TestIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("SelfRetrieval", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "Diwali", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "diwali", results[0].ID)
		assert.Greater(t, results[0].Score, 0.0)
		assert.Equal(t, "pan-india", results[0].Document.Meta.Region)
	})

	t.Run("PhraseQuery", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "festival of lights", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "diwali", results[0].ID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("ScoresWithinBounds", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "harvest festival with rice and lamps", 10)
		require.NoError(t, err)
		require.Len(t, results, 5)

		for _, r := range results {
			assert.GreaterOrEqual(t, r.Score, 0.0)
			assert.LessOrEqual(t, r.Score, 1.0)
		}
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("UnknownTermsScoreZero", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "zzz qqq xxyy", 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		// An all-zero query vector keeps corpus order.
		assert.Equal(t, "diwali", results[0].ID)
		assert.Equal(t, "holi", results[1].ID)
		assert.Equal(t, "pongal", results[2].ID)
		for _, r := range results {
			assert.Zero(t, r.Score)
		}
	})

	t.Run("EmptyQuery", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Zero(t, results[0].Score)
	})

	t.Run("TopKBounds", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "festival", 0)
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = ix.Search(ctx, "festival", -3)
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = ix.Search(ctx, "festival", 100)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})

	t.Run("TagFilter", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Search(ctx, "festival", 10, func(o *SearchOptions) {
			o.FilterTags = []string{"harvest"}
		})
		require.NoError(t, err)
		require.Len(t, results, 2)
		for _, r := range results {
			assert.Contains(t, []string{"pongal", "onam"}, r.ID)
		}

		// All given tags must match.
		results, err = ix.Search(ctx, "festival", 10, func(o *SearchOptions) {
			o.FilterTags = []string{"hindu", "lights"}
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "diwali", results[0].ID)

		// Tags are case-insensitive.
		results, err = ix.Search(ctx, "festival", 10, func(o *SearchOptions) {
			o.FilterTags = []string{"HARVEST"}
		})
		require.NoError(t, err)
		assert.Len(t, results, 2)

		results, err = ix.Search(ctx, "festival", 10, func(o *SearchOptions) {
			o.FilterTags = []string{"nonexistent"}
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("TopTerms", func(t *testing.T) {
		ix := fitFestivals(t)

		terms, err := ix.TopTerms("diwali", 3)
		require.NoError(t, err)
		require.Len(t, terms, 3)
		assert.Equal(t, "lights", terms[0].Text)

		for i := 1; i < len(terms); i++ {
			assert.GreaterOrEqual(t, terms[i-1].Weight, terms[i].Weight)
		}

		// Deterministic across calls.
		again, err := ix.TopTerms("diwali", 3)
		require.NoError(t, err)
		assert.Equal(t, terms, again)

		empty, err := ix.TopTerms("diwali", 0)
		require.NoError(t, err)
		assert.Empty(t, empty)

		_, err = ix.TopTerms("unknown", 3)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Get", func(t *testing.T) {
		ix := fitFestivals(t)

		doc, err := ix.Get("pongal")
		require.NoError(t, err)
		assert.Equal(t, "Pongal", doc.CanonicalName)
		assert.Contains(t, doc.SearchText, "harvest")

		_, err = ix.Get("unknown")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Stats", func(t *testing.T) {
		ix := fitFestivals(t)

		stats := ix.Stats()
		assert.Equal(t, 5, stats.Documents)
		assert.Greater(t, stats.Terms, 0)
		assert.Greater(t, stats.NNZ, 0)
		assert.Equal(t, 6, stats.Tags)
		assert.Equal(t, 5, ix.Len())
	})

	t.Run("EmptyCorpus", func(t *testing.T) {
		ix, err := TFIDF[festivalMeta]().Fit(ctx, nil)
		require.NoError(t, err)

		results, err := ix.Search(ctx, "anything", 5)
		require.NoError(t, err)
		assert.Empty(t, results)

		stats := ix.Stats()
		assert.Zero(t, stats.Documents)
		assert.Zero(t, stats.Terms)
	})

	t.Run("RecordWithoutText", func(t *testing.T) {
		ix, err := TFIDF[festivalMeta]().Fit(ctx, []Record[festivalMeta]{
			{ID: "bare"},
			{ID: "diwali", CanonicalName: "Diwali", Description: "Festival of lights."},
		})
		require.NoError(t, err)

		results, err := ix.Search(ctx, "lights", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "diwali", results[0].ID)
		assert.Zero(t, results[1].Score)
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := TFIDF[festivalMeta]().Fit(ctx, []Record[festivalMeta]{
			{ID: "diwali", CanonicalName: "Diwali"},
			{ID: "diwali", CanonicalName: "Deepavali"},
		})
		require.Error(t, err)

		var invalid *ErrInvalidRecord
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "diwali", invalid.ID)
		assert.Equal(t, "duplicate id", invalid.Reason)
	})

	t.Run("EmptyID", func(t *testing.T) {
		_, err := TFIDF[festivalMeta]().Fit(ctx, []Record[festivalMeta]{
			{CanonicalName: "Diwali"},
		})
		require.Error(t, err)

		var invalid *ErrInvalidRecord
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "empty id", invalid.Reason)
	})

	t.Run("DeterministicFits", func(t *testing.T) {
		a := fitFestivals(t)
		b := fitFestivals(t)

		ra, err := a.Search(ctx, "harvest festival", 5)
		require.NoError(t, err)
		rb, err := b.Search(ctx, "harvest festival", 5)
		require.NoError(t, err)

		assert.Equal(t, ra, rb)
	})
}

func TestIndexMetrics(t *testing.T) {
	ctx := context.Background()
	metrics := &BasicMetricsCollector{}

	ix, err := TFIDF[festivalMeta]().Metrics(metrics).Fit(ctx, festivalRecords())
	require.NoError(t, err)

	_, err = ix.Search(ctx, "festival", 3)
	require.NoError(t, err)
	_, err = ix.Search(ctx, "harvest", 3)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.FitCount)
	assert.Equal(t, int64(5), stats.FitDocs)
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Zero(t, stats.SearchErrors)
}

func TestIndexConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	ix := fitFestivals(t)

	want, err := ix.Search(ctx, "festival of lights", 3)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := ix.Search(ctx, "festival of lights", 3)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}()
	}
	wg.Wait()
}
