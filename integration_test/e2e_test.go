package integration_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/blobstore"
	"github.com/hupe1980/lexgo/testutil"
	"github.com/stretchr/testify/require"
)

func festivalRecords() []lexgo.Record[string] {
	return []lexgo.Record[string]{
		{
			ID:             "diwali",
			CanonicalName:  "Diwali",
			AlternateNames: []string{"Deepavali", "Festival of Lights"},
			Description:    "The festival of lights celebrated with oil lamps and fireworks.",
			Tags:           []string{"lights", "hindu"},
			Meta:           "pan-india",
		},
		{
			ID:            "holi",
			CanonicalName: "Holi",
			Description:   "The festival of colours welcoming spring with coloured powder.",
			Tags:          []string{"spring", "hindu"},
			Meta:          "north-india",
		},
		{
			ID:            "pongal",
			CanonicalName: "Pongal",
			Description:   "A harvest festival where newly harvested rice is boiled in milk.",
			Tags:          []string{"harvest", "tamil"},
			Meta:          "tamil-nadu",
		},
	}
}

func TestE2E_Restart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// 1. Fit and save
	index, err := lexgo.TFIDF[string]().Fit(ctx, festivalRecords())
	require.NoError(t, err)

	want, err := index.Search(ctx, "festival of lights", 3)
	require.NoError(t, err)
	require.Equal(t, "diwali", want[0].ID)

	require.NoError(t, index.SaveToDir(ctx, dir))

	// 2. Reload and verify
	loaded, err := lexgo.LoadFromDir[string](ctx, dir)
	require.NoError(t, err)

	got, err := loaded.Search(ctx, "festival of lights", 3)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, index.Stats(), loaded.Stats())

	doc, err := loaded.Get("pongal")
	require.NoError(t, err)
	require.Equal(t, "tamil-nadu", doc.Meta)
}

func TestE2E_TagFilterAfterReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	index, err := lexgo.TFIDF[string]().Fit(ctx, festivalRecords())
	require.NoError(t, err)
	require.NoError(t, index.SaveToDir(ctx, dir))

	loaded, err := lexgo.LoadFromDir[string](ctx, dir)
	require.NoError(t, err)

	results, err := loaded.Query("festival").FilterTags("harvest").Execute(ctx)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "pongal", results[0].ID)
}

func TestE2E_SyntheticRoundTrip(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)

	records := make([]lexgo.Record[int], 300)
	for i, doc := range rng.Documents(300, 20, 80) {
		records[i] = lexgo.Record[int]{
			ID:          fmt.Sprintf("doc-%03d", i),
			Description: doc,
			Tags:        rng.Tags(3),
			Meta:        i,
		}
	}

	index, err := lexgo.TFIDF[int]().
		Compression(lexgo.CompressionZstd).
		Fit(ctx, records)
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, index.Save(ctx, store))

	loaded, err := lexgo.Load[int](ctx, store)
	require.NoError(t, err)
	require.Equal(t, index.Stats(), loaded.Stats())

	// Every persisted weight is restored bit for bit, so rankings and
	// scores match exactly.
	for _, query := range rng.Queries(20, 3) {
		want, err := index.Search(ctx, query, 10)
		require.NoError(t, err)

		got, err := loaded.Search(ctx, query, 10)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	for _, id := range []string{records[0].ID, records[150].ID, records[299].ID} {
		want, err := index.TopTerms(id, 5)
		require.NoError(t, err)

		got, err := loaded.TopTerms(id, 5)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestE2E_Generations(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := lexgo.TFIDF[string]().Fit(ctx, festivalRecords()[:1])
	require.NoError(t, err)
	require.NoError(t, first.SaveToDir(ctx, dir))

	second, err := lexgo.TFIDF[string]().Fit(ctx, festivalRecords())
	require.NoError(t, err)
	require.NoError(t, second.SaveToDir(ctx, dir))

	loaded, err := lexgo.LoadFromDir[string](ctx, dir)
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Len())

	// The first generation is garbage collected after the second publish.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.ElementsMatch(t, []string{
		"CURRENT",
		"MANIFEST-00000002.json",
		"model-00000002.bin",
		"matrix-00000002.bin",
	}, names)
}

func TestE2E_CorruptedArtifactOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	index, err := lexgo.TFIDF[string]().Fit(ctx, festivalRecords())
	require.NoError(t, err)
	require.NoError(t, index.SaveToDir(ctx, dir))

	path := filepath.Join(dir, "model-00000001.bin")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err = lexgo.LoadFromDir[string](ctx, dir)

	var corrupt *lexgo.ErrCorruptIndex
	require.ErrorAs(t, err, &corrupt)
}
