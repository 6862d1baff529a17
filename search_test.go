package lexgo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilder(t *testing.T) {
	ctx := context.Background()

	t.Run("Execute", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Query("festival of lights").
			TopK(3).
			Execute(ctx)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "diwali", results[0].ID)
	})

	t.Run("DefaultTopK", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Query("festival").Execute(ctx)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})

	t.Run("FilterTags", func(t *testing.T) {
		ix := fitFestivals(t)

		results, err := ix.Query("festival").
			FilterTags("harvest", "tamil").
			Execute(ctx)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "pongal", results[0].ID)
	})

	t.Run("MinScore", func(t *testing.T) {
		ix := fitFestivals(t)

		all, err := ix.Query("lights").Execute(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		matched, err := ix.Query("lights").MinScore(0.01).Execute(ctx)
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "diwali", matched[0].ID)
	})

	t.Run("MustExecute", func(t *testing.T) {
		ix := fitFestivals(t)

		results := ix.Query("harvest").TopK(2).MustExecute(ctx)
		assert.Len(t, results, 2)
	})

	t.Run("First", func(t *testing.T) {
		ix := fitFestivals(t)

		result, err := ix.Query("colours powder").First(ctx)
		require.NoError(t, err)
		assert.Equal(t, "holi", result.ID)

		_, err = ix.Query("festival").FilterTags("nonexistent").First(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Stream", func(t *testing.T) {
		ix := fitFestivals(t)

		var ids []string
		for result, err := range ix.Query("harvest festival").TopK(10).Stream(ctx) {
			require.NoError(t, err)
			ids = append(ids, result.ID)
		}
		assert.Len(t, ids, 5)
		assert.Contains(t, []string{"pongal", "onam"}, ids[0])
	})

	t.Run("StreamEarlyTermination", func(t *testing.T) {
		ix := fitFestivals(t)

		count := 0
		for _, err := range ix.Query("festival").TopK(10).Stream(ctx) {
			require.NoError(t, err)
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("Count", func(t *testing.T) {
		ix := fitFestivals(t)

		n, err := ix.Query("festival").TopK(3).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = ix.Query("festival").FilterTags("harvest").TopK(10).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("Exists", func(t *testing.T) {
		ix := fitFestivals(t)

		ok, err := ix.Query("anything").FilterTags("harvest").Exists(ctx)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = ix.Query("anything").FilterTags("nonexistent").Exists(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
