package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocuments(t *testing.T) {
	rng := NewRNG(4711)

	docs := rng.Documents(8, 10, 30)

	assert.Equal(t, 8, len(docs))
	for _, d := range docs {
		n := len(strings.Fields(d))
		assert.GreaterOrEqual(t, n, 10)
		assert.LessOrEqual(t, n, 30)
	}
}

func TestDocumentsDeterministic(t *testing.T) {
	a := NewRNG(4711).Documents(16, 10, 30)
	b := NewRNG(4711).Documents(16, 10, 30)

	assert.Equal(t, a, b)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)

	first := rng.Documents(4, 10, 20)
	rng.Reset()
	second := rng.Documents(4, 10, 20)

	assert.Equal(t, first, second)
}

func TestQueries(t *testing.T) {
	rng := NewRNG(4711)

	queries := rng.Queries(5, 3)

	assert.Equal(t, 5, len(queries))
	for _, q := range queries {
		assert.Equal(t, 3, len(strings.Fields(q)))
	}
}

func TestZipfianHead(t *testing.T) {
	rng := NewRNG(4711)

	counts := make(map[string]int)
	for _, w := range rng.Words(5000) {
		counts[w]++
	}

	// Head terms must dominate the tail.
	assert.Greater(t, counts["festival"], counts["decorated"])
}

func TestTags(t *testing.T) {
	rng := NewRNG(4711)

	for i := 0; i < 20; i++ {
		tags := rng.Tags(3)
		assert.LessOrEqual(t, len(tags), 3)

		seen := make(map[string]bool)
		for _, tag := range tags {
			assert.False(t, seen[tag])
			seen[tag] = true
		}
	}
}
