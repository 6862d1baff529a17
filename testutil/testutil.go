package testutil

import (
	"math/rand"
	"strings"
	"sync"
)

// wordBank is ordered by rank: Zipfian sampling makes the head words the
// high-document-frequency terms of a generated corpus.
var wordBank = []string{
	"festival", "celebration", "ritual", "tradition", "harvest", "lights",
	"dance", "music", "temple", "prayer", "offering", "feast", "family",
	"village", "season", "night", "worship", "procession", "regional",
	"communal", "lamps", "drums", "sweets", "rice", "milk", "flowers",
	"garland", "colours", "powder", "bonfire", "fireworks", "rangoli",
	"kolam", "fasting", "goddess", "deity", "lunar", "moon", "spring",
	"winter", "monsoon", "gifts", "lanterns", "candles", "parade",
	"chariot", "river", "bathing", "pilgrimage", "legend", "myth",
	"demon", "victory", "dawn", "dusk", "grain", "sugarcane", "coconut",
	"banana", "mango", "turmeric", "vermilion", "sandalwood", "incense",
	"bells", "conch", "custom", "ancestral", "elders", "children",
	"songs", "folk", "classical", "costume", "mask", "puppet",
	"storytelling", "blessing", "renewal", "prosperity", "fortune",
	"unity", "neighbours", "markets", "fairs", "games", "swings",
	"kites", "boats", "races", "elephants", "decorated",
}

// tagBank holds the labels used for generated tag sets.
var tagBank = []string{
	"harvest", "lights", "spring", "winter", "dance", "music",
	"hindu", "regional", "lunar", "folk",
}

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	zipf *rand.Zipf
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	r := rand.New(rand.NewSource(seed))

	return &RNG{
		rand: r,
		zipf: rand.NewZipf(r, 1.2, 1, uint64(len(wordBank)-1)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Words returns n words sampled from the bank with Zipfian frequencies,
// so a handful of head terms dominate the way they do in natural text.
func (r *RNG) Words(n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.words(n)
}

func (r *RNG) words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = wordBank[r.zipf.Uint64()]
	}
	return out
}

// Document generates one document of minWords to maxWords words.
func (r *RNG) Document(minWords, maxWords int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.words(minWords+r.rand.Intn(maxWords-minWords+1)), " ")
}

// Documents generates num documents of minWords to maxWords words each.
// Locks only once per call (preferred over calling Document in a loop).
func (r *RNG) Documents(num, minWords, maxWords int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]string, num)
	for i := range docs {
		docs[i] = strings.Join(r.words(minWords+r.rand.Intn(maxWords-minWords+1)), " ")
	}

	return docs
}

// Queries generates num queries of terms words each. Query terms are drawn
// uniformly, not Zipfian, so rare terms show up at realistic query rates.
func (r *RNG) Queries(num, terms int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	queries := make([]string, num)
	for i := range queries {
		words := make([]string, terms)
		for j := range words {
			words[j] = wordBank[r.rand.Intn(len(wordBank))]
		}
		queries[i] = strings.Join(words, " ")
	}

	return queries
}

// Tags returns up to max distinct tags sampled from the tag bank.
func (r *RNG) Tags(max int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if max > len(tagBank) {
		max = len(tagBank)
	}

	n := r.rand.Intn(max + 1)
	perm := r.rand.Perm(len(tagBank))

	tags := make([]string, 0, n)
	for _, idx := range perm[:n] {
		tags = append(tags, tagBank[idx])
	}

	return tags
}
