package tagindex

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lexgo/analysis"
)

// Index maps normalized tags to bitmaps of the document rows carrying them.
//
// Rows are dense matrix row numbers, not user-facing IDs. Build the index by
// calling Add for every document in row order; afterwards treat it as
// immutable.
type Index struct {
	posting map[string]*roaring.Bitmap
}

// New creates an empty tag index.
func New() *Index {
	return &Index{
		posting: make(map[string]*roaring.Bitmap),
	}
}

// Normalize canonicalizes a tag for indexing and lookup.
func Normalize(tag string) string {
	return analysis.Normalize(tag)
}

// Add records that the document at row carries the given tags.
// Tags that normalize to the empty string are skipped.
func (x *Index) Add(row uint32, tags []string) {
	for _, tag := range tags {
		tag = Normalize(tag)
		if tag == "" {
			continue
		}

		bm, ok := x.posting[tag]
		if !ok {
			bm = roaring.New()
			x.posting[tag] = bm
		}

		bm.Add(row)
	}
}

// Rows compiles the filter for the given tags: the set of rows carrying all
// of them.
//
// A nil result means "no constraint" (no tags were given). An empty bitmap
// means the filter matched nothing; callers must distinguish the two.
func (x *Index) Rows(tags []string) *roaring.Bitmap {
	if len(tags) == 0 {
		return nil
	}

	var result *roaring.Bitmap

	for _, tag := range tags {
		bm, ok := x.posting[Normalize(tag)]
		if !ok {
			return roaring.New()
		}

		if result == nil {
			result = bm.Clone()
			continue
		}

		result.And(bm)
		if result.IsEmpty() {
			return result
		}
	}

	return result
}

// Contains reports whether the document at row carries the tag.
func (x *Index) Contains(row uint32, tag string) bool {
	bm, ok := x.posting[Normalize(tag)]
	if !ok {
		return false
	}

	return bm.Contains(row)
}

// Cardinality returns the number of rows carrying the tag.
func (x *Index) Cardinality(tag string) uint64 {
	bm, ok := x.posting[Normalize(tag)]
	if !ok {
		return 0
	}

	return bm.GetCardinality()
}

// Tags returns all indexed tags in sorted order.
func (x *Index) Tags() []string {
	tags := make([]string, 0, len(x.posting))
	for tag := range x.posting {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}

// Len returns the number of distinct tags.
func (x *Index) Len() int {
	return len(x.posting)
}
