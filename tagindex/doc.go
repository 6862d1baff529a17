// Package tagindex maintains per-tag posting bitmaps over document rows.
//
// Tags are normalized (lowercased, whitespace collapsed) before indexing so
// lookups are case-insensitive. The index is built once while fitting and is
// read-only afterwards; concurrent readers need no locking.
//
// Posting lists are Roaring Bitmaps, so multi-tag filters compile to cheap
// bitmap intersections.
package tagindex
