package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for reading and writing immutable index
// artifacts (model blobs, matrix blobs, manifests).
// Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	// Returns ErrNotFound if the blob does not exist.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a new writable blob. The blob becomes visible to
	// readers no later than Close.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically: readers see either the previous
	// content or all of data, never a prefix.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to an immutable blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off, following io.ReaderAt
	// semantics apart from the added context.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over length bytes starting at off. The
	// range is clamped to the blob size.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	io.Closer
}

// WritableBlob is a write-once handle created by BlobStore.Create.
type WritableBlob interface {
	io.Writer

	// Sync forces buffered data to stable storage where the backend
	// supports it.
	Sync() error

	// Close finalizes the blob. The write is complete only when Close
	// returns nil.
	io.Closer
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	// This is a zero-copy operation if supported.
	Bytes() ([]byte, error)
}

// ReadAll reads the full content of the named blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	if m, ok := blob.(Mappable); ok {
		mapped, err := m.Bytes()
		if err == nil {
			// Callers own the result, so detach it from the mapping.
			data := make([]byte, len(mapped))
			copy(data, mapped)
			return data, nil
		}
	}

	data := make([]byte, blob.Size())
	n, err := blob.ReadAt(ctx, data, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if n != len(data) {
		return nil, io.ErrUnexpectedEOF
	}

	return data, nil
}
