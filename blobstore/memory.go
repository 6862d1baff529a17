package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

// MemoryStore keeps blobs in process memory. It backs tests and short-lived
// indexes that never need to survive a restart.
//
// Put and Close store private copies and Open hands out detached snapshots,
// so a handle never observes later writes. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Open opens a snapshot of the named blob.
func (m *MemoryStore) Open(_ context.Context, name string) (Blob, error) {
	m.mu.RLock()
	data, ok := m.blobs[name]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	return newMemoryBlob(bytes.Clone(data)), nil
}

// Create returns a writable blob that is published on Close.
func (m *MemoryStore) Create(_ context.Context, name string) (WritableBlob, error) {
	return &memoryWriter{store: m, name: name}, nil
}

// Put stores a copy of data under name.
func (m *MemoryStore) Put(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blobs[name] = bytes.Clone(data)

	return nil
}

// Delete removes a blob. Unknown names are ignored.
func (m *MemoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, name)

	return nil
}

// List returns the names of all blobs with the given prefix, sorted.
func (m *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var names []string

	for name := range m.blobs {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names, nil
}

// memoryBlob serves reads from a snapshot taken at Open.
type memoryBlob struct {
	r    *bytes.Reader
	size int64
}

func newMemoryBlob(data []byte) *memoryBlob {
	return &memoryBlob{r: bytes.NewReader(data), size: int64(len(data))}
}

func (b *memoryBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	return b.r.ReadAt(p, off)
}

func (b *memoryBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off < 0 {
		return nil, fmt.Errorf("negative offset %d", off)
	}
	if off >= b.size {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}

	if rest := b.size - off; length > rest {
		length = rest
	}

	return io.NopCloser(io.NewSectionReader(b.r, off, length)), nil
}

func (b *memoryBlob) Size() int64 {
	return b.size
}

func (b *memoryBlob) Close() error {
	return nil
}

// memoryWriter buffers writes and publishes them as one atomic Put on Close.
type memoryWriter struct {
	store *MemoryStore
	name  string
	buf   bytes.Buffer
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memoryWriter) Sync() error {
	return nil
}

func (w *memoryWriter) Close() error {
	return w.store.Put(context.Background(), w.name, w.buf.Bytes())
}
