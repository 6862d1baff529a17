// Package mmap memory-maps files for zero-copy reads.
//
// Persisted index artifacts are immutable once published: they are written
// to a temp file, renamed into place, and never touched again. Mapping them
// read-only lets the local blob store serve artifact bytes straight from the
// kernel's page cache instead of copying them onto the Go heap.
//
// On unix platforms Advise forwards hints to madvise(2). Windows accepts and
// ignores them.
package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

// Advice hints how a mapping is about to be read.
type Advice int

const (
	// AdviceNormal leaves the kernel's default readahead in place.
	AdviceNormal Advice = iota

	// AdviceSequential requests aggressive readahead for front-to-back scans.
	AdviceSequential

	// AdviceRandom disables readahead for scattered range reads.
	AdviceRandom
)

// ErrClosed is returned when a closed mapping is used.
var ErrClosed = errors.New("mmap: closed")

// Mapping is a read-only memory-mapped file. Concurrent reads are safe;
// Close must not race with users of Bytes.
type Mapping struct {
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path read-only. An empty file yields a mapping
// with no data.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return &Mapping{}, nil
	}

	data, err := mapReadOnly(f, int(fi.Size()))
	if err != nil {
		return nil, err
	}

	return &Mapping{data: data}, nil
}

// Bytes returns the mapped contents, or nil once the mapping is closed.
// The slice aliases the mapping and dies with it.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the mapped length in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}

// Advise passes an access hint to the kernel.
func (m *Mapping) Advise(a Advice) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if len(m.data) == 0 {
		return nil
	}
	return advise(m.data, a)
}

// Close unmaps the file. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.data == nil {
		return nil
	}
	return unmap(m.data)
}
