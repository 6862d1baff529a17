package lexgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document is not found.
	ErrNotFound = errors.New("not found")

	// ErrDataUnavailable is returned when persisted index artifacts are
	// missing or unreadable. Callers decide whether to rebuild or abort.
	ErrDataUnavailable = errors.New("data unavailable")
)

// ErrCorruptIndex indicates that persisted index artifacts are inconsistent:
// a failed checksum, a truncated blob, an unknown format version, or shapes
// that disagree across vocabulary, matrix, and document list.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrCorruptIndex struct {
	Reason string
	cause  error
}

func (e *ErrCorruptIndex) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("corrupt index: %s: %v", e.Reason, e.cause)
	}
	return fmt.Sprintf("corrupt index: %s", e.Reason)
}

func (e *ErrCorruptIndex) Unwrap() error { return e.cause }

// corrupt wraps cause as an ErrCorruptIndex with the given reason.
func corrupt(reason string, cause error) error {
	return &ErrCorruptIndex{Reason: reason, cause: cause}
}

// ErrInvalidRecord indicates a corpus record that cannot be indexed,
// such as a missing or duplicate identifier.
type ErrInvalidRecord struct {
	ID     string
	Reason string
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid record %q: %s", e.ID, e.Reason)
}

// ErrChecksumMismatch indicates that a persisted blob's checksum does not
// match the value recorded in the manifest.
type ErrChecksumMismatch struct {
	Name     string
	Expected uint32
	Actual   uint32
}

func (e *ErrChecksumMismatch) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %08x, got %08x", e.Name, e.Expected, e.Actual)
}
