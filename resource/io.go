package resource

import (
	"context"
	"io"
)

// ThrottledWriter charges the controller's IO budget before forwarding
// each Write, so bytes reach the underlying writer at the configured rate.
type ThrottledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewThrottledWriter wraps w with the controller's IO limit.
func NewThrottledWriter(ctx context.Context, w io.Writer, rc *Controller) *ThrottledWriter {
	return &ThrottledWriter{ctx: ctx, w: w, rc: rc}
}

func (t *ThrottledWriter) Write(p []byte) (int, error) {
	if err := t.rc.AcquireIO(t.ctx, len(p)); err != nil {
		return 0, err
	}

	return t.w.Write(p)
}

// ThrottledReader charges the controller's IO budget for the bytes each
// Read actually returned. Charging after the read keeps the accounting
// exact when the underlying reader returns short.
type ThrottledReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewThrottledReader wraps r with the controller's IO limit.
func NewThrottledReader(ctx context.Context, r io.Reader, rc *Controller) *ThrottledReader {
	return &ThrottledReader{ctx: ctx, r: r, rc: rc}
}

func (t *ThrottledReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n > 0 {
		if werr := t.rc.AcquireIO(t.ctx, n); werr != nil {
			return n, werr
		}
	}

	return n, err
}
