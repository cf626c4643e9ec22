package source

import (
	"fmt"
	"io"
)

// Window restricts a Source to the range [offset, offset+length).
//
// A Window borrows its source: Close does not close the underlying source,
// which stays the responsibility of its owner. Use [Shared] when the last
// of several borrowers should release it.
type Window struct {
	src    Source
	offset int64
	length int64
}

// NewWindow returns a view of length bytes of src starting at offset.
func NewWindow(src Source, offset, length int64) (*Window, error) {
	if offset < 0 || length < 0 {
		return nil, fmt.Errorf("source: invalid window [%d, +%d)", offset, length)
	}
	if offset+length > src.Len() {
		return nil, fmt.Errorf("source: window [%d, %d) exceeds source length %d", offset, offset+length, src.Len())
	}
	return &Window{src: src, offset: offset, length: length}, nil
}

// NewTail returns a view of src from offset to its end.
func NewTail(src Source, offset int64) (*Window, error) {
	return NewWindow(src, offset, src.Len()-offset)
}

// ByteAt returns the byte at pos, relative to the start of the window.
func (w *Window) ByteAt(pos int64) (byte, error) {
	if err := checkPos(pos, w.length); err != nil {
		return 0, err
	}
	return w.src.ByteAt(w.offset + pos)
}

// ReadAt implements io.ReaderAt relative to the start of the window.
func (w *Window) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := checkPos(off, w.length); err != nil {
		return 0, err
	}
	q := clamp(p, off, w.length)
	n, err := w.src.ReadAt(q, w.offset+off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Len returns the length of the window.
func (w *Window) Len() int64 { return w.length }

// Offset returns the start of the window in the underlying source.
func (w *Window) Offset() int64 { return w.offset }

// Close is a no-op; the underlying source belongs to its owner.
func (w *Window) Close() error { return nil }
