package source

import "io"

// Bytes is a Source backed by an in-memory byte slice.
type Bytes struct {
	data   []byte
	length int64
	closed bool
}

// NewBytes returns a source over b. The slice is not copied.
func NewBytes(b []byte) *Bytes {
	return &Bytes{data: b, length: int64(len(b))}
}

// ByteAt returns the byte at pos.
func (b *Bytes) ByteAt(pos int64) (byte, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if err := checkPos(pos, b.length); err != nil {
		return 0, err
	}
	return b.data[pos], nil
}

// ReadAt implements io.ReaderAt.
func (b *Bytes) ReadAt(p []byte, off int64) (int, error) {
	if b.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := checkPos(off, b.length); err != nil {
		return 0, err
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Len returns the number of bytes in the source.
func (b *Bytes) Len() int64 { return b.length }

// Close drops the reference to the underlying slice.
func (b *Bytes) Close() error {
	b.data = nil
	b.closed = true
	return nil
}
