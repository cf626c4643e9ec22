package source

import (
	"errors"
	"fmt"
	"io"
)

// Source is a random-access, position-addressed provider of bytes.
//
// ReadAt follows io.ReaderAt: it returns (n, io.EOF) with n < len(p) only
// when the source is exhausted mid-read, and (0, io.EOF) when off is at or
// after the end. ByteAt returns io.EOF for any position at or after Len.
type Source interface {
	io.ReaderAt

	// ByteAt returns the byte at pos.
	ByteAt(pos int64) (byte, error)

	// Len returns the number of bytes in the source. It never changes.
	Len() int64

	// Close releases any resources held by the source. Calling Close on a
	// source with nothing open is not an error.
	Close() error
}

var (
	// ErrClosed is returned when reading a source that was closed for good.
	ErrClosed = errors.New("source: closed")

	// ErrNegativePosition is returned for reads before the start of a source.
	ErrNegativePosition = errors.New("source: negative position")
)

// checkPos validates a read position against a source length. It returns
// io.EOF for positions at or after the end.
func checkPos(pos, length int64) error {
	if pos < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePosition, pos)
	}
	if pos >= length {
		return io.EOF
	}
	return nil
}

// clamp limits p so that a read at off does not run past length.
func clamp(p []byte, off, length int64) []byte {
	if remaining := length - off; int64(len(p)) > remaining {
		return p[:remaining]
	}
	return p
}

// ReadAll copies the whole source into memory.
func ReadAll(src Source) ([]byte, error) {
	buf := make([]byte, src.Len())
	n, err := src.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

// NewReader returns an io.Reader over the whole source that starts at
// position zero.
func NewReader(src Source) *io.SectionReader {
	return io.NewSectionReader(src, 0, src.Len())
}
