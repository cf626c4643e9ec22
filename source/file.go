package source

import (
	"fmt"
	"io"
	"os"
)

// File is a Source that reads an *os.File with positional reads. It is the
// fallback when a file cannot be memory-mapped. Closing a File closes the
// underlying file.
type File struct {
	f      *os.File
	length int64
}

// NewFile takes ownership of f.
func NewFile(f *os.File) (*File, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	return &File{f: f, length: info.Size()}, nil
}

// ByteAt returns the byte at pos.
func (s *File) ByteAt(pos int64) (byte, error) {
	if s.f == nil {
		return 0, ErrClosed
	}
	if err := checkPos(pos, s.length); err != nil {
		return 0, err
	}
	var b [1]byte
	if _, err := s.f.ReadAt(b[:], pos); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadAt implements io.ReaderAt.
func (s *File) ReadAt(p []byte, off int64) (int, error) {
	if s.f == nil {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := checkPos(off, s.length); err != nil {
		return 0, err
	}
	n, err := s.f.ReadAt(clamp(p, off, s.length), off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// Len returns the file size captured when the source was created.
func (s *File) Len() int64 { return s.length }

// Close closes the file. Further calls do nothing.
func (s *File) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}
