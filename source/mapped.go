package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrInvalidRegion is returned for a mapped region with a negative
	// offset or a non-positive length.
	ErrInvalidRegion = errors.New("source: invalid mapped region")

	// ErrFileClosed is returned when mapping a region of a closed file.
	ErrFileClosed = errors.New("source: file is not open")

	// ErrNotOpened is returned when a region is read but could not be mapped.
	ErrNotOpened = errors.New("source: mapped region not opened")

	// ErrMapFailed matches every *MapError. Callers can fall back to
	// unmapped reads when they see it.
	ErrMapFailed = errors.New("source: memory mapping failed")
)

// MapError reports that the platform declined to create a mapping.
type MapError struct {
	Offset int64
	Length int64
	Err    error
}

func (e *MapError) Error() string {
	return fmt.Sprintf("source: cannot map [%d, %d): %v", e.Offset, e.Offset+e.Length, e.Err)
}

func (e *MapError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMapFailed.
func (e *MapError) Is(target error) bool { return target == ErrMapFailed }

// mapFailureMarkers are fragments of platform error text meaning the
// mapping itself could not be created, as opposed to a failing file.
var mapFailureMarkers = []string{
	"map failed",
	"cannot allocate memory",
	"not enough memory",
	"no such device",
	"operation not supported by device",
	"too many open files in system",
}

// IsMapFailure reports whether err means a memory mapping could not be
// created. The platform gives no structured code for this, so the error
// text is inspected.
func IsMapFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMapFailed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range mapFailureMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Mapped is a Source over one region of a file, memory-mapped on first use.
// Close unmaps the region; the next read maps it again.
//
// A Mapped is not safe for concurrent use.
type Mapped struct {
	file   *os.File
	offset int64
	length int64
	region *region
}

// NewMapped returns an unmapped region [offset, offset+length) of f.
// The file stays owned by the caller.
func NewMapped(f *os.File, offset, length int64) (*Mapped, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset %d", ErrInvalidRegion, offset)
	}
	if length <= 0 {
		return nil, fmt.Errorf("%w: length %d", ErrInvalidRegion, length)
	}
	return &Mapped{file: f, offset: offset, length: length}, nil
}

// Open maps the region. It does nothing if the region is already mapped.
func (m *Mapped) Open() error {
	if m.region != nil {
		return nil
	}

	if fileClosed(m.file) {
		return ErrFileClosed
	}
	info, err := m.file.Stat()
	if err != nil {
		return err
	}
	if m.offset+m.length > info.Size() {
		return fmt.Errorf("source: region [%d, %d) exceeds file size %d", m.offset, m.offset+m.length, info.Size())
	}

	r, err := mapRegion(m.file, m.offset, m.length)
	if err != nil {
		if errors.Is(err, os.ErrClosed) {
			return ErrFileClosed
		}
		if IsMapFailure(err) {
			return &MapError{Offset: m.offset, Length: m.length, Err: err}
		}
		return err
	}
	m.region = r
	return nil
}

// fileClosed reports whether f has been closed. Stat does not report
// os.ErrClosed for a closed file but reads do.
func fileClosed(f *os.File) bool {
	var b [1]byte
	_, err := f.ReadAt(b[:], 0)
	return errors.Is(err, os.ErrClosed)
}

// IsOpen reports whether the region is currently mapped.
func (m *Mapped) IsOpen() bool { return m.region != nil }

func (m *Mapped) ensureOpen() error {
	if m.region != nil {
		return nil
	}
	if err := m.Open(); err != nil {
		return fmt.Errorf("%w: %w", ErrNotOpened, err)
	}
	return nil
}

// ByteAt returns the byte at pos, relative to the start of the region.
func (m *Mapped) ByteAt(pos int64) (byte, error) {
	if err := checkPos(pos, m.length); err != nil {
		return 0, err
	}
	if err := m.ensureOpen(); err != nil {
		return 0, err
	}
	return m.region.data[pos], nil
}

// ReadAt implements io.ReaderAt relative to the start of the region.
func (m *Mapped) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := checkPos(off, m.length); err != nil {
		return 0, err
	}
	if err := m.ensureOpen(); err != nil {
		return 0, err
	}
	n := copy(p, m.region.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Len returns the length of the region.
func (m *Mapped) Len() int64 { return m.length }

// Offset returns the start of the region in the file.
func (m *Mapped) Offset() int64 { return m.offset }

// Close unmaps the region. It does nothing if the region is not mapped.
func (m *Mapped) Close() error {
	if m.region == nil {
		return nil
	}
	err := m.region.unmap()
	m.region = nil
	return err
}
