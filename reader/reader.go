package reader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/source"
)

// headerSearchLimit is how far into the file the %PDF- marker may start.
const headerSearchLimit = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// ErrNoHeader is returned when no %PDF-x.y header is found.
var ErrNoHeader = errors.New("PDF header not found")

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader gives access to the bytes of a PDF file. Offsets passed to its
// methods are file offsets.
type Reader struct {
	src          source.Source
	version      PDFVersion
	headerOffset int64
}

// NewReader creates a reader on src and parses its header. The reader
// takes ownership of src.
func NewReader(src source.Source) (*Reader, error) {
	r := &Reader{src: src}
	if err := r.parseHeader(); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return r, nil
}

// Open opens a PDF file and returns a Reader
func Open(filename string, opts ...source.Option) (*Reader, error) {
	src, err := source.Open(filename, opts...)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(src)
	if err != nil {
		src.Close()
		return nil, err
	}
	return r, nil
}

// Close releases the underlying source.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}

// parseHeader finds %PDF-x.y near the start of the file. Some writers put
// junk before the header.
func (r *Reader) parseHeader() error {
	n := min(r.src.Len(), headerSearchLimit)
	buf := make([]byte, n)
	if _, err := r.src.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read header: %w", err)
	}

	m := headerPattern.FindSubmatchIndex(buf)
	if m == nil {
		return ErrNoHeader
	}
	major, err := strconv.Atoi(string(buf[m[2]:m[3]]))
	if err != nil {
		return fmt.Errorf("invalid version format: %s", buf[m[0]:m[1]])
	}
	minor, err := strconv.Atoi(string(buf[m[4]:m[5]]))
	if err != nil {
		return fmt.Errorf("invalid version format: %s", buf[m[0]:m[1]])
	}

	r.version = PDFVersion{Major: major, Minor: minor}
	r.headerOffset = int64(m[0])
	return nil
}

// Version returns the PDF version
func (r *Reader) Version() PDFVersion {
	return r.version
}

// HeaderOffset returns the file offset of the %PDF- marker.
func (r *Reader) HeaderOffset() int64 {
	return r.headerOffset
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return r.src.Len()
}

// Source returns the underlying source. It stays owned by the reader.
func (r *Reader) Source() source.Source {
	return r.src
}

// Section returns a view of length bytes starting at offset. A negative
// length means up to the end of the file.
func (r *Reader) Section(offset, length int64) (*source.Window, error) {
	if length < 0 {
		return source.NewTail(r.src, offset)
	}
	return source.NewWindow(r.src, offset, length)
}

// ReadSection returns a copy of a section's bytes.
func (r *Reader) ReadSection(offset, length int64) ([]byte, error) {
	w, err := r.Section(offset, length)
	if err != nil {
		return nil, err
	}
	return source.ReadAll(w)
}

// DecodeSection reads a section and applies the filters named by dict, as
// for the data of a stream object with that dictionary.
func (r *Reader) DecodeSection(offset, length int64, dict core.Dict) ([]byte, error) {
	data, err := r.ReadSection(offset, length)
	if err != nil {
		return nil, err
	}
	decoded, err := (&core.Stream{Dict: dict, Data: data}).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode section at %d: %w", offset, err)
	}
	return decoded, nil
}

// ContentParser returns a parser over a section holding an unfiltered
// content stream. The section is read on demand.
func (r *Reader) ContentParser(offset, length int64, opts ...contentstream.Option) (*contentstream.Parser, error) {
	w, err := r.Section(offset, length)
	if err != nil {
		return nil, err
	}
	return contentstream.NewParser(source.NewReader(w), opts...), nil
}

// DecodedContentParser is ContentParser for a content stream stored with
// the filters named by dict.
func (r *Reader) DecodedContentParser(offset, length int64, dict core.Dict, opts ...contentstream.Option) (*contentstream.Parser, error) {
	data, err := r.DecodeSection(offset, length, dict)
	if err != nil {
		return nil, err
	}
	return contentstream.NewParser(bytes.NewReader(data), opts...), nil
}
