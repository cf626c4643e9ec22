package source

import (
	"fmt"
	"io"
	"os"
)

// Options controls how Open turns a file into a Source.
type Options struct {
	// MemoryMapping maps the file in pages instead of reading it with
	// positional reads. When mapping fails the file is read unmapped.
	MemoryMapping bool

	// PageSize is the size of each mapped page.
	PageSize int64

	// MaxOpenPages bounds how many pages are mapped at once.
	MaxOpenPages int

	// ReadAll loads the whole file into memory and closes it.
	ReadAll bool
}

// Option is a functional option for Open.
type Option func(*Options)

// DefaultOptions returns the options Open uses when none are given.
func DefaultOptions() Options {
	return Options{
		MemoryMapping: true,
		PageSize:      DefaultPageSize,
		MaxOpenPages:  DefaultMaxOpenPages,
	}
}

// WithMemoryMapping enables or disables memory mapping (default: enabled).
func WithMemoryMapping(enabled bool) Option {
	return func(o *Options) {
		o.MemoryMapping = enabled
	}
}

// WithPageSize sets the size of each mapped page (default: 4 MiB).
func WithPageSize(size int64) Option {
	return func(o *Options) {
		o.PageSize = size
	}
}

// WithMaxOpenPages sets how many pages may be mapped at once (default: 16).
func WithMaxOpenPages(n int) Option {
	return func(o *Options) {
		o.MaxOpenPages = n
	}
}

// WithReadAll loads the whole file into memory instead of reading it on
// demand.
func WithReadAll(enabled bool) Option {
	return func(o *Options) {
		o.ReadAll = enabled
	}
}

// Open opens the named file as a Source. By default the file is memory
// mapped in pages; if the platform refuses the mapping, Open falls back to
// positional reads. Closing the returned Source closes the file.
func Open(path string, opts ...Option) (Source, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	src, err := fromFile(f, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func fromFile(f *os.File, o Options) (Source, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	if info.Size() == 0 {
		f.Close()
		return NewBytes(nil), nil
	}

	if o.ReadAll {
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		f.Close()
		return NewBytes(data), nil
	}

	if o.MemoryMapping {
		p, err := NewPaged(f, o.PageSize, o.MaxOpenPages)
		if err == nil {
			return p, nil
		}
		if !IsMapFailure(err) {
			return nil, err
		}
	}

	return NewFile(f)
}
