// Package pdfstream provides a fluent API for reading the content streams of
// PDF files without loading the files into memory.
//
// Basic usage:
//
//	ops, warnings, err := pdfstream.Open("document.pdf").
//	    Section(offset, length).
//	    Operations()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdfstream.FormatWarnings(warnings))
//	}
//
// The offset and length of a content stream come from an object graph
// parsed elsewhere. Filtered streams and page resources are configured on
// the chain:
//
//	images, _, err := pdfstream.Open("scan.pdf").
//	    Section(offset, length).
//	    Filters("FlateDecode").
//	    Resources(pageResources).
//	    InlineImages()
//
// For advanced use cases, the lower-level reader, contentstream and source
// packages are also available.
package pdfstream

import (
	"github.com/tsawler/pdfstream/reader"
)

// Open returns an Extractor for the named file. The file is opened lazily
// and closed by terminal operations such as Operations, or by Close.
//
// Example:
//
//	ops, warnings, err := pdfstream.Open("document.pdf").Section(1024, 300).Operations()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromReader creates an Extractor from an already-opened reader.Reader.
// The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	ops, warnings, err := pdfstream.FromReader(r).Section(off, n).Operations()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	version := pdfstream.Must(pdfstream.Open("document.pdf").Version())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult is Must for the terminal operations that also return
// warnings. The warnings are discarded.
//
// Example:
//
//	ops := pdfstream.MustResult(pdfstream.Open("document.pdf").Section(off, n).Operations())
func MustResult[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
