// Package reader opens PDF files for byte-level access.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any source.Source. The file is memory mapped in
// pages by default; pass source options to change that:
//
//	r, err := reader.Open("document.pdf", source.WithMemoryMapping(false))
//
// # Sections
//
// The object graph is not parsed here. Callers that know where a content
// stream lies (from an xref table parsed elsewhere, or a debugging session)
// address it by file offset:
//
//	p, err := r.ContentParser(offset, length)
//	for {
//	    op, err := p.Next()
//	    ...
//	}
//
// DecodedContentParser does the same for filtered streams.
//
// # Inline Images
//
// [DecodeInlineImage] decodes the samples of an inline image returned by
// the content stream parser; the result converts to image.Image or PNG.
package reader
