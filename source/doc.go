// Package source provides random-access byte sources for reading PDF files
// without loading them wholly into memory.
//
// Every source implements [Source]: a fixed length, single-byte and bulk
// positional reads, and an explicit Close. Reads past the end report io.EOF
// rather than failing.
//
// # Implementations
//
//   - [Bytes] - an in-memory byte slice
//   - [File] - positional reads on an *os.File
//   - [Mapped] - one lazily memory-mapped region of a file
//   - [Window] - a sub-range of another source
//   - [Group] - several sources concatenated into one address space
//   - [Paged] - a file split into mapped pages with a bound on open mappings
//
// # Opening Files
//
// Use [Open] to pick an implementation for a file:
//
//	src, err := source.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
// Open memory-maps the file in pages when the platform allows it and falls
// back to positional file reads when the mapping cannot be created.
//
// # Ownership
//
// A [Window] borrows its source and never closes it. When several windows
// must share a source whose lifetime ends with the last of them, wrap it in
// [Shared] and hand each borrower its own handle.
package source
