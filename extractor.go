package pdfstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/reader"
	"github.com/tsawler/pdfstream/resolver"
	"github.com/tsawler/pdfstream/source"
)

// ErrNoSection is returned by operations that need a section when none
// was selected.
var ErrNoSection = errors.New("no section selected")

// Extractor provides a fluent interface for reading a PDF file. Each
// configuration method returns a new Extractor instance, so partially
// configured chains can be reused.
type Extractor struct {
	filename string

	reader *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
// A reader already open is shared but stays owned by e.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		reader:       e.reader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
	}
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	if e.filename == "" {
		return fmt.Errorf("no filename specified")
	}

	r, err := reader.Open(e.filename, e.options.sourceOptions...)
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Section selects length bytes of the file starting at offset. A negative
// length selects up to the end of the file.
//
// Example:
//
//	ops, _, err := pdfstream.Open("doc.pdf").Section(1024, 300).Operations()
func (e *Extractor) Section(offset, length int64) *Extractor {
	newExt := e.clone()
	if offset < 0 && newExt.err == nil {
		newExt.err = fmt.Errorf("invalid section offset %d", offset)
	}
	newExt.options.offset = offset
	newExt.options.length = length
	newExt.options.hasSection = true
	return newExt
}

// Filters names the filters the section is encoded with, in the order they
// are applied. Abbreviated names are accepted.
//
// Example:
//
//	ops, _, err := pdfstream.Open("doc.pdf").Section(off, n).Filters("FlateDecode").Operations()
func (e *Extractor) Filters(names ...string) *Extractor {
	newExt := e.clone()
	if newExt.options.streamDict == nil {
		newExt.options.streamDict = core.Dict{}
	}
	arr := make(core.Array, len(names))
	for i, name := range names {
		arr[i] = core.Name(name)
	}
	newExt.options.streamDict["Filter"] = arr
	return newExt
}

// DecodeParms sets the decode parameters of the section's filters: a
// dictionary, or an array with one entry per filter.
func (e *Extractor) DecodeParms(params core.Object) *Extractor {
	newExt := e.clone()
	if newExt.options.streamDict == nil {
		newExt.options.streamDict = core.Dict{}
	}
	newExt.options.streamDict["DecodeParms"] = params
	return newExt
}

// Resources sets the /Resources dictionary of the page or form the section
// belongs to. It is used to find named color spaces of inline images.
func (e *Extractor) Resources(dict core.Dict) *Extractor {
	newExt := e.clone()
	newExt.options.resources = cloneDict(dict)
	return newExt
}

// Objects supplies the indirect objects referenced from the resources.
// Multiple calls are cumulative.
func (e *Extractor) Objects(table resolver.Table) *Extractor {
	newExt := e.clone()
	if newExt.options.objects == nil {
		newExt.options.objects = resolver.Table{}
	}
	for k, v := range table {
		newExt.options.objects[k] = v
	}
	return newExt
}

// WithoutMapping reads the file with positional reads instead of memory
// mapping it.
func (e *Extractor) WithoutMapping() *Extractor {
	newExt := e.clone()
	newExt.options.sourceOptions = append(newExt.options.sourceOptions, source.WithMemoryMapping(false))
	return newExt
}

// InMemory loads the whole file into memory when it is opened.
func (e *Extractor) InMemory() *Extractor {
	newExt := e.clone()
	newExt.options.sourceOptions = append(newExt.options.sourceOptions, source.WithReadAll(true))
	return newExt
}

// MappedPages sets the size of each mapped page and how many may be mapped
// at once.
func (e *Extractor) MappedPages(pageSize int64, maxOpen int) *Extractor {
	newExt := e.clone()
	newExt.options.sourceOptions = append(newExt.options.sourceOptions,
		source.WithPageSize(pageSize), source.WithMaxOpenPages(maxOpen))
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Version returns the PDF version from the file header.
// Note: This does NOT close the reader, allowing further operations.
func (e *Extractor) Version() (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if err := e.ensureReader(); err != nil {
		return "", err
	}
	return e.reader.Version().String(), nil
}

// Bytes returns the section with its filters applied.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	return e.sectionBytes()
}

func (e *Extractor) sectionBytes() ([]byte, error) {
	if !e.options.hasSection {
		return nil, ErrNoSection
	}
	o := e.options
	if len(o.streamDict) == 0 {
		return e.reader.ReadSection(o.offset, o.length)
	}
	return e.reader.DecodeSection(o.offset, o.length, o.streamDict)
}

// parser returns a content parser on the section, reading it on demand
// when it is not filtered.
func (e *Extractor) parser() (*contentstream.Parser, error) {
	if !e.options.hasSection {
		return nil, ErrNoSection
	}
	o := e.options

	var opts []contentstream.Option
	if res, r := e.lookup(); res != nil {
		if r != nil {
			opts = append(opts, contentstream.WithResolver(r))
		}
		opts = append(opts, contentstream.WithResources(res))
	}

	if len(o.streamDict) == 0 {
		return e.reader.ContentParser(o.offset, o.length, opts...)
	}
	return e.reader.DecodedContentParser(o.offset, o.length, o.streamDict, opts...)
}

// lookup returns the configured resources and resolver, either of which
// may be nil.
func (e *Extractor) lookup() (*resolver.Resources, *resolver.ObjectResolver) {
	var r *resolver.ObjectResolver
	if e.options.objects != nil {
		r = resolver.NewResolver(e.options.objects)
	}
	if e.options.resources == nil {
		return nil, r
	}
	return resolver.NewResources(e.options.resources, r), r
}

// withColorSpace replaces a named color space of an inline image by its
// definition from the resources.
func (e *Extractor) withColorSpace(img *contentstream.InlineImage) *contentstream.InlineImage {
	name, ok := img.Dict.GetName("ColorSpace")
	if !ok {
		return img
	}
	res, r := e.lookup()
	if res == nil {
		return img
	}
	def := res.Resource("ColorSpace").Get(string(name))
	if def == nil {
		return img
	}
	if r != nil {
		deep, err := r.ResolveDeep(def)
		if err != nil {
			return img
		}
		def = deep
	}
	dict := cloneDict(img.Dict)
	dict["ColorSpace"] = def
	return &contentstream.InlineImage{Dict: dict, Data: img.Data}
}

// Operations parses the section as a content stream.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	ops, warnings, err := pdfstream.Open("doc.pdf").Section(off, n).Operations()
//	for _, op := range ops {
//	    fmt.Println(op.Operator, op.Operands)
//	}
func (e *Extractor) Operations() ([]contentstream.Operation, []Warning, error) {
	var ops []contentstream.Operation
	warnings, err := e.each(func(op contentstream.Operation) error {
		ops = append(ops, op)
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}
	return ops, warnings, nil
}

// Each calls fn for every operation of the section without collecting
// them. Returning an error from fn stops parsing and returns that error.
// This is a terminal operation that closes the underlying reader.
func (e *Extractor) Each(fn func(op contentstream.Operation) error) ([]Warning, error) {
	return e.each(fn)
}

func (e *Extractor) each(fn func(op contentstream.Operation) error) ([]Warning, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	p, err := e.parser()
	if err != nil {
		return nil, err
	}

	for {
		op, err := p.Next()
		if err == io.EOF {
			return fromParser(p.Warnings()), nil
		}
		if err != nil {
			return fromParser(p.Warnings()), err
		}
		if err := fn(op); err != nil {
			return fromParser(p.Warnings()), err
		}
	}
}

// InlineImages parses the section and decodes every inline image in it.
// Images whose samples cannot be decoded are skipped with a warning.
// This is a terminal operation that closes the underlying reader.
//
// Example:
//
//	images, _, err := pdfstream.Open("doc.pdf").Section(off, n).InlineImages()
//	for _, img := range images {
//	    png, err := img.ToPNG()
//	    ...
//	}
func (e *Extractor) InlineImages() ([]*reader.Image, []Warning, error) {
	var images []*reader.Image
	var skipped []Warning
	warnings, err := e.each(func(op contentstream.Operation) error {
		inline, ok := op.InlineImage()
		if !ok {
			return nil
		}
		img, err := reader.DecodeInlineImage(e.withColorSpace(inline))
		if err != nil {
			skipped = append(skipped, Warning{
				Message: fmt.Sprintf("skipped inline image %d: %v", len(images)+len(skipped), err),
				Pos:     -1,
			})
			return nil
		}
		images = append(images, img)
		return nil
	})
	warnings = append(warnings, skipped...)
	if err != nil {
		return nil, warnings, err
	}
	return images, warnings, nil
}
