package pdfstream

import (
	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/resolver"
	"github.com/tsawler/pdfstream/source"
)

// ExtractOptions holds configuration for reading a section.
type ExtractOptions struct {
	// Section of the file holding the stream data; length < 0 means to the
	// end of the file.
	offset     int64
	length     int64
	hasSection bool

	// Stream dictionary entries applied to the section (Filter,
	// DecodeParms).
	streamDict core.Dict

	// Page resources and the objects their references point to.
	resources core.Dict
	objects   resolver.Table

	sourceOptions []source.Option
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{length: -1}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	newOpts.streamDict = cloneDict(o.streamDict)
	newOpts.resources = cloneDict(o.resources)
	if o.objects != nil {
		newOpts.objects = make(resolver.Table, len(o.objects))
		for k, v := range o.objects {
			newOpts.objects[k] = v
		}
	}
	newOpts.sourceOptions = append([]source.Option(nil), o.sourceOptions...)
	return newOpts
}

func cloneDict(d core.Dict) core.Dict {
	if d == nil {
		return nil
	}
	out := make(core.Dict, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
