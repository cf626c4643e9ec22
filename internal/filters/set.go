package filters

import (
	"errors"
	"fmt"
)

// ErrUnsupported is returned for a filter a Set cannot decode.
var ErrUnsupported = errors.New("unsupported filter")

// DecodeFunc decodes data with one filter.
type DecodeFunc func(data []byte, params Params) ([]byte, error)

// Set maps filter names, full or abbreviated, to decoders.
type Set map[string]DecodeFunc

func passThrough(data []byte, _ Params) ([]byte, error) { return data, nil }

func unsupported(name string) DecodeFunc {
	return func([]byte, Params) ([]byte, error) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
}

func withoutParams(fn func([]byte) ([]byte, error)) DecodeFunc {
	return func(data []byte, _ Params) ([]byte, error) { return fn(data) }
}

// Default returns the decoders used for stream data. Image codecs whose
// output is the encoded image itself (DCTDecode, JPXDecode) pass the data
// through unchanged.
func Default() Set {
	s := Set{
		"FlateDecode":     FlateDecode,
		"LZWDecode":       LZWDecode,
		"ASCIIHexDecode":  withoutParams(ASCIIHexDecode),
		"ASCII85Decode":   withoutParams(ASCII85Decode),
		"RunLengthDecode": withoutParams(RunLengthDecode),
		"CCITTFaxDecode":  CCITTFaxDecode,
		"DCTDecode":       passThrough,
		"JPXDecode":       passThrough,
		"JBIG2Decode":     unsupported("JBIG2Decode"),
		"Crypt":           unsupported("Crypt"),
	}
	for abbr, name := range Abbreviations {
		s[abbr] = s[name]
	}
	return s
}

// Strict returns the decoders used to check whether bytes found while
// scanning an inline image are the complete encoded data. FlateDecode and
// ASCII85Decode must see a proper end of data, and JBIG2Decode and JPXDecode
// are rejected.
func Strict() Set {
	return Default().
		With("FlateDecode", FlateDecodeStrict).
		With("Fl", FlateDecodeStrict).
		With("ASCII85Decode", withoutParams(ASCII85DecodeStrict)).
		With("A85", withoutParams(ASCII85DecodeStrict)).
		With("JPXDecode", unsupported("JPXDecode"))
}

// Abbreviations maps the short filter names allowed in inline images to
// their full names.
var Abbreviations = map[string]string{
	"AHx": "ASCIIHexDecode",
	"A85": "ASCII85Decode",
	"LZW": "LZWDecode",
	"Fl":  "FlateDecode",
	"RL":  "RunLengthDecode",
	"CCF": "CCITTFaxDecode",
	"DCT": "DCTDecode",
}

// With returns a copy of s with name mapped to fn.
func (s Set) With(name string, fn DecodeFunc) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[name] = fn
	return out
}

// Supports reports whether s can decode name.
func (s Set) Supports(name string) bool {
	_, ok := s[name]
	return ok
}

// Decode applies the named filter to data.
func (s Set) Decode(data []byte, name string, params Params) ([]byte, error) {
	fn, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown filter %s", ErrUnsupported, name)
	}
	return fn(data, params)
}
