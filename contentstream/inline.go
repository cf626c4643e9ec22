package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdfstream/core"
)

// probeSize is how many bytes after a candidate EI are checked for
// binary data.
const probeSize = 10

// readChunk bounds single reads of fixed-size image data.
const readChunk = 64 << 10

// InlineImage is an image embedded in a content stream between BI and EI.
// Dict keys and Filter and ColorSpace names are in their full form. Data is
// the raw, still encoded, sample data.
type InlineImage struct {
	Dict core.Dict
	Data []byte
}

func (img *InlineImage) Type() core.ObjectType { return core.ObjInlineImage }
func (img *InlineImage) String() string {
	return fmt.Sprintf("inline image %s (%d bytes)", img.Dict.String(), len(img.Data))
}

// Stream returns the image as a stream object.
func (img *InlineImage) Stream() *core.Stream {
	return &core.Stream{Dict: img.Dict, Data: img.Data}
}

// Decode applies the image's filters.
func (img *InlineImage) Decode() ([]byte, error) {
	return img.Stream().Decode()
}

// Filters that may never be used on inline images, and so are never
// validated when scanning for EI.
var inlineForbidden = map[string]bool{
	"JBIG2Decode": true,
	"JPXDecode":   true,
	"Crypt":       true,
}

// readInlineImage reads an inline image after its BI operator.
func (p *Parser) readInlineImage(start int64) (*InlineImage, error) {
	dict, err := p.readInlineDict(start)
	if err != nil {
		return nil, err
	}

	first, hasFirst, err := p.readSeparator()
	if err != nil {
		return nil, &InlineImageError{Pos: start, Err: err}
	}

	n, fixed, err := p.fixedLength(dict)
	if err != nil {
		return nil, &InlineImageError{Pos: start, Err: err}
	}

	var data []byte
	if fixed {
		data, err = p.readFixed(n, first, hasFirst)
	} else {
		data, err = p.scanForEI(dict, first, hasFirst)
	}
	if err != nil {
		return nil, &InlineImageError{Pos: start, Err: err}
	}
	return &InlineImage{Dict: dict, Data: data}, nil
}

// readInlineDict reads key/value pairs up to the ID operator.
func (p *Parser) readInlineDict(start int64) (core.Dict, error) {
	dict := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, &InlineImageError{Pos: start, Err: ErrMissingID}
		}
		if isID(tok) {
			return dict, nil
		}
		if tok.Type != core.TokenName {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("inline image key is not a name: %q", tok.Value)}
		}
		key := ExpandKey(string(tok.Value))

		vtok, err := p.next()
		if err != nil {
			return nil, err
		}
		if vtok == nil {
			return nil, &InlineImageError{Pos: start, Err: ErrMissingID}
		}
		if isID(vtok) {
			p.warn(vtok.Pos, "missing value for inline image key /%s", key)
			return dict, nil
		}
		val, err := p.readValue(vtok)
		if err != nil {
			return nil, err
		}
		dict[key] = expandValue(key, val)
	}
}

func isID(tok *core.Token) bool {
	return tok.Type == core.TokenOperator && string(tok.Value) == "ID"
}

// readSeparator consumes the single whitespace byte after ID. Some writers
// omit it, in which case the byte read is the first byte of the data.
func (p *Parser) readSeparator() (byte, bool, error) {
	pos := p.pos()
	b, err := p.tok.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if core.IsWhitespace(b) {
		return 0, false, nil
	}
	p.warn(pos, "no whitespace after inline image ID")
	return b, true, nil
}

// fixedLength returns the size of unfiltered image data when it can be
// computed from the dictionary.
func (p *Parser) fixedLength(dict core.Dict) (int64, bool, error) {
	names, err := core.FilterNames(dict)
	if err != nil {
		return 0, false, err
	}
	if len(names) > 0 {
		return 0, false, nil
	}

	w, okW := dict.GetInt("Width")
	h, okH := dict.GetInt("Height")
	bpc, okB := dict.GetInt("BitsPerComponent")
	mask, _ := dict.GetBool("ImageMask")
	if !okB && bool(mask) {
		bpc, okB = 1, true
	}
	if !okW || !okH || !okB || w < 0 || h < 0 || bpc <= 0 {
		return 0, false, nil
	}

	comps := 1
	if !mask {
		comps, err = p.components(dict.Get("ColorSpace"), 0)
		if errors.Is(err, errUnresolved) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
	}

	rowBytes := (int64(w)*int64(bpc)*int64(comps) + 7) / 8
	return rowBytes * int64(h), true, nil
}

// readFixed reads exactly n bytes of data, then the EI operator.
func (p *Parser) readFixed(n int64, first byte, hasFirst bool) ([]byte, error) {
	data := make([]byte, 0, min(n, readChunk))
	strayUsed := false
	if hasFirst {
		if n > 0 {
			data = append(data, first)
		} else {
			strayUsed = true
		}
	}

	rb, hasReadBytes := p.tok.(interface{ ReadBytes(int) ([]byte, error) })
	for int64(len(data)) < n {
		want := min(n-int64(len(data)), readChunk)
		if hasReadBytes {
			chunk, err := rb.ReadBytes(int(want))
			data = append(data, chunk...)
			if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
				return nil, ErrUnexpectedEndOfImage
			}
			if err != nil {
				return nil, err
			}
			continue
		}
		b, err := p.tok.ReadByte()
		if err == io.EOF {
			return nil, ErrUnexpectedEndOfImage
		}
		if err != nil {
			return nil, err
		}
		data = append(data, b)
	}

	if err := p.expectEI(!strayUsed); err != nil {
		return nil, err
	}
	return data, nil
}

// expectEI consumes whitespace and the EI operator. With allowStray one
// unexpected byte before EI is skipped.
func (p *Parser) expectEI(allowStray bool) error {
	for {
		if err := p.skipWhitespace(); err != nil {
			return err
		}
		peek, err := p.tok.Peek(3)
		if err != nil && err != io.EOF {
			return err
		}
		if len(peek) >= 2 && peek[0] == 'E' && peek[1] == 'I' &&
			(len(peek) == 2 || core.IsWhitespace(peek[2]) || core.IsDelimiter(peek[2])) {
			p.tok.ReadByte()
			p.tok.ReadByte()
			return nil
		}
		if !allowStray || len(peek) == 0 {
			return ErrEINotFound
		}
		allowStray = false
		p.warn(p.pos(), "unexpected byte %q after inline image data", peek[0])
		if _, err := p.tok.ReadByte(); err != nil {
			return err
		}
	}
}

func (p *Parser) skipWhitespace() error {
	for {
		b, err := p.tok.Peek(1)
		if len(b) == 0 || !core.IsWhitespace(b[0]) {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if _, err := p.tok.ReadByte(); err != nil {
			return err
		}
	}
}

// scanForEI reads filtered data up to an EI operator. A candidate EI must
// be followed by whitespace or the end of the data, must not be followed
// by binary-looking bytes, and the data before it must decode.
func (p *Parser) scanForEI(dict core.Dict, first byte, hasFirst bool) ([]byte, error) {
	names, err := core.FilterNames(dict)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		if inlineForbidden[name] || !p.validation.Supports(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFilter, name)
		}
	}

	var buf bytes.Buffer
	if hasFirst {
		buf.WriteByte(first)
	}
	for {
		b, err := p.tok.ReadByte()
		if err == io.EOF {
			return nil, ErrImageDataNotFound
		}
		if err != nil {
			return nil, err
		}
		buf.WriteByte(b)

		data := buf.Bytes()
		if len(data) < 2 || data[len(data)-2] != 'E' || data[len(data)-1] != 'I' {
			continue
		}

		probe, err := p.tok.Peek(probeSize + 1)
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(probe) > 0 && (!core.IsWhitespace(probe[0]) || looksBinary(probe[1:])) {
			continue
		}

		candidate := data[:len(data)-2]
		if _, err := (&core.Stream{Dict: dict, Data: candidate}).DecodeWith(p.validation); err != nil {
			p.warn(p.pos()-2, "EI inside inline image data rejected: %v", err)
			continue
		}
		return bytes.Clone(candidate), nil
	}
}

// looksBinary reports whether the bytes after a candidate EI look like
// image data rather than content stream operators: a control character,
// or a run of more than three regular characters.
func looksBinary(b []byte) bool {
	run := 0
	for _, c := range b {
		if core.IsWhitespace(c) {
			run = 0
			continue
		}
		if c < 0x20 {
			return true
		}
		run++
		if run > 3 {
			return true
		}
	}
	return false
}
