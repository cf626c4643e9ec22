package contentstream

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/internal/filters"
)

// Tokenizer supplies tokens and raw bytes. *core.Lexer implements it.
// NextToken returns a TokenEOF token at the end of the data. Peek returns
// fewer than n bytes, with io.EOF, near the end.
type Tokenizer interface {
	NextToken() (*core.Token, error)
	ReadByte() (byte, error)
	Peek(n int) ([]byte, error)
}

// Resources gives access to the named resources of the page or form being
// parsed. Resource returns the dictionary for a category such as
// "ColorSpace", or nil.
type Resources interface {
	Resource(category string) core.Dict
}

// ResourceDict adapts a /Resources dictionary to Resources.
type ResourceDict core.Dict

// Resource returns the category sub-dictionary.
func (r ResourceDict) Resource(category string) core.Dict {
	d, _ := core.Dict(r).GetDict(category)
	return d
}

// Resolver follows indirect references found in resources.
type Resolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Operation is one operator with its operands. An inline image is reported
// as operator EI with the *InlineImage as its only operand.
type Operation struct {
	Operator string
	Operands []core.Object
}

// InlineImage returns the image carried by an EI operation.
func (op Operation) InlineImage() (*InlineImage, bool) {
	if op.Operator != "EI" || len(op.Operands) != 1 {
		return nil, false
	}
	img, ok := op.Operands[0].(*InlineImage)
	return img, ok
}

// Option configures a Parser.
type Option func(*Parser)

// WithResources sets the resources used to resolve named color spaces of
// inline images.
func WithResources(r Resources) Option {
	return func(p *Parser) { p.resources = r }
}

// WithResolver sets the resolver for indirect references in resources.
func WithResolver(r Resolver) Option {
	return func(p *Parser) { p.resolver = r }
}

// WithValidationFilters sets the filters used to check candidate inline
// image data. The default is filters.Strict().
func WithValidationFilters(set filters.Set) Option {
	return func(p *Parser) { p.validation = set }
}

// Parser reads objects and operations from a content stream.
type Parser struct {
	tok        Tokenizer
	resources  Resources
	resolver   Resolver
	validation filters.Set
	warnings   []Warning
}

// NewParser creates a parser reading content from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	return NewParserFromTokenizer(core.NewLexer(r), opts...)
}

// NewParserFromTokenizer creates a parser on an existing tokenizer.
func NewParserFromTokenizer(tok Tokenizer, opts ...Option) *Parser {
	p := &Parser{tok: tok}
	for _, opt := range opts {
		opt(p)
	}
	if p.validation == nil {
		p.validation = filters.Strict()
	}
	return p
}

// Warnings returns the problems worked around so far.
func (p *Parser) Warnings() []Warning {
	return p.warnings
}

func (p *Parser) warn(pos int64, format string, args ...interface{}) {
	p.warnings = append(p.warnings, Warning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// pos returns the tokenizer position when it reports one.
func (p *Parser) pos() int64 {
	if pt, ok := p.tok.(interface{ Pos() int64 }); ok {
		return pt.Pos()
	}
	return -1
}

// next returns the next non-comment token, or nil at the end of the data.
func (p *Parser) next() (*core.Token, error) {
	for {
		tok, err := p.tok.NextToken()
		if err != nil {
			return nil, &SyntaxError{Pos: p.pos(), Msg: "tokenizer failed", Err: err}
		}
		switch tok.Type {
		case core.TokenEOF:
			return nil, nil
		case core.TokenComment:
			continue
		}
		return tok, nil
	}
}

// ReadObject reads one complete object. Arrays and dictionaries are read
// to their closing bracket. Operators are returned as core.Literal. At the
// end of the data it returns io.EOF.
func (p *Parser) ReadObject() (core.Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, io.EOF
	}
	return p.readValue(tok)
}

func (p *Parser) readValue(tok *core.Token) (core.Object, error) {
	switch tok.Type {
	case core.TokenDictStart:
		return p.readDict(tok.Pos)
	case core.TokenArrayStart:
		return p.readArray(tok.Pos)
	case core.TokenString:
		if tok.Hex {
			return core.HexString(tok.Value), nil
		}
		return core.String(tok.Value), nil
	case core.TokenName:
		return core.Name(tok.Value), nil
	case core.TokenNumber:
		return core.Number(tok.Value), nil
	case core.TokenArrayEnd:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected ]"}
	case core.TokenDictEnd:
		return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected >>"}
	}

	switch string(tok.Value) {
	case "true":
		return core.Bool(true), nil
	case "false":
		return core.Bool(false), nil
	case "null":
		return core.Null{}, nil
	}
	return core.Literal(tok.Value), nil
}

func (p *Parser) readArray(start int64) (core.Array, error) {
	arr := core.Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, &SyntaxError{Pos: start, Msg: "unexpected end of data in array", Err: io.ErrUnexpectedEOF}
		}
		switch tok.Type {
		case core.TokenArrayEnd:
			return arr, nil
		case core.TokenDictEnd:
			return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected >> in array"}
		}
		obj, err := p.readValue(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) readDict(start int64) (core.Dict, error) {
	dict := core.Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return nil, &SyntaxError{Pos: start, Msg: "unexpected end of data in dictionary", Err: io.ErrUnexpectedEOF}
		}
		if tok.Type == core.TokenDictEnd {
			return dict, nil
		}
		if tok.Type != core.TokenName {
			return nil, &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf("dictionary key is not a name: %q", tok.Value)}
		}
		key := string(tok.Value)

		vtok, err := p.next()
		if err != nil {
			return nil, err
		}
		if vtok == nil {
			return nil, &SyntaxError{Pos: start, Msg: "unexpected end of data in dictionary", Err: io.ErrUnexpectedEOF}
		}
		if vtok.Type == core.TokenDictEnd {
			p.warn(vtok.Pos, "missing value for key /%s", key)
			return dict, nil
		}
		val, err := p.readValue(vtok)
		if err != nil {
			return nil, err
		}
		dict[key] = val
	}
}

// parseOperation reads operands up to and including the next operator.
// found is false when the data ended first.
func (p *Parser) parseOperation() (operands []core.Object, operator string, found bool, err error) {
	for {
		tok, err := p.next()
		if err != nil {
			return nil, "", false, err
		}
		if tok == nil {
			return operands, "", false, nil
		}
		if tok.Type == core.TokenOperator {
			if string(tok.Value) == "BI" {
				img, err := p.readInlineImage(tok.Pos)
				if err != nil {
					return nil, "", false, err
				}
				return []core.Object{img}, "EI", true, nil
			}
			return operands, string(tok.Value), true, nil
		}
		obj, err := p.readValue(tok)
		if err != nil {
			return nil, "", false, err
		}
		operands = append(operands, obj)
	}
}

// Parse reads the operands of the next operation followed by its operator
// as a core.Literal. An inline image comes back as the image and the
// literal EI. At the end of the data it returns the remaining operands
// without an operator, or an empty slice.
func (p *Parser) Parse() ([]core.Object, error) {
	operands, operator, found, err := p.parseOperation()
	if err != nil {
		return nil, err
	}
	if found {
		operands = append(operands, core.Literal(operator))
	}
	if operands == nil {
		operands = []core.Object{}
	}
	return operands, nil
}

// Next returns the next operation, or io.EOF at the end of the data.
// Operands left over at the end are dropped with a warning.
func (p *Parser) Next() (Operation, error) {
	operands, operator, found, err := p.parseOperation()
	if err != nil {
		return Operation{}, err
	}
	if !found {
		if len(operands) > 0 {
			p.warn(p.pos(), "%d operands without an operator at end of stream", len(operands))
		}
		return Operation{}, io.EOF
	}
	return Operation{Operator: operator, Operands: operands}, nil
}

// ParseAll parses every operation in data.
func ParseAll(data []byte, opts ...Option) ([]Operation, []Warning, error) {
	p := NewParser(bytes.NewReader(data), opts...)
	var ops []Operation
	for {
		op, err := p.Next()
		if err == io.EOF {
			return ops, p.Warnings(), nil
		}
		if err != nil {
			return ops, p.Warnings(), err
		}
		ops = append(ops, op)
	}
}
