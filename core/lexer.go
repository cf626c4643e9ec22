package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// TokenType represents the type of token
type TokenType int

const (
	TokenEOF        TokenType = iota
	TokenComment              // % to end of line
	TokenNumber               // 12, -3.5, .5
	TokenString               // (hello) or <68656C6C6F>
	TokenName                 // /Type
	TokenArrayStart           // [
	TokenArrayEnd             // ]
	TokenDictStart            // <<
	TokenDictEnd              // >>
	TokenOperator             // Tf, re, ', ", BI, ID, EI
	TokenOther                // true, false, null, stray delimiters
)

var tokenTypeNames = [...]string{
	TokenEOF:        "EOF",
	TokenComment:    "Comment",
	TokenNumber:     "Number",
	TokenString:     "String",
	TokenName:       "Name",
	TokenArrayStart: "ArrayStart",
	TokenArrayEnd:   "ArrayEnd",
	TokenDictStart:  "DictStart",
	TokenDictEnd:    "DictEnd",
	TokenOperator:   "Operator",
	TokenOther:      "Other",
}

func (t TokenType) String() string {
	if int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token represents a lexical token. For strings and names Value holds the
// decoded bytes, with escapes resolved; Hex records that a string was
// written in hexadecimal.
type Token struct {
	Type  TokenType
	Value []byte
	Hex   bool
	Pos   int64 // offset of the first byte of the token
}

// Lexer splits content stream bytes into tokens. Besides NextToken it gives
// raw byte access, which inline image data needs.
type Lexer struct {
	reader *bufio.Reader
	pos    int64
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// Pos returns the offset of the next unread byte.
func (l *Lexer) Pos() int64 { return l.pos }

// NextToken returns the next token. At the end of the input it returns a
// TokenEOF token and a nil error.
func (l *Lexer) NextToken() (*Token, error) {
	if err := l.skipWhitespace(); err != nil && err != io.EOF {
		return nil, err
	}

	b, err := l.peek()
	if err == io.EOF {
		return &Token{Type: TokenEOF, Pos: l.pos}, nil
	}
	if err != nil {
		return nil, err
	}

	start := l.pos
	switch b {
	case '%':
		return l.readComment()
	case '[':
		l.readByte()
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.readByte()
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '(':
		return l.readString()
	case '<':
		if next, _ := l.reader.Peek(2); len(next) == 2 && next[1] == '<' {
			l.skip(2)
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if next, _ := l.reader.Peek(2); len(next) == 2 && next[1] == '>' {
			l.skip(2)
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		l.readByte()
		return &Token{Type: TokenOther, Value: []byte{'>'}, Pos: start}, nil
	case ')', '{', '}':
		l.readByte()
		return &Token{Type: TokenOther, Value: []byte{b}, Pos: start}, nil
	case '/':
		return l.readName()
	}

	return l.readRegular()
}

// ReadByte reads one raw byte.
func (l *Lexer) ReadByte() (byte, error) {
	return l.readByte()
}

// Peek returns up to n upcoming bytes without consuming them. It returns
// io.EOF with fewer than n bytes at the end of the input.
func (l *Lexer) Peek(n int) ([]byte, error) {
	b, err := l.reader.Peek(n)
	if err == bufio.ErrBufferFull {
		err = nil
	}
	return b, err
}

// ReadBytes reads exactly n raw bytes. A short read returns the bytes read
// and io.ErrUnexpectedEOF.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	read, err := io.ReadFull(l.reader, data)
	l.pos += int64(read)
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return data[:read], err
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

func (l *Lexer) peek() (byte, error) {
	b, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (l *Lexer) skip(n int) {
	d, _ := l.reader.Discard(n)
	l.pos += int64(d)
}

func (l *Lexer) skipWhitespace() error {
	for {
		b, err := l.peek()
		if err != nil {
			return err
		}
		if !IsWhitespace(b) {
			return nil
		}
		l.readByte()
	}
}

// readComment reads a comment up to, not including, the end of line. Value
// excludes the leading %.
func (l *Lexer) readComment() (*Token, error) {
	start := l.pos
	l.readByte()

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if b == '\r' || b == '\n' {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}
	return &Token{Type: TokenComment, Value: buf.Bytes(), Pos: start}, nil
}

// readString reads a literal string with balanced parentheses and escape
// sequences.
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.readByte()

	var buf bytes.Buffer
	depth := 1
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil, fmt.Errorf("unterminated string at position %d: %w", start, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, err
		}

		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
		case '\\':
			if err := l.readEscape(&buf); err != nil {
				return nil, err
			}
			continue
		case '\r':
			// An end of line in a string is always read as \n.
			if next, err := l.peek(); err == nil && next == '\n' {
				l.readByte()
			}
			b = '\n'
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) error {
	next, err := l.readByte()
	if err == io.EOF {
		return fmt.Errorf("unterminated string escape: %w", io.ErrUnexpectedEOF)
	}
	if err != nil {
		return err
	}

	switch next {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		// Line continuation
		if peek, err := l.peek(); err == nil && peek == '\n' {
			l.readByte()
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		val := int(next - '0')
		for i := 0; i < 2; i++ {
			peek, err := l.peek()
			if err != nil || !isOctalDigit(peek) {
				break
			}
			l.readByte()
			val = val*8 + int(peek-'0')
		}
		buf.WriteByte(byte(val))
	default:
		// Unknown escapes, including \( \) and \\, stand for the character.
		buf.WriteByte(next)
	}
	return nil
}

// readHexString reads <...>. Whitespace is ignored and an odd final digit
// is read as if followed by 0.
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.readByte()

	var buf bytes.Buffer
	var hi byte
	half := false
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil, fmt.Errorf("unterminated hex string at position %d: %w", start, io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if IsWhitespace(b) {
			continue
		}
		if !isHexDigit(b) {
			return nil, fmt.Errorf("invalid hex digit '%c' at position %d", b, l.pos-1)
		}
		if half {
			buf.WriteByte(hi<<4 | hexValue(b))
		} else {
			hi = hexValue(b)
		}
		half = !half
	}
	if half {
		buf.WriteByte(hi << 4)
	}

	return &Token{Type: TokenString, Value: buf.Bytes(), Hex: true, Pos: start}, nil
}

// readName reads /Name, resolving #xx escapes. A # not followed by two hex
// digits is kept as is.
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.readByte()

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if IsWhitespace(b) || IsDelimiter(b) {
			break
		}
		l.readByte()

		if b == '#' {
			if hex, _ := l.reader.Peek(2); len(hex) == 2 && isHexDigit(hex[0]) && isHexDigit(hex[1]) {
				l.skip(2)
				buf.WriteByte(hexValue(hex[0])<<4 | hexValue(hex[1]))
				continue
			}
		}
		buf.WriteByte(b)
	}

	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// readRegular reads a run of regular characters and classifies it as a
// number, a keyword (true, false, null) or an operator.
func (l *Lexer) readRegular() (*Token, error) {
	start := l.pos

	var buf bytes.Buffer
	for {
		b, err := l.peek()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if IsWhitespace(b) || IsDelimiter(b) {
			break
		}
		l.readByte()
		buf.WriteByte(b)
	}

	value := buf.Bytes()
	typ := TokenOperator
	switch {
	case isNumeric(value):
		typ = TokenNumber
	case string(value) == "true", string(value) == "false", string(value) == "null":
		typ = TokenOther
	}
	return &Token{Type: typ, Value: value, Pos: start}, nil
}

// isNumeric reports whether v is made of sign, digit and decimal point
// characters with at least one digit.
func isNumeric(v []byte) bool {
	digits := 0
	for _, c := range v {
		switch {
		case isDigit(c):
			digits++
		case c == '+' || c == '-' || c == '.':
		default:
			return false
		}
	}
	return digits > 0
}

// IsNumberStart reports whether b can begin a number.
func IsNumberStart(b byte) bool {
	return isDigit(b) || b == '+' || b == '-' || b == '.'
}

// IsWhitespace reports whether b is a PDF whitespace character: NUL, tab,
// line feed, form feed, carriage return or space.
func IsWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

// IsDelimiter reports whether b is a PDF delimiter character.
func IsDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
