package core

import (
	"errors"
	"io"
	"strings"
	"testing"
)

// lexAll returns every token of input up to EOF.
func lexAll(t *testing.T, input string) []*Token {
	t.Helper()
	lexer := NewLexer(strings.NewReader(input))
	var tokens []*Token
	for {
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken failed: %v", err)
		}
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

// TestTokenTypeString tests token type names
func TestTokenTypeString(t *testing.T) {
	tests := []struct {
		typ  TokenType
		want string
	}{
		{TokenEOF, "EOF"},
		{TokenNumber, "Number"},
		{TokenDictEnd, "DictEnd"},
		{TokenOperator, "Operator"},
		{TokenOther, "Other"},
		{TokenType(99), "TokenType(99)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("TokenType(%d).String() = %q, want %q", int(tt.typ), got, tt.want)
		}
	}
}

// TestLexerEOF tests empty and whitespace-only input
func TestLexerEOF(t *testing.T) {
	for _, input := range []string{"", "   \r\n\t\f\x00"} {
		lexer := NewLexer(strings.NewReader(input))
		tok, err := lexer.NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q) failed: %v", input, err)
		}
		if tok.Type != TokenEOF {
			t.Errorf("NextToken(%q) = %v, want EOF", input, tok.Type)
		}
	}
}

// TestLexerOperatorStream tests a typical text object
func TestLexerOperatorStream(t *testing.T) {
	tokens := lexAll(t, "BT /F1 12 Tf 72 712 Td (Hello) Tj [(A) -120 (B)] TJ ET")

	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenOperator, "BT"},
		{TokenName, "F1"},
		{TokenNumber, "12"},
		{TokenOperator, "Tf"},
		{TokenNumber, "72"},
		{TokenNumber, "712"},
		{TokenOperator, "Td"},
		{TokenString, "Hello"},
		{TokenOperator, "Tj"},
		{TokenArrayStart, "["},
		{TokenString, "A"},
		{TokenNumber, "-120"},
		{TokenString, "B"},
		{TokenArrayEnd, "]"},
		{TokenOperator, "TJ"},
		{TokenOperator, "ET"},
	}

	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || string(tokens[i].Value) != w.value {
			t.Errorf("token %d = %v %q, want %v %q", i, tokens[i].Type, tokens[i].Value, w.typ, w.value)
		}
	}
}

// TestLexerQuoteOperators tests the ' and " text operators
func TestLexerQuoteOperators(t *testing.T) {
	tokens := lexAll(t, `(a) ' 1 2 (b) " d0 T*`)
	var ops []string
	for _, tok := range tokens {
		if tok.Type == TokenOperator {
			ops = append(ops, string(tok.Value))
		}
	}
	if got := strings.Join(ops, " "); got != `' " d0 T*` {
		t.Errorf("operators = %q", got)
	}
}

// TestLexerStrings tests literal string parsing
func TestLexerStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple string", "(hello)", "hello"},
		{"empty string", "()", ""},
		{"nested parentheses", "(hello (world))", "hello (world)"},
		{"escape sequences", "(\\n\\r\\t\\b\\f)", "\n\r\t\b\f"},
		{"escaped parens", "(\\(\\))", "()"},
		{"escaped backslash", "(\\\\)", "\\"},
		{"line continuation LF", "(hello\\\nworld)", "helloworld"},
		{"line continuation CRLF", "(hello\\\r\nworld)", "helloworld"},
		{"bare CRLF becomes LF", "(a\r\nb)", "a\nb"},
		{"octal escape", "(\\101\\102)", "AB"},
		{"short octal escape", "(\\7x)", "\x07x"},
		{"unknown escape", "(\\q)", "q"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer(strings.NewReader(tt.input)).NextToken()
			if err != nil {
				t.Fatalf("NextToken failed: %v", err)
			}
			if tok.Type != TokenString || tok.Hex {
				t.Errorf("expected literal TokenString, got %v (hex=%v)", tok.Type, tok.Hex)
			}
			if string(tok.Value) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(tok.Value))
			}
		})
	}
}

// TestLexerHexStrings tests hexadecimal string parsing
func TestLexerHexStrings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple hex", "<48656C6C6F>", "Hello"},
		{"empty hex", "<>", ""},
		{"lowercase hex", "<6869>", "hi"},
		{"with whitespace", "<48 65\n6C 6C 6F>", "Hello"},
		{"odd length", "<414>", "A@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := NewLexer(strings.NewReader(tt.input)).NextToken()
			if err != nil {
				t.Fatalf("NextToken failed: %v", err)
			}
			if tok.Type != TokenString || !tok.Hex {
				t.Errorf("expected hex TokenString, got %v (hex=%v)", tok.Type, tok.Hex)
			}
			if string(tok.Value) != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, string(tok.Value))
			}
		})
	}
}

// TestLexerNames tests name parsing and escapes
func TestLexerNames(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/Type", "Type"},
		{"/", ""},
		{"/A#20B", "A B"},
		{"/Lime#2FGreen", "Lime/Green"},
		{"/Bad#zz", "Bad#zz"},
		{"/Name(next)", "Name"},
	}

	for _, tt := range tests {
		tok, err := NewLexer(strings.NewReader(tt.input)).NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q) failed: %v", tt.input, err)
		}
		if tok.Type != TokenName {
			t.Errorf("NextToken(%q) type = %v, want Name", tt.input, tok.Type)
		}
		if string(tok.Value) != tt.expected {
			t.Errorf("NextToken(%q) = %q, want %q", tt.input, tok.Value, tt.expected)
		}
	}
}

// TestLexerRegularClassification tests numbers, keywords and operators
func TestLexerRegularClassification(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"42", TokenNumber},
		{"-3.5", TokenNumber},
		{".5", TokenNumber},
		{"+7", TokenNumber},
		{"--5", TokenNumber},
		{"1.2.3", TokenNumber},
		{"-", TokenOperator},
		{"true", TokenOther},
		{"false", TokenOther},
		{"null", TokenOther},
		{"re", TokenOperator},
		{"BI", TokenOperator},
		{"f*", TokenOperator},
	}

	for _, tt := range tests {
		tok, err := NewLexer(strings.NewReader(tt.input)).NextToken()
		if err != nil {
			t.Fatalf("NextToken(%q) failed: %v", tt.input, err)
		}
		if tok.Type != tt.want {
			t.Errorf("NextToken(%q) = %v, want %v", tt.input, tok.Type, tt.want)
		}
	}
}

// TestLexerDelimiters tests dictionary brackets and stray delimiters
func TestLexerDelimiters(t *testing.T) {
	tokens := lexAll(t, "<< /K 1 >> > ) { }")
	want := []TokenType{TokenDictStart, TokenName, TokenNumber, TokenDictEnd, TokenOther, TokenOther, TokenOther, TokenOther}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Errorf("token %d = %v, want %v", i, tokens[i].Type, w)
		}
	}
}

// TestLexerComments tests that comments stop at the end of line
func TestLexerComments(t *testing.T) {
	tokens := lexAll(t, "% a comment\r\nq % trailing\nQ")
	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenComment, " a comment"},
		{TokenOperator, "q"},
		{TokenComment, " trailing"},
		{TokenOperator, "Q"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, w := range want {
		if tokens[i].Type != w.typ || string(tokens[i].Value) != w.value {
			t.Errorf("token %d = %v %q, want %v %q", i, tokens[i].Type, tokens[i].Value, w.typ, w.value)
		}
	}
}

// TestLexerPositions tests token start offsets
func TestLexerPositions(t *testing.T) {
	tokens := lexAll(t, "q  1 0 0 1 10 20 cm\nQ")
	wantPos := []int64{0, 3, 5, 7, 9, 11, 14, 17, 20}
	if len(tokens) != len(wantPos) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(wantPos))
	}
	for i, pos := range wantPos {
		if tokens[i].Pos != pos {
			t.Errorf("token %d (%q) at %d, want %d", i, tokens[i].Value, tokens[i].Pos, pos)
		}
	}
}

// TestLexerUnterminated tests errors for strings cut off by EOF
func TestLexerUnterminated(t *testing.T) {
	for _, input := range []string{"(abc", "<4142", "(abc\\"} {
		_, err := NewLexer(strings.NewReader(input)).NextToken()
		if !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("NextToken(%q) error = %v, want io.ErrUnexpectedEOF", input, err)
		}
	}

	if _, err := NewLexer(strings.NewReader("<41G2>")).NextToken(); err == nil {
		t.Error("expected error for invalid hex digit")
	}
}

// TestLexerRawAccess tests byte access between tokens
func TestLexerRawAccess(t *testing.T) {
	lexer := NewLexer(strings.NewReader("ID \x00\xFFEI rest"))

	tok, err := lexer.NextToken()
	if err != nil || string(tok.Value) != "ID" {
		t.Fatalf("NextToken = %v, %v", tok, err)
	}

	b, err := lexer.ReadByte()
	if err != nil || b != ' ' {
		t.Fatalf("ReadByte = %q, %v", b, err)
	}

	peek, err := lexer.Peek(2)
	if err != nil || string(peek) != "\x00\xFF" {
		t.Fatalf("Peek = %q, %v", peek, err)
	}

	data, err := lexer.ReadBytes(2)
	if err != nil || string(data) != "\x00\xFF" {
		t.Fatalf("ReadBytes = %q, %v", data, err)
	}
	if lexer.Pos() != 5 {
		t.Errorf("Pos = %d, want 5", lexer.Pos())
	}

	tok, err = lexer.NextToken()
	if err != nil || tok.Type != TokenOperator || string(tok.Value) != "EI" {
		t.Errorf("token after raw read = %v, %v", tok, err)
	}

	rest, err := lexer.Peek(10)
	if !errors.Is(err, io.EOF) || string(rest) != " rest" {
		t.Errorf("Peek at end = %q, %v", rest, err)
	}

	lexer.ReadBytes(5)
	if _, err := lexer.ReadBytes(1); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadBytes past end error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkLexerContentStream(b *testing.B) {
	input := "BT /F1 12 Tf 72 712 Td (Hello, World) Tj ET q 1 0 0 1 0 0 cm /Im1 Do Q "
	input = strings.Repeat(input, 50)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lexer := NewLexer(strings.NewReader(input))
		for {
			tok, err := lexer.NextToken()
			if err != nil || tok.Type == TokenEOF {
				break
			}
		}
	}
}
