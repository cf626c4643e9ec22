// Package core provides the PDF object types and the tokenizer used to read
// content streams.
//
// # Object Types
//
// Every value satisfies the [Object] interface:
//
//   - [Null], [Bool] - the null, true and false keywords
//   - [Int], [Real] - numbers with a known type
//   - [Number] - a numeric operand kept as written and converted on use
//   - [String], [HexString] - literal and hexadecimal strings (decoded bytes)
//   - [Name] - names such as /Type, with #xx escapes resolved
//   - [Literal] - bare keywords, usually content stream operators
//   - [Array], [Dict] - containers
//   - [Stream] - a dictionary with its (possibly encoded) data
//   - [IndirectRef] - a reference to an object elsewhere in the file
//
// [Dict] accessors such as [Dict.GetInt] accept any numeric object, so
// callers need not care whether a value was parsed eagerly.
//
// # Tokenizing
//
// The [Lexer] splits content stream bytes into [Token] values: numbers,
// strings, names, array and dictionary brackets, operators, comments and
// other keywords. It also exposes raw byte access ([Lexer.ReadByte],
// [Lexer.Peek]) for the binary data of inline images.
//
//	lex := core.NewLexer(bytes.NewReader(content))
//	for {
//	    tok, err := lex.NextToken()
//	    if err != nil || tok.Type == core.TokenEOF {
//	        break
//	    }
//	    fmt.Println(tok.Type, string(tok.Value))
//	}
//
// # Stream Decoding
//
// [Stream.Decode] applies the filter chain named in the stream dictionary.
// [Stream.DecodeWith] does the same with a caller-chosen filter set.
//
// # Text
//
// [DecodeText] turns string bytes into Go text, honouring UTF-16BE and
// UTF-8 byte order marks and falling back to PDFDocEncoding.
package core
