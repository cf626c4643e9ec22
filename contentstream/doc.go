// Package contentstream parses PDF content streams into operations.
//
// A content stream is a sequence of operands followed by an operator:
//
//	ops, warnings, err := contentstream.ParseAll(data)
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// For large streams, read one operation at a time:
//
//	p := contentstream.NewParser(r, contentstream.WithResources(res))
//	for {
//	    op, err := p.Next()
//	    if err == io.EOF {
//	        break
//	    }
//	    ...
//	}
//
// # Operands
//
// Numbers are returned as core.Number and keep their source text until
// converted. Strings are core.String or core.HexString, names core.Name,
// and true, false and null become core.Bool and core.Null. Any other bare
// word inside an array or dictionary is kept as a core.Literal.
//
// # Inline Images
//
// BI ... ID ... EI is returned as a single EI operation whose operand is
// an *InlineImage. Abbreviated keys, filter names and color space names
// are expanded. For unfiltered images the data length is computed from
// Width, Height, BitsPerComponent and the color space, which may need
// WithResources. Filtered data is scanned for an EI operator that is
// followed by whitespace and after which the stream continues with
// something that looks like operators; the data before it must decode
// with filters.Strict().
//
// # Errors
//
// Malformed syntax produces a *SyntaxError (errors.Is ErrSyntax). An
// unreadable inline image produces an *InlineImageError (errors.Is
// ErrInlineImage) wrapping the specific cause. Problems that were worked
// around are collected as warnings.
package contentstream
