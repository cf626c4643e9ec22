package contentstream

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every *SyntaxError.
var ErrSyntax = errors.New("content stream syntax error")

// SyntaxError reports malformed content: an unexpected end of data inside an
// array or dictionary, a dictionary key that is not a name, or a closing
// bracket with nothing to close. Err holds the tokenizer error, if any.
type SyntaxError struct {
	Pos int64
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("syntax error at position %d: %s: %v", e.Pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// Inline image failures. An *InlineImageError wraps one of them.
var (
	ErrInlineImage          = errors.New("inline image error")
	ErrUnexpectedColorSpace = errors.New("unexpected color space")
	ErrUnsupportedFilter    = errors.New("filter not supported for inline images")
	ErrUnexpectedEndOfImage = errors.New("end of content stream reached before end of image data")
	ErrEINotFound           = errors.New("operator EI not found after end of image data")
	ErrImageDataNotFound    = errors.New("cannot find image data or EI")
	ErrMissingID            = errors.New("inline image dictionary not terminated by ID")
)

// InlineImageError reports an inline image that could not be read. It is
// kept apart from SyntaxError so that callers can skip the image and carry
// on with the rest of the stream.
type InlineImageError struct {
	Pos int64 // offset of the BI operator
	Err error
}

func (e *InlineImageError) Error() string {
	return fmt.Sprintf("inline image at position %d: %v", e.Pos, e.Err)
}

func (e *InlineImageError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInlineImage.
func (e *InlineImageError) Is(target error) bool { return target == ErrInlineImage }

// Warning is a problem the parser worked around, usually a known bug of
// the program that wrote the stream.
type Warning struct {
	Pos     int64
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("position %d: %s", w.Pos, w.Message)
}
