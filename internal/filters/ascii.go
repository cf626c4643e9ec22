package filters

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrMissingEOD is returned by ASCII85DecodeStrict when the data does not
// end with the ~> marker.
var ErrMissingEOD = errors.New("missing end-of-data marker")

// ASCIIHexDecode decodes pairs of hexadecimal digits into bytes. Whitespace
// is skipped and '>' ends the data. A final unpaired digit is read as if
// followed by 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	var hi byte
	half := false

	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, err := hexDigitToByte(c)
		if err != nil {
			return nil, err
		}
		if half {
			out.WriteByte(hi<<4 | v)
		} else {
			hi = v
		}
		half = !half
	}
	if half {
		out.WriteByte(hi << 4)
	}

	return out.Bytes(), nil
}

// ASCII85Decode decodes base-85 data. Each group of five characters from
// '!' to 'u' encodes four bytes and 'z' stands for four zero bytes. Decoding
// stops at ~> or at the end of the data.
func ASCII85Decode(data []byte) ([]byte, error) {
	out, _, err := decodeASCII85(data, false)
	return out, err
}

// ASCII85DecodeStrict is ASCII85Decode but requires the ~> marker, so that
// data cut off early is rejected.
func ASCII85DecodeStrict(data []byte) ([]byte, error) {
	out, terminated, err := decodeASCII85(data, true)
	if err != nil {
		return nil, err
	}
	if !terminated {
		return nil, ErrMissingEOD
	}
	return out, nil
}

// decodeASCII85 reports whether the ~> marker was seen. A lone character
// in the final group is dropped unless strict is set.
func decodeASCII85(data []byte, strict bool) ([]byte, bool, error) {
	var out bytes.Buffer
	var group [5]byte
	n := 0
	terminated := false

	for i := 0; i < len(data); i++ {
		c := data[i]
		if isWhitespace(c) {
			continue
		}
		if c == '~' {
			if i+1 < len(data) && data[i+1] == '>' {
				terminated = true
				break
			}
			return nil, false, fmt.Errorf("invalid ASCII85 character: %c", c)
		}
		if c == 'z' && n == 0 {
			out.Write([]byte{0, 0, 0, 0})
			continue
		}
		if c < '!' || c > 'u' {
			return nil, false, fmt.Errorf("invalid ASCII85 character: %c", c)
		}

		group[n] = c - '!'
		n++
		if n == 5 {
			if err := writeASCII85Group(&out, group, 4); err != nil {
				return nil, false, err
			}
			n = 0
		}
	}

	if n == 1 && strict {
		return nil, false, errors.New("ASCII85 data ends with a single character group")
	}
	if n > 1 {
		// Pad with the highest digit so the partial group rounds correctly.
		for j := n; j < 5; j++ {
			group[j] = 84
		}
		if err := writeASCII85Group(&out, group, n-1); err != nil {
			return nil, false, err
		}
	}

	return out.Bytes(), terminated, nil
}

func writeASCII85Group(out *bytes.Buffer, group [5]byte, size int) error {
	var v uint64
	for _, d := range group {
		v = v*85 + uint64(d)
	}
	if v > 0xFFFFFFFF {
		return errors.New("ASCII85 group overflows 32 bits")
	}
	for j := 0; j < size; j++ {
		out.WriteByte(byte(v >> (24 - 8*j)))
	}
	return nil
}

// hexDigitToByte converts a hexadecimal character to its numeric value (0-15).
func hexDigitToByte(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit: %c", c)
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
