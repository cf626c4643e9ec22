package filters

import (
	"bytes"
	"fmt"
)

// RunLengthDecode expands byte-oriented run-length data. A length byte L
// of 0-127 is followed by L+1 literal bytes, 129-255 by one byte repeated
// 257-L times, and 128 ends the data.
func RunLengthDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer

	for i := 0; i < len(data); {
		l := int(data[i])
		i++

		switch {
		case l == 128:
			return out.Bytes(), nil
		case l < 128:
			end := i + l + 1
			if end > len(data) {
				return nil, fmt.Errorf("run-length literal of %d bytes truncated at %d", l+1, len(data)-i)
			}
			out.Write(data[i:end])
			i = end
		default:
			if i >= len(data) {
				return nil, fmt.Errorf("run-length repeat missing its byte")
			}
			out.Write(bytes.Repeat(data[i:i+1], 257-l))
			i++
		}
	}

	return out.Bytes(), nil
}
