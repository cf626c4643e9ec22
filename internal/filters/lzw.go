package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hhrutter/lzw"
)

// LZWDecode decompresses LZW data as PDF writes it: MSB-first codes
// starting at 9 bits. EarlyChange (default 1) selects whether the code width
// grows one code early. Predictors are undone as for FlateDecode.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	early := getIntParam(params, "EarlyChange", 1)

	rc := lzw.NewReader(bytes.NewReader(data), early == 1)
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("lzw decompression failed: %w", err)
	}
	return undoPredictor(out, params)
}
