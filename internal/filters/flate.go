package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode decompresses zlib/deflate data and undoes any predictor named
// in params.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	out, err := zlibDecompress(data)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	return undoPredictor(out, params)
}

// FlateDecodeStrict is FlateDecode for validating candidate data: the
// compressed stream must end cleanly with a valid checksum, and only
// whitespace may follow it.
func FlateDecodeStrict(data []byte, params Params) ([]byte, error) {
	r := bytes.NewReader(data)
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	// bytes.Reader is an io.ByteReader, so the decompressor has not read
	// past the checksum.
	rest := data[len(data)-r.Len():]
	for _, b := range rest {
		if !isWhitespace(b) {
			return nil, fmt.Errorf("%d bytes of trailing data after zlib stream", len(rest))
		}
	}

	return undoPredictor(out, params)
}

// zlibDecompress inflates data.
func zlibDecompress(data []byte) ([]byte, error) {
	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create zlib reader: %w", err)
	}
	defer reader.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return buf.Bytes(), nil
}

func undoPredictor(data []byte, params Params) ([]byte, error) {
	p := predictorFrom(params)
	if p.kind <= 1 {
		return data, nil
	}
	out, err := p.undo(data)
	if err != nil {
		return nil, fmt.Errorf("predictor failed: %w", err)
	}
	return out, nil
}
