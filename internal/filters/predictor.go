package filters

import "fmt"

// predictor describes the prediction step applied before Flate or LZW
// compression.
type predictor struct {
	kind    int // 1 none, 2 TIFF, 10-15 PNG
	columns int
	colors  int
	bpc     int
}

func predictorFrom(params Params) predictor {
	return predictor{
		kind:    getIntParam(params, "Predictor", 1),
		columns: getIntParam(params, "Columns", 1),
		colors:  getIntParam(params, "Colors", 1),
		bpc:     getIntParam(params, "BitsPerComponent", 8),
	}
}

// undo reverses the prediction step on decompressed data.
func (p predictor) undo(data []byte) ([]byte, error) {
	switch {
	case p.kind <= 1:
		return data, nil
	case p.kind == 2:
		return p.undoTIFF(data)
	case p.kind >= 10 && p.kind <= 15:
		return p.undoPNG(data)
	default:
		return nil, fmt.Errorf("unsupported predictor: %d", p.kind)
	}
}

// undoTIFF reverses TIFF Predictor 2: each sample is stored as the
// difference from the sample one pixel to its left.
func (p predictor) undoTIFF(data []byte) ([]byte, error) {
	if p.bpc != 8 {
		return nil, fmt.Errorf("TIFF Predictor 2 only supports 8 bits per component, got %d", p.bpc)
	}

	rowSize := p.columns * p.colors
	if rowSize <= 0 || len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	out := make([]byte, len(data))
	for start := 0; start < len(data); start += rowSize {
		for col := 0; col < rowSize; col++ {
			i := start + col
			if col < p.colors {
				out[i] = data[i]
			} else {
				out[i] = data[i] + out[i-p.colors]
			}
		}
	}
	return out, nil
}

// undoPNG reverses PNG prediction. Every row carries its own filter type
// byte, so the Predictor value only says that PNG prediction is in use.
func (p predictor) undoPNG(data []byte) ([]byte, error) {
	if p.bpc != 8 {
		return nil, fmt.Errorf("PNG predictor only supports 8 bits per component, got %d", p.bpc)
	}

	stride := p.columns * p.colors
	rowSize := stride + 1
	if len(data)%rowSize != 0 {
		return nil, fmt.Errorf("data size %d is not a multiple of row size %d", len(data), rowSize)
	}

	rows := len(data) / rowSize
	out := make([]byte, rows*stride)
	var prev []byte

	for row := 0; row < rows; row++ {
		in := data[row*rowSize : (row+1)*rowSize]
		cur := out[row*stride : (row+1)*stride]
		if err := unfilterPNGRow(in[0], in[1:], cur, prev, p.colors); err != nil {
			return nil, fmt.Errorf("failed to decode row %d: %w", row, err)
		}
		prev = cur
	}
	return out, nil
}

// unfilterPNGRow decodes one row into cur. prev is the previous decoded row
// and is nil for the first row.
func unfilterPNGRow(filter byte, in, cur, prev []byte, bpp int) error {
	for i := range in {
		var left, up, upLeft byte
		if i >= bpp {
			left = cur[i-bpp]
		}
		if prev != nil {
			up = prev[i]
			if i >= bpp {
				upLeft = prev[i-bpp]
			}
		}

		var pred byte
		switch filter {
		case 0:
		case 1:
			pred = left
		case 2:
			pred = up
		case 3:
			pred = byte((int(left) + int(up)) / 2)
		case 4:
			pred = paethPredictor(left, up, upLeft)
		default:
			return fmt.Errorf("unknown PNG predictor: %d", filter)
		}
		cur[i] = in[i] + pred
	}
	return nil
}

// paethPredictor picks whichever of left (a), above (b) and upper-left (c)
// is closest to a + b - c.
func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))

	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}
