package reader

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
)

// Image is an inline image with its samples decoded.
type Image struct {
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK or Indexed
	BitsPerComponent int
	ImageMask        bool
	Data             []byte // Decoded samples, rows padded to whole bytes
	Filter           string // Last filter applied (for format detection)

	base    string // base color space of an Indexed image
	palette []byte
}

// DecodeInlineImage decodes the samples of img. Named color spaces must
// already be device spaces or Indexed arrays over one; look them up in the
// page resources first if needed.
func DecodeInlineImage(img *contentstream.InlineImage) (*Image, error) {
	dict := img.Dict

	width, okW := dict.GetInt("Width")
	height, okH := dict.GetInt("Height")
	if !okW || !okH {
		return nil, fmt.Errorf("image missing Width or Height")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", width, height)
	}

	out := &Image{
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       "DeviceGray",
		BitsPerComponent: 8,
	}

	if mask, _ := dict.GetBool("ImageMask"); mask {
		out.ImageMask = true
		out.BitsPerComponent = 1
	} else if bpc, ok := dict.GetInt("BitsPerComponent"); ok {
		out.BitsPerComponent = int(bpc)
	}

	if cs := dict.Get("ColorSpace"); cs != nil && !out.ImageMask {
		if err := out.setColorSpace(cs); err != nil {
			return nil, err
		}
	}

	names, err := core.FilterNames(dict)
	if err != nil {
		return nil, err
	}
	if len(names) > 0 {
		out.Filter = contentstream.ExpandFilter(names[len(names)-1])
	}

	out.Data, err = img.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}
	return out, nil
}

func (img *Image) setColorSpace(cs core.Object) error {
	switch v := cs.(type) {
	case core.Name:
		img.ColorSpace = contentstream.ExpandColorSpace(string(v))
		return nil
	case core.Array:
		family, _ := v.GetName(0)
		switch contentstream.ExpandColorSpace(string(family)) {
		case "CalGray":
			img.ColorSpace = "DeviceGray"
			return nil
		case "CalRGB":
			img.ColorSpace = "DeviceRGB"
			return nil
		case "ICCBased":
			return img.setICCBased(v.Get(1))
		case "Indexed":
		default:
			return fmt.Errorf("unsupported color space: %s", v)
		}
		if v.Len() < 4 {
			return fmt.Errorf("incomplete Indexed color space: %s", v)
		}
		base, ok := v.GetName(1)
		if !ok {
			return fmt.Errorf("unsupported Indexed base: %s", v.Get(1))
		}
		var lookup []byte
		switch s := v.Get(3).(type) {
		case core.String:
			lookup = []byte(s)
		case core.HexString:
			lookup = []byte(s)
		default:
			return fmt.Errorf("unsupported Indexed lookup: %T", v.Get(3))
		}
		img.ColorSpace = "Indexed"
		img.base = contentstream.ExpandColorSpace(string(base))
		img.palette = lookup
		return nil
	}
	return fmt.Errorf("unsupported color space: %s", cs)
}

// setICCBased picks the device space with the profile's number of
// components. The profile itself is ignored.
func (img *Image) setICCBased(profile core.Object) error {
	var dict core.Dict
	switch p := profile.(type) {
	case *core.Stream:
		dict = p.Dict
	case core.Dict:
		dict = p
	}
	n, _ := dict.GetInt("N")
	switch n {
	case 1:
		img.ColorSpace = "DeviceGray"
	case 3:
		img.ColorSpace = "DeviceRGB"
	case 4:
		img.ColorSpace = "DeviceCMYK"
	default:
		return fmt.Errorf("unsupported ICCBased profile with %d components", n)
	}
	return nil
}

// components returns the samples per pixel.
func (img *Image) components() int {
	switch img.ColorSpace {
	case "DeviceRGB", "CalRGB":
		return 3
	case "DeviceCMYK":
		return 4
	}
	return 1
}

// sample returns component c of pixel (x, y) scaled to 0-255.
func (img *Image) sample(x, y, c int, rowBytes int) (uint8, error) {
	bpc := img.BitsPerComponent
	bit := (x*img.components() + c) * bpc
	idx := y*rowBytes + bit/8
	if idx >= len(img.Data) {
		return 0, fmt.Errorf("insufficient data: need byte %d, have %d", idx+1, len(img.Data))
	}
	b := img.Data[idx]

	switch bpc {
	case 8:
		return b, nil
	case 1, 2, 4:
		shift := 8 - bpc - bit%8
		v := (b >> shift) & (1<<bpc - 1)
		if img.ColorSpace == "Indexed" {
			return v, nil
		}
		return v * uint8(255/(1<<bpc-1)), nil
	}
	return 0, fmt.Errorf("unsupported bits per component: %d", bpc)
}

// ToImage converts the samples to an image.Image.
func (img *Image) ToImage() (image.Image, error) {
	rowBytes := (img.Width*img.components()*img.BitsPerComponent + 7) / 8
	rect := image.Rect(0, 0, img.Width, img.Height)

	switch {
	case img.ImageMask:
		// Samples of 0 are painted.
		out := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				v, err := img.sample(x, y, 0, rowBytes)
				if err != nil {
					return nil, err
				}
				if v != 0 {
					out.SetGray(x, y, color.Gray{Y: 255})
				}
			}
		}
		return out, nil

	case img.ColorSpace == "Indexed":
		return img.toIndexed(rect, rowBytes)

	case img.components() == 1:
		out := image.NewGray(rect)
		for y := 0; y < img.Height; y++ {
			for x := 0; x < img.Width; x++ {
				v, err := img.sample(x, y, 0, rowBytes)
				if err != nil {
					return nil, err
				}
				out.SetGray(x, y, color.Gray{Y: v})
			}
		}
		return out, nil
	}

	out := image.NewRGBA(rect)
	var px [4]uint8
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			for c := 0; c < img.components(); c++ {
				v, err := img.sample(x, y, c, rowBytes)
				if err != nil {
					return nil, err
				}
				px[c] = v
			}
			if img.components() == 4 {
				r, g, b := color.CMYKToRGB(px[0], px[1], px[2], px[3])
				out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
			} else {
				out.SetRGBA(x, y, color.RGBA{R: px[0], G: px[1], B: px[2], A: 255})
			}
		}
	}
	return out, nil
}

func (img *Image) toIndexed(rect image.Rectangle, rowBytes int) (image.Image, error) {
	n := 1
	switch img.base {
	case "DeviceRGB":
		n = 3
	case "DeviceCMYK":
		n = 4
	}

	palette := make(color.Palette, 0, len(img.palette)/n)
	for i := 0; i+n <= len(img.palette); i += n {
		e := img.palette[i : i+n]
		switch n {
		case 1:
			palette = append(palette, color.Gray{Y: e[0]})
		case 3:
			palette = append(palette, color.RGBA{R: e[0], G: e[1], B: e[2], A: 255})
		case 4:
			r, g, b := color.CMYKToRGB(e[0], e[1], e[2], e[3])
			palette = append(palette, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("empty Indexed lookup table")
	}

	out := image.NewPaletted(rect, palette)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v, err := img.sample(x, y, 0, rowBytes)
			if err != nil {
				return nil, err
			}
			if int(v) >= len(palette) {
				v = uint8(len(palette) - 1)
			}
			out.SetColorIndex(x, y, v)
		}
	}
	return out, nil
}

// ToPNG converts the decoded samples to PNG format.
func (img *Image) ToPNG() ([]byte, error) {
	if img.Filter == "DCTDecode" || img.Filter == "JPXDecode" {
		return nil, fmt.Errorf("image is %s encoded; use Data as is", img.Filter)
	}
	goImg, err := img.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, goImg); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
