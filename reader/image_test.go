package reader

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/tsawler/pdfstream/contentstream"
)

// parseInline parses a content stream holding one inline image
func parseInline(t *testing.T, content string) *contentstream.InlineImage {
	t.Helper()
	ops, _, err := contentstream.ParseAll([]byte(content))
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	for _, op := range ops {
		if img, ok := op.InlineImage(); ok {
			return img
		}
	}
	t.Fatalf("no inline image in %q", content)
	return nil
}

func TestImage_ToPNG_Grayscale8Bit(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 2 /H 2 /BPC 8 /CS /G ID \x00\x80\x40\xff EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}

	pngData, err := img.ToPNG()
	if err != nil {
		t.Fatalf("ToPNG failed: %v", err)
	}

	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if !bytes.HasPrefix(pngData, pngMagic) {
		t.Fatalf("missing PNG magic: %x", pngData[:min(8, len(pngData))])
	}

	decoded, err := png.Decode(bytes.NewReader(pngData))
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if got := color.GrayModel.Convert(decoded.At(1, 0)).(color.Gray).Y; got != 0x80 {
		t.Errorf("pixel (1,0) = %d, want 128", got)
	}
}

func TestImage_Bilevel(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 8 /H 1 /BPC 1 /CS /G ID \xaa EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}

	goImg, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	gray := goImg.(*image.Gray)
	for x := 0; x < 8; x++ {
		want := uint8(0)
		if x%2 == 0 {
			want = 255
		}
		if got := gray.GrayAt(x, 0).Y; got != want {
			t.Errorf("pixel %d = %d, want %d", x, got, want)
		}
	}
}

func TestImage_RGB(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 2 /H 1 /BPC 8 /CS /RGB /F /AHx ID FF000000FF00> EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}
	if img.ColorSpace != "DeviceRGB" || img.Filter != "ASCIIHexDecode" {
		t.Errorf("ColorSpace = %s, Filter = %s", img.ColorSpace, img.Filter)
	}

	goImg, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	rgba := goImg.(*image.RGBA)
	if c := rgba.RGBAAt(0, 0); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0 = %v, want red", c)
	}
	if c := rgba.RGBAAt(1, 0); c != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("pixel 1 = %v, want green", c)
	}
}

func TestImage_CMYK(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 1 /H 1 /BPC 8 /CS /CMYK ID \x00\x00\x00\x00 EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}
	goImg, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	if c := goImg.(*image.RGBA).RGBAAt(0, 0); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("pixel = %v, want white", c)
	}
}

func TestImage_Indexed(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 2 /H 1 /BPC 8 /CS [/I /RGB 1 <0000FFFFFF00>] ID \x01\x00 EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}

	goImg, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	pal := goImg.(*image.Paletted)
	if c := pal.At(0, 0).(color.RGBA); c != (color.RGBA{255, 255, 0, 255}) {
		t.Errorf("pixel 0 = %v, want yellow", c)
	}
	if c := pal.At(1, 0).(color.RGBA); c != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel 1 = %v, want blue", c)
	}
}

func TestImage_Mask(t *testing.T) {
	img, err := DecodeInlineImage(parseInline(t, "BI /W 2 /H 1 /IM true ID \x40 EI"))
	if err != nil {
		t.Fatalf("DecodeInlineImage failed: %v", err)
	}
	if !img.ImageMask || img.BitsPerComponent != 1 {
		t.Fatalf("ImageMask = %v, BitsPerComponent = %d", img.ImageMask, img.BitsPerComponent)
	}

	goImg, err := img.ToImage()
	if err != nil {
		t.Fatalf("ToImage failed: %v", err)
	}
	gray := goImg.(*image.Gray)
	if gray.GrayAt(0, 0).Y != 0 || gray.GrayAt(1, 0).Y != 255 {
		t.Errorf("pixels = %v, %v", gray.GrayAt(0, 0), gray.GrayAt(1, 0))
	}
}

func TestImage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing width", "BI /H 1 /BPC 8 /CS /G /F /AHx ID 00> EI"},
		{"unsupported color space", "BI /W 1 /H 1 /BPC 8 /CS [/Lab] /F /AHx ID 000000> EI"},
		{"zero width", "BI /W 0 /H 1 /BPC 8 /CS /G ID EI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeInlineImage(parseInline(t, tt.content)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestImage_InsufficientData(t *testing.T) {
	img := &Image{Width: 2, Height: 2, ColorSpace: "DeviceGray", BitsPerComponent: 8, Data: []byte{1, 2}}
	if _, err := img.ToImage(); err == nil {
		t.Error("expected error for short data")
	}
}
