package contentstream

import (
	"github.com/tsawler/pdfstream/core"
	"github.com/tsawler/pdfstream/internal/filters"
)

// Inline image dictionaries may use short keys and values.
var (
	keyAbbreviations = map[string]string{
		"BPC": "BitsPerComponent",
		"CS":  "ColorSpace",
		"D":   "Decode",
		"DP":  "DecodeParms",
		"F":   "Filter",
		"H":   "Height",
		"IM":  "ImageMask",
		"I":   "Interpolate",
		"L":   "Length",
		"W":   "Width",
	}

	colorSpaceAbbreviations = map[string]string{
		"G":    "DeviceGray",
		"RGB":  "DeviceRGB",
		"CMYK": "DeviceCMYK",
		"I":    "Indexed",
	}
)

// ExpandKey returns the full form of an inline image dictionary key. Other
// keys, including full forms, are returned unchanged.
func ExpandKey(key string) string {
	if full, ok := keyAbbreviations[key]; ok {
		return full
	}
	return key
}

// ExpandFilter returns the full name of an abbreviated filter.
func ExpandFilter(name string) string {
	if full, ok := filters.Abbreviations[name]; ok {
		return full
	}
	return name
}

// ExpandColorSpace returns the full name of an abbreviated color space.
func ExpandColorSpace(name string) string {
	if full, ok := colorSpaceAbbreviations[name]; ok {
		return full
	}
	return name
}

// expandValue expands the value of an already expanded key. Filter and
// ColorSpace names are expanded, element by element for arrays.
func expandValue(key string, v core.Object) core.Object {
	var expand func(string) string
	switch key {
	case "Filter":
		expand = ExpandFilter
	case "ColorSpace":
		expand = ExpandColorSpace
	default:
		return v
	}

	switch val := v.(type) {
	case core.Name:
		return core.Name(expand(string(val)))
	case core.Array:
		out := make(core.Array, len(val))
		for i, elem := range val {
			if n, ok := elem.(core.Name); ok {
				out[i] = core.Name(expand(string(n)))
			} else {
				out[i] = elem
			}
		}
		return out
	}
	return v
}
