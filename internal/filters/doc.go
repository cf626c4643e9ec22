// Package filters provides PDF stream decompression filters.
//
// # Supported Filters
//
//   - FlateDecode (zlib/deflate) with TIFF and PNG predictors
//   - LZWDecode, with EarlyChange and the same predictors
//   - ASCIIHexDecode and ASCII85Decode
//   - RunLengthDecode
//   - CCITTFaxDecode (Group 3 and Group 4)
//   - DCTDecode and JPXDecode, passed through unchanged
//
// Each filter is also a plain function:
//
//	decoded, err := filters.FlateDecode(data, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	    "Colors":    3,
//	})
//
// # Filter Sets
//
// A [Set] maps filter names, including the abbreviations allowed in inline
// images (Fl, AHx, ...), to decoders. [Default] is used for stream data.
// [Strict] is used to validate candidate inline image data: its Flate and
// ASCII85 decoders fail unless the encoded data ends exactly where it should,
// so a premature end of the candidate is detected.
//
//	data, err := filters.Default().Decode(raw, "Fl", nil)
package filters
