package filters

import (
	"bytes"
	"errors"
	"testing"
)

// TestASCIIHexDecode tests hex decoding with the quirks producers rely on
func TestASCIIHexDecode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"basic", "48656C6C6F>", []byte("Hello"), false},
		{"lower case", "48656c6c6f>", []byte("Hello"), false},
		{"whitespace", "48 65\n6C\t6C 6F >", []byte("Hello"), false},
		{"odd digits", "48656C6C6>", []byte("Hell`"), false},
		{"no EOD", "48656C6C6F", []byte("Hello"), false},
		{"empty", ">", []byte{}, false},
		{"invalid digit", "48G5", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCIIHexDecode([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ASCIIHexDecode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestASCII85Decode tests the lenient decoder used for stream data
func TestASCII85Decode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"basic", "87cURDZ~>", []byte("Hello"), false},
		{"zero group", "z~>", []byte{0, 0, 0, 0}, false},
		{"whitespace", "87cU\nRD Z ~>", []byte("Hello"), false},
		{"no EOD", "87cURDZ", []byte("Hello"), false},
		{"invalid byte", "87\xffcURD~>", nil, true},
		{"overflow", "uuuuu~>", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ASCII85Decode([]byte(tt.in))
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ASCII85Decode failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestASCII85DecodeStrict tests that the strict decoder needs the EOD marker
func TestASCII85DecodeStrict(t *testing.T) {
	decoded, err := ASCII85DecodeStrict([]byte("87cURDZ~>"))
	if err != nil {
		t.Fatalf("ASCII85DecodeStrict failed: %v", err)
	}
	if string(decoded) != "Hello" {
		t.Errorf("decoded = %q, want %q", decoded, "Hello")
	}

	if _, err := ASCII85DecodeStrict([]byte("87cURDZ")); !errors.Is(err, ErrMissingEOD) {
		t.Errorf("error = %v, want ErrMissingEOD", err)
	}
	if _, err := ASCII85DecodeStrict([]byte("9~>")); err == nil {
		t.Error("expected error for a single character final group")
	}
}

// TestHexDigitToByte tests the hex conversion helper
func TestHexDigitToByte(t *testing.T) {
	for c, want := range map[byte]byte{'0': 0, '9': 9, 'A': 10, 'F': 15, 'a': 10, 'f': 15} {
		got, err := hexDigitToByte(c)
		if err != nil || got != want {
			t.Errorf("hexDigitToByte(%c) = %d, %v, want %d", c, got, err, want)
		}
	}
	for _, c := range []byte{'G', 'g', '@', ' '} {
		if _, err := hexDigitToByte(c); err == nil {
			t.Errorf("hexDigitToByte(%q) expected error", c)
		}
	}
}

// TestIsWhitespace tests the PDF whitespace set
func TestIsWhitespace(t *testing.T) {
	for _, c := range []byte{' ', '\t', '\r', '\n', '\f', 0} {
		if !isWhitespace(c) {
			t.Errorf("isWhitespace(%d) = false", c)
		}
	}
	for _, c := range []byte{'a', 'Z', '0', '!', '\x01', '\x0b'} {
		if isWhitespace(c) {
			t.Errorf("isWhitespace(%d) = true", c)
		}
	}
}
