package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a PDF object
type Object interface {
	Type() ObjectType
	String() string
}

// ObjectType represents the type of PDF object
type ObjectType int

const (
	ObjNull ObjectType = iota
	ObjBool
	ObjInt
	ObjReal
	ObjNumber
	ObjString
	ObjName
	ObjArray
	ObjDict
	ObjStream
	ObjIndirect
	ObjLiteral
	ObjInlineImage
)

var objectTypeNames = map[ObjectType]string{
	ObjNull:        "Null",
	ObjBool:        "Bool",
	ObjInt:         "Int",
	ObjReal:        "Real",
	ObjNumber:      "Number",
	ObjString:      "String",
	ObjName:        "Name",
	ObjArray:       "Array",
	ObjDict:        "Dict",
	ObjStream:      "Stream",
	ObjIndirect:    "IndirectRef",
	ObjLiteral:     "Literal",
	ObjInlineImage: "InlineImage",
}

// String returns the string representation of the object type
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Type() ObjectType { return ObjNull }
func (n Null) String() string   { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Type() ObjectType { return ObjBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) Type() ObjectType { return ObjInt }
func (i Int) String() string   { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Type() ObjectType { return ObjReal }
func (r Real) String() string   { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// Number is a numeric operand kept as the text it was written as. Content
// streams are full of numbers that are never used, so conversion happens
// only when a value is asked for.
type Number string

func (n Number) Type() ObjectType { return ObjNumber }
func (n Number) String() string   { return string(n) }

// IsInteger reports whether the number was written without a decimal point.
func (n Number) IsInteger() bool {
	return !strings.ContainsRune(string(n), '.')
}

// Int returns the number as an integer, truncating any fraction.
func (n Number) Int() (int64, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i, nil
	}
	f, err := n.Float()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}

// Float returns the number as a float64. Malformed numbers produced by
// broken writers, such as "--5" or "1.2.3", are read as far as they make
// sense.
func (n Number) Float() (float64, error) {
	if f, err := strconv.ParseFloat(string(n), 64); err == nil {
		return f, nil
	}
	s := cleanNumber(string(n))
	if s == "" {
		return 0, fmt.Errorf("invalid number %q", string(n))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", string(n), err)
	}
	return f, nil
}

// cleanNumber keeps one leading sign and the digits up to a second decimal
// point or embedded sign.
func cleanNumber(s string) string {
	neg := false
	i := 0
	for i < len(s) && (s[i] == '-' || s[i] == '+') {
		if s[i] == '-' {
			neg = true
		}
		i++
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	dot := false
	digits := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' && !dot {
			dot = true
			b.WriteByte(c)
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		digits++
		b.WriteByte(c)
	}
	if digits == 0 {
		return ""
	}
	return b.String()
}

// String represents a PDF literal string
type String string

func (s String) Type() ObjectType { return ObjString }
func (s String) String() string   { return string(s) }

// Text decodes the string as PDF text (UTF-16BE, UTF-8 or PDFDocEncoding).
func (s String) Text() string { return DecodeText([]byte(s)) }

// HexString is a PDF string that was written in hexadecimal. It holds the
// decoded bytes.
type HexString string

func (h HexString) Type() ObjectType { return ObjString }
func (h HexString) String() string   { return fmt.Sprintf("<%X>", string(h)) }

// Text decodes the string as PDF text (UTF-16BE, UTF-8 or PDFDocEncoding).
func (h HexString) Text() string { return DecodeText([]byte(h)) }

// Name represents a PDF name
type Name string

func (n Name) Type() ObjectType { return ObjName }
func (n Name) String() string   { return "/" + string(n) }

// Literal is a bare keyword from a content stream, usually an operator
// such as "Tf" or "re".
type Literal string

func (l Literal) Type() ObjectType { return ObjLiteral }
func (l Literal) String() string   { return string(l) }

// Array represents a PDF array
type Array []Object

func (a Array) Type() ObjectType { return ObjArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// GetInt retrieves an integer at the given index
func (a Array) GetInt(index int) (Int, bool) {
	i, ok := ToInt(a.Get(index))
	return Int(i), ok
}

// GetReal retrieves a real number at the given index
func (a Array) GetReal(index int) (Real, bool) {
	f, ok := ToFloat(a.Get(index))
	return Real(f), ok
}

// GetName retrieves a name at the given index
func (a Array) GetName(index int) (Name, bool) {
	n, ok := a.Get(index).(Name)
	return n, ok
}

// Dict represents a PDF dictionary
type Dict map[string]Object

func (d Dict) Type() ObjectType { return ObjDict }

// String renders the dictionary with its keys sorted.
func (d Dict) String() string {
	keys := d.Keys()
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("/%s %s", key, d[key].String()))
	}
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	name, ok := d[key].(Name)
	return name, ok
}

// GetInt retrieves an integer value. Int, Real and Number values are all
// accepted.
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := ToInt(d[key])
	return Int(i), ok
}

// GetReal retrieves a numeric value as a real.
func (d Dict) GetReal(key string) (Real, bool) {
	f, ok := ToFloat(d[key])
	return Real(f), ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d[key].(Array)
	return arr, ok
}

// GetString retrieves a string value, literal or hexadecimal.
func (d Dict) GetString(key string) (String, bool) {
	switch s := d[key].(type) {
	case String:
		return s, true
	case HexString:
		return String(s), true
	}
	return "", false
}

// GetBool retrieves a boolean value
func (d Dict) GetBool(key string) (Bool, bool) {
	b, ok := d[key].(Bool)
	return b, ok
}

// GetStream retrieves a stream value
func (d Dict) GetStream(key string) (*Stream, bool) {
	s, ok := d[key].(*Stream)
	return s, ok
}

// GetIndirectRef retrieves an indirect reference
func (d Dict) GetIndirectRef(key string) (IndirectRef, bool) {
	ref, ok := d[key].(IndirectRef)
	return ref, ok
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Set sets a value in the dictionary
func (d Dict) Set(key string, value Object) {
	d[key] = value
}

// Delete removes a key from the dictionary
func (d Dict) Delete(key string) {
	delete(d, key)
}

// Keys returns all keys in the dictionary
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	return keys
}

// ToInt converts a numeric object to an int64.
func ToInt(obj Object) (int64, bool) {
	switch v := obj.(type) {
	case Int:
		return int64(v), true
	case Real:
		return int64(v), true
	case Number:
		i, err := v.Int()
		return i, err == nil
	}
	return 0, false
}

// ToFloat converts a numeric object to a float64.
func ToFloat(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	case Number:
		f, err := v.Float()
		return f, err == nil
	}
	return 0, false
}

// Stream represents a PDF stream object
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Type() ObjectType { return ObjStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// IndirectRef represents an indirect object reference
type IndirectRef struct {
	Number     int
	Generation int
}

func (r IndirectRef) Type() ObjectType { return ObjIndirect }
func (r IndirectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}
