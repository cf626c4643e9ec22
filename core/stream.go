package core

import (
	"fmt"

	"github.com/tsawler/pdfstream/internal/filters"
)

// Decode applies the stream's filter chain using the default filter set.
func (s *Stream) Decode() ([]byte, error) {
	return s.DecodeWith(filters.Default())
}

// DecodeWith applies the stream's filter chain using set. Filter may be a
// single name or an array of names; DecodeParms may be a dictionary or an
// array holding one entry per filter.
func (s *Stream) DecodeWith(set filters.Set) ([]byte, error) {
	names, err := FilterNames(s.Dict)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return s.Data, nil
	}

	paramsObj := s.Dict.Get("DecodeParms")

	data := s.Data
	for i, name := range names {
		var params Dict
		if arr, ok := paramsObj.(Array); ok {
			params = paramsObjToDict(arr.Get(i))
		} else {
			params = paramsObjToDict(paramsObj)
		}

		data, err = set.Decode(data, name, dictToParams(params))
		if err != nil {
			if len(names) == 1 {
				return nil, fmt.Errorf("filter %s failed: %w", name, err)
			}
			return nil, fmt.Errorf("filter %d (%s) failed: %w", i, name, err)
		}
	}
	return data, nil
}

// FilterNames returns the filters named by a stream dictionary's Filter
// entry, in the order they are applied.
func FilterNames(d Dict) ([]string, error) {
	obj := d.Get("Filter")

	switch f := obj.(type) {
	case nil, Null:
		return nil, nil
	case Name:
		return []string{string(f)}, nil
	case Array:
		names := make([]string, 0, len(f))
		for i, elem := range f {
			name, ok := elem.(Name)
			if !ok {
				return nil, fmt.Errorf("filter %d is not a name: %T", i, elem)
			}
			names = append(names, string(name))
		}
		return names, nil
	default:
		return nil, fmt.Errorf("invalid Filter type: %T", obj)
	}
}

// paramsObjToDict returns obj as a Dict, or nil for anything else
// (including null).
func paramsObjToDict(obj Object) Dict {
	dict, _ := obj.(Dict)
	return dict
}

// dictToParams converts a Dict to filters.Params, translating PDF objects
// to Go values.
func dictToParams(dict Dict) filters.Params {
	if dict == nil {
		return nil
	}

	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch obj := v.(type) {
		case Int:
			params[k] = int(obj)
		case Real:
			params[k] = float64(obj)
		case Number:
			if obj.IsInteger() {
				if i, err := obj.Int(); err == nil {
					params[k] = int(i)
					continue
				}
			}
			if f, err := obj.Float(); err == nil {
				params[k] = f
			}
		case Bool:
			params[k] = bool(obj)
		case String:
			params[k] = string(obj)
		case Name:
			params[k] = string(obj)
		default:
			params[k] = v
		}
	}
	return params
}
