package contentstream

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfstream/core"
)

const maxColorSpaceDepth = 8

// errUnresolved means a named color space could not be looked up, either
// because no resources were supplied or because they have no entry for it.
// The image is then read in scan mode.
var errUnresolved = errors.New("color space not found in resources")

var deviceComponents = map[string]int{
	"DeviceGray": 1,
	"DeviceRGB":  3,
	"DeviceCMYK": 4,
}

// components returns the number of color components of an inline image
// color space. A nil color space counts as one component.
func (p *Parser) components(cs core.Object, depth int) (int, error) {
	if depth > maxColorSpaceDepth {
		return 0, fmt.Errorf("%w: nested too deeply", ErrUnexpectedColorSpace)
	}

	obj, err := p.resolve(cs)
	if err != nil {
		return 0, err
	}

	switch v := obj.(type) {
	case nil, core.Null:
		return 1, nil
	case core.Name:
		name := ExpandColorSpace(string(v))
		if n, ok := deviceComponents[name]; ok {
			return n, nil
		}
		if p.resources == nil {
			return 0, errUnresolved
		}
		named := p.resources.Resource("ColorSpace").Get(name)
		if named == nil {
			return 0, errUnresolved
		}
		return p.components(named, depth+1)
	case core.Array:
		return p.arrayComponents(v, depth)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnexpectedColorSpace, obj)
}

func (p *Parser) arrayComponents(arr core.Array, depth int) (int, error) {
	first, err := p.resolve(arr.Get(0))
	if err != nil {
		return 0, err
	}
	family, ok := first.(core.Name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedColorSpace, arr)
	}

	name := ExpandColorSpace(string(family))
	if n, ok := deviceComponents[name]; ok {
		return n, nil
	}

	switch name {
	case "Indexed", "CalGray", "Pattern", "Separation":
		return 1, nil
	case "CalRGB", "Lab":
		return 3, nil
	case "ICCBased":
		obj, err := p.resolve(arr.Get(1))
		if err != nil {
			return 0, err
		}
		var dict core.Dict
		switch s := obj.(type) {
		case *core.Stream:
			dict = s.Dict
		case core.Dict:
			dict = s
		}
		if n, ok := dict.GetInt("N"); ok && n > 0 {
			return int(n), nil
		}
		return 0, fmt.Errorf("%w: ICCBased without N", ErrUnexpectedColorSpace)
	case "DeviceN":
		obj, err := p.resolve(arr.Get(1))
		if err != nil {
			return 0, err
		}
		if names, ok := obj.(core.Array); ok && len(names) > 0 {
			return len(names), nil
		}
		return 0, fmt.Errorf("%w: DeviceN without colorants", ErrUnexpectedColorSpace)
	}
	return 0, fmt.Errorf("%w: %s", ErrUnexpectedColorSpace, name)
}

func (p *Parser) resolve(obj core.Object) (core.Object, error) {
	ref, ok := obj.(core.IndirectRef)
	if !ok || p.resolver == nil {
		return obj, nil
	}
	resolved, err := p.resolver.Resolve(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", ref, err)
	}
	return resolved, nil
}
