package resolver

import (
	"fmt"

	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
)

// ObjectReader looks up indirect objects.
type ObjectReader interface {
	Object(ref core.IndirectRef) (core.Object, error)
}

// Table is an in-memory ObjectReader, typically filled from an object graph
// parsed elsewhere.
type Table map[core.IndirectRef]core.Object

// Object returns the object stored for ref.
func (t Table) Object(ref core.IndirectRef) (core.Object, error) {
	obj, ok := t[ref]
	if !ok {
		return nil, fmt.Errorf("object %s not found", ref)
	}
	return obj, nil
}

// ObjectResolver follows indirect references. It implements
// contentstream.Resolver.
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
}

var _ contentstream.Resolver = (*ObjectResolver)(nil)

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		maxDepth: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows obj while it is an indirect reference. Objects inside
// dictionaries and arrays are left alone.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.resolve(obj, false, 0, map[core.IndirectRef]bool{})
}

// ResolveDeep also resolves every reference nested in dictionaries, arrays
// and stream dictionaries. The input is not modified.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolve(obj, true, 0, map[core.IndirectRef]bool{})
}

// visiting holds the references on the current path; a reference may
// appear in several branches but not inside itself.
func (r *ObjectResolver) resolve(obj core.Object, deep bool, depth int, visiting map[core.IndirectRef]bool) (core.Object, error) {
	if depth >= r.maxDepth {
		return nil, fmt.Errorf("maximum recursion depth (%d) exceeded", r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if visiting[v] {
			return nil, fmt.Errorf("circular reference detected for object %s", v)
		}
		visiting[v] = true
		defer delete(visiting, v)

		target, err := r.reader.Object(v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s: %w", v, err)
		}
		if _, ok := target.(core.IndirectRef); ok || deep {
			return r.resolve(target, deep, depth+1, visiting)
		}
		return target, nil

	case core.Dict:
		if !deep {
			return v, nil
		}
		out := make(core.Dict, len(v))
		for key, value := range v {
			resolved, err := r.resolve(value, deep, depth+1, visiting)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil

	case core.Array:
		if !deep {
			return v, nil
		}
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := r.resolve(elem, deep, depth+1, visiting)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil

	case *core.Stream:
		if !deep {
			return v, nil
		}
		dict, err := r.resolve(v.Dict, deep, depth+1, visiting)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil
	}

	return obj, nil
}

// Resources adapts a /Resources dictionary, which may itself hold indirect
// references, to contentstream.Resources.
type Resources struct {
	dict     core.Dict
	resolver *ObjectResolver
}

var _ contentstream.Resources = (*Resources)(nil)

// NewResources wraps dict. A nil resolver leaves references unresolved.
func NewResources(dict core.Dict, r *ObjectResolver) *Resources {
	return &Resources{dict: dict, resolver: r}
}

// Resource returns the category dictionary, or nil when it is missing or
// cannot be resolved.
func (res *Resources) Resource(category string) core.Dict {
	obj := res.dict.Get(category)
	if res.resolver != nil && obj != nil {
		resolved, err := res.resolver.Resolve(obj)
		if err != nil {
			return nil
		}
		obj = resolved
	}
	d, _ := obj.(core.Dict)
	return d
}
