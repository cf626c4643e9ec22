package resolver

import (
	"strings"
	"testing"

	"github.com/tsawler/pdfstream/contentstream"
	"github.com/tsawler/pdfstream/core"
)

func ref(n int) core.IndirectRef { return core.IndirectRef{Number: n} }

// TestResolveIndirectRef tests resolving a simple indirect reference
func TestResolveIndirectRef(t *testing.T) {
	r := NewResolver(Table{ref(5): core.Int(42)})

	resolved, err := r.Resolve(ref(5))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if resolved != core.Int(42) {
		t.Errorf("expected 42, got %v", resolved)
	}
}

// TestResolveChain tests that a reference to a reference is followed
func TestResolveChain(t *testing.T) {
	r := NewResolver(Table{
		ref(1): ref(2),
		ref(2): core.Name("DeviceRGB"),
	})

	resolved, err := r.Resolve(ref(1))
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if resolved != core.Name("DeviceRGB") {
		t.Errorf("expected /DeviceRGB, got %v", resolved)
	}
}

// TestResolvePrimitive tests that primitives pass through unchanged
func TestResolvePrimitive(t *testing.T) {
	r := NewResolver(Table{})

	tests := []core.Object{
		core.Int(42),
		core.Number("1.5"),
		core.Name("Type"),
		core.String("hello"),
		core.Bool(true),
		core.Null{},
	}

	for _, obj := range tests {
		resolved, err := r.Resolve(obj)
		if err != nil {
			t.Errorf("Resolve(%v) failed: %v", obj, err)
			continue
		}
		if resolved != obj {
			t.Errorf("Resolve(%v) = %v", obj, resolved)
		}
	}
}

// TestResolveShallow tests that Resolve leaves nested references alone
func TestResolveShallow(t *testing.T) {
	r := NewResolver(Table{ref(3): core.Int(1)})
	dict := core.Dict{"A": ref(3)}

	resolved, err := r.Resolve(dict)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if resolved.(core.Dict)["A"] != ref(3) {
		t.Errorf("nested reference was resolved: %v", resolved)
	}
}

// TestResolveDeep tests resolution of nested dictionaries, arrays and streams
func TestResolveDeep(t *testing.T) {
	r := NewResolver(Table{
		ref(1): core.Int(3),
		ref(2): core.Array{core.Name("ICCBased"), ref(4)},
		ref(4): &core.Stream{Dict: core.Dict{"N": ref(1)}, Data: []byte("icc")},
	})

	input := core.Dict{
		"ColorSpace": core.Dict{"CS0": ref(2)},
		"List":       core.Array{ref(1), core.Name("x")},
	}

	resolved, err := r.ResolveDeep(input)
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	dict := resolved.(core.Dict)

	cs := dict["ColorSpace"].(core.Dict)["CS0"].(core.Array)
	stream, ok := cs[1].(*core.Stream)
	if !ok {
		t.Fatalf("expected stream, got %T", cs[1])
	}
	if stream.Dict["N"] != core.Int(3) || string(stream.Data) != "icc" {
		t.Errorf("stream = %v", stream)
	}
	if list := dict["List"].(core.Array); list[0] != core.Int(3) {
		t.Errorf("List = %v", list)
	}

	if input["List"].(core.Array)[0] != ref(1) {
		t.Error("input was modified")
	}
}

// TestResolveSharedReference tests that the same object may appear in
// several branches
func TestResolveSharedReference(t *testing.T) {
	r := NewResolver(Table{ref(1): core.Name("shared")})

	resolved, err := r.ResolveDeep(core.Array{ref(1), ref(1), core.Dict{"K": ref(1)}})
	if err != nil {
		t.Fatalf("failed to resolve: %v", err)
	}
	if arr := resolved.(core.Array); arr[1] != core.Name("shared") {
		t.Errorf("resolved = %v", arr)
	}
}

// TestCycleDetection tests that circular references are detected
func TestCycleDetection(t *testing.T) {
	r := NewResolver(Table{
		ref(1): core.Dict{"Next": ref(2)},
		ref(2): core.Dict{"Next": ref(1)},
	})

	_, err := r.ResolveDeep(ref(1))
	if err == nil || !strings.Contains(err.Error(), "circular") {
		t.Errorf("expected circular reference error, got %v", err)
	}

	self := NewResolver(Table{ref(7): ref(7)})
	if _, err := self.Resolve(ref(7)); err == nil {
		t.Error("expected error for self reference")
	}
}

// TestMaxDepth tests the recursion limit
func TestMaxDepth(t *testing.T) {
	r := NewResolver(Table{}, WithMaxDepth(2))

	deep := core.Array{core.Array{core.Array{core.Int(1)}}}
	_, err := r.ResolveDeep(deep)
	if err == nil || !strings.Contains(err.Error(), "maximum recursion depth") {
		t.Errorf("expected depth error, got %v", err)
	}
}

// TestObjectNotFound tests a missing object
func TestObjectNotFound(t *testing.T) {
	r := NewResolver(Table{})

	_, err := r.Resolve(ref(99))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not found error, got %v", err)
	}
}

// TestResources tests resource lookup through references
func TestResources(t *testing.T) {
	r := NewResolver(Table{
		ref(10): core.Dict{"CS0": core.Name("DeviceCMYK")},
	})
	res := NewResources(core.Dict{
		"ColorSpace": ref(10),
		"Font":       ref(11),
	}, r)

	if cs := res.Resource("ColorSpace"); cs.Get("CS0") != core.Name("DeviceCMYK") {
		t.Errorf("ColorSpace = %v", cs)
	}
	if f := res.Resource("Font"); f != nil {
		t.Errorf("Font = %v, want nil for unresolvable entry", f)
	}
	if x := res.Resource("XObject"); x != nil {
		t.Errorf("XObject = %v, want nil", x)
	}
}

// TestResourcesWithParser tests the resolver driving inline image parsing
func TestResourcesWithParser(t *testing.T) {
	r := NewResolver(Table{
		ref(10): core.Dict{"CS0": ref(11)},
		ref(11): core.Array{core.Name("ICCBased"), ref(12)},
		ref(12): &core.Stream{Dict: core.Dict{"N": core.Int(4)}},
	})
	res := NewResources(core.Dict{"ColorSpace": ref(10)}, r)

	ops, _, err := contentstream.ParseAll(
		[]byte("BI /W 2 /H 1 /BPC 8 /CS /CS0 ID 12345678 EI"),
		contentstream.WithResources(res),
		contentstream.WithResolver(r),
	)
	if err != nil {
		t.Fatalf("ParseAll failed: %v", err)
	}
	img, ok := ops[0].InlineImage()
	if !ok {
		t.Fatalf("expected inline image, got %v", ops)
	}
	if string(img.Data) != "12345678" {
		t.Errorf("Data = %q", img.Data)
	}
}
