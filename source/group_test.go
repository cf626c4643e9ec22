package source

import (
	"errors"
	"io"
	"testing"
)

// recordingPolicy records activation changes and can misdirect lookups.
type recordingPolicy struct {
	start       int
	activated   []int
	deactivated []int
}

func (p *recordingPolicy) StartIndex(int64) int { return p.start }

func (p *recordingPolicy) Activated(seg *Segment) error {
	p.activated = append(p.activated, seg.Index)
	return nil
}

func (p *recordingPolicy) Deactivated(seg *Segment) error {
	p.deactivated = append(p.deactivated, seg.Index)
	return nil
}

// failingSource is a Source whose Close always fails.
type failingSource struct {
	*Bytes
	err error
}

func (s *failingSource) Close() error { return s.err }

func newTestGroup(t *testing.T, parts ...string) *Group {
	t.Helper()
	var sources []Source
	for _, p := range parts {
		sources = append(sources, NewBytes([]byte(p)))
	}
	g, err := NewGroup(sources)
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}
	return g
}

// TestGroupConcatenation tests that the group reads as one address space
func TestGroupConcatenation(t *testing.T) {
	g := newTestGroup(t, "abc", "", "defg", "h")

	if g.Len() != 8 {
		t.Errorf("Len = %d, want 8", g.Len())
	}
	if got := string(readAllBytes(t, g)); got != "abcdefgh" {
		t.Errorf("contents = %q, want %q", got, "abcdefgh")
	}
}

// TestGroupSegmentRanges tests the position ranges given to each segment
func TestGroupSegmentRanges(t *testing.T) {
	g := newTestGroup(t, "0123456789", "", "abcde")
	segs := g.Segments()

	want := []struct{ first, last int64 }{
		{0, 9},
		{10, 9},
		{10, 14},
	}
	for i, w := range want {
		if segs[i].First != w.first || segs[i].Last != w.last {
			t.Errorf("segment %d = [%d, %d], want [%d, %d]", i, segs[i].First, segs[i].Last, w.first, w.last)
		}
	}

	b, err := g.ByteAt(12)
	if err != nil {
		t.Fatalf("ByteAt(12) failed: %v", err)
	}
	if b != 'c' {
		t.Errorf("ByteAt(12) = %q, want 'c'", b)
	}
}

// TestGroupPartition tests that every position belongs to exactly one segment
func TestGroupPartition(t *testing.T) {
	g := newTestGroup(t, "ab", "", "cde", "", "", "f", "ghij")

	for pos := int64(0); pos < g.Len(); pos++ {
		owners := 0
		for _, seg := range g.Segments() {
			if seg.contains(pos) {
				owners++
			}
		}
		if owners != 1 {
			t.Errorf("position %d has %d owning segments, want 1", pos, owners)
		}
	}
}

// TestGroupReadAcrossSegments tests bulk reads that span boundaries
func TestGroupReadAcrossSegments(t *testing.T) {
	g := newTestGroup(t, "abc", "", "defg", "h")

	buf := make([]byte, 5)
	n, err := g.ReadAt(buf, 1)
	if err != nil {
		t.Fatalf("ReadAt failed: %v", err)
	}
	if got := string(buf[:n]); got != "bcdef" {
		t.Errorf("ReadAt = %q, want %q", got, "bcdef")
	}

	buf = make([]byte, 10)
	n, err = g.ReadAt(buf, 5)
	if !errors.Is(err, io.EOF) {
		t.Errorf("short read error = %v, want io.EOF", err)
	}
	if got := string(buf[:n]); got != "fgh" {
		t.Errorf("short ReadAt = %q, want %q", got, "fgh")
	}

	if _, err := g.ByteAt(8); !errors.Is(err, io.EOF) {
		t.Errorf("ByteAt past end error = %v, want io.EOF", err)
	}
}

// TestGroupPolicyNotifications tests activation callbacks on segment switches
func TestGroupPolicyNotifications(t *testing.T) {
	p := &recordingPolicy{}
	g, err := NewGroup([]Source{
		NewBytes([]byte("ab")),
		NewBytes([]byte("cd")),
	}, WithPolicy(p))
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}

	// The group starts on the last segment, so this needs no switch.
	g.ByteAt(3)
	if len(p.activated) != 0 {
		t.Errorf("activated = %v, want none", p.activated)
	}

	g.ByteAt(0)
	g.ByteAt(1)
	g.ByteAt(2)
	if want := []int{0, 1}; !equalInts(p.activated, want) {
		t.Errorf("activated = %v, want %v", p.activated, want)
	}
	if want := []int{1, 0}; !equalInts(p.deactivated, want) {
		t.Errorf("deactivated = %v, want %v", p.deactivated, want)
	}
}

// TestGroupMisdirectedPolicy tests a start index beyond the owning segment
func TestGroupMisdirectedPolicy(t *testing.T) {
	g, err := NewGroup([]Source{
		NewBytes([]byte("ab")),
		NewBytes([]byte("cd")),
	}, WithPolicy(&recordingPolicy{start: 1}))
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}

	if _, err := g.ByteAt(0); err == nil {
		t.Error("expected error when the search starts past the owning segment")
	}
}

// TestGroupCloseJoinsErrors tests that Close reports every failure
func TestGroupCloseJoinsErrors(t *testing.T) {
	errA := errors.New("close a")
	errB := errors.New("close b")
	g, err := NewGroup([]Source{
		&failingSource{Bytes: NewBytes([]byte("a")), err: errA},
		NewBytes([]byte("b")),
		&failingSource{Bytes: NewBytes([]byte("c")), err: errB},
	})
	if err != nil {
		t.Fatalf("NewGroup failed: %v", err)
	}

	err = g.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close error = %v, want both failures", err)
	}
}

// TestGroupEmpty tests that a group needs at least one source
func TestGroupEmpty(t *testing.T) {
	if _, err := NewGroup(nil); err == nil {
		t.Error("expected error for empty group")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
