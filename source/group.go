package source

import (
	"errors"
	"fmt"
	"io"
)

// Segment is one source inside a Group together with the range of group
// positions it serves. Last is inclusive; a zero-length segment has
// Last == First-1 and never holds a position.
type Segment struct {
	Index  int
	Source Source
	First  int64
	Last   int64
}

// contains reports whether the group position pos falls inside the segment.
func (s *Segment) contains(pos int64) bool {
	return pos >= s.First && pos <= s.Last
}

// Len returns the number of bytes served by the segment.
func (s *Segment) Len() int64 { return s.Last - s.First + 1 }

// Policy controls how a Group finds segments and is told when the segment
// in use changes. It lets callers accelerate lookups and pool resources
// without changing how the group routes reads.
type Policy interface {
	// StartIndex suggests the segment index at which to start a forward
	// search for the segment holding pos.
	StartIndex(pos int64) int

	// Activated is called when seg becomes the segment in use.
	Activated(seg *Segment) error

	// Deactivated is called on the previous segment in use just before
	// another one replaces it.
	Deactivated(seg *Segment) error
}

// LinearPolicy searches from the first segment and ignores activation
// changes. It is the default Group policy.
type LinearPolicy struct{}

func (LinearPolicy) StartIndex(int64) int       { return 0 }
func (LinearPolicy) Activated(*Segment) error   { return nil }
func (LinearPolicy) Deactivated(*Segment) error { return nil }

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithPolicy sets the segment policy (default: LinearPolicy).
func WithPolicy(p Policy) GroupOption {
	return func(g *Group) {
		g.policy = p
	}
}

// Group concatenates several sources into one contiguous address space.
// Reads are routed to the segment that holds the requested position; the
// most recently used segment is cached.
//
// A Group is not safe for concurrent use.
type Group struct {
	segments []*Segment
	size     int64
	current  *Segment
	policy   Policy
}

// NewGroup returns a group over sources, in order. Zero-length sources are
// allowed.
func NewGroup(sources []Source, opts ...GroupOption) (*Group, error) {
	if len(sources) == 0 {
		return nil, errors.New("source: group needs at least one source")
	}

	g := &Group{
		segments: make([]*Segment, len(sources)),
		policy:   LinearPolicy{},
	}
	for _, opt := range opts {
		opt(g)
	}

	var total int64
	for i, src := range sources {
		n := src.Len()
		g.segments[i] = &Segment{
			Index:  i,
			Source: src,
			First:  total,
			Last:   total + n - 1,
		}
		total += n
	}
	g.size = total

	// The cache starts on the last segment.
	g.current = g.segments[len(g.segments)-1]

	return g, nil
}

// Segments returns the segments of the group in order.
func (g *Group) Segments() []*Segment { return g.segments }

// segmentFor returns the segment holding pos, switching the current segment
// if needed. It returns nil when pos is past the end.
func (g *Group) segmentFor(pos int64) (*Segment, error) {
	if pos >= g.size {
		return nil, nil
	}
	if g.current.contains(pos) {
		return g.current, nil
	}

	if err := g.policy.Deactivated(g.current); err != nil {
		return nil, fmt.Errorf("source: releasing segment %d: %w", g.current.Index, err)
	}

	start := g.policy.StartIndex(pos)
	if start < 0 {
		start = 0
	}
	for i := start; i < len(g.segments); i++ {
		seg := g.segments[i]
		if !seg.contains(pos) {
			continue
		}
		g.current = seg
		if err := g.policy.Activated(seg); err != nil {
			return nil, fmt.Errorf("source: activating segment %d: %w", seg.Index, err)
		}
		return seg, nil
	}

	return nil, fmt.Errorf("source: no segment holds position %d (search started at %d)", pos, start)
}

// ByteAt returns the byte at pos.
func (g *Group) ByteAt(pos int64) (byte, error) {
	if err := checkPos(pos, g.size); err != nil {
		return 0, err
	}
	seg, err := g.segmentFor(pos)
	if err != nil {
		return 0, err
	}
	if seg == nil {
		return 0, io.EOF
	}
	return seg.Source.ByteAt(pos - seg.First)
}

// ReadAt implements io.ReaderAt, reading across segment boundaries.
func (g *Group) ReadAt(p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := checkPos(off, g.size); err != nil {
		return 0, err
	}

	total := 0
	for total < len(p) {
		seg, err := g.segmentFor(off)
		if err != nil {
			return total, err
		}
		if seg == nil {
			break
		}

		n, err := seg.Source.ReadAt(clamp(p[total:], off-seg.First, seg.Len()), off-seg.First)
		total += n
		off += int64(n)
		if err != nil && !errors.Is(err, io.EOF) {
			return total, err
		}
		if n == 0 {
			break
		}
	}

	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// Len returns the total length of all segments.
func (g *Group) Len() int64 { return g.size }

// Close closes every segment, even when some fail, and returns all
// failures joined together.
func (g *Group) Close() error {
	var errs []error
	for _, seg := range g.segments {
		if err := seg.Source.Close(); err != nil {
			errs = append(errs, fmt.Errorf("source: closing segment %d: %w", seg.Index, err))
		}
	}
	return errors.Join(errs...)
}
