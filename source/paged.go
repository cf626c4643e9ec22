package source

import (
	"container/list"
	"errors"
	"fmt"
	"os"
)

const (
	// DefaultPageSize is the size of each mapped page of a Paged source.
	DefaultPageSize = 1 << 22 // 4 MiB

	// DefaultMaxOpenPages bounds how many pages of a Paged source are
	// mapped at once.
	DefaultMaxOpenPages = 16
)

// MRUPolicy is a Group policy for groups of equally sized Mapped pages. It
// finds a page by division and keeps at most MaxOpen pages mapped, unmapping
// the least recently used one when another page is activated.
type MRUPolicy struct {
	pageSize int64
	maxOpen  int
	order    *list.List // front is most recently used
	elems    map[*Segment]*list.Element
}

// NewMRUPolicy returns a policy for pages of pageSize bytes with at most
// maxOpen of them mapped at a time.
func NewMRUPolicy(pageSize int64, maxOpen int) *MRUPolicy {
	if maxOpen < 1 {
		maxOpen = 1
	}
	return &MRUPolicy{
		pageSize: pageSize,
		maxOpen:  maxOpen,
		order:    list.New(),
		elems:    make(map[*Segment]*list.Element),
	}
}

// StartIndex returns the page holding pos.
func (p *MRUPolicy) StartIndex(pos int64) int {
	return int(pos / p.pageSize)
}

// Activated marks seg as most recently used, unmaps the oldest page when
// too many are open, and maps seg.
func (p *MRUPolicy) Activated(seg *Segment) error {
	if e, ok := p.elems[seg]; ok {
		p.order.MoveToFront(e)
	} else {
		p.elems[seg] = p.order.PushFront(seg)
	}

	var err error
	for p.order.Len() > p.maxOpen {
		oldest := p.order.Back()
		old := p.order.Remove(oldest).(*Segment)
		delete(p.elems, old)
		if cerr := old.Source.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("unmapping page %d: %w", old.Index, cerr))
		}
	}

	if m, ok := seg.Source.(*Mapped); ok {
		if oerr := m.Open(); oerr != nil {
			err = errors.Join(err, oerr)
		}
	}
	return err
}

// Deactivated does nothing; pages stay mapped until evicted.
func (p *MRUPolicy) Deactivated(*Segment) error { return nil }

// Open returns the number of pages the policy currently tracks as mapped.
func (p *MRUPolicy) Open() int { return p.order.Len() }

// Paged is a Source over a whole file split into memory-mapped pages. Only
// a bounded number of pages are mapped at a time. Closing a Paged unmaps
// every page and closes the file.
type Paged struct {
	*Group
	file   *os.File
	policy *MRUPolicy
}

// NewPaged takes ownership of f and splits it into pages of pageSize bytes,
// keeping at most maxOpen of them mapped. Non-positive arguments select the
// defaults.
func NewPaged(f *os.File, pageSize int64, maxOpen int) (*Paged, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxOpen <= 0 {
		maxOpen = DefaultMaxOpenPages
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}
	size := info.Size()
	if size == 0 {
		return nil, fmt.Errorf("source: cannot map empty file %s", f.Name())
	}

	var pages []Source
	for off := int64(0); off < size; off += pageSize {
		n := pageSize
		if size-off < n {
			n = size - off
		}
		m, err := NewMapped(f, off, n)
		if err != nil {
			return nil, err
		}
		pages = append(pages, m)
	}

	policy := NewMRUPolicy(pageSize, maxOpen)
	g, err := NewGroup(pages, WithPolicy(policy))
	if err != nil {
		return nil, err
	}

	// The group starts on its last segment, so map that page now. A platform
	// that cannot map files fails here rather than on the first read.
	last := g.Segments()[len(pages)-1]
	if err := policy.Activated(last); err != nil {
		g.Close()
		return nil, err
	}
	return &Paged{Group: g, file: f, policy: policy}, nil
}

// OpenPages returns how many pages are mapped right now.
func (p *Paged) OpenPages() int {
	n := 0
	for _, seg := range p.Segments() {
		if seg.Source.(*Mapped).IsOpen() {
			n++
		}
	}
	return n
}

// Close unmaps every page and closes the file.
func (p *Paged) Close() error {
	if p.file == nil {
		return nil
	}
	err := p.Group.Close()
	err = errors.Join(err, p.file.Close())
	p.file = nil
	return err
}
