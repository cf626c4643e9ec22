//go:build unix

package source

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// region is a read-only mapping of part of a file. data is the requested
// range; mapping is the page-aligned block the kernel returned.
type region struct {
	mapping []byte
	data    []byte
}

// mapRegion maps [offset, offset+length) of f read-only.
func mapRegion(f *os.File, offset, length int64) (*region, error) {
	page := int64(os.Getpagesize())
	aligned := offset - offset%page
	delta := offset - aligned
	if length+delta > math.MaxInt {
		return nil, fmt.Errorf("source: region of %d bytes is too large to map", length)
	}

	rc, err := f.SyscallConn()
	if err != nil {
		return nil, err
	}

	var mapping []byte
	var mapErr error
	err = rc.Control(func(fd uintptr) {
		mapping, mapErr = unix.Mmap(int(fd), aligned, int(length+delta), unix.PROT_READ, unix.MAP_SHARED)
	})
	if err != nil {
		return nil, err
	}
	if mapErr != nil {
		return nil, &os.PathError{Op: "mmap", Path: f.Name(), Err: mapErr}
	}

	return &region{mapping: mapping, data: mapping[delta : delta+length]}, nil
}

func (r *region) unmap() error {
	return unix.Munmap(r.mapping)
}
