//go:build !unix

package source

import (
	"fmt"
	"os"
	"runtime"
)

type region struct {
	data []byte
}

func mapRegion(f *os.File, offset, length int64) (*region, error) {
	return nil, fmt.Errorf("map failed: memory mapping is not available on %s", runtime.GOOS)
}

func (r *region) unmap() error { return nil }
