package mmap

import "os"

var pageSize = os.Getpagesize()

// Region represents a subsection of a memory mapping.
// It does not own the memory; the parent Mapping does.
type Region struct {
	parent *Mapping
	offset int
	size   int
}

// Region creates a new view into the mapping.
func (m *Mapping) Region(offset, size int) (*Region, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if offset < 0 || size < 0 || offset > m.size-size {
		return nil, ErrOutOfBounds
	}
	return &Region{
		parent: m,
		offset: offset,
		size:   size,
	}, nil
}

// Offset returns the region's start within the parent mapping.
func (r *Region) Offset() int {
	return r.offset
}

// Size returns the region's length in bytes.
func (r *Region) Size() int {
	return r.size
}

// Bytes returns the byte slice for this region.
// The slice is valid only until the parent Mapping is closed.
func (r *Region) Bytes() []byte {
	if r.parent.closed.Load() {
		return nil
	}
	return r.parent.data[r.offset : r.offset+r.size]
}

// Advise applies a to the pages covering the region.
func (r *Region) Advise(a Advice) error {
	if r.parent.closed.Load() {
		return ErrClosed
	}
	if r.size == 0 {
		return nil
	}
	// madvise wants a page-aligned start; the mapping itself is page-aligned.
	start := r.offset - r.offset%pageSize
	return advise(r.parent.data[start:r.offset+r.size], a)
}
