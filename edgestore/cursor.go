package edgestore

import (
	"errors"
	"io"

	"github.com/zhk8111/megahit/internal/conv"
	"github.com/zhk8111/megahit/internal/mmap"
)

// SortedCursor replays the buckets of a range in ascending order.
// It is forward-only and single-pass; it is not safe for concurrent use.
type SortedCursor struct {
	r      *Reader
	bucket int
	end    int
	cnt    int64
	vol    int64
	data   []byte
}

func (r *Reader) newSortedCursor(from, to int) *SortedCursor {
	return &SortedCursor{r: r, bucket: from - 1, end: to}
}

// Bucket returns the bucket of the most recently returned edge.
func (c *SortedCursor) Bucket() int {
	return c.bucket
}

// Next returns the next edge, or io.EOF once the range is exhausted.
// Unassigned buckets are skipped; within a bucket edges come in write order.
func (c *SortedCursor) Next() (Record, error) {
	if c.r.closed {
		return nil, misusef("read from closed edge reader %s", c.r.prefix)
	}
	for c.cnt >= c.vol {
		if c.bucket >= c.end {
			return nil, io.EOF
		}
		c.bucket++
		for c.bucket < c.end && !c.r.info.Partitions[c.bucket].Assigned() {
			c.bucket++
		}
		if c.bucket >= c.end {
			c.data = nil
			return nil, io.EOF
		}

		rec := c.r.info.Partitions[c.bucket]
		data, err := c.r.view(rec.ThreadID, rec.StartingOffset, rec.TotalNumber)
		if err != nil {
			return nil, err
		}
		c.data = data
		c.cnt = 0
		c.vol = rec.TotalNumber
	}
	rec, rest, err := c.r.split(c.data)
	if err != nil {
		return nil, err
	}
	c.data = rest
	c.cnt++
	return rec, nil
}

// UnsortedCursor replays a range of thread files in index order.
// It is forward-only and single-pass; it is not safe for concurrent use.
type UnsortedCursor struct {
	r    *Reader
	file int
	end  int
	cnt  int64
	vol  int64
	data []byte
}

func (r *Reader) newUnsortedCursor(from, to int) *UnsortedCursor {
	return &UnsortedCursor{r: r, file: from - 1, end: to}
}

// File returns the thread file of the most recently returned edge.
func (c *UnsortedCursor) File() int {
	return c.file
}

// Next returns the next edge, or io.EOF after the last file of the range.
func (c *UnsortedCursor) Next() (Record, error) {
	if c.r.closed {
		return nil, misusef("read from closed edge reader %s", c.r.prefix)
	}
	for c.cnt >= c.vol {
		if c.file >= c.end {
			return nil, io.EOF
		}
		c.file++
		if c.file >= c.end {
			c.data = nil
			return nil, io.EOF
		}

		n := c.r.info.FileEdges[c.file]
		data, err := c.r.view(c.file, 0, n)
		if err != nil {
			return nil, err
		}
		c.data = data
		c.cnt = 0
		c.vol = n
	}
	rec, rest, err := c.r.split(c.data)
	if err != nil {
		return nil, err
	}
	c.data = rest
	c.cnt++
	return rec, nil
}

// view returns count records of thread tid starting at record offset, after
// advising the kernel that they will be read sequentially.
func (r *Reader) view(tid int, offset, count int64) ([]byte, error) {
	off, err := r.byteOffset(offset)
	if err != nil {
		return nil, err
	}
	size, err := r.byteOffset(count)
	if err != nil {
		return nil, err
	}

	m := r.maps[tid]
	region, err := m.Region(off, size)
	switch {
	case errors.Is(err, mmap.ErrClosed):
		return nil, misusef("read from closed edge reader %s", r.prefix)
	case err != nil:
		return nil, invariantf("records [%d, %d) of %s outside the mapping", offset, offset+count, m.Path())
	}
	if err := region.Advise(mmap.Sequential); err != nil {
		r.logger.Debug("madvise failed", "path", m.Path(), "error", err)
	}
	return region.Bytes(), nil
}

func (r *Reader) byteOffset(records int64) (int, error) {
	b, err := conv.MulInt64(records, int64(r.recordBytes))
	if err != nil {
		return 0, invariantf("record offset %d: %v", records, err)
	}
	n, err := conv.Int64ToInt(b)
	if err != nil {
		return 0, invariantf("record offset %d: %v", records, err)
	}
	return n, nil
}

// split cuts the next record off data, refusing to run past the view.
func (r *Reader) split(data []byte) (Record, []byte, error) {
	if len(data) < r.recordBytes {
		return nil, nil, invariantf("cursor ran past the mapped extent of %s", r.prefix)
	}
	return Record(data[:r.recordBytes:r.recordBytes]), data[r.recordBytes:], nil
}
