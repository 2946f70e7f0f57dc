package edgestore

import (
	"errors"
	"fmt"
	"io"

	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/internal/conv"
	"github.com/zhk8111/megahit/internal/fs"
	"github.com/zhk8111/megahit/internal/mmap"
	"github.com/zhk8111/megahit/resource"
)

// Reader replays a store written by Writer from read-only memory mappings.
//
// The mappings may be read by any number of goroutines, but the Reader's
// built-in cursor (NextSortedEdge, NextUnsortedEdge) is single-goroutine
// state. Use SortedCursor or UnsortedCursor for parallel replay.
type Reader struct {
	prefix      string
	info        *Info
	recordBytes int
	maps        []*mmap.Mapping
	reserved    int64
	rc          *resource.Controller
	logger      *megahit.Logger

	sorted   *SortedCursor
	unsorted *UnsortedCursor
	closed   bool
}

// OpenReader parses the footer of the store at prefix and maps every thread
// file read-only. A file shorter than the edge volume its footer promises
// is an ErrIO error.
func OpenReader(prefix string, opts ...ReaderOption) (*Reader, error) {
	o := readerOptions{
		fs:     fs.Default,
		logger: megahit.NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := readInfo(o.fs, prefix)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		prefix:      prefix,
		info:        info,
		recordBytes: 4 * info.WordsPerEdge,
		maps:        make([]*mmap.Mapping, 0, info.NumThreads),
		rc:          o.rc,
		logger:      o.logger,
	}
	if err := r.initFiles(); err != nil {
		r.release()
		return nil, err
	}

	if info.IsUnsorted() {
		r.unsorted = r.newUnsortedCursor(0, info.NumThreads)
	} else {
		r.sorted = r.newSortedCursor(0, info.NumBuckets)
	}

	o.logger.Debug("edge reader opened",
		"prefix", prefix,
		"k", info.KmerSize,
		"threads", info.NumThreads,
		"buckets", info.NumBuckets,
		"edges", info.NumEdges,
		"mapped_bytes", r.reserved,
		"memory_limit", r.rc.MemoryLimit(),
	)
	return r, nil
}

func (r *Reader) initFiles() error {
	for i := 0; i < r.info.NumThreads; i++ {
		path := FileName(r.prefix, i)
		need, err := conv.MulInt64(r.info.FileEdges[i], int64(r.recordBytes))
		if err != nil {
			return &FooterError{Path: InfoFileName(r.prefix), Msg: fmt.Sprintf("thread %d volume: %v", i, err)}
		}

		m, err := mmap.Open(path)
		if err != nil {
			return ioErr("map", path, err)
		}
		r.maps = append(r.maps, m)

		if int64(m.Size()) < need {
			return ioErr("map", path, fmt.Errorf("file has %d bytes, footer promises %d", m.Size(), need))
		}
		if err := r.rc.AcquireMemory(int64(m.Size())); err != nil {
			return fmt.Errorf("%w: map %s: %w", megahit.ErrMisuse, path, err)
		}
		r.reserved += int64(m.Size())
	}
	return nil
}

// Info returns the parsed footer.
func (r *Reader) Info() *Info { return r.info }

// KmerSize returns the k-mer size of the store.
func (r *Reader) KmerSize() int { return r.info.KmerSize }

// WordsPerEdge returns the number of 32-bit words per record.
func (r *Reader) WordsPerEdge() int { return r.info.WordsPerEdge }

// NumEdges returns the total number of edges in the store.
func (r *Reader) NumEdges() int64 { return r.info.NumEdges }

// NumBuckets returns the bucket count; 0 for unsorted stores.
func (r *Reader) NumBuckets() int { return r.info.NumBuckets }

// NumFiles returns the number of thread files.
func (r *Reader) NumFiles() int { return r.info.NumThreads }

// IsUnsorted reports whether the store has no bucket partitioning.
// NextSortedEdge must not be used on unsorted stores.
func (r *Reader) IsUnsorted() bool { return r.info.IsUnsorted() }

// NextSortedEdge returns the next edge in ascending bucket order, or io.EOF
// once every bucket is exhausted.
func (r *Reader) NextSortedEdge() (Record, error) {
	if r.closed {
		return nil, misusef("read from closed edge reader %s", r.prefix)
	}
	if r.sorted == nil {
		return nil, misusef("NextSortedEdge on unsorted store %s", r.prefix)
	}
	return r.sorted.Next()
}

// NextUnsortedEdge returns the next edge in raw file order, or io.EOF after
// the last file.
func (r *Reader) NextUnsortedEdge() (Record, error) {
	if r.closed {
		return nil, misusef("read from closed edge reader %s", r.prefix)
	}
	if r.unsorted == nil {
		return nil, misusef("NextUnsortedEdge on sorted store %s", r.prefix)
	}
	return r.unsorted.Next()
}

// ForEach replays every remaining edge of the reader's own cursor in the
// store's natural order, stopping at the first error fn returns.
func (r *Reader) ForEach(fn func(Record) error) error {
	next := r.NextSortedEdge
	if r.IsUnsorted() {
		next = r.NextUnsortedEdge
	}
	for {
		rec, err := next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
}

// SortedCursor returns an independent cursor over buckets [from, to).
func (r *Reader) SortedCursor(from, to int) (*SortedCursor, error) {
	if r.closed {
		return nil, misusef("cursor on closed edge reader %s", r.prefix)
	}
	if r.IsUnsorted() {
		return nil, misusef("sorted cursor on unsorted store %s", r.prefix)
	}
	if from < 0 || to > r.info.NumBuckets || from > to {
		return nil, misusef("bucket range [%d, %d) outside [0, %d)", from, to, r.info.NumBuckets)
	}
	return r.newSortedCursor(from, to), nil
}

// UnsortedCursor returns an independent cursor over thread files [from, to).
func (r *Reader) UnsortedCursor(from, to int) (*UnsortedCursor, error) {
	if r.closed {
		return nil, misusef("cursor on closed edge reader %s", r.prefix)
	}
	if !r.IsUnsorted() {
		return nil, misusef("unsorted cursor on sorted store %s", r.prefix)
	}
	if from < 0 || to > r.info.NumThreads || from > to {
		return nil, misusef("file range [%d, %d) outside [0, %d)", from, to, r.info.NumThreads)
	}
	return r.newUnsortedCursor(from, to), nil
}

// Close unmaps every file. It is idempotent. Records and cursors obtained
// from the reader must not be used afterwards.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.release()
}

func (r *Reader) release() error {
	var errs []error
	for _, m := range r.maps {
		if err := m.Close(); err != nil {
			errs = append(errs, ioErr("unmap", m.Path(), err))
		}
	}
	r.rc.ReleaseMemory(r.reserved)
	r.reserved = 0
	r.maps = nil
	return errors.Join(errs...)
}
