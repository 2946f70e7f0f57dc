package edgestore

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"path/filepath"
	"sync/atomic"

	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/internal/fs"
	"github.com/zhk8111/megahit/kmer"
)

// Writer persists edges produced by numThreads concurrent producers into one
// file per thread.
//
// Write and WriteUnsorted may be called concurrently as long as every
// goroutine uses its own thread id. Close must only be called after all
// producers have returned.
type Writer struct {
	prefix       string
	kmerSize     int
	wordsPerEdge int
	numThreads   int
	numBuckets   int

	opts writerOptions

	files       []fs.File
	bufs        []*bufio.Writer
	scratch     [][]byte
	errs        []error // sticky per-thread write error
	curBucket   []int
	curNumEdges []int64
	numUnsorted []int64
	partitions  []PartitionRecord

	opened atomic.Bool
	info   *Info
}

// NewWriter creates the per-thread files of a store at prefix.
// Every file is created up front; if any cannot be opened, those already
// created are closed and an ErrIO error is returned.
func NewWriter(prefix string, kmerSize, numThreads int, opts ...WriterOption) (*Writer, error) {
	o := writerOptions{
		bufferSize: defaultBufferSize,
		fs:         fs.Default,
		logger:     megahit.NoopLogger(),
		metrics:    megahit.NoopMetricsCollector{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case prefix == "":
		return nil, misusef("empty file prefix")
	case kmerSize < 0:
		return nil, misusef("negative k-mer size %d", kmerSize)
	case numThreads <= 0:
		return nil, misusef("thread count must be positive, got %d", numThreads)
	case o.numBuckets < 0:
		return nil, misusef("negative bucket count %d", o.numBuckets)
	}

	w := &Writer{
		prefix:       prefix,
		kmerSize:     kmerSize,
		wordsPerEdge: kmer.WordsPerEdge(kmerSize),
		numThreads:   numThreads,
		numBuckets:   o.numBuckets,
		opts:         o,
		files:        make([]fs.File, numThreads),
		bufs:         make([]*bufio.Writer, numThreads),
		scratch:      make([][]byte, numThreads),
		errs:         make([]error, numThreads),
		curBucket:    make([]int, numThreads),
		curNumEdges:  make([]int64, numThreads),
	}
	if w.numBuckets == 0 {
		w.numUnsorted = make([]int64, numThreads)
	} else {
		w.partitions = newPartitions(w.numBuckets)
	}

	if dir := filepath.Dir(prefix); dir != "." {
		if err := o.fs.MkdirAll(dir, 0o755); err != nil {
			return nil, ioErr("mkdir", dir, err)
		}
	}
	for i := 0; i < numThreads; i++ {
		path := FileName(prefix, i)
		f, err := fs.Create(o.fs, path)
		if err != nil {
			for _, opened := range w.files[:i] {
				opened.Close()
			}
			return nil, ioErr("create", path, err)
		}
		w.files[i] = f
		w.bufs[i] = bufio.NewWriterSize(o.rc.ThrottledWriter(context.Background(), f), o.bufferSize)
		w.scratch[i] = make([]byte, 4*w.wordsPerEdge)
		w.curBucket[i] = UnassignedThread
	}
	w.opened.Store(true)

	w.opts.logger.Debug("edge writer opened",
		"prefix", prefix,
		"k", kmerSize,
		"threads", numThreads,
		"buckets", w.numBuckets,
	)
	return w, nil
}

// KmerSize returns the k-mer size.
func (w *Writer) KmerSize() int { return w.kmerSize }

// WordsPerEdge returns the number of 32-bit words per edge record.
func (w *Writer) WordsPerEdge() int { return w.wordsPerEdge }

// NumThreads returns the number of producer threads.
func (w *Writer) NumThreads() int { return w.numThreads }

// NumBuckets returns the bucket count; 0 in unsorted mode.
func (w *Writer) NumBuckets() int { return w.numBuckets }

// IsUnsorted reports whether the writer has no bucket partitioning.
func (w *Writer) IsUnsorted() bool { return w.numBuckets == 0 }

// IsOpen reports whether the writer accepts edges.
func (w *Writer) IsOpen() bool { return w.opened.Load() }

// Info returns the footer written by Close, or nil while the writer is open.
func (w *Writer) Info() *Info { return w.info }

// Write appends edge to thread tid's file as part of bucket.
//
// The first write of a bucket stamps its PartitionRecord with tid and the
// thread's current edge count. Claiming a bucket that already has an owner
// fails with a *BucketClaimedError.
func (w *Writer) Write(edge []uint32, bucket, tid int) error {
	if err := w.check(edge, tid); err != nil {
		return err
	}
	if w.IsUnsorted() {
		return misusef("Write on unsorted writer, use WriteUnsorted")
	}
	if bucket < 0 || bucket >= w.numBuckets {
		return invariantf("bucket %d outside [0, %d)", bucket, w.numBuckets)
	}

	rec := &w.partitions[bucket]
	if bucket != w.curBucket[tid] {
		if rec.Assigned() {
			return &BucketClaimedError{Bucket: bucket, Owner: rec.ThreadID, Thread: tid}
		}
		rec.ThreadID = tid
		rec.StartingOffset = w.curNumEdges[tid]
		w.curBucket[tid] = bucket
	}

	if err := w.append(edge, tid); err != nil {
		return err
	}
	w.curNumEdges[tid]++
	rec.TotalNumber++
	return nil
}

// WriteUnsorted appends edge to thread tid's file without partition bookkeeping.
func (w *Writer) WriteUnsorted(edge []uint32, tid int) error {
	if err := w.check(edge, tid); err != nil {
		return err
	}
	if !w.IsUnsorted() {
		return misusef("WriteUnsorted on writer with %d buckets, use Write", w.numBuckets)
	}
	if err := w.append(edge, tid); err != nil {
		return err
	}
	w.numUnsorted[tid]++
	return nil
}

func (w *Writer) check(edge []uint32, tid int) error {
	if !w.opened.Load() {
		return misusef("write to closed edge writer %s", w.prefix)
	}
	if tid < 0 || tid >= w.numThreads {
		return invariantf("thread %d outside [0, %d)", tid, w.numThreads)
	}
	if len(edge) != w.wordsPerEdge {
		return misusef("edge has %d words, store expects %d", len(edge), w.wordsPerEdge)
	}
	return nil
}

func (w *Writer) append(edge []uint32, tid int) error {
	if err := w.errs[tid]; err != nil {
		return err
	}
	buf := w.scratch[tid]
	for i, word := range edge {
		binary.LittleEndian.PutUint32(buf[4*i:], word)
	}
	if _, err := w.bufs[tid].Write(buf); err != nil {
		w.errs[tid] = ioErr("write", FileName(w.prefix, tid), err)
		return w.errs[tid]
	}
	return nil
}

// Close flushes and closes every thread file and writes the footer.
// It is idempotent. If any data file fails to flush or close, no footer is
// written and the store is unreadable.
func (w *Writer) Close() error {
	if !w.opened.Swap(false) {
		return nil
	}

	var errs []error
	for i, f := range w.files {
		path := FileName(w.prefix, i)
		if w.errs[i] != nil {
			errs = append(errs, w.errs[i])
		} else if err := w.bufs[i].Flush(); err != nil {
			errs = append(errs, ioErr("flush", path, err))
		}
		if err := f.Close(); err != nil {
			errs = append(errs, ioErr("close", path, err))
		}
	}

	info := w.buildInfo()
	err := errors.Join(errs...)
	if err == nil {
		err = w.writeInfo(info)
	}
	if err == nil {
		w.info = info
		w.opts.metrics.RecordEdgesWritten(info.NumEdges)
	}
	w.opts.logger.WithPrefix(w.prefix).LogStoreClosed(context.Background(), info.NumEdges, w.IsUnsorted(), err)

	w.files = nil
	w.bufs = nil
	w.scratch = nil
	w.curBucket = nil
	w.curNumEdges = nil
	w.numUnsorted = nil
	w.partitions = nil
	return err
}

func (w *Writer) buildInfo() *Info {
	info := &Info{
		KmerSize:     w.kmerSize,
		WordsPerEdge: w.wordsPerEdge,
		NumThreads:   w.numThreads,
		NumBuckets:   w.numBuckets,
		FileEdges:    make([]int64, w.numThreads),
	}
	if w.IsUnsorted() {
		copy(info.FileEdges, w.numUnsorted)
		for _, n := range w.numUnsorted {
			info.NumEdges += n
		}
		return info
	}
	info.Partitions = append([]PartitionRecord(nil), w.partitions...)
	for _, p := range w.partitions {
		info.NumEdges += p.TotalNumber
	}
	copy(info.FileEdges, w.curNumEdges)
	return info
}

// writeInfo writes the footer to a temporary file and renames it into place,
// so a reader never observes a partial footer.
func (w *Writer) writeInfo(info *Info) error {
	path := InfoFileName(w.prefix)
	tmp := path + ".tmp"
	f, err := fs.Create(w.opts.fs, tmp)
	if err != nil {
		return ioErr("create", tmp, err)
	}
	if _, err := info.WriteTo(f); err != nil {
		f.Close()
		w.opts.fs.Remove(tmp)
		return ioErr("write", tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		w.opts.fs.Remove(tmp)
		return ioErr("sync", tmp, err)
	}
	if err := f.Close(); err != nil {
		w.opts.fs.Remove(tmp)
		return ioErr("close", tmp, err)
	}
	if err := w.opts.fs.Rename(tmp, path); err != nil {
		return ioErr("rename", tmp, err)
	}
	return nil
}
