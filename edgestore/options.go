package edgestore

import (
	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/internal/fs"
	"github.com/zhk8111/megahit/resource"
)

const defaultBufferSize = 1 << 16

type writerOptions struct {
	numBuckets int
	bufferSize int
	fs         fs.FileSystem
	logger     *megahit.Logger
	metrics    megahit.MetricsCollector
	rc         *resource.Controller
}

// WriterOption configures a Writer.
type WriterOption func(*writerOptions)

// WithBuckets selects sorted mode with n buckets.
// n == 0 (the default) selects unsorted mode.
func WithBuckets(n int) WriterOption {
	return func(o *writerOptions) {
		o.numBuckets = n
	}
}

// WithBufferSize sets the per-thread write buffer size in bytes.
func WithBufferSize(n int) WriterOption {
	return func(o *writerOptions) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithWriteRateLimit caps the combined write throughput of all thread files.
// If 0, writes are unlimited.
func WithWriteRateLimit(bytesPerSec int64) WriterOption {
	return func(o *writerOptions) {
		if bytesPerSec > 0 {
			o.rc = resource.NewController(resource.Config{
				IOLimitBytesPerSec: bytesPerSec,
			})
		}
	}
}

// WithFileSystem sets the file system for the writer.
// This is primarily used for testing and fault injection.
func WithFileSystem(fsys fs.FileSystem) WriterOption {
	return func(o *writerOptions) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithWriterLogger sets the logger for the writer.
func WithWriterLogger(l *megahit.Logger) WriterOption {
	return func(o *writerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWriterMetrics sets the metrics collector for the writer.
func WithWriterMetrics(mc megahit.MetricsCollector) WriterOption {
	return func(o *writerOptions) {
		if mc != nil {
			o.metrics = mc
		}
	}
}

type readerOptions struct {
	fs     fs.FileSystem
	logger *megahit.Logger
	rc     *resource.Controller
}

// ReaderOption configures a Reader.
type ReaderOption func(*readerOptions)

// WithMemoryLimit caps the total bytes a reader may map.
// If 0, mappings are unlimited.
func WithMemoryLimit(bytes int64) ReaderOption {
	return func(o *readerOptions) {
		if bytes > 0 {
			o.rc = resource.NewController(resource.Config{
				MemoryLimitBytes: bytes,
			})
		}
	}
}

// WithResourceController shares a resource controller between readers, so
// their mappings count against one budget.
func WithResourceController(rc *resource.Controller) ReaderOption {
	return func(o *readerOptions) {
		o.rc = rc
	}
}

// WithReaderFileSystem sets the file system used to read the footer.
func WithReaderFileSystem(fsys fs.FileSystem) ReaderOption {
	return func(o *readerOptions) {
		if fsys != nil {
			o.fs = fsys
		}
	}
}

// WithReaderLogger sets the logger for the reader.
func WithReaderLogger(l *megahit.Logger) ReaderOption {
	return func(o *readerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
