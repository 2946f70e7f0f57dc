package edgestore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/internal/fs"
)

func TestNewWriter_Validation(t *testing.T) {
	prefix := testPrefix(t)
	tests := []struct {
		name    string
		prefix  string
		k       int
		threads int
		opts    []WriterOption
	}{
		{"empty prefix", "", 31, 1, nil},
		{"negative k", prefix, -1, 1, nil},
		{"no threads", prefix, 31, 0, nil},
		{"negative buckets", prefix, 31, 1, []WriterOption{WithBuckets(-2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWriter(tt.prefix, tt.k, tt.threads, tt.opts...)
			assert.ErrorIs(t, err, megahit.ErrMisuse)
		})
	}
}

func TestNewWriter_CreatesDirectory(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "k21", "tmp", "run")
	w, err := NewWriter(prefix, 21, 1)
	require.NoError(t, err)
	require.NoError(t, w.WriteUnsorted(edgeOf(w.WordsPerEdge(), 1), 0))
	require.NoError(t, w.Close())

	_, err = os.Stat(InfoFileName(prefix))
	assert.NoError(t, err)
}

func TestWriter_FooterSorted(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 31, 2, WithBuckets(3))
	require.NoError(t, err)
	assert.Equal(t, 3, w.WordsPerEdge())
	assert.False(t, w.IsUnsorted())
	assert.True(t, w.IsOpen())

	require.NoError(t, w.Write(edgeOf(3, 1), 0, 0))
	require.NoError(t, w.Write(edgeOf(3, 2), 0, 0))
	require.NoError(t, w.Write(edgeOf(3, 3), 1, 1))
	require.NoError(t, w.Write(edgeOf(3, 4), 2, 0))
	require.NoError(t, w.Close())
	assert.False(t, w.IsOpen())

	footer, err := os.ReadFile(InfoFileName(prefix))
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"kmer_size 31",
		"words_per_edge 3",
		"num_threads 2",
		"num_bucket 3",
		"num_edges 4",
		"0 0 0 2",
		"1 1 0 1",
		"2 0 2 1",
		"",
	}, "\n"), string(footer))

	st, err := os.Stat(FileName(prefix, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(3*3*4), st.Size())

	_, err = os.Stat(InfoFileName(prefix) + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_FooterUnsorted(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 0, 3)
	require.NoError(t, err)
	assert.True(t, w.IsUnsorted())
	assert.Equal(t, 1, w.WordsPerEdge())

	require.NoError(t, w.WriteUnsorted(edgeOf(1, 1), 2))
	require.NoError(t, w.WriteUnsorted(edgeOf(1, 2), 0))
	require.NoError(t, w.WriteUnsorted(edgeOf(1, 3), 2))
	require.NoError(t, w.Close())

	footer, err := os.ReadFile(InfoFileName(prefix))
	require.NoError(t, err)
	assert.Equal(t, "kmer_size 0\nwords_per_edge 1\nnum_threads 3\nnum_bucket 0\nnum_edges 3\n0 1\n1 0\n2 2\n", string(footer))

	info := w.Info()
	require.NotNil(t, info)
	assert.Equal(t, []int64{1, 0, 2}, info.FileEdges)
}

func TestWriter_BucketClaimedTwice(t *testing.T) {
	w, err := NewWriter(testPrefix(t), 15, 2, WithBuckets(4))
	require.NoError(t, err)
	defer w.Close()

	edge := edgeOf(w.WordsPerEdge(), 1)
	require.NoError(t, w.Write(edge, 1, 0))

	err = w.Write(edge, 1, 1)
	require.ErrorIs(t, err, megahit.ErrInvariant)
	var claimed *BucketClaimedError
	require.ErrorAs(t, err, &claimed)
	assert.Equal(t, 1, claimed.Bucket)
	assert.Equal(t, 0, claimed.Owner)
	assert.Equal(t, 1, claimed.Thread)

	// A thread returning to a bucket it already left is also a second claim.
	require.NoError(t, w.Write(edge, 2, 0))
	assert.ErrorIs(t, w.Write(edge, 1, 0), megahit.ErrInvariant)
}

func TestWriter_Misuse(t *testing.T) {
	sorted, err := NewWriter(testPrefix(t), 31, 2, WithBuckets(2))
	require.NoError(t, err)
	unsorted, err := NewWriter(testPrefix(t), 31, 2)
	require.NoError(t, err)

	edge := edgeOf(3, 1)
	assert.ErrorIs(t, sorted.WriteUnsorted(edge, 0), megahit.ErrMisuse)
	assert.ErrorIs(t, unsorted.Write(edge, 0, 0), megahit.ErrMisuse)
	assert.ErrorIs(t, sorted.Write(edgeOf(2, 1), 0, 0), megahit.ErrMisuse)
	assert.ErrorIs(t, sorted.Write(edge, 2, 0), megahit.ErrInvariant)
	assert.ErrorIs(t, sorted.Write(edge, -1, 0), megahit.ErrInvariant)
	assert.ErrorIs(t, sorted.Write(edge, 0, 2), megahit.ErrInvariant)
	assert.ErrorIs(t, unsorted.WriteUnsorted(edge, -1), megahit.ErrInvariant)

	require.NoError(t, sorted.Close())
	require.NoError(t, sorted.Close(), "close is idempotent")
	assert.ErrorIs(t, sorted.Write(edge, 0, 0), megahit.ErrMisuse)

	require.NoError(t, unsorted.Close())
	assert.ErrorIs(t, unsorted.WriteUnsorted(edge, 0), megahit.ErrMisuse)
}

func TestWriter_ConcurrentProducers(t *testing.T) {
	const (
		threads          = 4
		bucketsPerThread = 16
		edgesPerBucket   = 50
	)
	prefix := testPrefix(t)
	metrics := &megahit.BasicMetricsCollector{}
	w, err := NewWriter(prefix, 31, threads,
		WithBuckets(threads*bucketsPerThread),
		WithBufferSize(64),
		WithWriterMetrics(metrics),
	)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for tid := 0; tid < threads; tid++ {
		wg.Add(1)
		go func(tid int) {
			defer wg.Done()
			// Interleaved bucket ownership: thread tid owns tid, tid+threads, ...
			for b := tid; b < threads*bucketsPerThread; b += threads {
				for i := 0; i < edgesPerBucket; i++ {
					if err := w.Write(edgeOf(3, uint32(b)), b, tid); err != nil {
						t.Errorf("write bucket %d: %v", b, err)
						return
					}
				}
			}
		}(tid)
	}
	wg.Wait()
	require.NoError(t, w.Close())

	info := w.Info()
	assert.Equal(t, int64(threads*bucketsPerThread*edgesPerBucket), info.NumEdges)
	assert.Equal(t, info.NumEdges, metrics.GetStats().EdgesWritten)
	for b, rec := range info.Partitions {
		assert.Equal(t, b%threads, rec.ThreadID)
		assert.Equal(t, int64(b/threads*edgesPerBucket), rec.StartingOffset)
		assert.Equal(t, int64(edgesPerBucket), rec.TotalNumber)
	}
}

func TestWriter_OpenFailureClosesCreatedFiles(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".edges.2", fs.Fault{FailOnOpen: true})

	_, err := NewWriter(testPrefix(t), 31, 4, WithFileSystem(ffs))
	assert.ErrorIs(t, err, megahit.ErrIO)
	assert.ErrorIs(t, err, fs.ErrInjected)
}

func TestWriter_WriteFailureSkipsFooter(t *testing.T) {
	prefix := testPrefix(t)
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".edges.1", fs.Fault{FailAfterBytes: 24})

	w, err := NewWriter(prefix, 31, 2, WithFileSystem(ffs), WithBufferSize(16))
	require.NoError(t, err)

	var writeErr error
	for i := 0; i < 10 && writeErr == nil; i++ {
		writeErr = w.WriteUnsorted(edgeOf(3, uint32(i)), 1)
	}
	require.ErrorIs(t, writeErr, megahit.ErrIO)
	// The failure is sticky for the thread.
	assert.ErrorIs(t, w.WriteUnsorted(edgeOf(3, 0), 1), megahit.ErrIO)
	require.NoError(t, w.WriteUnsorted(edgeOf(3, 0), 0))

	assert.ErrorIs(t, w.Close(), megahit.ErrIO)
	assert.Nil(t, w.Info())
	_, err = os.Stat(InfoFileName(prefix))
	assert.True(t, os.IsNotExist(err))
}

func TestWriter_FooterFailure(t *testing.T) {
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(".edges.info", fs.Fault{FailOnSync: true})

	w, err := NewWriter(testPrefix(t), 31, 1, WithFileSystem(ffs))
	require.NoError(t, err)
	require.NoError(t, w.WriteUnsorted(edgeOf(3, 1), 0))
	assert.ErrorIs(t, w.Close(), megahit.ErrIO)
}

func TestWriter_RateLimited(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 31, 1, WithWriteRateLimit(1<<30), WithBufferSize(24))
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		require.NoError(t, w.WriteUnsorted(edgeOf(3, uint32(i)), 0))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, int64(20), w.Info().NumEdges)
}
