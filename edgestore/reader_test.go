package edgestore

import (
	"errors"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/resource"
	"golang.org/x/sync/errgroup"
)

// writeScenario writes 2 threads over 3 buckets: thread 0 writes bucket 0
// (2 edges) then bucket 2 (1 edge), thread 1 writes bucket 1 (3 edges).
func writeScenario(t *testing.T, prefix string) {
	t.Helper()
	w, err := NewWriter(prefix, 31, 2, WithBuckets(3))
	require.NoError(t, err)
	require.NoError(t, w.Write(edgeOf(3, 1), 0, 0))
	require.NoError(t, w.Write(edgeOf(3, 2), 0, 0))
	require.NoError(t, w.Write(edgeOf(3, 3), 1, 1))
	require.NoError(t, w.Write(edgeOf(3, 4), 1, 1))
	require.NoError(t, w.Write(edgeOf(3, 5), 1, 1))
	require.NoError(t, w.Write(edgeOf(3, 6), 2, 0))
	require.NoError(t, w.Close())
}

func TestReader_SortedReplay(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 31, r.KmerSize())
	assert.Equal(t, 3, r.WordsPerEdge())
	assert.Equal(t, int64(6), r.NumEdges())
	assert.Equal(t, 3, r.NumBuckets())
	assert.Equal(t, 2, r.NumFiles())
	assert.False(t, r.IsUnsorted())

	got := drain(t, r.NextSortedEdge)
	require.Len(t, got, 6)
	for i, words := range got {
		assert.Equal(t, edgeOf(3, uint32(i+1)), words, "edge %d", i)
	}

	// Exhausted cursors keep reporting EOF.
	_, err = r.NextSortedEdge()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_SortedCursorBuckets(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()

	c, err := r.SortedCursor(0, 3)
	require.NoError(t, err)
	perBucket := map[int]int{}
	for {
		_, err := c.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		perBucket[c.Bucket()]++
	}
	assert.Equal(t, map[int]int{0: 2, 1: 3, 2: 1}, perBucket)

	c, err = r.SortedCursor(1, 2)
	require.NoError(t, err)
	assert.Len(t, drain(t, c.Next), 3)

	_, err = r.SortedCursor(2, 4)
	assert.ErrorIs(t, err, megahit.ErrMisuse)
	_, err = r.UnsortedCursor(0, 1)
	assert.ErrorIs(t, err, megahit.ErrMisuse)
}

func TestReader_SkipsEmptyBuckets(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 15, 2, WithBuckets(6))
	require.NoError(t, err)
	require.NoError(t, w.Write(edgeOf(2, 1), 1, 1))
	require.NoError(t, w.Write(edgeOf(2, 2), 4, 0))
	require.NoError(t, w.Close())

	info, err := ReadInfo(prefix)
	require.NoError(t, err)
	assert.False(t, info.Partitions[0].Assigned())
	assert.Equal(t, NewPartitionRecord(), info.Partitions[5])

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, [][]uint32{edgeOf(2, 1), edgeOf(2, 2)}, drain(t, r.NextSortedEdge))
}

func TestReader_EmptyStore(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 31, 3, WithBuckets(4))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, int64(0), r.NumEdges())
	assert.Empty(t, drain(t, r.NextSortedEdge))
}

func TestReader_UnsortedReplay(t *testing.T) {
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 63, 3)
	require.NoError(t, err)
	words := w.WordsPerEdge()
	require.NoError(t, w.WriteUnsorted(edgeOf(words, 10), 2))
	require.NoError(t, w.WriteUnsorted(edgeOf(words, 1), 0))
	require.NoError(t, w.WriteUnsorted(edgeOf(words, 11), 2))
	require.NoError(t, w.WriteUnsorted(edgeOf(words, 2), 0))
	require.NoError(t, w.Close())

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()
	assert.True(t, r.IsUnsorted())

	_, err = r.NextSortedEdge()
	assert.ErrorIs(t, err, megahit.ErrMisuse)

	// Files are replayed in index order; file 1 is empty.
	assert.Equal(t, [][]uint32{
		edgeOf(words, 1), edgeOf(words, 2), edgeOf(words, 10), edgeOf(words, 11),
	}, drain(t, r.NextUnsortedEdge))
}

func TestReader_ForEach(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()

	var tags []uint32
	require.NoError(t, r.ForEach(func(rec Record) error {
		assert.Equal(t, 3, rec.Len())
		tags = append(tags, rec.Word(0)/100)
		return nil
	}))
	assert.Equal(t, []uint32{1, 2, 3, 4, 5, 6}, tags)

	stop := errors.New("stop")
	r2, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r2.Close()
	n := 0
	err = r2.ForEach(func(Record) error {
		n++
		if n == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, n)
}

func TestReader_ParallelCursors(t *testing.T) {
	const buckets = 32
	prefix := testPrefix(t)
	w, err := NewWriter(prefix, 31, 4, WithBuckets(buckets))
	require.NoError(t, err)
	for b := 0; b < buckets; b++ {
		for i := 0; i <= b; i++ {
			require.NoError(t, w.Write(edgeOf(3, uint32(b)), b, b%4))
		}
	}
	require.NoError(t, w.Close())

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	defer r.Close()

	var (
		mu     sync.Mutex
		counts = make(map[uint32]int)
	)
	var g errgroup.Group
	for from := 0; from < buckets; from += 8 {
		c, err := r.SortedCursor(from, from+8)
		require.NoError(t, err)
		g.Go(func() error {
			local := make(map[uint32]int)
			for {
				rec, err := c.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				local[rec.Word(0)/100]++
			}
			mu.Lock()
			for k, v := range local {
				counts[k] += v
			}
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Len(t, counts, buckets)
	for b := 0; b < buckets; b++ {
		assert.Equal(t, b+1, counts[uint32(b)])
	}
}

func TestReader_Closed(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	r, err := OpenReader(prefix)
	require.NoError(t, err)
	c, err := r.SortedCursor(0, 3)
	require.NoError(t, err)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close is idempotent")

	_, err = r.NextSortedEdge()
	assert.ErrorIs(t, err, megahit.ErrMisuse)
	_, err = c.Next()
	assert.ErrorIs(t, err, megahit.ErrMisuse)
	_, err = r.SortedCursor(0, 1)
	assert.ErrorIs(t, err, megahit.ErrMisuse)
}

func TestReader_MissingFooter(t *testing.T) {
	_, err := OpenReader(testPrefix(t))
	assert.ErrorIs(t, err, megahit.ErrIO)
}

func TestReader_ShortFile(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)
	require.NoError(t, os.Truncate(FileName(prefix, 1), 20))

	_, err := OpenReader(prefix)
	assert.ErrorIs(t, err, megahit.ErrIO)
}

func TestReader_MissingDataFile(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)
	require.NoError(t, os.Remove(FileName(prefix, 0)))

	_, err := OpenReader(prefix)
	assert.ErrorIs(t, err, megahit.ErrIO)
}

func TestReader_MemoryLimit(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	_, err := OpenReader(prefix, WithMemoryLimit(16))
	assert.ErrorIs(t, err, megahit.ErrMisuse)
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)

	// 72 bytes in total are mapped; a shared budget of 100 admits one reader.
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	r1, err := OpenReader(prefix, WithResourceController(rc))
	require.NoError(t, err)
	assert.Equal(t, int64(72), rc.MemoryUsage())

	_, err = OpenReader(prefix, WithResourceController(rc))
	assert.ErrorIs(t, err, resource.ErrMemoryLimitExceeded)
	assert.Equal(t, int64(72), rc.MemoryUsage(), "failed open releases its reservation")

	require.NoError(t, r1.Close())
	assert.Equal(t, int64(0), rc.MemoryUsage())

	r2, err := OpenReader(prefix, WithResourceController(rc))
	require.NoError(t, err)
	require.NoError(t, r2.Close())
}

func TestReader_CorruptFooterExtent(t *testing.T) {
	prefix := testPrefix(t)
	writeScenario(t, prefix)

	footer := "kmer_size 31\nwords_per_edge 3\nnum_threads 2\nnum_bucket 3\nnum_edges 6\n" +
		"0 0 0 2\n1 1 0 3\n2 0 5 1\n"
	require.NoError(t, os.WriteFile(InfoFileName(prefix), []byte(footer), 0o644))

	_, err := OpenReader(prefix)
	var fe *FooterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, InfoFileName(prefix), fe.Path)
	assert.ErrorIs(t, err, megahit.ErrIO)
}
