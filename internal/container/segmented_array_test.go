package container

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentedArray_AppendAt(t *testing.T) {
	sa := NewSegmentedArray[int]()
	assert.Equal(t, 0, sa.Len())
	assert.Nil(t, sa.At(0))

	const n = 3*segmentSize + 7
	for i := 0; i < n; i++ {
		idx, p := sa.Append()
		require.Equal(t, uint32(i), idx)
		*p = i * 2
	}
	assert.Equal(t, n, sa.Len())

	for i := 0; i < n; i++ {
		assert.Equal(t, i*2, *sa.At(uint32(i)))
	}
	assert.Nil(t, sa.At(n))
}

func TestSegmentedArray_StablePointers(t *testing.T) {
	sa := NewSegmentedArray[int]()
	_, first := sa.Append()
	*first = 42

	// Crossing several segment boundaries must not move the first element.
	for i := 0; i < 2*segmentSize; i++ {
		sa.Append()
	}
	assert.Same(t, first, sa.At(0))
	assert.Equal(t, 42, *sa.At(0))
}

func TestSegmentedArray_ConcurrentReaders(t *testing.T) {
	sa := NewSegmentedArray[int]()
	for i := 0; i < segmentSize; i++ {
		_, p := sa.Append()
		*p = i
	}

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < segmentSize; i++ {
				if got := *sa.At(uint32(i)); got != i {
					t.Errorf("index %d: got %d", i, got)
				}
			}
		}()
	}
	for i := 0; i < segmentSize; i++ {
		sa.Append()
	}
	wg.Wait()
	assert.Equal(t, 2*segmentSize, sa.Len())
}
