// Package container implements container data structures.
package container

import (
	"sync"
	"sync/atomic"
)

const (
	// segmentBits determines the size of each segment.
	// 12 bits = 4096 items per segment.
	segmentBits = 12
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

// SegmentedArray is an append-only array whose elements never move.
// Pointers returned by At and Append stay valid for the array's lifetime,
// which lets elements hold atomics and be referenced by cursors.
//
// Reads are lock-free and may run concurrently with Append; concurrent
// Append calls are serialized.
type SegmentedArray[T any] struct {
	segments atomic.Pointer[[]*Segment[T]]
	length   atomic.Uint32
	mu       sync.Mutex // Protects growth
}

// Segment is a fixed-size array of items.
type Segment[T any] struct {
	items [segmentSize]T
}

// NewSegmentedArray creates a new SegmentedArray.
func NewSegmentedArray[T any]() *SegmentedArray[T] {
	sa := &SegmentedArray[T]{}
	segments := make([]*Segment[T], 0)
	sa.segments.Store(&segments)
	return sa
}

// Len returns the number of appended items.
func (sa *SegmentedArray[T]) Len() int {
	return int(sa.length.Load())
}

// At returns a pointer to the item at the given index, or nil if the index
// is out of bounds.
func (sa *SegmentedArray[T]) At(index uint32) *T {
	if index >= sa.length.Load() {
		return nil
	}
	segments := *sa.segments.Load()
	return &segments[index>>segmentBits].items[index&segmentMask]
}

// Append reserves a zeroed slot at the end of the array and returns its index
// and address. The caller initializes the item in place.
func (sa *SegmentedArray[T]) Append() (uint32, *T) {
	sa.mu.Lock()
	defer sa.mu.Unlock()

	index := sa.length.Load()
	segIdx := int(index >> segmentBits)

	segments := *sa.segments.Load()
	if segIdx >= len(segments) {
		grown := make([]*Segment[T], segIdx+1)
		copy(grown, segments)
		grown[segIdx] = &Segment[T]{}
		sa.segments.Store(&grown)
		segments = grown
	}

	item := &segments[segIdx].items[index&segmentMask]
	sa.length.Store(index + 1)
	return index, item
}
