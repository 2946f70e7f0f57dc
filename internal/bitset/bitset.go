package bitset

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is a thread-safe, lock-free bitset of fixed length.
type BitSet struct {
	words []atomic.Uint64
	size  uint64
}

// New creates a new BitSet with the given size (in bits). All bits are clear.
func New(size uint64) *BitSet {
	return &BitSet{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

// Set sets the bit at the given index. Out-of-range indexes are ignored.
func (b *BitSet) Set(i uint64) {
	if i >= b.size {
		return
	}
	b.words[i>>6].Or(uint64(1) << (i & 63))
}

// TestAndSet sets the bit at the given index and returns true if it was ALREADY set.
// A false result means the caller is the one that set it.
func (b *BitSet) TestAndSet(i uint64) bool {
	if i >= b.size {
		return false
	}
	w := &b.words[i>>6]
	bitMask := uint64(1) << (i & 63)

	// Optimistic check
	if w.Load()&bitMask != 0 {
		return true
	}
	return w.Or(bitMask)&bitMask != 0
}

// Test returns true if the bit at the given index is set.
func (b *BitSet) Test(i uint64) bool {
	if i >= b.size {
		return false
	}
	return b.words[i>>6].Load()&(uint64(1)<<(i&63)) != 0
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	count := 0
	for i := range b.words {
		count += bits.OnesCount64(b.words[i].Load())
	}
	return count
}

// Len returns the size of the bitset in bits.
func (b *BitSet) Len() uint64 {
	return b.size
}
