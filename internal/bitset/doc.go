// Package bitset provides a fixed-size, lock-free bit vector for concurrent access.
//
// Every operation is a single atomic load, OR, AND or CAS on one 64-bit word, so
// independent bits can be flipped from many goroutines without a mutex. The
// unitig graph uses one instance as its per-vertex lock bits (TestAndSet acts
// as try-lock, Unset as unlock) and another as the visited marks during
// construction.
package bitset
