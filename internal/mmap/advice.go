package mmap

import "errors"

// Advice is an access hint for a mapped range.
type Advice int

const (
	// Normal clears any earlier hint.
	Normal Advice = iota
	// Sequential requests aggressive read-ahead; pages behind the reader may be
	// reclaimed early.
	Sequential
)

var (
	// ErrClosed is returned for any access after Close.
	ErrClosed = errors.New("mmap: mapping closed")
	// ErrInvalidSize is returned when a file does not fit the address space.
	ErrInvalidSize = errors.New("mmap: file too large to map")
	// ErrOutOfBounds is returned for a region outside the mapping.
	ErrOutOfBounds = errors.New("mmap: range outside mapping")
)
