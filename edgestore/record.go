package edgestore

import "encoding/binary"

// Record is a read-only view of one edge inside a memory-mapped thread file.
// It is valid until the Reader that produced it is closed.
type Record []byte

// Len returns the number of 32-bit words in the record.
func (r Record) Len() int {
	return len(r) / 4
}

// Word returns word i of the record.
func (r Record) Word(i int) uint32 {
	return binary.LittleEndian.Uint32(r[4*i:])
}

// Words decodes the record into dst, growing it if needed, and returns it.
func (r Record) Words(dst []uint32) []uint32 {
	n := r.Len()
	if cap(dst) < n {
		dst = make([]uint32, n)
	}
	dst = dst[:n]
	for i := range dst {
		dst[i] = r.Word(i)
	}
	return dst
}
