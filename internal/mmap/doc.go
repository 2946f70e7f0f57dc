// Package mmap provides read-only memory-mapped file access for zero-copy replay.
//
// Edge files are mapped whole and never copied into the Go heap; iteration
// hands out sub-slices of the mapping. A [Region] is a view over a byte range
// of a [Mapping], used to give the kernel a sequential-access hint for exactly
// the bytes a cursor is about to stream through:
//
//	m, err := mmap.Open("run.edges.0")
//	if err != nil { ... }
//	defer m.Close()
//
//	r, _ := m.Region(off, n)
//	_ = r.Advise(mmap.Sequential)
//	data := r.Bytes()
//
// # Platform Support
//
//   - Unix: mmap(2) with madvise(2) for access hints
//   - Windows: MapViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// Mapping and Region are safe for concurrent read access. Close is idempotent.
// Callers must ensure no goroutine touches Bytes() after Close() returns.
package mmap
