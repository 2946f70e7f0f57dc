// Package edgestore persists fixed-width edge records produced by parallel
// workers and replays them in a globally meaningful order.
//
// # Layout
//
// A store with prefix P consists of one raw data file per producer thread,
// P.edges.0 … P.edges.<n-1>, holding back-to-back records of WordsPerEdge
// little-endian 32-bit words each (no header, no padding), and a text footer
// P.edges.info:
//
//	kmer_size 31
//	words_per_edge 3
//	num_threads 2
//	num_bucket 3
//	num_edges 6
//	0 0 0 2
//	1 1 0 3
//	2 0 2 1
//
// In sorted mode each bucket line is "<bucket> <thread> <offset> <count>":
// the bucket's records sit contiguously in one thread's file starting at
// record offset <offset>. A thread of -1 marks a bucket nobody wrote. With
// num_bucket 0 the store is unsorted and the footer lists
// "<thread> <count>" per file instead.
//
// # Writing
//
// [NewWriter] opens every per-thread file. Producers call [Writer.Write]
// (sorted) or [Writer.WriteUnsorted], each goroutine passing its own thread
// id. A bucket must be produced by a single thread in one run, and a thread
// must present its buckets in non-decreasing order. Only the first claim of a
// bucket is checked. [Writer.Close] runs after all producers have returned
// and emits the footer.
//
// # Reading
//
// [OpenReader] parses the footer and maps every data file read-only.
// [Reader.NextSortedEdge] replays records bucket by bucket; empty buckets are
// skipped. [Reader.NextUnsortedEdge] replays file by file. Records are views
// into the mappings, so nothing is copied into the Go heap. A Reader's own
// cursor is single-goroutine state; for parallel replay open independent
// cursors over disjoint bucket or file ranges with [Reader.SortedCursor] and
// [Reader.UnsortedCursor]. They share the reader's mappings.
package edgestore
