// Package megahit provides the storage and traversal core of a de Bruijn graph
// assembler.
//
// The module is split into a few focused packages:
//
//   - [github.com/zhk8111/megahit/kmer]: fixed-width edge record codec
//   - [github.com/zhk8111/megahit/edgestore]: partitioned, memory-mapped edge store
//   - [github.com/zhk8111/megahit/dbg]: hash-indexed de Bruijn graph over edge records
//   - [github.com/zhk8111/megahit/unitig]: contracted unitig graph with cached degrees
//
// This root package only carries the ambient pieces shared by all of them:
// error categories, structured logging and metrics collection.
//
// # Data Flow
//
// Parallel producers write edges through an [edgestore.Writer], one file per
// producer. An [edgestore.Reader] later replays them in bucket order straight
// from the page cache. The replayed edges feed a graph implementation, over
// which a [unitig.Graph] is built and walked:
//
//	w, _ := edgestore.NewWriter("out/k31", 31, 4, edgestore.WithBuckets(1<<16))
//	// producers call w.Write(edge, bucket, tid) concurrently, one tid each
//	w.Close()
//
//	r, _ := edgestore.OpenReader("out/k31")
//	defer r.Close()
//	g, _ := dbg.Build(r.KmerSize(), r.NextSortedEdge)
//	ug, _ := unitig.New(g)
//	defer ug.Close()
//
// # Errors
//
// Every failure is reported as an error wrapping exactly one of [ErrMisuse],
// [ErrIO] or [ErrInvariant]. None of them is retryable; the embedding
// application decides whether to log and exit.
package megahit
