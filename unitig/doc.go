// Package unitig contracts the simple paths of a succinct de Bruijn graph
// into vertices and walks them in both directions.
//
// A vertex is addressed through an adapter that pairs it with a strand. The
// reverse strand swaps the vertex's front and back, so every backward query
// (previous neighbors, in-degree, previous simple-path step) is the forward
// query on the reverse-complemented adapter:
//
//	Prev(v)     == Next(v.ReverseComplement()).ReverseComplement()
//	InDegree(v) == OutDegree(v.ReverseComplement())
//
// Out-degrees are cached per strand on the vertex the first time they are
// derived from the succinct graph. Traversal through VertexAdapter is safe
// for concurrent use and never takes a lock; Refresh must not run
// concurrently with anything else.
package unitig
