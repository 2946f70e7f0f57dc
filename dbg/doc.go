// Package dbg implements an explicit, hash-indexed de Bruijn graph over
// (k+1)-mer edges.
//
// It answers the same edge-following queries as a succinct de Bruijn graph
// (outgoing edges, simple-path steps, reverse complements, validity marks)
// and is what the unitig layer and the example pipeline run against. It does
// not try to be compact: every edge label is kept as a string.
//
// Both strands of every input edge are present. Edge ids are positions in
// the lexicographically sorted label list, so ids are dense and totally
// ordered.
package dbg
