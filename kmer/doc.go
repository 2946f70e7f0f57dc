// Package kmer encodes (k+1)-mer edges as fixed-width records of 32-bit words.
//
// An edge over k+1 bases takes 2 bits per base plus a 16-bit multiplicity,
// rounded up to whole words:
//
//	WordsPerEdge(k) = ceil(((k+1)*2 + 16) / 32)
//
// Bases are packed from the most significant bits of word 0 onward
// (A=0, C=1, G=2, T=3). The multiplicity occupies the low 16 bits of the
// last word. The formula guarantees the two never overlap.
package kmer
