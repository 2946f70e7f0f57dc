package unitig

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zhk8111/megahit/dbg"
	"github.com/zhk8111/megahit/kmer"
)

// countingGraph counts how often the unitig layer asks for outgoing edges.
type countingGraph struct {
	*dbg.Graph
	outgoing atomic.Int64
}

func (c *countingGraph) OutgoingEdges(id uint64, out *[4]uint64) int {
	c.outgoing.Add(1)
	return c.Graph.OutgoingEdges(id, out)
}

func newCounting(t *testing.T, k int, seqs ...string) *countingGraph {
	t.Helper()
	g, err := dbg.FromSequences(k, seqs...)
	require.NoError(t, err)
	return &countingGraph{Graph: g}
}

func newGraph(t *testing.T, k int, seqs []string, opts ...Option) (*Graph, *dbg.Graph) {
	t.Helper()
	sdbg, err := dbg.FromSequences(k, seqs...)
	require.NoError(t, err)
	g, err := New(sdbg, opts...)
	require.NoError(t, err)
	return g, sdbg
}

// find returns the adapter whose strand spells seq.
func find(t *testing.T, g *Graph, seq string) VertexAdapter {
	t.Helper()
	for a := range g.Vertices() {
		for _, s := range []VertexAdapter{a, a.ReverseComplement()} {
			got, err := g.VertexToDNAString(s)
			require.NoError(t, err)
			if got == seq {
				return s
			}
		}
	}
	t.Fatalf("no vertex spells %s", seq)
	return VertexAdapter{}
}

func spell(t *testing.T, g *Graph, a VertexAdapter) string {
	t.Helper()
	s, err := g.VertexToDNAString(a)
	require.NoError(t, err)
	return s
}

func rc(s string) string {
	return string(kmer.ReverseComplement([]byte(s)))
}
