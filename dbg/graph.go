package dbg

import (
	"fmt"
	"math"
	"sort"

	"github.com/zhk8111/megahit"
	"github.com/zhk8111/megahit/internal/bitset"
	"github.com/zhk8111/megahit/kmer"
)

// NullID is returned by the simple-path queries when no step exists.
const NullID uint64 = math.MaxUint64

// Graph is an immutable de Bruijn graph except for edge validity, which may
// be cleared concurrently with queries.
type Graph struct {
	k        int
	labels   []string
	mult     []uint16
	rc       []uint64
	index    map[string]uint64
	byPrefix map[string][]uint64
	bySuffix map[string][]uint64
	invalid  *bitset.BitSet
}

// newGraph builds a graph from canonical edge counts. counts is keyed by the
// smaller of a label and its reverse complement.
func newGraph(k int, counts map[string]int) *Graph {
	labels := make([]string, 0, 2*len(counts))
	for label := range counts {
		labels = append(labels, label)
		if rc := string(kmer.ReverseComplement([]byte(label))); rc != label {
			labels = append(labels, rc)
		}
	}
	sort.Strings(labels)

	g := &Graph{
		k:        k,
		labels:   labels,
		mult:     make([]uint16, len(labels)),
		rc:       make([]uint64, len(labels)),
		index:    make(map[string]uint64, len(labels)),
		byPrefix: make(map[string][]uint64),
		bySuffix: make(map[string][]uint64),
		invalid:  bitset.New(uint64(len(labels))),
	}
	for i, label := range labels {
		id := uint64(i)
		g.index[label] = id
		g.byPrefix[label[:k]] = append(g.byPrefix[label[:k]], id)
		g.bySuffix[label[1:]] = append(g.bySuffix[label[1:]], id)
	}
	for i, label := range labels {
		rc := string(kmer.ReverseComplement([]byte(label)))
		g.rc[i] = g.index[rc]
		canon := label
		if rc < canon {
			canon = rc
		}
		g.mult[i] = kmer.SaturatingMultiplicity(counts[canon])
	}
	return g
}

// K returns the node (k-mer) length; edges are k+1 bases long.
func (g *Graph) K() int { return g.k }

// NumEdges returns the number of edges, valid or not.
func (g *Graph) NumEdges() uint64 { return uint64(len(g.labels)) }

// EdgeID returns the id of the edge with the given label.
func (g *Graph) EdgeID(label string) (uint64, bool) {
	id, ok := g.index[label]
	return id, ok
}

// EdgeLabel returns the k+1 bases of edge id.
func (g *Graph) EdgeLabel(id uint64) string { return g.labels[id] }

// EdgeMultiplicity returns the saturated occurrence count of edge id.
func (g *Graph) EdgeMultiplicity(id uint64) uint16 { return g.mult[id] }

// EdgeReverseComplement returns the id of the reverse complement of edge id.
func (g *Graph) EdgeReverseComplement(id uint64) uint64 { return g.rc[id] }

// IsValidEdge reports whether id names an edge that has not been invalidated.
func (g *Graph) IsValidEdge(id uint64) bool {
	return id < g.NumEdges() && !g.invalid.Test(id)
}

// SetInvalidEdge removes edge id from every later query.
func (g *Graph) SetInvalidEdge(id uint64) { g.invalid.Set(id) }

// OutgoingEdges stores the valid edges leaving the head node of edge id in
// out, in ascending id order, and returns how many there are. out may be nil
// to only count them.
func (g *Graph) OutgoingEdges(id uint64, out *[4]uint64) int {
	return g.collect(g.byPrefix[g.labels[id][1:]], out)
}

// IncomingEdges stores the valid edges entering the tail node of edge id.
func (g *Graph) IncomingEdges(id uint64, out *[4]uint64) int {
	return g.collect(g.bySuffix[g.labels[id][:g.k]], out)
}

func (g *Graph) collect(ids []uint64, out *[4]uint64) int {
	n := 0
	for _, e := range ids {
		if g.invalid.Test(e) {
			continue
		}
		if out != nil {
			out[n] = e
		}
		n++
	}
	return n
}

// NextSimplePathEdge returns the only successor of edge id if id has
// out-degree one and the successor has in-degree one, otherwise NullID.
func (g *Graph) NextSimplePathEdge(id uint64) uint64 {
	var buf [4]uint64
	if g.OutgoingEdges(id, &buf) != 1 {
		return NullID
	}
	if g.IncomingEdges(buf[0], nil) != 1 {
		return NullID
	}
	return buf[0]
}

// PrevSimplePathEdge mirrors NextSimplePathEdge on incoming edges.
func (g *Graph) PrevSimplePathEdge(id uint64) uint64 {
	var buf [4]uint64
	if g.IncomingEdges(id, &buf) != 1 {
		return NullID
	}
	if g.OutgoingEdges(buf[0], nil) != 1 {
		return NullID
	}
	return buf[0]
}

// String summarizes the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("dbg.Graph{k: %d, edges: %d, invalid: %d}", g.k, len(g.labels), g.invalid.Count())
}

func misusef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{megahit.ErrMisuse}, args...)...)
}
