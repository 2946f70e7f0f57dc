package unitig

import (
	"context"
	"iter"
	"math"
	"strings"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/zhk8111/megahit/internal/bitset"
	"github.com/zhk8111/megahit/internal/container"
)

const (
	// MaxVertices is the largest number of vertices a graph can hold.
	MaxVertices uint32 = math.MaxUint32 - 1
	// NullVertexID is the id reported by the null adapter.
	NullVertexID uint32 = math.MaxUint32
)

// Graph is the unitig graph over a SuccinctGraph.
type Graph struct {
	sdbg     SuccinctGraph
	vertices *container.SegmentedArray[Vertex]
	idMap    map[uint64]uint32
	locks    *bitset.BitSet

	adapters adapterImpl[VertexAdapter]
	sudo     adapterImpl[sudoVertexAdapter]

	opts        options
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	closed      atomic.Bool
}

// New contracts every maximal simple path and every perfect cycle of sdbg
// into a vertex. Paths are collected in parallel.
func New(sdbg SuccinctGraph, opts ...Option) (*Graph, error) {
	if sdbg == nil {
		return nil, misusef("nil succinct graph")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.WithK(sdbg.K())

	g := &Graph{sdbg: sdbg, opts: o}
	g.adapters = adapterImpl[VertexAdapter]{
		g: g,
		newAdapter: func(v *Vertex, strand Strand, id uint32) VertexAdapter {
			return VertexAdapter{v: v, strand: strand, id: id}
		},
	}
	g.sudo = adapterImpl[sudoVertexAdapter]{
		g: g,
		newAdapter: func(v *Vertex, strand Strand, id uint32) sudoVertexAdapter {
			return sudoVertexAdapter{VertexAdapter{v: v, strand: strand, id: id}}
		},
	}

	seeds, err := g.collect(context.Background())
	if err != nil {
		return nil, err
	}
	if err := g.store(seeds); err != nil {
		return nil, err
	}

	var loops, palindromes int
	for _, s := range seeds {
		if s.flags&flagLoop != 0 {
			loops++
		}
		if s.flags&flagPalindrome != 0 {
			palindromes++
		}
	}
	o.logger.Info("unitig graph built",
		"edges", sdbg.NumEdges(),
		"vertices", len(seeds),
		"loops", loops,
		"palindromes", palindromes,
	)
	return g, nil
}

// store replaces the vertex collection, identifier map and lock bits.
func (g *Graph) store(seeds []vertexSeed) error {
	if uint64(len(seeds)) > uint64(MaxVertices) {
		return invariantf("%d vertices exceed the limit of %d", len(seeds), MaxVertices)
	}
	vertices := container.NewSegmentedArray[Vertex]()
	idMap := make(map[uint64]uint32, 2*len(seeds))
	for _, s := range seeds {
		id, v := vertices.Append()
		v.init(s)
		idMap[s.begin] = id
		idMap[s.rbegin] = id
	}
	g.vertices = vertices
	g.idMap = idMap
	g.locks = bitset.New(uint64(len(seeds)))
	return nil
}

// Size returns the number of vertices.
func (g *Graph) Size() int { return g.vertices.Len() }

// K returns the node length of the underlying graph.
func (g *Graph) K() int { return g.sdbg.K() }

// MakeVertexAdapter returns the adapter for strand of vertex id.
func (g *Graph) MakeVertexAdapter(id uint32, strand Strand) (VertexAdapter, error) {
	return g.adapters.MakeVertexAdapter(id, strand)
}

// GetNextAdapters stores the successors of a in out and returns their
// number. out may be nil.
//
// The first call caches the out-degree of a. If edges are invalidated in the
// succinct graph afterwards, the cache no longer matches and the call fails
// with ErrInvariant until Refresh has run.
func (g *Graph) GetNextAdapters(a VertexAdapter, out *[4]VertexAdapter) (int, error) {
	return g.adapters.GetNextAdapters(a, out)
}

// GetPrevAdapters stores the predecessors of a in out, oriented so that a
// follows each of them, and returns their number. out may be nil.
func (g *Graph) GetPrevAdapters(a VertexAdapter, out *[4]VertexAdapter) (int, error) {
	return g.adapters.GetPrevAdapters(a, out)
}

// OutDegree returns the number of successors of a.
func (g *Graph) OutDegree(a VertexAdapter) (int, error) {
	return g.adapters.OutDegree(a)
}

// InDegree returns the number of predecessors of a.
func (g *Graph) InDegree(a VertexAdapter) (int, error) {
	return g.adapters.InDegree(a)
}

// NextSimplePathAdapter returns the vertex reached from a through an
// unbranched step, or the null adapter.
func (g *Graph) NextSimplePathAdapter(a VertexAdapter) (VertexAdapter, error) {
	return g.adapters.NextSimplePathAdapter(a)
}

// PrevSimplePathAdapter returns the vertex that reaches a through an
// unbranched step, or the null adapter.
func (g *Graph) PrevSimplePathAdapter(a VertexAdapter) (VertexAdapter, error) {
	return g.adapters.PrevSimplePathAdapter(a)
}

// Vertices yields the forward adapter of every vertex in id order.
func (g *Graph) Vertices() iter.Seq[VertexAdapter] {
	return func(yield func(VertexAdapter) bool) {
		n := uint32(g.vertices.Len())
		for id := uint32(0); id < n; id++ {
			if !yield(VertexAdapter{v: g.vertices.At(id), id: id}) {
				return
			}
		}
	}
}

// ChangedVertices returns the ids of the vertices flagged as changed.
func (g *Graph) ChangedVertices() *roaring.Bitmap {
	changed := roaring.New()
	for a := range g.Vertices() {
		if a.IsChanged() {
			changed.Add(a.ID())
		}
	}
	return changed
}

// VertexToDNAString spells the bases of a in its strand's direction.
func (g *Graph) VertexToDNAString(a VertexAdapter) (string, error) {
	if !a.IsValid() {
		return "", misusef("spelling the null adapter")
	}
	var sb strings.Builder
	cur := a.Begin()
	sb.Grow(g.K() + int(a.Length()))
	sb.WriteString(g.sdbg.EdgeLabel(cur))
	for i := uint32(1); i < a.Length(); i++ {
		cur = g.sdbg.NextSimplePathEdge(cur)
		if cur == NullEdge {
			return "", invariantf("vertex %d breaks after %d of %d edges", a.ID(), i, a.Length())
		}
		label := g.sdbg.EdgeLabel(cur)
		sb.WriteByte(label[len(label)-1])
	}
	return sb.String(), nil
}

// Close reports degree-cache statistics. The graph stays usable.
func (g *Graph) Close() error {
	if g.closed.Swap(true) {
		return nil
	}
	g.opts.logger.Info("unitig graph closed",
		"vertices", g.Size(),
		"cache_hits", g.cacheHits.Load(),
		"cache_misses", g.cacheMisses.Load(),
	)
	return nil
}

// sudoAt returns the rebuild adapter of a vertex known to exist.
func (g *Graph) sudoAt(id uint32, strand Strand) sudoVertexAdapter {
	return sudoVertexAdapter{VertexAdapter{v: g.vertices.At(id), strand: strand, id: id}}
}

func (g *Graph) recordCacheHit() {
	g.cacheHits.Add(1)
	g.opts.metrics.RecordDegreeCacheHit()
}

func (g *Graph) recordCacheMiss() {
	g.cacheMisses.Add(1)
	g.opts.metrics.RecordDegreeCacheMiss()
}
