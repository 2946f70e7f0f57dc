package unitig

// adapter is what the traversal engine needs from an adapter kind.
type adapter[A any] interface {
	IsValid() bool
	ID() uint32
	Strand() Strand
	Begin() uint64
	End() uint64
	ReverseComplement() A
	cachedOutDegree() (int, bool)
}

// adapterImpl implements traversal once for every adapter kind. Backward
// queries are the forward ones on the reverse-complemented adapter.
type adapterImpl[A adapter[A]] struct {
	g          *Graph
	newAdapter func(v *Vertex, strand Strand, id uint32) A
}

func (impl *adapterImpl[A]) MakeVertexAdapter(id uint32, strand Strand) (A, error) {
	var null A
	if strand > Reverse {
		return null, misusef("invalid strand %d", strand)
	}
	v := impl.g.vertices.At(id)
	if v == nil {
		return null, invariantf("vertex %d outside [0, %d)", id, impl.g.Size())
	}
	return impl.newAdapter(v, strand, id), nil
}

// GetNextAdapters resolves the successors of a into out and returns how
// many there are. With a nil out only the degree is computed. The degree is
// cached on the vertex if it was unknown.
func (impl *adapterImpl[A]) GetNextAdapters(a A, out *[4]A) (int, error) {
	if !a.IsValid() {
		return 0, misusef("traversal from the null adapter")
	}
	var next [4]uint64
	degree := impl.g.sdbg.OutgoingEdges(a.End(), &next)
	if degree > len(next) {
		return 0, invariantf("succinct edge %d reports out-degree %d", a.End(), degree)
	}
	if out != nil {
		for i := 0; i < degree; i++ {
			adj, err := impl.makeVertexAdapterWithSdbgID(next[i])
			if err != nil {
				return 0, err
			}
			out[i] = adj
		}
	}

	cached, ok := a.cachedOutDegree()
	if !ok {
		cached = impl.g.sudoAt(a.ID(), a.Strand()).setCachedOutDegree(degree)
	}
	if cached != degree {
		return 0, invariantf("vertex %d strand %d caches out-degree %d, graph reports %d", a.ID(), a.Strand(), cached, degree)
	}
	return degree, nil
}

func (impl *adapterImpl[A]) GetPrevAdapters(a A, out *[4]A) (int, error) {
	degree, err := impl.GetNextAdapters(a.ReverseComplement(), out)
	if err != nil {
		return 0, err
	}
	if out != nil {
		for i := 0; i < degree; i++ {
			out[i] = out[i].ReverseComplement()
		}
	}
	return degree, nil
}

func (impl *adapterImpl[A]) OutDegree(a A) (int, error) {
	if d, ok := a.cachedOutDegree(); ok {
		impl.g.recordCacheHit()
		return d, nil
	}
	impl.g.recordCacheMiss()
	return impl.GetNextAdapters(a, nil)
}

func (impl *adapterImpl[A]) InDegree(a A) (int, error) {
	return impl.OutDegree(a.ReverseComplement())
}

// NextSimplePathAdapter returns the vertex that follows a on an unbranched
// step, or the null adapter at a branch or dead end.
func (impl *adapterImpl[A]) NextSimplePathAdapter(a A) (A, error) {
	var null A
	if !a.IsValid() {
		return null, misusef("traversal from the null adapter")
	}
	next := impl.g.sdbg.NextSimplePathEdge(a.End())
	if next == NullEdge {
		return null, nil
	}
	return impl.makeVertexAdapterWithSdbgID(next)
}

func (impl *adapterImpl[A]) PrevSimplePathAdapter(a A) (A, error) {
	prev, err := impl.NextSimplePathAdapter(a.ReverseComplement())
	if err != nil {
		return prev, err
	}
	return prev.ReverseComplement(), nil
}

// makeVertexAdapterWithSdbgID returns the adapter whose strand begins at the
// succinct edge id.
func (impl *adapterImpl[A]) makeVertexAdapterWithSdbgID(edge uint64) (A, error) {
	id, ok := impl.g.idMap[edge]
	if !ok {
		var null A
		return null, invariantf("succinct edge %d does not begin any vertex", edge)
	}
	a := impl.newAdapter(impl.g.vertices.At(id), Forward, id)
	if a.Begin() != edge {
		a = a.ReverseComplement()
	}
	return a, nil
}
