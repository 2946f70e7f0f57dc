package unitig

// VertexAdapter is a cursor over one strand of a vertex. The zero value is
// the null adapter.
//
// Adapters are values; they stay valid until the next Refresh.
type VertexAdapter struct {
	v      *Vertex
	strand Strand
	id     uint32
}

// IsValid reports whether a refers to a vertex.
func (a VertexAdapter) IsValid() bool { return a.v != nil }

// ID returns the vertex id, or NullVertexID for the null adapter.
func (a VertexAdapter) ID() uint32 {
	if a.v == nil {
		return NullVertexID
	}
	return a.id
}

// Strand returns the traversal strand.
func (a VertexAdapter) Strand() Strand { return a.strand }

// Begin returns the succinct edge at the front of the current strand.
func (a VertexAdapter) Begin() uint64 {
	if a.v == nil {
		return NullEdge
	}
	return a.v.strands[a.strand].begin
}

// End returns the succinct edge at the back of the current strand.
func (a VertexAdapter) End() uint64 {
	if a.v == nil {
		return NullEdge
	}
	return a.v.strands[a.strand].end
}

// ReverseComplement returns the adapter for the opposite strand.
func (a VertexAdapter) ReverseComplement() VertexAdapter {
	if a.v != nil {
		a.strand ^= 1
	}
	return a
}

// Length returns the number of succinct edges in the vertex.
func (a VertexAdapter) Length() uint32 { return a.v.length }

// TotalDepth returns the summed multiplicity of the vertex's edges.
func (a VertexAdapter) TotalDepth() uint64 { return a.v.depth }

// AvgDepth returns the mean multiplicity of the vertex's edges.
func (a VertexAdapter) AvgDepth() float64 {
	return float64(a.v.depth) / float64(a.v.length)
}

// IsLoop reports whether the vertex closes on itself.
func (a VertexAdapter) IsLoop() bool { return a.v.has(flagLoop) }

// IsPalindrome reports whether the vertex is its own reverse complement.
func (a VertexAdapter) IsPalindrome() bool { return a.v.has(flagPalindrome) }

// IsChanged reports whether the vertex was produced by a marking Refresh.
func (a VertexAdapter) IsChanged() bool { return a.v.has(flagChanged) }

// IsToDelete reports whether the vertex is scheduled for removal.
func (a VertexAdapter) IsToDelete() bool { return a.v.has(flagToDelete) }

// SetToDelete schedules the vertex for removal by the next Refresh.
func (a VertexAdapter) SetToDelete() { a.v.flags.Or(flagToDelete) }

func (a VertexAdapter) cachedOutDegree() (int, bool) {
	if a.v == nil {
		return 0, false
	}
	d := a.v.degree[a.strand].Load()
	return int(d) - 1, d != 0
}

// sudoVertexAdapter is the adapter used while the graph is rebuilt. Unlike
// VertexAdapter it may rewrite the vertex it points at.
type sudoVertexAdapter struct {
	VertexAdapter
}

func (a sudoVertexAdapter) ReverseComplement() sudoVertexAdapter {
	return sudoVertexAdapter{a.VertexAdapter.ReverseComplement()}
}

// setCachedOutDegree stores d unless a degree is already cached, and returns
// the degree the vertex holds afterwards.
func (a sudoVertexAdapter) setCachedOutDegree(d int) int {
	slot := &a.v.degree[a.strand]
	if slot.CompareAndSwap(0, uint32(d)+1) {
		return d
	}
	return int(slot.Load()) - 1
}

// setEnds rewrites the vertex so that, seen from this strand, it runs from
// begin to end; rbegin and rend are the ends of the opposite strand.
func (a sudoVertexAdapter) setEnds(begin, end, rbegin, rend uint64) {
	a.v.strands[a.strand] = ends{begin: begin, end: end}
	a.v.strands[a.strand^1] = ends{begin: rbegin, end: rend}
}

func (a sudoVertexAdapter) setLength(n uint32) { a.v.length = n }

func (a sudoVertexAdapter) setDepth(d uint64) { a.v.depth = d }

func (a sudoVertexAdapter) setFlag(flag uint32, on bool) {
	if on {
		a.v.flags.Or(flag)
	} else {
		a.v.flags.And(^flag)
	}
}
