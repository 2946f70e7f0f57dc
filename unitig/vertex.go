package unitig

import "sync/atomic"

// Strand selects which end of a vertex is the traversal front.
type Strand uint8

const (
	// Forward walks a vertex from its canonical begin to its end.
	Forward Strand = 0
	// Reverse walks the reverse complement of a vertex.
	Reverse Strand = 1
)

const (
	flagLoop uint32 = 1 << iota
	flagPalindrome
	flagToDelete
	flagChanged
)

type ends struct {
	begin, end uint64
}

// Vertex is a contracted simple path of the succinct graph.
//
// strands[Reverse] holds the reverse complements of the forward ends in
// swapped order: (rc(end), rc(begin)).
type Vertex struct {
	strands [2]ends
	length  uint32
	depth   uint64
	flags   atomic.Uint32
	// degree caches each strand's out-degree plus one; zero means unknown.
	degree [2]atomic.Uint32
}

// vertexSeed carries the fields of a vertex before it has a slot.
type vertexSeed struct {
	begin, end   uint64
	rbegin, rend uint64
	length       uint32
	depth        uint64
	flags        uint32
}

func (v *Vertex) init(s vertexSeed) {
	v.strands[Forward] = ends{begin: s.begin, end: s.end}
	v.strands[Reverse] = ends{begin: s.rbegin, end: s.rend}
	v.length = s.length
	v.depth = s.depth
	v.flags.Store(s.flags)
	v.degree[Forward].Store(0)
	v.degree[Reverse].Store(0)
}

func (v *Vertex) seed() vertexSeed {
	return vertexSeed{
		begin:  v.strands[Forward].begin,
		end:    v.strands[Forward].end,
		rbegin: v.strands[Reverse].begin,
		rend:   v.strands[Reverse].end,
		length: v.length,
		depth:  v.depth,
		flags:  v.flags.Load(),
	}
}

func (v *Vertex) has(flag uint32) bool {
	return v.flags.Load()&flag != 0
}
