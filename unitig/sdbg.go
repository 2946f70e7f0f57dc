package unitig

import "math"

// NullEdge is the edge id a SuccinctGraph returns when a simple-path step
// does not exist.
const NullEdge uint64 = math.MaxUint64

// SuccinctGraph is the edge-following contract a Graph is built over.
//
// Implementations must keep the simple-path steps symmetric
// (NextSimplePathEdge(a) == b exactly when PrevSimplePathEdge(b) == a),
// EdgeReverseComplement must be an involution, and invalid edges must not be
// returned by OutgoingEdges or the simple-path steps. Queries may run
// concurrently with each other and with SetInvalidEdge.
type SuccinctGraph interface {
	// K returns the node length; edges span K()+1 bases.
	K() int
	// NumEdges returns the size of the edge id space, [0, NumEdges()).
	NumEdges() uint64
	IsValidEdge(id uint64) bool
	SetInvalidEdge(id uint64)
	EdgeReverseComplement(id uint64) uint64
	EdgeMultiplicity(id uint64) uint16
	// EdgeLabel returns the K()+1 bases of edge id.
	EdgeLabel(id uint64) string
	// OutgoingEdges stores the valid edges that can follow id in out and
	// returns their number (at most 4). out may be nil.
	OutgoingEdges(id uint64, out *[4]uint64) int
	NextSimplePathEdge(id uint64) uint64
	PrevSimplePathEdge(id uint64) uint64
}
