package unitig

import (
	"context"
	"math"

	"github.com/zhk8111/megahit/internal/bitset"
	"golang.org/x/sync/errgroup"
)

type span struct {
	from, to uint64
}

// split cuts [0, n) into at most parts contiguous spans.
func split(n uint64, parts int) []span {
	if parts < 1 {
		parts = 1
	}
	step := (n + uint64(parts) - 1) / uint64(parts)
	if step == 0 {
		step = 1
	}
	var spans []span
	for from := uint64(0); from < n; from += step {
		spans = append(spans, span{from: from, to: min(from+step, n)})
	}
	return spans
}

// collect finds the vertices of the current succinct graph: one per maximal
// simple path and one per perfect cycle, keeping the strand whose begin is
// the smaller edge id.
func (g *Graph) collect(ctx context.Context) ([]vertexSeed, error) {
	n := g.sdbg.NumEdges()
	visited := bitset.New(n)
	spans := split(n, 4*g.opts.workers)
	found := make([][]vertexSeed, len(spans))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.workers)
	for i, sp := range spans {
		eg.Go(func() error {
			seeds, err := g.collectPaths(ctx, sp, visited)
			found[i] = seeds
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var seeds []vertexSeed
	for _, f := range found {
		seeds = append(seeds, f...)
	}
	loops, err := g.collectLoops(visited)
	if err != nil {
		return nil, err
	}
	return append(seeds, loops...), nil
}

// collectPaths walks every simple path that starts inside sp. Each path is
// seen twice, once per strand; only the canonical strand is kept, but both
// are marked visited.
func (g *Graph) collectPaths(ctx context.Context, sp span, visited *bitset.BitSet) ([]vertexSeed, error) {
	var seeds []vertexSeed
	for e := sp.from; e < sp.to; e++ {
		if e&1023 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !g.sdbg.IsValidEdge(e) || g.sdbg.PrevSimplePathEdge(e) != NullEdge {
			continue
		}
		s, err := g.walkPath(e, visited)
		if err != nil {
			return nil, err
		}
		if s.begin <= s.rbegin {
			seeds = append(seeds, s)
		}
	}
	return seeds, nil
}

func (g *Graph) walkPath(begin uint64, visited *bitset.BitSet) (vertexSeed, error) {
	s := vertexSeed{begin: begin, length: 1, depth: uint64(g.sdbg.EdgeMultiplicity(begin))}
	visited.Set(begin)
	cur := begin
	for next := g.sdbg.NextSimplePathEdge(cur); next != NullEdge; next = g.sdbg.NextSimplePathEdge(cur) {
		if next == begin || uint64(s.length) >= g.sdbg.NumEdges() || s.length == math.MaxUint32 {
			return s, invariantf("simple path from edge %d does not terminate", begin)
		}
		cur = next
		visited.Set(cur)
		s.length++
		s.depth += uint64(g.sdbg.EdgeMultiplicity(cur))
	}
	s.end = cur
	s.rbegin = g.sdbg.EdgeReverseComplement(s.end)
	s.rend = g.sdbg.EdgeReverseComplement(s.begin)
	if s.begin == s.rbegin {
		s.flags |= flagPalindrome
	}
	return s, nil
}

// collectLoops turns the valid edges no simple path reached into looped
// vertices. Scanning in id order makes each cycle begin at its smallest edge.
func (g *Graph) collectLoops(visited *bitset.BitSet) ([]vertexSeed, error) {
	var seeds []vertexSeed
	n := g.sdbg.NumEdges()
	for e := uint64(0); e < n; e++ {
		if visited.Test(e) || !g.sdbg.IsValidEdge(e) {
			continue
		}
		s := vertexSeed{begin: e, length: 1, depth: uint64(g.sdbg.EdgeMultiplicity(e)), flags: flagLoop}
		visited.Set(e)
		cur := e
		for {
			next := g.sdbg.NextSimplePathEdge(cur)
			if next == NullEdge {
				return nil, invariantf("edge %d neither starts a simple path nor lies on a cycle", e)
			}
			if next == e {
				break
			}
			if uint64(s.length) >= n {
				return nil, invariantf("cycle through edge %d does not close", e)
			}
			cur = next
			visited.Set(cur)
			s.length++
			s.depth += uint64(g.sdbg.EdgeMultiplicity(cur))
		}
		s.end = cur
		s.rbegin = g.sdbg.EdgeReverseComplement(s.end)
		s.rend = g.sdbg.EdgeReverseComplement(s.begin)

		if visited.Test(s.rbegin) {
			s.flags |= flagPalindrome
		} else {
			for c := s.rbegin; !visited.Test(c); c = g.sdbg.NextSimplePathEdge(c) {
				if c == NullEdge {
					return nil, invariantf("reverse complement of the cycle through edge %d is open", e)
				}
				visited.Set(c)
			}
		}
		seeds = append(seeds, s)
	}
	return seeds, nil
}
