package unitig

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// Refresh rebuilds the graph after vertices were marked for deletion or the
// succinct graph changed:
//
//  1. the succinct edges of every vertex marked to delete are invalidated,
//  2. chains of vertices joined by unbranched steps are merged into their
//     first vertex, in parallel,
//  3. rings of such vertices are merged into looped vertices,
//  4. the vertex collection, identifier map and lock bits are rebuilt.
//
// Every cached degree is unknown afterwards and all adapters obtained before
// the call are invalid. With markChanged the merged vertices are flagged as
// changed. Refresh must not run concurrently with any other method; after
// an error the graph must not be used.
func (g *Graph) Refresh(markChanged bool) (err error) {
	start := time.Now()
	var merged, deleted int
	defer func() {
		g.opts.logger.LogRefresh(context.Background(), g.Size(), merged, deleted, err)
		if err == nil {
			g.opts.metrics.RecordRefresh(g.Size(), merged, deleted, time.Since(start))
		}
	}()

	dropped, err := g.removeDeleted()
	if err != nil {
		return err
	}
	deleted = int(dropped.GetCardinality())

	chains, err := g.findChains(context.Background(), dropped)
	if err != nil {
		return err
	}
	absorbed, err := g.mergeChains(context.Background(), chains, markChanged)
	if err != nil {
		return err
	}
	dropped.Or(absorbed)

	rings, err := g.mergeRings(dropped, markChanged)
	if err != nil {
		return err
	}
	g.opts.logger.Debug("unitig rings merged", "chains", len(chains), "rings", rings)
	merged = int(dropped.GetCardinality()) - deleted

	return g.rebuild(dropped)
}

// removeDeleted invalidates both strands of every edge of the vertices
// marked to delete and returns their ids.
func (g *Graph) removeDeleted() (*roaring.Bitmap, error) {
	deleted := roaring.New()
	var path []uint64
	for a := range g.Vertices() {
		if !a.IsToDelete() {
			continue
		}
		path = path[:0]
		cur := a.Begin()
		for i := uint32(0); i < a.Length(); i++ {
			if i > 0 {
				cur = g.sdbg.NextSimplePathEdge(cur)
				if cur == NullEdge {
					return nil, invariantf("vertex %d breaks after %d of %d edges", a.ID(), i, a.Length())
				}
			}
			path = append(path, cur)
		}
		for _, e := range path {
			g.sdbg.SetInvalidEdge(e)
			g.sdbg.SetInvalidEdge(g.sdbg.EdgeReverseComplement(e))
		}
		deleted.Add(a.ID())
	}
	return deleted, nil
}

// chainKey orders the two walks of one chain. A palindromic vertex has
// identical strands, so it only ever counts as forward.
func chainKey(a sudoVertexAdapter) uint64 {
	s := a.Strand()
	if a.IsPalindrome() {
		s = Forward
	}
	return uint64(a.ID())<<1 | uint64(s)
}

// findChains collects every maximal run of two or more vertices joined by
// unbranched steps. A chain and its reverse complement are the same chain;
// the walk whose first adapter has the smaller key keeps it.
func (g *Graph) findChains(ctx context.Context, skip *roaring.Bitmap) ([][]sudoVertexAdapter, error) {
	n := uint64(g.Size())
	spans := split(n, 4*g.opts.workers)
	found := make([][][]sudoVertexAdapter, len(spans))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.workers)
	for i, sp := range spans {
		eg.Go(func() error {
			for id := uint32(sp.from); uint64(id) < sp.to; id++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if skip.Contains(id) {
					continue
				}
				for _, strand := range [...]Strand{Forward, Reverse} {
					a := g.sudoAt(id, strand)
					if a.IsLoop() || (strand == Reverse && a.IsPalindrome()) {
						continue
					}
					chain, err := g.walkChain(a)
					if err != nil {
						return err
					}
					if chain != nil {
						found[i] = append(found[i], chain)
					}
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var chains [][]sudoVertexAdapter
	for _, f := range found {
		chains = append(chains, f...)
	}
	return chains, nil
}

// walkChain returns the chain that starts at a, or nil if a does not start
// one or the reverse walk owns it.
func (g *Graph) walkChain(a sudoVertexAdapter) ([]sudoVertexAdapter, error) {
	prev, err := g.sudo.PrevSimplePathAdapter(a)
	if err != nil || prev.IsValid() {
		return nil, err
	}
	next, err := g.sudo.NextSimplePathAdapter(a)
	if err != nil || !next.IsValid() {
		return nil, err
	}

	chain := []sudoVertexAdapter{a}
	for next.IsValid() {
		if len(chain) > 2*g.Size() {
			return nil, invariantf("chain from vertex %d does not terminate", a.ID())
		}
		chain = append(chain, next)
		if next, err = g.sudo.NextSimplePathAdapter(next); err != nil {
			return nil, err
		}
	}
	if chainKey(chain[len(chain)-1].ReverseComplement()) < chainKey(a) {
		return nil, nil
	}
	return chain, nil
}

// lock claims every vertex of a chain or ring for the caller. A vertex may
// repeat within one run (a hairpin visits both of its strands) but must not
// belong to two runs.
func (g *Graph) lock(run []sudoVertexAdapter) error {
	for i, a := range run {
		if !g.locks.TestAndSet(uint64(a.ID())) {
			continue
		}
		owned := false
		for _, b := range run[:i] {
			if b.ID() == a.ID() {
				owned = true
				break
			}
		}
		if !owned {
			return invariantf("vertex %d belongs to two merge runs", a.ID())
		}
	}
	return nil
}

// mergeChains folds each chain into its first vertex and returns the ids of
// the vertices absorbed. Chains are disjoint, so they are merged in parallel
// under the lock bits.
func (g *Graph) mergeChains(ctx context.Context, chains [][]sudoVertexAdapter, markChanged bool) (*roaring.Bitmap, error) {
	spans := split(uint64(len(chains)), 4*g.opts.workers)
	absorbed := make([]*roaring.Bitmap, len(spans))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.workers)
	for i, sp := range spans {
		absorbed[i] = roaring.New()
		eg.Go(func() error {
			for _, chain := range chains[sp.from:sp.to] {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := g.lock(chain); err != nil {
					return err
				}
				g.mergeInto(chain, false, markChanged, absorbed[i])
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return roaring.FastOr(absorbed...), nil
}

// mergeRings folds every ring of vertices joined by unbranched steps into a
// looped vertex and returns how many rings it merged. Vertices already
// claimed by a chain are skipped.
func (g *Graph) mergeRings(dropped *roaring.Bitmap, markChanged bool) (int, error) {
	rings := 0
	n := uint32(g.Size())
	for id := uint32(0); id < n; id++ {
		if dropped.Contains(id) || g.locks.Test(uint64(id)) {
			continue
		}
		a := g.sudoAt(id, Forward)
		if a.IsLoop() {
			continue
		}
		next, err := g.sudo.NextSimplePathAdapter(a)
		if err != nil {
			return rings, err
		}
		if !next.IsValid() {
			continue
		}

		ring := []sudoVertexAdapter{a}
		for next.ID() != a.ID() || next.Begin() != a.Begin() {
			if len(ring) > 2*int(n) {
				return rings, invariantf("ring through vertex %d does not close", id)
			}
			ring = append(ring, next)
			if next, err = g.sudo.NextSimplePathAdapter(next); err != nil {
				return rings, err
			}
			if !next.IsValid() {
				return rings, invariantf("vertex %d is neither in a chain nor in a ring", id)
			}
		}
		if err := g.lock(ring); err != nil {
			return rings, err
		}
		g.mergeInto(ring, true, markChanged, dropped)
		rings++
	}
	return rings, nil
}

// mergeInto rewrites run[0] to span the whole run and adds the other
// vertices of the run to absorbed.
func (g *Graph) mergeInto(run []sudoVertexAdapter, loop, markChanged bool, absorbed *roaring.Bitmap) {
	first, last := run[0], run[len(run)-1]
	begin, end := first.Begin(), last.End()
	rbegin, rend := last.ReverseComplement().Begin(), first.ReverseComplement().End()
	firstRC := first.ReverseComplement().Begin()

	var length uint32
	var depth uint64
	palindrome := false
	for _, a := range run {
		length += a.Length()
		depth += a.TotalDepth()
		if loop && a.ID() == first.ID() && a.Begin() == firstRC {
			palindrome = true
		}
		if a.ID() != first.ID() {
			absorbed.Add(a.ID())
		}
	}
	if !loop {
		palindrome = begin == rbegin
	}

	first.setEnds(begin, end, rbegin, rend)
	first.setLength(length)
	first.setDepth(depth)
	first.setFlag(flagLoop, loop)
	first.setFlag(flagPalindrome, palindrome)
	if markChanged {
		first.setFlag(flagChanged, true)
	}
}

// rebuild compacts the surviving vertices into fresh storage with unknown
// degrees and rebuilds the identifier map and lock bits.
func (g *Graph) rebuild(dropped *roaring.Bitmap) error {
	old := g.vertices
	n := uint32(old.Len())
	seeds := make([]vertexSeed, 0, uint64(n)-dropped.GetCardinality())
	for id := uint32(0); id < n; id++ {
		if dropped.Contains(id) {
			continue
		}
		s := old.At(id).seed()
		s.flags &^= flagToDelete
		seeds = append(seeds, s)
	}
	if err := g.store(seeds); err != nil {
		g.vertices = old
		return err
	}
	return nil
}
