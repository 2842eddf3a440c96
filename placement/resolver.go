package placement

import (
	"slices"

	"github.com/gogpu/maplabel/geom"
)

// Candidate is a label competing for screen space.
type Candidate struct {
	OBB      geom.OBB
	Priority uint32
}

// Resolver decides which candidates are hidden by others. Resolve writes
// one result per candidate into occluded, which has the same length.
type Resolver interface {
	Resolve(cands []Candidate, occluded []bool)
}

// GreedyResolver accepts candidates by descending priority, ties broken by
// insertion order. A candidate overlapping an accepted one is occluded.
type GreedyResolver struct {
	order    []int
	accepted []geom.OBB
}

// Resolve implements Resolver.
func (g *GreedyResolver) Resolve(cands []Candidate, occluded []bool) {
	g.order = g.order[:0]
	for i := range cands {
		g.order = append(g.order, i)
	}
	slices.SortStableFunc(g.order, func(a, b int) int {
		pa, pb := cands[a].Priority, cands[b].Priority
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		}
		return 0
	})

	g.accepted = g.accepted[:0]
	for _, i := range g.order {
		box := cands[i].OBB
		hit := false
		for _, a := range g.accepted {
			if a.Intersects(box) {
				hit = true
				break
			}
		}
		occluded[i] = hit
		if !hit {
			g.accepted = append(g.accepted, box)
		}
	}
}
