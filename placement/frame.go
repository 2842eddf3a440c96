// Package placement drives labels through a frame: projection, collision
// resolution, fading and vertex emission.
package placement

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/label"
)

// Stats summarizes one frame.
type Stats struct {
	Labels    int // labels considered
	Projected int // labels in front of the camera
	Occluded  int // labels occluded this frame, including rejected ones
	Drawn     int // labels that emitted vertices
}

// Frame runs the per-frame label pipeline. A Frame reuses its buffers
// between runs and is not safe for concurrent use.
type Frame struct {
	resolver Resolver
	drawAll  bool

	cands    []Candidate
	index    []int
	occluded []bool
	rejected []bool
	results  []bool
}

// Option configures a Frame.
type Option func(*Frame)

// WithResolver replaces the default GreedyResolver.
func WithResolver(r Resolver) Option {
	return func(f *Frame) {
		if r != nil {
			f.resolver = r
		}
	}
}

// WithDrawAll passes drawAll to every screen transform update.
func WithDrawAll(drawAll bool) Option {
	return func(f *Frame) { f.drawAll = drawAll }
}

// NewFrame creates a frame driver.
func NewFrame(opts ...Option) *Frame {
	f := &Frame{resolver: &GreedyResolver{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run processes labels for one frame and appends the visible ones to their
// collection meshes. Callers reset the meshes between frames. Labels that
// fail projection count as occluded and draw nothing this frame, even while
// fading out.
func (f *Frame) Run(labels []*label.Label, mvp mgl32.Mat4, view label.ViewState, dt float32) Stats {
	st := Stats{Labels: len(labels)}

	f.cands = f.cands[:0]
	f.index = f.index[:0]
	f.occluded = resize(f.occluded, len(labels))
	f.rejected = resize(f.rejected, len(labels))
	for i, l := range labels {
		if !l.UpdateScreenTransform(mvp, view, f.drawAll) {
			f.occluded[i] = true
			f.rejected[i] = true
			continue
		}
		l.UpdateBBoxes(view.FractZoom)
		f.cands = append(f.cands, Candidate{OBB: l.OBB(), Priority: l.Priority()})
		f.index = append(f.index, i)
		f.occluded[i] = false
	}
	st.Projected = len(f.cands)

	f.results = resize(f.results, len(f.cands))
	f.resolver.Resolve(f.cands, f.results)
	for j, i := range f.index {
		f.occluded[i] = f.results[j]
	}

	for i, l := range labels {
		if f.occluded[i] {
			st.Occluded++
		}
		l.SetOccluded(f.occluded[i])
		l.UpdateFade(dt)
		if f.rejected[i] || !l.Visible() {
			continue
		}
		st.Drawn++
		l.AddVerticesToMesh()
	}

	maplabel.Logger().Debug("placement: frame",
		"labels", st.Labels, "projected", st.Projected, "occluded", st.Occluded, "drawn", st.Drawn)
	return st
}

func resize(s []bool, n int) []bool {
	if cap(s) < n {
		return make([]bool, n)
	}
	s = s[:n]
	clear(s)
	return s
}
