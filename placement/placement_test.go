package placement

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel/geom"
	"github.com/gogpu/maplabel/label"
)

var view = label.ViewState{ZoomScale: 1, TileSize: 256, ViewportSize: mgl32.Vec2{200, 200}}

// screenPos returns the world position that lands on pixel (x, y) under
// the identity matrix.
func screenPos(x, y float32) label.WorldTransform {
	return label.WorldTransform{Position: mgl32.Vec3{x/100 - 1, 1 - y/100, 0}}
}

func box(x, y, w, h float32, prio uint32) Candidate {
	return Candidate{OBB: geom.NewOBB(mgl32.Vec2{x, y}, mgl32.Vec2{1, 0}, w, h), Priority: prio}
}

func TestGreedyResolver(t *testing.T) {
	tests := []struct {
		name  string
		cands []Candidate
		want  []bool
	}{
		{"empty", nil, []bool{}},
		{"disjoint", []Candidate{box(0, 0, 10, 10, 0), box(20, 0, 10, 10, 0)}, []bool{false, false}},
		{"insertion order", []Candidate{box(0, 0, 10, 10, 0), box(5, 0, 10, 10, 0)}, []bool{false, true}},
		{"priority wins", []Candidate{box(0, 0, 10, 10, 1), box(5, 0, 10, 10, 3)}, []bool{true, false}},
		{"touching", []Candidate{box(0, 0, 10, 10, 0), box(10, 0, 10, 10, 0)}, []bool{false, false}},
		{"occluded does not block", []Candidate{
			box(0, 0, 10, 10, 2), box(8, 0, 10, 10, 1), box(16, 0, 10, 10, 0),
		}, []bool{false, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r GreedyResolver
			got := make([]bool, len(tt.cands))
			r.Resolve(tt.cands, got)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("occluded = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestGreedyNoOverlap(t *testing.T) {
	var cands []Candidate
	for i := range 60 {
		x := float32((i * 37) % 150)
		y := float32((i * 53) % 120)
		r := geom.Rotation(float32(i * 17))
		cands = append(cands, Candidate{
			OBB:      geom.NewOBB(mgl32.Vec2{x, y}, r, float32(10+i%20), float32(6+i%7)),
			Priority: uint32(i % 4),
		})
	}
	occluded := make([]bool, len(cands))
	var r GreedyResolver
	r.Resolve(cands, occluded)

	accepted := 0
	for i := range cands {
		if occluded[i] {
			continue
		}
		accepted++
		for j := i + 1; j < len(cands); j++ {
			if !occluded[j] && cands[i].OBB.Intersects(cands[j].OBB) {
				t.Errorf("accepted labels %d and %d overlap", i, j)
			}
		}
	}
	if accepted == 0 {
		t.Error("no label accepted")
	}
}

func TestFrameRun(t *testing.T) {
	sprites := label.NewSpriteLabels()
	quad := label.SpriteQuad(mgl32.Vec2{20, 20}, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0xffffffff)
	low := sprites.Add(screenPos(50, 50), mgl32.Vec2{20, 20}, label.Options{Priority: 1}, 1, quad)
	high := sprites.Add(screenPos(60, 50), mgl32.Vec2{20, 20}, label.Options{Priority: 5}, 1, quad)
	alone := sprites.Add(screenPos(150, 150), mgl32.Vec2{20, 20}, label.Options{}, 1, quad)

	f := NewFrame()
	st := f.Run(sprites.Labels(), mgl32.Ident4(), view, 0)
	want := Stats{Labels: 3, Projected: 3, Occluded: 1, Drawn: 2}
	if st != want {
		t.Errorf("Run() = %+v, want %+v", st, want)
	}
	if !low.OccludedLastFrame() || high.OccludedLastFrame() || alone.OccludedLastFrame() {
		t.Errorf("occlusion = %v %v %v, want true false false",
			low.OccludedLastFrame(), high.OccludedLastFrame(), alone.OccludedLastFrame())
	}
	if n := sprites.Mesh().QuadCount(); n != 2 {
		t.Errorf("QuadCount() = %d, want 2", n)
	}

	// second frame: the occluded label's box grows but rankings hold
	sprites.ResetMesh()
	st = f.Run(sprites.Labels(), mgl32.Ident4(), view, 0)
	if st.Occluded != 1 || sprites.Mesh().QuadCount() != 2 {
		t.Errorf("second Run() = %+v with %d quads", st, sprites.Mesh().QuadCount())
	}
}

func TestFrameBehindCamera(t *testing.T) {
	sprites := label.NewSpriteLabels()
	l := sprites.Add(screenPos(100, 100), mgl32.Vec2{10, 10}, label.Options{}, 1, label.SpriteQuad(mgl32.Vec2{10, 10}, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0))

	f := NewFrame(WithDrawAll(true))
	f.Run(sprites.Labels(), mgl32.Ident4(), view, 0)
	if !l.Visible() {
		t.Fatal("label not visible after first frame")
	}

	behind := mgl32.Ident4()
	behind[15] = -1
	st := f.Run(sprites.Labels(), behind, view, 0)
	if st.Projected != 0 || st.Occluded != 1 || st.Drawn != 0 {
		t.Errorf("Run() behind camera = %+v", st)
	}
	if l.FadeState() != label.FadeHidden {
		t.Errorf("FadeState() = %v, want hidden", l.FadeState())
	}
}

func TestFrameBehindCameraWhileFading(t *testing.T) {
	sprites := label.NewSpriteLabels()
	l := sprites.Add(screenPos(100, 100), mgl32.Vec2{10, 10}, label.DefaultOptions(), 1,
		label.SpriteQuad(mgl32.Vec2{10, 10}, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0))

	f := NewFrame()
	for range 20 {
		sprites.ResetMesh()
		f.Run(sprites.Labels(), mgl32.Ident4(), view, 1.0/60)
	}
	if l.FadeState() != label.FadeVisible {
		t.Fatalf("FadeState() = %v, want visible", l.FadeState())
	}

	behind := mgl32.Ident4()
	behind[15] = -1
	sprites.ResetMesh()
	st := f.Run(sprites.Labels(), behind, view, 1.0/60)
	if l.FadeState() != label.FadeFadingOut {
		t.Errorf("FadeState() = %v, want fading-out", l.FadeState())
	}
	if st.Drawn != 0 || st.Occluded != 1 {
		t.Errorf("Run() behind camera = %+v, want nothing drawn", st)
	}
	if n := sprites.Mesh().QuadCount(); n != 0 {
		t.Errorf("QuadCount() = %d, want 0 for a label behind the camera", n)
	}

	// back in view it resumes drawing while fading back in
	sprites.ResetMesh()
	st = f.Run(sprites.Labels(), mgl32.Ident4(), view, 1.0/60)
	if st.Drawn != 1 || sprites.Mesh().QuadCount() != 1 {
		t.Errorf("Run() back in view = %+v with %d quads", st, sprites.Mesh().QuadCount())
	}
}

type hideAll struct{ calls int }

func (h *hideAll) Resolve(cands []Candidate, occluded []bool) {
	h.calls++
	for i := range occluded {
		occluded[i] = true
	}
}

func TestWithResolver(t *testing.T) {
	sprites := label.NewSpriteLabels()
	sprites.Add(screenPos(100, 100), mgl32.Vec2{10, 10}, label.Options{}, 1, label.SpriteQuad(mgl32.Vec2{10, 10}, mgl32.Vec2{}, mgl32.Vec2{1, 1}, 0))

	r := &hideAll{}
	st := NewFrame(WithResolver(r), WithResolver(nil)).Run(sprites.Labels(), mgl32.Ident4(), view, 0)
	if r.calls != 1 || st.Drawn != 0 || st.Occluded != 1 {
		t.Errorf("calls = %d, stats = %+v", r.calls, st)
	}
}
