package label

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/geom"
	"github.com/gogpu/maplabel/mesh"
)

// UpdateScreenTransform projects the label for this frame. It returns
// false, leaving the previous screen state untouched, when any projected
// point lies behind the camera.
//
// Flat labels rotate clockwise about their own world position, not about
// the world origin, so a rotated label stays where it was placed.
//
// drawAll disables viewport culling. Labels are never culled against the
// viewport here, so it only affects logging.
func (l *Label) UpdateScreenTransform(mvp mgl32.Mat4, view ViewState, drawAll bool) bool {
	var ok bool
	switch l.kind {
	case KindPoint, KindDebug:
		if l.options.Flat {
			ok = l.updateFlat(mvp, view)
		} else {
			ok = l.updateBillboard(mvp, view)
		}
	case KindText:
		ok = l.updateBillboard(mvp, view)
	}
	if !ok {
		maplabel.Logger().Debug("label: rejected behind camera", "label", l, "drawAll", drawAll)
	}
	return ok
}

func (l *Label) updateFlat(mvp mgl32.Mat4, view ViewState) bool {
	p0 := l.transform.Position.Vec2()

	sourceScale := math.Pow(2, float64(l.transform.Position.Z()))
	scale := float32(sourceScale / (view.ZoomScale * view.TileSize * 2))
	if l.extrude != 1 {
		scale *= float32(math.Pow(2, float64(view.FractZoom))) * l.extrude
	}
	dim := l.dim.Mul(scale)

	corners := [4]mgl32.Vec2{
		p0.Sub(dim),
		p0.Add(mgl32.Vec2{dim[0], -dim[1]}),
		p0.Add(mgl32.Vec2{-dim[0], dim[1]}),
		p0.Add(dim),
	}
	if l.options.Angle != 0 {
		r := geom.ClockwiseRotation(l.options.Angle)
		for i := range corners {
			corners[i] = geom.RotateAround(corners[i], p0, r)
		}
	}

	var projected [4]mgl32.Vec4
	var screen [4]mgl32.Vec2
	for i, c := range corners {
		projected[i] = geom.WorldToClip(mvp, mgl32.Vec4{c[0], c[1], 0, 1})
		if geom.BehindCamera(projected[i]) {
			return false
		}
		screen[i] = geom.ClipToScreen(projected[i], view.ViewportSize)
	}

	l.projected = projected
	l.screen.Positions = screen
	l.viewport = view.ViewportSize
	return true
}

func (l *Label) updateBillboard(mvp mgl32.Mat4, view ViewState) bool {
	p0 := l.transform.Position
	clip := geom.WorldToClip(mvp, mgl32.Vec4{p0[0], p0[1], 0, 1})
	if geom.BehindCamera(clip) {
		return false
	}

	l.projected[0] = clip
	l.screen.Position = geom.ClipToScreen(clip, view.ViewportSize).Add(l.options.Offset)
	if l.options.Angle != 0 {
		l.screen.Rotation = geom.Rotation(l.options.Angle)
	} else {
		l.screen.Rotation = mgl32.Vec2{1, 0}
	}
	l.viewport = view.ViewportSize
	return true
}

// UpdateBBoxes computes the collision box from the last successful
// UpdateScreenTransform. zoomFract grows billboards between zoom levels.
//
// Flat labels get the axis-aligned envelope of their rotated corners,
// which is looser than the true rotated box.
func (l *Label) UpdateBBoxes(zoomFract float32) {
	grow := float32(0)
	if l.occludedLastFrame {
		grow = ActivationDistanceThreshold
	}

	if l.options.Flat && l.kind != KindText {
		env := geom.Envelope(l.screen.Positions[:]...)
		size := env.Size()
		l.obb = geom.NewOBB(env.Center(), mgl32.Vec2{1, 0}, size[0]+grow, size[1]+grow)
		return
	}

	e := l.extrude * 2 * zoomFract
	dim := l.dim.Add(mgl32.Vec2{e + grow, e + grow})
	l.obb = geom.NewOBB(l.screen.Position.Add(l.anchor), l.screen.Rotation, dim[0], dim[1])
}

// AddVerticesToMesh appends the label quads to its collection mesh. It does
// nothing while the label is hidden.
func (l *Label) AddVerticesToMesh() {
	if !l.Visible() {
		return
	}
	quads := l.collection.Quads(l.start, l.count)
	if len(quads) == 0 {
		return
	}
	m := l.collection.Mesh()
	l.screen.Alpha = l.fade.Alpha()
	alpha := mesh.PackAlpha(l.screen.Alpha)

	if l.options.Flat && l.kind != KindText {
		q := quads[0]
		state := mesh.State{Color: q.Color, Alpha: alpha}
		v := m.PushQuad()
		for i := range v {
			v[i] = mesh.SpriteVertex{Pos: l.projected[i], UV: q.Corners[i].UV, State: state}
		}
		return
	}

	if l.viewport[0] <= 0 || l.viewport[1] <= 0 {
		return
	}
	scale := mgl32.Vec2{2 / l.viewport[0], -2 / l.viewport[1]}
	ndc := geom.ClipToNDC(l.projected[0])
	for _, q := range quads {
		state := mesh.State{Color: q.Color, Alpha: alpha}
		v := m.PushQuad()
		for i, c := range q.Corners {
			off := mesh.UnpackPosition(c.Pos)
			pos := ndc.Add(mgl32.Vec2{off[0] * scale[0], off[1] * scale[1]})
			v[i] = mesh.SpriteVertex{Pos: mgl32.Vec4{pos[0], pos[1], 0, 1}, UV: c.UV, State: state}
		}
	}
}
