package mesh

import "github.com/go-gl/mathgl/mgl32"

// QuadCorner is one corner of an atlas quad slot.
type QuadCorner struct {
	// Pos is the local screen-pixel offset from the label anchor, y down,
	// pre-scaled by PositionScale.
	Pos [2]int16

	// UV is the atlas texture coordinate scaled by TextureScale.
	UV [2]uint16
}

// Quad is the draw-call slot a label looks up by index: a packed color and
// four corners ordered (-x,-y), (+x,-y), (-x,+y), (+x,+y).
type Quad struct {
	Color   uint32
	Corners [4]QuadCorner
}

// NewQuad builds a quad covering the local pixel rectangle [lo, hi] and the
// normalized texture rectangle [uv0, uv1].
func NewQuad(lo, hi, uv0, uv1 mgl32.Vec2, color uint32) Quad {
	return Quad{
		Color: color,
		Corners: [4]QuadCorner{
			{Pos: PackPosition(lo), UV: PackUV(uv0[0], uv0[1])},
			{Pos: PackPosition(mgl32.Vec2{hi[0], lo[1]}), UV: PackUV(uv1[0], uv0[1])},
			{Pos: PackPosition(mgl32.Vec2{lo[0], hi[1]}), UV: PackUV(uv0[0], uv1[1])},
			{Pos: PackPosition(hi), UV: PackUV(uv1[0], uv1[1])},
		},
	}
}

// Translate returns a copy of q with every corner shifted by d pixels.
func (q Quad) Translate(d mgl32.Vec2) Quad {
	for i := range q.Corners {
		p := UnpackPosition(q.Corners[i].Pos).Add(d)
		q.Corners[i].Pos = PackPosition(p)
	}
	return q
}
