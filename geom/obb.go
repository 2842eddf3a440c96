package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// containsEpsilon absorbs float32 rounding when testing containment.
const containsEpsilon = 1e-4

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

// Envelope returns the smallest axis-aligned rectangle enclosing points.
// It returns the zero Rect when points is empty.
func Envelope(points ...mgl32.Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	inf := float32(math.Inf(1))
	r := Rect{
		Min: mgl32.Vec2{inf, inf},
		Max: mgl32.Vec2{-inf, -inf},
	}
	for _, p := range points {
		r.Min[0] = min(r.Min[0], p[0])
		r.Min[1] = min(r.Min[1], p[1])
		r.Max[0] = max(r.Max[0], p[0])
		r.Max[1] = max(r.Max[1], p[1])
	}
	return r
}

// Size returns the width and height of the rectangle.
func (r Rect) Size() mgl32.Vec2 {
	return r.Max.Sub(r.Min)
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() mgl32.Vec2 {
	return r.Min.Add(r.Max).Mul(0.5)
}

// OBB is an oriented bounding box in screen pixels. Axis is the unit
// direction of the box's local x axis; the local y axis is its
// perpendicular.
type OBB struct {
	Center     mgl32.Vec2
	Axis       mgl32.Vec2
	HalfWidth  float32
	HalfHeight float32
}

// NewOBB builds a box from its center, orientation axis and full width and
// height. A zero axis is treated as (1, 0).
func NewOBB(center, axis mgl32.Vec2, width, height float32) OBB {
	l := axis.Len()
	if l == 0 {
		axis = mgl32.Vec2{1, 0}
	} else {
		axis = axis.Mul(1 / l)
	}
	return OBB{
		Center:     center,
		Axis:       axis,
		HalfWidth:  width * 0.5,
		HalfHeight: height * 0.5,
	}
}

// perp returns the local y axis.
func (o OBB) perp() mgl32.Vec2 {
	return mgl32.Vec2{-o.Axis[1], o.Axis[0]}
}

// Width returns the full width of the box.
func (o OBB) Width() float32 { return o.HalfWidth * 2 }

// Height returns the full height of the box.
func (o OBB) Height() float32 { return o.HalfHeight * 2 }

// Corners returns the four corners of the box.
func (o OBB) Corners() [4]mgl32.Vec2 {
	ax := o.Axis.Mul(o.HalfWidth)
	ay := o.perp().Mul(o.HalfHeight)
	return [4]mgl32.Vec2{
		o.Center.Sub(ax).Sub(ay),
		o.Center.Add(ax).Sub(ay),
		o.Center.Add(ax).Add(ay),
		o.Center.Sub(ax).Add(ay),
	}
}

// ContainsPoint reports whether p lies inside or on the box.
func (o OBB) ContainsPoint(p mgl32.Vec2) bool {
	d := p.Sub(o.Center)
	u := d.Dot(o.Axis)
	v := d.Dot(o.perp())
	return abs32(u) <= o.HalfWidth+containsEpsilon && abs32(v) <= o.HalfHeight+containsEpsilon
}

// Contains reports whether q lies entirely inside o.
func (o OBB) Contains(q OBB) bool {
	for _, c := range q.Corners() {
		if !o.ContainsPoint(c) {
			return false
		}
	}
	return true
}

// Intersects reports whether the two boxes overlap, using the separating
// axis test on the four box axes. Boxes that only touch do not intersect.
func (o OBB) Intersects(q OBB) bool {
	axes := [4]mgl32.Vec2{o.Axis, o.perp(), q.Axis, q.perp()}
	oc := o.Corners()
	qc := q.Corners()
	for _, axis := range axes {
		omin, omax := project(oc, axis)
		qmin, qmax := project(qc, axis)
		if omax <= qmin || qmax <= omin {
			return false
		}
	}
	return true
}

// Inflate returns a copy grown by d in full width and full height.
func (o OBB) Inflate(d float32) OBB {
	o.HalfWidth += d * 0.5
	o.HalfHeight += d * 0.5
	return o
}

func project(corners [4]mgl32.Vec2, axis mgl32.Vec2) (lo, hi float32) {
	lo = corners[0].Dot(axis)
	hi = lo
	for _, c := range corners[1:] {
		p := c.Dot(axis)
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return lo, hi
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
