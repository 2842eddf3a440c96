// Package geom holds the stateless math shared by the label pipeline:
// projection from world to clip space, clip to screen conversion, planar
// rotation and oriented bounding boxes.
//
// Matrices are column-major [mgl32.Mat4] values with w as the perspective
// divisor. Screen space has its origin at the top-left corner with y
// pointing down; world and clip space have y pointing up.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldToClip projects a homogeneous world position through a
// view-projection matrix.
func WorldToClip(mvp mgl32.Mat4, world mgl32.Vec4) mgl32.Vec4 {
	return mvp.Mul4x1(world)
}

// ClipToNDC performs the perspective divide and returns the x, y
// normalized device coordinates. The caller must ensure w > 0.
func ClipToNDC(clip mgl32.Vec4) mgl32.Vec2 {
	return mgl32.Vec2{clip[0] / clip[3], clip[1] / clip[3]}
}

// ClipToScreen converts a clip-space position to screen pixels for a
// viewport of the given size. The caller must ensure w > 0.
func ClipToScreen(clip mgl32.Vec4, viewport mgl32.Vec2) mgl32.Vec2 {
	ndc := ClipToNDC(clip)
	half := viewport.Mul(0.5)
	return mgl32.Vec2{
		(ndc[0] + 1) * half[0],
		(1 - ndc[1]) * half[1],
	}
}

// BehindCamera reports whether a clip-space position has a non-positive w
// and therefore cannot be divided into a meaningful screen position.
func BehindCamera(clip mgl32.Vec4) bool {
	return clip[3] <= 0
}

// Rotation returns the unit vector (cos a, sin a) for an angle in degrees.
func Rotation(degrees float32) mgl32.Vec2 {
	rad := float64(mgl32.DegToRad(degrees))
	return mgl32.Vec2{float32(math.Cos(rad)), float32(math.Sin(rad))}
}

// ClockwiseRotation returns the rotation vector that turns points clockwise
// by the given angle in a y-up plane such as the map ground plane.
func ClockwiseRotation(degrees float32) mgl32.Vec2 {
	r := Rotation(degrees)
	return mgl32.Vec2{r[0], -r[1]}
}

// RotateBy rotates p by the unit rotation vector r (complex multiplication).
func RotateBy(p, r mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		p[0]*r[0] - p[1]*r[1],
		p[0]*r[1] + p[1]*r[0],
	}
}

// RotateAround rotates p around center by the unit rotation vector r.
func RotateAround(p, center, r mgl32.Vec2) mgl32.Vec2 {
	return RotateBy(p.Sub(center), r).Add(center)
}
