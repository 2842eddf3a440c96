// Package mesh defines the sprite vertex wire format shared with the GPU
// shader, the atlas quad slots labels draw from, and the dynamic quad mesh
// labels append to every frame.
package mesh

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Fixed-point scales of the vertex format. The sprite shader decodes with
// the same constants; changing them corrupts rendering silently.
const (
	// PositionScale pre-scales local quad offsets stored as int16.
	PositionScale float32 = 4.0

	// AlphaScale quantizes alpha to uint16.
	AlphaScale float32 = 65535.0

	// TextureScale quantizes texture coordinates to uint16.
	TextureScale float32 = 65535.0
)

// VertexStride is the size of one encoded SpriteVertex in bytes.
const VertexStride = 28

// State is the per-label shading state repeated on every vertex.
type State struct {
	Color    uint32 // offset 20: RGBA8, red in the low byte
	Alpha    uint16 // offset 24: alpha * AlphaScale
	Reserved uint16 // offset 26: always 0
}

// SpriteVertex is one vertex of a label quad.
type SpriteVertex struct {
	Pos   mgl32.Vec4 // offset  0: clip-space position
	UV    [2]uint16  // offset 16: texture coordinates * TextureScale
	State State
}

// Marshal appends the little-endian encoding of v to dst.
func (v *SpriteVertex) Marshal(dst []byte) []byte {
	var buf [VertexStride]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Pos[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Pos[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Pos[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Pos[3]))
	binary.LittleEndian.PutUint16(buf[16:18], v.UV[0])
	binary.LittleEndian.PutUint16(buf[18:20], v.UV[1])
	binary.LittleEndian.PutUint32(buf[20:24], v.State.Color)
	binary.LittleEndian.PutUint16(buf[24:26], v.State.Alpha)
	binary.LittleEndian.PutUint16(buf[26:28], v.State.Reserved)
	return append(dst, buf[:]...)
}

// UnmarshalVertex decodes a vertex encoded by Marshal.
// It returns false if src is shorter than VertexStride.
func UnmarshalVertex(src []byte) (SpriteVertex, bool) {
	if len(src) < VertexStride {
		return SpriteVertex{}, false
	}
	var v SpriteVertex
	for i := range 4 {
		v.Pos[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
	}
	v.UV[0] = binary.LittleEndian.Uint16(src[16:])
	v.UV[1] = binary.LittleEndian.Uint16(src[18:])
	v.State.Color = binary.LittleEndian.Uint32(src[20:])
	v.State.Alpha = binary.LittleEndian.Uint16(src[24:])
	v.State.Reserved = binary.LittleEndian.Uint16(src[26:])
	return v, true
}

// PackAlpha quantizes an alpha in [0, 1] to the vertex alpha field.
func PackAlpha(alpha float32) uint16 {
	return uint16(clamp01(alpha)*AlphaScale + 0.5)
}

// UnpackAlpha is the inverse of PackAlpha.
func UnpackAlpha(a uint16) float32 {
	return float32(a) / AlphaScale
}

// PackUV quantizes normalized texture coordinates.
func PackUV(u, v float32) [2]uint16 {
	return [2]uint16{
		uint16(clamp01(u)*TextureScale + 0.5),
		uint16(clamp01(v)*TextureScale + 0.5),
	}
}

// UnpackUV is the inverse of PackUV.
func UnpackUV(uv [2]uint16) mgl32.Vec2 {
	return mgl32.Vec2{float32(uv[0]) / TextureScale, float32(uv[1]) / TextureScale}
}

// PackPosition pre-scales a local pixel offset into the quad position
// format, saturating at the int16 range.
func PackPosition(p mgl32.Vec2) [2]int16 {
	return [2]int16{toInt16(p[0] * PositionScale), toInt16(p[1] * PositionScale)}
}

// UnpackPosition decodes a pre-scaled local offset back to pixels.
func UnpackPosition(p [2]int16) mgl32.Vec2 {
	return mgl32.Vec2{float32(p[0]) / PositionScale, float32(p[1]) / PositionScale}
}

// PackColor packs a color into the RGBA8 vertex color field.
func PackColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return uint32(n.R) | uint32(n.G)<<8 | uint32(n.B)<<16 | uint32(n.A)<<24
}

// UnpackColor is the inverse of PackColor.
func UnpackColor(c uint32) color.NRGBA {
	return color.NRGBA{R: uint8(c), G: uint8(c >> 8), B: uint8(c >> 16), A: uint8(c >> 24)}
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func toInt16(v float32) int16 {
	r := math.Round(float64(v))
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}
