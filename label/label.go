// Package label implements map labels: their per-frame screen transform,
// the bounding box handed to collision resolution, the fade state machine
// and vertex emission into the sprite mesh.
//
// Point, text and debug labels share one Label type tagged by Kind. A
// frame runs, for every label:
//
//	if l.UpdateScreenTransform(mvp, view, false) {
//		l.UpdateBBoxes(view.FractZoom)
//	}
//	// resolve collisions on l.OBB(), then
//	l.SetOccluded(occluded)
//	l.UpdateFade(dt)
//	l.AddVerticesToMesh()
package label

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel/geom"
)

// ActivationDistanceThreshold is the number of pixels a label's bounding
// box grows in width and height while it was occluded last frame.
const ActivationDistanceThreshold float32 = 2

// Kind tags the Label variant.
type Kind uint8

// Label kinds.
const (
	KindPoint Kind = iota
	KindText
	KindDebug
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindText:
		return "text"
	case KindDebug:
		return "debug"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// WorldTransform places a label in the world. Position z is the tile zoom
// the label was generated at, not a height.
type WorldTransform struct {
	Position mgl32.Vec3
}

// Options are the style options of a label.
type Options struct {
	// Anchors lists candidate anchors; the first one is applied.
	Anchors []Anchor

	// Offset is added to the screen position, in pixels.
	Offset mgl32.Vec2

	// Angle rotates the label clockwise, in degrees.
	Angle float32

	// Flat lays the label on the ground plane instead of facing the viewer.
	Flat bool

	// Priority orders collision resolution; higher wins.
	Priority uint32

	// Fade configures visibility transitions. The zero value switches
	// instantly.
	Fade FadeOptions
}

// DefaultOptions returns centred, screen-facing options with default fades.
func DefaultOptions() Options {
	return Options{Fade: DefaultFadeOptions()}
}

// ViewState is the camera state of a frame.
type ViewState struct {
	ZoomScale    float64
	TileSize     float64
	ViewportSize mgl32.Vec2
	FractZoom    float32
}

// ScreenTransform is the screen geometry of a label for one frame.
type ScreenTransform struct {
	// Positions are the flat label corners in screen pixels, ordered
	// (-x,-y), (+x,-y), (-x,+y), (+x,+y) in world space.
	Positions [4]mgl32.Vec2

	// Position is the billboard screen position with the offset applied.
	Position mgl32.Vec2

	// Rotation is the billboard screen rotation as a unit vector.
	Rotation mgl32.Vec2

	// Alpha is the opacity the label last drew with.
	Alpha float32
}

// Label is a point, text or debug label.
type Label struct {
	kind      Kind
	transform WorldTransform
	dim       mgl32.Vec2
	options   Options
	anchor    mgl32.Vec2
	extrude   float32

	collection Collection
	start      int
	count      int

	occludedLastFrame bool
	fade              *Fade
	screen            ScreenTransform
	obb               geom.OBB
	projected         [4]mgl32.Vec4
	viewport          mgl32.Vec2
}

func newLabel(kind Kind, wt WorldTransform, dim mgl32.Vec2, opts Options, extrude float32, c Collection, start, count int) *Label {
	if kind == KindText {
		opts.Flat = false
	}
	return &Label{
		kind:       kind,
		transform:  wt,
		dim:        dim,
		options:    opts,
		anchor:     anchorOffset(opts.Anchors, dim),
		extrude:    extrude,
		collection: c,
		start:      start,
		count:      count,
		fade:       newFade(opts.Fade),
		screen:     ScreenTransform{Rotation: mgl32.Vec2{1, 0}},
	}
}

// Kind returns the label variant.
func (l *Label) Kind() Kind { return l.kind }

// WorldTransform returns the world placement.
func (l *Label) WorldTransform() WorldTransform { return l.transform }

// Dim returns the label size in pixels.
func (l *Label) Dim() mgl32.Vec2 { return l.dim }

// Options returns the style options.
func (l *Label) Options() Options { return l.options }

// Priority returns the collision priority.
func (l *Label) Priority() uint32 { return l.options.Priority }

// Anchor returns the screen offset derived from the first anchor.
func (l *Label) Anchor() mgl32.Vec2 { return l.anchor }

// ScreenTransform returns the last committed screen geometry.
func (l *Label) ScreenTransform() ScreenTransform { return l.screen }

// Projected returns the clip-space corners of a flat label, or the
// anchor in element 0 for a billboard.
func (l *Label) Projected() [4]mgl32.Vec4 { return l.projected }

// Viewport returns the viewport size captured by the last projection.
func (l *Label) Viewport() mgl32.Vec2 { return l.viewport }

// OBB returns the bounding box computed by UpdateBBoxes.
func (l *Label) OBB() geom.OBB { return l.obb }

// OccludedLastFrame reports the occlusion set by the last SetOccluded.
func (l *Label) OccludedLastFrame() bool { return l.occludedLastFrame }

// SetOccluded records this frame's collision result. The next
// UpdateBBoxes reads it as last frame's occlusion.
func (l *Label) SetOccluded(occluded bool) { l.occludedLastFrame = occluded }

// UpdateFade advances the fade state machine by dt seconds.
func (l *Label) UpdateFade(dt float32) {
	l.fade.Update(dt, l.occludedLastFrame)
}

// Visible reports whether the label draws this frame.
func (l *Label) Visible() bool { return l.fade.Visible() }

// FadeState returns the fade state.
func (l *Label) FadeState() FadeState { return l.fade.State() }

// Alpha returns the current fade opacity.
func (l *Label) Alpha() float32 { return l.fade.Alpha() }

func (l *Label) String() string {
	return fmt.Sprintf("%s label at %v", l.kind, l.transform.Position)
}
