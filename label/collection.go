package label

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel/font"
	"github.com/gogpu/maplabel/mesh"
)

// Collection owns the atlas quads of its labels and the mesh they draw
// into.
type Collection interface {
	// Quads returns count quads starting at index start.
	Quads(start, count int) []mesh.Quad

	// Mesh returns the mesh labels append vertices to.
	Mesh() *mesh.QuadMesh
}

// labels is the storage shared by SpriteLabels and TextLabels.
type labels struct {
	quads  []mesh.Quad
	mesh   *mesh.QuadMesh
	items  []*Label
}

func (c *labels) Quads(start, count int) []mesh.Quad {
	if start < 0 || count <= 0 || start+count > len(c.quads) {
		return nil
	}
	return c.quads[start : start+count]
}

func (c *labels) Mesh() *mesh.QuadMesh { return c.mesh }

// Labels returns the labels in insertion order.
func (c *labels) Labels() []*Label { return c.items }

// Len returns the number of labels.
func (c *labels) Len() int { return len(c.items) }

// ResetMesh clears the mesh before a new frame.
func (c *labels) ResetMesh() { c.mesh.Reset() }

// SpriteLabels is a collection of point and debug labels, one atlas quad
// each.
type SpriteLabels struct {
	labels
}

// NewSpriteLabels creates an empty collection.
func NewSpriteLabels() *SpriteLabels {
	return &SpriteLabels{labels{mesh: mesh.NewQuadMesh(64)}}
}

// Add creates a point label drawing quad. The quad's local positions are
// shifted by the anchor and offset.
func (s *SpriteLabels) Add(wt WorldTransform, dim mgl32.Vec2, opts Options, extrude float32, quad mesh.Quad) *Label {
	return s.add(KindPoint, wt, dim, opts, extrude, quad)
}

// AddDebug creates a debug label. It behaves like a point label.
func (s *SpriteLabels) AddDebug(wt WorldTransform, dim mgl32.Vec2, opts Options, quad mesh.Quad) *Label {
	return s.add(KindDebug, wt, dim, opts, 1, quad)
}

func (s *SpriteLabels) add(kind Kind, wt WorldTransform, dim mgl32.Vec2, opts Options, extrude float32, quad mesh.Quad) *Label {
	l := newLabel(kind, wt, dim, opts, extrude, s, len(s.quads), 1)
	if !opts.Flat {
		quad = quad.Translate(l.anchor.Add(opts.Offset))
	}
	s.quads = append(s.quads, quad)
	s.items = append(s.items, l)
	return l
}

// SpriteQuad builds a quad of size dim centred on the label origin that
// samples the atlas rectangle [uv0, uv1].
func SpriteQuad(dim, uv0, uv1 mgl32.Vec2, color uint32) mesh.Quad {
	half := dim.Mul(0.5)
	return mesh.NewQuad(mgl32.Vec2{-half[0], -half[1]}, half, uv0, uv1, color)
}

// TextLabels is a collection of text labels built from glyph layouts.
type TextLabels struct {
	labels
}

// NewTextLabels creates an empty collection.
func NewTextLabels() *TextLabels {
	return &TextLabels{labels{mesh: mesh.NewQuadMesh(256)}}
}

// Add creates a text label from a layout. Glyph quads are tinted with
// color, a packed RGBA8 value, and shifted by the anchor and offset. Text
// labels always face the viewer.
func (t *TextLabels) Add(wt WorldTransform, layout *font.Layout, opts Options, extrude float32, color uint32) *Label {
	l := newLabel(KindText, wt, layout.Size, opts, extrude, t, len(t.quads), len(layout.Quads))
	shift := l.anchor.Add(opts.Offset)
	for _, q := range layout.Quads {
		q = q.Translate(shift)
		q.Color = color
		t.quads = append(t.quads, q)
	}
	t.items = append(t.items, l)
	return l
}
