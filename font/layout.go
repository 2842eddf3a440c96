package font

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/maplabel/mesh"
)

// Layout is a shaped and rasterized single-line text. Quads are centred on
// the label origin and reference the atlas. A Layout may be shared between
// goroutines and must not be modified.
type Layout struct {
	Font FontID
	Text string

	// Quads holds one atlas quad per visible glyph.
	Quads []mesh.Quad

	// Size is the width and line height of the text box in pixels.
	Size mgl32.Vec2
}

type layoutKey struct {
	font string
	size int
	blur uint32
	text string
}

func hashLayoutKey(k layoutKey) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.font))
	_, _ = h.Write([]byte{0, byte(k.size), byte(k.size >> 8), byte(k.blur), byte(k.blur >> 24)})
	_, _ = h.Write([]byte(k.text))
	return h.Sum64()
}

// Layout shapes text in the named font and size, rasterizes glyphs missing
// from the atlas and returns the glyph quads. Results are cached, so
// repeated requests do not take the context lock.
//
// The font selection seen by SetFont and Do is left unchanged.
func (c *Context) Layout(name string, size int, text string) (*Layout, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	key := layoutKey{font: name, size: size, blur: c.blur.Load(), text: text}
	if l, ok := c.layouts.Get(key); ok {
		return l, nil
	}

	var layout *Layout
	err := c.Do(func(r *Rasterizer) error {
		id, ok := r.names[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFont, name)
		}
		prevFont, prevSize := r.current, r.size
		r.current, r.size = id, size
		defer func() { r.current, r.size = prevFont, prevSize }()

		l, err := r.layout(text)
		if err != nil {
			return err
		}
		l.Font = id
		layout = l
		// the key blur is re-read under the lock in case it changed
		key.blur = math.Float32bits(r.blur)
		// cached under the lock so ResetAtlas cannot interleave
		c.layouts.Set(key, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return layout, nil
}

// layout builds a Layout with the current font selection.
func (r *Rasterizer) layout(text string) (*Layout, error) {
	ascent, descent, err := r.Metrics()
	if err != nil {
		return nil, err
	}
	shaped, err := r.Shape(text)
	if err != nil {
		return nil, err
	}

	var width float32
	for _, g := range shaped {
		width += g.Advance
	}
	// centre the box: x on the advance, y between ascent and descent
	origin := mgl32.Vec2{-width / 2, (ascent - descent) / 2}
	atlas := float32(r.packer.width)

	l := &Layout{Text: text, Size: mgl32.Vec2{width, ascent + descent}}
	for _, sg := range shaped {
		g, err := r.Glyph(sg.ID)
		if err != nil {
			return nil, err
		}
		if g.Empty() {
			continue
		}
		lo := origin.Add(mgl32.Vec2{sg.X + g.BearingX, sg.Y + g.BearingY})
		hi := lo.Add(mgl32.Vec2{float32(g.W), float32(g.H)})
		uv0 := mgl32.Vec2{float32(g.X) / atlas, float32(g.Y) / atlas}
		uv1 := mgl32.Vec2{float32(g.X+g.W) / atlas, float32(g.Y+g.H) / atlas}
		l.Quads = append(l.Quads, mesh.NewQuad(lo, hi, uv0, uv1, 0xffffffff))
	}
	return l, nil
}
