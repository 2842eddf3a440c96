package font

import (
	"bytes"
	"fmt"
	"image"
	"math"

	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/maplabel"
)

// FontID identifies a registered font. The zero value is invalid.
type FontID uint32

// InvalidFont is returned for unknown font names.
const InvalidFont FontID = 0

type face struct {
	name    string
	outline *sfnt.Font
	shaping *gtfont.Font
}

type glyphKey struct {
	font FontID
	id   uint16
	size int
	blur float32
}

// Glyph is a glyph bitmap packed in the atlas. Empty glyphs such as spaces
// have zero size and occupy no atlas space.
type Glyph struct {
	// X, Y, W, H is the atlas rectangle in pixels.
	X, Y, W, H int

	// BearingX and BearingY offset the bitmap's top-left corner from the
	// pen position on the baseline, y down.
	BearingX, BearingY float32
}

// Empty reports whether the glyph has no bitmap.
func (g Glyph) Empty() bool { return g.W == 0 || g.H == 0 }

// Rasterizer is the shaping and rasterization state of a Context: the
// font registry, the current font selection and the packed glyphs.
//
// A Rasterizer is only reachable through Context.Do, which holds the
// context lock for the duration of the callback.
type Rasterizer struct {
	ctx *Context

	fonts []*face
	names map[string]FontID

	current FontID
	size    int
	blur    float32

	glyphs map[glyphKey]Glyph
	packer *shelfPacker

	buf    sfnt.Buffer
	shaper shaping.HarfbuzzShaper
}

func newRasterizer(ctx *Context, atlasSize, padding int) *Rasterizer {
	return &Rasterizer{
		ctx:    ctx,
		names:  make(map[string]FontID),
		glyphs: make(map[glyphKey]Glyph),
		packer: newShelfPacker(atlasSize, atlasSize, padding),
	}
}

// addFont registers data under name. A name registers once; later calls
// with the same name succeed without decoding.
func (r *Rasterizer) addFont(data []byte, name string) bool {
	if _, ok := r.names[name]; ok {
		return true
	}
	outline, err := opentype.Parse(data)
	if err != nil {
		maplabel.Logger().Warn("font: error loading font data", "name", name, "err", err)
		return false
	}
	shaped, err := gtfont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		maplabel.Logger().Warn("font: error loading font data", "name", name, "err", err)
		return false
	}
	r.fonts = append(r.fonts, &face{name: name, outline: outline, shaping: shaped.Font})
	id := FontID(len(r.fonts)) //nolint:gosec // font count bounded by memory
	r.names[name] = id
	maplabel.Logger().Debug("font: registered", "name", name, "id", id)
	return true
}

func (r *Rasterizer) face(id FontID) *face {
	if id == InvalidFont || int(id) > len(r.fonts) {
		return nil
	}
	return r.fonts[id-1]
}

// SetFont selects a registered font and size. An unknown name is logged
// and leaves the previous selection in place.
func (r *Rasterizer) SetFont(name string, size int) {
	id, ok := r.names[name]
	if !ok {
		maplabel.Logger().Warn("font: could not find font", "name", name)
		return
	}
	r.current = id
	r.size = size
}

// Font returns the current selection. The ID is InvalidFont when nothing
// is selected.
func (r *Rasterizer) Font() (FontID, int) {
	return r.current, r.size
}

// FontID returns the ID of a registered font, or InvalidFont.
func (r *Rasterizer) FontID(name string) FontID {
	id, ok := r.names[name]
	if !ok {
		maplabel.Logger().Warn("font: could not find font", "name", name)
		return InvalidFont
	}
	return id
}

// SetSignedDistanceField makes glyphs rasterized from now on distance
// fields with the given spread in pixels. Glyphs already in the atlas keep
// their encoding. A spread <= 0 returns to plain coverage.
func (r *Rasterizer) SetSignedDistanceField(blurSpread float32) {
	r.blur = max(blurSpread, 0)
}

// SignedDistanceField returns the current distance-field spread, 0 when
// glyphs are plain coverage.
func (r *Rasterizer) SignedDistanceField() float32 {
	return r.blur
}

// ClearState drops the font selection and the distance-field mode.
func (r *Rasterizer) ClearState() {
	r.current = InvalidFont
	r.size = 0
	r.blur = 0
}

// Metrics returns the ascent and descent of the current font in pixels,
// both positive.
func (r *Rasterizer) Metrics() (ascent, descent float32, err error) {
	f := r.face(r.current)
	if f == nil {
		return 0, 0, ErrNoFont
	}
	m, err := f.outline.Metrics(&r.buf, fixed.I(r.size), xfont.HintingNone)
	if err != nil {
		return 0, 0, fmt.Errorf("font: metrics of %q: %w", f.name, err)
	}
	return fixedToFloat(m.Ascent), fixedToFloat(m.Descent), nil
}

// Glyph returns the atlas slot of glyph id in the current font and size,
// rasterizing and uploading it on first use.
func (r *Rasterizer) Glyph(id uint16) (Glyph, error) {
	f := r.face(r.current)
	if f == nil {
		return Glyph{}, ErrNoFont
	}
	if r.size <= 0 {
		return Glyph{}, fmt.Errorf("%w: %d", ErrInvalidSize, r.size)
	}
	key := glyphKey{font: r.current, id: id, size: r.size, blur: r.blur}
	if g, ok := r.glyphs[key]; ok {
		return g, nil
	}

	bitmap, bx, by, err := r.rasterize(f, id)
	if err != nil {
		return Glyph{}, err
	}
	g := Glyph{BearingX: bx, BearingY: by}
	if bitmap != nil {
		w, h := bitmap.Rect.Dx(), bitmap.Rect.Dy()
		x, y, ok := r.packer.pack(w, h)
		if !ok {
			maplabel.Logger().Warn("font: atlas is full",
				"font", f.name, "glyph", id, "utilization", r.packer.utilization())
			return Glyph{}, ErrAtlasFull
		}
		if err := r.ctx.UpdateAtlas(x, y, w, h, bitmap.Pix); err != nil {
			return Glyph{}, err
		}
		g.X, g.Y, g.W, g.H = x, y, w, h
	}
	r.glyphs[key] = g
	return g, nil
}

// rasterize renders glyph id as coverage, or as a distance field when a
// spread is set. It returns a nil bitmap for glyphs without an outline.
func (r *Rasterizer) rasterize(f *face, id uint16) (bitmap *image.Alpha, bx, by float32, err error) {
	segs, err := f.outline.LoadGlyph(&r.buf, sfnt.GlyphIndex(id), fixed.I(r.size), nil)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("font: glyph %d of %q: %w", id, f.name, err)
	}
	if len(segs) == 0 {
		return nil, 0, 0, nil
	}

	b := segs.Bounds()
	x0, y0 := b.Min.X.Floor(), b.Min.Y.Floor()
	w, h := b.Max.X.Ceil()-x0, b.Max.Y.Ceil()-y0
	if w <= 0 || h <= 0 {
		return nil, 0, 0, nil
	}
	pad := 0
	if r.blur > 0 {
		pad = int(math.Ceil(float64(r.blur)))
	}
	w, h = w+2*pad, h+2*pad
	ox, oy := float32(pad-x0), float32(pad-y0)

	z := vector.NewRasterizer(w, h)
	started := false
	for _, s := range segs {
		a := s.Args
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				z.ClosePath()
			}
			z.MoveTo(fixedToFloat(a[0].X)+ox, fixedToFloat(a[0].Y)+oy)
			started = true
		case sfnt.SegmentOpLineTo:
			z.LineTo(fixedToFloat(a[0].X)+ox, fixedToFloat(a[0].Y)+oy)
		case sfnt.SegmentOpQuadTo:
			z.QuadTo(
				fixedToFloat(a[0].X)+ox, fixedToFloat(a[0].Y)+oy,
				fixedToFloat(a[1].X)+ox, fixedToFloat(a[1].Y)+oy,
			)
		case sfnt.SegmentOpCubeTo:
			z.CubeTo(
				fixedToFloat(a[0].X)+ox, fixedToFloat(a[0].Y)+oy,
				fixedToFloat(a[1].X)+ox, fixedToFloat(a[1].Y)+oy,
				fixedToFloat(a[2].X)+ox, fixedToFloat(a[2].Y)+oy,
			)
		}
	}
	if started {
		z.ClosePath()
	}

	bitmap = image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(bitmap, bitmap.Bounds(), image.Opaque, image.Point{})
	if r.blur > 0 {
		bitmap = distanceField(bitmap, r.blur)
	}
	return bitmap, float32(x0 - pad), float32(y0 - pad), nil
}

func fixedToFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
