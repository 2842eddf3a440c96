package font

import (
	"unicode"

	"github.com/go-text/typesetting/di"
	gtfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"
)

// ShapedGlyph is one positioned glyph of a shaped run, in pixels with the
// pen starting at the origin on the baseline, y down.
type ShapedGlyph struct {
	ID      uint16
	Cluster int
	X, Y    float32
	Advance float32
}

// Shape shapes text as a single horizontal run in the current font and
// size. Glyphs are returned in visual order, left to right.
func (r *Rasterizer) Shape(text string) ([]ShapedGlyph, error) {
	f := r.face(r.current)
	if f == nil {
		return nil, ErrNoFont
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	out := r.shaper.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: runDirection(text),
		Face:      gtfont.NewFace(f.shaping),
		Size:      fixed.I(r.size),
		Script:    runScript(runes),
		Language:  language.NewLanguage("en"),
	})

	glyphs := make([]ShapedGlyph, len(out.Glyphs))
	var pen float32
	for i, g := range out.Glyphs {
		adv := fixedToFloat(g.Advance)
		glyphs[i] = ShapedGlyph{
			ID:      uint16(g.GlyphID), //nolint:gosec // sfnt glyph indices are 16 bit
			Cluster: g.TextIndex(),
			X:       pen + fixedToFloat(g.XOffset),
			Y:       -fixedToFloat(g.YOffset),
			Advance: adv,
		}
		pen += adv
	}
	return glyphs, nil
}

// runDirection returns right-to-left when the bidi paragraph of text
// resolves to a single right-to-left run.
func runDirection(text string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(text, bidi.DefaultDirection(bidi.Neutral)); err != nil {
		return di.DirectionLTR
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return di.DirectionLTR
	}
	for i := range ordering.NumRuns() {
		run := ordering.Run(i)
		if run.Direction() != bidi.RightToLeft {
			return di.DirectionLTR
		}
	}
	return di.DirectionRTL
}

// runScript returns the script of the first letter in runes.
func runScript(runes []rune) language.Script {
	for _, r := range runes {
		if unicode.IsLetter(r) {
			return language.LookupScript(r)
		}
	}
	return language.Latin
}
