package label

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Anchor places a label relative to its world position.
type Anchor uint8

// Anchor values.
const (
	AnchorCenter Anchor = iota
	AnchorTop
	AnchorBottom
	AnchorLeft
	AnchorRight
	AnchorTopLeft
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

var anchorNames = [...]string{
	AnchorCenter:      "center",
	AnchorTop:         "top",
	AnchorBottom:      "bottom",
	AnchorLeft:        "left",
	AnchorRight:       "right",
	AnchorTopLeft:     "top-left",
	AnchorTopRight:    "top-right",
	AnchorBottomLeft:  "bottom-left",
	AnchorBottomRight: "bottom-right",
}

// String returns the style name of the anchor.
func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return fmt.Sprintf("Anchor(%d)", a)
}

// ParseAnchor parses a style anchor name such as "top-left".
func ParseAnchor(s string) (Anchor, error) {
	for i, name := range anchorNames {
		if name == s {
			return Anchor(i), nil //nolint:gosec // bounded by anchorNames
		}
	}
	return AnchorCenter, fmt.Errorf("label: unknown anchor %q", s)
}

// Direction returns the unit screen direction (y down) the label is pushed
// towards from its position.
func (a Anchor) Direction() mgl32.Vec2 {
	switch a {
	case AnchorTop:
		return mgl32.Vec2{0, -1}
	case AnchorBottom:
		return mgl32.Vec2{0, 1}
	case AnchorLeft:
		return mgl32.Vec2{-1, 0}
	case AnchorRight:
		return mgl32.Vec2{1, 0}
	case AnchorTopLeft:
		return mgl32.Vec2{-1, -1}
	case AnchorTopRight:
		return mgl32.Vec2{1, -1}
	case AnchorBottomLeft:
		return mgl32.Vec2{-1, 1}
	case AnchorBottomRight:
		return mgl32.Vec2{1, 1}
	default:
		return mgl32.Vec2{}
	}
}

// anchorOffset returns the screen offset of a label of size dim anchored
// by the first of anchors.
func anchorOffset(anchors []Anchor, dim mgl32.Vec2) mgl32.Vec2 {
	a := AnchorCenter
	if len(anchors) > 0 {
		a = anchors[0]
	}
	d := a.Direction()
	return mgl32.Vec2{d[0] * dim[0] * 0.5, d[1] * dim[1] * 0.5}
}
