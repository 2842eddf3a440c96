package font

import "errors"

// Sentinel errors for the font package.
var (
	// ErrUnknownFont is returned when a font name was never registered.
	ErrUnknownFont = errors.New("font: unknown font")

	// ErrAtlasFull is returned when a glyph does not fit in the atlas.
	ErrAtlasFull = errors.New("font: atlas is full")

	// ErrNoFont is returned when no font is selected.
	ErrNoFont = errors.New("font: no font selected")

	// ErrInvalidSize is returned for non-positive font sizes.
	ErrInvalidSize = errors.New("font: invalid font size")
)
