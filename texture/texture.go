// Package texture provides the CPU-side glyph atlas texture: a single
// channel pixel store with dirty-tile tracking that is flushed to a GPU
// Backend on demand.
package texture

import (
	"errors"
	"fmt"
	"hash/crc32"
	"image"
)

var (
	// ErrOutOfBounds is returned for regions outside the texture.
	ErrOutOfBounds = errors.New("texture: region out of bounds")

	// ErrShortData is returned when a pixel buffer is smaller than its region.
	ErrShortData = errors.New("texture: pixel data shorter than region")

	// ErrInvalidSize is returned by New for non-positive dimensions.
	ErrInvalidSize = errors.New("texture: invalid size")
)

// Texture is an R8 pixel store mirrored to a GPU texture. Writes mark the
// touched tiles dirty; Update uploads every dirty tile exactly once.
//
// Texture does not lock. Callers serialize SetSubData and Update, the font
// atlas does this with its atlas mutex.
type Texture struct {
	width, height int
	pix           []byte
	dirty         *dirtyTiles
	backend       Backend
	scratch       []byte
}

// New creates a texture of the given size. A nil backend discards uploads.
// The whole texture starts dirty so the first Update allocates the GPU
// contents.
func New(width, height int, backend Backend) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	t := &Texture{
		width:   width,
		height:  height,
		pix:     make([]byte, width*height),
		dirty:   newDirtyTiles(width, height),
		backend: backend,
	}
	t.dirty.markAll()
	return t, nil
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// SetSubData copies a tightly packed w*h region into the store at (x, y)
// and marks it dirty.
func (t *Texture) SetSubData(x, y, w, h int, pixels []byte) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if x < 0 || y < 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("%w: %d,%d %dx%d in %dx%d", ErrOutOfBounds, x, y, w, h, t.width, t.height)
	}
	if len(pixels) < w*h {
		return fmt.Errorf("%w: got %d, need %d", ErrShortData, len(pixels), w*h)
	}
	for row := range h {
		off := (y+row)*t.width + x
		copy(t.pix[off:off+w], pixels[row*w:(row+1)*w])
	}
	t.dirty.markRect(x, y, w, h)
	return nil
}

// Dirty reports whether any tile awaits upload.
func (t *Texture) Dirty() bool {
	return !t.dirty.empty()
}

// DirtyTiles returns the number of tiles awaiting upload.
func (t *Texture) DirtyTiles() int {
	return t.dirty.count()
}

// Update uploads every dirty span to the backend and returns the number
// of uploads. Spans that fail to upload are marked dirty again.
func (t *Texture) Update() (int, error) {
	spans := t.dirty.take()
	if len(spans) == 0 || t.backend == nil {
		return 0, nil
	}

	var errs []error
	uploads := 0
	for _, s := range spans {
		r := image.Rect(s.Min.X*TileSize, s.Min.Y*TileSize, s.Max.X*TileSize, s.Max.Y*TileSize).
			Intersect(image.Rect(0, 0, t.width, t.height))
		data := t.region(r)
		if err := t.backend.Upload(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), data); err != nil {
			t.dirty.markRect(r.Min.X, r.Min.Y, r.Dx(), r.Dy())
			errs = append(errs, err)
			continue
		}
		uploads++
	}
	if len(errs) > 0 {
		return uploads, fmt.Errorf("texture: upload failed: %w", errors.Join(errs...))
	}
	return uploads, nil
}

// Bind binds the texture on the given unit. It does not flush.
func (t *Texture) Bind(unit uint32) error {
	if t.backend == nil {
		return nil
	}
	return t.backend.Bind(unit)
}

// region packs r into the scratch buffer. The result is valid until the
// next call.
func (t *Texture) region(r image.Rectangle) []byte {
	n := r.Dx() * r.Dy()
	if cap(t.scratch) < n {
		t.scratch = make([]byte, n)
	}
	buf := t.scratch[:n]
	for row := range r.Dy() {
		off := (r.Min.Y+row)*t.width + r.Min.X
		copy(buf[row*r.Dx():(row+1)*r.Dx()], t.pix[off:off+r.Dx()])
	}
	return buf
}

// Checksum returns the CRC-32 of the pixel store.
func (t *Texture) Checksum() uint32 {
	return crc32.ChecksumIEEE(t.pix)
}

// Image returns a copy of the pixel store as an alpha image.
func (t *Texture) Image() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.pix)
	return img
}

// At returns the pixel value at (x, y), or 0 outside the texture.
func (t *Texture) At(x, y int) byte {
	if x < 0 || y < 0 || x >= t.width || y >= t.height {
		return 0
	}
	return t.pix[y*t.width+x]
}
