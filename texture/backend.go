package texture

import (
	"image"
	"sync"
)

// Backend receives texture uploads and bind requests on the render thread.
type Backend interface {
	// Upload copies a tightly packed single-channel region into the GPU
	// texture at (x, y).
	Upload(x, y, w, h int, pixels []byte) error

	// Bind makes the texture current on the given texture unit.
	Bind(unit uint32) error
}

// MemoryBackend mirrors uploads into an in-memory image. It is used by
// headless runs and tests.
type MemoryBackend struct {
	mu      sync.Mutex
	img     *image.Alpha
	uploads int
	bytes   int
	unit    uint32
	bound   bool
}

// NewMemoryBackend creates a mirror of the given size.
func NewMemoryBackend(width, height int) *MemoryBackend {
	return &MemoryBackend{img: image.NewAlpha(image.Rect(0, 0, width, height))}
}

// Upload implements Backend.
func (m *MemoryBackend) Upload(x, y, w, h int, pixels []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !image.Rect(x, y, x+w, y+h).In(m.img.Rect) {
		return ErrOutOfBounds
	}
	if len(pixels) < w*h {
		return ErrShortData
	}
	for row := range h {
		off := m.img.PixOffset(x, y+row)
		copy(m.img.Pix[off:off+w], pixels[row*w:(row+1)*w])
	}
	m.uploads++
	m.bytes += w * h
	return nil
}

// Bind implements Backend.
func (m *MemoryBackend) Bind(unit uint32) error {
	m.mu.Lock()
	m.unit = unit
	m.bound = true
	m.mu.Unlock()
	return nil
}

// Image returns a copy of the mirrored texture.
func (m *MemoryBackend) Image() *image.Alpha {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := image.NewAlpha(m.img.Rect)
	copy(cp.Pix, m.img.Pix)
	return cp
}

// Uploads returns the number of Upload calls and the total bytes uploaded.
func (m *MemoryBackend) Uploads() (calls, bytes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads, m.bytes
}

// BoundUnit returns the last bound unit and whether Bind was ever called.
func (m *MemoryBackend) BoundUnit() (uint32, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unit, m.bound
}
