// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package font manages the glyph atlas shared by label layout workers and
// the render thread.
//
// A Context owns two locks. The atlas lock guards the atlas pixels: every
// producer write (UpdateAtlas) and every flush (BindAtlas) is mutually
// exclusive. The context lock guards the shaping and rasterization state
// and is taken through Do. When both are needed the context lock is taken
// first.
//
// Typical use:
//
//	ctx, err := font.NewContext()
//	if err != nil {
//		return err
//	}
//	ctx.AddFont(goregular.TTF, "sans")
//
//	// layout workers
//	l, err := ctx.Layout("sans", 16, "Main Street")
//
//	// render thread, once per frame
//	if err := ctx.BindAtlas(0); err != nil {
//		return err
//	}
package font

import (
	"image"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/maplabel"
	"github.com/gogpu/maplabel/cache"
	"github.com/gogpu/maplabel/texture"
)

// Context is the glyph atlas manager. It is safe for concurrent use.
type Context struct {
	config Config

	// atlasMu guards atlas.
	atlasMu sync.Mutex
	atlas   *texture.Texture

	// mu guards rast.
	mu   sync.Mutex
	rast *Rasterizer

	// blur mirrors rast.blur for lock-free layout cache lookups.
	blur    atomic.Uint32
	layouts *cache.Sharded[layoutKey, *Layout]
}

// NewContext creates a context with an empty atlas.
func NewContext(opts ...Option) (*Context, error) {
	o := options{config: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}

	atlas, err := texture.New(o.config.AtlasSize, o.config.AtlasSize, o.backend)
	if err != nil {
		return nil, err
	}
	c := &Context{
		config:  o.config,
		atlas:   atlas,
		layouts: cache.NewSharded[layoutKey, *Layout](o.config.CacheCapacity, hashLayoutKey),
	}
	c.rast = newRasterizer(c, o.config.AtlasSize, o.config.Padding)
	return c, nil
}

// Config returns the configuration the context was created with.
func (c *Context) Config() Config { return c.config }

// AddFont registers TrueType or OpenType data under name. Registering a
// name twice succeeds and keeps the first font. Undecodable data is logged
// and reported as false.
func (c *Context) AddFont(data []byte, name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rast.addFont(data, name)
}

// SetFont selects the current font and size. An unknown name is logged and
// the previous selection is kept.
func (c *Context) SetFont(name string, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rast.SetFont(name, size)
}

// FontID returns the ID of a registered font. An unknown name is logged
// and InvalidFont is returned.
func (c *Context) FontID(name string) FontID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rast.FontID(name)
}

// SetSignedDistanceField switches glyphs rasterized from now on to signed
// distance fields with the given spread. Glyphs already in the atlas are
// not re-rasterized.
func (c *Context) SetSignedDistanceField(blurSpread float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rast.SetSignedDistanceField(blurSpread)
	c.blur.Store(math.Float32bits(c.rast.blur))
}

// ClearState resets the font selection and the distance-field mode.
func (c *Context) ClearState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rast.ClearState()
	c.blur.Store(0)
}

// ResetAtlas drops every packed glyph and cached layout and clears the
// atlas pixels, so a full atlas can be refilled. Fonts, the font selection
// and the distance-field mode are kept. Layouts obtained earlier reference
// the old atlas contents and must be rebuilt.
func (c *Context) ResetAtlas() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.rast.glyphs)
	c.rast.packer.reset()
	c.layouts.Clear()

	c.atlasMu.Lock()
	defer c.atlasMu.Unlock()
	w, h := c.atlas.Width(), c.atlas.Height()
	if err := c.atlas.SetSubData(0, 0, w, h, make([]byte, w*h)); err != nil {
		return err
	}
	maplabel.Logger().Debug("font: atlas reset", "size", w)
	return nil
}

// Do runs fn with the context lock held. The lock is released however fn
// returns, including by panic.
func (c *Context) Do(fn func(*Rasterizer) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := fn(c.rast)
	c.blur.Store(math.Float32bits(c.rast.blur))
	return err
}

// UpdateAtlas writes a tightly packed w*h coverage region into the atlas
// at (x, y). It is the producer side of the atlas and may be called from
// any goroutine.
func (c *Context) UpdateAtlas(x, y, w, h int, pixels []byte) error {
	c.atlasMu.Lock()
	defer c.atlasMu.Unlock()
	return c.atlas.SetSubData(x, y, w, h, pixels)
}

// BindAtlas flushes pending atlas writes to the GPU texture and binds it
// on unit. The flush holds the atlas lock; the bind happens after it is
// released.
func (c *Context) BindAtlas(unit uint32) error {
	c.atlasMu.Lock()
	n, err := c.atlas.Update()
	c.atlasMu.Unlock()
	if err != nil {
		maplabel.Logger().Warn("font: atlas upload failed", "err", err)
		return err
	}
	if n > 0 {
		maplabel.Logger().Debug("font: atlas flushed", "uploads", n, "unit", unit)
	}
	return c.atlas.Bind(unit)
}

// AtlasImage returns a snapshot of the atlas pixels.
func (c *Context) AtlasImage() *image.Alpha {
	c.atlasMu.Lock()
	defer c.atlasMu.Unlock()
	return c.atlas.Image()
}

// AtlasChecksum returns the CRC-32 of the atlas pixels.
func (c *Context) AtlasChecksum() uint32 {
	c.atlasMu.Lock()
	defer c.atlasMu.Unlock()
	return c.atlas.Checksum()
}

// AtlasDirty reports whether atlas writes await the next BindAtlas.
func (c *Context) AtlasDirty() bool {
	c.atlasMu.Lock()
	defer c.atlasMu.Unlock()
	return c.atlas.Dirty()
}

// Stats is a snapshot of atlas and layout cache usage.
type Stats struct {
	Glyphs      int
	Utilization float64
	Layouts     cache.Stats
}

// Stats returns current usage counters.
func (c *Context) Stats() Stats {
	c.mu.Lock()
	s := Stats{Glyphs: len(c.rast.glyphs), Utilization: c.rast.packer.utilization()}
	c.mu.Unlock()
	s.Layouts = c.layouts.Stats()
	return s
}
