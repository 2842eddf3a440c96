// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/maplabel"
)

// ErrNoHAL is returned when a device provider does not expose HAL types.
var ErrNoHAL = errors.New("texture: provider does not expose HAL device and queue")

// HALBackend uploads atlas regions into an R8Unorm wgpu texture.
//
// HAL has no fixed-function texture units; Bind records which view is
// current for a unit so the pipeline can build its bind group from
// BoundView.
type HALBackend struct {
	device hal.Device
	queue  hal.Queue

	texture hal.Texture
	view    hal.TextureView
	width   uint32
	height  uint32

	mu    sync.Mutex
	bound map[uint32]hal.TextureView
}

// NewHALBackend creates the GPU texture and its view on device.
func NewHALBackend(device hal.Device, queue hal.Queue, width, height int, label string) (*HALBackend, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // checked positive above

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatR8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("texture: failed to create %q: %w", label, err)
	}

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gputypes.TextureFormatR8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, fmt.Errorf("texture: failed to create view for %q: %w", label, err)
	}

	maplabel.Logger().Info("texture: created HAL atlas", "label", label, "width", w, "height", h)

	return &HALBackend{
		device:  device,
		queue:   queue,
		texture: tex,
		view:    view,
		width:   w,
		height:  h,
		bound:   make(map[uint32]hal.TextureView),
	}, nil
}

// NewHALBackendFromProvider creates a backend on the device shared by a
// gpucontext provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewHALBackendFromProvider(provider gpucontext.DeviceProvider, width, height int) (*HALBackend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return NewHALBackend(device, queue, width, height, "glyph_atlas")
}

// Upload implements Backend.
func (b *HALBackend) Upload(x, y, w, h int, pixels []byte) error {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || uint32(x+w) > b.width || uint32(y+h) > b.height { //nolint:gosec // non-negative
		return ErrOutOfBounds
	}
	if len(pixels) < w*h {
		return ErrShortData
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.texture == nil {
		return errors.New("texture: backend destroyed")
	}

	//nolint:gosec // bounds checked above
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  b.texture,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y)},
		},
		pixels[:w*h],
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
	return nil
}

// Bind implements Backend.
func (b *HALBackend) Bind(unit uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view == nil {
		return errors.New("texture: backend destroyed")
	}
	b.bound[unit] = b.view
	return nil
}

// View returns the atlas texture view.
func (b *HALBackend) View() hal.TextureView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// BoundView returns the view bound to unit, or nil.
func (b *HALBackend) BoundView(unit uint32) hal.TextureView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound[unit]
}

// Destroy releases the GPU texture and view. It is safe to call twice.
func (b *HALBackend) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view != nil {
		b.device.DestroyTextureView(b.view)
		b.view = nil
	}
	if b.texture != nil {
		b.device.DestroyTexture(b.texture)
		b.texture = nil
	}
	clear(b.bound)
}
