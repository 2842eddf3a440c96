// Package maplabel is the label-placement and glyph-atlas core of a
// vector-map renderer.
//
// # Overview
//
// Every frame, world-anchored labels are projected to the screen, given an
// oriented bounding box for collision testing, and (if they survive
// placement) appended as quads to a shared vertex mesh. Text labels sample a
// glyph atlas that layout workers fill concurrently while the render thread
// draws.
//
// # Packages
//
//   - geom: world to clip, clip to screen, rotation, oriented bounding boxes
//   - label: the label variants (point, text, debug) and their per-frame pipeline
//   - placement: frame driver and default collision resolver
//   - font: glyph atlas manager, rasterizer, layout workers
//   - texture: atlas texture with dirty tracking and GPU backends
//   - mesh: the sprite vertex wire format and dynamic quad mesh
//   - ease: easing curves driving label fades
//
// # Frame Flow
//
//	frame := placement.NewFrame()
//	stats := frame.Run(labels, viewProj, view, dt)
//	fonts.BindAtlas(0)
//	// draw sprites.Mesh() and texts.Mesh()
//
// # Logging
//
// maplabel is silent by default. Call [SetLogger] to route diagnostics to a
// [log/slog] logger; all sub-packages share it.
package maplabel

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 2

	// VersionPatch is the patch version
	VersionPatch = 0
)
