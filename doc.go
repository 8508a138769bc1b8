// Package papercut is a small 2D frame pipeline built on the gogpu wgpu HAL.
//
// # Overview
//
// A frame is produced by five cooperating packages:
//
//   - gfx: the graphics context (adapter, device, queue and surface)
//   - texture: immutable, shareable sampled images
//   - tess: fill and stroke tessellation of vector paths into one mesh
//   - camera: orthographic projection and a look-at view
//   - render: pipelines, static buffers and the per-frame draw sequence
//
// The cmd/papercut binary wires them into a GLFW window and drives one
// render pass per redraw.
//
// # Coordinate System
//
// World units are pixels. The camera maps [0, width] x [0, height] to
// normalized device coordinates with a left-handed convention, so +Y is up
// and larger depth values are nearer the viewer. Depth is cleared to 0 and
// tested with a "greater" comparison.
//
// # Logging
//
// The root package owns a slog.Logger shared by every sub-package. It is
// silent until SetLogger is called.
package papercut
