// Package camera maintains the view and projection transforms uploaded to
// the renderer once per frame.
//
// Projection is orthographic and left-handed: world x in [0, width] and
// y in [0, height] map to [-1, 1] in clip space, z in [-1, 1] maps to the
// [0, 1] depth range used by wgpu. The view is a look-at transform driven
// by a position and a target, so it can follow a tracked point instead of
// being fixed.
package camera
