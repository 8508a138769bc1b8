// Package tess converts vector paths into triangle meshes for the GPU.
//
// A GeometryBuilder tessellates the interior of a path (fill) and its
// outline (stroke) into one growing vertex/index buffer. Fill output always
// precedes stroke output when both come from Tessellate, so a renderer can
// bind the buffers once and issue one indexed draw per range.
//
// Curves are flattened with adaptive de Casteljau subdivision. Fill uses
// ear clipping with hole bridging under the non-zero or even-odd rule.
// Strokes are built from per-segment quads joined with miter, bevel or
// round joins.
//
// All emitted triangles are counter-clockwise in a y-up coordinate system.
// Indices are 16-bit; a mesh that would exceed 65536 vertices is rejected.
package tess
