package tess

import (
	"errors"
	"fmt"
	"math"
)

// Tessellation errors. They describe bad input and abort mesh
// construction; there is nothing to retry.
var (
	ErrDegeneratePath   = errors.New("tess: degenerate path")
	ErrSelfIntersecting = errors.New("tess: self-intersecting path")
	ErrTooManyVertices  = errors.New("tess: mesh exceeds 16-bit index range")
	ErrInvalidTolerance = errors.New("tess: tolerance must be positive")
)

// MaxVertices is the largest vertex count addressable by 16-bit indices.
const MaxVertices = math.MaxUint16 + 1

// Vertex is the GPU vertex produced by tessellation. Its layout matches
// the geometry pipeline: position f32x3 at offset 0, color f32x4 at 12.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// Range is a half-open range of indices [Start, End).
type Range struct {
	Start, End uint32
}

// Len returns the number of indices in the range.
func (r Range) Len() uint32 {
	return r.End - r.Start
}

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// String formats the range as "start..end".
func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Mesh is a triangle list with 16-bit indices. Fill and Stroke record the
// index ranges written by the last Tessellate call.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16

	Fill   Range
	Stroke Range
}

// IndexCount returns len(Indices) as uint32.
func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

// Validate checks that every index refers to an existing vertex and that
// the index count is a whole number of triangles.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("tess: %d indices is not a triangle list", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("tess: index %d at %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

// FillVertex describes a vertex produced by fill tessellation.
type FillVertex struct {
	Position Point
}

// StrokeVertex describes a vertex produced by stroke tessellation.
// Position equals Center + Normal*HalfWidth.
type StrokeVertex struct {
	Position  Point
	Center    Point
	Normal    Point
	HalfWidth float64
	// Advance is the distance along the subpath from its start.
	Advance float64
}

// FillVertexFunc builds a GPU vertex from a fill vertex.
type FillVertexFunc func(FillVertex) Vertex

// StrokeVertexFunc builds a GPU vertex from a stroke vertex.
type StrokeVertexFunc func(StrokeVertex) Vertex

// SolidFill returns a constructor that paints every fill vertex with c at
// depth z.
func SolidFill(c [4]float32, z float32) FillVertexFunc {
	return func(v FillVertex) Vertex {
		return Vertex{
			Position: [3]float32{float32(v.Position.X), float32(v.Position.Y), z},
			Color:    c,
		}
	}
}

// SolidStroke returns a constructor that paints every stroke vertex with c
// at depth z.
func SolidStroke(c [4]float32, z float32) StrokeVertexFunc {
	return func(v StrokeVertex) Vertex {
		return Vertex{
			Position: [3]float32{float32(v.Position.X), float32(v.Position.Y), z},
			Color:    c,
		}
	}
}
