package tess

import (
	"fmt"
	"slices"
)

// Default tessellation parameters.
const (
	DefaultTolerance   = 0.02
	DefaultStrokeWidth = 2.0
)

var (
	white = [4]float32{1, 1, 1, 1}
	black = [4]float32{0, 0, 0, 1}
)

// Option configures a GeometryBuilder.
type Option func(*options)

type options struct {
	fillTolerance   float64
	strokeTolerance float64
	fillRule        FillRule
	stroke          StrokeStyle
	fillVertex      FillVertexFunc
	strokeVertex    StrokeVertexFunc
}

func defaultOptions() options {
	style := DefaultStrokeStyle()
	style.Width = DefaultStrokeWidth
	return options{
		fillTolerance:   DefaultTolerance,
		strokeTolerance: DefaultTolerance,
		fillRule:        FillNonZero,
		stroke:          style,
		fillVertex:      SolidFill(white, 0),
		strokeVertex:    SolidStroke(black, 0),
	}
}

// WithTolerance sets both the fill and stroke flattening tolerance.
func WithTolerance(fill, stroke float64) Option {
	return func(o *options) {
		o.fillTolerance = fill
		o.strokeTolerance = stroke
	}
}

// WithFillRule selects the fill rule. The default is FillNonZero.
func WithFillRule(r FillRule) Option {
	return func(o *options) { o.fillRule = r }
}

// WithStrokeStyle sets width, caps and joins of the outline.
func WithStrokeStyle(s StrokeStyle) Option {
	return func(o *options) { o.stroke = s }
}

// WithColors paints fill and stroke vertices with solid colours at depth z.
// The defaults are opaque white fill and opaque black stroke at z = 0.
func WithColors(fill, stroke [4]float32, z float32) Option {
	return func(o *options) {
		o.fillVertex = SolidFill(fill, z)
		o.strokeVertex = SolidStroke(stroke, z)
	}
}

// WithFillVertex installs a custom fill vertex constructor.
func WithFillVertex(f FillVertexFunc) Option {
	return func(o *options) { o.fillVertex = f }
}

// WithStrokeVertex installs a custom stroke vertex constructor.
func WithStrokeVertex(f StrokeVertexFunc) Option {
	return func(o *options) { o.strokeVertex = f }
}

// GeometryBuilder appends fill and stroke tessellations of paths to one
// shared mesh. Each call returns the index range it wrote, so ranges from
// consecutive calls are contiguous and ordered by call.
//
// A failed call leaves the mesh unchanged.
type GeometryBuilder struct {
	opts options
	mesh Mesh
}

// NewGeometryBuilder creates a builder with an empty mesh.
func NewGeometryBuilder(opts ...Option) *GeometryBuilder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &GeometryBuilder{opts: o}
}

// Fill tessellates the interior of p.
func (b *GeometryBuilder) Fill(p *Path) (Range, error) {
	if b.opts.fillTolerance <= 0 {
		return Range{}, fmt.Errorf("fill: %w", ErrInvalidTolerance)
	}

	lines := flatten(p, b.opts.fillTolerance)
	total := len(b.mesh.Vertices)
	for _, l := range lines {
		total += len(l.points)
	}
	if total > MaxVertices {
		return Range{}, fmt.Errorf("fill: %w", ErrTooManyVertices)
	}

	res, err := tessellateFill(lines, b.opts.fillRule)
	if err != nil {
		return Range{}, fmt.Errorf("fill: %w", err)
	}

	// Emit only the points that ended up in a triangle.
	remap := make(map[int]uint16, len(res.points))
	var verts []Vertex
	base := len(b.mesh.Vertices)
	for _, t := range res.tris {
		for _, i := range t {
			if _, ok := remap[i]; ok {
				continue
			}
			if base+len(verts) >= MaxVertices {
				return Range{}, fmt.Errorf("fill: %w", ErrTooManyVertices)
			}
			remap[i] = uint16(base + len(verts))
			verts = append(verts, b.opts.fillVertex(FillVertex{Position: res.points[i]}))
		}
	}

	indices := make([]uint16, 0, len(res.tris)*3)
	for _, t := range res.tris {
		indices = append(indices, remap[t[0]], remap[t[1]], remap[t[2]])
	}
	return b.append(verts, indices), nil
}

// Stroke tessellates the outline of p.
func (b *GeometryBuilder) Stroke(p *Path) (Range, error) {
	if b.opts.strokeTolerance <= 0 {
		return Range{}, fmt.Errorf("stroke: %w", ErrInvalidTolerance)
	}
	if b.opts.stroke.Width <= 0 {
		return Range{}, fmt.Errorf("stroke: width %v: %w", b.opts.stroke.Width, ErrDegeneratePath)
	}

	res, err := tessellateStroke(flatten(p, b.opts.strokeTolerance), b.opts.stroke, b.opts.strokeTolerance)
	if err != nil {
		return Range{}, fmt.Errorf("stroke: %w", err)
	}

	base := len(b.mesh.Vertices)
	if base+len(res.verts) > MaxVertices {
		return Range{}, fmt.Errorf("stroke: %w", ErrTooManyVertices)
	}

	verts := make([]Vertex, len(res.verts))
	for i, v := range res.verts {
		verts[i] = b.opts.strokeVertex(v)
	}
	indices := make([]uint16, 0, len(res.tris)*3)
	for _, t := range res.tris {
		indices = append(indices, uint16(base+t[0]), uint16(base+t[1]), uint16(base+t[2]))
	}
	return b.append(verts, indices), nil
}

func (b *GeometryBuilder) append(verts []Vertex, indices []uint16) Range {
	start := uint32(len(b.mesh.Indices))
	b.mesh.Vertices = append(b.mesh.Vertices, verts...)
	b.mesh.Indices = append(b.mesh.Indices, indices...)
	return Range{Start: start, End: uint32(len(b.mesh.Indices))}
}

// Mesh returns the accumulated mesh. The builder keeps ownership; call
// Reset before reusing the builder if the mesh is retained.
func (b *GeometryBuilder) Mesh() *Mesh {
	return &b.mesh
}

// Reset discards the accumulated mesh.
func (b *GeometryBuilder) Reset() {
	b.mesh = Mesh{}
}

// Tessellate fills then strokes p into a fresh mesh. The returned mesh
// records the fill range [0, fill_end) and the stroke range
// [fill_end, stroke_end).
func Tessellate(p *Path, fillTolerance, strokeTolerance float64, opts ...Option) (*Mesh, error) {
	b := NewGeometryBuilder(append(slices.Clone(opts), WithTolerance(fillTolerance, strokeTolerance))...)

	fill, err := b.Fill(p)
	if err != nil {
		return nil, err
	}
	stroke, err := b.Stroke(p)
	if err != nil {
		return nil, err
	}

	m := b.Mesh()
	m.Fill = fill
	m.Stroke = stroke
	return m, nil
}
