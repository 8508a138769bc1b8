package tess

// PathElement is a single command in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo adds a straight segment.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo adds a quadratic Bezier segment.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo adds a cubic Bezier segment.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath back to its start.
type Close struct{}

func (Close) isPathElement() {}

// Winding selects the direction in which shape helpers emit their points.
type Winding int

const (
	// WindingPositive emits points counter-clockwise (y up).
	WindingPositive Winding = iota
	// WindingNegative emits points clockwise (y up).
	WindingNegative
)

// String returns the winding name.
func (w Winding) String() string {
	switch w {
	case WindingPositive:
		return "Positive"
	case WindingNegative:
		return "Negative"
	default:
		return "Unknown"
	}
}

// Path is an immutable-by-convention list of path elements. Paths are
// built with the drawing methods or with a PathBuilder and then handed to
// a GeometryBuilder.
type Path struct {
	elements []PathElement
	start    Point
	current  Point
	open     bool
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{elements: make([]PathElement, 0, 16)}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
	p.open = true
}

// LineTo adds a line to (x, y). Without a current subpath it behaves
// like MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadTo adds a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	if !p.open {
		p.MoveTo(cx, cy)
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo adds a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !p.open {
		p.MoveTo(c1x, c1y)
	}
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// Close closes the current subpath. Closing without an open subpath is a
// no-op.
func (p *Path) Close() {
	if !p.open {
		return
	}
	p.elements = append(p.elements, Close{})
	p.current = p.start
	p.open = false
}

// Elements returns the path elements. The slice must not be modified.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// Len returns the number of elements.
func (p *Path) Len() int {
	return len(p.elements)
}

// CurrentPoint returns the end of the last element.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// Clear removes all elements, keeping capacity.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
	p.open = false
}

// Clone returns a deep copy of the path.
func (p *Path) Clone() *Path {
	c := *p
	c.elements = append([]PathElement(nil), p.elements...)
	return &c
}

// AddRectangle appends a closed rectangle subpath. WindingPositive goes
// min, (max.x, min.y), max, (min.x, max.y).
func (p *Path) AddRectangle(r Rect, w Winding) {
	p.MoveTo(r.Min.X, r.Min.Y)
	if w == WindingNegative {
		p.LineTo(r.Min.X, r.Max.Y)
		p.LineTo(r.Max.X, r.Max.Y)
		p.LineTo(r.Max.X, r.Min.Y)
	} else {
		p.LineTo(r.Max.X, r.Min.Y)
		p.LineTo(r.Max.X, r.Max.Y)
		p.LineTo(r.Min.X, r.Max.Y)
	}
	p.Close()
}

// AddPolygon appends a polyline through pts, closed if requested.
func (p *Path) AddPolygon(pts []Point, closed bool) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	if closed {
		p.Close()
	}
}

// kappa places cubic control points so that four segments approximate a
// circle.
const kappa = 0.5522847498307936

// AddEllipse appends a closed ellipse built from four cubic segments.
func (p *Path) AddEllipse(center Point, rx, ry float64, w Winding) {
	ox, oy := rx*kappa, ry*kappa
	cx, cy := center.X, center.Y
	if w == WindingNegative {
		oy, ry = -oy, -ry
	}

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// AddCircle appends a closed circle.
func (p *Path) AddCircle(center Point, r float64, w Winding) {
	p.AddEllipse(center, r, r, w)
}

// PathBuilder is a fluent wrapper around Path.
//
//	path := tess.BuildPath().
//		MoveTo(0, 0).
//		LineTo(100, 0).
//		QuadTo(150, 50, 100, 100).
//		Close().
//		Build()
type PathBuilder struct {
	path *Path
}

// BuildPath starts a new fluent path.
func BuildPath() *PathBuilder {
	return &PathBuilder{path: NewPath()}
}

// MoveTo starts a subpath.
func (b *PathBuilder) MoveTo(x, y float64) *PathBuilder {
	b.path.MoveTo(x, y)
	return b
}

// LineTo adds a line.
func (b *PathBuilder) LineTo(x, y float64) *PathBuilder {
	b.path.LineTo(x, y)
	return b
}

// QuadTo adds a quadratic curve.
func (b *PathBuilder) QuadTo(cx, cy, x, y float64) *PathBuilder {
	b.path.QuadTo(cx, cy, x, y)
	return b
}

// CubicTo adds a cubic curve.
func (b *PathBuilder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) *PathBuilder {
	b.path.CubicTo(c1x, c1y, c2x, c2y, x, y)
	return b
}

// Close closes the current subpath.
func (b *PathBuilder) Close() *PathBuilder {
	b.path.Close()
	return b
}

// Rectangle adds a closed rectangle.
func (b *PathBuilder) Rectangle(r Rect, w Winding) *PathBuilder {
	b.path.AddRectangle(r, w)
	return b
}

// Circle adds a closed circle.
func (b *PathBuilder) Circle(center Point, radius float64, w Winding) *PathBuilder {
	b.path.AddCircle(center, radius, w)
	return b
}

// Build returns the constructed path.
func (b *PathBuilder) Build() *Path {
	return b.path
}
