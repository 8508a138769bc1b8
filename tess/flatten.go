package tess

import "math"

// maxSubdivision bounds curve recursion so NaN or huge inputs terminate.
const maxSubdivision = 16

// polyline is one flattened subpath.
type polyline struct {
	points []Point
	closed bool
}

// flatten converts every subpath of p into a polyline whose maximum
// deviation from the true curve is at most tolerance.
func flatten(p *Path, tolerance float64) []polyline {
	var (
		out     []polyline
		cur     *polyline
		current Point
	)

	finish := func() {
		if cur != nil && len(cur.points) > 0 {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, el := range p.Elements() {
		switch e := el.(type) {
		case MoveTo:
			finish()
			cur = &polyline{points: []Point{e.Point}}
			current = e.Point
		case LineTo:
			cur.points = append(cur.points, e.Point)
			current = e.Point
		case QuadTo:
			cur.points = flattenQuad(cur.points, current, e.Control, e.Point, tolerance, 0)
			current = e.Point
		case CubicTo:
			cur.points = flattenCubic(cur.points, current, e.Control1, e.Control2, e.Point, tolerance, 0)
			current = e.Point
		case Close:
			if cur != nil {
				cur.closed = true
				current = cur.points[0]
				finish()
			}
		}
	}
	finish()
	return out
}

// flattenQuad appends the flattened curve (excluding p0) to dst using
// de Casteljau subdivision.
func flattenQuad(dst []Point, p0, p1, p2 Point, tolerance float64, depth int) []Point {
	if depth >= maxSubdivision || pointLineDistance(p1, p0, p2) <= tolerance {
		return append(dst, p2)
	}

	q0 := midpoint(p0, p1)
	q1 := midpoint(p1, p2)
	r := midpoint(q0, q1)

	dst = flattenQuad(dst, p0, q0, r, tolerance, depth+1)
	return flattenQuad(dst, r, q1, p2, tolerance, depth+1)
}

// flattenCubic appends the flattened curve (excluding p0) to dst.
func flattenCubic(dst []Point, p0, p1, p2, p3 Point, tolerance float64, depth int) []Point {
	d := math.Max(pointLineDistance(p1, p0, p3), pointLineDistance(p2, p0, p3))
	if depth >= maxSubdivision || d <= tolerance {
		return append(dst, p3)
	}

	q0 := midpoint(p0, p1)
	q1 := midpoint(p1, p2)
	q2 := midpoint(p2, p3)
	r0 := midpoint(q0, q1)
	r1 := midpoint(q1, q2)
	s := midpoint(r0, r1)

	dst = flattenCubic(dst, p0, q0, r0, s, tolerance, depth+1)
	return flattenCubic(dst, s, r1, q2, p3, tolerance, depth+1)
}

// pointLineDistance is the perpendicular distance from p to the line a-b,
// or the distance to a when a and b coincide.
func pointLineDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < 1e-20 {
		return p.Sub(a).Length()
	}
	return math.Abs(ab.Cross(p.Sub(a))) / math.Sqrt(lenSq)
}

func midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) * 0.5, Y: (a.Y + b.Y) * 0.5}
}

// dedupe removes consecutive points closer than eps. For closed rings the
// wrap-around duplicate is removed as well.
func dedupe(pts []Point, closed bool, eps float64) []Point {
	out := make([]Point, 0, len(pts))
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1].Near(p, eps) {
			continue
		}
		out = append(out, p)
	}
	if closed {
		for len(out) > 1 && out[len(out)-1].Near(out[0], eps) {
			out = out[:len(out)-1]
		}
	}
	return out
}
