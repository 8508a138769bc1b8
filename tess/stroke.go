package tess

import "math"

// LineCap is the shape of open subpath ends.
type LineCap int

const (
	// LineCapButt ends the stroke flush with the end point.
	LineCapButt LineCap = iota
	// LineCapSquare extends the stroke by half its width.
	LineCapSquare
	// LineCapRound ends the stroke with a semicircle.
	LineCapRound
)

// LineJoin is the shape drawn where two segments meet.
type LineJoin int

const (
	// LineJoinMiter extends the outer edges until they meet, falling back
	// to a bevel past the miter limit.
	LineJoinMiter LineJoin = iota
	// LineJoinBevel connects the outer corners with a straight edge.
	LineJoinBevel
	// LineJoinRound fills the outer corner with a circular arc.
	LineJoinRound
)

// StrokeStyle describes how an outline is drawn.
type StrokeStyle struct {
	Width      float64
	Cap        LineCap
	Join       LineJoin
	// MiterLimit bounds the miter length as a multiple of the half width.
	// Values <= 0 select DefaultMiterLimit.
	MiterLimit float64
}

// DefaultMiterLimit is the miter limit used when a style leaves it unset.
const DefaultMiterLimit = 4

// DefaultStrokeStyle returns a 1-unit miter-joined stroke with butt caps.
func DefaultStrokeStyle() StrokeStyle {
	return StrokeStyle{
		Width:      1,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: DefaultMiterLimit,
	}
}

type strokeResult struct {
	verts []StrokeVertex
	tris  [][3]int
}

// stroker offsets each flattened point along its normal by half the
// stroke width. Every segment becomes a quad; joins and caps add fans on
// the outer side.
type stroker struct {
	style     StrokeStyle
	hw        float64
	tolerance float64
	res       strokeResult
}

func tessellateStroke(lines []polyline, style StrokeStyle, tolerance float64) (strokeResult, error) {
	if style.MiterLimit <= 0 {
		style.MiterLimit = DefaultMiterLimit
	}
	s := stroker{style: style, hw: style.Width / 2, tolerance: tolerance}

	for _, l := range lines {
		pts := dedupe(l.points, l.closed, pointEps)
		if len(pts) < 2 {
			continue
		}
		s.polyline(pts, l.closed && len(pts) > 2)
	}

	if len(s.res.tris) == 0 {
		return s.res, ErrDegeneratePath
	}
	return s.res, nil
}

func (s *stroker) polyline(pts []Point, closed bool) {
	n := len(pts)
	segs := n - 1
	if closed {
		segs = n
	}

	var advance float64
	for k := range segs {
		a, b := pts[k], pts[(k+1)%n]
		length := b.Sub(a).Length()
		d := b.Sub(a).Normalize()
		nrm := d.Perp()

		if k > 0 || closed {
			d0 := a.Sub(pts[(k-1+n)%n]).Normalize()
			s.join(a, d0, d, advance)
		}

		start, end := a, b
		if !closed && s.style.Cap == LineCapSquare {
			if k == 0 {
				start = a.Sub(d.Mul(s.hw))
			}
			if k == segs-1 {
				end = b.Add(d.Mul(s.hw))
			}
		}

		aL := s.vertex(start, nrm, advance)
		aR := s.vertex(start, nrm.Neg(), advance)
		bL := s.vertex(end, nrm, advance+length)
		bR := s.vertex(end, nrm.Neg(), advance+length)
		s.tri(aR, bR, bL)
		s.tri(aR, bL, aL)

		advance += length
	}

	if !closed && s.style.Cap == LineCapRound {
		first := pts[1].Sub(pts[0]).Normalize().Neg()
		s.fan(pts[0], first.Perp(), -math.Pi, 0)

		last := pts[n-1].Sub(pts[n-2]).Normalize()
		s.fan(pts[n-1], last.Perp(), -math.Pi, advance)
	}
}

// join fills the outer corner at p between incoming direction d0 and
// outgoing direction d1 (both unit length).
func (s *stroker) join(p, d0, d1 Point, advance float64) {
	turn := d0.Cross(d1)
	if math.Abs(turn) < 1e-9 && d0.Dot(d1) > 0 {
		return
	}

	// The outer side of a left turn is on the right.
	side := 1.0
	if turn > 0 {
		side = -1
	}
	o0 := d0.Perp().Mul(side)
	o1 := d1.Perp().Mul(side)

	if s.style.Join == LineJoinRound {
		angle := math.Atan2(o0.Cross(o1), o0.Dot(o1))
		s.fan(p, o0, angle, advance)
		return
	}

	c := s.vertex(p, Point{}, advance)
	v0 := s.vertex(p, o0, advance)
	v1 := s.vertex(p, o1, advance)
	s.tri(c, v0, v1)

	if s.style.Join != LineJoinMiter {
		return
	}
	mid := o0.Add(o1)
	if mid.Length() < 1e-9 {
		return
	}
	m := mid.Normalize()
	cosHalf := m.Dot(o1)
	if cosHalf <= 0 || 1/cosHalf > s.style.MiterLimit {
		return
	}
	tip := s.vertex(p, m.Mul(1/cosHalf), advance)
	s.tri(v0, tip, v1)
}

// fan emits a triangle fan around center, sweeping the unit vector from
// by angle radians.
func (s *stroker) fan(center, from Point, angle, advance float64) {
	steps := s.arcSteps(angle)
	c := s.vertex(center, Point{}, advance)
	prev := s.vertex(center, from, advance)
	for i := 1; i <= steps; i++ {
		a := angle * float64(i) / float64(steps)
		sin, cos := math.Sincos(a)
		dir := Point{X: from.X*cos - from.Y*sin, Y: from.X*sin + from.Y*cos}
		cur := s.vertex(center, dir, advance)
		s.tri(c, prev, cur)
		prev = cur
	}
}

// arcSteps picks enough segments to keep the chord within tolerance of
// the arc.
func (s *stroker) arcSteps(angle float64) int {
	step := math.Pi / 2
	if s.tolerance < s.hw {
		step = math.Min(step, 2*math.Acos(1-s.tolerance/s.hw))
	}
	return max(1, int(math.Ceil(math.Abs(angle)/step)))
}

func (s *stroker) vertex(center, normal Point, advance float64) int {
	s.res.verts = append(s.res.verts, StrokeVertex{
		Position:  center.Add(normal.Mul(s.hw)),
		Center:    center,
		Normal:    normal,
		HalfWidth: s.hw,
		Advance:   advance,
	})
	return len(s.res.verts) - 1
}

// tri records a counter-clockwise triangle, dropping degenerate ones.
func (s *stroker) tri(a, b, c int) {
	cr := cross3(s.res.verts[a].Position, s.res.verts[b].Position, s.res.verts[c].Position)
	if math.Abs(cr) <= areaEps {
		return
	}
	if cr < 0 {
		b, c = c, b
	}
	s.res.tris = append(s.res.tris, [3]int{a, b, c})
}
