package tess

import (
	"cmp"
	"math"
	"slices"
)

// FillRule decides which regions of a path count as inside.
type FillRule int

const (
	// FillNonZero fills regions with a non-zero winding number.
	FillNonZero FillRule = iota
	// FillEvenOdd fills regions enclosed by an odd number of contours.
	FillEvenOdd
)

// String returns the rule name.
func (r FillRule) String() string {
	switch r {
	case FillNonZero:
		return "NonZero"
	case FillEvenOdd:
		return "EvenOdd"
	default:
		return "Unknown"
	}
}

// Geometric thresholds in world units (pixels).
const (
	pointEps = 1e-9
	areaEps  = 1e-9
)

// contour is a closed, cleaned ring taking part in a fill.
type contour struct {
	pts    []Point
	base   int // offset of pts[0] in the flattened point list
	area   float64
	parent int
	depth  int
	inside int // winding number just inside the ring
}

// fillResult is the output of fill tessellation: a point list and
// counter-clockwise triangles indexing into it.
type fillResult struct {
	points []Point
	tris   [][3]int
}

// tessellateFill triangulates the interior of the given polylines. Open
// polylines are closed implicitly.
func tessellateFill(lines []polyline, rule FillRule) (fillResult, error) {
	var (
		res      fillResult
		contours []contour
	)

	for _, l := range lines {
		pts := removeCollinear(dedupe(l.points, true, pointEps))
		if len(pts) < 3 {
			continue
		}
		area := signedArea(pts)
		if math.Abs(area) <= areaEps {
			continue
		}
		contours = append(contours, contour{pts: pts, base: len(res.points), area: area, parent: -1})
		res.points = append(res.points, pts...)
	}
	if len(contours) == 0 {
		return res, ErrDegeneratePath
	}

	if err := checkIntersections(contours); err != nil {
		return res, err
	}
	classify(contours)

	for i := range contours {
		c := &contours[i]
		if !filled(c, rule) {
			continue
		}

		outer := ringIndices(c, true)
		var holes [][]int
		for j := range contours {
			if contours[j].parent == i {
				holes = append(holes, ringIndices(&contours[j], false))
			}
		}

		tris, err := triangulate(res.points, outer, holes)
		if err != nil {
			return res, err
		}
		res.tris = append(res.tris, tris...)
	}

	if len(res.tris) == 0 {
		return res, ErrDegeneratePath
	}
	return res, nil
}

func filled(c *contour, rule FillRule) bool {
	if rule == FillEvenOdd {
		return c.depth%2 == 0
	}
	return c.inside != 0
}

// classify finds each contour's immediate parent and winding numbers.
// Contours never cross at this point, so one vertex decides containment.
func classify(contours []contour) {
	order := make([]int, len(contours))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(math.Abs(contours[b].area), math.Abs(contours[a].area))
	})

	for oi, i := range order {
		c := &contours[i]
		probe := c.pts[0]
		// Larger contours come first, so the last match is the smallest.
		for _, j := range order[:oi] {
			if pointInRing(probe, contours[j].pts) {
				c.parent = j
			}
		}

		outside := 0
		if c.parent >= 0 {
			p := &contours[c.parent]
			c.depth = p.depth + 1
			outside = p.inside
		}
		c.inside = outside + sign(c.area)
	}
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

// ringIndices returns global point indices for c, oriented
// counter-clockwise when ccw is true and clockwise otherwise.
func ringIndices(c *contour, ccw bool) []int {
	idx := make([]int, len(c.pts))
	for i := range idx {
		idx[i] = c.base + i
	}
	if (c.area > 0) != ccw {
		slices.Reverse(idx)
	}
	return idx
}

// pointInRing is an even-odd crossing test.
func pointInRing(p Point, ring []Point) bool {
	in := false
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
	}
	return in
}

// removeCollinear drops vertices lying on the line through their
// neighbours, including zero-area spikes.
func removeCollinear(pts []Point) []Point {
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		out := pts[:0:0]
		n := len(pts)
		for i, p := range pts {
			prev := pts[(i-1+n)%n]
			if len(out) > 0 {
				prev = out[len(out)-1]
			}
			next := pts[(i+1)%n]
			if math.Abs(cross3(prev, p, next)) <= areaEps {
				changed = true
				continue
			}
			out = append(out, p)
		}
		pts = out
	}
	return pts
}

type segment struct {
	a, b       Point
	contour    int
	index      int
	minX, maxX float64
}

// checkIntersections reports ErrSelfIntersecting if any two edges cross
// properly. Edges that merely touch at a vertex are allowed.
func checkIntersections(contours []contour) error {
	var segs []segment
	for ci, c := range contours {
		n := len(c.pts)
		for i, a := range c.pts {
			b := c.pts[(i+1)%n]
			segs = append(segs, segment{
				a: a, b: b, contour: ci, index: i,
				minX: math.Min(a.X, b.X), maxX: math.Max(a.X, b.X),
			})
		}
	}
	slices.SortFunc(segs, func(s, t segment) int { return cmp.Compare(s.minX, t.minX) })

	for i := range segs {
		s := &segs[i]
		for j := i + 1; j < len(segs) && segs[j].minX <= s.maxX; j++ {
			t := &segs[j]
			if s.contour == t.contour && adjacent(s.index, t.index, len(contours[s.contour].pts)) {
				continue
			}
			if properIntersection(s.a, s.b, t.a, t.b) {
				return ErrSelfIntersecting
			}
		}
	}
	return nil
}

func adjacent(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d == 1 || d == n-1
}

func properIntersection(a1, b1, a2, b2 Point) bool {
	d1 := cross3(a2, b2, a1)
	d2 := cross3(a2, b2, b1)
	d3 := cross3(a1, b1, a2)
	d4 := cross3(a1, b1, b2)
	return ((d1 > areaEps && d2 < -areaEps) || (d1 < -areaEps && d2 > areaEps)) &&
		((d3 > areaEps && d4 < -areaEps) || (d3 < -areaEps && d4 > areaEps))
}

// triangulate ear-clips a counter-clockwise outer ring after bridging each
// clockwise hole into it.
func triangulate(pts []Point, outer []int, holes [][]int) ([][3]int, error) {
	slices.SortFunc(holes, func(a, b []int) int {
		return cmp.Compare(maxX(pts, b), maxX(pts, a))
	})

	ring := outer
	for _, h := range holes {
		var ok bool
		if ring, ok = bridgeHole(pts, ring, h); !ok {
			return nil, ErrDegeneratePath
		}
	}
	return earClip(pts, ring)
}

func maxX(pts []Point, ring []int) float64 {
	m := math.Inf(-1)
	for _, i := range ring {
		m = math.Max(m, pts[i].X)
	}
	return m
}

// bridgeHole connects the hole's rightmost vertex to a visible vertex of
// ring with a zero-width slit and returns the merged ring.
func bridgeHole(pts []Point, ring, hole []int) ([]int, bool) {
	mi := 0
	for i := range hole {
		if pts[hole[i]].X > pts[hole[mi]].X {
			mi = i
		}
	}
	m := pts[hole[mi]]

	n := len(ring)
	bestX := math.Inf(1)
	pi := -1
	for i := range n {
		j := (i + 1) % n
		a, b := pts[ring[i]], pts[ring[j]]
		if (a.Y > m.Y) == (b.Y > m.Y) {
			continue
		}
		x := a.X + (m.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < m.X || x >= bestX {
			continue
		}
		bestX = x
		switch {
		case a.Y == m.Y:
			pi = i
		case b.Y == m.Y:
			pi = j
		case a.X > b.X:
			pi = i
		default:
			pi = j
		}
	}
	if pi < 0 {
		return nil, false
	}

	// A reflex vertex inside triangle (m, hit, p) would block the bridge;
	// use the one closest in angle to the ray instead.
	hit := Point{X: bestX, Y: m.Y}
	p := pts[ring[pi]]
	if !p.Near(hit, pointEps) {
		bestTan := math.Inf(1)
		bestDist := math.Inf(1)
		for k := range n {
			if k == pi {
				continue
			}
			r := pts[ring[k]]
			prev := pts[ring[(k-1+n)%n]]
			next := pts[ring[(k+1)%n]]
			if cross3(prev, r, next) > 0 || !pointInTriangleStrict(r, m, hit, p) {
				continue
			}
			dx := r.X - m.X
			tan := math.Abs(r.Y-m.Y) / dx
			dist := r.Sub(m).Length()
			if tan < bestTan || (tan == bestTan && dist < bestDist) {
				bestTan, bestDist = tan, dist
				pi = k
			}
		}
	}

	merged := make([]int, 0, n+len(hole)+2)
	merged = append(merged, ring[:pi+1]...)
	merged = append(merged, hole[mi:]...)
	merged = append(merged, hole[:mi]...)
	merged = append(merged, hole[mi], ring[pi])
	merged = append(merged, ring[pi+1:]...)
	return merged, true
}

// earClip triangulates a simple counter-clockwise ring (which may contain
// bridge slits with repeated indices).
func earClip(pts []Point, ring []int) ([][3]int, error) {
	n := len(ring)
	if n < 3 {
		return nil, nil
	}

	prev := make([]int, n)
	next := make([]int, n)
	for i := range n {
		prev[i] = (i - 1 + n) % n
		next[i] = (i + 1) % n
	}
	unlink := func(i int) {
		next[prev[i]] = next[i]
		prev[next[i]] = prev[i]
	}

	tris := make([][3]int, 0, n-2)
	remaining := n
	i := 0
	stall := 0
	for remaining > 3 {
		p, nx := prev[i], next[i]
		a, b, c := pts[ring[p]], pts[ring[i]], pts[ring[nx]]
		cr := cross3(a, b, c)

		switch {
		case math.Abs(cr) <= areaEps:
			unlink(i)
			remaining--
			stall = 0
		case cr > 0 && isEar(pts, ring, prev, next, p, i, nx):
			tris = append(tris, [3]int{ring[p], ring[i], ring[nx]})
			unlink(i)
			remaining--
			stall = 0
		default:
			stall++
			if stall > remaining {
				return nil, ErrDegeneratePath
			}
		}
		i = nx
	}

	p, nx := prev[i], next[i]
	if cross3(pts[ring[p]], pts[ring[i]], pts[ring[nx]]) > areaEps {
		tris = append(tris, [3]int{ring[p], ring[i], ring[nx]})
	}
	return tris, nil
}

// isEar reports whether no reflex vertex of the remaining ring lies inside
// triangle (p, i, nx).
func isEar(pts []Point, ring, prev, next []int, p, i, nx int) bool {
	a, b, c := pts[ring[p]], pts[ring[i]], pts[ring[nx]]
	for k := next[nx]; k != p; k = next[k] {
		v := pts[ring[k]]
		if v.Near(a, pointEps) || v.Near(b, pointEps) || v.Near(c, pointEps) {
			continue
		}
		if cross3(pts[ring[prev[k]]], v, pts[ring[next[k]]]) > areaEps {
			continue
		}
		if pointInTriangle(v, a, b, c) {
			return false
		}
	}
	return true
}

// pointInTriangle is inclusive of the edges of a counter-clockwise
// triangle.
func pointInTriangle(p, a, b, c Point) bool {
	return cross3(a, b, p) >= -areaEps && cross3(b, c, p) >= -areaEps && cross3(c, a, p) >= -areaEps
}

// pointInTriangleStrict excludes the edges and accepts either orientation.
func pointInTriangleStrict(p, a, b, c Point) bool {
	d1, d2, d3 := cross3(a, b, p), cross3(b, c, p), cross3(c, a, p)
	return (d1 > 0 && d2 > 0 && d3 > 0) || (d1 < 0 && d2 < 0 && d3 < 0)
}
