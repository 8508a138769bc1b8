package tess

import "testing"

func TestPathAddRectangleWinding(t *testing.T) {
	r := NewRect(Pt(0, 0), Pt(500, 500))

	tests := []struct {
		winding  Winding
		positive bool
	}{
		{WindingPositive, true},
		{WindingNegative, false},
	}

	for _, tt := range tests {
		t.Run(tt.winding.String(), func(t *testing.T) {
			p := NewPath()
			p.AddRectangle(r, tt.winding)

			lines := flatten(p, DefaultTolerance)
			if len(lines) != 1 || !lines[0].closed {
				t.Fatalf("flatten() = %+v, want one closed polyline", lines)
			}
			area := signedArea(lines[0].points)
			if (area > 0) != tt.positive {
				t.Errorf("signed area = %v, positive = %v", area, tt.positive)
			}
			if abs(area) != 250000 {
				t.Errorf("|area| = %v, want 250000", abs(area))
			}
		})
	}
}

func TestPathLineToWithoutMoveTo(t *testing.T) {
	p := NewPath()
	p.LineTo(3, 4)
	p.LineTo(5, 6)

	els := p.Elements()
	if len(els) != 2 {
		t.Fatalf("len(Elements()) = %d, want 2", len(els))
	}
	if m, ok := els[0].(MoveTo); !ok || m.Point != Pt(3, 4) {
		t.Errorf("Elements()[0] = %#v, want MoveTo(3,4)", els[0])
	}
	if p.CurrentPoint() != Pt(5, 6) {
		t.Errorf("CurrentPoint() = %v", p.CurrentPoint())
	}
}

func TestPathCloseResetsCurrent(t *testing.T) {
	p := BuildPath().MoveTo(1, 1).LineTo(5, 1).LineTo(5, 5).Close().Build()
	if p.CurrentPoint() != Pt(1, 1) {
		t.Errorf("CurrentPoint() after Close = %v, want (1,1)", p.CurrentPoint())
	}

	// A second Close without an open subpath adds nothing.
	n := p.Len()
	p.Close()
	if p.Len() != n {
		t.Errorf("Len() = %d after redundant Close, want %d", p.Len(), n)
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).LineTo(1, 0).Build()
	c := p.Clone()
	c.LineTo(1, 1)

	if p.Len() != 2 || c.Len() != 3 {
		t.Errorf("Len() = %d/%d, want 2/3", p.Len(), c.Len())
	}
}

func TestAddCircleWinding(t *testing.T) {
	pos := NewPath()
	pos.AddCircle(Pt(0, 0), 10, WindingPositive)
	neg := NewPath()
	neg.AddCircle(Pt(0, 0), 10, WindingNegative)

	a := signedArea(flatten(pos, 0.01)[0].points)
	b := signedArea(flatten(neg, 0.01)[0].points)
	if a <= 0 || b >= 0 {
		t.Errorf("areas = %v, %v; want positive then negative", a, b)
	}
}

func TestFlattenStaysWithinTolerance(t *testing.T) {
	const r = 100.0
	for _, tol := range []float64{1, 0.1, 0.02} {
		p := NewPath()
		p.AddCircle(Pt(0, 0), r, WindingPositive)
		pts := flatten(p, tol)[0].points

		for i := range len(pts) - 1 {
			mid := midpoint(pts[i], pts[i+1])
			// Four cubic segments deviate from a true circle by ~0.027%.
			if d := r - mid.Length(); d > tol+r*0.0003 {
				t.Errorf("tol %v: chord %d sags %v", tol, i, d)
			}
		}
	}
}

func TestFlattenFinerToleranceAddsPoints(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).CubicTo(0, 100, 100, 100, 100, 0).Build()

	coarse := len(flatten(p, 1)[0].points)
	fine := len(flatten(p, 0.01)[0].points)
	if fine <= coarse {
		t.Errorf("fine = %d points, coarse = %d; want fine > coarse", fine, coarse)
	}
}

func TestDedupe(t *testing.T) {
	pts := []Point{{0, 0}, {0, 0}, {1, 0}, {1, 1}, {0, 0}}
	got := dedupe(pts, true, pointEps)
	if len(got) != 3 {
		t.Errorf("dedupe() = %v, want 3 points", got)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
