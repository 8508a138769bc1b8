package tess

import (
	"errors"
	"math"
	"testing"
)

func strokeOf(t *testing.T, p *Path, style StrokeStyle) strokeResult {
	t.Helper()
	res, err := tessellateStroke(flatten(p, DefaultTolerance), style, DefaultTolerance)
	if err != nil {
		t.Fatalf("tessellateStroke() error = %v", err)
	}
	return res
}

func hasVertexAt(res strokeResult, p Point) bool {
	for _, v := range res.verts {
		if v.Position.Near(p, 1e-9) {
			return true
		}
	}
	return false
}

func TestStrokeSegmentOffsetsByHalfWidth(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).LineTo(10, 0).Build()
	style := DefaultStrokeStyle()
	style.Width = 2

	res := strokeOf(t, p, style)

	if len(res.tris) != 2 {
		t.Fatalf("triangles = %d, want 2", len(res.tris))
	}
	for _, v := range res.verts {
		if math.Abs(math.Abs(v.Position.Y)-1) > 1e-12 {
			t.Errorf("vertex %v not offset by half width", v.Position)
		}
		if v.Position.X < 0 || v.Position.X > 10 {
			t.Errorf("butt cap vertex %v outside segment", v.Position)
		}
	}
}

func TestStrokeVertexInvariant(t *testing.T) {
	p := NewPath()
	p.AddCircle(Pt(0, 0), 50, WindingPositive)
	p.AddPolygon([]Point{{0, 0}, {30, 5}, {10, 40}}, false)

	for _, join := range []LineJoin{LineJoinMiter, LineJoinBevel, LineJoinRound} {
		style := StrokeStyle{Width: 3, Cap: LineCapRound, Join: join, MiterLimit: 4}
		res := strokeOf(t, p, style)
		for i, v := range res.verts {
			want := v.Center.Add(v.Normal.Mul(v.HalfWidth))
			if !v.Position.Near(want, 1e-9) {
				t.Fatalf("join %d vertex %d: Position %v != Center + Normal*HalfWidth %v", join, i, v.Position, want)
			}
			if v.HalfWidth != 1.5 {
				t.Fatalf("HalfWidth = %v, want 1.5", v.HalfWidth)
			}
		}
	}
}

func TestStrokeTrianglesCounterClockwise(t *testing.T) {
	p := NewPath()
	p.AddRectangle(NewRect(Pt(0, 0), Pt(500, 500)), WindingNegative)

	res := strokeOf(t, p, DefaultStrokeStyle())
	for i, tri := range res.tris {
		a, b, c := res.verts[tri[0]].Position, res.verts[tri[1]].Position, res.verts[tri[2]].Position
		if cross3(a, b, c) <= 0 {
			t.Errorf("triangle %d is clockwise", i)
		}
	}
}

func TestStrokeCaps(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).LineTo(10, 0).Build()

	style := DefaultStrokeStyle()
	style.Width = 2
	style.Cap = LineCapSquare
	res := strokeOf(t, p, style)
	if !hasVertexAt(res, Pt(-1, 1)) || !hasVertexAt(res, Pt(11, -1)) {
		t.Error("square cap did not extend by half width")
	}

	style.Cap = LineCapRound
	res = strokeOf(t, p, style)
	if !hasVertexAt(res, Pt(-1, 0)) || !hasVertexAt(res, Pt(11, 0)) {
		t.Error("round cap did not reach the extreme points")
	}
}

func TestStrokeJoins(t *testing.T) {
	// Left turn at (10, 0); the outer corner is at (11, -1).
	p := BuildPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).Build()
	corner := Pt(11, -1)

	tests := []struct {
		join    LineJoin
		limit   float64
		wantTip bool
		minTris int
	}{
		{LineJoinMiter, 4, true, 6},
		{LineJoinMiter, 1.2, false, 5},
		{LineJoinBevel, 4, false, 5},
		{LineJoinRound, 4, false, 5},
	}

	for _, tt := range tests {
		style := StrokeStyle{Width: 2, Join: tt.join, MiterLimit: tt.limit}
		res := strokeOf(t, p, style)
		if got := hasVertexAt(res, corner); got != tt.wantTip {
			t.Errorf("join %d limit %v: miter tip present = %v, want %v", tt.join, tt.limit, got, tt.wantTip)
		}
		if len(res.tris) < tt.minTris {
			t.Errorf("join %d: %d triangles, want at least %d", tt.join, len(res.tris), tt.minTris)
		}
	}
}

func TestStrokeUnsetMiterLimit(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).LineTo(10, 0).LineTo(10, 10).Build()
	corner := Pt(12, -2)

	tests := []struct {
		name  string
		limit float64
	}{
		{"zero", 0},
		{"negative", -1},
		{"explicit default", DefaultMiterLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := strokeOf(t, p, StrokeStyle{Width: 4, MiterLimit: tt.limit})
			if got := hasVertexAt(res, corner); !got {
				t.Errorf("miter tip present = %v, want %v", got, true)
			}
		})
	}
}

func TestStrokeAdvanceAccumulates(t *testing.T) {
	p := BuildPath().MoveTo(0, 0).LineTo(3, 0).LineTo(3, 4).Build()
	res := strokeOf(t, p, DefaultStrokeStyle())

	var maxAdv float64
	for _, v := range res.verts {
		maxAdv = math.Max(maxAdv, v.Advance)
	}
	if maxAdv != 7 {
		t.Errorf("max Advance = %v, want 7", maxAdv)
	}
}

func TestStrokeDegenerate(t *testing.T) {
	for name, p := range map[string]*Path{
		"empty":        NewPath(),
		"single point": BuildPath().MoveTo(5, 5).Build(),
		"zero length":  BuildPath().MoveTo(5, 5).LineTo(5, 5).Build(),
	} {
		_, err := tessellateStroke(flatten(p, DefaultTolerance), DefaultStrokeStyle(), DefaultTolerance)
		if !errors.Is(err, ErrDegeneratePath) {
			t.Errorf("%s: error = %v, want ErrDegeneratePath", name, err)
		}
	}
}
