package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func project(m mgl32.Mat4, x, y, z float32) mgl32.Vec4 {
	return m.Mul4x1(mgl32.Vec4{x, y, z, 1})
}

func TestProjectionMapsViewportCorners(t *testing.T) {
	sizes := [][2]int{{1024, 576}, {1, 1}, {800, 600}, {3840, 2160}, {17, 4099}}

	for _, sz := range sizes {
		c := New(1, 1)
		c.Resize(sz[0], sz[1])
		p := c.Projection()

		lo := project(p, 0, 0, 0)
		hi := project(p, float32(sz[0]), float32(sz[1]), 0)

		if !lo.ApproxEqualThreshold(mgl32.Vec4{-1, -1, 0.5, 1}, eps) {
			t.Errorf("%v: (0,0) -> %v, want (-1,-1)", sz, lo)
		}
		if !hi.ApproxEqualThreshold(mgl32.Vec4{1, 1, 0.5, 1}, eps) {
			t.Errorf("%v: (w,h) -> %v, want (1,1)", sz, hi)
		}
	}
}

func TestProjectionDepthRange(t *testing.T) {
	p := New(100, 100).Projection()

	if got := project(p, 0, 0, Near).Z(); math.Abs(float64(got)) > eps {
		t.Errorf("near depth = %v, want 0", got)
	}
	if got := project(p, 0, 0, Far).Z(); math.Abs(float64(got-1)) > eps {
		t.Errorf("far depth = %v, want 1", got)
	}
}

func TestResizeIgnoresZeroArea(t *testing.T) {
	c := New(640, 480)
	before := c.Projection()

	c.Resize(0, 480)
	c.Resize(640, 0)

	if c.Projection() != before {
		t.Error("Resize with a zero dimension changed the projection")
	}
	if w, h := c.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %dx%d, want 640x480", w, h)
	}
}

func TestResizeKeepsView(t *testing.T) {
	c := New(640, 480)
	c.SetPosition(mgl32.Vec3{-200, -200, -1})
	c.SetTarget(mgl32.Vec3{-200, -200, 0})
	view := c.View()

	c.Resize(1280, 720)

	if c.View() != view {
		t.Error("Resize changed the view matrix")
	}
}

func TestDefaultViewIsIdentityInPlane(t *testing.T) {
	v := New(10, 10).View()
	got := project(v, 3, 4, 0)
	if !got.ApproxEqualThreshold(mgl32.Vec4{3, 4, 1, 1}, eps) {
		t.Errorf("default view maps (3,4,0) to %v, want (3,4,1)", got)
	}
}

func TestLookAtLH(t *testing.T) {
	eye := mgl32.Vec3{-200, -200, -1}
	v := LookAtLH(eye, mgl32.Vec3{-200, -200, 0}, mgl32.Vec3{0, 1, 0})

	if got := project(v, eye.X(), eye.Y(), eye.Z()); !got.ApproxEqualThreshold(mgl32.Vec4{0, 0, 0, 1}, eps) {
		t.Errorf("eye maps to %v, want origin", got)
	}
	if got := project(v, 0, 0, 0); !got.ApproxEqualThreshold(mgl32.Vec4{200, 200, 1, 1}, eps) {
		t.Errorf("world origin maps to %v, want (200,200,1)", got)
	}
}

func TestPanMovesEyeAndTarget(t *testing.T) {
	c := New(100, 100)
	c.Pan(10, -5)

	if got := c.Position(); got != (mgl32.Vec3{10, -5, -1}) {
		t.Errorf("Position() = %v", got)
	}
	if got := c.Target(); got != (mgl32.Vec3{10, -5, 0}) {
		t.Errorf("Target() = %v", got)
	}
	if got := project(c.View(), 10, -5, 0); !got.ApproxEqualThreshold(mgl32.Vec4{0, 0, 1, 1}, eps) {
		t.Errorf("panned target maps to %v", got)
	}
}

func TestViewProjectionBytes(t *testing.T) {
	c := New(1024, 576)
	vp := c.ViewProjection()
	buf := vp.Bytes()

	if len(buf) != UniformSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(buf), UniformSize)
	}
	// Column 3 row 0 of the projection is the x translation (-1).
	got := math.Float32frombits(binary.LittleEndian.Uint32(buf[64+12*4:]))
	if got != -1 {
		t.Errorf("projection[12] = %v, want -1", got)
	}
	if first := math.Float32frombits(binary.LittleEndian.Uint32(buf)); first != vp.View[0] {
		t.Errorf("view[0] = %v, want %v", first, vp.View[0])
	}
}
