package camera

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Near and far planes of the orthographic volume.
const (
	Near float32 = -1
	Far  float32 = 1
)

// UniformSize is the byte size of an encoded ViewProjection.
const UniformSize = 2 * 16 * 4

// ViewProjection is the per-frame uniform: two column-major matrices.
type ViewProjection struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Bytes encodes the uniform in the std140 layout expected by the shaders.
func (vp ViewProjection) Bytes() []byte {
	buf := make([]byte, UniformSize)
	for i, v := range vp.View {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range vp.Projection {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(v))
	}
	return buf
}

// Camera tracks the viewport size and a look-at position.
//
// Camera is not safe for concurrent use; it is owned by the frame loop.
type Camera struct {
	width, height int

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New returns a camera for a viewport of the given size, looking down +Z
// from z = -1 at the world origin.
func New(width, height int) *Camera {
	c := &Camera{
		width:    width,
		height:   height,
		position: mgl32.Vec3{0, 0, -1},
		target:   mgl32.Vec3{0, 0, 0},
		up:       mgl32.Vec3{0, 1, 0},
	}
	c.updateView()
	c.updateProjection()
	return c
}

// Resize recomputes the projection for a new viewport. The view does not
// depend on the viewport. Zero-area sizes are ignored.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.updateProjection()
}

// Size returns the current viewport size.
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}

// SetPosition moves the eye, keeping the current target.
func (c *Camera) SetPosition(eye mgl32.Vec3) {
	c.position = eye
	c.updateView()
}

// SetTarget changes the point the camera looks at.
func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.target = target
	c.updateView()
}

// LookAt sets eye, target and up in one step.
func (c *Camera) LookAt(eye, target, up mgl32.Vec3) {
	c.position, c.target, c.up = eye, target, up
	c.updateView()
}

// Pan translates eye and target together, keeping the viewing direction.
func (c *Camera) Pan(dx, dy float32) {
	d := mgl32.Vec3{dx, dy, 0}
	c.position = c.position.Add(d)
	c.target = c.target.Add(d)
	c.updateView()
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// Target returns the look-at target.
func (c *Camera) Target() mgl32.Vec3 { return c.target }

// View returns the view matrix.
func (c *Camera) View() mgl32.Mat4 { return c.view }

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl32.Mat4 { return c.projection }

// ViewProjection returns the uniform value for the current frame.
func (c *Camera) ViewProjection() ViewProjection {
	return ViewProjection{View: c.view, Projection: c.projection}
}

func (c *Camera) updateView() {
	c.view = LookAtLH(c.position, c.target, c.up)
}

func (c *Camera) updateProjection() {
	c.projection = OrthographicLH(0, float32(c.width), 0, float32(c.height), Near, Far)
}
