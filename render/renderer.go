// Package render owns the GPU pipeline state and records the fixed
// per-frame draw sequence: flat shape, sprite, tessellated fill and
// tessellated stroke, all in one render pass.
//
// A frame is driven through a small state machine:
//
//	Idle -> FrameAcquired -> PassOpen -> {Draw}* -> PassClosed -> Submitted -> Presented
//
// Operations called out of order fail with ErrFrameState; Abort returns to
// Idle from any state.
package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
	"github.com/gogpu/papercut/camera"
	"github.com/gogpu/papercut/tess"
	"github.com/gogpu/wgpu/hal"
)

// Errors returned by Renderer.
var (
	ErrShaderCompile = errors.New("render: shader compilation failed")
	ErrFrameState    = errors.New("render: operation out of frame order")
	ErrNilTexture    = errors.New("render: nil texture")
)

// meshBuffers is one vertex/index buffer pair.
type meshBuffers struct {
	vertex  hal.Buffer
	index   hal.Buffer
	indices uint32
}

// Renderer owns shaders, pipelines, static meshes, the camera uniform and
// the depth buffer.
//
// Renderer is not safe for concurrent use.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	clear  papercut.Color
	blend  papercut.BlendMode

	shapeShader    hal.ShaderModule
	spriteShader   hal.ShaderModule
	geometryShader hal.ShaderModule

	uniformLayout     hal.BindGroupLayout
	materialLayout    hal.BindGroupLayout
	uniformPipeLayout hal.PipelineLayout
	spritePipeLayout  hal.PipelineLayout
	uniformGroup      hal.BindGroup

	shapePipeline    hal.RenderPipeline
	spritePipeline   hal.RenderPipeline
	geometryPipeline hal.RenderPipeline

	// uniform is read by the shaders; staging receives queue writes and is
	// copied into uniform inside the frame's command buffer.
	uniform hal.Buffer
	staging hal.Buffer

	shape    meshBuffers
	sprite   meshBuffers
	geometry meshBuffers
	fill     tess.Range
	stroke   tess.Range

	depth         hal.Texture
	depthView     hal.TextureView
	width, height uint32

	frame frameState
}

// New compiles the shaders, builds the pipelines for format, uploads the
// built-in shape and sprite meshes and allocates the uniform buffers. The
// depth buffer is allocated by the first Resize with a non-zero size.
func New(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Renderer{
		device: device,
		queue:  queue,
		format: format,
		clear:  o.clear,
		blend:  o.blend,
	}
	if err := r.init(); err != nil {
		r.Close()
		return nil, err
	}

	papercut.Logger().Debug("render: renderer ready",
		"format", format,
		"blend", r.blend,
		"shape_indices", r.shape.indices,
		"sprite_indices", r.sprite.indices)
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	if r.uniform, err = r.createBuffer("camera_uniform", camera.UniformSize,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if r.staging, err = r.createBuffer("camera_staging", camera.UniformSize,
		gputypes.BufferUsageCopySrc|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if err := r.createLayouts(); err != nil {
		return err
	}
	if err := r.createPipelines(); err != nil {
		return err
	}

	if r.shape, err = r.uploadMesh("shape", encodeVertices(PentagonVertices), PentagonIndices); err != nil {
		return err
	}
	if r.sprite, err = r.uploadMesh("sprite", encodeVertices(SpriteVertices), SpriteIndices); err != nil {
		return err
	}
	return nil
}

func (r *Renderer) createBuffer(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (r *Renderer) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.createBuffer(label, uint64(len(data)), usage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	if err := r.queue.WriteBuffer(buf, 0, data); err != nil {
		r.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}

func (r *Renderer) uploadMesh(label string, vertices []byte, indices []uint16) (meshBuffers, error) {
	vb, err := r.createAndUploadBuffer(label+"_vertices", vertices, gputypes.BufferUsageVertex)
	if err != nil {
		return meshBuffers{}, err
	}
	ib, err := r.createAndUploadBuffer(label+"_indices", encodeIndices(indices), gputypes.BufferUsageIndex)
	if err != nil {
		r.device.DestroyBuffer(vb)
		return meshBuffers{}, err
	}
	return meshBuffers{vertex: vb, index: ib, indices: uint32(len(indices))}, nil
}

func (r *Renderer) destroyMesh(m *meshBuffers) {
	if m.index != nil {
		r.device.DestroyBuffer(m.index)
	}
	if m.vertex != nil {
		r.device.DestroyBuffer(m.vertex)
	}
	*m = meshBuffers{}
}

// SetGeometry replaces the tessellated mesh drawn by the fill and stroke
// passes. The previous buffers are released only after the new ones are
// uploaded, so a failed upload keeps the old geometry.
func (r *Renderer) SetGeometry(mesh *tess.Mesh) error {
	if mesh == nil || len(mesh.Indices) == 0 {
		return fmt.Errorf("render: empty mesh: %w", tess.ErrDegeneratePath)
	}
	if err := mesh.Validate(); err != nil {
		return err
	}
	if r.frame.state != StateIdle && r.frame.state != StatePresented {
		return fmt.Errorf("%w: SetGeometry during %s", ErrFrameState, r.frame.state)
	}

	geometry, err := r.uploadMesh("geometry", encodeGeometry(mesh.Vertices), mesh.Indices)
	if err != nil {
		return err
	}
	r.destroyMesh(&r.geometry)
	r.geometry = geometry
	r.fill = mesh.Fill
	r.stroke = mesh.Stroke

	papercut.Logger().Debug("render: geometry uploaded",
		"vertices", len(mesh.Vertices),
		"fill", mesh.Fill,
		"stroke", mesh.Stroke)
	return nil
}

// Resize reallocates the depth buffer for a new surface size. A zero width
// or height is ignored.
func (r *Renderer) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if width == r.width && height == r.height && r.depthView != nil {
		return nil
	}

	r.destroyDepth()
	depth, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "depth_texture",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        DepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := r.device.CreateTextureView(depth, &hal.TextureViewDescriptor{
		Label:           "depth_view",
		Format:          DepthFormat,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectDepthOnly,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		r.device.DestroyTexture(depth)
		return fmt.Errorf("create depth view: %w", err)
	}

	r.depth = depth
	r.depthView = view
	r.width = width
	r.height = height
	papercut.Logger().Debug("render: depth buffer resized", "width", width, "height", height)
	return nil
}

// Size returns the depth buffer size.
func (r *Renderer) Size() (width, height uint32) { return r.width, r.height }

// Format returns the colour target format the pipelines were built for.
func (r *Renderer) Format() gputypes.TextureFormat { return r.format }

// SetClearColor changes the colour the next pass clears to.
func (r *Renderer) SetClearColor(c papercut.Color) { r.clear = c }

// ClearColor returns the current clear colour.
func (r *Renderer) ClearColor() papercut.Color { return r.clear }

// IndexCounts returns the index counts of the shape, sprite, fill and
// stroke draws, in draw order.
func (r *Renderer) IndexCounts() [4]uint32 {
	return [4]uint32{r.shape.indices, r.sprite.indices, r.fill.Len(), r.stroke.Len()}
}

func (r *Renderer) destroyDepth() {
	if r.depthView != nil {
		r.device.DestroyTextureView(r.depthView)
		r.depthView = nil
	}
	if r.depth != nil {
		r.device.DestroyTexture(r.depth)
		r.depth = nil
	}
}

// Close aborts any frame in progress and releases every GPU object in
// reverse creation order. Materials are owned by the caller and must be
// released separately.
func (r *Renderer) Close() {
	if r.device == nil {
		return
	}
	r.Abort()
	if len(r.frame.inflight) > 0 {
		if err := r.device.WaitIdle(); err != nil {
			papercut.Logger().Warn("render: wait idle", "err", err)
		}
		for _, s := range r.frame.inflight {
			r.device.FreeCommandBuffer(s.cmd)
			s.encoder.Destroy()
		}
		r.frame.inflight = nil
	}
	r.destroyDepth()
	r.destroyMesh(&r.geometry)
	r.destroyMesh(&r.sprite)
	r.destroyMesh(&r.shape)
	r.destroyPipelines()
	if r.staging != nil {
		r.device.DestroyBuffer(r.staging)
		r.staging = nil
	}
	if r.uniform != nil {
		r.device.DestroyBuffer(r.uniform)
		r.uniform = nil
	}
	r.device = nil
}
