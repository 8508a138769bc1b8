package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut/camera"
	"github.com/gogpu/wgpu/hal"
)

// State is the per-frame recording state.
type State int

// Frame states, in the order a frame passes through them.
const (
	StateIdle State = iota
	StateFrameAcquired
	StatePassOpen
	StatePassClosed
	StateSubmitted
	StatePresented
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateFrameAcquired:
		return "FrameAcquired"
	case StatePassOpen:
		return "PassOpen"
	case StatePassClosed:
		return "PassClosed"
	case StateSubmitted:
		return "Submitted"
	case StatePresented:
		return "Presented"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// DrawKind is one of the fixed drawable kinds.
type DrawKind int

// Drawable kinds.
const (
	DrawFlatShape DrawKind = iota
	DrawSprite
	DrawTessellatedFill
	DrawTessellatedStroke
)

// DrawOrder is the order Draw records the kinds in. Later kinds blend over
// or occlude earlier ones.
var DrawOrder = [...]DrawKind{
	DrawFlatShape,
	DrawSprite,
	DrawTessellatedFill,
	DrawTessellatedStroke,
}

func (k DrawKind) String() string {
	switch k {
	case DrawFlatShape:
		return "FlatShape"
	case DrawSprite:
		return "Sprite"
	case DrawTessellatedFill:
		return "TessellatedFill"
	case DrawTessellatedStroke:
		return "TessellatedStroke"
	default:
		return fmt.Sprintf("DrawKind(%d)", int(k))
	}
}

// PassEncoder is the subset of hal.RenderPassEncoder used by Draw.
type PassEncoder interface {
	SetPipeline(pipeline hal.RenderPipeline)
	SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32)
	SetVertexBuffer(slot uint32, buffer hal.Buffer, offset uint64)
	SetIndexBuffer(buffer hal.Buffer, format gputypes.IndexFormat, offset uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ PassEncoder = hal.RenderPassEncoder(nil)

// submission is a command buffer the GPU may still be reading.
type submission struct {
	encoder hal.CommandEncoder
	cmd     hal.CommandBuffer
	index   uint64
}

type frameState struct {
	state    State
	encoder  hal.CommandEncoder
	target   hal.TextureView
	pass     hal.RenderPassEncoder
	inflight []submission
}

// State returns the current frame state.
func (r *Renderer) State() State { return r.frame.state }

func (r *Renderer) expect(op string, states ...State) error {
	for _, s := range states {
		if r.frame.state == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %s during %s", ErrFrameState, op, r.frame.state)
}

// BeginFrame starts recording a frame that renders into target.
func (r *Renderer) BeginFrame(target hal.TextureView) error {
	if err := r.expect("BeginFrame", StateIdle, StatePresented); err != nil {
		return err
	}
	if r.depthView == nil {
		return fmt.Errorf("%w: BeginFrame before Resize", ErrFrameState)
	}
	r.retire()

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "frame_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("frame"); err != nil {
		encoder.Destroy()
		return fmt.Errorf("begin encoding: %w", err)
	}

	r.frame.state = StateFrameAcquired
	r.frame.encoder = encoder
	r.frame.target = target
	return nil
}

// WriteUniform uploads vp to the staging buffer and records a copy into
// the uniform buffer. The copy precedes the pass in the same command
// buffer, so every draw of this frame reads vp.
func (r *Renderer) WriteUniform(vp camera.ViewProjection) error {
	if err := r.expect("WriteUniform", StateFrameAcquired); err != nil {
		return err
	}
	if err := r.queue.WriteBuffer(r.staging, 0, vp.Bytes()); err != nil {
		return fmt.Errorf("write camera uniform: %w", err)
	}
	r.frame.encoder.CopyBufferToBuffer(r.staging, r.uniform, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: camera.UniformSize},
	})
	return nil
}

// BeginPass opens the render pass, clearing colour to the configured clear
// colour and depth to 0.
func (r *Renderer) BeginPass() (hal.RenderPassEncoder, error) {
	if err := r.expect("BeginPass", StateFrameAcquired); err != nil {
		return nil, err
	}

	pass := r.frame.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "frame_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       r.frame.target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.clear.GPU(),
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              r.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpStore,
			DepthClearValue:   0,
			StencilClearValue: 0,
		},
	})

	r.frame.state = StatePassOpen
	r.frame.pass = pass
	return pass, nil
}

// Draw binds the camera uniform once and records one indexed draw per
// kind in DrawOrder. A nil sprite skips the sprite draw; fill and stroke
// are skipped until SetGeometry has been called.
func (r *Renderer) Draw(pass PassEncoder, sprite *Material) error {
	if err := r.expect("Draw", StatePassOpen); err != nil {
		return err
	}
	if sprite != nil && sprite.group == nil {
		return fmt.Errorf("%w: released material", ErrNilTexture)
	}

	pass.SetBindGroup(0, r.uniformGroup, nil)
	for _, kind := range DrawOrder {
		switch kind {
		case DrawFlatShape:
			pass.SetPipeline(r.shapePipeline)
			r.drawIndexed(pass, r.shape, 0, r.shape.indices)
		case DrawSprite:
			if sprite == nil {
				continue
			}
			pass.SetPipeline(r.spritePipeline)
			pass.SetBindGroup(1, sprite.group, nil)
			r.drawIndexed(pass, r.sprite, 0, r.sprite.indices)
		case DrawTessellatedFill:
			if r.geometry.vertex == nil || r.fill.Empty() {
				continue
			}
			pass.SetPipeline(r.geometryPipeline)
			r.drawIndexed(pass, r.geometry, r.fill.Start, r.fill.Len())
		case DrawTessellatedStroke:
			if r.geometry.vertex == nil || r.stroke.Empty() {
				continue
			}
			pass.SetPipeline(r.geometryPipeline)
			r.drawIndexed(pass, r.geometry, r.stroke.Start, r.stroke.Len())
		}
	}
	return nil
}

func (r *Renderer) drawIndexed(pass PassEncoder, m meshBuffers, first, count uint32) {
	pass.SetVertexBuffer(0, m.vertex, 0)
	pass.SetIndexBuffer(m.index, gputypes.IndexFormatUint16, 0)
	pass.DrawIndexed(count, 1, first, 0, 0)
}

// EndPass closes the render pass. Further passes, such as an overlay, may
// be recorded on Encoder before Submit.
func (r *Renderer) EndPass() error {
	if err := r.expect("EndPass", StatePassOpen); err != nil {
		return err
	}
	r.frame.pass.End()
	r.frame.pass = nil
	r.frame.state = StatePassClosed
	return nil
}

// Encoder returns the frame's command encoder, or nil outside a frame.
func (r *Renderer) Encoder() hal.CommandEncoder { return r.frame.encoder }

// Submit finishes the command buffer and submits it. The CPU does not wait
// for the GPU; the command buffer is freed on a later frame once the queue
// reports it complete.
func (r *Renderer) Submit() error {
	if err := r.expect("Submit", StatePassClosed); err != nil {
		return err
	}

	encoder := r.frame.encoder
	cmd, err := encoder.EndEncoding()
	if err != nil {
		r.Abort()
		return fmt.Errorf("end encoding: %w", err)
	}
	index, err := r.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		r.device.FreeCommandBuffer(cmd)
		encoder.Destroy()
		r.frame.encoder = nil
		r.frame.state = StateIdle
		return fmt.Errorf("submit: %w", err)
	}

	r.frame.inflight = append(r.frame.inflight, submission{encoder: encoder, cmd: cmd, index: index})
	r.frame.encoder = nil
	r.frame.target = nil
	r.frame.state = StateSubmitted
	return nil
}

// Presented records that the submitted frame was handed to the surface.
func (r *Renderer) Presented() error {
	if err := r.expect("Presented", StateSubmitted); err != nil {
		return err
	}
	r.frame.state = StatePresented
	return nil
}

// Abort drops the frame in progress and returns to Idle. It is used when
// acquiring, recording or presenting fails.
func (r *Renderer) Abort() {
	if r.frame.pass != nil {
		r.frame.pass.End()
		r.frame.pass = nil
	}
	if r.frame.encoder != nil {
		r.frame.encoder.DiscardEncoding()
		r.frame.encoder.Destroy()
		r.frame.encoder = nil
	}
	r.frame.target = nil
	r.frame.state = StateIdle
	if r.device != nil {
		r.retire()
	}
}

// retire frees command buffers the GPU has finished with.
func (r *Renderer) retire() {
	done := r.queue.PollCompleted()
	kept := r.frame.inflight[:0]
	for _, s := range r.frame.inflight {
		if s.index > done {
			kept = append(kept, s)
			continue
		}
		r.device.FreeCommandBuffer(s.cmd)
		s.encoder.Destroy()
	}
	r.frame.inflight = kept
}
