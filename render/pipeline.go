package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut/camera"
	"github.com/gogpu/wgpu/hal"
)

// DepthFormat is the depth attachment format used by every pipeline.
const DepthFormat = gputypes.TextureFormatDepth32Float

// createLayouts builds the bind group layouts, pipeline layouts and the
// uniform bind group. Group 0 is the camera uniform for every pipeline;
// sprites add their texture and sampler at group 1.
func (r *Renderer) createLayouts() error {
	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "camera_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform bind group layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	materialLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "sprite_material_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create material bind group layout: %w", err)
	}
	r.materialLayout = materialLayout

	uniformPipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "uniform_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create uniform pipeline layout: %w", err)
	}
	r.uniformPipeLayout = uniformPipeLayout

	spritePipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "sprite_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout, r.materialLayout},
	})
	if err != nil {
		return fmt.Errorf("create sprite pipeline layout: %w", err)
	}
	r.spritePipeLayout = spritePipeLayout

	uniformGroup, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "camera_uniform_group",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: 0,
				Resource: gputypes.BufferBinding{
					Buffer: r.uniform.NativeHandle(),
					Size:   camera.UniformSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform bind group: %w", err)
	}
	r.uniformGroup = uniformGroup
	return nil
}

// createPipelines compiles the three shaders and builds one pipeline per
// drawable kind. All pipelines share primitive, depth and blend state and
// differ in shader, vertex layout and bind groups.
func (r *Renderer) createPipelines() error {
	var err error
	if r.shapeShader, err = compileShader(r.device, "shape_shader", shapeShaderSource); err != nil {
		return err
	}
	if r.spriteShader, err = compileShader(r.device, "sprite_shader", spriteShaderSource); err != nil {
		return err
	}
	if r.geometryShader, err = compileShader(r.device, "geometry_shader", geometryShaderSource); err != nil {
		return err
	}

	blend := blendState(r.blend)
	targets := []gputypes.ColorTargetState{
		{
			Format:    r.format,
			Blend:     &blend,
			WriteMask: gputypes.ColorWriteMaskAll,
		},
	}

	// Higher depth draws on top: the pass clears to 0 and compares Greater.
	keep := hal.StencilFaceState{
		Compare:     gputypes.CompareFunctionAlways,
		FailOp:      hal.StencilOperationKeep,
		DepthFailOp: hal.StencilOperationKeep,
		PassOp:      hal.StencilOperationKeep,
	}
	depth := &hal.DepthStencilState{
		Format:            DepthFormat,
		DepthWriteEnabled: true,
		DepthCompare:      gputypes.CompareFunctionGreater,
		StencilFront:      keep,
		StencilBack:       keep,
	}

	primitive := gputypes.PrimitiveState{
		Topology:  gputypes.PrimitiveTopologyTriangleList,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeBack,
	}

	multisample := gputypes.MultisampleState{
		Count: 1,
		Mask:  0xFFFFFFFF,
	}

	build := func(label string, layout hal.PipelineLayout, shader hal.ShaderModule, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
		p, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
			Label:  label,
			Layout: layout,
			Vertex: hal.VertexState{
				Module:     shader,
				EntryPoint: vertexEntryPoint,
				Buffers:    buffers,
			},
			Fragment: &hal.FragmentState{
				Module:     shader,
				EntryPoint: fragmentEntryPoint,
				Targets:    targets,
			},
			DepthStencil: depth,
			Multisample:  multisample,
			Primitive:    primitive,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", label, err)
		}
		return p, nil
	}

	if r.shapePipeline, err = build("shape_pipeline", r.uniformPipeLayout, r.shapeShader, vertexLayout); err != nil {
		return err
	}
	if r.spritePipeline, err = build("sprite_pipeline", r.spritePipeLayout, r.spriteShader, vertexLayout); err != nil {
		return err
	}
	if r.geometryPipeline, err = build("geometry_pipeline", r.uniformPipeLayout, r.geometryShader, geometryLayout); err != nil {
		return err
	}
	return nil
}

// destroyPipelines releases pipelines, layouts and shaders in reverse
// creation order. Safe on a partially built renderer.
func (r *Renderer) destroyPipelines() {
	for _, p := range []*hal.RenderPipeline{&r.geometryPipeline, &r.spritePipeline, &r.shapePipeline} {
		if *p != nil {
			r.device.DestroyRenderPipeline(*p)
			*p = nil
		}
	}
	for _, s := range []*hal.ShaderModule{&r.geometryShader, &r.spriteShader, &r.shapeShader} {
		if *s != nil {
			r.device.DestroyShaderModule(*s)
			*s = nil
		}
	}
	if r.uniformGroup != nil {
		r.device.DestroyBindGroup(r.uniformGroup)
		r.uniformGroup = nil
	}
	if r.spritePipeLayout != nil {
		r.device.DestroyPipelineLayout(r.spritePipeLayout)
		r.spritePipeLayout = nil
	}
	if r.uniformPipeLayout != nil {
		r.device.DestroyPipelineLayout(r.uniformPipeLayout)
		r.uniformPipeLayout = nil
	}
	if r.materialLayout != nil {
		r.device.DestroyBindGroupLayout(r.materialLayout)
		r.materialLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
}
