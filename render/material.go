package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut/texture"
	"github.com/gogpu/wgpu/hal"
)

// Material binds a texture's view and sampler to the sprite pipeline's
// group 1. A material holds a reference on its texture until Release, so
// one texture can back several materials.
type Material struct {
	device  hal.Device
	group   hal.BindGroup
	texture *texture.Texture
}

// CreateMaterialBinding builds a reusable sprite binding for tex.
func (r *Renderer) CreateMaterialBinding(tex *texture.Texture) (*Material, error) {
	if tex == nil || tex.View() == nil {
		return nil, ErrNilTexture
	}

	group, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  tex.Label() + "_material",
		Layout: r.materialLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: tex.View().NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: tex.Sampler().NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create material %s: %w", tex.Label(), err)
	}

	return &Material{
		device:  r.device,
		group:   group,
		texture: tex.Retain(),
	}, nil
}

// Texture returns the bound texture.
func (m *Material) Texture() *texture.Texture { return m.texture }

// Release destroys the bind group and drops the texture reference.
// Calling Release more than once is a no-op.
func (m *Material) Release() {
	if m.group == nil {
		return
	}
	m.device.DestroyBindGroup(m.group)
	m.group = nil
	m.texture.Release()
}
