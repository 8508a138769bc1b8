package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Frame is one acquired swapchain image. It must be handed back with
// either Present or Discard.
type Frame struct {
	texture    hal.SurfaceTexture
	view       hal.TextureView
	suboptimal bool
}

// View returns the colour attachment for this frame.
func (f *Frame) View() hal.TextureView { return f.view }

// Texture returns the swapchain texture.
func (f *Frame) Texture() hal.SurfaceTexture { return f.texture }

// Suboptimal reports that the surface still presents but should be
// reconfigured soon.
func (f *Frame) Suboptimal() bool { return f.suboptimal }

// AcquireFrame returns the next presentable image.
//
// Errors are one of ErrSurfaceLost or ErrSurfaceOutdated (reconfigure and
// retry next frame), ErrTimeout (skip the frame), ErrOutOfMemory (fatal) or
// ErrNotConfigured when the window has never had a non-zero size.
func (c *Context) AcquireFrame() (*Frame, error) {
	if !c.configured {
		return nil, ErrNotConfigured
	}

	acquired, err := c.surface.AcquireTexture(nil)
	if err != nil {
		return nil, translate(err)
	}

	view, err := c.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "papercut_frame_view",
		Format:          c.config.Format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		c.surface.DiscardTexture(acquired.Texture)
		return nil, fmt.Errorf("gfx: frame view: %w", translate(err))
	}

	return &Frame{
		texture:    acquired.Texture,
		view:       view,
		suboptimal: acquired.Suboptimal,
	}, nil
}

// Present queues the frame for display and releases its view. Work that
// renders into the frame must already be submitted.
func (c *Context) Present(f *Frame) error {
	err := c.queue.Present(c.surface, f.texture, nil)
	c.releaseView(f)
	if err != nil {
		return fmt.Errorf("gfx: present: %w", translate(err))
	}
	return nil
}

// Discard returns an unpresented frame to the surface.
func (c *Context) Discard(f *Frame) {
	c.releaseView(f)
	c.surface.DiscardTexture(f.texture)
}

func (c *Context) releaseView(f *Frame) {
	if f.view != nil {
		c.device.DestroyTextureView(f.view)
		f.view = nil
	}
}
