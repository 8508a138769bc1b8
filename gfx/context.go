// Package gfx owns the GPU device, its queue and the window surface.
//
// A Context is created once per window with Initialize. It negotiates a
// surface format and presentation mode, keeps the surface configured at the
// window's framebuffer size, and hands out one Frame per redraw:
//
//	ctx, err := gfx.Initialize(window)
//	...
//	frame, err := ctx.AcquireFrame()
//	switch {
//	case gfx.Recoverable(err):
//	    ctx.Resize(ctx.Size())
//	case err != nil:
//	    ...
//	}
//	// record and submit work targeting frame.View()
//	err = ctx.Present(frame)
package gfx

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
	"github.com/gogpu/wgpu/hal"
)

// Window is the part of a platform window the context needs.
type Window interface {
	// FramebufferSize returns the drawable size in physical pixels.
	FramebufferSize() (width, height int)

	// NativeHandles returns the display and window handles passed to
	// hal.Instance.CreateSurface.
	NativeHandles() (display, window uintptr)
}

// Context owns the device, queue and configured surface.
//
// Context is not safe for concurrent use; it belongs to the frame loop.
type Context struct {
	instance hal.Instance
	adapter  hal.Adapter
	info     gputypes.AdapterInfo
	device   hal.Device
	queue    hal.Queue
	surface  hal.Surface

	config     hal.SurfaceConfiguration
	configured bool
	owned      bool
}

// Initialize selects an adapter that can present to window, opens a device
// and configures the surface at the window's framebuffer size.
//
// A window with zero area leaves the surface unconfigured until the first
// non-zero Resize.
func Initialize(window Window, opts ...Option) (*Context, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	backend, err := selectBackend(o)
	if err != nil {
		return nil, err
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{
		Backends: gputypes.BackendsAll,
	})
	if err != nil {
		return nil, fmt.Errorf("gfx: create %s instance: %w", backend.Variant(), err)
	}

	display, handle := window.NativeHandles()
	surface, err := instance.CreateSurface(display, handle)
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gfx: create surface: %w", err)
	}

	c := &Context{instance: instance, surface: surface, owned: true}
	caps, err := c.openAdapter(instance.EnumerateAdapters(surface))
	if err != nil {
		surface.Destroy()
		instance.Destroy()
		return nil, err
	}
	c.config = surfaceConfig(caps, o.presentMode)

	papercut.Logger().Info("gfx: adapter selected",
		"name", c.info.Name,
		"backend", c.info.Backend,
		"format", c.config.Format,
		"present_mode", c.config.PresentMode)

	w, h := window.FramebufferSize()
	if err := c.Resize(clampSize(w), clampSize(h)); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an existing device and surface. The caller keeps ownership of
// device, queue and surface; Close only unconfigures the surface.
func New(device hal.Device, queue hal.Queue, surface hal.Surface, caps *hal.SurfaceCapabilities, opts ...Option) (*Context, error) {
	if caps == nil || len(caps.Formats) == 0 {
		return nil, ErrNoAdapter
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Context{
		device:  device,
		queue:   queue,
		surface: surface,
		config:  surfaceConfig(caps, o.presentMode),
	}, nil
}

func selectBackend(o options) (hal.Backend, error) {
	if o.forced {
		b, ok := hal.GetBackend(o.backend)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoAdapter, o.backend, hal.ErrBackendNotFound)
		}
		return b, nil
	}
	for _, variant := range preferred {
		if b, ok := hal.GetBackend(variant); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrNoAdapter, hal.ErrBackendNotFound)
}

// openAdapter opens the first adapter that reports surface capabilities.
func (c *Context) openAdapter(adapters []hal.ExposedAdapter) (*hal.SurfaceCapabilities, error) {
	log := papercut.Logger()
	for _, exposed := range adapters {
		caps := exposed.Adapter.SurfaceCapabilities(c.surface)
		if caps == nil || len(caps.Formats) == 0 {
			log.Debug("gfx: adapter cannot present", "name", exposed.Info.Name)
			continue
		}

		open, err := exposed.Adapter.Open(0, gputypes.DefaultLimits())
		if err != nil {
			log.Debug("gfx: adapter open failed", "name", exposed.Info.Name, "err", err)
			continue
		}

		c.adapter = exposed.Adapter
		c.info = exposed.Info
		c.device = open.Device
		c.queue = open.Queue
		return caps, nil
	}
	return nil, ErrNoAdapter
}

// surfaceConfig picks the first supported format, the requested present
// mode when available (FIFO otherwise) and opaque alpha when available.
func surfaceConfig(caps *hal.SurfaceCapabilities, mode papercut.PresentMode) hal.SurfaceConfiguration {
	cfg := hal.SurfaceConfiguration{
		Format:      caps.Formats[0],
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: gputypes.PresentModeFifo,
		AlphaMode:   gputypes.CompositeAlphaModeOpaque,
	}

	want := halPresentMode(mode)
	for _, m := range caps.PresentModes {
		if m == want {
			cfg.PresentMode = want
			break
		}
	}
	if cfg.PresentMode != want {
		papercut.Logger().Warn("gfx: present mode unsupported, using fifo", "requested", mode)
	}

	if len(caps.AlphaModes) > 0 {
		cfg.AlphaMode = caps.AlphaModes[0]
		for _, m := range caps.AlphaModes {
			if m == gputypes.CompositeAlphaModeOpaque {
				cfg.AlphaMode = m
				break
			}
		}
	}
	return cfg
}

func clampSize(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// Resize reconfigures the surface. A zero width or height is ignored and
// leaves the previous configuration in place.
func (c *Context) Resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}

	cfg := c.config
	cfg.Width = width
	cfg.Height = height
	if err := c.surface.Configure(c.device, &cfg); err != nil {
		return fmt.Errorf("gfx: configure %dx%d: %w", width, height, translate(err))
	}

	c.config = cfg
	c.configured = true
	papercut.Logger().Debug("gfx: surface configured", "width", width, "height", height)
	return nil
}

// Size returns the configured surface size. It is 0x0 until the first
// successful Resize.
func (c *Context) Size() (width, height uint32) {
	return c.config.Width, c.config.Height
}

// Format returns the negotiated surface format.
func (c *Context) Format() gputypes.TextureFormat { return c.config.Format }

// PresentMode returns the negotiated presentation mode.
func (c *Context) PresentMode() gputypes.PresentMode { return c.config.PresentMode }

// Configured reports whether the surface can hand out frames.
func (c *Context) Configured() bool { return c.configured }

// Device returns the logical device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the command queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// AdapterInfo describes the selected adapter. It is zero for contexts
// created with New.
func (c *Context) AdapterInfo() gputypes.AdapterInfo { return c.info }

// Close releases the surface and, for contexts created by Initialize, the
// device, adapter and instance.
func (c *Context) Close() {
	if c.device == nil {
		return
	}
	if c.configured {
		c.surface.Unconfigure(c.device)
		c.configured = false
	}
	if !c.owned {
		c.device = nil
		return
	}

	if err := c.device.WaitIdle(); err != nil {
		papercut.Logger().Warn("gfx: wait idle", "err", err)
	}
	c.device.Destroy()
	c.surface.Destroy()
	if c.adapter != nil {
		c.adapter.Destroy()
	}
	c.instance.Destroy()

	c.device = nil
	c.queue = nil
	c.surface = nil
	c.adapter = nil
	c.instance = nil
}
