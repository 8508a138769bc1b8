// Package app runs the frame loop: it polls window events, keeps the
// surface, camera and depth buffer sized to the window, and renders one
// frame per iteration.
//
// Window callbacks only enqueue events. The queue is drained after each
// PollEvents call, so every resize happens between frames.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/papercut"
	"github.com/gogpu/papercut/camera"
	"github.com/gogpu/papercut/gfx"
	"github.com/gogpu/papercut/render"
	"github.com/gogpu/wgpu/hal"
)

// PanStep is how far the arrow keys move the camera, in world units.
const PanStep = 10

// idleDelay throttles the loop while the window is minimized.
const idleDelay = 10 * time.Millisecond

// Window is the platform window the loop drives.
type Window interface {
	gpucontext.EventSource
	FramebufferSize() (width, height int)
	PollEvents()
	ShouldClose() bool
	OnClose(fn func())
	OnContentScale(fn func(x, y float32))
}

// Surface is the presentation side of the graphics context.
type Surface interface {
	Resize(width, height uint32) error
	AcquireFrame() (*gfx.Frame, error)
	Present(f *gfx.Frame) error
	Discard(f *gfx.Frame)
	DeviceProvider() gpucontext.DeviceProvider
}

// Renderer records and submits frames.
type Renderer interface {
	Resize(width, height uint32) error
	SetClearColor(c papercut.Color)
	BeginFrame(target hal.TextureView) error
	WriteUniform(vp camera.ViewProjection) error
	BeginPass() (hal.RenderPassEncoder, error)
	Draw(pass render.PassEncoder, sprite *render.Material) error
	EndPass() error
	Encoder() hal.CommandEncoder
	Submit() error
	Presented() error
	Abort()
}

var (
	_ Surface  = (*gfx.Context)(nil)
	_ Renderer = (*render.Renderer)(nil)
)

// Stats counts loop outcomes.
type Stats struct {
	Frames       uint64
	Skipped      uint64
	Reconfigured uint64
}

// Option configures a Loop.
type Option func(*Loop)

// WithOverlay draws o after the scene whenever it is visible. The grave
// key toggles it.
func WithOverlay(o Overlay) Option {
	return func(l *Loop) { l.overlay = o }
}

// WithConfigUpdates applies configs received on ch between frames.
func WithConfigUpdates(ch <-chan papercut.Config) Option {
	return func(l *Loop) { l.updates = ch }
}

// Loop is the frame loop. It is not safe for concurrent use and must run
// on the thread that owns the window.
type Loop struct {
	window   Window
	surface  Surface
	renderer Renderer
	camera   *camera.Camera
	sprite   *render.Material
	overlay  Overlay
	updates  <-chan papercut.Config

	events    []event
	width     int
	height    int
	minimized bool
	closing   bool
	stats     Stats
}

// New wires a loop to its collaborators and registers the window
// callbacks. sprite may be nil.
func New(w Window, s Surface, r Renderer, cam *camera.Camera, sprite *render.Material, opts ...Option) *Loop {
	l := &Loop{
		window:   w,
		surface:  s,
		renderer: r,
		camera:   cam,
		sprite:   sprite,
	}
	for _, opt := range opts {
		opt(l)
	}

	w.OnResize(func(width, height int) {
		l.push(event{kind: eventResize, width: width, height: height})
	})
	w.OnContentScale(func(float32, float32) {
		l.push(event{kind: eventScale})
	})
	w.OnClose(func() {
		l.push(event{kind: eventClose})
	})
	w.OnKeyPress(func(k gpucontext.Key, _ gpucontext.Modifiers) {
		l.push(event{kind: eventKey, key: k})
	})
	return l
}

// Stats returns the counters accumulated so far.
func (l *Loop) Stats() Stats { return l.stats }

// Size returns the size last applied to the surface.
func (l *Loop) Size() (width, height int) { return l.width, l.height }

// Run sizes everything to the window and renders until the window closes
// or ctx is cancelled. It returns the first fatal error.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.resize(l.window.FramebufferSize()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		l.window.PollEvents()
		if err := l.drain(); err != nil {
			return err
		}
		l.applyUpdates()
		if l.closing || l.window.ShouldClose() {
			papercut.Logger().Info("app: window closed", "frames", l.stats.Frames)
			return nil
		}
		if l.minimized {
			time.Sleep(idleDelay)
			continue
		}
		if err := l.redraw(); err != nil {
			return err
		}
	}
}

// resize applies a new framebuffer size to the surface, then the camera,
// then the depth buffer. A zero size marks the window minimized and
// leaves the current configuration in place.
func (l *Loop) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		l.minimized = true
		return nil
	}
	l.minimized = false

	if err := l.surface.Resize(uint32(width), uint32(height)); err != nil {
		if gfx.Recoverable(err) {
			papercut.Logger().Warn("app: surface resize", "err", err)
			return nil
		}
		return fmt.Errorf("app: resize surface: %w", err)
	}
	l.camera.Resize(width, height)
	if err := l.renderer.Resize(uint32(width), uint32(height)); err != nil {
		return fmt.Errorf("app: resize renderer: %w", err)
	}
	if l.overlay != nil {
		l.overlay.Resize(width, height)
	}
	l.width, l.height = width, height
	return nil
}

// reconfigure re-applies the last size after the surface was lost or
// went out of date.
func (l *Loop) reconfigure() error {
	l.stats.Reconfigured++
	return l.resize(l.width, l.height)
}

func (l *Loop) skip(reason string, err error) {
	l.stats.Skipped++
	papercut.Logger().Warn("app: frame skipped", "reason", reason, "err", err)
}

// redraw renders one frame. Lost or outdated surfaces are reconfigured and
// the frame is skipped; timeouts skip the frame; everything else is fatal.
func (l *Loop) redraw() error {
	frame, err := l.surface.AcquireFrame()
	switch {
	case err == nil:
	case gfx.Recoverable(err):
		l.skip("surface", err)
		return l.reconfigure()
	case errors.Is(err, gfx.ErrTimeout):
		l.skip("timeout", err)
		return nil
	case errors.Is(err, gfx.ErrNotConfigured):
		l.skip("unconfigured", err)
		return nil
	default:
		return fmt.Errorf("app: acquire frame: %w", err)
	}

	if err := l.record(frame); err != nil {
		l.renderer.Abort()
		l.surface.Discard(frame)
		return fmt.Errorf("app: record frame: %w", err)
	}

	if err := l.surface.Present(frame); err != nil {
		l.renderer.Abort()
		switch {
		case gfx.Recoverable(err):
			l.skip("surface", err)
			return l.reconfigure()
		case errors.Is(err, gfx.ErrTimeout):
			l.skip("timeout", err)
			return nil
		}
		return fmt.Errorf("app: present: %w", err)
	}
	if err := l.renderer.Presented(); err != nil {
		return err
	}
	l.stats.Frames++

	if frame.Suboptimal() {
		return l.reconfigure()
	}
	return nil
}

func (l *Loop) record(frame *gfx.Frame) error {
	r := l.renderer
	if err := r.BeginFrame(frame.View()); err != nil {
		return err
	}
	if err := r.WriteUniform(l.camera.ViewProjection()); err != nil {
		return err
	}
	pass, err := r.BeginPass()
	if err != nil {
		return err
	}
	if err := r.Draw(pass, l.sprite); err != nil {
		return err
	}
	if err := r.EndPass(); err != nil {
		return err
	}
	if l.overlay != nil && l.overlay.Visible() {
		if err := l.overlay.Render(l.surface.DeviceProvider(), r.Encoder(), frame.View()); err != nil {
			return fmt.Errorf("overlay: %w", err)
		}
	}
	return r.Submit()
}

// applyUpdates applies the newest pending config, if any.
func (l *Loop) applyUpdates() {
	if l.updates == nil {
		return
	}
	select {
	case cfg, ok := <-l.updates:
		if !ok {
			l.updates = nil
			return
		}
		l.renderer.SetClearColor(cfg.Render.ClearColor)
		papercut.Logger().Info("app: config reloaded", "clear", cfg.Render.ClearColor)
	default:
	}
}
