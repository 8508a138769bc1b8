// Package texture uploads 2D images to the GPU and exposes a sampled
// view for binding.
//
// A Texture is immutable once created. It is shared by reference count:
// the loader owns the first reference and every material binding that
// samples it takes another with Retain. GPU objects are destroyed when the
// last reference is released.
package texture

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/papercut"
	"github.com/gogpu/wgpu/hal"
)

// Texture errors.
var (
	// ErrDecode wraps the image decoder error for malformed input.
	ErrDecode = errors.New("texture: decode failed")

	// ErrSizeMismatch is returned when raw pixel data does not hold
	// exactly width*height*4 bytes.
	ErrSizeMismatch = errors.New("texture: pixel data size mismatch")

	// ErrZeroSize is returned for images with no pixels.
	ErrZeroSize = errors.New("texture: zero-sized image")
)

// bytesPerPixel is the size of one RGBA8 texel.
const bytesPerPixel = 4

// Option configures texture creation.
type Option func(*options)

type options struct {
	format  gputypes.TextureFormat
	address gputypes.AddressMode
	filter  gputypes.FilterMode
}

func defaultOptions() options {
	return options{
		format:  gputypes.TextureFormatRGBA8UnormSrgb,
		address: gputypes.AddressModeClampToEdge,
		filter:  gputypes.FilterModeLinear,
	}
}

// WithAddressMode sets the sampler address mode for U and V. The default
// clamps to the edge; AddressModeRepeat tiles the image.
func WithAddressMode(m gputypes.AddressMode) Option {
	return func(o *options) { o.address = m }
}

// WithFormat overrides the texel format. It must be a 4-byte RGBA format.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) { o.format = f }
}

// WithNearest selects nearest filtering instead of bilinear.
func WithNearest() Option {
	return func(o *options) { o.filter = gputypes.FilterModeNearest }
}

// Texture is a GPU image with its view and sampler.
type Texture struct {
	device  hal.Device
	texture hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	label         string
	width, height uint32
	format        gputypes.TextureFormat

	refs atomic.Int32
}

// LoadFromRaw uploads width*height RGBA8 pixels in row-major order.
func LoadFromRaw(device hal.Device, queue hal.Queue, width, height uint32, rgba []byte, label string, opts ...Option) (*Texture, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%s: %dx%d: %w", label, width, height, ErrZeroSize)
	}
	if want := uint64(width) * uint64(height) * bytesPerPixel; uint64(len(rgba)) != want {
		return nil, fmt.Errorf("%s: got %d bytes, want %d: %w", label, len(rgba), want, ErrSizeMismatch)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Texture{
		device: device,
		label:  label,
		width:  width,
		height: height,
		format: o.format,
	}
	if err := t.create(o); err != nil {
		t.destroy()
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	t.refs.Store(1)

	size := hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1}
	err := queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
		},
		rgba,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  width * bytesPerPixel,
			RowsPerImage: height,
		},
		&size,
	)
	if err != nil {
		t.destroy()
		return nil, fmt.Errorf("%s: upload: %w", label, err)
	}

	papercut.Logger().Debug("texture uploaded", "label", label, "width", width, "height", height)
	return t, nil
}

func (t *Texture) create(o options) error {
	tex, err := t.device.CreateTexture(&hal.TextureDescriptor{
		Label:         t.label,
		Size:          hal.Extent3D{Width: t.width, Height: t.height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        o.format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	t.texture = tex

	view, err := t.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: t.label + "_view",
	})
	if err != nil {
		return fmt.Errorf("create texture view: %w", err)
	}
	t.view = view

	sampler, err := t.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        t.label + "_sampler",
		AddressModeU: o.address,
		AddressModeV: o.address,
		AddressModeW: o.address,
		MagFilter:    o.filter,
		MinFilter:    o.filter,
		MipmapFilter: o.filter,
	})
	if err != nil {
		return fmt.Errorf("create sampler: %w", err)
	}
	t.sampler = sampler
	return nil
}

// Label returns the debug label given at load time.
func (t *Texture) Label() string { return t.label }

// Width returns the image width in texels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the image height in texels.
func (t *Texture) Height() uint32 { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// View returns the sampled view. It is nil once the texture is released.
func (t *Texture) View() hal.TextureView { return t.view }

// Sampler returns the sampler. It is nil once the texture is released.
func (t *Texture) Sampler() hal.Sampler { return t.sampler }

// Retain takes another reference and returns t.
func (t *Texture) Retain() *Texture {
	if t.refs.Add(1) <= 1 {
		panic("texture: Retain after final Release of " + t.label)
	}
	return t
}

// Release drops a reference. The GPU objects are destroyed when the last
// reference is released. It reports whether this call destroyed them.
func (t *Texture) Release() bool {
	switch n := t.refs.Add(-1); {
	case n > 0:
		return false
	case n < 0:
		panic("texture: Release without matching reference on " + t.label)
	}
	t.destroy()
	papercut.Logger().Debug("texture destroyed", "label", t.label)
	return true
}

// Refs returns the current reference count.
func (t *Texture) Refs() int {
	return int(t.refs.Load())
}

func (t *Texture) destroy() {
	if t.sampler != nil {
		t.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}
