package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"golang.org/x/image/bmp"
)

func newNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		open.Device.Destroy()
		instance.Destroy()
	})
	return open.Device, open.Queue
}

// uploadQueue records texture uploads.
type uploadQueue struct {
	hal.Queue
	data   [][]byte
	layout []hal.ImageDataLayout
	size   []hal.Extent3D
	err    error
}

func (q *uploadQueue) WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D) error {
	if q.err != nil {
		return q.err
	}
	q.data = append(q.data, bytes.Clone(data))
	q.layout = append(q.layout, *layout)
	q.size = append(q.size, *size)
	return q.Queue.WriteTexture(dst, data, layout, size)
}

func TestLoadFromRawWhitePixel(t *testing.T) {
	device, queue := newNoopDevice(t)
	q := &uploadQueue{Queue: queue}

	white := []byte{0xff, 0xff, 0xff, 0xff}
	tex, err := LoadFromRaw(device, q, 1, 1, white, "white")
	if err != nil {
		t.Fatalf("LoadFromRaw() error = %v", err)
	}
	defer tex.Release()

	if tex.Width() != 1 || tex.Height() != 1 {
		t.Errorf("size = %dx%d, want 1x1", tex.Width(), tex.Height())
	}
	if tex.View() == nil || tex.Sampler() == nil {
		t.Fatal("view or sampler is nil")
	}
	if tex.Format() != gputypes.TextureFormatRGBA8UnormSrgb {
		t.Errorf("Format() = %v, want RGBA8UnormSrgb", tex.Format())
	}
	if len(q.data) != 1 || !bytes.Equal(q.data[0], white) {
		t.Fatalf("uploaded %v, want one white texel", q.data)
	}
	if q.layout[0].BytesPerRow != 4 || q.layout[0].RowsPerImage != 1 {
		t.Errorf("layout = %+v", q.layout[0])
	}
	if q.size[0] != (hal.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1}) {
		t.Errorf("extent = %+v", q.size[0])
	}
}

func TestLoadFromRawErrors(t *testing.T) {
	device, queue := newNoopDevice(t)

	tests := []struct {
		name string
		w, h uint32
		data []byte
		want error
	}{
		{"zero width", 0, 4, nil, ErrZeroSize},
		{"zero height", 4, 0, nil, ErrZeroSize},
		{"short", 2, 2, make([]byte, 15), ErrSizeMismatch},
		{"long", 2, 2, make([]byte, 17), ErrSizeMismatch},
		{"rgb", 2, 2, make([]byte, 12), ErrSizeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromRaw(device, queue, tt.w, tt.h, tt.data, tt.name)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadFromRaw() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFromRawUploadError(t *testing.T) {
	device, queue := newNoopDevice(t)
	failure := errors.New("queue full")
	q := &uploadQueue{Queue: queue, err: failure}

	if _, err := LoadFromRaw(device, q, 1, 1, make([]byte, 4), "fail"); !errors.Is(err, failure) {
		t.Errorf("LoadFromRaw() error = %v, want %v", err, failure)
	}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFromBytes(t *testing.T) {
	device, queue := newNoopDevice(t)
	src := Checkerboard(4, 2)

	var bmpBuf bytes.Buffer
	if err := bmp.Encode(&bmpBuf, src); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}

	for name, data := range map[string][]byte{
		"png": encodePNG(t, src),
		"bmp": bmpBuf.Bytes(),
	} {
		t.Run(name, func(t *testing.T) {
			q := &uploadQueue{Queue: queue}
			tex, err := LoadFromBytes(device, q, data, name)
			if err != nil {
				t.Fatalf("LoadFromBytes() error = %v", err)
			}
			defer tex.Release()

			if tex.Width() != 8 || tex.Height() != 8 {
				t.Errorf("size = %dx%d, want 8x8", tex.Width(), tex.Height())
			}
			if len(q.data) != 1 || !bytes.Equal(q.data[0], src.Pix) {
				t.Error("uploaded pixels differ from the encoded image")
			}
		})
	}
}

func TestLoadFromBytesMalformed(t *testing.T) {
	device, queue := newNoopDevice(t)

	for name, data := range map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("not an image"),
		"truncated": encodePNG(t, Checkerboard(2, 2))[:40],
	} {
		if _, err := LoadFromBytes(device, queue, data, name); !errors.Is(err, ErrDecode) {
			t.Errorf("%s: error = %v, want ErrDecode", name, err)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	device, queue := newNoopDevice(t)
	path := filepath.Join(t.TempDir(), "sprite.png")
	if err := os.WriteFile(path, encodePNG(t, Checkerboard(2, 3)), 0o600); err != nil {
		t.Fatal(err)
	}

	tex, err := LoadFromFile(device, queue, path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	defer tex.Release()
	if tex.Label() != "sprite.png" {
		t.Errorf("Label() = %q, want sprite.png", tex.Label())
	}
	if tex.Width() != 6 {
		t.Errorf("Width() = %d, want 6", tex.Width())
	}

	if _, err := LoadFromFile(device, queue, filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: error = %v", err)
	}
}

func TestTextureSharedOwnership(t *testing.T) {
	device, queue := newNoopDevice(t)
	tex, err := LoadFromRaw(device, queue, 1, 1, make([]byte, 4), "shared")
	if err != nil {
		t.Fatal(err)
	}

	a := tex.Retain()
	b := tex.Retain()
	if a != tex || b != tex {
		t.Fatal("Retain() returned a different texture")
	}
	if tex.Refs() != 3 {
		t.Errorf("Refs() = %d, want 3", tex.Refs())
	}

	if tex.Release() || tex.Release() {
		t.Fatal("Release() destroyed a texture that is still referenced")
	}
	if tex.View() == nil {
		t.Fatal("view destroyed early")
	}
	if !tex.Release() {
		t.Fatal("last Release() did not destroy the texture")
	}
	if tex.View() != nil || tex.Sampler() != nil {
		t.Error("GPU objects survived the last Release()")
	}

	defer func() {
		if recover() == nil {
			t.Error("Retain() after the last Release() did not panic")
		}
	}()
	tex.Retain()
}

func TestToNRGBA(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.Set(2, 2, color.RGBA{R: 0x80, A: 0x80})

	sub := src.SubImage(image.Rect(2, 2, 4, 4))
	got := ToNRGBA(sub)
	if got.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("Bounds() = %v", got.Bounds())
	}
	// Premultiplied 0x80/0x80 is full red at half alpha.
	if c := got.NRGBAAt(0, 0); c != (color.NRGBA{R: 0xff, A: 0x80}) {
		t.Errorf("NRGBAAt(0, 0) = %v", c)
	}

	packed := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	if ToNRGBA(packed) != packed {
		t.Error("ToNRGBA copied an already packed image")
	}
}

func TestCheckerboard(t *testing.T) {
	img := Checkerboard(2, 4)
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 8 {
		t.Fatalf("Bounds() = %v", img.Bounds())
	}
	magenta := color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	black := color.NRGBA{A: 0xff}

	for _, tt := range []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, magenta},
		{3, 3, magenta},
		{4, 0, black},
		{0, 4, black},
		{7, 7, magenta},
	} {
		if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("NRGBAAt(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

// samplerDevice records sampler descriptors.
type samplerDevice struct {
	hal.Device
	samplers []hal.SamplerDescriptor
}

func (d *samplerDevice) CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error) {
	d.samplers = append(d.samplers, *desc)
	return d.Device.CreateSampler(desc)
}

func TestSamplerFiltering(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want gputypes.FilterMode
	}{
		{"default", nil, gputypes.FilterModeLinear},
		{"nearest", []Option{WithNearest()}, gputypes.FilterModeNearest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, queue := newNoopDevice(t)
			d := &samplerDevice{Device: device}

			tex, err := LoadFromRaw(d, queue, 1, 1, []byte{0xff, 0xff, 0xff, 0xff}, "pixel", tt.opts...)
			if err != nil {
				t.Fatalf("LoadFromRaw() error = %v", err)
			}
			defer tex.Release()

			if len(d.samplers) != 1 {
				t.Fatalf("created %d samplers, want 1", len(d.samplers))
			}
			s := d.samplers[0]
			if s.MagFilter != tt.want || s.MinFilter != tt.want || s.MipmapFilter != tt.want {
				t.Errorf("filters mag=%v min=%v mip=%v, want %v", s.MagFilter, s.MinFilter, s.MipmapFilter, tt.want)
			}
		})
	}
}
