package texture

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/papercut"
	"github.com/gogpu/wgpu/hal"
)

// LoadFromBytes decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF or
// WebP) and uploads it as RGBA8.
func LoadFromBytes(device hal.Device, queue hal.Queue, data []byte, label string, opts ...Option) (*Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", label, ErrDecode, err)
	}
	t, err := LoadFromImage(device, queue, img, label, opts...)
	if err != nil {
		return nil, err
	}
	papercut.Logger().Debug("texture decoded", "label", label, "format", format)
	return t, nil
}

// LoadFromFile reads and decodes the image at path. The label is the
// file's base name.
func LoadFromFile(device hal.Device, queue hal.Queue, path string, opts ...Option) (*Texture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return LoadFromBytes(device, queue, data, filepath.Base(path), opts...)
}

// LoadFromImage uploads an already decoded image.
func LoadFromImage(device hal.Device, queue hal.Queue, img image.Image, label string, opts ...Option) (*Texture, error) {
	pix := ToNRGBA(img)
	b := pix.Bounds()
	return LoadFromRaw(device, queue, uint32(b.Dx()), uint32(b.Dy()), pix.Pix, label, opts...)
}

// ToNRGBA converts img to tightly packed, non-premultiplied RGBA8 with its
// origin at (0, 0). An image already in that form is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == b.Dx()*bytesPerPixel {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
