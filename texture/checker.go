package texture

import (
	"image"
	"image/color"
)

// Checkerboard returns a square image of cells x cells squares, each
// cellSize texels wide, alternating magenta and black. It stands in for a
// missing sprite.
func Checkerboard(cells, cellSize int) *image.NRGBA {
	cells = max(cells, 1)
	cellSize = max(cellSize, 1)
	size := cells * cellSize

	on := color.NRGBA{R: 0xff, B: 0xff, A: 0xff}
	off := color.NRGBA{A: 0xff}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			c := off
			if (x/cellSize+y/cellSize)%2 == 0 {
				c = on
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
