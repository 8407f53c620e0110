package render

import (
	"errors"

	"github.com/lixenwraith/gifterm/frame"
)

// ErrOutputWrite reports a failed write or flush to the output sink
var ErrOutputWrite = errors.New("output write")

// Renderer paints frames onto a terminal surface
// Each call leaves the surface flushed
type Renderer interface {
	// ClearArea blanks every pixel cell of r
	ClearArea(r frame.Rect) error

	// DrawFrame paints every pixel of f at its canvas position
	DrawFrame(f *frame.Frame) error
}

// CellOrigin maps a canvas pixel to the 0-indexed terminal cell of its left half
// Terminal cells are roughly twice as tall as wide, so a pixel spans two columns;
// the 1-based position is therefore row y+1, column (x+1)*2
func CellOrigin(x, y int) (col, row int) {
	return 2*x + 1, y
}

// PixelPosition returns the canvas coordinates of pixel i of f
func PixelPosition(f *frame.Frame, i int) (x, y int) {
	return f.Left + i%f.Width, f.Top + i/f.Width
}
