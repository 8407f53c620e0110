package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/lixenwraith/gifterm/frame"
	"github.com/lixenwraith/gifterm/terminal"
)

// pixelBlank fills both columns of a pixel with the active background
var pixelBlank = []byte("  ")

// ANSIRenderer writes cursor-addressed background-colored blanks to a stream
type ANSIRenderer struct {
	w         *bufio.Writer
	colorMode terminal.ColorMode
}

// NewANSIRenderer creates a renderer buffering output to w
func NewANSIRenderer(w io.Writer, colorMode terminal.ColorMode) *ANSIRenderer {
	return &ANSIRenderer{
		w:         bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// ClearArea writes one blank per pixel of r, row-major, with no color escape
// The blank takes whatever background is active; output depends on r alone
func (a *ANSIRenderer) ClearArea(r frame.Rect) error {
	w := a.w
	for y := r.Top; y < r.Top+r.Height; y++ {
		for x := r.Left; x < r.Left+r.Width; x++ {
			col, row := CellOrigin(x, y)
			terminal.WriteCursorPos(w, col, row)
			w.WriteByte(' ')
		}
	}
	return a.flush()
}

// DrawFrame writes every pixel quad of f; alpha is ignored
func (a *ANSIRenderer) DrawFrame(f *frame.Frame) error {
	w := a.w
	if f.Width > 0 {
		n := f.PixelCount()
		for i := 0; i < n; i++ {
			p := f.Pix[i*4 : i*4+4]
			x, y := PixelPosition(f, i)
			col, row := CellOrigin(x, y)

			terminal.WriteCursorPos(w, col, row)
			terminal.WriteBg(w, terminal.RGB{R: p[0], G: p[1], B: p[2]}, a.colorMode)
			w.Write(pixelBlank)
		}
	}
	return a.flush()
}

// flush surfaces any write error buffered since the last flush
func (a *ANSIRenderer) flush() error {
	if err := a.w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
