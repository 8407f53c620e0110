package render

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/gifterm/frame"
	"github.com/lixenwraith/gifterm/terminal"
)

// ScreenRenderer paints frames onto a tcell screen using the same cell mapping as ANSIRenderer
type ScreenRenderer struct {
	screen    tcell.Screen
	colorMode terminal.ColorMode
}

// NewScreenRenderer wraps an initialized screen
func NewScreenRenderer(screen tcell.Screen, colorMode terminal.ColorMode) *ScreenRenderer {
	return &ScreenRenderer{
		screen:    screen,
		colorMode: colorMode,
	}
}

// ClearArea sets the left cell of every pixel in r to a default-styled blank
func (s *ScreenRenderer) ClearArea(r frame.Rect) error {
	for y := r.Top; y < r.Top+r.Height; y++ {
		for x := r.Left; x < r.Left+r.Width; x++ {
			col, row := CellOrigin(x, y)
			s.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
	s.screen.Show()
	return nil
}

// DrawFrame sets both cells of every pixel to its background color
func (s *ScreenRenderer) DrawFrame(f *frame.Frame) error {
	if f.Width > 0 {
		n := f.PixelCount()
		for i := 0; i < n; i++ {
			p := f.Pix[i*4 : i*4+4]
			x, y := PixelPosition(f, i)
			col, row := CellOrigin(x, y)

			style := tcell.StyleDefault.Background(s.color(terminal.RGB{R: p[0], G: p[1], B: p[2]}))
			s.screen.SetContent(col, row, ' ', nil, style)
			s.screen.SetContent(col+1, row, ' ', nil, style)
		}
	}
	s.screen.Show()
	return nil
}

func (s *ScreenRenderer) color(c terminal.RGB) tcell.Color {
	if s.colorMode == terminal.ColorMode256 {
		return tcell.PaletteColor(int(terminal.RGBTo256(c)))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// WatchInterrupt cancels playback on Ctrl+C, Esc or 'q'
// The screen owns the keyboard in raw mode, so SIGINT is never raised
// Returns when a quit key arrives or the screen is finalized
func (s *ScreenRenderer) WatchInterrupt(cancel context.CancelFunc) {
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					cancel()
					return
				}
			case *tcell.EventResize:
				s.screen.Sync()
			}
		}
	}()
}
