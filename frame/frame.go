package frame

import "time"

// Disposal is the action the encoder requests once a frame has been shown
type Disposal uint8

const (
	DisposalNone       Disposal = iota // Unspecified
	DisposalKeep                       // Do not dispose, leave in place
	DisposalBackground                 // Restore the frame's area to background
	DisposalPrevious                   // Restore the area to its state before the frame
)

// DisposalFromGIF maps the 3-bit GIF graphic control disposal field
// Reserved values 4-7 are treated as unspecified
func DisposalFromGIF(b byte) Disposal {
	switch b {
	case 1:
		return DisposalKeep
	case 2:
		return DisposalBackground
	case 3:
		return DisposalPrevious
	default:
		return DisposalNone
	}
}

// String returns human-readable disposal name
func (d Disposal) String() string {
	switch d {
	case DisposalNone:
		return "None"
	case DisposalKeep:
		return "DoNotDispose"
	case DisposalBackground:
		return "Background"
	case DisposalPrevious:
		return "Previous"
	default:
		return "Unknown"
	}
}

// Rect is a rectangle in logical canvas pixels
type Rect struct {
	Left, Top     int
	Width, Height int
}

// Empty reports whether the rectangle covers no pixels
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Frame is one decoded image of an animation.
//
// Pix MUST NOT be modified by consumers; a Frame is shared by value and its
// pixel slice is never copied after the source produced it.
type Frame struct {
	// Pix holds RGBA quads, row-major, len(Pix) == Width*Height*4
	Pix []byte

	Left, Top     int
	Width, Height int

	Disposal   Disposal
	Interlaced bool

	// Delay is the encoder's requested display time; informational only
	Delay time.Duration

	// Index is the 0-based position in the stream
	Index int
}

// Bounds returns the frame's placement on the logical canvas
func (f *Frame) Bounds() Rect {
	return Rect{Left: f.Left, Top: f.Top, Width: f.Width, Height: f.Height}
}

// PixelCount returns the number of complete RGBA quads in Pix
func (f *Frame) PixelCount() int {
	return len(f.Pix) / 4
}
