package frame

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"
)

var (
	// ErrOpen reports that the input could not be opened or read
	ErrOpen = errors.New("open input")
	// ErrDecode reports malformed or truncated container data.
	// GIFSource decodes the whole stream up front, so it is returned by Open and
	// NewGIFSource, never by Next; a file truncated mid-animation draws no frames.
	ErrDecode = errors.New("decode")
)

// Source yields frames in stream order
// Next returns io.EOF once the sequence is exhausted; sources are not restartable
type Source interface {
	Next() (Frame, error)
	Close() error
}

// GIFSource serves the frames of a decoded GIF
// Pixel normalization happens on demand, one frame per Next call
type GIFSource struct {
	g     *gif.GIF
	descs []Descriptor
	next  int
}

// Open reads and decodes the GIF at path
func Open(path string) (*GIFSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	return NewGIFSource(f)
}

// NewGIFSource reads and decodes a complete GIF stream from r
// Any decode failure, including one in the last frame, is reported here
func NewGIFSource(r io.Reader) (*GIFSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	descs, err := ScanDescriptors(data)
	if err != nil {
		return nil, err
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if len(g.Image) != len(descs) {
		return nil, fmt.Errorf("%w: %d image descriptors but %d decoded frames", ErrDecode, len(descs), len(g.Image))
	}
	for i, m := range g.Image {
		if got := rectOf(m.Bounds()); got != descs[i].Rect {
			return nil, fmt.Errorf("%w: frame %d bounds %v disagree with descriptor %v", ErrDecode, i, got, descs[i].Rect)
		}
	}

	return &GIFSource{g: g, descs: descs}, nil
}

// Len returns the total number of frames in the stream
func (s *GIFSource) Len() int {
	if s.g == nil {
		return 0
	}
	return len(s.g.Image)
}

// Canvas returns the logical screen size
func (s *GIFSource) Canvas() (width, height int) {
	if s.g == nil {
		return 0, 0
	}
	return s.g.Config.Width, s.g.Config.Height
}

// Next returns the next frame or io.EOF
func (s *GIFSource) Next() (Frame, error) {
	if s.g == nil || s.next >= len(s.g.Image) {
		return Frame{}, io.EOF
	}

	i := s.next
	s.next++

	m := s.g.Image[i]
	f := Frame{
		Pix:        toRGBA(m),
		Left:       m.Rect.Min.X,
		Top:        m.Rect.Min.Y,
		Width:      m.Rect.Dx(),
		Height:     m.Rect.Dy(),
		Interlaced: s.descs[i].Interlaced,
		Index:      i,
	}
	if i < len(s.g.Disposal) {
		f.Disposal = DisposalFromGIF(s.g.Disposal[i])
	}
	if i < len(s.g.Delay) {
		f.Delay = time.Duration(s.g.Delay[i]) * 10 * time.Millisecond
	}
	return f, nil
}

// Close releases the decoded stream; subsequent Next calls return io.EOF
func (s *GIFSource) Close() error {
	s.g = nil
	s.descs = nil
	return nil
}

// toRGBA expands a paletted frame into tightly packed non-premultiplied RGBA
// Transparent palette entries become (0,0,0,0)
func toRGBA(m *image.Paletted) []byte {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(dst, image.Point{}, m, b, draw.Src, nil)
	return dst.Pix
}

func rectOf(r image.Rectangle) Rect {
	return Rect{Left: r.Min.X, Top: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
