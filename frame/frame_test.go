package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"path/filepath"
	"testing"
	"time"
)

// tinyGIF is a 1x1 GIF89a whose single pixel is palette index 0 (white)
var tinyGIF = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, // screen 1x1, 2-entry global table
	0xFF, 0xFF, 0xFF, 0x00, 0x00, 0x00,
	0x2C, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, // descriptor
	0x02, 0x02, 0x44, 0x01, 0x00, // LZW data
	0x3B,
}

// descriptorFlagsOffset is the packed field of tinyGIF's image descriptor
const descriptorFlagsOffset = 28

func tinyGIFWith(fn func(b []byte) []byte) []byte {
	b := append([]byte(nil), tinyGIF...)
	return fn(b)
}

func TestDisposalFromGIF(t *testing.T) {
	tests := []struct {
		in   byte
		want Disposal
	}{
		{0, DisposalNone},
		{gif.DisposalNone, DisposalKeep},
		{gif.DisposalBackground, DisposalBackground},
		{gif.DisposalPrevious, DisposalPrevious},
		{4, DisposalNone},
		{7, DisposalNone},
	}

	for _, tt := range tests {
		if got := DisposalFromGIF(tt.in); got != tt.want {
			t.Errorf("DisposalFromGIF(%d): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestScanDescriptors(t *testing.T) {
	descs, err := ScanDescriptors(tinyGIF)
	if err != nil {
		t.Fatalf("ScanDescriptors failed: %v", err)
	}
	if len(descs) != 1 {
		t.Fatalf("Expected 1 descriptor, got %d", len(descs))
	}
	want := Rect{Left: 0, Top: 0, Width: 1, Height: 1}
	if descs[0].Rect != want {
		t.Errorf("Expected rect %v, got %v", want, descs[0].Rect)
	}
	if descs[0].Interlaced {
		t.Error("Expected non-interlaced descriptor")
	}
}

func TestScanDescriptors_Interlaced(t *testing.T) {
	data := tinyGIFWith(func(b []byte) []byte {
		b[descriptorFlagsOffset] |= ifInterlace
		return b
	})

	descs, err := ScanDescriptors(data)
	if err != nil {
		t.Fatalf("ScanDescriptors failed: %v", err)
	}
	if !descs[0].Interlaced {
		t.Error("Expected interlace flag to be detected")
	}
}

func TestScanDescriptors_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad signature", tinyGIFWith(func(b []byte) []byte { b[3] = '7'; b[4] = '7'; return b })},
		{"short header", tinyGIF[:8]},
		{"missing trailer", tinyGIF[:len(tinyGIF)-1]},
		{"truncated image data", tinyGIF[:31]},
		{"unknown block", tinyGIFWith(func(b []byte) []byte { b[19] = 0x99; return b })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScanDescriptors(tt.data)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestGIFSource_Tiny(t *testing.T) {
	src, err := NewGIFSource(bytes.NewReader(tinyGIF))
	if err != nil {
		t.Fatalf("NewGIFSource failed: %v", err)
	}
	defer src.Close()

	if src.Len() != 1 {
		t.Errorf("Expected 1 frame, got %d", src.Len())
	}

	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !bytes.Equal(f.Pix, []byte{255, 255, 255, 255}) {
		t.Errorf("Expected opaque white pixel, got %v", f.Pix)
	}
	if f.Width != 1 || f.Height != 1 || f.Left != 0 || f.Top != 0 {
		t.Errorf("Unexpected geometry %v", f.Bounds())
	}
	if f.Interlaced {
		t.Error("Expected non-interlaced frame")
	}

	for i := 0; i < 2; i++ {
		if _, err := src.Next(); err != io.EOF {
			t.Errorf("Expected io.EOF after last frame, got %v", err)
		}
	}
}

func TestGIFSource_GraphicControl(t *testing.T) {
	// Graphic control: disposal=2 (background), delay=10cs
	gce := []byte{0x21, 0xF9, 0x04, 0x08, 0x0A, 0x00, 0x00, 0x00}
	data := tinyGIFWith(func(b []byte) []byte {
		out := append([]byte(nil), b[:19]...)
		out = append(out, gce...)
		return append(out, b[19:]...)
	})

	src, err := NewGIFSource(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewGIFSource failed: %v", err)
	}

	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if f.Disposal != DisposalBackground {
		t.Errorf("Expected Background disposal, got %v", f.Disposal)
	}
	if f.Delay != 100*time.Millisecond {
		t.Errorf("Expected 100ms delay, got %v", f.Delay)
	}
}

func TestGIFSource_InterlacedFlag(t *testing.T) {
	data := tinyGIFWith(func(b []byte) []byte {
		b[descriptorFlagsOffset] |= ifInterlace
		return b
	})

	src, err := NewGIFSource(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewGIFSource failed: %v", err)
	}

	f, err := src.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if !f.Interlaced {
		t.Error("Expected frame to be marked interlaced")
	}
}

func TestGIFSource_EncodedAnimation(t *testing.T) {
	pal := color.Palette{
		color.RGBA{255, 0, 0, 255},
		color.RGBA{0, 0, 255, 255},
		color.RGBA{0, 0, 0, 0},
	}

	first := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	second := image.NewPaletted(image.Rect(1, 2, 3, 4), pal)
	for i := range second.Pix {
		second.Pix[i] = 1
	}
	second.SetColorIndex(2, 3, 2) // bottom-right transparent

	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:    []*image.Paletted{first, second},
		Delay:    []int{5, 7},
		Disposal: []byte{gif.DisposalBackground, gif.DisposalNone},
		Config:   image.Config{Width: 4, Height: 4},
	})
	if err != nil {
		t.Fatalf("EncodeAll failed: %v", err)
	}

	src, err := NewGIFSource(&buf)
	if err != nil {
		t.Fatalf("NewGIFSource failed: %v", err)
	}
	if w, h := src.Canvas(); w != 4 || h != 4 {
		t.Errorf("Expected 4x4 canvas, got %dx%d", w, h)
	}

	f1, err := src.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if f1.Index != 0 || f1.Disposal != DisposalBackground || f1.Delay != 50*time.Millisecond {
		t.Errorf("Frame 0: unexpected metadata index=%d disposal=%v delay=%v", f1.Index, f1.Disposal, f1.Delay)
	}
	if len(f1.Pix) != 4*4*4 {
		t.Fatalf("Frame 0: expected %d bytes, got %d", 4*4*4, len(f1.Pix))
	}
	if !bytes.Equal(f1.Pix[:4], []byte{255, 0, 0, 255}) {
		t.Errorf("Frame 0: expected red first pixel, got %v", f1.Pix[:4])
	}

	f2, err := src.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	want := Rect{Left: 1, Top: 2, Width: 2, Height: 2}
	if f2.Bounds() != want {
		t.Errorf("Frame 1: expected bounds %v, got %v", want, f2.Bounds())
	}
	if f2.Disposal != DisposalKeep {
		t.Errorf("Frame 1: expected DoNotDispose, got %v", f2.Disposal)
	}
	if f2.PixelCount() != 4 {
		t.Fatalf("Frame 1: expected 4 pixels, got %d", f2.PixelCount())
	}
	if !bytes.Equal(f2.Pix[:4], []byte{0, 0, 255, 255}) {
		t.Errorf("Frame 1: expected blue first pixel, got %v", f2.Pix[:4])
	}
	if !bytes.Equal(f2.Pix[12:16], []byte{0, 0, 0, 0}) {
		t.Errorf("Frame 1: expected transparent last pixel, got %v", f2.Pix[12:16])
	}

	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.gif"))
	if !errors.Is(err, ErrOpen) {
		t.Errorf("Expected ErrOpen, got %v", err)
	}
}

func TestClose_EndsSequence(t *testing.T) {
	src, err := NewGIFSource(bytes.NewReader(tinyGIF))
	if err != nil {
		t.Fatalf("NewGIFSource failed: %v", err)
	}
	src.Close()
	if _, err := src.Next(); err != io.EOF {
		t.Errorf("Expected io.EOF after Close, got %v", err)
	}
}
