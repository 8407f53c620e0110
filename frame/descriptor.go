package frame

import (
	"encoding/binary"
	"fmt"
)

// GIF block structure
const (
	sExtension       = 0x21
	sImageDescriptor = 0x2C
	sTrailer         = 0x3B

	// Logical screen descriptor fields
	fColorMapFollows = 1 << 7
	fColorTableSize  = 7

	// Image descriptor fields
	ifLocalColorTable     = 1 << 7
	ifInterlace           = 1 << 6
	ifLocalColorTableSize = 7

	headerLen          = 6
	screenDescLen      = 7
	imageDescriptorLen = 9
)

// Descriptor is the raw image descriptor of one GIF frame
type Descriptor struct {
	Rect
	Interlaced      bool
	LocalColorTable bool
}

// ScanDescriptors walks the GIF block structure and returns every image descriptor in
// stream order. Pixel data is skipped, not decompressed.
// Malformed or truncated input returns an error wrapping ErrDecode.
func ScanDescriptors(data []byte) ([]Descriptor, error) {
	s := &scanner{data: data}

	sig, err := s.take(headerLen)
	if err != nil {
		return nil, err
	}
	if string(sig) != "GIF87a" && string(sig) != "GIF89a" {
		return nil, fmt.Errorf("%w: bad signature %q", ErrDecode, sig)
	}

	lsd, err := s.take(screenDescLen)
	if err != nil {
		return nil, err
	}
	if flags := lsd[4]; flags&fColorMapFollows != 0 {
		if _, err := s.take(colorTableLen(flags & fColorTableSize)); err != nil {
			return nil, err
		}
	}

	var descs []Descriptor
	for {
		c, err := s.readByte()
		if err != nil {
			return nil, err
		}

		switch c {
		case sExtension:
			// Label, then a sub-block chain
			if _, err := s.readByte(); err != nil {
				return nil, err
			}
			if err := s.skipSubBlocks(); err != nil {
				return nil, err
			}

		case sImageDescriptor:
			b, err := s.take(imageDescriptorLen)
			if err != nil {
				return nil, err
			}
			flags := b[8]
			d := Descriptor{
				Rect: Rect{
					Left:   int(binary.LittleEndian.Uint16(b[0:2])),
					Top:    int(binary.LittleEndian.Uint16(b[2:4])),
					Width:  int(binary.LittleEndian.Uint16(b[4:6])),
					Height: int(binary.LittleEndian.Uint16(b[6:8])),
				},
				Interlaced:      flags&ifInterlace != 0,
				LocalColorTable: flags&ifLocalColorTable != 0,
			}
			if d.LocalColorTable {
				if _, err := s.take(colorTableLen(flags & ifLocalColorTableSize)); err != nil {
					return nil, err
				}
			}
			// LZW minimum code size, then image data sub-blocks
			if _, err := s.readByte(); err != nil {
				return nil, err
			}
			if err := s.skipSubBlocks(); err != nil {
				return nil, err
			}
			descs = append(descs, d)

		case sTrailer:
			return descs, nil

		default:
			return nil, fmt.Errorf("%w: unknown block type 0x%02x at offset %d", ErrDecode, c, s.pos-1)
		}
	}
}

// colorTableLen returns the byte length of a color table with the given size field
func colorTableLen(size byte) int {
	return 3 * (1 << (size + 1))
}

// scanner is a bounds-checked cursor over the raw GIF bytes
type scanner struct {
	data []byte
	pos  int
}

func (s *scanner) readByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, fmt.Errorf("%w: unexpected end of data at offset %d", ErrDecode, s.pos)
	}
	c := s.data[s.pos]
	s.pos++
	return c, nil
}

func (s *scanner) take(n int) ([]byte, error) {
	if n > len(s.data)-s.pos {
		return nil, fmt.Errorf("%w: unexpected end of data at offset %d (need %d bytes)", ErrDecode, s.pos, n)
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

// skipSubBlocks consumes (n, n bytes) blocks up to and including the 0-length terminator
func (s *scanner) skipSubBlocks() error {
	for {
		n, err := s.readByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := s.take(int(n)); err != nil {
			return err
		}
	}
}
