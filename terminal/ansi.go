package terminal

import (
	"bufio"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
var (
	csiCursorPos  = []byte("\x1b[") // followed by row;colH
	csiCursorShow = []byte("\x1b[?25h")
	csiSGR0       = []byte("\x1b[0m")
	csiAutoWrapOn = []byte("\x1b[?7h")

	// Color prefixes
	csiBg256 = []byte("\x1b[48;5;") // followed by N;m
	csiBgRGB = []byte("\x1b[48;2;") // followed by R;G;B;m
)

// writeInt writes a non-negative integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	// Wide canvases: GIF offsets reach 65535, doubled columns exceed 5 digits
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n%10) + '0'
		n /= 10
	}
	w.Write(buf[i:])
}

// WriteCursorPos writes a cursor positioning sequence (0-indexed input)
// Emits ESC[{y+1};{x+1}H
func WriteCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csiCursorPos)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// WriteBg writes a complete background color sequence for the given mode
func WriteBg(w *bufio.Writer, bg RGB, mode ColorMode) {
	if mode == ColorModeTrueColor {
		w.Write(csiBgRGB)
		writeInt(w, int(bg.R))
		w.WriteByte(';')
		writeInt(w, int(bg.G))
		w.WriteByte(';')
		writeInt(w, int(bg.B))
		w.WriteByte('m')
		return
	}
	w.Write(csiBg256)
	writeInt(w, int(RGBTo256(bg)))
	w.WriteByte('m')
}
