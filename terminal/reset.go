package terminal

import (
	"io"
	"os"
)

// EmergencyReset restores attribute and cursor state after an aborted render
// Screen contents are left in place so a partially drawn frame stays visible
func EmergencyReset(w io.Writer) {
	w.Write(csiSGR0)
	w.Write(csiCursorShow)
	w.Write(csiAutoWrapOn)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}
