// Package terminal emits raw ANSI control sequences for cell-addressed output.
//
// Features:
//   - Absolute cursor positioning (CUP)
//   - True color (24-bit) and 256-color palette background selection
//   - Allocation-free integer formatting onto a bufio.Writer
//   - Best-effort terminal restoration after an aborted render
//
// No terminfo lookup is performed; the target is any xterm-compatible terminal.
package terminal
