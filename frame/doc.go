// Package frame supplies decoded animation frames to the player.
//
// A Source yields Frames one at a time until io.EOF. Every Frame carries its pixels
// normalized to non-premultiplied RGBA quads in row-major order, its placement on the
// logical canvas and the disposal hint recorded by the encoder.
//
// GIF decoding is delegated to image/gif. The interlace flag, which image/gif consumes
// silently, is recovered by ScanDescriptors walking the raw block structure.
package frame
