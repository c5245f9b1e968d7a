// Package gif89 decodes GIF89a animated images into frame-by-frame RGBA
// pixel buffers, without depending on any external image-decoding library.
//
// It implements the GIF container format (logical screen, global/local
// color tables, graphics-control and application extensions) and the LZW
// decompression pipeline that turns compressed image sub-blocks into
// per-frame color-index streams, then composites each frame onto a shared
// canvas according to the GIF disposal model.
//
// Three constructors trade memory against CPU:
//
//	NewRandomAccess         // every frame decoded to RGBA up front
//	NewIndexStreamed        // per-frame color-index streams retained, RGBA made on demand
//	NewCompressedStreamed   // per-frame raw LZW bytes retained, everything made on demand
//
// File I/O, rendering, and playback-timing loops are the caller's
// responsibility; this package only turns bytes into pixels.
package gif89
