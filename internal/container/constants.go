// Package container parses the GIF89a block stream: the logical screen
// descriptor, global/local color tables, graphics-control and skip-only
// extension blocks, and image descriptors with their LZW sub-block chains.
package container

// Block labels, per the GIF89a block stream.
const (
	blockExtension       = 0x21
	blockImageDescriptor = 0x2C
	blockTrailer         = 0x3B
)

// Extension sub-labels.
const (
	extPlainText      = 0x21
	extGraphicControl = 0xF9
	extComment        = 0xFE
	extApplication    = 0xFF
)

// Logical screen descriptor packed-byte masks (LSB -> MSB: color-table
// size exponent, sort flag, color resolution, global color table flag).
const (
	screenSizeExpMask          = 0x07
	screenSortFlag             = 0x08
	screenColorResMask         = 0x70
	screenColorResShift        = 4
	screenGlobalColorTableFlag = 0x80
)

// Graphics control extension packed-byte masks.
const (
	gceTransparentFlag = 0x01
	gceDisposalMask    = 0x1C
	gceDisposalShift   = 2
)

// Image descriptor packed-byte masks, extracted explicitly rather than via
// a bit-field struct, per the format's own packed-byte conventions.
const (
	imgLocalColorTableFlag        = 0x80
	imgInterlaceFlag              = 0x40
	imgSortFlag                   = 0x20
	imgLocalColorTableSizeExpMask = 0x07
)

// Disposal methods. 3 (restore-to-previous) and values >= 4 are rejected
// at parse time.
const (
	DisposalNone              = 0
	DisposalKeep              = 1
	DisposalClearToBackground = 2
)

// MaxFrames is the hard ceiling on frame count; exceeding it is a decode
// error, not a silent truncation.
const MaxFrames = 4096
