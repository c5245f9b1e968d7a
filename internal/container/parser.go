package container

import (
	"fmt"

	"github.com/deepteams/gif89/internal/bitio"
	"github.com/deepteams/gif89/internal/decodeerr"
)

// ColorTableEntry is a 24-bit RGB triplet from a global or local color table.
type ColorTableEntry struct {
	R, G, B byte
}

// ColorTable is an ordered sequence of color entries; its length is always
// a power of two in [2, 256].
type ColorTable []ColorTableEntry

// LogicalScreen is the GIF's canvas descriptor.
type LogicalScreen struct {
	Width, Height           int
	BackgroundColorIndex    byte
	HasGlobalColorTable     bool
	GlobalColorTableSizeExp int
}

// GraphicsControl is the most recently parsed 0xF9 extension, applied to the
// next image descriptor.
type GraphicsControl struct {
	Disposal               int
	TransparentColorValid  bool
	TransparentColorIndex  byte
	DelayCentiseconds      uint16
}

// Frame is one image descriptor plus its associated graphics control and
// raw LZW sub-blocks (zero-copy slices into the input buffer).
type Frame struct {
	X, Y, W, H         int
	MinCodeSize        int
	HasLocalColorTable bool
	LocalColorTable    ColorTable
	SubBlocks          [][]byte
	Control            GraphicsControl
}

// Image is the fully parsed GIF block stream.
type Image struct {
	Screen                   LogicalScreen
	GlobalColorTable         ColorTable
	Frames                   []Frame
	TotalRuntimeCentiseconds int
}

// Parse reads a complete GIF89a byte buffer into an Image. data is borrowed
// only for the duration of this call's zero-copy sub-block slices, which
// the caller must keep alive as long as the returned Image is used.
func Parse(data []byte) (*Image, error) {
	c := bitio.NewByteCursor(data)
	img := &Image{}

	if err := parseHeaderAndScreen(c, img); err != nil {
		return nil, err
	}

	var pending GraphicsControl
	havePending := false

	for {
		label, err := c.ReadByte()
		if err != nil {
			return nil, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading block label: %w", err))
		}
		switch label {
		case blockExtension:
			gc, isGC, err := parseExtension(c)
			if err != nil {
				return nil, err
			}
			if isGC {
				pending = gc
				havePending = true
			}
		case blockImageDescriptor:
			if len(img.Frames) >= MaxFrames {
				return nil, decodeerr.New(decodeerr.CapacityExceeded, c.Pos(), len(img.Frames), ErrTooManyFrames)
			}
			frame, err := parseImageDescriptor(c, img.Screen)
			if err != nil {
				return nil, err
			}
			if havePending {
				frame.Control = pending
				havePending = false
			} else {
				frame.Control = GraphicsControl{Disposal: DisposalNone}
			}
			img.Frames = append(img.Frames, frame)
		case blockTrailer:
			for _, frame := range img.Frames {
				img.TotalRuntimeCentiseconds += int(frame.Control.DelayCentiseconds)
			}
			return img, nil
		default:
			return nil, decodeerr.New(decodeerr.Malformed, c.Pos()-1, len(img.Frames), fmt.Errorf("%w: 0x%02x", ErrUnknownBlockLabel, label))
		}
	}
}

func parseHeaderAndScreen(c *bitio.ByteCursor, img *Image) error {
	sig, err := c.ReadBytes(6)
	if err != nil {
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading signature: %w", err))
	}
	if s := string(sig); s != "GIF87a" && s != "GIF89a" {
		return decodeerr.New(decodeerr.Malformed, 0, -1, fmt.Errorf("%w: %q", ErrBadSignature, s))
	}

	width, err := c.ReadUint16()
	if err != nil {
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading screen width: %w", err))
	}
	height, err := c.ReadUint16()
	if err != nil {
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading screen height: %w", err))
	}
	packed, err := c.ReadByte()
	if err != nil {
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading screen descriptor: %w", err))
	}
	bg, err := c.ReadByte()
	if err != nil {
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading background color index: %w", err))
	}
	if err := c.Skip(1); err != nil { // pixel aspect ratio, ignored
		return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading pixel aspect: %w", err))
	}

	img.Screen = LogicalScreen{
		Width:                   int(width),
		Height:                  int(height),
		BackgroundColorIndex:    bg,
		HasGlobalColorTable:     packed&screenGlobalColorTableFlag != 0,
		GlobalColorTableSizeExp: int(packed & screenSizeExpMask),
	}

	if img.Screen.HasGlobalColorTable {
		ct, err := readColorTable(c, img.Screen.GlobalColorTableSizeExp)
		if err != nil {
			return err
		}
		img.GlobalColorTable = ct
	}
	return nil
}

func readColorTable(c *bitio.ByteCursor, sizeExp int) (ColorTable, error) {
	n := 1 << uint(sizeExp+1)
	raw, err := c.ReadBytes(n * 3)
	if err != nil {
		return nil, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading color table: %w", err))
	}
	ct := make(ColorTable, n)
	for i := 0; i < n; i++ {
		ct[i] = ColorTableEntry{R: raw[i*3], G: raw[i*3+1], B: raw[i*3+2]}
	}
	return ct, nil
}

// parseExtension reads one 0x21-introduced extension block and reports
// whether it was a graphics-control extension.
func parseExtension(c *bitio.ByteCursor) (GraphicsControl, bool, error) {
	label, err := c.ReadByte()
	if err != nil {
		return GraphicsControl{}, false, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading extension label: %w", err))
	}
	switch label {
	case extGraphicControl:
		gc, err := parseGraphicsControl(c)
		return gc, true, err
	case extApplication, extComment, extPlainText:
		if err := skipSubBlocks(c); err != nil {
			return GraphicsControl{}, false, err
		}
		return GraphicsControl{}, false, nil
	default:
		return GraphicsControl{}, false, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("%w: 0x%02x", ErrUnknownExtensionLabel, label))
	}
}

func parseGraphicsControl(c *bitio.ByteCursor) (GraphicsControl, error) {
	if _, err := c.ReadByte(); err != nil { // block size, always 4
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading graphics control size: %w", err))
	}
	packed, err := c.ReadByte()
	if err != nil {
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading graphics control flags: %w", err))
	}
	delay, err := c.ReadUint16()
	if err != nil {
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading delay time: %w", err))
	}
	transparentIdx, err := c.ReadByte()
	if err != nil {
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading transparent color index: %w", err))
	}
	terminator, err := c.ReadByte()
	if err != nil {
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading graphics control terminator: %w", err))
	}
	if terminator != 0 {
		return GraphicsControl{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, ErrMissingExtensionTerminator)
	}

	disposal := int(packed&gceDisposalMask) >> gceDisposalShift
	if disposal == 3 || disposal > 3 {
		return GraphicsControl{}, decodeerr.New(decodeerr.Unsupported, c.Pos(), -1, fmt.Errorf("%w: %d", ErrUnsupportedDisposal, disposal))
	}

	return GraphicsControl{
		Disposal:              disposal,
		TransparentColorValid: packed&gceTransparentFlag != 0,
		TransparentColorIndex: transparentIdx,
		DelayCentiseconds:     delay,
	}, nil
}

func parseImageDescriptor(c *bitio.ByteCursor, screen LogicalScreen) (Frame, error) {
	x, err := c.ReadUint16()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading image x: %w", err))
	}
	y, err := c.ReadUint16()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading image y: %w", err))
	}
	w, err := c.ReadUint16()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading image width: %w", err))
	}
	h, err := c.ReadUint16()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading image height: %w", err))
	}
	packed, err := c.ReadByte()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading image descriptor flags: %w", err))
	}

	if packed&imgInterlaceFlag != 0 {
		return Frame{}, decodeerr.New(decodeerr.Unsupported, c.Pos(), -1, ErrInterlaceUnsupported)
	}
	if packed&imgSortFlag != 0 {
		return Frame{}, decodeerr.New(decodeerr.Unsupported, c.Pos(), -1, ErrSortUnsupported)
	}
	if int(x)+int(w) > screen.Width || int(y)+int(h) > screen.Height {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, ErrFrameOutsideCanvas)
	}

	frame := Frame{X: int(x), Y: int(y), W: int(w), H: int(h)}

	if packed&imgLocalColorTableFlag != 0 {
		sizeExp := int(packed & imgLocalColorTableSizeExpMask)
		ct, err := readColorTable(c, sizeExp)
		if err != nil {
			return Frame{}, err
		}
		frame.HasLocalColorTable = true
		frame.LocalColorTable = ct
	}

	minCodeSize, err := c.ReadByte()
	if err != nil {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading LZW minimum code size: %w", err))
	}
	if minCodeSize < 2 || minCodeSize > 12 {
		return Frame{}, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("%w: %d", ErrCodeSizeOutOfRange, minCodeSize))
	}
	frame.MinCodeSize = int(minCodeSize)

	blocks, err := readSubBlocks(c)
	if err != nil {
		return Frame{}, err
	}
	frame.SubBlocks = blocks
	return frame, nil
}

func readSubBlocks(c *bitio.ByteCursor) ([][]byte, error) {
	var blocks [][]byte
	for {
		n, err := c.ReadByte()
		if err != nil {
			return nil, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading sub-block length: %w", err))
		}
		if n == 0 {
			return blocks, nil
		}
		b, err := c.ReadBytes(int(n))
		if err != nil {
			return nil, decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading sub-block payload: %w", err))
		}
		blocks = append(blocks, b)
	}
}

func skipSubBlocks(c *bitio.ByteCursor) error {
	for {
		n, err := c.ReadByte()
		if err != nil {
			return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("reading sub-block length: %w", err))
		}
		if n == 0 {
			return nil
		}
		if err := c.Skip(int(n)); err != nil {
			return decodeerr.New(decodeerr.Malformed, c.Pos(), -1, fmt.Errorf("skipping sub-block payload: %w", err))
		}
	}
}
