package gif89

import (
	"fmt"

	"github.com/deepteams/gif89/compositor"
	"github.com/deepteams/gif89/internal/container"
	"github.com/deepteams/gif89/internal/decodeerr"
	"github.com/deepteams/gif89/internal/lzw"
	"github.com/deepteams/gif89/internal/pool"
)

// ErrorKind classifies a DecodeError. See decodeerr.Kind for the values.
type ErrorKind = decodeerr.Kind

const (
	ErrMalformed        = decodeerr.Malformed
	ErrUnsupported      = decodeerr.Unsupported
	ErrCapacityExceeded = decodeerr.CapacityExceeded
)

// DecodeError is returned by every constructor on failure, identifying the
// failure kind and an offset or frame index.
type DecodeError = decodeerr.Error

// Disposal methods, re-exported for callers that want to inspect a frame's
// declared disposal without importing the internal container package.
const (
	DisposalNone              = container.DisposalNone
	DisposalKeep              = container.DisposalKeep
	DisposalClearToBackground = container.DisposalClearToBackground
)

// canvas holds the shared RGBA buffer state threaded across a sequence of
// frames, plus the bookkeeping needed for disposal-aware compositing.
type canvas struct {
	pixels []byte
	width  int
	height int
}

// newCanvas borrows its pixel buffer from the pool rather than allocating:
// a canvas is scratch space for exactly one construction or one Advance
// call, after which its contents are copied out and the buffer is released.
func newCanvas(w, h int) *canvas {
	pixels := pool.Get(w * h * 4)
	clear(pixels)
	return &canvas{pixels: pixels, width: w, height: h}
}

func (c *canvas) copyOut() []byte {
	out := make([]byte, len(c.pixels))
	copy(out, c.pixels)
	return out
}

// release returns the canvas's pixel buffer to the pool. Callers must not
// touch the canvas again afterward.
func (c *canvas) release() {
	pool.Put(c.pixels)
	c.pixels = nil
}

// decodeFrameIndices runs the LZW decoder over a frame's sub-blocks, one
// sub-block at a time, exercising genuine cross-sub-block resumption rather
// than concatenating first.
func decodeFrameIndices(frame container.Frame, frameIdx int) ([]uint16, error) {
	table := lzw.NewCodeTable(frame.MinCodeSize)
	state := lzw.NewState()
	out := pool.GetIndexStream(frame.W * frame.H)[:0]

	var done bool
	var err error
	for _, sb := range frame.SubBlocks {
		out, done, err = lzw.Decode(sb, table, state, frameIdx, out)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	if !done {
		return nil, decodeerr.New(decodeerr.Malformed, 0, frameIdx, fmt.Errorf("lzw stream ended without an end-of-information code"))
	}
	if len(out) != frame.W*frame.H {
		return nil, decodeerr.New(decodeerr.Malformed, 0, frameIdx, fmt.Errorf("index stream length %d does not match %dx%d sub-rectangle", len(out), frame.W, frame.H))
	}
	return out, nil
}

func backgroundEntry(img *container.Image) container.ColorTableEntry {
	if int(img.Screen.BackgroundColorIndex) < len(img.GlobalColorTable) {
		return img.GlobalColorTable[img.Screen.BackgroundColorIndex]
	}
	return container.ColorTableEntry{}
}

// compositeFrame writes frame's decoded indices onto c.pixels. disposal is
// not applied here; the caller applies the *previous* frame's disposal
// before calling this for the next frame.
func compositeFrame(c *canvas, img *container.Image, frame container.Frame, indices []uint16) error {
	table := compositor.ActiveColorTable(img, frame)
	return compositor.Composite(c.pixels, c.width, frame, indices, table)
}
