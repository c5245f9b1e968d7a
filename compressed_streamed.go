package gif89

import (
	"fmt"

	"github.com/deepteams/gif89/internal/container"
	"github.com/deepteams/gif89/internal/decodeerr"
	"github.com/deepteams/gif89/internal/lzw"
)

// CompressedStreamedImage retains only each frame's raw, concatenated LZW
// bytes; both the index stream and the RGBA are materialized on demand.
// This is the leanest-memory mode and the most CPU per frame access.
type CompressedStreamedImage struct {
	img      *container.Image
	payloads [][]byte

	firstFrameRGBA []byte
	currentRGBA    []byte
	cursor         playbackCursor
}

// NewCompressedStreamed scans each frame's sub-block chain to its total
// size, concatenates the sub-blocks into one contiguous buffer per frame
// (dropping only the length-prefix framing), and decodes the first frame
// once.
func NewCompressedStreamed(data []byte) (*CompressedStreamedImage, error) {
	img, err := parseAndValidate(data)
	if err != nil {
		return nil, err
	}
	if err := validateFrameCount(img); err != nil {
		return nil, err
	}

	payloads := make([][]byte, len(img.Frames))
	for i, frame := range img.Frames {
		total := 0
		for _, sb := range frame.SubBlocks {
			total += len(sb)
		}
		buf := make([]byte, 0, total)
		for _, sb := range frame.SubBlocks {
			buf = append(buf, sb...)
		}
		payloads[i] = buf
	}

	im := &CompressedStreamedImage{
		img:      img,
		payloads: payloads,
		cursor: playbackCursor{
			delays:            delays(img),
			totalCentiseconds: img.TotalRuntimeCentiseconds,
		},
	}

	first, err := composeUpTo(img, 0, im.indexAt)
	if err != nil {
		return nil, err
	}
	im.firstFrameRGBA = first
	im.currentRGBA = append([]byte(nil), first...)
	return im, nil
}

// indexAt re-runs the LZW decoder over frame i's retained concatenated
// bytes in a single call - no sub-block resumption is needed here since the
// sub-block framing was already flattened away at construction.
func (im *CompressedStreamedImage) indexAt(i int) ([]uint16, error) {
	frame := im.img.Frames[i]
	table := lzw.NewCodeTable(frame.MinCodeSize)
	state := lzw.NewState()
	out, done, err := lzw.Decode(im.payloads[i], table, state, i, nil)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, decodeerr.New(decodeerr.Malformed, 0, i, fmt.Errorf("lzw stream ended without an end-of-information code"))
	}
	if len(out) != frame.W*frame.H {
		return nil, decodeerr.New(decodeerr.Malformed, 0, i, fmt.Errorf("index stream length %d does not match %dx%d sub-rectangle", len(out), frame.W, frame.H))
	}
	return out, nil
}

func (im *CompressedStreamedImage) CanvasWidth() int  { return im.img.Screen.Width }
func (im *CompressedStreamedImage) CanvasHeight() int { return im.img.Screen.Height }
func (im *CompressedStreamedImage) FrameCount() int   { return len(im.img.Frames) }

func (im *CompressedStreamedImage) TotalDuration() float64 {
	return float64(im.img.TotalRuntimeCentiseconds) / 100.0
}

// FirstFrame returns the RGBA buffer captured for frame 0 at construction.
func (im *CompressedStreamedImage) FirstFrame() []byte { return im.firstFrameRGBA }

// CurrentFrame returns the RGBA buffer for whichever frame Advance last
// selected (frame 0 if Advance has never been called).
func (im *CompressedStreamedImage) CurrentFrame() []byte { return im.currentRGBA }

// Advance folds deltaSeconds into accumulated playback time and, if the
// selected frame changed, re-decodes and recomposites from the retained
// raw bytes. It returns whether the current frame changed. The frame is
// selected from the accumulated time modulo the total duration, so one call
// with a large delta can skip several intermediate frames.
func (im *CompressedStreamedImage) Advance(deltaSeconds float64) (bool, error) {
	i, changed := im.cursor.advanceIndex(deltaSeconds)
	if !changed {
		return false, nil
	}
	if i == 0 {
		copy(im.currentRGBA, im.firstFrameRGBA)
		return true, nil
	}
	rgba, err := composeUpTo(im.img, i, im.indexAt)
	if err != nil {
		return false, err
	}
	im.currentRGBA = rgba
	return true, nil
}

// Cursor is an independent playback position over a shared
// CompressedStreamedImage, per the multi-iterator playback variant: many
// cursors can advance at their own pace against one decoded image's
// immutable per-frame payloads.
type Cursor struct {
	img     *CompressedStreamedImage
	current []byte
	cursor  playbackCursor
}

// NewCursor returns a Cursor seeded at frame 0 of img.
func NewCursor(img *CompressedStreamedImage) *Cursor {
	return &Cursor{
		img:     img,
		current: append([]byte(nil), img.firstFrameRGBA...),
		cursor: playbackCursor{
			delays:            img.cursor.delays,
			totalCentiseconds: img.cursor.totalCentiseconds,
		},
	}
}

// CurrentFrame returns this cursor's own current RGBA buffer.
func (c *Cursor) CurrentFrame() []byte { return c.current }

// Advance is Cursor's own independent playback step over the shared image.
func (c *Cursor) Advance(deltaSeconds float64) (bool, error) {
	i, changed := c.cursor.advanceIndex(deltaSeconds)
	if !changed {
		return false, nil
	}
	if i == 0 {
		copy(c.current, c.img.firstFrameRGBA)
		return true, nil
	}
	rgba, err := composeUpTo(c.img.img, i, c.img.indexAt)
	if err != nil {
		return false, err
	}
	c.current = rgba
	return true, nil
}
