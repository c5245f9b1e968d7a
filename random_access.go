package gif89

import (
	"github.com/deepteams/gif89/compositor"
	"github.com/deepteams/gif89/internal/container"
	"github.com/deepteams/gif89/internal/decodeerr"
)

// RandomAccessImage retains every frame fully decoded to RGBA. Frame
// retrieval is O(1); construction pays the full decode and composite cost
// up front.
type RandomAccessImage struct {
	width, height            int
	frames                   []randomAccessFrame
	delays                   []uint16
	disposals                []int
	totalRuntimeCentiseconds int
}

type randomAccessFrame struct {
	rgba []byte
}

// NewRandomAccess decodes every frame's index stream (in parallel, see
// decodeAllIndices) and then composites them in frame order, applying each
// frame's disposal before the next composite, retaining a copy of the
// canvas after every frame.
func NewRandomAccess(data []byte) (*RandomAccessImage, error) {
	img, err := parseAndValidate(data)
	if err != nil {
		return nil, err
	}
	if err := validateFrameCount(img); err != nil {
		return nil, err
	}

	indices, err := decodeAllIndices(img.Frames)
	if err != nil {
		return nil, err
	}

	cv := newCanvas(img.Screen.Width, img.Screen.Height)
	defer cv.release()
	bg := backgroundEntry(img)
	frames := make([]randomAccessFrame, len(img.Frames))
	disposals := make([]int, len(img.Frames))
	prevDisposal := container.DisposalNone

	for i, frame := range img.Frames {
		compositor.ApplyDisposal(cv.pixels, cv.width, cv.height, prevDisposal, bg)
		if err := compositeFrame(cv, img, frame, indices[i]); err != nil {
			return nil, decodeerr.New(decodeerr.Malformed, 0, i, err)
		}
		frames[i] = randomAccessFrame{rgba: cv.copyOut()}
		disposals[i] = frame.Control.Disposal
		prevDisposal = frame.Control.Disposal
		returnIndexStream(indices[i])
	}

	return &RandomAccessImage{
		width:                    img.Screen.Width,
		height:                   img.Screen.Height,
		frames:                   frames,
		delays:                   delays(img),
		disposals:                disposals,
		totalRuntimeCentiseconds: img.TotalRuntimeCentiseconds,
	}, nil
}

func (im *RandomAccessImage) CanvasWidth() int  { return im.width }
func (im *RandomAccessImage) CanvasHeight() int { return im.height }
func (im *RandomAccessImage) FrameCount() int   { return len(im.frames) }

// TotalDuration returns the sum of per-frame delay times in fractional
// seconds.
func (im *RandomAccessImage) TotalDuration() float64 {
	return float64(im.totalRuntimeCentiseconds) / 100.0
}

// Frame returns the retained RGBA buffer for the given frame index, or nil
// if index is out of range.
func (im *RandomAccessImage) Frame(index int) []byte {
	if index < 0 || index >= len(im.frames) {
		return nil
	}
	return im.frames[index].rgba
}

// Delay returns frame index's display time in fractional seconds, or 0 if
// index is out of range.
func (im *RandomAccessImage) Delay(index int) float64 {
	if index < 0 || index >= len(im.delays) {
		return 0
	}
	return float64(im.delays[index]) / 100.0
}

// Disposal returns frame index's declared disposal method, or DisposalNone
// if index is out of range.
func (im *RandomAccessImage) Disposal(index int) int {
	if index < 0 || index >= len(im.disposals) {
		return container.DisposalNone
	}
	return im.disposals[index]
}

// FrameAtTime returns the RGBA buffer for whichever frame is displayed at
// seconds. When looping is false, seconds beyond the total duration clamp
// to the last frame.
func (im *RandomAccessImage) FrameAtTime(seconds float64, looping bool) []byte {
	if len(im.frames) == 0 {
		return nil
	}
	t := clampTime(int(seconds*100), im.totalRuntimeCentiseconds, looping)
	return im.frames[selectFrameIndex(im.delays, t)].rgba
}
