package gif89

import "github.com/deepteams/gif89/internal/container"

// IndexStreamedImage retains each frame's decoded color-index stream and
// materializes RGBA on demand, trading construction-time CPU (still fully
// decodes every frame up front) for retained memory (no per-frame RGBA
// copies).
type IndexStreamedImage struct {
	img          *container.Image
	indexStreams [][]uint16

	firstFrameRGBA []byte
	currentRGBA    []byte
	cursor         playbackCursor
}

// NewIndexStreamed decodes every frame's index stream at construction and
// composites only the first frame eagerly.
func NewIndexStreamed(data []byte) (*IndexStreamedImage, error) {
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

	im := &IndexStreamedImage{
		img:          img,
		indexStreams: indices,
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

func (im *IndexStreamedImage) indexAt(i int) ([]uint16, error) {
	return im.indexStreams[i], nil
}

func (im *IndexStreamedImage) CanvasWidth() int  { return im.img.Screen.Width }
func (im *IndexStreamedImage) CanvasHeight() int { return im.img.Screen.Height }
func (im *IndexStreamedImage) FrameCount() int   { return len(im.img.Frames) }

func (im *IndexStreamedImage) TotalDuration() float64 {
	return float64(im.img.TotalRuntimeCentiseconds) / 100.0
}

// FirstFrame returns the RGBA buffer captured for frame 0 at construction.
func (im *IndexStreamedImage) FirstFrame() []byte { return im.firstFrameRGBA }

// CurrentFrame returns the RGBA buffer for whichever frame Advance last
// selected (frame 0 if Advance has never been called).
func (im *IndexStreamedImage) CurrentFrame() []byte { return im.currentRGBA }

// Advance folds deltaSeconds into accumulated playback time and, if the
// selected frame changed, recomposites the canvas from the retained index
// streams. It returns whether the current frame changed; a non-positive
// delta is a no-op returning false. The frame is selected from the
// accumulated time modulo the total duration, so one call with a large
// delta can skip several intermediate frames.
func (im *IndexStreamedImage) Advance(deltaSeconds float64) (bool, error) {
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
