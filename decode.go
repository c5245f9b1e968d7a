package gif89

import (
	"runtime"
	"sync"

	"github.com/deepteams/gif89/compositor"
	"github.com/deepteams/gif89/internal/container"
	"github.com/deepteams/gif89/internal/decodeerr"
	"github.com/deepteams/gif89/internal/pool"
)

// parseAndValidate runs the container parser and rejects any input the
// facade constructors all agree is fatal, regardless of mode.
func parseAndValidate(data []byte) (*container.Image, error) {
	img, err := container.Parse(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// decodeAllIndices decodes every frame's color-index stream. For more than
// two frames it fans out across a bounded worker pool, since LZW-decoding
// one frame has no dependency on any other; for two frames or fewer the
// overhead of goroutines is not worth paying.
func decodeAllIndices(frames []container.Frame) ([][]uint16, error) {
	out := make([][]uint16, len(frames))
	if len(frames) <= 2 {
		for i, f := range frames {
			idx, err := decodeFrameIndices(f, i)
			if err != nil {
				return nil, err
			}
			out[i] = idx
		}
		return out, nil
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	errs := make([]error, len(frames))

	for i := range frames {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			idx, err := decodeFrameIndices(frames[i], i)
			if err != nil {
				errs[i] = err
				return
			}
			out[i] = idx
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// composeUpTo rebuilds the canvas by replaying frames [0, targetIndex] in
// order, applying each frame's disposal before the next composite. This is
// the only way to guarantee the cross-mode equivalence property when a
// streaming advance jumps over several intermediate frames: the canvas
// state a frame composites onto depends on every disposal that preceded it,
// not just the immediately prior one.
func composeUpTo(img *container.Image, targetIndex int, indicesFor func(i int) ([]uint16, error)) ([]byte, error) {
	cv := newCanvas(img.Screen.Width, img.Screen.Height)
	defer cv.release()
	bg := backgroundEntry(img)
	prevDisposal := container.DisposalNone

	for i := 0; i <= targetIndex; i++ {
		compositor.ApplyDisposal(cv.pixels, cv.width, cv.height, prevDisposal, bg)
		indices, err := indicesFor(i)
		if err != nil {
			return nil, err
		}
		if err := compositeFrame(cv, img, img.Frames[i], indices); err != nil {
			return nil, decodeerr.New(decodeerr.Malformed, 0, i, err)
		}
		prevDisposal = img.Frames[i].Control.Disposal
	}
	return cv.copyOut(), nil
}

// delays extracts each frame's delay time, in parse order.
func delays(img *container.Image) []uint16 {
	d := make([]uint16, len(img.Frames))
	for i, f := range img.Frames {
		d[i] = f.Control.DelayCentiseconds
	}
	return d
}

// selectFrameIndex walks delay times summing until the running total first
// strictly exceeds tCentiseconds, per the facade's time-lookup rule.
func selectFrameIndex(d []uint16, tCentiseconds int) int {
	running := 0
	for i, v := range d {
		running += int(v)
		if running > tCentiseconds {
			return i
		}
	}
	if len(d) == 0 {
		return 0
	}
	return len(d) - 1
}

// clampTime folds an absolute or accumulated centisecond time into
// [0, total) when looping, or clamps it to the last valid instant when not.
func clampTime(tCentiseconds, totalCentiseconds int, looping bool) int {
	if totalCentiseconds <= 0 {
		return 0
	}
	if looping {
		t := tCentiseconds % totalCentiseconds
		if t < 0 {
			t += totalCentiseconds
		}
		return t
	}
	if tCentiseconds < 0 {
		return 0
	}
	if tCentiseconds >= totalCentiseconds {
		return totalCentiseconds - 1
	}
	return tCentiseconds
}

func validateFrameCount(img *container.Image) error {
	if len(img.Frames) > container.MaxFrames {
		return decodeerr.New(decodeerr.CapacityExceeded, 0, len(img.Frames), container.ErrTooManyFrames)
	}
	return nil
}

// returnIndexStream releases a scratch index stream obtained from the pool.
func returnIndexStream(s []uint16) {
	pool.PutIndexStream(s)
}
