package gif89

// playbackCursor is the shared (current_frame_index, accumulated_time)
// state machine the two streaming modes advance identically; only how a
// target frame's RGBA gets rebuilt differs between them.
type playbackCursor struct {
	delays             []uint16
	totalCentiseconds  int
	currentFrame       int
	accumulatedSeconds float64
}

// advanceIndex folds deltaSeconds into the accumulated time and selects the
// frame that time now falls within. A non-positive delta is a no-op.
func (p *playbackCursor) advanceIndex(deltaSeconds float64) (index int, changed bool) {
	if deltaSeconds <= 0 {
		return p.currentFrame, false
	}
	p.accumulatedSeconds += deltaSeconds
	t := clampTime(int(p.accumulatedSeconds*100), p.totalCentiseconds, true)
	i := selectFrameIndex(p.delays, t)
	changed = i != p.currentFrame
	p.currentFrame = i
	return i, changed
}
