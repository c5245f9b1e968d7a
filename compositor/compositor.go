// Package compositor applies a frame's decoded color-index stream onto a
// shared RGBA canvas, honoring the GIF disposal model: each frame is an
// overlay at a sub-rectangle, and the canvas between frames is mutated (or
// left alone) according to the *prior* frame's disposal method.
package compositor

import (
	"errors"

	"github.com/deepteams/gif89/internal/container"
)

var ErrIndexStreamLength = errors.New("compositor: index stream length does not match sub-rectangle area")

var ErrIndexOutOfTable = errors.New("compositor: color index outside the active color table")

// ActiveColorTable returns a frame's active color table: its local table if
// present, else the image's global table.
func ActiveColorTable(img *container.Image, frame container.Frame) container.ColorTable {
	if frame.HasLocalColorTable {
		return frame.LocalColorTable
	}
	return img.GlobalColorTable
}

// Composite writes indices (length w*h) into canvas at the frame's
// sub-rectangle. canvas is a row-major RGBA buffer sized canvasW*canvasH*4.
// Pixels whose index equals the transparent-color index are left untouched,
// inheriting whatever the canvas already held. Any other index that lies
// outside table yields ErrIndexOutOfTable.
func Composite(canvas []byte, canvasW int, frame container.Frame, indices []uint16, table container.ColorTable) error {
	if len(indices) != frame.W*frame.H {
		return ErrIndexStreamLength
	}
	hasTransparent := frame.Control.TransparentColorValid
	transparentIdx := uint16(frame.Control.TransparentColorIndex)

	for row := 0; row < frame.H; row++ {
		canvasRow := frame.Y + row
		rowOffset := canvasRow*canvasW*4 + frame.X*4
		srcOffset := row * frame.W
		for col := 0; col < frame.W; col++ {
			idx := indices[srcOffset+col]
			if hasTransparent && idx == transparentIdx {
				continue
			}
			if int(idx) >= len(table) {
				return ErrIndexOutOfTable
			}
			entry := table[idx]
			p := rowOffset + col*4
			canvas[p+0] = entry.R
			canvas[p+1] = entry.G
			canvas[p+2] = entry.B
			canvas[p+3] = 255
		}
	}
	return nil
}

// ApplyDisposal mutates canvas per disposal, the method declared by the
// frame that was just displayed - applied before the next frame composites.
// RESTORE_TO_PREVIOUS never reaches here; the container parser rejects it.
func ApplyDisposal(canvas []byte, canvasW, canvasH int, disposal int, background container.ColorTableEntry) {
	switch disposal {
	case container.DisposalNone, container.DisposalKeep:
		return
	case container.DisposalClearToBackground:
		FillBackground(canvas, canvasW, canvasH, background)
	}
}

// FillBackground overwrites the entire canvas with background at alpha 255.
func FillBackground(canvas []byte, canvasW, canvasH int, background container.ColorTableEntry) {
	for i := 0; i < canvasW*canvasH; i++ {
		p := i * 4
		canvas[p+0] = background.R
		canvas[p+1] = background.G
		canvas[p+2] = background.B
		canvas[p+3] = 255
	}
}
