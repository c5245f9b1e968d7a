package compositor

import (
	"testing"

	"github.com/deepteams/gif89/internal/container"
	"github.com/stretchr/testify/require"
)

func TestCompositeWritesFullCanvas(t *testing.T) {
	table := container.ColorTable{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 255, G: 255, B: 255},
	}
	frame := container.Frame{X: 0, Y: 0, W: 2, H: 2}
	canvas := make([]byte, 2*2*4)

	err := Composite(canvas, 2, frame, []uint16{0, 1, 2, 3}, table)
	require.NoError(t, err)

	want := []byte{
		255, 0, 0, 255,
		0, 255, 0, 255,
		0, 0, 255, 255,
		255, 255, 255, 255,
	}
	require.Equal(t, want, canvas)
}

func TestCompositeRejectsLengthMismatch(t *testing.T) {
	table := container.ColorTable{{R: 1, G: 2, B: 3}}
	frame := container.Frame{X: 0, Y: 0, W: 2, H: 2}
	canvas := make([]byte, 2*2*4)
	err := Composite(canvas, 2, frame, []uint16{0}, table)
	require.ErrorIs(t, err, ErrIndexStreamLength)
}

func TestTransparentIndexLeavesCanvasUnchanged(t *testing.T) {
	table := container.ColorTable{{R: 10, G: 20, B: 30}, {R: 40, G: 50, B: 60}}

	canvas := make([]byte, 1*1*4)
	frame0 := container.Frame{X: 0, Y: 0, W: 1, H: 1}
	require.NoError(t, Composite(canvas, 1, frame0, []uint16{0}, table))
	frame0RGBA := append([]byte(nil), canvas...)

	frame1 := container.Frame{
		X: 0, Y: 0, W: 1, H: 1,
		Control: container.GraphicsControl{TransparentColorValid: true, TransparentColorIndex: 1},
	}
	require.NoError(t, Composite(canvas, 1, frame1, []uint16{1}, table))

	require.Equal(t, frame0RGBA, canvas)
}

func TestClearToBackgroundDisposal(t *testing.T) {
	table := container.ColorTable{{R: 1, G: 2, B: 3}}
	background := container.ColorTableEntry{R: 9, G: 9, B: 9}

	canvas := make([]byte, 2*2*4)
	frame := container.Frame{X: 0, Y: 0, W: 1, H: 1}
	require.NoError(t, Composite(canvas, 2, frame, []uint16{0}, table))

	ApplyDisposal(canvas, 2, 2, container.DisposalClearToBackground, background)

	for i := 0; i < 4; i++ {
		p := i * 4
		require.Equal(t, background.R, canvas[p+0])
		require.Equal(t, background.G, canvas[p+1])
		require.Equal(t, background.B, canvas[p+2])
		require.Equal(t, byte(255), canvas[p+3])
	}
}

func TestNoneDisposalLeavesCanvas(t *testing.T) {
	table := container.ColorTable{{R: 5, G: 6, B: 7}}
	canvas := make([]byte, 1*1*4)
	frame := container.Frame{X: 0, Y: 0, W: 1, H: 1}
	require.NoError(t, Composite(canvas, 1, frame, []uint16{0}, table))
	before := append([]byte(nil), canvas...)

	ApplyDisposal(canvas, 1, 1, container.DisposalNone, container.ColorTableEntry{})
	require.Equal(t, before, canvas)
}

func TestActiveColorTablePrefersLocal(t *testing.T) {
	img := &container.Image{GlobalColorTable: container.ColorTable{{R: 1, G: 1, B: 1}}}
	local := container.ColorTable{{R: 2, G: 2, B: 2}}
	frame := container.Frame{HasLocalColorTable: true, LocalColorTable: local}
	require.Equal(t, local, ActiveColorTable(img, frame))

	frame2 := container.Frame{}
	require.Equal(t, img.GlobalColorTable, ActiveColorTable(img, frame2))
}
