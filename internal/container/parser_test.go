package container

import (
	"testing"

	"github.com/deepteams/gif89/internal/lzw"
	"github.com/stretchr/testify/require"
)

// minimalSingleFrame builds a 2x2 GIF with a 4-entry global color table and
// one frame whose LZW stream (minimum code size 2) encodes indices
// [0,1,2,3] literally: clear, 0, 1, 2, 3, EOI packed LSB-first into 3 bytes.
func minimalSingleFrame() []byte {
	var b []byte
	b = append(b, "GIF89a"...)
	b = append(b, 0x02, 0x00) // width
	b = append(b, 0x02, 0x00) // height
	b = append(b, 0x81)       // global color table flag, size exp 1 (4 entries)
	b = append(b, 0x00)       // background index
	b = append(b, 0x00)       // pixel aspect
	b = append(b,
		0xFF, 0x00, 0x00,
		0x00, 0xFF, 0x00,
		0x00, 0x00, 0xFF,
		0xFF, 0xFF, 0xFF,
	)
	b = append(b, blockImageDescriptor)
	b = append(b, 0x00, 0x00) // x
	b = append(b, 0x00, 0x00) // y
	b = append(b, 0x02, 0x00) // w
	b = append(b, 0x02, 0x00) // h
	b = append(b, 0x00)       // no local color table, no interlace/sort
	b = append(b, 0x02)       // min code size
	b = append(b, 0x03, 0x44, 0xB4, 0x02, 0x00)
	b = append(b, blockTrailer)
	return b
}

func TestParseSingleFrame(t *testing.T) {
	img, err := Parse(minimalSingleFrame())
	require.NoError(t, err)

	require.Equal(t, 2, img.Screen.Width)
	require.Equal(t, 2, img.Screen.Height)
	require.True(t, img.Screen.HasGlobalColorTable)
	require.Len(t, img.GlobalColorTable, 4)
	require.Equal(t, ColorTableEntry{R: 255, G: 0, B: 0}, img.GlobalColorTable[0])
	require.Equal(t, ColorTableEntry{R: 255, G: 255, B: 255}, img.GlobalColorTable[3])

	require.Len(t, img.Frames, 1)
	frame := img.Frames[0]
	require.Equal(t, 0, frame.X)
	require.Equal(t, 0, frame.Y)
	require.Equal(t, 2, frame.W)
	require.Equal(t, 2, frame.H)
	require.Equal(t, 2, frame.MinCodeSize)
	require.False(t, frame.HasLocalColorTable)
	require.Equal(t, DisposalNone, frame.Control.Disposal)
	require.Len(t, frame.SubBlocks, 1)

	table := lzw.NewCodeTable(frame.MinCodeSize)
	state := lzw.NewState()
	var out []uint16
	var done bool
	for _, sb := range frame.SubBlocks {
		out, done, err = lzw.Decode(sb, table, state, 0, out)
		require.NoError(t, err)
		if done {
			break
		}
	}
	require.True(t, done)
	require.Equal(t, []uint16{0, 1, 2, 3}, out)
}

func TestParseRejectsInterlace(t *testing.T) {
	data := minimalSingleFrame()
	// The image descriptor packed byte sits right before min-code-size and
	// the sub-block chain; flip the interlace bit on it.
	idx := len(data) - 1 - len(frameTail())
	data[idx] |= imgInterlaceFlag

	_, err := Parse(data)
	require.ErrorIs(t, err, ErrInterlaceUnsupported)
}

// frameTail returns the bytes following the image descriptor's packed byte
// in minimalSingleFrame, so tests can locate that byte by length.
func frameTail() []byte {
	return []byte{0x02, 0x03, 0x44, 0xB4, 0x02, 0x00, blockTrailer}
}

func TestParseRejectsMinCodeSizeBelowTwo(t *testing.T) {
	data := minimalSingleFrame()
	// min-code-size is the byte right before the 5-byte LZW payload in
	// frameTail.
	idx := len(data) - 1 - len(frameTail()) + 1
	data[idx] = 1

	_, err := Parse(data)
	require.ErrorIs(t, err, ErrCodeSizeOutOfRange)
}

func TestParseRejectsUnknownBlockLabel(t *testing.T) {
	data := minimalSingleFrame()
	data[len(data)-1] = 0x99 // corrupt the trailer
	_, err := Parse(data)
	require.ErrorIs(t, err, ErrUnknownBlockLabel)
}

func TestParseGraphicsControlAssociatesWithNextFrame(t *testing.T) {
	header := minimalSingleFrame()
	// Splice a graphics-control extension in right before the image
	// descriptor: block size 4, packed (disposal=2, transparent flag=0),
	// delay=10, transparent index=0, terminator 0.
	gce := []byte{blockExtension, extGraphicControl, 0x04, 0x08, 0x0A, 0x00, 0x00, 0x00}
	splitAt := 6 + 2 + 2 + 1 + 1 + 1 + 12 // header+dims+packed+bg+aspect+global table
	spliced := append([]byte{}, header[:splitAt]...)
	spliced = append(spliced, gce...)
	spliced = append(spliced, header[splitAt:]...)

	img, err := Parse(spliced)
	require.NoError(t, err)
	require.Len(t, img.Frames, 1)
	require.Equal(t, DisposalClearToBackground, img.Frames[0].Control.Disposal)
	require.Equal(t, uint16(10), img.Frames[0].Control.DelayCentiseconds)
	require.Equal(t, 10, img.TotalRuntimeCentiseconds)
}
