package lzw

import (
	"errors"

	"github.com/deepteams/gif89/internal/bitio"
	"github.com/deepteams/gif89/internal/decodeerr"
)

var (
	ErrCodeOutOfRange         = errors.New("lzw: code exceeds populated row count")
	ErrReconstructionOverflow = errors.New("lzw: reconstructed sequence exceeds reconstruction bound")
	ErrCodeTableFull          = errors.New("lzw: code table has no room for a new row")
)

// State is the decompression state that must survive a sub-block boundary:
// the partial code under assembly and the last emitted code (none right
// after construction or a clear code).
type State struct {
	Partial  bitio.PartialCode
	LastCode int
}

// NewState returns a State with no last-emitted code.
func NewState() *State {
	return &State{LastCode: none}
}

// Decode reads LZW codes from data (one GIF sub-block's bytes, or any
// contiguous region - the caller decides how much to hand over at once) and
// appends decoded color indices to out. table and state are threaded across
// calls so a code split at a region boundary resumes correctly; a region
// ending mid-code is not an error, it is reported via done=false so the
// caller can supply the next region.
//
// done is true once the end-of-information code is read. frameIndex is used
// only to annotate returned errors.
func Decode(data []byte, table *CodeTable, state *State, frameIndex int, out []uint16) (result []uint16, done bool, err error) {
	br := bitio.NewBitReader(data)
	var scratch [maxReconstruction]byte

	for {
		code, ok := br.ReadCode(table.CodeSize, &state.Partial)
		if !ok {
			return out, false, nil
		}

		switch {
		case code == table.ClearCode:
			table.Reset()
			state.LastCode = none
			continue
		case code == table.EOICode:
			return out, true, nil
		case code > table.Count:
			return out, true, decodeerr.New(decodeerr.Malformed, 0, frameIndex, ErrCodeOutOfRange)
		}

		if state.LastCode != none && table.canGrow() {
			var firstByte int
			if code == table.Count {
				firstByte, err = table.firstByteOf(state.LastCode)
			} else {
				firstByte, err = table.firstByteOf(code)
			}
			if err != nil {
				return out, true, err
			}
			if _, added := table.addRow(state.LastCode, firstByte); !added {
				return out, true, decodeerr.New(decodeerr.CapacityExceeded, 0, frameIndex, ErrCodeTableFull)
			}
			table.growIfNeeded()
		}

		seq, serr := table.sequenceOf(code, &scratch)
		if serr != nil {
			return out, true, serr
		}
		for _, b := range seq {
			out = append(out, uint16(b))
		}
		state.LastCode = code
	}
}
