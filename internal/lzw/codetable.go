// Package lzw implements the GIF variant of LZW decompression: variable-width
// codes from min_code_size+1 up to 12 bits, LSB-first bit packing, and a
// fixed 4096-row code table rebuilt on every clear code.
package lzw

import "github.com/deepteams/gif89/internal/decodeerr"

const (
	// MaxRows is GIF's hard ceiling on code-table size: 12-bit codes.
	MaxRows = 4096
	// maxReconstruction bounds the per-code chain-walk buffer. A chain
	// cannot legally exceed MaxRows links, but 1024 is enough for any
	// well-formed stream and keeps reconstruction off the heap.
	maxReconstruction = 1024

	none = -1
)

// CodeTableRow is one entry in the code table: the byte it contributes and
// the row it extends, or none for a root (self-byte) entry.
type CodeTableRow struct {
	Byte int
	Prev int
}

// CodeTable is the code table plus the bookkeeping GIF's code-size growth
// rule needs (current size, reserved codes, populated-row count).
type CodeTable struct {
	Rows        [MaxRows]CodeTableRow
	Count       int
	CodeSize    int
	MinCodeSize int
	ClearCode   int
	EOICode     int
}

// NewCodeTable builds a table for the given LZW minimum code size and
// performs its initial reset.
func NewCodeTable(minCodeSize int) *CodeTable {
	t := &CodeTable{MinCodeSize: minCodeSize}
	t.Reset()
	return t
}

// Reset reinitializes the table: the root entries, the two reserved codes,
// and the starting code size. Called at construction and on every clear
// code read during decode.
func (t *CodeTable) Reset() {
	n := 1 << uint(t.MinCodeSize)
	for i := 0; i < n; i++ {
		t.Rows[i] = CodeTableRow{Byte: i, Prev: none}
	}
	for i := n; i < MaxRows; i++ {
		t.Rows[i] = CodeTableRow{Byte: none, Prev: none}
	}
	t.ClearCode = n
	t.EOICode = n + 1
	t.Count = n + 2
	t.CodeSize = t.MinCodeSize + 1
}

// canGrow reports whether a new row may still be added: GIF stops growing
// the table once the current code size reaches 12 bits.
func (t *CodeTable) canGrow() bool {
	return t.CodeSize <= 11 && t.Count < MaxRows
}

// addRow appends a new row chained from prev, returning its index. It fails
// if the table has no room left.
func (t *CodeTable) addRow(prev, firstByte int) (int, bool) {
	if t.Count >= MaxRows {
		return 0, false
	}
	idx := t.Count
	t.Rows[idx] = CodeTableRow{Byte: firstByte, Prev: prev}
	t.Count++
	return idx, true
}

// growIfNeeded increments the current code size when the populated-row count
// crosses the 2^(size+1) boundary, per GIF's increment-before-next-read rule.
func (t *CodeTable) growIfNeeded() {
	if t.CodeSize < 12 && t.Count == 1<<uint(t.CodeSize+1) {
		t.CodeSize++
	}
}

// firstByteOf walks prev links to the root of code's chain and returns the
// root's byte - the first byte of code's emitted sequence.
func (t *CodeTable) firstByteOf(code int) (int, error) {
	for {
		if code < 0 || code >= t.Count {
			return 0, decodeerr.New(decodeerr.Malformed, 0, -1, ErrCodeOutOfRange)
		}
		row := t.Rows[code]
		if row.Prev == none {
			return row.Byte, nil
		}
		code = row.Prev
	}
}

// sequenceOf reconstructs code's emitted byte sequence, in forward order,
// into scratch. The chain is walked back-to-front and reversed in place.
func (t *CodeTable) sequenceOf(code int, scratch *[maxReconstruction]byte) ([]byte, error) {
	n := 0
	c := code
	for {
		if c < 0 || c >= t.Count {
			return nil, decodeerr.New(decodeerr.Malformed, 0, -1, ErrCodeOutOfRange)
		}
		if n >= maxReconstruction {
			return nil, decodeerr.New(decodeerr.CapacityExceeded, 0, -1, ErrReconstructionOverflow)
		}
		row := t.Rows[c]
		scratch[n] = byte(row.Byte)
		n++
		if row.Prev == none {
			break
		}
		c = row.Prev
	}
	out := scratch[:n]
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
