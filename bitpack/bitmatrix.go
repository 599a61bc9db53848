package bitpack

import (
	"fmt"
	"image"
	"math/bits"
	"strings"
)

// BitMatrix is a packed 2D grid of bits with the origin at the top left.
// x addresses the column and y the row. Each row starts on a fresh uint32
// word so rows can be copied and xored word at a time.
type BitMatrix struct {
	width   int
	height  int
	rowSize int
	words   []uint32
}

// NewBitMatrix creates a BitMatrix of the given size with all bits unset.
// It panics unless both dimensions are at least 1.
func NewBitMatrix(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitpack: matrix dimensions must be at least 1")
	}
	rowSize := wordCount(width)
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		words:   make([]uint32, rowSize*height),
	}
}

// NewSquareBitMatrix creates a dimension x dimension BitMatrix.
func NewSquareBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrix(dimension, dimension)
}

// ParseBools creates a BitMatrix from rows of booleans. It panics if rows is
// empty or ragged.
func ParseBools(rows [][]bool) *BitMatrix {
	if len(rows) == 0 || len(rows[0]) == 0 {
		panic("bitpack: matrix dimensions must be at least 1")
	}
	m := NewBitMatrix(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != m.width {
			panic("bitpack: ragged rows")
		}
		for x, bit := range row {
			if bit {
				m.Set(x, y)
			}
		}
	}
	return m
}

// ParseError reports why matrix text could not be parsed.
type ParseError struct {
	Pos int // byte offset into the input
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bitpack: parse matrix at offset %d: %s", e.Pos, e.Msg)
}

// ParseText creates a BitMatrix from its textual form: rows separated by
// newlines, each cell spelled as the set or unset token. The tokens must be
// non-empty and the rows must all have the same length.
func ParseText(text, set, unset string) (*BitMatrix, error) {
	if set == "" || unset == "" {
		return nil, &ParseError{Msg: "empty cell token"}
	}
	cells := make([]bool, len(text))
	n := 0
	rowStart := 0
	rowLength := -1
	rowCount := 0
	pos := 0
	for pos < len(text) {
		switch {
		case text[pos] == '\n' || text[pos] == '\r':
			if n > rowStart {
				if rowLength == -1 {
					rowLength = n - rowStart
				} else if n-rowStart != rowLength {
					return nil, &ParseError{Pos: pos, Msg: fmt.Sprintf("row of %d cells, want %d", n-rowStart, rowLength)}
				}
				rowStart = n
				rowCount++
			}
			pos++
		case strings.HasPrefix(text[pos:], set):
			pos += len(set)
			cells[n] = true
			n++
		case strings.HasPrefix(text[pos:], unset):
			pos += len(unset)
			n++
		default:
			return nil, &ParseError{Pos: pos, Msg: "unrecognized cell token"}
		}
	}
	// input may lack a trailing newline
	if n > rowStart {
		if rowLength == -1 {
			rowLength = n - rowStart
		} else if n-rowStart != rowLength {
			return nil, &ParseError{Pos: len(text), Msg: fmt.Sprintf("row of %d cells, want %d", n-rowStart, rowLength)}
		}
		rowCount++
	}
	if rowCount == 0 {
		return nil, &ParseError{Pos: len(text), Msg: "no rows"}
	}
	m := NewBitMatrix(rowLength, rowCount)
	for i := 0; i < n; i++ {
		if cells[i] {
			m.Set(i%rowLength, i/rowLength)
		}
	}
	return m, nil
}

// Get reports whether the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	offset := y*m.rowSize + x/32
	return m.words[offset]>>uint(x&0x1f)&1 != 0
}

// Set sets the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	offset := y*m.rowSize + x/32
	m.words[offset] |= 1 << uint(x&0x1f)
}

// Unset clears the bit at (x, y).
func (m *BitMatrix) Unset(x, y int) {
	offset := y*m.rowSize + x/32
	m.words[offset] &^= 1 << uint(x&0x1f)
}

// Flip inverts the bit at (x, y).
func (m *BitMatrix) Flip(x, y int) {
	offset := y*m.rowSize + x/32
	m.words[offset] ^= 1 << uint(x&0x1f)
}

// FlipAll inverts every bit in the matrix.
func (m *BitMatrix) FlipAll() {
	for i := range m.words {
		m.words[i] = ^m.words[i]
	}
}

// Xor flips the bits of m wherever mask has a set bit. It panics unless both
// matrices share the same width, height, and row size.
func (m *BitMatrix) Xor(mask *BitMatrix) {
	if m.width != mask.width || m.height != mask.height || m.rowSize != mask.rowSize {
		panic("bitpack: matrix dimensions do not match")
	}
	row := NewBitArray(m.width)
	for y := 0; y < m.height; y++ {
		offset := y * m.rowSize
		maskRow := mask.Row(y, row).Words()
		for w := 0; w < m.rowSize; w++ {
			m.words[offset+w] ^= maskRow[w]
		}
	}
}

// Clear unsets every bit.
func (m *BitMatrix) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// SetRegion sets every bit in the rectangle of the given size whose top-left
// corner is (left, top). It panics if the region is degenerate or does not
// fit inside the matrix.
func (m *BitMatrix) SetRegion(left, top, width, height int) {
	if left < 0 || top < 0 {
		panic("bitpack: region origin must be nonnegative")
	}
	if width < 1 || height < 1 {
		panic("bitpack: region dimensions must be at least 1")
	}
	right := left + width
	bottom := top + height
	if right > m.width || bottom > m.height {
		panic("bitpack: region exceeds matrix bounds")
	}
	for y := top; y < bottom; y++ {
		offset := y * m.rowSize
		for x := left; x < right; x++ {
			m.words[offset+x/32] |= 1 << uint(x&0x1f)
		}
	}
}

// Row copies row y into the given BitArray and returns it. The argument is
// reused only when it is large enough; otherwise a fresh array is returned,
// so callers must use the return value.
func (m *BitMatrix) Row(y int, row *BitArray) *BitArray {
	if row == nil || row.Size() < m.width {
		row = NewBitArray(m.width)
	} else {
		row.Clear()
	}
	offset := y * m.rowSize
	for w := 0; w < m.rowSize; w++ {
		row.SetBulk(w*32, m.words[offset+w])
	}
	return row
}

// SetRow replaces row y with the leading width bits of row.
func (m *BitMatrix) SetRow(y int, row *BitArray) {
	copy(m.words[y*m.rowSize:], row.Words()[:m.rowSize])
}

// Rotate rotates the matrix counterclockwise by the given angle, which must
// be a multiple of 90 degrees.
func (m *BitMatrix) Rotate(degrees int) {
	normalized := degrees % 360
	if normalized < 0 {
		normalized += 360
	}
	switch normalized {
	case 0:
		return
	case 90:
		m.Rotate90()
	case 180:
		m.Rotate180()
	case 270:
		m.Rotate90()
		m.Rotate180()
	default:
		panic("bitpack: rotation must be a multiple of 90 degrees")
	}
}

// Rotate180 rotates the matrix 180 degrees in place.
func (m *BitMatrix) Rotate180() {
	top := NewBitArray(m.width)
	bottom := NewBitArray(m.width)
	half := (m.height + 1) / 2
	for y := 0; y < half; y++ {
		top = m.Row(y, top)
		mirrored := m.height - 1 - y
		bottom = m.Row(mirrored, bottom)
		top.Reverse()
		bottom.Reverse()
		m.SetRow(y, bottom)
		m.SetRow(mirrored, top)
	}
}

// Rotate90 rotates the matrix 90 degrees counterclockwise, swapping its
// dimensions.
func (m *BitMatrix) Rotate90() {
	width := m.height
	height := m.width
	rowSize := wordCount(width)
	words := make([]uint32, rowSize*height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.words[y*m.rowSize+x/32]>>uint(x&0x1f)&1 != 0 {
				offset := (height-1-x)*rowSize + y/32
				words[offset] |= 1 << uint(y&0x1f)
			}
		}
	}
	m.width = width
	m.height = height
	m.rowSize = rowSize
	m.words = words
}

// EnclosingRectangle returns the smallest rectangle containing every set
// bit. ok is false when no bit is set.
func (m *BitMatrix) EnclosingRectangle() (r image.Rectangle, ok bool) {
	left := m.width
	top := m.height
	right := -1
	bottom := -1
	for y := 0; y < m.height; y++ {
		for w := 0; w < m.rowSize; w++ {
			word := m.words[y*m.rowSize+w]
			if word == 0 {
				continue
			}
			if y < top {
				top = y
			}
			if y > bottom {
				bottom = y
			}
			if lo := w*32 + bits.TrailingZeros32(word); lo < left {
				left = lo
			}
			if hi := w*32 + 31 - bits.LeadingZeros32(word); hi > right {
				right = hi
			}
		}
	}
	if right < left || bottom < top {
		return image.Rectangle{}, false
	}
	return image.Rect(left, top, right+1, bottom+1), true
}

// TopLeftOnBit returns the first set bit in row-major order. ok is false
// when no bit is set.
func (m *BitMatrix) TopLeftOnBit() (p image.Point, ok bool) {
	w := 0
	for w < len(m.words) && m.words[w] == 0 {
		w++
	}
	if w == len(m.words) {
		return image.Point{}, false
	}
	y := w / m.rowSize
	x := (w%m.rowSize)*32 + bits.TrailingZeros32(m.words[w])
	return image.Pt(x, y), true
}

// BottomRightOnBit returns the last set bit in row-major order. ok is false
// when no bit is set.
func (m *BitMatrix) BottomRightOnBit() (p image.Point, ok bool) {
	w := len(m.words) - 1
	for w >= 0 && m.words[w] == 0 {
		w--
	}
	if w < 0 {
		return image.Point{}, false
	}
	y := w / m.rowSize
	x := (w%m.rowSize)*32 + 31 - bits.LeadingZeros32(m.words[w])
	return image.Pt(x, y), true
}

// Width returns the width in bits.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the height in bits.
func (m *BitMatrix) Height() int { return m.height }

// RowSize returns the number of uint32 words per row.
func (m *BitMatrix) RowSize() int { return m.rowSize }

// Clone returns a deep copy of the matrix.
func (m *BitMatrix) Clone() *BitMatrix {
	words := make([]uint32, len(m.words))
	copy(words, m.words)
	return &BitMatrix{width: m.width, height: m.height, rowSize: m.rowSize, words: words}
}

// Equal reports whether both matrices have identical dimensions and bits.
func (m *BitMatrix) Equal(other *BitMatrix) bool {
	if m.width != other.width || m.height != other.height || m.rowSize != other.rowSize {
		return false
	}
	for i := range m.words {
		if m.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Text renders the matrix with one row per line, spelling each cell as the
// set or unset token. ParseText with the same tokens recovers the matrix.
func (m *BitMatrix) Text(set, unset string) string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteString(set)
			} else {
				sb.WriteString(unset)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the matrix using "X " for set cells and "  " for unset.
func (m *BitMatrix) String() string {
	return m.Text("X ", "  ")
}
