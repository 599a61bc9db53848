// Package bitpack provides compact bit-level containers for the
// rectification pipeline: packed 2D module grids, packed 1D row vectors,
// and a cursor for reading bit-aligned payload streams.
package bitpack

import (
	"math/bits"
	"strings"
)

// loadFactor controls how much headroom append operations reserve.
const loadFactor = 0.75

// BitArray is a packed 1D array of bits backed by uint32 words.
// Bit i lives in word i/32 at position i%32, least significant bit first.
type BitArray struct {
	words  []uint32
	length int
}

// NewBitArray creates a BitArray holding length bits, all unset.
func NewBitArray(length int) *BitArray {
	if length <= 0 {
		return &BitArray{}
	}
	return &BitArray{
		words:  make([]uint32, wordCount(length)),
		length: length,
	}
}

// Size returns the number of bits in the array.
func (a *BitArray) Size() int {
	return a.length
}

// SizeInBytes returns the number of bytes needed to hold the bits.
func (a *BitArray) SizeInBytes() int {
	return (a.length + 7) / 8
}

func (a *BitArray) ensureCapacity(n int) {
	if n > len(a.words)*32 {
		grown := make([]uint32, wordCount(int(float64(n)/loadFactor)))
		copy(grown, a.words)
		a.words = grown
	}
}

// Get reports whether bit i is set.
func (a *BitArray) Get(i int) bool {
	return a.words[i/32]&(1<<uint(i&0x1f)) != 0
}

// Set sets bit i.
func (a *BitArray) Set(i int) {
	a.words[i/32] |= 1 << uint(i&0x1f)
}

// Flip inverts bit i.
func (a *BitArray) Flip(i int) {
	a.words[i/32] ^= 1 << uint(i&0x1f)
}

// GetNextSet returns the index of the first set bit at or after from, or the
// array size if no later bit is set.
func (a *BitArray) GetNextSet(from int) int {
	if from >= a.length {
		return a.length
	}
	w := from / 32
	current := a.words[w]
	// mask off bits below from
	current &= ^uint32(0) << uint(from&0x1f)
	for current == 0 {
		w++
		if w == len(a.words) {
			return a.length
		}
		current = a.words[w]
	}
	i := w*32 + bits.TrailingZeros32(current)
	if i > a.length {
		return a.length
	}
	return i
}

// GetNextUnset returns the index of the first unset bit at or after from, or
// the array size if no later bit is unset.
func (a *BitArray) GetNextUnset(from int) int {
	if from >= a.length {
		return a.length
	}
	w := from / 32
	current := ^a.words[w]
	// mask off bits below from
	current &= ^uint32(0) << uint(from&0x1f)
	for current == 0 {
		w++
		if w == len(a.words) {
			return a.length
		}
		current = ^a.words[w]
	}
	i := w*32 + bits.TrailingZeros32(current)
	if i > a.length {
		return a.length
	}
	return i
}

// SetBulk replaces the whole 32-bit word containing bit i. The index must be
// word aligned for the replacement to land where expected.
func (a *BitArray) SetBulk(i int, word uint32) {
	a.words[i/32] = word
}

// SetRange sets every bit in [start, end). It panics if the range is invalid.
func (a *BitArray) SetRange(start, end int) {
	if end < start || start < 0 || end > a.length {
		panic("bitpack: invalid range")
	}
	if end == start {
		return
	}
	end-- // inclusive last bit from here on
	firstWord := start / 32
	lastWord := end / 32
	for w := firstWord; w <= lastWord; w++ {
		firstBit := 0
		if w == firstWord {
			firstBit = start & 0x1f
		}
		lastBit := 31
		if w == lastWord {
			lastBit = end & 0x1f
		}
		a.words[w] |= uint32((2 << uint(lastBit)) - (1 << uint(firstBit)))
	}
}

// Clear unsets every bit.
func (a *BitArray) Clear() {
	for i := range a.words {
		a.words[i] = 0
	}
}

// IsRange reports whether every bit in [start, end) equals value. It panics
// if the range is invalid.
func (a *BitArray) IsRange(start, end int, value bool) bool {
	if end < start || start < 0 || end > a.length {
		panic("bitpack: invalid range")
	}
	if end == start {
		return true
	}
	end--
	firstWord := start / 32
	lastWord := end / 32
	for w := firstWord; w <= lastWord; w++ {
		firstBit := 0
		if w == firstWord {
			firstBit = start & 0x1f
		}
		lastBit := 31
		if w == lastWord {
			lastBit = end & 0x1f
		}
		mask := uint32((2 << uint(lastBit)) - (1 << uint(firstBit)))
		if value {
			if a.words[w]&mask != mask {
				return false
			}
		} else {
			if a.words[w]&mask != 0 {
				return false
			}
		}
	}
	return true
}

// AppendBit appends a single bit, growing the array.
func (a *BitArray) AppendBit(bit bool) {
	a.ensureCapacity(a.length + 1)
	if bit {
		a.words[a.length/32] |= 1 << uint(a.length&0x1f)
	}
	a.length++
}

// AppendBits appends the low n bits of value, most significant first.
// It panics if n is outside [0, 32].
func (a *BitArray) AppendBits(value uint32, n int) {
	if n < 0 || n > 32 {
		panic("bitpack: bit count out of range")
	}
	next := a.length
	a.ensureCapacity(next + n)
	for left := n - 1; left >= 0; left-- {
		if value&(1<<uint(left)) != 0 {
			a.words[next/32] |= 1 << uint(next&0x1f)
		}
		next++
	}
	a.length = next
}

// AppendBitArray appends the contents of other.
func (a *BitArray) AppendBitArray(other *BitArray) {
	n := other.length
	a.ensureCapacity(a.length + n)
	for i := 0; i < n; i++ {
		a.AppendBit(other.Get(i))
	}
}

// Xor flips every bit of a where other has a set bit. It panics if the sizes
// differ.
func (a *BitArray) Xor(other *BitArray) {
	if a.length != other.length {
		panic("bitpack: sizes do not match")
	}
	for i := range a.words {
		a.words[i] ^= other.words[i]
	}
}

// ToBytes packs numBytes bytes starting at bit bitOffset into dst at offset,
// most significant bit of each byte first.
func (a *BitArray) ToBytes(bitOffset int, dst []byte, offset, numBytes int) {
	for i := 0; i < numBytes; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			if a.Get(bitOffset) {
				b |= 1 << uint(7-j)
			}
			bitOffset++
		}
		dst[offset+i] = b
	}
}

// Words returns the backing uint32 slice. Mutating it mutates the array.
func (a *BitArray) Words() []uint32 {
	return a.words
}

// Reverse reverses the order of all bits in place.
func (a *BitArray) Reverse() {
	reversed := make([]uint32, len(a.words))
	last := (a.length - 1) / 32
	used := last + 1
	for i := 0; i < used; i++ {
		reversed[last-i] = bits.Reverse32(a.words[i])
	}
	// the reversal above treats the array as used*32 bits; shift out the
	// padding that sat past the logical end
	if a.length != used*32 {
		pad := uint(used*32 - a.length)
		current := reversed[0] >> pad
		for i := 1; i < used; i++ {
			next := reversed[i]
			current |= next << (32 - pad)
			reversed[i-1] = current
			current = next >> pad
		}
		reversed[used-1] = current
	}
	a.words = reversed
}

// Clone returns a deep copy.
func (a *BitArray) Clone() *BitArray {
	w := make([]uint32, len(a.words))
	copy(w, a.words)
	return &BitArray{words: w, length: a.length}
}

// String renders the bits as 'X' and '.' in groups of eight.
func (a *BitArray) String() string {
	var sb strings.Builder
	sb.Grow(a.length + a.length/8 + 1)
	for i := 0; i < a.length; i++ {
		if i&0x07 == 0 {
			sb.WriteByte(' ')
		}
		if a.Get(i) {
			sb.WriteByte('X')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// wordCount returns how many uint32 words hold n bits.
func wordCount(n int) int {
	return (n + 31) / 32
}
