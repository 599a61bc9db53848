package bitpack

import "fmt"

// BitSource reads a byte slice as a stream of bits, most significant bit of
// each byte first, so reads need not align to byte boundaries. The slice is
// borrowed, not copied. A BitSource is for a single reader; share nothing.
type BitSource struct {
	data       []byte
	byteOffset int
	bitOffset  int
}

// NewBitSource creates a BitSource reading from data.
func NewBitSource(data []byte) *BitSource {
	return &BitSource{data: data}
}

// BitOffset returns the index of the next bit within the current byte.
func (s *BitSource) BitOffset() int {
	return s.bitOffset
}

// ByteOffset returns the index of the next byte to be read from.
func (s *BitSource) ByteOffset() int {
	return s.byteOffset
}

// ReadBits consumes n bits and returns them as the least significant bits of
// an int. It fails with a BitCountError when n is outside [1, 32] or exceeds
// what remains.
func (s *BitSource) ReadBits(n int) (int, error) {
	if n < 1 || n > 32 || n > s.Available() {
		return 0, &BitCountError{Bits: n, Available: s.Available()}
	}

	result := 0

	// drain the remainder of the current byte
	if s.bitOffset > 0 {
		left := 8 - s.bitOffset
		toRead := n
		if toRead > left {
			toRead = left
		}
		unread := left - toRead
		mask := (0xff >> uint(8-toRead)) << uint(unread)
		result = (int(s.data[s.byteOffset]) & mask) >> uint(unread)
		n -= toRead
		s.bitOffset += toRead
		if s.bitOffset == 8 {
			s.bitOffset = 0
			s.byteOffset++
		}
	}

	if n > 0 {
		// whole bytes
		for n >= 8 {
			result = result<<8 | int(s.data[s.byteOffset])
			s.byteOffset++
			n -= 8
		}

		// a leading slice of the next byte
		if n > 0 {
			unread := 8 - n
			mask := (0xff >> uint(unread)) << uint(unread)
			result = result<<uint(n) | (int(s.data[s.byteOffset])&mask)>>uint(unread)
			s.bitOffset += n
		}
	}

	return result, nil
}

// Available returns the number of bits left to read.
func (s *BitSource) Available() int {
	return 8*(len(s.data)-s.byteOffset) - s.bitOffset
}

// BitCountError reports a ReadBits request that was out of range or larger
// than the remaining stream.
type BitCountError struct {
	Bits      int
	Available int
}

func (e *BitCountError) Error() string {
	return fmt.Sprintf("bitpack: cannot read %d bits (%d available)", e.Bits, e.Available)
}
