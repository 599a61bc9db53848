package gridplane

import "github.com/gridplane/gridplane/bitpack"

// BinaryBitmap is the black/white view of an image that the rectification
// pipeline works on. It caches the full matrix across calls because
// binarizers may compute it lazily and callers probe it repeatedly.
type BinaryBitmap struct {
	binarizer Binarizer
	matrix    *bitpack.BitMatrix
}

// NewBinaryBitmap creates a BinaryBitmap over the given Binarizer.
func NewBinaryBitmap(binarizer Binarizer) *BinaryBitmap {
	return &BinaryBitmap{binarizer: binarizer}
}

// Width returns the width of the bitmap.
func (b *BinaryBitmap) Width() int {
	return b.binarizer.Width()
}

// Height returns the height of the bitmap.
func (b *BinaryBitmap) Height() int {
	return b.binarizer.Height()
}

// BlackRow returns one row of black/white values. The passed array is reused
// when large enough.
func (b *BinaryBitmap) BlackRow(y int, row *bitpack.BitArray) (*bitpack.BitArray, error) {
	return b.binarizer.BlackRow(y, row)
}

// BlackMatrix returns the full black/white matrix, computing it on first use.
func (b *BinaryBitmap) BlackMatrix() (*bitpack.BitMatrix, error) {
	if b.matrix != nil {
		return b.matrix, nil
	}
	m, err := b.binarizer.BlackMatrix()
	if err != nil {
		return nil, err
	}
	b.matrix = m
	return m, nil
}
