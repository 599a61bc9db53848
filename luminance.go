// Package gridplane extracts rectified bit grids from perspective-distorted
// symbol regions of raster images. The root package defines the capability
// contracts between image acquisition, binarization, and the geometry engine
// in bitpack and warp.
package gridplane

import "github.com/gridplane/gridplane/bitpack"

// LuminanceSource provides access to 8-bit greyscale luminance values for an
// image. Queries may be expensive but must be idempotent.
type LuminanceSource interface {
	// Row returns one row of luminance data. If row is non-nil and large
	// enough it is reused, so callers must use the return value.
	Row(y int, row []byte) []byte

	// Matrix returns the full luminance grid in row-major order.
	Matrix() []byte

	// Width returns the width of the image in pixels.
	Width() int

	// Height returns the height of the image in pixels.
	Height() int
}

// Binarizer converts the luminance of a source into 1-bit black and white
// data, where a set bit means dark. Implementations decide the thresholding
// strategy; consumers stay agnostic to it.
type Binarizer interface {
	// BlackRow returns one row of black/white values. The passed array is
	// reused when large enough.
	BlackRow(y int, row *bitpack.BitArray) (*bitpack.BitArray, error)

	// BlackMatrix returns the full black/white matrix.
	BlackMatrix() (*bitpack.BitMatrix, error)

	// LuminanceSource returns the source being thresholded.
	LuminanceSource() LuminanceSource

	// Width returns the width of the image in pixels.
	Width() int

	// Height returns the height of the image in pixels.
	Height() int
}
