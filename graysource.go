package gridplane

import "image"

// GraySource is a LuminanceSource over an *image.Gray. Grayscale pixel data
// needs no conversion, only a stride-aware copy.
type GraySource struct {
	luminances []byte
	width      int
	height     int
}

// NewGraySource creates a LuminanceSource from an *image.Gray.
func NewGraySource(img *image.Gray) *GraySource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	luminances := make([]byte, w*h)
	if img.Stride == w && bounds.Min.X == 0 && bounds.Min.Y == 0 {
		copy(luminances, img.Pix[:w*h])
	} else {
		for y := 0; y < h; y++ {
			srcOff := (bounds.Min.Y+y)*img.Stride + bounds.Min.X
			copy(luminances[y*w:], img.Pix[srcOff:srcOff+w])
		}
	}
	return &GraySource{
		luminances: luminances,
		width:      w,
		height:     h,
	}
}

// Row returns a row of luminance data.
func (s *GraySource) Row(y int, row []byte) []byte {
	return copyRow(s.luminances, s.width, s.height, y, row)
}

// Matrix returns the entire luminance grid in row-major order.
func (s *GraySource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *GraySource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *GraySource) Height() int {
	return s.height
}
