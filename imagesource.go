package gridplane

import "image"

// ImageSource is a LuminanceSource over any image.Image. Pixels are
// converted to 8-bit luminance once, at construction, with the integer
// weighting (306R + 601G + 117B + 0x200) >> 10 on 8-bit components.
// Fully transparent pixels are treated as white.
type ImageSource struct {
	luminances []byte
	width      int
	height     int
}

// NewImageSource creates a LuminanceSource from an image.Image.
func NewImageSource(img image.Image) *ImageSource {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	luminances := make([]byte, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				luminances[y*w+x] = 0xFF
				continue
			}
			// RGBA returns 16-bit premultiplied components; the high byte is
			// the 8-bit value for opaque pixels
			r8 := r >> 8
			g8 := g >> 8
			b8 := b >> 8
			luminances[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}

	return &ImageSource{
		luminances: luminances,
		width:      w,
		height:     h,
	}
}

// Row returns a row of luminance data.
func (s *ImageSource) Row(y int, row []byte) []byte {
	return copyRow(s.luminances, s.width, s.height, y, row)
}

// Matrix returns the entire luminance grid in row-major order.
func (s *ImageSource) Matrix() []byte {
	result := make([]byte, len(s.luminances))
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *ImageSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *ImageSource) Height() int {
	return s.height
}

// RotateCCW returns a copy of the source rotated 90 degrees
// counterclockwise, for callers retrying a vertically oriented symbol.
func (s *ImageSource) RotateCCW() *ImageSource {
	newWidth := s.height
	newHeight := s.width
	newLum := make([]byte, newWidth*newHeight)
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			// (x, y) lands at (y, width-1-x)
			newLum[(s.width-1-x)*newWidth+y] = s.luminances[y*s.width+x]
		}
	}
	return &ImageSource{
		luminances: newLum,
		width:      newWidth,
		height:     newHeight,
	}
}

// copyRow copies row y of a row-major luminance grid into row, allocating
// only when the caller's buffer is too small.
func copyRow(luminances []byte, width, height, y int, row []byte) []byte {
	if y < 0 || y >= height {
		return nil
	}
	if row == nil || len(row) < width {
		row = make([]byte, width)
	}
	offset := y * width
	copy(row, luminances[offset:offset+width])
	return row
}
