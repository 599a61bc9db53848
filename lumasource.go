package gridplane

import "fmt"

// LumaSource is a LuminanceSource over a raw row-major 8-bit luminance
// buffer, such as the Y plane of a camera frame. The buffer is borrowed, not
// copied; it must stay unmodified while the source is in use.
type LumaSource struct {
	luminances []byte
	width      int
	height     int
}

// NewLumaSource creates a LuminanceSource over luma. It fails when the
// buffer cannot hold width x height samples.
func NewLumaSource(luma []byte, width, height int) (*LumaSource, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("gridplane: luma dimensions %dx%d must be positive", width, height)
	}
	if len(luma) < width*height {
		return nil, fmt.Errorf("gridplane: luma buffer holds %d samples, need %d", len(luma), width*height)
	}
	return &LumaSource{
		luminances: luma,
		width:      width,
		height:     height,
	}, nil
}

// Row returns a row of luminance data.
func (s *LumaSource) Row(y int, row []byte) []byte {
	return copyRow(s.luminances, s.width, s.height, y, row)
}

// Matrix returns the luminance grid in row-major order.
func (s *LumaSource) Matrix() []byte {
	result := make([]byte, s.width*s.height)
	copy(result, s.luminances)
	return result
}

// Width returns the width of the image.
func (s *LumaSource) Width() int {
	return s.width
}

// Height returns the height of the image.
func (s *LumaSource) Height() int {
	return s.height
}
