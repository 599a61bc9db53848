package warp

import (
	"errors"
	"math"

	"github.com/gridplane/gridplane/bitpack"
)

var (
	// ErrNotFound is returned when the projected grid lands outside the
	// image. Callers treat it as "no symbol at this candidate" and move on.
	ErrNotFound = errors.New("warp: grid not found in image")

	// ErrInvalidDimensions is returned for grid dimensions below 1.
	ErrInvalidDimensions = errors.New("warp: grid dimensions must be positive")
)

// GridSampler resamples a thresholded image into a rectangular grid of
// module bits, undoing perspective distortion. Implementations are chosen by
// the caller; pass one down to whatever does the sampling.
type GridSampler interface {
	// Sample projects the grid described by dst onto the image region
	// described by src and reads one bit per module. dst holds the grid
	// corner coordinates in module space, src the matching corners in image
	// space.
	Sample(image *bitpack.BitMatrix, dimensionX, dimensionY int, dst, src Quad) (*bitpack.BitMatrix, error)

	// SampleTransform samples through a prebuilt transform mapping module
	// space into image space.
	SampleTransform(image *bitpack.BitMatrix, dimensionX, dimensionY int, h Homography) (*bitpack.BitMatrix, error)
}

// PerspectiveSampler is the standard GridSampler. It samples each module at
// its center and tolerates points up to one pixel outside the image by
// nudging them back in.
type PerspectiveSampler struct{}

var _ GridSampler = PerspectiveSampler{}

// Sample implements GridSampler.
func (s PerspectiveSampler) Sample(image *bitpack.BitMatrix, dimensionX, dimensionY int, dst, src Quad) (*bitpack.BitMatrix, error) {
	return s.SampleTransform(image, dimensionX, dimensionY, QuadToQuad(dst, src))
}

// SampleTransform implements GridSampler.
func (s PerspectiveSampler) SampleTransform(image *bitpack.BitMatrix, dimensionX, dimensionY int, h Homography) (*bitpack.BitMatrix, error) {
	if dimensionX <= 0 || dimensionY <= 0 {
		return nil, ErrInvalidDimensions
	}
	grid := bitpack.NewBitMatrix(dimensionX, dimensionY)
	points := make([]float64, 2*dimensionX)
	for y := 0; y < dimensionY; y++ {
		centerY := float64(y) + 0.5
		for i := 0; i < len(points); i += 2 {
			points[i] = float64(i/2) + 0.5
			points[i+1] = centerY
		}
		h.MapPoints(points)
		if err := checkAndNudgePoints(image, points); err != nil {
			return nil, err
		}
		for i := 0; i < len(points); i += 2 {
			px := int(math.Floor(points[i]))
			py := int(math.Floor(points[i+1]))
			if px < 0 || px >= image.Width() || py < 0 || py >= image.Height() {
				// an extreme transform can fold interior points back out of
				// bounds after the endpoints checked clean
				return nil, ErrNotFound
			}
			if image.Get(px, py) {
				grid.Set(i/2, y)
			}
		}
	}
	return grid, nil
}

// checkAndNudgePoints verifies that the mapped row endpoints sit inside the
// image, pulling points one pixel outside back onto the border. Scanning
// stops at the first point that needs no nudge and resumes from the far end,
// so only the row's rim is touched. Points more than one pixel outside fail
// with ErrNotFound.
func checkAndNudgePoints(image *bitpack.BitMatrix, points []float64) error {
	width := image.Width()
	height := image.Height()

	nudged := true
	for i := 0; i < len(points)-1 && nudged; i += 2 {
		x := int(math.Floor(points[i]))
		y := int(math.Floor(points[i+1]))
		if x < -1 || x > width || y < -1 || y > height {
			return ErrNotFound
		}
		nudged = false
		if x == -1 {
			points[i] = 0
			nudged = true
		} else if x == width {
			points[i] = float64(width - 1)
			nudged = true
		}
		if y == -1 {
			points[i+1] = 0
			nudged = true
		} else if y == height {
			points[i+1] = float64(height - 1)
			nudged = true
		}
	}

	nudged = true
	for i := len(points) - 2; i >= 0 && nudged; i -= 2 {
		x := int(math.Floor(points[i]))
		y := int(math.Floor(points[i+1]))
		if x < -1 || x > width || y < -1 || y > height {
			return ErrNotFound
		}
		nudged = false
		if x == -1 {
			points[i] = 0
			nudged = true
		} else if x == width {
			points[i] = float64(width - 1)
			nudged = true
		}
		if y == -1 {
			points[i+1] = 0
			nudged = true
		} else if y == height {
			points[i+1] = float64(height - 1)
			nudged = true
		}
	}
	return nil
}
