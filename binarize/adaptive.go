package binarize

import (
	gridplane "github.com/gridplane/gridplane"
	"github.com/gridplane/gridplane/bitpack"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Adaptive is a Binarizer that thresholds 8x8 pixel blocks against black
// points averaged over a 5x5 block neighborhood, tolerating shadows and
// gradients that defeat a global threshold. Images too small to block fall
// back to the Histogram strategy. The computed matrix is cached.
type Adaptive struct {
	Histogram
	matrix *bitpack.BitMatrix
}

var _ gridplane.Binarizer = (*Adaptive)(nil)

// NewAdaptive creates an Adaptive binarizer over source.
func NewAdaptive(source gridplane.LuminanceSource) *Adaptive {
	return &Adaptive{
		Histogram: *NewHistogram(source),
	}
}

// BlackMatrix returns the locally thresholded matrix, computing it on first
// use.
func (a *Adaptive) BlackMatrix() (*bitpack.BitMatrix, error) {
	if a.matrix != nil {
		return a.matrix, nil
	}
	source := a.LuminanceSource()
	width := source.Width()
	height := source.Height()

	if width < minimumDimension || height < minimumDimension {
		m, err := a.Histogram.BlackMatrix()
		if err != nil {
			return nil, err
		}
		a.matrix = m
		return a.matrix, nil
	}

	luminances := source.Matrix()
	subWidth := width >> blockSizePower
	if width&blockSizeMask != 0 {
		subWidth++
	}
	subHeight := height >> blockSizePower
	if height&blockSizeMask != 0 {
		subHeight++
	}
	blackPoints := blockBlackPoints(luminances, subWidth, subHeight, width, height)

	matrix := bitpack.NewBitMatrix(width, height)
	thresholdBlocks(luminances, subWidth, subHeight, width, height, blackPoints, matrix)
	a.matrix = matrix
	return a.matrix, nil
}

// thresholdBlocks writes the black/white decision for every block, comparing
// each pixel against the average black point of the surrounding 5x5 blocks.
func thresholdBlocks(luminances []byte, subWidth, subHeight, width, height int,
	blackPoints [][]int, matrix *bitpack.BitMatrix) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		top := clampNeighborhood(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			left := clampNeighborhood(x, subWidth-3)
			sum := 0
			for z := -2; z <= 2; z++ {
				row := blackPoints[top+z]
				sum += row[left-2] + row[left-1] + row[left] + row[left+1] + row[left+2]
			}
			average := sum / 25
			thresholdBlock(luminances, xoffset, yoffset, average, width, matrix)
		}
	}
}

// clampNeighborhood keeps a 5x5 neighborhood centered on value inside the
// block grid.
func clampNeighborhood(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *bitpack.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}

// blockBlackPoints computes a black point for every 8x8 block. Blocks with
// too little dynamic range are treated as background, inheriting from their
// neighbors so a flat region inside a dark feature stays dark.
func blockBlackPoints(luminances []byte, subWidth, subHeight, width, height int) [][]int {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	blackPoints := make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			sum := 0
			mn := 0xFF
			mx := 0
			for yy, offset := 0, yoffset*width+xoffset; yy < blockSize; yy, offset = yy+1, offset+width {
				for xx := 0; xx < blockSize; xx++ {
					pixel := int(luminances[offset+xx])
					sum += pixel
					if pixel < mn {
						mn = pixel
					}
					if pixel > mx {
						mx = pixel
					}
				}
				if mx-mn > minDynamicRange {
					// the block clearly has both shades; finish the sum
					// without tracking the range further
					for yy, offset = yy+1, offset+width; yy < blockSize; yy, offset = yy+1, offset+width {
						for xx := 0; xx < blockSize; xx++ {
							sum += int(luminances[offset+xx])
						}
					}
				}
			}

			average := sum >> (blockSizePower * 2)
			if mx-mn <= minDynamicRange {
				average = mn / 2
				if y > 0 && x > 0 {
					neighborAverage := (blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if mn < neighborAverage {
						average = neighborAverage
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}
