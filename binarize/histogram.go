// Package binarize turns grayscale luminance into the black/white bit
// matrices the rectification engine consumes. Histogram thresholds the whole
// image at one global black point; Adaptive thresholds per block and handles
// shadows and gradients at some extra cost.
package binarize

import (
	gridplane "github.com/gridplane/gridplane"
	"github.com/gridplane/gridplane/bitpack"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// Histogram is a Binarizer that buckets luminance values into a global
// histogram and thresholds at the valley between its two strongest peaks.
type Histogram struct {
	source     gridplane.LuminanceSource
	luminances []byte
	buckets    [luminanceBuckets]int
}

var _ gridplane.Binarizer = (*Histogram)(nil)

// NewHistogram creates a Histogram binarizer over source.
func NewHistogram(source gridplane.LuminanceSource) *Histogram {
	return &Histogram{source: source}
}

// LuminanceSource returns the underlying source.
func (h *Histogram) LuminanceSource() gridplane.LuminanceSource {
	return h.source
}

// Width returns the image width.
func (h *Histogram) Width() int { return h.source.Width() }

// Height returns the image height.
func (h *Histogram) Height() int { return h.source.Height() }

// BlackRow thresholds one row against a black point estimated from that row
// alone, sharpening each pixel against its neighbors first.
func (h *Histogram) BlackRow(y int, row *bitpack.BitArray) (*bitpack.BitArray, error) {
	width := h.source.Width()
	if row == nil || row.Size() < width {
		row = bitpack.NewBitArray(width)
	} else {
		row.Clear()
	}

	h.initArrays(width)
	luminances := h.source.Row(y, h.luminances)
	for x := 0; x < width; x++ {
		h.buckets[int(luminances[x])>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(h.buckets[:])
	if err != nil {
		return nil, err
	}

	if width < 3 {
		// too narrow to sharpen
		for x := 0; x < width; x++ {
			if int(luminances[x]) < blackPoint {
				row.Set(x)
			}
		}
		return row, nil
	}

	left := int(luminances[0])
	center := int(luminances[1])
	for x := 1; x < width-1; x++ {
		right := int(luminances[x+1])
		if (center*4-left-right)/2 < blackPoint {
			row.Set(x)
		}
		left = center
		center = right
	}
	return row, nil
}

// BlackMatrix thresholds the whole image against one black point estimated
// from the middle of the image: four interior rows, middle three fifths of
// each.
func (h *Histogram) BlackMatrix() (*bitpack.BitMatrix, error) {
	width := h.source.Width()
	height := h.source.Height()
	matrix := bitpack.NewBitMatrix(width, height)

	h.initArrays(width)
	for y := 1; y < 5; y++ {
		row := height * y / 5
		luminances := h.source.Row(row, h.luminances)
		right := (width * 4) / 5
		for x := width / 5; x < right; x++ {
			h.buckets[int(luminances[x])>>luminanceShift]++
		}
	}
	blackPoint, err := estimateBlackPoint(h.buckets[:])
	if err != nil {
		return nil, err
	}

	luminances := h.source.Matrix()
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(luminances[offset+x]) < blackPoint {
				matrix.Set(x, y)
			}
		}
	}
	return matrix, nil
}

func (h *Histogram) initArrays(luminanceSize int) {
	if len(h.luminances) < luminanceSize {
		h.luminances = make([]byte, luminanceSize)
	}
	h.buckets = [luminanceBuckets]int{}
}

// estimateBlackPoint finds the threshold between the background and
// foreground peaks of a luminance histogram. It fails with ErrNotFound when
// the peaks are too close together to separate, meaning the image region has
// no usable contrast.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		if buckets[x] > maxBucketCount {
			maxBucketCount = buckets[x]
		}
	}

	// the second peak scores by count weighted by squared distance from the
	// first, favoring a far-away mode over a shoulder of the first peak
	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		score := buckets[x] * dist * dist
		if score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}

	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, gridplane.ErrNotFound
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
