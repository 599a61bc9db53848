package binarize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gridplane "github.com/gridplane/gridplane"
)

const (
	dark  = 20
	light = 200
)

// flatSource builds a source of the given size filled with one luminance.
func flatSource(t *testing.T, width, height int, value byte) gridplane.LuminanceSource {
	t.Helper()
	luma := make([]byte, width*height)
	for i := range luma {
		luma[i] = value
	}
	source, err := gridplane.NewLumaSource(luma, width, height)
	require.NoError(t, err)
	return source
}

// squareSource builds a light source with a dark square covering
// [left, left+size) x [top, top+size).
func squareSource(t *testing.T, width, height, left, top, size int) gridplane.LuminanceSource {
	t.Helper()
	luma := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= left && x < left+size && y >= top && y < top+size {
				luma[y*width+x] = dark
			} else {
				luma[y*width+x] = light
			}
		}
	}
	source, err := gridplane.NewLumaSource(luma, width, height)
	require.NoError(t, err)
	return source
}

func TestHistogramBlackMatrix(t *testing.T) {
	source := squareSource(t, 100, 100, 30, 30, 40)
	b := NewHistogram(source)

	matrix, err := b.BlackMatrix()
	require.NoError(t, err)
	require.Equal(t, 100, matrix.Width())
	require.Equal(t, 100, matrix.Height())

	for y := 0; y < 100; y += 7 {
		for x := 0; x < 100; x += 7 {
			want := x >= 30 && x < 70 && y >= 30 && y < 70
			assert.Equal(t, want, matrix.Get(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestHistogramBlackRow(t *testing.T) {
	source := squareSource(t, 100, 100, 30, 30, 40)
	b := NewHistogram(source)

	// a row through the dark band
	row, err := b.BlackRow(50, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, row.Size(), 100)

	assert.False(t, row.Get(10))
	assert.True(t, row.Get(50))
	assert.False(t, row.Get(90))

	// reuse must clear old bits
	row, err = b.BlackRow(10, row)
	require.NoError(t, err)
	assert.False(t, row.Get(50))
}

func TestHistogramNoContrast(t *testing.T) {
	// flat black has a single histogram peak at the bottom; there is no
	// black point to find
	b := NewHistogram(flatSource(t, 50, 50, 0))

	_, err := b.BlackMatrix()
	require.ErrorIs(t, err, gridplane.ErrNotFound)

	_, err = b.BlackRow(25, nil)
	require.ErrorIs(t, err, gridplane.ErrNotFound)
}

func TestHistogramNarrowRowSkipsSharpening(t *testing.T) {
	luma := []byte{dark, light, dark, light}
	source, err := gridplane.NewLumaSource(luma, 2, 2)
	require.NoError(t, err)

	b := NewHistogram(source)
	row, err := b.BlackRow(0, nil)
	require.NoError(t, err)
	assert.True(t, row.Get(0))
	assert.False(t, row.Get(1))
}

func TestHistogramAccessors(t *testing.T) {
	source := flatSource(t, 30, 20, light)
	b := NewHistogram(source)
	assert.Equal(t, 30, b.Width())
	assert.Equal(t, 20, b.Height())
	assert.Equal(t, source, b.LuminanceSource())
}
