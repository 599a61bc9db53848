package gridplane_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gridplane "github.com/gridplane/gridplane"
	"github.com/gridplane/gridplane/binarize"
	"github.com/gridplane/gridplane/bitpack"
	"github.com/gridplane/gridplane/warp"
)

// testPattern builds a deterministic module pattern with both shades in
// every row.
func testPattern(dim int) *bitpack.BitMatrix {
	m := bitpack.NewBitMatrix(dim, dim)
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; x++ {
			if (x*7+y*13)%5 < 2 {
				m.Set(x, y)
			}
		}
	}
	return m
}

// renderSymbol draws the pattern onto a grayscale image at scale pixels per
// module inside a light quiet zone of margin pixels.
func renderSymbol(pattern *bitpack.BitMatrix, scale, margin int) *image.Gray {
	w := pattern.Width()*scale + 2*margin
	h := pattern.Height()*scale + 2*margin
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	for my := 0; my < pattern.Height(); my++ {
		for mx := 0; mx < pattern.Width(); mx++ {
			if !pattern.Get(mx, my) {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetGray(margin+mx*scale+dx, margin+my*scale+dy, color.Gray{Y: 0})
				}
			}
		}
	}
	return img
}

// symbolQuad returns the image-space corners of the rendered symbol.
func symbolQuad(pattern *bitpack.BitMatrix, scale, margin int) warp.Quad {
	left := float64(margin)
	top := float64(margin)
	right := left + float64(pattern.Width()*scale)
	bottom := top + float64(pattern.Height()*scale)
	return warp.Quad{{left, top}, {right, top}, {right, bottom}, {left, bottom}}
}

// gridQuad returns the module-space corners of a dim x dim grid.
func gridQuad(dim int) warp.Quad {
	d := float64(dim)
	return warp.Quad{{0, 0}, {d, 0}, {d, d}, {0, d}}
}

func TestRectifySyntheticSymbol(t *testing.T) {
	const dim, scale, margin = 21, 8, 16
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)

	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))
	matrix, err := bitmap.BlackMatrix()
	require.NoError(t, err)

	var sampler warp.PerspectiveSampler
	grid, err := sampler.Sample(matrix, dim, dim, gridQuad(dim), symbolQuad(pattern, scale, margin))
	require.NoError(t, err)
	assert.True(t, grid.Equal(pattern), "rectified grid must reproduce the rendered pattern")
}

func TestRectifySyntheticSymbolAdaptive(t *testing.T) {
	const dim, scale, margin = 21, 8, 16
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)

	bitmap := gridplane.NewBinaryBitmap(binarize.NewAdaptive(gridplane.NewGraySource(img)))
	matrix, err := bitmap.BlackMatrix()
	require.NoError(t, err)

	var sampler warp.PerspectiveSampler
	grid, err := sampler.Sample(matrix, dim, dim, gridQuad(dim), symbolQuad(pattern, scale, margin))
	require.NoError(t, err)
	assert.True(t, grid.Equal(pattern))
}

func TestRectifyRotatedSymbol(t *testing.T) {
	const dim, scale, margin = 21, 8, 16
	pattern := testPattern(dim)
	rotated := imaging.Rotate180(renderSymbol(pattern, scale, margin))

	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewImageSource(rotated)))
	matrix, err := bitmap.BlackMatrix()
	require.NoError(t, err)

	// the symbol's first corner now sits at the far side of the image
	size := float64(dim*scale + 2*margin)
	q := symbolQuad(pattern, scale, margin)
	flipped := warp.Quad{
		{size - q[0].X, size - q[0].Y},
		{size - q[1].X, size - q[1].Y},
		{size - q[2].X, size - q[2].Y},
		{size - q[3].X, size - q[3].Y},
	}

	var sampler warp.PerspectiveSampler
	grid, err := sampler.Sample(matrix, dim, dim, gridQuad(dim), flipped)
	require.NoError(t, err)
	assert.True(t, grid.Equal(pattern))
}

func TestRectifyFailsOutsideImage(t *testing.T) {
	const dim, scale, margin = 21, 8, 16
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)

	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))
	matrix, err := bitmap.BlackMatrix()
	require.NoError(t, err)

	// candidate corners claim a symbol far beyond the image
	beyond := warp.Quad{{-300, -300}, {600, -300}, {600, 600}, {-300, 600}}
	var sampler warp.PerspectiveSampler
	_, err = sampler.Sample(matrix, dim, dim, gridQuad(dim), beyond)
	require.ErrorIs(t, err, warp.ErrNotFound)
}

func TestBinarizeFlatImageFails(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 50, 50))
	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))

	_, err := bitmap.BlackMatrix()
	require.ErrorIs(t, err, gridplane.ErrNotFound)
}

func TestBinaryBitmapCachesMatrix(t *testing.T) {
	img := renderSymbol(testPattern(9), 4, 8)
	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))

	first, err := bitmap.BlackMatrix()
	require.NoError(t, err)
	second, err := bitmap.BlackMatrix()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestBinaryBitmapBlackRow(t *testing.T) {
	const dim, scale, margin = 9, 8, 16
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)
	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))

	// probe module centers along the center row of module row 4
	y := margin + 4*scale + scale/2
	row, err := bitmap.BlackRow(y, nil)
	require.NoError(t, err)
	for mx := 0; mx < dim; mx++ {
		x := margin + mx*scale + scale/2
		assert.Equal(t, pattern.Get(mx, 4), row.Get(x), "module %d", mx)
	}
}

// Rectified rows pack into bytes that downstream decoders read back through
// a BitSource.
func TestRectifiedModulesReadableAsBitStream(t *testing.T) {
	const dim, scale, margin = 21, 8, 16
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)

	bitmap := gridplane.NewBinaryBitmap(binarize.NewHistogram(gridplane.NewGraySource(img)))
	matrix, err := bitmap.BlackMatrix()
	require.NoError(t, err)

	var sampler warp.PerspectiveSampler
	grid, err := sampler.Sample(matrix, dim, dim, gridQuad(dim), symbolQuad(pattern, scale, margin))
	require.NoError(t, err)

	var row *bitpack.BitArray
	for y := 0; y < dim; y++ {
		row = grid.Row(y, row)
		packed := make([]byte, row.SizeInBytes())
		row.ToBytes(0, packed, 0, len(packed))

		source := bitpack.NewBitSource(packed)
		for x := 0; x < dim; x++ {
			bit, err := source.ReadBits(1)
			require.NoError(t, err)
			assert.Equal(t, pattern.Get(x, y), bit == 1, "(%d,%d)", x, y)
		}
	}
}
