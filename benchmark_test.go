package gridplane_test

import (
	"testing"

	gridplane "github.com/gridplane/gridplane"
	"github.com/gridplane/gridplane/binarize"
	"github.com/gridplane/gridplane/warp"
)

func BenchmarkImageSourceConvert(b *testing.B) {
	img := renderSymbol(testPattern(33), 8, 32)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		gridplane.NewImageSource(img)
	}
}

func BenchmarkBinarize(b *testing.B) {
	img := renderSymbol(testPattern(33), 8, 32)
	source := gridplane.NewGraySource(img)

	b.Run("Histogram", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			// fresh binarizer each round; Adaptive caches its matrix
			if _, err := binarize.NewHistogram(source).BlackMatrix(); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("Adaptive", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := binarize.NewAdaptive(source).BlackMatrix(); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkSampleGrid(b *testing.B) {
	const dim, scale, margin = 33, 8, 32
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)
	matrix, err := binarize.NewHistogram(gridplane.NewGraySource(img)).BlackMatrix()
	if err != nil {
		b.Fatal(err)
	}
	dst := gridQuad(dim)
	src := symbolQuad(pattern, scale, margin)
	var sampler warp.PerspectiveSampler

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sampler.Sample(matrix, dim, dim, dst, src); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRectifyPipeline(b *testing.B) {
	const dim, scale, margin = 33, 8, 32
	pattern := testPattern(dim)
	img := renderSymbol(pattern, scale, margin)
	dst := gridQuad(dim)
	src := symbolQuad(pattern, scale, margin)
	var sampler warp.PerspectiveSampler

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bitmap := gridplane.NewBinaryBitmap(binarize.NewAdaptive(gridplane.NewGraySource(img)))
		matrix, err := bitmap.BlackMatrix()
		if err != nil {
			b.Fatal(err)
		}
		if _, err := sampler.Sample(matrix, dim, dim, dst, src); err != nil {
			b.Fatal(err)
		}
	}
}
