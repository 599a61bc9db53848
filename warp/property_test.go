package warp

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gridplane/gridplane/bitpack"
)

// newPatternMatrix builds a matrix with a pseudo random bit pattern drawn
// from points.
func newPatternMatrix(width, height int, points []int) *bitpack.BitMatrix {
	m := bitpack.NewBitMatrix(width, height)
	for _, p := range points {
		m.Set(p%width, (p/width)%height)
	}
	return m
}

// genQuad generates a convex quadrilateral: a rectangle with each corner
// pushed outward by a bounded amount. Outward-only jitter keeps the corners
// ordered and the quad non degenerate.
func genQuad() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-50, 50),  // x0
		gen.Float64Range(-50, 50),  // y0
		gen.Float64Range(1, 100),   // width
		gen.Float64Range(1, 100),   // height
		gen.Float64Range(0, 10),    // eight outward corner offsets
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
		gen.Float64Range(0, 10),
	).Map(func(vals []interface{}) Quad {
		x0 := vals[0].(float64)
		y0 := vals[1].(float64)
		w := vals[2].(float64)
		h := vals[3].(float64)
		j := make([]float64, 8)
		for i := range j {
			j[i] = vals[4+i].(float64)
		}
		return Quad{
			{x0 - j[0], y0 - j[1]},
			{x0 + w + j[2], y0 - j[3]},
			{x0 + w + j[4], y0 + h + j[5]},
			{x0 - j[6], y0 + h + j[7]},
		}
	})
}

func centroid(q Quad) Point {
	var c Point
	for _, p := range q {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= 4
	c.Y /= 4
	return c
}

func near(a, b Point, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestSquareToQuadCornerProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unit square corners land on the quad corners", prop.ForAll(
		func(q Quad) bool {
			h := SquareToQuad(q)
			for i, corner := range unitSquare {
				if !near(q[i], h.Apply(corner), 1e-6) {
					return false
				}
			}
			return true
		},
		genQuad(),
	))

	properties.TestingRun(t)
}

func TestQuadToSquareCornerProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("quad corners land on the unit square corners", prop.ForAll(
		func(q Quad) bool {
			h := QuadToSquare(q)
			for i, corner := range q {
				if !near(unitSquare[i], h.Apply(corner), 1e-6) {
					return false
				}
			}
			return true
		},
		genQuad(),
	))

	properties.TestingRun(t)
}

func TestQuadToQuadIdentityProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("mapping a quad onto itself fixes interior points", prop.ForAll(
		func(q Quad) bool {
			h := QuadToQuad(q, q)
			c := centroid(q)
			return near(c, h.Apply(c), 1e-6)
		},
		genQuad(),
	))

	properties.TestingRun(t)
}

func TestQuadToQuadCornerProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("corners of one quad land on the other's corners", prop.ForAll(
		func(from, to Quad) bool {
			h := QuadToQuad(from, to)
			for i := range from {
				if !near(to[i], h.Apply(from[i]), 1e-5) {
					return false
				}
			}
			return true
		},
		genQuad(),
		genQuad(),
	))

	properties.TestingRun(t)
}

func TestQuadToQuadInverseProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("mapping there and back fixes interior points", prop.ForAll(
		func(a, b Quad) bool {
			there := QuadToQuad(a, b)
			back := QuadToQuad(b, a)
			c := centroid(a)
			return near(c, back.Apply(there.Apply(c)), 1e-5)
		},
		genQuad(),
		genQuad(),
	))

	properties.TestingRun(t)
}

func TestSampleIdentityProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("sampling a matrix onto its own quad copies it", prop.ForAll(
		func(width, height int, points []int) bool {
			image := newPatternMatrix(width, height, points)
			var s PerspectiveSampler
			grid, err := s.Sample(image, width, height, fullQuad(image), fullQuad(image))
			if err != nil {
				return false
			}
			return image.Equal(grid)
		},
		gen.IntRange(1, 32),
		gen.IntRange(1, 32),
		gen.SliceOf(gen.IntRange(0, 1<<16)),
	))

	properties.TestingRun(t)
}
