// Package warp computes projective mappings between quadrilaterals and
// resamples bit matrices along them.
package warp

// Point is a location in the plane.
type Point struct {
	X, Y float64
}

// Quad holds the corners of a quadrilateral, ordered like the unit square
// corners (0,0), (1,0), (1,1), (0,1).
type Quad [4]Point

// Homography is a projective transform of the plane, nine coefficients of a
// 3x3 matrix applied to homogeneous row vectors. Values are immutable; build
// them with the constructors and share them freely.
type Homography struct {
	a11, a12, a13 float64
	a21, a22, a23 float64
	a31, a32, a33 float64
}

// SquareToQuad returns the transform taking the unit square corners onto the
// corners of q.
func SquareToQuad(q Quad) Homography {
	x0, y0 := q[0].X, q[0].Y
	x1, y1 := q[1].X, q[1].Y
	x2, y2 := q[2].X, q[2].Y
	x3, y3 := q[3].X, q[3].Y
	dx3 := x0 - x1 + x2 - x3
	dy3 := y0 - y1 + y2 - y3
	if dx3 == 0 && dy3 == 0 {
		// parallelogram, the map is affine
		return Homography{
			a11: x1 - x0, a21: x2 - x1, a31: x0,
			a12: y1 - y0, a22: y2 - y1, a32: y0,
			a13: 0, a23: 0, a33: 1,
		}
	}
	dx1 := x1 - x2
	dx2 := x3 - x2
	dy1 := y1 - y2
	dy2 := y3 - y2
	det := dx1*dy2 - dx2*dy1
	a13 := (dx3*dy2 - dx2*dy3) / det
	a23 := (dx1*dy3 - dx3*dy1) / det
	return Homography{
		a11: x1 - x0 + a13*x1, a21: x3 - x0 + a23*x3, a31: x0,
		a12: y1 - y0 + a13*y1, a22: y3 - y0 + a23*y3, a32: y0,
		a13: a13, a23: a23, a33: 1,
	}
}

// QuadToSquare returns the transform taking the corners of q onto the unit
// square. It is the adjoint of SquareToQuad(q); for a projective map the
// adjoint serves as the inverse because scale drops out on application.
func QuadToSquare(q Quad) Homography {
	return SquareToQuad(q).Adjoint()
}

// QuadToQuad returns the transform taking the corners of from onto the
// corresponding corners of to.
func QuadToQuad(from, to Quad) Homography {
	return SquareToQuad(to).Mul(QuadToSquare(from))
}

// Adjoint returns the transpose of the cofactor matrix.
func (h Homography) Adjoint() Homography {
	return Homography{
		a11: h.a22*h.a33 - h.a23*h.a32,
		a21: h.a23*h.a31 - h.a21*h.a33,
		a31: h.a21*h.a32 - h.a22*h.a31,
		a12: h.a13*h.a32 - h.a12*h.a33,
		a22: h.a11*h.a33 - h.a13*h.a31,
		a32: h.a12*h.a31 - h.a11*h.a32,
		a13: h.a12*h.a23 - h.a13*h.a22,
		a23: h.a13*h.a21 - h.a11*h.a23,
		a33: h.a11*h.a22 - h.a12*h.a21,
	}
}

// Mul returns the composition that applies o first and then h.
func (h Homography) Mul(o Homography) Homography {
	return Homography{
		a11: h.a11*o.a11 + h.a21*o.a12 + h.a31*o.a13,
		a21: h.a11*o.a21 + h.a21*o.a22 + h.a31*o.a23,
		a31: h.a11*o.a31 + h.a21*o.a32 + h.a31*o.a33,
		a12: h.a12*o.a11 + h.a22*o.a12 + h.a32*o.a13,
		a22: h.a12*o.a21 + h.a22*o.a22 + h.a32*o.a23,
		a32: h.a12*o.a31 + h.a22*o.a32 + h.a32*o.a33,
		a13: h.a13*o.a11 + h.a23*o.a12 + h.a33*o.a13,
		a23: h.a13*o.a21 + h.a23*o.a22 + h.a33*o.a23,
		a33: h.a13*o.a31 + h.a23*o.a32 + h.a33*o.a33,
	}
}

// Apply maps a single point.
func (h Homography) Apply(p Point) Point {
	d := h.a13*p.X + h.a23*p.Y + h.a33
	return Point{
		X: (h.a11*p.X + h.a21*p.Y + h.a31) / d,
		Y: (h.a12*p.X + h.a22*p.Y + h.a32) / d,
	}
}

// MapPoints transforms interleaved (x, y) pairs in place. The slice must
// have even length.
func (h Homography) MapPoints(points []float64) {
	for i := 0; i+1 < len(points); i += 2 {
		x := points[i]
		y := points[i+1]
		d := h.a13*x + h.a23*y + h.a33
		points[i] = (h.a11*x + h.a21*y + h.a31) / d
		points[i+1] = (h.a12*x + h.a22*y + h.a32) / d
	}
}
