package pathway

import (
	"math"
)

// Curve is a centripetal Catmull-Rom spline that passes through every
// control point. The first and last segments use reflected phantom points.
type Curve struct {
	points []Vec3
}

// NewCurve returns a curve through points. At least two points are required
// for a non-degenerate curve.
func NewCurve(points []Vec3) *Curve {
	return &Curve{points: append([]Vec3(nil), points...)}
}

// Point evaluates the curve at t in [0, 1]. The parameter is uniform per
// segment, not per unit length.
func (c *Curve) Point(t float64) Vec3 {
	n := len(c.points)
	switch n {
	case 0:
		return Vec3{}
	case 1:
		return c.points[0]
	}

	t = clamp01(t)
	p := float64(n-1) * t
	seg := int(math.Floor(p))
	w := p - float64(seg)
	if seg >= n-1 {
		seg = n - 2
		w = 1
	}

	p1 := c.points[seg]
	p2 := c.points[seg+1]
	var p0, p3 Vec3
	if seg > 0 {
		p0 = c.points[seg-1]
	} else {
		p0 = p1.Mul(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = c.points[seg+2]
	} else {
		p3 = p2.Mul(2).Sub(p1)
	}

	dt0 := math.Pow(p0.Sub(p1).LenSqr(), 0.25)
	dt1 := math.Pow(p1.Sub(p2).LenSqr(), 0.25)
	dt2 := math.Pow(p2.Sub(p3).LenSqr(), 0.25)
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	var out Vec3
	for i := 0; i < 3; i++ {
		out[i] = nonUniformCatmullRom(p0[i], p1[i], p2[i], p3[i], dt0, dt1, dt2, w)
	}
	return out
}

// nonUniformCatmullRom evaluates one axis of a Catmull-Rom segment between x1
// and x2 with knot intervals dt0, dt1, dt2, as a cubic Hermite polynomial.
func nonUniformCatmullRom(x0, x1, x2, x3, dt0, dt1, dt2, t float64) float64 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2
	return c0 + t*(c1+t*(c2+t*c3))
}

// Samples returns divisions+1 points evenly spaced in the curve parameter,
// including both endpoints.
func (c *Curve) Samples(divisions int) []Vec3 {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]Vec3, divisions+1)
	for i := range out {
		out[i] = c.Point(float64(i) / float64(divisions))
	}
	return out
}

// Bounds returns the axis-aligned box around points.
func Bounds(points []Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], p[i])
			b.Max[i] = math.Max(b.Max[i], p[i])
		}
	}
	return b
}

// sideVector returns the unit vector perpendicular to the path direction in
// the horizontal plane. Near-vertical directions fall back to +X.
func sideVector(dir Vec3) Vec3 {
	if dir.LenSqr() == 0 {
		return Vec3{1, 0, 0}
	}
	side := dir.Normalize().Cross(worldUp)
	if side.LenSqr() < 0.1 {
		return Vec3{1, 0, 0}
	}
	return side.Normalize()
}
