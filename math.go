package sgp4

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	twoPi   = 2 * math.Pi
	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
	// arcs is the number of arcseconds per radian.
	arcs = 3600 * 180 / math.Pi
	// epsMach is the machine precision used by the iterative solvers.
	epsMach = 2.22e-16
)

// Norm returns the norm of a given vector which is supposed to be 3x1.
func Norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// Unit returns the unit vector of a given vector.
func Unit(a []float64) (b []float64) {
	n := Norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// Dot performs the inner product via mat64/BLAS.
func Dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// Cross performs the cross product.
func Cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]}
}

// Add returns a + b.
func Add(a, b []float64) []float64 {
	return []float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub returns a - b.
func Sub(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale returns s*a.
func Scale(a []float64, s float64) []float64 {
	return []float64{s * a[0], s * a[1], s * a[2]}
}

// Angle returns the angle between two vectors, or `undefined` if either is null.
func Angle(a, b []float64) float64 {
	magab := Norm(a) * Norm(b)
	if magab <= small*small {
		return undefined
	}
	temp := Dot(a, b) / magab
	if math.Abs(temp) > 1 {
		temp = sign(temp)
	}
	return math.Acos(temp)
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// modulo returns x mod y in [0, y).
func modulo(x, y float64) float64 {
	return x - y*math.Floor(x/y)
}

// frac returns the fractional part of x, always in [0, 1).
func frac(x float64) float64 {
	return x - math.Floor(x)
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}
