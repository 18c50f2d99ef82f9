package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vec3 is a three-component spatial vector in RAS millimetre axes.
type Vec3 [3]float64

// Dot returns the inner product of v and w.
func (v Vec3) Dot(w Vec3) float64 {
	return floats.Dot(v[:], w[:])
}

// Norm returns the Euclidean length of v.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Neg returns the antipode of v.
func (v Vec3) Neg() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// ApproxEqual reports whether v and w agree componentwise within tol.
func (v Vec3) ApproxEqual(w Vec3, tol float64) bool {
	for i := range v {
		if math.Abs(v[i]-w[i]) > tol {
			return false
		}
	}
	return true
}

// AngleDeg returns the angle between v and w in degrees.
func AngleDeg(v, w Vec3) float64 {
	nv, nw := v.Norm(), w.Norm()
	if nv == 0 || nw == 0 {
		return 0
	}
	cos := v.Dot(w) / (nv * nw)
	// Clamp against rounding drift before arccos.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// AngleDegAntipodal returns the angle between v and the nearer of +w and -w.
// A diffusion gradient and its negation are physically equivalent, so this is
// the distance used for fiducial comparison.
func AngleDegAntipodal(v, w Vec3) float64 {
	return math.Min(AngleDeg(v, w), AngleDeg(v, w.Neg()))
}
