package geometry

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Rotation is the direction-cosine part of an image-to-scanner transform:
// a 3x3 matrix mapping stored image-array axes into scanner (RAS) axes.
type Rotation struct {
	m *mat.Dense
}

// NewRotation builds a Rotation from nine row-major components.
func NewRotation(rows [3][3]float64) Rotation {
	data := make([]float64, 0, 9)
	for _, row := range rows {
		data = append(data, row[0], row[1], row[2])
	}
	return Rotation{m: mat.NewDense(3, 3, data)}
}

// Identity returns the identity rotation.
func Identity() Rotation {
	return NewRotation([3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
}

// ParseRotation builds a Rotation from a row-major slice of slices, as read
// from artifact headers. Rows beyond the third (the affine translation row)
// and columns beyond the third (the offset) are ignored.
func ParseRotation(rows [][]float64) (Rotation, error) {
	if len(rows) < 3 {
		return Rotation{}, fmt.Errorf("transform has %d rows, need at least 3", len(rows))
	}
	var r [3][3]float64
	for i := 0; i < 3; i++ {
		if len(rows[i]) < 3 {
			return Rotation{}, fmt.Errorf("transform row %d has %d columns, need at least 3", i, len(rows[i]))
		}
		copy(r[i][:], rows[i][:3])
	}
	return NewRotation(r), nil
}

// IsValid reports whether the rotation has been initialized.
func (r Rotation) IsValid() bool {
	return r.m != nil
}

// Apply maps an image-space vector into scanner space.
func (r Rotation) Apply(v Vec3) Vec3 {
	var out mat.VecDense
	out.MulVec(r.m, mat.NewVecDense(3, []float64{v[0], v[1], v[2]}))
	return Vec3{out.AtVec(0), out.AtVec(1), out.AtVec(2)}
}

// Det returns the determinant of the rotation. The sign distinguishes
// right-handed from left-handed stored axes, which decides the FSL bvec
// first-axis flip.
func (r Rotation) Det() float64 {
	return mat.Det(r.m)
}

// IsIdentity reports whether the rotation is the identity within tol.
func (r Rotation) IsIdentity(tol float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			d := r.m.At(i, j) - want
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

// Row returns one row of the rotation.
func (r Rotation) Row(i int) Vec3 {
	return Vec3{r.m.At(i, 0), r.m.At(i, 1), r.m.At(i, 2)}
}
