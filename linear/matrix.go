// Package linear implements the small amount of matrix math the engine
// needs: a column-major 4x4 float32 matrix used for both the Transform
// deformer's TRS construction and StreamData's color_matrix field.
package linear

import (
	"math"

	"github.com/dcattermole/opencompgraph-go/hash"
)

// Matrix4 is a column-major 4x4 matrix: M[col][row]. Multiplying a
// Matrix4 by a Vector4 transforms the vector by the matrix.
type Matrix4 [4][4]float32

// Identity4 returns the 4x4 identity matrix.
func Identity4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Mul returns m * other (applying other first, then m).
func (m Matrix4) Mul(other Matrix4) Matrix4 {
	var out Matrix4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k][r] * other[c][k]
			}
			out[c][r] = sum
		}
	}
	return out
}

// Vector4 is a homogeneous 4-component vector.
type Vector4 [4]float32

// MulVector4 returns m * v.
func (m Matrix4) MulVector4(v Vector4) Vector4 {
	var out Vector4
	for r := 0; r < 4; r++ {
		var sum float32
		for c := 0; c < 4; c++ {
			sum += m[c][r] * v[c]
		}
		out[r] = sum
	}
	return out
}

// Translate4 returns a translation matrix for (tx, ty, tz).
func Translate4(tx, ty, tz float32) Matrix4 {
	m := Identity4()
	m[3][0] = tx
	m[3][1] = ty
	m[3][2] = tz
	return m
}

// Scale4 returns a scale matrix for (sx, sy, sz).
func Scale4(sx, sy, sz float32) Matrix4 {
	m := Identity4()
	m[0][0] = sx
	m[1][1] = sy
	m[2][2] = sz
	return m
}

// RotateZ4 returns a rotation matrix of angle radians about the Z axis,
// the only rotation axis the 2-D Transform deformer needs.
func RotateZ4(angle float32) Matrix4 {
	s, c := sincos(angle)
	m := Identity4()
	m[0][0] = c
	m[0][1] = s
	m[1][0] = -s
	m[1][1] = c
	return m
}

// Invert returns the inverse of m via Gauss-Jordan elimination on an
// augmented [m | I] matrix. Returns Identity4 if m is singular — callers
// dealing with well-formed TRS matrices never hit that branch.
func (m Matrix4) Invert() Matrix4 {
	var aug [4][8]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			aug[r][c] = m[c][r]
		}
		aug[r][4+r] = 1
	}

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if abs32(aug[r][col]) > abs32(aug[pivot][col]) {
				pivot = r
			}
		}
		if aug[pivot][col] == 0 {
			return Identity4()
		}
		aug[col], aug[pivot] = aug[pivot], aug[col]

		pv := aug[col][col]
		for c := 0; c < 8; c++ {
			aug[col][c] /= pv
		}
		for r := 0; r < 4; r++ {
			if r == col {
				continue
			}
			factor := aug[r][col]
			for c := 0; c < 8; c++ {
				aug[r][c] -= factor * aug[col][c]
			}
		}
	}

	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[c][r] = aug[r][4+c]
		}
	}
	return out
}

// HashInto folds m column-major, row within column, the same order the
// struct is declared in.
func (m Matrix4) HashInto(d *hash.Digest) {
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			d.WriteFloat32(m[c][r])
		}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sincos(angle float32) (s, c float32) {
	sf, cf := math.Sincos(float64(angle))
	return float32(sf), float32(cf)
}
