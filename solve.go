package keystone

import (
	"errors"
	"math"
)

// ErrDegenerateTriangle indicates the three source points are collinear
// (or nearly so), leaving the affine system singular. SolveTriangle still
// returns a matrix in this case, with the unresolvable coefficients left
// at zero; callers decide whether to use or skip it.
var ErrDegenerateTriangle = errors.New("keystone: degenerate source triangle")

// pivotEpsilon is the pivot magnitude below which an elimination step is
// treated as already eliminated.
const pivotEpsilon = 1e-12

// SolveTriangle computes the unique affine transform mapping the three
// source points onto the three destination points:
//
//	T(src[k]) == dst[k]  for k in 0..2
//
// The six coefficients are found by Gaussian elimination with partial
// pivoting on the 6x6 system
//
//	| sx sy 1  0  0  0 | |A|   |dx|
//	| 0  0  0  sx sy 1 | |B| = |dy|   (one pair of rows per correspondence)
//	...                  ...
//
// When a pivot falls below pivotEpsilon the source points are collinear;
// the step is skipped, the corresponding coefficient solves to zero, and
// ErrDegenerateTriangle is returned together with the degraded matrix.
// Solving never panics, whatever the input.
func SolveTriangle(src, dst [3]Point) (Matrix, error) {
	// Augmented 6x7 system: columns 0..5 are coefficients A,B,C,D,E,F,
	// column 6 is the target.
	var a [6][7]float64
	for k := 0; k < 3; k++ {
		a[2*k] = [7]float64{src[k].X, src[k].Y, 1, 0, 0, 0, dst[k].X}
		a[2*k+1] = [7]float64{0, 0, 0, src[k].X, src[k].Y, 1, dst[k].Y}
	}

	degenerate := false

	// Forward elimination with partial pivoting.
	for col := 0; col < 6; col++ {
		pivot := col
		for row := col + 1; row < 6; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < pivotEpsilon {
			degenerate = true
			continue
		}
		a[col], a[pivot] = a[pivot], a[col]

		for row := col + 1; row < 6; row++ {
			factor := a[row][col] / a[col][col]
			if factor == 0 {
				continue
			}
			for j := col; j < 7; j++ {
				a[row][j] -= factor * a[col][j]
			}
		}
	}

	// Back substitution. Skipped pivots leave their coefficient at zero.
	var x [6]float64
	for i := 5; i >= 0; i-- {
		if math.Abs(a[i][i]) < pivotEpsilon {
			x[i] = 0
			continue
		}
		sum := a[i][6]
		for j := i + 1; j < 6; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
	}

	m := Matrix{A: x[0], B: x[1], C: x[2], D: x[3], E: x[4], F: x[5]}
	if degenerate {
		return m, ErrDegenerateTriangle
	}
	return m, nil
}
