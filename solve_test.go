package keystone

import (
	"errors"
	"math"
	"testing"
)

func TestSolveTriangleCorrespondence(t *testing.T) {
	tests := []struct {
		name string
		src  [3]Point
		dst  [3]Point
	}{
		{
			"identity",
			[3]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)},
			[3]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)},
		},
		{
			"translation",
			[3]Point{Pt(0, 0), Pt(10, 0), Pt(0, 10)},
			[3]Point{Pt(5, -3), Pt(15, -3), Pt(5, 7)},
		},
		{
			"scale",
			[3]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)},
			[3]Point{Pt(0, 0), Pt(256, 0), Pt(0, 128)},
		},
		{
			"rotation 90",
			[3]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)},
			[3]Point{Pt(0, 0), Pt(0, 1), Pt(-1, 0)},
		},
		{
			"shear and flip",
			[3]Point{Pt(2, 3), Pt(7, 3), Pt(2, 9)},
			[3]Point{Pt(-1, 4), Pt(3, 1), Pt(0, -6)},
		},
		{
			"mesh cell scale",
			[3]Point{Pt(64, 64), Pt(128, 64), Pt(64, 128)},
			[3]Point{Pt(102.4, 96.0), Pt(166.1, 90.2), Pt(98.7, 161.3)},
		},
	}

	const epsilon = 1e-6
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := SolveTriangle(tt.src, tt.dst)
			if err != nil {
				t.Fatalf("SolveTriangle() error = %v", err)
			}
			for k := 0; k < 3; k++ {
				got := m.TransformPoint(tt.src[k])
				if got.Distance(tt.dst[k]) > epsilon {
					t.Errorf("T(src[%d]) = %v, want %v (diff %e)",
						k, got, tt.dst[k], got.Distance(tt.dst[k]))
				}
			}
		})
	}
}

func TestSolveTriangleIdentity(t *testing.T) {
	src := [3]Point{Pt(0, 0), Pt(100, 0), Pt(0, 100)}
	m, err := SolveTriangle(src, src)
	if err != nil {
		t.Fatalf("SolveTriangle() error = %v", err)
	}

	const epsilon = 1e-9
	id := Identity()
	for _, pair := range [][2]float64{
		{m.A, id.A}, {m.B, id.B}, {m.C, id.C},
		{m.D, id.D}, {m.E, id.E}, {m.F, id.F},
	} {
		if math.Abs(pair[0]-pair[1]) > epsilon {
			t.Fatalf("SolveTriangle(src, src) = %+v, want identity", m)
		}
	}
}

func TestSolveTriangleDegenerate(t *testing.T) {
	tests := []struct {
		name string
		src  [3]Point
	}{
		{"all coincident", [3]Point{Pt(1, 1), Pt(1, 1), Pt(1, 1)}},
		{"two coincident", [3]Point{Pt(0, 0), Pt(0, 0), Pt(1, 1)}},
		{"collinear horizontal", [3]Point{Pt(0, 5), Pt(1, 5), Pt(2, 5)}},
		{"collinear diagonal", [3]Point{Pt(0, 0), Pt(1, 1), Pt(2, 2)}},
		{"nearly collinear", [3]Point{Pt(0, 0), Pt(1, 0), Pt(2, 1e-15)}},
	}

	dst := [3]Point{Pt(0, 0), Pt(10, 0), Pt(0, 10)}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Must not panic and must report the degeneracy.
			m, err := SolveTriangle(tt.src, dst)
			if !errors.Is(err, ErrDegenerateTriangle) {
				t.Fatalf("SolveTriangle() error = %v, want ErrDegenerateTriangle", err)
			}
			for _, v := range []float64{m.A, m.B, m.C, m.D, m.E, m.F} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("SolveTriangle() = %+v, want finite coefficients", m)
				}
			}
		})
	}
}

func TestSolveTriangleDegenerateDestinationOK(t *testing.T) {
	// Only the source side determines the system's rank: collapsing the
	// destination is a legal (area-destroying) affine map.
	src := [3]Point{Pt(0, 0), Pt(1, 0), Pt(0, 1)}
	dst := [3]Point{Pt(5, 5), Pt(5, 5), Pt(5, 5)}
	m, err := SolveTriangle(src, dst)
	if err != nil {
		t.Fatalf("SolveTriangle() error = %v", err)
	}
	if got := m.TransformPoint(Pt(0.3, 0.3)); got.Distance(Pt(5, 5)) > 1e-9 {
		t.Errorf("T(interior) = %v, want (5,5)", got)
	}
}
