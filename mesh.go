package keystone

import "math"

// Mesh resolution bounds. Cols is a single user-facing "detail" knob;
// anything outside this range is clamped rather than rejected.
const (
	MinMeshCols = 1
	MaxMeshCols = 128
)

// MeshGrid computes the mesh dimensions for a source of the given pixel
// size. Cols is the resolution parameter clamped to [MinMeshCols,
// MaxMeshCols]; rows is derived so that cells stay roughly square
// regardless of the source aspect ratio, keeping warp fidelity uniform in
// both axes:
//
//	rows = round(cols * srcH / srcW), minimum 1
func MeshGrid(cols, srcW, srcH int) (int, int) {
	if cols < MinMeshCols {
		cols = MinMeshCols
	}
	if cols > MaxMeshCols {
		cols = MaxMeshCols
	}
	if srcW <= 0 || srcH <= 0 {
		return cols, 1
	}
	rows := int(math.Round(float64(cols) * float64(srcH) / float64(srcW)))
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}
