package keystone

import "math"

// InterpolationMode defines how source sampling is performed when warping.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	// Fast but produces blocky results when scaling.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between 4 neighboring
	// pixels. Good balance between quality and performance.
	InterpBilinear
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	default:
		return "Unknown"
	}
}

// coverEpsilon is the slack applied to the triangle edge functions so that
// pixel centers lying exactly on a shared cell diagonal count as covered by
// both triangles. Without it the two halves of a mesh cell leave a one-pixel
// seam along the diagonal.
const coverEpsilon = 1e-9

// inTriangle reports whether point (x, y) lies inside the triangle,
// inclusive of the edges. Works for both winding orders, which matters
// because a warped (flipped or self-intersecting) quad can reverse a cell
// triangle's orientation.
func inTriangle(tri [3]Point, x, y float64) bool {
	p := Pt(x, y)
	d0 := tri[1].Sub(tri[0]).Cross(p.Sub(tri[0]))
	d1 := tri[2].Sub(tri[1]).Cross(p.Sub(tri[1]))
	d2 := tri[0].Sub(tri[2]).Cross(p.Sub(tri[2]))

	hasNeg := d0 < -coverEpsilon || d1 < -coverEpsilon || d2 < -coverEpsilon
	hasPos := d0 > coverEpsilon || d1 > coverEpsilon || d2 > coverEpsilon
	return !(hasNeg && hasPos)
}

// triangleBounds returns the triangle's bounding box as inclusive pixel
// coordinates clamped to the destination surface. ok is false when the
// triangle lies entirely outside the surface.
func triangleBounds(dst *Pixmap, tri [3]Point) (x0, y0, x1, y1 int, ok bool) {
	minX := math.Min(tri[0].X, math.Min(tri[1].X, tri[2].X))
	minY := math.Min(tri[0].Y, math.Min(tri[1].Y, tri[2].Y))
	maxX := math.Max(tri[0].X, math.Max(tri[1].X, tri[2].X))
	maxY := math.Max(tri[0].Y, math.Max(tri[1].Y, tri[2].Y))

	x0 = clampInt(int(math.Floor(minX)), 0, dst.width-1)
	y0 = clampInt(int(math.Floor(minY)), 0, dst.height-1)
	x1 = clampInt(int(math.Ceil(maxX)), 0, dst.width-1)
	y1 = clampInt(int(math.Ceil(maxY)), 0, dst.height-1)

	if maxX < 0 || maxY < 0 || minX > float64(dst.width) || minY > float64(dst.height) {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

// clipFunc restricts rasterization to an arbitrary region. A nil clipFunc
// means no extra clipping beyond the triangle itself.
type clipFunc func(x, y int) bool

// rasterizeTriangle fills the destination triangle by sampling src through
// the forward transform fwd: every covered destination pixel center is
// inverse-mapped into source space and sampled with the given interpolation
// mode. Out-of-source samples clamp to the nearest edge pixel. Pixels are
// written opaque (copied, not blended), matching append compositing.
//
// A non-invertible fwd (the degenerate-solve path) draws nothing; the
// caller logs and moves on. rasterizeTriangle never fails.
func rasterizeTriangle(dst, src *Pixmap, tri [3]Point, fwd Matrix, interp InterpolationMode, clip clipFunc) {
	inv, ok := fwd.Invert()
	if !ok {
		return
	}
	x0, y0, x1, y1, ok := triangleBounds(dst, tri)
	if !ok {
		return
	}

	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			cx := float64(x) + 0.5
			if !inTriangle(tri, cx, cy) {
				continue
			}
			if clip != nil && !clip(x, y) {
				continue
			}
			sp := inv.TransformPoint(Pt(cx, cy))
			r, g, b, a := samplePixel(src, sp.X, sp.Y, interp)
			dst.setRGBA8(x, y, r, g, b, a)
		}
	}
}

// fillTriangle fills the destination triangle with a solid color, using the
// same coverage rule as rasterizeTriangle.
func fillTriangle(dst *Pixmap, tri [3]Point, c RGBA) {
	x0, y0, x1, y1, ok := triangleBounds(dst, tri)
	if !ok {
		return
	}

	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for y := y0; y <= y1; y++ {
		cy := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			if !inTriangle(tri, float64(x)+0.5, cy) {
				continue
			}
			dst.setRGBA8(x, y, r, g, b, a)
		}
	}
}

// samplePixel samples src at continuous pixel coordinates (x, y).
func samplePixel(src *Pixmap, x, y float64, mode InterpolationMode) (r, g, b, a uint8) {
	if mode == InterpNearest {
		return sampleNearest(src, x, y)
	}
	return sampleBilinear(src, x, y)
}

// sampleNearest selects the pixel containing the coordinate, clamped to
// the image edge.
func sampleNearest(src *Pixmap, x, y float64) (r, g, b, a uint8) {
	xi := clampInt(int(math.Floor(x)), 0, src.width-1)
	yi := clampInt(int(math.Floor(y)), 0, src.height-1)
	return src.getRGBA8(xi, yi)
}

// sampleBilinear interpolates between the 4 pixels neighboring the
// coordinate, clamped to the image edge. Results are rounded so that
// sampling exactly at a pixel center reproduces the pixel byte-exactly.
func sampleBilinear(src *Pixmap, x, y float64) (r, g, b, a uint8) {
	fx := x - 0.5
	fy := y - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clampInt(x0+1, 0, src.width-1)
	y1 := clampInt(y0+1, 0, src.height-1)
	x0 = clampInt(x0, 0, src.width-1)
	y0 = clampInt(y0, 0, src.height-1)

	r00, g00, b00, a00 := src.getRGBA8(x0, y0)
	r10, g10, b10, a10 := src.getRGBA8(x1, y0)
	r01, g01, b01, a01 := src.getRGBA8(x0, y1)
	r11, g11, b11, a11 := src.getRGBA8(x1, y1)

	r = uint8(lerp2D(float64(r00), float64(r10), float64(r01), float64(r11), tx, ty) + 0.5)
	g = uint8(lerp2D(float64(g00), float64(g10), float64(g01), float64(g11), tx, ty) + 0.5)
	b = uint8(lerp2D(float64(b00), float64(b10), float64(b01), float64(b11), tx, ty) + 0.5)
	a = uint8(lerp2D(float64(a00), float64(a10), float64(a01), float64(a11), tx, ty) + 0.5)
	return r, g, b, a
}

// lerp2D performs bilinear interpolation between four corner values.
func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	top := v00 + (v10-v00)*tx
	bottom := v01 + (v11-v01)*tx
	return top + (bottom-top)*ty
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
