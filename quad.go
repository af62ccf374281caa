package keystone

// Quad is an ordered 4-point polygon defining the destination of a warp.
//
// The winding order {TopLeft, TopRight, BottomRight, BottomLeft} is
// load-bearing: Map interpolates along the top and bottom edges and then
// between them, so reordering the corners silently produces a different
// (and incorrect) warp. A Quad may be non-convex or self-intersecting;
// every method stays total over such inputs.
type Quad struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// UnitQuad returns the identity quad covering the unit square.
func UnitQuad() Quad {
	return Quad{
		TopLeft:     Pt(0, 0),
		TopRight:    Pt(1, 0),
		BottomRight: Pt(1, 1),
		BottomLeft:  Pt(0, 1),
	}
}

// QuadFromCorners builds a Quad from four corners in winding order
// {top-left, top-right, bottom-right, bottom-left}.
func QuadFromCorners(corners [4]Point) Quad {
	return Quad{
		TopLeft:     corners[0],
		TopRight:    corners[1],
		BottomRight: corners[2],
		BottomLeft:  corners[3],
	}
}

// Corners returns the four corners in winding order.
func (q Quad) Corners() [4]Point {
	return [4]Point{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// Map maps a point in the unit square to a point inside the quad by
// bilinear interpolation: along the top edge, along the bottom edge, then
// between the two. It is exact at the four corners and along the straight
// edges; interior points deviate from a true homography. This is the
// accepted approximation, refined by mesh density rather than projective
// math.
//
// u and v are not clamped; the function is total over all reals.
func (q Quad) Map(u, v float64) Point {
	top := q.TopLeft.Lerp(q.TopRight, u)
	bottom := q.BottomLeft.Lerp(q.BottomRight, u)
	return top.Lerp(bottom, v)
}

// Bounds returns the axis-aligned bounding box of the four corners as
// (min, max) points.
func (q Quad) Bounds() (min, max Point) {
	min, max = q.TopLeft, q.TopLeft
	for _, p := range [3]Point{q.TopRight, q.BottomRight, q.BottomLeft} {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// Scale returns the quad with every corner multiplied component-wise by
// (sx, sy). Used to take normalized corners into pixel space.
func (q Quad) Scale(sx, sy float64) Quad {
	s := func(p Point) Point { return Pt(p.X*sx, p.Y*sy) }
	return Quad{
		TopLeft:     s(q.TopLeft),
		TopRight:    s(q.TopRight),
		BottomRight: s(q.BottomRight),
		BottomLeft:  s(q.BottomLeft),
	}
}
