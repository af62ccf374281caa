package keystone

import "sync/atomic"

// ShapeID is a stable identity for a shape within a scene. The zero value
// never identifies a shape.
type ShapeID uint64

var lastShapeID atomic.Uint64

func nextShapeID() ShapeID {
	return ShapeID(lastShapeID.Add(1))
}

// Shape is a secondary media attachment drawn on top of the full-surface
// warp. Geometry is in normalized coordinates, same space as the Quad.
// Shapes are mutually independent; the concrete variants are
// TriangleShape, RectShape and CircleShape.
type Shape interface {
	// ID returns the shape's stable identity.
	ID() ShapeID

	// Media returns the attached media, or nil.
	Media() Media

	// SetMedia attaches media to the shape, closing any previous
	// attachment first. Passing nil detaches.
	SetMedia(Media)
}

// baseShape carries the identity and media attachment shared by all
// variants.
type baseShape struct {
	id    ShapeID
	media Media
}

func (b *baseShape) ID() ShapeID  { return b.id }
func (b *baseShape) Media() Media { return b.media }

func (b *baseShape) SetMedia(m Media) {
	if b.media != nil {
		_ = b.media.Close()
	}
	b.media = m
}

// TriangleShape is a 3-point shape. Its media is placed cover-fit into the
// triangle's bounding box and clipped to the triangle; no mesh warp is
// involved.
type TriangleShape struct {
	baseShape
	P0, P1, P2 Point
}

// NewTriangleShape creates a triangle shape with a fresh identity.
func NewTriangleShape(p0, p1, p2 Point) *TriangleShape {
	return &TriangleShape{baseShape: baseShape{id: nextShapeID()}, P0: p0, P1: p1, P2: p2}
}

// RectShape is a 4-point shape with Quad winding. Its media goes through
// the same mesh warp pipeline as the full surface, so a dragged rectangle
// gets the same keystone-style correction.
type RectShape struct {
	baseShape
	Quad Quad
}

// NewRectShape creates a rectangle shape with a fresh identity.
func NewRectShape(q Quad) *RectShape {
	return &RectShape{baseShape: baseShape{id: nextShapeID()}, Quad: q}
}

// CircleShape is a center-and-radius shape. Its media is placed cover-fit
// over the circle's bounding square and clipped to the circle. The radius
// is normalized against the shorter output edge.
type CircleShape struct {
	baseShape
	Center Point
	Radius float64
}

// NewCircleShape creates a circle shape with a fresh identity.
func NewCircleShape(center Point, radius float64) *CircleShape {
	return &CircleShape{baseShape: baseShape{id: nextShapeID()}, Center: center, Radius: radius}
}
