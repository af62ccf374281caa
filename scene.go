package keystone

// DefaultResolution is the mesh resolution a fresh scene starts with.
const DefaultResolution = 16

// Scene is the explicit, host-owned description of everything the
// renderer draws: the destination quad for the full-surface warp, the mesh
// resolution knob, the primary media attachment, the shape list and the
// current selection. The renderer itself keeps no state across frames, so
// the host mutates the scene freely between renders (including every frame
// during a drag).
//
// Scene is not safe for concurrent use; all mutation and rendering are
// expected to happen on a single control thread.
type Scene struct {
	// Quad holds the four destination corners in normalized coordinates.
	// Mutated only by direct corner edits or a calibration load.
	Quad Quad

	// Resolution drives MeshGrid's column count.
	Resolution int

	source   Media
	shapes   []Shape
	selected ShapeID
}

// NewScene creates a scene with the identity quad, default resolution, no
// media and no shapes.
func NewScene() *Scene {
	return &Scene{
		Quad:       UnitQuad(),
		Resolution: DefaultResolution,
	}
}

// ResetQuad restores the identity (unit square) quad.
func (s *Scene) ResetQuad() {
	s.Quad = UnitQuad()
}

// Source returns the primary media attachment, or nil.
func (s *Scene) Source() Media { return s.source }

// SetSource attaches primary media, closing any previous attachment first.
// Passing nil detaches.
func (s *Scene) SetSource(m Media) {
	if s.source != nil {
		_ = s.source.Close()
	}
	s.source = m
}

// Shapes returns the shape list in draw (append) order. The slice is owned
// by the scene.
func (s *Scene) Shapes() []Shape { return s.shapes }

// AddShape appends a shape to the scene and selects it.
func (s *Scene) AddShape(sh Shape) {
	s.shapes = append(s.shapes, sh)
	s.selected = sh.ID()
}

// RemoveShape removes the shape with the given id, closing its media.
// Removing the selected shape clears the selection. Unknown ids are
// ignored.
func (s *Scene) RemoveShape(id ShapeID) {
	for i, sh := range s.shapes {
		if sh.ID() != id {
			continue
		}
		sh.SetMedia(nil)
		s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
		if s.selected == id {
			s.selected = 0
		}
		return
	}
}

// ShapeByID returns the shape with the given id, or nil.
func (s *Scene) ShapeByID(id ShapeID) Shape {
	for _, sh := range s.shapes {
		if sh.ID() == id {
			return sh
		}
	}
	return nil
}

// Select marks the shape with the given id as selected. At most one shape
// is selected at a time. Selecting an unknown id clears the selection.
func (s *Scene) Select(id ShapeID) {
	if s.ShapeByID(id) == nil {
		s.selected = 0
		return
	}
	s.selected = id
}

// Deselect clears the selection.
func (s *Scene) Deselect() {
	s.selected = 0
}

// Selected returns the currently selected shape, or nil.
func (s *Scene) Selected() Shape {
	if s.selected == 0 {
		return nil
	}
	return s.ShapeByID(s.selected)
}

// Close detaches and closes all media held by the scene.
func (s *Scene) Close() error {
	s.SetSource(nil)
	for _, sh := range s.shapes {
		sh.SetMedia(nil)
	}
	return nil
}

// NeedsContinuousRedraw reports whether any media attached to the scene is
// live, meaning the host must drive the render pass once per display
// refresh. The host owns the actual scheduler; this predicate tells it
// when to start and stop.
func NeedsContinuousRedraw(s *Scene) bool {
	if s == nil {
		return false
	}
	if s.source != nil && s.source.Live() {
		return true
	}
	for _, sh := range s.shapes {
		if m := sh.Media(); m != nil && m.Live() {
			return true
		}
	}
	return false
}
